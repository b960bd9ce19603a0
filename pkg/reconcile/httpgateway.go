package reconcile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gridbase/gridbase/internal/types"
)

// APIError is a non-2xx answer from the server, carrying its error
// envelope. It unwraps to the matching sentinel so callers can use
// errors.Is against types.ErrNotFound and friends.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusBadRequest:
		return types.ErrInvalidInput
	case http.StatusUnauthorized:
		return types.ErrUnauthorized
	case http.StatusNotFound:
		return types.ErrNotFound
	case http.StatusConflict:
		return types.ErrConflict
	}
	return nil
}

// HTTPGateway is the Gateway over the server's REST surface. Safe for
// concurrent use.
type HTTPGateway struct {
	base    string
	session string
	client  *http.Client
}

// HTTPOption configures an HTTPGateway.
type HTTPOption func(*HTTPGateway)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(g *HTTPGateway) { g.client = c }
}

// NewHTTPGateway makes a gateway for an API root such as
// "http://localhost:3000/api". session is the caller's cookie_session
// value; every request carries it.
func NewHTTPGateway(baseURL, session string, opts ...HTTPOption) *HTTPGateway {
	g := &HTTPGateway{
		base:    strings.TrimRight(baseURL, "/"),
		session: session,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Wire shapes mirror the server's JSON.

type wireColumn struct {
	ID    uint64           `json:"id"`
	Name  string           `json:"name"`
	Type  types.ColumnType `json:"type"`
	Order int              `json:"order"`
}

type wireTable struct {
	ID      uint64       `json:"id"`
	Name    string       `json:"name"`
	Columns []wireColumn `json:"columns"`
}

type wireRecord struct {
	ID   uint64                 `json:"id"`
	Data map[string]interface{} `json:"data"`
}

type wirePage struct {
	Items      []wireRecord `json:"items"`
	NextCursor *uint64      `json:"nextCursor"`
}

func (c wireColumn) result() ColumnResult {
	return ColumnResult{ID: c.ID, Name: c.Name, Type: c.Type, Order: c.Order}
}

func (r wireRecord) result() RowResult {
	cells := make(map[uint64]Cell, len(r.Data))
	for key, val := range r.Data {
		colID, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			continue
		}
		cells[colID] = fromWire(val)
	}
	return RowResult{ID: r.ID, Cells: cells}
}

// FetchTable reads the catalog, then pages through every record.
func (g *HTTPGateway) FetchTable(ctx context.Context, tableID uint64) (Snapshot, error) {
	var table wireTable
	if err := g.do(ctx, http.MethodGet, fmt.Sprintf("/tables/%d", tableID), nil, &table); err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{Columns: make([]ColumnResult, 0, len(table.Columns))}
	for _, c := range table.Columns {
		snap.Columns = append(snap.Columns, c.result())
	}

	var cursor *uint64
	for {
		path := fmt.Sprintf("/tables/%d/records", tableID)
		if cursor != nil {
			path += "?cursor=" + strconv.FormatUint(*cursor, 10)
		}
		var page wirePage
		if err := g.do(ctx, http.MethodGet, path, nil, &page); err != nil {
			return Snapshot{}, err
		}
		for _, r := range page.Items {
			snap.Rows = append(snap.Rows, r.result())
		}
		if page.NextCursor == nil {
			break
		}
		cursor = page.NextCursor
	}
	return snap, nil
}

func (g *HTTPGateway) CreateRecord(ctx context.Context, tableID uint64) (RowResult, error) {
	var rec wireRecord
	err := g.do(ctx, http.MethodPost, fmt.Sprintf("/tables/%d/records", tableID), nil, &rec)
	if err != nil {
		return RowResult{}, err
	}
	return rec.result(), nil
}

func (g *HTTPGateway) UpdateRecord(ctx context.Context, recordID uint64, values map[uint64]Cell) (RowResult, error) {
	wire := make(map[string]interface{}, len(values))
	for colID, val := range values {
		wire[strconv.FormatUint(colID, 10)] = val.wire()
	}
	body := map[string]interface{}{"values": wire}

	var rec wireRecord
	err := g.do(ctx, http.MethodPatch, fmt.Sprintf("/records/%d", recordID), body, &rec)
	if err != nil {
		return RowResult{}, err
	}
	return rec.result(), nil
}

func (g *HTTPGateway) DeleteRecord(ctx context.Context, recordID uint64) error {
	return g.do(ctx, http.MethodDelete, fmt.Sprintf("/records/%d", recordID), nil, nil)
}

func (g *HTTPGateway) CreateColumn(ctx context.Context, tableID uint64, name string, typ types.ColumnType) (ColumnResult, error) {
	body := map[string]interface{}{"name": name, "type": typ}
	var col wireColumn
	err := g.do(ctx, http.MethodPost, fmt.Sprintf("/tables/%d/columns", tableID), body, &col)
	if err != nil {
		return ColumnResult{}, err
	}
	return col.result(), nil
}

func (g *HTTPGateway) RenameColumn(ctx context.Context, columnID uint64, name string) (ColumnResult, error) {
	body := map[string]interface{}{"name": name}
	var col wireColumn
	err := g.do(ctx, http.MethodPut, fmt.Sprintf("/columns/%d", columnID), body, &col)
	if err != nil {
		return ColumnResult{}, err
	}
	return col.result(), nil
}

func (g *HTTPGateway) SetColumnType(ctx context.Context, columnID uint64, typ types.ColumnType) (ColumnResult, error) {
	body := map[string]interface{}{"type": typ}
	var col wireColumn
	err := g.do(ctx, http.MethodPut, fmt.Sprintf("/columns/%d/type", columnID), body, &col)
	if err != nil {
		return ColumnResult{}, err
	}
	return col.result(), nil
}

func (g *HTTPGateway) DeleteColumn(ctx context.Context, columnID uint64) error {
	return g.do(ctx, http.MethodDelete, fmt.Sprintf("/columns/%d", columnID), nil, nil)
}

// do runs one request. A non-2xx answer becomes an *APIError built from
// the server's error envelope.
func (g *HTTPGateway) do(ctx context.Context, method, path string, body, out interface{}) error {
	var buf *bytes.Buffer
	if body != nil {
		buf = &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
	}

	var req *http.Request
	var err error
	if buf != nil {
		req, err = http.NewRequestWithContext(ctx, method, g.base+path, buf)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, g.base+path, nil)
	}
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if buf != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.AddCookie(&http.Cookie{Name: "cookie_session", Value: g.session})

	res, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var envelope struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(res.Body).Decode(&envelope)
		if envelope.Message == "" {
			envelope.Message = http.StatusText(res.StatusCode)
		}
		return &APIError{Status: res.StatusCode, Message: envelope.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
