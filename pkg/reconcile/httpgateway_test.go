package reconcile

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gridbase/gridbase/internal/types"
)

func TestHTTPGatewayFetchTablePaginates(t *testing.T) {
	var cursors []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("cookie_session")
		require.NoError(t, err)
		require.Equal(t, "s3cret", cookie.Value)

		switch r.URL.Path {
		case "/api/tables/7":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"id":   7,
				"name": "Tasks",
				"columns": []map[string]interface{}{
					{"id": 10, "name": "Name", "type": "TEXT", "order": 0},
				},
			})
		case "/api/tables/7/records":
			cursors = append(cursors, r.URL.Query().Get("cursor"))
			if r.URL.Query().Get("cursor") == "" {
				_ = json.NewEncoder(w).Encode(map[string]interface{}{
					"items": []map[string]interface{}{
						{"id": 1, "data": map[string]interface{}{"10": "A"}},
					},
					"nextCursor": 2,
				})
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"items": []map[string]interface{}{
					{"id": 2, "data": map[string]interface{}{"10": 3.5}},
				},
				"nextCursor": nil,
			})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	gw := NewHTTPGateway(srv.URL+"/api", "s3cret")
	snap, err := gw.FetchTable(context.Background(), 7)
	require.NoError(t, err)

	require.Equal(t, []string{"", "2"}, cursors)
	require.Len(t, snap.Columns, 1)
	require.Equal(t, ColumnResult{ID: 10, Name: "Name", Type: types.ColumnTypeText}, snap.Columns[0])
	require.Len(t, snap.Rows, 2)
	require.Equal(t, Text("A"), snap.Rows[0].Cells[10])
	require.Equal(t, Number(3.5), snap.Rows[1].Cells[10])
}

func TestHTTPGatewayUpdateRecordWireFormat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/api/records/9", r.URL.Path)

		var body struct {
			Values map[string]interface{} `json:"values"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "hello", body.Values["10"])
		require.Nil(t, body.Values["11"])

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":   9,
			"data": map[string]interface{}{"10": "hello", "11": nil},
		})
	}))
	defer srv.Close()

	gw := NewHTTPGateway(srv.URL+"/api", "s")
	res, err := gw.UpdateRecord(context.Background(), 9, map[uint64]Cell{10: Text("hello"), 11: Null})
	require.NoError(t, err)
	require.Equal(t, uint64(9), res.ID)
	require.Equal(t, Text("hello"), res.Cells[10])
	require.Equal(t, Null, res.Cells[11])
}

func TestHTTPGatewayMapsErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  404,
			"message": "Record not found",
			"ok":      false,
		})
	}))
	defer srv.Close()

	gw := NewHTTPGateway(srv.URL+"/api", "s")
	err := gw.DeleteRecord(context.Background(), 42)
	require.Error(t, err)
	require.ErrorIs(t, err, types.ErrNotFound)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusNotFound, apiErr.Status)
	require.Equal(t, "Record not found", apiErr.Message)
}

func TestHTTPGatewayColumnRoutes(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id": 11, "name": "Notes", "type": "NUMBER", "order": 1,
		})
	}))
	defer srv.Close()

	gw := NewHTTPGateway(srv.URL+"/api", "s")
	ctx := context.Background()

	_, err := gw.CreateColumn(ctx, 7, "Notes", types.ColumnTypeNumber)
	require.NoError(t, err)
	_, err = gw.RenameColumn(ctx, 11, "Amount")
	require.NoError(t, err)
	col, err := gw.SetColumnType(ctx, 11, types.ColumnTypeNumber)
	require.NoError(t, err)
	require.Equal(t, types.ColumnTypeNumber, col.Type)
	require.NoError(t, gw.DeleteColumn(ctx, 11))

	require.Equal(t, []string{
		"POST /api/tables/7/columns",
		"PUT /api/columns/11",
		"PUT /api/columns/11/type",
		"DELETE /api/columns/11",
	}, paths)
}
