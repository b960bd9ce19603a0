package reconcile

import (
	"context"

	"github.com/gridbase/gridbase/internal/types"
)

// Gateway is the server side of the engine: every view mutation maps to
// exactly one call here. Implementations must be safe for concurrent use;
// the view issues calls from short-lived goroutines.
type Gateway interface {
	// FetchTable returns the table's full current state: the ordered
	// column catalog and every row in ascending id order.
	FetchTable(ctx context.Context, tableID uint64) (Snapshot, error)

	CreateRecord(ctx context.Context, tableID uint64) (RowResult, error)
	UpdateRecord(ctx context.Context, recordID uint64, values map[uint64]Cell) (RowResult, error)
	DeleteRecord(ctx context.Context, recordID uint64) error

	CreateColumn(ctx context.Context, tableID uint64, name string, typ types.ColumnType) (ColumnResult, error)
	RenameColumn(ctx context.Context, columnID uint64, name string) (ColumnResult, error)
	SetColumnType(ctx context.Context, columnID uint64, typ types.ColumnType) (ColumnResult, error)
	DeleteColumn(ctx context.Context, columnID uint64) error
}

// ColumnResult is the canonical state of one column as the server returned it.
type ColumnResult struct {
	ID    uint64
	Name  string
	Type  types.ColumnType
	Order int
}

// RowResult is the canonical state of one row. Cells are keyed by column id.
type RowResult struct {
	ID    uint64
	Cells map[uint64]Cell
}

// Snapshot is a full server-side read of a table. Columns are in display
// order; Rows are in ascending id order, which is the pinned render order.
type Snapshot struct {
	Columns []ColumnResult
	Rows    []RowResult
}
