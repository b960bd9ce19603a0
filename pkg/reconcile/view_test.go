package reconcile

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gridbase/gridbase/internal/types"
)

// fakeGateway scripts each method with a hook. Hooks run on the view's
// worker goroutines, so reads go through the mutex.
type fakeGateway struct {
	mu sync.Mutex

	fetch         func(tableID uint64) (Snapshot, error)
	createRecord  func(tableID uint64) (RowResult, error)
	updateRecord  func(recordID uint64, values map[uint64]Cell) (RowResult, error)
	deleteRecord  func(recordID uint64) error
	createColumn  func(tableID uint64, name string, typ types.ColumnType) (ColumnResult, error)
	renameColumn  func(columnID uint64, name string) (ColumnResult, error)
	setColumnType func(columnID uint64, typ types.ColumnType) (ColumnResult, error)
	deleteColumn  func(columnID uint64) error
}

var errUnscripted = errors.New("unscripted gateway call")

func (g *fakeGateway) FetchTable(_ context.Context, tableID uint64) (Snapshot, error) {
	g.mu.Lock()
	fn := g.fetch
	g.mu.Unlock()
	if fn == nil {
		return Snapshot{}, errUnscripted
	}
	return fn(tableID)
}

func (g *fakeGateway) CreateRecord(_ context.Context, tableID uint64) (RowResult, error) {
	g.mu.Lock()
	fn := g.createRecord
	g.mu.Unlock()
	if fn == nil {
		return RowResult{}, errUnscripted
	}
	return fn(tableID)
}

func (g *fakeGateway) UpdateRecord(_ context.Context, recordID uint64, values map[uint64]Cell) (RowResult, error) {
	g.mu.Lock()
	fn := g.updateRecord
	g.mu.Unlock()
	if fn == nil {
		return RowResult{}, errUnscripted
	}
	return fn(recordID, values)
}

func (g *fakeGateway) DeleteRecord(_ context.Context, recordID uint64) error {
	g.mu.Lock()
	fn := g.deleteRecord
	g.mu.Unlock()
	if fn == nil {
		return errUnscripted
	}
	return fn(recordID)
}

func (g *fakeGateway) CreateColumn(_ context.Context, tableID uint64, name string, typ types.ColumnType) (ColumnResult, error) {
	g.mu.Lock()
	fn := g.createColumn
	g.mu.Unlock()
	if fn == nil {
		return ColumnResult{}, errUnscripted
	}
	return fn(tableID, name, typ)
}

func (g *fakeGateway) RenameColumn(_ context.Context, columnID uint64, name string) (ColumnResult, error) {
	g.mu.Lock()
	fn := g.renameColumn
	g.mu.Unlock()
	if fn == nil {
		return ColumnResult{}, errUnscripted
	}
	return fn(columnID, name)
}

func (g *fakeGateway) SetColumnType(_ context.Context, columnID uint64, typ types.ColumnType) (ColumnResult, error) {
	g.mu.Lock()
	fn := g.setColumnType
	g.mu.Unlock()
	if fn == nil {
		return ColumnResult{}, errUnscripted
	}
	return fn(columnID, typ)
}

func (g *fakeGateway) DeleteColumn(_ context.Context, columnID uint64) error {
	g.mu.Lock()
	fn := g.deleteColumn
	g.mu.Unlock()
	if fn == nil {
		return errUnscripted
	}
	return fn(columnID)
}

func (g *fakeGateway) set(fn func(*fakeGateway)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fn(g)
}

// echoUpdate confirms updates with exactly the values sent, like the
// real server does for a single-cell patch.
func echoUpdate(recordID uint64, values map[uint64]Cell) (RowResult, error) {
	cells := make(map[uint64]Cell, len(values))
	for id, v := range values {
		cells[id] = v
	}
	return RowResult{ID: recordID, Cells: cells}, nil
}

func oneRowSnapshot() Snapshot {
	return Snapshot{
		Columns: []ColumnResult{{ID: 10, Name: "Name", Type: types.ColumnTypeText, Order: 0}},
		Rows:    []RowResult{{ID: 1, Cells: map[uint64]Cell{10: Text("A")}}},
	}
}

func loadedView(t *testing.T, gw *fakeGateway, snap Snapshot, opts ...Option) *View {
	t.Helper()
	gw.set(func(g *fakeGateway) {
		g.fetch = func(uint64) (Snapshot, error) { return snap, nil }
	})
	opts = append([]Option{WithoutAutoRefresh()}, opts...)
	v := NewView(context.Background(), gw, 7, opts...)
	require.NoError(t, v.Load(context.Background()))
	return v
}

func settle(t *testing.T, v *View) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, v.Settle(ctx))
}

func firstRow(t *testing.T, v *View) Ref {
	t.Helper()
	rows := v.Rows()
	require.NotEmpty(t, rows)
	return rows[0].Ref
}

func firstColumn(t *testing.T, v *View) Ref {
	t.Helper()
	cols := v.Columns()
	require.NotEmpty(t, cols)
	return cols[0].Ref
}

func cellValue(t *testing.T, v *View, row, col Ref) Cell {
	t.Helper()
	val, ok := v.Cell(row, col)
	require.True(t, ok)
	return val
}

func TestLoad(t *testing.T) {
	gw := &fakeGateway{}
	v := loadedView(t, gw, oneRowSnapshot())

	require.Equal(t, StateClean, v.State())
	cols := v.Columns()
	require.Len(t, cols, 1)
	require.Equal(t, uint64(10), cols[0].ID)
	require.Equal(t, "Name", cols[0].Name)

	rows := v.Rows()
	require.Len(t, rows, 1)
	require.Equal(t, uint64(1), rows[0].ID)
	require.Equal(t, Text("A"), cellValue(t, v, rows[0].Ref, cols[0].Ref))
}

func TestSetCellIsImmediateLocally(t *testing.T) {
	gw := &fakeGateway{}
	v := loadedView(t, gw, oneRowSnapshot())
	gw.set(func(g *fakeGateway) { g.updateRecord = echoUpdate })

	row, col := firstRow(t, v), firstColumn(t, v)
	v.SetCell(row, col, Text("B"))

	// Visible before any network result arrives.
	require.Equal(t, Text("B"), cellValue(t, v, row, col))
	require.Equal(t, StateDirty, v.State())

	settle(t, v)
	require.Equal(t, Text("B"), cellValue(t, v, row, col))
	require.Equal(t, StateClean, v.State())
	require.Zero(t, v.PendingEdits())
}

// The edit sequence A -> "AB" -> "ABC": when the "AB" mutation confirms
// after "ABC" was typed, the view must keep showing "ABC".
func TestNewerLocalEditWins(t *testing.T) {
	gw := &fakeGateway{}
	v := loadedView(t, gw, oneRowSnapshot())

	started := make(chan struct{}, 2)
	release := make(chan struct{})
	gw.set(func(g *fakeGateway) {
		g.updateRecord = func(recordID uint64, values map[uint64]Cell) (RowResult, error) {
			started <- struct{}{}
			<-release
			return echoUpdate(recordID, values)
		}
	})

	row, col := firstRow(t, v), firstColumn(t, v)
	v.SetCell(row, col, Text("AB"))
	v.SetCell(row, col, Text("ABC"))
	require.Equal(t, Text("ABC"), cellValue(t, v, row, col))

	<-started
	<-started
	close(release)
	settle(t, v)

	require.Equal(t, Text("ABC"), cellValue(t, v, row, col))
	require.Equal(t, StateClean, v.State())
}

func TestFailedEditRollsBackToPreEditValue(t *testing.T) {
	gw := &fakeGateway{}
	var failures []error
	v := loadedView(t, gw, oneRowSnapshot(), WithErrorHook(func(err error) {
		failures = append(failures, err)
	}))
	gw.set(func(g *fakeGateway) {
		g.updateRecord = func(uint64, map[uint64]Cell) (RowResult, error) {
			return RowResult{}, errors.New("boom")
		}
	})

	row, col := firstRow(t, v), firstColumn(t, v)
	v.SetCell(row, col, Text("B"))
	require.Equal(t, Text("B"), cellValue(t, v, row, col))

	settle(t, v)
	require.Equal(t, Text("A"), cellValue(t, v, row, col))
	require.Equal(t, StateClean, v.State())
	require.Len(t, failures, 1)
}

// A failing older mutation must not revert a field that was edited again
// after it was issued.
func TestFailedEditDoesNotRevertNewerEdit(t *testing.T) {
	gw := &fakeGateway{}
	v := loadedView(t, gw, oneRowSnapshot())
	gw.set(func(g *fakeGateway) {
		g.updateRecord = func(recordID uint64, values map[uint64]Cell) (RowResult, error) {
			if values[10] == Text("AB") {
				return RowResult{}, errors.New("boom")
			}
			return echoUpdate(recordID, values)
		}
	})

	row, col := firstRow(t, v), firstColumn(t, v)
	v.SetCell(row, col, Text("AB"))
	v.SetCell(row, col, Text("ABC"))

	settle(t, v)
	require.Equal(t, Text("ABC"), cellValue(t, v, row, col))
}

func TestAddRowSwapsTempIDAndFlushesQueuedEdits(t *testing.T) {
	gw := &fakeGateway{}
	v := loadedView(t, gw, oneRowSnapshot())

	created := make(chan struct{})
	var gotUpdate struct {
		sync.Mutex
		recordID uint64
	}
	gw.set(func(g *fakeGateway) {
		g.createRecord = func(uint64) (RowResult, error) {
			<-created
			return RowResult{ID: 2, Cells: map[uint64]Cell{10: Text("")}}, nil
		}
		g.updateRecord = func(recordID uint64, values map[uint64]Cell) (RowResult, error) {
			gotUpdate.Lock()
			gotUpdate.recordID = recordID
			gotUpdate.Unlock()
			return echoUpdate(recordID, values)
		}
	})

	col := firstColumn(t, v)
	row := v.AddRow()
	require.True(t, row.Valid())

	// The row renders and takes edits before the server answers.
	rows := v.Rows()
	require.Len(t, rows, 2)
	require.Zero(t, rows[1].ID)
	v.SetCell(row, col, Text("queued"))
	require.Equal(t, Text("queued"), cellValue(t, v, row, col))

	close(created)
	settle(t, v)

	rows = v.Rows()
	require.Len(t, rows, 2)
	require.Equal(t, uint64(2), rows[1].ID)
	require.Equal(t, Text("queued"), cellValue(t, v, row, col))
	gotUpdate.Lock()
	require.Equal(t, uint64(2), gotUpdate.recordID)
	gotUpdate.Unlock()
}

func TestAddRowFailureRemovesRow(t *testing.T) {
	gw := &fakeGateway{}
	v := loadedView(t, gw, oneRowSnapshot())
	gw.set(func(g *fakeGateway) {
		g.createRecord = func(uint64) (RowResult, error) {
			return RowResult{}, errors.New("boom")
		}
	})

	row := v.AddRow()
	require.Len(t, v.Rows(), 2)

	settle(t, v)
	require.Len(t, v.Rows(), 1)
	_, ok := v.Cell(row, firstColumn(t, v))
	require.False(t, ok)
	require.Equal(t, StateClean, v.State())
}

func TestDeleteTempRowRunsAfterCreateConfirms(t *testing.T) {
	gw := &fakeGateway{}
	v := loadedView(t, gw, oneRowSnapshot())

	var deleted struct {
		sync.Mutex
		id uint64
	}
	gw.set(func(g *fakeGateway) {
		g.createRecord = func(uint64) (RowResult, error) {
			return RowResult{ID: 5, Cells: map[uint64]Cell{10: Text("")}}, nil
		}
		g.deleteRecord = func(recordID uint64) error {
			deleted.Lock()
			deleted.id = recordID
			deleted.Unlock()
			return nil
		}
	})

	row := v.AddRow()
	v.DeleteRow(row)
	require.Len(t, v.Rows(), 1)

	settle(t, v)
	require.Len(t, v.Rows(), 1)
	deleted.Lock()
	require.Equal(t, uint64(5), deleted.id)
	deleted.Unlock()
}

func TestDeleteRowFailureRestoresRow(t *testing.T) {
	gw := &fakeGateway{}
	v := loadedView(t, gw, oneRowSnapshot())
	gw.set(func(g *fakeGateway) {
		g.deleteRecord = func(uint64) error { return errors.New("boom") }
	})

	row, col := firstRow(t, v), firstColumn(t, v)
	v.DeleteRow(row)
	require.Empty(t, v.Rows())

	settle(t, v)
	rows := v.Rows()
	require.Len(t, rows, 1)
	require.Equal(t, Text("A"), cellValue(t, v, row, col))
}

func TestAddColumnRetrofitsEveryRow(t *testing.T) {
	gw := &fakeGateway{}
	v := loadedView(t, gw, oneRowSnapshot())
	gw.set(func(g *fakeGateway) {
		g.createColumn = func(_ uint64, name string, typ types.ColumnType) (ColumnResult, error) {
			return ColumnResult{ID: 11, Name: name, Type: typ, Order: 1}, nil
		}
	})

	row := firstRow(t, v)
	col := v.AddColumn("Notes", types.ColumnTypeText)
	require.Equal(t, Text(""), cellValue(t, v, row, col))

	settle(t, v)
	cols := v.Columns()
	require.Len(t, cols, 2)
	require.Equal(t, uint64(11), cols[1].ID)
	require.Equal(t, Text(""), cellValue(t, v, row, col))
}

func TestDeleteColumnFailureRestoresCells(t *testing.T) {
	gw := &fakeGateway{}
	v := loadedView(t, gw, oneRowSnapshot())
	gw.set(func(g *fakeGateway) {
		g.deleteColumn = func(uint64) error { return errors.New("boom") }
	})

	row, col := firstRow(t, v), firstColumn(t, v)
	v.DeleteColumn(col)
	require.Empty(t, v.Columns())
	_, ok := v.Cell(row, col)
	require.False(t, ok)

	settle(t, v)
	require.Len(t, v.Columns(), 1)
	require.Equal(t, Text("A"), cellValue(t, v, row, col))
}

func TestSetColumnTypeCoercesLocalCells(t *testing.T) {
	snap := Snapshot{
		Columns: []ColumnResult{{ID: 10, Name: "Amount", Type: types.ColumnTypeText, Order: 0}},
		Rows: []RowResult{
			{ID: 1, Cells: map[uint64]Cell{10: Text("abc")}},
			{ID: 2, Cells: map[uint64]Cell{10: Number(4)}},
		},
	}
	gw := &fakeGateway{}
	v := loadedView(t, gw, snap)
	gw.set(func(g *fakeGateway) {
		g.setColumnType = func(columnID uint64, typ types.ColumnType) (ColumnResult, error) {
			return ColumnResult{ID: columnID, Name: "Amount", Type: typ}, nil
		}
	})

	col := firstColumn(t, v)
	rows := v.Rows()
	v.SetColumnType(col, types.ColumnTypeNumber)

	// Same rules as the server migration: text is discarded, not parsed.
	require.Equal(t, Null, cellValue(t, v, rows[0].Ref, col))
	require.Equal(t, Number(4), cellValue(t, v, rows[1].Ref, col))

	settle(t, v)
	require.Equal(t, types.ColumnTypeNumber, v.Columns()[0].Type)
	require.Equal(t, Null, cellValue(t, v, rows[0].Ref, col))
}

func TestSetColumnTypeFailureRestoresCells(t *testing.T) {
	gw := &fakeGateway{}
	v := loadedView(t, gw, oneRowSnapshot())
	gw.set(func(g *fakeGateway) {
		g.setColumnType = func(uint64, types.ColumnType) (ColumnResult, error) {
			return ColumnResult{}, errors.New("boom")
		}
	})

	row, col := firstRow(t, v), firstColumn(t, v)
	v.SetColumnType(col, types.ColumnTypeNumber)
	require.Equal(t, Null, cellValue(t, v, row, col))

	settle(t, v)
	require.Equal(t, types.ColumnTypeText, v.Columns()[0].Type)
	require.Equal(t, Text("A"), cellValue(t, v, row, col))
}

// A refresh resyncs structure but keeps the value of a field with a
// pending local edit.
func TestRefreshKeepsActivelyEditedField(t *testing.T) {
	gw := &fakeGateway{}
	v := loadedView(t, gw, oneRowSnapshot())

	release := make(chan struct{})
	started := make(chan struct{})
	gw.set(func(g *fakeGateway) {
		g.updateRecord = func(recordID uint64, values map[uint64]Cell) (RowResult, error) {
			close(started)
			<-release
			return echoUpdate(recordID, values)
		}
		g.fetch = func(uint64) (Snapshot, error) {
			return Snapshot{
				Columns: []ColumnResult{
					{ID: 10, Name: "Name", Type: types.ColumnTypeText, Order: 0},
					{ID: 11, Name: "Notes", Type: types.ColumnTypeText, Order: 1},
				},
				Rows: []RowResult{
					{ID: 1, Cells: map[uint64]Cell{10: Text("server"), 11: Text("n")}},
					{ID: 2, Cells: map[uint64]Cell{10: Text("x"), 11: Text("y")}},
				},
			}, nil
		}
	})

	row, col := firstRow(t, v), firstColumn(t, v)
	v.SetCell(row, col, Text("local"))
	<-started
	v.Refresh()

	// Apply exactly the refresh merge while the cell edit is in flight.
	(<-v.inbox)()

	require.Len(t, v.Columns(), 2)
	require.Len(t, v.Rows(), 2)
	require.Equal(t, Text("local"), cellValue(t, v, row, col))

	close(release)
	settle(t, v)
	require.Equal(t, Text("local"), cellValue(t, v, row, col))
	require.Equal(t, StateClean, v.State())
}

func TestRefreshDropsServerDeletedRow(t *testing.T) {
	snap := Snapshot{
		Columns: []ColumnResult{{ID: 10, Name: "Name", Type: types.ColumnTypeText, Order: 0}},
		Rows: []RowResult{
			{ID: 1, Cells: map[uint64]Cell{10: Text("A")}},
			{ID: 2, Cells: map[uint64]Cell{10: Text("B")}},
		},
	}
	gw := &fakeGateway{}
	v := loadedView(t, gw, snap)
	gw.set(func(g *fakeGateway) {
		g.fetch = func(uint64) (Snapshot, error) {
			return Snapshot{
				Columns: snap.Columns,
				Rows:    snap.Rows[:1],
			}, nil
		}
	})

	v.Refresh()
	settle(t, v)

	rows := v.Rows()
	require.Len(t, rows, 1)
	require.Equal(t, uint64(1), rows[0].ID)
}

func TestRowOrderIsPinned(t *testing.T) {
	gw := &fakeGateway{}
	v := loadedView(t, gw, oneRowSnapshot())

	var nextID uint64 = 1
	var mu sync.Mutex
	gw.set(func(g *fakeGateway) {
		g.createRecord = func(uint64) (RowResult, error) {
			mu.Lock()
			nextID++
			id := nextID
			mu.Unlock()
			return RowResult{ID: id, Cells: map[uint64]Cell{10: Text("")}}, nil
		}
	})

	first := v.AddRow()
	second := v.AddRow()
	rows := v.Rows()
	require.Len(t, rows, 3)
	require.Equal(t, first, rows[1].Ref)
	require.Equal(t, second, rows[2].Ref)

	settle(t, v)

	// Confirmations assign ids but never reorder what is on screen.
	rows = v.Rows()
	require.Len(t, rows, 3)
	require.Equal(t, uint64(1), rows[0].ID)
	require.Equal(t, first, rows[1].Ref)
	require.Equal(t, second, rows[2].Ref)
}

func TestStateTransitions(t *testing.T) {
	gw := &fakeGateway{}
	var seen []State
	v := loadedView(t, gw, oneRowSnapshot(), WithStateHook(func(s State) {
		seen = append(seen, s)
	}))
	gw.set(func(g *fakeGateway) { g.updateRecord = echoUpdate })

	v.SetCell(firstRow(t, v), firstColumn(t, v), Text("B"))
	settle(t, v)

	require.Equal(t, StateClean, v.State())
	require.Contains(t, seen, StateDirty)
	require.Contains(t, seen, StateReconciling)
	require.Equal(t, StateClean, seen[len(seen)-1])
}

func TestRenameColumnTouchesNameOnly(t *testing.T) {
	gw := &fakeGateway{}
	v := loadedView(t, gw, oneRowSnapshot())
	gw.set(func(g *fakeGateway) {
		g.renameColumn = func(columnID uint64, name string) (ColumnResult, error) {
			return ColumnResult{ID: columnID, Name: name, Type: types.ColumnTypeText}, nil
		}
	})

	row, col := firstRow(t, v), firstColumn(t, v)
	v.RenameColumn(col, "Title")
	require.Equal(t, "Title", v.Columns()[0].Name)

	settle(t, v)
	require.Equal(t, "Title", v.Columns()[0].Name)
	require.Equal(t, Text("A"), cellValue(t, v, row, col))
}
