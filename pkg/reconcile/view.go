package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gridbase/gridbase/internal/types"
)

// State is the view's position in its reconciliation cycle.
type State int

const (
	// StateClean means the view matches the last known server state.
	StateClean State = iota
	// StateDirty means local edits exist that the server has not confirmed.
	StateDirty
	// StateReconciling is the transient state while a server confirmation
	// is being merged in.
	StateReconciling
	// StateRollingBack is the transient state while a failed edit is being
	// reverted to its pre-edit value.
	StateRollingBack
)

func (s State) String() string {
	switch s {
	case StateClean:
		return "clean"
	case StateDirty:
		return "dirty"
	case StateReconciling:
		return "reconciling"
	case StateRollingBack:
		return "rollingBack"
	}
	return "unknown"
}

// Ref is a stable handle to one row or column of a view. It stays valid
// across the swap from a client-assigned temporary identity to the
// server-assigned id. The zero Ref is invalid.
type Ref struct {
	n uint64
}

// Valid reports whether the ref was issued by a view.
func (r Ref) Valid() bool { return r.n != 0 }

// attr names which field of a row or column a pending edit covers.
type attr uint8

const (
	attrCell attr = iota
	attrRow       // the row's existence
	attrCol       // the column's existence
	attrName
	attrType
)

// fieldKey identifies one editable field. Cell edits carry both refs,
// row existence only the row, column fields only the column.
type fieldKey struct {
	row Ref
	col Ref
	att attr
}

type rowState struct {
	ref      Ref
	serverID uint64 // 0 until the server confirms the create
	cells    map[Ref]Cell
	deferred []func() // mutations waiting for serverID
	dead     bool     // locally deleted
}

type colState struct {
	ref      Ref
	serverID uint64
	name     string
	typ      types.ColumnType
	deferred []func()
	dead     bool
}

// View is the optimistic state of one open table. It is owned by a single
// goroutine: all methods must be called from that goroutine, and server
// results only take effect when that goroutine calls Flush or Settle.
// Network calls never block the owner.
type View struct {
	ctx     context.Context
	gw      Gateway
	tableID uint64
	log     zerolog.Logger

	state   State
	onState func(State)
	onError func(error)

	autoRefresh  bool
	refreshing   bool
	refreshAgain bool

	nextRef uint64
	seq     uint64

	cols     []*colState
	rows     []*rowState
	colByRef map[Ref]*colState
	rowByRef map[Ref]*rowState
	colByID  map[uint64]*colState
	rowByID  map[uint64]*rowState

	// Pending edit ledger: last local edit sequence per field, plus the
	// fields' insertion order. Entries leave the ledger once confirmed.
	lastEdit map[fieldKey]uint64
	order    []fieldKey

	// lastWrite outlives confirmation: it is the sequence of the local
	// edit whose value currently stands, so a late result of an older
	// mutation can still be recognized as stale.
	lastWrite map[fieldKey]uint64

	inflight int
	inbox    chan func()
}

// Option configures a View.
type Option func(*View)

// WithLogger sets the view's logger.
func WithLogger(log zerolog.Logger) Option {
	return func(v *View) { v.log = log }
}

// WithStateHook observes every state transition, including the transient
// Reconciling and RollingBack states.
func WithStateHook(fn func(State)) Option {
	return func(v *View) { v.onState = fn }
}

// WithErrorHook receives every mutation failure. Failures are non-fatal;
// the affected edit rolls back and the view keeps working.
func WithErrorHook(fn func(error)) Option {
	return func(v *View) { v.onError = fn }
}

// WithoutAutoRefresh disables the background full-table refresh that
// normally follows a confirmed structural mutation. Callers then drive
// Refresh themselves.
func WithoutAutoRefresh() Option {
	return func(v *View) { v.autoRefresh = false }
}

// NewView makes an empty view of tableID. ctx bounds all background
// gateway calls. Call Load before editing.
func NewView(ctx context.Context, gw Gateway, tableID uint64, opts ...Option) *View {
	v := &View{
		ctx:         ctx,
		gw:          gw,
		tableID:     tableID,
		log:         zerolog.Nop(),
		autoRefresh: true,
		colByRef:    make(map[Ref]*colState),
		rowByRef:    make(map[Ref]*rowState),
		colByID:     make(map[uint64]*colState),
		rowByID:     make(map[uint64]*rowState),
		lastEdit:    make(map[fieldKey]uint64),
		lastWrite:   make(map[fieldKey]uint64),
		inbox:       make(chan func(), 256),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Load fetches the table synchronously and resets the view to it. Any
// local edits are discarded.
func (v *View) Load(ctx context.Context) error {
	snap, err := v.gw.FetchTable(ctx, v.tableID)
	if err != nil {
		return fmt.Errorf("load table %d: %w", v.tableID, err)
	}

	v.cols = v.cols[:0]
	v.rows = v.rows[:0]
	clear(v.colByRef)
	clear(v.rowByRef)
	clear(v.colByID)
	clear(v.rowByID)
	clear(v.lastEdit)
	clear(v.lastWrite)
	v.order = v.order[:0]

	for _, ci := range snap.Columns {
		cs := &colState{ref: v.newRef(), serverID: ci.ID, name: ci.Name, typ: ci.Type}
		v.cols = append(v.cols, cs)
		v.colByRef[cs.ref] = cs
		v.colByID[ci.ID] = cs
	}
	for _, ri := range snap.Rows {
		rs := &rowState{ref: v.newRef(), serverID: ri.ID, cells: make(map[Ref]Cell, len(v.cols))}
		for _, cs := range v.cols {
			rs.cells[cs.ref] = ri.Cells[cs.serverID]
		}
		v.rows = append(v.rows, rs)
		v.rowByRef[rs.ref] = rs
		v.rowByID[ri.ID] = rs
	}

	v.setState(StateClean)
	return nil
}

// State returns the current state.
func (v *View) State() State { return v.state }

// PendingEdits returns the number of locally edited fields the server has
// not confirmed yet.
func (v *View) PendingEdits() int { return len(v.order) }

// ColumnView is a render-ready column. ID is 0 while the column only
// exists locally.
type ColumnView struct {
	Ref  Ref
	ID   uint64
	Name string
	Type types.ColumnType
}

// RowView is a render-ready row handle. ID is 0 while the row only
// exists locally.
type RowView struct {
	Ref Ref
	ID  uint64
}

// Columns returns the live columns in display order.
func (v *View) Columns() []ColumnView {
	out := make([]ColumnView, 0, len(v.cols))
	for _, cs := range v.cols {
		if cs.dead {
			continue
		}
		out = append(out, ColumnView{Ref: cs.ref, ID: cs.serverID, Name: cs.name, Type: cs.typ})
	}
	return out
}

// Rows returns the live rows in pinned order: the order of the last full
// server fetch, then locally created rows in creation order. Partial
// confirmations never resort it.
func (v *View) Rows() []RowView {
	out := make([]RowView, 0, len(v.rows))
	for _, rs := range v.rows {
		if rs.dead {
			continue
		}
		out = append(out, RowView{Ref: rs.ref, ID: rs.serverID})
	}
	return out
}

// Cell returns the current local value of one cell.
func (v *View) Cell(row, col Ref) (Cell, bool) {
	rs := v.rowByRef[row]
	cs := v.colByRef[col]
	if rs == nil || cs == nil || rs.dead || cs.dead {
		return Null, false
	}
	return rs.cells[col], true
}

// RowByID returns the ref of the row with a confirmed server id.
func (v *View) RowByID(id uint64) (Ref, bool) {
	if rs := v.rowByID[id]; rs != nil && !rs.dead {
		return rs.ref, true
	}
	return Ref{}, false
}

// ColumnByID returns the ref of the column with a confirmed server id.
func (v *View) ColumnByID(id uint64) (Ref, bool) {
	if cs := v.colByID[id]; cs != nil && !cs.dead {
		return cs.ref, true
	}
	return Ref{}, false
}

// Flush applies every server result that has arrived, without blocking.
// Call it from the owner goroutine, typically once per frame or event
// loop turn.
func (v *View) Flush() {
	for {
		select {
		case fn := <-v.inbox:
			fn()
		default:
			return
		}
	}
}

// Settle blocks until every in-flight mutation and refresh has been
// applied, or ctx ends. Meant for shutdown and tests.
func (v *View) Settle(ctx context.Context) error {
	for {
		v.Flush()
		if v.inflight == 0 {
			return nil
		}
		select {
		case fn := <-v.inbox:
			fn()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// SetCell applies a cell edit locally and sends it to the server. An
// invalid or deleted target is ignored.
func (v *View) SetCell(row, col Ref, val Cell) {
	rs := v.rowByRef[row]
	cs := v.colByRef[col]
	if rs == nil || cs == nil || rs.dead || cs.dead {
		return
	}

	prev := rs.cells[col]
	rs.cells[col] = val
	fk := fieldKey{row: row, col: col, att: attrCell}
	issued := v.touch(fk)
	v.setState(StateDirty)

	var run func()
	run = func() {
		if rs.dead || cs.dead {
			v.clearField(fk, issued)
			return
		}
		if rs.serverID == 0 {
			rs.deferred = append(rs.deferred, run)
			return
		}
		if cs.serverID == 0 {
			cs.deferred = append(cs.deferred, run)
			return
		}
		recID, colID := rs.serverID, cs.serverID
		v.launch(func() {
			res, err := v.gw.UpdateRecord(v.ctx, recID, map[uint64]Cell{colID: val})
			v.post(func() { v.confirmCell(rs, cs, fk, issued, prev, res, err) })
		})
	}
	run()
}

func (v *View) confirmCell(rs *rowState, cs *colState, fk fieldKey, issued uint64, prev Cell, res RowResult, err error) {
	v.inflight--
	if err != nil {
		v.setState(StateRollingBack)
		if !v.editedSince(fk, issued) && !rs.dead && !cs.dead {
			rs.cells[cs.ref] = prev
		}
		v.clearField(fk, issued)
		v.fail(fmt.Errorf("set cell: %w", err))
		v.recomputeState()
		return
	}

	v.setState(StateReconciling)
	v.clearField(fk, issued)
	v.mergeRow(rs, res.Cells, issued)
	v.recomputeState()
}

// AddRow appends a blank row after the pinned order and asks the server
// to create it. The returned ref is usable immediately; edits against it
// are queued until the server assigns the real id.
func (v *View) AddRow() Ref {
	rs := &rowState{ref: v.newRef(), cells: make(map[Ref]Cell, len(v.cols))}
	for _, cs := range v.cols {
		if !cs.dead {
			rs.cells[cs.ref] = Text("")
		}
	}
	v.rows = append(v.rows, rs)
	v.rowByRef[rs.ref] = rs

	fk := fieldKey{row: rs.ref, att: attrRow}
	issued := v.touch(fk)
	v.setState(StateDirty)

	v.launch(func() {
		res, err := v.gw.CreateRecord(v.ctx, v.tableID)
		v.post(func() { v.confirmAddRow(rs, fk, issued, res, err) })
	})
	return rs.ref
}

func (v *View) confirmAddRow(rs *rowState, fk fieldKey, issued uint64, res RowResult, err error) {
	v.inflight--
	if err != nil {
		v.setState(StateRollingBack)
		v.clearField(fk, issued)
		v.dropRow(rs)
		v.fail(fmt.Errorf("add row: %w", err))
		v.recomputeState()
		return
	}

	v.setState(StateReconciling)
	v.clearField(fk, issued)
	rs.serverID = res.ID
	v.rowByID[res.ID] = rs
	if !rs.dead {
		v.mergeRow(rs, res.Cells, issued)
	}
	v.runDeferred(&rs.deferred)
	v.recomputeState()
	v.structureChanged()
}

// DeleteRow removes a row locally and asks the server to delete it. The
// row comes back, with the values it had, only if the server refuses.
func (v *View) DeleteRow(row Ref) {
	rs := v.rowByRef[row]
	if rs == nil || rs.dead {
		return
	}

	rs.dead = true
	fk := fieldKey{row: row, att: attrRow}
	issued := v.touch(fk)
	v.setState(StateDirty)

	var run func()
	run = func() {
		if rs.serverID == 0 {
			rs.deferred = append(rs.deferred, run)
			return
		}
		recID := rs.serverID
		v.launch(func() {
			err := v.gw.DeleteRecord(v.ctx, recID)
			v.post(func() { v.confirmDeleteRow(rs, fk, issued, err) })
		})
	}
	run()
}

func (v *View) confirmDeleteRow(rs *rowState, fk fieldKey, issued uint64, err error) {
	v.inflight--
	if err != nil {
		v.setState(StateRollingBack)
		rs.dead = false
		v.clearField(fk, issued)
		v.fail(fmt.Errorf("delete row: %w", err))
		v.recomputeState()
		return
	}

	v.setState(StateReconciling)
	v.clearField(fk, issued)
	v.dropRow(rs)
	v.recomputeState()
	v.structureChanged()
}

// AddColumn appends a column and blanks a cell for it into every live
// row, mirroring the server-side retrofit. An invalid type falls back
// to TEXT, matching the server default.
func (v *View) AddColumn(name string, typ types.ColumnType) Ref {
	if !typ.Valid() {
		typ = types.ColumnTypeText
	}
	cs := &colState{ref: v.newRef(), name: name, typ: typ}
	v.cols = append(v.cols, cs)
	v.colByRef[cs.ref] = cs
	for _, rs := range v.rows {
		if !rs.dead {
			rs.cells[cs.ref] = Text("")
		}
	}

	fk := fieldKey{col: cs.ref, att: attrCol}
	issued := v.touch(fk)
	v.setState(StateDirty)

	v.launch(func() {
		res, err := v.gw.CreateColumn(v.ctx, v.tableID, name, typ)
		v.post(func() { v.confirmAddColumn(cs, fk, issued, res, err) })
	})
	return cs.ref
}

func (v *View) confirmAddColumn(cs *colState, fk fieldKey, issued uint64, res ColumnResult, err error) {
	v.inflight--
	if err != nil {
		v.setState(StateRollingBack)
		v.clearField(fk, issued)
		v.dropColumn(cs)
		v.fail(fmt.Errorf("add column: %w", err))
		v.recomputeState()
		return
	}

	v.setState(StateReconciling)
	v.clearField(fk, issued)
	cs.serverID = res.ID
	v.colByID[res.ID] = cs
	if !v.editedSince(fieldKey{col: cs.ref, att: attrName}, issued) {
		cs.name = res.Name
	}
	if !v.editedSince(fieldKey{col: cs.ref, att: attrType}, issued) {
		cs.typ = res.Type
	}
	v.runDeferred(&cs.deferred)
	v.recomputeState()
	v.structureChanged()
}

// DeleteColumn removes a column locally and asks the server to delete it
// along with its key in every record. Cell values are retained hidden
// until the server confirms, so a refusal restores them untouched.
func (v *View) DeleteColumn(col Ref) {
	cs := v.colByRef[col]
	if cs == nil || cs.dead {
		return
	}

	cs.dead = true
	fk := fieldKey{col: col, att: attrCol}
	issued := v.touch(fk)
	v.setState(StateDirty)

	var run func()
	run = func() {
		if cs.serverID == 0 {
			cs.deferred = append(cs.deferred, run)
			return
		}
		colID := cs.serverID
		v.launch(func() {
			err := v.gw.DeleteColumn(v.ctx, colID)
			v.post(func() { v.confirmDeleteColumn(cs, fk, issued, err) })
		})
	}
	run()
}

func (v *View) confirmDeleteColumn(cs *colState, fk fieldKey, issued uint64, err error) {
	v.inflight--
	if err != nil {
		v.setState(StateRollingBack)
		cs.dead = false
		v.clearField(fk, issued)
		v.fail(fmt.Errorf("delete column: %w", err))
		v.recomputeState()
		return
	}

	v.setState(StateReconciling)
	v.clearField(fk, issued)
	v.dropColumn(cs)
	v.recomputeState()
	v.structureChanged()
}

// RenameColumn changes the display name. Data keys are ids, so no cell
// is touched.
func (v *View) RenameColumn(col Ref, name string) {
	cs := v.colByRef[col]
	if cs == nil || cs.dead {
		return
	}

	prev := cs.name
	cs.name = name
	fk := fieldKey{col: col, att: attrName}
	issued := v.touch(fk)
	v.setState(StateDirty)

	var run func()
	run = func() {
		if cs.dead {
			v.clearField(fk, issued)
			return
		}
		if cs.serverID == 0 {
			cs.deferred = append(cs.deferred, run)
			return
		}
		colID := cs.serverID
		v.launch(func() {
			res, err := v.gw.RenameColumn(v.ctx, colID, name)
			v.post(func() { v.confirmColumnField(cs, fk, issued, prev, res, err, "rename column") })
		})
	}
	run()
}

// SetColumnType changes the column type and coerces every local cell the
// way the server migration will, so the grid previews the loss instantly.
func (v *View) SetColumnType(col Ref, typ types.ColumnType) {
	cs := v.colByRef[col]
	if cs == nil || cs.dead || !typ.Valid() || typ == cs.typ {
		return
	}

	prev := cs.typ
	prevCells := make(map[Ref]Cell, len(v.rows))
	for _, rs := range v.rows {
		if rs.dead {
			continue
		}
		prevCells[rs.ref] = rs.cells[col]
		rs.cells[col] = rs.cells[col].coerce(typ)
	}
	cs.typ = typ
	fk := fieldKey{col: col, att: attrType}
	issued := v.touch(fk)
	v.setState(StateDirty)

	var run func()
	run = func() {
		if cs.dead {
			v.clearField(fk, issued)
			return
		}
		if cs.serverID == 0 {
			cs.deferred = append(cs.deferred, run)
			return
		}
		colID := cs.serverID
		v.launch(func() {
			res, err := v.gw.SetColumnType(v.ctx, colID, typ)
			v.post(func() { v.confirmColumnType(cs, fk, issued, prev, prevCells, res, err) })
		})
	}
	run()
}

// confirmColumnField settles a rename. prev restores the name on refusal
// unless a newer local rename exists.
func (v *View) confirmColumnField(cs *colState, fk fieldKey, issued uint64, prev string, res ColumnResult, err error, op string) {
	v.inflight--
	if err != nil {
		v.setState(StateRollingBack)
		if !v.editedSince(fk, issued) && !cs.dead {
			cs.name = prev
		}
		v.clearField(fk, issued)
		v.fail(fmt.Errorf("%s: %w", op, err))
		v.recomputeState()
		return
	}

	v.setState(StateReconciling)
	if !v.editedSince(fk, issued) && !cs.dead {
		cs.name = res.Name
	}
	v.clearField(fk, issued)
	v.recomputeState()
}

func (v *View) confirmColumnType(cs *colState, fk fieldKey, issued uint64, prev types.ColumnType, prevCells map[Ref]Cell, res ColumnResult, err error) {
	v.inflight--
	if err != nil {
		v.setState(StateRollingBack)
		if !v.editedSince(fk, issued) && !cs.dead {
			cs.typ = prev
			for ref, val := range prevCells {
				rs := v.rowByRef[ref]
				if rs == nil || rs.dead {
					continue
				}
				cfk := fieldKey{row: ref, col: cs.ref, att: attrCell}
				if v.editedSince(cfk, issued) {
					continue
				}
				rs.cells[cs.ref] = val
			}
		}
		v.clearField(fk, issued)
		v.fail(fmt.Errorf("set column type: %w", err))
		v.recomputeState()
		return
	}

	v.setState(StateReconciling)
	if !v.editedSince(fk, issued) && !cs.dead {
		cs.typ = res.Type
	}
	v.clearField(fk, issued)
	v.recomputeState()
	v.structureChanged()
}

// Refresh fetches the whole table in the background and merges it in on
// the next Flush. Server structure always wins; values of fields with
// pending local edits are kept.
func (v *View) Refresh() {
	if v.refreshing {
		v.refreshAgain = true
		return
	}
	v.refreshing = true
	v.launch(func() {
		snap, err := v.gw.FetchTable(v.ctx, v.tableID)
		v.post(func() { v.mergeSnapshot(snap, err) })
	})
}

func (v *View) mergeSnapshot(snap Snapshot, err error) {
	v.inflight--
	v.refreshing = false
	if v.refreshAgain {
		v.refreshAgain = false
		defer v.Refresh()
	}
	if err != nil {
		v.fail(fmt.Errorf("refresh: %w", err))
		v.recomputeState()
		return
	}

	v.setState(StateReconciling)

	// Columns: server order, then surviving local-only columns.
	seen := make(map[*colState]bool, len(snap.Columns))
	cols := make([]*colState, 0, len(v.cols))
	for _, ci := range snap.Columns {
		cs := v.colByID[ci.ID]
		if cs == nil {
			cs = &colState{ref: v.newRef(), serverID: ci.ID, name: ci.Name, typ: ci.Type}
			v.colByRef[cs.ref] = cs
			v.colByID[ci.ID] = cs
		}
		if cs.dead {
			// Local delete still in flight; keep it hidden.
			seen[cs] = true
			cols = append(cols, cs)
			continue
		}
		if !v.editedAt(fieldKey{col: cs.ref, att: attrName}) {
			cs.name = ci.Name
		}
		if !v.editedAt(fieldKey{col: cs.ref, att: attrType}) {
			cs.typ = ci.Type
		}
		seen[cs] = true
		cols = append(cols, cs)
	}
	for _, cs := range v.cols {
		if seen[cs] {
			continue
		}
		if cs.serverID == 0 {
			cols = append(cols, cs) // still waiting on its create
			continue
		}
		v.removeColumn(cs) // deleted on the server
	}
	v.cols = cols

	// Rows: re-pin to server order, local-only rows stay appended.
	seenRow := make(map[*rowState]bool, len(snap.Rows))
	rows := make([]*rowState, 0, len(v.rows))
	for _, ri := range snap.Rows {
		rs := v.rowByID[ri.ID]
		if rs == nil {
			rs = &rowState{ref: v.newRef(), serverID: ri.ID, cells: make(map[Ref]Cell, len(v.cols))}
			v.rowByRef[rs.ref] = rs
			v.rowByID[ri.ID] = rs
		}
		seenRow[rs] = true
		rows = append(rows, rs)
		if rs.dead {
			continue
		}
		for _, cs := range v.cols {
			if cs.serverID == 0 {
				if _, ok := rs.cells[cs.ref]; !ok {
					rs.cells[cs.ref] = Text("")
				}
				continue
			}
			if v.editedAt(fieldKey{row: rs.ref, col: cs.ref, att: attrCell}) {
				continue
			}
			rs.cells[cs.ref] = ri.Cells[cs.serverID]
		}
	}
	for _, rs := range v.rows {
		if seenRow[rs] {
			continue
		}
		if rs.serverID == 0 {
			rows = append(rows, rs)
			continue
		}
		v.removeRow(rs)
	}
	v.rows = rows

	v.recomputeState()
}

// newRef issues a view-unique handle.
func (v *View) newRef() Ref {
	v.nextRef++
	return Ref{n: v.nextRef}
}

// touch records a local edit of fk and returns its sequence number.
func (v *View) touch(fk fieldKey) uint64 {
	v.seq++
	if _, ok := v.lastEdit[fk]; !ok {
		v.order = append(v.order, fk)
	}
	v.lastEdit[fk] = v.seq
	v.lastWrite[fk] = v.seq
	return v.seq
}

// editedSince reports whether fk was edited again after sequence since.
// It consults lastWrite, not the pending ledger, so an edit stays newer
// than an older in-flight mutation even after its own confirmation.
func (v *View) editedSince(fk fieldKey, since uint64) bool {
	return v.lastWrite[fk] > since
}

// editedAt reports whether fk has any unconfirmed edit.
func (v *View) editedAt(fk fieldKey) bool {
	_, ok := v.lastEdit[fk]
	return ok
}

// clearField drops fk from the pending ledger unless a newer edit than
// upto has replaced it.
func (v *View) clearField(fk fieldKey, upto uint64) {
	if seq, ok := v.lastEdit[fk]; !ok || seq > upto {
		return
	}
	delete(v.lastEdit, fk)
	for i, k := range v.order {
		if k == fk {
			v.order = append(v.order[:i], v.order[i+1:]...)
			break
		}
	}
}

// clearAllFor drops every pending field and write record touching a row
// or column ref.
func (v *View) clearAllFor(ref Ref) {
	kept := v.order[:0]
	for _, fk := range v.order {
		if fk.row == ref || fk.col == ref {
			delete(v.lastEdit, fk)
			continue
		}
		kept = append(kept, fk)
	}
	v.order = kept
	for fk := range v.lastWrite {
		if fk.row == ref || fk.col == ref {
			delete(v.lastWrite, fk)
		}
	}
}

// mergeRow applies a row's canonical cells, skipping fields edited after
// sequence since.
func (v *View) mergeRow(rs *rowState, cells map[uint64]Cell, since uint64) {
	for colID, val := range cells {
		cs := v.colByID[colID]
		if cs == nil || cs.dead {
			continue
		}
		if v.editedSince(fieldKey{row: rs.ref, col: cs.ref, att: attrCell}, since) {
			continue
		}
		rs.cells[cs.ref] = val
	}
}

// dropRow removes rs and everything pending on it from the view.
func (v *View) dropRow(rs *rowState) {
	for i, r := range v.rows {
		if r == rs {
			v.rows = append(v.rows[:i], v.rows[i+1:]...)
			break
		}
	}
	v.removeRow(rs)
}

func (v *View) removeRow(rs *rowState) {
	delete(v.rowByRef, rs.ref)
	if rs.serverID != 0 {
		delete(v.rowByID, rs.serverID)
	}
	v.clearAllFor(rs.ref)
	rs.deferred = nil
}

// dropColumn removes cs, its cells, and everything pending on it.
func (v *View) dropColumn(cs *colState) {
	for i, c := range v.cols {
		if c == cs {
			v.cols = append(v.cols[:i], v.cols[i+1:]...)
			break
		}
	}
	v.removeColumn(cs)
}

func (v *View) removeColumn(cs *colState) {
	delete(v.colByRef, cs.ref)
	if cs.serverID != 0 {
		delete(v.colByID, cs.serverID)
	}
	for _, rs := range v.rows {
		delete(rs.cells, cs.ref)
	}
	v.clearAllFor(cs.ref)
	cs.deferred = nil
}

// runDeferred launches mutations that were waiting for a server id.
func (v *View) runDeferred(list *[]func()) {
	fns := *list
	*list = nil
	for _, fn := range fns {
		fn()
	}
}

// launch runs a gateway call off the owner goroutine.
func (v *View) launch(fn func()) {
	v.inflight++
	go fn()
}

// post queues a result for the owner goroutine.
func (v *View) post(fn func()) {
	v.inbox <- fn
}

// structureChanged schedules the post-structural-mutation resync.
func (v *View) structureChanged() {
	if v.autoRefresh {
		v.Refresh()
	}
}

func (v *View) setState(s State) {
	if v.state == s {
		return
	}
	v.state = s
	if v.onState != nil {
		v.onState(s)
	}
}

// recomputeState lands on Clean only when nothing is pending or in flight.
func (v *View) recomputeState() {
	if v.inflight > 0 || len(v.order) > 0 {
		v.setState(StateDirty)
		return
	}
	v.setState(StateClean)
}

// fail reports a mutation failure. Failures never stop the view; the
// affected edit has already been rolled back when this runs.
func (v *View) fail(err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	v.log.Warn().Err(err).Uint64("table", v.tableID).Msg("mutation failed")
	if v.onError != nil {
		v.onError(err)
	}
}
