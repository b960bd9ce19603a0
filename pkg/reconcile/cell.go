// Package reconcile keeps a client-side view of one table that accepts
// edits immediately and settles them against the server afterwards.
//
// Every edit applies to the local view synchronously, then the matching
// server mutation runs in the background. Confirmations and failures are
// merged back in on the owner's goroutine with one rule throughout: the
// newest local edit of a field always wins over an in-flight result of an
// older one.
package reconcile

import (
	"strconv"

	"github.com/gridbase/gridbase/internal/types"
)

// Kind discriminates the three cell value shapes.
type Kind uint8

const (
	KindNull Kind = iota
	KindText
	KindNumber
)

// Cell is a single cell value: text, a number, or null.
// The zero Cell is null.
type Cell struct {
	kind Kind
	text string
	num  float64
}

// Null is the absent cell value.
var Null = Cell{}

// Text makes a text cell.
func Text(s string) Cell {
	return Cell{kind: KindText, text: s}
}

// Number makes a numeric cell.
func Number(f float64) Cell {
	return Cell{kind: KindNumber, num: f}
}

// Kind returns the cell's value shape.
func (c Cell) Kind() Kind { return c.kind }

// IsNull reports whether the cell is null.
func (c Cell) IsNull() bool { return c.kind == KindNull }

// Text returns the text value. It is "" for non-text cells.
func (c Cell) Text() string { return c.text }

// Number returns the numeric value. It is 0 for non-number cells.
func (c Cell) Number() float64 { return c.num }

// String renders the cell the way a grid would display it.
func (c Cell) String() string {
	switch c.kind {
	case KindText:
		return c.text
	case KindNumber:
		return strconv.FormatFloat(c.num, 'f', -1, 64)
	}
	return ""
}

// Equal reports value equality.
func (c Cell) Equal(o Cell) bool { return c == o }

// coerce converts the cell to a column type with the server's migration
// rules so a local type change previews exactly what the server will keep.
func (c Cell) coerce(t types.ColumnType) Cell {
	return fromWire(types.Coerce(c.wire(), t))
}

// wire converts the cell to its JSON value.
func (c Cell) wire() interface{} {
	switch c.kind {
	case KindText:
		return c.text
	case KindNumber:
		return c.num
	}
	return nil
}

// fromWire converts a decoded JSON value to a Cell. Anything that is not
// a string or a number collapses to null.
func fromWire(v interface{}) Cell {
	if v == nil {
		return Null
	}
	if s, ok := v.(string); ok {
		return Text(s)
	}
	if n, ok := types.AsNumber(v); ok {
		return Number(n)
	}
	return Null
}
