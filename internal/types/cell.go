package types

import (
	"encoding/json"
	"strconv"
)

// ColumnType is the declared type of a column. Cell values are coerced to
// the column type when the type changes, never validated on write.
type ColumnType string

const (
	ColumnTypeText   ColumnType = "TEXT"
	ColumnTypeNumber ColumnType = "NUMBER"
)

// Valid reports whether t is a known column type.
func (t ColumnType) Valid() bool {
	return t == ColumnTypeText || t == ColumnTypeNumber
}

// AsNumber returns the value as a float64 if it already is numeric.
// Numeric text is not parsed; a type migration to NUMBER discards it.
// Values read back through a JSON column scan as json.Number, so that
// shape counts as numeric too.
func AsNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// Coerce converts a stored cell value to the given column type.
//
// NUMBER keeps values that are already numeric and nulls everything else.
// TEXT stringifies any non-null value; null becomes the empty string.
// Both directions are lossy and one-way.
func Coerce(v interface{}, t ColumnType) interface{} {
	if t == ColumnTypeNumber {
		if n, ok := AsNumber(v); ok {
			return n
		}
		return nil
	}

	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	if n, ok := AsNumber(v); ok {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return ""
}
