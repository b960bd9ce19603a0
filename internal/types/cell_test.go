package types_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gridbase/gridbase/internal/types"
)

func TestColumnTypeValid(t *testing.T) {
	require.True(t, types.ColumnTypeText.Valid())
	require.True(t, types.ColumnTypeNumber.Valid())
	require.False(t, types.ColumnType("DATE").Valid())
	require.False(t, types.ColumnType("").Valid())
}

func TestAsNumberAcceptsOnlyStoredNumerics(t *testing.T) {
	n, ok := types.AsNumber(float64(3.5))
	require.True(t, ok)
	require.Equal(t, 3.5, n)

	n, ok = types.AsNumber(int64(7))
	require.True(t, ok)
	require.Equal(t, float64(7), n)

	// JSON columns scan stored numbers back as json.Number.
	n, ok = types.AsNumber(json.Number("42"))
	require.True(t, ok)
	require.Equal(t, float64(42), n)

	_, ok = types.AsNumber(json.Number("not a number"))
	require.False(t, ok)

	_, ok = types.AsNumber("12")
	require.False(t, ok, "numeric text must not parse")

	_, ok = types.AsNumber(nil)
	require.False(t, ok)

	_, ok = types.AsNumber(true)
	require.False(t, ok)
}

func TestCoerceToNumberDiscardsNonNumerics(t *testing.T) {
	require.Equal(t, 42.0, types.Coerce(42.0, types.ColumnTypeNumber))
	require.Equal(t, float64(9), types.Coerce(9, types.ColumnTypeNumber))
	require.Equal(t, 42.0, types.Coerce(json.Number("42"), types.ColumnTypeNumber))
	require.Nil(t, types.Coerce("12", types.ColumnTypeNumber))
	require.Nil(t, types.Coerce("hello", types.ColumnTypeNumber))
	require.Nil(t, types.Coerce(nil, types.ColumnTypeNumber))
	require.Nil(t, types.Coerce(true, types.ColumnTypeNumber))
}

func TestCoerceToTextStringifies(t *testing.T) {
	require.Equal(t, "hello", types.Coerce("hello", types.ColumnTypeText))
	require.Equal(t, "3.5", types.Coerce(3.5, types.ColumnTypeText))
	require.Equal(t, "7", types.Coerce(float64(7), types.ColumnTypeText))
	require.Equal(t, "3.5", types.Coerce(json.Number("3.5"), types.ColumnTypeText))
	require.Equal(t, "", types.Coerce(nil, types.ColumnTypeText))
	require.Equal(t, "", types.Coerce(true, types.ColumnTypeText))
}
