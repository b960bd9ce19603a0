package types

import (
	"fmt"
	"strconv"
)

// FlexUint64 decodes from either a JSON number or a JSON string holding a
// number. Request bodies produced by browser clients are inconsistent about
// quoting ids and counts, so numeric inputs accept both shapes.
type FlexUint64 uint64

func (f *FlexUint64) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "" || s == "null" {
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	val, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("expected a number or numeric string, got %s", data)
	}
	*f = FlexUint64(val)
	return nil
}

func (f FlexUint64) MarshalJSON() ([]byte, error) {
	return strconv.AppendUint(nil, uint64(f), 10), nil
}

// Uint64 converts back to the plain integer.
func (f FlexUint64) Uint64() uint64 {
	return uint64(f)
}
