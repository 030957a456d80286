package dto

import (
	"bytes"
	"fmt"
	"strconv"
)

// ID is a 64-bit entity id. It is written as a JSON string so browsers keep
// every digit, and read from either a string or a number.
type ID int64

func (id ID) Int64() int64 {
	return int64(id)
}

func (id ID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + strconv.FormatInt(int64(id), 10) + `"`), nil
}

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	v, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %s: %w", data, err)
	}
	*id = ID(v)
	return nil
}

// ParseID parses a path or query parameter.
func ParseID(s string) (ID, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return ID(v), nil
}

// Int64Ptr converts an optional ID.
func (id *ID) Int64Ptr() *int64 {
	if id == nil {
		return nil
	}
	v := int64(*id)
	return &v
}
