package common

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// InvalidIDError is returned for an id that is neither a number nor a numeric string.
type InvalidIDError struct {
	Value string
}

func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("invalid id %s", e.Value)
}

// FlexibleID decodes an id sent either as a JSON number or a numeric string.
type FlexibleID uint

func (id *FlexibleID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if string(b) == "null" {
		*id = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		b = []byte(strings.TrimSpace(s))
		if len(b) == 0 {
			*id = 0
			return nil
		}
	}

	n, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		return &InvalidIDError{Value: string(b)}
	}
	*id = FlexibleID(n)
	return nil
}

func (id FlexibleID) Uint() uint {
	return uint(id)
}

// ParseID reads a positive integer path parameter.
func ParseID(s string) (uint, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("Invalid id")
	}
	return uint(n), nil
}
