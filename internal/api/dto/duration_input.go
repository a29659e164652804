package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// DurationInput is the operator's raw clock-out duration. Consoles send the
// prompt text as a string; API clients may send a bare number. Either way the
// value is kept as text for domain.ParseDuration, so 12.5 and "12.5" behave
// the same.
type DurationInput string

func (d *DurationInput) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*d = ""
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*d = DurationInput(strings.TrimSpace(s))
		return nil
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var num json.Number
		if err := json.Unmarshal(trimmed, &num); err != nil {
			return err
		}
		*d = DurationInput(num.String())
		return nil
	}
	return fmt.Errorf("duration: expected minutes as string or number, got %s", string(trimmed))
}

func (d DurationInput) String() string {
	return string(d)
}

// Empty reports whether no duration was supplied.
func (d DurationInput) Empty() bool {
	return d == ""
}
