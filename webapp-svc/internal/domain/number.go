package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// OptionalNumber decodes a catalog value that may be a JSON number, a numeric
// string ("4,7" included), an empty string or null. Text that is not a number
// ("4-5") is kept in Raw for display and leaves Valid false.
type OptionalNumber struct {
	Value float64
	Valid bool
	Raw   string
}

func Number(v float64) OptionalNumber {
	return OptionalNumber{Value: v, Valid: true}
}

func (n *OptionalNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = OptionalNumber{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw := strings.TrimSpace(s)
		s = strings.TrimSuffix(strings.ReplaceAll(raw, ",", "."), "%")
		if s == "" || s == "-" {
			*n = OptionalNumber{}
			return nil
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			*n = OptionalNumber{Raw: raw}
			return nil
		}
		*n = Number(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = Number(v)
	return nil
}

func (n OptionalNumber) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		if n.Raw != "" {
			return json.Marshal(n.Raw)
		}
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

func (n OptionalNumber) String() string {
	if !n.Valid {
		return n.Raw
	}
	return formatNumber(n.Value)
}

// Text is the value as a card shows it: empty when absent or zero, since the
// catalog uses 0 for "unknown".
func (n OptionalNumber) Text() string {
	if n.Valid && n.Value == 0 {
		return ""
	}
	return n.String()
}

// DisplayText keeps a value that is only ever shown, whatever JSON type it
// arrived as. A numeric 0 means unknown and decodes to empty.
type DisplayText string

func (t *DisplayText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*t = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = DisplayText(s)
	default:
		var v float64
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		if v == 0 {
			*t = ""
			break
		}
		*t = DisplayText(formatNumber(v))
	}
	return nil
}
