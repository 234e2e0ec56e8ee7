package arrayfield

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"strings"
)

// List is an ordered image list column. It scans any legacy encoding and
// is always written back as a JSON array.
type List []string

// Scan implements sql.Scanner.
func (l *List) Scan(src any) error {
	*l = Decode(src)
	return nil
}

// Value implements driver.Valuer.
func (l List) Value() (driver.Value, error) {
	return Encode(l), nil
}

// MarshalJSON always emits an array, never null.
func (l List) MarshalJSON() ([]byte, error) {
	return []byte(Encode(l)), nil
}

// UnmarshalJSON accepts a JSON array or a string holding any encoding.
func (l *List) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = List{}
		return nil
	}
	var s string
	if len(data) > 0 && data[0] == '"' && json.Unmarshal(data, &s) == nil {
		*l = DecodeString(s)
		return nil
	}
	*l = DecodeString(string(data))
	return nil
}

// Object is a free-form JSON object column (catalog properties).
// Anything that does not decode to an object becomes empty.
type Object map[string]any

// DecodeObject parses raw as a JSON object, falling back to an empty one.
func DecodeObject(raw string) Object {
	raw = strings.TrimSpace(raw)
	obj := Object{}
	if raw == "" {
		return obj
	}
	if err := json.Unmarshal([]byte(raw), &obj); err != nil || obj == nil {
		return Object{}
	}
	return obj
}

// Scan implements sql.Scanner.
func (o *Object) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		*o = DecodeObject(string(v))
	case string:
		*o = DecodeObject(v)
	default:
		*o = Object{}
	}
	return nil
}

// Value implements driver.Valuer.
func (o Object) Value() (driver.Value, error) {
	if o == nil {
		return "{}", nil
	}
	b, err := json.Marshal(map[string]any(o))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
