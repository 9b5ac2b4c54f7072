package model

import (
	"bytes"
	"encoding/json"
)

// Field is a lenient JSON scalar. Strings decode as-is, numbers and true keep
// their literal text, and null, false, objects or arrays decode to "".
type Field string

// UnmarshalJSON implements json.Unmarshaler. It never fails on a well-formed
// JSON value, so one odd field cannot drop a whole record.
func (f *Field) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		*f = ""
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = Field(s)
	case 'n', 'f', '{', '[':
		*f = ""
	default:
		*f = Field(data)
	}
	return nil
}

// String returns the field's text.
func (f Field) String() string { return string(f) }

// Or returns f, or fallback when f is empty.
func (f Field) Or(fallback Field) Field {
	if f != "" {
		return f
	}
	return fallback
}
