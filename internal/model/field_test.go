package model

import (
	"encoding/json"
	"testing"
)

func TestField_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Field
	}{
		{name: "string", input: `"Analista"`, want: "Analista"},
		{name: "escaped string", input: `"São Paulo"`, want: "São Paulo"},
		{name: "integer", input: `1`, want: "1"},
		{name: "float", input: `12.5`, want: "12.5"},
		{name: "true", input: `true`, want: "true"},
		{name: "false", input: `false`, want: ""},
		{name: "null", input: `null`, want: ""},
		{name: "object", input: `{"name": "x"}`, want: ""},
		{name: "array", input: `["a"]`, want: ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var f Field
			if err := json.Unmarshal([]byte(tc.input), &f); err != nil {
				t.Fatalf("Unmarshal(%s): %v", tc.input, err)
			}
			if f != tc.want {
				t.Errorf("Unmarshal(%s) = %q, want %q", tc.input, f, tc.want)
			}
		})
	}
}

func TestRawJobRecord_LenientDecode(t *testing.T) {
	payload := `{"id": 42, "title": "Dev", "location": null, "benefits": ["VR", "VT"], "extra": {"a": 1}}`
	var r RawJobRecord
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if r.ID != "42" || r.Title != "Dev" || r.Location != "" || r.Benefits != "" {
		t.Errorf("unexpected record: %+v", r)
	}
}

func TestField_Or(t *testing.T) {
	if got := Field("").Or("b"); got != "b" {
		t.Errorf(`Field("").Or("b") = %q`, got)
	}
	if got := Field("a").Or("b"); got != "a" {
		t.Errorf(`Field("a").Or("b") = %q`, got)
	}
}

func TestConnectionError_DefaultMessage(t *testing.T) {
	err := &ConnectionError{}
	if err.Error() != ConnectionMessage {
		t.Errorf("Error() = %q", err.Error())
	}
	if err.Detail() != "" {
		t.Errorf("Detail() = %q, want empty", err.Detail())
	}
}
