package document

import (
	"encoding/json"
	"strings"
)

// Value is an extracted field value that is either present or absent.
// The zero Value is absent.
type Value struct {
	text  string
	valid bool
}

// Some returns a present value.
func Some(s string) Value {
	return Value{text: s, valid: true}
}

// None returns an absent value.
func None() Value {
	return Value{}
}

// NonEmpty trims s and returns it as a present value, or None when nothing
// is left.
func NonEmpty(s string) Value {
	s = strings.TrimSpace(s)
	if s == "" {
		return None()
	}
	return Some(s)
}

// Get returns the value and whether it is present.
func (v Value) Get() (string, bool) {
	return v.text, v.valid
}

// IsPresent reports whether v holds a value.
func (v Value) IsPresent() bool {
	return v.valid
}

// OrElse returns v when present, otherwise fallback.
func (v Value) OrElse(fallback Value) Value {
	if v.valid {
		return v
	}
	return fallback
}

// String returns the value or the empty string when absent.
func (v Value) String() string {
	return v.text
}

// MarshalJSON encodes absent values as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.text)
}

// UnmarshalJSON decodes null as an absent value.
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = None()
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*v = Some(s)
	return nil
}

// MarshalYAML encodes absent values as null.
func (v Value) MarshalYAML() (interface{}, error) {
	if !v.valid {
		return nil, nil
	}
	return v.text, nil
}
