package document

import (
	"bytes"
	"encoding/json"
	"errors"

	"gopkg.in/yaml.v3"
)

var errNotObject = errors.New("document: field set must be a JSON object")

// FieldSet holds the extracted values for a fixed, ordered set of field
// names. Every declared key is always present; keys outside the declared
// set cannot be added.
type FieldSet struct {
	keys   []string
	values map[string]Value
}

// NewFieldSet returns a FieldSet with all keys absent.
func NewFieldSet(keys ...string) FieldSet {
	fs := FieldSet{
		keys:   make([]string, 0, len(keys)),
		values: make(map[string]Value, len(keys)),
	}
	for _, k := range keys {
		if _, dup := fs.values[k]; dup {
			continue
		}
		fs.keys = append(fs.keys, k)
		fs.values[k] = None()
	}
	return fs
}

// NewFieldSetFor returns an empty FieldSet with the declared keys of tag.
func NewFieldSetFor(tag Tag) FieldSet {
	return NewFieldSet(Fields(tag)...)
}

// Set stores v under key. It returns false and leaves the set unchanged
// when key is not declared.
func (fs FieldSet) Set(key string, v Value) bool {
	if _, ok := fs.values[key]; !ok {
		return false
	}
	fs.values[key] = v
	return true
}

// Get returns the value stored under key. Undeclared keys read as absent.
func (fs FieldSet) Get(key string) Value {
	return fs.values[key]
}

// Has reports whether key is declared.
func (fs FieldSet) Has(key string) bool {
	_, ok := fs.values[key]
	return ok
}

// Keys returns the declared keys in declaration order.
func (fs FieldSet) Keys() []string {
	out := make([]string, len(fs.keys))
	copy(out, fs.keys)
	return out
}

// Len returns the number of declared keys.
func (fs FieldSet) Len() int {
	return len(fs.keys)
}

// Found returns how many keys hold a present value.
func (fs FieldSet) Found() int {
	n := 0
	for _, k := range fs.keys {
		if fs.values[k].IsPresent() {
			n++
		}
	}
	return n
}

// AllAbsent reports whether no key holds a value.
func (fs FieldSet) AllAbsent() bool {
	return fs.Found() == 0
}

// Map returns a plain map view where absent values are nil.
func (fs FieldSet) Map() map[string]*string {
	out := make(map[string]*string, len(fs.keys))
	for _, k := range fs.keys {
		if s, ok := fs.values[k].Get(); ok {
			s := s
			out[k] = &s
		} else {
			out[k] = nil
		}
	}
	return out
}

// MarshalJSON writes the keys in declaration order.
func (fs FieldSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range fs.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := fs.values[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON declares every key found in the object. Key order follows
// the document.
func (fs *FieldSet) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errNotObject
	}
	out := NewFieldSet()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var v Value
		if err := dec.Decode(&v); err != nil {
			return err
		}
		if _, dup := out.values[key]; !dup {
			out.keys = append(out.keys, key)
		}
		out.values[key] = v
	}
	*fs = out
	return nil
}

// MarshalYAML writes the keys in declaration order with null for absent
// values.
func (fs FieldSet) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range fs.keys {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}
		valNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
		if s, ok := fs.values[k].Get(); ok {
			valNode = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
		}
		node.Content = append(node.Content, keyNode, valNode)
	}
	return node, nil
}
