package termdat

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Lenient wire types. A value of the wrong JSON type decodes to its zero value
// instead of failing the whole payload.

// Int is an optional number. Numeric strings are accepted.
type Int struct {
	Value int
	Set   bool
}

// NewInt returns a set Int.
func NewInt(v int) Int { return Int{Value: v, Set: true} }

// UnmarshalJSON implements json.Unmarshaler.
func (n *Int) UnmarshalJSON(data []byte) error {
	*n = Int{}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil //nolint:nilerr // malformed value degrades to unset
	}
	switch t := v.(type) {
	case float64:
		*n = NewInt(int(t))
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			*n = NewInt(i)
		}
	}
	return nil
}

// String is an optional string. Numbers are kept as their literal text.
type String struct {
	Value string
	Set   bool
}

// NewString returns a set String.
func NewString(v string) String { return String{Value: v, Set: true} }

// UnmarshalJSON implements json.Unmarshaler.
func (s *String) UnmarshalJSON(data []byte) error {
	*s = String{}
	var v any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil //nolint:nilerr // malformed value degrades to unset
	}
	switch t := v.(type) {
	case string:
		*s = NewString(t)
	case json.Number:
		*s = NewString(t.String())
	}
	return nil
}

// List is an optional array. A non-array decodes to an empty list and an
// element of the wrong shape decodes to the element's zero value.
type List[T any] []T

// UnmarshalJSON implements json.Unmarshaler.
func (l *List[T]) UnmarshalJSON(data []byte) error {
	*l = List[T]{}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil //nolint:nilerr // malformed value degrades to empty
	}
	out := make(List[T], len(raw))
	for i, item := range raw {
		if err := json.Unmarshal(item, &out[i]); err != nil {
			var zero T
			out[i] = zero
		}
	}
	*l = out
	return nil
}

// Object is an optional nested object. Anything but a JSON object decodes to nil.
type Object[T any] struct {
	Value *T
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *Object[T]) UnmarshalJSON(data []byte) error {
	*o = Object[T]{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}
	var v T
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return nil //nolint:nilerr // malformed value degrades to unset
	}
	o.Value = &v
	return nil
}
