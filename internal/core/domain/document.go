package domain

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Value is a node of a metadata document.
// It is exactly one of Scalar, Array or *Object.
type Value interface {
	isValue()
}

// Scalar holds a leaf value: string, json.Number, bool or nil.
type Scalar struct {
	V any
}

func (Scalar) isValue() {}

// Str returns the scalar as a string when it holds one.
func (s Scalar) Str() (string, bool) {
	str, ok := s.V.(string)
	return str, ok
}

// MarshalJSON encodes the wrapped value.
func (s Scalar) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.V)
}

// Array is an ordered sequence of values.
type Array []Value

func (Array) isValue() {}

// MarshalJSON encodes the elements in order.
func (a Array) MarshalJSON() ([]byte, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Value(a))
}

// Object is an ordered mapping from property name to value.
// It is the metadata document itself and every nested object in it.
// Keys are unique; insertion order is preserved.
//
// Objects are mutated in place by the validation pipeline. A document
// handed to the pipeline is owned by it for the duration of the run and
// must not be shared between concurrent validations.
type Object struct {
	keys   []string
	values map[string]Value
}

func (*Object) isValue() {}

// NewObject creates an empty object.
func NewObject() *Object {
	return &Object{values: make(map[string]Value)}
}

// Len returns the number of properties.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Keys returns the property names in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	keys := make([]string, len(o.keys))
	copy(keys, o.keys)
	return keys
}

// Has reports whether the property exists.
func (o *Object) Has(key string) bool {
	if o == nil {
		return false
	}
	_, ok := o.values[key]
	return ok
}

// Get returns the value of a property.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.values[key]
	return v, ok
}

// GetString returns the value of a property when it is a string scalar.
func (o *Object) GetString(key string) (string, bool) {
	v, ok := o.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(Scalar)
	if !ok {
		return "", false
	}
	return s.Str()
}

// Set stores a property value. A new key is appended; an existing key keeps
// its position and takes the new value. Returns true if a value was replaced.
func (o *Object) Set(key string, v Value) bool {
	if o.values == nil {
		o.values = make(map[string]Value)
	}
	if _, exists := o.values[key]; exists {
		o.values[key] = v
		return true
	}
	o.keys = append(o.keys, key)
	o.values[key] = v
	return false
}

// Delete removes a property. Returns false if it was not present.
func (o *Object) Delete(key string) bool {
	if o == nil {
		return false
	}
	if _, ok := o.values[key]; !ok {
		return false
	}
	delete(o.values, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
	return true
}

// KeySet returns the property names as a set.
func (o *Object) KeySet() PropertySet {
	return NewPropertySet(o.Keys()...)
}

// Clone returns a deep copy.
func (o *Object) Clone() *Object {
	if o == nil {
		return nil
	}
	c := &Object{
		keys:   make([]string, len(o.keys)),
		values: make(map[string]Value, len(o.values)),
	}
	copy(c.keys, o.keys)
	for k, v := range o.values {
		c.values[k] = cloneValue(v)
	}
	return c
}

// ToAny converts the object into the plain map/slice tree produced by
// encoding/json, for consumers such as schema validators.
func (o *Object) ToAny() map[string]any {
	if o == nil {
		return nil
	}
	m := make(map[string]any, len(o.keys))
	for _, k := range o.keys {
		m[k] = ValueToAny(o.values[k])
	}
	return m
}

// MarshalJSON encodes the object with its keys in insertion order.
func (o *Object) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(o.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ValueToAny converts a value into its plain Go representation.
func ValueToAny(v Value) any {
	switch t := v.(type) {
	case *Object:
		return t.ToAny()
	case Array:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = ValueToAny(item)
		}
		return out
	case Scalar:
		return t.V
	default:
		return nil
	}
}

// FromAny converts a plain Go tree (as decoded by encoding/json) into a
// Value. Map keys carry no order, so they are sorted for determinism.
func FromAny(v any) Value {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		o := NewObject()
		for _, k := range keys {
			o.Set(k, FromAny(t[k]))
		}
		return o
	case []any:
		arr := make(Array, len(t))
		for i, item := range t {
			arr[i] = FromAny(item)
		}
		return arr
	default:
		return Scalar{V: t}
	}
}

func cloneValue(v Value) Value {
	switch t := v.(type) {
	case *Object:
		return t.Clone()
	case Array:
		out := make(Array, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
