// Package metadata models document metadata as a tagged union of JSON value
// kinds, keeping (de)serialization explicit across the storage boundary.
package metadata

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnsupportedType signals a Go value that has no JSON representation.
var ErrUnsupportedType = errors.New("metadata: unsupported value type")

// Kind enumerates the JSON value kinds.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is an immutable JSON value. The zero value is JSON null.
type Value struct {
	kind   Kind
	b      bool
	n      float64
	s      string
	items  []Value
	fields map[string]Value
}

// Null returns the JSON null value.
func Null() Value { return Value{} }

// Bool wraps a JSON boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number wraps a JSON number.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// String wraps a JSON string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Array wraps a JSON array.
func Array(items ...Value) Value { return Value{kind: KindArray, items: items} }

// Object wraps a JSON object.
func Object(fields map[string]Value) Value { return Value{kind: KindObject, fields: fields} }

// Kind returns the value kind.
func (v Value) Kind() Kind { return v.kind }

// IsScalar reports whether the value is null, bool, number, or string.
func (v Value) IsScalar() bool { return v.kind <= KindString }

// AsBool returns the boolean payload (valid for KindBool).
func (v Value) AsBool() bool { return v.b }

// AsNumber returns the numeric payload (valid for KindNumber).
func (v Value) AsNumber() float64 { return v.n }

// AsString returns the string payload (valid for KindString).
func (v Value) AsString() string { return v.s }

// Items returns the array payload (valid for KindArray).
func (v Value) Items() []Value { return v.items }

// Fields returns the object payload (valid for KindObject).
func (v Value) Fields() map[string]Value { return v.fields }

// Interface converts the value to the equivalent encoding/json shape.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.n
	case KindString:
		return v.s
	case KindArray:
		out := make([]any, len(v.items))
		for i, it := range v.items {
			out[i] = it.Interface()
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.fields))
		for k, f := range v.fields {
			out[k] = f.Interface()
		}
		return out
	default:
		return nil
	}
}

// FromAny converts a decoded JSON value (or a compatible Go scalar) into a
// Value. Unsupported Go types are a caller error.
func FromAny(raw any) (Value, error) {
	switch x := raw.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case bool:
		return Bool(x), nil
	case float64:
		return Number(x), nil
	case float32:
		return Number(float64(x)), nil
	case int:
		return Number(float64(x)), nil
	case int64:
		return Number(float64(x)), nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("%w: %v", ErrUnsupportedType, err)
		}
		return Number(f), nil
	case string:
		return String(x), nil
	case []any:
		items := make([]Value, len(x))
		for i, it := range x {
			v, err := FromAny(it)
			if err != nil {
				return Value{}, err
			}
			items[i] = v
		}
		return Array(items...), nil
	case map[string]any:
		fields := make(map[string]Value, len(x))
		for k, it := range x {
			v, err := FromAny(it)
			if err != nil {
				return Value{}, err
			}
			fields[k] = v
		}
		return Object(fields), nil
	default:
		return Value{}, fmt.Errorf("%w: %T", ErrUnsupportedType, raw)
	}
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := FromAny(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Map is a document metadata mapping. Keys are unique; order is irrelevant.
type Map map[string]Value

// FromAnyMap converts a map of arbitrary JSON-compatible values into a Map.
func FromAnyMap(raw map[string]any) (Map, error) {
	m := make(Map, len(raw))
	for k, it := range raw {
		v, err := FromAny(it)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		m[k] = v
	}
	return m, nil
}

// Encode serializes the map to JSON. A nil map encodes as an empty object.
func (m Map) Encode() ([]byte, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v.Interface()
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}
	return data, nil
}

// Decode parses a stored JSON blob into a Map. Only a JSON object is a valid
// metadata blob; anything else is a decode error.
func Decode(data []byte) (Map, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("decode metadata: not a JSON object")
	}
	return FromAnyMap(obj)
}

// MarshalJSON implements json.Marshaler.
func (m Map) MarshalJSON() ([]byte, error) { return m.Encode() }

// UnmarshalJSON implements json.Unmarshaler.
func (m *Map) UnmarshalJSON(data []byte) error {
	decoded, err := Decode(data)
	if err != nil {
		return err
	}
	*m = decoded
	return nil
}

// Equal reports deep equality of two values.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindBool:
		return v.b == other.b
	case KindNumber:
		return v.n == other.n
	case KindString:
		return v.s == other.s
	case KindArray:
		if len(v.items) != len(other.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(other.items[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.fields) != len(other.fields) {
			return false
		}
		for k, f := range v.fields {
			o, ok := other.fields[k]
			if !ok || !f.Equal(o) {
				return false
			}
		}
		return true
	default:
		return true
	}
}
