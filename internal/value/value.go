// Package value defines the tree of settings stored in a preferences file.
// A Value is one of Bool, Integer, Float, String, Array or Table.
package value

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"time"
)

// Kind identifies which member of the Value sum a value holds.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool
	KindInteger
	KindFloat
	KindString
	KindArray
	KindTable
)

var kindNames = map[Kind]string{
	KindInvalid: "invalid",
	KindBool:    "bool",
	KindInteger: "integer",
	KindFloat:   "float",
	KindString:  "string",
	KindArray:   "array",
	KindTable:   "table",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Value is a node in a preferences tree.
type Value interface {
	Kind() Kind
}

type (
	Bool    bool
	Integer int64
	Float   float64
	String  string
	Array   []Value
	Table   map[string]Value
)

func (Bool) Kind() Kind    { return KindBool }
func (Integer) Kind() Kind { return KindInteger }
func (Float) Kind() Kind   { return KindFloat }
func (String) Kind() Kind  { return KindString }
func (Array) Kind() Kind   { return KindArray }
func (Table) Kind() Kind   { return KindTable }

// KindOf returns the kind of v, or KindInvalid for nil.
func KindOf(v Value) Kind {
	if v == nil {
		return KindInvalid
	}
	return v.Kind()
}

// Keys returns the table's keys in sorted order.
func (t Table) Keys() []string {
	return slices.Sorted(maps.Keys(t))
}

// Equal reports whether a and b hold the same tree. Floats compare by
// value, except that NaN equals NaN.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case Integer:
		y, ok := b.(Integer)
		return ok && x == y
	case Float:
		y, ok := b.(Float)
		return ok && (x == y || math.IsNaN(float64(x)) && math.IsNaN(float64(y)))
	case String:
		y, ok := b.(String)
		return ok && x == y
	case Array:
		y, ok := b.(Array)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case Table:
		y, ok := b.(Table)
		if !ok || len(x) != len(y) {
			return false
		}
		for k, xv := range x {
			yv, ok := y[k]
			if !ok || !Equal(xv, yv) {
				return false
			}
		}
		return true
	}
	return false
}

// Clone returns a deep copy of v. Scalars are returned as is.
func Clone(v Value) Value {
	switch x := v.(type) {
	case Array:
		return CloneArray(x)
	case Table:
		return CloneTable(x)
	}
	return v
}

// CloneTable returns a deep copy of t. A nil table clones to an empty one.
func CloneTable(t Table) Table {
	out := make(Table, len(t))
	for k, v := range t {
		out[k] = Clone(v)
	}
	return out
}

// CloneArray returns a deep copy of a.
func CloneArray(a Array) Array {
	if a == nil {
		return nil
	}
	out := make(Array, len(a))
	for i, v := range a {
		out[i] = Clone(v)
	}
	return out
}

// FromAny converts the generic trees produced by decoders (map[string]any,
// []any and scalars) into a Value.
func FromAny(v any) (Value, error) {
	switch x := v.(type) {
	case Value:
		return x, nil
	case bool:
		return Bool(x), nil
	case int:
		return Integer(x), nil
	case int8:
		return Integer(x), nil
	case int16:
		return Integer(x), nil
	case int32:
		return Integer(x), nil
	case int64:
		return Integer(x), nil
	case uint8:
		return Integer(x), nil
	case uint16:
		return Integer(x), nil
	case uint32:
		return Integer(x), nil
	case uint:
		if uint64(x) > math.MaxInt64 {
			return nil, fmt.Errorf("value: integer %d out of range", x)
		}
		return Integer(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return nil, fmt.Errorf("value: integer %d out of range", x)
		}
		return Integer(x), nil
	case float32:
		return Float(x), nil
	case float64:
		return Float(x), nil
	case string:
		return String(x), nil
	case time.Time:
		// No datetime member; keep the text form.
		return String(x.Format(time.RFC3339Nano)), nil
	case []any:
		arr := make(Array, 0, len(x))
		for i, item := range x {
			iv, err := FromAny(item)
			if err != nil {
				return nil, fmt.Errorf("value: index %d: %w", i, err)
			}
			arr = append(arr, iv)
		}
		return arr, nil
	case []map[string]any:
		arr := make(Array, 0, len(x))
		for i, item := range x {
			iv, err := FromAny(item)
			if err != nil {
				return nil, fmt.Errorf("value: index %d: %w", i, err)
			}
			arr = append(arr, iv)
		}
		return arr, nil
	case map[string]any:
		tbl := make(Table, len(x))
		for k, item := range x {
			iv, err := FromAny(item)
			if err != nil {
				return nil, fmt.Errorf("value: key %q: %w", k, err)
			}
			tbl[k] = iv
		}
		return tbl, nil
	}
	return nil, fmt.Errorf("value: unsupported type %T", v)
}

// ToAny converts v into plain Go values (bool, int64, float64, string, []any,
// map[string]any) suitable for generic encoders.
func ToAny(v Value) any {
	switch x := v.(type) {
	case Bool:
		return bool(x)
	case Integer:
		return int64(x)
	case Float:
		return float64(x)
	case String:
		return string(x)
	case Array:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = ToAny(item)
		}
		return out
	case Table:
		out := make(map[string]any, len(x))
		for k, item := range x {
			out[k] = ToAny(item)
		}
		return out
	}
	return nil
}
