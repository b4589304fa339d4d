package value

import "math"

// IVec2 is a 2D signed integer vector, stored as [x, y] integers.
type IVec2 struct{ X, Y int32 }

// UVec2 is a 2D unsigned integer vector, stored as [x, y] integers.
type UVec2 struct{ X, Y uint32 }

// Vec2 is a 2D float vector, stored as [x, y] floats.
type Vec2 struct{ X, Y float32 }

// IVec3 is a 3D signed integer vector, stored as [x, y, z] integers.
type IVec3 struct{ X, Y, Z int32 }

// UVec3 is a 3D unsigned integer vector, stored as [x, y, z] integers.
type UVec3 struct{ X, Y, Z uint32 }

// Vec3 is a 3D float vector, stored as [x, y, z] floats.
type Vec3 struct{ X, Y, Z float32 }

// Native lists the Go types that can be stored in a preferences group.
// uint and uint64 are left out because Integer is a signed 64-bit value.
type Native interface {
	bool |
		int | int8 | int16 | int32 | int64 |
		uint8 | uint16 | uint32 |
		float32 | float64 |
		string |
		IVec2 | UVec2 | Vec2 | IVec3 | UVec3 | Vec3
}

// Encode converts a native value into its Value form.
func Encode[T Native](v T) Value {
	switch x := any(v).(type) {
	case bool:
		return Bool(x)
	case int:
		return Integer(x)
	case int8:
		return Integer(x)
	case int16:
		return Integer(x)
	case int32:
		return Integer(x)
	case int64:
		return Integer(x)
	case uint8:
		return Integer(x)
	case uint16:
		return Integer(x)
	case uint32:
		return Integer(x)
	case float32:
		return Float(x)
	case float64:
		return Float(x)
	case string:
		return String(x)
	case IVec2:
		return Array{Integer(x.X), Integer(x.Y)}
	case UVec2:
		return Array{Integer(x.X), Integer(x.Y)}
	case Vec2:
		return Array{Float(x.X), Float(x.Y)}
	case IVec3:
		return Array{Integer(x.X), Integer(x.Y), Integer(x.Z)}
	case UVec3:
		return Array{Integer(x.X), Integer(x.Y), Integer(x.Z)}
	case Vec3:
		return Array{Float(x.X), Float(x.Y), Float(x.Z)}
	}
	panic("unreachable")
}

// Decode converts v into T. It returns false when v has the wrong kind,
// overflows T, or is a vector of the wrong length or element kind.
func Decode[T Native](v Value) (T, bool) {
	var zero T
	var out any
	ok := false

	switch any(zero).(type) {
	case bool:
		var b Bool
		b, ok = v.(Bool)
		out = bool(b)
	case int:
		out, ok = toInt[int](v)
	case int8:
		out, ok = toInt[int8](v)
	case int16:
		out, ok = toInt[int16](v)
	case int32:
		out, ok = toInt[int32](v)
	case int64:
		out, ok = toInt[int64](v)
	case uint8:
		out, ok = toInt[uint8](v)
	case uint16:
		out, ok = toInt[uint16](v)
	case uint32:
		out, ok = toInt[uint32](v)
	case float32:
		var f Float
		f, ok = v.(Float)
		out = float32(f)
	case float64:
		var f Float
		f, ok = v.(Float)
		out = float64(f)
	case string:
		var s String
		s, ok = v.(String)
		out = string(s)
	case IVec2:
		var e []int64
		if e, ok = intElems(v, 2, math.MinInt32, math.MaxInt32); ok {
			out = IVec2{int32(e[0]), int32(e[1])}
		}
	case UVec2:
		var e []int64
		if e, ok = intElems(v, 2, 0, math.MaxUint32); ok {
			out = UVec2{uint32(e[0]), uint32(e[1])}
		}
	case Vec2:
		var e []float64
		if e, ok = floatElems(v, 2); ok {
			out = Vec2{float32(e[0]), float32(e[1])}
		}
	case IVec3:
		var e []int64
		if e, ok = intElems(v, 3, math.MinInt32, math.MaxInt32); ok {
			out = IVec3{int32(e[0]), int32(e[1]), int32(e[2])}
		}
	case UVec3:
		var e []int64
		if e, ok = intElems(v, 3, 0, math.MaxUint32); ok {
			out = UVec3{uint32(e[0]), uint32(e[1]), uint32(e[2])}
		}
	case Vec3:
		var e []float64
		if e, ok = floatElems(v, 3); ok {
			out = Vec3{float32(e[0]), float32(e[1]), float32(e[2])}
		}
	}

	if !ok {
		return zero, false
	}
	return out.(T), true
}

// toInt narrows an Integer to I, rejecting values that do not survive the
// round trip.
func toInt[I int | int8 | int16 | int32 | int64 | uint8 | uint16 | uint32](v Value) (I, bool) {
	n, ok := v.(Integer)
	if !ok {
		return 0, false
	}
	i := I(n)
	if Integer(i) != n {
		return 0, false
	}
	return i, true
}

func intElems(v Value, n int, lo, hi int64) ([]int64, bool) {
	arr, ok := v.(Array)
	if !ok || len(arr) != n {
		return nil, false
	}
	out := make([]int64, n)
	for i, item := range arr {
		x, ok := item.(Integer)
		if !ok || int64(x) < lo || int64(x) > hi {
			return nil, false
		}
		out[i] = int64(x)
	}
	return out, true
}

func floatElems(v Value, n int) ([]float64, bool) {
	arr, ok := v.(Array)
	if !ok || len(arr) != n {
		return nil, false
	}
	out := make([]float64, n)
	for i, item := range arr {
		x, ok := item.(Float)
		if !ok {
			return nil, false
		}
		out[i] = float64(x)
	}
	return out, true
}
