package value

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTrip[T Native](t *testing.T, v T) {
	t.Helper()
	got, ok := Decode[T](Encode(v))
	require.True(t, ok, "decode of %v failed", v)
	assert.Equal(t, v, got)
}

// TestScalarRoundTrip verifies decode(encode(v)) == v for every scalar type
func TestScalarRoundTrip(t *testing.T) {
	roundTrip(t, true)
	roundTrip(t, false)
	roundTrip(t, 0)
	roundTrip(t, -42)
	roundTrip(t, int8(math.MinInt8))
	roundTrip(t, int16(math.MaxInt16))
	roundTrip(t, int32(math.MinInt32))
	roundTrip(t, int64(math.MaxInt64))
	roundTrip(t, uint8(math.MaxUint8))
	roundTrip(t, uint16(math.MaxUint16))
	roundTrip(t, uint32(math.MaxUint32))
	roundTrip(t, float32(3.25))
	roundTrip(t, float32(0.1))
	roundTrip(t, 2.5e-300)
	roundTrip(t, "")
	roundTrip(t, "hello, world")
}

// TestVectorRoundTrip verifies exact round trips for 2D/3D vectors
func TestVectorRoundTrip(t *testing.T) {
	roundTrip(t, IVec2{10, -20})
	roundTrip(t, UVec2{800, 600})
	roundTrip(t, Vec2{1.5, -0.25})
	roundTrip(t, IVec3{1, 2, 3})
	roundTrip(t, UVec3{math.MaxUint32, 0, 7})
	roundTrip(t, Vec3{0.1, 0.2, 0.3})
}

func TestVectorEncoding(t *testing.T) {
	assert.Equal(t, Array{Integer(10), Integer(20)}, Encode(IVec2{10, 20}))
	assert.Equal(t, Array{Integer(1), Integer(2), Integer(3)}, Encode(UVec3{1, 2, 3}))
	assert.Equal(t, Array{Float(1), Float(2)}, Encode(Vec2{1, 2}))
}

// TestMalformedVectors verifies wrong length or element kind decodes as absent
func TestMalformedVectors(t *testing.T) {
	tests := []struct {
		name string
		in   Value
		ok   func(Value) bool
	}{
		{"ivec2 from 3 elements", Array{Integer(10), Integer(20), Integer(30)}, func(v Value) bool { _, ok := Decode[IVec2](v); return ok }},
		{"ivec2 from 1 element", Array{Integer(10)}, func(v Value) bool { _, ok := Decode[IVec2](v); return ok }},
		{"ivec2 from floats", Array{Float(1), Float(2)}, func(v Value) bool { _, ok := Decode[IVec2](v); return ok }},
		{"ivec2 from mixed", Array{Integer(1), Float(2)}, func(v Value) bool { _, ok := Decode[IVec2](v); return ok }},
		{"ivec2 out of range", Array{Integer(math.MaxInt32 + 1), Integer(0)}, func(v Value) bool { _, ok := Decode[IVec2](v); return ok }},
		{"uvec2 negative", Array{Integer(-1), Integer(0)}, func(v Value) bool { _, ok := Decode[UVec2](v); return ok }},
		{"vec2 from integers", Array{Integer(1), Integer(2)}, func(v Value) bool { _, ok := Decode[Vec2](v); return ok }},
		{"vec3 from 2 elements", Array{Float(1), Float(2)}, func(v Value) bool { _, ok := Decode[Vec3](v); return ok }},
		{"uvec3 from string", String("1,2,3"), func(v Value) bool { _, ok := Decode[UVec3](v); return ok }},
		{"ivec3 from table", Table{"x": Integer(1)}, func(v Value) bool { _, ok := Decode[IVec3](v); return ok }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, tt.ok(tt.in))
		})
	}
}

// TestScalarKindMismatch verifies decoding never coerces between kinds
func TestScalarKindMismatch(t *testing.T) {
	_, ok := Decode[bool](Integer(1))
	assert.False(t, ok)
	_, ok = Decode[int](Float(1))
	assert.False(t, ok)
	_, ok = Decode[float64](Integer(1))
	assert.False(t, ok)
	_, ok = Decode[string](Bool(true))
	assert.False(t, ok)
	_, ok = Decode[int](nil)
	assert.False(t, ok)
	_, ok = Decode[int8](Integer(200))
	assert.False(t, ok)
	_, ok = Decode[uint16](Integer(-1))
	assert.False(t, ok)
}

func TestEqual(t *testing.T) {
	a := Table{"n": Integer(1), "list": Array{String("x"), Table{"deep": Bool(true)}}}
	b := Table{"n": Integer(1), "list": Array{String("x"), Table{"deep": Bool(true)}}}
	assert.True(t, Equal(a, b))

	b["list"].(Array)[1].(Table)["deep"] = Bool(false)
	assert.False(t, Equal(a, b))

	assert.False(t, Equal(Integer(1), Float(1)))
	assert.False(t, Equal(Array{Integer(1)}, Array{Integer(1), Integer(2)}))
	assert.True(t, Equal(nil, nil))

	assert.True(t, Equal(Float(math.NaN()), Float(math.NaN())))
	assert.True(t, Equal(Array{Float(math.NaN())}, Array{Float(math.NaN())}))
	assert.False(t, Equal(Float(math.NaN()), Float(0)))
}

func TestCloneIsDeep(t *testing.T) {
	orig := Table{"group": Table{"pos": Array{Integer(1), Integer(2)}}}
	cp := CloneTable(orig)
	require.True(t, Equal(orig, cp))

	cp["group"].(Table)["pos"].(Array)[0] = Integer(99)
	cp["group"].(Table)["new"] = Bool(true)

	assert.Equal(t, Integer(1), orig["group"].(Table)["pos"].(Array)[0])
	_, exists := orig["group"].(Table)["new"]
	assert.False(t, exists)
}

func TestFromAny(t *testing.T) {
	when := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	v, err := FromAny(map[string]any{
		"b":      true,
		"i":      int64(5),
		"f":      1.5,
		"s":      "x",
		"when":   when,
		"arr":    []any{int64(1), int64(2)},
		"tables": []map[string]any{{"k": "v"}},
	})
	require.NoError(t, err)

	want := Table{
		"b":      Bool(true),
		"i":      Integer(5),
		"f":      Float(1.5),
		"s":      String("x"),
		"when":   String("2024-05-01T12:00:00Z"),
		"arr":    Array{Integer(1), Integer(2)},
		"tables": Array{Table{"k": String("v")}},
	}
	assert.True(t, Equal(want, v))

	_, err = FromAny(uint64(math.MaxUint64))
	assert.Error(t, err)
	_, err = FromAny(struct{}{})
	assert.Error(t, err)
}

func TestToAny(t *testing.T) {
	in := Table{"a": Array{Integer(1), Float(2.5)}, "b": Table{"c": String("d")}}
	out := ToAny(in).(map[string]any)
	assert.Equal(t, []any{int64(1), 2.5}, out["a"])
	assert.Equal(t, map[string]any{"c": "d"}, out["b"])

	back, err := FromAny(out)
	require.NoError(t, err)
	assert.True(t, Equal(in, back))
}

func TestParse(t *testing.T) {
	tests := []struct {
		literal string
		want    Value
	}{
		{"5", Integer(5)},
		{"-3", Integer(-3)},
		{"1.5", Float(1.5)},
		{"true", Bool(true)},
		{`"quoted"`, String("quoted")},
		{"[10, 20]", Array{Integer(10), Integer(20)}},
		{"{ a = 1 }", Table{"a": Integer(1)}},
		{"hello world", String("hello world")},
		{"", String("")},
	}

	for _, tt := range tests {
		t.Run(tt.literal, func(t *testing.T) {
			assert.True(t, Equal(tt.want, Parse(tt.literal)), "got %#v", Parse(tt.literal))
		})
	}
}

func TestTableKeysSorted(t *testing.T) {
	tbl := Table{"b": Bool(true), "a": Bool(true), "c": Bool(true)}
	assert.Equal(t, []string{"a", "b", "c"}, tbl.Keys())
	assert.Equal(t, "table", KindOf(tbl).String())
	assert.Equal(t, KindInvalid, KindOf(nil))
}

func TestFormat(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Integer(5), "5"},
		{Float(1), "1.0"},
		{Bool(false), "false"},
		{String("a b"), `"a b"`},
		{Array{Integer(10), Integer(20)}, "[10, 20]"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.v))
			assert.True(t, Equal(tt.v, Parse(Format(tt.v))))
		})
	}
}
