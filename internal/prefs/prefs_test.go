package prefs

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zot/prefs/internal/value"
)

// cleanGroup returns a file with an existing "g" group and the changed flag cleared
func cleanGroup(t *testing.T) (*File, GroupMut) {
	t.Helper()
	f := NewFile()
	g, ok := f.GetGroupMut("g")
	require.True(t, ok)
	f.ClearChanged()
	return f, g
}

func TestNewFileIsClean(t *testing.T) {
	f := NewFile()
	assert.False(t, f.IsChanged())
	_, ok := f.GetGroup("missing")
	assert.False(t, ok)
	assert.False(t, f.IsChanged(), "read access must not mark the file changed")
}

// TestSetAlwaysMarksChanged verifies set is unconditional
func TestSetAlwaysMarksChanged(t *testing.T) {
	f, g := cleanGroup(t)

	Set(g, "count", 5)
	assert.True(t, f.IsChanged())
	f.ClearChanged()

	Set(g, "count", 5)
	assert.True(t, f.IsChanged(), "identical value must still mark changed")
	assert.Equal(t, 5, GetOr(g, "count", 0))
}

// TestSetIfChanged verifies equal values are a no-op
func TestSetIfChanged(t *testing.T) {
	f, g := cleanGroup(t)

	SetIfChanged(g, "pos", value.IVec2{X: 1, Y: 2})
	assert.True(t, f.IsChanged(), "absent key must store")
	f.ClearChanged()

	SetIfChanged(g, "pos", value.IVec2{X: 1, Y: 2})
	assert.False(t, f.IsChanged(), "same value must not mark changed")

	SetIfChanged(g, "pos", value.IVec2{X: 3, Y: 2})
	assert.True(t, f.IsChanged())
	pos, ok := g.GetIVec2("pos")
	require.True(t, ok)
	assert.Equal(t, value.IVec2{X: 3, Y: 2}, pos)
}

func TestSetIfChangedNaN(t *testing.T) {
	f, g := cleanGroup(t)
	Set(g, "ratio", math.NaN())
	f.ClearChanged()

	SetIfChanged(g, "ratio", math.NaN())
	assert.False(t, f.IsChanged(), "rewriting NaN must not mark changed")
}

func TestSetIfChangedKindChange(t *testing.T) {
	f, g := cleanGroup(t)
	Set(g, "n", int64(1))
	f.ClearChanged()

	SetIfChanged(g, "n", 1.0)
	assert.True(t, f.IsChanged(), "integer 1 and float 1.0 are different values")
}

// TestRemove verifies remove only marks changed when a key is deleted
func TestRemove(t *testing.T) {
	f, g := cleanGroup(t)

	g.Remove("missing")
	assert.False(t, f.IsChanged())

	g.SetString("name", "x")
	f.ClearChanged()

	g.Remove("name")
	assert.True(t, f.IsChanged())
	assert.False(t, g.Has("name"))

	f.ClearChanged()
	g.Remove("name")
	assert.False(t, f.IsChanged())
}

// TestGroupMutCreatesAndMarksChanged verifies lazy group creation
func TestGroupMutCreatesAndMarksChanged(t *testing.T) {
	f := NewFile()

	g, ok := f.GetGroupMut("window")
	require.True(t, ok)
	assert.True(t, f.IsChanged(), "creating a top-level group marks changed")
	assert.Equal(t, 0, g.Len())

	f.ClearChanged()
	_, ok = f.GetGroupMut("window")
	require.True(t, ok)
	assert.False(t, f.IsChanged(), "existing group must not mark changed")

	_, ok = g.GetGroupMut("geometry")
	require.True(t, ok)
	assert.True(t, f.IsChanged(), "creating a nested group marks changed")

	_, ok = f.Lookup("window.geometry")
	assert.True(t, ok)
}

func TestGroupMutOnNonTable(t *testing.T) {
	f, g := cleanGroup(t)
	g.SetInt("n", 1)
	f.ClearChanged()

	_, ok := g.GetGroupMut("n")
	assert.False(t, ok)
	assert.False(t, f.IsChanged())
	n, _ := g.GetInt("n")
	assert.Equal(t, int64(1), n)

	_, ok = g.GetGroup("n")
	assert.False(t, ok)
}

// TestNestedViewsShareFlag verifies the flag is shared, not copied
func TestNestedViewsShareFlag(t *testing.T) {
	f := NewFile()
	outer, _ := f.GetGroupMut("a")
	inner, _ := outer.GetGroupMut("b")
	deeper, _ := inner.GetGroupMut("c")
	f.ClearChanged()

	deeper.SetBool("flag", true)
	assert.True(t, f.IsChanged())

	f.ClearChanged()
	outer.SetBool("flag", true)
	assert.True(t, f.IsChanged())

	got, ok := f.Lookup("a.b.c")
	require.True(t, ok)
	b, _ := got.GetBool("flag")
	assert.True(t, b)
}

func TestTypedAccessors(t *testing.T) {
	f := NewFile()
	g, _ := f.GetGroupMut("t")
	g.SetBool("b", true)
	g.SetInt("i", -7)
	g.SetFloat("f", 0.5)
	g.SetString("s", "text")
	g.SetIVec2("iv2", value.IVec2{X: -1, Y: 2})
	g.SetUVec2("uv2", value.UVec2{X: 640, Y: 480})
	g.SetVec2("v2", value.Vec2{X: 0.5, Y: 1})
	g.SetIVec3("iv3", value.IVec3{X: 1, Y: -2, Z: 3})
	g.SetUVec3("uv3", value.UVec3{X: 1, Y: 2, Z: 3})
	g.SetVec3("v3", value.Vec3{X: 1, Y: 2, Z: 3})

	r, ok := f.GetGroup("t")
	require.True(t, ok)

	b, _ := r.GetBool("b")
	i, _ := r.GetInt("i")
	fl, _ := r.GetFloat("f")
	s, _ := r.GetString("s")
	iv2, _ := r.GetIVec2("iv2")
	uv2, _ := r.GetUVec2("uv2")
	v2, _ := r.GetVec2("v2")
	iv3, _ := r.GetIVec3("iv3")
	uv3, _ := r.GetUVec3("uv3")
	v3, _ := r.GetVec3("v3")

	assert.True(t, b)
	assert.Equal(t, int64(-7), i)
	assert.Equal(t, 0.5, fl)
	assert.Equal(t, "text", s)
	assert.Equal(t, value.IVec2{X: -1, Y: 2}, iv2)
	assert.Equal(t, value.UVec2{X: 640, Y: 480}, uv2)
	assert.Equal(t, value.Vec2{X: 0.5, Y: 1}, v2)
	assert.Equal(t, value.IVec3{X: 1, Y: -2, Z: 3}, iv3)
	assert.Equal(t, value.UVec3{X: 1, Y: 2, Z: 3}, uv3)
	assert.Equal(t, value.Vec3{X: 1, Y: 2, Z: 3}, v3)
	assert.Equal(t, []string{"b", "f", "i", "iv2", "iv3", "s", "uv2", "uv3", "v2", "v3"}, r.Keys())

	_, ok = r.GetInt("s")
	assert.False(t, ok)
	assert.Equal(t, int32(9), GetOr(r, "missing", int32(9)))
}

func TestContentIsIndependent(t *testing.T) {
	f := NewFile()
	g, _ := f.GetGroupMut("counter")
	Set(g, "count", 1)

	snap := f.Content()
	Set(g, "count", 2)
	g.SetString("extra", "x")

	counter := snap.Table()["counter"].(value.Table)
	assert.Equal(t, value.Integer(1), counter["count"])
	assert.NotContains(t, counter, "extra")
}

func TestFromTable(t *testing.T) {
	f := FromTable(value.Table{"window": value.Table{"pos": value.Array{value.Integer(10), value.Integer(20)}}})
	assert.False(t, f.IsChanged())

	w, ok := f.GetGroup("window")
	require.True(t, ok)
	pos, ok := w.GetIVec2("pos")
	require.True(t, ok)
	assert.Equal(t, value.IVec2{X: 10, Y: 20}, pos)

	assert.NotNil(t, FromTable(nil).Table())
}

func TestZeroGroupMutIsInert(t *testing.T) {
	var g GroupMut
	g.SetInt("x", 1)
	g.Remove("x")
	_, ok := g.GetGroupMut("y")
	assert.False(t, ok)
	assert.False(t, g.Has("x"))
}
