package prefs

import (
	"sync/atomic"

	"github.com/zot/prefs/internal/value"
)

// Reader is implemented by both group views.
type Reader interface {
	Get(key string) (value.Value, bool)
}

// Group is a read-only view of one table inside a preferences file.
// The zero Group is empty.
type Group struct {
	table value.Table
}

// Get returns the raw value stored under key.
func (g Group) Get(key string) (value.Value, bool) {
	v, ok := g.table[key]
	return v, ok
}

// Has reports whether key is present.
func (g Group) Has(key string) bool {
	_, ok := g.table[key]
	return ok
}

// Keys returns the group's keys in sorted order.
func (g Group) Keys() []string {
	return g.table.Keys()
}

// Len returns the number of entries in the group.
func (g Group) Len() int {
	return len(g.table)
}

// GetGroup returns the nested group stored under key, or false if key is
// missing or does not hold a table.
func (g Group) GetGroup(key string) (Group, bool) {
	t, ok := g.table[key].(value.Table)
	if !ok {
		return Group{}, false
	}
	return Group{table: t}, true
}

// GetBool decodes the value under key as bool.
func (g Group) GetBool(key string) (bool, bool) { return Get[bool](g, key) }
// GetInt decodes the value under key as int64.
func (g Group) GetInt(key string) (int64, bool) { return Get[int64](g, key) }
// GetFloat decodes the value under key as float64.
func (g Group) GetFloat(key string) (float64, bool) { return Get[float64](g, key) }
// GetString decodes the value under key as string.
func (g Group) GetString(key string) (string, bool) { return Get[string](g, key) }
// GetIVec2 decodes the value under key as IVec2.
func (g Group) GetIVec2(key string) (value.IVec2, bool) { return Get[value.IVec2](g, key) }
// GetUVec2 decodes the value under key as UVec2.
func (g Group) GetUVec2(key string) (value.UVec2, bool) { return Get[value.UVec2](g, key) }
// GetVec2 decodes the value under key as Vec2.
func (g Group) GetVec2(key string) (value.Vec2, bool) { return Get[value.Vec2](g, key) }
// GetIVec3 decodes the value under key as IVec3.
func (g Group) GetIVec3(key string) (value.IVec3, bool) { return Get[value.IVec3](g, key) }
// GetUVec3 decodes the value under key as UVec3.
func (g Group) GetUVec3(key string) (value.UVec3, bool) { return Get[value.UVec3](g, key) }
// GetVec3 decodes the value under key as Vec3.
func (g Group) GetVec3(key string) (value.Vec3, bool) { return Get[value.Vec3](g, key) }

// GroupMut is a mutable view of one table inside a preferences file. It
// shares the owning file's changed flag, so a mutation through any view,
// however deeply nested, marks the whole file changed.
type GroupMut struct {
	Group
	changed *atomic.Bool
}

func newGroupMut(t value.Table, changed *atomic.Bool) GroupMut {
	return GroupMut{Group: Group{table: t}, changed: changed}
}

func (g GroupMut) markChanged() {
	if g.changed != nil {
		g.changed.Store(true)
	}
}

// Set stores v under key and marks the file changed, even when v equals the
// current value.
func (g GroupMut) Set(key string, v value.Value) {
	if g.table == nil || v == nil {
		return
	}
	g.table[key] = v
	g.markChanged()
}

// SetIfChanged stores v under key only if it differs from the current value.
// The file is marked changed only when a store happens.
func (g GroupMut) SetIfChanged(key string, v value.Value) {
	if g.table == nil || v == nil {
		return
	}
	if cur, ok := g.table[key]; ok && value.Equal(cur, v) {
		return
	}
	g.table[key] = v
	g.markChanged()
}

// Remove deletes key. The file is marked changed only if the key existed.
func (g GroupMut) Remove(key string) {
	if _, ok := g.table[key]; !ok {
		return
	}
	delete(g.table, key)
	g.markChanged()
}

// GetGroupMut returns the nested group stored under key, creating an empty one
// if key is missing. Creating the group marks the file changed. It returns
// false if key holds a value that is not a table.
func (g GroupMut) GetGroupMut(key string) (GroupMut, bool) {
	if g.table == nil {
		return GroupMut{}, false
	}
	cur, ok := g.table[key]
	if !ok {
		t := value.Table{}
		g.table[key] = t
		g.markChanged()
		return newGroupMut(t, g.changed), true
	}
	t, ok := cur.(value.Table)
	if !ok {
		return GroupMut{}, false
	}
	return newGroupMut(t, g.changed), true
}

// SetBool stores v under key and marks the file changed.
func (g GroupMut) SetBool(key string, v bool) { Set(g, key, v) }
// SetInt stores v under key and marks the file changed.
func (g GroupMut) SetInt(key string, v int64) { Set(g, key, v) }
// SetFloat stores v under key and marks the file changed.
func (g GroupMut) SetFloat(key string, v float64) { Set(g, key, v) }
// SetString stores v under key and marks the file changed.
func (g GroupMut) SetString(key string, v string) { Set(g, key, v) }
// SetIVec2 stores v under key and marks the file changed.
func (g GroupMut) SetIVec2(key string, v value.IVec2) { Set(g, key, v) }
// SetUVec2 stores v under key and marks the file changed.
func (g GroupMut) SetUVec2(key string, v value.UVec2) { Set(g, key, v) }
// SetVec2 stores v under key and marks the file changed.
func (g GroupMut) SetVec2(key string, v value.Vec2) { Set(g, key, v) }
// SetIVec3 stores v under key and marks the file changed.
func (g GroupMut) SetIVec3(key string, v value.IVec3) { Set(g, key, v) }
// SetUVec3 stores v under key and marks the file changed.
func (g GroupMut) SetUVec3(key string, v value.UVec3) { Set(g, key, v) }
// SetVec3 stores v under key and marks the file changed.
func (g GroupMut) SetVec3(key string, v value.Vec3) { Set(g, key, v) }

// Get decodes the value under key as T. It returns false if the key is
// missing or holds a value that does not decode as T.
func Get[T value.Native](r Reader, key string) (T, bool) {
	v, ok := r.Get(key)
	if !ok {
		var zero T
		return zero, false
	}
	return value.Decode[T](v)
}

// GetOr is Get with a fallback for absent or undecodable values.
func GetOr[T value.Native](r Reader, key string, def T) T {
	if v, ok := Get[T](r, key); ok {
		return v
	}
	return def
}

// Set encodes v and stores it under key, marking the file changed.
func Set[T value.Native](g GroupMut, key string, v T) {
	g.Set(key, value.Encode(v))
}

// SetIfChanged encodes v and stores it only if it differs from the current value.
func SetIfChanged[T value.Native](g GroupMut, key string, v T) {
	g.SetIfChanged(key, value.Encode(v))
}
