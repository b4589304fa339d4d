// Package prefs stores application preferences: named files of nested groups
// holding typed values, saved to the OS preferences directory (or a
// key/value medium) when they change.
//
//	p := prefs.New("com.example.myapp")
//	if f, ok := p.GetMut("settings"); ok {
//		w, _ := f.GetGroupMut("window")
//		w.SetIVec2("position", prefs.IVec2{X: 10, Y: 20})
//	}
//	timer := prefs.NewAutosave(p)
//	timer.Start() // after each change; call timer.Tick from the frame loop
//	...
//	p.Flush(prefs.SaveIfChanged) // on exit
package prefs

import (
	"github.com/zot/prefs/internal/autosave"
	"github.com/zot/prefs/internal/codec"
	"github.com/zot/prefs/internal/prefs"
	"github.com/zot/prefs/internal/registry"
	"github.com/zot/prefs/internal/store"
	"github.com/zot/prefs/internal/value"
)

// Re-export registry types
type (
	Preferences = registry.Preferences
	Option      = registry.Option
	SaveMode    = registry.SaveMode
)

const (
	SaveIfChanged = registry.SaveIfChanged
	SaveAlways    = registry.SaveAlways
)

var (
	New        = registry.New
	FromConfig = registry.FromConfig
	WithStore  = registry.WithStore
	WithLogger = registry.WithLogger
)

// Re-export file and group types
type (
	File     = prefs.File
	Content  = prefs.Content
	Group    = prefs.Group
	GroupMut = prefs.GroupMut
	Reader   = prefs.Reader
)

// Re-export value types
type (
	Value   = value.Value
	Bool    = value.Bool
	Integer = value.Integer
	Float   = value.Float
	String  = value.String
	Array   = value.Array
	Table   = value.Table
	IVec2   = value.IVec2
	UVec2   = value.UVec2
	Vec2    = value.Vec2
	IVec3   = value.IVec3
	UVec3   = value.UVec3
	Vec3    = value.Vec3
)

// Re-export stores
type (
	Store   = store.Store
	FSStore = store.FSStore
	KVStore = store.KVStore
	KV      = store.KV
	Codec   = codec.Codec
)

var (
	NewFSStore    = store.NewFSStore
	NewKVStore    = store.NewKVStore
	NewMemoryKV   = store.NewMemoryKV
	NewSQLiteKV   = store.NewSQLiteKV
	NewPostgresKV = store.NewPostgresKV
	OpenKV        = store.OpenKV
	StoreDir      = store.WithDir
	StoreCodec    = store.WithCodec
	StoreLogger   = store.WithLogger
	CodecByName   = codec.ByName
)

// Re-export the autosave timer
type (
	Autosave       = autosave.Timer
	AutosaveOption = autosave.Option
)

var (
	NewAutosave       = autosave.New
	WithAutosaveDelay = autosave.WithDelay
)

// Get decodes key from a group view.
func Get[T value.Native](r Reader, key string) (T, bool) {
	return prefs.Get[T](r, key)
}

// GetOr decodes key from a group view, or returns def.
func GetOr[T value.Native](r Reader, key string, def T) T {
	return prefs.GetOr(r, key, def)
}

// Set stores v under key and marks the file changed.
func Set[T value.Native](g GroupMut, key string, v T) {
	prefs.Set(g, key, v)
}

// SetIfChanged stores v under key unless it already holds an equal value.
func SetIfChanged[T value.Native](g GroupMut, key string, v T) {
	prefs.SetIfChanged(g, key, v)
}
