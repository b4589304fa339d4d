// Package prefs holds the in-memory model of a preferences file: a root
// table of named groups plus a single changed flag shared by every mutable
// view into the file.
package prefs

import (
	"strings"
	"sync/atomic"

	"github.com/zot/prefs/internal/value"
)

// File is one preferences file. It must not be copied after first use.
type File struct {
	root    value.Table
	changed atomic.Bool
}

// NewFile returns an empty, unchanged file.
func NewFile() *File {
	return &File{root: value.Table{}}
}

// FromTable wraps a decoded root table. The file starts unchanged.
func FromTable(root value.Table) *File {
	if root == nil {
		root = value.Table{}
	}
	return &File{root: root}
}

// Root returns a read-only view of the whole file.
func (f *File) Root() Group {
	return Group{table: f.root}
}

// RootMut returns a mutable view of the whole file.
func (f *File) RootMut() GroupMut {
	return newGroupMut(f.root, &f.changed)
}

// GetGroup returns the top-level group name, or false if it is missing or not
// a table.
func (f *File) GetGroup(name string) (Group, bool) {
	return f.Root().GetGroup(name)
}

// GetGroupMut returns the top-level group name, creating it (and marking the
// file changed) if it is missing.
func (f *File) GetGroupMut(name string) (GroupMut, bool) {
	return f.RootMut().GetGroupMut(name)
}

// Lookup follows a dotted path of group names from the root,
// e.g. "window.geometry".
func (f *File) Lookup(path string) (Group, bool) {
	g := f.Root()
	for _, name := range splitPath(path) {
		var ok bool
		if g, ok = g.GetGroup(name); !ok {
			return Group{}, false
		}
	}
	return g, true
}

// LookupMut is Lookup for mutable views; missing groups along the path are
// created.
func (f *File) LookupMut(path string) (GroupMut, bool) {
	g := f.RootMut()
	for _, name := range splitPath(path) {
		var ok bool
		if g, ok = g.GetGroupMut(name); !ok {
			return GroupMut{}, false
		}
	}
	return g, true
}

func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

// Table returns the live root table for synchronous encoding. Callers must
// not modify it.
func (f *File) Table() value.Table {
	return f.root
}

// IsChanged reports whether the file differs from what was last saved.
func (f *File) IsChanged() bool {
	return f.changed.Load()
}

// SetChanged marks the file as needing a save.
func (f *File) SetChanged() {
	f.changed.Store(true)
}

// ClearChanged marks the file as saved.
func (f *File) ClearChanged() {
	f.changed.Store(false)
}

// Content returns an independent deep copy of the file's tree, safe to hand
// to another goroutine while the file keeps being edited.
func (f *File) Content() *Content {
	return &Content{root: value.CloneTable(f.root)}
}

// Content is an immutable snapshot of a file, taken for saving.
type Content struct {
	root value.Table
}

// Table returns the snapshot's tree. Callers must treat it as read-only.
func (c *Content) Table() value.Table {
	return c.root
}
