package store

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zot/prefs/internal/codec"
	"github.com/zot/prefs/internal/prefs"
	"github.com/zot/prefs/internal/value"
)

func sampleFile(s Store) *prefs.File {
	f := s.Create()
	w, _ := f.GetGroupMut("window")
	w.SetIVec2("position", value.IVec2{X: 10, Y: 20})
	w.SetUVec2("size", value.UVec2{X: 800, Y: 600})
	w.SetFloat("scale", 1)
	w.SetString("title", "main")
	return f
}

// TestFSStoreSaveLoad verifies a saved file loads back with the same tree
func TestFSStoreSaveLoad(t *testing.T) {
	dir := t.TempDir()
	s := NewFSStore("com.example.app", WithDir(dir))
	require.True(t, s.IsValid())
	assert.Equal(t, dir, s.Location())

	f := sampleFile(s)
	require.NoError(t, s.Save("settings", f))

	assert.FileExists(t, filepath.Join(dir, "settings.toml"))
	assert.NoFileExists(t, filepath.Join(dir, "settings.toml.new"))

	loaded, ok := s.Load("settings")
	require.True(t, ok)
	assert.False(t, loaded.IsChanged())
	assert.True(t, value.Equal(f.Table(), loaded.Table()))

	w, ok := loaded.GetGroup("window")
	require.True(t, ok)
	scale, ok := w.GetFloat("scale")
	require.True(t, ok)
	assert.Equal(t, 1.0, scale)
}

func TestFSStoreCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "app")
	s := NewFSStore("app", WithDir(dir))

	require.NoError(t, s.Save("settings", sampleFile(s)))
	assert.FileExists(t, filepath.Join(dir, "settings.toml"))
}

func TestFSStoreLoadMissing(t *testing.T) {
	s := NewFSStore("app", WithDir(t.TempDir()))
	_, ok := s.Load("nothing")
	assert.False(t, ok)
}

// TestFSStoreLoadCorrupt verifies an unparsable file is treated as absent
func TestFSStoreLoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.toml"), []byte("[window\nbroken = "), 0o644))

	s := NewFSStore("app", WithDir(dir))
	_, ok := s.Load("settings")
	assert.False(t, ok)
}

func TestFSStoreCodecs(t *testing.T) {
	for _, name := range []string{"toml", "json", "yaml"} {
		t.Run(name, func(t *testing.T) {
			c, err := codec.ByName(name)
			require.NoError(t, err)

			dir := t.TempDir()
			s := NewFSStore("app", WithDir(dir), WithCodec(c))
			f := sampleFile(s)
			require.NoError(t, s.Save("settings", f))
			assert.FileExists(t, filepath.Join(dir, "settings."+c.Ext()))

			loaded, ok := s.Load("settings")
			require.True(t, ok)
			assert.True(t, value.Equal(f.Table(), loaded.Table()))
		})
	}
}

// TestFSStoreSaveAsync verifies async saves complete by Wait and report through done
func TestFSStoreSaveAsync(t *testing.T) {
	dir := t.TempDir()
	s := NewFSStore("app", WithDir(dir))
	f := sampleFile(s)

	var mu sync.Mutex
	var results []error
	s.SaveAsync("settings", f.Content(), func(err error) {
		mu.Lock()
		defer mu.Unlock()
		results = append(results, err)
	})
	require.NoError(t, s.Wait())

	mu.Lock()
	assert.Equal(t, []error{nil}, results)
	mu.Unlock()

	loaded, ok := s.Load("settings")
	require.True(t, ok)
	assert.True(t, value.Equal(f.Table(), loaded.Table()))
}

func TestFSStoreSaveAsyncError(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	// the base directory is a regular file, so MkdirAll fails
	s := NewFSStore("app", WithDir(filepath.Join(blocker, "sub")))
	done := make(chan error, 1)
	s.SaveAsync("settings", prefs.NewFile().Content(), func(err error) { done <- err })

	assert.Error(t, s.Wait())
	assert.Error(t, <-done)
	assert.NoError(t, s.Wait(), "errors are reported once")
}

func TestFSStoreInvalid(t *testing.T) {
	s := NewFSStore("")
	assert.False(t, s.IsValid())

	_, ok := s.Load("settings")
	assert.False(t, ok)
	assert.NoError(t, s.Save("settings", sampleFile(s)))

	called := false
	s.SaveAsync("settings", prefs.NewFile().Content(), func(error) { called = true })
	assert.NoError(t, s.Wait())
	assert.False(t, called)
}

func TestFSStoreRejectsPathNames(t *testing.T) {
	s := NewFSStore("app", WithDir(t.TempDir()))
	for _, name := range []string{"", "..", "a/b", `a\b`} {
		assert.ErrorIs(t, s.Save(name, prefs.NewFile()), ErrInvalidName, name)
		_, ok := s.Load(name)
		assert.False(t, ok, name)
	}
}
