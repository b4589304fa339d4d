package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zot/prefs/internal/prefs"
	"github.com/zot/prefs/internal/store"
	"github.com/zot/prefs/internal/value"
)

type event struct {
	name string
	file *prefs.File
}

func startWatcher(t *testing.T, s *store.FSStore, names ...string) <-chan event {
	t.Helper()
	events := make(chan event, 16)
	w, err := New(s, names, func(name string, f *prefs.File) {
		events <- event{name, f}
	}, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, w.Start())
	t.Cleanup(func() { w.Stop() })
	return events
}

// TestReportsReplacedFile verifies a save by another store is picked up
func TestReportsReplacedFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "app")
	s := store.NewFSStore("app", store.WithDir(dir))
	events := startWatcher(t, s)

	f := prefs.NewFile()
	g, _ := f.GetGroupMut("window")
	g.SetInt("width", 640)
	require.NoError(t, s.Save("settings", f))

	select {
	case ev := <-events:
		assert.Equal(t, "settings", ev.name)
		assert.True(t, value.Equal(f.Table(), ev.file.Table()))
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	s := store.NewFSStore("app", store.WithDir(dir))
	events := startWatcher(t, s, "settings")

	require.NoError(t, s.Save("other", prefs.NewFile()))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	select {
	case ev := <-events:
		t.Fatalf("unexpected event for %s", ev.name)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestStartInvalidStore(t *testing.T) {
	w, err := New(store.NewFSStore(""), nil, func(string, *prefs.File) {})
	require.NoError(t, err)
	assert.ErrorIs(t, w.Start(), store.ErrUnavailable)
	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop(), "stop is idempotent")
}
