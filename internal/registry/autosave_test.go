package registry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zot/prefs/internal/autosave"
	"github.com/zot/prefs/internal/prefs"
	"github.com/zot/prefs/internal/store"
)

// TestDriveWhileEditing edits a file continuously while Drive runs the
// countdown; saves posted by Drive run between edits on the editing goroutine
func TestDriveWhileEditing(t *testing.T) {
	kv := store.NewMemoryKV()
	p := New("app", WithStore(store.NewKVStore("app", kv)))
	timer := autosave.New(p, autosave.WithDelay(time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	jobs := make(chan func())
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		timer.Drive(ctx, time.Millisecond, func(save func()) {
			select {
			case jobs <- save:
			case <-ctx.Done():
			}
		})
	}()

	f, ok := p.GetMut("state")
	require.True(t, ok)
	g, ok := f.GetGroupMut("counter")
	require.True(t, ok)

	edits := time.NewTicker(2 * time.Millisecond)
	defer edits.Stop()
	deadline := time.After(200 * time.Millisecond)

	saves := 0
	var last int64
loop:
	for {
		select {
		case save := <-jobs:
			save()
			saves++
		case <-edits.C:
			last++
			prefs.Set(g, "x", last)
			g.SetString("label", "edit")
			timer.Start()
		case <-deadline:
			break loop
		}
	}

	cancel()
	<-stopped
	p.Flush(SaveIfChanged)
	assert.False(t, f.IsChanged())
	assert.Positive(t, saves, "Drive posted at least one autosave")

	reloaded := New("app", WithStore(store.NewKVStore("app", kv)))
	rf, ok := reloaded.Get("state")
	require.True(t, ok)
	rg, ok := rf.GetGroup("counter")
	require.True(t, ok)
	assert.Equal(t, last, prefs.GetOr(rg, "x", int64(-1)))
}
