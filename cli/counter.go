package cli

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/zot/prefs/internal/autosave"
	"github.com/zot/prefs/internal/prefs"
	"github.com/zot/prefs/internal/registry"
)

// tickInterval is how often the counter loop advances the autosave timer.
const tickInterval = 50 * time.Millisecond

// runCounter keeps a count in counter.count of a preferences file. Each "+"
// or "-" line on stdin changes it and arms the autosave timer, so a burst of
// changes is written once. End of input flushes and exits.
func (e *env) runCounter(args []string) int {
	if len(args) > 1 {
		return e.usage("counter [file]")
	}
	name := "prefs"
	if len(args) == 1 {
		name = args[0]
	}

	count := int32(0)
	if f, ok := e.prefs.Get(name); ok {
		if g, ok := f.GetGroup("counter"); ok {
			count = prefs.GetOr(g, "count", int32(0))
		}
	}
	fmt.Fprintf(e.stdout, "Count: %d\n", count)

	timer := autosave.New(e.prefs,
		autosave.WithDelay(e.cfg.Autosave.Delay.Duration()),
		autosave.WithLogger(e.prefs.Logger()))

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(e.stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case <-e.ctx.Done():
			return e.flush(name)
		case now := <-ticker.C:
			timer.Tick(now.Sub(last))
			last = now
		case line, ok := <-lines:
			if !ok {
				return e.flush(name)
			}
			delta := 0
			switch strings.TrimSpace(line) {
			case "+", ".":
				delta = 1
			case "-", ",":
				delta = -1
			default:
				continue
			}
			count += int32(delta)
			fmt.Fprintf(e.stdout, "Count: %d\n", count)

			f, ok := e.prefs.GetMut(name)
			if !ok {
				continue
			}
			g, _ := f.GetGroupMut("counter")
			prefs.Set(g, "count", count)
			timer.Start()
		}
	}
}

// flush saves what the autosave timer has not yet written.
func (e *env) flush(name string) int {
	e.prefs.Flush(registry.SaveIfChanged)
	if f, ok := e.prefs.Get(name); ok && f.IsChanged() {
		return e.fail("could not save preferences")
	}
	return 0
}
