// Package autosave debounces saves: arming the timer starts a countdown, and
// a save of changed files is requested once it runs out. Re-arming restarts
// the countdown, so a burst of edits produces one save.
package autosave

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultDelay is the countdown used when none is configured.
const DefaultDelay = time.Second

// Saver is what the timer asks to save. The registry satisfies it.
type Saver interface {
	SaveAsync(force bool)
}

// Timer is the debounce countdown. Zero remaining time means idle.
// Start, Tick and Drive may be called from different goroutines.
type Timer struct {
	mu        sync.Mutex
	delay     time.Duration
	remaining time.Duration
	saver     Saver
	log       *zap.Logger
}

// Option configures a Timer.
type Option func(*Timer)

// WithDelay sets the countdown length. Non-positive values are ignored.
func WithDelay(d time.Duration) Option {
	return func(t *Timer) {
		if d > 0 {
			t.delay = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(t *Timer) {
		if l != nil {
			t.log = l
		}
	}
}

// New creates an idle timer that saves through saver.
func New(saver Saver, opts ...Option) *Timer {
	t := &Timer{
		delay: DefaultDelay,
		saver: saver,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start arms the timer, restarting the countdown if it is already armed.
// Call it after changing preferences.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.remaining = t.delay
}

// Tick advances the countdown by elapsed. When it reaches zero the timer
// goes idle and requests one save on the calling goroutine; Tick then
// reports true. Ticks while idle do nothing. Call Tick from the goroutine
// that edits preferences.
func (t *Timer) Tick(elapsed time.Duration) bool {
	if !t.advance(elapsed) {
		return false
	}
	t.save()
	return true
}

// advance moves the countdown and reports whether it just ran out.
func (t *Timer) advance(elapsed time.Duration) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.remaining <= 0 || elapsed <= 0 {
		return false
	}
	t.remaining -= elapsed
	if t.remaining > 0 {
		return false
	}
	t.remaining = 0
	return true
}

func (t *Timer) save() {
	t.log.Debug("Autosave")
	t.saver.SaveAsync(false)
}

// Armed reports whether a save is pending.
func (t *Timer) Armed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining > 0
}

// Remaining returns the time left before the pending save.
func (t *Timer) Remaining() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

// Delay returns the countdown length.
func (t *Timer) Delay() time.Duration {
	return t.delay
}

// Drive counts down every interval with the measured elapsed time until ctx
// is done. It is for hosts with no frame loop of their own. Drive never
// touches preferences itself: when the countdown runs out it hands the save
// to post, which must run it on the goroutine that edits preferences (for
// example by sending it over a channel that goroutine selects on). Flushing
// on exit is left to the caller.
func (t *Timer) Drive(ctx context.Context, interval time.Duration, post func(save func())) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if t.advance(now.Sub(last)) {
				post(t.save)
			}
			last = now
		}
	}
}
