package chat

import (
	"sync"
	"time"
)

// TickFunc receives the revealed prefix after each tick. done is true on the
// final tick, when the prefix equals the full target. Returning false stops
// the run early (the owner decided the reveal is stale).
type TickFunc func(prefix string, done bool) bool

// RevealScheduler drives the time-paced, character-by-character disclosure of
// one target string at a time. It owns at most one ticker goroutine; starting
// a new reveal cancels the previous one first.
//
// The scheduler is deliberately dumb: it paces ticks and stops on demand, but
// the revealed text itself lives in the owning ChatSession, whose
// generation check makes any tick racing a cancellation a no-op.
type RevealScheduler struct {
	interval time.Duration

	mu   sync.Mutex
	stop chan struct{} // non-nil while a run is active
}

// NewRevealScheduler creates a scheduler with the given tick period.
func NewRevealScheduler(interval time.Duration) *RevealScheduler {
	if interval <= 0 {
		interval = 35 * time.Millisecond
	}
	return &RevealScheduler{interval: interval}
}

// Begin cancels any in-flight reveal and starts ticking through text, one
// rune per tick. tick is invoked outside the scheduler's lock.
func (r *RevealScheduler) Begin(text string, tick TickFunc) {
	r.mu.Lock()
	if r.stop != nil {
		close(r.stop)
	}
	stop := make(chan struct{})
	r.stop = stop
	r.mu.Unlock()

	go r.run(text, tick, stop)
}

// Cancel stops the active run, if any. Idempotent - safe to call when no
// reveal is in flight. The jump to the full text on a force-complete is the
// session's job; Cancel only guarantees the ticker goroutine winds down.
func (r *RevealScheduler) Cancel() {
	r.mu.Lock()
	if r.stop != nil {
		close(r.stop)
		r.stop = nil
	}
	r.mu.Unlock()
}

func (r *RevealScheduler) run(text string, tick TickFunc, stop chan struct{}) {
	runes := []rune(text)
	if len(runes) == 0 {
		// Nothing to pace - report completion on the first tick.
		select {
		case <-stop:
		default:
			tick("", true)
		}
		r.finish(stop)
		return
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for i := 1; i <= len(runes); i++ {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !tick(string(runes[:i]), i == len(runes)) {
				return
			}
		}
	}

	r.finish(stop)
}

// finish clears the stop handle if it still belongs to this run, so a later
// Cancel doesn't close an already-finished channel.
func (r *RevealScheduler) finish(stop chan struct{}) {
	r.mu.Lock()
	if r.stop == stop {
		r.stop = nil
	}
	r.mu.Unlock()
}
