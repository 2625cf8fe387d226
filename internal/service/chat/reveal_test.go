package chat

import (
	"sync"
	"testing"
	"time"
)

// tickRecorder collects reveal prefixes delivered by the scheduler.
type tickRecorder struct {
	mu       sync.Mutex
	prefixes []string
	done     chan struct{}
}

func newTickRecorder() *tickRecorder {
	return &tickRecorder{done: make(chan struct{})}
}

func (r *tickRecorder) tick(prefix string, done bool) bool {
	r.mu.Lock()
	r.prefixes = append(r.prefixes, prefix)
	r.mu.Unlock()
	if done {
		close(r.done)
	}
	return true
}

func (r *tickRecorder) wait(t *testing.T) {
	t.Helper()
	select {
	case <-r.done:
	case <-time.After(2 * time.Second):
		t.Fatal("reveal did not complete in time")
	}
}

func (r *tickRecorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.prefixes))
	copy(out, r.prefixes)
	return out
}

func TestRevealSchedulerPacesPrefixes(t *testing.T) {
	scheduler := NewRevealScheduler(time.Millisecond)
	rec := newTickRecorder()

	scheduler.Begin("hello", rec.tick)
	rec.wait(t)

	want := []string{"h", "he", "hel", "hell", "hello"}
	got := rec.snapshot()
	if len(got) != len(want) {
		t.Fatalf("got %d ticks, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tick %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRevealSchedulerMultiByte(t *testing.T) {
	scheduler := NewRevealScheduler(time.Millisecond)
	rec := newTickRecorder()

	scheduler.Begin("héllo", rec.tick)
	rec.wait(t)

	got := rec.snapshot()
	if len(got) != 5 {
		t.Fatalf("expected one tick per rune, got %d: %v", len(got), got)
	}
	if got[1] != "hé" {
		t.Errorf("tick 1 = %q, want %q (rune boundary, not byte)", got[1], "hé")
	}
}

func TestRevealSchedulerEmptyText(t *testing.T) {
	scheduler := NewRevealScheduler(time.Millisecond)
	rec := newTickRecorder()

	scheduler.Begin("", rec.tick)
	rec.wait(t)

	got := rec.snapshot()
	if len(got) != 1 || got[0] != "" {
		t.Fatalf("empty text should complete on a single empty tick, got %v", got)
	}
}

func TestRevealSchedulerCancel(t *testing.T) {
	scheduler := NewRevealScheduler(5 * time.Millisecond)

	var mu sync.Mutex
	count := 0
	scheduler.Begin("a long message that will not finish", func(prefix string, done bool) bool {
		mu.Lock()
		count++
		mu.Unlock()
		return true
	})

	time.Sleep(12 * time.Millisecond)
	scheduler.Cancel()

	mu.Lock()
	after := count
	mu.Unlock()
	time.Sleep(25 * time.Millisecond)

	mu.Lock()
	final := count
	mu.Unlock()
	// At most one in-flight tick may land after Cancel returns
	if final > after+1 {
		t.Errorf("ticks kept arriving after cancel: %d -> %d", after, final)
	}

	// Cancel again is a no-op
	scheduler.Cancel()
}

func TestRevealSchedulerTickFalseStopsRun(t *testing.T) {
	scheduler := NewRevealScheduler(time.Millisecond)

	var mu sync.Mutex
	count := 0
	scheduler.Begin("stop early", func(prefix string, done bool) bool {
		mu.Lock()
		defer mu.Unlock()
		count++
		return count < 3
	})

	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if count != 3 {
		t.Errorf("run should stop when tick returns false, got %d ticks", count)
	}
}

func TestRevealSchedulerBeginCancelsPrevious(t *testing.T) {
	scheduler := NewRevealScheduler(time.Millisecond)

	first := newTickRecorder()
	scheduler.Begin("first message", first.tick)

	second := newTickRecorder()
	scheduler.Begin("ok", second.tick)
	second.wait(t)

	got := second.snapshot()
	if got[len(got)-1] != "ok" {
		t.Errorf("second reveal should run to completion, last tick %q", got[len(got)-1])
	}
}
