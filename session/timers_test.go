package session

import (
	"testing"
	"time"
)

func TestTimersAfterFiresOnceAtDueTime(t *testing.T) {
	var tm Timers
	calls := 0
	tm.After(100*time.Millisecond, 1, func() { calls++ })

	tm.Advance(99*time.Millisecond, 1)
	if calls != 0 {
		t.Fatalf("expected no call before due time, got %d", calls)
	}
	tm.Advance(time.Millisecond, 1)
	if calls != 1 {
		t.Fatalf("expected 1 call at due time, got %d", calls)
	}
	tm.Advance(time.Second, 1)
	if calls != 1 {
		t.Fatalf("expected one-shot task to stay fired once, got %d", calls)
	}
	if tm.Pending() != 0 {
		t.Fatalf("expected no pending tasks, got %d", tm.Pending())
	}
}

func TestTimersEveryFiresPerPeriod(t *testing.T) {
	var tm Timers
	calls := 0
	id := tm.Every(5*time.Millisecond, 1, func() { calls++ })

	if n := tm.Advance(16*time.Millisecond, 1); n != 3 {
		t.Fatalf("expected 3 ticks in 16ms, got %d", n)
	}
	tm.Advance(4*time.Millisecond, 1)
	if calls != 4 {
		t.Fatalf("expected 4 ticks after 20ms, got %d", calls)
	}
	if !tm.Cancel(id) {
		t.Fatalf("expected cancel to find the task")
	}
	tm.Advance(time.Second, 1)
	if calls != 4 {
		t.Fatalf("expected no ticks after cancel, got %d", calls)
	}
}

func TestTimersStaleGenerationDropped(t *testing.T) {
	var tm Timers
	calls := 0
	tm.After(10*time.Millisecond, 1, func() { calls++ })
	tm.Every(10*time.Millisecond, 1, func() { calls++ })

	tm.Advance(time.Second, 2)
	if calls != 0 {
		t.Fatalf("expected stale tasks to be dropped, got %d calls", calls)
	}
	if tm.Pending() != 0 {
		t.Fatalf("expected stale tasks removed, %d pending", tm.Pending())
	}
}

func TestTimersRunInDueOrder(t *testing.T) {
	var tm Timers
	var order []string
	tm.After(30*time.Millisecond, 0, func() { order = append(order, "c") })
	tm.After(10*time.Millisecond, 0, func() { order = append(order, "a") })
	tm.After(10*time.Millisecond, 0, func() { order = append(order, "b") })

	tm.Advance(time.Second, 0)
	want := []string{"a", "b", "c"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, order)
		}
	}
}

func TestTimersTaskArmedDuringAdvance(t *testing.T) {
	var tm Timers
	var at []time.Duration
	tm.After(10*time.Millisecond, 0, func() {
		at = append(at, tm.Now())
		tm.After(10*time.Millisecond, 0, func() { at = append(at, tm.Now()) })
	})

	tm.Advance(50*time.Millisecond, 0)
	if len(at) != 2 || at[0] != 10*time.Millisecond || at[1] != 20*time.Millisecond {
		t.Fatalf("expected callbacks at 10ms and 20ms, got %v", at)
	}
	if tm.Now() != 50*time.Millisecond {
		t.Fatalf("expected clock at 50ms, got %v", tm.Now())
	}
}

func TestTimersRejectsInvalid(t *testing.T) {
	var tm Timers
	if id := tm.Every(0, 0, func() {}); id != 0 {
		t.Fatalf("expected zero period to be rejected")
	}
	if id := tm.After(time.Second, 0, nil); id != 0 {
		t.Fatalf("expected nil callback to be rejected")
	}
	if tm.Cancel(42) {
		t.Fatalf("expected cancel of unknown id to fail")
	}
}
