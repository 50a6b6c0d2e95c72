package session

import "time"

// TaskID identifies a scheduled task. Zero is never issued.
type TaskID uint64

type task struct {
	id    TaskID
	due   time.Duration
	every time.Duration
	gen   uint64
	fn    func()
}

// Timers is a virtual clock with one-shot and repeating tasks. Each task is
// tagged with the generation it was armed in; Advance drops tasks whose
// generation no longer matches instead of running them.
type Timers struct {
	now   time.Duration
	next  TaskID
	tasks []*task
}

// Now returns the virtual time elapsed so far.
func (t *Timers) Now() time.Duration {
	return t.now
}

// After runs fn once, d after now.
func (t *Timers) After(d time.Duration, gen uint64, fn func()) TaskID {
	return t.schedule(d, 0, gen, fn)
}

// Every runs fn every d until cancelled. Non-positive periods are rejected.
func (t *Timers) Every(d time.Duration, gen uint64, fn func()) TaskID {
	if d <= 0 {
		return 0
	}
	return t.schedule(d, d, gen, fn)
}

func (t *Timers) schedule(d, every time.Duration, gen uint64, fn func()) TaskID {
	if fn == nil {
		return 0
	}
	if d < 0 {
		d = 0
	}
	t.next++
	t.tasks = append(t.tasks, &task{id: t.next, due: t.now + d, every: every, gen: gen, fn: fn})
	return t.next
}

// Cancel removes a pending task.
func (t *Timers) Cancel(id TaskID) bool {
	for i, tk := range t.tasks {
		if tk.id == id {
			t.tasks = append(t.tasks[:i], t.tasks[i+1:]...)
			return true
		}
	}
	return false
}

// Pending returns the number of armed tasks.
func (t *Timers) Pending() int {
	return len(t.tasks)
}

// Advance moves the clock forward by dt, running due tasks in due order
// (ties by arming order). A repeating task fires once per elapsed period.
// It returns how many callbacks ran.
func (t *Timers) Advance(dt time.Duration, gen uint64) int {
	if dt < 0 {
		dt = 0
	}
	target := t.now + dt
	fired := 0
	for {
		i := t.nextDue(target)
		if i < 0 {
			break
		}
		tk := t.tasks[i]
		t.now = tk.due
		if tk.gen != gen {
			t.tasks = append(t.tasks[:i], t.tasks[i+1:]...)
			continue
		}
		if tk.every > 0 {
			tk.due += tk.every
		} else {
			t.tasks = append(t.tasks[:i], t.tasks[i+1:]...)
		}
		tk.fn()
		fired++
	}
	t.now = target
	return fired
}

func (t *Timers) nextDue(limit time.Duration) int {
	best := -1
	for i, tk := range t.tasks {
		if tk.due > limit {
			continue
		}
		if best < 0 || tk.due < t.tasks[best].due || (tk.due == t.tasks[best].due && tk.id < t.tasks[best].id) {
			best = i
		}
	}
	return best
}
