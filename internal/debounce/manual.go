package debounce

import (
	"cmp"
	"slices"
	"sync"
	"time"
)

// ManualScheduler is a Scheduler whose clock only moves when Advance is
// called. Calls run on the goroutine that calls Advance.
type ManualScheduler struct {
	mu    sync.Mutex
	now   time.Duration
	tasks []*manualTask
}

type manualTask struct {
	s    *ManualScheduler
	at   time.Duration
	fn   func()
	done bool
}

func (t *manualTask) Cancel() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	t.s.tasks = slices.DeleteFunc(t.s.tasks, func(o *manualTask) bool { return o == t })
	return true
}

// NewManualScheduler returns a scheduler at time zero with nothing queued.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// Schedule queues fn to run once the clock reaches now+delay.
func (s *ManualScheduler) Schedule(fn func(), delay time.Duration) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTask{s: s, at: s.now + delay, fn: fn}
	s.tasks = append(s.tasks, t)
	return t
}

// Advance moves the clock forward by d and runs every call that became due,
// earliest first. It returns the number of calls run.
func (s *ManualScheduler) Advance(d time.Duration) int {
	s.mu.Lock()
	s.now += d
	var due []*manualTask
	s.tasks = slices.DeleteFunc(s.tasks, func(t *manualTask) bool {
		if t.at <= s.now {
			t.done = true
			due = append(due, t)
			return true
		}
		return false
	})
	s.mu.Unlock()

	slices.SortStableFunc(due, func(a, b *manualTask) int {
		return cmp.Compare(a.at, b.at)
	})
	for _, t := range due {
		t.fn()
	}
	return len(due)
}

// Pending returns the number of queued calls.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}
