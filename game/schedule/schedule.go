// Package schedule provides cancellable deferred actions.
//
// Engines never call time.AfterFunc directly; they schedule through a
// Scheduler and keep the returned Handle so a restart can cancel work that
// belongs to a previous session. Manual is a deterministic scheduler for
// tests that only fires actions when the clock is advanced.
package schedule

import (
	"sort"
	"sync"
	"time"
)

// Handle cancels a scheduled action.
type Handle interface {
	// Cancel prevents the action from running. It reports false when the
	// action already ran or was already cancelled.
	Cancel() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Handle
}

// Timers schedules actions on runtime timers.
type Timers struct{}

func (Timers) AfterFunc(d time.Duration, f func()) Handle {
	return timerHandle{time.AfterFunc(d, f)}
}

type timerHandle struct {
	t *time.Timer
}

func (h timerHandle) Cancel() bool {
	return h.t.Stop()
}

// Manual is a virtual clock. Actions run synchronously on the goroutine that
// calls Advance, in due-time order (ties in scheduling order).
type Manual struct {
	mu    sync.Mutex
	now   time.Duration
	seq   uint64
	tasks []*manualTask
}

type manualTask struct {
	m    *Manual
	at   time.Duration
	seq  uint64
	fn   func()
	done bool
}

// NewManual creates a manual clock at time zero
func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) AfterFunc(d time.Duration, f func()) Handle {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	t := &manualTask{m: m, at: m.now + d, seq: m.seq, fn: f}
	m.tasks = append(m.tasks, t)
	return t
}

func (t *manualTask) Cancel() bool {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()

	if t.done {
		return false
	}
	t.done = true
	t.m.remove(t)
	return true
}

// Advance moves the clock forward by d, running every action that comes due,
// including actions scheduled by the actions themselves.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	for {
		m.mu.Lock()
		next := m.nextDue(target)
		if next == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		next.done = true
		m.remove(next)
		m.now = next.at
		m.mu.Unlock()

		next.fn()
	}
}

// Now returns the virtual time elapsed since the clock was created
func (m *Manual) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Pending returns the number of actions waiting to run
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

func (m *Manual) nextDue(target time.Duration) *manualTask {
	sort.SliceStable(m.tasks, func(i, j int) bool {
		if m.tasks[i].at != m.tasks[j].at {
			return m.tasks[i].at < m.tasks[j].at
		}
		return m.tasks[i].seq < m.tasks[j].seq
	})
	if len(m.tasks) == 0 || m.tasks[0].at > target {
		return nil
	}
	return m.tasks[0]
}

func (m *Manual) remove(t *manualTask) {
	for i, task := range m.tasks {
		if task == t {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return
		}
	}
}
