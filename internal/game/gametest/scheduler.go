// Package gametest provides a deterministic game.Scheduler for tests.
package gametest

import (
	"sync"
	"time"
)

// ManualScheduler holds callbacks until Advance moves its clock past them.
type ManualScheduler struct {
	mu      sync.Mutex
	now     time.Duration
	seq     int
	pending []*manualTask
}

type manualTask struct {
	at       time.Duration
	seq      int
	fn       func()
	canceled bool
}

// NewManualScheduler returns a scheduler whose clock starts at zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (m *ManualScheduler) Schedule(delay time.Duration, fn func()) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	task := &manualTask{at: m.now + delay, seq: m.seq, fn: fn}
	m.pending = append(m.pending, task)
	return func() {
		m.mu.Lock()
		task.canceled = true
		m.mu.Unlock()
	}
}

// Advance moves the clock forward by d and runs every due callback in
// deadline order, including callbacks scheduled by callbacks.
func (m *ManualScheduler) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()
	for {
		m.mu.Lock()
		next := -1
		for i, task := range m.pending {
			if task.at > target {
				continue
			}
			if next < 0 || task.at < m.pending[next].at ||
				(task.at == m.pending[next].at && task.seq < m.pending[next].seq) {
				next = i
			}
		}
		if next < 0 {
			m.now = target
			m.mu.Unlock()
			return
		}
		task := m.pending[next]
		m.pending = append(m.pending[:next], m.pending[next+1:]...)
		m.now = task.at
		m.mu.Unlock()
		if !task.canceled {
			task.fn()
		}
	}
}

// Pending reports how many callbacks are scheduled and not canceled.
func (m *ManualScheduler) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, task := range m.pending {
		if !task.canceled {
			n++
		}
	}
	return n
}

// FireAll runs every queued callback, canceled or not, simulating timers
// whose cancel lost the race with delivery.
func (m *ManualScheduler) FireAll() {
	m.mu.Lock()
	tasks := m.pending
	m.pending = nil
	m.mu.Unlock()
	for _, task := range tasks {
		task.fn()
	}
}
