package game

import "time"

// Scheduler runs fn once after delay unless the returned cancel is called first.
type Scheduler interface {
	Schedule(delay time.Duration, fn func()) (cancel func())
}

// RealScheduler schedules on the runtime timer heap.
type RealScheduler struct{}

func (RealScheduler) Schedule(delay time.Duration, fn func()) func() {
	t := time.AfterFunc(delay, fn)
	return func() { t.Stop() }
}
