// internal/game/engine.go
//
// Attempt state machine for one play-through of a level or the daily challenge.
// Responsibilities:
//   - Drive countdown → reveal → recall on a Scheduler.
//   - Accept taps, resets and a gated submit during recall.
//   - Judge the submission by pairwise position comparison.
//
// Notes:
//   - Every scheduled transition carries the token current at scheduling time.
//     Abandon and each transition bump the token, so a late callback is dropped.
//   - Hooks run outside the attempt lock and may call back into the attempt.

package game

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/recall/internal/sequence"
)

const (
	// DefaultCountdownTicks is the number of countdown ticks before reveal.
	DefaultCountdownTicks = 3
	// DefaultTickInterval is the spacing between countdown ticks.
	DefaultTickInterval = time.Second
)

// Timing configures the countdown. Reveal duration comes from the level.
type Timing struct {
	CountdownTicks int
	TickInterval   time.Duration
}

// Hooks lets presentation layers observe an attempt. Nil fields are skipped.
type Hooks struct {
	OnPhaseChange func(Phase)
	OnTick        func(remaining int)
}

// Setup is everything needed to construct an Attempt.
type Setup struct {
	ID      string
	Mode    Mode
	Level   int
	Target  []sequence.Symbol
	Palette []sequence.Symbol
	// Date is the calendar day the attempt belongs to, if any.
	Date string
}

// Attempt holds transient state for one play-through. It is never persisted.
type Attempt struct {
	mu sync.Mutex

	id      string
	mode    Mode
	level   int
	date    string
	target  []sequence.Symbol
	palette []sequence.Symbol
	reveal  time.Duration

	phase     Phase
	remaining int
	submitted []sequence.Symbol
	finished  bool
	abandoned bool

	token  uint64
	cancel func()

	sched  Scheduler
	timing Timing
	hooks  Hooks
}

// New constructs an Attempt in the countdown phase. Nothing is scheduled
// until Start is called.
func New(s Setup, sched Scheduler, timing Timing, hooks Hooks) *Attempt {
	if sched == nil {
		sched = RealScheduler{}
	}
	if timing.CountdownTicks <= 0 {
		timing.CountdownTicks = DefaultCountdownTicks
	}
	if timing.TickInterval <= 0 {
		timing.TickInterval = DefaultTickInterval
	}
	level := sequence.ClampLevel(s.Level)
	reveal := sequence.RevealTime(level)
	if s.Mode == ModeDaily {
		reveal = sequence.DailyRevealTime
	}
	return &Attempt{
		id:        s.ID,
		mode:      s.Mode,
		level:     level,
		date:      s.Date,
		target:    append([]sequence.Symbol(nil), s.Target...),
		palette:   append([]sequence.Symbol(nil), s.Palette...),
		reveal:    reveal,
		phase:     PhaseCountdown,
		remaining: timing.CountdownTicks,
		submitted: []sequence.Symbol{},
		sched:     sched,
		timing:    timing,
		hooks:     hooks,
	}
}

// ID returns the attempt identifier.
func (a *Attempt) ID() string { return a.id }

// Mode returns the attempt mode.
func (a *Attempt) Mode() Mode { return a.mode }

// Level returns the clamped level the attempt was created for.
func (a *Attempt) Level() int { return a.level }

// Date returns the calendar day given at setup.
func (a *Attempt) Date() string { return a.date }

// RevealTime returns how long the sequence is shown.
func (a *Attempt) RevealTime() time.Duration { return a.reveal }

// Start schedules the first countdown tick. Calling it twice is a no-op.
func (a *Attempt) Start() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil || a.abandoned || a.phase != PhaseCountdown {
		return
	}
	a.scheduleLocked(a.timing.TickInterval, a.tick)
	log.Debug().Str("attempt", a.id).Str("mode", string(a.mode)).Int("level", a.level).Msg("attempt started")
}

// scheduleLocked invalidates any pending transition and schedules fn under a
// fresh token.
func (a *Attempt) scheduleLocked(delay time.Duration, fn func(token uint64)) {
	if a.cancel != nil {
		a.cancel()
	}
	a.token++
	tok := a.token
	a.cancel = a.sched.Schedule(delay, func() { fn(tok) })
}

// current reports whether tok still owns the attempt.
func (a *Attempt) current(tok uint64) bool {
	return !a.abandoned && tok == a.token
}

func (a *Attempt) tick(tok uint64) {
	a.mu.Lock()
	if !a.current(tok) || a.phase != PhaseCountdown {
		a.mu.Unlock()
		return
	}
	a.remaining--
	remaining := a.remaining
	entered := false
	if remaining > 0 {
		a.scheduleLocked(a.timing.TickInterval, a.tick)
	} else {
		a.phase = PhaseReveal
		a.scheduleLocked(a.reveal, a.endReveal)
		entered = true
	}
	hooks := a.hooks
	a.mu.Unlock()

	if hooks.OnTick != nil {
		hooks.OnTick(remaining)
	}
	if entered {
		a.notify(PhaseReveal)
	}
}

func (a *Attempt) endReveal(tok uint64) {
	a.mu.Lock()
	if !a.current(tok) || a.phase != PhaseReveal {
		a.mu.Unlock()
		return
	}
	a.phase = PhaseRecall
	a.token++
	a.cancel = nil
	a.mu.Unlock()
	a.notify(PhaseRecall)
}

func (a *Attempt) notify(p Phase) {
	log.Debug().Str("attempt", a.id).Str("phase", string(p)).Msg("phase change")
	if a.hooks.OnPhaseChange != nil {
		a.hooks.OnPhaseChange(p)
	}
}

// Phase returns the current phase.
func (a *Attempt) Phase() Phase {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.phase
}

// recallOpenLocked reports whether recall input is accepted.
func (a *Attempt) recallOpenLocked() bool {
	return a.phase == PhaseRecall && !a.finished && !a.abandoned
}

// Tap appends symbol to the submission. It reports false, changing nothing,
// outside recall, when the submission is full, when symbol was already
// tapped, or when symbol is not on the palette.
func (a *Attempt) Tap(symbol sequence.Symbol) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.recallOpenLocked() || len(a.submitted) >= len(a.target) {
		return false
	}
	if contains(a.submitted, symbol) || !contains(a.palette, symbol) {
		return false
	}
	a.submitted = append(a.submitted, symbol)
	return true
}

// Reset clears the submission without leaving recall.
func (a *Attempt) Reset() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.recallOpenLocked() {
		return false
	}
	a.submitted = a.submitted[:0]
	return true
}

// Ready reports whether Submit would be accepted.
func (a *Attempt) Ready() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.recallOpenLocked() && len(a.submitted) == len(a.target)
}

// Submit judges a complete submission. ok is false, and nothing happens,
// unless the attempt is in recall with len(submitted) == len(target).
// A success finishes the attempt. A failure leaves it in recall so the
// caller may Reset and try again.
func (a *Attempt) Submit() (res Result, ok bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.recallOpenLocked() || len(a.submitted) != len(a.target) {
		return Result{}, false
	}
	res.Success = matches(a.submitted, a.target)
	if res.Success {
		a.finished = true
	}
	log.Debug().Str("attempt", a.id).Bool("success", res.Success).Msg("attempt submitted")
	return res, true
}

// Finish closes the attempt to further input without a success, for
// terminal failures such as running out of hearts.
func (a *Attempt) Finish() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.finished = true
}

// Abandon cancels any pending transition and makes every later callback and
// input a no-op. It is safe to call more than once.
func (a *Attempt) Abandon() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.abandoned {
		return
	}
	a.abandoned = true
	a.token++
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	log.Debug().Str("attempt", a.id).Str("phase", string(a.phase)).Msg("attempt abandoned")
}

// Snapshot returns a copy of the presentation-relevant state.
func (a *Attempt) Snapshot() View {
	a.mu.Lock()
	defer a.mu.Unlock()
	v := View{
		ID:        a.id,
		Mode:      a.mode,
		Level:     a.level,
		Phase:     a.phase,
		Length:    len(a.target),
		Submitted: append([]sequence.Symbol{}, a.submitted...),
		Finished:  a.finished,
		Abandoned: a.abandoned,
	}
	switch a.phase {
	case PhaseCountdown:
		v.Countdown = a.remaining
	case PhaseReveal:
		v.Sequence = append([]sequence.Symbol(nil), a.target...)
	case PhaseRecall:
		v.Palette = append([]sequence.Symbol(nil), a.palette...)
	}
	return v
}

// matches compares two sequences position by position.
func matches(got, want []sequence.Symbol) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func contains(list []sequence.Symbol, s sequence.Symbol) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
