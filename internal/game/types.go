// internal/game/types.go
//
// Core type definitions for a single memorization attempt.
// Defines:
//   - Mode: standard level or daily challenge.
//   - Phase: countdown → reveal → recall.
//   - Result / View: what callers observe from an attempt.

package game

import "github.com/robalobadob/recall/internal/sequence"

// Mode selects which reward table and reveal timing an attempt uses.
type Mode string

const (
	ModeLevel Mode = "level"
	ModeDaily Mode = "daily"
)

// IsValid reports whether m is a known mode.
func (m Mode) IsValid() bool {
	return m == ModeLevel || m == ModeDaily
}

// Phase is the stored state of an attempt. Success and failure are outcomes
// reported by Submit, never phases.
type Phase string

const (
	PhaseCountdown Phase = "countdown"
	PhaseReveal    Phase = "reveal"
	PhaseRecall    Phase = "recall"
)

// Result is returned by a gated Submit.
type Result struct {
	Success bool `json:"success"`
}

// View is a point-in-time snapshot for presentation layers.
// Sequence is only populated while revealing; Palette only while recalling.
type View struct {
	ID        string            `json:"id"`
	Mode      Mode              `json:"mode"`
	Level     int               `json:"level"`
	Phase     Phase             `json:"phase"`
	Countdown int               `json:"countdown,omitempty"`
	Length    int               `json:"length"`
	Sequence  []sequence.Symbol `json:"sequence,omitempty"`
	Palette   []sequence.Symbol `json:"palette,omitempty"`
	Submitted []sequence.Symbol `json:"submitted"`
	Finished  bool              `json:"finished"`
	Abandoned bool              `json:"abandoned"`
}
