// internal/sequence/generate.go
//
// Difficulty-scaled sequence generation.
// Responsibilities:
//   - Map a level to a sequence length (3 + level/10, capped at the alphabet).
//   - Draw that many distinct symbols by shuffling the alphabet and truncating.
//   - Map a level to its reveal duration.
//
// Non-positive levels are clamped to 1 everywhere in this package.

package sequence

import "time"

const (
	baseLength    = 3
	levelsPerStep = 10

	// DailyLevel is the fixed difficulty used by the daily challenge.
	DailyLevel = 30

	// DailyRevealTime is how long the daily challenge sequence is shown.
	DailyRevealTime = 1600 * time.Millisecond

	revealBaseMs  = 4000
	revealStepMs  = 30
	revealFloorMs = 500
)

// ClampLevel applies the defensive floor for levels below 1.
func ClampLevel(level int) int {
	if level < 1 {
		return 1
	}
	return level
}

// Length returns the sequence length for level.
func Length(level int) int {
	level = ClampLevel(level)
	n := baseLength + level/levelsPerStep
	if n > len(alphabet) {
		n = len(alphabet)
	}
	return n
}

// RevealTime returns how long a standard level's sequence stays visible:
// max(4000 - level*30, 500) milliseconds.
func RevealTime(level int) time.Duration {
	ms := revealBaseMs - ClampLevel(level)*revealStepMs
	if ms < revealFloorMs {
		ms = revealFloorMs
	}
	return time.Duration(ms) * time.Millisecond
}

// Generator draws sequences from the alphabet using its Source.
type Generator struct {
	src Source
}

// NewGenerator constructs a Generator. A nil src uses DefaultSource.
func NewGenerator(src Source) *Generator {
	if src == nil {
		src = DefaultSource()
	}
	return &Generator{src: src}
}

// Generate returns Length(level) distinct symbols in play order.
func (g *Generator) Generate(level int) []Symbol {
	shuffled := Shuffle(g.src, alphabet[:])
	return shuffled[:Length(level)]
}

// Palette scrambles an already chosen sequence for on-screen button order.
func (g *Generator) Palette(seq []Symbol) []Symbol {
	return Shuffle(g.src, seq)
}
