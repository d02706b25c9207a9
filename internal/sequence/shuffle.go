package sequence

import "math/rand/v2"

// Source is the randomness a shuffle consumes. *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

// globalSource adapts the math/rand/v2 top-level generator.
type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// DefaultSource returns a Source backed by the runtime's global generator.
func DefaultSource() Source { return globalSource{} }

// Shuffle returns a Fisher–Yates permutation of list. The input is not mutated.
// One draw is taken from src per swap; a nil src uses DefaultSource.
func Shuffle[T any](src Source, list []T) []T {
	if src == nil {
		src = DefaultSource()
	}
	out := make([]T, len(list))
	copy(out, list)
	for i := len(out) - 1; i > 0; i-- {
		j := src.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
