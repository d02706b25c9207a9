package sequence

import (
	"math/rand/v2"
	"slices"
	"testing"
	"time"
)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func TestAlphabetDistinct(t *testing.T) {
	seen := map[Symbol]bool{}
	for _, s := range Alphabet() {
		if seen[s] {
			t.Fatalf("duplicate symbol %q in alphabet", s)
		}
		seen[s] = true
	}
	if AlphabetSize() != 20 {
		t.Fatalf("AlphabetSize()=%d, want 20", AlphabetSize())
	}
}

func TestLength(t *testing.T) {
	cases := []struct{ level, want int }{
		{-5, 3}, {0, 3}, {1, 3}, {9, 3}, {10, 4}, {29, 5}, {30, 6},
		{100, 13}, {169, 19}, {170, 20}, {1000, 20},
	}
	for _, c := range cases {
		if got := Length(c.level); got != c.want {
			t.Errorf("Length(%d)=%d, want %d", c.level, got, c.want)
		}
	}
}

func TestGenerateUniqueAndSized(t *testing.T) {
	g := NewGenerator(seeded(1))
	for level := 1; level <= 250; level++ {
		seq := g.Generate(level)
		if len(seq) != Length(level) {
			t.Fatalf("level %d: len=%d, want %d", level, len(seq), Length(level))
		}
		seen := map[Symbol]bool{}
		for _, s := range seq {
			if !IsSymbol(s) {
				t.Fatalf("level %d: %q not in alphabet", level, s)
			}
			if seen[s] {
				t.Fatalf("level %d: duplicate %q in %v", level, s, seq)
			}
			seen[s] = true
		}
	}
}

func TestGenerateNonPositiveLevel(t *testing.T) {
	g := NewGenerator(seeded(2))
	if got := len(g.Generate(0)); got != 3 {
		t.Fatalf("Generate(0) len=%d, want 3", got)
	}
	if got := len(g.Generate(-40)); got != 3 {
		t.Fatalf("Generate(-40) len=%d, want 3", got)
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	src := seeded(3)
	inputs := [][]int{nil, {}, {7}, {1, 2}, {3, 1, 2, 3, 3}, {9, 8, 7, 6, 5, 4, 3, 2, 1, 0}}
	for _, in := range inputs {
		orig := slices.Clone(in)
		out := Shuffle(src, in)
		if len(out) != len(in) {
			t.Fatalf("len changed: %v -> %v", in, out)
		}
		if !slices.Equal(in, orig) {
			t.Fatalf("input mutated: %v -> %v", orig, in)
		}
		a, b := slices.Clone(in), slices.Clone(out)
		slices.Sort(a)
		slices.Sort(b)
		if !slices.Equal(a, b) {
			t.Fatalf("not a permutation: %v -> %v", in, out)
		}
	}
}

func TestShuffleReachesEveryPermutation(t *testing.T) {
	src := seeded(4)
	seen := map[[3]int]bool{}
	for i := 0; i < 2000; i++ {
		out := Shuffle(src, []int{1, 2, 3})
		seen[[3]int{out[0], out[1], out[2]}] = true
	}
	if len(seen) != 6 {
		t.Fatalf("saw %d permutations of 3 elements, want 6", len(seen))
	}
}

// countingSource records how many draws a shuffle takes.
type countingSource struct{ n int }

func (c *countingSource) IntN(n int) int { c.n++; return 0 }

func TestShuffleDrawsOncePerSwap(t *testing.T) {
	src := &countingSource{}
	Shuffle[int](src, []int{1, 2, 3, 4, 5})
	if src.n != 4 {
		t.Fatalf("draws=%d, want 4", src.n)
	}
}

func TestPaletteMatchesSequence(t *testing.T) {
	g := NewGenerator(seeded(5))
	seq := g.Generate(55)
	pal := g.Palette(seq)
	a, b := slices.Clone(seq), slices.Clone(pal)
	slices.Sort(a)
	slices.Sort(b)
	if !slices.Equal(a, b) {
		t.Fatalf("palette %v is not a permutation of %v", pal, seq)
	}
}

func TestRevealTime(t *testing.T) {
	cases := []struct {
		level int
		want  time.Duration
	}{
		{0, 3970 * time.Millisecond},
		{1, 3970 * time.Millisecond},
		{50, 2500 * time.Millisecond},
		{116, 520 * time.Millisecond},
		{117, 500 * time.Millisecond},
		{500, 500 * time.Millisecond},
	}
	for _, c := range cases {
		if got := RevealTime(c.level); got != c.want {
			t.Errorf("RevealTime(%d)=%v, want %v", c.level, got, c.want)
		}
	}
}
