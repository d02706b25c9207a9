// internal/rank/rank.go
//
// Experience tiers.
// Defines:
//   - Rank: a language-agnostic tier (key, icon, xp threshold).
//   - Table: an ascending tier list with Current / Next / Progress lookups.
//
// Display names live in the locale catalogs, keyed by Rank.Key.

package rank

import (
	"errors"
	"fmt"
)

// ErrUnsorted is returned by NewTable when thresholds are not strictly increasing.
var ErrUnsorted = errors.New("rank: thresholds must be strictly increasing")

// Rank is one tier of the table.
type Rank struct {
	Key       string `json:"key"`
	Icon      string `json:"icon"`
	Threshold int    `json:"threshold"`
}

// Table is an ordered, non-empty list of tiers.
type Table struct {
	ranks []Rank
}

// NewTable validates ranks and returns a Table over a copy of them.
func NewTable(ranks []Rank) (*Table, error) {
	if len(ranks) == 0 {
		return nil, errors.New("rank: empty table")
	}
	for i := 1; i < len(ranks); i++ {
		if ranks[i].Threshold <= ranks[i-1].Threshold {
			return nil, fmt.Errorf("%w: %q (%d) after %q (%d)", ErrUnsorted,
				ranks[i].Key, ranks[i].Threshold, ranks[i-1].Key, ranks[i-1].Threshold)
		}
	}
	return &Table{ranks: append([]Rank(nil), ranks...)}, nil
}

// MustTable is NewTable for package-level fixed tables.
func MustTable(ranks []Rank) *Table {
	t, err := NewTable(ranks)
	if err != nil {
		panic(err)
	}
	return t
}

// Default is the game's rank ladder.
var Default = MustTable([]Rank{
	{Key: "novice", Icon: "🧠", Threshold: 0},
	{Key: "rememberer", Icon: "🔍", Threshold: 200},
	{Key: "mnemonist", Icon: "🧩", Threshold: 500},
	{Key: "cognoscente", Icon: "🔮", Threshold: 1000},
	{Key: "archivist", Icon: "📚", Threshold: 10000},
	{Key: "synaptic", Icon: "⚡", Threshold: 100000},
	{Key: "savant", Icon: "🌟", Threshold: 500000},
	{Key: "oracle", Icon: "🕊️", Threshold: 1000000},
})

// All returns a copy of the tiers in ascending order.
func (t *Table) All() []Rank {
	return append([]Rank(nil), t.ranks...)
}

// Current returns the last tier whose threshold is <= xp. Below the first
// threshold the first tier is returned.
func (t *Table) Current(xp int) Rank {
	cur := t.ranks[0]
	for _, r := range t.ranks {
		if xp < r.Threshold {
			break
		}
		cur = r
	}
	return cur
}

// Next returns the first tier whose threshold is > xp, or false at max rank.
func (t *Table) Next(xp int) (Rank, bool) {
	for _, r := range t.ranks {
		if xp < r.Threshold {
			return r, true
		}
	}
	return Rank{}, false
}

// Progress reports xp earned inside the current tier and xp still needed for
// the next one. toNext is 0 at max rank.
func (t *Table) Progress(xp int) (into, toNext int) {
	cur := t.Current(xp)
	into = xp - cur.Threshold
	if into < 0 {
		into = 0
	}
	if next, ok := t.Next(xp); ok {
		toNext = next.Threshold - xp
	}
	return into, toNext
}
