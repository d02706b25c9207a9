package daily

import (
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"time"

	"golang.org/x/crypto/blake2b"
)

const dateLayout = "2006-01-02"

// Calendar turns instants into calendar date keys in one zone.
type Calendar struct {
	Loc *time.Location
}

// NewCalendar returns a Calendar for loc; nil means UTC.
func NewCalendar(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return Calendar{Loc: loc}
}

func (c Calendar) loc() *time.Location {
	if c.Loc == nil {
		return time.UTC
	}
	return c.Loc
}

// DateKey returns YYYY-MM-DD for t in the calendar's zone.
func (c Calendar) DateKey(t time.Time) string {
	return t.In(c.loc()).Format(dateLayout)
}

// UntilReset returns the time left until the next midnight after now.
func (c Calendar) UntilReset(now time.Time) time.Duration {
	local := now.In(c.loc())
	y, m, d := local.Date()
	next := time.Date(y, m, d+1, 0, 0, 0, 0, c.loc())
	return next.Sub(local)
}

// DaysBetween returns whole calendar days from one date key to another.
// It is negative when to precedes from.
func DaysBetween(from, to string) (int, error) {
	a, err := time.Parse(dateLayout, from)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", from, err)
	}
	b, err := time.Parse(dateLayout, to)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", to, err)
	}
	return int(b.Sub(a).Hours() / 24), nil
}

// FormatClock renders d as HH:MM:SS, truncating to whole seconds.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	s := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s/60)%60, s%60)
}

// Seed derives a deterministic random source for a date using
// BLAKE2b-256 keyed by salt. Everyone shares the same daily sequence.
func Seed(salt, date string) *rand.Rand {
	key := []byte(salt)
	if len(key) > blake2b.Size {
		sum := blake2b.Sum256(key)
		key = sum[:]
	}
	h, err := blake2b.New256(key)
	if err != nil {
		// Only reachable with an oversized key, which is hashed above.
		panic(err)
	}
	h.Write([]byte(date))
	sum := h.Sum(nil)
	return rand.New(rand.NewPCG(
		binary.BigEndian.Uint64(sum[:8]),
		binary.BigEndian.Uint64(sum[8:16]),
	))
}
