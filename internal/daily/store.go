package daily

import (
	"context"

	"github.com/robalobadob/recall/internal/store"
)

// MarkerKey is the store key of the last date the daily challenge was won.
const MarkerKey = "lastDailyChallengeDate"

// Marker gates the daily challenge to one win per calendar date.
type Marker struct{ rec *store.Record[string] }

func NewMarker(s *store.Store) *Marker {
	return &Marker{rec: store.NewRecord(s, MarkerKey, "")}
}

// Completed reports whether the challenge was already won on today.
func (m *Marker) Completed(ctx context.Context, today string) bool {
	return m.rec.Get(ctx) == today
}

// Last returns the stored date, or "" if the challenge was never won.
func (m *Marker) Last(ctx context.Context) string {
	return m.rec.Get(ctx)
}

// Mark records a win on today.
func (m *Marker) Mark(ctx context.Context, today string) {
	m.rec.Set(ctx, today)
}
