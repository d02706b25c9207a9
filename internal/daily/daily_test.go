package daily

import (
	"context"
	"testing"
	"time"

	"github.com/robalobadob/recall/internal/store"
)

func TestDateKeyUsesZone(t *testing.T) {
	at := time.Date(2024, 1, 1, 23, 30, 0, 0, time.UTC)
	if got := NewCalendar(nil).DateKey(at); got != "2024-01-01" {
		t.Fatalf("UTC DateKey=%s", got)
	}
	tokyo := time.FixedZone("JST", 9*3600)
	if got := NewCalendar(tokyo).DateKey(at); got != "2024-01-02" {
		t.Fatalf("JST DateKey=%s", got)
	}
}

func TestDaysBetween(t *testing.T) {
	cases := []struct {
		from, to string
		want     int
	}{
		{"2024-01-01", "2024-01-01", 0},
		{"2024-01-01", "2024-01-04", 3},
		{"2024-02-28", "2024-03-01", 2},
		{"2024-01-04", "2024-01-01", -3},
	}
	for _, c := range cases {
		got, err := DaysBetween(c.from, c.to)
		if err != nil || got != c.want {
			t.Errorf("DaysBetween(%s,%s)=(%d,%v), want %d", c.from, c.to, got, err, c.want)
		}
	}
	if _, err := DaysBetween("yesterday", "2024-01-01"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestUntilResetAndClock(t *testing.T) {
	now := time.Date(2024, 5, 5, 21, 15, 30, 0, time.UTC)
	d := NewCalendar(nil).UntilReset(now)
	if d != 2*time.Hour+44*time.Minute+30*time.Second {
		t.Fatalf("UntilReset=%v", d)
	}
	if got := FormatClock(d); got != "02:44:30" {
		t.Fatalf("FormatClock=%s", got)
	}
	if got := FormatClock(-time.Second); got != "00:00:00" {
		t.Fatalf("FormatClock(neg)=%s", got)
	}
}

func TestSeedIsDeterministicPerDate(t *testing.T) {
	a := Seed("salt", "2024-01-01")
	b := Seed("salt", "2024-01-01")
	for i := 0; i < 10; i++ {
		if x, y := a.IntN(1000), b.IntN(1000); x != y {
			t.Fatalf("draw %d differs: %d vs %d", i, x, y)
		}
	}
	c, d := Seed("salt", "2024-01-01"), Seed("salt", "2024-01-02")
	same := true
	for i := 0; i < 10; i++ {
		if c.IntN(1<<30) != d.IntN(1<<30) {
			same = false
		}
	}
	if same {
		t.Fatalf("different dates produced identical streams")
	}
}

func TestMarker(t *testing.T) {
	ctx := context.Background()
	m := NewMarker(store.New(store.NewMemoryBackend()))
	if m.Completed(ctx, "2024-01-01") || m.Last(ctx) != "" {
		t.Fatalf("fresh marker reports completion")
	}
	m.Mark(ctx, "2024-01-01")
	if !m.Completed(ctx, "2024-01-01") {
		t.Fatalf("marker not set for today")
	}
	if m.Completed(ctx, "2024-01-02") {
		t.Fatalf("marker blocks the next day")
	}
}
