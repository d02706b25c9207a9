package profile

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/robalobadob/recall/internal/daily"
	"github.com/robalobadob/recall/internal/game"
	"github.com/robalobadob/recall/internal/store"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) set(date string) {
	t, _ := time.Parse("2006-01-02", date)
	c.mu.Lock()
	c.t = t.Add(12 * time.Hour)
	c.mu.Unlock()
}

func newTestService(t *testing.T, date string) (*Service, *clock, *store.Store) {
	t.Helper()
	st := store.New(store.NewMemoryBackend())
	clk := &clock{}
	clk.set(date)
	return NewService(st, daily.NewCalendar(nil), clk.Now), clk, st
}

// flakyBackend fails reads while down is set.
type flakyBackend struct {
	store.Backend
	down atomic.Bool
}

func (b *flakyBackend) Get(ctx context.Context, key string) ([]byte, error) {
	if b.down.Load() {
		return nil, errors.New("read timeout")
	}
	return b.Backend.Get(ctx, key)
}

func flushStore(t *testing.T, st *store.Store) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := st.Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}
}

func TestServiceDefaults(t *testing.T) {
	svc, _, _ := newTestService(t, "2024-01-01")
	ctx := context.Background()
	if got := svc.Profile(ctx); got != Default() {
		t.Fatalf("Profile=%+v, want default", got)
	}
	if svc.Frontier(ctx) != 1 {
		t.Fatalf("Frontier=%d, want 1", svc.Frontier(ctx))
	}
	if svc.Profile(ctx).Onboarded() {
		t.Fatalf("fresh profile is onboarded")
	}
}

func TestServiceSetUsername(t *testing.T) {
	svc, _, _ := newTestService(t, "2024-01-01")
	ctx := context.Background()
	if _, err := svc.SetUsername(ctx, " "); !errors.Is(err, ErrUsernameRequired) {
		t.Fatalf("err=%v", err)
	}
	p, err := svc.SetUsername(ctx, " neo ")
	if err != nil || p.Username != "neo" || !svc.Profile(ctx).Onboarded() {
		t.Fatalf("SetUsername=%+v,%v", p, err)
	}
}

func TestServiceConcurrentUpdatesKeepEveryChange(t *testing.T) {
	svc, _, _ := newTestService(t, "2024-01-01")
	ctx := context.Background()
	win := game.Resolve(game.ModeLevel, 1, true)

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.Settle(ctx, win)
		}()
	}
	wg.Wait()
	p := svc.Profile(ctx)
	if p.XP != 400 || p.Coins != 200 || p.TotalLevelsCompleted != 40 {
		t.Fatalf("lost updates: %+v", p)
	}
}

func TestServiceLevelFlow(t *testing.T) {
	svc, _, st := newTestService(t, "2024-01-01")
	ctx := context.Background()
	settle := func(c game.Consequence) Settlement {
		t.Helper()
		s, err := svc.Settle(ctx, c)
		if err != nil {
			t.Fatalf("Settle: %v", err)
		}
		return s
	}

	if err := svc.CanStartLevel(ctx, 2); !errors.Is(err, ErrLevelLocked) {
		t.Fatalf("level 2 err=%v, want locked", err)
	}
	if err := svc.CanStartLevel(ctx, 0); !errors.Is(err, ErrLevelLocked) {
		t.Fatalf("level 0 err=%v, want locked", err)
	}
	s := settle(game.Resolve(game.ModeLevel, 1, true))
	if !s.FrontierAdvanced || s.Frontier != 2 || s.Profile.XP != 10 {
		t.Fatalf("settlement=%+v", s)
	}
	s = settle(game.Resolve(game.ModeLevel, 1, true))
	if s.FrontierAdvanced || s.Frontier != 2 {
		t.Fatalf("replay moved frontier: %+v", s)
	}
	if err := svc.CanStartLevel(ctx, 2); err != nil {
		t.Fatalf("level 2 err=%v", err)
	}

	for i := 0; i < 5; i++ {
		s = settle(game.Resolve(game.ModeLevel, 2, false))
		if !s.HeartLost {
			t.Fatalf("failure %d did not cost a heart: %+v", i, s)
		}
	}
	s = settle(game.Resolve(game.ModeLevel, 2, false))
	if !s.OutOfHearts || s.HeartLost || s.Profile.Hearts != 0 {
		t.Fatalf("expected out of hearts: %+v", s)
	}
	if err := svc.CanStartLevel(ctx, 1); !errors.Is(err, ErrOutOfHearts) {
		t.Fatalf("err=%v, want ErrOutOfHearts", err)
	}

	flushCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := st.Flush(flushCtx); err != nil {
		t.Fatalf("flush: %v", err)
	}
}

func TestServiceDailyOneShot(t *testing.T) {
	svc, clk, _ := newTestService(t, "2024-03-10")
	ctx := context.Background()

	if err := svc.CanStartDaily(ctx); err != nil {
		t.Fatalf("daily blocked on fresh install: %v", err)
	}
	s, err := svc.Settle(ctx, game.Resolve(game.ModeDaily, 0, false))
	if err != nil || s.DailyMarked || svc.DailyCompleted(ctx) {
		t.Fatalf("failure set the marker")
	}
	s, err = svc.Settle(ctx, game.Resolve(game.ModeDaily, 0, true))
	if err != nil || !s.DailyMarked || s.Profile.XP != 100 || s.Profile.Coins != 50 || s.Profile.Hearts != 5 {
		t.Fatalf("daily success=%+v", s)
	}
	if err := svc.CanStartDaily(ctx); !errors.Is(err, ErrDailyCompleted) {
		t.Fatalf("err=%v, want ErrDailyCompleted", err)
	}
	clk.set("2024-03-11")
	if err := svc.CanStartDaily(ctx); err != nil {
		t.Fatalf("daily still blocked next day: %v", err)
	}
}

func TestServiceClaimDailyHeart(t *testing.T) {
	svc, clk, _ := newTestService(t, "2024-01-01")
	ctx := context.Background()

	if _, claimed, err := svc.ClaimDailyHeart(ctx); err != nil || claimed {
		t.Fatalf("first-ever claim granted hearts (err=%v)", err)
	}
	_, _ = svc.Update(ctx, Patch{Hearts: ptr(2)})
	clk.set("2024-01-04")
	p, claimed, err := svc.ClaimDailyHeart(ctx)
	if err != nil || !claimed || p.Hearts != 5 || p.LastHeartClaimDate != "2024-01-04" {
		t.Fatalf("claim=%+v,%v,%v", p, claimed, err)
	}
	_, _ = svc.Update(ctx, Patch{Hearts: ptr(1)})
	if p, claimed, err := svc.ClaimDailyHeart(ctx); err != nil || claimed || p.Hearts != 1 {
		t.Fatalf("same-day claim=%+v,%v,%v", p, claimed, err)
	}
}

func TestServiceShop(t *testing.T) {
	svc, _, _ := newTestService(t, "2024-01-01")
	ctx := context.Background()
	if _, err := svc.BuyHeart(ctx); !errors.Is(err, ErrHeartsFull) {
		t.Fatalf("err=%v", err)
	}
	_, _ = svc.Update(ctx, Patch{Hearts: ptr(3), Coins: ptr(70)})
	p, err := svc.BuyHeart(ctx)
	if err != nil || p.Hearts != 4 || p.Coins != 20 {
		t.Fatalf("BuyHeart=%+v,%v", p, err)
	}
	if _, err := svc.BuyHeart(ctx); !errors.Is(err, ErrNotEnoughCoins) {
		t.Fatalf("err=%v", err)
	}
	if p, err := svc.GrantHeart(ctx); err != nil || p.Hearts != 5 {
		t.Fatalf("GrantHeart=%+v,%v", p, err)
	}
	if got := svc.Profile(ctx); got.Hearts != 5 || got.Coins != 20 {
		t.Fatalf("profile after shop=%+v", got)
	}
}

func TestServiceReadFailureLeavesProfileIntact(t *testing.T) {
	ctx := context.Background()
	clk := &clock{}
	clk.set("2024-01-01")
	b := &flakyBackend{Backend: store.NewMemoryBackend()}

	seedStore := store.New(b)
	seed := NewService(seedStore, daily.NewCalendar(nil), clk.Now)
	want, err := seed.Update(ctx, Patch{Username: ptr("neo"), XP: ptr(420), Coins: ptr(90), Hearts: ptr(2)})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	flushStore(t, seedStore)

	b.down.Store(true)
	clk.set("2024-01-05")
	st := store.New(b)
	svc := NewService(st, daily.NewCalendar(nil), clk.Now)
	if _, claimed, err := svc.ClaimDailyHeart(ctx); err == nil || claimed {
		t.Fatalf("ClaimDailyHeart on read failure=(%v,%v)", claimed, err)
	}
	if _, err := svc.Settle(ctx, game.Resolve(game.ModeLevel, 1, false)); err == nil {
		t.Fatalf("Settle on read failure err=nil")
	}
	if _, err := svc.BuyHeart(ctx); err == nil || errors.Is(err, ErrNotEnoughCoins) || errors.Is(err, ErrHeartsFull) {
		t.Fatalf("BuyHeart on read failure err=%v", err)
	}
	flushStore(t, st)

	b.down.Store(false)
	fresh := NewService(store.New(b), daily.NewCalendar(nil), clk.Now)
	if got := fresh.Profile(ctx); got != want {
		t.Fatalf("persisted profile=%+v, want %+v", got, want)
	}
}

func TestServiceDailyWinMarksStartDate(t *testing.T) {
	svc, _, _ := newTestService(t, "2024-01-02")
	ctx := context.Background()

	c := game.Resolve(game.ModeDaily, 0, true)
	c.Date = "2024-01-01"
	s, err := svc.Settle(ctx, c)
	if err != nil || !s.DailyMarked {
		t.Fatalf("Settle=%+v,%v", s, err)
	}
	if !svc.DailyCompletedOn(ctx, "2024-01-01") {
		t.Fatalf("start date not marked")
	}
	if svc.DailyCompleted(ctx) {
		t.Fatalf("win started yesterday blocked today's daily")
	}
	if err := svc.CanStartDaily(ctx); err != nil {
		t.Fatalf("CanStartDaily=%v", err)
	}
}
