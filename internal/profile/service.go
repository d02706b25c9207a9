package profile

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/recall/internal/daily"
	"github.com/robalobadob/recall/internal/game"
	"github.com/robalobadob/recall/internal/store"
)

// Store keys of the durable records.
const (
	ProfileKey  = "userProfile"
	FrontierKey = "highestUnlockedLevel"
)

// Service owns the profile, frontier and daily marker records. All
// mutations go through Record.Update so concurrent callers never apply a
// change to a stale base value.
type Service struct {
	profile  *store.Record[Profile]
	frontier *store.Record[int]
	marker   *daily.Marker
	cal      daily.Calendar
	now      func() time.Time
}

// NewService binds the records to st. A nil now uses time.Now.
func NewService(st *store.Store, cal daily.Calendar, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		profile:  store.NewRecord(st, ProfileKey, Default()),
		frontier: store.NewRecord(st, FrontierKey, 1),
		marker:   daily.NewMarker(st),
		cal:      cal,
		now:      now,
	}
}

// Today returns the current calendar date key.
func (s *Service) Today() string { return s.cal.DateKey(s.now()) }

// UntilDailyReset returns the time left until the date rolls over.
func (s *Service) UntilDailyReset() time.Duration { return s.cal.UntilReset(s.now()) }

// Profile returns the current profile.
func (s *Service) Profile(ctx context.Context) Profile {
	return s.profile.Get(ctx)
}

// Update merges patch into the latest profile and queues the write. If the
// stored profile cannot be loaded nothing is written.
func (s *Service) Update(ctx context.Context, patch Patch) (Profile, error) {
	return s.profile.Update(ctx, func(p Profile) Profile { return p.Apply(patch) })
}

// SetUsername completes onboarding or renames the player.
func (s *Service) SetUsername(ctx context.Context, name string) (Profile, error) {
	name, err := NormalizeUsername(name)
	if err != nil {
		return s.Profile(ctx), err
	}
	return s.Update(ctx, Patch{Username: &name})
}

// ClaimDailyHeart runs the daily regeneration rule for today.
func (s *Service) ClaimDailyHeart(ctx context.Context) (Profile, bool, error) {
	today := s.Today()
	var claimed bool
	p, err := s.profile.Update(ctx, func(p Profile) Profile {
		var next Profile
		next, claimed = ClaimDailyHeart(p, today)
		return next
	})
	if err != nil {
		return p, false, err
	}
	if claimed {
		log.Info().Str("date", today).Int("hearts", p.Hearts).Msg("daily heart claimed")
	}
	return p, claimed, nil
}

// BuyHeart spends coins on a heart.
func (s *Service) BuyHeart(ctx context.Context) (Profile, error) {
	return s.mutate(ctx, BuyHeart)
}

// GrantHeart adds a free heart.
func (s *Service) GrantHeart(ctx context.Context) (Profile, error) {
	return s.mutate(ctx, GrantHeart)
}

func (s *Service) mutate(ctx context.Context, rule func(Profile) (Profile, error)) (Profile, error) {
	var ruleErr error
	p, err := s.profile.Update(ctx, func(p Profile) Profile {
		next, err := rule(p)
		if err != nil {
			ruleErr = err
			return p
		}
		return next
	})
	if err != nil {
		return p, err
	}
	return p, ruleErr
}

// Frontier returns the highest unlocked level.
func (s *Service) Frontier(ctx context.Context) int {
	return ClampFrontier(s.frontier.Get(ctx))
}

// DailyCompleted reports whether today's daily challenge was already won.
func (s *Service) DailyCompleted(ctx context.Context) bool {
	return s.DailyCompletedOn(ctx, s.Today())
}

// DailyCompletedOn reports whether the daily challenge of date was won.
func (s *Service) DailyCompletedOn(ctx context.Context, date string) bool {
	return s.marker.Completed(ctx, date)
}

// CanStartLevel checks the unlock frontier and the heart gate.
func (s *Service) CanStartLevel(ctx context.Context, level int) error {
	if level < 1 || level > s.Frontier(ctx) {
		return ErrLevelLocked
	}
	if s.Profile(ctx).Hearts <= 0 {
		return ErrOutOfHearts
	}
	return nil
}

// CanStartDaily checks the daily completion marker.
func (s *Service) CanStartDaily(ctx context.Context) error {
	if s.DailyCompleted(ctx) {
		return ErrDailyCompleted
	}
	return nil
}

// Settle applies a judged attempt's consequence to every durable record.
// A daily win marks c.Date, or today when c.Date is empty. When the profile
// cannot be loaded nothing is applied and the error is returned.
func (s *Service) Settle(ctx context.Context, c game.Consequence) (Settlement, error) {
	out := Settlement{Consequence: c}
	p, err := s.profile.Update(ctx, func(p Profile) Profile {
		var next Profile
		next, out.HeartLost, out.OutOfHearts = SettleProfile(p, c)
		return next
	})
	if err != nil {
		return out, err
	}
	out.Profile = p
	out.Frontier, err = s.frontier.Update(ctx, func(f int) int {
		var next int
		next, out.FrontierAdvanced = SettleFrontier(f, c)
		return next
	})
	if err != nil {
		// The profile part is already queued.
		return out, err
	}
	if c.MarkDaily {
		date := c.Date
		if date == "" {
			date = s.Today()
		}
		s.marker.Mark(ctx, date)
		out.DailyMarked = true
	}
	log.Info().
		Str("mode", string(c.Mode)).
		Int("level", c.Level).
		Bool("success", c.Success).
		Int("xp", out.Profile.XP).
		Int("hearts", out.Profile.Hearts).
		Int("frontier", out.Frontier).
		Bool("outOfHearts", out.OutOfHearts).
		Msg("attempt settled")
	return out, nil
}
