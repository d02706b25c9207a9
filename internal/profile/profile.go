// internal/profile/profile.go
//
// The durable player record and the pure rules that mutate it.
// Defines:
//   - Profile: username, xp, coins, hearts, heart-claim date, levels completed.
//   - Patch: an explicit partial update, merged by Apply.
//   - ClaimDailyHeart / BuyHeart / GrantHeart / Settle: rule functions that
//     take a value and return the next one.
//
// Invariants enforced on every result:
//   - 0 <= hearts <= MaxHearts
//   - xp, coins, totalLevelsCompleted >= 0
//   - 1 <= frontier <= MaxLevel

package profile

import (
	"errors"
	"strings"

	"github.com/robalobadob/recall/internal/daily"
	"github.com/robalobadob/recall/internal/game"
)

const (
	MaxHearts = 5
	HeartCost = 50
	MaxLevel  = 100
)

var (
	ErrUsernameRequired = errors.New("username is required")
	ErrHeartsFull       = errors.New("hearts already full")
	ErrNotEnoughCoins   = errors.New("not enough coins")
	ErrOutOfHearts      = errors.New("out of hearts")
	ErrLevelLocked      = errors.New("level locked")
	ErrDailyCompleted   = errors.New("daily challenge already completed today")
)

// Profile is the single durable player record.
type Profile struct {
	Username             string `json:"username"`
	XP                   int    `json:"xp"`
	Coins                int    `json:"coins"`
	Hearts               int    `json:"hearts"`
	LastHeartClaimDate   string `json:"lastHeartClaimDate,omitempty"` // "" when never claimed
	TotalLevelsCompleted int    `json:"totalLevelsCompleted"`
}

// Default is the profile of a fresh installation.
func Default() Profile {
	return Profile{Hearts: MaxHearts}
}

// Onboarded reports whether a username has been chosen.
func (p Profile) Onboarded() bool { return p.Username != "" }

// Patch names every field that may be replaced. Nil fields are kept.
type Patch struct {
	Username             *string `json:"username,omitempty"`
	XP                   *int    `json:"xp,omitempty"`
	Coins                *int    `json:"coins,omitempty"`
	Hearts               *int    `json:"hearts,omitempty"`
	LastHeartClaimDate   *string `json:"lastHeartClaimDate,omitempty"`
	TotalLevelsCompleted *int    `json:"totalLevelsCompleted,omitempty"`
}

// Apply returns p with every non-nil field of patch replaced, then clamped
// to the profile invariants.
func (p Profile) Apply(patch Patch) Profile {
	if patch.Username != nil {
		p.Username = *patch.Username
	}
	if patch.XP != nil {
		p.XP = *patch.XP
	}
	if patch.Coins != nil {
		p.Coins = *patch.Coins
	}
	if patch.Hearts != nil {
		p.Hearts = *patch.Hearts
	}
	if patch.LastHeartClaimDate != nil {
		p.LastHeartClaimDate = *patch.LastHeartClaimDate
	}
	if patch.TotalLevelsCompleted != nil {
		p.TotalLevelsCompleted = *patch.TotalLevelsCompleted
	}
	return p.normalized()
}

func (p Profile) normalized() Profile {
	p.XP = max(p.XP, 0)
	p.Coins = max(p.Coins, 0)
	p.TotalLevelsCompleted = max(p.TotalLevelsCompleted, 0)
	p.Hearts = min(max(p.Hearts, 0), MaxHearts)
	return p
}

// NormalizeUsername trims surrounding whitespace and rejects empty names.
func NormalizeUsername(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrUsernameRequired
	}
	return name, nil
}

// ClaimDailyHeart grants one heart per whole day since the last claim, up to
// the cap. An absent last date counts as today, so a fresh install gets
// nothing. Every call on a new day stamps today; a second call on the same
// day changes nothing. claimed is true only when hearts were added.
func ClaimDailyHeart(p Profile, today string) (next Profile, claimed bool) {
	if p.LastHeartClaimDate == today {
		return p, false
	}
	last := p.LastHeartClaimDate
	if last == "" {
		last = today
	}
	days, err := daily.DaysBetween(last, today)
	if err != nil {
		days = 0
	}
	grant := max(min(days, MaxHearts-p.Hearts), 0)
	p.Hearts += grant
	p.LastHeartClaimDate = today
	return p.normalized(), grant > 0
}

// BuyHeart trades HeartCost coins for one heart.
func BuyHeart(p Profile) (Profile, error) {
	if p.Hearts >= MaxHearts {
		return p, ErrHeartsFull
	}
	if p.Coins < HeartCost {
		return p, ErrNotEnoughCoins
	}
	p.Coins -= HeartCost
	p.Hearts++
	return p.normalized(), nil
}

// GrantHeart adds one free heart, e.g. after a rewarded ad.
func GrantHeart(p Profile) (Profile, error) {
	if p.Hearts >= MaxHearts {
		return p, ErrHeartsFull
	}
	p.Hearts++
	return p.normalized(), nil
}

// Settlement reports what applying a consequence did.
type Settlement struct {
	Consequence      game.Consequence `json:"consequence"`
	Profile          Profile          `json:"profile"`
	Frontier         int              `json:"frontier"`
	FrontierAdvanced bool             `json:"frontierAdvanced"`
	HeartLost        bool             `json:"heartLost"`
	OutOfHearts      bool             `json:"outOfHearts"`
	DailyMarked      bool             `json:"dailyMarked"`
}

// SettleProfile applies the profile part of c. A heart penalty with no
// hearts left reports outOfHearts instead of deducting.
func SettleProfile(p Profile, c game.Consequence) (next Profile, heartLost, outOfHearts bool) {
	p.XP += c.XP
	p.Coins += c.Coins
	if c.CompleteLevel {
		p.TotalLevelsCompleted++
	}
	if c.Hearts < 0 {
		if p.Hearts <= 0 {
			outOfHearts = true
		} else {
			p.Hearts += c.Hearts
			heartLost = true
		}
	}
	return p.normalized(), heartLost, outOfHearts
}

// SettleFrontier advances the frontier past level when level is the
// frontier and the consequence asks for it. Replays never move it.
func SettleFrontier(frontier int, c game.Consequence) (next int, advanced bool) {
	frontier = ClampFrontier(frontier)
	if !c.AdvanceFrontier || c.Level != frontier || frontier >= MaxLevel {
		return frontier, false
	}
	return frontier + 1, true
}

// ClampFrontier keeps a stored frontier inside [1, MaxLevel].
func ClampFrontier(f int) int {
	return min(max(f, 1), MaxLevel)
}
