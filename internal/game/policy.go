package game

import (
	"math"

	"github.com/robalobadob/recall/internal/sequence"
)

const (
	levelBaseXP     = 10
	levelXPGrowth   = 1.1
	levelCoins      = 5
	dailyXP         = 100
	dailyCoins      = 50
	failureHeartHit = -1
)

// Consequence is the reward or penalty a judged attempt carries into the
// profile. It is a pure function of mode, level and success.
type Consequence struct {
	Mode    Mode `json:"mode"`
	Level   int  `json:"level"`
	Success bool `json:"success"`

	XP     int `json:"xp"`
	Coins  int `json:"coins"`
	Hearts int `json:"hearts"`

	// CompleteLevel bumps totalLevelsCompleted.
	CompleteLevel bool `json:"completeLevel"`
	// MarkDaily stamps the daily completion marker with Date.
	MarkDaily bool `json:"markDaily"`
	// Date is the calendar day the attempt started on; empty means today.
	Date string `json:"date,omitempty"`
	// AdvanceFrontier asks the profile to unlock Level+1 if Level is the frontier.
	AdvanceFrontier bool `json:"advanceFrontier"`
}

// LevelXP returns floor(10 * 1.1^(level-1)).
func LevelXP(level int) int {
	level = sequence.ClampLevel(level)
	return int(math.Floor(levelBaseXP * math.Pow(levelXPGrowth, float64(level-1))))
}

// Resolve maps a judged attempt to its consequence.
//
//   - level success: +LevelXP xp, +5 coins, level completed, frontier may advance.
//   - daily success: +100 xp, +50 coins, level completed, daily marker set.
//   - level failure: -1 heart (floored by the profile).
//   - daily failure: nothing; the marker is only set on success.
func Resolve(mode Mode, level int, success bool) Consequence {
	c := Consequence{Mode: mode, Level: sequence.ClampLevel(level), Success: success}
	switch {
	case mode == ModeDaily && success:
		c.Level = sequence.DailyLevel
		c.XP, c.Coins = dailyXP, dailyCoins
		c.CompleteLevel, c.MarkDaily = true, true
	case mode == ModeDaily:
		c.Level = sequence.DailyLevel
	case success:
		c.XP, c.Coins = LevelXP(c.Level), levelCoins
		c.CompleteLevel, c.AdvanceFrontier = true, true
	default:
		c.Hearts = failureHeartHit
	}
	return c
}
