package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Terminal styles for command output.

const (
	iconBrain = "🧠"
	iconHeart = "❤️"
	iconCoin  = "🪙"
	iconStar  = "⭐"
	iconLock  = "🔒"
	iconCal   = "📅"
	iconError = "🧨"
	iconArrow = "➜"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	keyStyle   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	mutedStyle = lipgloss.NewStyle().Foreground(cMuted)
	goodStyle  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	warnStyle  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	badStyle   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	goldStyle  = lipgloss.NewStyle().Bold(true).Foreground(cGold)

	panelStyle = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
)

func heading(icon, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return titleStyle.Render(icon + title)
}

func labelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", keyStyle.Render(label+":"), value)
}

// heartsBar renders n of limit hearts, e.g. ❤️❤️❤️··.
func heartsBar(n, limit int) string {
	if n < 0 {
		n = 0
	}
	if n > limit {
		n = limit
	}
	return strings.Repeat(iconHeart, n) + mutedStyle.Render(strings.Repeat("·", limit-n))
}

// progressBar renders into/(into+toNext) as a fixed-width bar.
func progressBar(into, toNext, width int) string {
	total := into + toNext
	if total <= 0 {
		return goldStyle.Render(strings.Repeat("█", width))
	}
	filled := into * width / total
	return goodStyle.Render(strings.Repeat("█", filled)) + mutedStyle.Render(strings.Repeat("░", width-filled))
}
