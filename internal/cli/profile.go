package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/robalobadob/recall/internal/daily"
	"github.com/robalobadob/recall/internal/locale"
	"github.com/robalobadob/recall/internal/profile"
	"github.com/robalobadob/recall/internal/rank"
)

func (a *app) newProfileCmd() *cobra.Command {
	var rename string
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show the local player profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cat, err := a.catalog()
			if err != nil {
				return err
			}
			svc, cleanup, err := a.openProfiles(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if cmd.Flags().Changed("name") {
				if _, err := svc.SetUsername(ctx, rename); err != nil {
					return err
				}
			}
			p := svc.Profile(ctx)
			writeProfile(cmd.OutOrStdout(), profileCard{
				Profile:        p,
				Frontier:       svc.Frontier(ctx),
				DailyAvailable: !svc.DailyCompleted(ctx),
				ResetIn:        daily.FormatClock(svc.UntilDailyReset()),
			}, cat, a.lang, rank.Default)
			return nil
		},
	}
	cmd.Flags().StringVar(&rename, "name", "", "set the username")
	return cmd
}

type profileCard struct {
	Profile        profile.Profile
	Frontier       int
	DailyAvailable bool
	ResetIn        string
}

func writeProfile(w io.Writer, c profileCard, cat *locale.Catalog, lang string, ranks *rank.Table) {
	tag := cat.Match(lang)
	p := c.Profile

	name := p.Username
	if !p.Onboarded() {
		name = warnStyle.Render("(not onboarded)")
	}
	cur := ranks.Current(p.XP)
	into, toNext := ranks.Progress(p.XP)

	lines := []string{
		heading(iconBrain, "Player Profile"),
		labelValue("Name", name),
		labelValue("Rank", cur.Icon+" "+cat.Rank(tag, cur.Key).Name),
		labelValue("XP", fmt.Sprintf("%d %s", p.XP, progressBar(into, toNext, 20))),
	}
	if next, ok := ranks.Next(p.XP); ok {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("  %s %d xp to %s", iconArrow, toNext, cat.Rank(tag, next.Key).Name)))
	}
	lines = append(lines,
		labelValue("Hearts", heartsBar(p.Hearts, profile.MaxHearts)),
		labelValue("Coins", fmt.Sprintf("%s %d", iconCoin, p.Coins)),
		labelValue("Levels", fmt.Sprintf("%s %d completed, unlocked up to %d", iconStar, p.TotalLevelsCompleted, c.Frontier)),
		labelValue("Daily", dailyStatus(c.DailyAvailable, c.ResetIn)),
	)
	fmt.Fprintln(w, panelStyle.Render(strings.Join(lines, "\n")))
}

func dailyStatus(available bool, resetIn string) string {
	if available {
		return goodStyle.Render("available")
	}
	return badStyle.Render(iconLock+" done") + " " + mutedStyle.Render(iconCal+" next in "+resetIn)
}
