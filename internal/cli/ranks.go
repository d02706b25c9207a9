package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/robalobadob/recall/internal/locale"
	"github.com/robalobadob/recall/internal/rank"
)

func (a *app) newRanksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ranks",
		Short: "Print the rank ladder",
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
			writeRanks(cmd.OutOrStdout(), cat, a.lang, rank.Default, svc.Profile(ctx).XP)
			return nil
		},
	}
}

// writeRanks prints every rank, marking the one xp currently holds.
func writeRanks(w io.Writer, cat *locale.Catalog, lang string, ranks *rank.Table, xp int) {
	tag := cat.Match(lang)
	cur := ranks.Current(xp)
	fmt.Fprintln(w, heading(iconStar, "Ranks"))
	for _, r := range ranks.All() {
		e := cat.Rank(tag, r.Key)
		line := fmt.Sprintf("%s %-12s %8d  %s", r.Icon, e.Name, r.Threshold, mutedStyle.Render(e.Description))
		if r.Key == cur.Key {
			line = goldStyle.Render(iconArrow+" ") + line
		} else {
			line = "  " + line
		}
		fmt.Fprintln(w, line)
	}
}
