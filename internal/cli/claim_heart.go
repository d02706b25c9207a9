package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/robalobadob/recall/internal/profile"
)

func (a *app) newClaimHeartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "claim-heart",
		Short: "Claim the hearts regenerated since the last claim",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := a.openProfiles(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			p, claimed, err := svc.ClaimDailyHeart(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if claimed {
				fmt.Fprintln(out, goodStyle.Render("hearts restored"))
			} else {
				fmt.Fprintln(out, mutedStyle.Render("nothing to claim today"))
			}
			fmt.Fprintln(out, labelValue("Hearts", heartsBar(p.Hearts, profile.MaxHearts)))
			return nil
		},
	}
}
