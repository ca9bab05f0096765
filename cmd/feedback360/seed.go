package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yungbote/feedback360-backend/internal/app"
	"github.com/yungbote/feedback360-backend/internal/services"
)

var seedFlags struct {
	manager string
	perRole int
	seed    int64
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate demo submissions for one manager",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			seed := seedFlags.seed
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			created, err := a.Services.DemoData.Generate(ctx, services.DemoDataRequest{
				ManagerName: seedFlags.manager,
				PerRole:     seedFlags.perRole,
				Seed:        seed,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %d submissions\n", len(created))
			return nil
		})
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedFlags.manager, "manager", "", "manager name (random when empty)")
	seedCmd.Flags().IntVar(&seedFlags.perRole, "per-role", 3, "submissions per non-self role")
	seedCmd.Flags().Int64Var(&seedFlags.seed, "seed", 0, "random seed (time based when 0)")
}
