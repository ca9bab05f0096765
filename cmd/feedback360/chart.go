package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yungbote/feedback360-backend/internal/app"
)

var chartFlags struct {
	manager string
	out     string
}

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Render a manager's self-vs-others comparison chart to PNG",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if chartFlags.manager == "" {
			return fmt.Errorf("--manager is required")
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			png, err := a.Services.Reports.Chart(ctx, chartFlags.manager)
			if err != nil {
				return err
			}
			out := chartFlags.out
			if out == "" {
				out = "comparison.png"
			}
			if err := os.WriteFile(out, png, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", out, len(png))
			return nil
		})
	},
}

func init() {
	chartCmd.Flags().StringVar(&chartFlags.manager, "manager", "", "manager name")
	chartCmd.Flags().StringVarP(&chartFlags.out, "out", "o", "", "output file (comparison.png when empty)")
}
