package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/feedback360-backend/internal/app"
)

var surveyCmd = &cobra.Command{
	Use:   "survey",
	Short: "Manage the role survey definitions",
}

var surveyResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default survey definitions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			cfg, err := a.Services.SurveyConfig.Reset(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "survey reset: self=%d peer=%d direct=%d manager=%d sections\n",
				len(cfg.Self), len(cfg.Peer), len(cfg.Direct), len(cfg.Manager))
			return nil
		})
	},
}

func init() {
	surveyCmd.AddCommand(surveyResetCmd)
}
