package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/yungbote/feedback360-backend/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			return a.Run(ctx)
		})
	},
}
