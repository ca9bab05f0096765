package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yungbote/feedback360-backend/internal/app"
	"github.com/yungbote/feedback360-backend/internal/platform/envutil"
	"github.com/yungbote/feedback360-backend/internal/platform/logger"
)

var logMode string

var rootCmd = &cobra.Command{
	Use:           "feedback360",
	Short:         "360-degree leadership feedback backend",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logMode, "log-mode", envutil.String("LOG_MODE", "development"), "logger mode (development|production)")
	rootCmd.AddCommand(serveCmd, seedCmd, exportCmd, chartCmd, surveyCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// withApp builds the application for one command and tears it down after.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	log, err := logger.New(logMode)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	ctx := cmd.Context()
	a, err := app.New(ctx, log, app.LoadConfig(log))
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}
