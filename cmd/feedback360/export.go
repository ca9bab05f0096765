package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yungbote/feedback360-backend/internal/app"
	"github.com/yungbote/feedback360-backend/internal/data/repos"
	"github.com/yungbote/feedback360-backend/internal/modules/feedback/export"
)

var exportFlags struct {
	format  string
	manager string
	out     string
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export submissions, or one manager's aggregate with --manager",
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, err := export.ParseFormat(exportFlags.format)
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			w, closeOut, err := openOutput(cmd, exportFlags.out)
			if err != nil {
				return err
			}
			defer closeOut()

			if name := strings.TrimSpace(exportFlags.manager); name != "" {
				return a.Services.Export.Manager(ctx, w, format, name)
			}
			n, err := a.Services.Export.Submissions(ctx, w, format, repos.SubmissionFilter{})
			if err != nil {
				return err
			}
			if exportFlags.out != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "exported %d submissions to %s\n", n, exportFlags.out)
			}
			return nil
		})
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFlags.format, "format", "csv", "csv or json")
	exportCmd.Flags().StringVar(&exportFlags.manager, "manager", "", "export one manager's aggregated histograms")
	exportCmd.Flags().StringVarP(&exportFlags.out, "out", "o", "", "output file (stdout when empty)")
}

func openOutput(cmd *cobra.Command, path string) (io.Writer, func(), error) {
	if path == "" {
		return cmd.OutOrStdout(), func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, func() { _ = f.Close() }, nil
}
