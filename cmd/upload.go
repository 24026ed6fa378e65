package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/bnema/spaceo-chat/internal/application"
	"github.com/spf13/cobra"
)

func newUploadCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <path...>",
		Short: "Upload files to the chatbot",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return uploadFiles(cmd.Context(), app, cmd.OutOrStdout(), args)
		},
	}
}

func uploadFiles(ctx context.Context, app *app, out io.Writer, paths []string) error {
	result, err := app.uploads.Drop(ctx, paths...)
	if err != nil {
		return err
	}

	writeDropSummary(out, result)

	skipped := len(result.Rejected) + len(result.Failed)
	if skipped > 0 {
		return fmt.Errorf("%d of %d files not uploaded", skipped, len(paths))
	}
	return nil
}

func writeDropSummary(out io.Writer, result application.DropResult) {
	for _, receipt := range result.Uploaded {
		name := receipt.FileName
		if name == "" {
			name = "file"
		}
		_, _ = fmt.Fprintf(out, "uploaded: %s\n", name)
	}
	for _, rejection := range result.Rejected {
		_, _ = fmt.Fprintf(out, "skipped: %s (%v)\n", rejection.Path, rejection.Err)
	}
	for _, failure := range result.Failed {
		_, _ = fmt.Fprintf(out, "failed: %s (%v)\n", failure.Path, failure.Err)
	}
}
