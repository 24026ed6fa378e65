package cmd

import (
	"github.com/bnema/spaceo-chat/internal/adapters/devserver"
	"github.com/spf13/cobra"
)

func newDevServerCmd(app *app) *cobra.Command {
	var listen string
	var uploadDir string

	cmd := &cobra.Command{
		Use:   "devserver",
		Short: "Run a local echo backend with the chat and upload endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			server := devserver.New(uploadDir, devserver.WithLogger(app.logger))
			return server.ListenAndServe(cmd.Context(), listen)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", app.cfg.DevListen, "Address to listen on")
	cmd.Flags().StringVar(&uploadDir, "upload-dir", app.cfg.DevUploadDir, "Directory receiving uploaded files")

	return cmd
}
