package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "spaceo",
		Short:         "Spaceo chat client: talk to the chatbot and upload files",
		Long:          "spaceo chats with the Spaceo chatbot backend from the terminal. Each terminal session is pinned to one account id taken from a rotating local pool.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return app.bind(cmd.ErrOrStderr())
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newChatCmd(app),
		newSendCmd(app),
		newUploadCmd(app),
		newAccountCmd(app),
		newDevServerCmd(app),
	)

	return rootCmd
}
