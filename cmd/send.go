package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bnema/spaceo-chat/internal/domain"
	"github.com/bnema/spaceo-chat/internal/logging"
	"github.com/spf13/cobra"
)

func newSendCmd(app *app) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "send <message...>",
		Short: "Send one message and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")

			message, err := submitWithSpinner(cmd.Context(), app, cmd.ErrOrStderr(), text, !plain)
			if errors.Is(err, domain.ErrEmptyMessage) {
				return errors.New("message is empty")
			}
			if message.Text != "" {
				if plain {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), message.Text)
				} else {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), app.renderer.Message(message))
				}
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Print the raw reply without spinner or styling")

	return cmd
}

// submitWithSpinner submits text and, on a terminal, animates the loading
// line while the reply is pending.
func submitWithSpinner(ctx context.Context, app *app, stderr io.Writer, text string, animate bool) (domain.Message, error) {
	if !animate || !logging.IsTerminal(stderr) {
		return app.chat.Submit(ctx, text)
	}

	var message domain.Message
	err := runReplySpinner(ctx, stderr, func(ctx context.Context) error {
		var submitErr error
		message, submitErr = app.chat.Submit(ctx, text)
		return submitErr
	})
	return message, err
}
