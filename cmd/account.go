package cmd

import (
	"errors"
	"fmt"

	"github.com/bnema/spaceo-chat/internal/domain"
	"github.com/spf13/cobra"
)

func newAccountCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Inspect the session account and the account pool",
	}

	cmd.AddCommand(
		newAccountShowCmd(app),
		newAccountInitCmd(app),
		newAccountPoolCmd(app),
		newAccountResetCmd(app),
		newAccountEndCmd(app),
	)

	return cmd
}

func newAccountShowCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the account id pinned to this terminal session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			accountID, err := app.sessions.CurrentAccount(cmd.Context())
			if errors.Is(err, domain.ErrKeyNotFound) {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "no account assigned to this session")
				return err
			}
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), accountID)
			return err
		},
	}
}

func newAccountInitCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Assign an account to this session if none is pinned yet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			accountID, err := app.sessions.Initialize(cmd.Context())
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), accountID)
			return err
		},
	}
}

func newAccountPoolCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pool",
		Short: "Show the ids left in the local account pool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pool, err := app.sessions.Pool(cmd.Context())
			if err != nil {
				return err
			}

			current, err := app.sessions.CurrentAccount(cmd.Context())
			if err != nil && !errors.Is(err, domain.ErrKeyNotFound) {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), app.renderer.Pool(current, pool, len(app.cfg.DefaultAccounts)))
			return err
		},
	}
}

func newAccountResetCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Refill the local account pool with the default ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pool, err := app.sessions.ResetPool(cmd.Context())
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "pool reset: %d accounts available\n", len(pool))
			return err
		},
	}
}

func newAccountEndCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "end",
		Short: "Forget the account pinned to this terminal session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.sessions.EndSession(cmd.Context()); err != nil {
				return err
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), "session ended")
			return err
		},
	}
}
