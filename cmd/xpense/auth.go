package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/xpense/internal/cli"
	"github.com/Veraticus/xpense/internal/service"
	"github.com/Veraticus/xpense/internal/session"
)

const (
	demoEmail    = "demo@xpense.com"
	demoPassword = "password"
)

func loginCmd(a *app) *cobra.Command {
	var creds service.Credentials

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in",
		Long: `Sign in and start a session. Missing credentials are prompted for,
with the demo account offered as the default.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if err := a.open(ctx); err != nil {
				return err
			}
			defer a.close()

			p := prompter(cmd)
			var err error
			if creds.Email == "" {
				if creds.Email, err = p.Ask(ctx, "Email", demoEmail); err != nil {
					return fmt.Errorf("failed to read input: %w", err)
				}
			}
			if creds.Password == "" {
				if creds.Password, err = p.Ask(ctx, "Password", demoPassword); err != nil {
					return fmt.Errorf("failed to read input: %w", err)
				}
			}

			user, err := a.sessions.Login(ctx, session.StubAuthenticator{}, creds)
			if err != nil {
				return err
			}

			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Welcome back, %s!", user.Name)))
			return nil
		},
	}

	cmd.Flags().StringVar(&creds.Email, "email", "", "account email")
	cmd.Flags().StringVar(&creds.Password, "password", "", "account password")

	return cmd
}

func logoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		Long:  `End the current session. Categories and expenses are kept.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := a.open(ctx); err != nil {
				return err
			}
			defer a.close()

			if err := a.sessions.Logout(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Logged out."))
			return nil
		},
	}
}

func resetCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all local data",
		Long: `Reset signs out and removes every stored category and expense.

This is a destructive operation. The next session starts from the
built-in sample data.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := a.open(ctx); err != nil {
				return err
			}
			defer a.close()

			ok, err := confirm(cmd, force, "This will delete your session, categories and expenses. Continue?")
			if err != nil || !ok {
				return err
			}

			if err := a.sessions.Reset(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("All data removed."))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")

	return cmd
}
