package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/xpense/internal/cli"
	"github.com/Veraticus/xpense/internal/form"
	"github.com/Veraticus/xpense/internal/model"
)

func profileCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or change your profile",
	}

	cmd.AddCommand(showProfileCmd(a))
	cmd.AddCommand(setProfileCmd(a))

	return cmd
}

func showProfileCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := a.signedIn(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			fmt.Fprintln(cmd.OutOrStdout(), renderProfile(user))
			return nil
		},
	}
}

func setProfileCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update profile fields",
		Long: `Update your name, email or preferences. Only the flags you pass are changed.

Examples:
  xpense profile set --currency USD
  xpense profile set --notifications=false`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			f := form.ProfileForm{
				Name:          stringFlag(cmd, "name"),
				Email:         stringFlag(cmd, "email"),
				Notifications: boolFlag(cmd, "notifications"),
			}
			if c := stringFlag(cmd, "currency"); c != nil {
				f.Currency = model.Ptr(strings.ToUpper(*c))
			}
			patch, err := f.Patch()
			if err != nil {
				return err
			}

			if _, err := a.signedIn(ctx); err != nil {
				return err
			}
			defer a.close()

			var user model.User
			err = retryConflicts(ctx, func() error {
				user, err = a.sessions.UpdateProfile(ctx, patch)
				return err
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatSuccess("Profile updated."))
			fmt.Fprintln(out, renderProfile(user))
			return nil
		},
	}

	cmd.Flags().String("name", "", "display name")
	cmd.Flags().String("email", "", "email address")
	cmd.Flags().String("currency", "", "display currency, e.g. INR")
	cmd.Flags().Bool("notifications", true, "enable notifications")

	return cmd
}

func renderProfile(user model.User) string {
	notifications := "off"
	if user.Preferences.Notifications {
		notifications = "on"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", cli.BoldStyle.Render("Name:"), user.Name)
	fmt.Fprintf(&b, "%s %s\n", cli.BoldStyle.Render("Email:"), user.Email)
	fmt.Fprintf(&b, "%s %s\n", cli.BoldStyle.Render("Currency:"), user.Preferences.Currency)
	fmt.Fprintf(&b, "%s %s", cli.BoldStyle.Render("Notifications:"), notifications)
	return cli.RenderBox(cli.WalletIcon+" Profile", b.String())
}
