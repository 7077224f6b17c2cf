package main

import (
	"fmt"
	"time"

	"github.com/dwikikusuma/storefront/internal/session/domain"
	"github.com/spf13/cobra"
)

func (c *cli) authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Log in, register or log out",
	}

	var password string
	login := &cobra.Command{
		Use:   "login EMAIL",
		Short: "Log in; the password is read from stdin unless --password is set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw := password
			if pw == "" {
				var err error
				if pw, err = c.prompt(cmd, "Password: "); err != nil {
					return err
				}
			}
			u, err := c.app.Auth.Login(cmd.Context(), domain.Credentials{Email: args[0], Password: pw})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome back, %s!\n", displayName(u))
			return nil
		},
	}
	login.Flags().StringVar(&password, "password", "", "password")

	var reg domain.Registration
	register := &cobra.Command{
		Use:   "register EMAIL",
		Short: "Create an account; passwords are read from stdin unless given as flags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg.Email = args[0]
			var err error
			if reg.Password == "" {
				if reg.Password, err = c.prompt(cmd, "Password: "); err != nil {
					return err
				}
			}
			if reg.ConfirmPassword == "" {
				if reg.ConfirmPassword, err = c.prompt(cmd, "Confirm password: "); err != nil {
					return err
				}
			}
			u, err := c.app.Auth.Register(cmd.Context(), reg)
			if err != nil {
				return err
			}
			if c.app.Gate.IsAuthenticated() {
				fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s! You are logged in.\n", displayName(u))
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Account created. Log in to continue.")
			}
			return nil
		},
	}
	register.Flags().StringVar(&reg.Name, "name", "", "display name")
	register.Flags().StringVar(&reg.Password, "password", "", "password")
	register.Flags().StringVar(&reg.ConfirmPassword, "confirm", "", "password again")

	logout := &cobra.Command{
		Use:   "logout",
		Short: "Log out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !c.app.Gate.IsAuthenticated() {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
				return nil
			}
			if err := c.app.Auth.Logout(cmd.Context()); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}

	whoami := &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !c.app.Gate.IsAuthenticated() {
				fmt.Fprintln(out, "Not logged in.")
				return nil
			}
			u, err := c.app.Auth.Profile(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s <%s>\n", displayName(u), u.Email)
			if cl, ok := c.app.Gate.Claims(); ok && !cl.ExpiresAt.IsZero() {
				fmt.Fprintf(out, "Session expires %s\n", cl.ExpiresAt.Local().Format(time.RFC1123))
			}
			return nil
		},
	}

	cmd.AddCommand(login, register, logout, whoami)
	return cmd
}

func displayName(u domain.User) string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
