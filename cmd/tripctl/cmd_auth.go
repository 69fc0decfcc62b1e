package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var password string

var registerCmd = &cobra.Command{
	Use:   "register <username>",
	Short: "Create an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := opContext(cmd)
		defer cancel()
		if err := client.Register(ctx, args[0], passwordValue()); err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), map[string]any{"registered": args[0]})
	},
}

var loginCmd = &cobra.Command{
	Use:   "login <username>",
	Short: "Log in and store the session token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := opContext(cmd)
		defer cancel()
		if _, err := client.Login(ctx, args[0], passwordValue()); err != nil {
			return err
		}
		logger.Info("logged in", zap.String("user", args[0]))
		return printJSON(cmd.OutOrStdout(), map[string]any{"loggedIn": true, "user": args[0]})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := opContext(cmd)
		defer cancel()
		if err := client.Logout(ctx); err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), map[string]any{"loggedIn": false})
	},
}

// passwordValue prefers the flag, then ROADTRIP_PASSWORD.
func passwordValue() string {
	if password != "" {
		return password
	}
	return os.Getenv("ROADTRIP_PASSWORD")
}

func init() {
	for _, c := range []*cobra.Command{registerCmd, loginCmd} {
		c.Flags().StringVarP(&password, "password", "p", "", fmt.Sprintf("Password for %s (or set ROADTRIP_PASSWORD)", c.Name()))
	}
}
