package main

import (
	"github.com/spf13/cobra"

	"github.com/stephendolan/chartmogul-cli/internal/auth"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication operations",
}

var authAPIKey string

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Configure ChartMogul API credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := auth.SetAPIKey(authAPIKey); err != nil {
			return err
		}
		// Verify the key actually works before reporting success.
		if _, err := newClient().Ping(cmd.Context()); err != nil {
			return err
		}
		return printer().JSON(map[string]any{"message": "Successfully authenticated with ChartMogul"})
	},
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove stored credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := auth.Logout(); err != nil {
			return err
		}
		return printer().JSON(map[string]any{"message": "Logged out successfully"})
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check authentication status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printer().JSON(map[string]any{"authenticated": auth.IsAuthenticated()})
	},
}

func init() {
	authLoginCmd.Flags().StringVar(&authAPIKey, "api-key", "", "ChartMogul API key")
	_ = authLoginCmd.MarkFlagRequired("api-key")

	authCmd.AddCommand(authLoginCmd, authLogoutCmd, authStatusCmd)
	rootCmd.AddCommand(authCmd)
}
