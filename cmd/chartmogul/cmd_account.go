package main

import "github.com/spf13/cobra"

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Account operations",
}

var accountViewCmd = &cobra.Command{
	Use:   "view",
	Short: "View account details",
	RunE: func(cmd *cobra.Command, args []string) error {
		account, err := newClient().Account(cmd.Context())
		if err != nil {
			return err
		}
		return printer().JSON(account)
	},
}

func init() {
	accountCmd.AddCommand(accountViewCmd)
	rootCmd.AddCommand(accountCmd)
}
