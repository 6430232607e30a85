package main

import (
	"github.com/spf13/cobra"

	"github.com/stephendolan/chartmogul-cli/internal/config"
)

var dataSourcesCmd = &cobra.Command{
	Use:   "data-sources",
	Short: "Data source operations",
}

var dataSourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all data sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := newClient().DataSources(cmd.Context())
		if err != nil {
			return err
		}
		if obj, ok := result.(map[string]any); ok {
			if sources, ok := obj["data_sources"]; ok {
				return printer().JSON(sources)
			}
		}
		return printer().JSON(result)
	},
}

var dataSourcesViewCmd = &cobra.Command{
	Use:   "view <uuid>",
	Short: "View a data source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := newClient().DataSource(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printer().JSON(source)
	},
}

var dataSourcesSetDefaultCmd = &cobra.Command{
	Use:   "set-default <uuid>",
	Short: "Set default data source for filtering",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.SetDefaultDataSource(args[0]); err != nil {
			return err
		}
		return printer().JSON(map[string]any{"message": "Default data source set to " + args[0]})
	},
}

var dataSourcesGetDefaultCmd = &cobra.Command{
	Use:   "get-default",
	Short: "Get default data source",
	RunE: func(cmd *cobra.Command, args []string) error {
		var value any
		if ds := config.DefaultDataSource(); ds != "" {
			value = ds
		}
		return printer().JSON(map[string]any{"default_data_source": value})
	},
}

func init() {
	dataSourcesCmd.AddCommand(
		dataSourcesListCmd,
		dataSourcesViewCmd,
		dataSourcesSetDefaultCmd,
		dataSourcesGetDefaultCmd,
	)
	rootCmd.AddCommand(dataSourcesCmd)
}
