package main

import (
	"github.com/spf13/cobra"

	"github.com/stephendolan/chartmogul-cli/internal/api"
)

var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "Plan queries",
}

var (
	plansDataSource string
	plansPage       int
	plansPerPage    int
)

var plansListCmd = &cobra.Command{
	Use:   "list",
	Short: "List plans",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := newClient().Plans(cmd.Context(), api.Params{
			"data_source_uuid": dataSourceOrDefault(plansDataSource),
			"page":             pageParam(plansPage),
			"per_page":         pageParam(plansPerPage),
		})
		if err != nil {
			return err
		}
		return printer().JSON(result)
	},
}

var plansViewCmd = &cobra.Command{
	Use:   "view <uuid>",
	Short: "View a plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := newClient().Plan(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printer().JSON(plan)
	},
}

func init() {
	plansListCmd.Flags().StringVar(&plansDataSource, "data-source", "", "Filter by data source UUID")
	plansListCmd.Flags().IntVar(&plansPage, "page", 0, "Page number")
	plansListCmd.Flags().IntVar(&plansPerPage, "per-page", 0, "Results per page")

	plansCmd.AddCommand(plansListCmd, plansViewCmd)
	rootCmd.AddCommand(plansCmd)
}
