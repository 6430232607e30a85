package main

import (
	"github.com/spf13/cobra"

	"github.com/stephendolan/chartmogul-cli/internal/api"
	"github.com/stephendolan/chartmogul-cli/internal/dates"
	"github.com/stephendolan/chartmogul-cli/internal/enrich"
)

var activitiesCmd = &cobra.Command{
	Use:   "activities",
	Short: "Billing activity feed",
}

var (
	activitiesStartDate string
	activitiesEndDate   string
	activitiesType      string
	activitiesPage      int
	activitiesPerPage   int
	activitiesEnrich    bool
)

var activitiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List billing activities",
	RunE: func(cmd *cobra.Command, args []string) error {
		params := api.Params{
			"type":     activitiesType,
			"page":     pageParam(activitiesPage),
			"per_page": pageParam(activitiesPerPage),
		}
		if activitiesStartDate != "" {
			parsed, err := dates.Parse(activitiesStartDate)
			if err != nil {
				return err
			}
			params["start-date"] = parsed
		}
		if activitiesEndDate != "" {
			parsed, err := dates.Parse(activitiesEndDate)
			if err != nil {
				return err
			}
			params["end-date"] = parsed
		}

		client := newClient()
		result, err := client.Activities(cmd.Context(), params)
		if err != nil {
			return err
		}
		if activitiesEnrich {
			result = enrich.New(client, enrich.WithLogger(logger)).Activities(cmd.Context(), result)
		}
		return printer().JSON(result)
	},
}

func init() {
	activitiesListCmd.Flags().StringVar(&activitiesStartDate, "start-date", "", "Start date (YYYY-MM-DD)")
	activitiesListCmd.Flags().StringVar(&activitiesEndDate, "end-date", "", "End date (YYYY-MM-DD)")
	activitiesListCmd.Flags().StringVar(&activitiesType, "type", "", "Activity type (new_biz, expansion, contraction, churn, reactivation)")
	activitiesListCmd.Flags().IntVar(&activitiesPage, "page", 0, "Page number")
	activitiesListCmd.Flags().IntVar(&activitiesPerPage, "per-page", 0, "Results per page (max 200)")
	activitiesListCmd.Flags().BoolVar(&activitiesEnrich, "enrich", false, "Add customer-since and customer-tenure-months to each activity")

	activitiesCmd.AddCommand(activitiesListCmd)
	rootCmd.AddCommand(activitiesCmd)
}
