package main

import (
	"github.com/spf13/cobra"

	"github.com/stephendolan/chartmogul-cli/internal/api"
	"github.com/stephendolan/chartmogul-cli/internal/dates"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Metrics and analytics",
}

var (
	metricsStartDate string
	metricsEndDate   string
	metricsInterval  string
)

// metricParams validates the date flags and fills in the default 30-day
// range.
func metricParams() (api.Params, error) {
	start, end := dates.DefaultRange()

	if metricsStartDate != "" {
		parsed, err := dates.Parse(metricsStartDate)
		if err != nil {
			return nil, err
		}
		start = parsed
	}
	if metricsEndDate != "" {
		parsed, err := dates.Parse(metricsEndDate)
		if err != nil {
			return nil, err
		}
		end = parsed
	}

	return api.Params{
		"start-date": start,
		"end-date":   end,
		"interval":   metricsInterval,
	}, nil
}

// metricCommand builds a subcommand that fetches one metrics series.
func metricCommand(use, short, metric string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := metricParams()
			if err != nil {
				return err
			}
			result, err := newClient().Metrics(cmd.Context(), metric, params)
			if err != nil {
				return err
			}
			return printer().JSON(result)
		},
	}
	cmd.Flags().StringVar(&metricsStartDate, "start-date", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&metricsEndDate, "end-date", "", "End date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&metricsInterval, "interval", "", "Interval (day, week, month, quarter)")
	return cmd
}

func init() {
	metricsCmd.AddCommand(
		metricCommand("all", "Get all key metrics", api.MetricAll),
		metricCommand("mrr", "Get Monthly Recurring Revenue", api.MetricMRR),
		metricCommand("arr", "Get Annual Recurring Revenue", api.MetricARR),
		metricCommand("arpa", "Get Average Revenue Per Account", api.MetricARPA),
		metricCommand("asp", "Get Average Sale Price", api.MetricASP),
		metricCommand("customer-count", "Get customer count over time", api.MetricCustomerCount),
		metricCommand("customer-churn", "Get customer churn rate", api.MetricCustomerChurnRate),
		metricCommand("mrr-churn", "Get MRR churn rate", api.MetricMRRChurnRate),
		metricCommand("ltv", "Get Customer Lifetime Value", api.MetricLTV),
	)
	rootCmd.AddCommand(metricsCmd)
}
