package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/stephendolan/chartmogul-cli/internal/api"
	"github.com/stephendolan/chartmogul-cli/internal/config"
	"github.com/stephendolan/chartmogul-cli/internal/enrich"
)

var customersCmd = &cobra.Command{
	Use:   "customers",
	Short: "Customer queries",
}

var (
	customersDataSource string
	customersStatus     string
	customersExternalID string
	customersPage       int
	customersPerPage    int
)

// pageParam renders a pagination flag value, dropping the unset zero.
func pageParam(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}

// dataSourceOrDefault falls back to the configured default data source.
func dataSourceOrDefault(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return config.DefaultDataSource()
}

var customersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List customers",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := newClient().Customers(cmd.Context(), api.Params{
			"data_source_uuid": dataSourceOrDefault(customersDataSource),
			"status":           customersStatus,
			"external_id":      customersExternalID,
			"page":             pageParam(customersPage),
			"per_page":         pageParam(customersPerPage),
		})
		if err != nil {
			return err
		}
		return printer().JSON(result)
	},
}

var customersViewCmd = &cobra.Command{
	Use:   "view <uuid>",
	Short: "View a customer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		customer, err := newClient().Customer(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printer().JSON(customer)
	},
}

var customersSearchEmail string

var customersSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search customers by email",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := newClient().SearchCustomers(cmd.Context(), customersSearchEmail)
		if err != nil {
			return err
		}
		if obj, ok := result.(map[string]any); ok {
			if entries, ok := obj["entries"]; ok {
				return printer().JSON(entries)
			}
		}
		return printer().JSON(result)
	},
}

var (
	customerActivitiesPage    int
	customerActivitiesPerPage int
	customerActivitiesEnrich  bool
)

var customersActivitiesCmd = &cobra.Command{
	Use:   "activities <uuid>",
	Short: "List customer activities",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		result, err := client.CustomerActivities(cmd.Context(), args[0], api.Params{
			"page":     pageParam(customerActivitiesPage),
			"per_page": pageParam(customerActivitiesPerPage),
		})
		if err != nil {
			return err
		}
		if customerActivitiesEnrich {
			result = enrich.New(client, enrich.WithLogger(logger)).Activities(cmd.Context(), result)
		}
		return printer().JSON(result)
	},
}

var customersSubscriptionsCmd = &cobra.Command{
	Use:   "subscriptions <uuid>",
	Short: "List customer subscriptions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := newClient().CustomerSubscriptions(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if obj, ok := result.(map[string]any); ok {
			if entries, ok := obj["entries"]; ok {
				return printer().JSON(entries)
			}
		}
		return printer().JSON(result)
	},
}

func init() {
	customersListCmd.Flags().StringVar(&customersDataSource, "data-source", "", "Filter by data source UUID")
	customersListCmd.Flags().StringVar(&customersStatus, "status", "", "Filter by status (Lead, Active, Past Due, Cancelled)")
	customersListCmd.Flags().StringVar(&customersExternalID, "external-id", "", "Filter by external ID")
	customersListCmd.Flags().IntVar(&customersPage, "page", 0, "Page number")
	customersListCmd.Flags().IntVar(&customersPerPage, "per-page", 0, "Results per page (max 200)")

	customersSearchCmd.Flags().StringVar(&customersSearchEmail, "email", "", "Email address to search")
	_ = customersSearchCmd.MarkFlagRequired("email")

	customersActivitiesCmd.Flags().IntVar(&customerActivitiesPage, "page", 0, "Page number")
	customersActivitiesCmd.Flags().IntVar(&customerActivitiesPerPage, "per-page", 0, "Results per page")
	customersActivitiesCmd.Flags().BoolVar(&customerActivitiesEnrich, "enrich", false, "Add customer-since and customer-tenure-months to each activity")

	customersCmd.AddCommand(
		customersListCmd,
		customersViewCmd,
		customersSearchCmd,
		customersActivitiesCmd,
		customersSubscriptionsCmd,
	)
	rootCmd.AddCommand(customersCmd)
}
