package main

import (
	"github.com/spf13/cobra"

	"github.com/stephendolan/chartmogul-cli/internal/api"
)

var invoicesCmd = &cobra.Command{
	Use:   "invoices",
	Short: "Invoice queries",
}

var (
	invoicesCustomer   string
	invoicesDataSource string
	invoicesExternalID string
	invoicesPage       int
	invoicesPerPage    int
)

var invoicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List invoices",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := newClient().Invoices(cmd.Context(), api.Params{
			"customer_uuid":    invoicesCustomer,
			"data_source_uuid": dataSourceOrDefault(invoicesDataSource),
			"external_id":      invoicesExternalID,
			"page":             pageParam(invoicesPage),
			"per_page":         pageParam(invoicesPerPage),
		})
		if err != nil {
			return err
		}
		return printer().JSON(result)
	},
}

var invoicesViewCmd = &cobra.Command{
	Use:   "view <uuid>",
	Short: "View an invoice",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		invoice, err := newClient().Invoice(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printer().JSON(invoice)
	},
}

func init() {
	invoicesListCmd.Flags().StringVar(&invoicesCustomer, "customer", "", "Filter by customer UUID")
	invoicesListCmd.Flags().StringVar(&invoicesDataSource, "data-source", "", "Filter by data source UUID")
	invoicesListCmd.Flags().StringVar(&invoicesExternalID, "external-id", "", "Filter by external ID")
	invoicesListCmd.Flags().IntVar(&invoicesPage, "page", 0, "Page number")
	invoicesListCmd.Flags().IntVar(&invoicesPerPage, "per-page", 0, "Results per page")

	invoicesCmd.AddCommand(invoicesListCmd, invoicesViewCmd)
	rootCmd.AddCommand(invoicesCmd)
}
