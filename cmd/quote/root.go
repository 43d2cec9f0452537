package main

import (
	"github.com/spf13/cobra"

	"github.com/jesses-code-adventures/quote/internal/service"
)

func newRootCmd(quoteService *service.QuoteService) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "quote",
		Short: "Price window and pressure cleaning quotes and track jobs",
		Long: `Calculate quotes for window and pressure cleaning work from a YAML quote file,
render them as PDF or spreadsheets, and track the jobs they turn into from
scheduling through to invoicing.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newCalcCmd(quoteService),
		newPDFCmd(quoteService),
		newExportCmd(quoteService),
		newCatalogCmd(quoteService),
		newJobsCmd(quoteService),
	)

	return rootCmd
}
