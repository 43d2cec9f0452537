package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jesses-code-adventures/quote/internal/service"
)

func newCatalogCmd(quoteService *service.QuoteService) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:       "catalog [" + strings.Join(service.CatalogSections, "|") + "]",
		Short:     "List window types, surfaces, modifiers and addons",
		Long:      "List the reference data quotes are priced against, grouped by category. Use -c to show a single category.",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: service.CatalogSections,
		RunE: func(cmd *cobra.Command, args []string) error {
			section := ""
			if len(args) == 1 {
				section = args[0]
			}
			if err := quoteService.PrintCatalog(cmd.OutOrStdout(), section, category); err != nil {
				return fmt.Errorf("failed to list catalog: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "Only show this category")

	return cmd
}
