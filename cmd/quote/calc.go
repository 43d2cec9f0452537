package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jesses-code-adventures/quote/internal/money"
	"github.com/jesses-code-adventures/quote/internal/service"
)

func newCalcCmd(quoteService *service.QuoteService) *cobra.Command {
	var file string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Calculate a quote",
		Long:  "Price every line of a YAML quote file and print the line items, money breakdown and time estimate.",
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := quoteService.LoadQuote(file)
			if err != nil {
				return err
			}
			result, err := quoteService.CalculateQuote(q)
			if err != nil {
				return err
			}

			if asJSON {
				return quoteService.PrintQuoteJSON(cmd.OutOrStdout(), result)
			}
			quoteService.PrintQuote(cmd.OutOrStdout(), q, result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Quote file (YAML)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full result as JSON")
	cmd.MarkFlagRequired("file")

	return cmd
}

func newPDFCmd(quoteService *service.QuoteService) *cobra.Command {
	var file, output, client string

	cmd := &cobra.Command{
		Use:   "pdf",
		Short: "Render a quote as PDF",
		Long:  "Price a YAML quote file and render it as a PDF with line items, GST and payment details.",
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := quoteService.LoadQuote(file)
			if err != nil {
				return err
			}
			result, err := quoteService.CalculateQuote(q)
			if err != nil {
				return err
			}

			name := client
			if name == "" {
				name = q.ClientName
			}
			if output == "" {
				output = service.QuotePDFFileName(name, quoteService.Now())
			}

			if err := quoteService.GenerateQuotePDF(output, client, q, result); err != nil {
				return fmt.Errorf("failed to generate quote PDF: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Generated quote: %s (Total: %s)\n", output, money.FormatCurrency(result.Total))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Quote file (YAML)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: quote_<client>_<date>.pdf)")
	cmd.Flags().StringVarP(&client, "client", "c", "", "Client name (overrides the quote file)")
	cmd.MarkFlagRequired("file")

	return cmd
}

func newExportCmd(quoteService *service.QuoteService) *cobra.Command {
	var file, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export quote line items to CSV or Excel",
		Long:  "Export a quote's line items and totals. An .xlsx output writes a workbook; anything else writes CSV. Without -o the CSV goes to stdout.",
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := quoteService.LoadQuote(file)
			if err != nil {
				return err
			}
			result, err := quoteService.CalculateQuote(q)
			if err != nil {
				return err
			}

			if err := quoteService.ExportLineItems(cmd.OutOrStdout(), output, result); err != nil {
				return err
			}
			if output != "" && output != "-" {
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d line items to %s\n", len(result.LineItems), output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Quote file (YAML)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (.csv or .xlsx, default: stdout)")
	cmd.MarkFlagRequired("file")

	return cmd
}
