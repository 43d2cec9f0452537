package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jesses-code-adventures/quote/internal/jobs"
	"github.com/jesses-code-adventures/quote/internal/models"
	"github.com/jesses-code-adventures/quote/internal/money"
	"github.com/jesses-code-adventures/quote/internal/pricing"
)

var (
	lineItemHeaders = []string{"ID", "Type", "Description", "Minutes", "Amount"}
	jobHeaders      = []string{
		"Job", "Client", "Status", "Scheduled", "Items", "Progress (%)",
		"Estimated Subtotal", "Estimated GST", "Estimated Total",
		"Actual Subtotal", "Actual GST", "Actual Total", "Duration (minutes)",
	}
)

func lineItemRows(result pricing.QuoteResult) [][]string {
	rows := make([][]string, 0, len(result.LineItems)+3)
	for _, item := range result.LineItems {
		rows = append(rows, []string{
			item.ID,
			string(item.Type),
			item.Description,
			strconv.FormatFloat(item.Minutes, 'f', -1, 64),
			money.FormatFixed(item.Amount),
		})
	}
	rows = append(rows,
		[]string{"", "", "Subtotal", "", money.FormatFixed(result.Subtotal)},
		[]string{"", "", "GST", "", money.FormatFixed(result.GST)},
		[]string{"", "", "Total", strconv.FormatFloat(result.Time.TotalMinutes, 'f', -1, 64), money.FormatFixed(result.Total)},
	)
	return rows
}

func (s *QuoteService) jobRows(list []*models.Job) [][]string {
	rows := make([][]string, 0, len(list))
	for _, job := range list {
		p := job.Pricing
		rows = append(rows, []string{
			job.JobNumber,
			job.ClientName,
			string(job.Status),
			job.Schedule.ScheduledDate.Format(dateLayout),
			strconv.Itoa(len(job.Items)),
			strconv.Itoa(jobs.CalculateJobProgress(job.Items)),
			money.FormatFixed(p.EstimatedSubtotal),
			money.FormatFixed(p.EstimatedGST),
			money.FormatFixed(p.EstimatedTotal),
			money.FormatFixed(p.ActualSubtotal),
			money.FormatFixed(p.ActualGST),
			money.FormatFixed(p.ActualTotal),
			strconv.FormatFloat(jobs.GetJobDuration(job, s.now()), 'f', 0, 64),
		})
	}
	return rows
}

// ExportLineItems writes the quote's line items and totals to output. The
// extension picks the format: .xlsx for a workbook, anything else CSV. An
// empty output or "-" writes CSV to stdout.
func (s *QuoteService) ExportLineItems(stdout io.Writer, output string, result pricing.QuoteResult) error {
	return exportTable(stdout, output, "Quote", lineItemHeaders, lineItemRows(result))
}

func (s *QuoteService) ExportJobs(stdout io.Writer, output string, list []*models.Job) error {
	return exportTable(stdout, output, "Jobs", jobHeaders, s.jobRows(list))
}

func exportTable(stdout io.Writer, output, sheetName string, headers []string, data [][]string) error {
	if output == "" || output == "-" {
		return writeCSV(stdout, headers, data)
	}

	if strings.EqualFold(filepath.Ext(output), ".xlsx") {
		return writeExcel(output, sheetName, headers, data)
	}

	file, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()
	if err := writeCSV(file, headers, data); err != nil {
		return err
	}
	return file.Close()
}

func writeCSV(w io.Writer, headers []string, data [][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range data {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeExcel(fileName, sheetName string, headers []string, data [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D3D3D3"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("failed to style header: %w", err)
		}
	}

	for rowIdx, row := range data {
		for colIdx, value := range row {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, cellValue(value)); err != nil {
				return fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
		}
	}

	last, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(sheetName, "A", last, 16); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}

	if sheetName != "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return fmt.Errorf("failed to remove default sheet: %w", err)
		}
	}
	if err := f.SaveAs(fileName); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// cellValue stores numeric text as a number so the workbook can sum it.
func cellValue(value string) any {
	if value == "" {
		return value
	}
	if v, err := strconv.ParseFloat(value, 64); err == nil && money.CheckFinite("cell", v) == nil {
		return v
	}
	return value
}
