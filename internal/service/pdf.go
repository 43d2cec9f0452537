package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/jesses-code-adventures/quote/internal/models"
	"github.com/jesses-code-adventures/quote/internal/money"
	"github.com/jesses-code-adventures/quote/internal/pricing"
	"github.com/jesses-code-adventures/quote/internal/worktime"
)

const defaultValidDays = 30

// QuotePDFFileName is the default output name for a client's quote.
func QuotePDFFileName(clientName string, date time.Time) string {
	return sanitizeFileName(fmt.Sprintf("quote_%s_%s.pdf", clientName, date.Format(dateLayout)))
}

// GenerateQuotePDF renders the priced quote to fileName. clientName
// overrides the name in the quote file.
func (s *QuoteService) GenerateQuotePDF(fileName, clientName string, q *models.Quote, result pricing.QuoteResult) error {
	if clientName == "" {
		clientName = q.ClientName
	}
	if clientName == "" {
		return fmt.Errorf("client name is required for a quote PDF")
	}
	issued := s.now()

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, tr(fmt.Sprintf("Quote - %s", formatClientName(clientName))))
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(95, 6, tr(s.cfg.BusinessName))
	if s.cfg.BusinessABN != "" {
		pdf.Cell(85, 6, fmt.Sprintf("ABN: %s", s.cfg.BusinessABN))
	}
	pdf.Ln(6)
	if q.SiteAddress != "" {
		pdf.Cell(95, 6, tr(fmt.Sprintf("Site: %s", q.SiteAddress)))
		pdf.Ln(6)
	}

	validDays := q.ValidDays
	if validDays <= 0 {
		validDays = defaultValidDays
	}
	pdf.Cell(95, 6, fmt.Sprintf("Issued: %s", issued.Format(dateLayout)))
	pdf.Cell(85, 6, fmt.Sprintf("Valid until: %s", issued.AddDate(0, 0, validDays).Format(dateLayout)))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(118, 8, "Description", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 8, "Type", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 8, "Est. Time", "1", 0, "C", false, 0, "")
	pdf.CellFormat(22, 8, "Amount", "1", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 8)
	for _, item := range result.LineItems {
		lines := wrapDescriptionText(tr(item.Description), 70)
		rowHeight := float64(len(lines)) * 6
		if rowHeight < 6 {
			rowHeight = 6
		}

		x, y := pdf.GetX(), pdf.GetY()
		pdf.Rect(x, y, 118, rowHeight, "D")
		for i, line := range lines {
			pdf.SetXY(x+1, y+float64(i)*6)
			pdf.Cell(116, 6, line)
		}
		pdf.SetXY(x+118, y)
		pdf.CellFormat(25, rowHeight, string(item.Type), "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, rowHeight, worktime.FormatDuration(item.Minutes), "1", 0, "C", false, 0, "")
		pdf.CellFormat(22, rowHeight, money.FormatCurrency(item.Amount), "1", 1, "R", false, 0, "")
	}

	m := result.Money
	extras := []struct {
		label  string
		amount float64
	}{
		{"Base fee", m.BaseFee},
		{"Travel", m.Travel},
	}
	pdf.SetFont("Arial", "", 9)
	for _, e := range extras {
		if e.amount <= 0 {
			continue
		}
		pdf.CellFormat(168, 7, e.label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(22, 7, money.FormatCurrency(e.amount), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(5)
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(168, 8, "Subtotal:")
	pdf.CellFormat(22, 8, money.FormatCurrency(result.Subtotal), "", 1, "R", false, 0, "")

	pdf.Cell(168, 8, fmt.Sprintf("GST (%s):", money.FormatPercent(q.State.EffectiveGSTRate())))
	pdf.CellFormat(22, 8, money.FormatCurrency(result.GST), "", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(168, 10, "Total:")
	pdf.CellFormat(22, 10, money.FormatCurrency(result.Total), "", 1, "R", false, 0, "")

	if m.MinimumJob > 0 {
		pdf.SetFont("Arial", "I", 9)
		pdf.Cell(190, 6, fmt.Sprintf("A minimum charge of %s (ex GST) applies to this job.", money.FormatCurrency(m.MinimumJob)))
		pdf.Ln(6)
	}

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(190, 6, fmt.Sprintf("Estimated time on site: %s", worktime.FormatDuration(result.Time.TotalMinutes)))
	pdf.Ln(6)

	if q.Notes != "" {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(40, 8, "Notes:")
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 10)
		for _, line := range wrapDescriptionText(tr(q.Notes), 100) {
			pdf.Cell(190, 5, line)
			pdf.Ln(5)
		}
	}

	if s.cfg.BillingBank != "" || s.cfg.BillingAccountNumber != "" {
		pdf.Ln(10)
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(40, 8, "Payment Details:")
		pdf.Ln(10)

		pdf.SetFont("Arial", "", 11)
		pdf.Cell(40, 6, fmt.Sprintf("Bank: %s", s.cfg.BillingBank))
		pdf.Ln(6)
		pdf.Cell(40, 6, fmt.Sprintf("Account Name: %s", s.cfg.BillingAccountName))
		pdf.Ln(6)
		pdf.Cell(40, 6, fmt.Sprintf("Account Number: %s", s.cfg.BillingAccountNumber))
		pdf.Ln(6)
		pdf.Cell(40, 6, fmt.Sprintf("BSB: %s", s.cfg.BillingBSB))
		pdf.Ln(6)
	}

	return pdf.OutputFileAndClose(fileName)
}

func sanitizeFileName(fileName string) string {
	var b strings.Builder
	for _, r := range fileName {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-' || r == '.':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	return b.String()
}

// formatClientName turns snake_case names into "Title Case".
func formatClientName(name string) string {
	words := strings.Split(name, "_")
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(string(word[0])) + strings.ToLower(word[1:])
		}
	}
	return strings.Join(words, " ")
}

func wrapDescriptionText(text string, maxChars int) []string {
	if len(text) <= maxChars {
		return []string{text}
	}

	words := strings.Fields(text)
	var lines []string
	var currentLine string

	for _, word := range words {
		testLine := currentLine
		if testLine != "" {
			testLine += " "
		}
		testLine += word

		if len(testLine) <= maxChars {
			currentLine = testLine
		} else {
			if currentLine != "" {
				lines = append(lines, currentLine)
			}
			currentLine = word
		}
	}

	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return lines
}
