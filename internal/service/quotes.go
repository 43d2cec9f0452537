package service

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jesses-code-adventures/quote/internal/models"
	"github.com/jesses-code-adventures/quote/internal/money"
	"github.com/jesses-code-adventures/quote/internal/pricing"
	"github.com/jesses-code-adventures/quote/internal/worktime"
)

// LoadQuote reads a YAML quote file. Pricing fields the file leaves out
// keep the configured defaults.
func (s *QuoteService) LoadQuote(path string) (*models.Quote, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open quote file: %w", err)
	}
	defer f.Close()
	return s.ParseQuote(f)
}

func (s *QuoteService) ParseQuote(r io.Reader) (*models.Quote, error) {
	q := &models.Quote{State: s.cfg.DefaultQuoteState()}
	if err := yaml.NewDecoder(r).Decode(q); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse quote: %w", err)
	}

	if q.ID == "" {
		q.ID = models.NewUUID()
	}
	for i := range q.State.WindowLines {
		if q.State.WindowLines[i].ID == "" {
			q.State.WindowLines[i].ID = fmt.Sprintf("w%d", i+1)
		}
	}
	for i := range q.State.PressureLines {
		if q.State.PressureLines[i].ID == "" {
			q.State.PressureLines[i].ID = fmt.Sprintf("p%d", i+1)
		}
	}
	return q, nil
}

func (s *QuoteService) CalculateQuote(q *models.Quote) (pricing.QuoteResult, error) {
	result, err := pricing.CalculateQuote(q.State, s.cat)
	if err != nil {
		return pricing.QuoteResult{}, fmt.Errorf("failed to calculate quote: %w", err)
	}
	return result, nil
}

func (s *QuoteService) PrintQuoteJSON(w io.Writer, result pricing.QuoteResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("failed to encode quote: %w", err)
	}
	return nil
}

// PrintQuote writes the line items, money breakdown and time estimate.
func (s *QuoteService) PrintQuote(w io.Writer, q *models.Quote, result pricing.QuoteResult) {
	if q.ClientName != "" {
		fmt.Fprintf(w, "Quote for %s\n", q.ClientName)
	}
	if q.SiteAddress != "" {
		fmt.Fprintf(w, "Site: %s\n", q.SiteAddress)
	}

	if len(result.LineItems) == 0 {
		fmt.Fprintln(w, "No line items.")
	} else {
		fmt.Fprintln(w, "Line items:")
		for _, item := range result.LineItems {
			fmt.Fprintf(w, "  %-44s %9s %12s\n",
				item.Description, worktime.FormatDuration(item.Minutes), money.FormatCurrency(item.Amount))
		}
	}
	fmt.Fprintln(w, strings.Repeat("-", 68))

	m := result.Money
	row := func(label string, amount float64) {
		fmt.Fprintf(w, "%-55s %12s\n", label, money.FormatCurrency(amount))
	}
	row("Base fee", m.BaseFee)
	row("Windows", m.Windows)
	row("Pressure cleaning", m.Pressure)
	if m.Travel > 0 {
		row("Travel", m.Travel)
	}
	if m.HighReach > 0 {
		row("  incl. high reach", m.HighReach)
	}
	if m.Addons > 0 {
		row("  incl. addons", m.Addons)
	}
	row("Subtotal", result.Subtotal)
	row(fmt.Sprintf("GST (%s)", money.FormatPercent(q.State.EffectiveGSTRate())), result.GST)
	row("Total", result.Total)
	if m.MinimumJob > 0 {
		row("Minimum job applies (ex GST)", m.MinimumJob)
	}

	t := result.Time
	fmt.Fprintf(w, "\nEstimated time: %s (windows %s, pressure %s, high reach %s, setup %s)\n",
		worktime.FormatDuration(t.TotalMinutes),
		worktime.FormatDuration(t.WindowsMinutes),
		worktime.FormatDuration(t.PressureMinutes),
		worktime.FormatDuration(t.HighReachMinutes),
		worktime.FormatDuration(t.SetupMinutes))
	if t.TravelMinutes > 0 {
		fmt.Fprintf(w, "Travel: %s\n", worktime.FormatDuration(t.TravelMinutes))
	}
}
