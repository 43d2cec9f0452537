package jobs

import (
	"github.com/jesses-code-adventures/quote/internal/catalog"
	"github.com/jesses-code-adventures/quote/internal/models"
	"github.com/jesses-code-adventures/quote/internal/pricing"
)

// NewWindowItem creates a pending item for a priced window line.
func NewWindowItem(line models.WindowLine, price, minutes float64, label string) models.JobItem {
	details := line
	return models.JobItem{
		ID:             itemID(line.ID),
		Type:           models.JobItemWindow,
		Description:    pricing.WindowDescription(label, line.Panes),
		EstimatedPrice: price,
		EstimatedTime:  minutes,
		ActualPrice:    price,
		Status:         models.ItemPending,
		WindowDetails:  &details,
	}
}

// NewPressureItem creates a pending item for a priced pressure line.
func NewPressureItem(line models.PressureLine, price, minutes float64, label string) models.JobItem {
	details := line
	return models.JobItem{
		ID:              itemID(line.ID),
		Type:            models.JobItemPressure,
		Description:     pricing.PressureDescription(label, line.AreaSqm),
		EstimatedPrice:  price,
		EstimatedTime:   minutes,
		ActualPrice:     price,
		Status:          models.ItemPending,
		PressureDetails: &details,
	}
}

// itemID keeps the quote line's id so items can be traced back to it.
func itemID(lineID string) string {
	if lineID == "" {
		return models.NewUUID()
	}
	return lineID
}

// ItemsFromQuote creates one item per quote line, priced from the quote's
// line items. result must come from pricing.CalculateQuote for state.
func ItemsFromQuote(state models.QuoteState, result pricing.QuoteResult, cat *catalog.Catalog) []models.JobItem {
	items := make([]models.JobItem, 0, len(state.WindowLines)+len(state.PressureLines))
	i := 0
	next := func() pricing.LineItem {
		var li pricing.LineItem
		if i < len(result.LineItems) {
			li = result.LineItems[i]
		}
		i++
		return li
	}

	for _, line := range state.WindowLines {
		li := next()
		label := line.WindowTypeID
		if wt, ok := cat.WindowType(line.WindowTypeID); ok {
			label = wt.Label
		}
		items = append(items, NewWindowItem(line, li.Amount, li.Minutes, label))
	}
	for _, line := range state.PressureLines {
		li := next()
		label := line.SurfaceID
		if s, ok := cat.Surface(line.SurfaceID); ok {
			label = s.Label
		}
		items = append(items, NewPressureItem(line, li.Amount, li.Minutes, label))
	}
	return items
}
