package pricing

import (
	"github.com/jesses-code-adventures/quote/internal/catalog"
	"github.com/jesses-code-adventures/quote/internal/models"
	"github.com/jesses-code-adventures/quote/internal/money"
	"github.com/jesses-code-adventures/quote/internal/worktime"
)

// CalculateQuote prices every line of state and aggregates the result. The
// only error is a *money.DomainError for non-finite numeric input. A nil
// catalog prices every line as zero.
//
// GST is charged on the subtotal before the minimum job is applied, so
// Total can be lower than Money.Total for a small job.
func CalculateQuote(state models.QuoteState, cat *catalog.Catalog) (QuoteResult, error) {
	if err := money.CheckFinite("calculateQuote", state.BaseFee, state.HourlyRate, state.PressureHourlyRate,
		state.MinimumJob, state.HighReachModifierPercent, state.InsideMultiplier, state.OutsideMultiplier,
		state.SetupBufferMinutes, state.GSTRate); err != nil {
		return QuoteResult{}, err
	}

	l := newLookups(cat)
	result := QuoteResult{
		LineItems: make([]LineItem, 0, len(state.WindowLines)+len(state.PressureLines)),
	}

	var windowsCents, highReachCents, addonCents int64
	var windowsMinutes, highReachMinutes float64
	for _, line := range state.WindowLines {
		c, err := l.windowLineCost(line, state)
		if err != nil {
			return QuoteResult{}, err
		}
		cents, err := money.ToCents(c.Cost)
		if err != nil {
			return QuoteResult{}, err
		}
		windowsCents += cents
		highReachCents += mustCents(c.HighReachCost)
		addonCents += mustCents(c.AddonCost)
		windowsMinutes += c.Minutes
		highReachMinutes += c.HighReachMinutes

		label := line.WindowTypeID
		if wt, ok := l.cat.WindowType(line.WindowTypeID); ok {
			label = wt.Label
		}
		result.LineItems = append(result.LineItems, LineItem{
			ID:          line.ID,
			Type:        models.JobItemWindow,
			Description: WindowDescription(label, line.Panes),
			Amount:      c.Cost,
			Minutes:     c.TotalMinutes(),
		})
	}

	var pressureCents int64
	var pressureMinutes float64
	for _, line := range state.PressureLines {
		c, err := l.pressureLineCost(line, state)
		if err != nil {
			return QuoteResult{}, err
		}
		cents, err := money.ToCents(c.Cost)
		if err != nil {
			return QuoteResult{}, err
		}
		pressureCents += cents
		addonCents += mustCents(c.AddonCost)
		pressureMinutes += c.Minutes

		label := line.SurfaceID
		if s, ok := l.cat.Surface(line.SurfaceID); ok {
			label = s.Label
		}
		result.LineItems = append(result.LineItems, LineItem{
			ID:          line.ID,
			Type:        models.JobItemPressure,
			Description: PressureDescription(label, line.AreaSqm),
			Amount:      c.Cost,
			Minutes:     c.TotalMinutes(),
		})
	}

	travelCents, travelMinutes, err := travel(state)
	if err != nil {
		return QuoteResult{}, err
	}

	baseFeeCents, err := money.ToCents(state.BaseFee)
	if err != nil {
		return QuoteResult{}, err
	}
	minimumCents, err := money.ToCents(state.MinimumJob)
	if err != nil {
		return QuoteResult{}, err
	}

	subtotalCents := money.SumCents(baseFeeCents, windowsCents, pressureCents, travelCents)
	totalCents := money.ApplyMinimumCents(subtotalCents, minimumCents)

	result.Money = MoneyBreakdown{
		BaseFee:   money.FromCents(baseFeeCents),
		Windows:   money.FromCents(windowsCents),
		Pressure:  money.FromCents(pressureCents),
		Travel:    money.FromCents(travelCents),
		HighReach: money.FromCents(highReachCents),
		Addons:    money.FromCents(addonCents),
		Subtotal:  money.FromCents(subtotalCents),
		Total:     money.FromCents(totalCents),
	}
	if totalCents > subtotalCents {
		result.Money.MinimumJob = money.FromCents(minimumCents)
	}

	subtotal := money.FromCents(subtotalCents)
	gst := money.CalculateGST(subtotal, state.EffectiveGSTRate())
	result.Subtotal = subtotal
	result.GST = gst.GST
	result.Total = money.FromCents(subtotalCents + mustCents(gst.GST))

	setupMinutes := state.SetupBufferMinutes
	totalMinutes, err := worktime.SumTime(windowsMinutes, pressureMinutes, highReachMinutes, setupMinutes)
	if err != nil {
		return QuoteResult{}, err
	}
	result.Time = TimeBreakdown{
		WindowsMinutes:   windowsMinutes,
		PressureMinutes:  pressureMinutes,
		HighReachMinutes: highReachMinutes,
		SetupMinutes:     setupMinutes,
		TravelMinutes:    travelMinutes,
		TotalMinutes:     totalMinutes,
		WindowsHours:     windowsMinutes / worktime.MinutesPerHour,
		PressureHours:    pressureMinutes / worktime.MinutesPerHour,
		HighReachHours:   highReachMinutes / worktime.MinutesPerHour,
		SetupHours:       setupMinutes / worktime.MinutesPerHour,
		TravelHours:      travelMinutes / worktime.MinutesPerHour,
		TotalHours:       (totalMinutes + travelMinutes) / worktime.MinutesPerHour,
	}
	return result, nil
}

// travel prices the time leg at the travel hourly rate, or the labour
// hourly rate when none is set, and the distance leg when it has a per-km
// rate.
func travel(state models.QuoteState) (int64, float64, error) {
	var cents int64
	minutes := 0.0
	if state.TravelMinutes != nil {
		minutes = *state.TravelMinutes
		if err := money.CheckFinite("travel", minutes); err != nil {
			return 0, 0, err
		}
		rate := state.HourlyRate
		if state.TravelRatePerHour != nil {
			rate = *state.TravelRatePerHour
		}
		c, err := money.ToCents(minutes / worktime.MinutesPerHour * rate)
		if err != nil {
			return 0, 0, err
		}
		cents += c
	}
	if state.TravelKm != nil && state.TravelRatePerKm != nil {
		c, err := money.ToCents(*state.TravelKm * *state.TravelRatePerKm)
		if err != nil {
			return 0, 0, err
		}
		cents += c
	}
	return cents, minutes, nil
}

// mustCents converts an amount that is already whole cents.
func mustCents(amount float64) int64 {
	cents, _ := money.ToCents(amount)
	return cents
}
