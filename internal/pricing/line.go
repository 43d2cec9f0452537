// Package pricing turns quote lines into costs and times. Every function is
// pure: the same inputs always give the same result, and unknown catalog ids
// or empty quantities price as zero rather than failing.
package pricing

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/jesses-code-adventures/quote/internal/catalog"
	"github.com/jesses-code-adventures/quote/internal/models"
	"github.com/jesses-code-adventures/quote/internal/money"
	"github.com/jesses-code-adventures/quote/internal/worktime"
)

// lookups are the catalog views one quote prices against.
type lookups struct {
	cat        *catalog.Catalog
	conditions catalog.ModifierMap
	access     catalog.ModifierMap
}

// A nil catalog prices like an empty one: every id is unknown.
func orEmpty(cat *catalog.Catalog) *catalog.Catalog {
	if cat == nil {
		return &catalog.Catalog{}
	}
	return cat
}

func newLookups(cat *catalog.Catalog) lookups {
	cat = orEmpty(cat)
	return lookups{
		cat:        cat,
		conditions: cat.ModifiersOfKind(catalog.KindWindowCondition),
		access:     cat.ModifiersOfKind(catalog.KindAccess),
	}
}

// WindowLineCost prices one window line. The line's modifiers use their time
// multiplier for both time and cost, since cost is derived from time.
func WindowLineCost(line models.WindowLine, state models.QuoteState, cat *catalog.Catalog) (LineCost, error) {
	return newLookups(cat).windowLineCost(line, state)
}

// PressureLineCost prices one pressure line at the pressure hourly rate.
func PressureLineCost(line models.PressureLine, state models.QuoteState, cat *catalog.Catalog) (LineCost, error) {
	return newLookups(cat).pressureLineCost(line, state)
}

func (l lookups) windowLineCost(line models.WindowLine, state models.QuoteState) (LineCost, error) {
	wt, ok := l.cat.WindowType(line.WindowTypeID)
	if !ok || line.Panes <= 0 {
		return LineCost{}, nil
	}
	if err := money.CheckFinite("windowLineCost", state.HourlyRate, state.HighReachModifierPercent,
		state.InsideMultiplier, state.OutsideMultiplier); err != nil {
		return LineCost{}, err
	}

	insideMult := multiplierOrOne(state.InsideMultiplier)
	outsideMult := multiplierOrOne(state.OutsideMultiplier)

	minutesPerPane := 0.0
	if line.Inside {
		minutesPerPane += wt.BaseMinutesInside * insideMult
	}
	if line.Outside {
		minutesPerPane += wt.BaseMinutesOutside * outsideMult
	}

	levels := l.cat.Levels
	condition := resolveOr(line.ConditionID, l.conditions, levels.WindowSoil.Factor(line.SoilLevel))
	accessFallback := 1.0
	if line.HighReach {
		accessFallback = levels.WindowAccess.Factor("highReach")
	}
	access := resolveOr(line.AccessID, l.access, accessFallback)
	tint := levels.WindowTint.Factor(line.TintLevel)
	mods := catalog.CalculateCombinedMultiplier(line.Modifiers, catalog.TimeMultiplier, l.cat.ModifierMap())

	panes := float64(line.Panes)
	baseMinutes := minutesPerPane * panes * condition * access * tint * mods

	highReachMinutes := 0.0
	if line.HighReach && line.Outside {
		highReachMinutes = wt.BaseMinutesOutside * outsideMult * panes * condition * tint * mods *
			(state.HighReachModifierPercent / 100)
	}

	labour, err := labourCents(baseMinutes+highReachMinutes, state.HourlyRate)
	if err != nil {
		return LineCost{}, err
	}
	highReachCents, err := labourCents(highReachMinutes, state.HourlyRate)
	if err != nil {
		return LineCost{}, err
	}
	addonCents, err := l.windowAddonCents(line.Addons)
	if err != nil {
		return LineCost{}, err
	}

	hours, err := worktime.MinutesToHours(baseMinutes)
	if err != nil {
		return LineCost{}, err
	}
	return LineCost{
		Cost:             money.FromCents(labour + addonCents),
		Minutes:          baseMinutes,
		Hours:            hours,
		HighReachMinutes: highReachMinutes,
		HighReachCost:    money.FromCents(highReachCents),
		AddonCost:        money.FromCents(addonCents),
	}, nil
}

func (l lookups) pressureLineCost(line models.PressureLine, state models.QuoteState) (LineCost, error) {
	if err := money.CheckFinite("pressureLineCost", line.AreaSqm, state.HourlyRate, state.PressureHourlyRate); err != nil {
		return LineCost{}, err
	}
	surface, ok := l.cat.Surface(line.SurfaceID)
	if !ok || line.AreaSqm <= 0 {
		return LineCost{}, nil
	}

	levels := l.cat.Levels
	soil := levels.PressureSoil.Factor(line.SoilLevel)
	access := levels.PressureAccess.Factor(line.Access)
	mods := catalog.CalculateCombinedMultiplier(line.Modifiers, catalog.TimeMultiplier, l.cat.ModifierMap())

	minutes := surface.MinutesPerSqm * line.AreaSqm * soil * access * mods

	labour, err := labourCents(minutes, pressureRate(state))
	if err != nil {
		return LineCost{}, err
	}
	addonCents, err := l.pressureAddonCents(line.Addons, line.AreaSqm)
	if err != nil {
		return LineCost{}, err
	}
	hours, err := worktime.MinutesToHours(minutes)
	if err != nil {
		return LineCost{}, err
	}
	return LineCost{
		Cost:      money.FromCents(labour + addonCents),
		Minutes:   minutes,
		Hours:     hours,
		AddonCost: money.FromCents(addonCents),
	}, nil
}

// labourCents prices minutes at an hourly rate, rounded to whole cents.
func labourCents(minutes, hourlyRate float64) (int64, error) {
	if minutes == 0 {
		return 0, nil
	}
	return money.ToCents(minutes / worktime.MinutesPerHour * hourlyRate)
}

func pressureRate(state models.QuoteState) float64 {
	if state.PressureHourlyRate > 0 {
		return state.PressureHourlyRate
	}
	return state.HourlyRate
}

// resolveOr resolves id against modifiers, using fallback when the id is
// empty or not in the map.
func resolveOr(id string, modifiers catalog.ModifierMap, fallback float64) float64 {
	if _, ok := modifiers[id]; !ok {
		return fallback
	}
	return catalog.ResolveModifier(id, modifiers, catalog.TimeMultiplier)
}

func multiplierOrOne(m float64) float64 {
	if m <= 0 {
		return 1
	}
	return m
}

// WindowDescription labels a window line, e.g. "Standard 1x1 (small) - 10 panes".
func WindowDescription(label string, panes int) string {
	if panes == 1 {
		return label + " - 1 pane"
	}
	return fmt.Sprintf("%s - %d panes", label, panes)
}

// PressureDescription labels a pressure line, e.g. "Concrete Driveway - 50m²".
func PressureDescription(label string, areaSqm float64) string {
	return fmt.Sprintf("%s - %sm²", label, humanize.Ftoa(areaSqm))
}
