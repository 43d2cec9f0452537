package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/jesses-code-adventures/quote/internal/catalog"
	"github.com/jesses-code-adventures/quote/internal/models"
	"github.com/jesses-code-adventures/quote/internal/money"
)

// WindowAddonCost prices a window addon as base price x panes x severity.
// A zero base price is taken from the catalog; severity is ignored for
// addon types that do not grade it.
func WindowAddonCost(addon models.WindowAddon, cat *catalog.Catalog) (float64, error) {
	cents, err := windowAddonCents(addon, orEmpty(cat))
	if err != nil {
		return 0, err
	}
	return money.FromCents(cents), nil
}

// PressureAddonCost prices a pressure addon per m² or as a flat fee, times
// severity. A per-m² addon without its own area covers lineArea.
func PressureAddonCost(addon models.PressureAddon, lineArea float64, cat *catalog.Catalog) (float64, error) {
	cents, err := pressureAddonCents(addon, lineArea, orEmpty(cat))
	if err != nil {
		return 0, err
	}
	return money.FromCents(cents), nil
}

func (l lookups) windowAddonCents(addons []models.WindowAddon) (int64, error) {
	var total int64
	for _, a := range addons {
		cents, err := windowAddonCents(a, l.cat)
		if err != nil {
			return 0, err
		}
		total += cents
	}
	return total, nil
}

func (l lookups) pressureAddonCents(addons []models.PressureAddon, lineArea float64) (int64, error) {
	var total int64
	for _, a := range addons {
		cents, err := pressureAddonCents(a, lineArea, l.cat)
		if err != nil {
			return 0, err
		}
		total += cents
	}
	return total, nil
}

func windowAddonCents(addon models.WindowAddon, cat *catalog.Catalog) (int64, error) {
	if err := money.CheckFinite("windowAddonCost", addon.BasePrice); err != nil {
		return 0, err
	}
	price := addon.BasePrice
	graded := true
	if t, ok := cat.WindowAddon(addon.ID); ok {
		if price == 0 {
			price = t.BasePrice
		}
		graded = t.HasSeverity
	}
	count := max(addon.InsideCount, 0) + max(addon.OutsideCount, 0)
	if price <= 0 || count == 0 {
		return 0, nil
	}
	severity := 1.0
	if graded {
		severity = cat.Levels.AddonSeverity.Factor(addon.Severity)
	}
	return roundProduct(price, float64(count), severity), nil
}

func pressureAddonCents(addon models.PressureAddon, lineArea float64, cat *catalog.Catalog) (int64, error) {
	if err := money.CheckFinite("pressureAddonCost", addon.BasePrice, addon.AreaSqm, lineArea); err != nil {
		return 0, err
	}
	price := addon.BasePrice
	perSqm := addon.PerSqm
	graded := true
	if t, ok := cat.PressureAddon(addon.ID); ok {
		if price == 0 {
			price = t.BasePrice
		}
		perSqm = t.PerSqm
		graded = t.HasSeverity
	}
	if price <= 0 {
		return 0, nil
	}
	quantity := 1.0
	if perSqm {
		quantity = addon.AreaSqm
		if quantity <= 0 {
			quantity = lineArea
		}
		if quantity <= 0 {
			return 0, nil
		}
	}
	severity := 1.0
	if graded {
		severity = cat.Levels.AddonSeverity.Factor(addon.Severity)
	}
	return roundProduct(price, quantity, severity), nil
}

func roundProduct(factors ...float64) int64 {
	product := decimal.NewFromInt(1)
	for _, f := range factors {
		product = product.Mul(decimal.NewFromFloat(f))
	}
	return product.Shift(2).Round(0).IntPart()
}
