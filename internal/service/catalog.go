package service

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/jesses-code-adventures/quote/internal/catalog"
	"github.com/jesses-code-adventures/quote/internal/money"
	"github.com/jesses-code-adventures/quote/internal/utils"
)

// CatalogSections are the listings PrintCatalog accepts.
var CatalogSections = []string{"windows", "surfaces", "modifiers", "addons"}

// PrintCatalog lists one catalog section grouped by category. An empty
// section lists all of them; category narrows the listing to one group.
func (s *QuoteService) PrintCatalog(w io.Writer, section, category string) error {
	switch section {
	case "":
		for _, sec := range CatalogSections {
			if err := s.PrintCatalog(w, sec, category); err != nil {
				return err
			}
		}
		return nil
	case "windows":
		s.printWindowTypes(w, category)
	case "surfaces":
		s.printSurfaces(w, category)
	case "modifiers":
		s.printModifiers(w, category)
	case "addons":
		s.printAddons(w)
	default:
		return fmt.Errorf("unknown catalog section '%s' (want one of %v)", section, CatalogSections)
	}
	return nil
}

func (s *QuoteService) printWindowTypes(w io.Writer, category string) {
	groups := s.cat.WindowTypesByCategory()
	fmt.Fprintln(w, "Window types:")
	for _, cat := range catalog.SortedKeys(groups) {
		if category != "" && cat != category {
			continue
		}
		fmt.Fprintf(w, "  %s\n", cat)
		for _, wt := range groups[cat] {
			fmt.Fprintf(w, "    %-20s %-36s in %4s min  out %4s min  %s\n",
				wt.ID, wt.Label, humanize.Ftoa(wt.BaseMinutesInside), humanize.Ftoa(wt.BaseMinutesOutside),
				money.FormatCurrency(utils.FromPtr(wt.BasePrice)))
		}
	}
}

func (s *QuoteService) printSurfaces(w io.Writer, category string) {
	groups := s.cat.SurfacesByCategory()
	fmt.Fprintln(w, "Pressure surfaces:")
	for _, cat := range catalog.SortedKeys(groups) {
		if category != "" && cat != category {
			continue
		}
		fmt.Fprintf(w, "  %s\n", cat)
		for _, sf := range groups[cat] {
			fmt.Fprintf(w, "    %-20s %-36s %4s min/m²  %s/m²\n",
				sf.ID, sf.Label, humanize.Ftoa(sf.MinutesPerSqm), money.FormatCurrency(utils.FromPtr(sf.BaseRate)))
		}
	}
}

func (s *QuoteService) printModifiers(w io.Writer, category string) {
	groups := s.cat.ModifiersByCategory()
	fmt.Fprintln(w, "Modifiers:")
	for _, cat := range catalog.SortedKeys(groups) {
		if category != "" && string(cat) != category {
			continue
		}
		fmt.Fprintf(w, "  %s (%s)\n", cat.Label(), cat.Kind())
		for _, m := range groups[cat] {
			mark := ""
			if m.Recommended {
				mark = " *"
			}
			fmt.Fprintf(w, "    %-28s %-36s x%s%s\n", m.ID, m.Label, humanize.Ftoa(m.TimeMultiplier), mark)
		}
	}
}

func (s *QuoteService) printAddons(w io.Writer) {
	fmt.Fprintln(w, "Window addons (per pane):")
	for _, a := range s.cat.WindowAddons {
		fmt.Fprintf(w, "    %-28s %-36s %s\n", a.ID, a.Label, money.FormatCurrency(a.BasePrice))
	}
	fmt.Fprintln(w, "Pressure addons:")
	for _, a := range s.cat.PressureAddons {
		unit := "flat"
		if a.PerSqm {
			unit = "per m²"
		}
		fmt.Fprintf(w, "    %-28s %-36s %s %s\n", a.ID, a.Label, money.FormatCurrency(a.BasePrice), unit)
	}
}
