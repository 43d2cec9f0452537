package catalog

// WindowType is one row of window reference data. Minutes are per pane.
type WindowType struct {
	ID                 string   `json:"id" yaml:"id"`
	Label              string   `json:"label" yaml:"label"`
	Description        string   `json:"description,omitempty" yaml:"description,omitempty"`
	Category           string   `json:"category" yaml:"category"`
	BaseMinutesInside  float64  `json:"base_minutes_inside" yaml:"base_minutes_inside"`
	BaseMinutesOutside float64  `json:"base_minutes_outside" yaml:"base_minutes_outside"`
	BasePrice          *float64 `json:"base_price,omitempty" yaml:"base_price,omitempty"`
	Difficulty         string   `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
}

// PressureSurface is one row of pressure cleaning reference data.
type PressureSurface struct {
	ID            string   `json:"id" yaml:"id"`
	Label         string   `json:"label" yaml:"label"`
	Category      string   `json:"category" yaml:"category"`
	MinutesPerSqm float64  `json:"minutes_per_sqm" yaml:"minutes_per_sqm"`
	BaseRate      *float64 `json:"base_rate,omitempty" yaml:"base_rate,omitempty"`
	Difficulty    string   `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
	Notes         string   `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Modifier is a multiplicative adjustment. It never carries a flat amount.
type Modifier struct {
	ID              string   `json:"id" yaml:"id"`
	Label           string   `json:"label" yaml:"label"`
	Category        Category `json:"category" yaml:"category"`
	TimeMultiplier  float64  `json:"time_multiplier" yaml:"time_multiplier"`
	PriceMultiplier float64  `json:"price_multiplier" yaml:"price_multiplier"`
	Description     string   `json:"description,omitempty" yaml:"description,omitempty"`
	Recommended     bool     `json:"recommended,omitempty" yaml:"recommended,omitempty"`
}

// Kind derives the modifier's kind from its category.
func (m Modifier) Kind() Kind {
	return m.Category.Kind()
}

// Factor returns the multiplier selected by which.
func (m Modifier) Factor(which Multiplier) float64 {
	if which == PriceMultiplier {
		return m.PriceMultiplier
	}
	return m.TimeMultiplier
}

// WindowAddonType is a priced extra applied per pane.
type WindowAddonType struct {
	ID          string  `json:"id" yaml:"id"`
	Label       string  `json:"label" yaml:"label"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	BasePrice   float64 `json:"base_price" yaml:"base_price"`
	HasSeverity bool    `json:"has_severity" yaml:"has_severity"`
}

// PressureAddonType is a priced extra applied per m² or as a flat fee.
type PressureAddonType struct {
	ID          string  `json:"id" yaml:"id"`
	Label       string  `json:"label" yaml:"label"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	BasePrice   float64 `json:"base_price" yaml:"base_price"`
	PerSqm      bool    `json:"per_sqm" yaml:"per_sqm"`
	HasSeverity bool    `json:"has_severity" yaml:"has_severity"`
}

type (
	WindowTypeMap map[string]WindowType
	SurfaceMap    map[string]PressureSurface
	ModifierMap   map[string]Modifier
)
