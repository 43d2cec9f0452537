package catalog

import (
	"math"
	"sort"
)

// Kind groups modifier categories by what they apply to.
type Kind string

const (
	KindWindowCondition   Kind = "window-condition"
	KindAccess            Kind = "access"
	KindPressureCondition Kind = "pressure-condition"
	KindTechnique         Kind = "technique"
)

// Category is the closed set of modifier categories.
type Category string

const (
	CategoryDebris    Category = "debris"
	CategoryStaining  Category = "staining"
	CategoryScreens   Category = "screens"
	CategoryHeight    Category = "height"
	CategoryObstacles Category = "obstacles"
	CategoryDirt      Category = "dirt"
	CategoryOrganic   Category = "organic"
	CategorySurface   Category = "surface"
	CategoryWindow    Category = "window"
	CategoryPressure  Category = "pressure"
	CategoryTreatment Category = "treatment"
)

var categoryKinds = map[Category]Kind{
	CategoryDebris:    KindWindowCondition,
	CategoryStaining:  KindWindowCondition,
	CategoryScreens:   KindWindowCondition,
	CategoryHeight:    KindAccess,
	CategoryObstacles: KindAccess,
	CategoryDirt:      KindPressureCondition,
	CategoryOrganic:   KindPressureCondition,
	CategorySurface:   KindPressureCondition,
	CategoryWindow:    KindTechnique,
	CategoryPressure:  KindTechnique,
	CategoryTreatment: KindTechnique,
}

var categoryLabels = map[Category]string{
	CategoryDebris:    "Debris & Dirt",
	CategoryStaining:  "Staining",
	CategoryScreens:   "Screens & Tracks",
	CategoryHeight:    "Height",
	CategoryObstacles: "Obstacles",
	CategoryDirt:      "Dirt & Grime",
	CategoryOrganic:   "Organic Growth",
	CategorySurface:   "Surface Condition",
	CategoryWindow:    "Window Technique",
	CategoryPressure:  "Pressure Technique",
	CategoryTreatment: "Treatments",
}

// Kind returns the kind a category belongs to, or "" for an unknown category.
func (c Category) Kind() Kind {
	return categoryKinds[c]
}

func (c Category) Valid() bool {
	_, ok := categoryKinds[c]
	return ok
}

// Label is the display name of the category.
func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

// Categories lists every modifier category in sorted order.
func Categories() []Category {
	out := make([]Category, 0, len(categoryKinds))
	for c := range categoryKinds {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Multiplier selects which factor of a modifier is used.
type Multiplier string

const (
	TimeMultiplier  Multiplier = "time"
	PriceMultiplier Multiplier = "price"
)

// ResolveModifier is the single lookup path from an id to a factor. An empty
// or unknown id, or a factor that is not a positive finite number, is 1.0.
func ResolveModifier(id string, modifiers ModifierMap, which Multiplier) float64 {
	if id == "" {
		return 1.0
	}
	m, ok := modifiers[id]
	if !ok {
		return 1.0
	}
	return usableFactor(m.Factor(which))
}

// CalculateCombinedMultiplier multiplies the factors of ids in input order.
// Unknown ids are skipped and an empty list is 1.0.
func CalculateCombinedMultiplier(ids []string, which Multiplier, modifiers ModifierMap) float64 {
	product := 1.0
	for _, id := range ids {
		product *= ResolveModifier(id, modifiers, which)
	}
	return product
}

// LevelTable maps a named level such as "medium" to its factor.
type LevelTable map[string]float64

// Factor resolves a level the same way ResolveModifier resolves an id.
func (t LevelTable) Factor(level string) float64 {
	if level == "" {
		return 1.0
	}
	f, ok := t[level]
	if !ok {
		return 1.0
	}
	return usableFactor(f)
}

// Levels holds the named-level tables used when a line carries a level
// instead of a modifier id.
type Levels struct {
	WindowSoil     LevelTable `json:"window_soil" yaml:"window_soil"`
	WindowTint     LevelTable `json:"window_tint" yaml:"window_tint"`
	WindowAccess   LevelTable `json:"window_access" yaml:"window_access"`
	PressureSoil   LevelTable `json:"pressure_soil" yaml:"pressure_soil"`
	PressureAccess LevelTable `json:"pressure_access" yaml:"pressure_access"`
	AddonSeverity  LevelTable `json:"addon_severity" yaml:"addon_severity"`
}

func (l Levels) tables() map[string]LevelTable {
	return map[string]LevelTable{
		"window_soil":     l.WindowSoil,
		"window_tint":     l.WindowTint,
		"window_access":   l.WindowAccess,
		"pressure_soil":   l.PressureSoil,
		"pressure_access": l.PressureAccess,
		"addon_severity":  l.AddonSeverity,
	}
}

func usableFactor(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 1.0
	}
	return f
}
