// Package catalog holds the reference data quotes are priced against:
// window types, pressure surfaces, modifiers, level tables and addon types.
// A Catalog is read-only once loaded and is safe for concurrent use.
package catalog

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type Catalog struct {
	WindowTypes    []WindowType        `json:"window_types" yaml:"window_types"`
	Surfaces       []PressureSurface   `json:"surfaces" yaml:"surfaces"`
	Modifiers      []Modifier          `json:"modifiers" yaml:"modifiers"`
	Levels         Levels              `json:"levels" yaml:"levels"`
	WindowAddons   []WindowAddonType   `json:"window_addons" yaml:"window_addons"`
	PressureAddons []PressureAddonType `json:"pressure_addons" yaml:"pressure_addons"`

	windowTypes    WindowTypeMap
	surfaces       SurfaceMap
	modifiers      ModifierMap
	windowAddons   map[string]WindowAddonType
	pressureAddons map[string]PressureAddonType
}

var loadDefault = sync.OnceValues(func() (*Catalog, error) {
	return parse(defaultCatalog)
})

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := loadDefault()
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return c
}

// DefaultLevels returns a copy of the built-in level tables.
func DefaultLevels() Levels {
	src := Default().Levels
	return Levels{
		WindowSoil:     copyTable(src.WindowSoil),
		WindowTint:     copyTable(src.WindowTint),
		WindowAccess:   copyTable(src.WindowAccess),
		PressureSoil:   copyTable(src.PressureSoil),
		PressureAccess: copyTable(src.PressureAccess),
		AddonSeverity:  copyTable(src.AddonSeverity),
	}
}

// New builds a catalog from caller-supplied rows using the default level
// tables and no addon types.
func New(windowTypes []WindowType, surfaces []PressureSurface, modifiers []Modifier) (*Catalog, error) {
	c := &Catalog{
		WindowTypes: windowTypes,
		Surfaces:    surfaces,
		Modifiers:   modifiers,
		Levels:      DefaultLevels(),
	}
	if err := c.index(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads a YAML catalog. Level tables missing from the document fall
// back to the defaults.
func Load(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	c, err := parse(data)
	if err != nil {
		return nil, err
	}
	c.fillLevels(DefaultLevels())
	return c, nil
}

func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

func parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := c.index(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) index() error {
	c.windowTypes = make(WindowTypeMap, len(c.WindowTypes))
	for _, w := range c.WindowTypes {
		if w.ID == "" {
			return fmt.Errorf("window type %q has no id", w.Label)
		}
		if _, dup := c.windowTypes[w.ID]; dup {
			return fmt.Errorf("duplicate window type %q", w.ID)
		}
		if w.BaseMinutesInside < 0 || w.BaseMinutesOutside < 0 {
			return fmt.Errorf("window type %q has negative minutes", w.ID)
		}
		c.windowTypes[w.ID] = w
	}

	c.surfaces = make(SurfaceMap, len(c.Surfaces))
	for _, s := range c.Surfaces {
		if s.ID == "" {
			return fmt.Errorf("surface %q has no id", s.Label)
		}
		if _, dup := c.surfaces[s.ID]; dup {
			return fmt.Errorf("duplicate surface %q", s.ID)
		}
		if s.MinutesPerSqm < 0 {
			return fmt.Errorf("surface %q has negative minutes per m²", s.ID)
		}
		c.surfaces[s.ID] = s
	}

	c.modifiers = make(ModifierMap, len(c.Modifiers))
	for _, m := range c.Modifiers {
		if m.ID == "" {
			return fmt.Errorf("modifier %q has no id", m.Label)
		}
		if _, dup := c.modifiers[m.ID]; dup {
			return fmt.Errorf("duplicate modifier %q", m.ID)
		}
		if !m.Category.Valid() {
			return fmt.Errorf("modifier %q has unknown category %q", m.ID, m.Category)
		}
		if !(m.TimeMultiplier > 0) || !(m.PriceMultiplier > 0) {
			return fmt.Errorf("modifier %q must have positive multipliers", m.ID)
		}
		c.modifiers[m.ID] = m
	}

	for name, table := range c.Levels.tables() {
		for level, f := range table {
			if !(f > 0) {
				return fmt.Errorf("level %s.%s must be positive", name, level)
			}
		}
	}

	c.windowAddons = make(map[string]WindowAddonType, len(c.WindowAddons))
	for _, a := range c.WindowAddons {
		if _, dup := c.windowAddons[a.ID]; dup {
			return fmt.Errorf("duplicate window addon %q", a.ID)
		}
		c.windowAddons[a.ID] = a
	}
	c.pressureAddons = make(map[string]PressureAddonType, len(c.PressureAddons))
	for _, a := range c.PressureAddons {
		if _, dup := c.pressureAddons[a.ID]; dup {
			return fmt.Errorf("duplicate pressure addon %q", a.ID)
		}
		c.pressureAddons[a.ID] = a
	}
	return nil
}

func (c *Catalog) fillLevels(def Levels) {
	if c.Levels.WindowSoil == nil {
		c.Levels.WindowSoil = def.WindowSoil
	}
	if c.Levels.WindowTint == nil {
		c.Levels.WindowTint = def.WindowTint
	}
	if c.Levels.WindowAccess == nil {
		c.Levels.WindowAccess = def.WindowAccess
	}
	if c.Levels.PressureSoil == nil {
		c.Levels.PressureSoil = def.PressureSoil
	}
	if c.Levels.PressureAccess == nil {
		c.Levels.PressureAccess = def.PressureAccess
	}
	if c.Levels.AddonSeverity == nil {
		c.Levels.AddonSeverity = def.AddonSeverity
	}
}

func (c *Catalog) WindowType(id string) (WindowType, bool) {
	w, ok := c.windowTypes[id]
	return w, ok
}

func (c *Catalog) Surface(id string) (PressureSurface, bool) {
	s, ok := c.surfaces[id]
	return s, ok
}

func (c *Catalog) Modifier(id string) (Modifier, bool) {
	m, ok := c.modifiers[id]
	return m, ok
}

func (c *Catalog) WindowAddon(id string) (WindowAddonType, bool) {
	a, ok := c.windowAddons[id]
	return a, ok
}

func (c *Catalog) PressureAddon(id string) (PressureAddonType, bool) {
	a, ok := c.pressureAddons[id]
	return a, ok
}

// ModifierMap returns the id lookup for every modifier. Callers must not modify it.
func (c *Catalog) ModifierMap() ModifierMap { return c.modifiers }

// ModifiersOfKind returns a lookup restricted to one kind, so that a
// pressure-condition id can never resolve as a window condition.
func (c *Catalog) ModifiersOfKind(kind Kind) ModifierMap {
	out := make(ModifierMap)
	for id, m := range c.modifiers {
		if m.Kind() == kind {
			out[id] = m
		}
	}
	return out
}

// WindowTypesByCategory groups window types by category, keeping file order
// within each group.
func (c *Catalog) WindowTypesByCategory() map[string][]WindowType {
	out := make(map[string][]WindowType)
	for _, w := range c.WindowTypes {
		out[w.Category] = append(out[w.Category], w)
	}
	return out
}

func (c *Catalog) SurfacesByCategory() map[string][]PressureSurface {
	out := make(map[string][]PressureSurface)
	for _, s := range c.Surfaces {
		out[s.Category] = append(out[s.Category], s)
	}
	return out
}

func (c *Catalog) ModifiersByCategory() map[Category][]Modifier {
	out := make(map[Category][]Modifier)
	for _, m := range c.Modifiers {
		out[m.Category] = append(out[m.Category], m)
	}
	return out
}

func (c *Catalog) ModifiersByKind(kind Kind) []Modifier {
	var out []Modifier
	for _, m := range c.Modifiers {
		if m.Kind() == kind {
			out = append(out, m)
		}
	}
	return out
}

// SortedKeys returns the keys of a grouped listing in sorted order.
func SortedKeys[K ~string, V any](groups map[K]V) []K {
	keys := make([]K, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func copyTable(t LevelTable) LevelTable {
	if t == nil {
		return nil
	}
	out := make(LevelTable, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}
