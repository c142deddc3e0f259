package chartspec

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Kind is the shape of the chart drawn for a spec.
type Kind string

// Mode tells how the dataset is reshaped for a spec.
type Mode string

const (
	// Bar charts compare every district side by side.
	Bar Kind = "bar"

	// Pie charts split one total between the spec fields.
	Pie Kind = "pie"

	// CrossDistrict pairs every district with every field.
	CrossDistrict Mode = "cross-district"

	// SingleDistrict takes the fields of one chosen district.
	SingleDistrict Mode = "single-district"

	// Aggregate sums every field across all districts.
	Aggregate Mode = "aggregate"
)

// Party colors, used by specs classifying fields by party.
const (
	DemocratColor   = "#0000ff"
	RepublicanColor = "#ff0000"
	OtherColor      = "#808080"
)

// fallback when a spec has neither a color for a field nor a palette
var defaultPalette = []string{"#e41a1c", "#377eb8", "#4daf4a", "#984ea3", "#ff7f00", "#ffff33", "#a65628", "#f781bf", "#999999"}

// ChartSpec maps one sidebar selection to the columns it charts.
type ChartSpec struct {
	Category string
	Sub      string // year or panel, empty for single shaped categories
	Title    string
	YLabel   string
	Kind     Kind
	Mode     Mode
	Fields   []string          // dataset columns, in chart order
	Labels   []string          // display label of each field
	Colors   map[string]string // field -> hex color
	Palette  []string          // hex colors, in field order
	Party    bool              // classify field colors by party
}

// PartyColor classifies a field code as democrat, republican or other
// by looking for a "D", then an "R", anywhere in the code.
func PartyColor(field string) string {
	switch {
	case strings.Contains(field, "D"):
		return DemocratColor
	case strings.Contains(field, "R"):
		return RepublicanColor
	default:
		return OtherColor
	}
}

// FieldLabel derives a display label out of a presidential field code,
// G20PreR becomes "20 R".
func FieldLabel(field string) string {
	return strings.ReplaceAll(strings.ReplaceAll(field, "G", ""), "Pre", " ")
}

// ColorOf returns the hex color of field. Fields outside the spec
// get the other color.
func (s ChartSpec) ColorOf(field string) string {
	if s.Party {
		return PartyColor(field)
	}
	if c, ok := s.Colors[field]; ok {
		return c
	}
	i := s.index(field)
	if i < 0 {
		return OtherColor
	}
	palette := s.Palette
	if len(palette) == 0 {
		palette = defaultPalette
	}
	return palette[i%len(palette)]
}

// LabelOf returns the display label of field.
func (s ChartSpec) LabelOf(field string) string {
	if i := s.index(field); i >= 0 {
		return s.Labels[i]
	}
	return field
}

// clone keeps callers from mutating the registry table
func (s ChartSpec) clone() ChartSpec {
	s.Fields = append([]string(nil), s.Fields...)
	s.Labels = append([]string(nil), s.Labels...)
	s.Palette = append([]string(nil), s.Palette...)
	if s.Colors != nil {
		colors := make(map[string]string, len(s.Colors))
		for k, v := range s.Colors {
			colors[k] = v
		}
		s.Colors = colors
	}
	return s
}

func (s ChartSpec) index(field string) int {
	for i, f := range s.Fields {
		if f == field {
			return i
		}
	}
	return -1
}

// Validate checks the spec invariants. known, when not nil, tells if a
// field is a dataset column.
func (s ChartSpec) Validate(known func(string) bool) error {
	if len(s.Fields) == 0 {
		return fmt.Errorf("chart [%s] has no fields", s.name())
	}
	if len(s.Fields) != len(s.Labels) {
		return fmt.Errorf("chart [%s] has %d fields and %d labels", s.name(), len(s.Fields), len(s.Labels))
	}
	if s.Kind != Bar && s.Kind != Pie {
		return fmt.Errorf("chart [%s] has unknown kind [%s]", s.name(), s.Kind)
	}
	switch s.Mode {
	case CrossDistrict, SingleDistrict, Aggregate:
	default:
		return fmt.Errorf("chart [%s] has unknown mode [%s]", s.name(), s.Mode)
	}
	for _, f := range s.Fields {
		if known != nil && !known(f) {
			return fmt.Errorf("chart [%s] uses unknown column [%s]", s.name(), f)
		}
	}
	for f, c := range s.Colors {
		if s.index(f) < 0 {
			return fmt.Errorf("chart [%s] has a color for [%s] which is not one of its fields", s.name(), f)
		}
		if _, err := RGBA(c); err != nil {
			return fmt.Errorf("chart [%s] has invalid color for [%s], error %v", s.name(), f, err)
		}
	}
	for _, c := range s.Palette {
		if _, err := RGBA(c); err != nil {
			return fmt.Errorf("chart [%s] has invalid palette, error %v", s.name(), err)
		}
	}
	return nil
}

func (s ChartSpec) name() string {
	if s.Sub == "" {
		return s.Category
	}
	return s.Category + "/" + s.Sub
}

// RGBA parses a "#rrggbb" color.
func RGBA(hex string) (color.RGBA, error) {
	h := strings.TrimPrefix(hex, "#")
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("color [%s] is not in the #rrggbb form", hex)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color [%s] is not in the #rrggbb form", hex)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
