package chartspec

import (
	_ "embed" // charts.yaml
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Sidebar categories.
const (
	Fundings         = "Presidential Election Fundings"
	Governor         = "Governor Race"
	Senate           = "Senate Race"
	SecretaryAndAG   = "Secretary of State & Attorney General"
	Age              = "Age Distribution"
	Income           = "Income Distribution"
	DistrictAnalysis = "District-Specific Analysis"
)

var (
	// ErrUnknownCategory is returned for a category not on the sidebar.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrUnknownYear is returned for a fundings year not on the sidebar.
	ErrUnknownYear = errors.New("unknown year")

	// ErrUnknownPanel is returned for a district panel not on the sidebar.
	ErrUnknownPanel = errors.New("unknown panel")
)

//go:embed charts.yaml
var defaultCharts []byte

type chartsFile struct {
	Categories []categoryEntry `yaml:"categories"`
}

type categoryEntry struct {
	Name     string            `yaml:"name"`
	Kind     Kind              `yaml:"kind"`
	Mode     Mode              `yaml:"mode"`
	Title    string            `yaml:"title"`
	YLabel   string            `yaml:"yLabel"`
	SubLabel string            `yaml:"subLabel"`
	Party    bool              `yaml:"party"`
	Palette  []string          `yaml:"palette"`
	Colors   map[string]string `yaml:"colors"`
	Fields   []string          `yaml:"fields"`
	Labels   []string          `yaml:"labels"`
	Subs     []subEntry        `yaml:"subs"`
}

type subEntry struct {
	Name   string            `yaml:"name"`
	Title  string            `yaml:"title"`
	Fields []string          `yaml:"fields"`
	Labels []string          `yaml:"labels"`
	Colors map[string]string `yaml:"colors"`
}

type category struct {
	name     string
	subLabel string
	subs     []string
	specs    map[string]ChartSpec // by sub, "" for single shaped categories
}

// Registry is the static table of chart specs, keyed by category and
// sub-selection.
type Registry struct {
	categories []*category
	byName     map[string]*category
}

// Default returns the registry of the charts shipped with the dashboard.
func Default() (*Registry, error) {
	return Parse(defaultCharts)
}

// Parse decodes a registry out of its YAML description.
func Parse(b []byte) (*Registry, error) {
	var f chartsFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("failed to decode charts description, error %v", err)
	}
	r := &Registry{byName: make(map[string]*category)}
	for _, entry := range f.Categories {
		if entry.Name == "" {
			return nil, errors.New("chart category without name")
		}
		if _, ok := r.byName[entry.Name]; ok {
			return nil, fmt.Errorf("chart category [%s] declared twice", entry.Name)
		}
		c, err := newCategory(entry)
		if err != nil {
			return nil, err
		}
		r.categories = append(r.categories, c)
		r.byName[c.name] = c
	}
	if err := r.Validate(nil); err != nil {
		return nil, err
	}
	return r, nil
}

func newCategory(entry categoryEntry) (*category, error) {
	c := &category{
		name:     entry.Name,
		subLabel: entry.SubLabel,
		specs:    make(map[string]ChartSpec),
	}
	base := ChartSpec{
		Category: entry.Name,
		YLabel:   entry.YLabel,
		Kind:     entry.Kind,
		Mode:     entry.Mode,
		Fields:   entry.Fields,
		Labels:   entry.Labels,
		Colors:   entry.Colors,
		Palette:  entry.Palette,
		Party:    entry.Party,
	}
	if len(entry.Subs) == 0 {
		base.Title = title(entry.Title, "", entry.Name)
		c.specs[""] = withLabels(base)
		return c, nil
	}
	if entry.SubLabel == "" {
		return nil, fmt.Errorf("chart category [%s] has sub-selections but no subLabel", entry.Name)
	}
	for _, sub := range entry.Subs {
		if _, ok := c.specs[sub.Name]; ok {
			return nil, fmt.Errorf("chart category [%s] declares [%s] twice", entry.Name, sub.Name)
		}
		spec := base
		spec.Sub = sub.Name
		spec.Title = title(entry.Title, sub.Title, sub.Name)
		if len(sub.Fields) > 0 {
			spec.Fields = sub.Fields
			spec.Labels = sub.Labels
		}
		if sub.Colors != nil {
			spec.Colors = sub.Colors
		}
		c.subs = append(c.subs, sub.Name)
		c.specs[sub.Name] = withLabels(spec)
	}
	return c, nil
}

// party specs without labels use the ones derived from the field codes
func withLabels(s ChartSpec) ChartSpec {
	if len(s.Labels) > 0 || !s.Party {
		return s
	}
	s.Labels = make([]string, len(s.Fields))
	for i, f := range s.Fields {
		s.Labels[i] = FieldLabel(f)
	}
	return s
}

func title(categoryTitle, subTitle, sub string) string {
	switch {
	case subTitle != "":
		return subTitle
	case categoryTitle != "":
		return strings.ReplaceAll(categoryTitle, "{sub}", sub)
	default:
		return sub
	}
}

// Validate checks every spec of the registry. known, when not nil,
// tells if a field is a dataset column.
func (r *Registry) Validate(known func(string) bool) error {
	for _, c := range r.categories {
		for _, s := range c.specs {
			if err := s.Validate(known); err != nil {
				return err
			}
		}
	}
	return nil
}

// Categories returns the category names in sidebar order.
func (r *Registry) Categories() []string {
	names := make([]string, 0, len(r.categories))
	for _, c := range r.categories {
		names = append(names, c.name)
	}
	return names
}

// SubChoices returns the sub-selections of a category, in sidebar
// order. It is empty for single shaped categories.
func (r *Registry) SubChoices(category string) ([]string, error) {
	c, ok := r.byName[category]
	if !ok {
		return nil, fmt.Errorf("category [%s]: %w", category, ErrUnknownCategory)
	}
	return append([]string(nil), c.subs...), nil
}

// SubLabel returns what the sub-selection of a category is ("year",
// "panel"), or the empty string.
func (r *Registry) SubLabel(category string) string {
	if c, ok := r.byName[category]; ok {
		return c.subLabel
	}
	return ""
}

// Resolve returns the spec of a selection. sub is ignored for single
// shaped categories.
func (r *Registry) Resolve(category, sub string) (ChartSpec, error) {
	c, ok := r.byName[category]
	if !ok {
		return ChartSpec{}, fmt.Errorf("category [%s]: %w", category, ErrUnknownCategory)
	}
	if len(c.subs) == 0 {
		return c.specs[""].clone(), nil
	}
	s, ok := c.specs[sub]
	if !ok {
		return ChartSpec{}, fmt.Errorf("%s [%s] of category [%s]: %w", c.subLabel, sub, category, subError(c.subLabel))
	}
	return s.clone(), nil
}

func subError(subLabel string) error {
	if subLabel == "year" {
		return ErrUnknownYear
	}
	return ErrUnknownPanel
}
