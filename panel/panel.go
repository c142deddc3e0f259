// Package panel runs one selection-to-charts pass: it resolves the
// sidebar selection, reshapes the dataset and returns the charts to draw.
package panel

import (
	"fmt"

	"github.com/candidatos-info/districtcharts/chartspec"
	"github.com/candidatos-info/districtcharts/dataset"
	"github.com/candidatos-info/districtcharts/render"
	"github.com/candidatos-info/districtcharts/reshape"
)

// Selection is what the user picked on the sidebar. Sub is the year of
// the fundings view or a single panel of the district view; District is
// only read by the district view.
type Selection struct {
	Category string `json:"category"`
	Sub      string `json:"sub,omitempty"`
	District string `json:"district,omitempty"`
}

// Normalize fills the defaults a sidebar shows before the user picks
// anything: the first year of the fundings view and the first district
// of the district view.
func Normalize(ds *dataset.Dataset, reg *chartspec.Registry, sel Selection) (Selection, error) {
	if sel.Category == "" {
		categories := reg.Categories()
		if len(categories) == 0 {
			return sel, fmt.Errorf("no charts registered: %w", chartspec.ErrUnknownCategory)
		}
		sel.Category = categories[0]
	}
	subs, err := reg.SubChoices(sel.Category)
	if err != nil {
		return sel, err
	}
	if sel.Sub == "" && len(subs) > 0 && sel.Category != chartspec.DistrictAnalysis {
		sel.Sub = subs[0]
	}
	if sel.Category == chartspec.DistrictAnalysis && sel.District == "" {
		if districts := ds.Districts(); len(districts) > 0 {
			sel.District = districts[0]
		}
	}
	return sel, nil
}

// Compose returns the charts of a selection. The district view returns
// every panel unless sel.Sub names one.
func Compose(ds *dataset.Dataset, reg *chartspec.Registry, sel Selection) ([]render.Chart, error) {
	sel, err := Normalize(ds, reg, sel)
	if err != nil {
		return nil, err
	}
	subs := []string{sel.Sub}
	if sel.Category == chartspec.DistrictAnalysis && sel.Sub == "" {
		if subs, err = reg.SubChoices(sel.Category); err != nil {
			return nil, err
		}
	}
	charts := make([]render.Chart, 0, len(subs))
	for _, sub := range subs {
		spec, err := reg.Resolve(sel.Category, sub)
		if err != nil {
			return nil, err
		}
		c, err := build(ds, spec, sel.District)
		if err != nil {
			return nil, err
		}
		charts = append(charts, c)
	}
	return charts, nil
}

func build(ds *dataset.Dataset, spec chartspec.ChartSpec, district string) (render.Chart, error) {
	c := render.Chart{Spec: spec, Title: spec.Title}
	if err := ds.Require(spec.Fields); err != nil {
		return c, fmt.Errorf("chart [%s]: %w", spec.Title, err)
	}
	switch spec.Mode {
	case chartspec.CrossDistrict:
		c.Triples = reshape.CrossDistrict(ds, spec)
	case chartspec.SingleDistrict:
		slices, err := reshape.SingleDistrict(ds, spec, district)
		if err != nil {
			return c, err
		}
		c.Slices = slices
	case chartspec.Aggregate:
		c.Slices = reshape.Aggregate(ds, spec)
	default:
		return c, fmt.Errorf("chart [%s] has unknown mode [%s]", spec.Title, spec.Mode)
	}
	return c, nil
}
