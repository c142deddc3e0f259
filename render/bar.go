package render

import (
	"fmt"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	defaultBarWidth  = 10 * vg.Inch
	defaultBarHeight = 5 * vg.Inch
	maxBarWidth      = 18 * vg.Millimeter
)

// BarRenderer draws cross-district rows as stacked bars: districts on
// the X axis, one colored segment per label.
type BarRenderer struct {
	Format Format
	Width  vg.Length
	Height vg.Length
}

// ContentType returns the MIME type of the images written.
func (b *BarRenderer) ContentType() string {
	return b.format().ContentType()
}

func (b *BarRenderer) format() Format {
	if b.Format == "" {
		return PNG
	}
	return b.Format
}

type barSeries struct {
	field  string
	label  string
	values plotter.Values
}

// Render writes the stacked bar chart of c.Triples.
func (b *BarRenderer) Render(w io.Writer, c Chart) error {
	if len(c.Triples) == 0 {
		return fmt.Errorf("bar chart [%s]: %w", c.title(), ErrEmptyChart)
	}
	districts, series := group(c)
	width, height := b.Width, b.Height
	if width == 0 {
		width = defaultBarWidth
	}
	if height == 0 {
		height = defaultBarHeight
	}
	p := plot.New()
	p.Title.Text = c.title()
	p.X.Label.Text = "District"
	p.Y.Label.Text = c.Spec.YLabel
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.Legend.Top = true
	p.Add(plotter.NewGrid())
	barWidth := (width * 0.7) / vg.Length(len(districts))
	if barWidth > maxBarWidth {
		barWidth = maxBarWidth
	}
	var below *plotter.BarChart
	for _, s := range series {
		bars, err := plotter.NewBarChart(s.values, barWidth)
		if err != nil {
			return fmt.Errorf("failed to build bars of [%s] on chart [%s], error %v", s.label, c.title(), err)
		}
		col, err := parseColor(c.Spec.ColorOf(s.field))
		if err != nil {
			return err
		}
		bars.Color = col
		bars.LineStyle.Width = 0
		if below != nil {
			bars.StackOn(below)
		}
		below = bars
		p.Add(bars)
		p.Legend.Add(s.label, bars)
	}
	p.NominalX(districts...)
	wt, err := p.WriterTo(width, height, string(b.format()))
	if err != nil {
		return fmt.Errorf("failed to create writer for chart [%s], error %v", c.title(), err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write chart [%s], error %v", c.title(), err)
	}
	return nil
}

// it splits the triples in one series per field, every series holding
// one value per district in sheet order
func group(c Chart) ([]string, []*barSeries) {
	var districts []string
	districtIndex := make(map[string]int)
	var series []*barSeries
	seriesIndex := make(map[string]*barSeries)
	for _, t := range c.Triples {
		if _, ok := districtIndex[t.DistrictID]; !ok {
			districtIndex[t.DistrictID] = len(districts)
			districts = append(districts, t.DistrictID)
		}
		if _, ok := seriesIndex[t.Field]; !ok {
			s := &barSeries{field: t.Field, label: t.Label}
			seriesIndex[t.Field] = s
			series = append(series, s)
		}
	}
	for _, s := range series {
		s.values = make(plotter.Values, len(districts))
	}
	// duplicated district ids stack on the first occurrence
	for _, t := range c.Triples {
		seriesIndex[t.Field].values[districtIndex[t.DistrictID]] += t.Value
	}
	return districts, series
}
