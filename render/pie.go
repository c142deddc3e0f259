package render

import (
	"fmt"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	defaultPieWidth  = 640
	defaultPieHeight = 480
)

// PieRenderer draws single-district and aggregate rows as a pie, one
// slice per label.
type PieRenderer struct {
	Format Format
	Width  int
	Height int
}

// ContentType returns the MIME type of the images written.
func (pr *PieRenderer) ContentType() string {
	return pr.format().ContentType()
}

func (pr *PieRenderer) format() Format {
	if pr.Format == "" {
		return PNG
	}
	return pr.Format
}

// Render writes the pie of c.Slices. Slices are labeled with their
// share of the total.
func (pr *PieRenderer) Render(w io.Writer, c Chart) error {
	var total float64
	for _, s := range c.Slices {
		if s.Value > 0 {
			total += s.Value
		}
	}
	if total <= 0 {
		return fmt.Errorf("pie chart [%s]: %w", c.title(), ErrEmptyChart)
	}
	values := make([]chart.Value, 0, len(c.Slices))
	for _, s := range c.Slices {
		if s.Value <= 0 {
			continue
		}
		col, err := parseColor(c.Spec.ColorOf(s.Field))
		if err != nil {
			return err
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s (%.1f%%)", s.Label, s.Value/total*100),
			Value: s.Value,
			Style: chart.Style{
				FillColor:   drawing.Color{R: col.R, G: col.G, B: col.B, A: col.A},
				StrokeColor: chart.ColorWhite,
				StrokeWidth: 2,
			},
		})
	}
	width, height := pr.Width, pr.Height
	if width == 0 {
		width = defaultPieWidth
	}
	if height == 0 {
		height = defaultPieHeight
	}
	pie := chart.PieChart{
		Title:  c.title(),
		Width:  width,
		Height: height,
		Values: values,
	}
	provider := chart.PNG
	if pr.format() == SVG {
		provider = chart.SVG
	}
	if err := pie.Render(provider, w); err != nil {
		return fmt.Errorf("failed to render pie chart [%s], error %v", c.title(), err)
	}
	return nil
}
