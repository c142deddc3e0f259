// Package render draws the reshaped chart rows as images.
package render

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/candidatos-info/districtcharts/chartspec"
	"github.com/candidatos-info/districtcharts/reshape"
)

// Format is the image format a renderer writes.
type Format string

const (
	// PNG images.
	PNG Format = "png"

	// SVG images.
	SVG Format = "svg"
)

// ErrEmptyChart is returned when there is nothing to draw.
var ErrEmptyChart = errors.New("empty chart")

// ParseFormat parses "png" or "svg", case insensitive.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case PNG:
		return PNG, nil
	case SVG:
		return SVG, nil
	default:
		return "", fmt.Errorf("image format [%s] not supported", s)
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == SVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// Chart is what a renderer draws: the spec and the rows reshaped for it.
// Bar charts read Triples, pie charts read Slices.
type Chart struct {
	Spec    chartspec.ChartSpec
	Title   string
	Triples []reshape.Triple
	Slices  []reshape.Slice
}

func (c Chart) title() string {
	if c.Title != "" {
		return c.Title
	}
	return c.Spec.Title
}

// Renderer writes a chart image.
type Renderer interface {
	Render(w io.Writer, c Chart) error
	ContentType() string
}

// ForKind returns the renderer drawing charts of kind.
func ForKind(kind chartspec.Kind, format Format) (Renderer, error) {
	switch kind {
	case chartspec.Bar:
		return &BarRenderer{Format: format}, nil
	case chartspec.Pie:
		return &PieRenderer{Format: format}, nil
	default:
		return nil, fmt.Errorf("chart kind [%s] has no renderer", kind)
	}
}
