package render

import (
	"fmt"
	"image/color"

	"github.com/candidatos-info/districtcharts/chartspec"
)

func parseColor(hex string) (color.RGBA, error) {
	c, err := chartspec.RGBA(hex)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("failed to parse chart color, error %v", err)
	}
	return c, nil
}
