package server

import (
	"bytes"
	_ "embed" // index.html
	"fmt"
	"html/template"
	"log"
	"net/http"
	"net/url"

	"github.com/candidatos-info/districtcharts/chartspec"
	"github.com/candidatos-info/districtcharts/panel"
	"github.com/labstack/echo"
)

//go:embed templates/index.html
var indexHTML string

var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

type chartView struct {
	Title string
	Image string
}

type pageData struct {
	Title      string
	Categories []string
	Selection  panel.Selection
	SubLabel   string
	SubChoices []string
	Districts  []string
	Charts     []chartView
	Error      string
}

// Index renders the dashboard page: the sidebar and the charts of the
// current selection.
func (h *Handler) Index(c echo.Context) error {
	data := pageData{
		Title:      "Arizona District Election & Demographics",
		Categories: h.registry.Categories(),
		Selection:  selectionOf(c),
	}
	code := http.StatusOK
	sel, charts, err := h.compose(data.Selection)
	if err != nil {
		code = statusCode(err)
		data.Error = err.Error()
	} else {
		data.Selection = sel
		for i, ch := range charts {
			data.Charts = append(data.Charts, chartView{Title: ch.Title, Image: imageURL(sel, i, "")})
		}
	}
	if subs, err := h.registry.SubChoices(data.Selection.Category); err == nil {
		data.SubChoices = subs
		data.SubLabel = h.registry.SubLabel(data.Selection.Category)
	}
	if data.Selection.Category == chartspec.DistrictAnalysis {
		if ds, err := h.datasets.Get(); err == nil {
			data.Districts = ds.Districts()
		}
	}
	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, data); err != nil {
		log.Printf("failed to render dashboard page, error %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.HTML(code, buf.String())
}

// imageURL returns the path of the index-th chart image of sel.
func imageURL(sel panel.Selection, index int, format string) string {
	q := url.Values{}
	q.Set("category", sel.Category)
	if sel.Sub != "" {
		q.Set("sub", sel.Sub)
	}
	if sel.District != "" {
		q.Set("district", sel.District)
	}
	if format != "" {
		q.Set("format", format)
	}
	return fmt.Sprintf("/charts/%d?%s", index, q.Encode())
}
