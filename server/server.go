// Package server serves the dashboard: the sidebar page, the chart
// images and the JSON behind them.
package server

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/candidatos-info/districtcharts/chartspec"
	"github.com/candidatos-info/districtcharts/dataset"
	"github.com/candidatos-info/districtcharts/panel"
	"github.com/candidatos-info/districtcharts/render"
	"github.com/candidatos-info/districtcharts/reshape"
	"github.com/candidatos-info/districtcharts/status"
	"github.com/labstack/echo"
	"github.com/patrickmn/go-cache"
)

// Handler is a struct to hold important data for this package
type Handler struct {
	datasets *dataset.Cache      // sheet loaded on first use
	registry *chartspec.Registry // chart specs by category
	format   render.Format       // default image format
	images   *cache.Cache        // rendered images by selection

	mu     sync.RWMutex
	status status.Status // dataset status
	err    string        // last error message
}

// New returns a new dashboard handler. Rendered images are kept for ttl;
// a ttl of zero keeps them until the process exits.
func New(datasets *dataset.Cache, registry *chartspec.Registry, format render.Format, ttl time.Duration) *Handler {
	expiration := cache.NoExpiration
	cleanup := time.Duration(0)
	if ttl > 0 {
		expiration = ttl
		cleanup = 2 * ttl
	}
	return &Handler{
		datasets: datasets,
		registry: registry,
		format:   format,
		images:   cache.New(expiration, cleanup),
		status:   status.Idle,
	}
}

// Register mounts the handler routes on e.
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/", h.Index)
	e.GET("/status", h.Get)
	e.GET("/api/categories", h.Categories)
	e.GET("/api/districts", h.Districts)
	e.GET("/api/charts", h.Data)
	e.GET("/charts/:index", h.Chart)
}

// Warm loads the sheet and checks that every chart field is one of its
// columns.
func (h *Handler) Warm() error {
	h.mu.Lock()
	h.status = status.Loading
	h.mu.Unlock()
	ds, err := h.dataset()
	if err != nil {
		return err
	}
	if err := h.registry.Validate(ds.HasColumn); err != nil {
		err = fmt.Errorf("sheet [%s] does not fit the charts, error %v: %w", ds.Source(), err, dataset.ErrDataUnavailable)
		h.handleError(err)
		return err
	}
	log.Printf("dashboard ready, sheet [%s], districts [%d], categories [%d]", ds.Source(), len(ds.Districts()), len(h.registry.Categories()))
	return nil
}

// Get returns current state and last error
func (h *Handler) Get(c echo.Context) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return c.JSON(http.StatusOK, map[string]interface{}{
		"errorMessage": h.err,
		"status":       h.status,
		"text":         status.Text(h.status),
	})
}

type categoryResponse struct {
	Name       string   `json:"name"`
	SubLabel   string   `json:"sub_label,omitempty"`
	SubChoices []string `json:"sub_choices,omitempty"`
}

// Categories lists the sidebar categories with their sub-selections.
func (h *Handler) Categories(c echo.Context) error {
	names := h.registry.Categories()
	out := make([]categoryResponse, 0, len(names))
	for _, name := range names {
		subs, err := h.registry.SubChoices(name)
		if err != nil {
			return h.httpError(err)
		}
		label := h.registry.SubLabel(name)
		out = append(out, categoryResponse{Name: name, SubLabel: label, SubChoices: subs})
	}
	return c.JSON(http.StatusOK, out)
}

// Districts lists the distinct District IDs in sheet order.
func (h *Handler) Districts(c echo.Context) error {
	ds, err := h.dataset()
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"districts": ds.Districts(),
	})
}

type chartResponse struct {
	Index   int              `json:"index"`
	Title   string           `json:"title"`
	Kind    chartspec.Kind   `json:"kind"`
	Mode    chartspec.Mode   `json:"mode"`
	YLabel  string           `json:"y_label,omitempty"`
	Image   string           `json:"image"`
	Triples []reshape.Triple `json:"triples,omitempty"`
	Slices  []reshape.Slice  `json:"slices,omitempty"`
}

type dataResponse struct {
	Selection panel.Selection `json:"selection"`
	Charts    []chartResponse `json:"charts"`
}

// Data returns the reshaped rows of the charts of a selection.
func (h *Handler) Data(c echo.Context) error {
	sel, charts, err := h.compose(selectionOf(c))
	if err != nil {
		return h.httpError(err)
	}
	out := dataResponse{Selection: sel, Charts: make([]chartResponse, 0, len(charts))}
	for i, ch := range charts {
		out.Charts = append(out.Charts, chartResponse{
			Index:   i,
			Title:   ch.Title,
			Kind:    ch.Spec.Kind,
			Mode:    ch.Spec.Mode,
			YLabel:  ch.Spec.YLabel,
			Image:   imageURL(sel, i, ""),
			Triples: ch.Triples,
			Slices:  ch.Slices,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// Chart writes the image of the index-th chart of a selection.
func (h *Handler) Chart(c echo.Context) error {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid chart index [%s]", c.Param("index")))
	}
	format := h.format
	if f := c.QueryParam("format"); f != "" {
		if format, err = render.ParseFormat(f); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	ds, err := h.dataset()
	if err != nil {
		return h.httpError(err)
	}
	sel, err := panel.Normalize(ds, h.registry, selectionOf(c))
	if err != nil {
		return h.httpError(err)
	}
	key := cacheKey(sel, index, format)
	if b, ok := h.images.Get(key); ok {
		return c.Blob(http.StatusOK, format.ContentType(), b.([]byte))
	}
	charts, err := panel.Compose(ds, h.registry, sel)
	if err != nil {
		return h.httpError(err)
	}
	if index >= len(charts) {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("selection has [%d] charts, no chart [%d]", len(charts), index))
	}
	r, err := render.ForKind(charts[index].Spec.Kind, format)
	if err != nil {
		return h.httpError(err)
	}
	var buf bytes.Buffer
	if err := r.Render(&buf, charts[index]); err != nil {
		return h.httpError(err)
	}
	h.images.Set(key, buf.Bytes(), cache.DefaultExpiration)
	return c.Blob(http.StatusOK, r.ContentType(), buf.Bytes())
}

func (h *Handler) compose(sel panel.Selection) (panel.Selection, []render.Chart, error) {
	ds, err := h.dataset()
	if err != nil {
		return sel, nil, err
	}
	sel, err = panel.Normalize(ds, h.registry, sel)
	if err != nil {
		return sel, nil, err
	}
	charts, err := panel.Compose(ds, h.registry, sel)
	return sel, charts, err
}

// dataset returns the sheet and keeps the status in sync with the load.
func (h *Handler) dataset() (*dataset.Dataset, error) {
	ds, err := h.datasets.Get()
	if err != nil {
		h.handleError(err)
		return nil, err
	}
	h.mu.Lock()
	if h.status != status.Failed {
		h.status = status.Ready
	}
	h.mu.Unlock()
	return ds, nil
}

func (h *Handler) handleError(err error) {
	log.Println(err)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.status = status.Failed
	h.err = err.Error()
}

// httpError maps the dashboard errors on HTTP status codes.
func (h *Handler) httpError(err error) error {
	return echo.NewHTTPError(statusCode(err), err.Error())
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, chartspec.ErrUnknownCategory),
		errors.Is(err, chartspec.ErrUnknownYear),
		errors.Is(err, chartspec.ErrUnknownPanel):
		return http.StatusBadRequest
	case errors.Is(err, reshape.ErrDistrictNotFound):
		return http.StatusNotFound
	case errors.Is(err, dataset.ErrDataUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, render.ErrEmptyChart):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// selectionOf reads a selection from the query string. year and panel
// are accepted as aliases of sub.
func selectionOf(c echo.Context) panel.Selection {
	sel := panel.Selection{
		Category: c.QueryParam("category"),
		Sub:      c.QueryParam("sub"),
		District: c.QueryParam("district"),
	}
	for _, alias := range []string{"year", "panel"} {
		if v := c.QueryParam(alias); sel.Sub == "" && v != "" {
			sel.Sub = v
		}
	}
	return sel
}

func cacheKey(sel panel.Selection, index int, format render.Format) string {
	return fmt.Sprintf("%s|%s|%s|%d|%s", sel.Category, sel.Sub, sel.District, index, format)
}
