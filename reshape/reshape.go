// Package reshape turns the wide district records into the long-form
// rows the chart renderers consume.
package reshape

import (
	"errors"
	"fmt"

	"github.com/candidatos-info/districtcharts/chartspec"
	"github.com/candidatos-info/districtcharts/dataset"
)

// ErrDistrictNotFound is returned when no record carries the chosen
// District ID.
var ErrDistrictNotFound = errors.New("district not found")

// Triple is one (district, field) pair of a cross-district chart.
type Triple struct {
	DistrictID string  `json:"district_id"`
	Field      string  `json:"field"`
	Label      string  `json:"category"`
	Value      float64 `json:"value"`
}

// Slice is one field of a pie chart.
type Slice struct {
	Field string  `json:"field"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// CrossDistrict pairs every record with every spec field, district-major
// and field-minor, keeping the sheet order.
func CrossDistrict(ds *dataset.Dataset, spec chartspec.ChartSpec) []Triple {
	triples := make([]Triple, 0, ds.Len()*len(spec.Fields))
	for i := 0; i < ds.Len(); i++ {
		r := ds.At(i)
		for j, f := range spec.Fields {
			v, _ := r.Value(f)
			triples = append(triples, Triple{
				DistrictID: r.DistrictID,
				Field:      f,
				Label:      spec.Labels[j],
				Value:      v,
			})
		}
	}
	return triples
}

// SingleDistrict returns the spec fields of the first record whose key
// is district, in field order.
func SingleDistrict(ds *dataset.Dataset, spec chartspec.ChartSpec, district string) ([]Slice, error) {
	r, ok := ds.Lookup(district)
	if !ok {
		return nil, fmt.Errorf("district [%s] on sheet [%s]: %w", district, ds.Source(), ErrDistrictNotFound)
	}
	slices := make([]Slice, 0, len(spec.Fields))
	for j, f := range spec.Fields {
		v, _ := r.Value(f)
		slices = append(slices, Slice{Field: f, Label: spec.Labels[j], Value: v})
	}
	return slices, nil
}

// Aggregate sums every spec field across all the records.
func Aggregate(ds *dataset.Dataset, spec chartspec.ChartSpec) []Slice {
	slices := make([]Slice, len(spec.Fields))
	for j, f := range spec.Fields {
		slices[j] = Slice{Field: f, Label: spec.Labels[j]}
	}
	for i := 0; i < ds.Len(); i++ {
		r := ds.At(i)
		for j, f := range spec.Fields {
			v, _ := r.Value(f)
			slices[j].Value += v
		}
	}
	return slices
}
