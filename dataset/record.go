package dataset

import (
	"reflect"
	"strings"
)

// KeyColumn is the header of the column identifying a district.
const KeyColumn = "District ID"

// Record represents one district row of the election/demographic sheet.
type Record struct {
	DistrictID string  `csv:"District ID"` // Key of the district, trimmed when loaded.
	G22GovD    float64 `csv:"G22GovD"`     // 2022 governor race, democrat votes.
	G22GovR    float64 `csv:"G22GovR"`     // 2022 governor race, republican votes.
	G22SenD    float64 `csv:"G22SenD"`     // 2022 senate race, democrat votes.
	G22SenR    float64 `csv:"G22SenR"`     // 2022 senate race, republican votes.
	G22SenO    float64 `csv:"G22SenO"`     // 2022 senate race, votes of other candidates.
	G22SosD    float64 `csv:"G22SosD"`     // 2022 secretary of state, democrat votes.
	G22SosR    float64 `csv:"G22SosR"`     // 2022 secretary of state, republican votes.
	G22AgD     float64 `csv:"G22AgD"`      // 2022 attorney general, democrat votes.
	G22AgR     float64 `csv:"G22AgR"`      // 2022 attorney general, republican votes.
	G20PreR    float64 `csv:"G20PreR"`     // 2020 presidential election, republican.
	G20PreD    float64 `csv:"G20PreD"`     // 2020 presidential election, democrat.
	G20PreO    float64 `csv:"G20PreO"`     // 2020 presidential election, others.
	G16PreR    float64 `csv:"G16PreR"`     // 2016 presidential election, republican.
	G16PreD    float64 `csv:"G16PreD"`     // 2016 presidential election, democrat.
	G16PreO    float64 `csv:"G16PreO"`     // 2016 presidential election, others.
	G12PreD    float64 `csv:"G12PreD"`     // 2012 presidential election, democrat.
	G12PreR    float64 `csv:"G12PreR"`     // 2012 presidential election, republican.
	G08PreD    float64 `csv:"G08PreD"`     // 2008 presidential election, democrat.
	G08PreR    float64 `csv:"G08PreR"`     // 2008 presidential election, republican.
	G08PreO    float64 `csv:"G08PreO"`     // 2008 presidential election, others.
	D20Minus   float64 `csv:"D20Minus"`    // Population younger than 20.
	D20to40    float64 `csv:"D20to40"`     // Population between 20 and 40.
	D40to65    float64 `csv:"D40to65"`     // Population between 40 and 65.
	D65Plus    float64 `csv:"D65Plus"`     // Population older than 65.
	D0_25k     float64 `csv:"D0_25k"`      // Income bracket below $25k.
	D25k_50k   float64 `csv:"D25k_50k"`    // Income bracket $25k to $50k.
	D50k_100k  float64 `csv:"D50k_100k"`   // Income bracket $50k to $100k.
	D100k_200k float64 `csv:"D100k_200k"`  // Income bracket $100k to $200k.
	D200kPlus  float64 `csv:"D200kPlus"`   // Income bracket above $200k.
}

// numeric column name -> index of the Record field
var columns = numericColumns()

func numericColumns() map[string]int {
	t := reflect.TypeOf(Record{})
	m := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Type.Kind() != reflect.Float64 {
			continue
		}
		m[strings.TrimSpace(f.Tag.Get("csv"))] = i
	}
	return m
}

// HasColumn tells if name is one of the numeric columns a Record carries.
func HasColumn(name string) bool {
	_, ok := columns[name]
	return ok
}

// Value returns the value of the numeric column named field. The
// boolean is false when the column is unknown.
func (r Record) Value(field string) (float64, bool) {
	i, ok := columns[field]
	if !ok {
		return 0, false
	}
	return reflect.ValueOf(r).Field(i).Float(), true
}
