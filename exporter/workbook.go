package main

import (
	"fmt"
	"strings"

	"github.com/candidatos-info/districtcharts/chartspec"
	"github.com/xuri/excelize/v2"
)

const maxSheetName = 31

// workbook writes one sheet per chart holding the rows it was drawn from.
// Bar charts get one line per district and one column per field, pie
// charts one line per slice.
func workbook(charts []exported) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	used := make(map[string]bool)
	for _, e := range charts {
		name := uniqueSheetName(sheetName(e), used)
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("failed to create sheet [%s], error %v", name, err)
		}
		for i, row := range rows(e) {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				return nil, err
			}
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				return nil, fmt.Errorf("failed to write row [%d] of sheet [%s], error %v", i+1, name, err)
			}
		}
	}
	if len(used) > 0 {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return nil, fmt.Errorf("failed to delete default sheet, error %v", err)
		}
		f.SetActiveSheet(0)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook, error %v", err)
	}
	return buf.Bytes(), nil
}

func rows(e exported) [][]interface{} {
	c := e.chart
	if c.Spec.Kind == chartspec.Pie {
		out := [][]interface{}{{"Field", "Label", "Value"}}
		for _, s := range c.Slices {
			out = append(out, []interface{}{s.Field, s.Label, s.Value})
		}
		return out
	}
	header := []interface{}{"District ID"}
	column := make(map[string]int, len(c.Spec.Fields))
	for i, field := range c.Spec.Fields {
		header = append(header, c.Spec.LabelOf(field))
		column[field] = i + 1
	}
	out := [][]interface{}{header}
	line := make(map[string]int)
	for _, t := range c.Triples {
		i, ok := line[t.DistrictID]
		if !ok {
			row := make([]interface{}, len(header))
			row[0] = t.DistrictID
			for j := 1; j < len(row); j++ {
				row[j] = 0.0
			}
			out = append(out, row)
			i = len(out) - 1
			line[t.DistrictID] = i
		}
		if j, ok := column[t.Field]; ok {
			out[i][j] = out[i][j].(float64) + t.Value
		}
	}
	return out
}

func sheetName(e exported) string {
	name := e.chart.Title
	switch {
	case e.sel.Category == chartspec.DistrictAnalysis:
		name = fmt.Sprintf("D%s %s", e.sel.District, e.chart.Spec.Sub)
	case e.sel.Sub != "" && len([]rune(name)) > maxSheetName:
		// keep the sub visible, it is what tells the sheets apart
		base := []rune(e.sel.Category)
		if n := maxSheetName - len([]rune(e.sel.Sub)) - 1; len(base) > n {
			base = base[:n]
		}
		name = strings.TrimSpace(string(base)) + " " + e.sel.Sub
	}
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '-'
		}
		return r
	}, name)
	name = strings.Trim(name, "'")
	if r := []rune(name); len(r) > maxSheetName {
		name = string(r[:maxSheetName])
	}
	if name == "" {
		name = "Chart"
	}
	return name
}

func uniqueSheetName(name string, used map[string]bool) string {
	candidate := name
	for i := 2; used[strings.ToLower(candidate)]; i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		r := []rune(name)
		if len(r)+len(suffix) > maxSheetName {
			r = r[:maxSheetName-len(suffix)]
		}
		candidate = string(r) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}
