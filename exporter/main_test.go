package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/candidatos-info/districtcharts/chartspec"
	"github.com/candidatos-info/districtcharts/dataset"
	"github.com/candidatos-info/districtcharts/filestorage"
	"github.com/candidatos-info/districtcharts/panel"
	"github.com/candidatos-info/districtcharts/render"
	"github.com/candidatos-info/districtcharts/reshape"
	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"
)

const sheet = `District ID,G22GovD,G22GovR,G22SenD,G22SenR,G22SenO,G22SosD,G22SosR,G22AgD,G22AgR,G20PreR,G20PreD,G20PreO,G16PreR,G16PreD,G16PreO,G12PreD,G12PreR,G08PreD,G08PreR,G08PreO,D20Minus,D20to40,D40to65,D65Plus,D0_25k,D25k_50k,D50k_100k,D100k_200k,D200kPlus
1,100,80,90,85,5,70,75,60,65,70,60,4,50,55,3,50,55,40,45,2,10,20,30,40,1,2,3,4,5
2,50,60,45,65,2,40,50,30,35,40,50,3,30,35,2,30,35,20,25,1,11,21,31,41,6,7,8,9,10
`

func setup(t *testing.T) (*dataset.Dataset, *chartspec.Registry) {
	t.Helper()
	ds, err := dataset.Parse("test.csv", []byte(sheet), dataset.DefaultOptions())
	if err != nil {
		t.Fatalf("expected err nil when parsing test sheet, got %v", err)
	}
	reg, err := chartspec.Default()
	if err != nil {
		t.Fatalf("expected err nil when decoding charts, got %v", err)
	}
	return ds, reg
}

func TestProcess(t *testing.T) {
	ds, reg := setup(t)
	dir := t.TempDir()
	dest, err := filestorage.Open(dir, "", "")
	if err != nil {
		t.Fatalf("expected err nil when opening local destination, got %v", err)
	}
	n, err := process(ds, reg, dest, render.SVG, true, true)
	if err != nil {
		t.Fatalf("expected err nil when processing, got %v", err)
	}
	// 4 fundings years, 5 bar charts, 4 panels for each of the 2 districts and the workbook
	if n != 18 {
		t.Errorf("want 18 files stored, got %d", n)
	}
	for _, name := range []string{
		"governor-race.svg",
		"presidential-election-fundings-2012.svg",
		"district-specific-analysis/district-2/senate-election.svg",
		workbookName,
	} {
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(name))); err != nil {
			t.Errorf("expected file [%s] on output dir, got %v", name, err)
		}
	}
	wb, err := excelize.OpenFile(filepath.Join(dir, workbookName))
	if err != nil {
		t.Fatalf("expected err nil when opening workbook, got %v", err)
	}
	defer wb.Close()
	sheets := wb.GetSheetList()
	if len(sheets) != 17 {
		t.Fatalf("want 17 sheets, got %d: %v", len(sheets), sheets)
	}
	if sheets[0] != "Presidential Election Fund 2020" {
		t.Errorf("unexpected first sheet %s", sheets[0])
	}
	rows, err := wb.GetRows("2022 Governor Race")
	if err != nil {
		t.Fatalf("expected err nil when reading governor sheet, got %v", err)
	}
	want := [][]string{
		{"District ID", "Democrat", "Republican"},
		{"1", "100", "80"},
		{"2", "50", "60"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("unexpected governor rows (-want +got):\n%s", diff)
	}
}

func TestSelections(t *testing.T) {
	ds, reg := setup(t)
	if got := len(selections(ds, reg, false)); got != 9 {
		t.Errorf("want 9 selections without districts, got %d", got)
	}
	all := selections(ds, reg, true)
	if len(all) != 11 {
		t.Fatalf("want 11 selections with districts, got %d", len(all))
	}
	last := all[len(all)-1]
	if diff := cmp.Diff(panel.Selection{Category: chartspec.DistrictAnalysis, District: "2"}, last); diff != "" {
		t.Errorf("unexpected last selection (-want +got):\n%s", diff)
	}
}

func TestFileName(t *testing.T) {
	testCases := []struct {
		sel  panel.Selection
		spec chartspec.ChartSpec
		dir  string
		want string
	}{
		{panel.Selection{Category: chartspec.SecretaryAndAG}, chartspec.ChartSpec{}, "", "secretary-of-state-attorney-general.png"},
		{panel.Selection{Category: chartspec.Fundings, Sub: "2008"}, chartspec.ChartSpec{Sub: "2008"}, "", "presidential-election-fundings-2008.png"},
		{panel.Selection{Category: chartspec.DistrictAnalysis, District: "7"}, chartspec.ChartSpec{Sub: "Income Distribution"}, "district-7", "district-specific-analysis/district-7/income-distribution.png"},
	}
	for _, tt := range testCases {
		if got := fileName(tt.sel, render.Chart{Spec: tt.spec}, render.PNG, tt.dir); got != tt.want {
			t.Errorf("want %s, got %s", tt.want, got)
		}
	}
}

func TestSheetName(t *testing.T) {
	used := map[string]bool{}
	long := exported{
		sel:   panel.Selection{Category: chartspec.SecretaryAndAG},
		chart: render.Chart{Title: "Secretary of State & Attorney General Results"},
	}
	first := uniqueSheetName(sheetName(long), used)
	second := uniqueSheetName(sheetName(long), used)
	if len([]rune(first)) > maxSheetName || len([]rune(second)) > maxSheetName {
		t.Errorf("sheet names over %d characters: %s, %s", maxSheetName, first, second)
	}
	if first == second || !strings.HasSuffix(second, " (2)") {
		t.Errorf("expected a deduplicated second name, got %s and %s", first, second)
	}
	odd := exported{chart: render.Chart{Title: "a/b:c?"}}
	if got := sheetName(odd); got != "a-b-c-" {
		t.Errorf("want a-b-c-, got %s", got)
	}
}

func TestRowsPie(t *testing.T) {
	e := exported{chart: render.Chart{
		Spec:   chartspec.ChartSpec{Kind: chartspec.Pie},
		Slices: []reshape.Slice{{Field: "G20PreR", Label: "20 R", Value: 110}},
	}}
	want := [][]interface{}{{"Field", "Label", "Value"}, {"G20PreR", "20 R", 110.0}}
	if diff := cmp.Diff(want, rows(e)); diff != "" {
		t.Errorf("unexpected rows (-want +got):\n%s", diff)
	}
}

func TestSlug(t *testing.T) {
	testCases := map[string]string{
		"Governor Race":                         "governor-race",
		"Secretary of State & Attorney General": "secretary-of-state-attorney-general",
		"  Age -- Distribution ":                "age-distribution",
		"2020":                                  "2020",
	}
	for in, want := range testCases {
		if got := slug(in); got != want {
			t.Errorf("slug [%s]: want %s, got %s", in, want, got)
		}
	}
}

func TestProcessSheetMissingColumn(t *testing.T) {
	ds, err := dataset.Parse("partial.csv", []byte("District ID,G22GovD\n1,100\n2,50\n"), dataset.DefaultOptions())
	if err != nil {
		t.Fatalf("expected err nil when parsing sheet, got %v", err)
	}
	reg, err := chartspec.Default()
	if err != nil {
		t.Fatalf("expected err nil when decoding charts, got %v", err)
	}
	dir := t.TempDir()
	dest, err := filestorage.Open(dir, "", "")
	if err != nil {
		t.Fatalf("expected err nil when opening local destination, got %v", err)
	}
	if _, err := process(ds, reg, dest, render.PNG, false, false); !errors.Is(err, dataset.ErrDataUnavailable) {
		t.Errorf("want ErrDataUnavailable, got %v", err)
	}
	if entries, _ := os.ReadDir(dir); len(entries) != 0 {
		t.Errorf("expected nothing stored, got %d files", len(entries))
	}
}

func TestDistrictDirs(t *testing.T) {
	got := districtDirs([]string{"LD 1", "LD-1", "ld.1", "2"})
	want := map[string]string{
		"LD 1": "district-ld-1",
		"LD-1": "district-ld-1-2",
		"ld.1": "district-ld-1-3",
		"2":    "district-2",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected district directories (-want +got):\n%s", diff)
	}
}

func TestProcessCollidingDistricts(t *testing.T) {
	lines := strings.SplitN(sheet, "\n", 3)
	content := lines[0] + "\n" + strings.Replace(lines[1], "1,", "LD 1,", 1) + "\n" + strings.Replace(lines[2], "2,", "LD-1,", 1)
	ds, err := dataset.Parse("colliding.csv", []byte(content), dataset.DefaultOptions())
	if err != nil {
		t.Fatalf("expected err nil when parsing sheet, got %v", err)
	}
	reg, err := chartspec.Default()
	if err != nil {
		t.Fatalf("expected err nil when decoding charts, got %v", err)
	}
	dir := t.TempDir()
	dest, err := filestorage.Open(dir, "", "")
	if err != nil {
		t.Fatalf("expected err nil when opening local destination, got %v", err)
	}
	if _, err := process(ds, reg, dest, render.SVG, true, false); err != nil {
		t.Fatalf("expected err nil when processing, got %v", err)
	}
	for _, d := range []string{"district-ld-1", "district-ld-1-2"} {
		name := filepath.Join(dir, "district-specific-analysis", d, "governor-election.svg")
		if _, err := os.Stat(name); err != nil {
			t.Errorf("expected panels of both districts, missing [%s]: %v", name, err)
		}
	}
}
