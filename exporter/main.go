package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/briandowns/spinner"
	"github.com/candidatos-info/districtcharts/chartspec"
	"github.com/candidatos-info/districtcharts/config"
	"github.com/candidatos-info/districtcharts/dataset"
	"github.com/candidatos-info/districtcharts/filestorage"
	"github.com/candidatos-info/districtcharts/panel"
	"github.com/candidatos-info/districtcharts/render"
	"github.com/cheggaaa/pb/v3"
	"github.com/matryer/try"
)

const (
	maxAttempts  = 5 // number of times to retry an upload
	workbookName = "district-charts.xlsx"
)

// exported is one chart of the export with its file name.
type exported struct {
	sel      panel.Selection
	chart    render.Chart
	fileName string
}

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal(err)
	}
	dataPath := flag.String("data", cfg.DataPath, "district sheet to chart")
	outDir := flag.String("outDir", "", "where charts go: a local path, gs://BUCKET[/PREFIX], s3://BUCKET[/PREFIX] or drive://FOLDER_ID")
	format := flag.String("format", string(cfg.Format), "image format, png or svg")
	withWorkbook := flag.Bool("xlsx", false, "also export the chart rows as an xlsx workbook")
	withDistricts := flag.Bool("districts", false, "also export the district panels of every district")
	googleDriveCredentialsFile := flag.String("credentials", "", "Google Drive credentials file")
	googleDriveOAuthTokenFile := flag.String("OAuthToken", "", "Google Drive OAuth token file")
	flag.Parse()
	if *outDir == "" {
		log.Fatal("missing output location, pass -outDir")
	}
	f, err := render.ParseFormat(*format)
	if err != nil {
		log.Fatal(err)
	}
	dest, err := filestorage.Open(*outDir, *googleDriveCredentialsFile, *googleDriveOAuthTokenFile)
	if err != nil {
		log.Fatalf("failed to open output location [%s], error %v", *outDir, err)
	}
	registry, err := chartspec.Default()
	if err != nil {
		log.Fatal(err)
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = fmt.Sprintf(" loading sheet [%s]", *dataPath)
	s.Start()
	ds, err := dataset.Load(*dataPath, cfg.DatasetOptions())
	s.Stop()
	if err != nil {
		log.Fatal(err)
	}
	n, err := process(ds, registry, dest, f, *withDistricts, *withWorkbook)
	if err != nil {
		log.Fatalf("failed to export charts, error %v", err)
	}
	log.Printf("charts exported [%d], destination [%s]\n", n, *outDir)
}

// process renders every chart of the sidebar and stores it on dest. It
// returns how many files were stored.
func process(ds *dataset.Dataset, registry *chartspec.Registry, dest filestorage.Destination, format render.Format, withDistricts, withWorkbook bool) (int, error) {
	if err := registry.Validate(ds.HasColumn); err != nil {
		return 0, fmt.Errorf("sheet [%s] does not fit the charts, error %v: %w", ds.Source(), err, dataset.ErrDataUnavailable)
	}
	charts, err := collect(ds, registry, withDistricts, format)
	if err != nil {
		return 0, err
	}
	stored := 0
	bar := pb.StartNew(len(charts))
	for _, e := range charts {
		r, err := render.ForKind(e.chart.Spec.Kind, format)
		if err != nil {
			return 0, err
		}
		var buf bytes.Buffer
		if err := r.Render(&buf, e.chart); err != nil {
			if errors.Is(err, render.ErrEmptyChart) {
				log.Printf("chart [%s] has nothing to draw, skipping\n", e.fileName)
				bar.Increment()
				continue
			}
			return 0, fmt.Errorf("failed to render chart [%s], error %v", e.fileName, err)
		}
		if err := saveFile(buf.Bytes(), e.fileName, dest); err != nil {
			return 0, err
		}
		stored++
		bar.Increment()
	}
	bar.Finish()
	if withWorkbook {
		wb, err := workbook(charts)
		if err != nil {
			return 0, err
		}
		if err := saveFile(wb, workbookName, dest); err != nil {
			return 0, err
		}
		stored++
	}
	return stored, nil
}

// collect composes the charts of every sidebar selection. District panels
// are only added when withDistricts is set.
func collect(ds *dataset.Dataset, registry *chartspec.Registry, withDistricts bool, format render.Format) ([]exported, error) {
	var out []exported
	dirs := districtDirs(ds.Districts())
	for _, sel := range selections(ds, registry, withDistricts) {
		charts, err := panel.Compose(ds, registry, sel)
		if err != nil {
			return nil, fmt.Errorf("failed to compose charts of [%s], error %v", sel.Category, err)
		}
		for _, c := range charts {
			out = append(out, exported{
				sel:      sel,
				chart:    c,
				fileName: fileName(sel, c, format, dirs[sel.District]),
			})
		}
	}
	return out, nil
}

func selections(ds *dataset.Dataset, registry *chartspec.Registry, withDistricts bool) []panel.Selection {
	var out []panel.Selection
	for _, category := range registry.Categories() {
		if category == chartspec.DistrictAnalysis {
			if withDistricts {
				for _, d := range ds.Districts() {
					out = append(out, panel.Selection{Category: category, District: d})
				}
			}
			continue
		}
		subs, _ := registry.SubChoices(category)
		if len(subs) == 0 {
			out = append(out, panel.Selection{Category: category})
			continue
		}
		for _, sub := range subs {
			out = append(out, panel.Selection{Category: category, Sub: sub})
		}
	}
	return out
}

// fileName places district panels under districtDir, one directory per
// district.
func fileName(sel panel.Selection, c render.Chart, format render.Format, districtDir string) string {
	ext := "." + string(format)
	if sel.Category == chartspec.DistrictAnalysis {
		return fmt.Sprintf("%s/%s/%s%s", slug(sel.Category), districtDir, slug(c.Spec.Sub), ext)
	}
	if sel.Sub != "" {
		return fmt.Sprintf("%s-%s%s", slug(sel.Category), slug(sel.Sub), ext)
	}
	return slug(sel.Category) + ext
}

// districtDirs names the directory of every district. Districts whose
// slugs collide, like "LD 1" and "LD-1", get a numeric suffix in sheet
// order.
func districtDirs(districts []string) map[string]string {
	dirs := make(map[string]string, len(districts))
	used := make(map[string]bool, len(districts))
	for _, d := range districts {
		base := "district-" + slug(d)
		dir := base
		for i := 2; used[dir]; i++ {
			dir = fmt.Sprintf("%s-%d", base, i)
		}
		if dir != base {
			log.Printf("district [%s] shares directory [%s], using [%s]\n", d, base, dir)
		}
		used[dir] = true
		dirs[d] = dir
	}
	return dirs
}

func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func saveFile(b []byte, fileName string, dest filestorage.Destination) error {
	err := try.Do(func(attempt int) (bool, error) {
		_, err := dest.Upload(b, fileName)
		return attempt < maxAttempts, err
	})
	if err != nil {
		return fmt.Errorf("failed to save file [%s] on bucket [%s], error %v", fileName, dest.Bucket, err)
	}
	return nil
}
