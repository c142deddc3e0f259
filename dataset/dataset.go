package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"golang.org/x/text/encoding/charmap"
)

const (
	// UTF8 is the default input encoding.
	UTF8 = "utf-8"

	// Latin1 decodes the sheet as ISO 8859-1.
	Latin1 = "latin1"
)

// ErrDataUnavailable is returned when the sheet can't be read or doesn't
// carry the District ID column.
var ErrDataUnavailable = errors.New("data unavailable")

// Options controls how the sheet is decoded.
type Options struct {
	Comma    rune   // field separator
	Encoding string // UTF8 or Latin1
}

// DefaultOptions returns comma separated, UTF-8 options.
func DefaultOptions() Options {
	return Options{Comma: ',', Encoding: UTF8}
}

// Dataset is the immutable set of district records loaded from a sheet.
type Dataset struct {
	source  string
	header  map[string]struct{}
	records []Record
	dropped int
}

// Load reads the sheet at path. Rows without a District ID are dropped
// and the remaining keys are trimmed.
func Load(path string, opts Options) (*Dataset, error) {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet [%s], error %v: %w", path, err, ErrDataUnavailable)
	}
	return Parse(filepath.Base(path), b, opts)
}

// Parse builds a Dataset out of the sheet bytes. name is only used
// for logging and error messages.
func Parse(name string, b []byte, opts Options) (*Dataset, error) {
	b = bytes.TrimPrefix(b, []byte("\xef\xbb\xbf")) // spreadsheet exports often start with a BOM
	header, err := readHeader(b, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to read header of sheet [%s], error %v: %w", name, err, ErrDataUnavailable)
	}
	if !hasKeyColumn(header) {
		return nil, fmt.Errorf("sheet [%s] has no [%s] column: %w", name, KeyColumn, ErrDataUnavailable)
	}
	r, err := newReader(bytes.NewReader(b), opts)
	if err != nil {
		return nil, err
	}
	var rows []*Record
	if err := gocsv.UnmarshalCSV(r, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sheet [%s], error %v: %w", name, err, ErrDataUnavailable)
	}
	records, dropped := dropMissingKeys(rows)
	log.Printf("file [%s], lines [%d], dropped lines [%d], duplicated ids [%d]\n", name, len(rows), dropped, countDuplicates(records))
	present := make(map[string]struct{}, len(header))
	for _, h := range header {
		present[strings.TrimSpace(h)] = struct{}{}
	}
	return &Dataset{
		source:  name,
		header:  present,
		records: records,
		dropped: dropped,
	}, nil
}

func newReader(in io.Reader, opts Options) (*csv.Reader, error) {
	switch strings.ToLower(opts.Encoding) {
	case "", UTF8, "utf8":
	case Latin1, "iso-8859-1", "iso8859-1":
		in = charmap.ISO8859_1.NewDecoder().Reader(in)
	default:
		return nil, fmt.Errorf("encoding [%s] not supported", opts.Encoding)
	}
	r := csv.NewReader(in)
	r.LazyQuotes = true
	if opts.Comma != 0 {
		r.Comma = opts.Comma
	}
	return r, nil
}

func readHeader(b []byte, opts Options) ([]string, error) {
	r, err := newReader(bytes.NewReader(b), opts)
	if err != nil {
		return nil, err
	}
	header, err := r.Read()
	if err == io.EOF {
		return nil, errors.New("empty sheet")
	}
	return header, err
}

func hasKeyColumn(header []string) bool {
	for _, h := range header {
		if h == KeyColumn {
			return true
		}
	}
	return false
}

// it keeps only the rows having a non blank key, trimming it
func dropMissingKeys(rows []*Record) ([]Record, int) {
	records := make([]Record, 0, len(rows))
	dropped := 0
	for _, row := range rows {
		if row == nil {
			dropped++
			continue
		}
		id := strings.TrimSpace(row.DistrictID)
		if id == "" {
			dropped++
			continue
		}
		rec := *row
		rec.DistrictID = id
		records = append(records, rec)
	}
	return records, dropped
}

func countDuplicates(records []Record) int {
	seen := make(map[string]struct{}, len(records))
	duplicated := 0
	for _, r := range records {
		if _, ok := seen[r.DistrictID]; ok {
			duplicated++
			continue
		}
		seen[r.DistrictID] = struct{}{}
	}
	return duplicated
}

// Source returns the base name of the sheet the dataset was loaded from.
func (d *Dataset) Source() string {
	return d.source
}

// HasColumn tells if name is a numeric column present on the sheet
// header. Record fields the sheet lacks read as zero, so charts must
// check their fields here.
func (d *Dataset) HasColumn(name string) bool {
	if _, ok := d.header[name]; !ok {
		return false
	}
	return HasColumn(name)
}

// Require returns ErrDataUnavailable naming the first field the sheet
// lacks, or nil.
func (d *Dataset) Require(fields []string) error {
	for _, f := range fields {
		if !d.HasColumn(f) {
			return fmt.Errorf("sheet [%s] has no [%s] column: %w", d.source, f, ErrDataUnavailable)
		}
	}
	return nil
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.records)
}

// Dropped returns how many rows were discarded for missing a key.
func (d *Dataset) Dropped() int {
	return d.dropped
}

// At returns the i-th record, in sheet order.
func (d *Dataset) At(i int) Record {
	return d.records[i]
}

// Records returns a copy of the records, in sheet order.
func (d *Dataset) Records() []Record {
	out := make([]Record, len(d.records))
	copy(out, d.records)
	return out
}

// Districts returns the distinct District IDs in the order they
// first appear on the sheet.
func (d *Dataset) Districts() []string {
	seen := make(map[string]struct{}, len(d.records))
	var ids []string
	for _, r := range d.records {
		if _, ok := seen[r.DistrictID]; ok {
			continue
		}
		seen[r.DistrictID] = struct{}{}
		ids = append(ids, r.DistrictID)
	}
	return ids
}

// Lookup returns the first record whose key equals id. Later records
// sharing the same key are ignored.
func (d *Dataset) Lookup(id string) (Record, bool) {
	for _, r := range d.records {
		if r.DistrictID == id {
			return r, true
		}
	}
	return Record{}, false
}
