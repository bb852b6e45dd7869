package source

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/amrtables-cli/internal/housing"
	"go.uber.org/multierr"
)

// Options controls how a source file is read.
type Options struct {
	// Delimiter for CSV. If 0, picked from the extension (',' or '\t').
	Delimiter rune
	// SheetName selects an XLSX worksheet; takes precedence over SheetIndex.
	SheetName string
	// SheetIndex is the 1-based XLSX worksheet position; <= 0 means the first.
	SheetIndex int
	// Numeric parsing. DecimalSeparator defaults to '.'; if ThousandsSeparator
	// is 0, ',' and spaces are stripped from numbers.
	DecimalSeparator   rune
	ThousandsSeparator rune
	// Strict rejects non-integer bedroom values instead of counting them as
	// "4 beds or more".
	Strict bool
}

// Reader extracts raw rows, header first, from one kind of tabular file.
type Reader interface {
	CanRead(filename string) bool
	ReadRows(path string, opt Options) (rows [][]string, sheet string, err error)
}

var registry []Reader

// Register adds a reader implementation to the registry.
func Register(r Reader) {
	registry = append(registry, r)
}

func init() {
	Register(csvReader{})
	Register(xlsxReader{})
}

// ErrUnsupported indicates a file format with no registered reader.
var ErrUnsupported = errors.New("unsupported source format")

// Result is the outcome of loading one source file.
type Result struct {
	Name       string
	Sheet      string
	Rows       int // data rows read, excluding the header and blank rows
	EmptyUnits int // rows whose proposed_units cell was empty
	Records    []housing.UnitRecord
}

// Load reads path with the first reader that accepts it, maps the required
// columns and converts every data row into a UnitRecord. Cell problems are
// collected and returned together.
func Load(path string, opt Options) (*Result, error) {
	var rd Reader
	for _, r := range registry {
		if r.CanRead(path) {
			rd = r
			break
		}
	}
	if rd == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
	}
	rows, sheet, err := rd.ReadRows(path, opt)
	if err != nil {
		return nil, err
	}
	res := &Result{Name: filepath.Base(path), Sheet: sheet}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: no header row", res.Name)
	}
	cols, err := mapColumns(rows[0])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", res.Name, err)
	}

	var errs error
	for i, raw := range rows[1:] {
		if blankRow(raw) {
			continue
		}
		res.Rows++
		rec, emptyUnits, err := buildRecord(raw, cols, i+2, opt)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if emptyUnits {
			res.EmptyUnits++
		}
		res.Records = append(res.Records, rec)
	}
	errs = multierr.Append(errs, housing.Validate(res.Records, opt.Strict))
	if errs != nil {
		return nil, fmt.Errorf("%s: invalid data: %w", res.Name, errs)
	}
	return res, nil
}

func buildRecord(raw []string, cols columnIndex, row int, opt Options) (housing.UnitRecord, bool, error) {
	rec := housing.UnitRecord{
		Tenure:  strings.TrimSpace(cell(raw, cols.tenure)),
		Borough: strings.TrimSpace(cell(raw, cols.borough)),
		Row:     row,
	}

	beds := strings.TrimSpace(cell(raw, cols.bedrooms))
	if !isNull(beds) {
		if n, ok := parseCount(beds, opt); ok {
			rec.Bedrooms = housing.IntPtr(n)
		} else {
			rec.Bedrooms = housing.IntPtr(housing.MalformedBedrooms)
			rec.BedroomsText = beds
		}
	}

	units := strings.TrimSpace(cell(raw, cols.units))
	if isNull(units) {
		return rec, true, nil
	}
	n, ok := parseCount(units, opt)
	if !ok {
		return rec, false, &housing.ValidationError{Row: row, Column: ColProposedUnits, Value: units, Reason: "not an integer"}
	}
	rec.ProposedUnits = n
	return rec, false, nil
}

func cell(raw []string, idx int) string {
	if idx < 0 || idx >= len(raw) {
		return ""
	}
	return raw[idx]
}

func blankRow(raw []string) bool {
	for _, v := range raw {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

var nullTokens = map[string]struct{}{
	"": {}, "na": {}, "n/a": {}, "#n/a": {}, "nan": {}, "null": {}, "none": {},
}

func isNull(s string) bool {
	_, ok := nullTokens[strings.ToLower(strings.TrimSpace(s))]
	return ok
}
