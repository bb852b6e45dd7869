package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/amrtables-cli/internal/housing"
)

const (
	// TotalLabel names both the trailing totals row and the Total column.
	TotalLabel = "Total"
	// PercentLabel is the header of the derived share-of-large-homes column.
	PercentLabel = "% 3 or more"

	TenureTitle  = "Table 3.8: Approved units by tenure and number of bedrooms"
	BoroughTitle = "Table 3.9: Approved units by borough and number of bedrooms"
)

// Percent is a whole-number percentage. Defined is false when the
// denominator was zero.
type Percent struct {
	Value   int
	Defined bool
}

// Format renders p as "<n>%", or undefined when p has no value.
func (p Percent) Format(undefined string) string {
	if !p.Defined {
		return undefined
	}
	return fmt.Sprintf("%d%%", p.Value)
}

// SharePercent returns part/total*100 rounded half-to-even.
func SharePercent(part, total int) Percent {
	if total == 0 {
		return Percent{}
	}
	v := math.RoundToEven(float64(part) * 100 / float64(total))
	return Percent{Value: int(v), Defined: true}
}

// Row is one labelled line of an aggregate table.
type Row struct {
	Label   string
	Counts  [4]int // indexed like housing.Buckets
	Total   int
	Percent Percent
}

// Count returns the cell for bucket b.
func (r Row) Count(b housing.BedroomBucket) int {
	if i := housing.BucketIndex(b); i >= 0 {
		return r.Counts[i]
	}
	return 0
}

// AggregateTable is one of the two fixed report shapes. It is built once from
// a snapshot of records and not modified afterwards.
type AggregateTable struct {
	Name       string // short id used for file names: "tenure" | "borough"
	Title      string
	RowHeader  string
	Rows       []Row
	TotalRow   Row
	HasTotal   bool
	HasPercent bool
}

// Columns returns the header labels in display order.
func (t *AggregateTable) Columns() []string {
	cols := []string{t.RowHeader}
	for _, b := range housing.Buckets {
		cols = append(cols, string(b))
	}
	if t.HasTotal {
		cols = append(cols, TotalLabel)
	}
	if t.HasPercent {
		cols = append(cols, PercentLabel)
	}
	return cols
}

// AllRows returns the data rows followed by the totals row.
func (t *AggregateTable) AllRows() []Row {
	out := make([]Row, 0, len(t.Rows)+1)
	out = append(out, t.Rows...)
	return append(out, t.TotalRow)
}

// Lookup finds a row by label, including the totals row.
func (t *AggregateTable) Lookup(label string) (Row, bool) {
	for _, r := range t.AllRows() {
		if r.Label == label {
			return r, true
		}
	}
	return Row{}, false
}

// TenureTable builds Table 3.8: rows follow housing.TenureOrder, and the
// totals row sums every record with a bedroom count, including tenures that
// are not shown as rows.
func TenureTable(records []housing.UnitRecord) *AggregateTable {
	p := newPivot()
	for _, r := range housing.WithBedrooms(records) {
		p.add(r.Tenure, housing.Bucketize(*r.Bedrooms), r.ProposedUnits)
	}
	t := &AggregateTable{
		Name:      "tenure",
		Title:     TenureTitle,
		RowHeader: "Tenure",
	}
	for _, tenure := range housing.TenureOrder {
		t.Rows = append(t.Rows, Row{Label: tenure, Counts: p.row(tenure)})
	}
	t.TotalRow = Row{Label: TotalLabel, Counts: p.totals}
	return t
}

// BoroughTable builds Table 3.9: one row per borough present (sorted by
// name) with Total and "% 3 or more" columns and a recomputed totals row.
// Records without a borough are not grouped.
func BoroughTable(records []housing.UnitRecord) *AggregateTable {
	p := newPivot()
	for _, r := range housing.WithBedrooms(records) {
		borough := strings.TrimSpace(r.Borough)
		if borough == "" {
			continue
		}
		p.add(borough, housing.Bucketize(*r.Bedrooms), r.ProposedUnits)
	}
	keys := p.keys()
	sort.Strings(keys)

	t := &AggregateTable{
		Name:       "borough",
		Title:      BoroughTitle,
		RowHeader:  "Borough",
		HasTotal:   true,
		HasPercent: true,
	}
	var sum [4]int
	for _, k := range keys {
		row := deriveRow(k, p.row(k))
		for i, v := range row.Counts {
			sum[i] += v
		}
		t.Rows = append(t.Rows, row)
	}
	t.TotalRow = deriveRow(TotalLabel, sum)
	return t
}

func deriveRow(label string, counts [4]int) Row {
	total := 0
	for _, v := range counts {
		total += v
	}
	return Row{
		Label:   label,
		Counts:  counts,
		Total:   total,
		Percent: SharePercent(counts[2]+counts[3], total),
	}
}
