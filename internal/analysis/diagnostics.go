package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KaramelBytes/amrtables-cli/internal/housing"
)

// CategoryCount pairs a category value with the units it carries.
type CategoryCount struct {
	Value string
	Units int
	Rows  int
}

// Diagnostics summarises records that the tables silently leave out.
// The tables themselves never change because of it.
type Diagnostics struct {
	Name                string
	Records             int
	Units               int
	MissingBedrooms     int
	MissingBedroomUnits int
	MalformedBedrooms   int
	EmptyUnits          int
	MissingBorough      int
	MissingBoroughUnits int
	UnlistedTenures     []CategoryCount
}

// Diagnose inspects a snapshot of records. Counts for malformed bedrooms,
// missing boroughs and unlisted tenures only consider records that have a
// bedroom count, since only those reach the tables.
func Diagnose(records []housing.UnitRecord) Diagnostics {
	d := Diagnostics{Records: len(records)}
	tenures := map[string]*CategoryCount{}
	for _, r := range records {
		d.Units += r.ProposedUnits
		if r.Bedrooms == nil {
			d.MissingBedrooms++
			d.MissingBedroomUnits += r.ProposedUnits
			continue
		}
		if r.Malformed() {
			d.MalformedBedrooms++
		}
		if strings.TrimSpace(r.Borough) == "" {
			d.MissingBorough++
			d.MissingBoroughUnits += r.ProposedUnits
		}
		if !housing.IsListedTenure(r.Tenure) {
			c := tenures[r.Tenure]
			if c == nil {
				c = &CategoryCount{Value: r.Tenure}
				tenures[r.Tenure] = c
			}
			c.Units += r.ProposedUnits
			c.Rows++
		}
	}
	for _, c := range tenures {
		d.UnlistedTenures = append(d.UnlistedTenures, *c)
	}
	sort.Slice(d.UnlistedTenures, func(i, j int) bool {
		a, b := d.UnlistedTenures[i], d.UnlistedTenures[j]
		if a.Units == b.Units {
			return a.Value < b.Value
		}
		return a.Units > b.Units
	})
	return d
}

// Warnings lists one human-readable line per data-quality issue.
func (d Diagnostics) Warnings() []string {
	var out []string
	if d.MissingBedrooms > 0 {
		out = append(out, fmt.Sprintf("%d records (%d units) have no bedroom count and are excluded from both tables", d.MissingBedrooms, d.MissingBedroomUnits))
	}
	if d.MalformedBedrooms > 0 {
		out = append(out, fmt.Sprintf("%d records have a non-integer bedroom count and were counted as %q", d.MalformedBedrooms, housing.FourPlusBeds))
	}
	if d.EmptyUnits > 0 {
		out = append(out, fmt.Sprintf("%d records have no proposed_units value and were counted as 0", d.EmptyUnits))
	}
	if d.MissingBorough > 0 {
		out = append(out, fmt.Sprintf("%d records (%d units) have no borough and are not shown as a borough row", d.MissingBorough, d.MissingBoroughUnits))
	}
	for _, c := range d.UnlistedTenures {
		name := c.Value
		if name == "" {
			name = "(empty)"
		}
		out = append(out, fmt.Sprintf("tenure %q (%d records, %d units) is not a tenure table row but is included in its Total row", name, c.Rows, c.Units))
	}
	return out
}

// Markdown renders the diagnostics as a compact summary.
func (d Diagnostics) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if d.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", d.Name))
	}
	b.WriteString(fmt.Sprintf("Records: %d\n", d.Records))
	b.WriteString(fmt.Sprintf("Proposed units: %d\n", d.Units))
	b.WriteString(fmt.Sprintf("Units in tables: %d\n", d.Units-d.MissingBedroomUnits))
	w := d.Warnings()
	if len(w) == 0 {
		b.WriteString("\n[NOTES]\n- no data-quality issues found\n")
		return b.String()
	}
	b.WriteString("\n[NOTES]\n")
	for _, line := range w {
		b.WriteString("- ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
