// Package export writes aggregate tables to files: Markdown, CSV, XLSX and a
// JSON manifest describing one run.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/KaramelBytes/amrtables-cli/internal/analysis"
)

// WriteCSV writes t with plain integers (no grouping). Percent cells keep the
// "%" suffix; undefined percents are written as undefined.
func WriteCSV(w io.Writer, t *analysis.AggregateTable, undefined string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns()); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range t.AllRows() {
		line := []string{r.Label}
		for _, v := range r.Counts {
			line = append(line, strconv.Itoa(v))
		}
		if t.HasTotal {
			line = append(line, strconv.Itoa(r.Total))
		}
		if t.HasPercent {
			line = append(line, r.Percent.Format(undefined))
		}
		if err := cw.Write(line); err != nil {
			return fmt.Errorf("write csv row %q: %w", r.Label, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
