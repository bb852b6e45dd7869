package analysis

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultUndefinedPercent is shown when a row's Total is zero.
const DefaultUndefinedPercent = "n/a"

// Formatter turns an AggregateTable into display text.
type Formatter struct {
	printer          *message.Printer
	UndefinedPercent string
}

// NewFormatter builds a Formatter for a BCP 47 locale such as "en" or "en-GB".
// An empty locale means English.
func NewFormatter(locale string, undefinedPercent string) (*Formatter, error) {
	tag := language.English
	if s := strings.TrimSpace(locale); s != "" {
		t, err := language.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("parse locale %q: %w", locale, err)
		}
		tag = t
	}
	if undefinedPercent == "" {
		undefinedPercent = DefaultUndefinedPercent
	}
	return &Formatter{printer: message.NewPrinter(tag), UndefinedPercent: undefinedPercent}, nil
}

// DefaultFormatter uses English grouping and the default undefined marker.
func DefaultFormatter() *Formatter {
	return &Formatter{printer: message.NewPrinter(language.English), UndefinedPercent: DefaultUndefinedPercent}
}

// FormatCount renders n with thousands grouping, e.g. 18917 -> "18,917".
func (f *Formatter) FormatCount(n int) string {
	return f.printer.Sprintf("%d", n)
}

// Grid returns the display-ready cells: a header line, one line per data row,
// then the totals row.
func (f *Formatter) Grid(t *AggregateTable) [][]string {
	out := [][]string{t.Columns()}
	for _, r := range t.AllRows() {
		line := []string{r.Label}
		for _, v := range r.Counts {
			line = append(line, f.FormatCount(v))
		}
		if t.HasTotal {
			line = append(line, f.FormatCount(r.Total))
		}
		if t.HasPercent {
			line = append(line, r.Percent.Format(f.UndefinedPercent))
		}
		out = append(out, line)
	}
	return out
}

// Markdown renders the table as a left-aligned pipe table, preceded by its
// title in bold when one is set.
func (f *Formatter) Markdown(t *AggregateTable) string {
	grid := f.Grid(t)
	widths := make([]int, len(grid[0]))
	for _, line := range grid {
		for i, cell := range line {
			if n := utf8.RuneCountInString(safeVal(cell)); n > widths[i] {
				widths[i] = n
			}
		}
	}
	for i := range widths {
		if widths[i] < 4 {
			widths[i] = 4
		}
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("**")
		b.WriteString(t.Title)
		b.WriteString("**\n\n")
	}
	writeLine := func(cells []string) {
		b.WriteString("|")
		for i, c := range cells {
			c = safeVal(c)
			b.WriteString(" ")
			b.WriteString(c)
			b.WriteString(strings.Repeat(" ", widths[i]-utf8.RuneCountInString(c)))
			b.WriteString(" |")
		}
		b.WriteString("\n")
	}
	writeLine(grid[0])
	b.WriteString("|")
	for _, w := range widths {
		b.WriteString(" :")
		b.WriteString(strings.Repeat("-", w-1))
		b.WriteString(" |")
	}
	b.WriteString("\n")
	for _, line := range grid[1:] {
		writeLine(line)
	}
	return b.String()
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
