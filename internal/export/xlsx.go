package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/KaramelBytes/amrtables-cli/internal/analysis"
	"github.com/KaramelBytes/amrtables-cli/internal/utils"
	"github.com/xuri/excelize/v2"
)

// Built-in excelize number formats.
const (
	numFmtThousands = 3 // #,##0
	numFmtPercent   = 9 // 0%
)

// WriteXLSX writes one sheet per table into a single workbook at path.
// Counts are stored as numbers and percents as fractions formatted "0%".
func WriteXLSX(path, undefined string, tables ...*analysis.AggregateTable) error {
	if len(tables) == 0 {
		return fmt.Errorf("no tables to write")
	}
	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	counts, err := f.NewStyle(&excelize.Style{NumFmt: numFmtThousands})
	if err != nil {
		return fmt.Errorf("create count style: %w", err)
	}
	percent, err := f.NewStyle(&excelize.Style{NumFmt: numFmtPercent})
	if err != nil {
		return fmt.Errorf("create percent style: %w", err)
	}
	totals, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, NumFmt: numFmtThousands})
	if err != nil {
		return fmt.Errorf("create totals style: %w", err)
	}

	for i, t := range tables {
		sheet := sheetName(t)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("create sheet %q: %w", sheet, err)
		}
		if err := writeSheet(f, sheet, t, undefined, styles{header, counts, percent, totals}); err != nil {
			return fmt.Errorf("sheet %q: %w", sheet, err)
		}
	}
	f.SetActiveSheet(0)
	if err := f.SetDocProps(&excelize.DocProperties{Title: tables[0].Title, Creator: "amrtables"}); err != nil {
		return fmt.Errorf("set doc props: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return fmt.Errorf("encode xlsx: %w", err)
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}

type styles struct {
	header, counts, percent, totals int
}

func writeSheet(f *excelize.File, sheet string, t *analysis.AggregateTable, undefined string, st styles) error {
	cols := t.Columns()
	headerRow := make([]interface{}, len(cols))
	for i, c := range cols {
		headerRow[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(cols), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, st.header); err != nil {
		return err
	}

	rows := t.AllRows()
	for i, r := range rows {
		rowNum := i + 2
		line := []interface{}{r.Label}
		for _, v := range r.Counts {
			line = append(line, v)
		}
		if t.HasTotal {
			line = append(line, r.Total)
		}
		if t.HasPercent {
			if r.Percent.Defined {
				line = append(line, float64(r.Percent.Value)/100)
			} else {
				line = append(line, undefined)
			}
		}
		start, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, start, &line); err != nil {
			return err
		}

		style := st.counts
		if i == len(rows)-1 {
			style = st.totals
		}
		from, _ := excelize.CoordinatesToCellName(2, rowNum)
		to, _ := excelize.CoordinatesToCellName(len(cols), rowNum)
		if err := f.SetCellStyle(sheet, from, to, style); err != nil {
			return err
		}
		if t.HasPercent {
			pc, _ := excelize.CoordinatesToCellName(len(cols), rowNum)
			if err := f.SetCellStyle(sheet, pc, pc, st.percent); err != nil {
				return err
			}
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 24); err != nil {
		return err
	}
	lastCol, err := excelize.ColumnNumberToName(len(cols))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", lastCol, 14); err != nil {
		return err
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func sheetName(t *analysis.AggregateTable) string {
	if t.Name == "" {
		return "Table"
	}
	return strings.ToUpper(t.Name[:1]) + t.Name[1:]
}
