package export

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/amrtables-cli/internal/analysis"
	"github.com/KaramelBytes/amrtables-cli/internal/utils"
)

// WorkbookFile is the name of the combined XLSX output.
const WorkbookFile = "tables.xlsx"

// WriteDir writes <name>.md and <name>.csv for every table, one workbook
// holding all of them, and finally the manifest listing those files.
func WriteDir(dir string, f *analysis.Formatter, m *Manifest, tables ...*analysis.AggregateTable) error {
	if err := utils.EnsureDir(dir); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	for _, t := range tables {
		md := filepath.Join(dir, t.Name+".md")
		if err := utils.SafeWriteFile(md, []byte(f.Markdown(t))); err != nil {
			return fmt.Errorf("write %s: %w", md, err)
		}
		m.Add("markdown", t.Name, md)

		var buf bytes.Buffer
		if err := WriteCSV(&buf, t, f.UndefinedPercent); err != nil {
			return err
		}
		csvPath := filepath.Join(dir, t.Name+".csv")
		if err := utils.SafeWriteFile(csvPath, buf.Bytes()); err != nil {
			return fmt.Errorf("write %s: %w", csvPath, err)
		}
		m.Add("csv", t.Name, csvPath)
	}

	if len(tables) > 0 {
		xlsx := filepath.Join(dir, WorkbookFile)
		if err := WriteXLSX(xlsx, f.UndefinedPercent, tables...); err != nil {
			return fmt.Errorf("write %s: %w", xlsx, err)
		}
		m.Add("xlsx", "", xlsx)
	}
	return m.Write(filepath.Join(dir, ManifestFile))
}
