package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/amrtables-cli/internal/analysis"
	"github.com/KaramelBytes/amrtables-cli/internal/export"
	"github.com/KaramelBytes/amrtables-cli/internal/housing"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	tablesInput     inputFlags
	tablesWhich     string
	tablesOutputDir string
	tablesLocale    string
	tablesUndefined string
)

var tablesCmd = &cobra.Command{
	Use:   "tables [file]",
	Short: "Print the bedroom-mix tables by tenure and by borough",
	Long: `Reads a per-unit CSV or XLSX file and prints Table 3.8 (tenure) and
Table 3.9 (borough) as Markdown. With --output-dir, each table is also
written as .md and .csv, both go into one .xlsx workbook, and a
manifest.json lists the files.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		build, err := selectTables(tablesWhich)
		if err != nil {
			return err
		}
		locale, undefined := cfg.Locale, cfg.UndefinedPercent
		if cmd.Flags().Changed("locale") {
			locale = tablesLocale
		}
		if cmd.Flags().Changed("undefined-percent") {
			undefined = tablesUndefined
		}
		fm, err := analysis.NewFormatter(locale, undefined)
		if err != nil {
			return err
		}

		res, _, err := tablesInput.load(cmd, args)
		if err != nil {
			return err
		}
		var tables []*analysis.AggregateTable
		for _, b := range build {
			tables = append(tables, b(res.Records))
		}

		out := cmd.OutOrStdout()
		for i, t := range tables {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprint(out, fm.Markdown(t))
		}

		dir := cfg.OutputDir
		if cmd.Flags().Changed("output-dir") {
			dir = tablesOutputDir
		}
		if dir == "" {
			return nil
		}
		m := export.NewManifest(res.Name, res.Sheet, len(res.Records))
		if err := export.WriteDir(dir, fm, m, tables...); err != nil {
			return err
		}
		log.WithFields(logrus.Fields{
			"run_id":  m.RunID,
			"path":    filepath.Join(dir, export.ManifestFile),
			"outputs": len(m.Outputs),
		}).Info("tables written")
		return nil
	},
}

type tableBuilder func([]housing.UnitRecord) *analysis.AggregateTable

func selectTables(which string) ([]tableBuilder, error) {
	switch strings.ToLower(strings.TrimSpace(which)) {
	case "", "all":
		return []tableBuilder{analysis.TenureTable, analysis.BoroughTable}, nil
	case "tenure":
		return []tableBuilder{analysis.TenureTable}, nil
	case "borough":
		return []tableBuilder{analysis.BoroughTable}, nil
	}
	return nil, fmt.Errorf("invalid --table %q (use tenure, borough or all)", which)
}

func init() {
	tablesInput.register(tablesCmd)
	tablesCmd.Flags().StringVar(&tablesWhich, "table", "all", "which table to build: tenure, borough or all")
	tablesCmd.Flags().StringVarP(&tablesOutputDir, "output-dir", "o", "", "also write .md, .csv, .xlsx and manifest.json here")
	tablesCmd.Flags().StringVar(&tablesLocale, "locale", "", "locale for thousands grouping, e.g. en or de (overrides config)")
	tablesCmd.Flags().StringVar(&tablesUndefined, "undefined-percent", "", "text shown when a row total is zero (overrides config)")
	rootCmd.AddCommand(tablesCmd)
}
