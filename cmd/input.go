package cmd

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/KaramelBytes/amrtables-cli/internal/analysis"
	"github.com/KaramelBytes/amrtables-cli/internal/source"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Source flags shared by the tables and profile commands.
type inputFlags struct {
	sheetName  string
	sheetIndex int
	delimiter  string
	decimal    string
	strict     bool
	url        string
}

func (in *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&in.sheetName, "sheet-name", "", "XLSX sheet to read (overrides config)")
	cmd.Flags().IntVar(&in.sheetIndex, "sheet-index", 0, "1-based XLSX sheet index (overrides config)")
	cmd.Flags().StringVar(&in.delimiter, "delimiter", "", "CSV delimiter, e.g. ',' ';' or 'tab' (default from extension)")
	cmd.Flags().StringVar(&in.decimal, "decimal", "", "decimal separator in numeric cells: '.' or ','")
	cmd.Flags().BoolVar(&in.strict, "strict", false, "reject non-integer bedroom counts instead of counting them as 4+")
	cmd.Flags().StringVar(&in.url, "url", "", "download the source from this URL first (file argument becomes optional)")
}

func (in *inputFlags) options(cmd *cobra.Command) (source.Options, error) {
	opt := source.Options{
		SheetName:  cfg.SheetName,
		SheetIndex: cfg.SheetIndex,
		Strict:     cfg.Strict,
	}
	if cmd.Flags().Changed("sheet-name") {
		opt.SheetName = in.sheetName
	}
	if cmd.Flags().Changed("sheet-index") {
		opt.SheetIndex = in.sheetIndex
	}
	if cmd.Flags().Changed("strict") {
		opt.Strict = in.strict
	}
	d, err := parseRune(in.delimiter)
	if err != nil {
		return opt, fmt.Errorf("--delimiter: %w", err)
	}
	opt.Delimiter = d
	switch in.decimal {
	case "", ".":
	case ",":
		opt.DecimalSeparator, opt.ThousandsSeparator = ',', '.'
	default:
		return opt, fmt.Errorf("--decimal must be '.' or ','")
	}
	return opt, nil
}

// load resolves the input path, downloading it when a URL is given, and
// reads it into records. Data-quality findings are logged as warnings.
func (in *inputFlags) load(cmd *cobra.Command, args []string) (*source.Result, analysis.Diagnostics, error) {
	opt, err := in.options(cmd)
	if err != nil {
		return nil, analysis.Diagnostics{}, err
	}
	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	url := in.url
	if url == "" && path == "" {
		url = cfg.SourceURL
	}
	if url != "" {
		if path != "" {
			return nil, analysis.Diagnostics{}, fmt.Errorf("pass either a file or --url, not both")
		}
		if path, err = newFetcher().Fetch(cmd.Context(), url); err != nil {
			return nil, analysis.Diagnostics{}, err
		}
	}
	if path == "" {
		return nil, analysis.Diagnostics{}, fmt.Errorf("no input file (pass a path, --url or set source_url)")
	}

	res, err := source.Load(path, opt)
	if err != nil {
		return nil, analysis.Diagnostics{}, err
	}
	entry := log.WithFields(logrus.Fields{"path": path, "records": len(res.Records)})
	if res.Sheet != "" {
		entry = entry.WithField("sheet", res.Sheet)
	}
	entry.Debug("source loaded")

	d := analysis.Diagnose(res.Records)
	d.Name = res.Name
	d.EmptyUnits = res.EmptyUnits
	for _, w := range d.Warnings() {
		log.WithField("path", path).Warn(w)
	}
	return res, d, nil
}

func parseRune(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "":
		return 0, nil
	case "tab", `\t`:
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("expected a single character, got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}
