package source

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Normalised names of the required input columns.
const (
	ColBedrooms      = "number_of_bedrooms"
	ColTenure        = "unit_tenure"
	ColBorough       = "borough"
	ColProposedUnits = "proposed_units"
)

var columnAliases = map[string][]string{
	ColBedrooms:      {"bedrooms", "no_of_bedrooms", "num_bedrooms"},
	ColTenure:        {"tenure"},
	ColBorough:       {"borough_name", "local_authority"},
	ColProposedUnits: {"units", "proposed_number_of_units"},
}

// MissingColumnError reports a required column absent from the header.
type MissingColumnError struct {
	Column string
	Found  []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("required column %q not found (columns: %s)", e.Column, strings.Join(e.Found, ", "))
}

type columnIndex struct {
	bedrooms, tenure, borough, units int
}

// NormalizeHeader lower-cases a header and joins its words with underscores,
// so "Number of Bedrooms " becomes "number_of_bedrooms".
func NormalizeHeader(h string) string {
	h = strings.TrimPrefix(strings.TrimSpace(h), "\ufeff")
	var b strings.Builder
	sep := false
	for _, r := range strings.ToLower(h) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if sep && b.Len() > 0 {
				b.WriteByte('_')
			}
			sep = false
			b.WriteRune(r)
			continue
		}
		sep = true
	}
	return b.String()
}

func mapColumns(header []string) (columnIndex, error) {
	pos := map[string]int{}
	names := make([]string, 0, len(header))
	for i, h := range header {
		n := NormalizeHeader(h)
		names = append(names, n)
		if _, dup := pos[n]; !dup && n != "" {
			pos[n] = i
		}
	}
	find := func(col string) (int, error) {
		if i, ok := pos[col]; ok {
			return i, nil
		}
		for _, alias := range columnAliases[col] {
			if i, ok := pos[alias]; ok {
				return i, nil
			}
		}
		return -1, &MissingColumnError{Column: col, Found: names}
	}
	var idx columnIndex
	var err error
	if idx.bedrooms, err = find(ColBedrooms); err != nil {
		return idx, err
	}
	if idx.tenure, err = find(ColTenure); err != nil {
		return idx, err
	}
	if idx.borough, err = find(ColBorough); err != nil {
		return idx, err
	}
	if idx.units, err = find(ColProposedUnits); err != nil {
		return idx, err
	}
	return idx, nil
}

// parseCount reads a whole number such as "12", "1,018", "18 917" or "2.0".
// Thousands separators are only accepted between groups of three digits, so
// "2,5" is not a count.
func parseCount(s string, opt Options) (int, bool) {
	raw := strings.ReplaceAll(strings.TrimSpace(s), "\u00A0", " ")
	dec := opt.DecimalSeparator
	if dec == 0 {
		dec = '.'
	}
	seps := []rune{opt.ThousandsSeparator}
	if opt.ThousandsSeparator == 0 {
		seps = []rune{',', '.', ' '}
	}

	sign := ""
	if strings.HasPrefix(raw, "-") || strings.HasPrefix(raw, "+") {
		sign, raw = raw[:1], raw[1:]
	}
	whole, frac, _ := strings.Cut(raw, string(dec))
	for _, r := range frac {
		if r != '0' {
			return 0, false
		}
	}
	digits, ok := ungroup(whole, dec, seps)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(sign+digits, 10, 64)
	if err != nil || n > math.MaxInt32 || n < math.MinInt32 {
		return 0, false
	}
	return int(n), true
}

// ungroup returns the digits of s, which is either plain digits or digits
// split into groups of three by exactly one of seps (never dec).
func ungroup(s string, dec rune, seps []rune) (string, bool) {
	if s == "" {
		return "", false
	}
	if allDigits(s) {
		return s, true
	}
	for _, sep := range seps {
		if sep == dec || !strings.ContainsRune(s, sep) {
			continue
		}
		parts := strings.Split(s, string(sep))
		if len(parts[0]) < 1 || len(parts[0]) > 3 || !allDigits(parts[0]) {
			return "", false
		}
		for _, p := range parts[1:] {
			if len(p) != 3 || !allDigits(p) {
				return "", false
			}
		}
		return strings.Join(parts, ""), true
	}
	return "", false
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
