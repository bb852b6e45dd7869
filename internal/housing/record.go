package housing

import (
	"fmt"

	"go.uber.org/multierr"
)

// BedroomBucket is the coarse bedroom-size category used as table columns.
type BedroomBucket string

const (
	OneBed       BedroomBucket = "1 bed"
	TwoBeds      BedroomBucket = "2 beds"
	ThreeBeds    BedroomBucket = "3 beds"
	FourPlusBeds BedroomBucket = "4 beds or more"
)

// Buckets lists bedroom buckets in display order.
var Buckets = []BedroomBucket{OneBed, TwoBeds, ThreeBeds, FourPlusBeds}

// TenureOrder is both the row order and the row allow-list of the tenure table.
var TenureOrder = []string{"Social Rented", "Intermediate", "Affordable Rent", "Market"}

// MalformedBedrooms is the bedroom count given to a cell that was present but
// not an integer. It falls into "4 beds or more" like any out-of-range value.
const MalformedBedrooms = -1

// UnitRecord is one row of the per-unit development dataset.
type UnitRecord struct {
	Bedrooms      *int
	Tenure        string
	Borough       string
	ProposedUnits int
	// BedroomsText holds the original cell when it could not be read as an
	// integer; Bedrooms is then MalformedBedrooms.
	BedroomsText string
	// Row is the 1-based position among the rows read, header included;
	// 0 when unknown.
	Row int
}

// Bucketize maps an exact bedroom count to its bucket.
func Bucketize(n int) BedroomBucket {
	switch n {
	case 1:
		return OneBed
	case 2:
		return TwoBeds
	case 3:
		return ThreeBeds
	default:
		return FourPlusBeds
	}
}

// BucketIndex returns the column position of b in Buckets, or -1.
func BucketIndex(b BedroomBucket) int {
	for i, x := range Buckets {
		if x == b {
			return i
		}
	}
	return -1
}

// IsListedTenure reports whether t appears in TenureOrder.
func IsListedTenure(t string) bool {
	for _, x := range TenureOrder {
		if x == t {
			return true
		}
	}
	return false
}

// WithBedrooms returns the records that have a bedroom count.
func WithBedrooms(records []UnitRecord) []UnitRecord {
	out := make([]UnitRecord, 0, len(records))
	for _, r := range records {
		if r.Bedrooms == nil {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Malformed reports whether the bedroom cell was present but not an integer.
func (r UnitRecord) Malformed() bool { return r.BedroomsText != "" }

// IntPtr is a small helper for building records by hand.
func IntPtr(n int) *int { return &n }

// ValidationError describes one bad input cell.
type ValidationError struct {
	Row    int
	Column string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("row %d: %s=%q: %s", e.Row, e.Column, e.Value, e.Reason)
	}
	return fmt.Sprintf("%s=%q: %s", e.Column, e.Value, e.Reason)
}

// Validate rejects records whose values cannot be aggregated. In strict mode a
// non-integer bedroom cell is rejected too instead of being counted as
// "4 beds or more". All failures are combined into one error; use
// multierr.Errors to inspect them.
func Validate(records []UnitRecord, strict bool) error {
	var err error
	for i, r := range records {
		row := r.Row
		if row == 0 {
			row = i + 1
		}
		if r.ProposedUnits < 0 {
			err = multierr.Append(err, &ValidationError{
				Row:    row,
				Column: "proposed_units",
				Value:  fmt.Sprint(r.ProposedUnits),
				Reason: "must not be negative",
			})
		}
		if strict && r.Malformed() {
			err = multierr.Append(err, &ValidationError{
				Row:    row,
				Column: "number_of_bedrooms",
				Value:  r.BedroomsText,
				Reason: "not an integer bedroom count",
			})
		}
	}
	return err
}
