package analysis

import (
	"testing"

	"github.com/KaramelBytes/amrtables-cli/internal/housing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnose(t *testing.T) {
	recs := append(sampleRecords(),
		housing.UnitRecord{Bedrooms: housing.IntPtr(housing.MalformedBedrooms), BedroomsText: "n/k", Tenure: "Market", Borough: "Sutton", ProposedUnits: 2},
		rec(2, "", "", 7),
	)
	d := Diagnose(recs)

	assert.Equal(t, len(recs), d.Records)
	assert.Equal(t, 1, d.MissingBedrooms)
	assert.Equal(t, 999, d.MissingBedroomUnits)
	assert.Equal(t, 1, d.MalformedBedrooms)
	assert.Equal(t, 1, d.MissingBorough)
	assert.Equal(t, 7, d.MissingBoroughUnits)

	require.Len(t, d.UnlistedTenures, 2)
	assert.Equal(t, CategoryCount{Value: "Shared Ownership", Units: 300, Rows: 1}, d.UnlistedTenures[0])
	assert.Equal(t, CategoryCount{Value: "", Units: 7, Rows: 1}, d.UnlistedTenures[1])

	w := d.Warnings()
	require.Len(t, w, 5)
	assert.Contains(t, w[0], "1 records (999 units) have no bedroom count")
	assert.Contains(t, w[2], "have no borough")
	assert.Contains(t, w[3], `tenure "Shared Ownership"`)
	assert.Contains(t, w[4], `tenure "(empty)"`)
}

func TestDiagnosticsMarkdown(t *testing.T) {
	d := Diagnose(sampleRecords())
	d.Name = "units.csv"
	d.EmptyUnits = 2
	md := d.Markdown()
	assert.Contains(t, md, "[DATASET SUMMARY]")
	assert.Contains(t, md, "File: units.csv")
	assert.Contains(t, md, "Units in tables: 45752")
	assert.Contains(t, md, "2 records have no proposed_units value")
	assert.Contains(t, md, `tenure "Shared Ownership"`)

	clean := Diagnose([]housing.UnitRecord{rec(1, "Market", "Sutton", 1)})
	assert.Empty(t, clean.Warnings())
	assert.Contains(t, clean.Markdown(), "no data-quality issues found")
}
