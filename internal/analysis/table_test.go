package analysis

import (
	"strings"
	"testing"

	"github.com/KaramelBytes/amrtables-cli/internal/housing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(beds int, tenure, borough string, units int) housing.UnitRecord {
	return housing.UnitRecord{Bedrooms: housing.IntPtr(beds), Tenure: tenure, Borough: borough, ProposedUnits: units}
}

// sampleRecords reproduces the published totals: 18,917 one-bed units,
// Sutton at 379/299/25/20 and a grand total of 45,752.
func sampleRecords() []housing.UnitRecord {
	return []housing.UnitRecord{
		rec(1, "Market", "Sutton", 379),
		rec(2, "Market", "Sutton", 299),
		rec(3, "Affordable Rent", "Sutton", 25),
		rec(5, "Social Rented", "Sutton", 20),

		rec(1, "Social Rented", "Camden", 1018),
		rec(1, "Intermediate", "Camden", 1151),
		rec(1, "Affordable Rent", "Camden", 586),
		rec(1, "Market", "Camden", 6245),
		rec(2, "Social Rented", "Camden", 500),
		rec(2, "Shared Ownership", "Camden", 300),
		rec(2, "Market", "Camden", 7200),
		rec(3, "Market", "Camden", 3000),
		rec(4, "Market", "Camden", 1200),
		rec(0, "Intermediate", "Camden", 30),

		rec(1, "Market", "Hackney", 9538),
		rec(2, "Market", "Hackney", 9386),
		rec(3, "Intermediate", "Hackney", 3475),
		rec(4, "Social Rented", "Hackney", 1000),
		rec(6, "Market", "Hackney", 400),

		{Bedrooms: nil, Tenure: "Market", Borough: "Hackney", ProposedUnits: 999},
	}
}

func TestTenureTable(t *testing.T) {
	tbl := TenureTable(sampleRecords())

	require.Len(t, tbl.Rows, 4)
	labels := make([]string, 0, 4)
	for _, r := range tbl.Rows {
		labels = append(labels, r.Label)
	}
	assert.Equal(t, housing.TenureOrder, labels)
	assert.False(t, tbl.HasTotal)
	assert.False(t, tbl.HasPercent)
	assert.Equal(t, []string{"Tenure", "1 bed", "2 beds", "3 beds", "4 beds or more"}, tbl.Columns())

	want := map[string][4]int{
		"Social Rented":   {1018, 500, 0, 1020},
		"Intermediate":    {1151, 0, 3475, 30},
		"Affordable Rent": {586, 0, 25, 0},
		"Market":          {16162, 16885, 3000, 1600},
		"Total":           {18917, 17685, 6500, 2650},
	}
	for label, counts := range want {
		row, ok := tbl.Lookup(label)
		require.True(t, ok, label)
		assert.Equal(t, counts, row.Counts, label)
	}
	assert.Equal(t, "Total", tbl.TotalRow.Label)
}

func TestTenureTableTotalIncludesUnlistedTenures(t *testing.T) {
	tbl := TenureTable(sampleRecords())

	var shown int
	for _, r := range tbl.Rows {
		shown += r.Count(housing.TwoBeds)
	}
	// "Shared Ownership" is not a row but its 300 two-bed units are in Total.
	assert.Equal(t, 17385, shown)
	assert.Equal(t, 17685, tbl.TotalRow.Count(housing.TwoBeds))

	// Total row equals the per-bucket sum over every record with a bedroom count.
	var expect [4]int
	for _, r := range housing.WithBedrooms(sampleRecords()) {
		expect[housing.BucketIndex(housing.Bucketize(*r.Bedrooms))] += r.ProposedUnits
	}
	assert.Equal(t, expect, tbl.TotalRow.Counts)
}

func TestTenureTableAbsentTenureIsZeroRow(t *testing.T) {
	tbl := TenureTable([]housing.UnitRecord{rec(1, "Market", "Sutton", 3)})
	row, ok := tbl.Lookup("Intermediate")
	require.True(t, ok)
	assert.Equal(t, [4]int{}, row.Counts)
	assert.Equal(t, [4]int{3, 0, 0, 0}, tbl.TotalRow.Counts)
}

func TestBoroughTable(t *testing.T) {
	tbl := BoroughTable(sampleRecords())

	require.Len(t, tbl.Rows, 3)
	assert.Equal(t, "Camden", tbl.Rows[0].Label)
	assert.Equal(t, "Hackney", tbl.Rows[1].Label)
	assert.Equal(t, "Sutton", tbl.Rows[2].Label)
	assert.Equal(t,
		[]string{"Borough", "1 bed", "2 beds", "3 beds", "4 beds or more", "Total", "% 3 or more"},
		tbl.Columns())

	sutton, ok := tbl.Lookup("Sutton")
	require.True(t, ok)
	assert.Equal(t, [4]int{379, 299, 25, 20}, sutton.Counts)
	assert.Equal(t, 723, sutton.Total)
	assert.Equal(t, Percent{Value: 6, Defined: true}, sutton.Percent)

	camden, _ := tbl.Lookup("Camden")
	assert.Equal(t, [4]int{9000, 8000, 3000, 1230}, camden.Counts)
	assert.Equal(t, 21230, camden.Total)
	assert.Equal(t, 20, camden.Percent.Value)

	hackney, _ := tbl.Lookup("Hackney")
	assert.Equal(t, [4]int{9538, 9386, 3475, 1400}, hackney.Counts)
	assert.Equal(t, 23799, hackney.Total)
	assert.Equal(t, 20, hackney.Percent.Value)

	total := tbl.TotalRow
	assert.Equal(t, "Total", total.Label)
	assert.Equal(t, [4]int{18917, 17685, 6500, 2650}, total.Counts)
	assert.Equal(t, 45752, total.Total)
	assert.Equal(t, Percent{Value: 20, Defined: true}, total.Percent)
}

func TestBoroughTableRowInvariants(t *testing.T) {
	tbl := BoroughTable(sampleRecords())
	var colSum [4]int
	var totalSum int
	for _, r := range tbl.Rows {
		sum := 0
		for i, v := range r.Counts {
			sum += v
			colSum[i] += v
		}
		totalSum += r.Total
		assert.Equal(t, sum, r.Total, r.Label)
		assert.Equal(t, SharePercent(r.Counts[2]+r.Counts[3], r.Total), r.Percent, r.Label)
	}
	assert.Equal(t, colSum, tbl.TotalRow.Counts)
	assert.Equal(t, totalSum, tbl.TotalRow.Total)
}

func TestBoroughTableSkipsEmptyBorough(t *testing.T) {
	tbl := BoroughTable([]housing.UnitRecord{
		rec(1, "Market", "  ", 10),
		rec(2, "Market", "Sutton", 4),
	})
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "Sutton", tbl.Rows[0].Label)
	assert.Equal(t, 4, tbl.TotalRow.Total)
}

func TestBoroughTableZeroTotal(t *testing.T) {
	tbl := BoroughTable([]housing.UnitRecord{rec(3, "Market", "Merton", 0)})
	row, ok := tbl.Lookup("Merton")
	require.True(t, ok)
	assert.Equal(t, 0, row.Total)
	assert.False(t, row.Percent.Defined)
	assert.False(t, tbl.TotalRow.Percent.Defined)
	assert.Equal(t, "n/a", row.Percent.Format(DefaultUndefinedPercent))
}

func TestEmptyInput(t *testing.T) {
	ten := TenureTable(nil)
	assert.Len(t, ten.Rows, 4)
	assert.Equal(t, [4]int{}, ten.TotalRow.Counts)

	bor := BoroughTable(nil)
	assert.Empty(t, bor.Rows)
	assert.Equal(t, 0, bor.TotalRow.Total)
	assert.False(t, bor.TotalRow.Percent.Defined)
}

func TestAggregationIsIdempotent(t *testing.T) {
	recs := sampleRecords()
	assert.Equal(t, TenureTable(recs), TenureTable(recs))
	assert.Equal(t, BoroughTable(recs), BoroughTable(recs))
}

func TestSharePercentRounding(t *testing.T) {
	assert.Equal(t, 6, SharePercent(45, 723).Value)
	assert.Equal(t, 20, SharePercent(9150, 45752).Value)
	// 12.5 and 37.5 round to the even neighbour.
	assert.Equal(t, 12, SharePercent(1, 8).Value)
	assert.Equal(t, 38, SharePercent(3, 8).Value)
	assert.Equal(t, 100, SharePercent(5, 5).Value)
	assert.False(t, SharePercent(0, 0).Defined)
	assert.Equal(t, "6%", SharePercent(45, 723).Format("n/a"))
}

func TestMarkdownTenure(t *testing.T) {
	md := DefaultFormatter().Markdown(TenureTable(sampleRecords()))
	assert.True(t, strings.HasPrefix(md, "**"+TenureTitle+"**\n\n"))

	rows := markdownCells(md)
	require.Len(t, rows, 6)
	assert.Equal(t, []string{"Tenure", "1 bed", "2 beds", "3 beds", "4 beds or more"}, rows[0])
	assert.Equal(t, []string{"Social Rented", "1,018", "500", "0", "1,020"}, rows[1])
	assert.Equal(t, []string{"Market", "16,162", "16,885", "3,000", "1,600"}, rows[4])
	assert.Equal(t, []string{"Total", "18,917", "17,685", "6,500", "2,650"}, rows[5])
	assert.Contains(t, md, "| :---")
}

func TestMarkdownBorough(t *testing.T) {
	md := DefaultFormatter().Markdown(BoroughTable(sampleRecords()))
	rows := markdownCells(md)
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"Sutton", "379", "299", "25", "20", "723", "6%"}, rows[3])
	assert.Equal(t, []string{"Total", "18,917", "17,685", "6,500", "2,650", "45,752", "20%"}, rows[4])
}

func TestFormatCount(t *testing.T) {
	f := DefaultFormatter()
	assert.Equal(t, "18,917", f.FormatCount(18917))
	assert.Equal(t, "0", f.FormatCount(0))
	assert.Equal(t, "999", f.FormatCount(999))
	assert.Equal(t, "1,234,567", f.FormatCount(1234567))
}

func TestNewFormatter(t *testing.T) {
	f, err := NewFormatter("", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultUndefinedPercent, f.UndefinedPercent)
	assert.Equal(t, "45,752", f.FormatCount(45752))

	f, err = NewFormatter("en-GB", "-")
	require.NoError(t, err)
	assert.Equal(t, "-", f.UndefinedPercent)

	_, err = NewFormatter("not a locale!", "")
	assert.Error(t, err)
}

func TestGridUsesUndefinedMarker(t *testing.T) {
	f, err := NewFormatter("en", "—")
	require.NoError(t, err)
	grid := f.Grid(BoroughTable([]housing.UnitRecord{rec(2, "Market", "Merton", 0)}))
	require.Len(t, grid, 3)
	assert.Equal(t, []string{"Merton", "0", "0", "0", "0", "0", "—"}, grid[1])
}

// markdownCells parses pipe-table lines into trimmed cells, skipping the
// title and the alignment line.
func markdownCells(md string) [][]string {
	var out [][]string
	for _, line := range strings.Split(md, "\n") {
		if !strings.HasPrefix(line, "|") || strings.HasPrefix(line, "| :") {
			continue
		}
		parts := strings.Split(strings.Trim(line, "|"), "|")
		cells := make([]string, len(parts))
		for i, p := range parts {
			cells[i] = strings.TrimSpace(p)
		}
		out = append(out, cells)
	}
	return out
}
