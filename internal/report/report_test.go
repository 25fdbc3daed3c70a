package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ZanzyTHEbar/troupe-insights/internal/analysis"
)

func sampleSummary() analysis.Summary {
	activities := []analysis.Activity{
		{Name: "Hiking", Category: "Outdoors", Price: "Free", LoveVotes: 3, LikeVotes: 1},
		{Name: "Museum", Category: "Culture", Price: "$30", LoveVotes: 1, LikeVotes: 2, PassVotes: 1},
		{Name: "Karaoke", Category: "Nightlife", Price: "$15", LoveVotes: 2, PassVotes: 2},
	}
	for i := range activities {
		activities[i] = activities[i].WithScore()
	}
	return analysis.NewDataset(activities).Summary(10)
}

func reopen(t *testing.T, summary analysis.Summary) *excelize.File {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, summary, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestWrite_Sheets(t *testing.T) {
	f := reopen(t, sampleSummary())

	assert.Equal(t, []string{SheetOverview, SheetTop, SheetCategories, SheetBudget, SheetDynamics, SheetDistribution}, f.GetSheetList())
}

func TestWrite_Contents(t *testing.T) {
	f := reopen(t, sampleSummary())

	tests := []struct {
		sheet string
		cell  string
		want  string
	}{
		{SheetOverview, "A1", "Metric"},
		{SheetOverview, "B2", "2026-03-01T09:00:00Z"},
		{SheetOverview, "B3", "3"},
		{SheetTop, "A1", "Name"},
		{SheetTop, "A2", "Hiking"},
		{SheetTop, "G2", "7"},
		{SheetCategories, "A1", "Category"},
		{SheetBudget, "A1", "Tier"},
		{SheetDistribution, "A1", "Range"},
	}

	for _, tt := range tests {
		t.Run(tt.sheet+"!"+tt.cell, func(t *testing.T) {
			got, err := f.GetCellValue(tt.sheet, tt.cell)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWrite_TopActivitiesOrder(t *testing.T) {
	f := reopen(t, sampleSummary())

	rows, err := f.GetRows(SheetTop)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Hiking", rows[1][0])
	assert.Equal(t, "Museum", rows[2][0])
	assert.Equal(t, "Karaoke", rows[3][0])
}

func TestWrite_EmptySummary(t *testing.T) {
	f := reopen(t, analysis.NewDataset(nil).Summary(10))

	rows, err := f.GetRows(SheetTop)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	total, err := f.GetCellValue(SheetOverview, "B3")
	require.NoError(t, err)
	assert.Equal(t, "0", total)
}
