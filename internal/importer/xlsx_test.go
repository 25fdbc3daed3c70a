package importer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows ...[]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestParseXLSX(t *testing.T) {
	buf := workbook(t,
		[]interface{}{"name", "category", "price", "love", "like", "pass", "web", "maps", "groups"},
		[]interface{}{"Hiking", "Outdoors", "Free", 3, 1, 0},
		[]interface{}{},
		[]interface{}{"Opera", "Culture", "$80", 1, 0, 2, "https://opera.example.com"},
	)

	got, err := ParseXLSX(buf)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Hiking", got[0].Name)
	assert.Equal(t, 7.0, got[0].Score)
	assert.Equal(t, "Opera", got[1].Name)
	assert.Equal(t, 0.0, got[1].Score)
	assert.Equal(t, "https://opera.example.com", got[1].WebsiteLink)
	assert.Equal(t, "N/A", FromFields([]string{"x"}).Price)
}

func TestParseXLSXRejectsGarbage(t *testing.T) {
	_, err := ParseXLSX(strings.NewReader("definitely not a zip"))
	assert.Error(t, err)
}

func TestParseDispatchesOnExtension(t *testing.T) {
	got, err := Parse("trip.CSV", strings.NewReader(header+"\nA,Food,$5,1,0,0"))
	require.NoError(t, err)
	require.Len(t, got, 1)

	buf := workbook(t,
		[]interface{}{"name"},
		[]interface{}{"B", "Food", "$5", 0, 2, 0},
	)
	got, err = Parse("trip.xlsx", buf)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2.0, got[0].Score)
}
