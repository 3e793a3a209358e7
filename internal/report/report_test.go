package report

import (
	"bytes"
	"testing"

	"github.com/aanand-mishra/hostel-api/internal/records"
	"github.com/aanand-mishra/hostel-api/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestOccupancy(t *testing.T) {
	hostels := append(records.SeedHostels(), types.Hostel{ID: "h3", Name: "Annex", Code: "ANX"})

	var buf bytes.Buffer
	require.NoError(t, Occupancy(&buf, records.SeedRooms(), hostels))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary", "Block A - Boys Hostel", "Block B - Girls Hostel"}, f.GetSheetList())

	summary, err := f.GetRows(summarySheet)
	require.NoError(t, err)
	require.Len(t, summary, 4)
	assert.Equal(t, []string{"Annex", "0", "0", "0", "0"}, summary[1])
	assert.Equal(t, []string{"Block A - Boys Hostel", "3", "6", "1", "5"}, summary[2])
	assert.Equal(t, []string{"Block B - Girls Hostel", "2", "4", "2", "2"}, summary[3])

	rows, err := f.GetRows("Block B - Girls Hostel")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"B-201", "2", "triple", "available", "3", "1", "2", "Priya Sharma"}, rows[1])
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "Block A-B", sheetName("Block A/B", 0))
	assert.Equal(t, "Hostel 3", sheetName("summary", 2))
	assert.Equal(t, "Hostel 1", sheetName("", 0))
	assert.Len(t, []rune(sheetName("An Extremely Long Hostel Name That Excel Rejects", 0)), 31)
}
