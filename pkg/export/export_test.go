package export

import (
	"bytes"
	"testing"
	"time"

	"assettrack/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleAssets() []models.Asset {
	date := time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC)
	cost := 1899.0
	location := "Main office"
	return []models.Asset{
		{
			ID: 1, Name: "Dell Laptop XPS 15", AssetCode: "LAP-001", CategoryID: 1,
			Status: "assigned", AcquisitionDate: &date, AcquisitionCost: &cost, Location: &location,
			Category:   &models.Category{ID: 1, Name: "Electronics"},
			Department: &models.Department{ID: 1, Name: "IT"},
		},
		{
			ID: 2, Name: "Office Desk", AssetCode: "FUR-001", CategoryID: 2,
			Status: "available",
		},
	}
}

func TestAssetReportSheets(t *testing.T) {
	file, err := AssetReport(sampleAssets())
	require.NoError(t, err)

	sheet, ok := file.Sheet["Assets"]
	require.True(t, ok)

	header, err := sheet.Cell(0, 1)
	require.NoError(t, err)
	assert.Equal(t, "Name", header.Value)

	name, err := sheet.Cell(1, 1)
	require.NoError(t, err)
	assert.Equal(t, "Dell Laptop XPS 15", name.Value)

	category, err := sheet.Cell(1, 3)
	require.NoError(t, err)
	assert.Equal(t, "Electronics", category.Value)

	date, err := sheet.Cell(1, 6)
	require.NoError(t, err)
	assert.Equal(t, "2023-03-15", date.Value)

	// The second asset has no relations or acquisition details; those
	// cells stay empty rather than rendering "<nil>".
	category, err = sheet.Cell(2, 3)
	require.NoError(t, err)
	assert.Equal(t, "", category.Value)

	summary, ok := file.Sheet["Summary"]
	require.True(t, ok)

	status, err := summary.Cell(1, 0)
	require.NoError(t, err)
	assert.Equal(t, "available", status.Value)

	count, err := summary.Cell(1, 1)
	require.NoError(t, err)
	assert.Equal(t, "1", count.Value)
}

func TestWriteAssetReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteAssetReport(&buf, sampleAssets()))

	// An xlsx workbook is a zip archive.
	assert.Equal(t, []byte("PK"), buf.Bytes()[:2])
}
