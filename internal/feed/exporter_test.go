package feed

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"shopifyfeed/internal/model"
)

func strPtr(s string) *string { return &s }

func exportFixture() []model.ExportRow {
	return []model.ExportRow{
		{
			ID:           "shoe-1",
			Title:        `Shoe, "Runner" edition`,
			Description:  strPtr("Line one\nLine two, with comma"),
			Link:         "https://shop.example.com/products/shoe-1",
			Price:        "19.50 NZD",
			Availability: model.AvailabilityInStock,
			ImageLink:    "https://cdn.example.com/shoe-1.jpg",
			Brand:        "Acme",
		},
		{
			ID:           "hat-1",
			Title:        "Hat",
			Link:         "https://shop.example.com/products/hat-1",
			Price:        "5.00 NZD",
			Availability: model.AvailabilityInStock,
			ImageLink:    "https://cdn.example.com/hat-1.jpg",
			Brand:        "Acme",
		},
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	rows := exportFixture()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, len(rows)+1)
	assert.Equal(t, model.ExportColumns, records[0])
	for i, row := range rows {
		assert.Equal(t, row.Record(), records[i+1])
	}
}

func TestWriteCSVHeaderOnlyWhenEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "id,title,description,link,condition,price,availability,image_link,gtin,mpn,brand,google product category\n", buf.String())
}

func TestWriteXLSX(t *testing.T) {
	rows := exportFixture()

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, rows))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, got, len(rows)+1)
	assert.Equal(t, model.ExportColumns, got[0])
	assert.Equal(t, "shoe-1", got[1][0])
	assert.Equal(t, `Shoe, "Runner" edition`, got[1][1])
	assert.Equal(t, "19.50 NZD", got[1][5])
	assert.Equal(t, "hat-1", got[2][0])
}

func TestFileName(t *testing.T) {
	at := time.Date(2026, 10, 19, 15, 4, 5, 0, time.UTC)

	assert.Equal(t, "shop.example.com-2026-10-19.csv", FileName("https://shop.example.com/", at, FormatCSV))
	assert.Equal(t, "shop.example.com-2026-10-19.xlsx", FileName("https://shop.example.com/en", at, FormatXLSX))
	assert.Equal(t, "localhost_8080-2026-10-19.csv", FileName("http://localhost:8080", at, ""))
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "text/csv", ContentType(FormatCSV))
	assert.Equal(t, ContentTypeXLSX, ContentType(FormatXLSX))
}
