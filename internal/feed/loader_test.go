package feed

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopifyfeed/internal/model"
)

func TestLoadRows(t *testing.T) {
	table := loadCSV(t, fullHeader,
		product(activeProduct("shoe-1", "Shoe", "5")),
		product(activeProduct("shoe-1", "", "8")),
	)

	assert.True(t, table.HasInventory)
	require.Len(t, table.Rows, 2)

	first := table.Rows[0]
	assert.Equal(t, 2, first.Line)
	assert.Equal(t, "shoe-1", first.Handle)
	assert.Equal(t, model.NullString{String: "Shoe", Valid: true}, first.Title)
	assert.Equal(t, model.NullString{String: "5", Valid: true}, first.InventoryQty)

	second := table.Rows[1]
	assert.False(t, second.Title.Valid)
	assert.Equal(t, 3, second.Line)
}

func TestLoadStripsBOMAndKeepsMultilineFields(t *testing.T) {
	fields := activeProduct("a", "A", "1")
	fields[model.ColBody] = "<p>line one,\nline \"two\"</p>"
	src := "\ufeff" + buildCSV(t, fullHeader, product(fields), product(activeProduct("b", "B", "2")))

	table, err := Load(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "a", table.Rows[0].Handle)
	assert.Equal(t, "<p>line one,\nline \"two\"</p>", table.Rows[0].Body.String)
	assert.Equal(t, 4, table.Rows[1].Line)
}

func TestLoadToleratesMissingInventoryAndShortRows(t *testing.T) {
	src := strings.Join(model.RequiredColumns, ",") + "\n" + "short-row,Short\n"

	table, err := Load(strings.NewReader(src))
	require.NoError(t, err)
	assert.False(t, table.HasInventory)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "short-row", table.Rows[0].Handle)
	assert.False(t, table.Rows[0].ImageSrc.Valid)
	assert.False(t, table.Rows[0].InventoryQty.Valid)
}

func TestLoadMissingRequiredColumn(t *testing.T) {
	_, err := Load(strings.NewReader("Handle,Title\nshoe,Shoe\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSchema))
	assert.Contains(t, err.Error(), model.ColImageSrc)
}

func TestLoadMalformed(t *testing.T) {
	header := strings.Join(fullHeader, ",")
	cases := map[string]string{
		"empty":           "",
		"bare quote":      header + "\nshoe,\"Sh\"oe\n",
		"unclosed quote":  header + "\nshoe,\"Shoe\n",
		"too many fields": header + "\n" + strings.Repeat("x,", len(fullHeader)) + "x\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			table, err := Load(strings.NewReader(src))
			require.Error(t, err)
			assert.Nil(t, table)
			assert.True(t, errors.Is(err, ErrParse), err.Error())
		})
	}
}
