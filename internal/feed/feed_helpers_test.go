package feed

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"shopifyfeed/internal/model"
)

// fullHeader é o header do export do Shopify com a coluna de estoque.
var fullHeader = append(append([]string{}, model.RequiredColumns...), model.ColInventoryQty)

// product monta um registro para fullHeader. As chaves são nomes de coluna.
func product(fields map[string]string) []string {
	rec := make([]string, len(fullHeader))
	for i, col := range fullHeader {
		rec[i] = fields[col]
	}
	return rec
}

func activeProduct(handle, title, qty string) map[string]string {
	return map[string]string{
		model.ColHandle:       handle,
		model.ColTitle:        title,
		model.ColBody:         "<p>Great <b>product</b></p>",
		model.ColVendor:       "Acme",
		model.ColPublished:    "TRUE",
		model.ColVariantPrice: "19.5",
		model.ColImageSrc:     "https://cdn.example.com/" + handle + ".jpg",
		model.ColVariantImage: "",
		model.ColStatus:       "active",
		model.ColInventoryQty: qty,
	}
}

func buildCSV(t *testing.T, header []string, records ...[]string) string {
	t.Helper()
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	require.NoError(t, w.Write(header))
	for _, r := range records {
		require.NoError(t, w.Write(r))
	}
	w.Flush()
	require.NoError(t, w.Error())
	return sb.String()
}

func loadCSV(t *testing.T, header []string, records ...[]string) *Table {
	t.Helper()
	table, err := Load(strings.NewReader(buildCSV(t, header, records...)))
	require.NoError(t, err)
	return table
}
