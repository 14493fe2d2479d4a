package feed

import (
	"shopifyfeed/internal/model"
)

// FilterOptions controla quais linhas seguem para o mapper.
type FilterOptions struct {
	MinQuantity int
	ActiveOnly  bool
}

// Filter recebe linhas já sanitizadas. Mantém as que têm título e imagem, junta
// cada uma ao estoque total do seu handle, projeta em WorkingRow e aplica os
// filtros de quantidade e status. A ordem de saída é a de entrada.
func Filter(rows []model.ProductRow, inv Inventory, opts FilterOptions) []model.WorkingRow {
	out := make([]model.WorkingRow, 0, len(rows))
	for _, row := range rows {
		if !row.Title.Valid || !row.ImageSrc.Valid {
			continue
		}

		// left join: a handle sem total fica com zero
		total, ok := inv.Total(row.Handle)
		w := model.WorkingRow{
			Line:          row.Line,
			Handle:        row.Handle,
			Title:         row.Title.String,
			Body:          row.Body.OrEmpty(),
			Vendor:        row.Vendor,
			Published:     row.Published,
			VariantPrice:  row.VariantPrice.OrEmpty(),
			ImageSrc:      row.ImageSrc.String,
			VariantImage:  row.VariantImage,
			Status:        row.Status,
			TotalQuantity: total,
			HasTotal:      ok,
		}

		if inv.State == AggregationComputed && w.TotalQuantity < opts.MinQuantity {
			continue
		}
		if opts.ActiveOnly && w.Status != model.StatusActive {
			continue
		}
		out = append(out, w)
	}
	return out
}
