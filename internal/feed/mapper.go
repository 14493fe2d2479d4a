package feed

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"shopifyfeed/internal/model"
)

const DefaultCurrency = "NZD"

type MapOptions struct {
	Domain             string
	Currency           string
	IncludeDescription bool
	// SkipInvalidRows descarta linhas sem handle ou com preço inválido,
	// gerando um aviso para cada uma, em vez de abortar a execução.
	SkipInvalidRows bool
}

// NormalizeDomain remove uma única barra final.
func NormalizeDomain(domain string) string {
	return strings.TrimSuffix(domain, "/")
}

// ProductLink monta {domain}/products/{handle}.
func ProductLink(domain, handle string) string {
	return NormalizeDomain(domain) + "/products/" + handle
}

// FormatPrice formata o preço com duas casas decimais seguido do código da moeda.
func FormatPrice(price, currency string) (string, error) {
	s := strings.TrimSpace(price)
	if s == "" {
		return "", errors.New("preço ausente")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return "", fmt.Errorf("preço inválido %q", price)
	}
	return d.StringFixed(2) + " " + currency, nil
}

// Map converte cada WorkingRow em exatamente um ExportRow, mantendo a ordem.
func Map(rows []model.WorkingRow, opts MapOptions) ([]model.ExportRow, []Warning, error) {
	currency := opts.Currency
	if currency == "" {
		currency = DefaultCurrency
	}

	out := make([]model.ExportRow, 0, len(rows))
	var warnings []Warning
	for _, row := range rows {
		column, price, err := mapRowFields(row, currency)
		if err != nil {
			if opts.SkipInvalidRows {
				warnings = append(warnings, Warning{
					Kind:    WarnSkippedRow,
					Line:    row.Line,
					Message: fmt.Sprintf("linha %d (%s) ignorada: %v", row.Line, row.Handle, err),
				})
				continue
			}
			return nil, warnings, stageErr(StateMapped, ErrRuntime, row.Line, column, err)
		}

		export := model.ExportRow{
			ID:           row.Handle,
			Title:        row.Title,
			Link:         ProductLink(opts.Domain, row.Handle),
			Price:        price,
			Availability: model.AvailabilityInStock,
			ImageLink:    row.ImageSrc,
			Brand:        row.Vendor,
		}
		if opts.IncludeDescription {
			desc := row.Body
			export.Description = &desc
		}
		out = append(out, export)
	}
	return out, warnings, nil
}

// mapRowFields valida o handle e formata o preço. Em caso de erro retorna a
// coluna responsável.
func mapRowFields(row model.WorkingRow, currency string) (string, string, error) {
	if strings.TrimSpace(row.Handle) == "" {
		return model.ColHandle, "", errors.New("handle ausente: link do produto não pode ser gerado")
	}
	price, err := FormatPrice(row.VariantPrice, currency)
	if err != nil {
		return model.ColVariantPrice, "", err
	}
	return "", price, nil
}
