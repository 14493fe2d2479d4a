package feed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"shopifyfeed/internal/model"
)

// Table é o export carregado.
type Table struct {
	Header       []string
	Rows         []model.ProductRow
	HasInventory bool
}

// Load faz o parse de um export de produtos do Shopify. Qualquer erro de sintaxe
// do CSV, ou um registro com mais campos que o header, falha o carregamento todo.
func Load(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, stageErr(StateLoaded, ErrParse, 0, "", errors.New("arquivo vazio"))
		}
		return nil, stageErr(StateLoaded, ErrParse, 1, "", err)
	}
	if len(header) == 0 {
		return nil, stageErr(StateLoaded, ErrParse, 1, "", errors.New("header vazio"))
	}
	// Remove o BOM da primeira coluna, se existir
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	idx := make(map[string]int, len(header))
	for i, col := range header {
		name := strings.TrimSpace(col)
		if _, dup := idx[name]; !dup {
			idx[name] = i
		}
	}

	var missing []string
	for _, col := range model.RequiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, stageErr(StateLoaded, ErrSchema, 1, "",
			fmt.Errorf("colunas obrigatórias ausentes: %s", strings.Join(missing, ", ")))
	}

	_, hasInventory := idx[model.ColInventoryQty]
	table := &Table{Header: header, HasInventory: hasInventory}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			line := 0
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				line = pe.StartLine
			}
			return nil, stageErr(StateLoaded, ErrParse, line, "", err)
		}
		line, _ := reader.FieldPos(0)
		if len(record) > len(header) {
			return nil, stageErr(StateLoaded, ErrParse, line, "",
				fmt.Errorf("esperados %d campos, encontrados %d", len(header), len(record)))
		}

		cell := func(col string) model.NullString {
			i, ok := idx[col]
			if !ok || i >= len(record) {
				return model.NullString{}
			}
			v := record[i]
			if strings.TrimSpace(v) == "" {
				return model.NullString{}
			}
			return model.NullString{String: v, Valid: true}
		}

		table.Rows = append(table.Rows, model.ProductRow{
			Line:         line,
			Handle:       cell(model.ColHandle).OrEmpty(),
			Title:        cell(model.ColTitle),
			Body:         cell(model.ColBody),
			Vendor:       cell(model.ColVendor).OrEmpty(),
			Published:    cell(model.ColPublished).OrEmpty(),
			VariantPrice: cell(model.ColVariantPrice),
			ImageSrc:     cell(model.ColImageSrc),
			VariantImage: cell(model.ColVariantImage).OrEmpty(),
			Status:       cell(model.ColStatus).OrEmpty(),
			InventoryQty: cell(model.ColInventoryQty),
		})
	}

	return table, nil
}

// Preview retorna o header e até n registros brutos, só para exibição.
func Preview(r io.Reader, n int) ([]string, [][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, stageErr(StateLoaded, ErrParse, 1, "", err)
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	var records [][]string
	for len(records) < n {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, stageErr(StateLoaded, ErrParse, 0, "", err)
		}
		records = append(records, record)
	}
	return header, records, nil
}
