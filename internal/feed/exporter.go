package feed

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"shopifyfeed/internal/model"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"

	ContentTypeCSV  = "text/csv"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	sheetName = "Products"
)

// WriteCSV escreve as linhas sob o header fixo do Merchant Center. Campos com
// vírgula, aspas ou quebra de linha são escapados pelo encoding/csv.
func WriteCSV(w io.Writer, rows []model.ExportRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(model.ExportColumns); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write(row.Record()); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteXLSX escreve a mesma tabela em uma planilha de aba única.
func WriteXLSX(w io.Writer, rows []model.ExportRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return err
	}

	header := make([]interface{}, len(model.ExportColumns))
	for i, col := range model.ExportColumns {
		header[i] = col
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		record := row.Record()
		values := make([]interface{}, len(record))
		for j, v := range record {
			values[j] = v
		}
		if err := sw.SetRow(cell, values); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}

// ContentType retorna o MIME type do formato.
func ContentType(format string) string {
	if format == FormatXLSX {
		return ContentTypeXLSX
	}
	return ContentTypeCSV
}

// FileName retorna "{host}-{YYYY-MM-DD}.{ext}" para o download. Usa o host da
// URL do domínio para o nome ser válido em disco.
func FileName(domain string, at time.Time, format string) string {
	if format == "" {
		format = FormatCSV
	}
	name := NormalizeDomain(domain)
	if u, err := url.Parse(name); err == nil && u.Host != "" {
		name = u.Host
	}
	name = strings.NewReplacer("/", "_", ":", "_", "\\", "_").Replace(name)
	return fmt.Sprintf("%s-%s.%s", name, at.Format("2006-01-02"), format)
}
