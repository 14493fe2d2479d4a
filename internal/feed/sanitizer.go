package feed

import (
	"regexp"
	"strings"

	"shopifyfeed/internal/model"
)

// Tags seguidas caem em um único match, ex: "<p><b>" -> "".
var tagPattern = regexp.MustCompile(`(<.*?>)+`)

// Sanitize remove as tags HTML e depois todo byte fora do ASCII de 7 bits.
// Texto unicode é descartado, não transliterado. Body null vira "".
func Sanitize(body model.NullString) string {
	return SanitizeText(body.OrEmpty())
}

func SanitizeText(s string) string {
	for tagPattern.MatchString(s) {
		s = tagPattern.ReplaceAllString(s, "")
	}
	return removeNonASCII(s)
}

func removeNonASCII(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] < 128 {
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}

// SanitizeRows retorna uma cópia das linhas com todo Body sanitizado.
func SanitizeRows(rows []model.ProductRow) []model.ProductRow {
	out := make([]model.ProductRow, len(rows))
	for i, row := range rows {
		row.Body = model.NullString{String: Sanitize(row.Body), Valid: true}
		out[i] = row
	}
	return out
}
