// Package export serializes query results for download as delimited text,
// line-delimited JSON-compatible output or tab-separated values. CSV fields
// containing the delimiter or quotes are escaped with the same doubled-quote
// convention the source parser accepts, so exports round-trip.
package export

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pbarbosa/bulario-api/query"
)

// Export column headers, matching the names users see on the regulator site.
var headers = []string{
	"ID",
	"Nome",
	"Nº Registro",
	"Titular",
	"CNPJ",
	"Nº Processo",
	"Data de Atualização",
	"Data de Inclusão",
}

// AsCSV serializes items to comma-separated text with a header line.
func AsCSV(items []query.MedicationView) []byte {
	var b strings.Builder

	writeRow := func(fields []string) {
		for i, field := range fields {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(escapeField(field, ','))
		}
		b.WriteByte('\n')
	}

	writeRow(headers)
	for _, item := range items {
		writeRow(itemFields(item))
	}

	return []byte(b.String())
}

// AsTSV serializes items to tab-separated text with a header line.
// Spreadsheet tools open this directly.
func AsTSV(items []query.MedicationView) []byte {
	var b strings.Builder

	writeRow := func(fields []string) {
		for i, field := range fields {
			if i > 0 {
				b.WriteByte('\t')
			}
			b.WriteString(escapeField(field, '\t'))
		}
		b.WriteByte('\n')
	}

	writeRow(headers)
	for _, item := range items {
		writeRow(itemFields(item))
	}

	return []byte(b.String())
}

// AsJSON serializes items as an indented JSON array.
func AsJSON(items []query.MedicationView) ([]byte, error) {
	return json.MarshalIndent(items, "", "  ")
}

// Filename builds the download name for a given format.
func Filename(format string) string {
	ext := format
	if format == "excel" {
		ext = "csv"
	}
	return fmt.Sprintf("medicamentos_%s.%s", time.Now().Format("2006-01-02"), ext)
}

// itemFields flattens one record into export column order.
func itemFields(item query.MedicationView) []string {
	return []string{
		fmt.Sprintf("%d", item.ID),
		item.Name,
		item.RegistrationNumber,
		item.Holder,
		item.Cnpj,
		item.ProcessNumber,
		orEmpty(item.PublicationDate),
		orEmpty(item.LastUpdate),
	}
}

func orEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// escapeField quotes a field when it contains the delimiter, a quote or a
// newline, doubling any embedded quotes.
func escapeField(field string, delimiter byte) string {
	if !strings.ContainsAny(field, string(delimiter)+"\"\n\r") {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
