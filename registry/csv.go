// Package registry parses and normalizes the ANVISA bulletin status CSV
// into medication records. The source file is published by the regulator and
// is occasionally irregular, so parsing is tolerant: malformed input is
// normalized, never rejected, and a bad row never fails the batch.
package registry

import "strings"

// RawRow maps a header column name to the raw string value of one source
// line. Rows are transient and discarded right after normalization.
type RawRow map[string]string

// ParseCSV turns the full text of a delimited file into one RawRow per
// non-blank data line, in source order.
//
// The first non-blank line is the header; its fields become the column keys.
// Quoted fields may contain the delimiter, and a doubled quote inside a
// quoted field is a literal quote. Rows with fewer fields than headers are
// padded with empty strings, rows with more are truncated.
func ParseCSV(content string) []RawRow {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")

	headers := []string(nil)
	body := []string(nil)
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		headers = headerFields(line)
		body = lines[i+1:]
		break
	}
	if len(headers) == 0 {
		return nil
	}

	rows := make([]RawRow, 0, len(body))
	for _, line := range body {
		if strings.TrimSpace(line) == "" {
			continue
		}

		values := splitFields(line)
		row := make(RawRow, len(headers))
		for i, header := range headers {
			if i < len(values) {
				row[header] = strings.TrimSpace(values[i])
			} else {
				row[header] = ""
			}
		}
		rows = append(rows, row)
	}

	return rows
}

// headerFields normalizes the header line: each field is trimmed and one
// layer of surrounding quote characters is stripped.
func headerFields(line string) []string {
	fields := splitFields(line)
	for i, field := range fields {
		field = strings.TrimSpace(field)
		field = strings.TrimPrefix(field, `"`)
		field = strings.TrimSuffix(field, `"`)
		fields[i] = strings.TrimSpace(field)
	}
	return fields
}

// splitFields splits one line on commas, honoring quoted fields. Enclosing
// quotes are consumed and `""` inside a quoted field yields a literal quote.
// An unbalanced quote simply keeps the rest of the line in the field.
func splitFields(line string) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				current.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case c == ',' && !inQuotes:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}
	fields = append(fields, current.String())

	return fields
}
