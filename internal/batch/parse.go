package batch

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Import limits for batch files.
const MaxImportSize = 10 << 20 // 10MB

// InferDelimiter picks the field delimiter from the file extension:
// .ssv is semicolon-delimited, .csv and .txt default to comma.
func InferDelimiter(filename string) rune {
	if strings.EqualFold(filepath.Ext(filename), ".ssv") {
		return ';'
	}
	return ','
}

// ParseLine splits one physical line into trimmed fields using a single-pass
// character scan. A double quote toggles the in-quotes flag; the delimiter
// only splits outside quotes; a doubled quote inside quotes is a literal
// quote. Quoted fields never span physical lines; a dangling quote is a
// parse error for the row.
func ParseLine(line string, delim rune) ([]string, error) {
	var (
		fields   []string
		current  strings.Builder
		inQuotes bool
	)

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case c == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				current.WriteRune('"')
				i++
				continue
			}
			inQuotes = !inQuotes
		case c == delim && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(c)
		}
	}

	if inQuotes {
		return nil, fmt.Errorf("nicht geschlossenes Anführungszeichen")
	}

	fields = append(fields, strings.TrimSpace(current.String()))
	return fields, nil
}

// BuildFieldMap maps column indexes to internal shipment keys by matching
// each header cell against the canonical field table. Cells are lowercased
// and stripped of quote characters, then compared by substring containment
// against the canonical name and the German label. The table is iterated
// front to back and the first match wins, so the mapping is deterministic.
// Columns matching an unmanaged field, or nothing, are dropped.
func BuildFieldMap(headers []string) map[int]string {
	fieldMap := make(map[int]string)

	for col, cell := range headers {
		norm := normalizeHeader(cell)
		if norm == "" {
			continue
		}
		for _, f := range fields {
			if matchHeader(norm, strings.ToLower(f.Name)) || matchHeader(norm, strings.ToLower(f.Label)) {
				if f.Key != "" {
					fieldMap[col] = f.Key
				}
				break
			}
		}
	}
	return fieldMap
}

func normalizeHeader(cell string) string {
	return strings.TrimSpace(strings.ToLower(strings.ReplaceAll(cell, `"`, "")))
}

// matchHeader accepts containment in either direction so that both "Company"
// (shorter than the canonical name) and "Weight (kg)" (longer) map.
func matchHeader(cell, canonical string) bool {
	if cell == "" || canonical == "" {
		return false
	}
	return strings.Contains(canonical, cell) || strings.Contains(cell, canonical)
}

// MapRow projects a parsed row through the field map. Only columns present
// in the map and non-empty in the row populate the result.
func MapRow(fieldMap map[int]string, row []string) map[string]string {
	data := make(map[string]string)
	for col, key := range fieldMap {
		if col >= len(row) {
			continue
		}
		if v := row[col]; v != "" {
			data[key] = v
		}
	}
	return data
}

// SplitLines splits raw import text into physical lines, tolerating both
// Unix and Windows line endings and dropping a trailing empty line.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
