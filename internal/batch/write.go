package batch

import (
	"strings"

	"github.com/skleinke/upsbatch/internal/models"
)

// WriteOptions controls delimited batch serialization.
type WriteOptions struct {
	Delimiter      rune
	IncludeHeaders bool
}

// FormatField wraps the value in double quotes iff it contains the delimiter,
// a quote, or a newline; embedded quotes are escaped by doubling. Anything
// else is returned unescaped.
func FormatField(value string, delim rune) string {
	if !strings.ContainsAny(value, string(delim)+"\"\n\r") {
		return value
	}
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

// WriteBatch serializes shipments into delimited text in the fixed UPS field
// order, one shipment per line.
func WriteBatch(shipments []*models.ShipmentRecord, opts WriteOptions) string {
	delim := opts.Delimiter
	if delim == 0 {
		delim = ','
	}

	var b strings.Builder
	if opts.IncludeHeaders {
		writeRow(&b, headerRow(), delim)
	}
	for _, s := range shipments {
		row := make([]string, len(fields))
		for i, f := range fields {
			row[i] = FieldValue(s, f.Key)
		}
		writeRow(&b, row, delim)
	}
	return b.String()
}

func headerRow() []string {
	row := make([]string, len(fields))
	for i, f := range fields {
		row[i] = f.Name
	}
	return row
}

func writeRow(b *strings.Builder, row []string, delim rune) {
	for i, cell := range row {
		if i > 0 {
			b.WriteRune(delim)
		}
		b.WriteString(FormatField(cell, delim))
	}
	b.WriteString("\n")
}
