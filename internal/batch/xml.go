package batch

import (
	"encoding/xml"
	"strings"

	"github.com/skleinke/upsbatch/internal/models"
)

// umlauts transliterates German characters before slugging so tag names stay
// plain ASCII.
var umlauts = strings.NewReplacer(
	"ä", "ae", "ö", "oe", "ü", "ue", "ß", "ss",
	"Ä", "ae", "Ö", "oe", "Ü", "ue",
)

// SlugifyLabel turns a field label into an XML tag name: transliterated,
// lowercased, with runs of non-alphanumerics collapsed to one underscore.
func SlugifyLabel(label string) string {
	s := strings.ToLower(umlauts.Replace(label))
	var b strings.Builder
	lastUnderscore := true // swallow leading separators
	for _, c := range s {
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			b.WriteRune(c)
			lastUnderscore = false
		} else if !lastUnderscore {
			b.WriteRune('_')
			lastUnderscore = true
		}
	}
	return strings.TrimRight(b.String(), "_")
}

// WriteXML serializes shipments as a minimal flat XML document with one
// <shipment> element per record. Tag names are slugified field labels;
// empty values are omitted.
func WriteXML(shipments []*models.ShipmentRecord) string {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString("<shipments>\n")
	for _, s := range shipments {
		b.WriteString("  <shipment>\n")
		for _, f := range fields {
			if f.Key == "" {
				continue
			}
			value := FieldValue(s, f.Key)
			if value == "" {
				continue
			}
			tag := SlugifyLabel(f.Label)
			b.WriteString("    <" + tag + ">")
			xml.EscapeText(&b, []byte(value))
			b.WriteString("</" + tag + ">\n")
		}
		b.WriteString("  </shipment>\n")
	}
	b.WriteString("</shipments>\n")
	return b.String()
}
