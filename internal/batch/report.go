package batch

import (
	"fmt"
	"strings"

	"github.com/skleinke/upsbatch/internal/models"
)

// ErrorReport renders a human-readable plain-text report of all invalid
// shipments and their validation findings.
func ErrorReport(shipments []*models.ShipmentRecord) string {
	var b strings.Builder
	b.WriteString("UPS Batch-Manager – Fehlerbericht\n")
	b.WriteString("=================================\n\n")

	invalid := 0
	for _, s := range shipments {
		if s.IsValid {
			continue
		}
		invalid++
		name := s.CompanyName
		if name == "" {
			name = "(ohne Firmenname)"
		}
		fmt.Fprintf(&b, "Sendung #%d – %s\n", s.ID, name)
		for _, e := range s.Errors {
			fmt.Fprintf(&b, "  [%s] %s\n", e.Field, e.Message)
		}
		b.WriteString("\n")
	}

	if invalid == 0 {
		b.WriteString("Keine fehlerhaften Sendungen.\n")
	} else {
		fmt.Fprintf(&b, "%d fehlerhafte Sendung(en) von %d insgesamt.\n", invalid, len(shipments))
	}
	return b.String()
}
