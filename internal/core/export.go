package core

import (
	"fmt"

	"github.com/skleinke/upsbatch/internal/batch"
	"github.com/skleinke/upsbatch/internal/config"
	"github.com/skleinke/upsbatch/internal/models"
	"github.com/skleinke/upsbatch/internal/store"
)

// ExportOptions selects the record set and output format.
type ExportOptions struct {
	OnlyValid      bool
	Format         string // csv, ssv or xml
	IncludeHeaders bool
}

// ExportBatch serializes the selected shipments in the fixed UPS field
// order. The empty-selection case is the one precondition in the store that
// fails loudly: callers are expected to catch it and notify.
func ExportBatch(cfg *config.Config, st *store.Store, opts ExportOptions) (string, error) {
	shipments, err := st.AllShipments()
	if err != nil {
		return "", err
	}

	if opts.OnlyValid {
		valid := shipments[:0]
		for _, rec := range shipments {
			if rec.IsValid {
				valid = append(valid, rec)
			}
		}
		shipments = valid
	}

	if len(shipments) == 0 {
		return "", fmt.Errorf("keine Sendungen zum Exportieren")
	}

	var out string
	switch opts.Format {
	case "xml":
		out = batch.WriteXML(shipments)
	case "ssv":
		out = batch.WriteBatch(shipments, batch.WriteOptions{
			Delimiter:      ';',
			IncludeHeaders: opts.IncludeHeaders,
		})
	case "", "csv":
		out = batch.WriteBatch(shipments, batch.WriteOptions{
			Delimiter:      ',',
			IncludeHeaders: opts.IncludeHeaders,
		})
	default:
		return "", fmt.Errorf("unbekanntes Exportformat: %s", opts.Format)
	}

	if _, err := logActivity(cfg, st, models.ActivityExport,
		fmt.Sprintf("%d Sendungen exportiert (%s)", len(shipments), formatName(opts.Format))); err != nil {
		return "", err
	}
	return out, nil
}

// ExportErrorReport renders the plain-text validation report.
func ExportErrorReport(cfg *config.Config, st *store.Store) (string, error) {
	shipments, err := st.AllShipments()
	if err != nil {
		return "", err
	}
	report := batch.ErrorReport(shipments)
	if _, err := logActivity(cfg, st, models.ActivityDownload, "Fehlerbericht erstellt"); err != nil {
		return "", err
	}
	return report, nil
}

// LogDownload records a batch file landing on disk.
func LogDownload(cfg *config.Config, st *store.Store, filename string) (*models.ActivityRecord, error) {
	return logActivity(cfg, st, models.ActivityDownload,
		fmt.Sprintf("Batch-Datei %s heruntergeladen", filename))
}

func formatName(format string) string {
	if format == "" {
		return "csv"
	}
	return format
}
