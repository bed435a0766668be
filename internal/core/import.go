package core

import (
	"fmt"
	"os"
	"time"

	"github.com/skleinke/upsbatch/internal/batch"
	"github.com/skleinke/upsbatch/internal/config"
	"github.com/skleinke/upsbatch/internal/models"
	"github.com/skleinke/upsbatch/internal/store"
)

// RowError is one collected import failure, referencing the physical line
// number in the file (1-indexed, header included).
type RowError struct {
	Line    int
	Message string
}

// ImportResult summarizes a batch import. Errors never abort the batch:
// a bad row is recorded and the rest keeps importing.
type ImportResult struct {
	Success   bool
	Imported  int
	Errors    []RowError
	Shipments []*models.ShipmentRecord
}

// DefaultImportTimeout bounds the file read during import.
const DefaultImportTimeout = 30 * time.Second

// ImportFile reads a batch file (10MB cap, delimiter inferred from the
// extension) and imports its rows. The read is bounded by timeout and
// aborted with an error when it elapses.
func ImportFile(cfg *config.Config, st *store.Store, path string, timeout time.Duration) (*ImportResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > batch.MaxImportSize {
		return nil, fmt.Errorf("Datei ist zu groß (max. 10 MB)")
	}

	text, err := readFileWithTimeout(path, timeout)
	if err != nil {
		return nil, err
	}

	return ImportDelimited(cfg, st, text, batch.InferDelimiter(path))
}

// readFileWithTimeout reads the whole file, giving up after the timeout.
// The read itself runs in a goroutine; on timeout its result is discarded.
func readFileWithTimeout(path string, timeout time.Duration) (string, error) {
	if timeout <= 0 {
		timeout = DefaultImportTimeout
	}

	type readResult struct {
		data []byte
		err  error
	}
	done := make(chan readResult, 1)
	go func() {
		data, err := os.ReadFile(path)
		done <- readResult{data, err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return "", res.err
		}
		return string(res.data), nil
	case <-time.After(timeout):
		return "", fmt.Errorf("Zeitüberschreitung beim Lesen der Datei")
	}
}

// ImportDelimited parses delimited text and bulk-inserts the rows. The first
// line must be a header row; rows with neither company name nor address 1
// are skipped silently; malformed rows are collected as errors with their
// line number and never stop the batch.
func ImportDelimited(cfg *config.Config, st *store.Store, text string, delim rune) (*ImportResult, error) {
	result := &ImportResult{}

	lines := batch.SplitLines(text)
	if len(lines) < 1 {
		return nil, fmt.Errorf("Datei ist leer")
	}

	headers, err := batch.ParseLine(lines[0], delim)
	if err != nil {
		return nil, fmt.Errorf("Kopfzeile konnte nicht gelesen werden: %w", err)
	}
	fieldMap := batch.BuildFieldMap(headers)
	if len(fieldMap) == 0 {
		return nil, fmt.Errorf("keine bekannten Spalten in der Kopfzeile gefunden")
	}

	var importedIDs []int
	for i, line := range lines[1:] {
		lineNo := i + 2 // 1-indexed, header is line 1
		if line == "" {
			continue
		}

		row, err := batch.ParseLine(line, delim)
		if err != nil {
			result.Errors = append(result.Errors, RowError{Line: lineNo, Message: err.Error()})
			continue
		}

		data := batch.MapRow(fieldMap, row)
		if data["company_name"] == "" && data["address1"] == "" {
			// Not an error: blank/filler rows are expected in hand-edited files
			continue
		}

		rec := &models.ShipmentRecord{}
		if err := batch.ApplyRow(rec, data); err != nil {
			result.Errors = append(result.Errors, RowError{Line: lineNo, Message: err.Error()})
			continue
		}

		added, err := addImported(cfg, st, rec)
		if err != nil {
			return nil, err
		}
		result.Shipments = append(result.Shipments, added)
		importedIDs = append(importedIDs, added.ID)
		result.Imported++
	}

	result.Success = result.Imported > 0

	if result.Imported > 0 {
		activity, err := logActivity(cfg, st, models.ActivityImport,
			fmt.Sprintf("%d Sendungen importiert", result.Imported))
		if err != nil {
			return result, err
		}
		if err := pushUndo(st, activity.ID, models.UndoCSVImported, idsPayload{IDs: importedIDs},
			fmt.Sprintf("%d importierte Sendungen entfernen", len(importedIDs))); err != nil {
			return result, err
		}
	}

	return result, nil
}

// addImported persists one imported row without the per-record activity and
// undo entries; the import logs a single batched activity instead.
func addImported(cfg *config.Config, st *store.Store, rec *models.ShipmentRecord) (*models.ShipmentRecord, error) {
	applyDefaults(cfg, rec)

	id, err := st.NextShipmentID()
	if err != nil {
		return nil, err
	}
	rec.ID = id
	now := time.Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	revalidate(rec)

	if err := st.SaveShipment(rec); err != nil {
		return nil, err
	}
	return rec, nil
}
