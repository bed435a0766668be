// Package core implements the application service layer of the UPS batch
// manager: shipment CRUD, import/export, the undo manager, and the schema
// version migrator. The CLI is a thin adapter over these functions.
package core

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/skleinke/upsbatch/internal/batch"
	"github.com/skleinke/upsbatch/internal/config"
	"github.com/skleinke/upsbatch/internal/models"
	"github.com/skleinke/upsbatch/internal/store"
	"github.com/skleinke/upsbatch/internal/validate"
)

// AddShipment fills defaults, assigns the next id, validates, persists, and
// logs. It never fails on invalid input: the record is stored flagged
// invalid with its error list attached.
func AddShipment(cfg *config.Config, st *store.Store, rec *models.ShipmentRecord) (*models.ShipmentRecord, error) {
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

	activity, err := logActivity(cfg, st, models.ActivityAdd,
		fmt.Sprintf("Sendung #%d (%s) hinzugefügt", rec.ID, displayName(rec)))
	if err != nil {
		return nil, err
	}
	if err := pushUndo(st, activity.ID, models.UndoShipmentCreated, idPayload{ID: rec.ID},
		fmt.Sprintf("Sendung #%d entfernen", rec.ID)); err != nil {
		return nil, err
	}

	return rec, nil
}

// UpdateShipment shallow-merges the patch onto the stored record,
// re-validates, persists, and logs. Returns nil (no error) when the id is
// unknown.
func UpdateShipment(cfg *config.Config, st *store.Store, id int, patch *models.ShipmentPatch) (*models.ShipmentRecord, error) {
	rec, err := st.GetShipment(id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}

	previous, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshal previous state: %w", err)
	}

	patch.Apply(rec)
	rec.UpdatedAt = time.Now()
	revalidate(rec)

	if err := st.SaveShipment(rec); err != nil {
		return nil, err
	}

	activity, err := logActivity(cfg, st, models.ActivityUpdate,
		fmt.Sprintf("Sendung #%d (%s) aktualisiert", rec.ID, displayName(rec)))
	if err != nil {
		return nil, err
	}
	if err := pushUndoRaw(st, activity.ID, models.UndoShipmentUpdated, previous,
		fmt.Sprintf("Sendung #%d auf vorherigen Stand zurücksetzen", rec.ID)); err != nil {
		return nil, err
	}

	return rec, nil
}

// DeleteShipment removes a shipment and reports whether one existed.
func DeleteShipment(cfg *config.Config, st *store.Store, id int) (bool, error) {
	rec, err := st.GetShipment(id)
	if err != nil {
		return false, err
	}
	if rec == nil {
		return false, nil
	}

	removed, err := st.DeleteShipment(id)
	if err != nil || !removed {
		return removed, err
	}

	activity, err := logActivity(cfg, st, models.ActivityDelete,
		fmt.Sprintf("Sendung #%d (%s) gelöscht", rec.ID, displayName(rec)))
	if err != nil {
		return true, err
	}
	err = pushUndo(st, activity.ID, models.UndoShipmentDeleted,
		[]*models.ShipmentRecord{rec},
		fmt.Sprintf("Sendung #%d wiederherstellen", rec.ID))
	return true, err
}

// DeleteShipments removes a batch of ids with a single activity entry and
// returns how many records existed.
func DeleteShipments(cfg *config.Config, st *store.Store, ids []int) (int, error) {
	var removed []*models.ShipmentRecord
	for _, id := range ids {
		rec, err := st.GetShipment(id)
		if err != nil {
			return 0, err
		}
		if rec != nil {
			removed = append(removed, rec)
		}
	}
	if len(removed) == 0 {
		return 0, nil
	}

	count, err := st.DeleteShipments(ids)
	if err != nil {
		return count, err
	}

	activity, err := logActivity(cfg, st, models.ActivityDelete,
		fmt.Sprintf("%d Sendungen gelöscht", count))
	if err != nil {
		return count, err
	}
	err = pushUndo(st, activity.ID, models.UndoShipmentDeleted, removed,
		fmt.Sprintf("%d Sendungen wiederherstellen", count))
	return count, err
}

// DuplicateShipment copies an existing shipment under a fresh id. Returns
// nil when the source id is unknown.
func DuplicateShipment(cfg *config.Config, st *store.Store, id int) (*models.ShipmentRecord, error) {
	src, err := st.GetShipment(id)
	if err != nil {
		return nil, err
	}
	if src == nil {
		return nil, nil
	}

	dup := *src
	newID, err := st.NextShipmentID()
	if err != nil {
		return nil, err
	}
	dup.ID = newID
	now := time.Now()
	dup.CreatedAt = now
	dup.UpdatedAt = now
	revalidate(&dup)

	if err := st.SaveShipment(&dup); err != nil {
		return nil, err
	}

	activity, err := logActivity(cfg, st, models.ActivityAdd,
		fmt.Sprintf("Sendung #%d als #%d dupliziert", src.ID, dup.ID))
	if err != nil {
		return nil, err
	}
	err = pushUndo(st, activity.ID, models.UndoShipmentDuplicated, idPayload{ID: dup.ID},
		fmt.Sprintf("Sendung #%d entfernen", dup.ID))
	return &dup, err
}

// ClearAllData deletes every shipment after snapshotting them for undo.
func ClearAllData(cfg *config.Config, st *store.Store) (int, error) {
	shipments, err := st.AllShipments()
	if err != nil {
		return 0, err
	}

	if err := st.ClearShipments(); err != nil {
		return 0, err
	}

	activity, err := logActivity(cfg, st, models.ActivityClear,
		fmt.Sprintf("Alle Daten gelöscht (%d Sendungen)", len(shipments)))
	if err != nil {
		return len(shipments), err
	}
	err = pushUndo(st, activity.ID, models.UndoDataCleared, shipments,
		fmt.Sprintf("%d Sendungen wiederherstellen", len(shipments)))
	return len(shipments), err
}

// ListFilter narrows and orders the shipment list.
type ListFilter struct {
	Search   string // case-insensitive substring over company/contact/city/address1
	Service  string // exact service type code
	Country  string // exact ISO-2 code
	Validity string // "", "valid" or "invalid"
	SortBy   string // internal field key, or id/created_at/updated_at
	SortDesc bool
}

// ListShipments returns a freshly allocated, filtered, and sorted slice;
// callers never alias internal storage.
func ListShipments(st *store.Store, filter ListFilter) ([]*models.ShipmentRecord, error) {
	all, err := st.AllShipments()
	if err != nil {
		return nil, err
	}

	result := make([]*models.ShipmentRecord, 0, len(all))
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	for _, rec := range all {
		if search != "" && !matchesSearch(rec, search) {
			continue
		}
		if filter.Service != "" && rec.ServiceType != filter.Service {
			continue
		}
		if filter.Country != "" && rec.Country != filter.Country {
			continue
		}
		switch filter.Validity {
		case "valid":
			if !rec.IsValid {
				continue
			}
		case "invalid":
			if rec.IsValid {
				continue
			}
		}
		result = append(result, rec)
	}

	if filter.SortBy != "" {
		sortShipments(result, filter.SortBy, filter.SortDesc)
	}
	return result, nil
}

func matchesSearch(rec *models.ShipmentRecord, search string) bool {
	for _, v := range []string{rec.CompanyName, rec.ContactName, rec.City, rec.Address1} {
		if strings.Contains(strings.ToLower(v), search) {
			return true
		}
	}
	return false
}

// sortShipments orders records with German collation for string fields and
// numeric comparison for id and weight.
func sortShipments(shipments []*models.ShipmentRecord, key string, desc bool) {
	col := collate.New(language.German)

	less := func(a, b *models.ShipmentRecord) bool {
		switch key {
		case "id":
			return a.ID < b.ID
		case "weight":
			return a.WeightKG() < b.WeightKG()
		case "created_at":
			return a.CreatedAt.Before(b.CreatedAt)
		case "updated_at":
			return a.UpdatedAt.Before(b.UpdatedAt)
		default:
			return col.CompareString(batch.FieldValue(a, key), batch.FieldValue(b, key)) < 0
		}
	}

	sort.SliceStable(shipments, func(i, j int) bool {
		if desc {
			return less(shipments[j], shipments[i])
		}
		return less(shipments[i], shipments[j])
	})
}

// Statistics summarizes the store contents.
type Statistics struct {
	Total           int
	Valid           int
	Invalid         int
	TotalWeightKG   float64 // normalized to kilograms, rounded to one decimal
	ValidPercentage int     // rounded to the nearest integer
}

// ComputeStatistics normalizes LB weights to kilograms before summing.
func ComputeStatistics(st *store.Store) (Statistics, error) {
	shipments, err := st.AllShipments()
	if err != nil {
		return Statistics{}, err
	}

	var stats Statistics
	var weight float64
	for _, rec := range shipments {
		stats.Total++
		if rec.IsValid {
			stats.Valid++
		} else {
			stats.Invalid++
		}
		weight += rec.WeightKG()
	}
	stats.TotalWeightKG = math.Round(weight*10) / 10
	if stats.Total > 0 {
		stats.ValidPercentage = int(math.Round(float64(stats.Valid) / float64(stats.Total) * 100))
	}
	return stats, nil
}

// ValidateAll re-runs validation over the whole store, persisting any
// records whose result changed, and returns the refreshed list.
func ValidateAll(st *store.Store) ([]*models.ShipmentRecord, error) {
	shipments, err := st.AllShipments()
	if err != nil {
		return nil, err
	}
	for _, rec := range shipments {
		wasValid, errCount := rec.IsValid, len(rec.Errors)
		revalidate(rec)
		if rec.IsValid != wasValid || len(rec.Errors) != errCount {
			if err := st.SaveShipment(rec); err != nil {
				return nil, err
			}
		}
	}
	return shipments, nil
}

// revalidate recomputes IsValid and Errors together; they are never set
// independently.
func revalidate(rec *models.ShipmentRecord) {
	result := validate.Validate(rec)
	if msg, ok := validate.CheckServiceCountry(rec.ServiceType, rec.Country); !ok {
		result.Errors = append(result.Errors, models.FieldError{Field: "service_type", Message: msg})
		result.IsValid = false
	}
	rec.IsValid = result.IsValid
	rec.Errors = result.Errors
}

// applyDefaults fills the documented field defaults: empty strings for text,
// weight 1, KG unit, and the configured country/service.
func applyDefaults(cfg *config.Config, rec *models.ShipmentRecord) {
	if rec.Country == "" {
		rec.Country = cfg.DefaultCountry
	}
	if rec.ServiceType == "" {
		rec.ServiceType = cfg.DefaultService
	}
	if rec.Unit == "" {
		rec.Unit = models.UnitOfMeasure(cfg.DefaultUnit)
	}
	if rec.Weight == 0 {
		rec.Weight = 1
	}
	if rec.PackagingType == "" {
		rec.PackagingType = "02" // customer supplied package
	}
	if rec.Errors == nil {
		rec.Errors = []models.FieldError{}
	}
}

func displayName(rec *models.ShipmentRecord) string {
	if rec.CompanyName != "" {
		return rec.CompanyName
	}
	if rec.ContactName != "" {
		return rec.ContactName
	}
	return "ohne Name"
}

// idPayload is the undo payload for created/duplicated shipments.
type idPayload struct {
	ID int `json:"id"`
}

// idsPayload is the undo payload for imports.
type idsPayload struct {
	IDs []int `json:"ids"`
}

// logActivity appends an activity entry tagged with the current user.
func logActivity(cfg *config.Config, st *store.Store, typ models.ActivityType, message string) (*models.ActivityRecord, error) {
	user, err := EnsureUser(cfg, st)
	if err != nil {
		return nil, err
	}
	activity := models.NewActivity(typ, message, user)
	if err := st.AppendActivity(activity); err != nil {
		return nil, err
	}
	return activity, nil
}

func pushUndo(st *store.Store, activityID string, action models.UndoActionType, payload any, description string) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal undo payload: %w", err)
	}
	return pushUndoRaw(st, activityID, action, raw, description)
}

func pushUndoRaw(st *store.Store, activityID string, action models.UndoActionType, payload json.RawMessage, description string) error {
	op := models.NewUndoOperation(activityID, action, models.UndoData{
		Type:        string(action),
		Payload:     payload,
		Description: description,
	})
	return st.PushUndo(op)
}
