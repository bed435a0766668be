package core

import (
	"encoding/json"
	"fmt"

	"github.com/skleinke/upsbatch/internal/config"
	"github.com/skleinke/upsbatch/internal/models"
	"github.com/skleinke/upsbatch/internal/store"
)

// PerformUndo reverses the mutation recorded under an activity id. Returns
// false when no undo operation exists for the id or it was already consumed;
// a successful undo marks the operation used, so a second call is a no-op.
func PerformUndo(cfg *config.Config, st *store.Store, activityID string) (bool, error) {
	op, err := st.UndoByActivityID(activityID)
	if err != nil {
		return false, err
	}
	if op == nil || op.Used {
		return false, nil
	}

	if err := applyUndo(st, op); err != nil {
		return false, fmt.Errorf("Rückgängig fehlgeschlagen: %w", err)
	}

	if err := st.MarkUndoUsed(op.ID); err != nil {
		return false, err
	}

	_, err = logActivity(cfg, st, models.ActivityUndo,
		fmt.Sprintf("Rückgängig gemacht: %s", op.Data.Description))
	return true, err
}

// applyUndo re-applies the inverse mutation through the store's own
// operations; the undo manager never touches shipment state directly.
func applyUndo(st *store.Store, op *models.UndoOperation) error {
	switch op.ActionType {
	case models.UndoShipmentCreated, models.UndoShipmentDuplicated:
		var payload idPayload
		if err := json.Unmarshal(op.Data.Payload, &payload); err != nil {
			return err
		}
		_, err := st.DeleteShipment(payload.ID)
		return err

	case models.UndoShipmentUpdated:
		var previous models.ShipmentRecord
		if err := json.Unmarshal(op.Data.Payload, &previous); err != nil {
			return err
		}
		return st.RestoreShipments([]*models.ShipmentRecord{&previous})

	case models.UndoShipmentDeleted, models.UndoDataCleared:
		var removed []*models.ShipmentRecord
		if err := json.Unmarshal(op.Data.Payload, &removed); err != nil {
			return err
		}
		return st.RestoreShipments(removed)

	case models.UndoCSVImported:
		var payload idsPayload
		if err := json.Unmarshal(op.Data.Payload, &payload); err != nil {
			return err
		}
		_, err := st.DeleteShipments(payload.IDs)
		return err
	}
	return fmt.Errorf("unknown undo action type: %s", op.ActionType)
}
