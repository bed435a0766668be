package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// UndoActionType is the fixed allow-list of reversible mutations.
type UndoActionType string

const (
	UndoShipmentCreated    UndoActionType = "shipment_created"
	UndoShipmentUpdated    UndoActionType = "shipment_updated"
	UndoShipmentDeleted    UndoActionType = "shipment_deleted"
	UndoShipmentDuplicated UndoActionType = "shipment_duplicated"
	UndoCSVImported        UndoActionType = "csv_imported"
	UndoDataCleared        UndoActionType = "data_cleared"
)

// KnownUndoAction reports whether t is on the allow-list.
func KnownUndoAction(t UndoActionType) bool {
	switch t {
	case UndoShipmentCreated, UndoShipmentUpdated, UndoShipmentDeleted,
		UndoShipmentDuplicated, UndoCSVImported, UndoDataCleared:
		return true
	}
	return false
}

// Undo stack retention: newest-first cap, plus an age limit purged on access.
const (
	UndoRetention = 50
	UndoMaxAge    = 7 * 24 * time.Hour
)

// UndoData holds the snapshot needed to reverse a mutation.
type UndoData struct {
	Type        string          `json:"type"`
	Payload     json.RawMessage `json:"payload"`
	Description string          `json:"description"`
}

// UndoOperation is one reversible record of a prior mutation. Operations are
// single-use: Used is set once the operation is consumed and it is never
// resurrected afterwards.
type UndoOperation struct {
	ID         string         `json:"id"`
	ActivityID string         `json:"activity_id"`
	ActionType UndoActionType `json:"action_type"`
	Data       UndoData       `json:"undo_data"`
	Used       bool           `json:"used"`
	Timestamp  time.Time      `json:"timestamp"`
}

// NewUndoOperation links a reversible snapshot to the activity entry that
// recorded the mutation.
func NewUndoOperation(activityID string, action UndoActionType, data UndoData) *UndoOperation {
	return &UndoOperation{
		ID:         uuid.NewString(),
		ActivityID: activityID,
		ActionType: action,
		Data:       data,
		Timestamp:  time.Now(),
	}
}

// Expired reports whether the operation has aged out of the undo window.
func (u *UndoOperation) Expired(now time.Time) bool {
	return now.Sub(u.Timestamp) > UndoMaxAge
}
