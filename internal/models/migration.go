package models

import (
	"fmt"
	"time"
)

// MigrationRecord is one entry in the persisted migration history.
type MigrationRecord struct {
	ID          string    `json:"id"`
	FromVersion string    `json:"from_version"`
	ToVersion   string    `json:"to_version"`
	Steps       []string  `json:"steps"`
	Timestamp   time.Time `json:"timestamp"`
	Success     bool      `json:"success"`
	Error       string    `json:"error,omitempty"`
	BackupFile  string    `json:"backup_file,omitempty"`
}

// NewMigrationRecord stamps a history entry for a migration attempt.
func NewMigrationRecord(from, to string, steps []string) *MigrationRecord {
	now := time.Now()
	return &MigrationRecord{
		ID:          fmt.Sprintf("%d", now.UnixNano()),
		FromVersion: from,
		ToVersion:   to,
		Steps:       steps,
		Timestamp:   now,
	}
}
