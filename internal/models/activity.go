package models

import (
	"fmt"
	"time"
)

// ActivityType classifies a store mutation in the activity log.
type ActivityType string

const (
	ActivityAdd       ActivityType = "add"
	ActivityUpdate    ActivityType = "update"
	ActivityDelete    ActivityType = "delete"
	ActivityImport    ActivityType = "import"
	ActivityExport    ActivityType = "export"
	ActivityClear     ActivityType = "clear"
	ActivityDownload  ActivityType = "download"
	ActivityMigration ActivityType = "migration"
	ActivityUndo      ActivityType = "undo"
)

// ActivityRetention caps the activity log; the oldest entries are dropped on
// overflow.
const ActivityRetention = 50

// activityTimeLayout is the German-locale display format for log entries.
const activityTimeLayout = "02.01.2006, 15:04"

// ActivityRecord is one append-only log entry describing a store mutation.
type ActivityRecord struct {
	ID        string       `json:"id"`
	Type      ActivityType `json:"type"`
	Message   string       `json:"message"`
	Timestamp time.Time    `json:"timestamp"`
	Time      string       `json:"time"` // localized display string
	User      string       `json:"user,omitempty"`
}

// NewActivity builds an activity entry with a timestamp-based id and the
// localized display time filled in.
func NewActivity(typ ActivityType, message, user string) *ActivityRecord {
	now := time.Now()
	return &ActivityRecord{
		ID:        fmt.Sprintf("%d", now.UnixNano()),
		Type:      typ,
		Message:   message,
		Timestamp: now,
		Time:      now.Format(activityTimeLayout),
		User:      user,
	}
}
