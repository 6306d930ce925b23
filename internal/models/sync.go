package models

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SyncRun states. A run is created in running state and transitions to exactly
// one terminal state; it is terminal once finished_at is set.
const (
	SyncRunRunning = "running"
	SyncRunSuccess = "success"
	SyncRunFailed  = "failed"
)

type SyncRun struct {
	ID            uuid.UUID
	Status        string
	SyncType      string
	TriggeredBy   string
	ModifiedAfter sql.NullTime
	StartedAt     time.Time
	FinishedAt    sql.NullTime
	FetchedCount  int
	InsertedCount int
	UpdatedCount  int
	SkippedCount  int
	ErrorCount    int
	ErrorDetails  json.RawMessage
	ErrorSummary  sql.NullString
}

// SyncStats carries the per-run counters reported back to the caller.
type SyncStats struct {
	Fetched  int `json:"fetched"`
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
	Errors   int `json:"errors"`
}

type ReminderConfig struct {
	Enabled            bool `json:"enabled"`
	FirstReminderDays  int  `json:"first_reminder_days"`
	SecondReminderDays int  `json:"second_reminder_days"`
	MaxReminders       int  `json:"max_reminders"`
}

// DefaultReminderConfig matches the behavior of a fresh installation.
func DefaultReminderConfig() ReminderConfig {
	return ReminderConfig{
		Enabled:            true,
		FirstReminderDays:  3,
		SecondReminderDays: 7,
		MaxReminders:       2,
	}
}

// AppSettings is the single well-known settings row (id = "default").
type AppSettings struct {
	ID               string
	CompanyName      string
	AccentColor      string
	LogoDataURL      sql.NullString
	EmailFromName    string
	EmailFromEmail   string
	StaffNotifyEmail sql.NullString
	ReminderConfig   json.RawMessage
	LastSync         sql.NullTime
	LastSyncAttempt  sql.NullTime
	LastSyncError    sql.NullString
	UpdatedAt        time.Time
}

// Reminders decodes the reminder configuration, falling back to defaults when
// the column is empty or malformed.
func (s *AppSettings) Reminders() ReminderConfig {
	cfg := DefaultReminderConfig()
	if len(s.ReminderConfig) == 0 {
		return cfg
	}
	if err := json.Unmarshal(s.ReminderConfig, &cfg); err != nil {
		return DefaultReminderConfig()
	}
	return cfg
}
