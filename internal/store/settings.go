package store

import (
	"database/sql"
	"fmt"
	"time"

	"proofdeck-backend/internal/models"
)

const settingsRowID = "default"

// GetSettings returns the single settings row, or an in-memory default when
// no row exists yet (fresh installation).
func (s *Store) GetSettings() (*models.AppSettings, error) {
	var st models.AppSettings
	var reminderConfig []byte
	err := s.db.QueryRow(`
		SELECT id, company_name, accent_color, logo_data_url, email_from_name, email_from_email,
			staff_notify_email, reminder_config, last_sync, last_sync_attempt, last_sync_error, updated_at
		FROM app_settings WHERE id = $1
	`, settingsRowID).Scan(
		&st.ID, &st.CompanyName, &st.AccentColor, &st.LogoDataURL, &st.EmailFromName, &st.EmailFromEmail,
		&st.StaffNotifyEmail, &reminderConfig, &st.LastSync, &st.LastSyncAttempt, &st.LastSyncError, &st.UpdatedAt,
	)
	st.ReminderConfig = reminderConfig
	if err == sql.ErrNoRows {
		return defaultSettings(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return &st, nil
}

func defaultSettings() *models.AppSettings {
	return &models.AppSettings{
		ID:             settingsRowID,
		CompanyName:    "Proofs",
		AccentColor:    "#1d3161",
		EmailFromName:  "Proofs",
		EmailFromEmail: "proofs@example.com",
		UpdatedAt:      time.Now().UTC(),
	}
}

// UpsertSettings writes the branding and cadence columns; sync bookkeeping
// columns are owned by RecordSyncSuccess/RecordSyncFailure and left alone.
func (s *Store) UpsertSettings(st *models.AppSettings) error {
	_, err := s.db.Exec(`
		INSERT INTO app_settings (id, company_name, accent_color, logo_data_url, email_from_name,
			email_from_email, staff_notify_email, reminder_config, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (id) DO UPDATE SET
			company_name = EXCLUDED.company_name,
			accent_color = EXCLUDED.accent_color,
			logo_data_url = EXCLUDED.logo_data_url,
			email_from_name = EXCLUDED.email_from_name,
			email_from_email = EXCLUDED.email_from_email,
			staff_notify_email = EXCLUDED.staff_notify_email,
			reminder_config = EXCLUDED.reminder_config,
			updated_at = NOW()
	`, settingsRowID, st.CompanyName, st.AccentColor, st.LogoDataURL, st.EmailFromName,
		st.EmailFromEmail, st.StaffNotifyEmail, jsonArg(st.ReminderConfig))
	if err != nil {
		return fmt.Errorf("failed to upsert settings: %w", err)
	}
	return nil
}

// RecordSyncSuccess stamps both sync timestamps and clears any stored error.
func (s *Store) RecordSyncSuccess(at time.Time) error {
	_, err := s.db.Exec(`
		INSERT INTO app_settings (id, last_sync, last_sync_attempt, last_sync_error, updated_at)
		VALUES ($1, $2, $2, NULL, NOW())
		ON CONFLICT (id) DO UPDATE SET
			last_sync = EXCLUDED.last_sync,
			last_sync_attempt = EXCLUDED.last_sync_attempt,
			last_sync_error = NULL,
			updated_at = NOW()
	`, settingsRowID, at)
	if err != nil {
		return fmt.Errorf("failed to record sync success: %w", err)
	}
	return nil
}

// RecordSyncFailure stamps only the attempt timestamp and the error text; the
// last successful sync timestamp is preserved.
func (s *Store) RecordSyncFailure(at time.Time, errMsg string) error {
	_, err := s.db.Exec(`
		INSERT INTO app_settings (id, last_sync_attempt, last_sync_error, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (id) DO UPDATE SET
			last_sync_attempt = EXCLUDED.last_sync_attempt,
			last_sync_error = EXCLUDED.last_sync_error,
			updated_at = NOW()
	`, settingsRowID, at, errMsg)
	if err != nil {
		return fmt.Errorf("failed to record sync failure: %w", err)
	}
	return nil
}
