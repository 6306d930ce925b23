package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"proofdeck-backend/internal/models"
)

func (s *Store) CreateSyncRun(syncType, triggeredBy string) (*models.SyncRun, error) {
	run := &models.SyncRun{
		ID:          uuid.New(),
		Status:      models.SyncRunRunning,
		SyncType:    syncType,
		TriggeredBy: triggeredBy,
		StartedAt:   time.Now().UTC(),
	}
	_, err := s.db.Exec(`
		INSERT INTO sync_runs (id, status, sync_type, triggered_by, started_at)
		VALUES ($1, $2, $3, $4, $5)
	`, run.ID, run.Status, run.SyncType, run.TriggeredBy, run.StartedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create sync run: %w", err)
	}
	return run, nil
}

func (s *Store) SetSyncRunCutoff(runID uuid.UUID, modifiedAfter time.Time) error {
	_, err := s.db.Exec(`UPDATE sync_runs SET modified_after = $1 WHERE id = $2`, modifiedAfter, runID)
	if err != nil {
		return fmt.Errorf("failed to record sync cutoff: %w", err)
	}
	return nil
}

// FinishSyncRunSuccess marks the run terminal with its counters and at most
// the sampled per-order error strings passed in.
func (s *Store) FinishSyncRunSuccess(runID uuid.UUID, stats models.SyncStats, sampledErrors []string) error {
	var details interface{}
	if len(sampledErrors) > 0 {
		raw, err := json.Marshal(map[string][]string{"errors": sampledErrors})
		if err != nil {
			return fmt.Errorf("failed to encode error details: %w", err)
		}
		details = jsonArg(raw)
	}
	_, err := s.db.Exec(`
		UPDATE sync_runs
		SET status = $1, finished_at = NOW(), fetched_count = $2, inserted_count = $3,
			updated_count = $4, skipped_count = $5, error_count = $6, error_details = $7
		WHERE id = $8
	`, models.SyncRunSuccess, stats.Fetched, stats.Inserted, stats.Updated, stats.Skipped, stats.Errors, details, runID)
	if err != nil {
		return fmt.Errorf("failed to finish sync run: %w", err)
	}
	return nil
}

func (s *Store) FinishSyncRunFailure(runID uuid.UUID, summary string) error {
	_, err := s.db.Exec(`
		UPDATE sync_runs SET status = $1, finished_at = NOW(), error_summary = $2 WHERE id = $3
	`, models.SyncRunFailed, summary, runID)
	if err != nil {
		return fmt.Errorf("failed to mark sync run failed: %w", err)
	}
	return nil
}

func (s *Store) RecentSyncRuns(limit int) ([]models.SyncRun, error) {
	rows, err := s.db.Query(`
		SELECT id, status, sync_type, triggered_by, modified_after, started_at, finished_at,
			fetched_count, inserted_count, updated_count, skipped_count, error_count,
			error_details, error_summary
		FROM sync_runs
		ORDER BY started_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sync runs: %w", err)
	}
	defer rows.Close()

	var runs []models.SyncRun
	for rows.Next() {
		var r models.SyncRun
		var details []byte
		err := rows.Scan(&r.ID, &r.Status, &r.SyncType, &r.TriggeredBy, &r.ModifiedAfter,
			&r.StartedAt, &r.FinishedAt, &r.FetchedCount, &r.InsertedCount, &r.UpdatedCount,
			&r.SkippedCount, &r.ErrorCount, &details, &r.ErrorSummary)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sync run: %w", err)
		}
		r.ErrorDetails = details
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
