package store

import (
	"fmt"

	"github.com/google/uuid"
	"proofdeck-backend/internal/models"
)

// NextProofVersionNumber returns max existing version + 1 for an order.
func (s *Store) NextProofVersionNumber(orderID uuid.UUID) (int, error) {
	var next int
	err := s.db.QueryRow(
		`SELECT COALESCE(MAX(version_number), 0) + 1 FROM proof_versions WHERE order_id = $1`,
		orderID).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("failed to compute next version number: %w", err)
	}
	return next, nil
}

func (s *Store) CreateProofVersion(v *models.ProofVersion) error {
	_, err := s.db.Exec(`
		INSERT INTO proof_versions (id, order_id, version_number, staff_note, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, v.ID, v.OrderID, v.VersionNumber, v.StaffNote, v.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create proof version: %w", err)
	}
	return nil
}

func (s *Store) CreateProofFile(f *models.ProofFile) error {
	_, err := s.db.Exec(`
		INSERT INTO proof_files (id, version_id, filename, mime_type, original_path, preview_path, sort_order, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, f.ID, f.VersionID, f.Filename, f.MimeType, f.OriginalPath, f.PreviewPath, f.SortOrder, f.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create proof file: %w", err)
	}
	return nil
}

// DeleteProofVersion removes a version row; proof_files rows cascade. Used
// only by the upload rollback path.
func (s *Store) DeleteProofVersion(versionID uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM proof_versions WHERE id = $1`, versionID)
	if err != nil {
		return fmt.Errorf("failed to delete proof version: %w", err)
	}
	return nil
}

func (s *Store) CountProofVersions(orderID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM proof_versions WHERE order_id = $1`, orderID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count proof versions: %w", err)
	}
	return count, nil
}

// ListProofVersions returns an order's versions newest first.
func (s *Store) ListProofVersions(orderID uuid.UUID) ([]models.ProofVersion, error) {
	rows, err := s.db.Query(`
		SELECT id, order_id, version_number, staff_note, created_at
		FROM proof_versions
		WHERE order_id = $1
		ORDER BY version_number DESC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list proof versions: %w", err)
	}
	defer rows.Close()

	var versions []models.ProofVersion
	for rows.Next() {
		var v models.ProofVersion
		if err := rows.Scan(&v.ID, &v.OrderID, &v.VersionNumber, &v.StaffNote, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan proof version: %w", err)
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

func (s *Store) ListProofFiles(versionID uuid.UUID) ([]models.ProofFile, error) {
	rows, err := s.db.Query(`
		SELECT id, version_id, filename, mime_type, original_path, preview_path, sort_order, created_at
		FROM proof_files
		WHERE version_id = $1
		ORDER BY sort_order ASC
	`, versionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list proof files: %w", err)
	}
	defer rows.Close()

	var files []models.ProofFile
	for rows.Next() {
		var f models.ProofFile
		if err := rows.Scan(&f.ID, &f.VersionID, &f.Filename, &f.MimeType, &f.OriginalPath, &f.PreviewPath, &f.SortOrder, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan proof file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}
