package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"proofdeck-backend/internal/models"
)

// UpsertMagicLink replaces any prior link for the order: one active link per
// order, keyed on order_id.
func (s *Store) UpsertMagicLink(orderID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	_, err := s.db.Exec(`
		INSERT INTO magic_links (order_id, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (order_id)
		DO UPDATE SET token_hash = EXCLUDED.token_hash, expires_at = EXCLUDED.expires_at, created_at = NOW()
	`, orderID, tokenHash, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to upsert magic link: %w", err)
	}
	return nil
}

// GetMagicLinkByHash returns (nil, nil) when no link matches the hash.
func (s *Store) GetMagicLinkByHash(tokenHash string) (*models.MagicLink, error) {
	var link models.MagicLink
	err := s.db.QueryRow(`
		SELECT order_id, token_hash, expires_at, created_at
		FROM magic_links WHERE token_hash = $1
	`, tokenHash).Scan(&link.OrderID, &link.TokenHash, &link.ExpiresAt, &link.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get magic link: %w", err)
	}
	return &link, nil
}

// GetMagicLink returns the order's active link, or (nil, nil) when absent.
func (s *Store) GetMagicLink(orderID uuid.UUID) (*models.MagicLink, error) {
	var link models.MagicLink
	err := s.db.QueryRow(`
		SELECT order_id, token_hash, expires_at, created_at
		FROM magic_links WHERE order_id = $1
	`, orderID).Scan(&link.OrderID, &link.TokenHash, &link.ExpiresAt, &link.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get magic link: %w", err)
	}
	return &link, nil
}
