package store

import (
	"fmt"

	"github.com/google/uuid"
	"proofdeck-backend/internal/models"
)

// CreateAuditEvent appends to the audit log. Rows are never updated or
// deleted. Metadata must not contain raw tokens or secrets.
func (s *Store) CreateAuditEvent(ev *models.AuditEvent) error {
	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}
	_, err := s.db.Exec(`
		INSERT INTO audit_events (id, order_id, actor_type, event_type, metadata, ip, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`, ev.ID, ev.OrderID, ev.ActorType, ev.EventType, jsonArg(ev.Metadata), ev.IP, ev.UserAgent)
	if err != nil {
		return fmt.Errorf("failed to create audit event: %w", err)
	}
	return nil
}
