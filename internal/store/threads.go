package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"proofdeck-backend/internal/models"
)

// GetOrCreateThread returns the order's message thread id, creating the
// thread on first use.
func (s *Store) GetOrCreateThread(orderID uuid.UUID) (uuid.UUID, error) {
	var threadID uuid.UUID
	err := s.db.QueryRow(`SELECT id FROM threads WHERE order_id = $1`, orderID).Scan(&threadID)
	if err == nil {
		return threadID, nil
	}
	if err != sql.ErrNoRows {
		return uuid.Nil, fmt.Errorf("failed to get thread: %w", err)
	}

	threadID = uuid.New()
	_, err = s.db.Exec(`
		INSERT INTO threads (id, order_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (order_id) DO NOTHING
	`, threadID, orderID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create thread: %w", err)
	}

	// Re-read in case a concurrent insert won the conflict.
	if err := s.db.QueryRow(`SELECT id FROM threads WHERE order_id = $1`, orderID).Scan(&threadID); err != nil {
		return uuid.Nil, fmt.Errorf("failed to get thread after create: %w", err)
	}
	return threadID, nil
}

func (s *Store) CreateMessage(threadID uuid.UUID, authorType, authorName, body string) error {
	_, err := s.db.Exec(`
		INSERT INTO messages (id, thread_id, author_type, author_name, body, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, uuid.New(), threadID, authorType, authorName, body, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// ListMessages returns an order's thread messages oldest first.
func (s *Store) ListMessages(orderID uuid.UUID) ([]models.Message, error) {
	rows, err := s.db.Query(`
		SELECT m.id, m.thread_id, m.author_type, m.author_name, m.body, m.created_at
		FROM messages m
		JOIN threads t ON t.id = m.thread_id
		WHERE t.order_id = $1
		ORDER BY m.created_at ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.ThreadID, &m.AuthorType, &m.AuthorName, &m.Body, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
