package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"proofdeck-backend/internal/models"
)

const orderColumns = `id, external_id, order_number, platform, customer_email, customer_name,
	status, order_total, sku, product_name, quantity, product_image_url,
	customization_options, raw_data, customer_decision_at, customer_last_activity_at,
	customer_last_viewed_at, last_reminder_sent_at, reminder_count, created_at, updated_at`

func scanOrder(row interface{ Scan(...interface{}) error }) (*models.Order, error) {
	var o models.Order
	var customization, rawData []byte
	err := row.Scan(
		&o.ID, &o.ExternalID, &o.OrderNumber, &o.Platform, &o.CustomerEmail, &o.CustomerName,
		&o.Status, &o.OrderTotal, &o.SKU, &o.ProductName, &o.Quantity, &o.ProductImageURL,
		&customization, &rawData, &o.CustomerDecisionAt, &o.CustomerLastActivityAt,
		&o.CustomerLastViewedAt, &o.LastReminderSentAt, &o.ReminderCount, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.CustomizationOptions = customization
	o.RawData = rawData
	return &o, nil
}

// GetOrder returns (nil, nil) when the order does not exist.
func (s *Store) GetOrder(orderID uuid.UUID) (*models.Order, error) {
	row := s.db.QueryRow(`SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID)
	order, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

// GetOrderByExternalID looks up an imported order by its remote identity.
// Returns (nil, nil) when no local order matches.
func (s *Store) GetOrderByExternalID(externalID, platform string) (*models.Order, error) {
	row := s.db.QueryRow(
		`SELECT `+orderColumns+` FROM orders WHERE external_id = $1 AND platform = $2`,
		externalID, platform)
	order, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order by external id: %w", err)
	}
	return order, nil
}

func (s *Store) InsertOrder(o *models.Order) error {
	_, err := s.db.Exec(`
		INSERT INTO orders (id, external_id, order_number, platform, customer_email, customer_name,
			status, order_total, sku, product_name, quantity, product_image_url,
			customization_options, raw_data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`, o.ID, o.ExternalID, o.OrderNumber, o.Platform, o.CustomerEmail, o.CustomerName,
		o.Status, o.OrderTotal, o.SKU, o.ProductName, o.Quantity, o.ProductImageURL,
		jsonArg(o.CustomizationOptions), jsonArg(o.RawData), o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

// UpdateExternalOrder overwrites the external-derived fields of an imported
// order. Local workflow fields (decision timestamps, reminder bookkeeping)
// are untouched.
func (s *Store) UpdateExternalOrder(o *models.Order) error {
	_, err := s.db.Exec(`
		UPDATE orders
		SET order_number = $1, customer_email = $2, customer_name = $3, status = $4,
			order_total = $5, sku = $6, product_name = $7, quantity = $8,
			product_image_url = $9, customization_options = $10, raw_data = $11, updated_at = $12
		WHERE id = $13
	`, o.OrderNumber, o.CustomerEmail, o.CustomerName, o.Status,
		o.OrderTotal, o.SKU, o.ProductName, o.Quantity,
		o.ProductImageURL, jsonArg(o.CustomizationOptions), jsonArg(o.RawData), time.Now().UTC(),
		o.ID)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	return nil
}

func (s *Store) ListOrders(status string, limit int) ([]models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d`, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

func (s *Store) CountOrdersByPlatform(platform string) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM orders WHERE platform = $1`, platform).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}

func (s *Store) UpdateOrderStatus(orderID uuid.UUID, status string) error {
	_, err := s.db.Exec(`UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`, status, orderID)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	return nil
}

// PromoteDraft moves a draft order to open; a no-op for any other status.
func (s *Store) PromoteDraft(orderID uuid.UUID) error {
	_, err := s.db.Exec(
		`UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`,
		models.StatusOpen, orderID, models.StatusDraft)
	if err != nil {
		return fmt.Errorf("failed to promote draft order: %w", err)
	}
	return nil
}

// SetOrderDecision records a customer decision with its timestamps.
func (s *Store) SetOrderDecision(orderID uuid.UUID, decision string, decidedAt time.Time) error {
	_, err := s.db.Exec(`
		UPDATE orders
		SET status = $1, customer_decision_at = $2, customer_last_activity_at = $2, updated_at = NOW()
		WHERE id = $3
	`, decision, decidedAt, orderID)
	if err != nil {
		return fmt.Errorf("failed to record decision: %w", err)
	}
	return nil
}

func (s *Store) TouchCustomerViewed(orderID uuid.UUID, viewedAt time.Time) error {
	_, err := s.db.Exec(
		`UPDATE orders SET customer_last_viewed_at = $1, customer_last_activity_at = $1 WHERE id = $2`,
		viewedAt, orderID)
	if err != nil {
		return fmt.Errorf("failed to stamp customer view: %w", err)
	}
	return nil
}

// OrdersNeedingReminder returns proof_sent orders created before the cutoff
// that have not yet exhausted their reminder budget.
func (s *Store) OrdersNeedingReminder(createdBefore time.Time, maxReminders int) ([]models.Order, error) {
	rows, err := s.db.Query(`
		SELECT `+orderColumns+` FROM orders
		WHERE status = $1 AND created_at < $2 AND reminder_count < $3
		ORDER BY created_at ASC
	`, models.StatusProofSent, createdBefore, maxReminders)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders needing reminders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

func (s *Store) IncrementReminderCount(orderID uuid.UUID, sentAt time.Time) error {
	_, err := s.db.Exec(`
		UPDATE orders
		SET reminder_count = reminder_count + 1, last_reminder_sent_at = $1, updated_at = NOW()
		WHERE id = $2
	`, sentAt, orderID)
	if err != nil {
		return fmt.Errorf("failed to increment reminder count: %w", err)
	}
	return nil
}
