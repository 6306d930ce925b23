package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"proofdeck-backend/internal/models"
	"proofdeck-backend/internal/notify"
)

// ReminderStore is the slice of the store the reminder pass needs.
type ReminderStore interface {
	GetSettings() (*models.AppSettings, error)
	OrdersNeedingReminder(createdBefore time.Time, maxReminders int) ([]models.Order, error)
	GetMagicLink(orderID uuid.UUID) (*models.MagicLink, error)
	IncrementReminderCount(orderID uuid.UUID, sentAt time.Time) error
	CreateAuditEvent(ev *models.AuditEvent) error
}

// ReminderResult summarizes one reminder pass.
type ReminderResult struct {
	Enabled bool     `json:"enabled"`
	Checked int      `json:"checked"`
	Sent    int      `json:"sent"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

type ReminderService struct {
	store  ReminderStore
	mailer notify.Mailer
	now    func() time.Time
}

func NewReminderService(store ReminderStore, mailer notify.Mailer) *ReminderService {
	return &ReminderService{store: store, mailer: mailer, now: func() time.Time { return time.Now().UTC() }}
}

// Run sends due reminders for orders still awaiting a decision. Per-order
// failures are counted but never abort the pass.
func (r *ReminderService) Run() (*ReminderResult, error) {
	settings, err := r.store.GetSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	cfg := settings.Reminders()
	if !cfg.Enabled {
		return &ReminderResult{Enabled: false}, nil
	}

	now := r.now()
	cutoff := now.Add(-time.Duration(cfg.FirstReminderDays) * 24 * time.Hour)
	orders, err := r.store.OrdersNeedingReminder(cutoff, cfg.MaxReminders)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	result := &ReminderResult{Enabled: true, Checked: len(orders)}
	for i := range orders {
		order := &orders[i]
		if !r.reminderDue(order, cfg, now) {
			result.Skipped++
			continue
		}

		link, err := r.store.GetMagicLink(order.ID)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("order %s: %v", order.OrderNumber, err))
			log.Printf("failed to load proof link for order %s: %v", order.ID, err)
			continue
		}
		// A customer with an expired or missing link cannot act on a
		// reminder, so none is sent.
		if link == nil || now.After(link.ExpiresAt) {
			result.Skipped++
			continue
		}

		if err := r.mailer.SendReminder(order.CustomerEmail, order, settings); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("order %s: %v", order.OrderNumber, err))
			log.Printf("failed to send reminder for order %s: %v", order.ID, err)
			continue
		}
		if err := r.store.IncrementReminderCount(order.ID, now); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("order %s: %v", order.OrderNumber, err))
			log.Printf("failed to record reminder for order %s: %v", order.ID, err)
			continue
		}

		metadata, _ := json.Marshal(map[string]interface{}{
			"reminder_number": order.ReminderCount + 1,
		})
		if err := r.store.CreateAuditEvent(&models.AuditEvent{
			OrderID:   uuid.NullUUID{UUID: order.ID, Valid: true},
			ActorType: models.ActorSystem,
			EventType: "reminder_sent",
			Metadata:  metadata,
		}); err != nil {
			log.Printf("failed to record audit event for order %s: %v", order.ID, err)
		}
		result.Sent++
	}

	log.Printf("reminder pass complete: checked=%d sent=%d skipped=%d errors=%d",
		result.Checked, result.Sent, result.Skipped, len(result.Errors))
	return result, nil
}

// reminderDue applies the cadence: the first reminder goes out once the order
// is old enough, the second only after the second threshold, and repeats are
// spaced by at least the first interval.
func (r *ReminderService) reminderDue(order *models.Order, cfg models.ReminderConfig, now time.Time) bool {
	age := now.Sub(order.CreatedAt)
	switch order.ReminderCount {
	case 0:
		return age >= time.Duration(cfg.FirstReminderDays)*24*time.Hour
	case 1:
		if age < time.Duration(cfg.SecondReminderDays)*24*time.Hour {
			return false
		}
	}
	if order.LastReminderSentAt.Valid {
		since := now.Sub(order.LastReminderSentAt.Time)
		return since >= time.Duration(cfg.FirstReminderDays)*24*time.Hour
	}
	return true
}
