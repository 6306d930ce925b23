package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"proofdeck-backend/internal/magiclink"
	"proofdeck-backend/internal/models"
	"proofdeck-backend/internal/notify"
)

// Decision flow errors. Handlers map these to distinct HTTP statuses so the
// customer can tell an expired link from a dead one.
var (
	ErrLinkNotFound   = errors.New("proof link not found")
	ErrLinkExpired    = errors.New("proof link has expired")
	ErrOrderNotFound  = errors.New("order not found")
	ErrAlreadyDecided = errors.New("a decision has already been submitted for this order")
)

// DecisionStore is the slice of the store the decision flow needs.
type DecisionStore interface {
	GetMagicLinkByHash(tokenHash string) (*models.MagicLink, error)
	GetOrder(orderID uuid.UUID) (*models.Order, error)
	SetOrderDecision(orderID uuid.UUID, decision string, decidedAt time.Time) error
	GetOrCreateThread(orderID uuid.UUID) (uuid.UUID, error)
	CreateMessage(threadID uuid.UUID, authorType, authorName, body string) error
	CreateAuditEvent(ev *models.AuditEvent) error
	GetSettings() (*models.AppSettings, error)
}

type DecisionService struct {
	store   DecisionStore
	mailer  notify.Mailer
	baseURL string
	now     func() time.Time
}

func NewDecisionService(store DecisionStore, mailer notify.Mailer, baseURL string) *DecisionService {
	return &DecisionService{
		store:   store,
		mailer:  mailer,
		baseURL: baseURL,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Submit records the customer's decision for the order behind the token.
// The decision write is the only step that can fail the request; the thread
// note, audit event, and staff email are recorded best-effort after it.
func (d *DecisionService) Submit(token, decision, note, ip, userAgent string) (*models.Order, error) {
	link, err := d.store.GetMagicLinkByHash(magiclink.HashToken(token))
	if err != nil {
		return nil, fmt.Errorf("failed to look up proof link: %w", err)
	}
	if link == nil {
		return nil, ErrLinkNotFound
	}
	if d.now().After(link.ExpiresAt) {
		return nil, ErrLinkExpired
	}

	order, err := d.store.GetOrder(link.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if models.IsDecided(order.Status) {
		return nil, ErrAlreadyDecided
	}

	decidedAt := d.now()
	if err := d.store.SetOrderDecision(order.ID, decision, decidedAt); err != nil {
		return nil, fmt.Errorf("failed to record decision: %w", err)
	}
	order.Status = decision
	order.CustomerDecisionAt = nullTime(decidedAt)

	hasNote := strings.TrimSpace(note) != ""
	if hasNote {
		if err := d.recordNote(order, note); err != nil {
			log.Printf("failed to record customer note for order %s: %v", order.ID, err)
		}
	}

	metadata, _ := json.Marshal(map[string]interface{}{
		"decision": decision,
		"has_note": hasNote,
	})
	if err := d.store.CreateAuditEvent(&models.AuditEvent{
		OrderID:   uuid.NullUUID{UUID: order.ID, Valid: true},
		ActorType: models.ActorCustomer,
		EventType: "decision_submitted",
		Metadata:  metadata,
		IP:        nullString(ip),
		UserAgent: nullString(userAgent),
	}); err != nil {
		log.Printf("failed to record audit event for order %s: %v", order.ID, err)
	}

	d.notifyStaff(order, decision, note)
	return order, nil
}

func (d *DecisionService) recordNote(order *models.Order, note string) error {
	threadID, err := d.store.GetOrCreateThread(order.ID)
	if err != nil {
		return err
	}
	author := "Customer"
	if order.CustomerName.Valid && order.CustomerName.String != "" {
		author = order.CustomerName.String
	}
	return d.store.CreateMessage(threadID, models.ActorCustomer, author, note)
}

func (d *DecisionService) notifyStaff(order *models.Order, decision, note string) {
	settings, err := d.store.GetSettings()
	if err != nil {
		log.Printf("failed to load settings for decision notice: %v", err)
		return
	}
	adminLink := fmt.Sprintf("%s/admin/orders/%s", d.baseURL, order.ID)
	if err := d.mailer.SendDecisionNotice(order, settings, decision, note, adminLink); err != nil {
		log.Printf("failed to notify staff of decision on order %s: %v", order.ID, err)
	}
}
