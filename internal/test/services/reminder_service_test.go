package services_test

import (
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"proofdeck-backend/internal/models"
	"proofdeck-backend/internal/services"
)

func reminderOrder(ageDays, reminderCount int) models.Order {
	return models.Order{
		ID:            uuid.New(),
		OrderNumber:   "1001",
		CustomerEmail: "customer@example.com",
		Status:        models.StatusProofSent,
		ReminderCount: reminderCount,
		CreatedAt:     time.Now().UTC().Add(-time.Duration(ageDays) * 24 * time.Hour),
	}
}

func activeLink(st *fakeStore, orderID uuid.UUID) {
	st.linksByOrder[orderID] = &models.MagicLink{
		OrderID:   orderID,
		ExpiresAt: time.Now().UTC().Add(24 * time.Hour),
	}
}

func TestReminderService_SendsFirstReminder(t *testing.T) {
	st := newFakeStore()
	mailer := &fakeMailer{}
	order := reminderOrder(4, 0)
	st.reminderOrders = []models.Order{order}
	activeLink(st, order.ID)

	svc := services.NewReminderService(st, mailer)
	result, err := svc.Run()
	require.NoError(t, err)

	assert.True(t, result.Enabled)
	assert.Equal(t, 1, result.Sent)
	assert.Equal(t, []string{"customer@example.com"}, mailer.reminders)
	assert.Equal(t, []uuid.UUID{order.ID}, st.remindersSent)
	require.Len(t, st.auditEvents, 1)
	assert.Equal(t, "reminder_sent", st.auditEvents[0].EventType)
	assert.Equal(t, models.ActorSystem, st.auditEvents[0].ActorType)
}

func TestReminderService_Disabled(t *testing.T) {
	st := newFakeStore()
	cfg := models.ReminderConfig{Enabled: false}
	raw, _ := json.Marshal(cfg)
	st.settings.ReminderConfig = raw

	svc := services.NewReminderService(st, &fakeMailer{})
	result, err := svc.Run()
	require.NoError(t, err)
	assert.False(t, result.Enabled)
	assert.Zero(t, result.Sent)
}

func TestReminderService_SecondReminderWaitsForThreshold(t *testing.T) {
	st := newFakeStore()
	mailer := &fakeMailer{}

	tooEarly := reminderOrder(5, 1)
	tooEarly.LastReminderSentAt = sql.NullTime{Time: time.Now().UTC().Add(-2 * 24 * time.Hour), Valid: true}
	due := reminderOrder(8, 1)
	due.LastReminderSentAt = sql.NullTime{Time: time.Now().UTC().Add(-5 * 24 * time.Hour), Valid: true}
	st.reminderOrders = []models.Order{tooEarly, due}
	activeLink(st, tooEarly.ID)
	activeLink(st, due.ID)

	svc := services.NewReminderService(st, mailer)
	result, err := svc.Run()
	require.NoError(t, err)

	assert.Equal(t, 1, result.Sent)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, []uuid.UUID{due.ID}, st.remindersSent)
}

func TestReminderService_SkipsExpiredOrMissingLinks(t *testing.T) {
	st := newFakeStore()
	mailer := &fakeMailer{}

	expired := reminderOrder(4, 0)
	st.linksByOrder[expired.ID] = &models.MagicLink{
		OrderID:   expired.ID,
		ExpiresAt: time.Now().UTC().Add(-time.Hour),
	}
	missing := reminderOrder(4, 0)
	st.reminderOrders = []models.Order{expired, missing}

	svc := services.NewReminderService(st, mailer)
	result, err := svc.Run()
	require.NoError(t, err)

	assert.Zero(t, result.Sent)
	assert.Equal(t, 2, result.Skipped)
	assert.Empty(t, mailer.reminders)
}

func TestReminderService_SendFailureIsolated(t *testing.T) {
	st := newFakeStore()
	order := reminderOrder(4, 0)
	st.reminderOrders = []models.Order{order}
	activeLink(st, order.ID)

	svc := services.NewReminderService(st, &fakeMailer{sendErr: assert.AnError})
	result, err := svc.Run()
	require.NoError(t, err)

	assert.Zero(t, result.Sent)
	assert.Len(t, result.Errors, 1)
	assert.Empty(t, st.remindersSent)
}
