package services_test

import (
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"proofdeck-backend/internal/magiclink"
	"proofdeck-backend/internal/models"
	"proofdeck-backend/internal/services"
)

func linkedOrder(st *fakeStore, status string) (*models.Order, string) {
	order := &models.Order{
		ID:            uuid.New(),
		OrderNumber:   "1001",
		CustomerEmail: "customer@example.com",
		CustomerName:  sql.NullString{String: "Pat Doe", Valid: true},
		Status:        status,
	}
	st.addOrder(order)

	token, hash, _ := magiclink.GenerateToken()
	st.linksByHash[hash] = &models.MagicLink{
		OrderID:   order.ID,
		TokenHash: hash,
		ExpiresAt: time.Now().UTC().Add(24 * time.Hour),
	}
	return order, token
}

func TestDecisionService_Approve(t *testing.T) {
	st := newFakeStore()
	st.settings.StaffNotifyEmail = sql.NullString{String: "staff@example.com", Valid: true}
	mailer := &fakeMailer{}
	order, token := linkedOrder(st, models.StatusProofSent)

	svc := services.NewDecisionService(st, mailer, "https://proofs.test")
	got, err := svc.Submit(token, models.StatusApproved, "", "203.0.113.9", "test-agent")
	require.NoError(t, err)

	assert.Equal(t, order.ID, got.ID)
	assert.Equal(t, models.StatusApproved, st.decisions[order.ID])
	assert.Empty(t, st.messages)
	assert.Equal(t, []string{"1001:approved"}, mailer.decisionNotices)
}

func TestDecisionService_ChangesRequestedWithNote(t *testing.T) {
	st := newFakeStore()
	mailer := &fakeMailer{}
	order, token := linkedOrder(st, models.StatusProofSent)

	svc := services.NewDecisionService(st, mailer, "https://proofs.test")
	_, err := svc.Submit(token, models.StatusChangesRequested, "Please make the logo bigger", "", "")
	require.NoError(t, err)

	assert.Equal(t, models.StatusChangesRequested, st.decisions[order.ID])
	assert.Equal(t, []string{"Please make the logo bigger"}, st.messages)
}

func TestDecisionService_UnknownToken(t *testing.T) {
	st := newFakeStore()
	svc := services.NewDecisionService(st, &fakeMailer{}, "https://proofs.test")

	token, _, _ := magiclink.GenerateToken()
	_, err := svc.Submit(token, models.StatusApproved, "", "", "")
	assert.ErrorIs(t, err, services.ErrLinkNotFound)
}

func TestDecisionService_ExpiredToken(t *testing.T) {
	st := newFakeStore()
	_, token := linkedOrder(st, models.StatusProofSent)
	st.linksByHash[magiclink.HashToken(token)].ExpiresAt = time.Now().UTC().Add(-time.Hour)

	svc := services.NewDecisionService(st, &fakeMailer{}, "https://proofs.test")
	_, err := svc.Submit(token, models.StatusApproved, "", "", "")
	assert.ErrorIs(t, err, services.ErrLinkExpired)
	assert.Empty(t, st.decisions)
}

func TestDecisionService_AlreadyDecided(t *testing.T) {
	decided := []string{models.StatusApproved, models.StatusApprovedWithNotes, models.StatusChangesRequested}
	for _, status := range decided {
		st := newFakeStore()
		_, token := linkedOrder(st, status)

		svc := services.NewDecisionService(st, &fakeMailer{}, "https://proofs.test")
		_, err := svc.Submit(token, models.StatusApproved, "", "", "")
		assert.ErrorIs(t, err, services.ErrAlreadyDecided, "status %s", status)
	}
}

func TestDecisionService_ThreadFailureDoesNotFailSubmit(t *testing.T) {
	st := newFakeStore()
	st.threadErr = assert.AnError
	order, token := linkedOrder(st, models.StatusProofSent)

	svc := services.NewDecisionService(st, &fakeMailer{}, "https://proofs.test")
	_, err := svc.Submit(token, models.StatusApprovedWithNotes, "small tweak", "", "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusApprovedWithNotes, st.decisions[order.ID])
}

func TestDecisionService_AuditOmitsNoteBody(t *testing.T) {
	st := newFakeStore()
	_, token := linkedOrder(st, models.StatusProofSent)

	svc := services.NewDecisionService(st, &fakeMailer{}, "https://proofs.test")
	_, err := svc.Submit(token, models.StatusChangesRequested, "secret customer text", "198.51.100.7", "agent")
	require.NoError(t, err)

	require.Len(t, st.auditEvents, 1)
	ev := st.auditEvents[0]
	assert.Equal(t, models.ActorCustomer, ev.ActorType)
	assert.Equal(t, "decision_submitted", ev.EventType)
	assert.Equal(t, "198.51.100.7", ev.IP.String)

	var meta map[string]interface{}
	require.NoError(t, json.Unmarshal(ev.Metadata, &meta))
	assert.Equal(t, true, meta["has_note"])
	assert.NotContains(t, string(ev.Metadata), "secret customer text")
	assert.NotContains(t, string(ev.Metadata), token)
}
