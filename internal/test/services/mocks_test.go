package services_test

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"proofdeck-backend/internal/models"
	"proofdeck-backend/internal/shipstation"
)

// fakeStore is an in-memory stand-in for the persistence layer. Individual
// err fields force failures on specific paths.
type fakeStore struct {
	ordersByID       map[uuid.UUID]*models.Order
	ordersByExternal map[string]*models.Order
	inserted         []*models.Order
	updated          []*models.Order
	insertErr        error
	insertErrFor     map[string]error

	runs           []*models.SyncRun
	successStats   *models.SyncStats
	sampledErrors  []string
	failureSummary string

	settings       *models.AppSettings
	syncSuccessAt  *time.Time
	syncFailureAt  *time.Time
	syncFailureMsg string

	linksByHash  map[string]*models.MagicLink
	linksByOrder map[uuid.UUID]*models.MagicLink
	upsertedHash string

	decisions    map[uuid.UUID]string
	decisionErr  error
	threadErr    error
	messages     []string
	auditEvents  []*models.AuditEvent
	statusByID   map[uuid.UUID]string
	promoted     []uuid.UUID
	versionCount int

	nextVersion     int
	createdVersions []*models.ProofVersion
	createdFiles    []*models.ProofFile
	deletedVersions []uuid.UUID
	fileErrAtIndex  int

	reminderOrders []models.Order
	remindersSent  []uuid.UUID
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		ordersByID:       make(map[uuid.UUID]*models.Order),
		ordersByExternal: make(map[string]*models.Order),
		insertErrFor:     make(map[string]error),
		linksByHash:      make(map[string]*models.MagicLink),
		linksByOrder:     make(map[uuid.UUID]*models.MagicLink),
		decisions:        make(map[uuid.UUID]string),
		statusByID:       make(map[uuid.UUID]string),
		settings:         defaultTestSettings(),
		nextVersion:      1,
		fileErrAtIndex:   -1,
	}
}

func defaultTestSettings() *models.AppSettings {
	return &models.AppSettings{
		ID:             "default",
		CompanyName:    "Proofs",
		AccentColor:    "#1d3161",
		EmailFromName:  "Proofs",
		EmailFromEmail: "proofs@example.com",
	}
}

func (f *fakeStore) addOrder(o *models.Order) {
	f.ordersByID[o.ID] = o
	if o.ExternalID.Valid {
		f.ordersByExternal[o.ExternalID.String] = o
	}
}

func (f *fakeStore) GetOrder(orderID uuid.UUID) (*models.Order, error) {
	return f.ordersByID[orderID], nil
}

func (f *fakeStore) GetOrderByExternalID(externalID, platform string) (*models.Order, error) {
	return f.ordersByExternal[externalID], nil
}

func (f *fakeStore) InsertOrder(o *models.Order) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	if err, ok := f.insertErrFor[o.OrderNumber]; ok {
		return err
	}
	f.inserted = append(f.inserted, o)
	f.addOrder(o)
	return nil
}

func (f *fakeStore) UpdateExternalOrder(o *models.Order) error {
	f.updated = append(f.updated, o)
	if existing, ok := f.ordersByID[o.ID]; ok {
		o.ExternalID = existing.ExternalID
		f.addOrder(o)
	}
	return nil
}

func (f *fakeStore) CreateSyncRun(syncType, triggeredBy string) (*models.SyncRun, error) {
	run := &models.SyncRun{
		ID:          uuid.New(),
		Status:      models.SyncRunRunning,
		SyncType:    syncType,
		TriggeredBy: triggeredBy,
		StartedAt:   time.Now().UTC(),
	}
	f.runs = append(f.runs, run)
	return run, nil
}

func (f *fakeStore) SetSyncRunCutoff(runID uuid.UUID, modifiedAfter time.Time) error {
	return nil
}

func (f *fakeStore) FinishSyncRunSuccess(runID uuid.UUID, stats models.SyncStats, sampledErrors []string) error {
	f.successStats = &stats
	f.sampledErrors = sampledErrors
	return nil
}

func (f *fakeStore) FinishSyncRunFailure(runID uuid.UUID, summary string) error {
	f.failureSummary = summary
	return nil
}

func (f *fakeStore) GetSettings() (*models.AppSettings, error) {
	return f.settings, nil
}

func (f *fakeStore) RecordSyncSuccess(at time.Time) error {
	f.syncSuccessAt = &at
	return nil
}

func (f *fakeStore) RecordSyncFailure(at time.Time, errMsg string) error {
	f.syncFailureAt = &at
	f.syncFailureMsg = errMsg
	return nil
}

func (f *fakeStore) GetMagicLinkByHash(tokenHash string) (*models.MagicLink, error) {
	return f.linksByHash[tokenHash], nil
}

func (f *fakeStore) GetMagicLink(orderID uuid.UUID) (*models.MagicLink, error) {
	return f.linksByOrder[orderID], nil
}

func (f *fakeStore) UpsertMagicLink(orderID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	link := &models.MagicLink{OrderID: orderID, TokenHash: tokenHash, ExpiresAt: expiresAt}
	f.linksByHash[tokenHash] = link
	f.linksByOrder[orderID] = link
	f.upsertedHash = tokenHash
	return nil
}

func (f *fakeStore) SetOrderDecision(orderID uuid.UUID, decision string, decidedAt time.Time) error {
	if f.decisionErr != nil {
		return f.decisionErr
	}
	f.decisions[orderID] = decision
	return nil
}

func (f *fakeStore) GetOrCreateThread(orderID uuid.UUID) (uuid.UUID, error) {
	if f.threadErr != nil {
		return uuid.Nil, f.threadErr
	}
	return uuid.New(), nil
}

func (f *fakeStore) CreateMessage(threadID uuid.UUID, authorType, authorName, body string) error {
	f.messages = append(f.messages, body)
	return nil
}

func (f *fakeStore) CreateAuditEvent(ev *models.AuditEvent) error {
	f.auditEvents = append(f.auditEvents, ev)
	return nil
}

func (f *fakeStore) NextProofVersionNumber(orderID uuid.UUID) (int, error) {
	return f.nextVersion, nil
}

func (f *fakeStore) CreateProofVersion(v *models.ProofVersion) error {
	f.createdVersions = append(f.createdVersions, v)
	return nil
}

func (f *fakeStore) CreateProofFile(file *models.ProofFile) error {
	if f.fileErrAtIndex >= 0 && len(f.createdFiles) == f.fileErrAtIndex {
		return errors.New("file insert failed")
	}
	f.createdFiles = append(f.createdFiles, file)
	return nil
}

func (f *fakeStore) DeleteProofVersion(versionID uuid.UUID) error {
	f.deletedVersions = append(f.deletedVersions, versionID)
	return nil
}

func (f *fakeStore) CountProofVersions(orderID uuid.UUID) (int, error) {
	return f.versionCount, nil
}

func (f *fakeStore) PromoteDraft(orderID uuid.UUID) error {
	f.promoted = append(f.promoted, orderID)
	return nil
}

func (f *fakeStore) UpdateOrderStatus(orderID uuid.UUID, status string) error {
	f.statusByID[orderID] = status
	return nil
}

func (f *fakeStore) OrdersNeedingReminder(createdBefore time.Time, maxReminders int) ([]models.Order, error) {
	return f.reminderOrders, nil
}

func (f *fakeStore) IncrementReminderCount(orderID uuid.UUID, sentAt time.Time) error {
	f.remindersSent = append(f.remindersSent, orderID)
	return nil
}

// fakeFetcher serves a canned order list or error.
type fakeFetcher struct {
	orders     []shipstation.Order
	err        error
	configured bool
	gotCutoff  time.Time
}

func (f *fakeFetcher) Configured() bool {
	return f.configured
}

func (f *fakeFetcher) FetchOrders(modifiedAfter time.Time) ([]shipstation.Order, error) {
	f.gotCutoff = modifiedAfter
	if f.err != nil {
		return nil, f.err
	}
	return f.orders, nil
}

// fakeObjects records uploads and removals, optionally failing a given upload.
type fakeObjects struct {
	uploaded      []string
	removed       []string
	failAtUpload  int
	uploadCount   int
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{failAtUpload: -1}
}

func (f *fakeObjects) Upload(path, contentType string, data []byte) (string, error) {
	if f.failAtUpload >= 0 && f.uploadCount == f.failAtUpload {
		f.uploadCount++
		return "", errors.New("upload failed")
	}
	f.uploadCount++
	f.uploaded = append(f.uploaded, path)
	return "https://storage.test/" + path, nil
}

func (f *fakeObjects) Remove(paths []string) error {
	f.removed = append(f.removed, paths...)
	return nil
}

// fakeMailer records sends.
type fakeMailer struct {
	proofLinks      []string
	decisionNotices []string
	reminders       []string
	sendErr         error
}

func (f *fakeMailer) SendProofLink(to string, order *models.Order, settings *models.AppSettings, proofLink string, expiryDays int) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.proofLinks = append(f.proofLinks, proofLink)
	return nil
}

func (f *fakeMailer) SendDecisionNotice(order *models.Order, settings *models.AppSettings, decision, note, adminLink string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.decisionNotices = append(f.decisionNotices, fmt.Sprintf("%s:%s", order.OrderNumber, decision))
	return nil
}

func (f *fakeMailer) SendReminder(to string, order *models.Order, settings *models.AppSettings) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.reminders = append(f.reminders, to)
	return nil
}
