package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"proofdeck-backend/internal/magiclink"
	"proofdeck-backend/internal/models"
	"proofdeck-backend/internal/notify"
	"proofdeck-backend/internal/validation"
)

var (
	ErrNoFiles         = errors.New("no files provided")
	ErrTooManyFiles    = fmt.Errorf("too many files, maximum is %d", validation.MaxFilesPerUpload)
	ErrFileTooLarge    = errors.New("file exceeds the 10MB size limit")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrNoProofVersions = errors.New("order has no proof versions to send")
	ErrNoCustomerEmail = errors.New("order has no customer email")
)

// UploadFile is one file from the multipart request, fully read into memory.
type UploadFile struct {
	Filename string
	MimeType string
	Data     []byte
}

// ObjectStore is the slice of the blob storage client the proof flow needs.
type ObjectStore interface {
	Upload(path, contentType string, data []byte) (string, error)
	Remove(paths []string) error
}

// ProofStore is the slice of the store the proof flow needs.
type ProofStore interface {
	GetOrder(orderID uuid.UUID) (*models.Order, error)
	NextProofVersionNumber(orderID uuid.UUID) (int, error)
	CreateProofVersion(v *models.ProofVersion) error
	CreateProofFile(f *models.ProofFile) error
	DeleteProofVersion(versionID uuid.UUID) error
	CountProofVersions(orderID uuid.UUID) (int, error)
	PromoteDraft(orderID uuid.UUID) error
	UpdateOrderStatus(orderID uuid.UUID, status string) error
	UpsertMagicLink(orderID uuid.UUID, tokenHash string, expiresAt time.Time) error
	CreateAuditEvent(ev *models.AuditEvent) error
	GetSettings() (*models.AppSettings, error)
}

type ProofService struct {
	store   ProofStore
	objects ObjectStore
	mailer  notify.Mailer
	baseURL string
	now     func() time.Time
}

func NewProofService(store ProofStore, objects ObjectStore, mailer notify.Mailer, baseURL string) *ProofService {
	return &ProofService{
		store:   store,
		objects: objects,
		mailer:  mailer,
		baseURL: baseURL,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Upload validates the batch, creates the next proof version, and stores every
// file. Any failure rolls back the whole version: stored objects are removed
// and the version row is deleted, so partial versions never survive.
func (p *ProofService) Upload(orderID uuid.UUID, files []UploadFile, staffNote string) (*models.ProofVersion, error) {
	if err := validateUpload(files); err != nil {
		return nil, err
	}

	order, err := p.store.GetOrder(orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	versionNumber, err := p.store.NextProofVersionNumber(orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to determine version number: %w", err)
	}

	version := &models.ProofVersion{
		ID:            uuid.New(),
		OrderID:       orderID,
		VersionNumber: versionNumber,
		StaffNote:     nullString(strings.TrimSpace(staffNote)),
		CreatedAt:     p.now(),
	}
	if err := p.store.CreateProofVersion(version); err != nil {
		return nil, fmt.Errorf("failed to create proof version: %w", err)
	}

	var storedPaths []string
	for i, file := range files {
		objectPath := fmt.Sprintf("%s/v%d/%d_%s", orderID, versionNumber, i, sanitizeFilename(file.Filename))
		url, err := p.objects.Upload(objectPath, file.MimeType, file.Data)
		if err != nil {
			p.rollback(version.ID, storedPaths)
			return nil, fmt.Errorf("failed to store file %q: %w", file.Filename, err)
		}
		storedPaths = append(storedPaths, objectPath)

		if err := p.store.CreateProofFile(&models.ProofFile{
			ID:           uuid.New(),
			VersionID:    version.ID,
			Filename:     file.Filename,
			MimeType:     file.MimeType,
			OriginalPath: objectPath,
			PreviewPath:  url,
			SortOrder:    i,
			CreatedAt:    p.now(),
		}); err != nil {
			p.rollback(version.ID, storedPaths)
			return nil, fmt.Errorf("failed to record file %q: %w", file.Filename, err)
		}
	}

	if order.Status == models.StatusDraft {
		if err := p.store.PromoteDraft(orderID); err != nil {
			log.Printf("failed to promote draft order %s: %v", orderID, err)
		}
	}

	metadata, _ := json.Marshal(map[string]interface{}{
		"version_number": versionNumber,
		"file_count":     len(files),
	})
	if err := p.store.CreateAuditEvent(&models.AuditEvent{
		OrderID:   uuid.NullUUID{UUID: orderID, Valid: true},
		ActorType: models.ActorStaff,
		EventType: "proof_uploaded",
		Metadata:  metadata,
	}); err != nil {
		log.Printf("failed to record audit event for order %s: %v", orderID, err)
	}

	return version, nil
}

func (p *ProofService) rollback(versionID uuid.UUID, storedPaths []string) {
	if len(storedPaths) > 0 {
		if err := p.objects.Remove(storedPaths); err != nil {
			log.Printf("failed to remove stored files during rollback: %v", err)
		}
	}
	if err := p.store.DeleteProofVersion(versionID); err != nil {
		log.Printf("failed to delete proof version %s during rollback: %v", versionID, err)
	}
}

// Send mints a fresh magic link for the order, marks the proof as sent, and
// emails the customer. A new token replaces any previous one for the order;
// old links stop working immediately.
func (p *ProofService) Send(orderID uuid.UUID) (proofLink string, err error) {
	order, err := p.store.GetOrder(orderID)
	if err != nil {
		return "", fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil {
		return "", ErrOrderNotFound
	}
	if order.CustomerEmail == "" {
		return "", ErrNoCustomerEmail
	}

	count, err := p.store.CountProofVersions(orderID)
	if err != nil {
		return "", fmt.Errorf("failed to count proof versions: %w", err)
	}
	if count == 0 {
		return "", ErrNoProofVersions
	}

	token, tokenHash, err := magiclink.GenerateToken()
	if err != nil {
		return "", err
	}
	expiresAt := p.now().Add(magiclink.DefaultExpiry)
	if err := p.store.UpsertMagicLink(orderID, tokenHash, expiresAt); err != nil {
		return "", fmt.Errorf("failed to store proof link: %w", err)
	}

	if err := p.store.UpdateOrderStatus(orderID, models.StatusProofSent); err != nil {
		return "", fmt.Errorf("failed to update order status: %w", err)
	}

	proofLink = fmt.Sprintf("%s/p/%s", strings.TrimRight(p.baseURL, "/"), token)

	metadata, _ := json.Marshal(map[string]interface{}{
		"expires_at": expiresAt.Format(time.RFC3339),
	})
	if err := p.store.CreateAuditEvent(&models.AuditEvent{
		OrderID:   uuid.NullUUID{UUID: orderID, Valid: true},
		ActorType: models.ActorStaff,
		EventType: "proof_sent",
		Metadata:  metadata,
	}); err != nil {
		log.Printf("failed to record audit event for order %s: %v", orderID, err)
	}

	settings, err := p.store.GetSettings()
	if err != nil {
		log.Printf("failed to load settings for proof email: %v", err)
		return proofLink, nil
	}
	expiryDays := int(magiclink.DefaultExpiry.Hours() / 24)
	if err := p.mailer.SendProofLink(order.CustomerEmail, order, settings, proofLink, expiryDays); err != nil {
		log.Printf("failed to email proof link for order %s: %v", orderID, err)
	}
	return proofLink, nil
}

func validateUpload(files []UploadFile) error {
	if len(files) == 0 {
		return ErrNoFiles
	}
	if len(files) > validation.MaxFilesPerUpload {
		return ErrTooManyFiles
	}
	for _, f := range files {
		if len(f.Data) > validation.MaxFileSize {
			return fmt.Errorf("%w: %s", ErrFileTooLarge, f.Filename)
		}
		if !validation.AllowedMimeType(f.MimeType) {
			return fmt.Errorf("%w: %s (%s)", ErrUnsupportedType, f.Filename, f.MimeType)
		}
	}
	return nil
}

// sanitizeFilename strips path components and characters unsafe for object keys.
func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}
