package models

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// PlatformShipStation tags orders imported from the external shipping platform.
const PlatformShipStation = "shipstation"

// PlatformManual tags orders created by staff through the admin API.
const PlatformManual = "manual"

type Order struct {
	ID                     uuid.UUID
	ExternalID             sql.NullString
	OrderNumber            string
	Platform               string
	CustomerEmail          string
	CustomerName           sql.NullString
	Status                 string
	OrderTotal             float64
	SKU                    sql.NullString
	ProductName            sql.NullString
	Quantity               int
	ProductImageURL        sql.NullString
	CustomizationOptions   json.RawMessage
	RawData                json.RawMessage
	CustomerDecisionAt     sql.NullTime
	CustomerLastActivityAt sql.NullTime
	CustomerLastViewedAt   sql.NullTime
	LastReminderSentAt     sql.NullTime
	ReminderCount          int
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// ProofVersion is immutable after creation; new uploads create new versions.
type ProofVersion struct {
	ID            uuid.UUID
	OrderID       uuid.UUID
	VersionNumber int
	StaffNote     sql.NullString
	CreatedAt     time.Time
}

type ProofFile struct {
	ID           uuid.UUID
	VersionID    uuid.UUID
	Filename     string
	MimeType     string
	OriginalPath string
	PreviewPath  string
	SortOrder    int
	CreatedAt    time.Time
}

// MagicLink holds only a one-way hash of the customer token. The raw token
// exists transiently in memory and in the URL mailed to the customer.
type MagicLink struct {
	OrderID   uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

type Thread struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	CreatedAt time.Time
}

type Message struct {
	ID         uuid.UUID
	ThreadID   uuid.UUID
	AuthorType string
	AuthorName string
	Body       string
	CreatedAt  time.Time
}

// Audit actor types.
const (
	ActorCustomer = "customer"
	ActorStaff    = "staff"
	ActorSystem   = "system"
)

// AuditEvent rows are append-only; they are never updated or deleted.
type AuditEvent struct {
	ID        uuid.UUID
	OrderID   uuid.NullUUID
	ActorType string
	EventType string
	Metadata  json.RawMessage
	IP        sql.NullString
	UserAgent sql.NullString
	CreatedAt time.Time
}
