package models

import "time"

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type SyncResponse struct {
	Success        bool       `json:"success"`
	Configured     bool       `json:"configured"`
	RunID          string     `json:"runId,omitempty"`
	Stats          *SyncStats `json:"stats,omitempty"`
	Message        string     `json:"message,omitempty"`
	Error          string     `json:"error,omitempty"`
	MissingEnvVars []string   `json:"missingEnvVars,omitempty"`
}

type SyncRunSummary struct {
	ID           string     `json:"id"`
	StartedAt    time.Time  `json:"startedAt"`
	FinishedAt   *time.Time `json:"finishedAt,omitempty"`
	Status       string     `json:"status"`
	SyncType     string     `json:"syncType"`
	TriggeredBy  string     `json:"triggeredBy"`
	Fetched      int        `json:"fetched"`
	Inserted     int        `json:"inserted"`
	Updated      int        `json:"updated"`
	Skipped      int        `json:"skipped"`
	Errors       int        `json:"errors"`
	ErrorSummary string     `json:"errorSummary,omitempty"`
}

type SyncStatusResponse struct {
	Configured         bool             `json:"configured"`
	MissingEnvVars     []string         `json:"missingEnvVars"`
	LastSuccessfulSync *time.Time       `json:"lastSuccessfulSync"`
	LastSyncAttempt    *time.Time       `json:"lastSyncAttempt"`
	LastSyncError      string           `json:"lastSyncError,omitempty"`
	TotalOrders        int              `json:"totalOrders"`
	RecentRuns         []SyncRunSummary `json:"recentRuns"`
}

type OrderSummary struct {
	ID            string    `json:"id"`
	OrderNumber   string    `json:"order_number"`
	Platform      string    `json:"platform"`
	CustomerEmail string    `json:"customer_email"`
	CustomerName  string    `json:"customer_name,omitempty"`
	Status        string    `json:"status"`
	OrderTotal    float64   `json:"order_total"`
	ProductName   string    `json:"product_name,omitempty"`
	Quantity      int       `json:"quantity"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type OrderListResponse struct {
	Orders []OrderSummary `json:"orders"`
}

type OrderDetailResponse struct {
	Order    OrderSummary           `json:"order"`
	SKU      string                 `json:"sku,omitempty"`
	Options  map[string]string      `json:"customization_options,omitempty"`
	Versions []ProofVersionResponse `json:"versions"`
	Messages []MessageResponse      `json:"messages"`
}

type ProofFileResponse struct {
	ID           string `json:"id"`
	Filename     string `json:"filename"`
	MimeType     string `json:"mime_type"`
	OriginalPath string `json:"original_path"`
	PreviewPath  string `json:"preview_path"`
	SortOrder    int    `json:"sort_order"`
}

type ProofVersionResponse struct {
	ID            string              `json:"id"`
	VersionNumber int                 `json:"version_number"`
	StaffNote     string              `json:"staff_note,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	Files         []ProofFileResponse `json:"files"`
}

type FileInfo struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

type UploadResponse struct {
	OrderID       string     `json:"order_id"`
	VersionID     string     `json:"version_id"`
	VersionNumber int        `json:"version_number"`
	Files         []FileInfo `json:"files"`
}

type SendProofResponse struct {
	Success   bool   `json:"success"`
	ProofLink string `json:"proofLink"`
}

type MessageResponse struct {
	ID         string    `json:"id"`
	AuthorType string    `json:"author_type"`
	AuthorName string    `json:"author_name"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

type Branding struct {
	CompanyName string `json:"company_name"`
	AccentColor string `json:"accent_color"`
	LogoDataURL string `json:"logo_data_url,omitempty"`
}

type PortalResponse struct {
	Order    OrderSummary           `json:"order"`
	Decided  bool                   `json:"decided"`
	Versions []ProofVersionResponse `json:"versions"`
	Branding Branding               `json:"branding"`
}

type SettingsResponse struct {
	CompanyName      string         `json:"company_name"`
	AccentColor      string         `json:"accent_color"`
	LogoDataURL      string         `json:"logo_data_url,omitempty"`
	EmailFromName    string         `json:"email_from_name"`
	EmailFromEmail   string         `json:"email_from_email"`
	StaffNotifyEmail string         `json:"staff_notify_email,omitempty"`
	ReminderConfig   ReminderConfig `json:"reminder_config"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

type ReminderRunResponse struct {
	Message string   `json:"message"`
	Sent    int      `json:"sent"`
	Total   int      `json:"total"`
	Errors  []string `json:"errors,omitempty"`
}
