package models

type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}

type SyncRequest struct {
	SyncType string `json:"syncType" validate:"omitempty,oneof=incremental 24h 7d 30d full"`
}

type SubmitDecisionRequest struct {
	Token    string `json:"token" validate:"required"`
	Decision string `json:"decision" validate:"required,oneof=approved approved_with_notes changes_requested"`
	Note     string `json:"note" validate:"omitempty,max=5000"`
}

type SendProofRequest struct {
	OrderID string `json:"orderId" validate:"required,uuid"`
}

type CreateOrderRequest struct {
	OrderNumber   string  `json:"order_number" validate:"required,max=100"`
	CustomerEmail string  `json:"customer_email" validate:"required,email"`
	CustomerName  string  `json:"customer_name" validate:"omitempty,max=200"`
	SKU           string  `json:"sku" validate:"omitempty,max=100"`
	ProductName   string  `json:"product_name" validate:"omitempty,max=500"`
	Quantity      int     `json:"quantity" validate:"omitempty,min=1"`
	OrderTotal    float64 `json:"order_total" validate:"omitempty,gte=0"`
}

type UpdateSettingsRequest struct {
	CompanyName      string          `json:"company_name" validate:"omitempty,max=200"`
	AccentColor      string          `json:"accent_color" validate:"omitempty,hexcolor"`
	LogoDataURL      *string         `json:"logo_data_url" validate:"omitempty,max=500000"`
	EmailFromName    string          `json:"email_from_name" validate:"omitempty,max=200"`
	EmailFromEmail   string          `json:"email_from_email" validate:"omitempty,email"`
	StaffNotifyEmail string          `json:"staff_notify_email" validate:"omitempty,email"`
	ReminderConfig   *ReminderConfig `json:"reminder_config"`
}
