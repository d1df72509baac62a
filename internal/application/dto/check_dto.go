package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCheckRequest body para POST /api/checks.
type CreateCheckRequest struct {
	Number      string          `json:"check_number" validate:"required,max=100"`
	Amount      decimal.Decimal `json:"amount"`
	Payee       string          `json:"payee" validate:"max=255"`
	DueDate     time.Time       `json:"check_date" validate:"required"`
	Direction   string          `json:"check_type" validate:"required,oneof=incoming outgoing"`
	Status      string          `json:"status" validate:"omitempty,oneof=not_registered registered confirmed passed bounced"`
	InvoiceID   *string         `json:"invoice_id"`
	ItemID      *string         `json:"carpet_id"`
	Description string          `json:"description"`
}

// UpdateCheckRequest patch explícito de un cheque.
// ClearInvoice / ClearItem quitan el vínculo correspondiente.
type UpdateCheckRequest struct {
	Number       *string          `json:"check_number" validate:"omitempty,min=1,max=100"`
	Amount       *decimal.Decimal `json:"amount"`
	Payee        *string          `json:"payee" validate:"omitempty,max=255"`
	DueDate      *time.Time       `json:"check_date"`
	Direction    *string          `json:"check_type" validate:"omitempty,oneof=incoming outgoing"`
	Status       *string          `json:"status" validate:"omitempty,oneof=not_registered registered confirmed passed bounced"`
	InvoiceID    *string          `json:"invoice_id"`
	ItemID       *string          `json:"carpet_id"`
	ClearInvoice bool             `json:"clear_invoice"`
	ClearItem    bool             `json:"clear_carpet"`
	Description  *string          `json:"description"`
}

// CheckListRequest filtros del listado de cheques.
type CheckListRequest struct {
	Direction string     `query:"check_type" validate:"omitempty,oneof=incoming outgoing"`
	Status    string     `query:"status" validate:"omitempty,oneof=not_registered registered confirmed passed bounced"`
	StartDate *time.Time `query:"-"`
	EndDate   *time.Time `query:"-"`
	PageRequest
}

// CheckResponse salida de un cheque.
type CheckResponse struct {
	ID               string          `json:"id"`
	Number           string          `json:"check_number"`
	Amount           decimal.Decimal `json:"amount"`
	Payee            string          `json:"payee"`
	DueDate          time.Time       `json:"check_date"`
	Direction        string          `json:"check_type"`
	Status           string          `json:"status"`
	InvoiceID        *string         `json:"invoice_id,omitempty"`
	ItemID           *string         `json:"carpet_id,omitempty"`
	Description      string          `json:"description,omitempty"`
	NotificationSent *time.Time      `json:"notification_sent,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	LastEditedAt     time.Time       `json:"last_edited_at"`
}

// CheckListResponse lista paginada de cheques.
type CheckListResponse struct {
	Items []CheckResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
