package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest body para POST /api/invoices.
// Las líneas solo verifican existencia; el inventario se descuenta al finalizar.
type CreateInvoiceRequest struct {
	CustomerName  string                     `json:"customer_name" validate:"required,max=255"`
	PaymentMethod string                     `json:"payment_method" validate:"max=100"`
	InvoiceDate   *time.Time                 `json:"invoice_date"`
	Description   string                     `json:"description"`
	Lines         []CreateInvoiceLineRequest `json:"items" validate:"required,min=1,dive"`
}

// CreateInvoiceLineRequest línea de factura. Title, Size y Brand se toman del ítem si van vacíos.
type CreateInvoiceLineRequest struct {
	ItemID      string          `json:"carpet_id" validate:"required"`
	Title       string          `json:"title" validate:"max=255"`
	Size        string          `json:"size" validate:"max=32"`
	Brand       string          `json:"brand" validate:"max=255"`
	Quantity    int             `json:"quantity" validate:"gt=0"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Description string          `json:"description"`
}

// UpdateInvoiceRequest patch de metadatos; nunca toca líneas ni inventario.
type UpdateInvoiceRequest struct {
	CustomerName  *string `json:"customer_name" validate:"omitempty,min=1,max=255"`
	PaymentMethod *string `json:"payment_method" validate:"omitempty,max=100"`
	Description   *string `json:"description"`
	IsSigned      *bool   `json:"is_signed"`
}

// InvoiceListRequest filtros del listado de facturas.
type InvoiceListRequest struct {
	CustomerName string     `query:"customer_name"`
	StartDate    *time.Time `query:"-"`
	EndDate      *time.Time `query:"-"`
	Status       string     `query:"status" validate:"omitempty,oneof=DRAFT FINALIZED"`
	PageRequest
}

// InvoiceLineResponse línea en la respuesta.
type InvoiceLineResponse struct {
	ID          string          `json:"id"`
	ItemID      string          `json:"carpet_id"`
	Position    int             `json:"position"`
	Title       string          `json:"title"`
	Size        string          `json:"size"`
	Brand       string          `json:"brand"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Description string          `json:"description,omitempty"`
}

// InvoiceResponse factura con líneas.
type InvoiceResponse struct {
	ID            string                `json:"id"`
	Number        string                `json:"invoice_number"`
	CustomerName  string                `json:"customer_name"`
	InvoiceDate   time.Time             `json:"invoice_date"`
	PaymentMethod string                `json:"payment_method"`
	Description   string                `json:"description,omitempty"`
	TotalAmount   decimal.Decimal       `json:"total_amount"`
	SignaturePath string                `json:"signature_path,omitempty"`
	IsSigned      bool                  `json:"is_signed"`
	Status        string                `json:"status"`
	FinalizedAt   *time.Time            `json:"finalized_at,omitempty"`
	Lines         []InvoiceLineResponse `json:"items"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
	LastEditedAt  time.Time             `json:"last_edited_at"`
}

// InvoiceListResponse lista paginada de facturas.
type InvoiceListResponse struct {
	Items []InvoiceResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
