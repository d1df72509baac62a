package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de la factura. La transición DRAFT → FINALIZED es única e irreversible.
const (
	InvoiceStatusDraft     = "DRAFT"
	InvoiceStatusFinalized = "FINALIZED"
)

// Invoice representa la cabecera de una factura de venta.
// TotalAmount es siempre la suma de TotalPrice de sus líneas.
type Invoice struct {
	ID            string
	Number        string // INV-YYYYMMDD-####
	CustomerName  string
	Date          time.Time
	PaymentMethod string
	Description   string
	TotalAmount   decimal.Decimal
	SignaturePath string
	IsSigned      bool
	Status        string
	FinalizedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	LastEditedAt  time.Time

	Lines []*InvoiceLine
}

// IsFinalized indica si la factura ya descontó inventario.
func (i *Invoice) IsFinalized() bool {
	return i.Status == InvoiceStatusFinalized
}
