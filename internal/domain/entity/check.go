package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dirección del cheque.
const (
	CheckIncoming = "incoming"
	CheckOutgoing = "outgoing"
)

// Estados del cheque. Las transiciones las decide el personal; no hay máquina de estados.
const (
	CheckStatusNotRegistered = "not_registered"
	CheckStatusRegistered    = "registered"
	CheckStatusConfirmed     = "confirmed"
	CheckStatusPassed        = "passed"
	CheckStatusBounced       = "bounced"
)

// PendingCheckStatuses estados considerados en vencimientos y recordatorios.
var PendingCheckStatuses = []string{CheckStatusRegistered, CheckStatusConfirmed}

// ValidCheckStatus indica si s es un estado de cheque conocido.
func ValidCheckStatus(s string) bool {
	switch s {
	case CheckStatusNotRegistered, CheckStatusRegistered, CheckStatusConfirmed,
		CheckStatusPassed, CheckStatusBounced:
		return true
	}
	return false
}

// ValidCheckDirection indica si d es incoming u outgoing.
func ValidCheckDirection(d string) bool {
	return d == CheckIncoming || d == CheckOutgoing
}

// Check instrumento de pago diferido, recibido (incoming) o emitido (outgoing).
type Check struct {
	ID               string
	Number           string
	Amount           decimal.Decimal
	Payee            string
	DueDate          time.Time
	Direction        string
	Status           string
	InvoiceID        *string
	ItemID           *string
	Description      string
	NotificationSent *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
	LastEditedAt     time.Time
}
