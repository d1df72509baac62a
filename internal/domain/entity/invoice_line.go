package entity

import "github.com/shopspring/decimal"

// InvoiceLine representa una línea de factura. Title, Size y Brand son una foto del ítem
// al momento de la venta; UnitCost congela el costo total unitario del ítem en ese momento.
type InvoiceLine struct {
	ID          string
	InvoiceID   string
	ItemID      string
	Position    int
	Title       string
	Size        string
	Brand       string
	Quantity    int
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
	UnitCost    decimal.Decimal
	Description string
}
