package repository

import (
	"context"
	"time"

	"github.com/jhoicas/carpet-shop-api/internal/domain/entity"
)

// InvoiceFilter criterios del listado de facturas (orden: fecha descendente).
type InvoiceFilter struct {
	CustomerName string
	From         *time.Time
	To           *time.Time
	Status       string
	Limit        int
	Offset       int
}

// InvoiceRepository define el puerto de persistencia para Invoice y sus líneas.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	CreateLine(ctx context.Context, line *entity.InvoiceLine) error
	// GetByID devuelve la factura con sus líneas ordenadas por posición, o nil, nil.
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	// GetForUpdate igual que GetByID pero bloquea la cabecera hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error)
	List(ctx context.Context, f InvoiceFilter) ([]*entity.Invoice, int, error)
	// UpdateMetadata persiste customer_name, payment_method, description, firma y last_edited_at.
	UpdateMetadata(ctx context.Context, invoice *entity.Invoice) error
	MarkFinalized(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error

	// LockNumbering serializa la numeración de un día hasta el fin de la transacción.
	LockNumbering(ctx context.Context, prefix string) error
	NumbersWithPrefix(ctx context.Context, prefix string) ([]string, error)
}
