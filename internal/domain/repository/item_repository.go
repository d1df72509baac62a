package repository

import (
	"context"
	"time"

	"github.com/jhoicas/carpet-shop-api/internal/domain/entity"
)

// ItemFilter criterios de búsqueda del catálogo.
// Los ítems eliminados lógicamente se excluyen salvo IncludeDeleted.
type ItemFilter struct {
	Size           string
	Material       string // subcadena, sin distinguir mayúsculas
	Search         string // pattern, brand o description
	AvailableOnly  bool   // quantity > 0
	IncludeDeleted bool
	Limit          int
	Offset         int
}

// ItemRepository define el puerto de persistencia para Item y sus operaciones (DIP).
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	// GetByID devuelve nil, nil si no existe o si está eliminado y includeDeleted es false.
	GetByID(ctx context.Context, id string, includeDeleted bool) (*entity.Item, error)
	// GetForUpdate bloquea la fila (SELECT ... FOR UPDATE). Incluye ítems eliminados:
	// el ledger sigue operando sobre ellos.
	GetForUpdate(ctx context.Context, id string) (*entity.Item, error)
	List(ctx context.Context, f ItemFilter) ([]*entity.Item, int, error)
	Update(ctx context.Context, item *entity.Item) error
	UpdateQuantity(ctx context.Context, id string, quantity int, at time.Time) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
	Restore(ctx context.Context, id string, at time.Time) error
	// Delete elimina el ítem y sus operaciones; las referencias de cheques quedan en NULL.
	Delete(ctx context.Context, id string) error
	CountInvoiceLines(ctx context.Context, id string) (int, error)
	// Touch actualiza last_edited_at.
	Touch(ctx context.Context, id string, at time.Time) error

	CreateOperation(ctx context.Context, op *entity.ItemOperation) error
	GetOperation(ctx context.Context, id string) (*entity.ItemOperation, error)
	UpdateOperation(ctx context.Context, op *entity.ItemOperation) error
	DeleteOperation(ctx context.Context, id string) error
}
