package repository

import (
	"context"
	"time"

	"github.com/jhoicas/carpet-shop-api/internal/domain/entity"
)

// CheckFilter criterios del listado de cheques (orden: vencimiento ascendente).
type CheckFilter struct {
	Direction string
	Status    string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// DueQuery consulta de cheques por vencer en [From, To].
type DueQuery struct {
	From           time.Time
	To             time.Time
	Statuses       []string
	OnlyUnnotified bool
}

// CheckRepository define el puerto de persistencia para Check.
type CheckRepository interface {
	Create(ctx context.Context, check *entity.Check) error
	GetByID(ctx context.Context, id string) (*entity.Check, error)
	List(ctx context.Context, f CheckFilter) ([]*entity.Check, int, error)
	Update(ctx context.Context, check *entity.Check) error
	Delete(ctx context.Context, id string) error
	ListDue(ctx context.Context, q DueQuery) ([]*entity.Check, error)
	MarkNotified(ctx context.Context, id string, at time.Time) error
}
