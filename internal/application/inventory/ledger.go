package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/carpet-shop-api/internal/domain"
	"github.com/jhoicas/carpet-shop-api/internal/domain/entity"
	domaininv "github.com/jhoicas/carpet-shop-api/internal/domain/inventory"
	"github.com/jhoicas/carpet-shop-api/internal/domain/repository"
)

// Ledger es la única vía para mover la existencia de un ítem.
// Siempre opera con el repositorio de la transacción del caller y bloquea la fila (SELECT FOR UPDATE).
// Los ítems eliminados lógicamente siguen siendo alcanzables: la contabilidad de stock no depende del borrado.
type Ledger struct {
	policy domaininv.StockPolicy
}

// NewLedger construye el ledger con la política de stock configurada.
func NewLedger(policy domaininv.StockPolicy) *Ledger {
	return &Ledger{policy: policy}
}

// DecrementInTx saca n unidades del ítem. Con política strict devuelve ErrInsufficientStock
// si la existencia no alcanza; con clamp deja la existencia en cero.
func (l *Ledger) DecrementInTx(ctx context.Context, items repository.ItemRepository, itemID string, n int, now time.Time) (*entity.Item, error) {
	item, err := l.lock(ctx, items, itemID)
	if err != nil {
		return nil, err
	}
	qty, err := domaininv.Decrement(item.Quantity, n, l.policy)
	if err != nil {
		return nil, fmt.Errorf("ítem %s: %w", itemID, err)
	}
	if err := items.UpdateQuantity(ctx, itemID, qty, now); err != nil {
		return nil, err
	}
	item.Quantity = qty
	return item, nil
}

// IncrementInTx devuelve n unidades al ítem.
func (l *Ledger) IncrementInTx(ctx context.Context, items repository.ItemRepository, itemID string, n int, now time.Time) (*entity.Item, error) {
	item, err := l.lock(ctx, items, itemID)
	if err != nil {
		return nil, err
	}
	qty, err := domaininv.Increment(item.Quantity, n)
	if err != nil {
		return nil, err
	}
	if err := items.UpdateQuantity(ctx, itemID, qty, now); err != nil {
		return nil, err
	}
	item.Quantity = qty
	return item, nil
}

func (l *Ledger) lock(ctx context.Context, items repository.ItemRepository, itemID string) (*entity.Item, error) {
	item, err := items.GetForUpdate(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("ítem %s: %w", itemID, domain.ErrNotFound)
	}
	return item, nil
}
