package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/carpet-shop-api/internal/domain"
	"github.com/jhoicas/carpet-shop-api/internal/domain/entity"
	"github.com/jhoicas/carpet-shop-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo ItemRepository en memoria.
type ItemRepo struct {
	s *Store
}

func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	c := *item
	c.Operations = nil
	r.s.items[item.ID] = &c
	for _, op := range item.Operations {
		op.ItemID = item.ID
		if op.ID == "" {
			op.ID = uuid.New().String()
		}
		oc := *op
		r.s.ops[op.ID] = &oc
	}
	return nil
}

func (r *ItemRepo) GetByID(ctx context.Context, id string, includeDeleted bool) (*entity.Item, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.items[id]
	if !ok || (it.IsDeleted && !includeDeleted) {
		return nil, nil
	}
	return r.withOps(it), nil
}

func (r *ItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	return r.GetByID(ctx, id, true)
}

func (r *ItemRepo) List(ctx context.Context, f repository.ItemFilter) ([]*entity.Item, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Item
	for _, it := range r.s.items {
		if it.IsDeleted && !f.IncludeDeleted {
			continue
		}
		if f.Size != "" && it.Size != f.Size {
			continue
		}
		if f.Material != "" && !containsFold(it.Material, f.Material) {
			continue
		}
		if f.Search != "" && !containsFold(it.Pattern, f.Search) &&
			!containsFold(it.Brand, f.Search) && !containsFold(it.Description, f.Search) {
			continue
		}
		if f.AvailableOnly && it.Quantity <= 0 {
			continue
		}
		list = append(list, r.withOps(it))
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	return page(list, f.Limit, f.Offset), len(list), nil
}

func (r *ItemRepo) Update(ctx context.Context, item *entity.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.items[item.ID]
	if !ok {
		return domain.ErrNotFound
	}
	c := *item
	c.Operations = nil
	c.Quantity = cur.Quantity
	c.IsDeleted, c.DeletedAt, c.CreatedAt = cur.IsDeleted, cur.DeletedAt, cur.CreatedAt
	r.s.items[item.ID] = &c
	return nil
}

func (r *ItemRepo) UpdateQuantity(ctx context.Context, id string, quantity int, at time.Time) error {
	return r.mutate(id, func(it *entity.Item) error {
		it.Quantity = quantity
		it.UpdatedAt, it.LastEditedAt = at, at
		return nil
	})
}

func (r *ItemRepo) SoftDelete(ctx context.Context, id string, at time.Time) error {
	return r.mutate(id, func(it *entity.Item) error {
		if it.IsDeleted {
			return domain.ErrNotFound
		}
		it.IsDeleted, it.DeletedAt = true, &at
		it.UpdatedAt, it.LastEditedAt = at, at
		return nil
	})
}

func (r *ItemRepo) Restore(ctx context.Context, id string, at time.Time) error {
	return r.mutate(id, func(it *entity.Item) error {
		if !it.IsDeleted {
			return domain.ErrNotFound
		}
		it.IsDeleted, it.DeletedAt = false, nil
		it.UpdatedAt, it.LastEditedAt = at, at
		return nil
	})
}

func (r *ItemRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.items[id]; !ok {
		return domain.ErrNotFound
	}
	for _, l := range r.s.lines {
		if l.ItemID == id {
			return fmt.Errorf("ítem referenciado por facturas: %w", domain.ErrConflict)
		}
	}
	delete(r.s.items, id)
	for opID, op := range r.s.ops {
		if op.ItemID == id {
			delete(r.s.ops, opID)
		}
	}
	for _, c := range r.s.checks {
		if c.ItemID != nil && *c.ItemID == id {
			c.ItemID = nil
		}
	}
	return nil
}

func (r *ItemRepo) CountInvoiceLines(ctx context.Context, id string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, l := range r.s.lines {
		if l.ItemID == id {
			n++
		}
	}
	return n, nil
}

func (r *ItemRepo) Touch(ctx context.Context, id string, at time.Time) error {
	return r.mutate(id, func(it *entity.Item) error {
		it.UpdatedAt, it.LastEditedAt = at, at
		return nil
	})
}

func (r *ItemRepo) CreateOperation(ctx context.Context, op *entity.ItemOperation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.items[op.ItemID]; !ok {
		return domain.ErrNotFound
	}
	if op.ID == "" {
		op.ID = uuid.New().String()
	}
	c := *op
	r.s.ops[op.ID] = &c
	return nil
}

func (r *ItemRepo) GetOperation(ctx context.Context, id string) (*entity.ItemOperation, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	op, ok := r.s.ops[id]
	if !ok {
		return nil, nil
	}
	c := *op
	return &c, nil
}

func (r *ItemRepo) UpdateOperation(ctx context.Context, op *entity.ItemOperation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.ops[op.ID]
	if !ok {
		return domain.ErrNotFound
	}
	c := *op
	c.ItemID, c.CreatedAt = cur.ItemID, cur.CreatedAt
	r.s.ops[op.ID] = &c
	return nil
}

func (r *ItemRepo) DeleteOperation(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.ops[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.ops, id)
	return nil
}

func (r *ItemRepo) mutate(id string, fn func(it *entity.Item) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	return fn(it)
}

// withOps copia el ítem y le adjunta sus operaciones (requiere mu tomado).
func (r *ItemRepo) withOps(it *entity.Item) *entity.Item {
	c := *it
	c.Operations = nil
	for _, op := range r.s.ops {
		if op.ItemID == it.ID {
			oc := *op
			c.Operations = append(c.Operations, &oc)
		}
	}
	sort.Slice(c.Operations, func(i, j int) bool {
		return c.Operations[i].OperationDate.Before(c.Operations[j].OperationDate)
	})
	return &c
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
