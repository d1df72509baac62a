package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/carpet-shop-api/internal/domain"
	"github.com/jhoicas/carpet-shop-api/internal/domain/entity"
	"github.com/jhoicas/carpet-shop-api/internal/domain/repository"
)

var _ repository.CheckRepository = (*CheckRepo)(nil)

// CheckRepo CheckRepository en memoria.
type CheckRepo struct {
	s *Store
}

func (r *CheckRepo) Create(ctx context.Context, c *entity.Check) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	cc := *c
	r.s.checks[c.ID] = &cc
	return nil
}

func (r *CheckRepo) GetByID(ctx context.Context, id string) (*entity.Check, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.checks[id]
	if !ok {
		return nil, nil
	}
	cc := *c
	return &cc, nil
}

func (r *CheckRepo) List(ctx context.Context, f repository.CheckFilter) ([]*entity.Check, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Check
	for _, c := range r.s.checks {
		if f.Direction != "" && c.Direction != f.Direction {
			continue
		}
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		if f.From != nil && c.DueDate.Before(*f.From) {
			continue
		}
		if f.To != nil && c.DueDate.After(*f.To) {
			continue
		}
		cc := *c
		list = append(list, &cc)
	}
	sortByDue(list)
	return page(list, f.Limit, f.Offset), len(list), nil
}

func (r *CheckRepo) Update(ctx context.Context, c *entity.Check) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.checks[c.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cc := *c
	cc.NotificationSent, cc.CreatedAt = cur.NotificationSent, cur.CreatedAt
	r.s.checks[c.ID] = &cc
	return nil
}

func (r *CheckRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.checks[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.checks, id)
	return nil
}

func (r *CheckRepo) ListDue(ctx context.Context, q repository.DueQuery) ([]*entity.Check, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Check
	for _, c := range r.s.checks {
		if c.DueDate.Before(q.From) || c.DueDate.After(q.To) {
			continue
		}
		if !contains(q.Statuses, c.Status) {
			continue
		}
		if q.OnlyUnnotified && c.NotificationSent != nil {
			continue
		}
		cc := *c
		list = append(list, &cc)
	}
	sortByDue(list)
	return list, nil
}

func (r *CheckRepo) MarkNotified(ctx context.Context, id string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.checks[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.NotificationSent = &at
	c.UpdatedAt = at
	return nil
}

func sortByDue(list []*entity.Check) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].DueDate.Equal(list[j].DueDate) {
			return list[i].DueDate.Before(list[j].DueDate)
		}
		return list[i].Number < list[j].Number
	})
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
