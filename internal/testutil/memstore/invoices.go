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

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo InvoiceRepository en memoria.
type InvoiceRepo struct {
	s *Store
}

func (r *InvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, inv := range r.s.invoices {
		if inv.Number == invoice.Number {
			return fmt.Errorf("invoice number already exists: %w", domain.ErrDuplicate)
		}
	}
	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}
	c := *invoice
	c.Lines = nil
	r.s.invoices[invoice.ID] = &c
	return nil
}

func (r *InvoiceRepo) CreateLine(ctx context.Context, line *entity.InvoiceLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.createdLines++
	if r.s.FailCreateLine != nil && r.s.createdLines == r.s.FailCreateLineAt {
		return r.s.FailCreateLine
	}
	if _, ok := r.s.invoices[line.InvoiceID]; !ok {
		return domain.ErrNotFound
	}
	if _, ok := r.s.items[line.ItemID]; !ok {
		return domain.ErrNotFound
	}
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	c := *line
	r.s.lines[line.ID] = &c
	return nil
}

func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invoices[id]
	if !ok {
		return nil, nil
	}
	return r.withLines(inv), nil
}

func (r *InvoiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.GetByID(ctx, id)
}

func (r *InvoiceRepo) List(ctx context.Context, f repository.InvoiceFilter) ([]*entity.Invoice, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Invoice
	for _, inv := range r.s.invoices {
		if f.CustomerName != "" && !containsFold(inv.CustomerName, f.CustomerName) {
			continue
		}
		if f.From != nil && inv.Date.Before(*f.From) {
			continue
		}
		if f.To != nil && inv.Date.After(*f.To) {
			continue
		}
		if f.Status != "" && inv.Status != f.Status {
			continue
		}
		list = append(list, r.withLines(inv))
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].Date.Equal(list[j].Date) {
			return list[i].Date.After(list[j].Date)
		}
		return list[i].Number > list[j].Number
	})
	return page(list, f.Limit, f.Offset), len(list), nil
}

func (r *InvoiceRepo) UpdateMetadata(ctx context.Context, invoice *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invoices[invoice.ID]
	if !ok {
		return domain.ErrNotFound
	}
	inv.CustomerName = invoice.CustomerName
	inv.PaymentMethod = invoice.PaymentMethod
	inv.Description = invoice.Description
	inv.SignaturePath = invoice.SignaturePath
	inv.IsSigned = invoice.IsSigned
	inv.UpdatedAt = invoice.UpdatedAt
	inv.LastEditedAt = invoice.LastEditedAt
	return nil
}

func (r *InvoiceRepo) MarkFinalized(ctx context.Context, id string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invoices[id]
	if !ok || inv.Status != entity.InvoiceStatusDraft {
		return domain.ErrConflict
	}
	inv.Status = entity.InvoiceStatusFinalized
	inv.FinalizedAt = &at
	inv.UpdatedAt, inv.LastEditedAt = at, at
	return nil
}

func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.invoices[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.invoices, id)
	for lid, l := range r.s.lines {
		if l.InvoiceID == id {
			delete(r.s.lines, lid)
		}
	}
	for _, c := range r.s.checks {
		if c.InvoiceID != nil && *c.InvoiceID == id {
			c.InvoiceID = nil
		}
	}
	return nil
}

// LockNumbering no hace nada: las transacciones en memoria ya están serializadas.
func (r *InvoiceRepo) LockNumbering(ctx context.Context, prefix string) error {
	return nil
}

func (r *InvoiceRepo) NumbersWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []string
	for _, inv := range r.s.invoices {
		if strings.HasPrefix(inv.Number, prefix) {
			out = append(out, inv.Number)
		}
	}
	return out, nil
}

// withLines copia la factura con sus líneas ordenadas por posición (requiere mu tomado).
func (r *InvoiceRepo) withLines(inv *entity.Invoice) *entity.Invoice {
	c := *inv
	c.Lines = nil
	for _, l := range r.s.lines {
		if l.InvoiceID == inv.ID {
			lc := *l
			c.Lines = append(c.Lines, &lc)
		}
	}
	sort.Slice(c.Lines, func(i, j int) bool { return c.Lines[i].Position < c.Lines[j].Position })
	return &c
}
