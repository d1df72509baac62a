package memstore

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	domaininv "github.com/jhoicas/carpet-shop-api/internal/domain/inventory"
	"github.com/jhoicas/carpet-shop-api/internal/domain/entity"
	"github.com/jhoicas/carpet-shop-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo agrega sobre el estado en memoria con la misma semántica que las consultas de Postgres:
// rangos cerrados, costo actual = base + Σ operaciones, inventario sin eliminados y valor solo con quantity > 0.
type ReportRepo struct {
	s *Store
}

// Reports devuelve el repo de reportes.
func (s *Store) Reports() *ReportRepo { return &ReportRepo{s: s} }

func inRange(t time.Time, rg repository.DateRange) bool {
	if rg.From != nil && t.Before(*rg.From) {
		return false
	}
	if rg.To != nil && t.After(*rg.To) {
		return false
	}
	return true
}

func (r *ReportRepo) SalesTotals(ctx context.Context, rg repository.DateRange) (repository.SalesTotals, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := repository.SalesTotals{Revenue: decimal.Zero}
	for _, inv := range r.s.invoices {
		if !inRange(inv.Date, rg) {
			continue
		}
		out.Revenue = out.Revenue.Add(inv.TotalAmount)
		out.Invoices++
	}
	return out, nil
}

func (r *ReportRepo) SoldTotals(ctx context.Context, rg repository.DateRange, costBasis string) (repository.SoldTotals, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items := &ItemRepo{s: r.s}
	out := repository.SoldTotals{Cost: decimal.Zero}
	for _, l := range r.s.lines {
		inv, ok := r.s.invoices[l.InvoiceID]
		if !ok || !inRange(inv.Date, rg) {
			continue
		}
		it, ok := r.s.items[l.ItemID]
		if !ok {
			continue
		}
		unit := l.UnitCost
		if costBasis != repository.CostBasisSnapshot {
			unit = domaininv.CostCalculator(items.withOps(it))
		}
		out.Units += l.Quantity
		out.Cost = out.Cost.Add(unit.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return out, nil
}

func (r *ReportRepo) CheckTotals(ctx context.Context, rg repository.DateRange) (repository.CheckTotals, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := repository.CheckTotals{Incoming: decimal.Zero, Outgoing: decimal.Zero}
	for _, c := range r.s.checks {
		if !inRange(c.DueDate, rg) {
			continue
		}
		switch c.Direction {
		case entity.CheckIncoming:
			out.Incoming = out.Incoming.Add(c.Amount)
		case entity.CheckOutgoing:
			out.Outgoing = out.Outgoing.Add(c.Amount)
		}
	}
	return out, nil
}

func (r *ReportRepo) InventoryTotals(ctx context.Context) (repository.InventoryTotals, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items := &ItemRepo{s: r.s}
	out := repository.InventoryTotals{TotalValue: decimal.Zero}
	for _, it := range r.s.items {
		if it.IsDeleted {
			continue
		}
		out.TotalCarpets += it.Quantity
		if it.Quantity <= 0 {
			continue
		}
		cost := domaininv.CostCalculator(items.withOps(it))
		out.TotalValue = out.TotalValue.Add(cost.Mul(decimal.NewFromInt(int64(it.Quantity))))
		if it.IsConsignment {
			out.ConsignmentCount += it.Quantity
		}
	}
	return out, nil
}

func (r *ReportRepo) UnitsBySize(ctx context.Context) ([]repository.GroupCount, error) {
	return r.groupUnits(func(it *entity.Item) string { return it.Size }), nil
}

func (r *ReportRepo) UnitsByMaterial(ctx context.Context) ([]repository.GroupCount, error) {
	return r.groupUnits(func(it *entity.Item) string { return it.Material }), nil
}

// groupUnits el orden lo fija el caso de uso.
func (r *ReportRepo) groupUnits(key func(it *entity.Item) string) []repository.GroupCount {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sums := map[string]int{}
	var order []string
	for _, it := range r.s.items {
		if it.IsDeleted || it.Quantity <= 0 {
			continue
		}
		k := key(it)
		if _, ok := sums[k]; !ok {
			order = append(order, k)
		}
		sums[k] += it.Quantity
	}
	out := make([]repository.GroupCount, 0, len(order))
	for _, k := range order {
		out = append(out, repository.GroupCount{Key: k, Count: sums[k]})
	}
	return out
}
