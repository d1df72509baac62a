// Package analytics contiene los casos de uso de reportes financieros y de inventario.
// Se recalculan en cada llamada y nunca modifican datos.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/carpet-shop-api/internal/application/dto"
	"github.com/jhoicas/carpet-shop-api/internal/domain"
	"github.com/jhoicas/carpet-shop-api/internal/domain/entity"
	"github.com/jhoicas/carpet-shop-api/internal/domain/repository"
)

// Períodos predefinidos del reporte financiero (días hacia atrás desde ahora).
var periodDays = map[string]int{
	"daily":       1,
	"weekly":      7,
	"monthly":     30,
	"quarterly":   90,
	"semi-annual": 180,
	"annual":      365,
}

// ValidPeriod indica si p es un período predefinido.
func ValidPeriod(p string) bool {
	_, ok := periodDays[p]
	return ok
}

// ReportUseCase genera los reportes a partir de ReportRepository (consultas read-only).
type ReportUseCase struct {
	reportRepo repository.ReportRepository
	costBasis  string
	now        func() time.Time
}

// NewReportUseCase construye el caso de uso. costBasis vacío o desconocido usa el costo actual.
func NewReportUseCase(reportRepo repository.ReportRepository, costBasis string) *ReportUseCase {
	if costBasis != repository.CostBasisSnapshot {
		costBasis = repository.CostBasisCurrent
	}
	return &ReportUseCase{reportRepo: reportRepo, costBasis: costBasis, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *ReportUseCase) WithClock(now func() time.Time) *ReportUseCase {
	uc.now = now
	return uc
}

// Financial resumen financiero del rango [start, end]; un extremo nil no limita.
//
// Tres consultas en paralelo:
//  1. SalesTotals  → ingresos y número de facturas
//  2. SoldTotals   → unidades vendidas y su costo
//  3. CheckTotals  → cheques recibidos y emitidos
func (uc *ReportUseCase) Financial(ctx context.Context, in dto.ReportRangeRequest) (*dto.FinancialReportResponse, error) {
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return nil, fmt.Errorf("end_date before start_date: %w", domain.ErrInvalidInput)
	}
	r := repository.DateRange{From: in.StartDate, To: in.EndDate}

	var (
		sales  repository.SalesTotals
		sold   repository.SoldTotals
		checks repository.CheckTotals
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sales, err = uc.reportRepo.SalesTotals(gctx, r)
		return err
	})
	g.Go(func() error {
		var err error
		sold, err = uc.reportRepo.SoldTotals(gctx, r, uc.costBasis)
		return err
	})
	g.Go(func() error {
		var err error
		checks, err = uc.reportRepo.CheckTotals(gctx, r)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("financial report: %w", err)
	}

	return &dto.FinancialReportResponse{
		StartDate:           in.StartDate,
		EndDate:             in.EndDate,
		CostBasis:           uc.costBasis,
		TotalRevenue:        sales.Revenue,
		TotalCost:           sold.Cost,
		Profit:              sales.Revenue.Sub(sold.Cost),
		TotalInvoices:       sales.Invoices,
		TotalSoldCarpets:    sold.Units,
		TotalIncomingChecks: checks.Incoming,
		TotalOutgoingChecks: checks.Outgoing,
		NetCheckBalance:     checks.Incoming.Sub(checks.Outgoing),
	}, nil
}

// FinancialForPeriod reporte financiero de un período predefinido que termina ahora.
func (uc *ReportUseCase) FinancialForPeriod(ctx context.Context, period string) (*dto.FinancialReportResponse, error) {
	n, ok := periodDays[period]
	if !ok {
		return nil, fmt.Errorf("unknown period %q: %w", period, domain.ErrInvalidInput)
	}
	end := uc.now()
	start := end.AddDate(0, 0, -n)
	out, err := uc.Financial(ctx, dto.ReportRangeRequest{StartDate: &start, EndDate: &end})
	if err != nil {
		return nil, err
	}
	out.Period = period
	return out, nil
}

// Inventory resumen del inventario vigente; agrupaciones y valor solo sobre existencias > 0.
func (uc *ReportUseCase) Inventory(ctx context.Context) (*dto.InventoryReportResponse, error) {
	var (
		totals     repository.InventoryTotals
		bySize     []repository.GroupCount
		byMaterial []repository.GroupCount
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totals, err = uc.reportRepo.InventoryTotals(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		bySize, err = uc.reportRepo.UnitsBySize(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		byMaterial, err = uc.reportRepo.UnitsByMaterial(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("inventory report: %w", err)
	}

	out := &dto.InventoryReportResponse{
		TotalCarpets:        totals.TotalCarpets,
		TotalInventoryValue: totals.TotalValue,
		BySize:              make([]dto.SizeCount, 0, len(bySize)),
		ByMaterial:          make([]dto.MaterialCount, 0, len(byMaterial)),
		ConsignmentCount:    totals.ConsignmentCount,
		OwnedCount:          totals.TotalCarpets - totals.ConsignmentCount,
	}
	sortGroups(bySize)
	for _, s := range bySize {
		out.BySize = append(out.BySize, dto.SizeCount{Size: s.Key, SizeLabel: entity.SizeLabel(s.Key), Count: s.Count})
	}
	sortGroups(byMaterial)
	for _, m := range byMaterial {
		out.ByMaterial = append(out.ByMaterial, dto.MaterialCount{Material: m.Key, Count: m.Count})
	}
	return out, nil
}

// sortGroups ordena por cantidad descendente y luego por clave.
func sortGroups(gs []repository.GroupCount) {
	sort.Slice(gs, func(i, j int) bool {
		if gs[i].Count != gs[j].Count {
			return gs[i].Count > gs[j].Count
		}
		return gs[i].Key < gs[j].Key
	})
}
