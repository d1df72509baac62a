package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/carpet-shop-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// itemCostSQL costo total unitario actual: base (declarado si es consignación) + Σ operaciones.
const itemCostSQL = `
	(CASE WHEN it.is_consignment THEN COALESCE(it.owner_declared_price, it.purchase_price)
	      ELSE it.purchase_price END
	 + COALESCE((SELECT SUM(op.price) FROM item_operations op WHERE op.item_id = it.id), 0))`

// ReportRepo consultas de solo lectura para reportes financieros y de inventario.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

func rangeClause(a *argList, column string, rg repository.DateRange) {
	if rg.From != nil {
		a.where(column + " >= " + a.add(*rg.From))
	}
	if rg.To != nil {
		a.where(column + " <= " + a.add(*rg.To))
	}
}

// SalesTotals suma total_amount y cuenta las facturas con fecha en el rango.
func (r *ReportRepo) SalesTotals(ctx context.Context, rg repository.DateRange) (repository.SalesTotals, error) {
	var a argList
	rangeClause(&a, "i.invoice_date", rg)
	query := `SELECT COALESCE(SUM(i.total_amount), 0), COUNT(*) FROM invoices i` + a.clause()

	var out repository.SalesTotals
	if err := r.q.QueryRow(ctx, query, a.args...).Scan(&out.Revenue, &out.Invoices); err != nil {
		return out, fmt.Errorf("report.SalesTotals: %w", err)
	}
	return out, nil
}

// SoldTotals suma unidades vendidas y su costo (actual o congelado en la línea).
func (r *ReportRepo) SoldTotals(ctx context.Context, rg repository.DateRange, costBasis string) (repository.SoldTotals, error) {
	var a argList
	rangeClause(&a, "i.invoice_date", rg)

	costExpr := `l.quantity * ` + itemCostSQL
	if costBasis == repository.CostBasisSnapshot {
		costExpr = `l.quantity * l.unit_cost`
	}
	query := `
		SELECT COALESCE(SUM(l.quantity), 0), COALESCE(SUM(` + costExpr + `), 0)
		FROM invoice_lines l
		JOIN invoices i ON i.id = l.invoice_id
		JOIN items it   ON it.id = l.item_id` + a.clause()

	var out repository.SoldTotals
	if err := r.q.QueryRow(ctx, query, a.args...).Scan(&out.Units, &out.Cost); err != nil {
		return out, fmt.Errorf("report.SoldTotals: %w", err)
	}
	return out, nil
}

// CheckTotals suma los cheques con vencimiento en el rango, por dirección.
func (r *ReportRepo) CheckTotals(ctx context.Context, rg repository.DateRange) (repository.CheckTotals, error) {
	var a argList
	rangeClause(&a, "c.due_date", rg)
	query := `
		SELECT COALESCE(SUM(c.amount) FILTER (WHERE c.direction = 'incoming'), 0),
		       COALESCE(SUM(c.amount) FILTER (WHERE c.direction = 'outgoing'), 0)
		FROM checks c` + a.clause()

	var out repository.CheckTotals
	if err := r.q.QueryRow(ctx, query, a.args...).Scan(&out.Incoming, &out.Outgoing); err != nil {
		return out, fmt.Errorf("report.CheckTotals: %w", err)
	}
	return out, nil
}

// InventoryTotals existencias, valor y consignación del inventario no eliminado.
func (r *ReportRepo) InventoryTotals(ctx context.Context) (repository.InventoryTotals, error) {
	query := `
		SELECT COALESCE(SUM(it.quantity), 0),
		       COALESCE(SUM(` + itemCostSQL + ` * it.quantity) FILTER (WHERE it.quantity > 0), 0),
		       COALESCE(SUM(it.quantity) FILTER (WHERE it.is_consignment AND it.quantity > 0), 0)
		FROM items it
		WHERE NOT it.is_deleted`

	var out repository.InventoryTotals
	if err := r.q.QueryRow(ctx, query).Scan(&out.TotalCarpets, &out.TotalValue, &out.ConsignmentCount); err != nil {
		return out, fmt.Errorf("report.InventoryTotals: %w", err)
	}
	return out, nil
}

// UnitsBySize agrupa unidades en existencia por tamaño.
func (r *ReportRepo) UnitsBySize(ctx context.Context) ([]repository.GroupCount, error) {
	return r.groupUnits(ctx, "size")
}

// UnitsByMaterial agrupa unidades en existencia por material.
func (r *ReportRepo) UnitsByMaterial(ctx context.Context) ([]repository.GroupCount, error) {
	return r.groupUnits(ctx, "material")
}

func (r *ReportRepo) groupUnits(ctx context.Context, column string) ([]repository.GroupCount, error) {
	query := `
		SELECT ` + column + `, SUM(quantity)
		FROM items
		WHERE NOT is_deleted AND quantity > 0
		GROUP BY ` + column + `
		ORDER BY SUM(quantity) DESC, ` + column
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("report.groupUnits(%s): %w", column, err)
	}
	defer rows.Close()
	var out []repository.GroupCount
	for rows.Next() {
		var g repository.GroupCount
		if err := rows.Scan(&g.Key, &g.Count); err != nil {
			return nil, fmt.Errorf("report.groupUnits(%s): %w", column, err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
