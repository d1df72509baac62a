package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Bases de costo para el reporte financiero.
const (
	CostBasisCurrent  = "current"  // costo total actual del ítem
	CostBasisSnapshot = "snapshot" // costo congelado en la línea al facturar
)

// DateRange rango cerrado [From, To]; un extremo nil no limita.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// SalesTotals ingresos y número de facturas del rango.
type SalesTotals struct {
	Revenue  decimal.Decimal
	Invoices int
}

// SoldTotals unidades vendidas y su costo en el rango.
type SoldTotals struct {
	Units int
	Cost  decimal.Decimal
}

// CheckTotals suma de cheques por dirección.
type CheckTotals struct {
	Incoming decimal.Decimal
	Outgoing decimal.Decimal
}

// InventoryTotals totales del inventario vigente (no eliminado).
type InventoryTotals struct {
	TotalCarpets     int
	TotalValue       decimal.Decimal // Σ costo_total × quantity con quantity > 0
	ConsignmentCount int             // unidades en consignación con quantity > 0
}

// GroupCount cantidad de unidades por clave (tamaño o material).
type GroupCount struct {
	Key   string
	Count int
}

// ReportRepository consultas de solo lectura para los reportes.
// Las implementaciones no modifican datos.
type ReportRepository interface {
	SalesTotals(ctx context.Context, r DateRange) (SalesTotals, error)
	SoldTotals(ctx context.Context, r DateRange, costBasis string) (SoldTotals, error)
	CheckTotals(ctx context.Context, r DateRange) (CheckTotals, error)
	InventoryTotals(ctx context.Context) (InventoryTotals, error)
	UnitsBySize(ctx context.Context) ([]GroupCount, error)
	UnitsByMaterial(ctx context.Context) ([]GroupCount, error)
}
