package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportRangeRequest rango del reporte financiero; un extremo nulo no limita.
type ReportRangeRequest struct {
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

// FinancialReportResponse resumen financiero del período.
type FinancialReportResponse struct {
	StartDate           *time.Time      `json:"start_date,omitempty"`
	EndDate             *time.Time      `json:"end_date,omitempty"`
	Period              string          `json:"period,omitempty"`
	CostBasis           string          `json:"cost_basis"`
	TotalRevenue        decimal.Decimal `json:"total_revenue"`
	TotalCost           decimal.Decimal `json:"total_cost"`
	Profit              decimal.Decimal `json:"profit"`
	TotalInvoices       int             `json:"total_invoices"`
	TotalSoldCarpets    int             `json:"total_sold_carpets"`
	TotalIncomingChecks decimal.Decimal `json:"total_incoming_checks"`
	TotalOutgoingChecks decimal.Decimal `json:"total_outgoing_checks"`
	NetCheckBalance     decimal.Decimal `json:"net_check_balance"`
}

// SizeCount unidades por tamaño.
type SizeCount struct {
	Size      string `json:"size"`
	SizeLabel string `json:"size_label"`
	Count     int    `json:"count"`
}

// MaterialCount unidades por material.
type MaterialCount struct {
	Material string `json:"material"`
	Count    int    `json:"count"`
}

// InventoryReportResponse resumen del inventario vigente.
type InventoryReportResponse struct {
	TotalCarpets        int             `json:"total_carpets"`
	TotalInventoryValue decimal.Decimal `json:"total_inventory_value"`
	BySize              []SizeCount     `json:"by_size"`
	ByMaterial          []MaterialCount `json:"by_material"`
	ConsignmentCount    int             `json:"consignment_count"`
	OwnedCount          int             `json:"owned_count"`
}
