// Package export genera exportaciones tabulares del inventario.
package export

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	appinventory "github.com/jhoicas/carpet-shop-api/internal/application/inventory"
	"github.com/jhoicas/carpet-shop-api/internal/domain/entity"
	domaininv "github.com/jhoicas/carpet-shop-api/internal/domain/inventory"
)

const sheetName = "Carpets"

var _ appinventory.CatalogRenderer = (*XLSXCatalog)(nil)

var headings = []interface{}{
	"ID", "Pattern", "Brand", "Material", "Size", "Quantity",
	"Purchase price", "Operations cost", "Total cost", "Sale price",
	"Consignment", "Consignment owner", "Created at",
}

// XLSXCatalog exporta el catálogo a una hoja de cálculo (excelize).
type XLSXCatalog struct{}

// NewXLSXCatalog construye el exportador.
func NewXLSXCatalog() *XLSXCatalog { return &XLSXCatalog{} }

// RenderCatalog escribe una fila por alfombra y devuelve el .xlsx en memoria.
func (x *XLSXCatalog) RenderCatalog(_ context.Context, items []*entity.Item) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("xlsx: %w", err)
	}
	if err := f.SetSheetRow(sheetName, "A1", &headings); err != nil {
		return nil, fmt.Errorf("xlsx: headers: %w", err)
	}

	for i, it := range items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		var sale interface{}
		if it.SalePrice != nil {
			sale = it.SalePrice.InexactFloat64()
		}
		values := []interface{}{
			it.ID,
			it.Pattern,
			it.Brand,
			it.Material,
			entity.SizeLabel(it.Size),
			it.Quantity,
			domaininv.BaseCost(it).InexactFloat64(),
			domaininv.OperationsCost(it.Operations).InexactFloat64(),
			domaininv.CostCalculator(it).InexactFloat64(),
			sale,
			it.IsConsignment,
			it.ConsignmentOwner,
			it.CreatedAt.Format("2006-01-02"),
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("xlsx: row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: write: %w", err)
	}
	return buf.Bytes(), nil
}
