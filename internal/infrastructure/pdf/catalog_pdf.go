package pdf

import (
	"context"
	"fmt"
	"strconv"

	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	appinventory "github.com/jhoicas/carpet-shop-api/internal/application/inventory"
	"github.com/jhoicas/carpet-shop-api/internal/domain/entity"
	domaininv "github.com/jhoicas/carpet-shop-api/internal/domain/inventory"
)

var _ appinventory.CatalogRenderer = (*MarotoPDFGenerator)(nil)

// RenderCatalog genera el listado del inventario: una fila por alfombra con costo total y precio de venta.
func (g *MarotoPDFGenerator) RenderCatalog(_ context.Context, items []*entity.Item) ([]byte, error) {
	m := g.newDocument("Catálogo de alfombras")

	m.AddRows(row.New(14).Add(
		col.New(8).Add(text.New(g.shopName+" - Catálogo", props.Text{
			Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 2,
		})),
		col.New(4).Add(text.New(strconv.Itoa(len(items))+" alfombras", props.Text{
			Size: 9, Align: align.Right, Color: colorGray, Top: 4,
		})),
	))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(catalogHeaderRow())
	m.AddRows(catalogRows(items)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar catálogo: %w", err)
	}
	return doc.GetBytes(), nil
}

func catalogHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		h("Diseño / Marca", 4, align.Left),
		h("Tamaño", 2, align.Left),
		h("Material", 2, align.Left),
		h("Cant.", 1, align.Center),
		h("Costo", 2, align.Right),
		h("Venta", 1, align.Right),
	)
}

func catalogRows(items []*entity.Item) []core.Row {
	rows := make([]core.Row, 0, len(items))
	for _, it := range items {
		name := it.Pattern + " - " + it.Brand
		if it.IsConsignment {
			name += " (consignación)"
		}
		sale := "-"
		if it.SalePrice != nil {
			sale = formatMoney(*it.SalePrice)
		}
		rows = append(rows, row.New(7).Add(
			col.New(4).Add(text.New(name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(entity.SizeLabel(it.Size), props.Text{Size: 8, Top: 1})),
			col.New(2).Add(text.New(nonEmpty(it.Material, "-"), props.Text{Size: 8, Top: 1})),
			col.New(1).Add(text.New(strconv.Itoa(it.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(formatMoney(domaininv.CostCalculator(it)), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(sale, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return rows
}
