package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/carpet-shop-api/internal/domain/entity"
)

// BaseCost devuelve el costo base del ítem: precio declarado por el dueño si está en
// consignación, precio de compra en caso contrario.
func BaseCost(item *entity.Item) decimal.Decimal {
	if item.IsConsignment && item.OwnerDeclaredPrice != nil {
		return *item.OwnerDeclaredPrice
	}
	return item.PurchasePrice
}

// OperationsCost suma el precio de todas las operaciones del ítem.
func OperationsCost(ops []*entity.ItemOperation) decimal.Decimal {
	total := decimal.Zero
	for _, op := range ops {
		total = total.Add(op.Price)
	}
	return total
}

// CostCalculator implementa el costo total unitario (servicio de dominio).
// TotalCost = BaseCost + Σ operaciones
func CostCalculator(item *entity.Item) decimal.Decimal {
	return BaseCost(item).Add(OperationsCost(item.Operations))
}
