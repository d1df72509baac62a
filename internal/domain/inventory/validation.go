// Package inventory contiene las reglas de dominio del inventario de alfombras:
// costo total, movimientos del ledger y validación de ítems.
package inventory

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/carpet-shop-api/internal/domain"
	"github.com/jhoicas/carpet-shop-api/internal/domain/entity"
)

// ValidateItem valida precios, enumeraciones y los campos de consignación.
// Los campos de consignación son obligatorios si y solo si IsConsignment está activo.
// El error devuelto envuelve domain.ErrInvalidInput.
func ValidateItem(item *entity.Item) error {
	if item == nil {
		return fmt.Errorf("%w: ítem nulo", domain.ErrInvalidInput)
	}
	var errs []error

	if !entity.ValidSize(item.Size) {
		errs = append(errs, fmt.Errorf("tamaño desconocido %q", item.Size))
	}
	if !entity.ValidPaymentMethod(item.PaymentMethod) {
		errs = append(errs, fmt.Errorf("forma de pago desconocida %q", item.PaymentMethod))
	}
	if item.PurchasePrice.IsNegative() {
		errs = append(errs, errors.New("purchase_price no puede ser negativo"))
	}
	if item.SalePrice != nil && item.SalePrice.IsNegative() {
		errs = append(errs, errors.New("sale_price no puede ser negativo"))
	}
	if item.Quantity < 0 {
		errs = append(errs, errors.New("quantity no puede ser negativa"))
	}

	if item.IsConsignment {
		if item.ConsignmentOwner == "" {
			errs = append(errs, errors.New("consignment_owner es obligatorio en consignación"))
		}
		if item.OwnerDeclaredPrice == nil {
			errs = append(errs, errors.New("owner_declared_price es obligatorio en consignación"))
		} else if item.OwnerDeclaredPrice.IsNegative() {
			errs = append(errs, errors.New("owner_declared_price no puede ser negativo"))
		}
		if item.ConsignmentDate == nil {
			errs = append(errs, errors.New("consignment_date es obligatorio en consignación"))
		}
	} else if item.ConsignmentOwner != "" || item.OwnerDeclaredPrice != nil || item.ConsignmentDate != nil {
		errs = append(errs, errors.New("campos de consignación solo se permiten en ítems en consignación"))
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{domain.ErrInvalidInput}, errs...)...)
	}
	return nil
}

// ValidateOperation valida una operación de costo.
func ValidateOperation(op *entity.ItemOperation) error {
	if op.Name == "" {
		return fmt.Errorf("%w: operation name requerido", domain.ErrInvalidInput)
	}
	if op.Price.LessThan(decimal.Zero) {
		return fmt.Errorf("%w: operation price no puede ser negativo", domain.ErrInvalidInput)
	}
	return nil
}
