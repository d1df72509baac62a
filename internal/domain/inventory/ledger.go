package inventory

import (
	"fmt"

	"github.com/jhoicas/carpet-shop-api/internal/domain"
)

// StockPolicy decide qué ocurre cuando un descuento supera la existencia.
type StockPolicy string

const (
	// StockPolicyStrict rechaza el descuento con ErrInsufficientStock.
	StockPolicyStrict StockPolicy = "strict"
	// StockPolicyClamp descuenta hasta dejar la existencia en cero.
	StockPolicyClamp StockPolicy = "clamp"
)

// ParseStockPolicy interpreta el valor de configuración; vacío o desconocido es strict.
func ParseStockPolicy(s string) StockPolicy {
	if StockPolicy(s) == StockPolicyClamp {
		return StockPolicyClamp
	}
	return StockPolicyStrict
}

// Decrement calcula la nueva existencia tras sacar n unidades. Nunca devuelve un valor negativo.
func Decrement(current, n int, policy StockPolicy) (int, error) {
	if n <= 0 {
		return current, fmt.Errorf("cantidad a descontar debe ser positiva: %w", domain.ErrInvalidInput)
	}
	if current < n {
		if policy == StockPolicyClamp {
			return 0, nil
		}
		return current, domain.ErrInsufficientStock
	}
	return current - n, nil
}

// Increment calcula la nueva existencia tras devolver n unidades.
func Increment(current, n int) (int, error) {
	if n <= 0 {
		return current, fmt.Errorf("cantidad a devolver debe ser positiva: %w", domain.ErrInvalidInput)
	}
	return current + n, nil
}
