// Package invoicing contiene las reglas de numeración y totales de facturas.
package invoicing

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/carpet-shop-api/internal/domain/entity"
)

const (
	numberPrefix = "INV"
	dayLayout    = "20060102"
	suffixDigits = 4
)

// DayPrefix devuelve el prefijo del día, ej: "INV-20260315-".
func DayPrefix(day time.Time) string {
	return fmt.Sprintf("%s-%s-", numberPrefix, day.Format(dayLayout))
}

// NextNumber asigna el siguiente consecutivo del día a partir de los números existentes con ese prefijo.
// Toma el mayor sufijo válido y suma uno; los números mal formados se ignoran.
// Sin números válidos el consecutivo arranca en 0001.
func NextNumber(day time.Time, existing []string) string {
	prefix := DayPrefix(day)
	maxSeq := 0
	for _, n := range existing {
		seq, ok := parseSuffix(prefix, n)
		if ok && seq > maxSeq {
			maxSeq = seq
		}
	}
	return fmt.Sprintf("%s%0*d", prefix, suffixDigits, maxSeq+1)
}

func parseSuffix(prefix, number string) (int, bool) {
	if !strings.HasPrefix(number, prefix) {
		return 0, false
	}
	suffix := strings.TrimPrefix(number, prefix)
	if suffix == "" {
		return 0, false
	}
	seq, err := strconv.Atoi(suffix)
	if err != nil || seq <= 0 {
		return 0, false
	}
	return seq, true
}

// LineTotal = quantity × unit_price.
func LineTotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// SumLines devuelve Σ TotalPrice de las líneas.
func SumLines(lines []*entity.InvoiceLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.TotalPrice)
	}
	return total
}
