package invoicing_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/carpet-shop-api/internal/domain/entity"
	"github.com/jhoicas/carpet-shop-api/internal/domain/invoicing"
)

var testDay = time.Date(2026, time.March, 15, 10, 30, 0, 0, time.UTC)

func TestNextNumber_PrimeraDelDia(t *testing.T) {
	assert.Equal(t, "INV-20260315-0001", invoicing.NextNumber(testDay, nil))
}

func TestNextNumber_TomaElMayorSufijo(t *testing.T) {
	existing := []string{"INV-20260315-0003", "INV-20260315-0001", "INV-20260315-0002"}
	assert.Equal(t, "INV-20260315-0004", invoicing.NextNumber(testDay, existing))
}

func TestNextNumber_IgnoraOtrosDias(t *testing.T) {
	existing := []string{"INV-20260314-0042", "INV-20260316-0007"}
	assert.Equal(t, "INV-20260315-0001", invoicing.NextNumber(testDay, existing),
		"el consecutivo se reinicia cada día")
}

func TestNextNumber_IgnoraSufijosMalFormados(t *testing.T) {
	existing := []string{"INV-20260315-abcd", "INV-20260315-", "INV-20260315-0002", "basura"}
	assert.Equal(t, "INV-20260315-0003", invoicing.NextNumber(testDay, existing))

	onlyBad := []string{"INV-20260315-xx"}
	assert.Equal(t, "INV-20260315-0001", invoicing.NextNumber(testDay, onlyBad))
}

func TestNextNumber_SecuenciaMonotona(t *testing.T) {
	var existing []string
	for i := 0; i < 12; i++ {
		existing = append(existing, invoicing.NextNumber(testDay, existing))
	}
	assert.Equal(t, "INV-20260315-0001", existing[0])
	assert.Equal(t, "INV-20260315-0012", existing[11])
}

func TestNextNumber_MasDe9999(t *testing.T) {
	existing := []string{"INV-20260315-9999"}
	assert.Equal(t, "INV-20260315-10000", invoicing.NextNumber(testDay, existing))
}

func TestSumLines(t *testing.T) {
	lines := []*entity.InvoiceLine{
		{Quantity: 3, UnitPrice: decimal.NewFromInt(100), TotalPrice: invoicing.LineTotal(3, decimal.NewFromInt(100))},
		{Quantity: 1, UnitPrice: decimal.RequireFromString("49.50"), TotalPrice: invoicing.LineTotal(1, decimal.RequireFromString("49.50"))},
	}
	assert.True(t, decimal.RequireFromString("349.50").Equal(invoicing.SumLines(lines)))
	assert.True(t, decimal.Zero.Equal(invoicing.SumLines(nil)))
}
