package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/carpet-shop-api/internal/application/analytics"
	"github.com/jhoicas/carpet-shop-api/internal/application/billing"
	"github.com/jhoicas/carpet-shop-api/internal/application/checks"
	"github.com/jhoicas/carpet-shop-api/internal/application/dto"
	"github.com/jhoicas/carpet-shop-api/internal/application/inventory"
	"github.com/jhoicas/carpet-shop-api/internal/domain/entity"
	domaininv "github.com/jhoicas/carpet-shop-api/internal/domain/inventory"
	"github.com/jhoicas/carpet-shop-api/internal/domain/repository"
	"github.com/jhoicas/carpet-shop-api/internal/testutil/memstore"
)

// ─── Escenario sobre datos reales ─────────────────────────────────────────────

type shop struct {
	store    *memstore.Store
	items    *inventory.ItemUseCase
	invoices *billing.InvoiceUseCase
	checks   *checks.CheckUseCase
}

func newShop() *shop {
	store := memstore.New()
	clock := func() time.Time { return fixedNow }
	return &shop{
		store: store,
		items: inventory.NewItemUseCase(store.Items(), store.TxRunner(), nil, nil, nil, nil).WithClock(clock),
		invoices: billing.NewInvoiceUseCase(store.TxRunner(), inventory.NewLedger(domaininv.StockPolicyStrict),
			store.Invoices(), nil, nil, time.UTC).WithClock(clock),
		checks: checks.NewCheckUseCase(store.Checks(), store.Invoices(), store.Items(), 0).WithClock(clock),
	}
}

func (s *shop) item(t *testing.T, req dto.CreateItemRequest) string {
	t.Helper()
	out, err := s.items.Create(context.Background(), req)
	require.NoError(t, err)
	return out.ID
}

func (s *shop) invoice(t *testing.T, date time.Time, finalize bool, lines ...dto.CreateInvoiceLineRequest) {
	t.Helper()
	out, err := s.invoices.Create(context.Background(), dto.CreateInvoiceRequest{
		CustomerName: "Ahmadi", PaymentMethod: "cash", InvoiceDate: &date, Lines: lines,
	})
	require.NoError(t, err)
	if finalize {
		_, err = s.invoices.Finalize(context.Background(), out.ID)
		require.NoError(t, err)
	}
}

func (s *shop) check(t *testing.T, number string, amount int64, due time.Time, direction string) {
	t.Helper()
	_, err := s.checks.Create(context.Background(), dto.CreateCheckRequest{
		Number: number, Amount: dec(amount), DueDate: due, Direction: direction,
	})
	require.NoError(t, err)
}

func sold(itemID string, qty int, price int64) dto.CreateInvoiceLineRequest {
	return dto.CreateInvoiceLineRequest{ItemID: itemID, Quantity: qty, UnitPrice: dec(price)}
}

func qty(n int) *int { return &n }

// seedShop arma el inventario y los movimientos del escenario:
//   - owned: compra 100 + operación 20, 3 unidades (nine_meter, Wool)
//   - consigned: compra 500 pero declarado 60, 2 unidades (six_meter, Silk)
//   - deleted: 4 unidades eliminadas lógicamente
//   - empty: existencia cero
//
// Una factura de 300 dentro del rango y otra fuera; cheques +50 / -20 dentro y +1000 fuera.
func seedShop(t *testing.T) (*shop, map[string]string) {
	t.Helper()
	s := newShop()
	ctx := context.Background()
	declared := dec(60)
	ids := map[string]string{
		"owned": s.item(t, dto.CreateItemRequest{
			Pattern: "Tabriz", Material: "Wool", Size: entity.SizeNineMeter, PaymentMethod: entity.PaymentCash,
			PurchasePrice: dec(100), Quantity: qty(3),
			Operations: []dto.CreateOperationRequest{{Name: "lavado", Price: dec(20)}},
		}),
		"consigned": s.item(t, dto.CreateItemRequest{
			Pattern: "Nain", Material: "Silk", Size: entity.SizeSixMeter, PaymentMethod: entity.PaymentCash,
			PurchasePrice: dec(500), Quantity: qty(2), IsConsignment: true,
			ConsignmentOwner: "Moradi", OwnerDeclaredPrice: &declared, ConsignmentDate: &fixedNow,
		}),
		"deleted": s.item(t, dto.CreateItemRequest{
			Pattern: "Kashan", Material: "Wool", Size: entity.SizeLarger, PaymentMethod: entity.PaymentCash,
			PurchasePrice: dec(1000), Quantity: qty(4),
		}),
		"empty": s.item(t, dto.CreateItemRequest{
			Pattern: "Isfahan", Material: "Cotton", Size: entity.SizeTwelveMeter, PaymentMethod: entity.PaymentCash,
			PurchasePrice: dec(50), Quantity: qty(0),
		}),
	}
	require.NoError(t, s.items.SoftDelete(ctx, ids["deleted"]))

	s.invoice(t, fixedNow.AddDate(0, 0, -2), true, sold(ids["owned"], 1, 180), sold(ids["consigned"], 1, 120))
	s.invoice(t, fixedNow.AddDate(0, 0, -40), false, sold(ids["owned"], 1, 999))

	s.check(t, "1001", 50, fixedNow.AddDate(0, 0, -1), entity.CheckIncoming)
	s.check(t, "1002", 20, fixedNow.AddDate(0, 0, -3), entity.CheckOutgoing)
	s.check(t, "1003", 1000, fixedNow.AddDate(0, 0, 30), entity.CheckIncoming)
	return s, ids
}

func lastWeek() dto.ReportRangeRequest {
	start := fixedNow.AddDate(0, 0, -7)
	end := fixedNow
	return dto.ReportRangeRequest{StartDate: &start, EndDate: &end}
}

func TestEscenario_FinancieroSobreFacturasYCheques(t *testing.T) {
	s, _ := seedShop(t)

	out, err := analytics.NewReportUseCase(s.store.Reports(), "").Financial(context.Background(), lastWeek())

	require.NoError(t, err)
	assert.True(t, out.TotalRevenue.Equal(dec(300)), out.TotalRevenue.String())
	assert.Equal(t, 1, out.TotalInvoices)
	assert.Equal(t, 2, out.TotalSoldCarpets)
	assert.True(t, out.TotalCost.Equal(dec(180)), "120 del ítem propio + 60 declarado: %s", out.TotalCost)
	assert.True(t, out.Profit.Equal(dec(120)), out.Profit.String())
	assert.True(t, out.TotalIncomingChecks.Equal(dec(50)))
	assert.True(t, out.TotalOutgoingChecks.Equal(dec(20)))
	assert.True(t, out.NetCheckBalance.Equal(dec(30)))
}

func TestEscenario_BaseDeCostoActualVsCongelada(t *testing.T) {
	s, ids := seedShop(t)
	_, err := s.items.AddOperation(context.Background(), ids["owned"], dto.CreateOperationRequest{Name: "reparación", Price: dec(10)})
	require.NoError(t, err)

	current, err := analytics.NewReportUseCase(s.store.Reports(), repository.CostBasisCurrent).Financial(context.Background(), lastWeek())
	require.NoError(t, err)
	assert.True(t, current.TotalCost.Equal(dec(190)), current.TotalCost.String())

	snapshot, err := analytics.NewReportUseCase(s.store.Reports(), repository.CostBasisSnapshot).Financial(context.Background(), lastWeek())
	require.NoError(t, err)
	assert.True(t, snapshot.TotalCost.Equal(dec(180)), snapshot.TotalCost.String())
}

func TestEscenario_SinRangoIncluyeTodo(t *testing.T) {
	s, _ := seedShop(t)

	out, err := analytics.NewReportUseCase(s.store.Reports(), "").Financial(context.Background(), dto.ReportRangeRequest{})

	require.NoError(t, err)
	assert.True(t, out.TotalRevenue.Equal(dec(1299)), out.TotalRevenue.String())
	assert.Equal(t, 2, out.TotalInvoices)
	assert.True(t, out.NetCheckBalance.Equal(dec(1030)))
}

func TestEscenario_InventarioExcluyeEliminadosYSinExistencia(t *testing.T) {
	s, _ := seedShop(t)

	out, err := analytics.NewReportUseCase(s.store.Reports(), "").Inventory(context.Background())

	require.NoError(t, err)
	// Tras finalizar: owned 2 unidades a 120, consigned 1 unidad a 60.
	assert.Equal(t, 3, out.TotalCarpets)
	assert.True(t, out.TotalInventoryValue.Equal(decimal.NewFromInt(300)), out.TotalInventoryValue.String())
	assert.Equal(t, 1, out.ConsignmentCount)
	assert.Equal(t, 2, out.OwnedCount)
	assert.Equal(t, []dto.SizeCount{
		{Size: entity.SizeNineMeter, SizeLabel: entity.SizeLabel(entity.SizeNineMeter), Count: 2},
		{Size: entity.SizeSixMeter, SizeLabel: entity.SizeLabel(entity.SizeSixMeter), Count: 1},
	}, out.BySize)
	assert.Equal(t, []dto.MaterialCount{{Material: "Wool", Count: 2}, {Material: "Silk", Count: 1}}, out.ByMaterial)
}
