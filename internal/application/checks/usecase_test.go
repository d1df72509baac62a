package checks_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/carpet-shop-api/internal/application/checks"
	"github.com/jhoicas/carpet-shop-api/internal/application/dto"
	"github.com/jhoicas/carpet-shop-api/internal/domain"
	"github.com/jhoicas/carpet-shop-api/internal/domain/entity"
	"github.com/jhoicas/carpet-shop-api/internal/testutil/memstore"
)

// ─── Helpers ──────────────────────────────────────────────────────────────────

var fixedNow = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

func newUseCase(store *memstore.Store) *checks.CheckUseCase {
	return checks.NewCheckUseCase(store.Checks(), store.Invoices(), store.Items(), 0).
		WithClock(func() time.Time { return fixedNow })
}

func createCheck(t *testing.T, uc *checks.CheckUseCase, number string, due time.Time, direction, status string) *dto.CheckResponse {
	t.Helper()
	out, err := uc.Create(context.Background(), dto.CreateCheckRequest{
		Number:    number,
		Amount:    decimal.NewFromInt(100),
		Payee:     "Ahmadi",
		DueDate:   due,
		Direction: direction,
		Status:    status,
	})
	require.NoError(t, err)
	return out
}

func days(n int) time.Time { return fixedNow.AddDate(0, 0, n) }

func strPtr(s string) *string { return &s }

// ─── Create ───────────────────────────────────────────────────────────────────

func TestCreate_EstadoPorDefectoRegistrado(t *testing.T) {
	uc := newUseCase(memstore.New())

	out := createCheck(t, uc, " 1001 ", days(5), entity.CheckIncoming, "")

	assert.Equal(t, "1001", out.Number)
	assert.Equal(t, entity.CheckStatusRegistered, out.Status)
	assert.Equal(t, fixedNow, out.CreatedAt)
	assert.Nil(t, out.NotificationSent)
}

func TestCreate_ReferenciasInexistentesSonInvalidas(t *testing.T) {
	uc := newUseCase(memstore.New())

	_, err := uc.Create(context.Background(), dto.CreateCheckRequest{
		Number: "1", Amount: decimal.NewFromInt(10), DueDate: days(1),
		Direction: entity.CheckIncoming, InvoiceID: strPtr(uuid.New().String()),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(context.Background(), dto.CreateCheckRequest{
		Number: "2", Amount: decimal.NewFromInt(10), DueDate: days(1),
		Direction: entity.CheckIncoming, ItemID: strPtr(uuid.New().String()),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_VinculaAlfombraExistente(t *testing.T) {
	store := memstore.New()
	itemID := uuid.New().String()
	require.NoError(t, store.Items().Create(context.Background(), &entity.Item{
		ID: itemID, Pattern: "Tabriz", Brand: "B", Size: entity.SizeSixMeter,
		PaymentMethod: entity.PaymentCheck, PurchasePrice: decimal.NewFromInt(50), Quantity: 1,
	}))
	uc := newUseCase(store)

	out, err := uc.Create(context.Background(), dto.CreateCheckRequest{
		Number: "7", Amount: decimal.NewFromInt(50), DueDate: days(3),
		Direction: entity.CheckOutgoing, ItemID: &itemID,
	})
	require.NoError(t, err)
	require.NotNil(t, out.ItemID)
	assert.Equal(t, itemID, *out.ItemID)
}

func TestCreate_MontoNegativo(t *testing.T) {
	uc := newUseCase(memstore.New())
	_, err := uc.Create(context.Background(), dto.CreateCheckRequest{
		Number: "1", Amount: decimal.NewFromInt(-1), DueDate: days(1), Direction: entity.CheckIncoming,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ─── Get / List / Update / Delete ─────────────────────────────────────────────

func TestGet_Inexistente(t *testing.T) {
	uc := newUseCase(memstore.New())
	_, err := uc.Get(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIDMalFormado(t *testing.T) {
	uc := newUseCase(memstore.New())
	ctx := context.Background()

	_, err := uc.Get(ctx, "abc")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.Update(ctx, "abc", dto.UpdateCheckRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, "abc"), domain.ErrNotFound)
	assert.ErrorIs(t, uc.MarkNotified(ctx, "abc"), domain.ErrNotFound)

	_, err = uc.Create(ctx, dto.CreateCheckRequest{
		Number: "1", Amount: decimal.NewFromInt(10), DueDate: days(1),
		Direction: entity.CheckIncoming, InvoiceID: strPtr("abc"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, dto.CreateCheckRequest{
		Number: "2", Amount: decimal.NewFromInt(10), DueDate: days(1),
		Direction: entity.CheckIncoming, ItemID: strPtr("abc"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestList_FiltraYOrdenaPorVencimiento(t *testing.T) {
	uc := newUseCase(memstore.New())
	createCheck(t, uc, "C", days(9), entity.CheckIncoming, "")
	createCheck(t, uc, "A", days(1), entity.CheckIncoming, "")
	createCheck(t, uc, "B", days(4), entity.CheckOutgoing, "")

	all, err := uc.List(context.Background(), dto.CheckListRequest{})
	require.NoError(t, err)
	require.Len(t, all.Items, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{all.Items[0].Number, all.Items[1].Number, all.Items[2].Number})
	assert.Equal(t, 3, all.Page.Total)

	incoming, err := uc.List(context.Background(), dto.CheckListRequest{Direction: entity.CheckIncoming})
	require.NoError(t, err)
	assert.Len(t, incoming.Items, 2)

	to := days(5)
	ranged, err := uc.List(context.Background(), dto.CheckListRequest{EndDate: &to})
	require.NoError(t, err)
	assert.Len(t, ranged.Items, 2)
}

func TestUpdate_PatchYLimpiezaDeVinculos(t *testing.T) {
	store := memstore.New()
	uc := newUseCase(store)
	inv := &entity.Invoice{ID: uuid.New().String(), Number: "INV-20260315-0001", CustomerName: "X", Status: entity.InvoiceStatusDraft}
	require.NoError(t, store.Invoices().Create(context.Background(), inv))

	c := createCheck(t, uc, "1", days(2), entity.CheckIncoming, "")

	out, err := uc.Update(context.Background(), c.ID, dto.UpdateCheckRequest{
		Status:    strPtr(entity.CheckStatusPassed),
		InvoiceID: &inv.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.CheckStatusPassed, out.Status)
	require.NotNil(t, out.InvoiceID)
	assert.Equal(t, "Ahmadi", out.Payee)

	out, err = uc.Update(context.Background(), c.ID, dto.UpdateCheckRequest{ClearInvoice: true})
	require.NoError(t, err)
	assert.Nil(t, out.InvoiceID)

	_, err = uc.Update(context.Background(), c.ID, dto.UpdateCheckRequest{Status: strPtr("lost")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDelete(t *testing.T) {
	uc := newUseCase(memstore.New())
	c := createCheck(t, uc, "1", days(2), entity.CheckIncoming, "")

	require.NoError(t, uc.Delete(context.Background(), c.ID))
	assert.ErrorIs(t, uc.Delete(context.Background(), c.ID), domain.ErrNotFound)
}

// ─── Vencimientos y recordatorios ─────────────────────────────────────────────

func TestUpcoming_VentanaYEstados(t *testing.T) {
	uc := newUseCase(memstore.New())
	createCheck(t, uc, "dentro", days(3), entity.CheckIncoming, entity.CheckStatusConfirmed)
	createCheck(t, uc, "lejano", days(10), entity.CheckIncoming, "")
	createCheck(t, uc, "vencido", days(-1), entity.CheckIncoming, "")
	createCheck(t, uc, "cobrado", days(2), entity.CheckIncoming, entity.CheckStatusPassed)
	createCheck(t, uc, "sin_registrar", days(2), entity.CheckOutgoing, entity.CheckStatusNotRegistered)

	out, err := uc.Upcoming(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "dentro", out[0].Number)

	out, err = uc.Upcoming(context.Background(), 30)
	require.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestUpcoming_VentanaFueraDeRango(t *testing.T) {
	uc := newUseCase(memstore.New())
	_, err := uc.Upcoming(context.Background(), 91)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Upcoming(context.Background(), -3)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNeedingNotification_YMarkNotified(t *testing.T) {
	uc := newUseCase(memstore.New())
	soon := createCheck(t, uc, "pronto", days(1), entity.CheckIncoming, "")
	createCheck(t, uc, "tarde", days(3), entity.CheckIncoming, "")
	createCheck(t, uc, "rebotado", days(1), entity.CheckIncoming, entity.CheckStatusBounced)

	due, err := uc.NeedingNotification(context.Background())
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, soon.ID, due[0].ID)

	require.NoError(t, uc.MarkNotified(context.Background(), soon.ID))

	due, err = uc.NeedingNotification(context.Background())
	require.NoError(t, err)
	assert.Empty(t, due)

	got, err := uc.Get(context.Background(), soon.ID)
	require.NoError(t, err)
	require.NotNil(t, got.NotificationSent)
	assert.Equal(t, fixedNow, *got.NotificationSent)
}

func TestMarkNotified_Inexistente(t *testing.T) {
	uc := newUseCase(memstore.New())
	assert.ErrorIs(t, uc.MarkNotified(context.Background(), uuid.New().String()), domain.ErrNotFound)
}
