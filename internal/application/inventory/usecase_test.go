package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/carpet-shop-api/internal/application/dto"
	"github.com/jhoicas/carpet-shop-api/internal/application/inventory"
	"github.com/jhoicas/carpet-shop-api/internal/domain"
	"github.com/jhoicas/carpet-shop-api/internal/domain/entity"
	domaininv "github.com/jhoicas/carpet-shop-api/internal/domain/inventory"
	"github.com/jhoicas/carpet-shop-api/internal/domain/repository"
	"github.com/jhoicas/carpet-shop-api/internal/testutil/memstore"
)

// ─── Helpers ──────────────────────────────────────────────────────────────────

var fixedNow = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

type fakeStorage struct {
	deleted []string
}

func (f *fakeStorage) Save(_ context.Context, key string, _ []byte, _ string) (string, error) {
	return "/uploads/" + key, nil
}

func (f *fakeStorage) Delete(_ context.Context, path string) error {
	f.deleted = append(f.deleted, path)
	return nil
}

type fakeImages struct{ err error }

func (f fakeImages) Process(data []byte) ([]byte, string, string, error) {
	if f.err != nil {
		return nil, "", "", f.err
	}
	return data, "image/jpeg", ".jpg", nil
}

type fakeRenderer struct{ got int }

func (f *fakeRenderer) RenderCatalog(_ context.Context, items []*entity.Item) ([]byte, error) {
	f.got = len(items)
	return []byte("ok"), nil
}

func newItemUC(store *memstore.Store, storage *fakeStorage, r *fakeRenderer) *inventory.ItemUseCase {
	return inventory.NewItemUseCase(store.Items(), store.TxRunner(), storage, fakeImages{}, r, r).
		WithClock(func() time.Time { return fixedNow })
}

func ptr[T any](v T) *T { return &v }

func rugRequest() dto.CreateItemRequest {
	return dto.CreateItemRequest{
		Pattern:       "  Tabriz  ",
		Brand:         "Benam",
		Material:      "Wool",
		Size:          entity.SizeNineMeter,
		PaymentMethod: entity.PaymentCash,
		PurchasePrice: decimal.NewFromInt(2000),
		Quantity:      ptr(2),
	}
}

// ─── Ledger ───────────────────────────────────────────────────────────────────

func TestLedger_DecrementIncrement(t *testing.T) {
	store := memstore.New()
	uc := newItemUC(store, &fakeStorage{}, &fakeRenderer{})
	ctx := context.Background()
	item, err := uc.Create(ctx, rugRequest())
	require.NoError(t, err)

	ledger := inventory.NewLedger(domaininv.StockPolicyStrict)
	err = store.TxRunner().Run(ctx, func(items repository.ItemRepository) error {
		_, err := ledger.DecrementInTx(ctx, items, item.ID, 3, fixedNow)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 2, store.Quantity(item.ID))

	err = store.TxRunner().Run(ctx, func(items repository.ItemRepository) error {
		if _, err := ledger.DecrementInTx(ctx, items, item.ID, 2, fixedNow); err != nil {
			return err
		}
		_, err := ledger.IncrementInTx(ctx, items, item.ID, 1, fixedNow)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, store.Quantity(item.ID))
}

func TestLedger_OperaSobreItemsEliminados(t *testing.T) {
	store := memstore.New()
	uc := newItemUC(store, &fakeStorage{}, &fakeRenderer{})
	ctx := context.Background()
	item, err := uc.Create(ctx, rugRequest())
	require.NoError(t, err)
	require.NoError(t, uc.SoftDelete(ctx, item.ID))

	ledger := inventory.NewLedger(domaininv.StockPolicyStrict)
	err = store.TxRunner().Run(ctx, func(items repository.ItemRepository) error {
		_, err := ledger.IncrementInTx(ctx, items, item.ID, 3, fixedNow)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 5, store.Quantity(item.ID))
}

func TestLedger_ItemInexistente(t *testing.T) {
	store := memstore.New()
	ledger := inventory.NewLedger(domaininv.StockPolicyStrict)
	err := store.TxRunner().Run(context.Background(), func(items repository.ItemRepository) error {
		_, err := ledger.DecrementInTx(context.Background(), items, "nope", 1, fixedNow)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ─── Catálogo ─────────────────────────────────────────────────────────────────

func TestCreate_NormalizaYCalculaCosto(t *testing.T) {
	store := memstore.New()
	uc := newItemUC(store, &fakeStorage{}, &fakeRenderer{})
	req := rugRequest()
	req.Operations = []dto.CreateOperationRequest{{Name: "lavado", Price: decimal.NewFromInt(150)}}

	item, err := uc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Tabriz", item.Pattern)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, "نه متری", item.SizeLabel)
	assert.True(t, decimal.NewFromInt(150).Equal(item.TotalOperationsCost))
	assert.True(t, decimal.NewFromInt(2150).Equal(item.TotalCost))
	require.Len(t, item.Operations, 1)
}

func TestCreate_CantidadPorDefectoYConsignacion(t *testing.T) {
	store := memstore.New()
	uc := newItemUC(store, &fakeStorage{}, &fakeRenderer{})
	req := rugRequest()
	req.Quantity = nil
	req.IsConsignment = true

	_, err := uc.Create(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	req.ConsignmentOwner = "Moradi"
	req.OwnerDeclaredPrice = ptr(decimal.NewFromInt(1800))
	req.ConsignmentDate = ptr(fixedNow)
	item, err := uc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, item.Quantity)
	assert.True(t, decimal.NewFromInt(1800).Equal(item.TotalCost))
}

func TestUpdate_PatchExplicito(t *testing.T) {
	store := memstore.New()
	uc := newItemUC(store, &fakeStorage{}, &fakeRenderer{})
	ctx := context.Background()
	req := rugRequest()
	req.IsConsignment = true
	req.ConsignmentOwner = "Moradi"
	req.OwnerDeclaredPrice = ptr(decimal.NewFromInt(1800))
	req.ConsignmentDate = ptr(fixedNow)
	item, err := uc.Create(ctx, req)
	require.NoError(t, err)

	got, err := uc.Update(ctx, item.ID, dto.UpdateItemRequest{Brand: ptr("Sherkat"), IsConsignment: ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, "Sherkat", got.Brand)
	assert.Equal(t, "Tabriz", got.Pattern, "campos ausentes no cambian")
	assert.False(t, got.IsConsignment)
	assert.Empty(t, got.ConsignmentOwner)
	assert.Nil(t, got.OwnerDeclaredPrice)
	assert.Equal(t, 2, got.Quantity)

	_, err = uc.Update(ctx, item.ID, dto.UpdateItemRequest{IsConsignment: ptr(true)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Update(ctx, "nope", dto.UpdateItemRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSoftDeleteYRestore(t *testing.T) {
	store := memstore.New()
	uc := newItemUC(store, &fakeStorage{}, &fakeRenderer{})
	ctx := context.Background()
	item, err := uc.Create(ctx, rugRequest())
	require.NoError(t, err)

	require.NoError(t, uc.SoftDelete(ctx, item.ID))
	_, err = uc.Get(ctx, item.ID, false)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	deleted, err := uc.Get(ctx, item.ID, true)
	require.NoError(t, err)
	assert.True(t, deleted.IsDeleted)

	list, err := uc.List(ctx, dto.ItemListRequest{})
	require.NoError(t, err)
	assert.Equal(t, 0, list.Page.Total)

	list, err = uc.List(ctx, dto.ItemListRequest{IncludeDeleted: true})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Page.Total)

	restored, err := uc.Restore(ctx, item.ID)
	require.NoError(t, err)
	assert.False(t, restored.IsDeleted)

	_, err = uc.Restore(ctx, item.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeletePermanent_BorraImagen(t *testing.T) {
	store := memstore.New()
	storage := &fakeStorage{}
	uc := newItemUC(store, storage, &fakeRenderer{})
	ctx := context.Background()
	item, err := uc.Create(ctx, rugRequest())
	require.NoError(t, err)
	withImage, err := uc.UploadImage(ctx, item.ID, dto.FileUpload{Data: []byte("jpg")})
	require.NoError(t, err)

	require.NoError(t, uc.DeletePermanent(ctx, item.ID))
	assert.Equal(t, -1, store.Quantity(item.ID))
	assert.Equal(t, []string{withImage.ImagePath}, storage.deleted)

	assert.ErrorIs(t, uc.DeletePermanent(ctx, item.ID), domain.ErrNotFound)
}

func TestUploadImage_ImagenInvalida(t *testing.T) {
	store := memstore.New()
	uc := inventory.NewItemUseCase(store.Items(), store.TxRunner(), &fakeStorage{},
		fakeImages{err: errors.New("formato no soportado")}, nil, nil)
	item, err := uc.Create(context.Background(), rugRequest())
	require.NoError(t, err)

	_, err = uc.UploadImage(context.Background(), item.ID, dto.FileUpload{Data: []byte("gif")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestOperaciones_ActualizanUltimaEdicion(t *testing.T) {
	store := memstore.New()
	clock := fixedNow
	uc := inventory.NewItemUseCase(store.Items(), store.TxRunner(), nil, nil, nil, nil).
		WithClock(func() time.Time { return clock })
	ctx := context.Background()
	item, err := uc.Create(ctx, rugRequest())
	require.NoError(t, err)

	clock = fixedNow.Add(time.Hour)
	op, err := uc.AddOperation(ctx, item.ID, dto.CreateOperationRequest{Name: "reparación", Price: decimal.NewFromInt(300)})
	require.NoError(t, err)

	got, err := uc.Get(ctx, item.ID, false)
	require.NoError(t, err)
	assert.Equal(t, clock, got.LastEditedAt)
	assert.True(t, decimal.NewFromInt(2300).Equal(got.TotalCost))

	clock = fixedNow.Add(2 * time.Hour)
	_, err = uc.UpdateOperation(ctx, op.ID, dto.UpdateOperationRequest{Price: ptr(decimal.NewFromInt(100))})
	require.NoError(t, err)
	got, err = uc.Get(ctx, item.ID, false)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(2100).Equal(got.TotalCost))
	assert.Equal(t, clock, got.LastEditedAt)

	require.NoError(t, uc.DeleteOperation(ctx, op.ID))
	got, err = uc.Get(ctx, item.ID, false)
	require.NoError(t, err)
	assert.Empty(t, got.Operations)

	_, err = uc.AddOperation(ctx, "nope", dto.CreateOperationRequest{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.AddOperation(ctx, item.ID, dto.CreateOperationRequest{Name: "x", Price: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIDMalFormado_NoEncontrado(t *testing.T) {
	uc := newItemUC(memstore.New(), &fakeStorage{}, nil)
	ctx := context.Background()

	_, err := uc.Get(ctx, "abc", true)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.SoftDelete(ctx, "abc"), domain.ErrNotFound)
	_, err = uc.Restore(ctx, "abc")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.DeletePermanent(ctx, "abc"), domain.ErrNotFound)
	assert.ErrorIs(t, uc.DeleteOperation(ctx, "abc"), domain.ErrNotFound)
}

func TestList_FiltrosYBusqueda(t *testing.T) {
	store := memstore.New()
	uc := newItemUC(store, &fakeStorage{}, &fakeRenderer{})
	ctx := context.Background()

	a := rugRequest()
	b := rugRequest()
	b.Pattern = "کاشان"
	b.Material = "Silk"
	b.Quantity = ptr(0)
	for _, r := range []dto.CreateItemRequest{a, b} {
		_, err := uc.Create(ctx, r)
		require.NoError(t, err)
	}

	out, err := uc.List(ctx, dto.ItemListRequest{Search: "کاشان"})
	require.NoError(t, err)
	require.Equal(t, 1, out.Page.Total)
	assert.Equal(t, "Silk", out.Items[0].Material)

	out, err = uc.List(ctx, dto.ItemListRequest{Material: "wool"})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Page.Total)

	out, err = uc.List(ctx, dto.ItemListRequest{AvailableOnly: true})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Page.Total)
}

func TestExport_UsaRendererYSinRendererNoDisponible(t *testing.T) {
	store := memstore.New()
	r := &fakeRenderer{}
	uc := newItemUC(store, &fakeStorage{}, r)
	ctx := context.Background()
	_, err := uc.Create(ctx, rugRequest())
	require.NoError(t, err)

	data, err := uc.ExportXLSX(ctx, dto.ItemListRequest{})
	require.NoError(t, err)
	assert.Equal(t, []byte("ok"), data)
	assert.Equal(t, 1, r.got)

	bare := inventory.NewItemUseCase(store.Items(), store.TxRunner(), nil, nil, nil, nil)
	_, err = bare.ExportPDF(ctx, dto.ItemListRequest{})
	assert.ErrorIs(t, err, domain.ErrResourceUnavailable)
}
