package billing

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/carpet-shop-api/internal/application/dto"
	"github.com/jhoicas/carpet-shop-api/internal/domain"
	"github.com/jhoicas/carpet-shop-api/internal/domain/entity"
	"github.com/jhoicas/carpet-shop-api/internal/domain/repository"
)

// InvoiceUseCase flujo de facturas: DRAFT → FINALIZED, eliminación desde cualquier estado.
// El inventario solo se descuenta al finalizar y solo se devuelve al eliminar una factura finalizada.
type InvoiceUseCase struct {
	txRunner    BillingTxRunner
	ledger      StockLedger
	invoiceRepo repository.InvoiceRepository
	storage     SignatureStorage
	images      SignatureProcessor
	loc         *time.Location
	now         func() time.Time
}

// NewInvoiceUseCase construye el caso de uso. loc define el día de la numeración (nil = UTC).
// storage e images pueden ser nil: la carga de firma devuelve ErrResourceUnavailable.
func NewInvoiceUseCase(
	txRunner BillingTxRunner,
	ledger StockLedger,
	invoiceRepo repository.InvoiceRepository,
	storage SignatureStorage,
	images SignatureProcessor,
	loc *time.Location,
) *InvoiceUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &InvoiceUseCase{
		txRunner:    txRunner,
		ledger:      ledger,
		invoiceRepo: invoiceRepo,
		storage:     storage,
		images:      images,
		loc:         loc,
		now:         time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *InvoiceUseCase) WithClock(now func() time.Time) *InvoiceUseCase {
	uc.now = now
	return uc
}

// Get obtiene una factura con sus líneas.
func (uc *InvoiceUseCase) Get(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	if !domain.ValidID(id) {
		return nil, domain.ErrNotFound
	}
	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return toInvoiceResponse(inv), nil
}

// List devuelve facturas filtradas por cliente, rango de fechas y estado (fecha descendente).
func (uc *InvoiceUseCase) List(ctx context.Context, in dto.InvoiceListRequest) (*dto.InvoiceListResponse, error) {
	in.DefaultPage()
	list, total, err := uc.invoiceRepo.List(ctx, repository.InvoiceFilter{
		CustomerName: norm.NFC.String(in.CustomerName),
		From:         in.StartDate,
		To:           in.EndDate,
		Status:       in.Status,
		Limit:        in.Limit,
		Offset:       in.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := &dto.InvoiceListResponse{
		Items: make([]dto.InvoiceResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}
	for _, inv := range list {
		out.Items = append(out.Items, *toInvoiceResponse(inv))
	}
	return out, nil
}

// Update modifica solo metadatos de cabecera; nunca líneas ni inventario.
func (uc *InvoiceUseCase) Update(ctx context.Context, id string, in dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if !domain.ValidID(id) {
		return nil, domain.ErrNotFound
	}
	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if in.CustomerName != nil {
		name := normalize(*in.CustomerName)
		if name == "" {
			return nil, fmt.Errorf("%w: customer_name requerido", domain.ErrInvalidInput)
		}
		inv.CustomerName = name
	}
	if in.PaymentMethod != nil {
		inv.PaymentMethod = normalize(*in.PaymentMethod)
	}
	if in.Description != nil {
		inv.Description = normalize(*in.Description)
	}
	if in.IsSigned != nil {
		inv.IsSigned = *in.IsSigned
	}
	now := uc.now()
	inv.UpdatedAt = now
	inv.LastEditedAt = now
	if err := uc.invoiceRepo.UpdateMetadata(ctx, inv); err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

// Finalize descuenta el inventario de cada línea y pasa la factura a FINALIZED en una sola transacción.
// Llamarlo sobre una factura ya finalizada devuelve la factura sin tocar inventario.
func (uc *InvoiceUseCase) Finalize(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	if !domain.ValidID(id) {
		return nil, domain.ErrNotFound
	}
	var inv *entity.Invoice
	err := uc.txRunner.RunBilling(ctx, func(items repository.ItemRepository, invoices repository.InvoiceRepository) error {
		var err error
		inv, err = invoices.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if inv.IsFinalized() {
			return nil
		}
		now := uc.now()
		for _, d := range quantitiesByItem(inv.Lines) {
			if _, err := uc.ledger.DecrementInTx(ctx, items, d.itemID, d.qty, now); err != nil {
				return err
			}
		}
		if err := invoices.MarkFinalized(ctx, inv.ID, now); err != nil {
			return err
		}
		inv.Status = entity.InvoiceStatusFinalized
		inv.FinalizedAt = &now
		inv.UpdatedAt = now
		inv.LastEditedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

// Delete elimina la factura. Si estaba finalizada, devuelve al inventario las cantidades de sus líneas
// en la misma transacción. Los cheques vinculados quedan con invoice_id en NULL.
func (uc *InvoiceUseCase) Delete(ctx context.Context, id string) error {
	if !domain.ValidID(id) {
		return domain.ErrNotFound
	}
	var signature string
	err := uc.txRunner.RunBilling(ctx, func(items repository.ItemRepository, invoices repository.InvoiceRepository) error {
		inv, err := invoices.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if inv.IsFinalized() {
			now := uc.now()
			for _, d := range quantitiesByItem(inv.Lines) {
				if _, err := uc.ledger.IncrementInTx(ctx, items, d.itemID, d.qty, now); err != nil {
					return err
				}
			}
		}
		signature = inv.SignaturePath
		return invoices.Delete(ctx, inv.ID)
	})
	if err != nil {
		return err
	}
	if signature != "" && uc.storage != nil {
		_ = uc.storage.Delete(ctx, signature)
	}
	return nil
}

// UploadSignature guarda la imagen de la firma, reemplaza la anterior y marca la factura como firmada.
func (uc *InvoiceUseCase) UploadSignature(ctx context.Context, id string, file dto.FileUpload) (*dto.InvoiceResponse, error) {
	if !domain.ValidID(id) {
		return nil, domain.ErrNotFound
	}
	if uc.storage == nil || uc.images == nil {
		return nil, domain.ErrResourceUnavailable
	}
	if len(file.Data) == 0 {
		return nil, fmt.Errorf("%w: firma vacía", domain.ErrInvalidInput)
	}
	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	data, contentType, ext, err := uc.images.Process(file.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	path, err := uc.storage.Save(ctx, fmt.Sprintf("signatures/%s/%s%s", inv.ID, uuid.New().String(), ext), data, contentType)
	if err != nil {
		return nil, err
	}
	previous := inv.SignaturePath
	now := uc.now()
	inv.SignaturePath = path
	inv.IsSigned = true
	inv.UpdatedAt = now
	inv.LastEditedAt = now
	if err := uc.invoiceRepo.UpdateMetadata(ctx, inv); err != nil {
		_ = uc.storage.Delete(ctx, path)
		return nil, err
	}
	if previous != "" {
		_ = uc.storage.Delete(ctx, previous)
	}
	return toInvoiceResponse(inv), nil
}

type itemQty struct {
	itemID string
	qty    int
}

// quantitiesByItem agrupa las cantidades por ítem y las ordena por id: los bloqueos de fila
// se toman siempre en el mismo orden.
func quantitiesByItem(lines []*entity.InvoiceLine) []itemQty {
	sum := make(map[string]int, len(lines))
	for _, l := range lines {
		sum[l.ItemID] += l.Quantity
	}
	return sortedByItem(sum)
}

func sortedByItem(sum map[string]int) []itemQty {
	out := make([]itemQty, 0, len(sum))
	for id, q := range sum {
		out = append(out, itemQty{itemID: id, qty: q})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].itemID < out[j].itemID })
	return out
}

func toInvoiceResponse(inv *entity.Invoice) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:            inv.ID,
		Number:        inv.Number,
		CustomerName:  inv.CustomerName,
		InvoiceDate:   inv.Date,
		PaymentMethod: inv.PaymentMethod,
		Description:   inv.Description,
		TotalAmount:   inv.TotalAmount,
		SignaturePath: inv.SignaturePath,
		IsSigned:      inv.IsSigned,
		Status:        inv.Status,
		FinalizedAt:   inv.FinalizedAt,
		Lines:         make([]dto.InvoiceLineResponse, 0, len(inv.Lines)),
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
		LastEditedAt:  inv.LastEditedAt,
	}
	for _, l := range inv.Lines {
		resp.Lines = append(resp.Lines, dto.InvoiceLineResponse{
			ID:          l.ID,
			ItemID:      l.ItemID,
			Position:    l.Position,
			Title:       l.Title,
			Size:        l.Size,
			Brand:       l.Brand,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			TotalPrice:  l.TotalPrice,
			UnitCost:    l.UnitCost,
			Description: l.Description,
		})
	}
	return resp
}
