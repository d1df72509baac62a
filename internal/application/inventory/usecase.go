package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/carpet-shop-api/internal/application/dto"
	"github.com/jhoicas/carpet-shop-api/internal/domain"
	"github.com/jhoicas/carpet-shop-api/internal/domain/entity"
	domaininv "github.com/jhoicas/carpet-shop-api/internal/domain/inventory"
	"github.com/jhoicas/carpet-shop-api/internal/domain/repository"
)

// exportLimit máximo de ítems incluidos en una exportación del catálogo.
const exportLimit = 10000

// ItemUseCase casos de uso del catálogo de alfombras. La existencia solo cambia vía Ledger
// (facturas finalizadas o eliminadas); aquí solo se fija la cantidad inicial.
type ItemUseCase struct {
	repo     repository.ItemRepository
	txRunner TxRunner
	storage  BlobStorage
	images   ImageProcessor
	pdf      CatalogRenderer
	xlsx     CatalogRenderer
	now      func() time.Time
}

// NewItemUseCase construye el caso de uso. storage, images, pdf y xlsx pueden ser nil:
// la operación correspondiente devuelve ErrResourceUnavailable.
func NewItemUseCase(
	repo repository.ItemRepository,
	txRunner TxRunner,
	storage BlobStorage,
	images ImageProcessor,
	pdf CatalogRenderer,
	xlsx CatalogRenderer,
) *ItemUseCase {
	return &ItemUseCase{
		repo:     repo,
		txRunner: txRunner,
		storage:  storage,
		images:   images,
		pdf:      pdf,
		xlsx:     xlsx,
		now:      time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *ItemUseCase) WithClock(now func() time.Time) *ItemUseCase {
	uc.now = now
	return uc
}

// Create crea un ítem con sus operaciones iniciales. Quantity por defecto es 1.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	now := uc.now()
	qty := 1
	if in.Quantity != nil {
		qty = *in.Quantity
	}
	item := &entity.Item{
		ID:                 uuid.New().String(),
		Pattern:            normalize(in.Pattern),
		Brand:              normalize(in.Brand),
		Material:           normalize(in.Material),
		Size:               in.Size,
		Description:        normalize(in.Description),
		PaymentMethod:      in.PaymentMethod,
		PurchasePrice:      in.PurchasePrice,
		SalePrice:          in.SalePrice,
		Quantity:           qty,
		PurchaseDate:       in.PurchaseDate,
		SellerName:         normalize(in.SellerName),
		HasPair:            in.HasPair,
		IsConsignment:      in.IsConsignment,
		ConsignmentOwner:   normalize(in.ConsignmentOwner),
		OwnerDeclaredPrice: in.OwnerDeclaredPrice,
		ConsignmentDate:    in.ConsignmentDate,
		CreatedAt:          now,
		UpdatedAt:          now,
		LastEditedAt:       now,
	}
	for _, o := range in.Operations {
		op := newOperation(item.ID, o, now)
		if err := domaininv.ValidateOperation(op); err != nil {
			return nil, err
		}
		item.Operations = append(item.Operations, op)
	}
	if err := domaininv.ValidateItem(item); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// Get obtiene un ítem; los eliminados lógicamente solo se ven con includeDeleted.
func (uc *ItemUseCase) Get(ctx context.Context, id string, includeDeleted bool) (*dto.ItemResponse, error) {
	if !domain.ValidID(id) {
		return nil, domain.ErrNotFound
	}
	item, err := uc.repo.GetByID(ctx, id, includeDeleted)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return toItemResponse(item), nil
}

// List devuelve una página del catálogo con filtros.
func (uc *ItemUseCase) List(ctx context.Context, in dto.ItemListRequest) (*dto.ItemListResponse, error) {
	in.DefaultPage()
	items, total, err := uc.repo.List(ctx, toItemFilter(in))
	if err != nil {
		return nil, err
	}
	out := &dto.ItemListResponse{
		Items: make([]dto.ItemResponse, 0, len(items)),
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}
	for _, it := range items {
		out.Items = append(out.Items, *toItemResponse(it))
	}
	return out, nil
}

// Update aplica el patch campo a campo y re-valida consignación.
// Desactivar IsConsignment limpia los campos de consignación que no vengan en el patch.
func (uc *ItemUseCase) Update(ctx context.Context, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	if !domain.ValidID(id) {
		return nil, domain.ErrNotFound
	}
	item, err := uc.repo.GetByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	if in.Pattern != nil {
		item.Pattern = normalize(*in.Pattern)
	}
	if in.Brand != nil {
		item.Brand = normalize(*in.Brand)
	}
	if in.Material != nil {
		item.Material = normalize(*in.Material)
	}
	if in.Size != nil {
		item.Size = *in.Size
	}
	if in.Description != nil {
		item.Description = normalize(*in.Description)
	}
	if in.PaymentMethod != nil {
		item.PaymentMethod = *in.PaymentMethod
	}
	if in.PurchasePrice != nil {
		item.PurchasePrice = *in.PurchasePrice
	}
	if in.SalePrice != nil {
		item.SalePrice = in.SalePrice
	}
	if in.PurchaseDate != nil {
		item.PurchaseDate = in.PurchaseDate
	}
	if in.SellerName != nil {
		item.SellerName = normalize(*in.SellerName)
	}
	if in.HasPair != nil {
		item.HasPair = *in.HasPair
	}
	if in.IsConsignment != nil {
		item.IsConsignment = *in.IsConsignment
		if !item.IsConsignment {
			item.ConsignmentOwner = ""
			item.OwnerDeclaredPrice = nil
			item.ConsignmentDate = nil
		}
	}
	if in.ConsignmentOwner != nil {
		item.ConsignmentOwner = normalize(*in.ConsignmentOwner)
	}
	if in.OwnerDeclaredPrice != nil {
		item.OwnerDeclaredPrice = in.OwnerDeclaredPrice
	}
	if in.ConsignmentDate != nil {
		item.ConsignmentDate = in.ConsignmentDate
	}

	if err := domaininv.ValidateItem(item); err != nil {
		return nil, err
	}
	now := uc.now()
	item.UpdatedAt = now
	item.LastEditedAt = now
	if err := uc.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// SoftDelete marca el ítem como eliminado; el ledger lo sigue viendo.
func (uc *ItemUseCase) SoftDelete(ctx context.Context, id string) error {
	if !domain.ValidID(id) {
		return domain.ErrNotFound
	}
	return uc.repo.SoftDelete(ctx, id, uc.now())
}

// Restore revierte un borrado lógico.
func (uc *ItemUseCase) Restore(ctx context.Context, id string) (*dto.ItemResponse, error) {
	if !domain.ValidID(id) {
		return nil, domain.ErrNotFound
	}
	if err := uc.repo.Restore(ctx, id, uc.now()); err != nil {
		return nil, err
	}
	return uc.Get(ctx, id, false)
}

// DeletePermanent borra físicamente el ítem. Se rechaza con ErrConflict si hay líneas de factura
// que lo referencian; las referencias desde cheques quedan en NULL.
func (uc *ItemUseCase) DeletePermanent(ctx context.Context, id string) error {
	if !domain.ValidID(id) {
		return domain.ErrNotFound
	}
	item, err := uc.repo.GetByID(ctx, id, true)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	n, err := uc.repo.CountInvoiceLines(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("ítem referenciado por %d líneas de factura: %w", n, domain.ErrConflict)
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	if item.ImagePath != "" && uc.storage != nil {
		_ = uc.storage.Delete(ctx, item.ImagePath)
	}
	return nil
}

// UploadImage redimensiona la imagen, la guarda y reemplaza la anterior del ítem.
func (uc *ItemUseCase) UploadImage(ctx context.Context, id string, file dto.FileUpload) (*dto.ItemResponse, error) {
	if !domain.ValidID(id) {
		return nil, domain.ErrNotFound
	}
	if uc.storage == nil || uc.images == nil {
		return nil, domain.ErrResourceUnavailable
	}
	if len(file.Data) == 0 {
		return nil, fmt.Errorf("%w: imagen vacía", domain.ErrInvalidInput)
	}
	item, err := uc.repo.GetByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	data, contentType, ext, err := uc.images.Process(file.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	key := fmt.Sprintf("items/%s/%s%s", item.ID, uuid.New().String(), ext)
	path, err := uc.storage.Save(ctx, key, data, contentType)
	if err != nil {
		return nil, err
	}
	previous := item.ImagePath
	now := uc.now()
	item.ImagePath = path
	item.UpdatedAt = now
	item.LastEditedAt = now
	if err := uc.repo.Update(ctx, item); err != nil {
		_ = uc.storage.Delete(ctx, path)
		return nil, err
	}
	if previous != "" {
		_ = uc.storage.Delete(ctx, previous)
	}
	return toItemResponse(item), nil
}

// AddOperation agrega una operación de costo y actualiza last_edited_at del ítem (misma tx).
func (uc *ItemUseCase) AddOperation(ctx context.Context, itemID string, in dto.CreateOperationRequest) (*dto.OperationResponse, error) {
	if !domain.ValidID(itemID) {
		return nil, domain.ErrNotFound
	}
	now := uc.now()
	op := newOperation(itemID, in, now)
	if err := domaininv.ValidateOperation(op); err != nil {
		return nil, err
	}
	err := uc.txRunner.Run(ctx, func(items repository.ItemRepository) error {
		item, err := items.GetByID(ctx, itemID, false)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if err := items.CreateOperation(ctx, op); err != nil {
			return err
		}
		return items.Touch(ctx, itemID, now)
	})
	if err != nil {
		return nil, err
	}
	return toOperationResponse(op), nil
}

// UpdateOperation aplica el patch sobre una operación.
func (uc *ItemUseCase) UpdateOperation(ctx context.Context, opID string, in dto.UpdateOperationRequest) (*dto.OperationResponse, error) {
	if !domain.ValidID(opID) {
		return nil, domain.ErrNotFound
	}
	var out *entity.ItemOperation
	err := uc.txRunner.Run(ctx, func(items repository.ItemRepository) error {
		op, err := items.GetOperation(ctx, opID)
		if err != nil {
			return err
		}
		if op == nil {
			return domain.ErrNotFound
		}
		if in.Name != nil {
			op.Name = normalize(*in.Name)
		}
		if in.Price != nil {
			op.Price = *in.Price
		}
		if in.Description != nil {
			op.Description = normalize(*in.Description)
		}
		if in.OperationDate != nil {
			op.OperationDate = *in.OperationDate
		}
		if err := domaininv.ValidateOperation(op); err != nil {
			return err
		}
		now := uc.now()
		op.UpdatedAt = now
		if err := items.UpdateOperation(ctx, op); err != nil {
			return err
		}
		out = op
		return items.Touch(ctx, op.ItemID, now)
	})
	if err != nil {
		return nil, err
	}
	return toOperationResponse(out), nil
}

// DeleteOperation elimina una operación y actualiza last_edited_at del ítem.
func (uc *ItemUseCase) DeleteOperation(ctx context.Context, opID string) error {
	if !domain.ValidID(opID) {
		return domain.ErrNotFound
	}
	return uc.txRunner.Run(ctx, func(items repository.ItemRepository) error {
		op, err := items.GetOperation(ctx, opID)
		if err != nil {
			return err
		}
		if op == nil {
			return domain.ErrNotFound
		}
		if err := items.DeleteOperation(ctx, opID); err != nil {
			return err
		}
		return items.Touch(ctx, op.ItemID, uc.now())
	})
}

// ExportPDF genera el catálogo filtrado en PDF.
func (uc *ItemUseCase) ExportPDF(ctx context.Context, in dto.ItemListRequest) ([]byte, error) {
	return uc.export(ctx, uc.pdf, in)
}

// ExportXLSX genera el catálogo filtrado como hoja de cálculo.
func (uc *ItemUseCase) ExportXLSX(ctx context.Context, in dto.ItemListRequest) ([]byte, error) {
	return uc.export(ctx, uc.xlsx, in)
}

func (uc *ItemUseCase) export(ctx context.Context, r CatalogRenderer, in dto.ItemListRequest) ([]byte, error) {
	if r == nil {
		return nil, domain.ErrResourceUnavailable
	}
	f := toItemFilter(in)
	f.Limit, f.Offset = exportLimit, 0
	items, _, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return r.RenderCatalog(ctx, items)
}

func toItemFilter(in dto.ItemListRequest) repository.ItemFilter {
	return repository.ItemFilter{
		Size:           in.Size,
		Material:       normalize(in.Material),
		Search:         normalize(in.Search),
		AvailableOnly:  in.AvailableOnly,
		IncludeDeleted: in.IncludeDeleted,
		Limit:          in.Limit,
		Offset:         in.Offset,
	}
}

func newOperation(itemID string, in dto.CreateOperationRequest, now time.Time) *entity.ItemOperation {
	date := now
	if in.OperationDate != nil {
		date = *in.OperationDate
	}
	return &entity.ItemOperation{
		ID:            uuid.New().String(),
		ItemID:        itemID,
		Name:          normalize(in.Name),
		Price:         in.Price,
		Description:   normalize(in.Description),
		OperationDate: date,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// normalize recorta y lleva el texto a NFC para que las búsquedas en persa coincidan.
func normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func toItemResponse(item *entity.Item) *dto.ItemResponse {
	if item == nil {
		return nil
	}
	resp := &dto.ItemResponse{
		ID:                  item.ID,
		Pattern:             item.Pattern,
		Brand:               item.Brand,
		Material:            item.Material,
		Size:                item.Size,
		SizeLabel:           entity.SizeLabel(item.Size),
		Description:         item.Description,
		PaymentMethod:       item.PaymentMethod,
		PurchasePrice:       item.PurchasePrice,
		SalePrice:           item.SalePrice,
		Quantity:            item.Quantity,
		PurchaseDate:        item.PurchaseDate,
		SellerName:          item.SellerName,
		HasPair:             item.HasPair,
		ImagePath:           item.ImagePath,
		IsConsignment:       item.IsConsignment,
		ConsignmentOwner:    item.ConsignmentOwner,
		OwnerDeclaredPrice:  item.OwnerDeclaredPrice,
		ConsignmentDate:     item.ConsignmentDate,
		IsDeleted:           item.IsDeleted,
		DeletedAt:           item.DeletedAt,
		TotalOperationsCost: domaininv.OperationsCost(item.Operations),
		TotalCost:           domaininv.CostCalculator(item),
		Operations:          make([]dto.OperationResponse, 0, len(item.Operations)),
		CreatedAt:           item.CreatedAt,
		UpdatedAt:           item.UpdatedAt,
		LastEditedAt:        item.LastEditedAt,
	}
	for _, op := range item.Operations {
		resp.Operations = append(resp.Operations, *toOperationResponse(op))
	}
	return resp
}

func toOperationResponse(op *entity.ItemOperation) *dto.OperationResponse {
	return &dto.OperationResponse{
		ID:            op.ID,
		ItemID:        op.ItemID,
		Name:          op.Name,
		Price:         op.Price,
		Description:   op.Description,
		OperationDate: op.OperationDate,
		CreatedAt:     op.CreatedAt,
		UpdatedAt:     op.UpdatedAt,
	}
}
