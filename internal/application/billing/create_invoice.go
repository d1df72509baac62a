package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/carpet-shop-api/internal/application/dto"
	"github.com/jhoicas/carpet-shop-api/internal/domain"
	"github.com/jhoicas/carpet-shop-api/internal/domain/entity"
	domaininv "github.com/jhoicas/carpet-shop-api/internal/domain/inventory"
	"github.com/jhoicas/carpet-shop-api/internal/domain/invoicing"
	"github.com/jhoicas/carpet-shop-api/internal/domain/repository"
)

// Create crea la factura en DRAFT: bloquea cada ítem referenciado, verifica existencia suficiente
// (sin descontar, con cualquier política), asigna el consecutivo del día y guarda cabecera y líneas en una sola transacción.
// Cualquier error revierte todo; no queda factura parcial.
func (uc *InvoiceUseCase) Create(ctx context.Context, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	customer := normalize(in.CustomerName)
	if customer == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if err := validateLines(in.Lines); err != nil {
		return nil, err
	}

	now := uc.now()
	date := now
	if in.InvoiceDate != nil {
		date = *in.InvoiceDate
	}
	var inv *entity.Invoice

	err := uc.txRunner.RunBilling(ctx, func(items repository.ItemRepository, invoices repository.InvoiceRepository) error {
		// 1) Bloquear ítems en orden de id y verificar existencia (el descuento ocurre al finalizar)
		itemsByID := make(map[string]*entity.Item)
		for _, d := range quantitiesByLine(in.Lines) {
			item, err := items.GetForUpdate(ctx, d.itemID)
			if err != nil {
				return err
			}
			if item == nil || item.IsDeleted {
				return fmt.Errorf("ítem %s: %w", d.itemID, domain.ErrNotFound)
			}
			if item.Quantity < d.qty {
				return fmt.Errorf("ítem %s: existencia %d, solicitado %d: %w",
					d.itemID, item.Quantity, d.qty, domain.ErrInsufficientStock)
			}
			itemsByID[d.itemID] = item
		}

		// 2) Consecutivo del día (advisory lock por prefijo hasta el commit)
		day := now.In(uc.loc)
		prefix := invoicing.DayPrefix(day)
		if err := invoices.LockNumbering(ctx, prefix); err != nil {
			return err
		}
		existing, err := invoices.NumbersWithPrefix(ctx, prefix)
		if err != nil {
			return err
		}

		// 3) Cabecera y líneas con foto del ítem y costo unitario congelado
		inv = &entity.Invoice{
			ID:            uuid.New().String(),
			Number:        invoicing.NextNumber(day, existing),
			CustomerName:  customer,
			Date:          date,
			PaymentMethod: normalize(in.PaymentMethod),
			Description:   normalize(in.Description),
			Status:        entity.InvoiceStatusDraft,
			CreatedAt:     now,
			UpdatedAt:     now,
			LastEditedAt:  now,
		}
		for i, l := range in.Lines {
			item := itemsByID[l.ItemID]
			inv.Lines = append(inv.Lines, &entity.InvoiceLine{
				ID:          uuid.New().String(),
				InvoiceID:   inv.ID,
				ItemID:      item.ID,
				Position:    i + 1,
				Title:       firstNonEmpty(normalize(l.Title), item.Pattern),
				Size:        firstNonEmpty(l.Size, item.Size),
				Brand:       firstNonEmpty(normalize(l.Brand), item.Brand),
				Quantity:    l.Quantity,
				UnitPrice:   l.UnitPrice,
				TotalPrice:  invoicing.LineTotal(l.Quantity, l.UnitPrice),
				UnitCost:    domaininv.CostCalculator(item),
				Description: normalize(l.Description),
			})
		}
		inv.TotalAmount = invoicing.SumLines(inv.Lines)

		// 4) Persistencia
		if err := invoices.Create(ctx, inv); err != nil {
			return err
		}
		for _, line := range inv.Lines {
			if err := invoices.CreateLine(ctx, line); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

// validateLines verifica carpet_id, quantity > 0 y unit_price ≥ 0 en cada línea.
func validateLines(lines []dto.CreateInvoiceLineRequest) error {
	var errs []error
	for i, l := range lines {
		switch {
		case strings.TrimSpace(l.ItemID) == "":
			errs = append(errs, fmt.Errorf("línea %d: carpet_id requerido", i+1))
		case !domain.ValidID(l.ItemID):
			errs = append(errs, fmt.Errorf("línea %d: carpet_id %q mal formado", i+1, l.ItemID))
		}
		if l.Quantity <= 0 {
			errs = append(errs, fmt.Errorf("línea %d: quantity debe ser mayor que cero", i+1))
		}
		if l.UnitPrice.IsNegative() {
			errs = append(errs, fmt.Errorf("línea %d: unit_price no puede ser negativo", i+1))
		}
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{domain.ErrInvalidInput}, errs...)...)
	}
	return nil
}

func quantitiesByLine(lines []dto.CreateInvoiceLineRequest) []itemQty {
	sum := make(map[string]int, len(lines))
	for _, l := range lines {
		sum[l.ItemID] += l.Quantity
	}
	return sortedByItem(sum)
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
