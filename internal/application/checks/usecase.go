package checks

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
	"github.com/jhoicas/carpet-shop-api/internal/domain/repository"
)

// Ventana de consulta de vencimientos (días).
const (
	DefaultUpcomingDays = 7
	MaxUpcomingDays     = 90
	DefaultLeadDays     = 2
)

// CheckUseCase registro de cheques. El estado lo fija el personal; no hay transiciones automáticas.
type CheckUseCase struct {
	repo     repository.CheckRepository
	invoices repository.InvoiceRepository
	items    repository.ItemRepository
	leadDays int
	now      func() time.Time
}

// NewCheckUseCase construye el caso de uso. leadDays <= 0 usa DefaultLeadDays.
func NewCheckUseCase(
	repo repository.CheckRepository,
	invoices repository.InvoiceRepository,
	items repository.ItemRepository,
	leadDays int,
) *CheckUseCase {
	if leadDays <= 0 {
		leadDays = DefaultLeadDays
	}
	return &CheckUseCase{repo: repo, invoices: invoices, items: items, leadDays: leadDays, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *CheckUseCase) WithClock(now func() time.Time) *CheckUseCase {
	uc.now = now
	return uc
}

// Create registra un cheque. Los vínculos a factura o alfombra deben existir.
func (uc *CheckUseCase) Create(ctx context.Context, in dto.CreateCheckRequest) (*dto.CheckResponse, error) {
	now := uc.now()
	status := in.Status
	if status == "" {
		status = entity.CheckStatusRegistered
	}
	c := &entity.Check{
		ID:           uuid.New().String(),
		Number:       normalize(in.Number),
		Amount:       in.Amount,
		Payee:        normalize(in.Payee),
		DueDate:      in.DueDate,
		Direction:    in.Direction,
		Status:       status,
		InvoiceID:    emptyToNil(in.InvoiceID),
		ItemID:       emptyToNil(in.ItemID),
		Description:  normalize(in.Description),
		CreatedAt:    now,
		UpdatedAt:    now,
		LastEditedAt: now,
	}
	if err := uc.validate(ctx, c); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return toCheckResponse(c), nil
}

// Get obtiene un cheque por id.
func (uc *CheckUseCase) Get(ctx context.Context, id string) (*dto.CheckResponse, error) {
	if !domain.ValidID(id) {
		return nil, domain.ErrNotFound
	}
	c, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCheckResponse(c), nil
}

// List devuelve cheques filtrados por dirección, estado y rango de vencimiento.
func (uc *CheckUseCase) List(ctx context.Context, in dto.CheckListRequest) (*dto.CheckListResponse, error) {
	in.DefaultPage()
	list, total, err := uc.repo.List(ctx, repository.CheckFilter{
		Direction: in.Direction,
		Status:    in.Status,
		From:      in.StartDate,
		To:        in.EndDate,
		Limit:     in.Limit,
		Offset:    in.Offset,
	})
	if err != nil {
		return nil, err
	}
	return &dto.CheckListResponse{
		Items: toCheckResponses(list),
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

// Update aplica el patch campo a campo.
func (uc *CheckUseCase) Update(ctx context.Context, id string, in dto.UpdateCheckRequest) (*dto.CheckResponse, error) {
	if !domain.ValidID(id) {
		return nil, domain.ErrNotFound
	}
	c, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Number != nil {
		c.Number = normalize(*in.Number)
	}
	if in.Amount != nil {
		c.Amount = *in.Amount
	}
	if in.Payee != nil {
		c.Payee = normalize(*in.Payee)
	}
	if in.DueDate != nil {
		c.DueDate = *in.DueDate
	}
	if in.Direction != nil {
		c.Direction = *in.Direction
	}
	if in.Status != nil {
		c.Status = *in.Status
	}
	if in.Description != nil {
		c.Description = normalize(*in.Description)
	}
	switch {
	case in.ClearInvoice:
		c.InvoiceID = nil
	case in.InvoiceID != nil:
		c.InvoiceID = emptyToNil(in.InvoiceID)
	}
	switch {
	case in.ClearItem:
		c.ItemID = nil
	case in.ItemID != nil:
		c.ItemID = emptyToNil(in.ItemID)
	}
	if err := uc.validate(ctx, c); err != nil {
		return nil, err
	}
	now := uc.now()
	c.UpdatedAt, c.LastEditedAt = now, now
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return toCheckResponse(c), nil
}

// Delete elimina un cheque.
func (uc *CheckUseCase) Delete(ctx context.Context, id string) error {
	if !domain.ValidID(id) {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(ctx, id)
}

// Upcoming cheques pendientes que vencen en [ahora, ahora+days]. days = 0 usa DefaultUpcomingDays.
func (uc *CheckUseCase) Upcoming(ctx context.Context, days int) ([]dto.CheckResponse, error) {
	if days == 0 {
		days = DefaultUpcomingDays
	}
	if days < 1 || days > MaxUpcomingDays {
		return nil, fmt.Errorf("days must be between 1 and %d: %w", MaxUpcomingDays, domain.ErrInvalidInput)
	}
	now := uc.now()
	list, err := uc.repo.ListDue(ctx, repository.DueQuery{
		From:     now,
		To:       now.AddDate(0, 0, days),
		Statuses: entity.PendingCheckStatuses,
	})
	if err != nil {
		return nil, err
	}
	return toCheckResponses(list), nil
}

// NeedingNotification cheques pendientes sin aviso que vencen dentro de la anticipación configurada.
func (uc *CheckUseCase) NeedingNotification(ctx context.Context) ([]*entity.Check, error) {
	now := uc.now()
	return uc.repo.ListDue(ctx, repository.DueQuery{
		From:           now,
		To:             now.AddDate(0, 0, uc.leadDays),
		Statuses:       entity.PendingCheckStatuses,
		OnlyUnnotified: true,
	})
}

// MarkNotified registra el envío del recordatorio.
func (uc *CheckUseCase) MarkNotified(ctx context.Context, id string) error {
	if !domain.ValidID(id) {
		return domain.ErrNotFound
	}
	return uc.repo.MarkNotified(ctx, id, uc.now())
}

func (uc *CheckUseCase) find(ctx context.Context, id string) (*entity.Check, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (uc *CheckUseCase) validate(ctx context.Context, c *entity.Check) error {
	if c.Number == "" {
		return fmt.Errorf("check_number is required: %w", domain.ErrInvalidInput)
	}
	if c.Amount.IsNegative() {
		return fmt.Errorf("amount must be >= 0: %w", domain.ErrInvalidInput)
	}
	if c.DueDate.IsZero() {
		return fmt.Errorf("check_date is required: %w", domain.ErrInvalidInput)
	}
	if !entity.ValidCheckDirection(c.Direction) {
		return fmt.Errorf("invalid check_type %q: %w", c.Direction, domain.ErrInvalidInput)
	}
	if !entity.ValidCheckStatus(c.Status) {
		return fmt.Errorf("invalid status %q: %w", c.Status, domain.ErrInvalidInput)
	}
	if c.InvoiceID != nil && !domain.ValidID(*c.InvoiceID) {
		return fmt.Errorf("invalid invoice_id %q: %w", *c.InvoiceID, domain.ErrInvalidInput)
	}
	if c.ItemID != nil && !domain.ValidID(*c.ItemID) {
		return fmt.Errorf("invalid carpet_id %q: %w", *c.ItemID, domain.ErrInvalidInput)
	}
	if c.InvoiceID != nil {
		inv, err := uc.invoices.GetByID(ctx, *c.InvoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return fmt.Errorf("invoice %s does not exist: %w", *c.InvoiceID, domain.ErrInvalidInput)
		}
	}
	if c.ItemID != nil {
		item, err := uc.items.GetByID(ctx, *c.ItemID, true)
		if err != nil {
			return err
		}
		if item == nil {
			return fmt.Errorf("carpet %s does not exist: %w", *c.ItemID, domain.ErrInvalidInput)
		}
	}
	return nil
}

func normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func toCheckResponses(list []*entity.Check) []dto.CheckResponse {
	out := make([]dto.CheckResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toCheckResponse(c))
	}
	return out
}

func toCheckResponse(c *entity.Check) *dto.CheckResponse {
	return &dto.CheckResponse{
		ID:               c.ID,
		Number:           c.Number,
		Amount:           c.Amount,
		Payee:            c.Payee,
		DueDate:          c.DueDate,
		Direction:        c.Direction,
		Status:           c.Status,
		InvoiceID:        c.InvoiceID,
		ItemID:           c.ItemID,
		Description:      c.Description,
		NotificationSent: c.NotificationSent,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
		LastEditedAt:     c.LastEditedAt,
	}
}
