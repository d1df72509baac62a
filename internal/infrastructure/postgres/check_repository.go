package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/carpet-shop-api/internal/domain"
	"github.com/jhoicas/carpet-shop-api/internal/domain/entity"
	"github.com/jhoicas/carpet-shop-api/internal/domain/repository"
)

var _ repository.CheckRepository = (*CheckRepo)(nil)

const checkColumns = `
	id, check_number, amount, payee, due_date, direction, status, invoice_id, item_id,
	description, notification_sent, created_at, updated_at, last_edited_at`

// CheckRepo implementación de CheckRepository sobre PostgreSQL.
type CheckRepo struct {
	q Querier
}

// NewCheckRepository construye el adaptador de cheques.
func NewCheckRepository(q Querier) *CheckRepo {
	return &CheckRepo{q: q}
}

// Create persiste un cheque.
func (r *CheckRepo) Create(ctx context.Context, c *entity.Check) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	query := `
		INSERT INTO checks (` + checkColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.Number, c.Amount, c.Payee, c.DueDate, c.Direction, c.Status, c.InvoiceID, c.ItemID,
		c.Description, c.NotificationSent, c.CreatedAt, c.UpdatedAt, c.LastEditedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("referencia de cheque inexistente: %w", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert check: %w", err)
	}
	return nil
}

// GetByID obtiene un cheque por ID.
func (r *CheckRepo) GetByID(ctx context.Context, id string) (*entity.Check, error) {
	c, err := scanCheck(r.q.QueryRow(ctx, `SELECT `+checkColumns+` FROM checks WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get check: %w", err)
	}
	return c, nil
}

// List filtra por dirección, estado y rango de vencimiento; orden ascendente por vencimiento.
func (r *CheckRepo) List(ctx context.Context, f repository.CheckFilter) ([]*entity.Check, int, error) {
	var a argList
	if f.Direction != "" {
		a.where("direction = " + a.add(f.Direction))
	}
	if f.Status != "" {
		a.where("status = " + a.add(f.Status))
	}
	if f.From != nil {
		a.where("due_date >= " + a.add(*f.From))
	}
	if f.To != nil {
		a.where("due_date <= " + a.add(*f.To))
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM checks`+a.clause(), a.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count checks: %w", err)
	}

	query := `SELECT ` + checkColumns + ` FROM checks` + a.clause() +
		` ORDER BY due_date, check_number LIMIT ` + a.add(f.Limit) + ` OFFSET ` + a.add(f.Offset)
	list, err := r.queryChecks(ctx, query, a.args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Update persiste todos los campos editables del cheque.
func (r *CheckRepo) Update(ctx context.Context, c *entity.Check) error {
	query := `
		UPDATE checks
		SET check_number = $2, amount = $3, payee = $4, due_date = $5, direction = $6, status = $7,
		    invoice_id = $8, item_id = $9, description = $10, updated_at = $11, last_edited_at = $12
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		c.ID, c.Number, c.Amount, c.Payee, c.DueDate, c.Direction, c.Status,
		c.InvoiceID, c.ItemID, c.Description, c.UpdatedAt, c.LastEditedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("referencia de cheque inexistente: %w", domain.ErrInvalidInput)
		}
		return fmt.Errorf("update check: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un cheque.
func (r *CheckRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM checks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete check: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListDue devuelve los cheques con vencimiento en [From, To] y estado en Statuses.
func (r *CheckRepo) ListDue(ctx context.Context, q repository.DueQuery) ([]*entity.Check, error) {
	query := `SELECT ` + checkColumns + ` FROM checks
		WHERE due_date >= $1 AND due_date <= $2 AND status = ANY($3)`
	if q.OnlyUnnotified {
		query += ` AND notification_sent IS NULL`
	}
	query += ` ORDER BY due_date, check_number`
	return r.queryChecks(ctx, query, q.From, q.To, q.Statuses)
}

// MarkNotified registra la fecha de envío del recordatorio.
func (r *CheckRepo) MarkNotified(ctx context.Context, id string, at time.Time) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE checks SET notification_sent = $2, updated_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("mark check notified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CheckRepo) queryChecks(ctx context.Context, query string, args ...any) ([]*entity.Check, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list checks: %w", err)
	}
	defer rows.Close()
	var list []*entity.Check
	for rows.Next() {
		c, err := scanCheck(rows)
		if err != nil {
			return nil, fmt.Errorf("scan check: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func scanCheck(row pgx.Row) (*entity.Check, error) {
	var c entity.Check
	err := row.Scan(
		&c.ID, &c.Number, &c.Amount, &c.Payee, &c.DueDate, &c.Direction, &c.Status, &c.InvoiceID, &c.ItemID,
		&c.Description, &c.NotificationSent, &c.CreatedAt, &c.UpdatedAt, &c.LastEditedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
