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

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

const invoiceColumns = `
	id, invoice_number, customer_name, invoice_date, payment_method, description, total_amount,
	signature_path, is_signed, status, finalized_at, created_at, updated_at, last_edited_at`

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persiste la cabecera de la factura.
func (r *InvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		invoice.ID, invoice.Number, invoice.CustomerName, invoice.Date, invoice.PaymentMethod,
		invoice.Description, invoice.TotalAmount, nullIfEmpty(invoice.SignaturePath), invoice.IsSigned,
		invoice.Status, invoice.FinalizedAt, invoice.CreatedAt, invoice.UpdatedAt, invoice.LastEditedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("invoice number already exists: %w", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateLine persiste una línea de la factura.
func (r *InvoiceRepo) CreateLine(ctx context.Context, line *entity.InvoiceLine) error {
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoice_lines (id, invoice_id, item_id, position, title, size, brand,
		                           quantity, unit_price, total_price, unit_cost, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		line.ID, line.InvoiceID, line.ItemID, line.Position, line.Title, line.Size, line.Brand,
		line.Quantity, line.UnitPrice, line.TotalPrice, line.UnitCost, line.Description,
	)
	if err != nil {
		return fmt.Errorf("insert invoice line: %w", err)
	}
	return nil
}

// GetByID obtiene una factura completa por ID.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.getOne(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
}

// GetForUpdate obtiene la factura y bloquea la cabecera (SELECT FOR UPDATE).
func (r *InvoiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.getOne(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1 FOR UPDATE`, id)
}

func (r *InvoiceRepo) getOne(ctx context.Context, query, id string) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	lines, err := r.linesFor(ctx, []string{inv.ID})
	if err != nil {
		return nil, err
	}
	inv.Lines = lines[inv.ID]
	return inv, nil
}

// List filtra por cliente, rango de fechas y estado; orden por fecha descendente.
func (r *InvoiceRepo) List(ctx context.Context, f repository.InvoiceFilter) ([]*entity.Invoice, int, error) {
	var a argList
	if f.CustomerName != "" {
		a.where("customer_name ILIKE '%' || " + a.add(f.CustomerName) + " || '%'")
	}
	if f.From != nil {
		a.where("invoice_date >= " + a.add(*f.From))
	}
	if f.To != nil {
		a.where("invoice_date <= " + a.add(*f.To))
	}
	if f.Status != "" {
		a.where("status = " + a.add(f.Status))
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM invoices`+a.clause(), a.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count invoices: %w", err)
	}

	query := `SELECT ` + invoiceColumns + ` FROM invoices` + a.clause() +
		` ORDER BY invoice_date DESC, invoice_number DESC LIMIT ` + a.add(f.Limit) + ` OFFSET ` + a.add(f.Offset)
	rows, err := r.q.Query(ctx, query, a.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var list []*entity.Invoice
	var ids []string
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
		ids = append(ids, inv.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}

	lines, err := r.linesFor(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for _, inv := range list {
		inv.Lines = lines[inv.ID]
	}
	return list, total, nil
}

// UpdateMetadata actualiza solo los campos de cabecera editables; nunca líneas ni totales.
func (r *InvoiceRepo) UpdateMetadata(ctx context.Context, invoice *entity.Invoice) error {
	query := `
		UPDATE invoices
		SET customer_name  = $2,
		    payment_method = $3,
		    description    = $4,
		    signature_path = $5,
		    is_signed      = $6,
		    updated_at     = $7,
		    last_edited_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		invoice.ID, invoice.CustomerName, invoice.PaymentMethod, invoice.Description,
		nullIfEmpty(invoice.SignaturePath), invoice.IsSigned, invoice.UpdatedAt, invoice.LastEditedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkFinalized pasa la factura a FINALIZED. Solo afecta facturas en DRAFT.
func (r *InvoiceRepo) MarkFinalized(ctx context.Context, id string, at time.Time) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE invoices
		SET status = $2, finalized_at = $3, updated_at = $3, last_edited_at = $3
		WHERE id = $1 AND status = $4`,
		id, entity.InvoiceStatusFinalized, at, entity.InvoiceStatusDraft,
	)
	if err != nil {
		return fmt.Errorf("finalize invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

// Delete elimina la factura; las líneas caen en cascada y checks.invoice_id queda en NULL.
func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// LockNumbering toma un advisory lock transaccional por prefijo de día.
func (r *InvoiceRepo) LockNumbering(ctx context.Context, prefix string) error {
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, prefix); err != nil {
		return fmt.Errorf("lock invoice numbering: %w", err)
	}
	return nil
}

// NumbersWithPrefix devuelve los números de factura que empiezan con prefix.
func (r *InvoiceRepo) NumbersWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT invoice_number FROM invoices WHERE invoice_number LIKE $1 || '%'`, prefix)
	if err != nil {
		return nil, fmt.Errorf("list invoice numbers: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan invoice number: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// linesFor carga las líneas de varias facturas en una sola consulta.
func (r *InvoiceRepo) linesFor(ctx context.Context, invoiceIDs []string) (map[string][]*entity.InvoiceLine, error) {
	out := make(map[string][]*entity.InvoiceLine, len(invoiceIDs))
	if len(invoiceIDs) == 0 {
		return out, nil
	}
	query := `
		SELECT id, invoice_id, item_id, position, title, size, brand,
		       quantity, unit_price, total_price, unit_cost, description
		FROM invoice_lines WHERE invoice_id = ANY($1::uuid[])
		ORDER BY invoice_id, position`
	rows, err := r.q.Query(ctx, query, invoiceIDs)
	if err != nil {
		return nil, fmt.Errorf("list invoice lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.InvoiceLine
		if err := rows.Scan(
			&l.ID, &l.InvoiceID, &l.ItemID, &l.Position, &l.Title, &l.Size, &l.Brand,
			&l.Quantity, &l.UnitPrice, &l.TotalPrice, &l.UnitCost, &l.Description,
		); err != nil {
			return nil, fmt.Errorf("scan invoice line: %w", err)
		}
		out[l.InvoiceID] = append(out[l.InvoiceID], &l)
	}
	return out, rows.Err()
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var signaturePath *string
	err := row.Scan(
		&inv.ID, &inv.Number, &inv.CustomerName, &inv.Date, &inv.PaymentMethod, &inv.Description,
		&inv.TotalAmount, &signaturePath, &inv.IsSigned, &inv.Status, &inv.FinalizedAt,
		&inv.CreatedAt, &inv.UpdatedAt, &inv.LastEditedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.SignaturePath = derefStr(signaturePath)
	return &inv, nil
}
