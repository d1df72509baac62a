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

var _ repository.ItemRepository = (*ItemRepo)(nil)

const itemColumns = `
	id, pattern, brand, material, size, description, payment_method,
	purchase_price, sale_price, quantity, purchase_date, seller_name, has_pair, image_path,
	is_consignment, consignment_owner, owner_declared_price, consignment_date,
	is_deleted, deleted_at, created_at, updated_at, last_edited_at`

// ItemRepo implementación de ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// Create persiste el ítem y sus operaciones iniciales.
func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.Pattern, item.Brand, item.Material, item.Size, item.Description, item.PaymentMethod,
		item.PurchasePrice, item.SalePrice, item.Quantity, item.PurchaseDate, nullIfEmpty(item.SellerName),
		item.HasPair, nullIfEmpty(item.ImagePath),
		item.IsConsignment, nullIfEmpty(item.ConsignmentOwner), item.OwnerDeclaredPrice, item.ConsignmentDate,
		item.IsDeleted, item.DeletedAt, item.CreatedAt, item.UpdatedAt, item.LastEditedAt,
	)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	for _, op := range item.Operations {
		op.ItemID = item.ID
		if err := r.CreateOperation(ctx, op); err != nil {
			return err
		}
	}
	return nil
}

// GetByID obtiene un ítem con sus operaciones.
func (r *ItemRepo) GetByID(ctx context.Context, id string, includeDeleted bool) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	if !includeDeleted {
		query += ` AND NOT is_deleted`
	}
	return r.getOne(ctx, query, id)
}

// GetForUpdate obtiene el ítem y bloquea la fila (SELECT FOR UPDATE).
func (r *ItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1 FOR UPDATE`
	return r.getOne(ctx, query, id)
}

func (r *ItemRepo) getOne(ctx context.Context, query, id string) (*entity.Item, error) {
	item, err := scanItem(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	ops, err := r.operationsFor(ctx, []string{item.ID})
	if err != nil {
		return nil, err
	}
	item.Operations = ops[item.ID]
	return item, nil
}

// List aplica el filtro y devuelve la página y el total de coincidencias.
func (r *ItemRepo) List(ctx context.Context, f repository.ItemFilter) ([]*entity.Item, int, error) {
	var a argList
	if !f.IncludeDeleted {
		a.where("NOT is_deleted")
	}
	if f.Size != "" {
		a.where("size = " + a.add(f.Size))
	}
	if f.Material != "" {
		a.where("material ILIKE '%' || " + a.add(f.Material) + " || '%'")
	}
	if f.Search != "" {
		p := a.add(f.Search)
		a.where("(pattern ILIKE '%' || " + p + " || '%' OR brand ILIKE '%' || " + p +
			" || '%' OR description ILIKE '%' || " + p + " || '%')")
	}
	if f.AvailableOnly {
		a.where("quantity > 0")
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM items`+a.clause(), a.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count items: %w", err)
	}

	query := `SELECT ` + itemColumns + ` FROM items` + a.clause() +
		` ORDER BY created_at DESC, id LIMIT ` + a.add(f.Limit) + ` OFFSET ` + a.add(f.Offset)
	rows, err := r.q.Query(ctx, query, a.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var list []*entity.Item
	var ids []string
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, item)
		ids = append(ids, item.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list items: %w", err)
	}

	ops, err := r.operationsFor(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for _, item := range list {
		item.Operations = ops[item.ID]
	}
	return list, total, nil
}

// Update persiste los campos descriptivos, precios y consignación (no toca quantity ni el borrado).
func (r *ItemRepo) Update(ctx context.Context, item *entity.Item) error {
	query := `
		UPDATE items
		SET pattern = $2, brand = $3, material = $4, size = $5, description = $6, payment_method = $7,
		    purchase_price = $8, sale_price = $9, purchase_date = $10, seller_name = $11, has_pair = $12,
		    image_path = $13, is_consignment = $14, consignment_owner = $15, owner_declared_price = $16,
		    consignment_date = $17, updated_at = $18, last_edited_at = $19
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		item.ID, item.Pattern, item.Brand, item.Material, item.Size, item.Description, item.PaymentMethod,
		item.PurchasePrice, item.SalePrice, item.PurchaseDate, nullIfEmpty(item.SellerName), item.HasPair,
		nullIfEmpty(item.ImagePath), item.IsConsignment, nullIfEmpty(item.ConsignmentOwner),
		item.OwnerDeclaredPrice, item.ConsignmentDate, item.UpdatedAt, item.LastEditedAt,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateQuantity fija la existencia (usado por el ledger dentro de una tx).
func (r *ItemRepo) UpdateQuantity(ctx context.Context, id string, quantity int, at time.Time) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE items SET quantity = $2, updated_at = $3, last_edited_at = $3 WHERE id = $1`,
		id, quantity, at,
	)
	if err != nil {
		return fmt.Errorf("update item quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SoftDelete marca el ítem como eliminado.
func (r *ItemRepo) SoftDelete(ctx context.Context, id string, at time.Time) error {
	return r.execOne(ctx, "soft delete item",
		`UPDATE items SET is_deleted = TRUE, deleted_at = $2, updated_at = $2, last_edited_at = $2
		 WHERE id = $1 AND NOT is_deleted`, id, at)
}

// Restore revierte un borrado lógico.
func (r *ItemRepo) Restore(ctx context.Context, id string, at time.Time) error {
	return r.execOne(ctx, "restore item",
		`UPDATE items SET is_deleted = FALSE, deleted_at = NULL, updated_at = $2, last_edited_at = $2
		 WHERE id = $1 AND is_deleted`, id, at)
}

// Delete borra físicamente el ítem. Las operaciones caen en cascada y checks.item_id queda en NULL.
func (r *ItemRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("ítem referenciado por facturas: %w", domain.ErrConflict)
		}
		return fmt.Errorf("delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CountInvoiceLines cuenta las líneas de factura que referencian el ítem.
func (r *ItemRepo) CountInvoiceLines(ctx context.Context, id string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM invoice_lines WHERE item_id = $1`, id).Scan(&n); err != nil {
		return 0, fmt.Errorf("count invoice lines: %w", err)
	}
	return n, nil
}

// Touch actualiza last_edited_at del ítem.
func (r *ItemRepo) Touch(ctx context.Context, id string, at time.Time) error {
	return r.execOne(ctx, "touch item",
		`UPDATE items SET updated_at = $2, last_edited_at = $2 WHERE id = $1`, id, at)
}

func (r *ItemRepo) execOne(ctx context.Context, what, query string, args ...any) error {
	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CreateOperation persiste una operación de costo.
func (r *ItemRepo) CreateOperation(ctx context.Context, op *entity.ItemOperation) error {
	if op.ID == "" {
		op.ID = uuid.New().String()
	}
	query := `
		INSERT INTO item_operations (id, item_id, name, price, description, operation_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		op.ID, op.ItemID, op.Name, op.Price, op.Description, op.OperationDate, op.CreatedAt, op.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert item operation: %w", err)
	}
	return nil
}

// GetOperation obtiene una operación por ID.
func (r *ItemRepo) GetOperation(ctx context.Context, id string) (*entity.ItemOperation, error) {
	query := `
		SELECT id, item_id, name, price, description, operation_date, created_at, updated_at
		FROM item_operations WHERE id = $1`
	var op entity.ItemOperation
	err := r.q.QueryRow(ctx, query, id).Scan(
		&op.ID, &op.ItemID, &op.Name, &op.Price, &op.Description, &op.OperationDate, &op.CreatedAt, &op.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item operation: %w", err)
	}
	return &op, nil
}

// UpdateOperation persiste nombre, precio, descripción y fecha.
func (r *ItemRepo) UpdateOperation(ctx context.Context, op *entity.ItemOperation) error {
	return r.execOne(ctx, "update item operation", `
		UPDATE item_operations
		SET name = $2, price = $3, description = $4, operation_date = $5, updated_at = $6
		WHERE id = $1`,
		op.ID, op.Name, op.Price, op.Description, op.OperationDate, op.UpdatedAt,
	)
}

// DeleteOperation elimina una operación.
func (r *ItemRepo) DeleteOperation(ctx context.Context, id string) error {
	return r.execOne(ctx, "delete item operation", `DELETE FROM item_operations WHERE id = $1`, id)
}

// operationsFor carga las operaciones de varios ítems en una sola consulta.
func (r *ItemRepo) operationsFor(ctx context.Context, itemIDs []string) (map[string][]*entity.ItemOperation, error) {
	out := make(map[string][]*entity.ItemOperation, len(itemIDs))
	if len(itemIDs) == 0 {
		return out, nil
	}
	query := `
		SELECT id, item_id, name, price, description, operation_date, created_at, updated_at
		FROM item_operations WHERE item_id = ANY($1::uuid[])
		ORDER BY operation_date, created_at`
	rows, err := r.q.Query(ctx, query, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("list item operations: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var op entity.ItemOperation
		if err := rows.Scan(
			&op.ID, &op.ItemID, &op.Name, &op.Price, &op.Description, &op.OperationDate, &op.CreatedAt, &op.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan item operation: %w", err)
		}
		out[op.ItemID] = append(out[op.ItemID], &op)
	}
	return out, rows.Err()
}

func scanItem(row pgx.Row) (*entity.Item, error) {
	var it entity.Item
	var sellerName, imagePath, consignmentOwner *string
	err := row.Scan(
		&it.ID, &it.Pattern, &it.Brand, &it.Material, &it.Size, &it.Description, &it.PaymentMethod,
		&it.PurchasePrice, &it.SalePrice, &it.Quantity, &it.PurchaseDate, &sellerName, &it.HasPair, &imagePath,
		&it.IsConsignment, &consignmentOwner, &it.OwnerDeclaredPrice, &it.ConsignmentDate,
		&it.IsDeleted, &it.DeletedAt, &it.CreatedAt, &it.UpdatedAt, &it.LastEditedAt,
	)
	if err != nil {
		return nil, err
	}
	it.SellerName = derefStr(sellerName)
	it.ImagePath = derefStr(imagePath)
	it.ConsignmentOwner = derefStr(consignmentOwner)
	return &it, nil
}
