package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/municipio/backoffice/internal/domain/order"
	"github.com/municipio/backoffice/internal/domain/shared"
)

const (
	orderColumns = `id, series, folio, provider_id, area_id, budget_item_id,
		destination_note, discount_percent, status,
		subtotal, discount_amount, tax_amount, total,
		version, created_by, created_at, updated_at`

	lineColumns = `id, quantity, unit, description, unit_net_amount,
		net_amount, tax_breakout, tax_amount, line_total`

	getOrderSQL = `SELECT ` + orderColumns + ` FROM purchase_orders
		WHERE id = $1 AND status <> 'deleted'`

	getAnyOrderSQL = `SELECT ` + orderColumns + ` FROM purchase_orders WHERE id = $1`

	getOrderBySeriesFolioSQL = `SELECT ` + orderColumns + ` FROM purchase_orders
		WHERE series = $1 AND folio = $2 AND status <> 'deleted'`

	getOrderLinesSQL = `SELECT ` + lineColumns + ` FROM purchase_order_lines
		WHERE order_id = $1 ORDER BY position`

	seriesFolioTakenSQL = `SELECT EXISTS (
		SELECT 1 FROM purchase_orders
		WHERE series = $1 AND folio = $2 AND status <> 'deleted' AND id <> $3)`

	insertOrderSQL = `INSERT INTO purchase_orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	insertLineSQL = `INSERT INTO purchase_order_lines (order_id, position, ` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	updateOrderSQL = `UPDATE purchase_orders SET
		series = $1, folio = $2, provider_id = $3, area_id = $4, budget_item_id = $5,
		destination_note = $6, discount_percent = $7,
		subtotal = $8, discount_amount = $9, tax_amount = $10, total = $11,
		version = $12, updated_at = $13
		WHERE id = $14 AND version = $15`

	deleteOrderLinesSQL = `DELETE FROM purchase_order_lines WHERE order_id = $1`

	setOrderStatusSQL = `UPDATE purchase_orders SET status = $1, updated_at = now() WHERE id = $2`

	deleteOrderSQL = `DELETE FROM purchase_orders WHERE id = $1`

	listOrdersSQL = `SELECT ` + orderColumns + ` FROM purchase_orders
		WHERE status <> 'deleted' AND ($1::text IS NULL OR status = $1)
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	countOrdersSQL = `SELECT count(*) FROM purchase_orders
		WHERE status <> 'deleted' AND ($1::text IS NULL OR status = $1)`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL. Orders
// and their lines are written together in a single transaction.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Get returns a non-deleted order with its lines.
func (r *OrderRepository) Get(ctx context.Context, id string) (*order.PurchaseOrder, error) {
	return r.getWith(ctx, getOrderSQL, id)
}

// GetAny returns an order regardless of status, including soft-deleted ones.
func (r *OrderRepository) GetAny(ctx context.Context, id string) (*order.PurchaseOrder, error) {
	return r.getWith(ctx, getAnyOrderSQL, id)
}

func (r *OrderRepository) getWith(ctx context.Context, sql, id string) (*order.PurchaseOrder, error) {
	rows, err := r.pool.Query(ctx, sql, id)
	if err != nil {
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &shared.NotFoundError{Entity: "purchase order", ID: id}
		}
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}

	if err := r.loadLines(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// GetBySeriesFolio returns a non-deleted order by its series-folio pair.
func (r *OrderRepository) GetBySeriesFolio(ctx context.Context, series, folio string) (*order.PurchaseOrder, error) {
	rows, err := r.pool.Query(ctx, getOrderBySeriesFolioSQL, series, folio)
	if err != nil {
		return nil, fmt.Errorf("getting order %s-%s: %w", series, folio, err)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &shared.NotFoundError{Entity: "purchase order", ID: series + "-" + folio}
		}
		return nil, fmt.Errorf("getting order %s-%s: %w", series, folio, err)
	}

	if err := r.loadLines(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// SeriesFolioTaken reports whether a non-deleted order other than
// excludeID already uses the series-folio pair.
func (r *OrderRepository) SeriesFolioTaken(ctx context.Context, series, folio, excludeID string) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx, seriesFolioTakenSQL, series, folio, excludeID).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("checking series and folio %s-%s: %w", series, folio, err)
	}
	return taken, nil
}

// List returns non-deleted orders matching the filter, newest first, along
// with the total count of matching rows.
func (r *OrderRepository) List(ctx context.Context, f order.ListFilter) ([]order.PurchaseOrder, int64, error) {
	var status *string
	if f.Status != nil {
		s := f.Status.String()
		status = &s
	}

	var total int64
	if err := r.pool.QueryRow(ctx, countOrdersSQL, status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting orders: %w", err)
	}

	rows, err := r.pool.Query(ctx, listOrdersSQL, status, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing orders: %w", err)
	}
	orders, err := pgx.CollectRows(rows, scanOrder)
	if err != nil {
		return nil, 0, fmt.Errorf("listing orders: %w", err)
	}

	for i := range orders {
		if err := r.loadLines(ctx, &orders[i]); err != nil {
			return nil, 0, err
		}
	}
	return orders, total, nil
}

// Create persists the order and its lines in one transaction. A series-folio
// collision with another live order surfaces as shared.ConflictError.
func (r *OrderRepository) Create(ctx context.Context, o *order.PurchaseOrder) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	_, err = tx.Exec(ctx, insertOrderSQL,
		o.ID, o.Series, o.Folio, o.ProviderID, o.AreaID, o.BudgetItemID,
		o.DestinationNote, o.DiscountPercent, o.Status.String(),
		o.Totals.Subtotal, o.Totals.DiscountAmount, o.Totals.TaxAmount, o.Totals.Total,
		o.Version, o.CreatedBy, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return conflictErr(err, fmt.Sprintf("an order with series %s and folio %s already exists", o.Series, o.Folio))
	}

	if err := insertLines(ctx, tx, o); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Replace rewrites the order row and its entire line set in one transaction.
// The update is conditioned on expectedVersion: if another writer got there
// first, no row matches and the call fails with shared.ConflictError.
func (r *OrderRepository) Replace(ctx context.Context, o *order.PurchaseOrder, expectedVersion int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	tag, err := tx.Exec(ctx, updateOrderSQL,
		o.Series, o.Folio, o.ProviderID, o.AreaID, o.BudgetItemID,
		o.DestinationNote, o.DiscountPercent,
		o.Totals.Subtotal, o.Totals.DiscountAmount, o.Totals.TaxAmount, o.Totals.Total,
		o.Version, o.UpdatedAt,
		o.ID, expectedVersion,
	)
	if err != nil {
		return conflictErr(err, fmt.Sprintf("another order with series %s and folio %s already exists", o.Series, o.Folio))
	}
	if tag.RowsAffected() == 0 {
		return &shared.ConflictError{Detail: "order was modified concurrently"}
	}

	if _, err := tx.Exec(ctx, deleteOrderLinesSQL, o.ID); err != nil {
		return fmt.Errorf("deleting lines of order %q: %w", o.ID, err)
	}
	if err := insertLines(ctx, tx, o); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// SetStatus updates only the status column.
func (r *OrderRepository) SetStatus(ctx context.Context, id string, status order.Status) error {
	_, err := r.pool.Exec(ctx, setOrderStatusSQL, status.String(), id)
	if err != nil {
		return fmt.Errorf("setting status of order %q: %w", id, err)
	}
	return nil
}

// HardDelete removes the order row; its lines go with it via the cascading
// foreign key.
func (r *OrderRepository) HardDelete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, deleteOrderSQL, id)
	if err != nil {
		return fmt.Errorf("deleting order %q: %w", id, err)
	}
	return nil
}

func (r *OrderRepository) loadLines(ctx context.Context, o *order.PurchaseOrder) error {
	rows, err := r.pool.Query(ctx, getOrderLinesSQL, o.ID)
	if err != nil {
		return fmt.Errorf("loading lines of order %q: %w", o.ID, err)
	}
	lines, err := pgx.CollectRows(rows, scanLine)
	if err != nil {
		return fmt.Errorf("loading lines of order %q: %w", o.ID, err)
	}
	o.Lines = lines
	return nil
}

func insertLines(ctx context.Context, tx pgx.Tx, o *order.PurchaseOrder) error {
	for i, l := range o.Lines {
		_, err := tx.Exec(ctx, insertLineSQL,
			o.ID, i+1,
			l.ID, l.Quantity, l.Unit, l.Description, l.UnitNetAmount,
			l.NetAmount, l.TaxBreakout, l.TaxAmount, l.LineTotal,
		)
		if err != nil {
			return fmt.Errorf("inserting line %d of order %q: %w", i+1, o.ID, err)
		}
	}
	return nil
}

func scanOrder(row pgx.CollectableRow) (order.PurchaseOrder, error) {
	var (
		o      order.PurchaseOrder
		status string
	)
	err := row.Scan(
		&o.ID, &o.Series, &o.Folio, &o.ProviderID, &o.AreaID, &o.BudgetItemID,
		&o.DestinationNote, &o.DiscountPercent, &status,
		&o.Totals.Subtotal, &o.Totals.DiscountAmount, &o.Totals.TaxAmount, &o.Totals.Total,
		&o.Version, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt,
	)
	o.Status = order.Status(status)
	return o, err
}

func scanLine(row pgx.CollectableRow) (order.Line, error) {
	var l order.Line
	err := row.Scan(
		&l.ID, &l.Quantity, &l.Unit, &l.Description, &l.UnitNetAmount,
		&l.NetAmount, &l.TaxBreakout, &l.TaxAmount, &l.LineTotal,
	)
	return l, err
}
