package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrder is the aggregate root of the procurement module. The four
// aggregate fields in Totals are always persisted together with the lines
// they were computed from.
type PurchaseOrder struct {
	ID              string
	Series          string
	Folio           string
	ProviderID      string
	AreaID          string
	BudgetItemID    string
	DestinationNote string
	DiscountPercent decimal.Decimal
	Status          Status
	Lines           []Line
	Totals          Totals
	// Version is the optimistic concurrency token. Every committed update
	// increments it; a replace conditioned on a stale version fails with
	// ConflictError.
	Version   int64
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderNumber returns the human-readable series-folio pair, derived on
// read and never stored.
func (o *PurchaseOrder) OrderNumber() string {
	return o.Series + "-" + o.Folio
}

// Line is a single line item, owned exclusively by one purchase order.
// NetAmount is the declared pre-tax line total supplied by the caller; it
// is not recomputed from Quantity and UnitNetAmount.
type Line struct {
	ID            string
	Quantity      int
	Unit          string
	Description   string
	UnitNetAmount decimal.Decimal
	NetAmount     decimal.Decimal
	TaxBreakout   bool
	TaxAmount     decimal.Decimal
	LineTotal     decimal.Decimal
}

// Totals holds the order-level aggregates derived from the line items and
// the discount percent.
type Totals struct {
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxAmount      decimal.Decimal
	Total          decimal.Decimal
}

// ListFilter narrows List results. A nil Status excludes soft-deleted
// orders; an explicit status returns only orders in that state.
type ListFilter struct {
	Status *Status
	Limit  int
	Offset int
}

// Repository defines persistence operations for purchase orders. Create
// and Replace are atomic: the header, its lines, and the computed totals
// commit together or not at all.
type Repository interface {
	// Get loads a non-deleted order with its lines. Returns NotFoundError
	// when the id is absent or the order is soft-deleted.
	Get(ctx context.Context, id string) (*PurchaseOrder, error)
	// GetAny loads an order regardless of status. Used by hard delete.
	GetAny(ctx context.Context, id string) (*PurchaseOrder, error)
	// GetBySeriesFolio loads a non-deleted order by its series-folio pair.
	GetBySeriesFolio(ctx context.Context, series, folio string) (*PurchaseOrder, error)
	// List returns non-deleted orders (or orders in the filtered status)
	// newest first, with the total row count.
	List(ctx context.Context, f ListFilter) ([]PurchaseOrder, int64, error)
	// SeriesFolioTaken reports whether a non-deleted order other than
	// excludeID already uses the series-folio pair.
	SeriesFolioTaken(ctx context.Context, series, folio, excludeID string) (bool, error)
	// Create persists the order and its lines in one transaction.
	Create(ctx context.Context, o *PurchaseOrder) error
	// Replace deletes the order's lines, inserts o.Lines, and writes the
	// header fields and totals, all in one transaction. The write is
	// conditioned on the stored version matching expectedVersion; a stale
	// version fails with ConflictError and leaves the row untouched.
	Replace(ctx context.Context, o *PurchaseOrder, expectedVersion int64) error
	// SetStatus updates only the status column.
	SetStatus(ctx context.Context, id string, st Status) error
	// HardDelete removes the order's lines and then the order row.
	HardDelete(ctx context.Context, id string) error
}
