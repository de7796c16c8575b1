package order

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/municipio/backoffice/internal/domain/refdata"
	"github.com/municipio/backoffice/internal/domain/shared"
)

// LineInput is the caller-supplied shape of a line item. TaxBreakout
// defaults to true when nil.
type LineInput struct {
	Quantity      int
	Unit          string
	Description   string
	UnitNetAmount decimal.Decimal
	NetAmount     decimal.Decimal
	TaxBreakout   *bool
}

// CreateInput holds the input for creating a purchase order.
type CreateInput struct {
	Series          string
	Folio           string
	ProviderID      string
	AreaID          string
	BudgetItemID    string
	DestinationNote string
	DiscountPercent decimal.Decimal
	Lines           []LineInput
	CreatedBy       string
}

// UpdateInput holds a partial update. Nil pointer fields keep their
// current value. A non-nil Lines slice replaces the whole line set; nil
// leaves the existing lines untouched.
type UpdateInput struct {
	Series          *string
	Folio           *string
	ProviderID      *string
	AreaID          *string
	BudgetItemID    *string
	DestinationNote *string
	DiscountPercent *decimal.Decimal
	Lines           []LineInput
}

// Service orchestrates the purchase order lifecycle: creation, wholesale
// line replacement on update, and status transitions. It is the only
// component with side effects; all writes go through the Repository, whose
// Create and Replace operations are atomic.
type Service struct {
	orders Repository
	refs   refdata.Gateway
	now    func() time.Time
}

// NewService creates a purchase order Service.
func NewService(orders Repository, refs refdata.Gateway) *Service {
	return &Service{orders: orders, refs: refs, now: time.Now}
}

// Create validates the referenced entities and the series-folio pair,
// computes per-line taxes and order totals, and persists the order with
// its lines as one atomic unit. New orders start in StatusActive.
func (s *Service) Create(ctx context.Context, in CreateInput) (*PurchaseOrder, error) {
	if strings.TrimSpace(in.Series) == "" {
		return nil, &shared.ValidationError{Field: "series", Msg: "is required"}
	}
	if strings.TrimSpace(in.Folio) == "" {
		return nil, &shared.ValidationError{Field: "folio", Msg: "is required"}
	}
	if err := validateDiscount(in.DiscountPercent); err != nil {
		return nil, err
	}
	if len(in.Lines) == 0 {
		return nil, &shared.ValidationError{Field: "lines", Msg: "at least one line item is required"}
	}

	lines, err := buildLines(in.Lines)
	if err != nil {
		return nil, err
	}

	if err := s.checkReferences(ctx, in.ProviderID, in.AreaID, in.BudgetItemID); err != nil {
		return nil, err
	}

	taken, err := s.orders.SeriesFolioTaken(ctx, in.Series, in.Folio, "")
	if err != nil {
		return nil, errors.Wrap(err, "check series and folio")
	}
	if taken {
		return nil, &shared.ConflictError{Detail: "an order with series " + in.Series + " and folio " + in.Folio + " already exists"}
	}

	now := s.now().UTC()
	o := &PurchaseOrder{
		ID:              uuid.New().String(),
		Series:          in.Series,
		Folio:           in.Folio,
		ProviderID:      in.ProviderID,
		AreaID:          in.AreaID,
		BudgetItemID:    in.BudgetItemID,
		DestinationNote: in.DestinationNote,
		DiscountPercent: in.DiscountPercent,
		Status:          StatusActive,
		Lines:           lines,
		Totals:          ComputeTotals(lines, in.DiscountPercent),
		Version:         1,
		CreatedBy:       in.CreatedBy,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// Update applies a partial update to a non-deleted order. When a new line
// list is supplied, the existing lines are replaced wholesale and the
// aggregates recomputed from the new set; previously persisted aggregate
// values are never reused. The write is one transaction conditioned on the
// version read, so concurrent updates cannot silently clobber each other.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*PurchaseOrder, error) {
	o, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !o.Status.Mutable() {
		return nil, &ImmutableStateError{Status: o.Status}
	}

	loadedVersion := o.Version

	refsChanged := false
	if in.ProviderID != nil {
		o.ProviderID = *in.ProviderID
		refsChanged = true
	}
	if in.AreaID != nil {
		o.AreaID = *in.AreaID
		refsChanged = true
	}
	if in.BudgetItemID != nil {
		o.BudgetItemID = *in.BudgetItemID
		refsChanged = true
	}
	if refsChanged {
		if err := s.checkReferences(ctx, o.ProviderID, o.AreaID, o.BudgetItemID); err != nil {
			return nil, err
		}
	}

	if in.Series != nil || in.Folio != nil {
		series, folio := o.Series, o.Folio
		if in.Series != nil {
			series = *in.Series
		}
		if in.Folio != nil {
			folio = *in.Folio
		}
		if strings.TrimSpace(series) == "" {
			return nil, &shared.ValidationError{Field: "series", Msg: "is required"}
		}
		if strings.TrimSpace(folio) == "" {
			return nil, &shared.ValidationError{Field: "folio", Msg: "is required"}
		}
		if series != o.Series || folio != o.Folio {
			taken, err := s.orders.SeriesFolioTaken(ctx, series, folio, o.ID)
			if err != nil {
				return nil, errors.Wrap(err, "check series and folio")
			}
			if taken {
				return nil, &shared.ConflictError{Detail: "another order with series " + series + " and folio " + folio + " already exists"}
			}
		}
		o.Series, o.Folio = series, folio
	}

	if in.DestinationNote != nil {
		o.DestinationNote = *in.DestinationNote
	}
	if in.DiscountPercent != nil {
		if err := validateDiscount(*in.DiscountPercent); err != nil {
			return nil, err
		}
		o.DiscountPercent = *in.DiscountPercent
	}

	if in.Lines != nil {
		if len(in.Lines) == 0 {
			return nil, &shared.ValidationError{Field: "lines", Msg: "at least one line item is required"}
		}
		lines, err := buildLines(in.Lines)
		if err != nil {
			return nil, err
		}
		o.Lines = lines
	}

	o.Totals = ComputeTotals(o.Lines, o.DiscountPercent)
	o.Version = loadedVersion + 1
	o.UpdatedAt = s.now().UTC()

	if err := s.orders.Replace(ctx, o, loadedVersion); err != nil {
		return nil, err
	}
	return o, nil
}

// ChangeStatus moves the order along the lifecycle state machine. Totals
// are unaffected by status alone and are not recomputed.
func (s *Service) ChangeStatus(ctx context.Context, id string, target Status) (*PurchaseOrder, error) {
	if !target.IsValid() {
		return nil, &shared.ValidationError{Field: "status", Msg: "is not a valid order status"}
	}

	o, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !o.Status.CanTransitionTo(target) {
		return nil, &InvalidTransitionError{From: o.Status, To: target}
	}

	if err := s.orders.SetStatus(ctx, id, target); err != nil {
		return nil, err
	}
	o.Status = target
	return o, nil
}

// Cancel moves the order to StatusCancelled.
func (s *Service) Cancel(ctx context.Context, id string) (*PurchaseOrder, error) {
	return s.ChangeStatus(ctx, id, StatusCancelled)
}

// Complete moves the order to StatusCompleted.
func (s *Service) Complete(ctx context.Context, id string) (*PurchaseOrder, error) {
	return s.ChangeStatus(ctx, id, StatusCompleted)
}

// Remove soft-deletes the order. Completed orders cannot be removed.
// Unlike ChangeStatus it does not consult the transition table: any
// non-completed order can be soft-deleted, including cancelled ones.
func (s *Service) Remove(ctx context.Context, id string) error {
	o, err := s.orders.Get(ctx, id)
	if err != nil {
		return err
	}
	if o.Status == StatusCompleted {
		return &ImmutableStateError{Status: o.Status}
	}
	return s.orders.SetStatus(ctx, id, StatusDeleted)
}

// HardDelete removes the order's lines and then the order row itself,
// bypassing the state machine. Intended for administrative cleanup only.
func (s *Service) HardDelete(ctx context.Context, id string) error {
	if _, err := s.orders.GetAny(ctx, id); err != nil {
		return err
	}
	return s.orders.HardDelete(ctx, id)
}

// Get returns a non-deleted order by id.
func (s *Service) Get(ctx context.Context, id string) (*PurchaseOrder, error) {
	return s.orders.Get(ctx, id)
}

// GetBySeriesFolio returns a non-deleted order by its series-folio pair.
func (s *Service) GetBySeriesFolio(ctx context.Context, series, folio string) (*PurchaseOrder, error) {
	return s.orders.GetBySeriesFolio(ctx, series, folio)
}

// List returns orders matching the filter with the total count.
func (s *Service) List(ctx context.Context, f ListFilter) ([]PurchaseOrder, int64, error) {
	if f.Status != nil && !f.Status.IsValid() {
		return nil, 0, &shared.ValidationError{Field: "status", Msg: "is not a valid order status"}
	}
	return s.orders.List(ctx, f)
}

// checkReferences verifies the provider, area, and budget item exist.
func (s *Service) checkReferences(ctx context.Context, providerID, areaID, budgetItemID string) error {
	checks := []struct {
		kind refdata.Kind
		id   string
	}{
		{refdata.KindProvider, providerID},
		{refdata.KindArea, areaID},
		{refdata.KindBudgetItem, budgetItemID},
	}
	for _, c := range checks {
		ok, err := s.refs.Exists(ctx, c.kind, c.id)
		if err != nil {
			return errors.Wrapf(err, "check %s", c.kind)
		}
		if !ok {
			return &shared.NotFoundError{Entity: string(c.kind), ID: c.id}
		}
	}
	return nil
}

// buildLines validates every line input and returns computed lines. A
// single invalid line aborts the whole build with a ValidationError
// naming the offending position.
func buildLines(inputs []LineInput) ([]Line, error) {
	lines := make([]Line, 0, len(inputs))
	for i, in := range inputs {
		pos := i + 1
		if in.Quantity < 1 {
			return nil, &shared.ValidationError{Field: "quantity", Pos: pos, Msg: "must be at least 1"}
		}
		if strings.TrimSpace(in.Unit) == "" {
			return nil, &shared.ValidationError{Field: "unit", Pos: pos, Msg: "is required"}
		}
		if strings.TrimSpace(in.Description) == "" {
			return nil, &shared.ValidationError{Field: "description", Pos: pos, Msg: "is required"}
		}
		if in.UnitNetAmount.IsNegative() {
			return nil, &shared.ValidationError{Field: "unit net amount", Pos: pos, Msg: "must be non-negative"}
		}
		if in.NetAmount.IsNegative() {
			return nil, &shared.ValidationError{Field: "amount", Pos: pos, Msg: "must be non-negative"}
		}

		breakout := true
		if in.TaxBreakout != nil {
			breakout = *in.TaxBreakout
		}
		tax, lineTotal := ComputeLine(in.NetAmount, breakout)

		lines = append(lines, Line{
			ID:            uuid.New().String(),
			Quantity:      in.Quantity,
			Unit:          strings.TrimSpace(in.Unit),
			Description:   strings.TrimSpace(in.Description),
			UnitNetAmount: in.UnitNetAmount,
			NetAmount:     in.NetAmount,
			TaxBreakout:   breakout,
			TaxAmount:     tax,
			LineTotal:     lineTotal,
		})
	}
	return lines, nil
}

func validateDiscount(pct decimal.Decimal) error {
	if pct.IsNegative() {
		return &shared.ValidationError{Field: "discount percent", Msg: "must be non-negative"}
	}
	if pct.GreaterThan(hundred) {
		return &shared.ValidationError{Field: "discount percent", Msg: "cannot exceed 100"}
	}
	return nil
}
