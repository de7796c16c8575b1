package order

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/municipio/backoffice/internal/domain/refdata"
	"github.com/municipio/backoffice/internal/domain/shared"
)

// --- Mock implementations ---

type mockOrderRepo struct {
	byID  map[string]*PurchaseOrder
	taken bool

	created         *PurchaseOrder
	replaced        *PurchaseOrder
	replacedVersion int64
	statusID        string
	statusSet       Status
	hardDeletedID   string

	createErr  error
	replaceErr error
}

func (m *mockOrderRepo) Get(_ context.Context, id string) (*PurchaseOrder, error) {
	o, ok := m.byID[id]
	if !ok || o.Status == StatusDeleted {
		return nil, &shared.NotFoundError{Entity: "purchase order", ID: id}
	}
	cp := *o
	return &cp, nil
}

func (m *mockOrderRepo) GetAny(_ context.Context, id string) (*PurchaseOrder, error) {
	o, ok := m.byID[id]
	if !ok {
		return nil, &shared.NotFoundError{Entity: "purchase order", ID: id}
	}
	cp := *o
	return &cp, nil
}

func (m *mockOrderRepo) GetBySeriesFolio(_ context.Context, series, folio string) (*PurchaseOrder, error) {
	for _, o := range m.byID {
		if o.Series == series && o.Folio == folio && o.Status != StatusDeleted {
			cp := *o
			return &cp, nil
		}
	}
	return nil, &shared.NotFoundError{Entity: "purchase order", ID: series + "-" + folio}
}

func (m *mockOrderRepo) List(_ context.Context, _ ListFilter) ([]PurchaseOrder, int64, error) {
	return nil, 0, nil
}

func (m *mockOrderRepo) SeriesFolioTaken(_ context.Context, _, _, _ string) (bool, error) {
	return m.taken, nil
}

func (m *mockOrderRepo) Create(_ context.Context, o *PurchaseOrder) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = o
	return nil
}

func (m *mockOrderRepo) Replace(_ context.Context, o *PurchaseOrder, expectedVersion int64) error {
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.replaced = o
	m.replacedVersion = expectedVersion
	return nil
}

func (m *mockOrderRepo) SetStatus(_ context.Context, id string, status Status) error {
	m.statusID = id
	m.statusSet = status
	return nil
}

func (m *mockOrderRepo) HardDelete(_ context.Context, id string) error {
	m.hardDeletedID = id
	return nil
}

type mockRefs struct {
	missing map[refdata.Kind]bool
}

func (m *mockRefs) Exists(_ context.Context, kind refdata.Kind, _ string) (bool, error) {
	return !m.missing[kind], nil
}

// --- Helpers ---

func validCreateInput() CreateInput {
	return CreateInput{
		Series:       "A",
		Folio:        "0000123",
		ProviderID:   "prov-1",
		AreaID:       "area-1",
		BudgetItemID: "item-1",
		Lines: []LineInput{
			{Quantity: 10, Unit: "pza", Description: "Cemento gris", UnitNetAmount: dec("150"), NetAmount: dec("1500")},
		},
		CreatedBy: "tester",
	}
}

func newTestService(repo *mockOrderRepo) *Service {
	return NewService(repo, &mockRefs{})
}

func storedOrder(status Status) (*mockOrderRepo, *PurchaseOrder) {
	lines, _ := buildLines(validCreateInput().Lines)
	o := &PurchaseOrder{
		ID:              "ord-1",
		Series:          "A",
		Folio:           "0000123",
		ProviderID:      "prov-1",
		AreaID:          "area-1",
		BudgetItemID:    "item-1",
		DiscountPercent: decimal.Zero,
		Status:          status,
		Lines:           lines,
		Totals:          ComputeTotals(lines, decimal.Zero),
		Version:         3,
	}
	repo := &mockOrderRepo{byID: map[string]*PurchaseOrder{o.ID: o}}
	return repo, o
}

// --- Tests ---

func TestCreate(t *testing.T) {
	repo := &mockOrderRepo{}
	svc := newTestService(repo)

	in := validCreateInput()
	in.DiscountPercent = dec("10")
	o, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	require.NotNil(t, repo.created)

	assert.NotEmpty(t, o.ID)
	assert.Equal(t, StatusActive, o.Status)
	assert.Equal(t, int64(1), o.Version)
	assert.Equal(t, "A-0000123", o.OrderNumber())
	assert.True(t, o.Totals.Subtotal.Equal(dec("1500")), "subtotal: %s", o.Totals.Subtotal)
	assert.True(t, o.Totals.DiscountAmount.Equal(dec("150")), "discount: %s", o.Totals.DiscountAmount)
	assert.True(t, o.Totals.TaxAmount.Equal(dec("240")), "tax: %s", o.Totals.TaxAmount)
	assert.True(t, o.Totals.Total.Equal(dec("1590")), "total: %s", o.Totals.Total)
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateInput)
		field  string
	}{
		{"missing series", func(in *CreateInput) { in.Series = " " }, "series"},
		{"missing folio", func(in *CreateInput) { in.Folio = "" }, "folio"},
		{"no lines", func(in *CreateInput) { in.Lines = nil }, "lines"},
		{"negative discount", func(in *CreateInput) { in.DiscountPercent = dec("-1") }, "discount percent"},
		{"discount over 100", func(in *CreateInput) { in.DiscountPercent = dec("100.01") }, "discount percent"},
		{"zero quantity", func(in *CreateInput) { in.Lines[0].Quantity = 0 }, "quantity"},
		{"missing unit", func(in *CreateInput) { in.Lines[0].Unit = "" }, "unit"},
		{"missing description", func(in *CreateInput) { in.Lines[0].Description = "  " }, "description"},
		{"negative amount", func(in *CreateInput) { in.Lines[0].NetAmount = dec("-5") }, "amount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(&mockOrderRepo{})

			in := validCreateInput()
			tt.mutate(&in)

			_, err := svc.Create(context.Background(), in)
			var vErr *shared.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestCreate_LineErrorNamesPosition(t *testing.T) {
	svc := newTestService(&mockOrderRepo{})

	in := validCreateInput()
	in.Lines = append(in.Lines, LineInput{Quantity: 1, Unit: "pza", Description: "ok", NetAmount: dec("-1")})

	_, err := svc.Create(context.Background(), in)
	var vErr *shared.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, 2, vErr.Pos)
}

func TestCreate_UnknownReference(t *testing.T) {
	svc := NewService(&mockOrderRepo{}, &mockRefs{missing: map[refdata.Kind]bool{refdata.KindArea: true}})

	_, err := svc.Create(context.Background(), validCreateInput())
	var nfErr *shared.NotFoundError
	require.ErrorAs(t, err, &nfErr)
	assert.Equal(t, "area", nfErr.Entity)
}

func TestCreate_SeriesFolioTaken(t *testing.T) {
	svc := newTestService(&mockOrderRepo{taken: true})

	_, err := svc.Create(context.Background(), validCreateInput())
	var cErr *shared.ConflictError
	require.ErrorAs(t, err, &cErr)
}

func TestCreate_TaxBreakoutDefaultsTrue(t *testing.T) {
	repo := &mockOrderRepo{}
	svc := newTestService(repo)

	o, err := svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)
	require.Len(t, o.Lines, 1)
	assert.True(t, o.Lines[0].TaxBreakout)
	assert.True(t, o.Lines[0].TaxAmount.Equal(dec("240")))
}

func TestUpdate_ReplacesLinesAndRecomputes(t *testing.T) {
	repo, o := storedOrder(StatusActive)
	svc := newTestService(repo)

	got, err := svc.Update(context.Background(), o.ID, UpdateInput{
		Lines: []LineInput{
			{Quantity: 2, Unit: "pza", Description: "Varilla", UnitNetAmount: dec("100"), NetAmount: dec("200")},
			{Quantity: 1, Unit: "lt", Description: "Pintura", UnitNetAmount: dec("300"), NetAmount: dec("300")},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, repo.replaced)

	assert.Equal(t, int64(3), repo.replacedVersion)
	assert.Equal(t, int64(4), got.Version)
	assert.Len(t, got.Lines, 2)
	assert.True(t, got.Totals.Subtotal.Equal(dec("500")), "subtotal: %s", got.Totals.Subtotal)
	assert.True(t, got.Totals.TaxAmount.Equal(dec("80")), "tax: %s", got.Totals.TaxAmount)
	assert.True(t, got.Totals.Total.Equal(dec("580")), "total: %s", got.Totals.Total)
}

func TestUpdate_KeepsLinesWhenNil(t *testing.T) {
	repo, o := storedOrder(StatusActive)
	svc := newTestService(repo)

	note := "almacen central"
	got, err := svc.Update(context.Background(), o.ID, UpdateInput{DestinationNote: &note})
	require.NoError(t, err)

	assert.Equal(t, "almacen central", got.DestinationNote)
	assert.Len(t, got.Lines, 1)
	assert.True(t, got.Totals.Total.Equal(o.Totals.Total))
}

func TestUpdate_RejectsEmptyLineList(t *testing.T) {
	repo, o := storedOrder(StatusActive)
	svc := newTestService(repo)

	_, err := svc.Update(context.Background(), o.ID, UpdateInput{Lines: []LineInput{}})
	var vErr *shared.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "lines", vErr.Field)
}

func TestUpdate_ImmutableStates(t *testing.T) {
	for _, status := range []Status{StatusCompleted, StatusCancelled} {
		t.Run(string(status), func(t *testing.T) {
			repo, o := storedOrder(status)
			svc := newTestService(repo)

			_, err := svc.Update(context.Background(), o.ID, UpdateInput{})
			var imErr *ImmutableStateError
			require.ErrorAs(t, err, &imErr)
			assert.Equal(t, status, imErr.Status)
		})
	}
}

func TestUpdate_SeriesFolioConflict(t *testing.T) {
	repo, o := storedOrder(StatusActive)
	repo.taken = true
	svc := newTestService(repo)

	folio := "0000999"
	_, err := svc.Update(context.Background(), o.ID, UpdateInput{Folio: &folio})
	var cErr *shared.ConflictError
	require.ErrorAs(t, err, &cErr)
}

func TestUpdate_SameFolioSkipsCheck(t *testing.T) {
	repo, o := storedOrder(StatusActive)
	repo.taken = true // would conflict if consulted
	svc := newTestService(repo)

	_, err := svc.Update(context.Background(), o.ID, UpdateInput{Folio: &o.Folio})
	require.NoError(t, err)
}

func TestChangeStatus(t *testing.T) {
	repo, o := storedOrder(StatusActive)
	svc := newTestService(repo)

	got, err := svc.ChangeStatus(context.Background(), o.ID, StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, got.Status)
	assert.Equal(t, o.ID, repo.statusID)
	assert.Equal(t, StatusInProgress, repo.statusSet)
}

func TestChangeStatus_InvalidTransition(t *testing.T) {
	repo, o := storedOrder(StatusActive)
	svc := newTestService(repo)

	_, err := svc.ChangeStatus(context.Background(), o.ID, StatusCompleted)
	var trErr *InvalidTransitionError
	require.ErrorAs(t, err, &trErr)
	assert.Equal(t, StatusActive, trErr.From)
	assert.Equal(t, StatusCompleted, trErr.To)
}

func TestChangeStatus_UnknownStatus(t *testing.T) {
	repo, o := storedOrder(StatusActive)
	svc := newTestService(repo)

	_, err := svc.ChangeStatus(context.Background(), o.ID, Status("archived"))
	var vErr *shared.ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestCancelThenReactivate(t *testing.T) {
	repo, o := storedOrder(StatusActive)
	svc := newTestService(repo)

	_, err := svc.Cancel(context.Background(), o.ID)
	require.NoError(t, err)
	o.Status = StatusCancelled

	got, err := svc.ChangeStatus(context.Background(), o.ID, StatusActive)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, got.Status)
}

func TestRemove(t *testing.T) {
	repo, o := storedOrder(StatusCancelled)
	svc := newTestService(repo)

	// Remove bypasses the transition table: cancelled -> deleted is fine.
	require.NoError(t, svc.Remove(context.Background(), o.ID))
	assert.Equal(t, StatusDeleted, repo.statusSet)
}

func TestRemove_CompletedRejected(t *testing.T) {
	repo, o := storedOrder(StatusCompleted)
	svc := newTestService(repo)

	err := svc.Remove(context.Background(), o.ID)
	var imErr *ImmutableStateError
	require.ErrorAs(t, err, &imErr)
}

func TestHardDelete(t *testing.T) {
	repo, o := storedOrder(StatusDeleted)
	svc := newTestService(repo)

	require.NoError(t, svc.HardDelete(context.Background(), o.ID))
	assert.Equal(t, o.ID, repo.hardDeletedID)
}

func TestList_InvalidStatusFilter(t *testing.T) {
	svc := newTestService(&mockOrderRepo{})

	bad := Status("archived")
	_, _, err := svc.List(context.Background(), ListFilter{Status: &bad})
	var vErr *shared.ValidationError
	require.ErrorAs(t, err, &vErr)
}
