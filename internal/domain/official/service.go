package official

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/municipio/backoffice/internal/domain/shared"
)

// folioAttempts bounds the allocation retry loop. Two concurrent creates
// can read the same maximum folio; the unique constraint rejects the
// loser, which re-reads and tries again.
const folioAttempts = 3

// Input holds the caller-supplied fields of an official number. Folio is
// optional on create; when empty the next folio in the sequence is
// allocated. TotalFee is always recomputed as Rights + Form.
type Input struct {
	Folio          string
	PredialAccount string
	CadastralKey   string
	Address        string
	Neighborhood   string
	LandUse        string
	LandUseOther   string

	OwnerName    string
	OwnerAddress string
	OwnerPhone   string

	NorthStreet         string
	SouthStreet         string
	EastStreet          string
	WestStreet          string
	LotFront            string
	RightCornerDistance string
	LeftCornerDistance  string

	Observations   string
	AssignedNumber string

	Rights decimal.Decimal
	Form   decimal.Decimal

	CreatedBy string
}

// Service manages official number permits, including folio allocation.
type Service struct {
	numbers    Repository
	folioFloor int64
	now        func() time.Time
}

// NewService creates an official number Service. folioFloor is the first
// folio issued when the table holds no parseable folio.
func NewService(numbers Repository, folioFloor int64) *Service {
	return &Service{numbers: numbers, folioFloor: folioFloor, now: time.Now}
}

// Create validates and persists a new official number. When no folio is
// supplied, one is allocated from the sequence; an allocation lost to a
// concurrent create is retried a bounded number of times.
func (s *Service) Create(ctx context.Context, in Input) (*Number, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	n := &Number{
		ID:        uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	apply(n, in)
	n.CreatedBy = in.CreatedBy

	if in.Folio != "" {
		n.Folio = in.Folio
		return n, s.numbers.Create(ctx, n)
	}

	var lastErr error
	for range folioAttempts {
		last, err := s.numbers.MaxFolio(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "read max folio")
		}
		n.Folio = NextFolio(last, s.folioFloor)

		err = s.numbers.Create(ctx, n)
		if err == nil {
			return n, nil
		}
		var conflict *shared.ConflictError
		if !errors.As(err, &conflict) {
			return nil, err
		}
		lastErr = err
	}
	return nil, errors.Wrap(lastErr, "allocate folio")
}

// Update replaces the content fields of an existing official number. An
// empty Folio keeps the current one; a changed folio must not collide
// with another record.
func (s *Service) Update(ctx context.Context, id string, in Input) (*Number, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	n, err := s.numbers.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	apply(n, in)
	if in.Folio != "" {
		n.Folio = in.Folio
	}
	n.UpdatedAt = s.now().UTC()

	if err := s.numbers.Update(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// Get returns an official number by id, or by folio when the term is not
// a UUID.
func (s *Service) Get(ctx context.Context, term string) (*Number, error) {
	if _, err := uuid.Parse(term); err == nil {
		return s.numbers.Get(ctx, term)
	}
	return s.numbers.GetByFolio(ctx, term)
}

// List returns official numbers ordered by folio.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Number, int64, error) {
	return s.numbers.List(ctx, limit, offset)
}

// Search matches the folio, owner name, or address against term.
func (s *Service) Search(ctx context.Context, term string, limit, offset int) ([]Number, int64, error) {
	if strings.TrimSpace(term) == "" {
		return s.numbers.List(ctx, limit, offset)
	}
	return s.numbers.Search(ctx, term, limit, offset)
}

// Remove deletes the record. Official numbers have no soft-delete state.
func (s *Service) Remove(ctx context.Context, id string) error {
	if _, err := s.numbers.Get(ctx, id); err != nil {
		return err
	}
	return s.numbers.Delete(ctx, id)
}

func apply(n *Number, in Input) {
	n.PredialAccount = in.PredialAccount
	n.CadastralKey = in.CadastralKey
	n.Address = in.Address
	n.Neighborhood = in.Neighborhood
	n.LandUse = in.LandUse
	n.LandUseOther = in.LandUseOther
	n.OwnerName = in.OwnerName
	n.OwnerAddress = in.OwnerAddress
	n.OwnerPhone = in.OwnerPhone
	n.NorthStreet = in.NorthStreet
	n.SouthStreet = in.SouthStreet
	n.EastStreet = in.EastStreet
	n.WestStreet = in.WestStreet
	n.LotFront = in.LotFront
	n.RightCornerDistance = in.RightCornerDistance
	n.LeftCornerDistance = in.LeftCornerDistance
	n.Observations = in.Observations
	n.AssignedNumber = in.AssignedNumber
	n.Rights = in.Rights
	n.Form = in.Form
	n.TotalFee = in.Rights.Add(in.Form)
}

func validate(in Input) error {
	required := []struct {
		field, value string
	}{
		{"predial account", in.PredialAccount},
		{"cadastral key", in.CadastralKey},
		{"address", in.Address},
		{"neighborhood", in.Neighborhood},
		{"land use", in.LandUse},
		{"owner name", in.OwnerName},
		{"owner address", in.OwnerAddress},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &shared.ValidationError{Field: r.field, Msg: "is required"}
		}
	}
	if in.Rights.IsNegative() {
		return &shared.ValidationError{Field: "rights fee", Msg: "must be non-negative"}
	}
	if in.Form.IsNegative() {
		return &shared.ValidationError{Field: "form fee", Msg: "must be non-negative"}
	}
	return nil
}
