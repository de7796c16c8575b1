package refdata

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/municipio/backoffice/internal/domain/shared"
)

// Service provides CRUD over the three reference-data catalogs. Uniqueness
// (provider code, area name/code, budget item number) is enforced by
// storage constraints and surfaces as shared.ConflictError.
type Service struct {
	providers   ProviderRepository
	areas       AreaRepository
	budgetItems BudgetItemRepository
	now         func() time.Time
}

// NewService creates a reference-data Service.
func NewService(providers ProviderRepository, areas AreaRepository, budgetItems BudgetItemRepository) *Service {
	return &Service{providers: providers, areas: areas, budgetItems: budgetItems, now: time.Now}
}

// Exists implements Gateway for the purchase order engine.
func (s *Service) Exists(ctx context.Context, kind Kind, id string) (bool, error) {
	var err error
	switch kind {
	case KindProvider:
		_, err = s.providers.Get(ctx, id)
	case KindArea:
		_, err = s.areas.Get(ctx, id)
	case KindBudgetItem:
		_, err = s.budgetItems.Get(ctx, id)
	default:
		return false, nil
	}
	if err != nil {
		var nf *shared.NotFoundError
		if errors.As(err, &nf) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CreateProvider validates and persists a new provider.
func (s *Service) CreateProvider(ctx context.Context, p Provider) (*Provider, error) {
	if err := requireFields(map[string]string{
		"code": p.Code, "name": p.Name, "legal name": p.LegalName, "rfc": p.RFC,
	}); err != nil {
		return nil, err
	}
	p.ID = uuid.New().String()
	p.CreatedAt = s.now().UTC()
	p.UpdatedAt = p.CreatedAt
	if err := s.providers.Create(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetProvider returns a provider by id, or by exact code/name/RFC when
// the term is not a UUID.
func (s *Service) GetProvider(ctx context.Context, term string) (*Provider, error) {
	if _, err := uuid.Parse(term); err == nil {
		return s.providers.Get(ctx, term)
	}
	return s.providers.FindByTerm(ctx, term)
}

// ListProviders returns providers ordered by name.
func (s *Service) ListProviders(ctx context.Context, limit, offset int) ([]Provider, int64, error) {
	return s.providers.List(ctx, limit, offset)
}

// SearchProviders matches name, legal name, or RFC as a substring.
func (s *Service) SearchProviders(ctx context.Context, term string, limit, offset int) ([]Provider, int64, error) {
	if strings.TrimSpace(term) == "" {
		return s.providers.List(ctx, limit, offset)
	}
	return s.providers.Search(ctx, term, limit, offset)
}

// UpdateProvider replaces the content fields of an existing provider.
func (s *Service) UpdateProvider(ctx context.Context, id string, p Provider) (*Provider, error) {
	cur, err := s.providers.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	p.ID = cur.ID
	p.CreatedAt = cur.CreatedAt
	p.UpdatedAt = s.now().UTC()
	if err := s.providers.Update(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteProvider removes the provider row.
func (s *Service) DeleteProvider(ctx context.Context, id string) error {
	if _, err := s.providers.Get(ctx, id); err != nil {
		return err
	}
	return s.providers.Delete(ctx, id)
}

// CreateArea validates and persists a new area.
func (s *Service) CreateArea(ctx context.Context, a Area) (*Area, error) {
	if err := requireFields(map[string]string{"name": a.Name, "code": a.Code}); err != nil {
		return nil, err
	}
	a.ID = uuid.New().String()
	a.CreatedAt = s.now().UTC()
	a.UpdatedAt = a.CreatedAt
	if err := s.areas.Create(ctx, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// GetArea returns an area by id.
func (s *Service) GetArea(ctx context.Context, id string) (*Area, error) {
	return s.areas.Get(ctx, id)
}

// ListAreas returns areas ordered by name.
func (s *Service) ListAreas(ctx context.Context, limit, offset int) ([]Area, int64, error) {
	return s.areas.List(ctx, limit, offset)
}

// UpdateArea replaces the content fields of an existing area.
func (s *Service) UpdateArea(ctx context.Context, id string, a Area) (*Area, error) {
	cur, err := s.areas.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	a.ID = cur.ID
	a.CreatedAt = cur.CreatedAt
	a.UpdatedAt = s.now().UTC()
	if err := s.areas.Update(ctx, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// DeleteArea removes the area row.
func (s *Service) DeleteArea(ctx context.Context, id string) error {
	if _, err := s.areas.Get(ctx, id); err != nil {
		return err
	}
	return s.areas.Delete(ctx, id)
}

// CreateBudgetItem validates and persists a new budget item.
func (s *Service) CreateBudgetItem(ctx context.Context, b BudgetItem) (*BudgetItem, error) {
	if err := requireFields(map[string]string{"name": b.Name, "number": b.Number}); err != nil {
		return nil, err
	}
	b.ID = uuid.New().String()
	b.CreatedAt = s.now().UTC()
	b.UpdatedAt = b.CreatedAt
	if err := s.budgetItems.Create(ctx, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// GetBudgetItem returns a budget item by id.
func (s *Service) GetBudgetItem(ctx context.Context, id string) (*BudgetItem, error) {
	return s.budgetItems.Get(ctx, id)
}

// ListBudgetItems returns budget items ordered by number.
func (s *Service) ListBudgetItems(ctx context.Context, limit, offset int) ([]BudgetItem, int64, error) {
	return s.budgetItems.List(ctx, limit, offset)
}

// UpdateBudgetItem replaces the content fields of an existing budget item.
func (s *Service) UpdateBudgetItem(ctx context.Context, id string, b BudgetItem) (*BudgetItem, error) {
	cur, err := s.budgetItems.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	b.ID = cur.ID
	b.CreatedAt = cur.CreatedAt
	b.UpdatedAt = s.now().UTC()
	if err := s.budgetItems.Update(ctx, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// DeleteBudgetItem removes the budget item row.
func (s *Service) DeleteBudgetItem(ctx context.Context, id string) error {
	if _, err := s.budgetItems.Get(ctx, id); err != nil {
		return err
	}
	return s.budgetItems.Delete(ctx, id)
}

func requireFields(fields map[string]string) error {
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			return &shared.ValidationError{Field: name, Msg: "is required"}
		}
	}
	return nil
}
