package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/municipio/backoffice/internal/domain/refdata"
	"github.com/municipio/backoffice/internal/domain/shared"
)

const (
	providerColumns = `id, code, name, legal_name, origin, state, country, rfc,
		economic_activity, address, town, postal_code, legal_representative,
		phone, email, website, created_at, updated_at`

	getProviderSQL = `SELECT ` + providerColumns + ` FROM providers WHERE id = $1`

	findProviderByTermSQL = `SELECT ` + providerColumns + ` FROM providers
		WHERE code = $1 OR rfc = $1 OR name = $1 LIMIT 1`

	listProvidersSQL = `SELECT ` + providerColumns + ` FROM providers
		ORDER BY name LIMIT $1 OFFSET $2`

	countProvidersSQL = `SELECT count(*) FROM providers`

	searchProvidersSQL = `SELECT ` + providerColumns + ` FROM providers
		WHERE name ILIKE '%' || $1 || '%' OR legal_name ILIKE '%' || $1 || '%' OR rfc ILIKE '%' || $1 || '%'
		ORDER BY name LIMIT $2 OFFSET $3`

	countSearchProvidersSQL = `SELECT count(*) FROM providers
		WHERE name ILIKE '%' || $1 || '%' OR legal_name ILIKE '%' || $1 || '%' OR rfc ILIKE '%' || $1 || '%'`

	insertProviderSQL = `INSERT INTO providers (` + providerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

	updateProviderSQL = `UPDATE providers SET
		code = $1, name = $2, legal_name = $3, origin = $4, state = $5, country = $6,
		rfc = $7, economic_activity = $8, address = $9, town = $10, postal_code = $11,
		legal_representative = $12, phone = $13, email = $14, website = $15, updated_at = $16
		WHERE id = $17`

	deleteProviderSQL = `DELETE FROM providers WHERE id = $1`
)

var _ refdata.ProviderRepository = (*ProviderRepository)(nil)

// ProviderRepository implements refdata.ProviderRepository backed by
// PostgreSQL.
type ProviderRepository struct {
	pool *pgxpool.Pool
}

// NewProviderRepository returns a ProviderRepository that uses the given pool.
func NewProviderRepository(pool *pgxpool.Pool) *ProviderRepository {
	return &ProviderRepository{pool: pool}
}

// Create persists a new provider. A duplicate code or RFC surfaces as
// shared.ConflictError.
func (r *ProviderRepository) Create(ctx context.Context, p *refdata.Provider) error {
	_, err := r.pool.Exec(ctx, insertProviderSQL,
		p.ID, p.Code, p.Name, p.LegalName, p.Origin, p.State, p.Country, p.RFC,
		p.EconomicActivity, p.Address, p.Town, p.PostalCode, p.LegalRepresentative,
		p.Phone, p.Email, p.Website, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return conflictErr(err, fmt.Sprintf("a provider with code %s or rfc %s already exists", p.Code, p.RFC))
	}
	return nil
}

// Get returns a provider by id.
func (r *ProviderRepository) Get(ctx context.Context, id string) (*refdata.Provider, error) {
	return r.one(ctx, getProviderSQL, id)
}

// FindByTerm returns the provider whose code, RFC, or name equals term.
func (r *ProviderRepository) FindByTerm(ctx context.Context, term string) (*refdata.Provider, error) {
	return r.one(ctx, findProviderByTermSQL, term)
}

func (r *ProviderRepository) one(ctx context.Context, sql, arg string) (*refdata.Provider, error) {
	rows, err := r.pool.Query(ctx, sql, arg)
	if err != nil {
		return nil, fmt.Errorf("getting provider %q: %w", arg, err)
	}
	p, err := pgx.CollectExactlyOneRow(rows, scanProvider)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &shared.NotFoundError{Entity: "provider", ID: arg}
		}
		return nil, fmt.Errorf("getting provider %q: %w", arg, err)
	}
	return &p, nil
}

// List returns providers ordered by name with the total count.
func (r *ProviderRepository) List(ctx context.Context, limit, offset int) ([]refdata.Provider, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, countProvidersSQL).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting providers: %w", err)
	}
	rows, err := r.pool.Query(ctx, listProvidersSQL, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing providers: %w", err)
	}
	providers, err := pgx.CollectRows(rows, scanProvider)
	if err != nil {
		return nil, 0, fmt.Errorf("listing providers: %w", err)
	}
	return providers, total, nil
}

// Search matches name, legal name, or RFC as a case-insensitive substring.
func (r *ProviderRepository) Search(ctx context.Context, term string, limit, offset int) ([]refdata.Provider, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, countSearchProvidersSQL, term).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting providers matching %q: %w", term, err)
	}
	rows, err := r.pool.Query(ctx, searchProvidersSQL, term, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("searching providers for %q: %w", term, err)
	}
	providers, err := pgx.CollectRows(rows, scanProvider)
	if err != nil {
		return nil, 0, fmt.Errorf("searching providers for %q: %w", term, err)
	}
	return providers, total, nil
}

// Update rewrites the provider row.
func (r *ProviderRepository) Update(ctx context.Context, p *refdata.Provider) error {
	_, err := r.pool.Exec(ctx, updateProviderSQL,
		p.Code, p.Name, p.LegalName, p.Origin, p.State, p.Country, p.RFC,
		p.EconomicActivity, p.Address, p.Town, p.PostalCode, p.LegalRepresentative,
		p.Phone, p.Email, p.Website, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return conflictErr(err, fmt.Sprintf("a provider with code %s or rfc %s already exists", p.Code, p.RFC))
	}
	return nil
}

// Delete removes the provider row.
func (r *ProviderRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, deleteProviderSQL, id); err != nil {
		return fmt.Errorf("deleting provider %q: %w", id, err)
	}
	return nil
}

func scanProvider(row pgx.CollectableRow) (refdata.Provider, error) {
	var p refdata.Provider
	err := row.Scan(
		&p.ID, &p.Code, &p.Name, &p.LegalName, &p.Origin, &p.State, &p.Country, &p.RFC,
		&p.EconomicActivity, &p.Address, &p.Town, &p.PostalCode, &p.LegalRepresentative,
		&p.Phone, &p.Email, &p.Website, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

const (
	areaColumns = `id, name, code, manager, manager_title, created_at, updated_at`

	getAreaSQL = `SELECT ` + areaColumns + ` FROM areas WHERE id = $1`

	listAreasSQL = `SELECT ` + areaColumns + ` FROM areas ORDER BY name LIMIT $1 OFFSET $2`

	countAreasSQL = `SELECT count(*) FROM areas`

	insertAreaSQL = `INSERT INTO areas (` + areaColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	updateAreaSQL = `UPDATE areas SET
		name = $1, code = $2, manager = $3, manager_title = $4, updated_at = $5
		WHERE id = $6`

	deleteAreaSQL = `DELETE FROM areas WHERE id = $1`
)

var _ refdata.AreaRepository = (*AreaRepository)(nil)

// AreaRepository implements refdata.AreaRepository backed by PostgreSQL.
type AreaRepository struct {
	pool *pgxpool.Pool
}

// NewAreaRepository returns an AreaRepository that uses the given pool.
func NewAreaRepository(pool *pgxpool.Pool) *AreaRepository {
	return &AreaRepository{pool: pool}
}

// Create persists a new area. A duplicate name or code surfaces as
// shared.ConflictError.
func (r *AreaRepository) Create(ctx context.Context, a *refdata.Area) error {
	_, err := r.pool.Exec(ctx, insertAreaSQL,
		a.ID, a.Name, a.Code, a.Manager, a.ManagerTitle, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return conflictErr(err, fmt.Sprintf("an area named %s or with code %s already exists", a.Name, a.Code))
	}
	return nil
}

// Get returns an area by id.
func (r *AreaRepository) Get(ctx context.Context, id string) (*refdata.Area, error) {
	rows, err := r.pool.Query(ctx, getAreaSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting area %q: %w", id, err)
	}
	a, err := pgx.CollectExactlyOneRow(rows, scanArea)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &shared.NotFoundError{Entity: "area", ID: id}
		}
		return nil, fmt.Errorf("getting area %q: %w", id, err)
	}
	return &a, nil
}

// List returns areas ordered by name with the total count.
func (r *AreaRepository) List(ctx context.Context, limit, offset int) ([]refdata.Area, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, countAreasSQL).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting areas: %w", err)
	}
	rows, err := r.pool.Query(ctx, listAreasSQL, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing areas: %w", err)
	}
	areas, err := pgx.CollectRows(rows, scanArea)
	if err != nil {
		return nil, 0, fmt.Errorf("listing areas: %w", err)
	}
	return areas, total, nil
}

// Update rewrites the area row.
func (r *AreaRepository) Update(ctx context.Context, a *refdata.Area) error {
	_, err := r.pool.Exec(ctx, updateAreaSQL,
		a.Name, a.Code, a.Manager, a.ManagerTitle, a.UpdatedAt, a.ID,
	)
	if err != nil {
		return conflictErr(err, fmt.Sprintf("an area named %s or with code %s already exists", a.Name, a.Code))
	}
	return nil
}

// Delete removes the area row.
func (r *AreaRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, deleteAreaSQL, id); err != nil {
		return fmt.Errorf("deleting area %q: %w", id, err)
	}
	return nil
}

func scanArea(row pgx.CollectableRow) (refdata.Area, error) {
	var a refdata.Area
	err := row.Scan(&a.ID, &a.Name, &a.Code, &a.Manager, &a.ManagerTitle, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

const (
	budgetItemColumns = `id, name, number, created_at, updated_at`

	getBudgetItemSQL = `SELECT ` + budgetItemColumns + ` FROM budget_items WHERE id = $1`

	listBudgetItemsSQL = `SELECT ` + budgetItemColumns + ` FROM budget_items
		ORDER BY number LIMIT $1 OFFSET $2`

	countBudgetItemsSQL = `SELECT count(*) FROM budget_items`

	insertBudgetItemSQL = `INSERT INTO budget_items (` + budgetItemColumns + `)
		VALUES ($1, $2, $3, $4, $5)`

	updateBudgetItemSQL = `UPDATE budget_items SET
		name = $1, number = $2, updated_at = $3 WHERE id = $4`

	deleteBudgetItemSQL = `DELETE FROM budget_items WHERE id = $1`
)

var _ refdata.BudgetItemRepository = (*BudgetItemRepository)(nil)

// BudgetItemRepository implements refdata.BudgetItemRepository backed by
// PostgreSQL.
type BudgetItemRepository struct {
	pool *pgxpool.Pool
}

// NewBudgetItemRepository returns a BudgetItemRepository that uses the given pool.
func NewBudgetItemRepository(pool *pgxpool.Pool) *BudgetItemRepository {
	return &BudgetItemRepository{pool: pool}
}

// Create persists a new budget item. A duplicate number surfaces as
// shared.ConflictError.
func (r *BudgetItemRepository) Create(ctx context.Context, b *refdata.BudgetItem) error {
	_, err := r.pool.Exec(ctx, insertBudgetItemSQL,
		b.ID, b.Name, b.Number, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return conflictErr(err, fmt.Sprintf("a budget item with number %s already exists", b.Number))
	}
	return nil
}

// Get returns a budget item by id.
func (r *BudgetItemRepository) Get(ctx context.Context, id string) (*refdata.BudgetItem, error) {
	rows, err := r.pool.Query(ctx, getBudgetItemSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting budget item %q: %w", id, err)
	}
	b, err := pgx.CollectExactlyOneRow(rows, scanBudgetItem)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &shared.NotFoundError{Entity: "budget item", ID: id}
		}
		return nil, fmt.Errorf("getting budget item %q: %w", id, err)
	}
	return &b, nil
}

// List returns budget items ordered by number with the total count.
func (r *BudgetItemRepository) List(ctx context.Context, limit, offset int) ([]refdata.BudgetItem, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, countBudgetItemsSQL).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting budget items: %w", err)
	}
	rows, err := r.pool.Query(ctx, listBudgetItemsSQL, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing budget items: %w", err)
	}
	items, err := pgx.CollectRows(rows, scanBudgetItem)
	if err != nil {
		return nil, 0, fmt.Errorf("listing budget items: %w", err)
	}
	return items, total, nil
}

// Update rewrites the budget item row.
func (r *BudgetItemRepository) Update(ctx context.Context, b *refdata.BudgetItem) error {
	_, err := r.pool.Exec(ctx, updateBudgetItemSQL, b.Name, b.Number, b.UpdatedAt, b.ID)
	if err != nil {
		return conflictErr(err, fmt.Sprintf("a budget item with number %s already exists", b.Number))
	}
	return nil
}

// Delete removes the budget item row.
func (r *BudgetItemRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, deleteBudgetItemSQL, id); err != nil {
		return fmt.Errorf("deleting budget item %q: %w", id, err)
	}
	return nil
}

func scanBudgetItem(row pgx.CollectableRow) (refdata.BudgetItem, error) {
	var b refdata.BudgetItem
	err := row.Scan(&b.ID, &b.Name, &b.Number, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}
