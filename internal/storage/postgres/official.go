package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/municipio/backoffice/internal/domain/official"
	"github.com/municipio/backoffice/internal/domain/shared"
)

const (
	officialColumns = `id, folio, predial_account, cadastral_key, address, neighborhood,
		land_use, land_use_other, owner_name, owner_address, owner_phone,
		north_street, south_street, east_street, west_street,
		lot_front, right_corner_distance, left_corner_distance,
		observations, assigned_number, rights_fee, form_fee, total_fee,
		created_by, created_at, updated_at`

	getOfficialSQL = `SELECT ` + officialColumns + ` FROM official_numbers WHERE id = $1`

	getOfficialByFolioSQL = `SELECT ` + officialColumns + ` FROM official_numbers WHERE folio = $1`

	// Folios are zero-padded to a fixed width, so lexicographic max is
	// numeric max for generated values.
	maxOfficialFolioSQL = `SELECT coalesce(max(folio), '') FROM official_numbers
		WHERE folio ~ '^[0-9]+$'`

	listOfficialsSQL = `SELECT ` + officialColumns + ` FROM official_numbers
		ORDER BY folio DESC LIMIT $1 OFFSET $2`

	countOfficialsSQL = `SELECT count(*) FROM official_numbers`

	searchOfficialsSQL = `SELECT ` + officialColumns + ` FROM official_numbers
		WHERE folio ILIKE '%' || $1 || '%' OR owner_name ILIKE '%' || $1 || '%' OR address ILIKE '%' || $1 || '%'
		ORDER BY folio DESC LIMIT $2 OFFSET $3`

	countSearchOfficialsSQL = `SELECT count(*) FROM official_numbers
		WHERE folio ILIKE '%' || $1 || '%' OR owner_name ILIKE '%' || $1 || '%' OR address ILIKE '%' || $1 || '%'`

	insertOfficialSQL = `INSERT INTO official_numbers (` + officialColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)`

	updateOfficialSQL = `UPDATE official_numbers SET
		folio = $1, predial_account = $2, cadastral_key = $3, address = $4, neighborhood = $5,
		land_use = $6, land_use_other = $7, owner_name = $8, owner_address = $9, owner_phone = $10,
		north_street = $11, south_street = $12, east_street = $13, west_street = $14,
		lot_front = $15, right_corner_distance = $16, left_corner_distance = $17,
		observations = $18, assigned_number = $19, rights_fee = $20, form_fee = $21, total_fee = $22,
		updated_at = $23
		WHERE id = $24`

	deleteOfficialSQL = `DELETE FROM official_numbers WHERE id = $1`
)

var _ official.Repository = (*OfficialNumberRepository)(nil)

// OfficialNumberRepository implements official.Repository backed by
// PostgreSQL.
type OfficialNumberRepository struct {
	pool *pgxpool.Pool
}

// NewOfficialNumberRepository returns an OfficialNumberRepository that uses
// the given pool.
func NewOfficialNumberRepository(pool *pgxpool.Pool) *OfficialNumberRepository {
	return &OfficialNumberRepository{pool: pool}
}

// Create persists a new official number. A duplicate folio surfaces as
// shared.ConflictError so the caller can retry allocation.
func (r *OfficialNumberRepository) Create(ctx context.Context, n *official.Number) error {
	_, err := r.pool.Exec(ctx, insertOfficialSQL, officialArgs(n)...)
	if err != nil {
		return conflictErr(err, fmt.Sprintf("an official number with folio %s already exists", n.Folio))
	}
	return nil
}

// Get returns an official number by id.
func (r *OfficialNumberRepository) Get(ctx context.Context, id string) (*official.Number, error) {
	return r.one(ctx, getOfficialSQL, id)
}

// GetByFolio returns an official number by folio.
func (r *OfficialNumberRepository) GetByFolio(ctx context.Context, folio string) (*official.Number, error) {
	return r.one(ctx, getOfficialByFolioSQL, folio)
}

func (r *OfficialNumberRepository) one(ctx context.Context, sql, arg string) (*official.Number, error) {
	rows, err := r.pool.Query(ctx, sql, arg)
	if err != nil {
		return nil, fmt.Errorf("getting official number %q: %w", arg, err)
	}
	n, err := pgx.CollectExactlyOneRow(rows, scanOfficial)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &shared.NotFoundError{Entity: "official number", ID: arg}
		}
		return nil, fmt.Errorf("getting official number %q: %w", arg, err)
	}
	return &n, nil
}

// MaxFolio returns the greatest numeric folio, or "" when none exist.
func (r *OfficialNumberRepository) MaxFolio(ctx context.Context) (string, error) {
	var folio string
	if err := r.pool.QueryRow(ctx, maxOfficialFolioSQL).Scan(&folio); err != nil {
		return "", fmt.Errorf("reading max folio: %w", err)
	}
	return folio, nil
}

// List returns official numbers, newest folio first, with the total count.
func (r *OfficialNumberRepository) List(ctx context.Context, limit, offset int) ([]official.Number, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, countOfficialsSQL).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting official numbers: %w", err)
	}
	rows, err := r.pool.Query(ctx, listOfficialsSQL, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing official numbers: %w", err)
	}
	numbers, err := pgx.CollectRows(rows, scanOfficial)
	if err != nil {
		return nil, 0, fmt.Errorf("listing official numbers: %w", err)
	}
	return numbers, total, nil
}

// Search matches folio, owner name, or address as a case-insensitive
// substring.
func (r *OfficialNumberRepository) Search(ctx context.Context, term string, limit, offset int) ([]official.Number, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, countSearchOfficialsSQL, term).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting official numbers matching %q: %w", term, err)
	}
	rows, err := r.pool.Query(ctx, searchOfficialsSQL, term, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("searching official numbers for %q: %w", term, err)
	}
	numbers, err := pgx.CollectRows(rows, scanOfficial)
	if err != nil {
		return nil, 0, fmt.Errorf("searching official numbers for %q: %w", term, err)
	}
	return numbers, total, nil
}

// Update rewrites the official number row.
func (r *OfficialNumberRepository) Update(ctx context.Context, n *official.Number) error {
	_, err := r.pool.Exec(ctx, updateOfficialSQL,
		n.Folio, n.PredialAccount, n.CadastralKey, n.Address, n.Neighborhood,
		n.LandUse, n.LandUseOther, n.OwnerName, n.OwnerAddress, n.OwnerPhone,
		n.NorthStreet, n.SouthStreet, n.EastStreet, n.WestStreet,
		n.LotFront, n.RightCornerDistance, n.LeftCornerDistance,
		n.Observations, n.AssignedNumber, n.Rights, n.Form, n.TotalFee,
		n.UpdatedAt, n.ID,
	)
	if err != nil {
		return conflictErr(err, fmt.Sprintf("an official number with folio %s already exists", n.Folio))
	}
	return nil
}

// Delete removes the official number row.
func (r *OfficialNumberRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, deleteOfficialSQL, id); err != nil {
		return fmt.Errorf("deleting official number %q: %w", id, err)
	}
	return nil
}

func officialArgs(n *official.Number) []any {
	return []any{
		n.ID, n.Folio, n.PredialAccount, n.CadastralKey, n.Address, n.Neighborhood,
		n.LandUse, n.LandUseOther, n.OwnerName, n.OwnerAddress, n.OwnerPhone,
		n.NorthStreet, n.SouthStreet, n.EastStreet, n.WestStreet,
		n.LotFront, n.RightCornerDistance, n.LeftCornerDistance,
		n.Observations, n.AssignedNumber, n.Rights, n.Form, n.TotalFee,
		n.CreatedBy, n.CreatedAt, n.UpdatedAt,
	}
}

func scanOfficial(row pgx.CollectableRow) (official.Number, error) {
	var n official.Number
	err := row.Scan(
		&n.ID, &n.Folio, &n.PredialAccount, &n.CadastralKey, &n.Address, &n.Neighborhood,
		&n.LandUse, &n.LandUseOther, &n.OwnerName, &n.OwnerAddress, &n.OwnerPhone,
		&n.NorthStreet, &n.SouthStreet, &n.EastStreet, &n.WestStreet,
		&n.LotFront, &n.RightCornerDistance, &n.LeftCornerDistance,
		&n.Observations, &n.AssignedNumber, &n.Rights, &n.Form, &n.TotalFee,
		&n.CreatedBy, &n.CreatedAt, &n.UpdatedAt,
	)
	return n, err
}
