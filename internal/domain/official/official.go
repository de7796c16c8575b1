// Package official implements street-addressing permit requests
// ("numeros oficiales"): the record a property owner obtains to have an
// official street number assigned to a lot.
package official

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Number is an official number permit request. Folio is unique and
// auto-allocated when the caller does not supply one.
type Number struct {
	ID             string
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

	// Rights and Form are the two fee components; TotalFee is their sum.
	Rights   decimal.Decimal
	Form     decimal.Decimal
	TotalFee decimal.Decimal

	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository defines persistence for official numbers. Create translates
// a folio uniqueness violation into shared.ConflictError so the service
// can retry allocation.
type Repository interface {
	Create(ctx context.Context, n *Number) error
	Get(ctx context.Context, id string) (*Number, error)
	GetByFolio(ctx context.Context, folio string) (*Number, error)
	// MaxFolio returns the greatest existing folio value, or "" when the
	// table is empty.
	MaxFolio(ctx context.Context) (string, error)
	List(ctx context.Context, limit, offset int) ([]Number, int64, error)
	Search(ctx context.Context, term string, limit, offset int) ([]Number, int64, error)
	Update(ctx context.Context, n *Number) error
	Delete(ctx context.Context, id string) error
}
