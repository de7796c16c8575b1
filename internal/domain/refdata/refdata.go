// Package refdata holds the reference-data entities purchase orders are
// charged against: providers, organizational areas, and budget line items
// (partidas).
package refdata

import (
	"context"
	"time"
)

// Kind identifies a reference-data entity class.
type Kind string

const (
	KindProvider   Kind = "provider"
	KindArea       Kind = "area"
	KindBudgetItem Kind = "budget item"
)

// Gateway provides the existence checks the purchase order engine needs.
type Gateway interface {
	Exists(ctx context.Context, kind Kind, id string) (bool, error)
}

// Provider is a registered supplier from the municipal padron.
type Provider struct {
	ID                  string
	Code                string
	Name                string
	LegalName           string
	Origin              string
	State               string
	Country             string
	RFC                 string
	EconomicActivity    string
	Address             string
	Town                string
	PostalCode          string
	LegalRepresentative string
	Phone               string
	Email               string
	Website             string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Area is an organizational unit that requests purchases.
type Area struct {
	ID           string
	Name         string
	Code         string
	Manager      string
	ManagerTitle string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BudgetItem is a budget classification code (partida) orders are charged
// against.
type BudgetItem struct {
	ID        string
	Name      string
	Number    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProviderRepository defines persistence for providers. FindByTerm matches
// the code, name, or RFC exactly; Search matches name, legal name, or RFC
// case-insensitively as a substring.
type ProviderRepository interface {
	Create(ctx context.Context, p *Provider) error
	Get(ctx context.Context, id string) (*Provider, error)
	FindByTerm(ctx context.Context, term string) (*Provider, error)
	List(ctx context.Context, limit, offset int) ([]Provider, int64, error)
	Search(ctx context.Context, term string, limit, offset int) ([]Provider, int64, error)
	Update(ctx context.Context, p *Provider) error
	Delete(ctx context.Context, id string) error
}

// AreaRepository defines persistence for areas.
type AreaRepository interface {
	Create(ctx context.Context, a *Area) error
	Get(ctx context.Context, id string) (*Area, error)
	List(ctx context.Context, limit, offset int) ([]Area, int64, error)
	Update(ctx context.Context, a *Area) error
	Delete(ctx context.Context, id string) error
}

// BudgetItemRepository defines persistence for budget items.
type BudgetItemRepository interface {
	Create(ctx context.Context, b *BudgetItem) error
	Get(ctx context.Context, id string) (*BudgetItem, error)
	List(ctx context.Context, limit, offset int) ([]BudgetItem, int64, error)
	Update(ctx context.Context, b *BudgetItem) error
	Delete(ctx context.Context, id string) error
}
