// Command seed-db runs migrations and loads the reference-data catalogs
// (areas, budget items, providers) from a JSON seed file.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/municipio/backoffice/internal/storage/postgres"
)

type seedFile struct {
	Areas []struct {
		Name         string `json:"name"`
		Code         string `json:"code"`
		Manager      string `json:"manager"`
		ManagerTitle string `json:"managerTitle"`
	} `json:"areas"`
	BudgetItems []struct {
		Name   string `json:"name"`
		Number string `json:"number"`
	} `json:"budgetItems"`
	Providers []struct {
		Code      string `json:"code"`
		Name      string `json:"name"`
		LegalName string `json:"legalName"`
		RFC       string `json:"rfc"`
		State     string `json:"state"`
		Town      string `json:"town"`
	} `json:"providers"`
}

const (
	upsertAreaSQL = `INSERT INTO areas (id, name, code, manager, manager_title, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (code) DO UPDATE SET
			name = EXCLUDED.name, manager = EXCLUDED.manager,
			manager_title = EXCLUDED.manager_title, updated_at = EXCLUDED.updated_at`

	upsertBudgetItemSQL = `INSERT INTO budget_items (id, name, number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (number) DO UPDATE SET
			name = EXCLUDED.name, updated_at = EXCLUDED.updated_at`

	upsertProviderSQL = `INSERT INTO providers (id, code, name, legal_name, rfc, state, town, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		ON CONFLICT (code) DO UPDATE SET
			name = EXCLUDED.name, legal_name = EXCLUDED.legal_name, rfc = EXCLUDED.rfc,
			state = EXCLUDED.state, town = EXCLUDED.town, updated_at = EXCLUDED.updated_at`
)

func main() {
	var (
		databaseURL string
		seedPath    string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&seedPath, "seed-file", "db/seed/refdata.json", "path to reference data JSON file")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, seedPath); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, seedPath string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	slog.Info("reading seed file", slog.String("path", seedPath))

	data, err := os.ReadFile(seedPath)
	if err != nil {
		return errors.Wrap(err, "read seed file")
	}

	var seed seedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		return errors.Wrap(err, "parse seed JSON")
	}

	if err := seedAreas(ctx, pool, seed); err != nil {
		return errors.Wrap(err, "seed areas")
	}
	if err := seedBudgetItems(ctx, pool, seed); err != nil {
		return errors.Wrap(err, "seed budget items")
	}
	if err := seedProviders(ctx, pool, seed); err != nil {
		return errors.Wrap(err, "seed providers")
	}
	return nil
}

func seedAreas(ctx context.Context, pool *pgxpool.Pool, seed seedFile) error {
	slog.Info("upserting areas", slog.Int("count", len(seed.Areas)))

	now := time.Now().UTC()
	for _, a := range seed.Areas {
		_, err := pool.Exec(ctx, upsertAreaSQL,
			uuid.New().String(), a.Name, a.Code, a.Manager, a.ManagerTitle, now,
		)
		if err != nil {
			return errors.Wrapf(err, "upsert area %s", a.Code)
		}
		slog.Info("upserted area", slog.String("code", a.Code), slog.String("name", a.Name))
	}
	return nil
}

func seedBudgetItems(ctx context.Context, pool *pgxpool.Pool, seed seedFile) error {
	slog.Info("upserting budget items", slog.Int("count", len(seed.BudgetItems)))

	now := time.Now().UTC()
	for _, b := range seed.BudgetItems {
		_, err := pool.Exec(ctx, upsertBudgetItemSQL, uuid.New().String(), b.Name, b.Number, now)
		if err != nil {
			return errors.Wrapf(err, "upsert budget item %s", b.Number)
		}
		slog.Info("upserted budget item", slog.String("number", b.Number), slog.String("name", b.Name))
	}
	return nil
}

func seedProviders(ctx context.Context, pool *pgxpool.Pool, seed seedFile) error {
	slog.Info("upserting providers", slog.Int("count", len(seed.Providers)))

	now := time.Now().UTC()
	for _, p := range seed.Providers {
		_, err := pool.Exec(ctx, upsertProviderSQL,
			uuid.New().String(), p.Code, p.Name, p.LegalName, p.RFC, p.State, p.Town, now,
		)
		if err != nil {
			return errors.Wrapf(err, "upsert provider %s", p.Code)
		}
		slog.Info("upserted provider", slog.String("code", p.Code), slog.String("name", p.Name))
	}
	return nil
}
