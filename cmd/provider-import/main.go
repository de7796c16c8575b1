// Command provider-import loads a provider padron export into the
// database. The export is one or more gzip-compressed CSV files with
// columns: code, name, legal_name, rfc, state, town. Files are parsed
// concurrently; rows whose RFC was already seen are dropped, with a bloom
// filter as the first-pass membership check.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	pgzip "github.com/klauspost/pgzip"
	"golang.org/x/sync/errgroup"

	"github.com/municipio/backoffice/internal/storage/postgres"
)

const (
	bloomCapacity = 1_000_000
	bloomFPR      = 0.001
	progressEvery = 10_000
	rfcMinLen     = 12
	rfcMaxLen     = 13
)

const insertProviderSQL = `INSERT INTO providers (id, code, name, legal_name, rfc, state, town, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
	ON CONFLICT DO NOTHING`

type row struct {
	code      string
	name      string
	legalName string
	rfc       string
	state     string
	town      string
}

func main() {
	var databaseURL string

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if flag.NArg() == 0 {
		slog.Error("at least one padron CSV file (.csv.gz) is required")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, flag.Args()); err != nil {
		slog.Error("provider import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("provider import completed successfully")
}

func run(ctx context.Context, databaseURL string, files []string) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			return errors.Wrapf(err, "check file %s", f)
		}
	}

	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	dedup := newDeduper()
	rows := make(chan row, 1024)

	g, ctx := errgroup.WithContext(ctx)

	// One parser goroutine per file; a single writer keeps insert order
	// deterministic and the pool uncontended.
	parsers, parseCtx := errgroup.WithContext(ctx)
	for _, f := range files {
		parsers.Go(parseFile(parseCtx, f, dedup, rows))
	}
	g.Go(func() error {
		defer close(rows)
		return parsers.Wait()
	})
	g.Go(func() error {
		return writeProviders(ctx, pool, rows)
	})

	return g.Wait()
}

// deduper tracks seen RFCs. The bloom filter answers "definitely new"
// cheaply; only possible hits consult the exact set.
type deduper struct {
	mu     sync.Mutex
	filter *bloom.BloomFilter
	seen   map[string]struct{}
}

func newDeduper() *deduper {
	return &deduper{
		filter: bloom.NewWithEstimates(bloomCapacity, bloomFPR),
		seen:   make(map[string]struct{}),
	}
}

// firstSeen records rfc and reports whether this was its first occurrence.
func (d *deduper) firstSeen(rfc string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.filter.TestString(rfc) {
		if _, ok := d.seen[rfc]; ok {
			return false
		}
	}
	d.filter.AddString(rfc)
	d.seen[rfc] = struct{}{}
	return true
}

func parseFile(ctx context.Context, path string, dedup *deduper, rows chan<- row) func() error {
	return func() error {
		f, err := os.Open(path)
		if err != nil {
			return errors.Wrapf(err, "open %s", path)
		}
		defer func() { _ = f.Close() }()

		gz, err := pgzip.NewReader(f)
		if err != nil {
			return errors.Wrapf(err, "create gzip reader for %s", path)
		}
		defer func() { _ = gz.Close() }()

		r := csv.NewReader(gz)
		r.FieldsPerRecord = 6
		r.TrimLeadingSpace = true

		var count, kept uint64
		for {
			record, err := r.Read()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return errors.Wrapf(err, "read %s", path)
			}
			if err := ctx.Err(); err != nil {
				return err
			}

			count++
			if count%progressEvery == 0 {
				slog.Info("parse progress", slog.String("file", path), slog.Uint64("rows", count))
			}

			rfc := strings.ToUpper(strings.TrimSpace(record[3]))
			if len(rfc) < rfcMinLen || len(rfc) > rfcMaxLen {
				continue
			}
			if !dedup.firstSeen(rfc) {
				continue
			}

			kept++
			select {
			case rows <- row{
				code:      strings.TrimSpace(record[0]),
				name:      strings.TrimSpace(record[1]),
				legalName: strings.TrimSpace(record[2]),
				rfc:       rfc,
				state:     strings.TrimSpace(record[4]),
				town:      strings.TrimSpace(record[5]),
			}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		slog.Info("parse complete",
			slog.String("file", path),
			slog.Uint64("rows", count),
			slog.Uint64("kept", kept),
		)
		return nil
	}
}

func writeProviders(ctx context.Context, pool *pgxpool.Pool, rows <-chan row) error {
	now := time.Now().UTC()
	var written int

	for r := range rows {
		_, err := pool.Exec(ctx, insertProviderSQL,
			uuid.New().String(), r.code, r.name, r.legalName, r.rfc, r.state, r.town, now,
		)
		if err != nil {
			return errors.Wrapf(err, "insert provider %s", r.rfc)
		}

		written++
		if written%100 == 0 {
			slog.Info("write progress", slog.Int("written", written))
		}
	}

	slog.Info("write complete", slog.Int("written", written))
	return nil
}
