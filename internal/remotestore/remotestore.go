// Package remotestore mirrors the catalog into a shared Postgres database.
//
// The remote write is best effort: the local snapshot is the durable record
// and a remote failure is logged by the caller, never escalated. Upserts go
// through the upsert_tech_stack database function when it exists, so the
// database side can keep custom merge logic; when the function is absent
// the store falls back to a plain INSERT ... ON CONFLICT on the slug key.
package remotestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"techscout/internal/catalog"
	"techscout/internal/logging"
)

const (
	defaultTable          = "techs"
	defaultUpsertFunction = "upsert_tech_stack"
	defaultTimeout        = 30 * time.Second

	// undefined_function, raised when the upsert function is not installed.
	pgUndefinedFunction = "42883"
)

// Config carries the remote store connection settings.
type Config struct {
	DSN            string
	Table          string
	UpsertFunction string
	TimeoutSeconds int
}

// database is the subset of *pgxpool.Pool the store depends on.
type database interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Close()
}

// Store writes catalog records to Postgres.
type Store struct {
	db       database
	table    string
	upsertFn string
	timeout  time.Duration
	logger   *slog.Logger

	// set once the function is known to be missing, to skip the doomed
	// call on subsequent upserts; atomic because the runner upserts from
	// several goroutines at once
	fnMissing atomic.Bool
}

// Connect opens a connection pool and verifies it with a ping.
func Connect(ctx context.Context, cfg Config, logger *slog.Logger) (*Store, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, fmt.Errorf("remotestore: dsn required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("remotestore: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("remotestore: ping: %w", err)
	}
	return newStore(pool, cfg, logger), nil
}

func newStore(db database, cfg Config, logger *slog.Logger) *Store {
	store := &Store{
		db:       db,
		table:    strings.TrimSpace(cfg.Table),
		upsertFn: strings.TrimSpace(cfg.UpsertFunction),
		timeout:  defaultTimeout,
		logger:   logging.NewComponentLogger(logger, "remotestore"),
	}
	if store.table == "" {
		store.table = defaultTable
	}
	if store.upsertFn == "" {
		store.upsertFn = defaultUpsertFunction
	}
	if cfg.TimeoutSeconds > 0 {
		store.timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return store
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.db.Close()
}

// Upsert writes one record, replacing any previous row with the same slug.
func (s *Store) Upsert(ctx context.Context, record catalog.Record) error {
	record.Normalize()
	if record.Slug == "" {
		return fmt.Errorf("remotestore: record has no slug")
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	suitability, difficulty, resources, err := encodeJSONColumns(record)
	if err != nil {
		return err
	}

	if !s.fnMissing.Load() {
		err := s.upsertViaFunction(ctx, record, suitability, difficulty, resources)
		if err == nil {
			return nil
		}
		var pgErr *pgconn.PgError
		if !errors.As(err, &pgErr) || pgErr.Code != pgUndefinedFunction {
			return err
		}
		s.fnMissing.Store(true)
		s.logger.Warn("upsert function not installed, falling back to plain upsert",
			logging.String("function", s.upsertFn))
	}
	return s.upsertViaInsert(ctx, record, suitability, difficulty, resources)
}

func (s *Store) upsertViaFunction(ctx context.Context, record catalog.Record, suitability, difficulty, resources []byte) error {
	query := fmt.Sprintf(`SELECT %s(
		p_name => $1, p_slug => $2, p_category => $3, p_description => $4,
		p_ai_explanation => $5, p_popularity => $6, p_logo_url => $7,
		p_homepage => $8, p_repo => $9, p_project_suitability => $10,
		p_learning_difficulty => $11, p_learning_resources => $12,
		p_updated_at => $13)`, s.upsertFn)
	_, err := s.db.Exec(ctx, query,
		record.Name, record.Slug, string(record.Category), record.Description,
		record.AIExplanation, record.Popularity, record.LogoURL,
		record.Homepage, record.Repo, suitability, difficulty, resources,
		record.UpdatedAt)
	if err != nil {
		return fmt.Errorf("remotestore: call %s for %s: %w", s.upsertFn, record.Slug, err)
	}
	return nil
}

func (s *Store) upsertViaInsert(ctx context.Context, record catalog.Record, suitability, difficulty, resources []byte) error {
	query := fmt.Sprintf(`INSERT INTO %s (
		name, slug, category, description, ai_explanation, popularity,
		logo_url, homepage, repo, project_suitability, learning_difficulty,
		learning_resources, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	ON CONFLICT (slug) DO UPDATE SET
		name = EXCLUDED.name,
		category = EXCLUDED.category,
		description = EXCLUDED.description,
		ai_explanation = EXCLUDED.ai_explanation,
		popularity = EXCLUDED.popularity,
		logo_url = EXCLUDED.logo_url,
		homepage = EXCLUDED.homepage,
		repo = EXCLUDED.repo,
		project_suitability = EXCLUDED.project_suitability,
		learning_difficulty = EXCLUDED.learning_difficulty,
		learning_resources = EXCLUDED.learning_resources,
		updated_at = EXCLUDED.updated_at`, s.table)
	_, err := s.db.Exec(ctx, query,
		record.Name, record.Slug, string(record.Category), record.Description,
		record.AIExplanation, record.Popularity, record.LogoURL,
		record.Homepage, record.Repo, suitability, difficulty, resources,
		record.UpdatedAt)
	if err != nil {
		return fmt.Errorf("remotestore: upsert %s: %w", record.Slug, err)
	}
	return nil
}

// ExistingSlugs returns the slugs already present remotely.
func (s *Store) ExistingSlugs(ctx context.Context) (map[string]struct{}, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.db.Query(ctx, fmt.Sprintf("SELECT slug FROM %s", s.table))
	if err != nil {
		return nil, fmt.Errorf("remotestore: list slugs: %w", err)
	}
	defer rows.Close()

	slugs := make(map[string]struct{})
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, fmt.Errorf("remotestore: scan slug: %w", err)
		}
		slugs[slug] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("remotestore: iterate slugs: %w", err)
	}
	return slugs, nil
}

func encodeJSONColumns(record catalog.Record) (suitability, difficulty, resources []byte, err error) {
	if suitability, err = json.Marshal(record.ProjectSuitability); err != nil {
		return nil, nil, nil, fmt.Errorf("remotestore: encode project_suitability: %w", err)
	}
	if difficulty, err = json.Marshal(record.LearningDifficulty); err != nil {
		return nil, nil, nil, fmt.Errorf("remotestore: encode learning_difficulty: %w", err)
	}
	if resources, err = json.Marshal(record.LearningResources); err != nil {
		return nil, nil, nil, fmt.Errorf("remotestore: encode learning_resources: %w", err)
	}
	return suitability, difficulty, resources, nil
}
