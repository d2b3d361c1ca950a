package fortunes

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/killallgit/fortune-api/internal/models"
	apperrors "github.com/killallgit/fortune-api/pkg/errors"
)

const (
	selectAllFortunes    = `SELECT id, text FROM fortunes ORDER BY id`
	selectRandomFortunes = `SELECT id, text FROM fortunes ORDER BY random() LIMIT $1 OFFSET $2`
	countFortunes        = `SELECT count(*) FROM fortunes`
	insertFortune        = `INSERT INTO fortunes (text) VALUES ($1) RETURNING id`
)

// PostgresRepository implements Repository on a pgx connection pool
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// PostgresOptions tunes the pgx pool. Zero values keep pgx defaults.
type PostgresOptions struct {
	MaxConns        int32
	MaxConnLifetime time.Duration
}

// NewPostgresRepository connects to dsn and verifies the connection with a ping
func NewPostgresRepository(ctx context.Context, dsn string, opts PostgresOptions) (*PostgresRepository, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeConfigInvalid, "invalid postgres connection string")
	}
	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}
	if opts.MaxConnLifetime > 0 {
		cfg.MaxConnLifetime = opts.MaxConnLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseConnection, "failed to create postgres pool")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseConnection, "postgres ping failed")
	}

	return &PostgresRepository{pool: pool}, nil
}

// FindAll returns every fortune ordered by id
func (r *PostgresRepository) FindAll(ctx context.Context) ([]models.Fortune, error) {
	rows, err := r.pool.Query(ctx, selectAllFortunes)
	if err != nil {
		return nil, apperrors.DatabaseError("find all fortunes", err)
	}
	fortunes, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Fortune])
	if err != nil {
		return nil, apperrors.DatabaseError("find all fortunes", err)
	}
	if fortunes == nil {
		fortunes = []models.Fortune{}
	}
	return fortunes, nil
}

// FindRandom returns one page of fortunes in random order
func (r *PostgresRepository) FindRandom(ctx context.Context, page models.Page) ([]models.Fortune, error) {
	if err := validatePage(page); err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, selectRandomFortunes, page.Size, page.Offset())
	if err != nil {
		return nil, apperrors.DatabaseError("find random fortunes", err)
	}
	fortunes, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Fortune])
	if err != nil {
		return nil, apperrors.DatabaseError("find random fortunes", err)
	}
	return fortunes, nil
}

// Count returns the number of stored fortunes
func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, countFortunes).Scan(&count); err != nil {
		return 0, apperrors.DatabaseError("count fortunes", err)
	}
	return count, nil
}

// Create inserts a new fortune and fills in its id
func (r *PostgresRepository) Create(ctx context.Context, fortune *models.Fortune) error {
	if fortune.Text == "" {
		return apperrors.ValidationError("text", "fortune text is required")
	}
	if err := r.pool.QueryRow(ctx, insertFortune, fortune.Text).Scan(&fortune.ID); err != nil {
		return fmt.Errorf("creating fortune: %w", err)
	}
	return nil
}

// HealthCheck pings the pool
func (r *PostgresRepository) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// Close releases every pooled connection
func (r *PostgresRepository) Close() {
	r.pool.Close()
}
