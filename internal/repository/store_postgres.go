package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/segyhp/lendbook/internal/metrics"
)

const driverPostgres = "postgres"

// PostgresStore implements KVStore on the kv_store table.
type PostgresStore struct {
	db      *sqlx.DB
	retrier *Retrier
}

// ConnectPostgres opens and verifies a lib/pq connection pool.
func ConnectPostgres(databaseURL string, maxOpenConns int) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxOpenConns)
	db.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

func NewPostgresStore(db *sqlx.DB, logger zerolog.Logger) *PostgresStore {
	return &PostgresStore{
		db:      db,
		retrier: NewRetrier(logger),
	}
}

func (s *PostgresStore) Get(ctx context.Context, key string) (string, bool, error) {
	query := `
		SELECT value
		FROM kv_store
		WHERE key = $1
	`

	var value string
	err := s.retrier.Retry(ctx, func() error {
		return s.db.GetContext(ctx, &value, query, key)
	})
	if errors.Is(err, sql.ErrNoRows) {
		metrics.ObserveStore(driverPostgres, "get", nil)
		return "", false, nil
	}
	metrics.ObserveStore(driverPostgres, "get", err)
	if err != nil {
		return "", false, err
	}

	return value, true, nil
}

func (s *PostgresStore) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`

	err := s.retrier.Retry(ctx, func() error {
		_, err := s.db.ExecContext(ctx, query, key, value)
		return err
	})
	metrics.ObserveStore(driverPostgres, "set", err)
	return err
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	query := `
		DELETE FROM kv_store
		WHERE key = $1
	`

	err := s.retrier.Retry(ctx, func() error {
		_, err := s.db.ExecContext(ctx, query, key)
		return err
	})
	metrics.ObserveStore(driverPostgres, "delete", err)
	return err
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
