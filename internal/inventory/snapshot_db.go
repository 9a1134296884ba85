package inventory

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second

	DefaultSnapshotKey = "default"
)

// PostgresStore keeps the snapshot as one jsonb row of store_snapshots, keyed so
// several stores can share a database.
type PostgresStore struct {
	db  *sql.DB
	key string
}

func OpenPostgres(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

func NewPostgresStore(db *sql.DB, key string) *PostgresStore {
	if key == "" {
		key = DefaultSnapshotKey
	}
	return &PostgresStore{db: db, key: key}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *PostgresStore) EnsureTable(ctx context.Context) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS store_snapshots (
				key      TEXT PRIMARY KEY,
				body     JSONB NOT NULL,
				saved_at TIMESTAMPTZ NOT NULL
			)
		`)
		return err
	})
}

func (s *PostgresStore) Read(ctx context.Context) (Snapshot, error) {
	var body string

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx, `
			SELECT body::text
			FROM store_snapshots
			WHERE key = $1
		`, s.key).Scan(&body)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, ErrNoSnapshot
	}
	if err != nil {
		return Snapshot{}, err
	}

	var snap Snapshot
	if err := json.Unmarshal([]byte(body), &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot %q: %w", s.key, err)
	}
	return snap, nil
}

func (s *PostgresStore) Write(ctx context.Context, snap Snapshot) error {
	body, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO store_snapshots (key, body, saved_at)
			VALUES ($1, $2::jsonb, $3)
			ON CONFLICT (key) DO UPDATE
			SET body = EXCLUDED.body, saved_at = EXCLUDED.saved_at
		`, s.key, string(body), time.Now().UTC())
		return err
	})
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
