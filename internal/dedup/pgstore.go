package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const createWindowTable = `
CREATE TABLE IF NOT EXISTS dedup_window (
	fingerprint TEXT NOT NULL,
	url         TEXT NOT NULL DEFAULT '',
	category    TEXT NOT NULL,
	canonical   TEXT NOT NULL DEFAULT '',
	entities    TEXT[] NOT NULL DEFAULT '{}',
	ts          TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS dedup_window_ts_idx ON dedup_window (ts);
`

// PGStore persists window entries in PostgreSQL.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore creates a store over an existing connection pool.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

// Init creates the window table if it does not exist.
func (s *PGStore) Init(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, createWindowTable); err != nil {
		return fmt.Errorf("create dedup_window table: %w", err)
	}
	return nil
}

// Load returns all persisted entries in timestamp order. Rows that fail
// schema validation surface as ErrCorruptWindow so startup fails closed.
func (s *PGStore) Load(ctx context.Context) ([]Entry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT fingerprint, url, category, canonical, entities, ts
		 FROM dedup_window ORDER BY ts`)
	if err != nil {
		return nil, fmt.Errorf("query dedup_window: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Fingerprint, &e.URL, &e.Category, &e.Canonical, &e.Entities, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("%w: scan row: %v", ErrCorruptWindow, err)
		}
		if e.Fingerprint == "" || e.Category == "" || e.Timestamp.IsZero() {
			return nil, fmt.Errorf("%w: row missing fingerprint, category, or timestamp", ErrCorruptWindow)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read dedup_window: %w", err)
	}
	return entries, nil
}

// Append persists one committed entry.
func (s *PGStore) Append(ctx context.Context, e Entry) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO dedup_window (fingerprint, url, category, canonical, entities, ts)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		e.Fingerprint, e.URL, e.Category, e.Canonical, e.Entities, e.Timestamp)
	if err != nil {
		return fmt.Errorf("insert window entry: %w", err)
	}
	return nil
}

// Prune deletes entries at or before cutoff.
func (s *PGStore) Prune(ctx context.Context, cutoff time.Time) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM dedup_window WHERE ts <= $1`, cutoff)
	if err != nil {
		return fmt.Errorf("prune window entries: %w", err)
	}
	return nil
}

var _ Store = (*PGStore)(nil)
