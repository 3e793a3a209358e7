// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// WHY SQLite?
// ───────────
// SQLite stores everything in a single file on disk. There is no
// network, no separate server process, and no installation beyond the
// driver. The record store only needs one key → document table, so it
// is a natural default backend.
//
// Schema:
//
//	collections(kind TEXT PRIMARY KEY, payload BLOB, version INTEGER)
//
// One row per entity kind. The payload is the JSON array of records.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aanand-mishra/hostel-api/internal/config"
	"github.com/aanand-mishra/hostel-api/internal/storage"

	// Registers the "sqlite3" driver; also gives us the typed error
	// codes used by classify.
	sqlite3 "github.com/mattn/go-sqlite3"
)

// SQLite is the concrete implementation of storage.Storage.
// It holds a *sql.DB which is a connection pool managed by database/sql.
type SQLite struct {
	Db *sql.DB
}

// New opens the SQLite database at cfg.StoragePath, creates the
// collections table if it does not already exist, and returns a
// ready-to-use *SQLite.
//
// _txlock=immediate makes every transaction take the write lock up
// front, so two concurrent Puts serialise instead of both reading the
// same version and one of them failing half way.
func New(cfg *config.Config) (*SQLite, error) {
	dsn := fmt.Sprintf("file:%s?_txlock=immediate&_busy_timeout=5000", cfg.StoragePath)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// CREATE TABLE IF NOT EXISTS is idempotent, so it runs on every
	// startup.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS collections (
			kind    TEXT    PRIMARY KEY,
			payload BLOB    NOT NULL,
			version INTEGER NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create table: %w", classify(err))
	}

	return &SQLite{Db: db}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Get fetches one collection. A kind that was never written comes back
// as an empty Collection with Version 0.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) Get(ctx context.Context, kind storage.Kind) (storage.Collection, error) {
	col := storage.Collection{Kind: kind}

	err := s.Db.QueryRowContext(ctx,
		"SELECT payload, version FROM collections WHERE kind = ? LIMIT 1",
		string(kind),
	).Scan(&col.Data, &col.Version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return col, nil
		}
		return storage.Collection{}, fmt.Errorf("Get %s: scan: %w", kind, classify(err))
	}

	return col, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Put writes every collection inside one transaction. Each row's stored
// version is compared against the version the caller read; any mismatch
// rolls the whole transaction back with storage.ErrVersionConflict.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) Put(ctx context.Context, cols ...storage.Collection) error {
	tx, err := s.Db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("Put: begin: %w", classify(err))
	}
	// Rollback after a successful Commit is a no-op.
	defer tx.Rollback()

	for _, c := range cols {
		var current int64
		err := tx.QueryRowContext(ctx,
			"SELECT version FROM collections WHERE kind = ?", string(c.Kind),
		).Scan(&current)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("Put %s: read version: %w", c.Kind, classify(err))
		}

		if current != c.Version {
			return fmt.Errorf("Put %s: have v%d, want v%d: %w",
				c.Kind, current, c.Version, storage.ErrVersionConflict)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO collections (kind, payload, version) VALUES (?, ?, ?)
			ON CONFLICT(kind) DO UPDATE SET payload = excluded.payload, version = excluded.version
		`, string(c.Kind), c.Data, c.Version+1)
		if err != nil {
			return fmt.Errorf("Put %s: exec: %w", c.Kind, classify(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("Put: commit: %w", classify(err))
	}
	return nil
}

// Close closes the underlying connection pool.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

// classify tags lock contention as storage.ErrUnavailable so the
// retrying wrapper can back off and try again.
func classify(err error) error {
	var sqErr sqlite3.Error
	if errors.As(err, &sqErr) {
		if sqErr.Code == sqlite3.ErrBusy || sqErr.Code == sqlite3.ErrLocked {
			return fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
		}
	}
	return err
}
