// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Scopes separate durable data from per-session recovery data.
const (
	ScopeLocal   = "local"
	ScopeSession = "session"
)

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

//go:embed migrations/*.sql
var migrations embed.FS

// KV is a scoped string key-value store.
type KV interface {
	Get(ctx context.Context, scope, key string) (string, bool, error)
	Put(ctx context.Context, scope, key, value string) error
	Delete(ctx context.Context, scope, key string) error
	Keys(ctx context.Context, scope, prefix string) ([]string, error)
}

// Store wraps SQLite access for the key-value table.
type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

var _ KV = (*Store)(nil)

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	store := &Store{db: db, now: time.Now}
	if err := store.migrate(context.Background()); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("migrations fs: %w", err)
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, s.db.DB, fsys)
	if err != nil {
		return fmt.Errorf("goose new provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// Get returns the value stored under key. ok is false when the key is absent.
func (s *Store) Get(ctx context.Context, scope, key string) (string, bool, error) {
	query, args, err := sq.Select("value").
		From("kv").
		Where(sq.Eq{"scope": scope, "key": key}).
		ToSql()
	if err != nil {
		return "", false, err
	}
	var value string
	if err := s.db.GetContext(ctx, &value, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

// Put inserts or replaces the value under key.
func (s *Store) Put(ctx context.Context, scope, key, value string) error {
	query, args, err := sq.Insert("kv").
		Columns("scope", "key", "value", "updated_at").
		Values(scope, key, value, s.now().UTC().Format(timeLayout)).
		Suffix("ON CONFLICT(scope, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, scope, key string) error {
	query, args, err := sq.Delete("kv").
		Where(sq.Eq{"scope": scope, "key": key}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

// Keys lists keys in scope starting with prefix, sorted.
func (s *Store) Keys(ctx context.Context, scope, prefix string) ([]string, error) {
	query, args, err := sq.Select("key").
		From("kv").
		Where(sq.Eq{"scope": scope}).
		Where(sq.Like{"key": prefix + "%"}).
		OrderBy("key ASC").
		ToSql()
	if err != nil {
		return nil, err
	}
	var keys []string
	if err := s.db.SelectContext(ctx, &keys, query, args...); err != nil {
		return nil, err
	}
	return keys, nil
}

// PurgeScope deletes entries in scope not updated within olderThan.
func (s *Store) PurgeScope(ctx context.Context, scope string, olderThan time.Duration) (int64, error) {
	cutoff := s.now().Add(-olderThan).UTC().Format(timeLayout)
	query, args, err := sq.Delete("kv").
		Where(sq.Eq{"scope": scope}).
		Where(sq.Lt{"updated_at": cutoff}).
		ToSql()
	if err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
