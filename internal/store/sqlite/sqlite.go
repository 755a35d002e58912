package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	_ "modernc.org/sqlite"

	"account-api/internal/store"
)

const driverName = "sqlite"

// Store is the SQLite implementation of store.Store, backed by one
// database/sql handle over a single physical connection.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) a sqlite database at the given path and ensures
// parent directories exist. Fails naming the driver package when the driver
// is not linked into the binary.
func Open(path string) (*Store, error) {
	if !slices.Contains(sql.Drivers(), driverName) {
		return nil, fmt.Errorf("%w: modernc.org/sqlite", store.ErrDriverNotRegistered)
	}

	if !strings.HasPrefix(path, "file:") {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	// one request owns one connection for its whole duration
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Select(ctx context.Context, table string, columns []string, filters store.Fields) ([]store.Row, error) {
	query, args, err := buildSelect(table, columns, filters)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []store.Row
	for rows.Next() {
		values := make([]any, len(names))
		ptrs := make([]any, len(names))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(store.Row, len(names))
		for i, name := range names {
			row[name] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (s *Store) Insert(ctx context.Context, table string, data store.Fields) (int64, error) {
	query, args, err := buildInsert(table, data)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		_ = tx.Rollback()
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		_ = tx.Rollback()
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Store) Update(ctx context.Context, table string, data store.Fields, filters store.Fields) (int64, error) {
	query, args, err := buildUpdate(table, data, filters)
	if err != nil {
		return 0, err
	}
	return s.exec(ctx, query, args)
}

func (s *Store) Delete(ctx context.Context, table string, filters store.Fields) (int64, error) {
	query, args, err := buildDelete(table, filters)
	if err != nil {
		return 0, err
	}
	return s.exec(ctx, query, args)
}

// exec runs one mutating statement inside its own transaction: commit on
// success, rollback on failure, never both. Engine errors pass through
// unmodified.
func (s *Store) exec(ctx context.Context, query string, args []any) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		_ = tx.Rollback()
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return affected, nil
}

func (s *Store) Exec(ctx context.Context, stmt string) error {
	_, err := s.db.ExecContext(ctx, stmt)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

var _ store.Store = (*Store)(nil)
