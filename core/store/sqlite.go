// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS configs (
    key        TEXT PRIMARY KEY,
    value      BLOB NOT NULL,
    updated_at INTEGER NOT NULL
);
`

// SQLite is a sqlite-backed store with a byte quota per key namespace.
type SQLite struct {
	db    *sql.DB
	quota int64
}

// OpenSQLite opens or creates the database at path. ":memory:" opens a
// private in-memory database. quota <= 0 disables the quota.
func OpenSQLite(path string, quota int64) (*SQLite, error) {
	dsn := ":memory:"

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}

		dsn = path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// One connection keeps an in-memory database shared and serialises quota checks.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()

		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &SQLite{db: db, quota: quota}, nil
}

func (s *SQLite) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte

	err := s.db.QueryRowContext(ctx, `SELECT value FROM configs WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("get %q: %w", key, err)
	}

	return value, nil
}

func (s *SQLite) Set(ctx context.Context, key string, value []byte) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	defer tx.Rollback() //nolint:errcheck

	if s.quota > 0 {
		var others int64

		if err := namespaceUsage(ctx, tx, key).Scan(&others); err != nil {
			return fmt.Errorf("set %q: %w", key, err)
		}

		if others+int64(len(value)) > s.quota {
			return fmt.Errorf("%w: %d of %d bytes used", ErrQuotaExceeded, others, s.quota)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO configs (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}

	return tx.Commit()
}

// namespaceUsage sums the value bytes of every other key in key's namespace.
func namespaceUsage(ctx context.Context, tx *sql.Tx, key string) *sql.Row {
	ns := namespaceOf(key)
	if ns == "" {
		return tx.QueryRowContext(ctx,
			`SELECT COALESCE(SUM(LENGTH(value)), 0) FROM configs WHERE key <> ? AND INSTR(key, ?) = 0`,
			key, NamespaceSeparator)
	}

	return tx.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(LENGTH(value)), 0) FROM configs WHERE key <> ? AND SUBSTR(key, 1, ?) = ?`,
		key, len(ns), ns)
}

func (s *SQLite) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM configs WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}

	return nil
}

// Keys returns keys from the least to the most recently written.
func (s *SQLite) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM configs ORDER BY updated_at, key`)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer rows.Close()

	var keys []string

	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("list keys: %w", err)
		}

		keys = append(keys, k)
	}

	return keys, rows.Err()
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
