// Package kv provides the on-device key-value stores behind the session.
package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	_ "modernc.org/sqlite" // pure Go driver, no cgo on device builds
)

// SQLite persists client state in a single table.
type SQLite struct {
	DB *sql.DB
}

func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("kv: open %s: %w", path, err)
	}
	// one writer is all SQLite supports anyway
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("kv: ping %s: %w", path, err)
	}
	s := &SQLite{DB: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) initSchema() error {
	_, err := s.DB.Exec(`
	CREATE TABLE IF NOT EXISTS client_state (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`)
	if err != nil {
		log.Printf("[kv] creating schema failed: %v", err)
		return fmt.Errorf("kv: init schema: %w", err)
	}
	return nil
}

func (s *SQLite) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := s.DB.QueryRowContext(ctx, `SELECT value FROM client_state WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("kv: get %s: %w", key, err)
	}
	return v, true, nil
}

func (s *SQLite) Set(ctx context.Context, key, value string) error {
	_, err := s.DB.ExecContext(ctx, `
	INSERT INTO client_state (key, value) VALUES (?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("kv: set %s: %w", key, err)
	}
	return nil
}

func (s *SQLite) Delete(ctx context.Context, key string) error {
	if _, err := s.DB.ExecContext(ctx, `DELETE FROM client_state WHERE key = ?`, key); err != nil {
		return fmt.Errorf("kv: delete %s: %w", key, err)
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.DB.Close()
}
