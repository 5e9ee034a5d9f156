// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/eballot/db"
)

// SQLStorage keeps entries in the client_kv table of a SQLite file or a
// PostgreSQL database.
type SQLStorage struct {
	db     *sql.DB
	driver string
}

// NewSQL opens driver ("sqlite" or "postgres") with dsn and creates the schema
func NewSQL(driver, dsn string) (*SQLStorage, error) {
	if dsn == "" {
		return nil, fmt.Errorf("%s storage requires a data source", driver)
	}
	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	if driver == "sqlite" {
		// One writer at a time; SQLite locks the whole file anyway
		conn.SetMaxOpenConns(1)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	if err := db.CreateSchema(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return &SQLStorage{db: conn, driver: driver}, nil
}

func (s *SQLStorage) Get(key string) ([]byte, error) {
	var value string
	err := s.db.QueryRow(`
		SELECT value FROM client_kv WHERE name = $1
	`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", key, err)
	}
	return []byte(value), nil
}

func (s *SQLStorage) Put(entries map[string][]byte) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for k, v := range entries {
		_, err := tx.Exec(`
			INSERT INTO client_kv (name, value, updated_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
		`, k, string(v), now)
		if err != nil {
			return fmt.Errorf("failed to write %s: %w", k, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func (s *SQLStorage) Delete(keys ...string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, k := range keys {
		if _, err := tx.Exec(`DELETE FROM client_kv WHERE name = $1`, k); err != nil {
			return fmt.Errorf("failed to delete %s: %w", k, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func (s *SQLStorage) Close() error {
	if s.db == nil {
		return errors.New("storage already closed")
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Driver returns the database/sql driver name in use
func (s *SQLStorage) Driver() string {
	return s.driver
}
