// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package storage

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
)

var ErrNotFound = errors.New("key not found")

// Backend names
const (
	TypeFile     = "file"
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
	TypeBadger   = "badger"
)

// Storage is durable key/value state that survives process restarts
type Storage interface {
	// Get returns ErrNotFound when the key is absent
	Get(key string) ([]byte, error)
	// Put writes all entries or none of them
	Put(entries map[string][]byte) error
	// Delete removes the keys; absent keys are not an error
	Delete(keys ...string) error
	Close() error
}

type Config struct {
	Type        string
	Path        string // file path, sqlite file, or badger directory
	DatabaseURL string // postgres only
}

// ValidType reports whether t names a storage backend
func ValidType(t string) bool {
	switch t {
	case TypeFile, TypeSQLite, TypePostgres, TypeBadger:
		return true
	}
	return false
}

// Open creates the backend named by cfg.Type
func Open(cfg Config, logger *slog.Logger) (Storage, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	switch cfg.Type {
	case TypeFile, "":
		return NewFile(cfg.Path)
	case TypeSQLite:
		return NewSQL("sqlite", cfg.Path)
	case TypePostgres:
		if cfg.DatabaseURL == "" {
			return nil, errors.New("postgres storage requires a database URL")
		}
		return NewSQL("postgres", cfg.DatabaseURL)
	case TypeBadger:
		return NewBadger(WithDataDir(cfg.Path), WithLogger(logger))
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}
