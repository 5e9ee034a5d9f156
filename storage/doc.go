// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package storage provides the durable key/value state behind the session store.

# Interface

	type Storage interface {
		Get(key string) ([]byte, error)   // ErrNotFound when absent
		Put(entries map[string][]byte) error
		Delete(keys ...string) error
		Close() error
	}

Put writes all entries in one transaction (or one file replace), so a session's
credential and voter summary are never half-written.

# Backends

Open picks a backend from Config.Type:

  - file (default): one JSON object on disk, written via temp file + rename
  - sqlite: client_kv table in a SQLite file (modernc.org/sqlite, no cgo)
  - postgres: client_kv table in PostgreSQL (lib/pq); needs Config.DatabaseURL
  - badger: embedded badger/v4 database; in memory when no directory is given

Example:

	st, err := storage.Open(storage.Config{Type: "badger", Path: dir}, logger)
	if err != nil {
		return err
	}
	defer st.Close()
*/
package storage
