// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles schema creation for the SQL storage backends.

# Schema Creation

	if err := db.CreateSchema(conn); err != nil {
		return err
	}

Safe to call multiple times - uses IF NOT EXISTS.

# Tables

  - client_kv: name (primary key), value, updated_at

The same DDL runs on SQLite (modernc.org/sqlite) and PostgreSQL (lib/pq).
Timestamps are written by the caller, so no dialect-specific defaults are used.
*/
package db
