// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the scan journal database and creates its schema.

# Drivers

Open accepts two database types:

  - sqlite: modernc.org/sqlite, a file path or ":memory:" (default)
  - postgres: github.com/lib/pq, a postgres:// URL

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

Queries are written with ? placeholders; Rebind rewrites them to $1, $2, ...
for PostgreSQL.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - scan_record: one row per admitted scan (payload, decoded ids, kind,
    reason, message, created_at)

# Indexes

  - scan_record.created_at
  - scan_record.(ticket_id, owner_id)
*/
package db
