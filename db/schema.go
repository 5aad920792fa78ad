// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates the scan journal tables. Each statement uses
// IF NOT EXISTS, so it runs on every start.
func CreateSchema(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt.sql); err != nil {
			return fmt.Errorf("failed to create %s: %w", stmt.name, err)
		}
	}
	return nil
}

// Statements stay within the SQL shared by SQLite and PostgreSQL
var schema = []struct {
	name string
	sql  string
}{
	{"scan_record", `
		CREATE TABLE IF NOT EXISTS scan_record (
			id TEXT PRIMARY KEY,
			payload TEXT NOT NULL,
			ticket_id BIGINT,
			owner_id BIGINT,
			kind TEXT NOT NULL CHECK (kind IN ('success', 'failure', 'decode_error')),
			reason TEXT NOT NULL DEFAULT '',
			message TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`},
	{"created_at index", `CREATE INDEX IF NOT EXISTS idx_scan_record_created_at ON scan_record(created_at)`},
	{"ticket index", `CREATE INDEX IF NOT EXISTS idx_scan_record_ticket ON scan_record(ticket_id, owner_id)`},
}
