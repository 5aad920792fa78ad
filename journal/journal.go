// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package journal

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/scanstation/db"
	"github.com/danielhkuo/scanstation/models"
)

// DefaultLimit caps Recent when no limit is given
const DefaultLimit = 50

// MaxLimit is the largest page Recent returns
const MaxLimit = 500

// writeTimeout bounds a journal write made from Notify
const writeTimeout = 5 * time.Second

// Journal records every scan outcome in SQL storage.
type Journal struct {
	db     *sql.DB
	dbType string
}

func New(conn *sql.DB, dbType string) *Journal {
	return &Journal{db: conn, dbType: dbType}
}

func (j *Journal) q(query string) string {
	return db.Rebind(j.dbType, query)
}

// Record stores one feedback event and returns its id
func (j *Journal) Record(ctx context.Context, fb models.Feedback) (string, error) {
	id := uuid.NewString()

	var ticketID, ownerID sql.NullInt64
	if fb.Identity != nil {
		ticketID = sql.NullInt64{Int64: fb.Identity.TicketID, Valid: true}
		ownerID = sql.NullInt64{Int64: fb.Identity.OwnerID, Valid: true}
	}

	at := fb.At
	if at.IsZero() {
		at = time.Now()
	}

	_, err := j.db.ExecContext(ctx, j.q(`
		INSERT INTO scan_record (id, payload, ticket_id, owner_id, kind, reason, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`), id, fb.Payload, ticketID, ownerID, fb.Kind, fb.Reason, fb.Message, at.UTC())
	if err != nil {
		return "", fmt.Errorf("failed to insert scan record: %w", err)
	}
	return id, nil
}

// Notify implements scan.Sink. Write errors are logged; the gate never waits
// on a failing journal.
func (j *Journal) Notify(fb models.Feedback) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if _, err := j.Record(ctx, fb); err != nil {
		slog.Error("failed to journal scan", "error", err, "kind", fb.Kind)
	}
}

// Recent returns the newest records first
func (j *Journal) Recent(ctx context.Context, limit int) ([]models.ScanRecord, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	rows, err := j.db.QueryContext(ctx, j.q(`
		SELECT id, payload, ticket_id, owner_id, kind, reason, message, created_at
		FROM scan_record
		ORDER BY created_at DESC, id
		LIMIT ?
	`), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query scan records: %w", err)
	}
	defer rows.Close()

	records := []models.ScanRecord{}
	for rows.Next() {
		var rec models.ScanRecord
		var ticketID, ownerID sql.NullInt64
		if err := rows.Scan(&rec.ID, &rec.Payload, &ticketID, &ownerID,
			&rec.Kind, &rec.Reason, &rec.Message, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		if ticketID.Valid {
			rec.TicketID = &ticketID.Int64
		}
		if ownerID.Valid {
			rec.OwnerID = &ownerID.Int64
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Stats counts records per kind
func (j *Journal) Stats(ctx context.Context) (models.ScanStats, error) {
	var stats models.ScanStats

	rows, err := j.db.QueryContext(ctx, `SELECT kind, COUNT(*) FROM scan_record GROUP BY kind`)
	if err != nil {
		return stats, fmt.Errorf("failed to count scan records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return stats, err
		}
		stats.Total += n
		switch kind {
		case models.KindSuccess:
			stats.Success = n
		case models.KindFailure:
			stats.Failure = n
		case models.KindDecodeError:
			stats.DecodeErrors = n
		}
	}
	return stats, rows.Err()
}
