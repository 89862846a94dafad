package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"weatherapp/internal/models"

	"github.com/google/uuid"
)

const (
	insertLookupSQL = `
		INSERT INTO lookup_events (id, occurred_at, city, outcome, message, meta)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	selectLookupsSQL = `SELECT id, occurred_at, city, outcome, message, meta FROM lookup_events`

	// SQLite TIMESTAMP text format
	sqliteTimestampLayout = "2006-01-02 15:04:05"
)

type LookupSQLite struct {
	db *sql.DB
}

func NewLookupSQLite(db *sql.DB) *LookupSQLite { return &LookupSQLite{db: db} }

// Append inserts a new lookup event. If EventID or OccurredAt are empty, they're set.
func (r *LookupSQLite) Append(ctx context.Context, e models.LookupEvent) error {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	} else {
		e.OccurredAt = e.OccurredAt.UTC()
	}

	var metaPtr *string
	if e.Metadata != nil {
		if b, err := json.Marshal(e.Metadata); err == nil {
			s := string(b)
			metaPtr = &s
		}
	}

	_, err := r.db.ExecContext(ctx, insertLookupSQL,
		e.EventID,
		e.OccurredAt.Format(sqliteTimestampLayout),
		strings.TrimSpace(e.City),
		normalizeOutcome(e.Outcome),
		e.Message,
		metaPtr,
	)
	return err
}

// List returns lookups filtered by [from, to] (inclusive) and/or outcome, ordered ASC.
func (r *LookupSQLite) List(ctx context.Context, from, to time.Time, outcome string) ([]models.LookupEvent, error) {
	var (
		conds []string
		args  []any
	)

	if !from.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, from.UTC().Format(sqliteTimestampLayout))
	}
	if !to.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, to.UTC().Format(sqliteTimestampLayout))
	}
	if outcome = normalizeOutcome(outcome); outcome != "" {
		conds = append(conds, "outcome = ?")
		args = append(args, outcome)
	}

	q := selectLookupsSQL
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY occurred_at ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.LookupEvent, 0, 64)
	for rows.Next() {
		var ev models.LookupEvent
		var metaStr sql.NullString
		if err := rows.Scan(&ev.EventID, &ev.OccurredAt, &ev.City, &ev.Outcome, &ev.Message, &metaStr); err != nil {
			return nil, err
		}
		ev.OccurredAt = ev.OccurredAt.UTC()

		if metaStr.Valid && metaStr.String != "" {
			var v any
			if err := json.Unmarshal([]byte(metaStr.String), &v); err == nil {
				ev.Metadata = v
			} else {
				ev.Metadata = metaStr.String // keep raw if malformed
			}
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func normalizeOutcome(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
