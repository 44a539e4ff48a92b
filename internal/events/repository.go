package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository stores timelines in wizard_events so they outlive a restart.
type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Record(ctx context.Context, e Event) error {
	s, err := encodeData(e.Data)
	if err != nil {
		return fmt.Errorf("encode %s data: %w", e.EventType, err)
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	const q = `
INSERT INTO wizard_events (session_id, event_type, summary, actor, occurred_at, data)
VALUES ($1, $2, $3, $4, $5, CAST($6 AS jsonb))
`
	_, err = r.db.Exec(ctx, q, e.SessionID, e.EventType, e.Summary, e.Actor, e.OccurredAt, s)
	return err
}

// encodeData returns nil for events without data.
func encodeData(v any) (*string, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}

func (r *Repository) ListBySession(ctx context.Context, sessionID string) ([]Event, error) {
	const q = `
SELECT id::text, session_id, event_type, summary, actor, occurred_at, COALESCE(data, '{}'::jsonb)
FROM wizard_events
WHERE session_id = $1
ORDER BY occurred_at ASC, id ASC
`
	rows, err := r.db.Query(ctx, q, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		var data map[string]any
		if err := rows.Scan(&e.ID, &e.SessionID, &e.EventType, &e.Summary, &e.Actor, &e.OccurredAt, &data); err != nil {
			return nil, err
		}
		if len(data) > 0 {
			e.Data = data
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
