package events

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Event struct {
	ID         string `json:"id"`
	EntryID    string `json:"entryId"`
	EventType  string `json:"eventType"`
	Summary    string `json:"summary"`
	Actor      string `json:"actor"`
	OccurredAt string `json:"occurredAt"`
	Data       any    `json:"data,omitempty"`
}

func ListByEntry(ctx context.Context, db *pgxpool.Pool, entryID string) ([]Event, error) {
	const q = `
SELECT id, entry_id, event_type, summary, actor, occurred_at::text, COALESCE(data, '{}'::jsonb)
FROM entry_events
WHERE entry_id = $1
ORDER BY occurred_at ASC, created_at ASC
`
	rows, err := db.Query(ctx, q, entryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.EntryID, &e.EventType, &e.Summary, &e.Actor, &e.OccurredAt, &e.Data); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
