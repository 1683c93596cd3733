package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
)

// Insert appends one row to an entry's timeline. Runs in the caller's
// transaction alongside the status change it describes.
func Insert(ctx context.Context, tx pgx.Tx, entryID, eventType, summary, actor string, occurredAt time.Time, data any) error {
	var s *string
	if data != nil {
		b, _ := json.Marshal(data)
		str := string(b)
		s = &str
	}
	const q = `
INSERT INTO entry_events (entry_id, event_type, summary, actor, occurred_at, data)
VALUES ($1, $2, $3, $4, $5, CAST($6 AS jsonb))
`
	_, err := tx.Exec(ctx, q, entryID, eventType, summary, actor, occurredAt, s)
	return err
}
