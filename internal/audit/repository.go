package audit

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
)

// Insert records a workflow mutation. Called inside the same transaction as
// the mutation so an audit row never outlives a rolled-back change.
func Insert(ctx context.Context, tx pgx.Tx, actorID, actorRole, action string, entryID *string, metadata any) error {
	var s *string
	if metadata != nil {
		b, _ := json.Marshal(metadata)
		str := string(b)
		s = &str
	}
	const q = `
INSERT INTO audit_logs (actor_id, actor_role, action, entry_id, metadata)
VALUES ($1, $2, $3, $4, CAST($5 AS jsonb))
`
	_, err := tx.Exec(ctx, q, actorID, actorRole, action, entryID, s)
	return err
}
