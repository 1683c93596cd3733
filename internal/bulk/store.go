package bulk

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hourlog/internal/api"
	"hourlog/internal/audit"
	"hourlog/internal/entry"
	"hourlog/internal/workflow"
	"hourlog/pkg/db"
)

// PGStore runs the filtered update and its audit row in one transaction.
type PGStore struct {
	DB *pgxpool.Pool
}

func (s *PGStore) MoveAll(ctx context.Context, actor api.Actor, f entry.BulkFilter, from, to workflow.Status) (int64, error) {
	var n int64
	err := db.WithTx(ctx, s.DB, func(tx pgx.Tx) error {
		var err error
		n, err = entry.UpdateManyConditional(ctx, tx, f, from, to)
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		return audit.Insert(ctx, tx, actor.ID, string(actor.Role), "BULK_TRANSITION", nil, map[string]any{
			"studentId": f.StudentID,
			"from":      from,
			"to":        to,
			"count":     n,
		})
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}
