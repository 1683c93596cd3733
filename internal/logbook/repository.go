package logbook

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const logColumns = `
id, student_id, week_start, narrative, attachments, status, COALESCE(feedback,''), reviewed_at, created_at`

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func scanLog(row pgx.Row) (*Log, error) {
	l := &Log{}
	var narrative, attachments []byte
	if err := row.Scan(
		&l.ID, &l.StudentID, &l.WeekStart, &narrative, &attachments, &l.Status, &l.Feedback, &l.ReviewedAt, &l.CreatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(narrative, &l.Narrative); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(attachments, &l.Attachments); err != nil {
		return nil, err
	}
	if l.Attachments == nil {
		l.Attachments = []string{}
	}
	return l, nil
}

// Insert creates the weekly log at pending. The (student_id, week_start)
// unique index enforces one log per week at the write layer.
func (r *Repository) Insert(ctx context.Context, l *Log) (*Log, error) {
	narrative, err := json.Marshal(l.Narrative)
	if err != nil {
		return nil, err
	}
	attachments := l.Attachments
	if attachments == nil {
		attachments = []string{}
	}
	attachmentsJSON, err := json.Marshal(attachments)
	if err != nil {
		return nil, err
	}

	const q = `
INSERT INTO logbook_entries (id, student_id, week_start, narrative, attachments, status)
VALUES ($1, $2, $3, CAST($4 AS jsonb), CAST($5 AS jsonb), $6)
ON CONFLICT (student_id, week_start) DO NOTHING
RETURNING ` + logColumns
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	created, err := scanLog(r.db.QueryRow(ctx, q,
		l.ID, l.StudentID, l.WeekStart, string(narrative), string(attachmentsJSON), string(StatusPending),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &ConflictError{StudentID: l.StudentID, WeekStart: l.WeekStart}
		}
		return nil, err
	}
	return created, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Log, error) {
	const q = `SELECT ` + logColumns + ` FROM logbook_entries WHERE id = $1`
	l, err := scanLog(r.db.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return l, nil
}

// List returns logs newest week first; studentID empty lists all (admin).
func (r *Repository) List(ctx context.Context, studentID string) ([]Log, error) {
	q := `SELECT ` + logColumns + ` FROM logbook_entries`
	var args []any
	if studentID != "" {
		q += ` WHERE student_id = $1`
		args = append(args, studentID)
	}
	q += ` ORDER BY week_start DESC`

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Log
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

// Review applies the administrator's one-shot decision with compare-and-set
// on pending. A log that already left pending is never overwritten.
func (r *Repository) Review(ctx context.Context, id string, decision Status, feedback string) (*Log, error) {
	const q = `
UPDATE logbook_entries
SET status = $2, feedback = $3, reviewed_at = NOW()
WHERE id = $1 AND status = $4
RETURNING ` + logColumns
	l, err := scanLog(r.db.QueryRow(ctx, q, id, string(decision), feedback, string(StatusPending)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			const exq = `SELECT EXISTS (SELECT 1 FROM logbook_entries WHERE id = $1)`
			var exists bool
			if scanErr := r.db.QueryRow(ctx, exq, id).Scan(&exists); scanErr != nil {
				return nil, scanErr
			}
			if !exists {
				return nil, ErrNotFound
			}
			return nil, ErrAlreadyReviewed
		}
		return nil, err
	}
	return l, nil
}
