package entry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"hourlog/internal/week"
	"hourlog/internal/workflow"
)

const entryColumns = `
id, student_id, company_id, entry_date, time_in, time_out, break_minutes,
total_hours, status, COALESCE(company_notes,''), COALESCE(dean_notes,''), created_at, updated_at`

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func scanEntry(row pgx.Row) (*Entry, error) {
	e := &Entry{}
	if err := row.Scan(
		&e.ID, &e.StudentID, &e.CompanyID, &e.EntryDate, &e.TimeIn, &e.TimeOut, &e.BreakMinutes,
		&e.TotalHours, &e.Status, &e.CompanyNotes, &e.DeanNotes, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return e, nil
}

// Insert creates the entry at status pending. The (student_id, entry_date)
// unique index does the duplicate-day enforcement; a separate existence check
// would be racy.
func (r *Repository) Insert(ctx context.Context, e *Entry) (*Entry, error) {
	const q = `
INSERT INTO entries (id, student_id, company_id, entry_date, time_in, time_out, break_minutes, total_hours, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (student_id, entry_date) DO NOTHING
RETURNING ` + entryColumns
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	created, err := scanEntry(r.db.QueryRow(ctx, q,
		e.ID, e.StudentID, e.CompanyID, e.EntryDate, e.TimeIn, e.TimeOut, e.BreakMinutes,
		e.TotalHours, string(e.Status),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &ConflictError{StudentID: e.StudentID, Date: e.EntryDate}
		}
		return nil, err
	}
	return created, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Entry, error) {
	const q = `SELECT ` + entryColumns + ` FROM entries WHERE id = $1`
	e, err := scanEntry(r.db.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// CountInWindow counts a student's entries inside a week window.
func (r *Repository) CountInWindow(ctx context.Context, studentID string, w week.Window) (int, error) {
	const q = `
SELECT COUNT(*) FROM entries
WHERE student_id = $1 AND entry_date >= $2 AND entry_date < $3
`
	var n int
	if err := r.db.QueryRow(ctx, q, studentID, w.Start, w.End).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Filter narrows List. Zero values mean "no constraint".
type Filter struct {
	StudentID string
	CompanyID string
	From      *time.Time
	To        *time.Time // inclusive
	Status    *workflow.Status
}

// List returns matching entries, most recent date first.
func (r *Repository) List(ctx context.Context, f Filter) ([]Entry, error) {
	q := `SELECT ` + entryColumns + ` FROM entries WHERE 1=1`
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		q += fmt.Sprintf(" AND "+cond, len(args))
	}
	if f.StudentID != "" {
		add("student_id = $%d", f.StudentID)
	}
	if f.CompanyID != "" {
		add("company_id = $%d", f.CompanyID)
	}
	if f.From != nil {
		add("entry_date >= $%d", *f.From)
	}
	if f.To != nil {
		add("entry_date <= $%d", *f.To)
	}
	if f.Status != nil {
		add("status = $%d", string(*f.Status))
	}
	q += " ORDER BY entry_date DESC, created_at DESC"

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// ListWindow returns a student's entries for one week window, oldest first.
func (r *Repository) ListWindow(ctx context.Context, studentID string, w week.Window) ([]Entry, error) {
	const q = `
SELECT ` + entryColumns + `
FROM entries
WHERE student_id = $1 AND entry_date >= $2 AND entry_date < $3
ORDER BY entry_date ASC
`
	rows, err := r.db.Query(ctx, q, studentID, w.Start, w.End)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func GetTx(ctx context.Context, tx pgx.Tx, id string) (*Entry, error) {
	const q = `SELECT ` + entryColumns + ` FROM entries WHERE id = $1`
	e, err := scanEntry(tx.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// TimePatch carries the re-derived time fields of an edit.
type TimePatch struct {
	TimeIn       int
	TimeOut      int
	BreakMinutes int
	TotalHours   decimal.Decimal
}

// UpdateTimeConditional applies a field edit with compare-and-set on the
// expected status. If the row moved since it was loaded, nothing is written
// and the caller is told which way it failed.
func UpdateTimeConditional(ctx context.Context, tx pgx.Tx, id string, expected workflow.Status, p TimePatch, next workflow.Status) (*Entry, error) {
	const q = `
UPDATE entries
SET time_in = $3, time_out = $4, break_minutes = $5, total_hours = $6,
    status = $7, updated_at = NOW()
WHERE id = $1 AND status = $2
RETURNING ` + entryColumns
	e, err := scanEntry(tx.QueryRow(ctx, q, id, string(expected), p.TimeIn, p.TimeOut, p.BreakMinutes, p.TotalHours, string(next)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, casFailure(ctx, tx, id)
		}
		return nil, err
	}
	return e, nil
}

// UpdateStatusConditional applies a review decision with compare-and-set on
// the expected status. Notes land in the column owned by the deciding role.
func UpdateStatusConditional(ctx context.Context, tx pgx.Tx, id string, expected, next workflow.Status, companyNotes, deanNotes *string) (*Entry, error) {
	const q = `
UPDATE entries
SET status = $3,
    company_notes = COALESCE($4, company_notes),
    dean_notes = COALESCE($5, dean_notes),
    updated_at = NOW()
WHERE id = $1 AND status = $2
RETURNING ` + entryColumns
	e, err := scanEntry(tx.QueryRow(ctx, q, id, string(expected), string(next), companyNotes, deanNotes))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, casFailure(ctx, tx, id)
		}
		return nil, err
	}
	return e, nil
}

// BulkFilter scopes UpdateManyConditional. StudentID is required; the window
// and company are optional narrowing.
type BulkFilter struct {
	StudentID string
	CompanyID string
	Window    *week.Window
}

// UpdateManyConditional moves every matching entry from one status to another
// in a single filtered update and reports how many rows moved. Running it
// twice is harmless: the second call matches nothing.
func UpdateManyConditional(ctx context.Context, tx pgx.Tx, f BulkFilter, from, to workflow.Status) (int64, error) {
	q := `UPDATE entries SET status = $1, updated_at = NOW() WHERE status = $2 AND student_id = $3`
	args := []any{string(to), string(from), f.StudentID}
	if f.CompanyID != "" {
		args = append(args, f.CompanyID)
		q += fmt.Sprintf(" AND company_id = $%d", len(args))
	}
	if f.Window != nil {
		args = append(args, f.Window.Start)
		q += fmt.Sprintf(" AND entry_date >= $%d", len(args))
		args = append(args, f.Window.End)
		q += fmt.Sprintf(" AND entry_date < $%d", len(args))
	}
	tag, err := tx.Exec(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func casFailure(ctx context.Context, tx pgx.Tx, id string) error {
	const q = `SELECT EXISTS (SELECT 1 FROM entries WHERE id = $1)`
	var exists bool
	if err := tx.QueryRow(ctx, q, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return ErrStatusChanged
}
