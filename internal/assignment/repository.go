package assignment

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNoAssignment means the student has no reviewing company on record.
var ErrNoAssignment = errors.New("student has no assigned company")

// Assignment links a student to the company currently reviewing their hours.
// Directory management itself lives outside this service; we only read it.
type Assignment struct {
	StudentID  string
	CompanyID  string
	AssignedAt time.Time
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CompanyFor resolves the reviewing company for a student.
func (r *Repository) CompanyFor(ctx context.Context, studentID string) (*Assignment, error) {
	const q = `
SELECT student_id, company_id, assigned_at
FROM student_assignments
WHERE student_id = $1
`
	a := &Assignment{}
	if err := r.db.QueryRow(ctx, q, studentID).Scan(&a.StudentID, &a.CompanyID, &a.AssignedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoAssignment
		}
		return nil, err
	}
	return a, nil
}

// IsAssigned reports whether company is the student's current reviewer.
func (r *Repository) IsAssigned(ctx context.Context, studentID, companyID string) (bool, error) {
	a, err := r.CompanyFor(ctx, studentID)
	if err != nil {
		if errors.Is(err, ErrNoAssignment) {
			return false, nil
		}
		return false, err
	}
	return a.CompanyID == companyID, nil
}
