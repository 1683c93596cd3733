package entry

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"hourlog/internal/hours"
	"hourlog/internal/workflow"
)

// DateLayout is the wire format for entry dates (date-only granularity).
const DateLayout = "2006-01-02"

// Entry is one calendar day of logged internship hours for a student.
// TotalHours is derived from the time fields; it is never set directly.
type Entry struct {
	ID           string
	StudentID    string
	CompanyID    string
	EntryDate    time.Time
	TimeIn       int // minute of day
	TimeOut      int // minute of day
	BreakMinutes int
	TotalHours   decimal.Decimal
	Status       workflow.Status
	CompanyNotes string
	DeanNotes    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

var (
	ErrNotFound = errors.New("entry not found")

	// ErrStatusChanged reports a lost compare-and-set: the entry exists but
	// its status moved since the caller loaded it.
	ErrStatusChanged = errors.New("entry status changed since it was loaded")
)

// ConflictError means the student already has an entry for the calendar day.
type ConflictError struct {
	StudentID string
	Date      time.Time
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("student %s already has an entry for %s", e.StudentID, e.Date.Format(DateLayout))
}

// LimitError means the entry's week already holds the maximum of seven entries.
type LimitError struct {
	StudentID string
	WeekStart time.Time
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("student %s already has a full week starting %s", e.StudentID, e.WeekStart.Format(DateLayout))
}

/// View is the JSON shape exposed to the portal. Clock fields go out as HH:MM.
type View struct {
	ID           string          `json:"id"`
	StudentID    string          `json:"studentId"`
	CompanyID    string          `json:"companyId"`
	Date         string          `json:"date"`
	TimeIn       string          `json:"timeIn"`
	TimeOut      string          `json:"timeOut"`
	BreakMinutes int             `json:"breakMinutes"`
	TotalHours   string          `json:"totalHours"`
	Status       workflow.Status `json:"status"`
	CompanyNotes string          `json:"companyNotes,omitempty"`
	DeanNotes    string          `json:"deanNotes,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

func (e *Entry) View() View {
	return View{
		ID:           e.ID,
		StudentID:    e.StudentID,
		CompanyID:    e.CompanyID,
		Date:         e.EntryDate.Format(DateLayout),
		TimeIn:       hours.FormatClock(e.TimeIn),
		TimeOut:      hours.FormatClock(e.TimeOut),
		BreakMinutes: e.BreakMinutes,
		TotalHours:   e.TotalHours.StringFixed(hours.Scale),
		Status:       e.Status,
		CompanyNotes: e.CompanyNotes,
		DeanNotes:    e.DeanNotes,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}
