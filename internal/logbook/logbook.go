package logbook

import (
	"errors"
	"fmt"
	"time"
)

// Status is the single-reviewer log workflow: the administrator approves or
// declines exactly once, then the log is immutable.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusDeclined Status = "declined"
)

func ParseDecision(s string) (Status, error) {
	switch Status(s) {
	case StatusApproved, StatusDeclined:
		return Status(s), nil
	default:
		return "", fmt.Errorf("decision must be approved or declined, got %q", s)
	}
}

var (
	ErrNotFound = errors.New("logbook entry not found")

	// ErrAlreadyReviewed reports a decision attempted on a log that already
	// left pending; the first decision is final.
	ErrAlreadyReviewed = errors.New("logbook entry has already been reviewed")
)

// ConflictError means the student already wrote a log for that week.
type ConflictError struct {
	StudentID string
	WeekStart time.Time
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("student %s already has a logbook entry for week %s", e.StudentID, e.WeekStart.Format("2006-01-02"))
}

// Narrative is the six mandatory free-text fields of a weekly log.
type Narrative struct {
	Activities     string `json:"activities"`
	TasksCompleted string `json:"tasksCompleted"`
	SkillsApplied  string `json:"skillsApplied"`
	Challenges     string `json:"challenges"`
	LessonsLearned string `json:"lessonsLearned"`
	PlansNextWeek  string `json:"plansNextWeek"`
}

// Validate rejects a log with any narrative field missing. All six are
// mandatory at creation; there is no partial draft.
func (n Narrative) Validate() error {
	fields := map[string]string{
		"activities":     n.Activities,
		"tasksCompleted": n.TasksCompleted,
		"skillsApplied":  n.SkillsApplied,
		"challenges":     n.Challenges,
		"lessonsLearned": n.LessonsLearned,
		"plansNextWeek":  n.PlansNextWeek,
	}
	for name, v := range fields {
		if v == "" {
			return fmt.Errorf("narrative field %s is required", name)
		}
	}
	return nil
}

// Log is one weekly narrative entry. Attachments are references into the
// external file store; this service never touches file contents.
type Log struct {
	ID          string     `json:"id"`
	StudentID   string     `json:"studentId"`
	WeekStart   time.Time  `json:"weekStart"`
	Narrative   Narrative  `json:"narrative"`
	Attachments []string   `json:"attachments"`
	Status      Status     `json:"status"`
	Feedback    string     `json:"feedback,omitempty"`
	ReviewedAt  *time.Time `json:"reviewedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}
