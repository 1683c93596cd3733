package bulk

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"hourlog/internal/api"
	"hourlog/internal/entry"
	"hourlog/internal/week"
	"hourlog/internal/workflow"
)

// ErrNothingEligible distinguishes "no entries currently qualify" from a
// bulk update that genuinely moved zero rows on a repeat call. SubmitToDean
// must not report an empty submission as success.
var ErrNothingEligible = errors.New("no entries eligible for this transition")

// Store executes one filtered, atomic status move and reports the row count.
type Store interface {
	MoveAll(ctx context.Context, actor api.Actor, f entry.BulkFilter, from, to workflow.Status) (int64, error)
}

// Directory answers whether a company is the student's assigned reviewer.
type Directory interface {
	IsAssigned(ctx context.Context, studentID, companyID string) (bool, error)
}

// Service runs the multi-record transitions. Each operation is a single
// match-then-set update, never a read-modify-write loop, so concurrent calls
// are safe: the loser simply matches zero rows.
type Service struct {
	store  Store
	dir    Directory
	logger *zap.Logger
}

func NewService(store Store, dir Directory, logger *zap.Logger) *Service {
	return &Service{store: store, dir: dir, logger: logger}
}

// SubmitWeek moves every pending entry in the student's week to
// submitted_to_company. Zero matches is not an error; the caller sees the
// count and can tell an empty resubmit apart from a real one.
func (s *Service) SubmitWeek(ctx context.Context, actor api.Actor, studentID string, weekOf time.Time) (int64, error) {
	if actor.Role != workflow.RoleStudent || actor.ID != studentID {
		return 0, &workflow.AuthorizationError{Role: actor.Role, Reason: "only the owning student may submit a week"}
	}

	w := week.WindowOf(weekOf)
	n, err := s.store.MoveAll(ctx, actor, entry.BulkFilter{StudentID: studentID, Window: &w},
		workflow.StatusPending, workflow.StatusSubmittedToCompany)
	if err != nil {
		s.logger.Error("submit week failed", zap.String("student", studentID), zap.Error(err))
		return 0, err
	}
	return n, nil
}

// ApproveAll moves every entry the company currently holds for the student
// to company_approved. Only the assigned reviewing company may call it.
func (s *Service) ApproveAll(ctx context.Context, actor api.Actor, studentID string) (int64, error) {
	if actor.Role != workflow.RoleCompany {
		return 0, &workflow.AuthorizationError{Role: actor.Role, Reason: "only a company reviewer may approve all"}
	}
	assigned, err := s.dir.IsAssigned(ctx, studentID, actor.ID)
	if err != nil {
		s.logger.Error("assignment lookup failed", zap.String("student", studentID), zap.Error(err))
		return 0, err
	}
	if !assigned {
		return 0, &workflow.AuthorizationError{Role: actor.Role, Reason: "company is not the student's assigned reviewer"}
	}

	n, err := s.store.MoveAll(ctx, actor, entry.BulkFilter{StudentID: studentID, CompanyID: actor.ID},
		workflow.StatusSubmittedToCompany, workflow.StatusCompanyApproved)
	if err != nil {
		s.logger.Error("approve all failed", zap.String("student", studentID), zap.Error(err))
		return 0, err
	}
	return n, nil
}

// SubmitToDean forwards every company-approved entry of the student to the
// administrator. Zero eligible entries is reported as ErrNothingEligible,
// not as a successful submission of nothing.
func (s *Service) SubmitToDean(ctx context.Context, actor api.Actor, studentID string) (int64, error) {
	if actor.Role != workflow.RoleStudent || actor.ID != studentID {
		return 0, &workflow.AuthorizationError{Role: actor.Role, Reason: "only the owning student may submit to the dean"}
	}

	n, err := s.store.MoveAll(ctx, actor, entry.BulkFilter{StudentID: studentID},
		workflow.StatusCompanyApproved, workflow.StatusSubmittedToDean)
	if err != nil {
		s.logger.Error("submit to dean failed", zap.String("student", studentID), zap.Error(err))
		return 0, err
	}
	if n == 0 {
		return 0, ErrNothingEligible
	}
	return n, nil
}
