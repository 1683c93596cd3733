package bulk

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hourlog/internal/api"
	"hourlog/internal/entry"
	"hourlog/internal/week"
	"hourlog/internal/workflow"
)

// fakeStore moves statuses on an in-memory entry set using the same
// match-then-set semantics as the SQL store.
type fakeStore struct {
	entries []fakeEntry
	calls   []moveCall
}

type fakeEntry struct {
	studentID string
	companyID string
	date      time.Time
	status    workflow.Status
}

type moveCall struct {
	filter entry.BulkFilter
	from   workflow.Status
	to     workflow.Status
}

func (s *fakeStore) MoveAll(_ context.Context, _ api.Actor, f entry.BulkFilter, from, to workflow.Status) (int64, error) {
	s.calls = append(s.calls, moveCall{filter: f, from: from, to: to})
	var n int64
	for i := range s.entries {
		e := &s.entries[i]
		if e.status != from || e.studentID != f.StudentID {
			continue
		}
		if f.CompanyID != "" && e.companyID != f.CompanyID {
			continue
		}
		if f.Window != nil && !f.Window.Contains(e.date) {
			continue
		}
		e.status = to
		n++
	}
	return n, nil
}

type fakeDirectory struct {
	assigned map[string]string // studentID -> companyID
}

func (d *fakeDirectory) IsAssigned(_ context.Context, studentID, companyID string) (bool, error) {
	return d.assigned[studentID] == companyID, nil
}

func day(d int) time.Time {
	return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC)
}

func newTestService(store *fakeStore, dir *fakeDirectory) *Service {
	if dir == nil {
		dir = &fakeDirectory{assigned: map[string]string{}}
	}
	return NewService(store, dir, zap.NewNop())
}

func TestSubmitWeek_MovesPendingEntriesAndIsIdempotent(t *testing.T) {
	store := &fakeStore{entries: []fakeEntry{
		{studentID: "stu-1", date: day(10), status: workflow.StatusPending},
		{studentID: "stu-1", date: day(11), status: workflow.StatusPending},
		{studentID: "stu-1", date: day(12), status: workflow.StatusPending},
		{studentID: "stu-1", date: day(17), status: workflow.StatusPending}, // next week
		{studentID: "stu-2", date: day(10), status: workflow.StatusPending}, // other student
	}}
	svc := newTestService(store, nil)
	actor := api.Actor{ID: "stu-1", Role: workflow.RoleStudent}

	n, err := svc.SubmitWeek(context.Background(), actor, "stu-1", day(12))
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	// Second call matches nothing; distinguishable by count, not an error.
	n, err = svc.SubmitWeek(context.Background(), actor, "stu-1", day(12))
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	assert.Equal(t, workflow.StatusPending, store.entries[3].status, "next week untouched")
	assert.Equal(t, workflow.StatusPending, store.entries[4].status, "other student untouched")
}

func TestSubmitWeek_OnlyOwningStudent(t *testing.T) {
	svc := newTestService(&fakeStore{}, nil)

	var authErr *workflow.AuthorizationError
	_, err := svc.SubmitWeek(context.Background(), api.Actor{ID: "stu-2", Role: workflow.RoleStudent}, "stu-1", day(10))
	require.ErrorAs(t, err, &authErr)

	_, err = svc.SubmitWeek(context.Background(), api.Actor{ID: "co-1", Role: workflow.RoleCompany}, "stu-1", day(10))
	require.ErrorAs(t, err, &authErr)
}

func TestApproveAll_RequiresAssignedCompany(t *testing.T) {
	store := &fakeStore{entries: []fakeEntry{
		{studentID: "stu-1", companyID: "co-1", date: day(10), status: workflow.StatusSubmittedToCompany},
		{studentID: "stu-1", companyID: "co-1", date: day(11), status: workflow.StatusSubmittedToCompany},
	}}
	dir := &fakeDirectory{assigned: map[string]string{"stu-1": "co-1"}}
	svc := newTestService(store, dir)

	n, err := svc.ApproveAll(context.Background(), api.Actor{ID: "co-1", Role: workflow.RoleCompany}, "stu-1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	assert.Equal(t, workflow.StatusCompanyApproved, store.entries[0].status)

	// A different company has no standing even with the right role.
	var authErr *workflow.AuthorizationError
	_, err = svc.ApproveAll(context.Background(), api.Actor{ID: "co-2", Role: workflow.RoleCompany}, "stu-1")
	require.ErrorAs(t, err, &authErr)
}

func TestSubmitToDean_NothingEligibleIsDistinguished(t *testing.T) {
	store := &fakeStore{entries: []fakeEntry{
		{studentID: "stu-1", date: day(10), status: workflow.StatusSubmittedToCompany},
	}}
	svc := newTestService(store, nil)
	actor := api.Actor{ID: "stu-1", Role: workflow.RoleStudent}

	_, err := svc.SubmitToDean(context.Background(), actor, "stu-1")
	require.True(t, errors.Is(err, ErrNothingEligible), "got %v", err)

	// Once the company approves, the same call forwards the entry.
	store.entries[0].status = workflow.StatusCompanyApproved
	n, err := svc.SubmitToDean(context.Background(), actor, "stu-1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.Equal(t, workflow.StatusSubmittedToDean, store.entries[0].status)
}

func TestBulkMovesUseFilterScopedUpdates(t *testing.T) {
	store := &fakeStore{}
	dir := &fakeDirectory{assigned: map[string]string{"stu-1": "co-1"}}
	svc := newTestService(store, dir)

	_, _ = svc.SubmitWeek(context.Background(), api.Actor{ID: "stu-1", Role: workflow.RoleStudent}, "stu-1", day(12))
	_, _ = svc.ApproveAll(context.Background(), api.Actor{ID: "co-1", Role: workflow.RoleCompany}, "stu-1")

	require.Len(t, store.calls, 2)

	submit := store.calls[0]
	assert.Equal(t, workflow.StatusPending, submit.from)
	assert.Equal(t, workflow.StatusSubmittedToCompany, submit.to)
	require.NotNil(t, submit.filter.Window)
	assert.Equal(t, week.StartOf(day(12)), submit.filter.Window.Start)

	approve := store.calls[1]
	assert.Equal(t, "co-1", approve.filter.CompanyID)
	assert.Equal(t, workflow.StatusSubmittedToCompany, approve.from)
	assert.Equal(t, workflow.StatusCompanyApproved, approve.to)
}
