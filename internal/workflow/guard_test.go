package workflow

import (
	"errors"
	"testing"
	"time"
)

var (
	today     = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	yesterday = today.AddDate(0, 0, -1)
	tomorrow  = today.AddDate(0, 0, 1)
)

func TestCheckFieldEdit_Student(t *testing.T) {
	if err := CheckFieldEdit(RoleStudent, StatusPending, yesterday, today); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := CheckFieldEdit(RoleStudent, StatusCompanyDeclined, today, today); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := CheckFieldEdit(RoleStudent, StatusSubmittedToCompany, yesterday, today)
	var se *StateError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StateError, got %T (%v)", err, err)
	}

	if err := CheckFieldEdit(RoleStudent, StatusPending, tomorrow, today); !errors.Is(err, ErrFutureDate) {
		t.Fatalf("expected ErrFutureDate, got %v", err)
	}
}

func TestCheckFieldEdit_Company(t *testing.T) {
	if err := CheckFieldEdit(RoleCompany, StatusSubmittedToCompany, yesterday, today); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var se *StateError
	if err := CheckFieldEdit(RoleCompany, StatusPending, yesterday, today); !errors.As(err, &se) {
		t.Fatalf("expected *StateError, got %v", err)
	}
}

func TestCheckFieldEdit_AdministratorHasNoStanding(t *testing.T) {
	err := CheckFieldEdit(RoleAdministrator, StatusSubmittedToDean, yesterday, today)
	var ae *AuthorizationError
	if !errors.As(err, &ae) {
		t.Fatalf("expected *AuthorizationError, got %T (%v)", err, err)
	}
}

func TestStatusAfterEdit(t *testing.T) {
	cases := []struct {
		role    Role
		current Status
		want    Status
	}{
		{RoleStudent, StatusPending, StatusPending},
		{RoleStudent, StatusCompanyDeclined, StatusPending},
		{RoleCompany, StatusSubmittedToCompany, StatusEditedByCompany},
	}
	for _, c := range cases {
		if got := StatusAfterEdit(c.role, c.current); got != c.want {
			t.Fatalf("StatusAfterEdit(%s, %s) = %s, want %s", c.role, c.current, got, c.want)
		}
	}
}

func TestCheckReview_RoleAndStateAreDistinct(t *testing.T) {
	// Right role, wrong status: state error.
	var se *StateError
	if err := CheckReview(RoleAdministrator, StatusPending, StatusDeanApproved); !errors.As(err, &se) {
		t.Fatalf("expected *StateError, got %v", err)
	}

	// Role asking for a decision outside its stage: authorization error.
	var ae *AuthorizationError
	if err := CheckReview(RoleCompany, StatusSubmittedToCompany, StatusDeanApproved); !errors.As(err, &ae) {
		t.Fatalf("expected *AuthorizationError, got %v", err)
	}
	if err := CheckReview(RoleStudent, StatusSubmittedToCompany, StatusCompanyApproved); !errors.As(err, &ae) {
		t.Fatalf("expected *AuthorizationError, got %v", err)
	}

	// Happy paths.
	if err := CheckReview(RoleCompany, StatusSubmittedToCompany, StatusCompanyDeclined); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := CheckReview(RoleAdministrator, StatusSubmittedToDean, StatusDeanDeclined); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheckReview_StudentSingleSubmit(t *testing.T) {
	// A student may push one pending entry to the company without going
	// through the whole-week submit.
	if err := CheckReview(RoleStudent, StatusPending, StatusSubmittedToCompany); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Wrong starting status is a state error, not an authorization error.
	var se *StateError
	if err := CheckReview(RoleStudent, StatusCompanyApproved, StatusSubmittedToCompany); !errors.As(err, &se) {
		t.Fatalf("expected *StateError, got %v", err)
	}

	// Submitting to the dean stays bulk-only.
	var ae *AuthorizationError
	if err := CheckReview(RoleStudent, StatusCompanyApproved, StatusSubmittedToDean); !errors.As(err, &ae) {
		t.Fatalf("expected *AuthorizationError, got %v", err)
	}
}
