package workflow

import (
	"errors"
	"time"
)

// ErrFutureDate rejects student edits to entries dated after today.
var ErrFutureDate = errors.New("entries for future dates cannot be edited")

// CheckFieldEdit decides whether role may touch timeIn/timeOut/breakMinutes
// on an entry in the given status. Dates are date-only; today is injected so
// the rule stays testable.
func CheckFieldEdit(role Role, status Status, entryDate, today time.Time) error {
	switch role {
	case RoleStudent:
		if status != StatusPending && status != StatusCompanyDeclined {
			return &StateError{Role: role, Current: status}
		}
		if entryDate.After(today) {
			return ErrFutureDate
		}
		return nil
	case RoleCompany:
		if status != StatusSubmittedToCompany {
			return &StateError{Role: role, Current: status}
		}
		return nil
	case RoleAdministrator:
		// Administrators decide, they never edit hours.
		return &AuthorizationError{Role: role, Reason: "administrators do not edit time fields"}
	default:
		return &AuthorizationError{Role: role}
	}
}

// StatusAfterEdit is the status an entry lands in after a successful field
// edit by role. Must only be called once CheckFieldEdit has passed.
func StatusAfterEdit(role Role, current Status) Status {
	switch {
	case role == RoleStudent && current == StatusCompanyDeclined:
		return StatusPending
	case role == RoleCompany && current == StatusSubmittedToCompany:
		return StatusEditedByCompany
	default:
		return current
	}
}

// CheckReview decides whether role may set the requested status on an entry
// currently in the given status. Wrong role for the decision is an
// AuthorizationError; right role but wrong current status is a StateError.
// Students may submit a single entry to the company here; submitting to the
// dean goes through the bulk path only.
func CheckReview(role Role, current, requested Status) error {
	switch role {
	case RoleStudent:
		if requested != StatusSubmittedToCompany {
			return &AuthorizationError{Role: role, Reason: "students may only submit entries for review"}
		}
	case RoleCompany:
		if requested != StatusCompanyApproved && requested != StatusCompanyDeclined {
			return &AuthorizationError{Role: role, Reason: "companies may only approve or decline"}
		}
	case RoleAdministrator:
		if requested != StatusDeanApproved && requested != StatusDeanDeclined {
			return &AuthorizationError{Role: role, Reason: "administrators may only approve or decline"}
		}
	default:
		return &AuthorizationError{Role: role}
	}
	return CheckTransition(role, current, requested)
}
