package workflow

import "fmt"

type Status string

const (
	StatusPending            Status = "pending"
	StatusSubmittedToCompany Status = "submitted_to_company"
	StatusCompanyApproved    Status = "company_approved"
	StatusCompanyDeclined    Status = "company_declined"
	StatusEditedByCompany    Status = "edited_by_company"
	StatusSubmittedToDean    Status = "submitted_to_dean"
	StatusDeanApproved       Status = "dean_approved"
	StatusDeanDeclined       Status = "dean_declined"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusSubmittedToCompany, StatusCompanyApproved, StatusCompanyDeclined,
		StatusEditedByCompany, StatusSubmittedToDean, StatusDeanApproved, StatusDeanDeclined:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown status: %s", s)
	}
}

type Role string

const (
	RoleStudent       Role = "student"
	RoleCompany       Role = "company"
	RoleAdministrator Role = "administrator"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleStudent, RoleCompany, RoleAdministrator:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role: %s", s)
	}
}

// allowedTransitions is the single source of truth for the approval state
// machine. Every mutation path consults it; nothing else may special-case
// a transition.
//
// dean_approved and dean_declined are terminal: no role has an edge out.
var allowedTransitions = map[Role]map[Status]map[Status]bool{
	RoleStudent: {
		StatusPending: {StatusSubmittedToCompany: true},
		// A successful field edit of a declined entry resets it to pending;
		// there is no separate resubmission action.
		StatusCompanyDeclined: {StatusPending: true},
		// Bulk submit-to-dean runs on behalf of the student.
		StatusCompanyApproved: {StatusSubmittedToDean: true},
	},
	RoleCompany: {
		StatusSubmittedToCompany: {
			StatusCompanyApproved: true,
			StatusCompanyDeclined: true,
			// A direct time-field edit by the company, as an alternative
			// to approve/decline.
			StatusEditedByCompany: true,
		},
	},
	RoleAdministrator: {
		StatusSubmittedToDean: {
			StatusDeanApproved: true,
			StatusDeanDeclined: true,
		},
	},
}

func CanTransition(role Role, from, to Status) bool {
	byFrom, ok := allowedTransitions[role]
	if !ok {
		return false
	}
	m, ok := byFrom[from]
	if !ok {
		return false
	}
	return m[to]
}

// CheckTransition returns a *StateError describing the rejected edge, or nil
// when the transition is allowed for the role.
func CheckTransition(role Role, from, to Status) error {
	if CanTransition(role, from, to) {
		return nil
	}
	return &StateError{Role: role, Current: from, Requested: to}
}

// IsTerminal reports whether no role has any edge out of the status.
func IsTerminal(s Status) bool {
	return s == StatusDeanApproved || s == StatusDeanDeclined
}
