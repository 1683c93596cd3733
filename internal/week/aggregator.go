package week

import "hourlog/internal/workflow"

// State is the single workflow-facing label derived for a week of entries.
type State string

const (
	StateDraft         State = "draft"
	StateNeedsStudent  State = "needs_student"
	StateLocked        State = "locked"
	StateDeanReview    State = "dean_review"
	StateReadyForDean  State = "ready_for_dean"
	StateCompanyReview State = "company_review"
)

// AggregateState collapses a week's entry statuses into one label.
//
// The rules are ordered; the first match wins. This function is the only
// place the precedence lives — eligibility checks and every view derive
// from it rather than reimplementing the rules.
func AggregateState(statuses []workflow.Status) State {
	if len(statuses) == 0 {
		return StateDraft
	}

	var (
		anyDeclinedByCompany bool
		anyAtDean            bool
		anyInCompanyReview   bool
		allDeanApproved      = true
		allCompanyApproved   = true
	)
	for _, s := range statuses {
		switch s {
		case workflow.StatusCompanyDeclined:
			anyDeclinedByCompany = true
		case workflow.StatusSubmittedToDean, workflow.StatusDeanDeclined:
			anyAtDean = true
		case workflow.StatusSubmittedToCompany, workflow.StatusEditedByCompany:
			anyInCompanyReview = true
		}
		if s != workflow.StatusDeanApproved {
			allDeanApproved = false
		}
		if s != workflow.StatusCompanyApproved {
			allCompanyApproved = false
		}
	}

	switch {
	case anyDeclinedByCompany:
		// A decline blocks the week regardless of how far the rest got.
		return StateNeedsStudent
	case allDeanApproved:
		return StateLocked
	case anyAtDean:
		return StateDeanReview
	case allCompanyApproved:
		return StateReadyForDean
	case anyInCompanyReview:
		return StateCompanyReview
	default:
		return StateDraft
	}
}
