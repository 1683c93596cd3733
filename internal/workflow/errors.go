package workflow

import "fmt"

// StateError means the actor's role is fine but the entry's current status
// forbids the requested change.
type StateError struct {
	Role      Role
	Current   Status
	Requested Status
}

func (e *StateError) Error() string {
	if e.Requested == "" {
		return fmt.Sprintf("%s cannot modify an entry in status %s", e.Role, e.Current)
	}
	return fmt.Sprintf("%s cannot move an entry from %s to %s", e.Role, e.Current, e.Requested)
}

// AuthorizationError means the actor has no standing to touch the record at
// all (wrong role, wrong company, wrong student), regardless of its status.
type AuthorizationError struct {
	Role   Role
	Reason string
}

func (e *AuthorizationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("role %s is not allowed to perform this action", e.Role)
	}
	return fmt.Sprintf("role %s is not allowed to perform this action: %s", e.Role, e.Reason)
}
