package domain

import "sort"

// RoleName represents a named permission group
type RoleName string

const (
	RoleAdmin         RoleName = "ADMIN"
	RoleMarketing     RoleName = "MARKETING"
	RoleBranchManager RoleName = "BRANCH_MANAGER"
	RoleBackOffice    RoleName = "BACK_OFFICE"
	RoleUser          RoleName = "USER"
)

// Actor is the authenticated identity performing a request
type Actor struct {
	UserID   uint
	Username string
	Roles    []RoleName
}

// HasRole returns true if the actor holds the given role
func (a Actor) HasRole(role RoleName) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// roleActions maps eligible role -> status -> actions granted at that status.
// Immutable process-wide policy, mirrored by the workflow transition table.
var roleActions = map[RoleName]map[LoanStatus][]LoanAction{
	RoleMarketing: {
		StatusSubmitted: {ActionComment},
		StatusInReview:  {ActionComment, ActionForwardToManager},
	},
	RoleBranchManager: {
		StatusWaitingApproval: {ActionComment, ActionApprove, ActionReject},
	},
	RoleBackOffice: {
		StatusApprovedWaitingDisbursement: {ActionDisburse},
	},
}

// queueStatuses maps a staff role to the statuses sitting in its work queue
var queueStatuses = map[RoleName][]LoanStatus{
	RoleMarketing:     {StatusSubmitted, StatusInReview},
	RoleBranchManager: {StatusWaitingApproval},
	RoleBackOffice:    {StatusApprovedWaitingDisbursement},
}

// AllowedActions resolves the actions an actor holding the given roles may
// request at the current status. Actors holding none of the eligible roles
// get an empty set. The result is always a subset of LegalActions(status).
func AllowedActions(status LoanStatus, roles []RoleName) []LoanAction {
	granted := make(map[LoanAction]bool)
	for _, role := range roles {
		for _, action := range roleActions[role][status] {
			granted[action] = true
		}
	}

	actions := make([]LoanAction, 0, len(granted))
	for action := range granted {
		actions = append(actions, action)
	}
	sort.Slice(actions, func(i, j int) bool { return actions[i] < actions[j] })
	return actions
}

// CanPerform returns true if at least one of the roles grants the action at
// the given status
func CanPerform(status LoanStatus, roles []RoleName, action LoanAction) bool {
	for _, granted := range AllowedActions(status, roles) {
		if granted == action {
			return true
		}
	}
	return false
}

// QueueStatuses returns the union of statuses the given staff roles are
// expected to act on. Unknown or non-staff roles contribute nothing.
func QueueStatuses(roles ...RoleName) []LoanStatus {
	seen := make(map[LoanStatus]bool)
	var statuses []LoanStatus
	for _, role := range roles {
		for _, status := range queueStatuses[role] {
			if !seen[status] {
				seen[status] = true
				statuses = append(statuses, status)
			}
		}
	}
	return statuses
}

// IsStaffRole returns true if the role owns a work queue
func IsStaffRole(role RoleName) bool {
	_, ok := queueStatuses[role]
	return ok
}
