package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowedActions_RoleTable(t *testing.T) {
	tests := []struct {
		name   string
		status LoanStatus
		roles  []RoleName
		want   []LoanAction
	}{
		{"marketing on submitted", StatusSubmitted, []RoleName{RoleMarketing}, []LoanAction{ActionComment}},
		{"marketing on in-review", StatusInReview, []RoleName{RoleMarketing}, []LoanAction{ActionComment, ActionForwardToManager}},
		{"branch manager on waiting approval", StatusWaitingApproval, []RoleName{RoleBranchManager}, []LoanAction{ActionApprove, ActionComment, ActionReject}},
		{"back office on approved", StatusApprovedWaitingDisbursement, []RoleName{RoleBackOffice}, []LoanAction{ActionDisburse}},
		{"marketing has nothing at approval stage", StatusWaitingApproval, []RoleName{RoleMarketing}, []LoanAction{}},
		{"back office has nothing before approval", StatusInReview, []RoleName{RoleBackOffice}, []LoanAction{}},
		{"plain user never acts", StatusSubmitted, []RoleName{RoleUser}, []LoanAction{}},
		{"admin is not in the action table", StatusWaitingApproval, []RoleName{RoleAdmin}, []LoanAction{}},
		{"no roles no actions", StatusInReview, nil, []LoanAction{}},
		{"terminal status grants nothing", StatusDisbursed, []RoleName{RoleMarketing, RoleBranchManager, RoleBackOffice}, []LoanAction{}},
		{"multi-role union", StatusWaitingApproval, []RoleName{RoleMarketing, RoleBranchManager}, []LoanAction{ActionApprove, ActionComment, ActionReject}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AllowedActions(tt.status, tt.roles))
		})
	}
}

// Whatever roles an actor holds, the resolver must never grant an action the
// workflow table itself would reject.
func TestAllowedActions_SubsetOfLegalActions(t *testing.T) {
	roleSets := [][]RoleName{
		{RoleAdmin},
		{RoleMarketing},
		{RoleBranchManager},
		{RoleBackOffice},
		{RoleUser},
		{RoleMarketing, RoleBranchManager, RoleBackOffice},
		{RoleAdmin, RoleMarketing, RoleBranchManager, RoleBackOffice, RoleUser},
	}

	for _, status := range allStatuses {
		legal := make(map[LoanAction]bool)
		for _, action := range LegalActions(status) {
			legal[action] = true
		}

		for _, roles := range roleSets {
			for _, action := range AllowedActions(status, roles) {
				assert.True(t, legal[action],
					"AllowedActions(%s, %v) granted %s which the transition table forbids", status, roles, action)
			}
		}
	}
}

func TestCanPerform(t *testing.T) {
	assert.True(t, CanPerform(StatusWaitingApproval, []RoleName{RoleBranchManager}, ActionApprove))
	assert.False(t, CanPerform(StatusWaitingApproval, []RoleName{RoleMarketing}, ActionApprove))
	assert.False(t, CanPerform(StatusApprovedWaitingDisbursement, []RoleName{RoleMarketing}, ActionDisburse))
	assert.True(t, CanPerform(StatusApprovedWaitingDisbursement, []RoleName{RoleBackOffice}, ActionDisburse))
}

func TestQueueStatuses(t *testing.T) {
	assert.Equal(t, []LoanStatus{StatusSubmitted, StatusInReview}, QueueStatuses(RoleMarketing))
	assert.Equal(t, []LoanStatus{StatusWaitingApproval}, QueueStatuses(RoleBranchManager))
	assert.Equal(t, []LoanStatus{StatusApprovedWaitingDisbursement}, QueueStatuses(RoleBackOffice))
	assert.Empty(t, QueueStatuses(RoleAdmin))
	assert.Empty(t, QueueStatuses(RoleUser))
}

func TestActor_HasRole(t *testing.T) {
	actor := Actor{UserID: 7, Roles: []RoleName{RoleMarketing, RoleUser}}
	assert.True(t, actor.HasRole(RoleMarketing))
	assert.False(t, actor.HasRole(RoleAdmin))
}
