package domain

// LoanStatus represents the lifecycle state of a loan application
type LoanStatus string

const (
	StatusSubmitted                   LoanStatus = "SUBMITTED"
	StatusInReview                    LoanStatus = "IN_REVIEW"
	StatusWaitingApproval             LoanStatus = "WAITING_APPROVAL"
	StatusApprovedWaitingDisbursement LoanStatus = "APPROVED_WAITING_DISBURSEMENT"
	StatusDisbursed                   LoanStatus = "DISBURSED"
	StatusRejected                    LoanStatus = "REJECTED"
	StatusPaid                        LoanStatus = "PAID"
)

// LoanAction represents an operation requested against a loan application
type LoanAction string

const (
	ActionSubmit           LoanAction = "SUBMIT"
	ActionComment          LoanAction = "COMMENT"
	ActionForwardToManager LoanAction = "FORWARD_TO_MANAGER"
	ActionApprove          LoanAction = "APPROVE"
	ActionReject           LoanAction = "REJECT"
	ActionDisburse         LoanAction = "DISBURSE"
)

var validStatuses = map[LoanStatus]bool{
	StatusSubmitted:                   true,
	StatusInReview:                    true,
	StatusWaitingApproval:             true,
	StatusApprovedWaitingDisbursement: true,
	StatusDisbursed:                   true,
	StatusRejected:                    true,
	StatusPaid:                        true,
}

var validActions = map[LoanAction]bool{
	ActionSubmit:           true,
	ActionComment:          true,
	ActionForwardToManager: true,
	ActionApprove:          true,
	ActionReject:           true,
	ActionDisburse:         true,
}

// DISBURSED leaves the engine only through payment completion,
// which is an external trigger rather than a workflow action.
var terminalStatuses = map[LoanStatus]bool{
	StatusDisbursed: true,
	StatusRejected:  true,
	StatusPaid:      true,
}

// transitions is the full workflow table: current status -> action -> next status.
// Built once, never mutated at runtime. SUBMIT never appears here because it only
// exists as the creation entry of a loan, not as a transition on an existing one.
var transitions = map[LoanStatus]map[LoanAction]LoanStatus{
	StatusSubmitted: {
		ActionComment: StatusInReview,
	},
	StatusInReview: {
		ActionComment:          StatusInReview,
		ActionForwardToManager: StatusWaitingApproval,
	},
	StatusWaitingApproval: {
		ActionComment: StatusWaitingApproval,
		ActionApprove: StatusApprovedWaitingDisbursement,
		ActionReject:  StatusRejected,
	},
	StatusApprovedWaitingDisbursement: {
		ActionDisburse: StatusDisbursed,
	},
}

// String returns the string representation of the status
func (s LoanStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is one of the defined lifecycle states
func (s LoanStatus) IsValid() bool {
	return validStatuses[s]
}

// IsTerminal returns true if no workflow action is legal once the status is reached
func (s LoanStatus) IsTerminal() bool {
	return terminalStatuses[s]
}

// String returns the string representation of the action
func (a LoanAction) String() string {
	return string(a)
}

// IsValid returns true if the action name is recognized
func (a LoanAction) IsValid() bool {
	return validActions[a]
}

// ParseAction converts a raw action name into a LoanAction.
// Unknown names return ErrInvalidAction.
func ParseAction(name string) (LoanAction, error) {
	action := LoanAction(name)
	if !action.IsValid() {
		return "", &InvalidActionError{Action: name}
	}
	return action, nil
}

// NextStatus resolves the resulting status of performing an action at the
// current status. An illegal (status, action) pair returns InvalidTransitionError.
func NextStatus(current LoanStatus, action LoanAction) (LoanStatus, error) {
	if !action.IsValid() {
		return "", &InvalidActionError{Action: string(action)}
	}
	next, ok := transitions[current][action]
	if !ok {
		return "", &InvalidTransitionError{Status: current, Action: action}
	}
	return next, nil
}

// LegalActions returns every action the workflow table permits at the given
// status regardless of role. Terminal statuses return an empty set.
func LegalActions(status LoanStatus) []LoanAction {
	row := transitions[status]
	actions := make([]LoanAction, 0, len(row))
	for action := range row {
		actions = append(actions, action)
	}
	return actions
}
