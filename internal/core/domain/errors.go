package domain

import (
	"errors"
	"fmt"
)

// Common domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateEntry     = errors.New("duplicate entry")
)

// User and RBAC errors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrRoleNotFound      = errors.New("role not found")
	ErrMenuNotFound      = errors.New("menu not found")
)

// Loan workflow errors
var (
	ErrLoanNotFound      = errors.New("loan application not found")
	ErrProductNotFound   = errors.New("loan product not found")
	ErrInvalidAction     = errors.New("invalid loan action")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrActionForbidden   = errors.New("role not permitted to perform this action")
	ErrLoanConflict      = errors.New("loan application was modified concurrently")
	ErrLoanNotDisbursed  = errors.New("loan application is not disbursed")
)

// InvalidActionError reports an unrecognized action name
type InvalidActionError struct {
	Action string
}

func (e *InvalidActionError) Error() string {
	return fmt.Sprintf("unknown loan action %q", e.Action)
}

// Is makes the error match ErrInvalidAction for errors.Is checks
func (e *InvalidActionError) Is(target error) bool {
	return target == ErrInvalidAction
}

// InvalidTransitionError reports a recognized action that is illegal at the
// loan's current status
type InvalidTransitionError struct {
	Status LoanStatus
	Action LoanAction
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("action %s is not allowed while status is %s", e.Action, e.Status)
}

// Is makes the error match ErrInvalidTransition for errors.Is checks
func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// ActionForbiddenError reports an actor whose roles do not grant the
// requested action at the loan's current status
type ActionForbiddenError struct {
	Status LoanStatus
	Action LoanAction
}

func (e *ActionForbiddenError) Error() string {
	return fmt.Sprintf("none of your roles may perform %s while status is %s", e.Action, e.Status)
}

// Is makes the error match ErrActionForbidden for errors.Is checks
func (e *ActionForbiddenError) Is(target error) bool {
	return target == ErrActionForbidden
}
