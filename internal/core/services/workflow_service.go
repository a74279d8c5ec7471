package services

import (
	"context"
	"errors"
	"time"

	"loanflow-backend/internal/adapters/persistence/models"
	"loanflow-backend/internal/core/domain"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LoanWorkflowService drives loan applications through the lifecycle state
// machine. Every mutation goes through exactly one path: resolve the
// transition, check the actor may request it, then persist the new status
// together with one history row.
type LoanWorkflowService struct {
	loanRepo    LoanApplicationStore
	historyRepo LoanHistoryStore
	productRepo LoanProductStore
	dispatcher  *NotificationDispatcher
	logger      *zap.Logger
}

// NewLoanWorkflowService creates a new loan workflow service
func NewLoanWorkflowService(
	loanRepo LoanApplicationStore,
	historyRepo LoanHistoryStore,
	productRepo LoanProductStore,
	dispatcher *NotificationDispatcher,
	logger *zap.Logger,
) *LoanWorkflowService {
	return &LoanWorkflowService{
		loanRepo:    loanRepo,
		historyRepo: historyRepo,
		productRepo: productRepo,
		dispatcher:  dispatcher,
		logger:      logger,
	}
}

// SubmitLoanInput represents submit loan input
type SubmitLoanInput struct {
	ProductID    uint    `json:"product_id" validate:"required"`
	Amount       float64 `json:"amount" validate:"required,gt=0"`
	TenureMonths int     `json:"tenure_months" validate:"required,gt=0"`
}

// SubmitLoan creates a new loan application in SUBMITTED together with its
// initial history row
func (s *LoanWorkflowService) SubmitLoan(ctx context.Context, actor domain.Actor, input *SubmitLoanInput) (*models.LoanApplication, error) {
	product, err := s.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}

	if input.Amount < product.MinAmount || input.Amount > product.MaxAmount {
		return nil, domain.ErrInvalidInput
	}
	if input.TenureMonths < 1 || input.TenureMonths > product.MaxTenureMonths {
		return nil, domain.ErrInvalidInput
	}

	loan := &models.LoanApplication{
		UserID:        actor.UserID,
		ProductID:     product.ID,
		Amount:        input.Amount,
		TenureMonths:  input.TenureMonths,
		InterestRate:  product.InterestRate,
		TotalPayable:  totalPayable(input.Amount, product.InterestRate, input.TenureMonths),
		CurrentStatus: string(domain.StatusSubmitted),
		Version:       1,
	}
	history := &models.LoanHistory{
		ActorUserID: actor.UserID,
		Action:      string(domain.ActionSubmit),
		FromStatus:  nil,
		ToStatus:    string(domain.StatusSubmitted),
	}

	if err := s.loanRepo.CreateWithHistory(ctx, loan, history); err != nil {
		return nil, err
	}

	s.logger.Info("loan application submitted",
		zap.Uint("loan_id", loan.ID),
		zap.Uint("user_id", actor.UserID),
		zap.Float64("amount", loan.Amount))

	s.dispatcher.DispatchSubmission(ctx, loan)

	return loan, nil
}

// totalPayable computes principal plus flat annual interest over the tenure
func totalPayable(amount, annualRate float64, tenureMonths int) float64 {
	return amount * (1 + annualRate/100*float64(tenureMonths)/12)
}

// PerformActionInput represents perform action input
type PerformActionInput struct {
	Action  string `json:"action" validate:"required"`
	Comment string `json:"comment,omitempty"`
}

// PerformAction applies one workflow action to a loan on behalf of the
// actor. The transition is validated against the state machine first, then
// against the actor's roles, and persisted atomically with its history row.
// A concurrent transition surfaces as ErrLoanConflict.
func (s *LoanWorkflowService) PerformAction(ctx context.Context, actor domain.Actor, loanID uint, input *PerformActionInput) (*models.LoanApplication, error) {
	action, err := domain.ParseAction(input.Action)
	if err != nil {
		return nil, err
	}

	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLoanNotFound
		}
		return nil, err
	}

	from := loan.Status()
	to, err := domain.NextStatus(from, action)
	if err != nil {
		return nil, err
	}

	if !domain.CanPerform(from, actor.Roles, action) {
		return nil, &domain.ActionForbiddenError{Status: from, Action: action}
	}

	if action == domain.ActionReject && input.Comment == "" {
		return nil, domain.ErrInvalidInput
	}

	fromVersion := loan.Version
	fromStatus := string(from)
	loan.CurrentStatus = string(to)
	history := &models.LoanHistory{
		ActorUserID: actor.UserID,
		Action:      string(action),
		Comment:     input.Comment,
		FromStatus:  &fromStatus,
		ToStatus:    string(to),
	}

	if err := s.loanRepo.UpdateStatusWithHistory(ctx, loan, fromVersion, history); err != nil {
		return nil, err
	}

	s.logger.Info("loan action performed",
		zap.Uint("loan_id", loan.ID),
		zap.Uint("actor_id", actor.UserID),
		zap.String("action", string(action)),
		zap.String("from", fromStatus),
		zap.String("to", string(to)))

	s.dispatcher.DispatchTransition(ctx, loan, from, to)

	return loan, nil
}

// CompletePayment records full repayment of a disbursed loan, moving it to
// PAID. This is triggered from outside the six workflow actions, so the
// history row carries the PAYMENT marker instead.
func (s *LoanWorkflowService) CompletePayment(ctx context.Context, actor domain.Actor, loanID uint) (*models.LoanApplication, error) {
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLoanNotFound
		}
		return nil, err
	}

	if loan.Status() != domain.StatusDisbursed {
		return nil, domain.ErrLoanNotDisbursed
	}

	fromVersion := loan.Version
	fromStatus := loan.CurrentStatus
	now := time.Now()
	loan.CurrentStatus = string(domain.StatusPaid)
	loan.IsPaid = true
	loan.PaidAt = &now
	history := &models.LoanHistory{
		ActorUserID: actor.UserID,
		Action:      models.HistoryActionPayment,
		FromStatus:  &fromStatus,
		ToStatus:    string(domain.StatusPaid),
	}

	if err := s.loanRepo.UpdateStatusWithHistory(ctx, loan, fromVersion, history); err != nil {
		return nil, err
	}

	s.logger.Info("loan payment completed",
		zap.Uint("loan_id", loan.ID),
		zap.Uint("actor_id", actor.UserID))

	s.dispatcher.DispatchTransition(ctx, loan, domain.StatusDisbursed, domain.StatusPaid)

	return loan, nil
}

// GetLoan returns one loan. Applicants see only their own; staff and admin
// see any.
func (s *LoanWorkflowService) GetLoan(ctx context.Context, actor domain.Actor, loanID uint) (*models.LoanApplication, error) {
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLoanNotFound
		}
		return nil, err
	}
	if !s.canView(actor, loan) {
		return nil, domain.ErrForbidden
	}
	return loan, nil
}

// MyLoans lists the actor's own loan applications
func (s *LoanWorkflowService) MyLoans(ctx context.Context, actor domain.Actor) ([]*models.LoanApplication, error) {
	return s.loanRepo.ListByUser(ctx, actor.UserID)
}

// QueueOutput represents a staff work queue page
type QueueOutput struct {
	Loans      []*models.LoanApplication
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// Queue lists the loans waiting on any of the actor's staff roles, oldest
// first
func (s *LoanWorkflowService) Queue(ctx context.Context, actor domain.Actor, page, limit int) (*QueueOutput, error) {
	statuses := domain.QueueStatuses(actor.Roles...)
	if len(statuses) == 0 {
		return nil, domain.ErrForbidden
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	names := make([]string, 0, len(statuses))
	for _, status := range statuses {
		names = append(names, string(status))
	}

	loans, total, err := s.loanRepo.ListByStatuses(ctx, names, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	totalPages := int(total) / limit
	if int(total)%limit > 0 {
		totalPages++
	}

	return &QueueOutput{
		Loans:      loans,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// History returns a loan's audit trail, newest first, under the same
// visibility rule as GetLoan
func (s *LoanWorkflowService) History(ctx context.Context, actor domain.Actor, loanID uint) ([]*models.LoanHistory, error) {
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLoanNotFound
		}
		return nil, err
	}
	if !s.canView(actor, loan) {
		return nil, domain.ErrForbidden
	}
	return s.historyRepo.ListByLoanID(ctx, loanID)
}

// ActivityReport lists the history rows an actor wrote, optionally limited
// to one month, newest first
func (s *LoanWorkflowService) ActivityReport(ctx context.Context, actorID uint, month, year, page, limit int) ([]*models.LoanHistory, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return s.historyRepo.ListByActor(ctx, actorID, month, year, (page-1)*limit, limit)
}

func (s *LoanWorkflowService) canView(actor domain.Actor, loan *models.LoanApplication) bool {
	if loan.UserID == actor.UserID {
		return true
	}
	if actor.HasRole(domain.RoleAdmin) {
		return true
	}
	for _, role := range actor.Roles {
		if domain.IsStaffRole(role) {
			return true
		}
	}
	return false
}
