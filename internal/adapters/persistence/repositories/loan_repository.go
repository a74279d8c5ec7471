package repositories

import (
	"context"
	"time"

	"loanflow-backend/internal/adapters/persistence/models"
	"loanflow-backend/internal/core/domain"

	"gorm.io/gorm"
)

// LoanApplicationRepository handles loan application data access
type LoanApplicationRepository struct {
	db *gorm.DB
}

// NewLoanApplicationRepository creates a new loan application repository
func NewLoanApplicationRepository(db *gorm.DB) *LoanApplicationRepository {
	return &LoanApplicationRepository{db: db}
}

// CreateWithHistory inserts a new loan application together with its initial
// history row in one transaction. The history row's loan reference is filled
// in after the insert assigns an ID.
func (r *LoanApplicationRepository) CreateWithHistory(ctx context.Context, loan *models.LoanApplication, history *models.LoanHistory) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(loan).Error; err != nil {
			return err
		}
		history.LoanApplicationID = loan.ID
		return tx.Create(history).Error
	})
}

// GetByID gets a loan application by ID with applicant and product
func (r *LoanApplicationRepository) GetByID(ctx context.Context, id uint) (*models.LoanApplication, error) {
	var loan models.LoanApplication
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Product").
		First(&loan, id).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// ListByStatuses lists loan applications whose current status is in the given
// set, oldest first so staff work queues drain in arrival order
func (r *LoanApplicationRepository) ListByStatuses(ctx context.Context, statuses []string, offset, limit int) ([]*models.LoanApplication, int64, error) {
	var loans []*models.LoanApplication
	var total int64

	r.db.WithContext(ctx).
		Model(&models.LoanApplication{}).
		Where("current_status IN ?", statuses).
		Count(&total)

	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Product").
		Where("current_status IN ?", statuses).
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&loans).Error

	return loans, total, err
}

// ListByUser lists a user's own loan applications, newest first
func (r *LoanApplicationRepository) ListByUser(ctx context.Context, userID uint) ([]*models.LoanApplication, error) {
	var loans []*models.LoanApplication
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&loans).Error
	return loans, err
}

// UpdateStatusWithHistory persists a workflow transition: the status (and
// payment fields) of the loan plus exactly one history row, atomically.
// The update is guarded by the version read before validation; a concurrent
// transition bumps the version first and this call fails with ErrLoanConflict
// leaving nothing written.
func (r *LoanApplicationRepository) UpdateStatusWithHistory(ctx context.Context, loan *models.LoanApplication, fromVersion int, history *models.LoanHistory) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.LoanApplication{}).
			Where("id = ? AND version = ?", loan.ID, fromVersion).
			Updates(map[string]interface{}{
				"current_status": loan.CurrentStatus,
				"version":        fromVersion + 1,
				"is_paid":        loan.IsPaid,
				"paid_at":        loan.PaidAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrLoanConflict
		}
		loan.Version = fromVersion + 1

		history.LoanApplicationID = loan.ID
		return tx.Create(history).Error
	})
}

// LoanHistoryRepository handles the append-only audit trail. It exposes only
// append and reads; history rows are never updated or deleted.
type LoanHistoryRepository struct {
	db *gorm.DB
}

// NewLoanHistoryRepository creates a new loan history repository
func NewLoanHistoryRepository(db *gorm.DB) *LoanHistoryRepository {
	return &LoanHistoryRepository{db: db}
}

// Create appends a history row
func (r *LoanHistoryRepository) Create(ctx context.Context, history *models.LoanHistory) error {
	return r.db.WithContext(ctx).Create(history).Error
}

// ListByLoanID lists a loan's history rows, newest first
func (r *LoanHistoryRepository) ListByLoanID(ctx context.Context, loanID uint) ([]*models.LoanHistory, error) {
	var rows []*models.LoanHistory
	err := r.db.WithContext(ctx).
		Preload("Actor").
		Where("loan_application_id = ?", loanID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	return rows, err
}

// CountByLoanID counts a loan's history rows
func (r *LoanHistoryRepository) CountByLoanID(ctx context.Context, loanID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.LoanHistory{}).
		Where("loan_application_id = ?", loanID).
		Count(&count).Error
	return count, err
}

// ListByActor lists history rows written by an actor, optionally restricted
// to one month of one year, paginated newest first
func (r *LoanHistoryRepository) ListByActor(ctx context.Context, actorID uint, month, year int, offset, limit int) ([]*models.LoanHistory, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.LoanHistory{}).
		Where("actor_user_id = ?", actorID)

	if month >= 1 && month <= 12 && year > 0 {
		start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
		query = query.Where("created_at >= ? AND created_at < ?", start, start.AddDate(0, 1, 0))
	}

	var total int64
	query.Count(&total)

	var rows []*models.LoanHistory
	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error

	return rows, total, err
}
