package repositories

import (
	"context"
	"testing"
	"time"

	"loanflow-backend/internal/adapters/persistence/models"
	"loanflow-backend/internal/core/domain"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))
	return db
}

func seedApplicant(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		Username: "budi",
		Email:    "budi@example.com",
		Password: "hashed",
		FullName: "Budi Santoso",
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedProduct(t *testing.T, db *gorm.DB) *models.LoanProduct {
	t.Helper()
	product := &models.LoanProduct{
		Code:            "KTA",
		Name:            "Kredit Tanpa Agunan",
		InterestRate:    12.5,
		MinAmount:       1_000_000,
		MaxAmount:       50_000_000,
		MaxTenureMonths: 36,
		IsActive:        true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func seedLoan(t *testing.T, db *gorm.DB, userID, productID uint, status domain.LoanStatus) *models.LoanApplication {
	t.Helper()
	loan := &models.LoanApplication{
		UserID:        userID,
		ProductID:     productID,
		Amount:        10_000_000,
		TenureMonths:  12,
		InterestRate:  12.5,
		TotalPayable:  11_250_000,
		CurrentStatus: string(status),
		Version:       1,
	}
	require.NoError(t, db.Create(loan).Error)
	return loan
}

func TestLoanApplicationRepository_CreateWithHistory(t *testing.T) {
	db := newTestDB(t)
	repo := NewLoanApplicationRepository(db)
	user := seedApplicant(t, db)
	product := seedProduct(t, db)

	loan := &models.LoanApplication{
		UserID:        user.ID,
		ProductID:     product.ID,
		Amount:        5_000_000,
		TenureMonths:  6,
		InterestRate:  12.5,
		TotalPayable:  5_312_500,
		CurrentStatus: string(domain.StatusSubmitted),
		Version:       1,
	}
	history := &models.LoanHistory{
		ActorUserID: user.ID,
		Action:      string(domain.ActionSubmit),
		FromStatus:  nil,
		ToStatus:    string(domain.StatusSubmitted),
	}

	err := repo.CreateWithHistory(context.Background(), loan, history)
	require.NoError(t, err)
	assert.NotZero(t, loan.ID)
	assert.Equal(t, loan.ID, history.LoanApplicationID)

	var count int64
	db.Model(&models.LoanHistory{}).Where("loan_application_id = ?", loan.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestLoanApplicationRepository_UpdateStatusWithHistory(t *testing.T) {
	db := newTestDB(t)
	repo := NewLoanApplicationRepository(db)
	user := seedApplicant(t, db)
	product := seedProduct(t, db)
	loan := seedLoan(t, db, user.ID, product.ID, domain.StatusInReview)

	loan.CurrentStatus = string(domain.StatusWaitingApproval)
	history := &models.LoanHistory{
		ActorUserID: user.ID,
		Action:      string(domain.ActionForwardToManager),
		FromStatus:  strPtr(string(domain.StatusInReview)),
		ToStatus:    string(domain.StatusWaitingApproval),
	}

	err := repo.UpdateStatusWithHistory(context.Background(), loan, 1, history)
	require.NoError(t, err)
	assert.Equal(t, 2, loan.Version)

	var stored models.LoanApplication
	require.NoError(t, db.First(&stored, loan.ID).Error)
	assert.Equal(t, string(domain.StatusWaitingApproval), stored.CurrentStatus)
	assert.Equal(t, 2, stored.Version)

	var count int64
	db.Model(&models.LoanHistory{}).Where("loan_application_id = ?", loan.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestLoanApplicationRepository_UpdateStatusWithHistory_StaleVersion(t *testing.T) {
	db := newTestDB(t)
	repo := NewLoanApplicationRepository(db)
	user := seedApplicant(t, db)
	product := seedProduct(t, db)
	loan := seedLoan(t, db, user.ID, product.ID, domain.StatusWaitingApproval)

	// First writer wins.
	first := *loan
	first.CurrentStatus = string(domain.StatusApprovedWaitingDisbursement)
	err := repo.UpdateStatusWithHistory(context.Background(), &first, 1, &models.LoanHistory{
		ActorUserID: user.ID,
		Action:      string(domain.ActionApprove),
		FromStatus:  strPtr(string(domain.StatusWaitingApproval)),
		ToStatus:    string(domain.StatusApprovedWaitingDisbursement),
	})
	require.NoError(t, err)

	// Second writer read version 1 before the first committed.
	second := *loan
	second.CurrentStatus = string(domain.StatusRejected)
	err = repo.UpdateStatusWithHistory(context.Background(), &second, 1, &models.LoanHistory{
		ActorUserID: user.ID,
		Action:      string(domain.ActionReject),
		FromStatus:  strPtr(string(domain.StatusWaitingApproval)),
		ToStatus:    string(domain.StatusRejected),
	})
	assert.ErrorIs(t, err, domain.ErrLoanConflict)

	// The losing attempt left no trace: status and history reflect only
	// the first writer.
	var stored models.LoanApplication
	require.NoError(t, db.First(&stored, loan.ID).Error)
	assert.Equal(t, string(domain.StatusApprovedWaitingDisbursement), stored.CurrentStatus)
	assert.Equal(t, 2, stored.Version)

	var count int64
	db.Model(&models.LoanHistory{}).Where("loan_application_id = ?", loan.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestLoanApplicationRepository_ListByStatuses(t *testing.T) {
	db := newTestDB(t)
	repo := NewLoanApplicationRepository(db)
	user := seedApplicant(t, db)
	product := seedProduct(t, db)

	seedLoan(t, db, user.ID, product.ID, domain.StatusSubmitted)
	seedLoan(t, db, user.ID, product.ID, domain.StatusInReview)
	seedLoan(t, db, user.ID, product.ID, domain.StatusDisbursed)

	loans, total, err := repo.ListByStatuses(context.Background(), []string{
		string(domain.StatusSubmitted),
		string(domain.StatusInReview),
	}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, loans, 2)
	for _, loan := range loans {
		assert.NotEqual(t, string(domain.StatusDisbursed), loan.CurrentStatus)
	}
}

func TestLoanHistoryRepository_ListByLoanID_NewestFirst(t *testing.T) {
	db := newTestDB(t)
	historyRepo := NewLoanHistoryRepository(db)
	user := seedApplicant(t, db)
	product := seedProduct(t, db)
	loan := seedLoan(t, db, user.ID, product.ID, domain.StatusInReview)

	ctx := context.Background()
	entries := []string{
		string(domain.ActionSubmit),
		string(domain.ActionComment),
		string(domain.ActionForwardToManager),
	}
	for _, action := range entries {
		require.NoError(t, historyRepo.Create(ctx, &models.LoanHistory{
			LoanApplicationID: loan.ID,
			ActorUserID:       user.ID,
			Action:            action,
			ToStatus:          string(domain.StatusInReview),
		}))
	}

	rows, err := historyRepo.ListByLoanID(ctx, loan.ID)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, string(domain.ActionForwardToManager), rows[0].Action)
	assert.Equal(t, string(domain.ActionComment), rows[1].Action)
	assert.Equal(t, string(domain.ActionSubmit), rows[2].Action)
}

func TestLoanHistoryRepository_ListByActor_MonthFilter(t *testing.T) {
	db := newTestDB(t)
	historyRepo := NewLoanHistoryRepository(db)
	user := seedApplicant(t, db)
	product := seedProduct(t, db)
	loan := seedLoan(t, db, user.ID, product.ID, domain.StatusInReview)

	ctx := context.Background()
	stamps := []time.Time{
		time.Date(2026, time.January, 31, 23, 59, 0, 0, time.Local),
		time.Date(2026, time.February, 1, 0, 1, 0, 0, time.Local),
		time.Date(2026, time.February, 15, 9, 30, 0, 0, time.Local),
		time.Date(2026, time.March, 1, 8, 0, 0, 0, time.Local),
	}
	for _, stamp := range stamps {
		require.NoError(t, historyRepo.Create(ctx, &models.LoanHistory{
			LoanApplicationID: loan.ID,
			ActorUserID:       user.ID,
			Action:            string(domain.ActionComment),
			ToStatus:          string(domain.StatusInReview),
			CreatedAt:         stamp,
		}))
	}

	rows, total, err := historyRepo.ListByActor(ctx, user.ID, 2, 2026, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, time.February, row.CreatedAt.Month())
	}

	// Month zero means no filter.
	rows, total, err = historyRepo.ListByActor(ctx, user.ID, 0, 0, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	require.Len(t, rows, 4)
}

func strPtr(s string) *string {
	return &s
}
