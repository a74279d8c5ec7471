package services

import (
	"context"
	"testing"

	"loanflow-backend/internal/adapters/persistence/models"
	"loanflow-backend/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestReminderRunOnce_OnlyNonEmptyQueues(t *testing.T) {
	loanStore := &mockLoanStore{
		ListByStatusesFn: func(ctx context.Context, statuses []string, offset, limit int) ([]*models.LoanApplication, int64, error) {
			// Only the branch manager queue has work waiting.
			for _, status := range statuses {
				if status == string(domain.StatusWaitingApproval) {
					return nil, 3, nil
				}
			}
			return nil, 0, nil
		},
	}

	store := &mockNotificationStore{}
	staff := &mockStaffDirectory{
		ListByRoleFn: func(ctx context.Context, roleName string) ([]*models.User, error) {
			assert.Equal(t, string(domain.RoleBranchManager), roleName)
			return []*models.User{{ID: 20}}, nil
		},
	}
	dispatcher := NewNotificationDispatcher(store, staff, nil, nil, zap.NewNop())

	svc := NewReminderService(loanStore, dispatcher, "0 8 * * *", zap.NewNop())
	svc.RunOnce()

	assert.Len(t, store.created, 1)
	assert.Equal(t, uint(20), store.created[0].UserID)
	assert.Equal(t, "Pengingat Antrian", store.created[0].Title)
}
