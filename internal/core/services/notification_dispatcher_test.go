package services

import (
	"context"
	"errors"
	"testing"

	"loanflow-backend/internal/adapters/persistence/models"
	"loanflow-backend/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDispatchTransition_NotifiesApplicant(t *testing.T) {
	store := &mockNotificationStore{}
	push := &mockPushChannel{}
	d := NewNotificationDispatcher(store, &mockStaffDirectory{}, push, nil, zap.NewNop())

	loan := &models.LoanApplication{ID: 42, UserID: 7}
	d.DispatchTransition(context.Background(), loan, domain.StatusSubmitted, domain.StatusInReview)

	require.Len(t, store.created, 1)
	assert.Equal(t, uint(7), store.created[0].UserID)
	assert.Equal(t, "Pengajuan Sedang Ditinjau", store.created[0].Title)
	require.NotNil(t, store.created[0].LoanApplicationID)
	assert.Equal(t, uint(42), *store.created[0].LoanApplicationID)

	require.Len(t, push.sent, 1)
	assert.Equal(t, uint(7), push.sent[0].UserID)
	assert.Equal(t, map[string]string{
		"loan_id":     "42",
		"from_status": string(domain.StatusSubmitted),
		"to_status":   string(domain.StatusInReview),
	}, push.sent[0].Data)
}

func TestDispatchTransition_BroadcastsToApprovalQueue(t *testing.T) {
	store := &mockNotificationStore{}
	staff := &mockStaffDirectory{
		ListByRoleFn: func(ctx context.Context, roleName string) ([]*models.User, error) {
			require.Equal(t, string(domain.RoleBranchManager), roleName)
			return []*models.User{{ID: 20}, {ID: 21}}, nil
		},
	}
	d := NewNotificationDispatcher(store, staff, nil, nil, zap.NewNop())

	loan := &models.LoanApplication{ID: 42, UserID: 7}
	d.DispatchTransition(context.Background(), loan, domain.StatusInReview, domain.StatusWaitingApproval)

	// One applicant notification plus one per branch manager.
	require.Len(t, store.created, 3)
	recipients := []uint{store.created[0].UserID, store.created[1].UserID, store.created[2].UserID}
	assert.ElementsMatch(t, []uint{7, 20, 21}, recipients)
}

func TestDispatchTransition_DisbursementEmail(t *testing.T) {
	store := &mockNotificationStore{}
	mailer := &mockMailer{}
	d := NewNotificationDispatcher(store, &mockStaffDirectory{}, nil, mailer, zap.NewNop())

	loan := &models.LoanApplication{
		ID:     42,
		UserID: 7,
		User:   &models.User{ID: 7, Email: "budi@example.com"},
	}
	d.DispatchTransition(context.Background(), loan, domain.StatusApprovedWaitingDisbursement, domain.StatusDisbursed)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "budi@example.com", mailer.sent[0])
}

func TestDispatchTransition_FailuresAreSwallowed(t *testing.T) {
	store := &mockNotificationStore{
		CreateFn: func(ctx context.Context, notification *models.Notification) error {
			return errors.New("insert failed")
		},
	}
	push := &mockPushChannel{
		SendFn: func(ctx context.Context, userID uint, title, body string, data map[string]string) error {
			return errors.New("gateway unreachable")
		},
	}
	mailer := &mockMailer{
		SendFn: func(ctx context.Context, to string, loan *models.LoanApplication) error {
			return errors.New("smtp refused")
		},
	}
	d := NewNotificationDispatcher(store, &mockStaffDirectory{}, push, mailer, zap.NewNop())

	loan := &models.LoanApplication{
		ID:     42,
		UserID: 7,
		User:   &models.User{ID: 7, Email: "budi@example.com"},
	}

	assert.NotPanics(t, func() {
		d.DispatchTransition(context.Background(), loan, domain.StatusApprovedWaitingDisbursement, domain.StatusDisbursed)
	})
}

func TestDispatchSubmission_NotifiesMarketing(t *testing.T) {
	store := &mockNotificationStore{}
	staff := &mockStaffDirectory{
		ListByRoleFn: func(ctx context.Context, roleName string) ([]*models.User, error) {
			require.Equal(t, string(domain.RoleMarketing), roleName)
			return []*models.User{{ID: 10}}, nil
		},
	}
	d := NewNotificationDispatcher(store, staff, nil, nil, zap.NewNop())

	d.DispatchSubmission(context.Background(), &models.LoanApplication{ID: 42, UserID: 7})

	require.Len(t, store.created, 1)
	assert.Equal(t, uint(10), store.created[0].UserID)
}
