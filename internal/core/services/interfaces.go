package services

import (
	"context"

	"loanflow-backend/internal/adapters/persistence/models"
)

// Store interfaces consumed by the services. The gorm repositories satisfy
// them; tests substitute function-backed fakes.

// LoanApplicationStore persists loan applications
type LoanApplicationStore interface {
	CreateWithHistory(ctx context.Context, loan *models.LoanApplication, history *models.LoanHistory) error
	GetByID(ctx context.Context, id uint) (*models.LoanApplication, error)
	ListByStatuses(ctx context.Context, statuses []string, offset, limit int) ([]*models.LoanApplication, int64, error)
	ListByUser(ctx context.Context, userID uint) ([]*models.LoanApplication, error)
	UpdateStatusWithHistory(ctx context.Context, loan *models.LoanApplication, fromVersion int, history *models.LoanHistory) error
}

// LoanHistoryStore reads the append-only audit trail
type LoanHistoryStore interface {
	ListByLoanID(ctx context.Context, loanID uint) ([]*models.LoanHistory, error)
	ListByActor(ctx context.Context, actorID uint, month, year int, offset, limit int) ([]*models.LoanHistory, int64, error)
}

// LoanProductStore persists loan products
type LoanProductStore interface {
	Create(ctx context.Context, product *models.LoanProduct) error
	GetByID(ctx context.Context, id uint) (*models.LoanProduct, error)
	GetByCode(ctx context.Context, code string) (*models.LoanProduct, error)
	Update(ctx context.Context, product *models.LoanProduct) error
	ListActive(ctx context.Context) ([]*models.LoanProduct, error)
}

// NotificationStore persists in-app notifications
type NotificationStore interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListByUser(ctx context.Context, userID uint, offset, limit int) ([]*models.Notification, int64, error)
	CountUnread(ctx context.Context, userID uint) (int64, error)
	MarkRead(ctx context.Context, id, userID uint) error
	MarkAllRead(ctx context.Context, userID uint) error
}

// StaffDirectory resolves the recipients of role-wide broadcasts
type StaffDirectory interface {
	ListByRole(ctx context.Context, roleName string) ([]*models.User, error)
}

// MenuStore reads menus for authorization decisions
type MenuStore interface {
	ListPathGated(ctx context.Context) ([]*models.Menu, error)
}

// RoleMenuStore reads effective role-menu grants
type RoleMenuStore interface {
	EffectiveMenuIDsForRoles(ctx context.Context, roleNames []string) (map[uint]bool, error)
}

// PushChannel delivers a push notification to one user's devices
type PushChannel interface {
	Send(ctx context.Context, userID uint, title, body string, data map[string]string) error
}

// DisbursementMailer sends the disbursement confirmation email
type DisbursementMailer interface {
	SendDisbursementNotice(ctx context.Context, to string, loan *models.LoanApplication) error
}
