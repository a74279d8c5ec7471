package services

import (
	"context"

	"loanflow-backend/internal/adapters/persistence/models"
)

// Function-backed fakes for the store interfaces. Tests set only the fields
// they need; calling an unset field panics and fails the test loudly.

type mockLoanStore struct {
	CreateWithHistoryFn       func(ctx context.Context, loan *models.LoanApplication, history *models.LoanHistory) error
	GetByIDFn                 func(ctx context.Context, id uint) (*models.LoanApplication, error)
	ListByStatusesFn          func(ctx context.Context, statuses []string, offset, limit int) ([]*models.LoanApplication, int64, error)
	ListByUserFn              func(ctx context.Context, userID uint) ([]*models.LoanApplication, error)
	UpdateStatusWithHistoryFn func(ctx context.Context, loan *models.LoanApplication, fromVersion int, history *models.LoanHistory) error
}

func (m *mockLoanStore) CreateWithHistory(ctx context.Context, loan *models.LoanApplication, history *models.LoanHistory) error {
	return m.CreateWithHistoryFn(ctx, loan, history)
}

func (m *mockLoanStore) GetByID(ctx context.Context, id uint) (*models.LoanApplication, error) {
	return m.GetByIDFn(ctx, id)
}

func (m *mockLoanStore) ListByStatuses(ctx context.Context, statuses []string, offset, limit int) ([]*models.LoanApplication, int64, error) {
	return m.ListByStatusesFn(ctx, statuses, offset, limit)
}

func (m *mockLoanStore) ListByUser(ctx context.Context, userID uint) ([]*models.LoanApplication, error) {
	return m.ListByUserFn(ctx, userID)
}

func (m *mockLoanStore) UpdateStatusWithHistory(ctx context.Context, loan *models.LoanApplication, fromVersion int, history *models.LoanHistory) error {
	return m.UpdateStatusWithHistoryFn(ctx, loan, fromVersion, history)
}

type mockHistoryStore struct {
	ListByLoanIDFn func(ctx context.Context, loanID uint) ([]*models.LoanHistory, error)
	ListByActorFn  func(ctx context.Context, actorID uint, month, year int, offset, limit int) ([]*models.LoanHistory, int64, error)
}

func (m *mockHistoryStore) ListByLoanID(ctx context.Context, loanID uint) ([]*models.LoanHistory, error) {
	return m.ListByLoanIDFn(ctx, loanID)
}

func (m *mockHistoryStore) ListByActor(ctx context.Context, actorID uint, month, year int, offset, limit int) ([]*models.LoanHistory, int64, error) {
	return m.ListByActorFn(ctx, actorID, month, year, offset, limit)
}

type mockProductStore struct {
	CreateFn    func(ctx context.Context, product *models.LoanProduct) error
	GetByIDFn   func(ctx context.Context, id uint) (*models.LoanProduct, error)
	GetByCodeFn func(ctx context.Context, code string) (*models.LoanProduct, error)
	UpdateFn    func(ctx context.Context, product *models.LoanProduct) error
	ListActiveFn func(ctx context.Context) ([]*models.LoanProduct, error)
}

func (m *mockProductStore) Create(ctx context.Context, product *models.LoanProduct) error {
	return m.CreateFn(ctx, product)
}

func (m *mockProductStore) GetByID(ctx context.Context, id uint) (*models.LoanProduct, error) {
	return m.GetByIDFn(ctx, id)
}

func (m *mockProductStore) GetByCode(ctx context.Context, code string) (*models.LoanProduct, error) {
	return m.GetByCodeFn(ctx, code)
}

func (m *mockProductStore) Update(ctx context.Context, product *models.LoanProduct) error {
	return m.UpdateFn(ctx, product)
}

func (m *mockProductStore) ListActive(ctx context.Context) ([]*models.LoanProduct, error) {
	return m.ListActiveFn(ctx)
}

type mockNotificationStore struct {
	created []*models.Notification

	CreateFn      func(ctx context.Context, notification *models.Notification) error
	ListByUserFn  func(ctx context.Context, userID uint, offset, limit int) ([]*models.Notification, int64, error)
	CountUnreadFn func(ctx context.Context, userID uint) (int64, error)
	MarkReadFn    func(ctx context.Context, id, userID uint) error
	MarkAllReadFn func(ctx context.Context, userID uint) error
}

func (m *mockNotificationStore) Create(ctx context.Context, notification *models.Notification) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, notification)
	}
	m.created = append(m.created, notification)
	return nil
}

func (m *mockNotificationStore) ListByUser(ctx context.Context, userID uint, offset, limit int) ([]*models.Notification, int64, error) {
	return m.ListByUserFn(ctx, userID, offset, limit)
}

func (m *mockNotificationStore) CountUnread(ctx context.Context, userID uint) (int64, error) {
	return m.CountUnreadFn(ctx, userID)
}

func (m *mockNotificationStore) MarkRead(ctx context.Context, id, userID uint) error {
	return m.MarkReadFn(ctx, id, userID)
}

func (m *mockNotificationStore) MarkAllRead(ctx context.Context, userID uint) error {
	return m.MarkAllReadFn(ctx, userID)
}

type mockStaffDirectory struct {
	ListByRoleFn func(ctx context.Context, roleName string) ([]*models.User, error)
}

func (m *mockStaffDirectory) ListByRole(ctx context.Context, roleName string) ([]*models.User, error) {
	if m.ListByRoleFn != nil {
		return m.ListByRoleFn(ctx, roleName)
	}
	return nil, nil
}

type mockPushChannel struct {
	sent []pushCall

	SendFn func(ctx context.Context, userID uint, title, body string, data map[string]string) error
}

type pushCall struct {
	UserID uint
	Title  string
	Body   string
	Data   map[string]string
}

func (m *mockPushChannel) Send(ctx context.Context, userID uint, title, body string, data map[string]string) error {
	if m.SendFn != nil {
		return m.SendFn(ctx, userID, title, body, data)
	}
	m.sent = append(m.sent, pushCall{UserID: userID, Title: title, Body: body, Data: data})
	return nil
}

type mockMailer struct {
	sent []string

	SendFn func(ctx context.Context, to string, loan *models.LoanApplication) error
}

func (m *mockMailer) SendDisbursementNotice(ctx context.Context, to string, loan *models.LoanApplication) error {
	if m.SendFn != nil {
		return m.SendFn(ctx, to, loan)
	}
	m.sent = append(m.sent, to)
	return nil
}

type mockMenuStore struct {
	ListPathGatedFn func(ctx context.Context) ([]*models.Menu, error)
}

func (m *mockMenuStore) ListPathGated(ctx context.Context) ([]*models.Menu, error) {
	return m.ListPathGatedFn(ctx)
}

type mockRoleMenuStore struct {
	EffectiveMenuIDsForRolesFn func(ctx context.Context, roleNames []string) (map[uint]bool, error)
}

func (m *mockRoleMenuStore) EffectiveMenuIDsForRoles(ctx context.Context, roleNames []string) (map[uint]bool, error) {
	return m.EffectiveMenuIDsForRolesFn(ctx, roleNames)
}
