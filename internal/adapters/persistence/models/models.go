package models

import (
	"time"

	"gorm.io/gorm"

	"loanflow-backend/internal/core/domain"
)

// ============================================================
// Identity & RBAC
// ============================================================

// User represents the users table
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	FullName  string         `gorm:"size:100" json:"full_name"`
	IsActive  bool           `gorm:"not null" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Roles []Role `gorm:"many2many:user_roles" json:"roles,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// RoleNames returns the user's role names in domain form
func (u *User) RoleNames() []domain.RoleName {
	names := make([]domain.RoleName, 0, len(u.Roles))
	for _, role := range u.Roles {
		names = append(names, domain.RoleName(role.Name))
	}
	return names
}

// UserResponse DTO
type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Roles     []string  `json:"roles"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	roles := make([]string, 0, len(u.Roles))
	for _, role := range u.Roles {
		roles = append(roles, role.Name)
	}
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FullName:  u.FullName,
		Roles:     roles,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// Role represents the roles table
type Role struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:50;not null" json:"name"`
	Description string    `gorm:"size:200" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Users []User `gorm:"many2many:user_roles" json:"-"`
}

func (Role) TableName() string {
	return "roles"
}

// Menu represents an addressable capability, optionally bound to an
// ant-style URL pattern. An empty pattern means the menu is not path-gated.
type Menu struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Code       string    `gorm:"uniqueIndex;size:50;not null" json:"code"`
	Name       string    `gorm:"size:100;not null" json:"name"`
	Category   string    `gorm:"size:50" json:"category"`
	URLPattern string    `gorm:"size:200" json:"url_pattern"`
	IsActive   bool      `gorm:"not null" json:"is_active"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Menu) TableName() string {
	return "menus"
}

// RoleMenu joins roles to menus. Revocation is a timestamp rather than a
// hard delete so the grant audit survives; a grant is effective iff
// revoked_at IS NULL.
type RoleMenu struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	RoleID    uint       `gorm:"not null;uniqueIndex:idx_role_menu" json:"role_id"`
	MenuID    uint       `gorm:"not null;uniqueIndex:idx_role_menu" json:"menu_id"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Role *Role `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	Menu *Menu `gorm:"foreignKey:MenuID" json:"menu,omitempty"`
}

func (RoleMenu) TableName() string {
	return "role_menus"
}

// IsEffective returns true if the grant is currently in force
func (rm *RoleMenu) IsEffective() bool {
	return rm.RevokedAt == nil
}

// RefreshToken represents the refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Loan master data
// ============================================================

// LoanProduct represents the loan_products table
type LoanProduct struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Code            string         `gorm:"size:20;uniqueIndex;not null" json:"code"`
	Name            string         `gorm:"size:100;not null" json:"name"`
	Description     string         `gorm:"type:text" json:"description"`
	InterestRate    float64        `gorm:"type:decimal(5,2);not null" json:"interest_rate"`
	MinAmount       float64        `gorm:"type:decimal(15,2);not null" json:"min_amount"`
	MaxAmount       float64        `gorm:"type:decimal(15,2);not null" json:"max_amount"`
	MaxTenureMonths int            `gorm:"not null" json:"max_tenure_months"`
	IsActive        bool           `gorm:"not null" json:"is_active"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (LoanProduct) TableName() string {
	return "loan_products"
}

// ============================================================
// Loan workflow
// ============================================================

// LoanApplication represents the loan_applications table. CurrentStatus is
// the only field the workflow engine mutates on a transition; Version backs
// the optimistic concurrency check around that mutation.
type LoanApplication struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	UserID        uint       `gorm:"not null;index" json:"user_id"`
	ProductID     uint       `gorm:"not null" json:"product_id"`
	Amount        float64    `gorm:"type:decimal(15,2);not null" json:"amount"`
	TenureMonths  int        `gorm:"not null" json:"tenure_months"`
	InterestRate  float64    `gorm:"type:decimal(5,2);not null" json:"interest_rate"`
	TotalPayable  float64    `gorm:"type:decimal(15,2);not null" json:"total_payable"`
	CurrentStatus string     `gorm:"size:40;not null;index" json:"current_status"`
	Version       int        `gorm:"not null;default:1" json:"-"`
	IsPaid        bool       `gorm:"default:false" json:"is_paid"`
	PaidAt        *time.Time `json:"paid_at"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	User    *User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Product *LoanProduct `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (LoanApplication) TableName() string {
	return "loan_applications"
}

// Status returns the current status in domain form
func (l *LoanApplication) Status() domain.LoanStatus {
	return domain.LoanStatus(l.CurrentStatus)
}

// LoanApplicationResponse DTO
type LoanApplicationResponse struct {
	ID             uint       `json:"id"`
	UserID         uint       `json:"user_id"`
	ApplicantName  string     `json:"applicant_name,omitempty"`
	ProductID      uint       `json:"product_id"`
	ProductName    string     `json:"product_name,omitempty"`
	Amount         float64    `json:"amount"`
	TenureMonths   int        `json:"tenure_months"`
	InterestRate   float64    `json:"interest_rate"`
	TotalPayable   float64    `json:"total_payable"`
	CurrentStatus  string     `json:"current_status"`
	IsPaid         bool       `json:"is_paid"`
	PaidAt         *time.Time `json:"paid_at,omitempty"`
	AllowedActions []string   `json:"allowed_actions,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (l *LoanApplication) ToResponse() *LoanApplicationResponse {
	resp := &LoanApplicationResponse{
		ID:            l.ID,
		UserID:        l.UserID,
		ProductID:     l.ProductID,
		Amount:        l.Amount,
		TenureMonths:  l.TenureMonths,
		InterestRate:  l.InterestRate,
		TotalPayable:  l.TotalPayable,
		CurrentStatus: l.CurrentStatus,
		IsPaid:        l.IsPaid,
		PaidAt:        l.PaidAt,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
	if l.User != nil {
		resp.ApplicantName = l.User.FullName
	}
	if l.Product != nil {
		resp.ProductName = l.Product.Name
	}
	return resp
}

// WithAllowedActions annotates the response with the actions the given roles
// may request at the loan's current status
func (r *LoanApplicationResponse) WithAllowedActions(roles []domain.RoleName) *LoanApplicationResponse {
	actions := domain.AllowedActions(domain.LoanStatus(r.CurrentStatus), roles)
	r.AllowedActions = make([]string, 0, len(actions))
	for _, action := range actions {
		r.AllowedActions = append(r.AllowedActions, string(action))
	}
	return r
}

// LoanHistory represents the loan_history table. Rows are append-only: the
// workflow engine inserts exactly one row per successful operation and
// nothing ever updates or deletes them.
type LoanHistory struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	LoanApplicationID uint      `gorm:"not null;index" json:"loan_application_id"`
	ActorUserID       uint      `gorm:"not null;index" json:"actor_user_id"`
	Action            string    `gorm:"size:40;not null" json:"action"`
	Comment           string    `gorm:"type:text" json:"comment"`
	FromStatus        *string   `gorm:"size:40" json:"from_status"`
	ToStatus          string    `gorm:"size:40;not null" json:"to_status"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`

	LoanApplication *LoanApplication `gorm:"foreignKey:LoanApplicationID" json:"-"`
	Actor           *User            `gorm:"foreignKey:ActorUserID" json:"actor,omitempty"`
}

func (LoanHistory) TableName() string {
	return "loan_history"
}

// History action recorded for the external payment-completion trigger,
// which is not one of the six workflow actions.
const HistoryActionPayment = "PAYMENT"

// ============================================================
// Notifications
// ============================================================

// Notification represents the in-app notifications table
type Notification struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	UserID            uint       `gorm:"not null;index" json:"user_id"`
	LoanApplicationID *uint      `gorm:"index" json:"loan_application_id"`
	Title             string     `gorm:"size:200;not null" json:"title"`
	Body              string     `gorm:"type:text" json:"body"`
	IsRead            bool       `gorm:"default:false" json:"is_read"`
	ReadAt            *time.Time `json:"read_at"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Role{},
		&RefreshToken{},
		&Menu{},
		&RoleMenu{},
		&LoanProduct{},
		&LoanApplication{},
		&LoanHistory{},
		&Notification{},
	)
}
