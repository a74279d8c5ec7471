package repositories

import (
	"context"
	"time"

	"loanflow-backend/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RoleRepository handles role data access
type RoleRepository struct {
	db *gorm.DB
}

// NewRoleRepository creates a new role repository
func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// GetByID gets a role by ID
func (r *RoleRepository) GetByID(ctx context.Context, id uint) (*models.Role, error) {
	var role models.Role
	if err := r.db.WithContext(ctx).First(&role, id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// GetByName gets a role by name
func (r *RoleRepository) GetByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&role).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// List lists all roles
func (r *RoleRepository) List(ctx context.Context) ([]*models.Role, error) {
	var roles []*models.Role
	err := r.db.WithContext(ctx).Order("name ASC").Find(&roles).Error
	return roles, err
}

// MenuRepository handles menu data access
type MenuRepository struct {
	db *gorm.DB
}

// NewMenuRepository creates a new menu repository
func NewMenuRepository(db *gorm.DB) *MenuRepository {
	return &MenuRepository{db: db}
}

// Create creates a new menu
func (r *MenuRepository) Create(ctx context.Context, menu *models.Menu) error {
	return r.db.WithContext(ctx).Create(menu).Error
}

// GetByID gets a menu by ID
func (r *MenuRepository) GetByID(ctx context.Context, id uint) (*models.Menu, error) {
	var menu models.Menu
	if err := r.db.WithContext(ctx).First(&menu, id).Error; err != nil {
		return nil, err
	}
	return &menu, nil
}

// GetByCode gets a menu by its unique code
func (r *MenuRepository) GetByCode(ctx context.Context, code string) (*models.Menu, error) {
	var menu models.Menu
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&menu).Error
	if err != nil {
		return nil, err
	}
	return &menu, nil
}

// Update updates a menu
func (r *MenuRepository) Update(ctx context.Context, menu *models.Menu) error {
	return r.db.WithContext(ctx).Save(menu).Error
}

// List lists all menus, optionally filtered by category
func (r *MenuRepository) List(ctx context.Context, category string) ([]*models.Menu, error) {
	query := r.db.WithContext(ctx).Model(&models.Menu{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	var menus []*models.Menu
	err := query.Order("code ASC").Find(&menus).Error
	return menus, err
}

// ListPathGated lists active menus carrying a URL pattern. These are the
// menus that participate in request path authorization.
func (r *MenuRepository) ListPathGated(ctx context.Context) ([]*models.Menu, error) {
	var menus []*models.Menu
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("url_pattern <> ''").
		Find(&menus).Error
	return menus, err
}

// RoleMenuRepository handles role-menu grant data access
type RoleMenuRepository struct {
	db *gorm.DB
}

// NewRoleMenuRepository creates a new role-menu repository
func NewRoleMenuRepository(db *gorm.DB) *RoleMenuRepository {
	return &RoleMenuRepository{db: db}
}

// Grant makes a role-menu grant effective. If a revoked grant already exists
// for the pair it is reinstated in place, keeping one row per pair.
func (r *RoleMenuRepository) Grant(ctx context.Context, roleID, menuID uint) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "role_id"}, {Name: "menu_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"revoked_at": nil}),
		}).
		Create(&models.RoleMenu{RoleID: roleID, MenuID: menuID}).Error
}

// Revoke stamps a grant revoked. Revoking an already revoked or missing
// grant is a no-op.
func (r *RoleMenuRepository) Revoke(ctx context.Context, roleID, menuID uint) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&models.RoleMenu{}).
		Where("role_id = ? AND menu_id = ?", roleID, menuID).
		Where("revoked_at IS NULL").
		Update("revoked_at", &now).Error
}

// ListByRole lists all grants of a role, effective and revoked, with menus
func (r *RoleMenuRepository) ListByRole(ctx context.Context, roleID uint) ([]*models.RoleMenu, error) {
	var grants []*models.RoleMenu
	err := r.db.WithContext(ctx).
		Preload("Menu").
		Where("role_id = ?", roleID).
		Find(&grants).Error
	return grants, err
}

// EffectiveMenuIDsForRoles returns the set of menu IDs any of the given
// roles holds an effective grant on
func (r *RoleMenuRepository) EffectiveMenuIDsForRoles(ctx context.Context, roleNames []string) (map[uint]bool, error) {
	if len(roleNames) == 0 {
		return map[uint]bool{}, nil
	}

	var menuIDs []uint
	err := r.db.WithContext(ctx).
		Model(&models.RoleMenu{}).
		Joins("JOIN roles ON roles.id = role_menus.role_id").
		Where("roles.name IN ?", roleNames).
		Where("role_menus.revoked_at IS NULL").
		Distinct().
		Pluck("role_menus.menu_id", &menuIDs).Error
	if err != nil {
		return nil, err
	}

	ids := make(map[uint]bool, len(menuIDs))
	for _, id := range menuIDs {
		ids[id] = true
	}
	return ids, nil
}
