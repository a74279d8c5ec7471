package services

import (
	"context"
	"errors"

	"loanflow-backend/internal/adapters/persistence/models"
	"loanflow-backend/internal/adapters/persistence/repositories"
	"loanflow-backend/internal/core/domain"
	"loanflow-backend/internal/pkg/antpath"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RBACService handles role, menu and grant administration
type RBACService struct {
	userRepo     repositories.UserRepository
	roleRepo     *repositories.RoleRepository
	menuRepo     *repositories.MenuRepository
	roleMenuRepo *repositories.RoleMenuRepository
	logger       *zap.Logger
}

// NewRBACService creates a new RBAC service
func NewRBACService(
	userRepo repositories.UserRepository,
	roleRepo *repositories.RoleRepository,
	menuRepo *repositories.MenuRepository,
	roleMenuRepo *repositories.RoleMenuRepository,
	logger *zap.Logger,
) *RBACService {
	return &RBACService{
		userRepo:     userRepo,
		roleRepo:     roleRepo,
		menuRepo:     menuRepo,
		roleMenuRepo: roleMenuRepo,
		logger:       logger,
	}
}

// ListRoles lists all roles
func (s *RBACService) ListRoles(ctx context.Context) ([]*models.Role, error) {
	return s.roleRepo.List(ctx)
}

// CreateMenuInput represents create menu input
type CreateMenuInput struct {
	Code       string `json:"code" validate:"required"`
	Name       string `json:"name" validate:"required"`
	Category   string `json:"category,omitempty"`
	URLPattern string `json:"url_pattern,omitempty"`
}

// CreateMenu creates a new menu. A non-empty URL pattern must be a valid
// ant-style pattern.
func (s *RBACService) CreateMenu(ctx context.Context, input *CreateMenuInput) (*models.Menu, error) {
	if input.URLPattern != "" && !antpath.ValidPattern(input.URLPattern) {
		return nil, domain.ErrInvalidInput
	}

	if _, err := s.menuRepo.GetByCode(ctx, input.Code); err == nil {
		return nil, domain.ErrDuplicateEntry
	}

	menu := &models.Menu{
		Code:       input.Code,
		Name:       input.Name,
		Category:   input.Category,
		URLPattern: input.URLPattern,
		IsActive:   true,
	}
	if err := s.menuRepo.Create(ctx, menu); err != nil {
		return nil, err
	}

	s.logger.Info("menu created",
		zap.String("code", menu.Code),
		zap.String("pattern", menu.URLPattern))
	return menu, nil
}

// UpdateMenuInput represents update menu input
type UpdateMenuInput struct {
	Name       *string `json:"name"`
	Category   *string `json:"category"`
	URLPattern *string `json:"url_pattern"`
	IsActive   *bool   `json:"is_active"`
}

// UpdateMenu updates a menu
func (s *RBACService) UpdateMenu(ctx context.Context, id uint, input *UpdateMenuInput) (*models.Menu, error) {
	menu, err := s.menuRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMenuNotFound
		}
		return nil, err
	}

	if input.Name != nil {
		menu.Name = *input.Name
	}
	if input.Category != nil {
		menu.Category = *input.Category
	}
	if input.URLPattern != nil {
		if *input.URLPattern != "" && !antpath.ValidPattern(*input.URLPattern) {
			return nil, domain.ErrInvalidInput
		}
		menu.URLPattern = *input.URLPattern
	}
	if input.IsActive != nil {
		menu.IsActive = *input.IsActive
	}

	if err := s.menuRepo.Update(ctx, menu); err != nil {
		return nil, err
	}
	return menu, nil
}

// ListMenus lists menus, optionally by category
func (s *RBACService) ListMenus(ctx context.Context, category string) ([]*models.Menu, error) {
	return s.menuRepo.List(ctx, category)
}

// GrantMenu grants a menu to a role
func (s *RBACService) GrantMenu(ctx context.Context, roleID, menuID uint) error {
	if _, err := s.roleRepo.GetByID(ctx, roleID); err != nil {
		return domain.ErrRoleNotFound
	}
	if _, err := s.menuRepo.GetByID(ctx, menuID); err != nil {
		return domain.ErrMenuNotFound
	}

	if err := s.roleMenuRepo.Grant(ctx, roleID, menuID); err != nil {
		return err
	}

	s.logger.Info("menu granted",
		zap.Uint("role_id", roleID),
		zap.Uint("menu_id", menuID))
	return nil
}

// RevokeMenu revokes a menu from a role
func (s *RBACService) RevokeMenu(ctx context.Context, roleID, menuID uint) error {
	if err := s.roleMenuRepo.Revoke(ctx, roleID, menuID); err != nil {
		return err
	}

	s.logger.Info("menu revoked",
		zap.Uint("role_id", roleID),
		zap.Uint("menu_id", menuID))
	return nil
}

// ListGrants lists a role's grants including revoked ones
func (s *RBACService) ListGrants(ctx context.Context, roleID uint) ([]*models.RoleMenu, error) {
	if _, err := s.roleRepo.GetByID(ctx, roleID); err != nil {
		return nil, domain.ErrRoleNotFound
	}
	return s.roleMenuRepo.ListByRole(ctx, roleID)
}

// AssignRole gives a user a role
func (s *RBACService) AssignRole(ctx context.Context, userID uint, roleName string) error {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return domain.ErrUserNotFound
	}
	role, err := s.roleRepo.GetByName(ctx, roleName)
	if err != nil {
		return domain.ErrRoleNotFound
	}

	if err := s.userRepo.AssignRole(ctx, userID, role.ID); err != nil {
		return err
	}

	s.logger.Info("role assigned",
		zap.Uint("user_id", userID),
		zap.String("role", roleName))
	return nil
}

// RemoveRole takes a role away from a user
func (s *RBACService) RemoveRole(ctx context.Context, userID uint, roleName string) error {
	role, err := s.roleRepo.GetByName(ctx, roleName)
	if err != nil {
		return domain.ErrRoleNotFound
	}
	return s.userRepo.RemoveRole(ctx, userID, role.ID)
}

// ListUsersOutput represents list users output
type ListUsersOutput struct {
	Users      []*models.UserResponse `json:"users"`
	Total      int64                  `json:"total"`
	Page       int                    `json:"page"`
	Limit      int                    `json:"limit"`
	TotalPages int                    `json:"total_pages"`
}

// ListUsers lists users with their roles
func (s *RBACService) ListUsers(ctx context.Context, page, limit int) (*ListUsersOutput, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	users, total, err := s.userRepo.List(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}

	totalPages := int(total) / limit
	if int(total)%limit > 0 {
		totalPages++
	}

	return &ListUsersOutput{
		Users:      responses,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}
