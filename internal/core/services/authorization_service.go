package services

import (
	"context"

	"loanflow-backend/internal/core/domain"
	"loanflow-backend/internal/pkg/antpath"

	"go.uber.org/zap"
)

// MenuAuthorizationService decides whether a set of roles may reach a
// request path. Active menus carrying a URL pattern claim the paths the
// pattern matches; a claimed path requires an effective grant on at least
// one claiming menu. A path no menu claims is open to any authenticated
// caller, so forgetting to register a menu never locks a route out.
type MenuAuthorizationService struct {
	menuRepo     MenuStore
	roleMenuRepo RoleMenuStore
	logger       *zap.Logger
}

// NewMenuAuthorizationService creates a new menu authorization service
func NewMenuAuthorizationService(menuRepo MenuStore, roleMenuRepo RoleMenuStore, logger *zap.Logger) *MenuAuthorizationService {
	return &MenuAuthorizationService{
		menuRepo:     menuRepo,
		roleMenuRepo: roleMenuRepo,
		logger:       logger,
	}
}

// Authorize reports whether the roles may reach the path. Lookup failures
// deny claimed paths rather than letting a degraded database widen access.
func (s *MenuAuthorizationService) Authorize(ctx context.Context, roles []domain.RoleName, path string) (bool, error) {
	for _, role := range roles {
		if role == domain.RoleAdmin {
			return true, nil
		}
	}

	menus, err := s.menuRepo.ListPathGated(ctx)
	if err != nil {
		s.logger.Error("menu lookup failed, denying request", zap.String("path", path), zap.Error(err))
		return false, err
	}

	claiming := make(map[uint]bool)
	for _, menu := range menus {
		if antpath.Match(menu.URLPattern, path) {
			claiming[menu.ID] = true
		}
	}
	if len(claiming) == 0 {
		return true, nil
	}

	if len(roles) == 0 {
		return false, nil
	}

	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, string(role))
	}
	granted, err := s.roleMenuRepo.EffectiveMenuIDsForRoles(ctx, names)
	if err != nil {
		s.logger.Error("grant lookup failed, denying request", zap.String("path", path), zap.Error(err))
		return false, err
	}

	for menuID := range claiming {
		if granted[menuID] {
			return true, nil
		}
	}
	return false, nil
}
