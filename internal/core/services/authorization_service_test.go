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

func newAuthzService(menus []*models.Menu, granted map[uint]bool) *MenuAuthorizationService {
	menuStore := &mockMenuStore{
		ListPathGatedFn: func(ctx context.Context) ([]*models.Menu, error) {
			return menus, nil
		},
	}
	roleMenuStore := &mockRoleMenuStore{
		EffectiveMenuIDsForRolesFn: func(ctx context.Context, roleNames []string) (map[uint]bool, error) {
			return granted, nil
		},
	}
	return NewMenuAuthorizationService(menuStore, roleMenuStore, zap.NewNop())
}

func TestAuthorize_AdminBypassesMenus(t *testing.T) {
	menuStore := &mockMenuStore{
		ListPathGatedFn: func(ctx context.Context) ([]*models.Menu, error) {
			t.Fatal("admin must not hit the menu store")
			return nil, nil
		},
	}
	svc := NewMenuAuthorizationService(menuStore, &mockRoleMenuStore{}, zap.NewNop())

	allowed, err := svc.Authorize(context.Background(), []domain.RoleName{domain.RoleAdmin}, "/api/v1/admin/menus")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestAuthorize_UnclaimedPathIsOpen(t *testing.T) {
	svc := newAuthzService([]*models.Menu{
		{ID: 1, URLPattern: "/api/v1/admin/**"},
	}, map[uint]bool{})

	allowed, err := svc.Authorize(context.Background(), []domain.RoleName{domain.RoleUser}, "/api/v1/products")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestAuthorize_NoRolesOnUnclaimedPath(t *testing.T) {
	// A role-less authenticated actor still reaches paths no pattern claims;
	// the empty-roles denial applies only once a menu has claimed the path.
	svc := newAuthzService([]*models.Menu{
		{ID: 1, URLPattern: "/api/v1/admin/**"},
	}, map[uint]bool{})

	allowed, err := svc.Authorize(context.Background(), nil, "/api/v1/notifications")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestAuthorize_ClaimedPathRequiresGrant(t *testing.T) {
	menus := []*models.Menu{
		{ID: 1, URLPattern: "/api/v1/loans/queue"},
		{ID: 2, URLPattern: "/api/v1/admin/**"},
	}

	svc := newAuthzService(menus, map[uint]bool{1: true})
	allowed, err := svc.Authorize(context.Background(), []domain.RoleName{domain.RoleMarketing}, "/api/v1/loans/queue")
	require.NoError(t, err)
	assert.True(t, allowed, "granted role passes")

	svc = newAuthzService(menus, map[uint]bool{})
	allowed, err = svc.Authorize(context.Background(), []domain.RoleName{domain.RoleUser}, "/api/v1/loans/queue")
	require.NoError(t, err)
	assert.False(t, allowed, "role without grant is denied")
}

func TestAuthorize_WildcardClaim(t *testing.T) {
	menus := []*models.Menu{
		{ID: 5, URLPattern: "/api/v1/admin/**"},
	}
	svc := newAuthzService(menus, map[uint]bool{})

	allowed, err := svc.Authorize(context.Background(), []domain.RoleName{domain.RoleMarketing}, "/api/v1/admin/menus/3/grants")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestAuthorize_NoRolesOnClaimedPath(t *testing.T) {
	roleMenuStore := &mockRoleMenuStore{
		EffectiveMenuIDsForRolesFn: func(ctx context.Context, roleNames []string) (map[uint]bool, error) {
			t.Fatal("no roles means no grant lookup")
			return nil, nil
		},
	}
	menuStore := &mockMenuStore{
		ListPathGatedFn: func(ctx context.Context) ([]*models.Menu, error) {
			return []*models.Menu{{ID: 1, URLPattern: "/api/v1/loans/queue"}}, nil
		},
	}
	svc := NewMenuAuthorizationService(menuStore, roleMenuStore, zap.NewNop())

	allowed, err := svc.Authorize(context.Background(), nil, "/api/v1/loans/queue")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestAuthorize_LookupFailureDenies(t *testing.T) {
	menuStore := &mockMenuStore{
		ListPathGatedFn: func(ctx context.Context) ([]*models.Menu, error) {
			return nil, errors.New("db down")
		},
	}
	svc := NewMenuAuthorizationService(menuStore, &mockRoleMenuStore{}, zap.NewNop())

	allowed, err := svc.Authorize(context.Background(), []domain.RoleName{domain.RoleMarketing}, "/api/v1/loans/queue")
	assert.Error(t, err)
	assert.False(t, allowed)
}
