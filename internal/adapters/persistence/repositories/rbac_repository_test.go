package repositories

import (
	"context"
	"testing"

	"loanflow-backend/internal/adapters/persistence/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedRBAC(t *testing.T, db *gorm.DB) (*models.Role, *models.Menu) {
	t.Helper()
	role := &models.Role{Name: "MARKETING", Description: "Marketing staff"}
	require.NoError(t, db.Create(role).Error)
	menu := &models.Menu{
		Code:       "LOAN_REVIEW",
		Name:       "Review Pengajuan",
		Category:   "workflow",
		URLPattern: "/api/v1/loans/*/actions",
		IsActive:   true,
	}
	require.NoError(t, db.Create(menu).Error)
	return role, menu
}

func TestRoleMenuRepository_GrantRevokeReinstate(t *testing.T) {
	db := newTestDB(t)
	repo := NewRoleMenuRepository(db)
	role, menu := seedRBAC(t, db)
	ctx := context.Background()

	require.NoError(t, repo.Grant(ctx, role.ID, menu.ID))

	ids, err := repo.EffectiveMenuIDsForRoles(ctx, []string{role.Name})
	require.NoError(t, err)
	assert.True(t, ids[menu.ID])

	require.NoError(t, repo.Revoke(ctx, role.ID, menu.ID))

	ids, err = repo.EffectiveMenuIDsForRoles(ctx, []string{role.Name})
	require.NoError(t, err)
	assert.False(t, ids[menu.ID])

	// Regranting reinstates the existing row instead of inserting a second.
	require.NoError(t, repo.Grant(ctx, role.ID, menu.ID))

	ids, err = repo.EffectiveMenuIDsForRoles(ctx, []string{role.Name})
	require.NoError(t, err)
	assert.True(t, ids[menu.ID])

	var count int64
	db.Model(&models.RoleMenu{}).
		Where("role_id = ? AND menu_id = ?", role.ID, menu.ID).
		Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRoleMenuRepository_EffectiveMenuIDsForRoles_Empty(t *testing.T) {
	db := newTestDB(t)
	repo := NewRoleMenuRepository(db)

	ids, err := repo.EffectiveMenuIDsForRoles(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestMenuRepository_ListPathGated(t *testing.T) {
	db := newTestDB(t)
	repo := NewMenuRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Menu{
		Code: "GATED", Name: "Gated", URLPattern: "/api/v1/admin/**", IsActive: true,
	}))
	require.NoError(t, repo.Create(ctx, &models.Menu{
		Code: "UNGATED", Name: "Ungated", URLPattern: "", IsActive: true,
	}))
	require.NoError(t, repo.Create(ctx, &models.Menu{
		Code: "DISABLED", Name: "Disabled", URLPattern: "/api/v1/reports/**", IsActive: false,
	}))

	menus, err := repo.ListPathGated(ctx)
	require.NoError(t, err)
	require.Len(t, menus, 1)
	assert.Equal(t, "GATED", menus[0].Code)
}

func TestMenuRepository_CreateDisabledStaysDisabled(t *testing.T) {
	db := newTestDB(t)
	repo := NewMenuRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Menu{
		Code: "DRAFT", Name: "Draft", URLPattern: "/api/v1/drafts/**", IsActive: false,
	}))

	menu, err := repo.GetByCode(ctx, "DRAFT")
	require.NoError(t, err)
	assert.False(t, menu.IsActive)
}
