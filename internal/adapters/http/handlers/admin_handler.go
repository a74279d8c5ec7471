package handlers

import (
	"errors"

	"loanflow-backend/internal/core/domain"
	"loanflow-backend/internal/core/services"
	"loanflow-backend/internal/pkg/pagination"
	"loanflow-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler handles role, menu and grant administration endpoints
type AdminHandler struct {
	rbacService *services.RBACService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(rbacService *services.RBACService) *AdminHandler {
	return &AdminHandler{rbacService: rbacService}
}

// ListRoles lists all roles
// @Summary List roles
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /admin/roles [get]
func (h *AdminHandler) ListRoles(c *fiber.Ctx) error {
	roles, err := h.rbacService.ListRoles(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list roles")
	}
	return response.Success(c, "Roles retrieved", fiber.Map{"roles": roles})
}

// ListUsers lists users with roles
// @Summary List users
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	output, err := h.rbacService.ListUsers(c.Context(), params.Page, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list users")
	}
	return response.Success(c, "Users retrieved", output)
}

// RoleAssignmentRequest represents role assignment request body
type RoleAssignmentRequest struct {
	Role string `json:"role"`
}

// AssignRole gives a user a role
// @Summary Assign role to user
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param body body RoleAssignmentRequest true "Role name"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/users/{id}/roles [post]
func (h *AdminHandler) AssignRole(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("id")
	if err != nil || userID < 1 {
		return response.BadRequest(c, "Invalid user ID")
	}

	var req RoleAssignmentRequest
	if err := c.BodyParser(&req); err != nil || req.Role == "" {
		return response.BadRequest(c, "Role is required")
	}

	if err := h.rbacService.AssignRole(c.Context(), uint(userID), req.Role); err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, domain.ErrRoleNotFound):
			return response.NotFound(c, "Role not found")
		default:
			return response.InternalServerError(c, "Failed to assign role")
		}
	}
	return response.Success(c, "Role assigned", nil)
}

// RemoveRole takes a role away from a user
// @Summary Remove role from user
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param body body RoleAssignmentRequest true "Role name"
// @Success 200 {object} response.Response
// @Router /admin/users/{id}/roles [delete]
func (h *AdminHandler) RemoveRole(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("id")
	if err != nil || userID < 1 {
		return response.BadRequest(c, "Invalid user ID")
	}

	var req RoleAssignmentRequest
	if err := c.BodyParser(&req); err != nil || req.Role == "" {
		return response.BadRequest(c, "Role is required")
	}

	if err := h.rbacService.RemoveRole(c.Context(), uint(userID), req.Role); err != nil {
		if errors.Is(err, domain.ErrRoleNotFound) {
			return response.NotFound(c, "Role not found")
		}
		return response.InternalServerError(c, "Failed to remove role")
	}
	return response.Success(c, "Role removed", nil)
}

// ListMenus lists menus
// @Summary List menus
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param category query string false "Category filter"
// @Success 200 {object} response.Response
// @Router /admin/menus [get]
func (h *AdminHandler) ListMenus(c *fiber.Ctx) error {
	menus, err := h.rbacService.ListMenus(c.Context(), c.Query("category"))
	if err != nil {
		return response.InternalServerError(c, "Failed to list menus")
	}
	return response.Success(c, "Menus retrieved", fiber.Map{"menus": menus})
}

// CreateMenu creates a menu
// @Summary Create menu
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateMenuInput true "Menu data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/menus [post]
func (h *AdminHandler) CreateMenu(c *fiber.Ctx) error {
	var input services.CreateMenuInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.Code == "" || input.Name == "" {
		return response.BadRequest(c, "Code and name are required")
	}

	menu, err := h.rbacService.CreateMenu(c.Context(), &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateEntry):
			return response.Conflict(c, "Menu code already exists")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Invalid URL pattern")
		default:
			return response.InternalServerError(c, "Failed to create menu")
		}
	}
	return response.Created(c, "Menu created", fiber.Map{"menu": menu})
}

// UpdateMenu updates a menu
// @Summary Update menu
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Menu ID"
// @Param body body services.UpdateMenuInput true "Menu data"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/menus/{id} [put]
func (h *AdminHandler) UpdateMenu(c *fiber.Ctx) error {
	menuID, err := c.ParamsInt("id")
	if err != nil || menuID < 1 {
		return response.BadRequest(c, "Invalid menu ID")
	}

	var input services.UpdateMenuInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	menu, err := h.rbacService.UpdateMenu(c.Context(), uint(menuID), &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMenuNotFound):
			return response.NotFound(c, "Menu not found")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Invalid URL pattern")
		default:
			return response.InternalServerError(c, "Failed to update menu")
		}
	}
	return response.Success(c, "Menu updated", fiber.Map{"menu": menu})
}

// ListGrants lists a role's menu grants
// @Summary List role grants
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Role ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/roles/{id}/menus [get]
func (h *AdminHandler) ListGrants(c *fiber.Ctx) error {
	roleID, err := c.ParamsInt("id")
	if err != nil || roleID < 1 {
		return response.BadRequest(c, "Invalid role ID")
	}

	grants, err := h.rbacService.ListGrants(c.Context(), uint(roleID))
	if err != nil {
		if errors.Is(err, domain.ErrRoleNotFound) {
			return response.NotFound(c, "Role not found")
		}
		return response.InternalServerError(c, "Failed to list grants")
	}
	return response.Success(c, "Grants retrieved", fiber.Map{"grants": grants})
}

// GrantMenu grants a menu to a role
// @Summary Grant menu to role
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Role ID"
// @Param menuId path int true "Menu ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/roles/{id}/menus/{menuId} [post]
func (h *AdminHandler) GrantMenu(c *fiber.Ctx) error {
	roleID, err := c.ParamsInt("id")
	if err != nil || roleID < 1 {
		return response.BadRequest(c, "Invalid role ID")
	}
	menuID, err := c.ParamsInt("menuId")
	if err != nil || menuID < 1 {
		return response.BadRequest(c, "Invalid menu ID")
	}

	if err := h.rbacService.GrantMenu(c.Context(), uint(roleID), uint(menuID)); err != nil {
		switch {
		case errors.Is(err, domain.ErrRoleNotFound):
			return response.NotFound(c, "Role not found")
		case errors.Is(err, domain.ErrMenuNotFound):
			return response.NotFound(c, "Menu not found")
		default:
			return response.InternalServerError(c, "Failed to grant menu")
		}
	}
	return response.Success(c, "Menu granted", nil)
}

// RevokeMenu revokes a menu from a role
// @Summary Revoke menu from role
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Role ID"
// @Param menuId path int true "Menu ID"
// @Success 200 {object} response.Response
// @Router /admin/roles/{id}/menus/{menuId} [delete]
func (h *AdminHandler) RevokeMenu(c *fiber.Ctx) error {
	roleID, err := c.ParamsInt("id")
	if err != nil || roleID < 1 {
		return response.BadRequest(c, "Invalid role ID")
	}
	menuID, err := c.ParamsInt("menuId")
	if err != nil || menuID < 1 {
		return response.BadRequest(c, "Invalid menu ID")
	}

	if err := h.rbacService.RevokeMenu(c.Context(), uint(roleID), uint(menuID)); err != nil {
		return response.InternalServerError(c, "Failed to revoke menu")
	}
	return response.Success(c, "Menu revoked", nil)
}
