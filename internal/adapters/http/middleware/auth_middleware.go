package middleware

import (
	"strings"

	"loanflow-backend/internal/config"
	"loanflow-backend/internal/core/domain"
	"loanflow-backend/internal/core/services"
	"loanflow-backend/internal/pkg/jwt"
	"loanflow-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware creates authentication middleware
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var accessToken string

		// 1. Try to get token from cookie first
		accessToken = c.Cookies("access_token")

		// 2. If not in cookie, try Authorization header
		if accessToken == "" {
			authHeader := c.Get("Authorization")
			if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
				accessToken = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		// 3. No token found
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		// 4. Validate token
		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		// 5. Set user info in context
		c.Locals("userID", claims.UserID)
		c.Locals("username", claims.Username)
		c.Locals("roles", claims.Roles)

		return c.Next()
	}
}

// ActorFromContext builds the domain actor from the authenticated request
func ActorFromContext(c *fiber.Ctx) domain.Actor {
	actor := domain.Actor{}
	if userID, ok := c.Locals("userID").(uint); ok {
		actor.UserID = userID
	}
	if username, ok := c.Locals("username").(string); ok {
		actor.Username = username
	}
	if roles, ok := c.Locals("roles").([]string); ok {
		actor.Roles = make([]domain.RoleName, 0, len(roles))
		for _, role := range roles {
			actor.Roles = append(actor.Roles, domain.RoleName(role))
		}
	}
	return actor
}

// RoleMiddleware creates role-based authorization middleware. The request
// passes if the user holds any of the allowed roles.
func RoleMiddleware(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roles, ok := c.Locals("roles").([]string)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		for _, role := range roles {
			for _, allowed := range allowedRoles {
				if role == allowed {
					return c.Next()
				}
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// AdminOnly middleware allows only ADMIN role
func AdminOnly() fiber.Handler {
	return RoleMiddleware(string(domain.RoleAdmin))
}

// StaffOnly middleware allows workflow staff and admin
func StaffOnly() fiber.Handler {
	return RoleMiddleware(
		string(domain.RoleAdmin),
		string(domain.RoleMarketing),
		string(domain.RoleBranchManager),
		string(domain.RoleBackOffice),
	)
}

// MenuGuard authorizes the request path against the dynamic menu grants.
// Must run after AuthMiddleware.
func MenuGuard(authz *services.MenuAuthorizationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := ActorFromContext(c)
		if actor.UserID == 0 {
			return response.Unauthorized(c, "Unauthorized")
		}

		allowed, err := authz.Authorize(c.UserContext(), actor.Roles, c.Path())
		if err != nil {
			return response.InternalServerError(c, "Authorization check failed")
		}
		if !allowed {
			return response.Forbidden(c, "You don't have permission to access this resource")
		}
		return c.Next()
	}
}
