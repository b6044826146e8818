package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/transify-app/transify-api/internal/rbac"
	"github.com/transify-app/transify-api/internal/utils"
)

// RequirePermission ensures the authenticated admin's role grants the given
// permission. Must run after JWTProtected.
func RequirePermission(permission rbac.Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roleValue, _ := c.Locals("user_role").(string)
		role, ok := rbac.ParseRole(roleValue)
		if !ok || !rbac.HasPermission(role, permission) {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}
		return c.Next()
	}
}

// RequireSuperAdmin is a shorthand for the admin-management permission gate.
func RequireSuperAdmin() fiber.Handler {
	return RequirePermission(rbac.PermManageAdmins)
}
