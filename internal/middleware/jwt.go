package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/transify-app/transify-api/internal/token"
	"github.com/transify-app/transify-api/internal/utils"
)

// JWTProtected returns a middleware that validates bearer session tokens and
// exposes the claims through request locals.
func JWTProtected(issuer *token.Issuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authorization := c.Get("Authorization")
		if authorization == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authorization header missing")
		}

		const bearer = "Bearer "
		if !strings.HasPrefix(strings.ToLower(authorization), strings.ToLower(bearer)) {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid authorization header")
		}

		raw := strings.TrimSpace(authorization[len(bearer):])
		if raw == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		claims, err := issuer.Parse(raw)
		if err != nil {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals("user_id", claims.Subject)
		c.Locals("user_email", claims.Email)
		c.Locals("user_role", string(claims.AdminRole))
		c.Locals("organization_id", claims.OrganizationID)

		return c.Next()
	}
}
