package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// RequireRole lets the request through only if the token's role is one of roles.
// It must run after JWTMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("role").(string)
		for _, r := range roles {
			if role == r {
				return c.Next()
			}
		}
		return JsonResponse(c, fiber.StatusUnauthorized, false, "User not authorized to access this route", nil)
	}
}
