package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/civicpulse/backend/internal/dto"
	"github.com/civicpulse/backend/internal/models"
)

// RoleRequired lets the request through when the caller holds at least one
// role of the given types. It must run after JWTProtected.
func RoleRequired(types ...models.RoleType) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := CurrentPrincipal(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		actor := principal.Actor()
		for _, t := range types {
			if actor.Has(t) {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Insufficient role for this resource",
		})
	}
}
