package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/civicpulse/backend/internal/services"
)

const principalKey = "principal"

// CurrentPrincipal returns the caller set by JWTProtected.
func CurrentPrincipal(c *fiber.Ctx) (services.Principal, bool) {
	p, ok := c.Locals(principalKey).(services.Principal)
	return p, ok
}

// SetPrincipal stores p as the caller of the request.
func SetPrincipal(c *fiber.Ctx, p services.Principal) {
	c.Locals(principalKey, p)
}
