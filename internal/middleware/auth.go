package middleware

import (
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/civicpulse/backend/internal/config"
	"github.com/civicpulse/backend/internal/dto"
	"github.com/civicpulse/backend/internal/logging"
	"github.com/civicpulse/backend/internal/services"
)

// JWTProtected verifies the bearer token and stores the caller's principal in
// the request locals and log context.
func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: []byte(cfg.JWTSecret)},
		SuccessHandler: func(c *fiber.Ctx) error {
			token, ok := c.Locals("user").(*jwt.Token)
			if !ok {
				return unauthorized(c)
			}
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return unauthorized(c)
			}
			principal, err := services.PrincipalFromClaims(claims)
			if err != nil {
				return unauthorized(c)
			}

			c.Locals(principalKey, principal)
			c.SetUserContext(logging.WithFields(c.UserContext(), logging.Fields{UserID: logging.Ptr(principal.UserID)}))
			return c.Next()
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return unauthorized(c)
		},
	})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error:   true,
		Message: "Unauthorized: invalid or expired token",
	})
}
