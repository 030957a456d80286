package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/civicpulse/backend/internal/logging"
)

// RequestContext copies the request id assigned by the requestid middleware
// into the context handed to services, so every log line of the request carries it.
func RequestContext() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID, _ := c.Locals("requestid").(string)
		if requestID == "" {
			requestID = c.GetRespHeader(fiber.HeaderXRequestID)
		}
		c.SetUserContext(logging.WithFields(c.UserContext(), logging.Fields{RequestID: requestID}))
		return c.Next()
	}
}
