package handlers

import (
	"errors"
	"log/slog"

	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"

	"github.com/civicpulse/backend/internal/dto"
	"github.com/civicpulse/backend/internal/middleware"
	"github.com/civicpulse/backend/internal/services"
)

var errorStatus = []struct {
	err    error
	status int
}{
	{services.ErrReportNotFound, fiber.StatusNotFound},
	{services.ErrNotificationNotFound, fiber.StatusNotFound},
	{services.ErrMaintainerNotFound, fiber.StatusNotFound},
	{services.ErrUserNotFound, fiber.StatusNotFound},
	{services.ErrNoAssigneeFound, fiber.StatusNotFound},

	{services.ErrInvalidTargetStatus, fiber.StatusBadRequest},
	{services.ErrMissingNote, fiber.StatusBadRequest},
	{services.ErrCategoryNotFound, fiber.StatusBadRequest},
	{services.ErrInvalidReport, fiber.StatusBadRequest},
	{services.ErrContentRejected, fiber.StatusBadRequest},
	{services.ErrEmptyComment, fiber.StatusBadRequest},
	{services.ErrInvalidInput, fiber.StatusBadRequest},
	{services.ErrUnknownRole, fiber.StatusBadRequest},

	{services.ErrInvalidTransition, fiber.StatusForbidden},
	{services.ErrOfficerCategoryMismatch, fiber.StatusForbidden},
	{services.ErrMaintainerCategoryMismatch, fiber.StatusForbidden},
	{services.ErrNotReportStaff, fiber.StatusForbidden},
	{services.ErrCommentForbidden, fiber.StatusForbidden},

	{services.ErrEmailTaken, fiber.StatusConflict},
	{services.ErrInvalidCredentials, fiber.StatusUnauthorized},
	{services.ErrInvalidToken, fiber.StatusUnauthorized},
}

// serviceError writes the response for an error returned by a service.
// Unknown errors are logged, reported to Sentry and hidden behind a 500.
func serviceError(c *fiber.Ctx, err error) error {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			return errorJSON(c, e.status, err.Error())
		}
	}

	slog.ErrorContext(c.UserContext(), "request failed", "method", c.Method(), "path", c.Path(), "error", err)
	if hub := sentryfiber.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	}
	return errorJSON(c, fiber.StatusInternalServerError, "Internal server error")
}

func errorJSON(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func badRequest(c *fiber.Ctx, message string) error {
	return errorJSON(c, fiber.StatusBadRequest, message)
}

// bind decodes and validates the request body.
func bind(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return errors.New("Invalid request body")
	}
	return dto.Validate(req)
}

func idParam(c *fiber.Ctx, name string) (int64, error) {
	id, err := dto.ParseID(c.Params(name))
	if err != nil {
		return 0, err
	}
	return id.Int64(), nil
}

func principal(c *fiber.Ctx) (services.Principal, error) {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return services.Principal{}, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	return p, nil
}

func isClientError(err error) bool {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			return true
		}
	}
	return false
}
