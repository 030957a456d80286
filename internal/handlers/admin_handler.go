package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/civicpulse/backend/internal/dto"
	"github.com/civicpulse/backend/internal/services"
)

type AdminHandler struct {
	authService *services.AuthService
}

func NewAdminHandler(authService *services.AuthService) *AdminHandler {
	return &AdminHandler{authService: authService}
}

// CreateUser creates a staff account with the given role names.
func (h *AdminHandler) CreateUser(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := bind(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	user, err := h.authService.CreateOperator(c.UserContext(), &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(services.ToUserResponse(user))
}

func (h *AdminHandler) ListRoles(c *fiber.Ctx) error {
	roles, err := h.authService.ListRoles(c.UserContext())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(roles)
}
