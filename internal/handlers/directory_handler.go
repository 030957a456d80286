package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/civicpulse/backend/internal/dto"
	"github.com/civicpulse/backend/internal/services"
	"github.com/civicpulse/backend/internal/store"
)

type DirectoryHandler struct {
	directory *services.DirectoryService
}

func NewDirectoryHandler(directory *services.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{directory: directory}
}

func (h *DirectoryHandler) Categories(c *fiber.Ctx) error {
	categories, err := h.directory.Categories(c.UserContext())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(categories)
}

func (h *DirectoryHandler) Operators(c *fiber.Ctx) error {
	operators, err := h.directory.Operators(c.UserContext())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(operators)
}

func (h *DirectoryHandler) OperatorsForCategory(c *fiber.Ctx) error {
	categoryID, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, "Invalid category id")
	}

	operators, err := h.directory.OperatorsForCategory(c.UserContext(), categoryID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(operators)
}

// ExternalMaintainers accepts optional ?company_id= and ?category_id= filters.
func (h *DirectoryHandler) ExternalMaintainers(c *fiber.Ctx) error {
	var filter store.MaintainerFilter
	for param, dst := range map[string]**int64{
		"company_id":  &filter.CompanyID,
		"category_id": &filter.CategoryID,
	} {
		raw := c.Query(param)
		if raw == "" {
			continue
		}
		id, err := dto.ParseID(raw)
		if err != nil {
			return badRequest(c, "Invalid "+param)
		}
		*dst = id.Int64Ptr()
	}

	maintainers, err := h.directory.ExternalMaintainers(c.UserContext(), filter)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(maintainers)
}
