package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/civicpulse/backend/internal/dto"
	"github.com/civicpulse/backend/internal/services"
)

type CommentHandler struct {
	comments *services.CommentService
}

func NewCommentHandler(comments *services.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// List returns the external thread of a report, or the internal one with ?internal=true.
func (h *CommentHandler) List(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	reportID, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, "Invalid report id")
	}

	comments, err := h.comments.List(c.UserContext(), p.Actor(), reportID, c.QueryBool("internal"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(comments)
}

func (h *CommentHandler) Create(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	reportID, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, "Invalid report id")
	}
	var req dto.CreateCommentRequest
	if err := bind(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	comment, err := h.comments.Create(c.UserContext(), p.Actor(), reportID, req.Content, req.Internal)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}
