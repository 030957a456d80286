package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/civicpulse/backend/internal/dto"
	"github.com/civicpulse/backend/internal/models"
	"github.com/civicpulse/backend/internal/services"
)

// WorkflowHandler serves technical officers and external maintainers.
type WorkflowHandler struct {
	workflow *services.WorkflowService
}

func NewWorkflowHandler(workflow *services.WorkflowService) *WorkflowHandler {
	return &WorkflowHandler{workflow: workflow}
}

func (h *WorkflowHandler) ListAssigned(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	reports, err := h.workflow.ListAssigned(c.UserContext(), p.UserID, statusQuery(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(reports)
}

func (h *WorkflowHandler) ListForMaintainer(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	reports, err := h.workflow.ListForMaintainer(c.UserContext(), p.UserID, statusQuery(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(reports)
}

func (h *WorkflowHandler) UpdateStatus(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	reportID, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, "Invalid report id")
	}
	var req dto.UpdateStatusRequest
	if err := bind(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	report, err := h.workflow.UpdateStatus(c.UserContext(), p.UserID, reportID, models.ReportStatus(req.Status), req.Note)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(report)
}

func (h *WorkflowHandler) AssignExternalMaintainer(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	reportID, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, "Invalid report id")
	}
	var req dto.AssignMaintainerRequest
	if err := bind(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	report, err := h.workflow.AssignExternalMaintainer(c.UserContext(), p.UserID, reportID, req.MaintainerID.Int64())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(report)
}

func statusQuery(c *fiber.Ctx) *models.ReportStatus {
	raw := c.Query("status")
	if raw == "" {
		return nil
	}
	s := models.ReportStatus(raw)
	return &s
}
