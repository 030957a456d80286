package handlers

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/civicpulse/backend/internal/dto"
	"github.com/civicpulse/backend/internal/models"
	"github.com/civicpulse/backend/internal/services"
)

// Reviewer decides on pending reports.
type Reviewer interface {
	TransitionPendingReport(ctx context.Context, req services.TransitionRequest) (*services.TransitionResult, error)
}

type ReportHandler struct {
	reports   *services.ReportService
	lifecycle Reviewer
}

func NewReportHandler(reports *services.ReportService, lifecycle Reviewer) *ReportHandler {
	return &ReportHandler{reports: reports, lifecycle: lifecycle}
}

func (h *ReportHandler) Create(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.CreateReportRequest
	if err := bind(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	report, err := h.reports.Create(c.UserContext(), p.UserID, services.CreateReportInput{
		CategoryID:  req.CategoryID.Int64(),
		Title:       req.Title,
		Description: req.Description,
		PositionLat: req.PositionLat,
		PositionLng: req.PositionLng,
		Photos:      req.Photos,
		IsAnonymous: req.IsAnonymous,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}

// ListPublic returns reports shown on the public map, optionally by ?category_id=.
func (h *ReportHandler) ListPublic(c *fiber.Ctx) error {
	var categoryID *int64
	if raw := c.Query("category_id"); raw != "" {
		id, err := dto.ParseID(raw)
		if err != nil {
			return badRequest(c, "Invalid category id")
		}
		categoryID = id.Int64Ptr()
	}

	reports, err := h.reports.ListPublic(c.UserContext(), categoryID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(reports)
}

func (h *ReportHandler) ListMine(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	reports, err := h.reports.ListMine(c.UserContext(), p.UserID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(reports)
}

func (h *ReportHandler) Get(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	reportID, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, "Invalid report id")
	}

	report, err := h.reports.Get(c.UserContext(), p.Actor(), reportID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(report)
}

// Queue lists reports for public relations review, pending ones unless ?status= is given.
func (h *ReportHandler) Queue(c *fiber.Ctx) error {
	var status *models.ReportStatus
	if raw := c.Query("status"); raw != "" {
		s := models.ReportStatus(raw)
		status = &s
	}

	reports, err := h.reports.ListByStatus(c.UserContext(), status)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(reports)
}

// Review accepts or rejects a pending report.
func (h *ReportHandler) Review(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	reportID, err := idParam(c, "reportId")
	if err != nil {
		return badRequest(c, "Invalid report id")
	}
	var req dto.ReviewReportRequest
	if err := bind(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	target := models.ReportStatus(req.Status)
	if target != models.ReportStatusAssigned && target != models.ReportStatusRejected {
		return badRequest(c, services.ErrInvalidTargetStatus.Error())
	}

	result, err := h.lifecycle.TransitionPendingReport(c.UserContext(), services.TransitionRequest{
		ReportID:     reportID,
		TargetStatus: target,
		ReviewerID:   p.UserID,
		Note:         req.Note,
		CategoryID:   req.CategoryID.Int64Ptr(),
		OfficerID:    req.OfficerID.Int64Ptr(),
	})
	if err != nil {
		if isClientError(err) {
			slog.InfoContext(c.UserContext(), "report review refused", "report_id", reportID, "status", target, "reason", err)
		}
		return serviceError(c, err)
	}

	message := "Report rejected"
	if result.Status == models.ReportStatusAssigned {
		message = "Report assigned"
	}
	return c.JSON(dto.MessageResponse{Message: message})
}
