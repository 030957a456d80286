package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/civicpulse/backend/internal/logging"
	"github.com/civicpulse/backend/internal/models"
	"github.com/civicpulse/backend/internal/store"
)

// WorkflowService covers the transitions made by the staff working on a report
// once it has left pending_approval.
type WorkflowService struct {
	reports   store.ReportStore
	directory store.OperatorDirectory
	users     store.UserStore
	notifier  Notifier
}

func NewWorkflowService(reports store.ReportStore, directory store.OperatorDirectory, users store.UserStore, notifier Notifier) *WorkflowService {
	return &WorkflowService{
		reports:   reports,
		directory: directory,
		users:     users,
		notifier:  notifier,
	}
}

// UpdateStatus applies an operator transition. The actor must be the assignee
// or the external maintainer of the report.
func (s *WorkflowService) UpdateStatus(ctx context.Context, actorID, reportID int64, target models.ReportStatus, note *string) (*models.Report, error) {
	ctx = logging.WithFields(ctx, logging.Fields{ReportID: logging.Ptr(reportID), Component: "workflow"})

	report, err := s.getReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if !report.InvolvesStaff(actorID) {
		return nil, ErrNotReportStaff
	}
	if !target.Valid() {
		return nil, ErrInvalidTargetStatus
	}
	if !report.Status.OperatorOwned() || !report.Status.CanTransitionTo(target) {
		return nil, ErrInvalidTransition
	}

	// Reports carry a note only when rejected; an operator note travels in the
	// citizen notification instead.
	patch := models.ReportPatch{Status: models.Set(target)}

	changed, err := s.reports.UpdateStatusAndAssign(ctx, report.ID, report.Status, patch)
	if err != nil {
		return nil, fmt.Errorf("update report: %w", err)
	}
	if !changed {
		return nil, ErrInvalidTransition
	}

	slog.InfoContext(ctx, "report status updated", "from", report.Status, "to", target, "actor_id", actorID)
	report.Status = target

	message := report.Title
	if note != nil && strings.TrimSpace(*note) != "" {
		message = *note
	}
	if _, err := s.notifier.CreateAndDispatch(ctx, NotificationInput{
		UserID:   report.UserID,
		Type:     models.NotificationStatusUpdate,
		ReportID: report.ID,
		Title:    statusTitle(target),
		Message:  &message,
		Metadata: map[string]any{"status": target},
	}); err != nil {
		slog.WarnContext(ctx, "status notification failed", "error", err)
	}
	return report, nil
}

// AssignExternalMaintainer hands an assigned report over to a contractor whose
// company covers the report category.
func (s *WorkflowService) AssignExternalMaintainer(ctx context.Context, officerID, reportID, maintainerID int64) (*models.Report, error) {
	ctx = logging.WithFields(ctx, logging.Fields{ReportID: logging.Ptr(reportID), Component: "workflow"})

	report, err := s.getReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.AssignedTo == nil || *report.AssignedTo != officerID {
		return nil, ErrNotReportStaff
	}
	if !report.Status.OperatorOwned() || report.Status == models.ReportStatusResolved {
		return nil, ErrInvalidTransition
	}

	maintainer, err := s.users.GetByID(ctx, maintainerID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrMaintainerNotFound
		}
		return nil, fmt.Errorf("get maintainer: %w", err)
	}
	if !maintainer.HasRole(models.RoleTypeExternalMaintainer) {
		return nil, ErrMaintainerNotFound
	}

	covered, err := s.directory.CategoriesOfExternalMaintainer(ctx, maintainerID)
	if err != nil {
		return nil, fmt.Errorf("get maintainer categories: %w", err)
	}
	if !slices.Contains(covered, report.CategoryID) {
		return nil, ErrMaintainerCategoryMismatch
	}

	changed, err := s.reports.UpdateStatusAndAssign(ctx, report.ID, report.Status, models.ReportPatch{
		ExternalMaintainerID: models.Set(maintainerID),
	})
	if err != nil {
		return nil, fmt.Errorf("update report: %w", err)
	}
	if !changed {
		return nil, ErrInvalidTransition
	}
	report.ExternalMaintainerID = &maintainerID

	slog.InfoContext(ctx, "external maintainer assigned", "maintainer_id", maintainerID, "officer_id", officerID)

	if _, err := s.notifier.CreateAndDispatch(ctx, NotificationInput{
		UserID:   maintainerID,
		Type:     models.NotificationAssignment,
		ReportID: report.ID,
		Title:    "New report assigned",
		Message:  ptr(report.Title),
	}); err != nil {
		slog.WarnContext(ctx, "assignment notification failed", "error", err)
	}
	return report, nil
}

func (s *WorkflowService) ListAssigned(ctx context.Context, officerID int64, status *models.ReportStatus) ([]models.Report, error) {
	reports, err := s.reports.List(ctx, store.ReportFilter{OfficerID: &officerID, Status: status})
	if err != nil {
		return nil, fmt.Errorf("list assigned reports: %w", err)
	}
	return reports, nil
}

func (s *WorkflowService) ListForMaintainer(ctx context.Context, maintainerID int64, status *models.ReportStatus) ([]models.Report, error) {
	reports, err := s.reports.List(ctx, store.ReportFilter{ExternalMaintainerID: &maintainerID, Status: status})
	if err != nil {
		return nil, fmt.Errorf("list maintainer reports: %w", err)
	}
	return reports, nil
}

func (s *WorkflowService) getReport(ctx context.Context, reportID int64) (*models.Report, error) {
	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("get report: %w", err)
	}
	return report, nil
}

func statusTitle(status models.ReportStatus) string {
	switch status {
	case models.ReportStatusInProgress:
		return "Work on your report has started"
	case models.ReportStatusSuspended:
		return "Work on your report is suspended"
	case models.ReportStatusResolved:
		return "Your report has been resolved"
	case models.ReportStatusAssigned:
		return "Work on your report has resumed"
	}
	return "Your report status changed"
}
