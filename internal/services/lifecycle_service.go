package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/civicpulse/backend/internal/logging"
	"github.com/civicpulse/backend/internal/models"
	"github.com/civicpulse/backend/internal/store"
)

// Notifier is the part of the notification dispatcher other services depend on.
type Notifier interface {
	CreateAndDispatch(ctx context.Context, in NotificationInput) (*models.Notification, error)
	PushToUser(ctx context.Context, userID int64, p Push)
}

// TransitionRequest is a public relations decision on a pending report.
type TransitionRequest struct {
	ReportID     int64
	TargetStatus models.ReportStatus
	ReviewerID   int64
	Note         *string
	CategoryID   *int64
	OfficerID    *int64
}

type TransitionResult struct {
	ReportID   int64
	Status     models.ReportStatus
	CategoryID int64
	AssigneeID *int64
}

// LifecycleService moves reports out of pending_approval.
type LifecycleService struct {
	reports    store.ReportStore
	directory  store.OperatorDirectory
	categories store.CategoryStore
	notifier   Notifier
	now        func() time.Time
}

func NewLifecycleService(reports store.ReportStore, directory store.OperatorDirectory, categories store.CategoryStore, notifier Notifier) *LifecycleService {
	return &LifecycleService{
		reports:    reports,
		directory:  directory,
		categories: categories,
		notifier:   notifier,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *LifecycleService) TransitionPendingReport(ctx context.Context, req TransitionRequest) (*TransitionResult, error) {
	ctx = logging.WithFields(ctx, logging.Fields{ReportID: logging.Ptr(req.ReportID), Component: "lifecycle"})

	report, err := s.reports.GetByID(ctx, req.ReportID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("get report: %w", err)
	}

	if report.Status != models.ReportStatusPendingApproval {
		return nil, ErrInvalidTransition
	}

	patch := models.ReportPatch{
		Status:     models.Set(req.TargetStatus),
		ReviewedBy: models.Set(req.ReviewerID),
		ReviewedAt: models.Set(s.now()),
	}
	result := &TransitionResult{
		ReportID:   report.ID,
		Status:     req.TargetStatus,
		CategoryID: report.CategoryID,
	}

	switch req.TargetStatus {
	case models.ReportStatusRejected:
		if req.Note == nil || strings.TrimSpace(*req.Note) == "" {
			return nil, ErrMissingNote
		}
		patch.Note = models.Set(*req.Note)

	case models.ReportStatusAssigned:
		categoryID, err := s.effectiveCategory(ctx, report, req.CategoryID)
		if err != nil {
			return nil, err
		}
		assignee, err := s.resolveAssignee(ctx, categoryID, req.OfficerID)
		if err != nil {
			return nil, err
		}
		patch.Note = models.Clear[string]()
		patch.CategoryID = models.Set(categoryID)
		patch.AssignedTo = models.Set(assignee)
		result.CategoryID = categoryID
		result.AssigneeID = &assignee

	default:
		return nil, ErrInvalidTargetStatus
	}

	changed, err := s.reports.UpdateStatusAndAssign(ctx, report.ID, models.ReportStatusPendingApproval, patch)
	if err != nil {
		return nil, fmt.Errorf("update report: %w", err)
	}
	if !changed {
		return nil, s.explainUnchanged(ctx, report.ID)
	}

	slog.InfoContext(ctx, "report transitioned",
		"status", result.Status,
		"category_id", result.CategoryID,
		"assignee_id", result.AssigneeID,
		"reviewer_id", req.ReviewerID)

	s.notifyTransition(ctx, report, result)
	return result, nil
}

func (s *LifecycleService) effectiveCategory(ctx context.Context, report *models.Report, requested *int64) (int64, error) {
	if requested == nil || *requested == report.CategoryID {
		return report.CategoryID, nil
	}
	ok, err := s.categories.Exists(ctx, *requested)
	if err != nil {
		return 0, fmt.Errorf("check category: %w", err)
	}
	if !ok {
		return 0, ErrCategoryNotFound
	}
	return *requested, nil
}

// resolveAssignee validates an explicit officer against the category or picks
// the least loaded officer covering it.
func (s *LifecycleService) resolveAssignee(ctx context.Context, categoryID int64, officerID *int64) (int64, error) {
	if officerID != nil {
		covered, err := s.directory.CategoriesOfOfficer(ctx, *officerID)
		if err != nil {
			return 0, fmt.Errorf("get officer categories: %w", err)
		}
		if !slices.Contains(covered, categoryID) {
			return 0, ErrOfficerCategoryMismatch
		}
		return *officerID, nil
	}

	assignee, err := s.directory.LeastLoadedAssignee(ctx, categoryID)
	if err != nil {
		if errors.Is(err, store.ErrNoAssigneeFound) {
			return 0, ErrNoAssigneeFound
		}
		return 0, fmt.Errorf("find assignee: %w", err)
	}
	return assignee, nil
}

// explainUnchanged tells a deleted report apart from one whose status moved
// on between the read and the conditional update.
func (s *LifecycleService) explainUnchanged(ctx context.Context, reportID int64) error {
	_, err := s.reports.GetByID(ctx, reportID)
	switch {
	case err == nil:
		slog.WarnContext(ctx, "report changed concurrently during transition")
		return ErrInvalidTransition
	case isNotFound(err):
		return ErrReportNotFound
	default:
		return fmt.Errorf("get report: %w", err)
	}
}

func (s *LifecycleService) notifyTransition(ctx context.Context, report *models.Report, result *TransitionResult) {
	in := NotificationInput{
		UserID:   report.UserID,
		Type:     models.NotificationStatusUpdate,
		ReportID: report.ID,
		Title:    "Your report has been approved",
		Message:  ptr(fmt.Sprintf("%q was approved and assigned to a technician.", report.Title)),
		Metadata: map[string]any{"status": result.Status},
	}
	if result.Status == models.ReportStatusRejected {
		in.Type = models.NotificationRejection
		in.Title = "Your report has been rejected"
		in.Message = ptr(fmt.Sprintf("%q was rejected.", report.Title))
	}

	if _, err := s.notifier.CreateAndDispatch(ctx, in); err != nil {
		slog.WarnContext(ctx, "transition notification failed", "error", err)
	}

	if result.AssigneeID != nil {
		s.notifier.PushToUser(ctx, *result.AssigneeID, Push{
			Type:     models.NotificationAssignment,
			Title:    "New report assigned",
			Message:  ptr(report.Title),
			Metadata: map[string]any{"report_id": fmt.Sprint(report.ID), "category_id": fmt.Sprint(result.CategoryID)},
		})
	}
}

func ptr[T any](v T) *T {
	return &v
}
