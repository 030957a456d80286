package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/civicpulse/backend/internal/logging"
	"github.com/civicpulse/backend/internal/models"
	"github.com/civicpulse/backend/internal/store"
)

// publicStatuses are the statuses visible on the public report map.
var publicStatuses = []models.ReportStatus{
	models.ReportStatusAssigned,
	models.ReportStatusInProgress,
	models.ReportStatusSuspended,
	models.ReportStatusResolved,
}

type CreateReportInput struct {
	CategoryID  int64
	Title       string
	Description string
	PositionLat float64
	PositionLng float64
	Photos      []string
	IsAnonymous bool
}

// RolePusher sends live, non-persisted events to everyone holding a role type.
type RolePusher interface {
	PushToRole(ctx context.Context, role models.RoleType, p Push)
}

// ReportService handles citizen submissions and report lookups.
type ReportService struct {
	reports    store.ReportStore
	categories store.CategoryStore
	filter     *ContentFilter
	pusher     RolePusher
}

// NewReportService builds the service. pusher may be nil, in which case the
// review queue is not told about new submissions.
func NewReportService(reports store.ReportStore, categories store.CategoryStore, filter *ContentFilter, pusher RolePusher) *ReportService {
	return &ReportService{reports: reports, categories: categories, filter: filter, pusher: pusher}
}

func (s *ReportService) Create(ctx context.Context, userID int64, in CreateReportInput) (*models.Report, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)

	switch {
	case in.Title == "":
		return nil, fmt.Errorf("%w: title is required", ErrInvalidReport)
	case in.Description == "":
		return nil, fmt.Errorf("%w: description is required", ErrInvalidReport)
	case len(in.Photos) == 0 || len(in.Photos) > models.MaxReportPhotos:
		return nil, fmt.Errorf("%w: between 1 and %d photos are required", ErrInvalidReport, models.MaxReportPhotos)
	case in.PositionLat < -90 || in.PositionLat > 90 || in.PositionLng < -180 || in.PositionLng > 180:
		return nil, fmt.Errorf("%w: position is out of range", ErrInvalidReport)
	}
	for _, text := range []string{in.Title, in.Description} {
		if ok, reason := s.filter.Check(text); !ok {
			return nil, fmt.Errorf("%w: %s", ErrContentRejected, s.filter.RejectionMessage(reason))
		}
	}

	exists, err := s.categories.Exists(ctx, in.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("check category: %w", err)
	}
	if !exists {
		return nil, ErrCategoryNotFound
	}

	report := &models.Report{
		UserID:      userID,
		CategoryID:  in.CategoryID,
		Title:       in.Title,
		Description: in.Description,
		PositionLat: in.PositionLat,
		PositionLng: in.PositionLng,
		Photos:      in.Photos,
		IsAnonymous: in.IsAnonymous,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}

	ctx = logging.WithFields(ctx, logging.Fields{ReportID: logging.Ptr(report.ID), Component: "reports"})
	slog.InfoContext(ctx, "report submitted", "category_id", report.CategoryID, "photos", len(report.Photos))

	if s.pusher != nil {
		s.pusher.PushToRole(ctx, models.RoleTypePubRelations, Push{
			Type:     models.NotificationReview,
			Title:    "New report awaiting review",
			Message:  ptr(report.Title),
			Metadata: map[string]any{"reportId": strconv.FormatInt(report.ID, 10)},
		})
	}
	return report, nil
}

// ListPublic returns approved reports. Reporters of anonymous reports are hidden.
func (s *ReportService) ListPublic(ctx context.Context, categoryID *int64) ([]models.Report, error) {
	reports, err := s.reports.List(ctx, store.ReportFilter{Statuses: publicStatuses, CategoryID: categoryID})
	if err != nil {
		return nil, fmt.Errorf("list public reports: %w", err)
	}
	for i := range reports {
		hideReporter(&reports[i])
	}
	return reports, nil
}

// ListByStatus is the public relations queue. It defaults to pending_approval.
func (s *ReportService) ListByStatus(ctx context.Context, status *models.ReportStatus) ([]models.Report, error) {
	if status == nil {
		pending := models.ReportStatusPendingApproval
		status = &pending
	}
	if !status.Valid() {
		return nil, ErrInvalidTargetStatus
	}
	reports, err := s.reports.List(ctx, store.ReportFilter{Status: status})
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}

func (s *ReportService) ListMine(ctx context.Context, userID int64) ([]models.Report, error) {
	reports, err := s.reports.List(ctx, store.ReportFilter{UserID: &userID})
	if err != nil {
		return nil, fmt.Errorf("list own reports: %w", err)
	}
	return reports, nil
}

// Get returns a report to its owner, to staff, or to anyone once it is public.
func (s *ReportService) Get(ctx context.Context, actor Actor, reportID int64) (*models.Report, error) {
	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("get report: %w", err)
	}

	switch {
	case report.UserID == actor.UserID, actor.IsStaff():
		return report, nil
	case report.Status.OperatorOwned():
		hideReporter(report)
		return report, nil
	}
	return nil, ErrReportNotFound
}

func hideReporter(r *models.Report) {
	if r.IsAnonymous {
		r.UserID = 0
		r.User = nil
	}
}
