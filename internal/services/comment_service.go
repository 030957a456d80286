package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/civicpulse/backend/internal/logging"
	"github.com/civicpulse/backend/internal/models"
	"github.com/civicpulse/backend/internal/store"
)

// CommentService manages the two comment threads of a report: the external one
// between the citizen and the assignee, and the internal one between staff.
type CommentService struct {
	comments store.CommentStore
	reports  store.ReportStore
	filter   *ContentFilter
	notifier Notifier
}

func NewCommentService(comments store.CommentStore, reports store.ReportStore, filter *ContentFilter, notifier Notifier) *CommentService {
	return &CommentService{
		comments: comments,
		reports:  reports,
		filter:   filter,
		notifier: notifier,
	}
}

func (s *CommentService) Create(ctx context.Context, actor Actor, reportID int64, content string, internal bool) (*models.Comment, error) {
	ctx = logging.WithFields(ctx, logging.Fields{ReportID: logging.Ptr(reportID), Component: "comments"})

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyComment
	}
	if ok, reason := s.filter.Check(content); !ok {
		return nil, fmt.Errorf("%w: %s", ErrContentRejected, s.filter.RejectionMessage(reason))
	}

	report, err := s.getReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if !canWrite(actor, report, internal) {
		return nil, ErrCommentForbidden
	}

	comment := &models.Comment{
		ReportID:   report.ID,
		UserID:     actor.UserID,
		Content:    content,
		IsInternal: internal,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	s.notifyParticipants(ctx, report, comment)
	return comment, nil
}

func (s *CommentService) List(ctx context.Context, actor Actor, reportID int64, internal bool) ([]models.Comment, error) {
	report, err := s.getReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if !canRead(actor, report, internal) {
		return nil, ErrCommentForbidden
	}

	comments, err := s.comments.ListByReport(ctx, report.ID, internal)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

func (s *CommentService) getReport(ctx context.Context, reportID int64) (*models.Report, error) {
	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("get report: %w", err)
	}
	return report, nil
}

func canWrite(actor Actor, report *models.Report, internal bool) bool {
	if internal {
		return report.InvolvesStaff(actor.UserID)
	}
	return actor.UserID == report.UserID ||
		(report.AssignedTo != nil && *report.AssignedTo == actor.UserID)
}

func canRead(actor Actor, report *models.Report, internal bool) bool {
	if report.InvolvesStaff(actor.UserID) || actor.Has(models.RoleTypePubRelations) || actor.Has(models.RoleTypeAdmin) {
		return true
	}
	if internal {
		return false
	}
	return actor.UserID == report.UserID
}

// notifyParticipants informs everyone on the thread except the author.
func (s *CommentService) notifyParticipants(ctx context.Context, report *models.Report, comment *models.Comment) {
	in := NotificationInput{
		Type:      models.NotificationExternalComment,
		ReportID:  report.ID,
		CommentID: &comment.ID,
		Title:     "New message on report",
		Message:   ptr(report.Title),
	}

	var recipients []int64
	if comment.IsInternal {
		in.Type = models.NotificationInternalComment
		in.Title = "New internal note on report"
		recipients = append(recipients, derefAll(report.AssignedTo, report.ExternalMaintainerID)...)
	} else {
		recipients = append(recipients, report.UserID)
		recipients = append(recipients, derefAll(report.AssignedTo)...)
	}

	seen := map[int64]bool{comment.UserID: true}
	for _, userID := range recipients {
		if seen[userID] {
			continue
		}
		seen[userID] = true

		in.UserID = userID
		if _, err := s.notifier.CreateAndDispatch(ctx, in); err != nil {
			slog.WarnContext(ctx, "comment notification failed", "recipient_id", userID, "error", err)
		}
	}
}

func derefAll(ids ...*int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id != nil {
			out = append(out, *id)
		}
	}
	return out
}
