package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/civicpulse/backend/internal/models"
	"github.com/civicpulse/backend/internal/realtime"
	"github.com/civicpulse/backend/internal/store"
)

// NotificationInput describes a notification to persist and push.
type NotificationInput struct {
	UserID    int64
	Type      models.NotificationType
	ReportID  int64
	CommentID *int64
	Title     string
	Message   *string
	Metadata  map[string]any
}

// Push is the payload delivered on the realtime channel.
type Push struct {
	ID           string                  `json:"id"`
	Type         models.NotificationType `json:"type"`
	Title        string                  `json:"title,omitempty"`
	Message      *string                 `json:"message,omitempty"`
	Metadata     map[string]any          `json:"metadata,omitempty"`
	CreatedAt    time.Time               `json:"createdAt"`
	Notification *models.Notification    `json:"notification,omitempty"`
}

type NotificationService struct {
	notifications store.NotificationStore
	users         store.UserStore
	channel       realtime.Channel
}

// NewNotificationService builds the dispatcher. channel may be nil, in which
// case notifications are only persisted.
func NewNotificationService(notifications store.NotificationStore, users store.UserStore, channel realtime.Channel) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		users:         users,
		channel:       channel,
	}
}

// CreateAndDispatch persists the notification and pushes it to the recipient.
// Only the persistence step can fail the call.
func (s *NotificationService) CreateAndDispatch(ctx context.Context, in NotificationInput) (*models.Notification, error) {
	n := &models.Notification{
		UserID:    in.UserID,
		Type:      in.Type,
		ReportID:  in.ReportID,
		CommentID: in.CommentID,
		Title:     in.Title,
		Message:   in.Message,
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}

	createdAt := n.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	s.PushToUser(ctx, in.UserID, Push{
		Type:         n.Type,
		Title:        n.Title,
		Message:      n.Message,
		Metadata:     in.Metadata,
		CreatedAt:    createdAt,
		Notification: n,
	})
	return n, nil
}

// PushToUser delivers p to every live session of the user without persisting
// anything. Failures are logged and dropped.
func (s *NotificationService) PushToUser(ctx context.Context, userID int64, p Push) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "realtime push panicked", "recipient_id", userID, "panic", r)
		}
	}()

	if s.channel == nil {
		slog.WarnContext(ctx, "realtime channel not initialized, push skipped", "recipient_id", userID)
		return
	}

	userKey, err := s.users.ExternalIDOf(ctx, userID)
	if err != nil {
		slog.WarnContext(ctx, "push recipient lookup failed", "recipient_id", userID, "error", err)
		return
	}

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	s.channel.SendToUser(userKey, p)
}

// PushToRole delivers p to every live session of holders of the role type.
func (s *NotificationService) PushToRole(ctx context.Context, role models.RoleType, p Push) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "realtime push panicked", "role", role, "panic", r)
		}
	}()

	if s.channel == nil {
		return
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	s.channel.SendToRole(string(role), p)
}

func (s *NotificationService) ListForUser(ctx context.Context, userID int64, unreadOnly bool) ([]store.NotificationView, error) {
	views, err := s.notifications.ListByUser(ctx, userID, unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return views, nil
}

// MarkRead flips the read flag. Notifications of other users are reported as not found.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID int64) error {
	changed, err := s.notifications.MarkRead(ctx, userID, notificationID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if !changed {
		return ErrNotificationNotFound
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
