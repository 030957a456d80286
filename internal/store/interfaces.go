package store

import (
	"context"
	"errors"

	"github.com/civicpulse/backend/internal/models"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrNoAssigneeFound is returned when no operator covers a category.
var ErrNoAssigneeFound = errors.New("no operator covers the category")

// ReportFilter narrows report listings. Nil fields do not filter.
type ReportFilter struct {
	Status               *models.ReportStatus
	Statuses             []models.ReportStatus
	OfficerID            *int64
	ExternalMaintainerID *int64
	UserID               *int64
	CategoryID           *int64
}

// MaintainerFilter narrows external maintainer listings.
type MaintainerFilter struct {
	CompanyID  *int64
	CategoryID *int64
}

// ReportStore is the report repository.
type ReportStore interface {
	GetByID(ctx context.Context, id int64) (*models.Report, error)
	List(ctx context.Context, filter ReportFilter) ([]models.Report, error)
	Create(ctx context.Context, report *models.Report) error
	// UpdateStatusAndAssign applies patch in a single statement, only if the
	// row still has the expected status. changed is false when no row matched.
	UpdateStatusAndAssign(ctx context.Context, id int64, expected models.ReportStatus, patch models.ReportPatch) (changed bool, err error)
}

// OperatorDirectory resolves staff coverage and workload.
type OperatorDirectory interface {
	ListOperators(ctx context.Context) ([]models.User, error)
	ListOperatorsByCategory(ctx context.Context, categoryID int64) ([]models.User, error)
	CategoriesOfOfficer(ctx context.Context, officerID int64) ([]int64, error)
	CategoriesOfExternalMaintainer(ctx context.Context, maintainerID int64) ([]int64, error)
	LeastLoadedAssignee(ctx context.Context, categoryID int64) (int64, error)
	ListExternalMaintainers(ctx context.Context, filter MaintainerFilter) ([]models.User, error)
}

// NotificationView is a notification joined with display data of its report and comment.
type NotificationView struct {
	models.Notification
	ReportTitle    string  `json:"report_title"`
	CommentContent *string `json:"comment_content,omitempty"`
}

type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID int64, unreadOnly bool) ([]NotificationView, error)
	// MarkRead flips is_read for a notification owned by userID.
	MarkRead(ctx context.Context, userID, notificationID int64) (bool, error)
}

type CommentStore interface {
	Create(ctx context.Context, c *models.Comment) error
	ListByReport(ctx context.Context, reportID int64, internal bool) ([]models.Comment, error)
}

type UserStore interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	ExternalIDOf(ctx context.Context, id int64) (string, error)
	RolesByName(ctx context.Context, names []string) ([]models.Role, error)
	ListRoles(ctx context.Context) ([]models.Role, error)
}

type CategoryStore interface {
	List(ctx context.Context) ([]models.Category, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

type RefreshTokenStore interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	FindActive(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, tokenHash string) error
}
