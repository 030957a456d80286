package services

import "errors"

var (
	ErrReportNotFound          = errors.New("report not found")
	ErrInvalidTransition       = errors.New("not allowed to change status of a report in its current state")
	ErrInvalidTargetStatus     = errors.New("target status is not allowed")
	ErrMissingNote             = errors.New("a note is required when rejecting a report")
	ErrOfficerCategoryMismatch = errors.New("officer does not cover the report category")
	ErrNoAssigneeFound         = errors.New("no operator covers the report category")
	ErrCategoryNotFound        = errors.New("category not found")

	ErrNotReportStaff             = errors.New("user is not assigned to this report")
	ErrMaintainerNotFound         = errors.New("external maintainer not found")
	ErrMaintainerCategoryMismatch = errors.New("external maintainer does not cover the report category")
	ErrNotificationNotFound       = errors.New("notification not found")
	ErrEmptyComment               = errors.New("comment content is required")
	ErrCommentForbidden           = errors.New("not allowed to comment on this report")
	ErrInvalidReport              = errors.New("invalid report")
	ErrContentRejected            = errors.New("content does not meet community guidelines")

	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
	ErrUserNotFound       = errors.New("user not found")
	ErrUnknownRole        = errors.New("unknown role")
	ErrInvalidInput       = errors.New("invalid input")
)
