package models

import (
	"time"

	"gorm.io/datatypes"
)

type ReportStatus string

const (
	ReportStatusPendingApproval ReportStatus = "pending_approval"
	ReportStatusAssigned        ReportStatus = "assigned"
	ReportStatusRejected        ReportStatus = "rejected"
	ReportStatusInProgress      ReportStatus = "in_progress"
	ReportStatusSuspended       ReportStatus = "suspended"
	ReportStatusResolved        ReportStatus = "resolved"
)

// MaxReportPhotos bounds the photo URLs attached to a single report.
const MaxReportPhotos = 3

var reportTransitions = map[ReportStatus][]ReportStatus{
	ReportStatusPendingApproval: {ReportStatusAssigned, ReportStatusRejected},
	ReportStatusAssigned:        {ReportStatusInProgress, ReportStatusSuspended},
	ReportStatusInProgress:      {ReportStatusSuspended, ReportStatusResolved},
	ReportStatusSuspended:       {ReportStatusAssigned, ReportStatusInProgress},
}

func (s ReportStatus) Valid() bool {
	switch s {
	case ReportStatusPendingApproval, ReportStatusAssigned, ReportStatusRejected,
		ReportStatusInProgress, ReportStatusSuspended, ReportStatusResolved:
		return true
	}
	return false
}

// CanTransitionTo reports whether next is reachable from s in a single step.
func (s ReportStatus) CanTransitionTo(next ReportStatus) bool {
	for _, allowed := range reportTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s ReportStatus) Terminal() bool {
	return len(reportTransitions[s]) == 0
}

// OperatorOwned reports whether a report in this status has an assignee.
func (s ReportStatus) OperatorOwned() bool {
	switch s {
	case ReportStatusAssigned, ReportStatusInProgress, ReportStatusSuspended, ReportStatusResolved:
		return true
	}
	return false
}

// Report is an issue submitted by a citizen.
type Report struct {
	ID                   int64                       `gorm:"primaryKey;autoIncrement:false" json:"id,string"`
	UserID               int64                       `gorm:"not null;index" json:"user_id,string,omitempty"`
	CategoryID           int64                       `gorm:"not null;index" json:"category_id,string"`
	Title                string                      `gorm:"size:200;not null" json:"title"`
	Description          string                      `gorm:"type:text;not null" json:"description"`
	Status               ReportStatus                `gorm:"size:30;not null;index" json:"status"`
	AssignedTo           *int64                      `gorm:"index" json:"assigned_to,string,omitempty"`
	ExternalMaintainerID *int64                      `gorm:"index" json:"external_maintainer_id,string,omitempty"`
	ReviewedBy           *int64                      `json:"reviewed_by,string,omitempty"`
	ReviewedAt           *time.Time                  `json:"reviewed_at,omitempty"`
	Note                 *string                     `gorm:"type:text" json:"note,omitempty"`
	IsAnonymous          bool                        `gorm:"default:false" json:"is_anonymous"`
	PositionLat          float64                     `json:"position_lat"`
	PositionLng          float64                     `json:"position_lng"`
	Photos               datatypes.JSONSlice[string] `json:"photos"`
	CreatedAt            time.Time                   `json:"created_at"`
	UpdatedAt            time.Time                   `json:"updated_at"`
	Category             *Category                   `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	User                 *User                       `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// InvolvesStaff reports whether userID is the assignee or the external maintainer.
func (r *Report) InvolvesStaff(userID int64) bool {
	return (r.AssignedTo != nil && *r.AssignedTo == userID) ||
		(r.ExternalMaintainerID != nil && *r.ExternalMaintainerID == userID)
}
