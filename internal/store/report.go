package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/civicpulse/backend/internal/id"
	"github.com/civicpulse/backend/internal/models"
	"gorm.io/gorm"
)

type reportStore struct {
	db *gorm.DB
}

func newReportStore(db *gorm.DB) ReportStore {
	return &reportStore{db: db}
}

func (s *reportStore) GetByID(ctx context.Context, reportID int64) (*models.Report, error) {
	var report models.Report
	if err := s.db.WithContext(ctx).First(&report, "id = ?", reportID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &report, nil
}

func (s *reportStore) List(ctx context.Context, filter ReportFilter) ([]models.Report, error) {
	query := s.db.WithContext(ctx).Model(&models.Report{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if filter.OfficerID != nil {
		query = query.Where("assigned_to = ?", *filter.OfficerID)
	}
	if filter.ExternalMaintainerID != nil {
		query = query.Where("external_maintainer_id = ?", *filter.ExternalMaintainerID)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}

	reports := make([]models.Report, 0)
	if err := query.Order("created_at ASC, id ASC").Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

// Create stores a new report in pending_approval regardless of the status it carries.
func (s *reportStore) Create(ctx context.Context, report *models.Report) error {
	if report.ID == 0 {
		report.ID = id.New()
	}
	report.Status = models.ReportStatusPendingApproval
	report.AssignedTo = nil
	report.ExternalMaintainerID = nil
	report.ReviewedBy = nil
	report.ReviewedAt = nil
	report.Note = nil
	if report.Photos == nil {
		report.Photos = []string{}
	}
	return s.db.WithContext(ctx).Create(report).Error
}

func (s *reportStore) UpdateStatusAndAssign(ctx context.Context, reportID int64, expected models.ReportStatus, patch models.ReportPatch) (bool, error) {
	updates := patch.Columns()
	if len(updates) == 0 {
		return false, fmt.Errorf("update report %d: empty patch", reportID)
	}
	updates["updated_at"] = time.Now().UTC()

	result := s.db.WithContext(ctx).
		Model(&models.Report{}).
		Where("id = ? AND status = ?", reportID, expected).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
