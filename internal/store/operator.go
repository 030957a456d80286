package store

import (
	"context"

	"github.com/civicpulse/backend/internal/models"
	"gorm.io/gorm"
)

type operatorDirectory struct {
	db *gorm.DB
}

func newOperatorDirectory(db *gorm.DB) OperatorDirectory {
	return &operatorDirectory{db: db}
}

// operatorLoad is a covering officer with the number of reports currently assigned to them.
type operatorLoad struct {
	UserID        int64
	AssignedCount int64
}

func (d *operatorDirectory) ListOperators(ctx context.Context) ([]models.User, error) {
	holders := d.db.Table("user_roles").
		Select("user_roles.user_id").
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Where("roles.type IN ?", []models.RoleType{models.RoleTypePubRelations, models.RoleTypeTechOfficer})

	users := make([]models.User, 0)
	err := d.db.WithContext(ctx).
		Preload("Roles").
		Where("id IN (?)", holders).
		Order("id").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (d *operatorDirectory) ListOperatorsByCategory(ctx context.Context, categoryID int64) ([]models.User, error) {
	users := make([]models.User, 0)
	err := d.db.WithContext(ctx).
		Preload("Roles").
		Where("id IN (?)", d.coveringOfficers(categoryID)).
		Order("id").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (d *operatorDirectory) coveringOfficers(categoryID int64) *gorm.DB {
	return d.db.Table("user_roles").
		Select("user_roles.user_id").
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Joins("JOIN office_categories ON office_categories.office_id = roles.office_id").
		Where("roles.type = ? AND office_categories.category_id = ?", models.RoleTypeTechOfficer, categoryID)
}

// CategoriesOfOfficer returns the categories covered through the officer's
// technical roles. Other role types and deleted accounts cover nothing.
func (d *operatorDirectory) CategoriesOfOfficer(ctx context.Context, officerID int64) ([]int64, error) {
	categories := make([]int64, 0)
	err := d.db.WithContext(ctx).Raw(`
		SELECT DISTINCT oc.category_id
		FROM users u
		JOIN user_roles ur ON ur.user_id = u.id
		JOIN roles ro ON ro.id = ur.role_id
		JOIN office_categories oc ON oc.office_id = ro.office_id
		WHERE u.id = ? AND ro.type = ? AND u.deleted_at IS NULL
		ORDER BY oc.category_id`, officerID, models.RoleTypeTechOfficer).
		Scan(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (d *operatorDirectory) CategoriesOfExternalMaintainer(ctx context.Context, maintainerID int64) ([]int64, error) {
	categories := make([]int64, 0)
	err := d.db.WithContext(ctx).Raw(`
		SELECT DISTINCT cc.category_id
		FROM users u
		JOIN company_categories cc ON cc.company_id = u.company_id
		WHERE u.id = ? AND u.deleted_at IS NULL
		ORDER BY cc.category_id`, maintainerID).
		Scan(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (d *operatorDirectory) LeastLoadedAssignee(ctx context.Context, categoryID int64) (int64, error) {
	var loads []operatorLoad
	err := d.db.WithContext(ctx).Raw(`
		SELECT u.id AS user_id, COUNT(DISTINCT r.id) AS assigned_count
		FROM users u
		JOIN user_roles ur ON ur.user_id = u.id
		JOIN roles ro ON ro.id = ur.role_id
		JOIN office_categories oc ON oc.office_id = ro.office_id
		LEFT JOIN reports r ON r.assigned_to = u.id AND r.status = ?
		WHERE ro.type = ? AND oc.category_id = ? AND u.deleted_at IS NULL
		GROUP BY u.id`,
		models.ReportStatusAssigned, models.RoleTypeTechOfficer, categoryID).
		Scan(&loads).Error
	if err != nil {
		return 0, err
	}

	assignee, ok := leastLoaded(loads)
	if !ok {
		return 0, ErrNoAssigneeFound
	}
	return assignee, nil
}

// leastLoaded picks the officer with the fewest assigned reports, lowest id on ties.
func leastLoaded(loads []operatorLoad) (int64, bool) {
	if len(loads) == 0 {
		return 0, false
	}
	best := loads[0]
	for _, l := range loads[1:] {
		if l.AssignedCount < best.AssignedCount ||
			(l.AssignedCount == best.AssignedCount && l.UserID < best.UserID) {
			best = l
		}
	}
	return best.UserID, true
}

func (d *operatorDirectory) ListExternalMaintainers(ctx context.Context, filter MaintainerFilter) ([]models.User, error) {
	holders := d.db.Table("user_roles").
		Select("user_roles.user_id").
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Where("roles.type = ?", models.RoleTypeExternalMaintainer)

	query := d.db.WithContext(ctx).
		Preload("Roles").
		Preload("Company").
		Where("id IN (?)", holders)
	if filter.CompanyID != nil {
		query = query.Where("company_id = ?", *filter.CompanyID)
	}
	if filter.CategoryID != nil {
		covering := d.db.Table("company_categories").
			Select("company_id").
			Where("category_id = ?", *filter.CategoryID)
		query = query.Where("company_id IN (?)", covering)
	}

	users := make([]models.User, 0)
	if err := query.Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
