package database

import (
	"fmt"
	"log/slog"

	"github.com/civicpulse/backend/internal/id"
	"github.com/civicpulse/backend/internal/models"
	"gorm.io/gorm"
)

// DefaultCategories are the municipal report categories. Each gets a technical
// office and a matching technician role.
var DefaultCategories = []string{
	"Water Supply - Drinking Water",
	"Architectural Barriers",
	"Sewer System",
	"Public Lighting",
	"Waste",
	"Road Signs and Traffic Lights",
	"Roads and Urban Furnishings",
	"Public Green Areas and Playgrounds",
	"Other",
}

// Well-known role names created by Seed.
const (
	RoleAdmin              = "Administrator"
	RoleCitizen            = "Citizen"
	RolePubRelations       = "Public Relations Officer"
	RoleExternalMaintainer = "External Maintainer"
)

// Seed inserts reference data that is missing. Existing rows are left as-is.
func Seed(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, name := range DefaultCategories {
			category := models.Category{}
			if err := tx.Where("name = ?", name).Attrs(models.Category{ID: id.New()}).FirstOrCreate(&category, models.Category{Name: name}).Error; err != nil {
				return fmt.Errorf("seed category %q: %w", name, err)
			}

			office := models.Office{}
			officeName := name + " Office"
			if err := tx.Where("name = ?", officeName).Attrs(models.Office{ID: id.New()}).FirstOrCreate(&office, models.Office{Name: officeName}).Error; err != nil {
				return fmt.Errorf("seed office %q: %w", officeName, err)
			}
			if err := tx.Model(&office).Association("Categories").Append(&category); err != nil {
				return fmt.Errorf("link office %q: %w", officeName, err)
			}

			if err := seedRole(tx, name+" Technician", models.RoleTypeTechOfficer, &office.ID); err != nil {
				return err
			}
		}

		if err := seedRole(tx, RoleAdmin, models.RoleTypeAdmin, nil); err != nil {
			return err
		}
		if err := seedRole(tx, RoleCitizen, models.RoleTypeCitizen, nil); err != nil {
			return err
		}
		if err := seedRole(tx, RolePubRelations, models.RoleTypePubRelations, nil); err != nil {
			return err
		}
		if err := seedRole(tx, RoleExternalMaintainer, models.RoleTypeExternalMaintainer, nil); err != nil {
			return err
		}

		slog.Info("reference data seeded", "categories", len(DefaultCategories))
		return nil
	})
}

func seedRole(tx *gorm.DB, name string, roleType models.RoleType, officeID *int64) error {
	role := models.Role{}
	err := tx.Where("name = ?", name).
		Attrs(models.Role{ID: id.New(), Type: roleType, OfficeID: officeID}).
		FirstOrCreate(&role, models.Role{Name: name}).Error
	if err != nil {
		return fmt.Errorf("seed role %q: %w", name, err)
	}
	return nil
}
