package services

import "github.com/civicpulse/backend/internal/models"

// Actor is the authenticated user performing a call.
type Actor struct {
	UserID    int64
	RoleTypes []models.RoleType
}

func (a Actor) Has(t models.RoleType) bool {
	for _, rt := range a.RoleTypes {
		if rt == t {
			return true
		}
	}
	return false
}

// IsStaff reports whether the actor works for the municipality or a contractor.
func (a Actor) IsStaff() bool {
	return a.Has(models.RoleTypePubRelations) || a.Has(models.RoleTypeTechOfficer) ||
		a.Has(models.RoleTypeExternalMaintainer) || a.Has(models.RoleTypeAdmin)
}
