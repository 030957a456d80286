package models

import (
	"time"

	"gorm.io/gorm"
)

type RoleType string

const (
	RoleTypePubRelations       RoleType = "pub_relations"
	RoleTypeTechOfficer        RoleType = "tech_officer"
	RoleTypeExternalMaintainer RoleType = "external_maintainer"
	RoleTypeAdmin              RoleType = "admin"
	RoleTypeCitizen            RoleType = "citizen"
)

func (t RoleType) Valid() bool {
	switch t {
	case RoleTypePubRelations, RoleTypeTechOfficer, RoleTypeExternalMaintainer, RoleTypeAdmin, RoleTypeCitizen:
		return true
	}
	return false
}

// IsOperator reports whether the role type belongs to municipal staff.
func (t RoleType) IsOperator() bool {
	return t == RoleTypePubRelations || t == RoleTypeTechOfficer
}

// User is any account: citizens, municipal operators, external maintainers and admins.
// ExternalID is the stable identity used as JWT subject and realtime channel key.
type User struct {
	ID                 int64          `gorm:"primaryKey;autoIncrement:false" json:"id,string"`
	ExternalID         string         `gorm:"size:36;not null;uniqueIndex" json:"-"`
	Email              string         `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Username           string         `gorm:"size:100;not null;uniqueIndex" json:"username"`
	FirstName          string         `gorm:"size:100" json:"first_name"`
	LastName           string         `gorm:"size:100" json:"last_name"`
	Password           string         `gorm:"not null" json:"-"`
	CompanyID          *int64         `gorm:"index" json:"company_id,string,omitempty"`
	EmailNotifications bool           `gorm:"not null" json:"email_notifications"`
	Roles              []Role         `gorm:"many2many:user_roles" json:"roles,omitempty"`
	Company            *Company       `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

// HasRole reports whether the user holds at least one role of the given type.
func (u *User) HasRole(t RoleType) bool {
	for _, r := range u.Roles {
		if r.Type == t {
			return true
		}
	}
	return false
}

// RoleNames returns the role names in the order they were loaded.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

// Role is a named staff position. Internal roles belong to an office, which
// determines the categories the role holder covers.
type Role struct {
	ID       int64    `gorm:"primaryKey;autoIncrement:false" json:"id,string"`
	Name     string   `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Type     RoleType `gorm:"size:30;not null;index" json:"type"`
	OfficeID *int64   `gorm:"index" json:"office_id,string,omitempty"`
	Office   *Office  `gorm:"foreignKey:OfficeID" json:"office,omitempty"`
}

type Office struct {
	ID         int64      `gorm:"primaryKey;autoIncrement:false" json:"id,string"`
	Name       string     `gorm:"size:150;not null;uniqueIndex" json:"name"`
	Categories []Category `gorm:"many2many:office_categories" json:"categories,omitempty"`
}

// Company is an external contractor whose maintainers cover a set of categories.
type Company struct {
	ID         int64      `gorm:"primaryKey;autoIncrement:false" json:"id,string"`
	Name       string     `gorm:"size:150;not null;uniqueIndex" json:"name"`
	Categories []Category `gorm:"many2many:company_categories" json:"categories,omitempty"`
}

type Category struct {
	ID   int64  `gorm:"primaryKey;autoIncrement:false" json:"id,string"`
	Name string `gorm:"size:150;not null;uniqueIndex" json:"name"`
}
