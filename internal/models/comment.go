package models

import "time"

// Comment is a message on a report. Internal comments are visible to staff only.
type Comment struct {
	ID         int64     `gorm:"primaryKey;autoIncrement:false" json:"id,string"`
	ReportID   int64     `gorm:"not null;index" json:"report_id,string"`
	UserID     int64     `gorm:"not null;index" json:"user_id,string"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	IsInternal bool      `gorm:"not null;default:false;index" json:"is_internal"`
	CreatedAt  time.Time `json:"created_at"`
	User       *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
