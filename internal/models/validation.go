package models

import "time"

// Validation is one user's authenticity vote on a report. The
// (ReportID, UserID) pair is unique; a repeat vote from the same user
// updates the row in place instead of inserting a second one.
type Validation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ReportID  string    `gorm:"uniqueIndex:idx_report_user;not null" json:"report_id"`
	UserID    string    `gorm:"uniqueIndex:idx_report_user;not null" json:"user_id"`
	IsValid   bool      `json:"is_valid"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
