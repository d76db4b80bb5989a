package models

import "time"

// Notification type values.
const (
	NotifAlert   = "alert"
	NotifWarning = "warning"
	NotifInfo    = "info"
	NotifSuccess = "success"
)

// ValidNotificationType reports whether t is one of the four
// recognised notification types.
func ValidNotificationType(t string) bool {
	switch t {
	case NotifAlert, NotifWarning, NotifInfo, NotifSuccess:
		return true
	}
	return false
}

// Notification is a single user-facing message. Created by workflow
// side effects; mutated only by read-state transitions or deleted by
// its owner.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"index;not null" json:"user_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	RelatedID string    `json:"related_id,omitempty"`
	IsRead    bool      `gorm:"default:false;index" json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
