package models

import "time"

// PoliceAlert status values. "closed" is terminal; "pending" and
// "confirmed" mean unassigned or confirmed-but-not-yet-acted-on.
const (
	AlertPending   = "pending"
	AlertConfirmed = "confirmed"
	AlertResponded = "responded"
	AlertClosed    = "closed"
)

// PoliceAlert is the escalation record tying a report to police
// attention. At most one alert exists per report; re-alerting updates
// the existing row.
type PoliceAlert struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	ReportID string `gorm:"index;not null" json:"report_id"`
	Status   string `gorm:"default:pending" json:"status"`
	// AssignedOfficer mirrors the canonical badge id written by the
	// take-case and respond flows.
	AssignedOfficer *string    `json:"assigned_officer,omitempty"`
	ResponseDetails string     `json:"response_details,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	RespondedAt     *time.Time `json:"responded_at,omitempty"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// CrimeAlert status values for the community feed record.
const (
	CrimeAlertActive   = "active"
	CrimeAlertResolved = "resolved"
)

// CrimeAlert is the public community-feed record created when a
// report is submitted.
type CrimeAlert struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ReportID  string    `gorm:"index;not null" json:"report_id"`
	Area      string    `json:"area"`
	Type      string    `json:"type"`
	Status    string    `gorm:"default:active" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
