package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Report status values.
const (
	ReportPending       = "pending"
	ReportInvestigating = "investigating"
	ReportResolved      = "resolved"
	ReportClosed        = "closed"
)

// Armed answer values on a report.
const (
	ArmedYes     = "yes"
	ArmedNo      = "no"
	ArmedUnknown = "unknown"
)

// Report is one reported crime incident. Time is when the incident
// happened, distinct from CreatedAt. Photos and Videos hold relative
// paths confirmed stored by the media subsystem, in upload order.
type Report struct {
	ID           string         `gorm:"primaryKey" json:"id"`
	Location     string         `gorm:"index" json:"location"` // "District-Thana"
	Time         time.Time      `json:"time"`
	CrimeType    string         `gorm:"index" json:"crime_type"`
	NumCriminals int            `json:"num_criminals"`
	VictimGender string         `json:"victim_gender"`
	Armed        string         `gorm:"default:unknown" json:"armed"`
	Photos       pq.StringArray `gorm:"type:text[]" json:"photos"`
	Videos       pq.StringArray `gorm:"type:text[]" json:"videos"`
	Status       string         `gorm:"index;default:pending" json:"status"`
	// ReporterID is nil for anonymous reports.
	ReporterID *string `gorm:"index" json:"reporter_id,omitempty"`
	// PoliceID is the claim field written by the take-case flow.
	// Nil until an officer claims the report.
	PoliceID  *string   `json:"police_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Report) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return
}

// ValidationCounts is the aggregate a report is read together with,
// zero-filled when the report has no votes yet.
type ValidationCounts struct {
	Total   int64 `json:"total"`
	Valid   int64 `json:"valid"`
	Invalid int64 `json:"invalid"`
}

// ReportDetail is the one-round-trip read shape: the report joined
// with its validation totals, alerts and resolvable media URLs.
type ReportDetail struct {
	Report
	Validations ValidationCounts `json:"validations"`
	Alerts      []PoliceAlert    `json:"alerts"`
	PhotoURLs   []string         `json:"photo_urls"`
	VideoURLs   []string         `json:"video_urls"`
}

// ReportFilters narrows read-only report projections.
type ReportFilters struct {
	Location  string
	CrimeType string
	Status    string
	Armed     string
	Since     *time.Time
	Until     *time.Time
}
