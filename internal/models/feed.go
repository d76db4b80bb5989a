package models

import "time"

// Feed event kinds broadcast over the live websocket feed.
const (
	FeedNewReport     = "new_report"
	FeedPoliceAlerted = "police_alerted"
	FeedCaseTaken     = "case_taken"
	FeedReportStatus  = "report_status"
)

// FeedEvent is the payload pushed to connected feed clients and
// published on the redis broadcast channel so every instance fans out.
type FeedEvent struct {
	Kind      string    `json:"kind"`
	ReportID  string    `json:"report_id"`
	Area      string    `json:"area,omitempty"`
	CrimeType string    `json:"crime_type,omitempty"`
	Message   string    `json:"message"`
	At        time.Time `json:"at"`
}
