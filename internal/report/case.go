package report

import (
	"time"

	"crimewatch/backend/internal/apperr"
	"crimewatch/backend/internal/models"
	"crimewatch/backend/internal/notify"
)

// TakeCaseResult is the success shape of an officer's claim.
type TakeCaseResult struct {
	ReportID string    `json:"reportId"`
	PoliceID string    `json:"policeId"`
	TakenAt  time.Time `json:"takenAt"`
}

// badgeFor returns the canonical officer identity written into both
// claim fields. Officers without a badge get a synthesized fallback
// derived from their user id.
func badgeFor(officer *models.User) string {
	if officer.PoliceID != "" {
		return officer.PoliceID
	}
	return "U" + officer.ID
}

// TakeCase claims a report for an officer. The claim is exclusive:
// once one officer holds it, another officer's attempt fails with a
// ConflictError. Re-claiming one's own case is idempotent.
func (s *Service) TakeCase(reportID string, officer *models.User) (*TakeCaseResult, []notify.Event, error) {
	if officer.Role != models.RolePolice {
		return nil, nil, apperr.Forbidden("only police officers can take a case")
	}

	badge := badgeFor(officer)
	if err := s.Storage.TakeCase(reportID, badge, officer.ID); err != nil {
		return nil, nil, err
	}

	taken := time.Now()
	var events []notify.Event
	if report, err := s.Storage.GetReportRow(reportID); err == nil && report != nil {
		if report.ReporterID != nil {
			events = append(events, notify.Event{
				UserID:    *report.ReporterID,
				Type:      models.NotifInfo,
				Title:     "Officer assigned",
				Message:   "A police officer has taken your case and is investigating.",
				RelatedID: report.ID,
			})
		}
		events = append(events, notify.Event{
			Feed: &models.FeedEvent{
				Kind:     models.FeedCaseTaken,
				ReportID: report.ID,
				Area:     report.Location,
				Message:  "An officer is investigating the " + report.CrimeType + " report in " + report.Location,
				At:       taken,
			},
		})
	}

	return &TakeCaseResult{ReportID: reportID, PoliceID: badge, TakenAt: taken}, events, nil
}

// RespondToAlert records an officer's response on a police alert.
// Closing the alert cascades the report to resolved in the store.
func (s *Service) RespondToAlert(alertID uint, officer *models.User, status, details string) ([]notify.Event, error) {
	if officer.Role != models.RolePolice {
		return nil, apperr.Forbidden("only police officers can respond to an alert")
	}
	switch status {
	case models.AlertConfirmed, models.AlertResponded, models.AlertClosed:
	default:
		return nil, apperr.Validation("status must be confirmed, responded or closed", "status")
	}

	alert, err := s.Storage.GetAlertByID(alertID)
	if err != nil {
		return nil, err
	}
	if err := s.Storage.UpdateAlert(alertID, status, badgeFor(officer), details); err != nil {
		return nil, err
	}

	var events []notify.Event
	if report, err := s.Storage.GetReportRow(alert.ReportID); err == nil && report != nil && report.ReporterID != nil {
		events = append(events, notify.Event{
			UserID:    *report.ReporterID,
			Type:      models.NotifInfo,
			Title:     "Police response",
			Message:   "Police responded to the alert on your report (status: " + status + ").",
			RelatedID: report.ID,
		})
	}
	return events, nil
}
