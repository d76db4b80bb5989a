// Package report is the lifecycle orchestrator: the only component
// that sequences the report store, validation ledger, alert manager,
// reputation accounting and notification fan-out in response to
// external triggers. No component calls back into it.
package report

import (
	"log"
	"time"

	"crimewatch/backend/internal/apperr"
	"crimewatch/backend/internal/config"
	"crimewatch/backend/internal/media"
	"crimewatch/backend/internal/models"
	"crimewatch/backend/internal/notify"
	"crimewatch/backend/internal/storage"
)

type Service struct {
	Storage storage.Storage
	Media   media.Store
}

func NewService(s storage.Storage, m media.Store) *Service {
	return &Service{Storage: s, Media: m}
}

// SubmitInput carries a new report. Photos and Videos are relative
// paths the media store already confirmed written.
type SubmitInput struct {
	Location     string
	Time         time.Time
	CrimeType    string
	NumCriminals int
	VictimGender string
	Armed        string
	Photos       []string
	Videos       []string
	ReporterID   *string
}

func (in *SubmitInput) validate() error {
	var missing []string
	if in.Location == "" {
		missing = append(missing, "location")
	}
	if in.CrimeType == "" {
		missing = append(missing, "crime_type")
	}
	if in.Time.IsZero() {
		missing = append(missing, "time")
	}
	if len(missing) > 0 {
		return apperr.Validation("missing required fields", missing...)
	}
	if in.NumCriminals < 1 {
		return apperr.Validation("num_criminals must be at least 1", "num_criminals")
	}
	switch in.Armed {
	case models.ArmedYes, models.ArmedNo, models.ArmedUnknown:
	case "":
		in.Armed = models.ArmedUnknown
	default:
		return apperr.Validation("armed must be yes, no or unknown", "armed")
	}
	return nil
}

// severeAtSubmission reports whether the report escalates to police
// immediately, independent of community validation.
func severeAtSubmission(in *SubmitInput) bool {
	return in.Armed == models.ArmedYes || config.SevereCrimeTypes[in.CrimeType]
}

// highRisk reports whether the submission additionally warrants the
// urgent admin notification.
func highRisk(in *SubmitInput) bool {
	return in.Armed == models.ArmedYes || config.HighRiskCrimeTypes[in.CrimeType]
}

// SubmitReport validates and persists a new report together with its
// community crime-alert record, escalates to police when the severity
// criteria are met, and returns the outbox events for the fan-out.
// The report is the unit of success: escalation failure is logged,
// never rolled back into a failed submission.
func (s *Service) SubmitReport(in SubmitInput) (*models.Report, []notify.Event, error) {
	if err := in.validate(); err != nil {
		return nil, nil, err
	}

	report := &models.Report{
		Location:     in.Location,
		Time:         in.Time,
		CrimeType:    in.CrimeType,
		NumCriminals: in.NumCriminals,
		VictimGender: in.VictimGender,
		Armed:        in.Armed,
		Photos:       in.Photos,
		Videos:       in.Videos,
		Status:       models.ReportPending,
		ReporterID:   in.ReporterID,
	}
	crimeAlert := &models.CrimeAlert{
		Area:   in.Location,
		Type:   in.CrimeType,
		Status: models.CrimeAlertActive,
	}
	if err := s.Storage.CreateReport(report, crimeAlert); err != nil {
		return nil, nil, err
	}

	if severeAtSubmission(&in) {
		if _, err := s.Storage.AlertPolice(report.ID, models.AlertPending); err != nil {
			log.Printf("ERROR: Severity escalation failed for report %s: %v", report.ID, err)
		}
	}

	var events []notify.Event
	if report.ReporterID != nil {
		events = append(events, notify.Event{
			UserID:    *report.ReporterID,
			Type:      models.NotifSuccess,
			Title:     "Report submitted",
			Message:   "Your crime report has been submitted successfully.",
			RelatedID: report.ID,
		})
	}

	excluded := ""
	if report.ReporterID != nil {
		excluded = *report.ReporterID
	}
	events = append(events, notify.Event{
		Audience:      notify.AudienceAllPublic,
		ExcludeUserID: excluded,
		Type:          models.NotifAlert,
		Title:         "New crime reported",
		Message:       "A " + report.CrimeType + " was reported in " + report.Location + ".",
		RelatedID:     report.ID,
		Feed: &models.FeedEvent{
			Kind:      models.FeedNewReport,
			ReportID:  report.ID,
			Area:      report.Location,
			CrimeType: report.CrimeType,
			Message:   "New " + report.CrimeType + " report in " + report.Location,
			At:        time.Now(),
		},
	})

	if highRisk(&in) {
		events = append(events, notify.Event{
			Audience:  notify.AudienceAllAdmins,
			Type:      models.NotifAlert,
			Title:     "URGENT: high-risk crime reported",
			Message:   "A high-risk " + report.CrimeType + " report (armed: " + report.Armed + ") was filed in " + report.Location + ".",
			RelatedID: report.ID,
			Urgent:    true,
		})
	}

	return report, events, nil
}

// GetReport returns the one-round-trip detail shape with media paths
// resolved to URLs, or a NotFoundError.
func (s *Service) GetReport(id string) (*models.ReportDetail, error) {
	detail, err := s.Storage.GetReportByID(id)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, apperr.NotFound("report not found")
	}
	for _, p := range detail.Photos {
		detail.PhotoURLs = append(detail.PhotoURLs, s.Media.URL(p))
	}
	for _, v := range detail.Videos {
		detail.VideoURLs = append(detail.VideoURLs, s.Media.URL(v))
	}
	return detail, nil
}

// DeleteReport removes the report's media files first (best-effort)
// and then the row; the store itself guarantees no cascading cleanup.
func (s *Service) DeleteReport(id string) error {
	report, err := s.Storage.GetReportRow(id)
	if err != nil {
		return err
	}
	if report == nil {
		return apperr.NotFound("report not found")
	}
	s.Media.Remove(append(append([]string{}, report.Photos...), report.Videos...))

	affected, err := s.Storage.DeleteReport(id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFound("report not found")
	}
	return nil
}

// ResolveReport marks a report resolved, cascading to its alerts, and
// produces the reporter-facing notice.
func (s *Service) ResolveReport(id string) ([]notify.Event, error) {
	report, err := s.Storage.GetReportRow(id)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, apperr.NotFound("report not found")
	}
	if err := s.Storage.ResolveReport(id); err != nil {
		return nil, err
	}

	var events []notify.Event
	if report.ReporterID != nil {
		events = append(events, notify.Event{
			UserID:    *report.ReporterID,
			Type:      models.NotifSuccess,
			Title:     "Case resolved",
			Message:   "Your report has been marked resolved.",
			RelatedID: report.ID,
		})
	}
	events = append(events, notify.Event{
		Feed: &models.FeedEvent{
			Kind:     models.FeedReportStatus,
			ReportID: report.ID,
			Area:     report.Location,
			Message:  "Report marked resolved",
			At:       time.Now(),
		},
	})
	return events, nil
}

// UpdateCrimeAlertStatus moves a community feed record between active
// and resolved; anything else is a ValidationError.
func (s *Service) UpdateCrimeAlertStatus(id uint, status string) error {
	if status != models.CrimeAlertActive && status != models.CrimeAlertResolved {
		return apperr.Validation("status must be active or resolved", "status")
	}
	return s.Storage.UpdateCrimeAlertStatus(id, status)
}
