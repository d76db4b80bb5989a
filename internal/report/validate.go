package report

import (
	"log"
	"time"

	"crimewatch/backend/internal/apperr"
	"crimewatch/backend/internal/config"
	"crimewatch/backend/internal/models"
	"crimewatch/backend/internal/notify"
)

// ValidateInput carries one authenticity vote.
type ValidateInput struct {
	ReportID string
	UserID   string
	Role     string
	IsValid  bool
	Comment  string
	// PointsOverride, when set, takes precedence over the policy
	// table for this vote's delta.
	PointsOverride *int
}

// ValidationResult is the success shape returned to the caller.
type ValidationResult struct {
	PointsAwarded int                     `json:"pointsAwarded"`
	Validations   models.ValidationCounts `json:"validations"`
	PoliceAlerted bool                    `json:"policeAlerted"`
	Message       string                  `json:"message"`
}

// pointsDelta resolves the policy table: community votes move the
// reporter's balance by ±50, police votes by ±200.
func pointsDelta(role string, isValid bool) int {
	if role == models.RolePolice {
		if isValid {
			return config.PoliceValidReward
		}
		return config.PoliceInvalidPenalty
	}
	if isValid {
		return config.CommunityValidReward
	}
	return config.CommunityInvalidPenalty
}

// ValidateReport records the vote, applies the points policy exactly
// once per (report, user), and escalates to police when the officer or
// threshold rules fire. Only the ledger write and the points
// adjustment propagate errors; every other side effect is best-effort.
func (s *Service) ValidateReport(in ValidateInput) (*ValidationResult, []notify.Event, error) {
	target, err := s.Storage.GetReportRow(in.ReportID)
	if err != nil {
		return nil, nil, err
	}
	if target == nil {
		return nil, nil, apperr.NotFound("report not found")
	}

	inserted, err := s.Storage.UpsertValidation(in.ReportID, in.UserID, in.IsValid, in.Comment)
	if err != nil {
		return nil, nil, err
	}

	// Only the first vote by this user on this report moves the
	// reporter's balance; later vote changes update the ledger only.
	awarded := 0
	if inserted && target.ReporterID != nil {
		delta := pointsDelta(in.Role, in.IsValid)
		if in.PointsOverride != nil {
			delta = *in.PointsOverride
		}
		if _, err := s.Storage.AdjustUserPoints(*target.ReporterID, delta); err != nil {
			return nil, nil, err
		}
		awarded = delta
	}

	counts, err := s.Storage.GetValidationCounts(in.ReportID)
	if err != nil {
		return nil, nil, err
	}

	result := &ValidationResult{PointsAwarded: awarded, Validations: counts}
	var events []notify.Event

	switch {
	case in.Role == models.RolePolice && in.IsValid:
		// Officer confirmation is trusted outright; no threshold check.
		s.alertPoliceBestEffort(in.ReportID, models.AlertConfirmed)
		result.PoliceAlerted = true
		result.Message = "Police validation recorded. The report is confirmed and police have been alerted."
		if target.ReporterID != nil {
			events = append(events, notify.Event{
				UserID:    *target.ReporterID,
				Type:      models.NotifSuccess,
				Title:     "Report confirmed by police",
				Message:   "A police officer confirmed your report as valid.",
				RelatedID: target.ID,
			})
		}
		events = append(events, policeAlertedFeedEvent(target))

	case in.IsValid && counts.Valid >= config.ValidationThreshold:
		s.alertPoliceBestEffort(in.ReportID, models.AlertPending)
		result.PoliceAlerted = true
		result.Message = "Validation recorded. The community threshold was reached and police have been alerted."
		if counts.Valid == config.ValidationThreshold {
			// Fan the community confirmation out only on the call
			// that crosses the threshold, not on every later vote.
			events = append(events, notify.Event{
				Audience:  notify.AudienceAllPublic,
				Type:      models.NotifAlert,
				Title:     "Report confirmed by community",
				Message:   "A " + target.CrimeType + " report in " + target.Location + " was confirmed by the community. Police have been alerted.",
				RelatedID: target.ID,
			}, policeAlertedFeedEvent(target))
		}
		if target.ReporterID != nil {
			events = append(events, notify.Event{
				UserID:    *target.ReporterID,
				Type:      models.NotifSuccess,
				Title:     "Report validated",
				Message:   "Your report reached the community validation threshold. Police have been alerted.",
				RelatedID: target.ID,
			})
		}

	default:
		result.Message = "Validation recorded."
		if target.ReporterID != nil {
			ev := notify.Event{
				UserID:    *target.ReporterID,
				RelatedID: target.ID,
			}
			if in.IsValid {
				ev.Type = models.NotifInfo
				ev.Title = "Report validated"
				ev.Message = "A community member validated your report."
			} else {
				ev.Type = models.NotifWarning
				ev.Title = "Report marked false"
				ev.Message = "A community member marked your report as false."
			}
			events = append(events, ev)
		}
	}

	return result, events, nil
}

func (s *Service) alertPoliceBestEffort(reportID, initialStatus string) {
	if _, err := s.Storage.AlertPolice(reportID, initialStatus); err != nil {
		log.Printf("ERROR: Police escalation failed for report %s: %v", reportID, err)
	}
}

func policeAlertedFeedEvent(r *models.Report) notify.Event {
	return notify.Event{
		Feed: &models.FeedEvent{
			Kind:      models.FeedPoliceAlerted,
			ReportID:  r.ID,
			Area:      r.Location,
			CrimeType: r.CrimeType,
			Message:   "Police alerted for " + r.CrimeType + " report in " + r.Location,
			At:        time.Now(),
		},
	}
}
