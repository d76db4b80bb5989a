package report_test

import (
	"errors"
	"mime/multipart"
	"testing"
	"time"

	"crimewatch/backend/internal/apperr"
	"crimewatch/backend/internal/models"
	"crimewatch/backend/internal/notify"
	"crimewatch/backend/internal/report"
	"crimewatch/backend/internal/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// fakeMedia satisfies media.Store without touching disk.
type fakeMedia struct{}

func (fakeMedia) Save(*multipart.FileHeader) (string, error) { return "", nil }
func (fakeMedia) URL(p string) string                        { return "/media/" + p }
func (fakeMedia) Remove([]string)                            {}

func setupService(t *testing.T) (*report.Service, *storage.Service) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Report{},
		&models.Validation{},
		&models.PoliceAlert{},
		&models.CrimeAlert{},
		&models.Notification{},
	)
	if err != nil {
		t.Fatalf("failed to migrate models: %v", err)
	}
	s := storage.NewService(db, nil)
	return report.NewService(s, fakeMedia{}), s
}

func newUser(t *testing.T, s *storage.Service, role, badge string) *models.User {
	t.Helper()
	user := &models.User{Name: "user", Email: uuid.New().String() + "@example.com", Role: role, PoliceID: badge}
	if err := s.CreateUser(user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func submit(t *testing.T, svc *report.Service, reporterID *string) *models.Report {
	t.Helper()
	created, _, err := svc.SubmitReport(report.SubmitInput{
		Location:     "Dhaka-Gulshan",
		Time:         time.Date(2024, 3, 1, 22, 0, 0, 0, time.UTC),
		CrimeType:    "theft",
		NumCriminals: 1,
		VictimGender: "male",
		Armed:        models.ArmedNo,
		ReporterID:   reporterID,
	})
	if err != nil {
		t.Fatalf("failed to submit report: %v", err)
	}
	return created
}

func TestSubmitReport_RoundTrip(t *testing.T) {
	// Arrange
	svc, _ := setupService(t)
	in := report.SubmitInput{
		Location:     "Dhaka-Mirpur",
		Time:         time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		CrimeType:    "theft",
		NumCriminals: 2,
		VictimGender: "female",
		Armed:        models.ArmedNo,
	}

	// Act
	created, _, err := svc.SubmitReport(in)
	assert.NoError(t, err)

	detail, err := svc.GetReport(created.ID)

	// Assert - every submitted field reads back exactly
	assert.NoError(t, err)
	assert.Equal(t, in.Location, detail.Location)
	assert.True(t, in.Time.Equal(detail.Time))
	assert.Equal(t, in.CrimeType, detail.CrimeType)
	assert.Equal(t, in.NumCriminals, detail.NumCriminals)
	assert.Equal(t, in.Armed, detail.Armed)
	assert.Equal(t, models.ValidationCounts{}, detail.Validations)
	assert.Empty(t, detail.Alerts, "a fresh non-severe report has no alerts")
}

func TestSubmitReport_RejectsBadInput(t *testing.T) {
	svc, _ := setupService(t)

	_, _, err := svc.SubmitReport(report.SubmitInput{
		Location:     "Dhaka-Mirpur",
		Time:         time.Now(),
		CrimeType:    "theft",
		NumCriminals: 0,
	})

	var validation *apperr.ValidationError
	assert.True(t, errors.As(err, &validation), "num_criminals below 1 must fail")

	_, _, err = svc.SubmitReport(report.SubmitInput{NumCriminals: 1})
	assert.True(t, errors.As(err, &validation), "missing required fields must fail")
}

func TestSubmitReport_ArmedTriggersImmediateAlertAndUrgentNotice(t *testing.T) {
	// Arrange
	svc, s := setupService(t)

	// Act
	created, events, err := svc.SubmitReport(report.SubmitInput{
		Location:     "Dhaka-Mirpur",
		Time:         time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		CrimeType:    "robbery",
		NumCriminals: 2,
		VictimGender: "female",
		Armed:        models.ArmedYes,
	})

	// Assert - the alert exists before any community validation
	assert.NoError(t, err)
	alerts, err := s.GetAlertsByReport(created.ID)
	assert.NoError(t, err)
	if assert.Len(t, alerts, 1) {
		assert.Equal(t, models.AlertPending, alerts[0].Status)
	}

	// And the admin fan-out is framed urgent
	var urgent *notify.Event
	for i := range events {
		if events[i].Audience == notify.AudienceAllAdmins {
			urgent = &events[i]
		}
	}
	if assert.NotNil(t, urgent, "armed submission must produce an admin event") {
		assert.Contains(t, urgent.Title, "URGENT")
		assert.True(t, urgent.Urgent)
	}
}

func TestSubmitReport_SevereCrimeTypeEscalates(t *testing.T) {
	svc, s := setupService(t)

	created, _, err := svc.SubmitReport(report.SubmitInput{
		Location:     "Dhaka-Banani",
		Time:         time.Now().Add(-time.Hour),
		CrimeType:    "homicide",
		NumCriminals: 1,
		Armed:        models.ArmedUnknown,
	})
	assert.NoError(t, err)

	alerts, _ := s.GetAlertsByReport(created.ID)
	assert.Len(t, alerts, 1, "homicide escalates at submission regardless of armed")
}

func TestValidateReport_ThresholdEscalation(t *testing.T) {
	// Arrange
	svc, s := setupService(t)
	target := submit(t, svc, nil)
	voters := []*models.User{
		newUser(t, s, models.RolePublic, ""),
		newUser(t, s, models.RolePublic, ""),
		newUser(t, s, models.RolePublic, ""),
	}

	// Act - two valid votes stay below the threshold
	for _, voter := range voters[:2] {
		result, _, err := svc.ValidateReport(report.ValidateInput{
			ReportID: target.ID, UserID: voter.ID, Role: voter.Role, IsValid: true,
		})
		assert.NoError(t, err)
		assert.False(t, result.PoliceAlerted)
	}
	alerts, _ := s.GetAlertsByReport(target.ID)
	assert.Empty(t, alerts, "two votes never alert police")

	// Act - the third vote crosses the threshold
	result, events, err := svc.ValidateReport(report.ValidateInput{
		ReportID: target.ID, UserID: voters[2].ID, Role: voters[2].Role, IsValid: true,
	})

	// Assert
	assert.NoError(t, err)
	assert.True(t, result.PoliceAlerted)
	alerts, _ = s.GetAlertsByReport(target.ID)
	assert.Len(t, alerts, 1, "exactly one alert for the report")

	foundCommunity := false
	for _, ev := range events {
		if ev.Audience == notify.AudienceAllPublic {
			foundCommunity = true
		}
	}
	assert.True(t, foundCommunity, "the crossing call fans out the community confirmation")
}

func TestValidateReport_OfficerBypassesThreshold(t *testing.T) {
	// Arrange
	svc, s := setupService(t)
	target := submit(t, svc, nil)
	officer := newUser(t, s, models.RolePolice, "DMP-1234")

	// Act - a single officer vote with zero community votes
	result, _, err := svc.ValidateReport(report.ValidateInput{
		ReportID: target.ID, UserID: officer.ID, Role: officer.Role, IsValid: true,
	})

	// Assert
	assert.NoError(t, err)
	assert.True(t, result.PoliceAlerted)
	alerts, _ := s.GetAlertsByReport(target.ID)
	if assert.Len(t, alerts, 1) {
		assert.Equal(t, models.AlertConfirmed, alerts[0].Status, "officer-created alerts are born confirmed")
	}
}

func TestValidateReport_FirstVotePointsIdempotence(t *testing.T) {
	// Arrange
	svc, s := setupService(t)
	reporter := newUser(t, s, models.RolePublic, "")
	target := submit(t, svc, &reporter.ID)
	voter := newUser(t, s, models.RolePublic, "")

	// Act - first valid vote awards +50 to the reporter
	result, _, err := svc.ValidateReport(report.ValidateInput{
		ReportID: target.ID, UserID: voter.ID, Role: voter.Role, IsValid: true,
	})
	assert.NoError(t, err)
	assert.Equal(t, 50, result.PointsAwarded)

	saved, _ := s.GetUserByID(reporter.ID)
	assert.Equal(t, 50, saved.Points)

	// Act - the same user changing their vote updates the ledger only
	result, _, err = svc.ValidateReport(report.ValidateInput{
		ReportID: target.ID, UserID: voter.ID, Role: voter.Role, IsValid: false,
	})
	assert.NoError(t, err)
	assert.Equal(t, 0, result.PointsAwarded, "no second delta for the same (report, user)")

	saved, _ = s.GetUserByID(reporter.ID)
	assert.Equal(t, 50, saved.Points, "balance unchanged by the repeat vote")
	assert.Equal(t, int64(1), result.Validations.Invalid, "the ledger did record the changed vote")
}

func TestValidateReport_PoliceVoteDeltaAndOverride(t *testing.T) {
	svc, s := setupService(t)
	reporter := newUser(t, s, models.RolePublic, "")
	officer := newUser(t, s, models.RolePolice, "DMP-9")

	first := submit(t, svc, &reporter.ID)
	result, _, err := svc.ValidateReport(report.ValidateInput{
		ReportID: first.ID, UserID: officer.ID, Role: officer.Role, IsValid: true,
	})
	assert.NoError(t, err)
	assert.Equal(t, 200, result.PointsAwarded, "police valid vote pays the police rate")

	// An explicit override beats the policy table.
	second := submit(t, svc, &reporter.ID)
	override := 10
	result, _, err = svc.ValidateReport(report.ValidateInput{
		ReportID: second.ID, UserID: officer.ID, Role: officer.Role, IsValid: true,
		PointsOverride: &override,
	})
	assert.NoError(t, err)
	assert.Equal(t, 10, result.PointsAwarded)
}

func TestValidateReport_InvalidVoteNotifiesReporter(t *testing.T) {
	svc, s := setupService(t)
	reporter := newUser(t, s, models.RolePublic, "")
	target := submit(t, svc, &reporter.ID)
	voter := newUser(t, s, models.RolePublic, "")

	result, events, err := svc.ValidateReport(report.ValidateInput{
		ReportID: target.ID, UserID: voter.ID, Role: voter.Role, IsValid: false,
	})

	assert.NoError(t, err)
	assert.False(t, result.PoliceAlerted)
	assert.Equal(t, -50, result.PointsAwarded)

	if assert.Len(t, events, 1) {
		assert.Equal(t, reporter.ID, events[0].UserID)
		assert.Contains(t, events[0].Title, "marked false")
	}
}

func TestValidateReport_ReportMissing(t *testing.T) {
	svc, s := setupService(t)
	voter := newUser(t, s, models.RolePublic, "")

	_, _, err := svc.ValidateReport(report.ValidateInput{
		ReportID: "no-such-report", UserID: voter.ID, Role: voter.Role, IsValid: true,
	})

	var notFound *apperr.NotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestTakeCase_ExclusiveClaims(t *testing.T) {
	// Arrange
	svc, s := setupService(t)
	target := submit(t, svc, nil)
	officerA := newUser(t, s, models.RolePolice, "DMP-1")
	officerB := newUser(t, s, models.RolePolice, "DMP-2")

	// Act - officer A claims the case
	result, _, err := svc.TakeCase(target.ID, officerA)
	assert.NoError(t, err)
	assert.Equal(t, "DMP-1", result.PoliceID)

	// Assert - officer B's claim conflicts
	_, _, err = svc.TakeCase(target.ID, officerB)
	var conflict *apperr.ConflictError
	assert.True(t, errors.As(err, &conflict), "expected ConflictError, got %v", err)

	// And A's re-claim stays idempotent
	_, _, err = svc.TakeCase(target.ID, officerA)
	assert.NoError(t, err)
}

func TestTakeCase_RequiresPoliceRole(t *testing.T) {
	svc, s := setupService(t)
	target := submit(t, svc, nil)
	civilian := newUser(t, s, models.RolePublic, "")

	_, _, err := svc.TakeCase(target.ID, civilian)

	var forbidden *apperr.AuthorizationError
	assert.True(t, errors.As(err, &forbidden))
}

func TestTakeCase_SynthesizesBadgeFallback(t *testing.T) {
	svc, s := setupService(t)
	target := submit(t, svc, nil)
	officer := newUser(t, s, models.RolePolice, "")

	result, _, err := svc.TakeCase(target.ID, officer)

	assert.NoError(t, err)
	assert.Equal(t, "U"+officer.ID, result.PoliceID)
}

func TestRespondToAlert_ClosedResolvesReport(t *testing.T) {
	// Arrange
	svc, s := setupService(t)
	reporter := newUser(t, s, models.RolePublic, "")
	target := submit(t, svc, &reporter.ID)
	officer := newUser(t, s, models.RolePolice, "DMP-7")
	alert, err := s.AlertPolice(target.ID, models.AlertPending)
	assert.NoError(t, err)

	// Act
	events, err := svc.RespondToAlert(alert.ID, officer, models.AlertClosed, "patrol dispatched, case closed")

	// Assert
	assert.NoError(t, err)
	row, _ := s.GetReportRow(target.ID)
	assert.Equal(t, models.ReportResolved, row.Status)
	if assert.Len(t, events, 1) {
		assert.Equal(t, reporter.ID, events[0].UserID)
	}
}

func TestRespondToAlert_RejectsUnknownStatus(t *testing.T) {
	svc, s := setupService(t)
	target := submit(t, svc, nil)
	officer := newUser(t, s, models.RolePolice, "DMP-7")
	alert, _ := s.AlertPolice(target.ID, models.AlertPending)

	_, err := svc.RespondToAlert(alert.ID, officer, "escalated", "")

	var validation *apperr.ValidationError
	assert.True(t, errors.As(err, &validation))
}

func TestUpdateCrimeAlertStatus(t *testing.T) {
	svc, s := setupService(t)
	target := submit(t, svc, nil)

	var crimeAlert models.CrimeAlert
	assert.NoError(t, s.DB.First(&crimeAlert, "report_id = ?", target.ID).Error)

	assert.NoError(t, svc.UpdateCrimeAlertStatus(crimeAlert.ID, models.CrimeAlertResolved))

	var validation *apperr.ValidationError
	err := svc.UpdateCrimeAlertStatus(crimeAlert.ID, "archived")
	assert.True(t, errors.As(err, &validation), "only active and resolved are accepted")
}

func TestDeleteReport_Missing(t *testing.T) {
	svc, _ := setupService(t)

	err := svc.DeleteReport("no-such-report")

	var notFound *apperr.NotFoundError
	assert.True(t, errors.As(err, &notFound))
}
