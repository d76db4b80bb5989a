package models_test

import (
	"reflect"
	"testing"

	"crimewatch/backend/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

// TestReportBeforeCreate_GeneratesUUID verifies that the BeforeCreate hook generates a valid UUID.
func TestReportBeforeCreate_GeneratesUUID(t *testing.T) {
	// Arrange
	report := &models.Report{
		Location:     "Dhaka-Mirpur",
		CrimeType:    "theft",
		NumCriminals: 1,
		Photos:       pq.StringArray{"a.jpg", "b.jpg"},
	}

	assert.Empty(t, report.ID, "Report ID should be empty before BeforeCreate")

	// Act - Call the hook directly (GORM would call this automatically)
	err := report.BeforeCreate(nil)

	// Assert
	assert.NoError(t, err, "BeforeCreate should not return an error")
	assert.NotEmpty(t, report.ID, "Report ID must be populated after BeforeCreate")

	parsedUUID, parseErr := uuid.Parse(report.ID)
	assert.NoError(t, parseErr, "Report ID must be a valid UUID string")
	assert.NotEqual(t, uuid.Nil, parsedUUID)
}

// TestReportBeforeCreate_PreservesExistingID verifies that the hook doesn't overwrite an existing ID.
func TestReportBeforeCreate_PreservesExistingID(t *testing.T) {
	existingID := uuid.New().String()
	report := &models.Report{ID: existingID, Location: "Dhaka-Gulshan", CrimeType: "robbery"}

	err := report.BeforeCreate(nil)

	assert.NoError(t, err)
	assert.Equal(t, existingID, report.ID, "BeforeCreate should preserve existing ID")
}

// TestUserBeforeCreate_GeneratesUUID covers the same hook on users.
func TestUserBeforeCreate_GeneratesUUID(t *testing.T) {
	user := &models.User{Name: "Alice", Email: "alice@example.com"}

	err := user.BeforeCreate(nil)

	assert.NoError(t, err)
	_, parseErr := uuid.Parse(user.ID)
	assert.NoError(t, parseErr, "User ID must be a valid UUID string")
}

// TestReportStructTags verifies that struct tags are correctly defined for GORM and JSON.
func TestReportStructTags(t *testing.T) {
	reportType := reflect.TypeOf(models.Report{})

	idField, found := reportType.FieldByName("ID")
	assert.True(t, found, "ID field should exist")
	assert.Contains(t, idField.Tag.Get("gorm"), "primaryKey", "ID should be marked as primary key")

	photosField, found := reportType.FieldByName("Photos")
	assert.True(t, found, "Photos field should exist")
	assert.Contains(t, photosField.Tag.Get("gorm"), "type:text[]", "Photos should use PostgreSQL array type")

	statusField, found := reportType.FieldByName("Status")
	assert.True(t, found, "Status field should exist")
	assert.Contains(t, statusField.Tag.Get("gorm"), "default:pending", "Status should default to pending")

	hashField, found := reflect.TypeOf(models.User{}).FieldByName("PasswordHash")
	assert.True(t, found, "PasswordHash field should exist")
	assert.Equal(t, "-", hashField.Tag.Get("json"), "PasswordHash must never serialize")
}

// TestValidationUniqueIndex documents the one-vote-per-user constraint.
func TestValidationUniqueIndex(t *testing.T) {
	validationType := reflect.TypeOf(models.Validation{})

	reportField, found := validationType.FieldByName("ReportID")
	assert.True(t, found)
	assert.Contains(t, reportField.Tag.Get("gorm"), "uniqueIndex:idx_report_user")

	userField, found := validationType.FieldByName("UserID")
	assert.True(t, found)
	assert.Contains(t, userField.Tag.Get("gorm"), "uniqueIndex:idx_report_user")
}

func TestValidNotificationType(t *testing.T) {
	for _, typ := range []string{models.NotifAlert, models.NotifWarning, models.NotifInfo, models.NotifSuccess} {
		assert.True(t, models.ValidNotificationType(typ), typ)
	}
	assert.False(t, models.ValidNotificationType("fanfare"))
	assert.False(t, models.ValidNotificationType(""))
}
