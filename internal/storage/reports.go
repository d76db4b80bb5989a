package storage

import (
	"errors"
	"log"
	"strings"
	"time"

	"crimewatch/backend/internal/apperr"
	"crimewatch/backend/internal/models"

	"gorm.io/gorm"
)

// CreateReport inserts the report and its community crime-alert record
// in one transaction. Notification and police-alert side effects are
// the orchestrator's job, not the store's.
func (s *Service) CreateReport(report *models.Report, alert *models.CrimeAlert) error {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(report).Error; err != nil {
			return err
		}
		if alert != nil {
			alert.ReportID = report.ID
			if err := tx.Create(alert).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("ERROR: Failed to create report at %s: %v", report.Location, err)
		return apperr.Internal("failed to create report", err)
	}
	return nil
}

// GetReportByID returns the report joined with validation totals and
// its alerts, so callers need one round trip. Returns nil without
// error when the report does not exist.
func (s *Service) GetReportByID(id string) (*models.ReportDetail, error) {
	var report models.Report
	err := s.DB.First(&report, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Internal("failed to load report", err)
	}

	counts, err := s.GetValidationCounts(id)
	if err != nil {
		return nil, err
	}
	alerts, err := s.GetAlertsByReport(id)
	if err != nil {
		return nil, err
	}

	return &models.ReportDetail{
		Report:      report,
		Validations: counts,
		Alerts:      alerts,
	}, nil
}

func (s *Service) GetReportRow(id string) (*models.Report, error) {
	var report models.Report
	err := s.DB.First(&report, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Internal("failed to load report", err)
	}
	return &report, nil
}

// UpdateReport applies a dynamic partial update and returns the
// affected row count. An empty field map is a ValidationError.
func (s *Service) UpdateReport(id string, fields map[string]interface{}) (int64, error) {
	if len(fields) == 0 {
		return 0, apperr.Validation("no fields to update")
	}
	fields["updated_at"] = time.Now()
	res := s.DB.Model(&models.Report{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return 0, apperr.Internal("failed to update report", res.Error)
	}
	return res.RowsAffected, nil
}

// DeleteReport hard-deletes the report row. The caller deletes
// associated media files first; no cascading cleanup happens here.
func (s *Service) DeleteReport(id string) (int64, error) {
	res := s.DB.Delete(&models.Report{}, "id = ?", id)
	if res.Error != nil {
		return 0, apperr.Internal("failed to delete report", res.Error)
	}
	return res.RowsAffected, nil
}

func (s *Service) SearchReports(f models.ReportFilters) ([]models.Report, error) {
	q := s.DB.Model(&models.Report{})
	if f.Location != "" {
		q = q.Where("location LIKE ?", "%"+f.Location+"%")
	}
	if f.CrimeType != "" {
		q = q.Where("crime_type = ?", f.CrimeType)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Armed != "" {
		q = q.Where("armed = ?", f.Armed)
	}
	if f.Since != nil {
		q = q.Where("time >= ?", *f.Since)
	}
	if f.Until != nil {
		q = q.Where("time <= ?", *f.Until)
	}

	var reports []models.Report
	if err := q.Order("created_at desc").Find(&reports).Error; err != nil {
		return nil, apperr.Internal("failed to search reports", err)
	}
	return reports, nil
}

// GetNearbyReports matches on the district half of the
// "District-Thana" location string.
func (s *Service) GetNearbyReports(district string) ([]models.Report, error) {
	district = strings.SplitN(district, "-", 2)[0]
	var reports []models.Report
	if err := s.DB.Where("location LIKE ?", district+"%").
		Order("created_at desc").
		Find(&reports).Error; err != nil {
		return nil, apperr.Internal("failed to load nearby reports", err)
	}
	return reports, nil
}

func (s *Service) GetReportsByUser(userID string) ([]models.Report, error) {
	var reports []models.Report
	if err := s.DB.Where("reporter_id = ?", userID).
		Order("created_at desc").
		Find(&reports).Error; err != nil {
		return nil, apperr.Internal("failed to load user reports", err)
	}
	return reports, nil
}

// ResolveReport marks the report resolved and cascades to its police
// alert and crime-alert record in the same transaction.
func (s *Service) ResolveReport(reportID string) error {
	now := time.Now()
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Report{}).
			Where("id = ?", reportID).
			Updates(map[string]interface{}{"status": models.ReportResolved, "updated_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("report not found")
		}
		if err := tx.Model(&models.PoliceAlert{}).
			Where("report_id = ? AND status <> ?", reportID, models.AlertClosed).
			Updates(map[string]interface{}{"status": models.AlertClosed, "updated_at": now}).Error; err != nil {
			return err
		}
		return tx.Model(&models.CrimeAlert{}).
			Where("report_id = ?", reportID).
			Updates(map[string]interface{}{"status": models.CrimeAlertResolved, "updated_at": now}).Error
	})
	if err != nil {
		return apperr.Internal("failed to resolve report", err)
	}
	return nil
}

// TakeCase claims a report for an officer with a single conditional
// update: the write succeeds only when the claim field is unset,
// already holds this officer's badge id (idempotent re-claim), or
// holds the officer's raw user id written by the legacy path. There is
// no window between check and write.
func (s *Service) TakeCase(reportID, badgeID, rawUserID string) error {
	res := s.DB.Model(&models.Report{}).
		Where("id = ? AND (police_id IS NULL OR police_id = ? OR police_id = ?)",
			reportID, badgeID, rawUserID).
		Updates(map[string]interface{}{
			"police_id":  badgeID,
			"status":     models.ReportInvestigating,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return apperr.Internal("failed to take case", res.Error)
	}
	if res.RowsAffected == 1 {
		// Mirror the officer onto the alert record, best-effort.
		if err := s.DB.Model(&models.PoliceAlert{}).
			Where("report_id = ?", reportID).
			Update("assigned_officer", badgeID).Error; err != nil {
			log.Printf("ERROR: Failed to mirror officer %s onto alert for report %s: %v", badgeID, reportID, err)
		}
		return nil
	}

	report, err := s.GetReportRow(reportID)
	if err != nil {
		return err
	}
	if report == nil {
		return apperr.NotFound("report not found")
	}
	return apperr.Conflict("case already taken by another officer")
}

// UpsertValidation records one vote per (report, user): an existing
// row is overwritten, otherwise a new one is inserted. The returned
// flag reports whether a row was inserted, answered by the same atomic
// operation so point awards cannot double-fire.
func (s *Service) UpsertValidation(reportID, userID string, isValid bool, comment string) (bool, error) {
	report, err := s.GetReportRow(reportID)
	if err != nil {
		return false, err
	}
	if report == nil {
		return false, apperr.NotFound("report not found")
	}

	inserted := false
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"is_valid":   isValid,
			"comment":    comment,
			"updated_at": time.Now(),
		}
		res := tx.Model(&models.Validation{}).
			Where("report_id = ? AND user_id = ?", reportID, userID).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}

		v := models.Validation{
			ReportID: reportID,
			UserID:   userID,
			IsValid:  isValid,
			Comment:  comment,
		}
		if err := tx.Create(&v).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// A concurrent vote from the same user won the insert.
				return tx.Model(&models.Validation{}).
					Where("report_id = ? AND user_id = ?", reportID, userID).
					Updates(updates).Error
			}
			return err
		}
		inserted = true
		return nil
	})
	if err != nil {
		log.Printf("ERROR: Failed to record validation on report %s by %s: %v", reportID, userID, err)
		return false, apperr.Internal("failed to record validation", err)
	}
	return inserted, nil
}

// GetValidationCounts aggregates the vote totals for a report,
// zero-filled when no rows exist.
func (s *Service) GetValidationCounts(reportID string) (models.ValidationCounts, error) {
	var counts models.ValidationCounts
	row := s.DB.Model(&models.Validation{}).
		Select("COUNT(*) as total, COALESCE(SUM(CASE WHEN is_valid THEN 1 ELSE 0 END), 0) as valid, COALESCE(SUM(CASE WHEN is_valid THEN 0 ELSE 1 END), 0) as invalid").
		Where("report_id = ?", reportID).
		Scan(&counts)
	if row.Error != nil {
		return counts, apperr.Internal("failed to count validations", row.Error)
	}
	return counts, nil
}
