package storage

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"crimewatch/backend/internal/apperr"
	"crimewatch/backend/internal/models"

	"gorm.io/gorm"
)

// AlertPolice is the idempotent escalation write: when an alert
// already exists for the report its status moves to confirmed and
// updated_at is refreshed; otherwise a fresh alert is inserted with
// initialStatus. Never produces a second alert row per report, and a
// closed alert is terminal: re-alerting returns it unchanged.
func (s *Service) AlertPolice(reportID, initialStatus string) (*models.PoliceAlert, error) {
	var alert models.PoliceAlert
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("report_id = ?", reportID).First(&alert).Error
		if err == nil {
			if alert.Status == models.AlertClosed {
				return nil
			}
			alert.Status = models.AlertConfirmed
			alert.UpdatedAt = time.Now()
			return tx.Save(&alert).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		alert = models.PoliceAlert{
			ReportID: reportID,
			Status:   initialStatus,
		}
		return tx.Create(&alert).Error
	})
	if err != nil {
		log.Printf("ERROR: Failed to alert police for report %s: %v", reportID, err)
		return nil, apperr.Internal("failed to alert police", err)
	}
	return &alert, nil
}

func (s *Service) GetAlertByID(id uint) (*models.PoliceAlert, error) {
	var alert models.PoliceAlert
	err := s.DB.First(&alert, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("alert not found")
	}
	if err != nil {
		return nil, apperr.Internal("failed to load alert", err)
	}
	return &alert, nil
}

func (s *Service) GetAlertsByReport(reportID string) ([]models.PoliceAlert, error) {
	var alerts []models.PoliceAlert
	if err := s.DB.Where("report_id = ?", reportID).
		Order("created_at asc").
		Find(&alerts).Error; err != nil {
		return nil, apperr.Internal("failed to load alerts", err)
	}
	return alerts, nil
}

// UpdateAlert records an officer's response: status, assigned officer
// and response details, stamping responded_at and updated_at. Closing
// the alert marks the underlying report resolved in the same
// transaction.
func (s *Service) UpdateAlert(id uint, status, officer, details string) error {
	now := time.Now()
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var alert models.PoliceAlert
		if err := tx.First(&alert, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("alert not found")
			}
			return err
		}

		updates := map[string]interface{}{
			"status":       status,
			"responded_at": now,
			"updated_at":   now,
		}
		if officer != "" {
			updates["assigned_officer"] = officer
		}
		if details != "" {
			updates["response_details"] = details
		}
		if err := tx.Model(&alert).Updates(updates).Error; err != nil {
			return err
		}

		if status == models.AlertClosed {
			return tx.Model(&models.Report{}).
				Where("id = ?", alert.ReportID).
				Updates(map[string]interface{}{"status": models.ReportResolved, "updated_at": now}).Error
		}
		return nil
	})
	if err != nil {
		return apperr.Internal("failed to update alert", err)
	}
	return nil
}

// UpdateCrimeAlertStatus moves a community feed record between active
// and resolved.
func (s *Service) UpdateCrimeAlertStatus(id uint, status string) error {
	res := s.DB.Model(&models.CrimeAlert{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()})
	if res.Error != nil {
		return apperr.Internal("failed to update crime alert", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("crime alert not found")
	}
	return nil
}

// PublishFeedEvent pushes an event onto the redis broadcast channel
// consumed by every instance's feed hub.
func (s *Service) PublishFeedEvent(ev models.FeedEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return s.Redis.Publish(s.Ctx, "feed:broadcast", string(payload)).Err()
}
