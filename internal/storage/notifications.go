package storage

import (
	"log"

	"crimewatch/backend/internal/apperr"
	"crimewatch/backend/internal/models"
)

func (s *Service) CreateNotification(n *models.Notification) error {
	if err := s.DB.Create(n).Error; err != nil {
		log.Printf("ERROR: Failed to create notification for user %s: %v", n.UserID, err)
		return apperr.Internal("failed to create notification", err)
	}
	return nil
}

func (s *Service) ListNotifications(userID string) ([]models.Notification, error) {
	var notifications []models.Notification
	if err := s.DB.Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&notifications).Error; err != nil {
		return nil, apperr.Internal("failed to load notifications", err)
	}
	return notifications, nil
}

// MarkNotificationRead is scoped by (id, owner) so one user can never
// flip another user's read state.
func (s *Service) MarkNotificationRead(id uint, ownerID string) error {
	res := s.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, ownerID).
		Update("is_read", true)
	if res.Error != nil {
		return apperr.Internal("failed to mark notification read", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("notification not found")
	}
	return nil
}

func (s *Service) MarkAllNotificationsRead(ownerID string) error {
	if err := s.DB.Model(&models.Notification{}).
		Where("user_id = ?", ownerID).
		Update("is_read", true).Error; err != nil {
		return apperr.Internal("failed to mark notifications read", err)
	}
	return nil
}

func (s *Service) DeleteNotification(id uint, ownerID string) error {
	res := s.DB.Delete(&models.Notification{}, "id = ? AND user_id = ?", id, ownerID)
	if res.Error != nil {
		return apperr.Internal("failed to delete notification", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("notification not found")
	}
	return nil
}

func (s *Service) DeleteAllNotifications(ownerID string) error {
	if err := s.DB.Delete(&models.Notification{}, "user_id = ?", ownerID).Error; err != nil {
		return apperr.Internal("failed to delete notifications", err)
	}
	return nil
}
