package storage

import (
	"context"
	"errors"
	"log"
	"time"

	"crimewatch/backend/internal/apperr"
	"crimewatch/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Storage interface {
	// Users
	CreateUser(user *models.User) error
	GetUserByID(id string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserIDsByRole(role string) ([]string, error)
	SaveUser(user *models.User) error
	AdjustUserPoints(userID string, delta int) (int, error)
	MarkUserVerified(email string) error

	// Reports
	CreateReport(report *models.Report, alert *models.CrimeAlert) error
	GetReportByID(id string) (*models.ReportDetail, error)
	GetReportRow(id string) (*models.Report, error)
	UpdateReport(id string, fields map[string]interface{}) (int64, error)
	DeleteReport(id string) (int64, error)
	SearchReports(f models.ReportFilters) ([]models.Report, error)
	GetNearbyReports(district string) ([]models.Report, error)
	GetReportsByUser(userID string) ([]models.Report, error)
	ResolveReport(reportID string) error
	TakeCase(reportID, badgeID, rawUserID string) error

	// Validations
	UpsertValidation(reportID, userID string, isValid bool, comment string) (bool, error)
	GetValidationCounts(reportID string) (models.ValidationCounts, error)

	// Police alerts
	AlertPolice(reportID, initialStatus string) (*models.PoliceAlert, error)
	GetAlertByID(id uint) (*models.PoliceAlert, error)
	GetAlertsByReport(reportID string) ([]models.PoliceAlert, error)
	UpdateAlert(id uint, status, officer, details string) error

	// Crime alerts (community feed records)
	UpdateCrimeAlertStatus(id uint, status string) error

	// Notifications
	CreateNotification(n *models.Notification) error
	ListNotifications(userID string) ([]models.Notification, error)
	MarkNotificationRead(id uint, ownerID string) error
	MarkAllNotificationsRead(ownerID string) error
	DeleteNotification(id uint, ownerID string) error
	DeleteAllNotifications(ownerID string) error

	// Redis-backed
	StoreVerificationCode(email, code string, ttl time.Duration) error
	ConsumeVerificationCode(email string) (string, error)
	PublishFeedEvent(ev models.FeedEvent) error
}

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewService Constructor
func NewService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// CreateUser inserts a new user; a duplicate email surfaces as a
// ConflictError.
func (s *Service) CreateUser(user *models.User) error {
	if err := s.DB.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Conflict("an account with this email already exists")
		}
		log.Printf("ERROR: Failed to create user %s: %v", user.Email, err)
		return apperr.Internal("failed to create user", err)
	}
	return nil
}

func (s *Service) GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := s.DB.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, apperr.Internal("failed to load user", err)
	}
	return &user, nil
}

func (s *Service) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.DB.First(&user, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, apperr.Internal("failed to load user", err)
	}
	return &user, nil
}

// GetUserIDsByRole returns the ids of every user holding the role.
// Used by the dispatcher to resolve fan-out recipient sets.
func (s *Service) GetUserIDsByRole(role string) ([]string, error) {
	var ids []string
	if err := s.DB.Model(&models.User{}).
		Where("role = ?", role).
		Pluck("id", &ids).Error; err != nil {
		log.Printf("ERROR: Failed to list users with role %s: %v", role, err)
		return nil, apperr.Internal("failed to resolve recipients", err)
	}
	return ids, nil
}

func (s *Service) SaveUser(user *models.User) error {
	return s.DB.Save(user).Error
}

// AdjustUserPoints applies points = points + delta and returns the new
// balance. Delta may be negative; no lower bound is enforced.
func (s *Service) AdjustUserPoints(userID string, delta int) (int, error) {
	var balance int
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("id = ?", userID).
			Update("points", gorm.Expr("points + ?", delta))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("user not found")
		}
		return tx.Model(&models.User{}).
			Where("id = ?", userID).
			Select("points").
			Scan(&balance).Error
	})
	if err != nil {
		return 0, apperr.Internal("failed to adjust points", err)
	}
	return balance, nil
}

func (s *Service) MarkUserVerified(email string) error {
	res := s.DB.Model(&models.User{}).
		Where("email = ?", email).
		Update("verified", true)
	if res.Error != nil {
		return apperr.Internal("failed to mark user verified", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

// StoreVerificationCode keeps a one-shot admin verification code in
// redis under a TTL so it survives restarts and works across
// instances.
func (s *Service) StoreVerificationCode(email, code string, ttl time.Duration) error {
	return s.Redis.Set(s.Ctx, "verify:"+email, code, ttl).Err()
}

// ConsumeVerificationCode reads and deletes the code as one atomic
// operation (GETDEL), so a code can never be replayed. Returns ""
// without error when no code is stored or it has expired.
func (s *Service) ConsumeVerificationCode(email string) (string, error) {
	code, err := s.Redis.GetDel(s.Ctx, "verify:"+email).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return code, nil
}
