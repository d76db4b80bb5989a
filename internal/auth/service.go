package auth

import (
	"crypto/rand"
	"fmt"
	"log"
	"math/big"

	"crimewatch/backend/internal/apperr"
	"crimewatch/backend/internal/config"
	"crimewatch/backend/internal/mailer"
	"crimewatch/backend/internal/models"
	"crimewatch/backend/internal/storage"

	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	Storage storage.Storage
	Mailer  mailer.Sender
	Secret  []byte
}

func NewService(s storage.Storage, m mailer.Sender, secret []byte) *Service {
	return &Service{Storage: s, Mailer: m, Secret: secret}
}

// Register creates an account. Admin accounts start unverified and
// receive a one-shot verification code by mail.
func (s *Service) Register(name, email, password, role, policeID string) (*models.User, error) {
	if name == "" || email == "" || password == "" {
		return nil, apperr.Validation("name, email and password are required")
	}
	switch role {
	case "":
		role = models.RolePublic
	case models.RolePublic, models.RolePolice, models.RoleAdmin:
	default:
		return nil, apperr.Validation("role must be public, police or admin", "role")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal("failed to hash password", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		PoliceID:     policeID,
		Verified:     role != models.RoleAdmin,
	}
	if err := s.Storage.CreateUser(user); err != nil {
		return nil, err
	}

	if role == models.RoleAdmin {
		s.sendVerificationCode(email)
	}
	return user, nil
}

// Login checks credentials and returns a signed token.
func (s *Service) Login(email, password string) (string, *models.User, error) {
	user, err := s.Storage.GetUserByEmail(email)
	if err != nil {
		return "", nil, apperr.Forbidden("invalid credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, apperr.Forbidden("invalid credentials")
	}
	if user.Role == models.RoleAdmin && !user.Verified {
		return "", nil, apperr.Forbidden("admin account not verified")
	}

	token, err := GenerateJWT(s.Secret, user.ID, user.Role)
	if err != nil {
		return "", nil, apperr.Internal("failed to issue token", err)
	}
	return token, user, nil
}

// VerifyAdmin consumes the mailed code. The code is read and deleted
// in one redis operation, so it can be used at most once.
func (s *Service) VerifyAdmin(email, code string) error {
	if email == "" || code == "" {
		return apperr.Validation("email and code are required")
	}
	stored, err := s.Storage.ConsumeVerificationCode(email)
	if err != nil {
		return apperr.Internal("failed to check verification code", err)
	}
	if stored == "" || stored != code {
		return apperr.Forbidden("invalid or expired verification code")
	}
	return s.Storage.MarkUserVerified(email)
}

func (s *Service) sendVerificationCode(email string) {
	code, err := randomCode(config.VerificationCodeDigits)
	if err != nil {
		log.Printf("ERROR: Failed to generate verification code for %s: %v", email, err)
		return
	}
	if err := s.Storage.StoreVerificationCode(email, code, config.VerificationCodeTTL); err != nil {
		log.Printf("ERROR: Failed to store verification code for %s: %v", email, err)
		return
	}
	s.Mailer.Send(email, "Your admin verification code",
		"Your verification code is "+code+". It expires in 10 minutes.")
}

func randomCode(digits int) (string, error) {
	max := big.NewInt(1)
	for i := 0; i < digits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", digits, n), nil
}
