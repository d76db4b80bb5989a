package auth_test

import (
	"errors"
	"testing"

	"crimewatch/backend/internal/apperr"
	"crimewatch/backend/internal/auth"
	"crimewatch/backend/internal/models"
	"crimewatch/backend/internal/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// silentMailer drops every message; the admin flow is exercised up to
// the redis boundary elsewhere.
type silentMailer struct{}

func (silentMailer) Send(to, subject, body string) {}

// codeStore stands in for the redis-backed code operations so the
// verify flow can be driven without a redis server. GETDEL semantics
// are mimicked: the first consume returns the code, later ones "".
type codeStore struct {
	storage.Storage
	codes    map[string]string
	verified map[string]bool
}

func newCodeStore() *codeStore {
	return &codeStore{codes: map[string]string{}, verified: map[string]bool{}}
}

func (s *codeStore) ConsumeVerificationCode(email string) (string, error) {
	code := s.codes[email]
	delete(s.codes, email)
	return code, nil
}

func (s *codeStore) MarkUserVerified(email string) error {
	s.verified[email] = true
	return nil
}

func setupAuth(t *testing.T) *auth.Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("failed to migrate models: %v", err)
	}
	s := storage.NewService(db, nil)
	return auth.NewService(s, silentMailer{}, []byte("test-secret"))
}

func TestGenerateAndParseJWT(t *testing.T) {
	secret := []byte("test-secret")

	token, err := auth.GenerateJWT(secret, "user-1", models.RolePolice)
	assert.NoError(t, err)

	identity, err := auth.ParseJWT(secret, token)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", identity.ID)
	assert.Equal(t, models.RolePolice, identity.Role)
}

func TestParseJWT_RejectsWrongSecret(t *testing.T) {
	token, err := auth.GenerateJWT([]byte("secret-a"), "user-1", models.RolePublic)
	assert.NoError(t, err)

	_, err = auth.ParseJWT([]byte("secret-b"), token)
	assert.Error(t, err)
}

func TestRegisterAndLogin(t *testing.T) {
	// Arrange
	svc := setupAuth(t)
	email := uuid.New().String() + "@example.com"

	// Act
	user, err := svc.Register("Alice", email, "s3cret", "", "")
	assert.NoError(t, err)
	assert.Equal(t, models.RolePublic, user.Role, "role defaults to public")
	assert.True(t, user.Verified, "non-admin accounts start verified")

	token, loggedIn, err := svc.Login(email, "s3cret")

	// Assert
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, loggedIn.ID)

	identity, err := auth.ParseJWT([]byte("test-secret"), token)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, identity.ID)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := setupAuth(t)
	email := uuid.New().String() + "@example.com"
	_, err := svc.Register("Bob", email, "s3cret", "", "")
	assert.NoError(t, err)

	_, _, err = svc.Login(email, "wrong")

	var forbidden *apperr.AuthorizationError
	assert.True(t, errors.As(err, &forbidden))
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc := setupAuth(t)

	_, _, err := svc.Login("nobody@example.com", "whatever")

	var forbidden *apperr.AuthorizationError
	assert.True(t, errors.As(err, &forbidden), "unknown emails get the same error as bad passwords")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := setupAuth(t)
	email := uuid.New().String() + "@example.com"
	_, err := svc.Register("Alice", email, "s3cret", "", "")
	assert.NoError(t, err)

	_, err = svc.Register("Mallory", email, "other", "", "")

	var conflict *apperr.ConflictError
	assert.True(t, errors.As(err, &conflict))
}

func TestRegister_RejectsBadInput(t *testing.T) {
	svc := setupAuth(t)

	var validation *apperr.ValidationError

	_, err := svc.Register("", "a@example.com", "pw", "", "")
	assert.True(t, errors.As(err, &validation))

	_, err = svc.Register("Alice", "a@example.com", "pw", "superuser", "")
	assert.True(t, errors.As(err, &validation))
}

func TestVerifyAdmin_ConsumesCodeOnce(t *testing.T) {
	// Arrange
	store := newCodeStore()
	store.codes["admin@example.com"] = "123456"
	svc := auth.NewService(store, silentMailer{}, []byte("test-secret"))

	// Act - first use succeeds and marks the account verified
	err := svc.VerifyAdmin("admin@example.com", "123456")
	assert.NoError(t, err)
	assert.True(t, store.verified["admin@example.com"])

	// Assert - the code cannot be replayed
	err = svc.VerifyAdmin("admin@example.com", "123456")
	var forbidden *apperr.AuthorizationError
	assert.True(t, errors.As(err, &forbidden), "a consumed code must be rejected")
}

func TestVerifyAdmin_WrongCode(t *testing.T) {
	store := newCodeStore()
	store.codes["admin@example.com"] = "123456"
	svc := auth.NewService(store, silentMailer{}, []byte("test-secret"))

	err := svc.VerifyAdmin("admin@example.com", "654321")

	var forbidden *apperr.AuthorizationError
	assert.True(t, errors.As(err, &forbidden))
	assert.False(t, store.verified["admin@example.com"])
	// The read-and-delete is one operation, so even a wrong guess burns
	// the code; a fresh one must be issued.
	assert.Empty(t, store.codes["admin@example.com"])
}

func TestRegister_PoliceKeepsBadge(t *testing.T) {
	svc := setupAuth(t)
	email := uuid.New().String() + "@example.com"

	user, err := svc.Register("Officer", email, "s3cret", models.RolePolice, "DMP-42")

	assert.NoError(t, err)
	assert.Equal(t, models.RolePolice, user.Role)
	assert.Equal(t, "DMP-42", user.PoliceID)
	assert.True(t, user.Verified)
}
