package auth

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgauth "github.com/mazraaty/backend/pkg/auth"
	"github.com/mazraaty/backend/pkg/auth/session"
	"github.com/mazraaty/backend/pkg/config"
	"github.com/mazraaty/backend/pkg/db/models"
	pkgerrors "github.com/mazraaty/backend/pkg/errors"
	"github.com/mazraaty/backend/pkg/logger"
	"github.com/mazraaty/backend/pkg/security"
)

type stubUserRepo struct {
	users   map[string]*models.User
	created *models.User
	saved   bool
}

func newStubUserRepo(seed ...*models.User) *stubUserRepo {
	repo := &stubUserRepo{users: make(map[string]*models.User)}
	for _, u := range seed {
		repo.users[u.Email] = u
	}
	return repo
}

func (s *stubUserRepo) Create(_ context.Context, user *models.User) error {
	if _, ok := s.users[user.Email]; ok {
		return gorm.ErrDuplicatedKey
	}
	user.ID = uuid.New()
	s.users[user.Email] = user
	s.created = user
	return nil
}

func (s *stubUserRepo) Save(_ context.Context, user *models.User) error {
	s.saved = true
	s.users[user.Email] = user
	return nil
}

func (s *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := s.users[strings.ToLower(email)]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubSessions struct {
	generated string
	rotateErr error
	revoked   []string
}

func (s *stubSessions) Generate(_ context.Context, accessID string) (string, error) {
	s.generated = accessID
	return "refresh-" + accessID, nil
}

func (s *stubSessions) Rotate(_ context.Context, oldAccessID, provided string) (string, string, error) {
	if s.rotateErr != nil {
		return "", "", s.rotateErr
	}
	next := oldAccessID + "-rotated"
	return next, "refresh-" + next, nil
}

func (s *stubSessions) Revoke(_ context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "mazraaty",
		ExpirationMinutes: 30,
	}
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

func TestLoginIssuesTokenPair(t *testing.T) {
	password := "chicken-coop-9"
	user := &models.User{
		ID:              uuid.New(),
		Email:           "farmer@example.om",
		PasswordHash:    mustHashPassword(t, password),
		FirstName:       "Said",
		LastName:        "Al Busaidi",
		PreferredLocale: "ar",
		IsActive:        true,
	}
	cfg := testJWTConfig()
	sessions := &stubSessions{}
	repo := newStubUserRepo(user)

	svc, err := NewService(repo, sessions, cfg, config.PasswordConfig{}, testLogger())
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	result, err := svc.Login(context.Background(), user.Email, password)
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgauth.ParseAccessToken(cfg, result.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected user id %s in claims, got %s", user.ID, claims.UserID)
	}
	if claims.ID != sessions.generated {
		t.Fatalf("token jti %q does not match generated session %q", claims.ID, sessions.generated)
	}
	if result.RefreshToken == "" {
		t.Fatalf("expected refresh token to be set")
	}
	if result.ExpiresIn != 30*60 {
		t.Fatalf("expected expires_in 1800, got %d", result.ExpiresIn)
	}
	if !repo.saved {
		t.Fatalf("expected last login timestamp save")
	}
	if user.LastLoginAt == nil {
		t.Fatalf("expected last login to be stamped")
	}
}

func TestLoginRejectsBadCredentialsUniformly(t *testing.T) {
	user := &models.User{
		ID:           uuid.New(),
		Email:        "farmer@example.om",
		PasswordHash: mustHashPassword(t, "right-password"),
		IsActive:     true,
	}
	svc, err := NewService(newStubUserRepo(user), &stubSessions{}, testJWTConfig(), config.PasswordConfig{}, testLogger())
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown email", "nobody@example.om", "right-password"},
		{"wrong password", user.Email, "wrong-password"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tc.email, tc.password)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
				t.Fatalf("expected unauthorized, got %v", err)
			}
			if typed.Message() != "invalid credentials" {
				t.Fatalf("expected uniform message, got %q", typed.Message())
			}
		})
	}
}

func TestLoginRejectsDisabledAccount(t *testing.T) {
	password := "chicken-coop-9"
	user := &models.User{
		ID:           uuid.New(),
		Email:        "farmer@example.om",
		PasswordHash: mustHashPassword(t, password),
		IsActive:     false,
	}
	svc, err := NewService(newStubUserRepo(user), &stubSessions{}, testJWTConfig(), config.PasswordConfig{}, testLogger())
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Login(context.Background(), user.Email, password)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for disabled account, got %v", err)
	}
}

func TestRegisterValidatesPasswordLength(t *testing.T) {
	svc, err := NewService(newStubUserRepo(), &stubSessions{}, testJWTConfig(), config.PasswordConfig{}, testLogger())
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Register(context.Background(), RegisterInput{
		Email:    "short@example.om",
		Password: "short",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRegisterDefaultsLocaleToEnglish(t *testing.T) {
	repo := newStubUserRepo()
	svc, err := NewService(repo, &stubSessions{}, testJWTConfig(), config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}, testLogger())
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	result, err := svc.Register(context.Background(), RegisterInput{
		Email:           "New.Farmer@Example.OM",
		Password:        "long-enough-password",
		FirstName:       "  Noor ",
		PreferredLocale: "fr",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if repo.created == nil {
		t.Fatalf("expected account to be created")
	}
	if repo.created.Email != "new.farmer@example.om" {
		t.Fatalf("expected lowercased email, got %q", repo.created.Email)
	}
	if repo.created.PreferredLocale != "en" {
		t.Fatalf("expected locale fallback to en, got %q", repo.created.PreferredLocale)
	}
	if result.User.FirstName != "Noor" {
		t.Fatalf("expected trimmed first name, got %q", result.User.FirstName)
	}
}

func TestRefreshRejectsInvalidRefreshToken(t *testing.T) {
	password := "chicken-coop-9"
	user := &models.User{
		ID:           uuid.New(),
		Email:        "farmer@example.om",
		PasswordHash: mustHashPassword(t, password),
		IsActive:     true,
	}
	cfg := testJWTConfig()
	sessions := &stubSessions{}
	svc, err := NewService(newStubUserRepo(user), sessions, cfg, config.PasswordConfig{}, testLogger())
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	result, err := svc.Login(context.Background(), user.Email, password)
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	sessions.rotateErr = session.ErrInvalidRefreshToken
	_, err = svc.Refresh(context.Background(), result.AccessToken, "stolen")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestRefreshRevokesSessionForDisabledAccount(t *testing.T) {
	password := "chicken-coop-9"
	user := &models.User{
		ID:           uuid.New(),
		Email:        "farmer@example.om",
		PasswordHash: mustHashPassword(t, password),
		IsActive:     true,
	}
	sessions := &stubSessions{}
	svc, err := NewService(newStubUserRepo(user), sessions, testJWTConfig(), config.PasswordConfig{}, testLogger())
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	result, err := svc.Login(context.Background(), user.Email, password)
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	user.IsActive = false
	_, err = svc.Refresh(context.Background(), result.AccessToken, result.RefreshToken)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if len(sessions.revoked) != 1 {
		t.Fatalf("expected rotated session to be revoked, got %d revocations", len(sessions.revoked))
	}
}

func TestChangePasswordRequiresCurrent(t *testing.T) {
	user := &models.User{
		ID:           uuid.New(),
		Email:        "farmer@example.om",
		PasswordHash: mustHashPassword(t, "original-pass"),
		IsActive:     true,
	}
	svc, err := NewService(newStubUserRepo(user), &stubSessions{}, testJWTConfig(), config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}, testLogger())
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	err = svc.ChangePassword(context.Background(), user.ID, "guess", "replacement-pass")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}

	if err := svc.ChangePassword(context.Background(), user.ID, "original-pass", "replacement-pass"); err != nil {
		t.Fatalf("change password: %v", err)
	}
	ok, err := security.VerifyPassword("replacement-pass", user.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("expected new password to verify, ok=%v err=%v", ok, err)
	}
}
