package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/mazraaty/backend/internal/auth"
	pkgerrors "github.com/mazraaty/backend/pkg/errors"
	"github.com/mazraaty/backend/pkg/logger"
)

type stubAuthService struct {
	loginResult *auth.AuthResult
	loginErr    error
	loginEmail  string
	registered  *auth.RegisterInput
	loggedOut   []string
}

func (s *stubAuthService) Register(_ context.Context, input auth.RegisterInput) (*auth.AuthResult, error) {
	s.registered = &input
	return s.loginResult, s.loginErr
}

func (s *stubAuthService) Login(_ context.Context, email, password string) (*auth.AuthResult, error) {
	s.loginEmail = email
	return s.loginResult, s.loginErr
}

func (s *stubAuthService) Refresh(_ context.Context, accessToken, refreshToken string) (*auth.AuthResult, error) {
	return s.loginResult, s.loginErr
}

func (s *stubAuthService) Logout(_ context.Context, accessID string) error {
	s.loggedOut = append(s.loggedOut, accessID)
	return nil
}

func (s *stubAuthService) Me(_ context.Context, userID uuid.UUID) (*auth.UserDTO, error) {
	return &auth.UserDTO{ID: userID}, nil
}

func (s *stubAuthService) UpdateProfile(_ context.Context, userID uuid.UUID, input auth.ProfileInput) (*auth.UserDTO, error) {
	return &auth.UserDTO{ID: userID}, nil
}

func (s *stubAuthService) ChangePassword(_ context.Context, userID uuid.UUID, current, next string) error {
	return nil
}

func controllerTestLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func TestLoginReturnsTokenPair(t *testing.T) {
	stub := &stubAuthService{
		loginResult: &auth.AuthResult{
			User:         auth.UserDTO{ID: uuid.New(), Email: "farmer@example.om"},
			AccessToken:  "access",
			RefreshToken: "refresh",
			ExpiresIn:    1800,
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"farmer@example.om","password":"secret-password"}`))
	rec := httptest.NewRecorder()
	Login(stub, controllerTestLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.loginEmail != "farmer@example.om" {
		t.Fatalf("expected email forwarded, got %q", stub.loginEmail)
	}
	var payload struct {
		Data auth.AuthResult `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if payload.Data.AccessToken != "access" || payload.Data.RefreshToken != "refresh" {
		t.Fatalf("unexpected token pair in %s", rec.Body.String())
	}
}

func TestLoginRejectsMalformedBody(t *testing.T) {
	stub := &stubAuthService{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"not-an-email"}`))
	rec := httptest.NewRecorder()
	Login(stub, controllerTestLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	if stub.loginEmail != "" {
		t.Fatalf("service should not be called on invalid payload")
	}
}

func TestLoginMapsServiceErrors(t *testing.T) {
	stub := &stubAuthService{loginErr: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"farmer@example.om","password":"wrong-password"}`))
	rec := httptest.NewRecorder()
	Login(stub, controllerTestLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestRegisterCreatesAccount(t *testing.T) {
	stub := &stubAuthService{
		loginResult: &auth.AuthResult{AccessToken: "access", RefreshToken: "refresh"},
	}
	body := `{"email":"new@example.om","password":"long-enough","first_name":"Noor","last_name":"Al Harthy","preferred_locale":"ar"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	Register(stub, controllerTestLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.registered == nil || stub.registered.PreferredLocale != "ar" {
		t.Fatalf("expected register input forwarded, got %+v", stub.registered)
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	stub := &stubAuthService{}
	body := `{"email":"new@example.om","password":"short","first_name":"Noor","last_name":"Al Harthy"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	Register(stub, controllerTestLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	if stub.registered != nil {
		t.Fatalf("service should not be called on invalid payload")
	}
}

func TestLogoutRequiresSessionContext(t *testing.T) {
	stub := &stubAuthService{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	rec := httptest.NewRecorder()
	Logout(stub, controllerTestLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
	if len(stub.loggedOut) != 0 {
		t.Fatalf("logout should not reach the service without a session")
	}
}
