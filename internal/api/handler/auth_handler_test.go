package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/viptransport/booking-api/internal/core/domain"
)

type stubAuthService struct {
	token   string
	user    *domain.User
	created bool
	err     error

	gotEmail    string
	gotPassword string
	gotToken    string
	gotUserID   string
}

func (s *stubAuthService) Register(_ context.Context, _, email, password, _ string) (string, *domain.User, error) {
	s.gotEmail, s.gotPassword = email, password
	return s.token, s.user, s.err
}

func (s *stubAuthService) Login(_ context.Context, email, password string) (string, *domain.User, error) {
	s.gotEmail, s.gotPassword = email, password
	return s.token, s.user, s.err
}

func (s *stubAuthService) GoogleLogin(_ context.Context, idToken string) (string, *domain.User, bool, error) {
	s.gotToken = idToken
	return s.token, s.user, s.created, s.err
}

func (s *stubAuthService) ForgotPassword(_ context.Context, email string) error {
	s.gotEmail = email
	return s.err
}

func (s *stubAuthService) ResetPassword(_ context.Context, token, newPassword string) error {
	s.gotToken, s.gotPassword = token, newPassword
	return s.err
}

func (s *stubAuthService) Profile(_ context.Context, userID string) (*domain.User, error) {
	s.gotUserID = userID
	return s.user, s.err
}

func newAuthContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func testUser() *domain.User {
	now := time.Now().UTC()
	return &domain.User{
		ID:        "u1",
		FullName:  "Alice Jones",
		Email:     "alice@example.com",
		Role:      domain.RoleUser,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestRegisterHandler(t *testing.T) {
	svc := &stubAuthService{token: "jwt-token", user: testUser()}
	h := NewAuthHandler(svc)

	c, rec := newAuthContext(t, http.MethodPost, "/api/auth/register",
		`{"full_name":"Alice Jones","email":"alice@example.com","password":"s3cret!","phone":"+1-555-0100"}`)

	if err := h.Register(c); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %d, want 201", rec.Code)
	}

	var resp struct {
		Token string       `json:"token"`
		User  *domain.User `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token != "jwt-token" {
		t.Errorf("token = %q, want jwt-token", resp.Token)
	}
	if resp.User == nil || resp.User.ID != "u1" {
		t.Errorf("user = %+v, want u1", resp.User)
	}
	if strings.Contains(rec.Body.String(), "password_hash") {
		t.Error("response leaks the password hash field")
	}
}

func TestRegisterHandlerValidation(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	cases := []struct {
		name string
		body string
	}{
		{"missing email", `{"full_name":"Alice","password":"s3cret!"}`},
		{"bad email", `{"full_name":"Alice","email":"not-an-email","password":"s3cret!"}`},
		{"short password", `{"full_name":"Alice","email":"alice@example.com","password":"abc"}`},
		{"not json", `full_name=Alice`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newAuthContext(t, http.MethodPost, "/api/auth/register", tc.body)
			err := h.Register(c)

			var he *echo.HTTPError
			if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
				t.Fatalf("err = %v, want 400 HTTPError", err)
			}
		})
	}
}

func TestRegisterHandlerDuplicate(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{err: domain.ErrUserExists})

	c, _ := newAuthContext(t, http.MethodPost, "/api/auth/register",
		`{"full_name":"Alice","email":"alice@example.com","password":"s3cret!"}`)

	if err := h.Register(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("err = %v, want ErrUserExists", err)
	}
}

func TestLoginHandler(t *testing.T) {
	svc := &stubAuthService{token: "jwt-token", user: testUser()}
	h := NewAuthHandler(svc)

	c, rec := newAuthContext(t, http.MethodPost, "/api/auth/login",
		`{"email":"alice@example.com","password":"s3cret!"}`)

	if err := h.Login(c); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", rec.Code)
	}
	if svc.gotEmail != "alice@example.com" || svc.gotPassword != "s3cret!" {
		t.Errorf("service called with (%q, %q)", svc.gotEmail, svc.gotPassword)
	}
}

func TestLoginHandlerBadCredentials(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{err: domain.ErrInvalidCredentials})

	c, _ := newAuthContext(t, http.MethodPost, "/api/auth/login",
		`{"email":"alice@example.com","password":"wrong"}`)

	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestGoogleLoginHandler(t *testing.T) {
	t.Run("existing account", func(t *testing.T) {
		h := NewAuthHandler(&stubAuthService{token: "jwt-token", user: testUser()})

		c, rec := newAuthContext(t, http.MethodPost, "/api/auth/google", `{"token":"google-id-token"}`)
		if err := h.GoogleLogin(c); err != nil {
			t.Fatalf("GoogleLogin: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d, want 200", rec.Code)
		}
	})

	t.Run("new account", func(t *testing.T) {
		h := NewAuthHandler(&stubAuthService{token: "jwt-token", user: testUser(), created: true})

		c, rec := newAuthContext(t, http.MethodPost, "/api/auth/google", `{"token":"google-id-token"}`)
		if err := h.GoogleLogin(c); err != nil {
			t.Fatalf("GoogleLogin: %v", err)
		}
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %d, want 201", rec.Code)
		}
	})

	t.Run("missing token", func(t *testing.T) {
		h := NewAuthHandler(&stubAuthService{})

		c, _ := newAuthContext(t, http.MethodPost, "/api/auth/google", `{}`)
		err := h.GoogleLogin(c)

		var he *echo.HTTPError
		if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
			t.Fatalf("err = %v, want 400 HTTPError", err)
		}
	})

	t.Run("invalid token", func(t *testing.T) {
		h := NewAuthHandler(&stubAuthService{err: domain.ErrInvalidGoogleToken})

		c, _ := newAuthContext(t, http.MethodPost, "/api/auth/google", `{"token":"bad"}`)
		if err := h.GoogleLogin(c); !errors.Is(err, domain.ErrInvalidGoogleToken) {
			t.Fatalf("err = %v, want ErrInvalidGoogleToken", err)
		}
	})
}

func TestForgotPasswordHandler(t *testing.T) {
	svc := &stubAuthService{}
	h := NewAuthHandler(svc)

	c, rec := newAuthContext(t, http.MethodPost, "/api/auth/forgot-password",
		`{"email":"alice@example.com"}`)

	if err := h.ForgotPassword(c); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", rec.Code)
	}
	if svc.gotEmail != "alice@example.com" {
		t.Errorf("service called with %q", svc.gotEmail)
	}
	if !strings.Contains(rec.Body.String(), "reset link") {
		t.Errorf("body = %q, want the generic confirmation", rec.Body.String())
	}
}

func TestResetPasswordHandler(t *testing.T) {
	svc := &stubAuthService{}
	h := NewAuthHandler(svc)

	c, rec := newAuthContext(t, http.MethodPost, "/api/auth/reset-password",
		`{"token":"reset-token","password":"new-password"}`)

	if err := h.ResetPassword(c); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", rec.Code)
	}
	if svc.gotToken != "reset-token" || svc.gotPassword != "new-password" {
		t.Errorf("service called with (%q, %q)", svc.gotToken, svc.gotPassword)
	}
}

func TestResetPasswordHandlerInvalidToken(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{err: domain.ErrInvalidResetToken})

	c, _ := newAuthContext(t, http.MethodPost, "/api/auth/reset-password",
		`{"token":"stale","password":"new-password"}`)

	if err := h.ResetPassword(c); !errors.Is(err, domain.ErrInvalidResetToken) {
		t.Fatalf("err = %v, want ErrInvalidResetToken", err)
	}
}

func TestProfileHandler(t *testing.T) {
	svc := &stubAuthService{user: testUser()}
	h := NewAuthHandler(svc)

	c, rec := newAuthContext(t, http.MethodGet, "/api/auth/profile", "")
	c.Set("identity", &domain.Identity{UserID: "u1", Role: domain.RoleUser})

	if err := h.Profile(c); err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", rec.Code)
	}
	if svc.gotUserID != "u1" {
		t.Errorf("service called with %q, want u1", svc.gotUserID)
	}
}

func TestProfileHandlerWithoutIdentity(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, _ := newAuthContext(t, http.MethodGet, "/api/auth/profile", "")
	err := h.Profile(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("err = %v, want 401 HTTPError", err)
	}
}
