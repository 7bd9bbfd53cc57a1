package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/drkleen/backend/internal/models"
)

// ---------------------------------------------------------------------------
// Mock Service
// ---------------------------------------------------------------------------

type mockService struct {
	loginUser  *models.AdminUser
	loginToken string
	loginErr   error

	verifyUser   *models.AdminUser
	verifyErr    error
	verifiedWith string

	registerUser *models.AdminUser
	registerErr  error

	verifyEmailUser *models.AdminUser
	verifyEmailErr  error
}

func (m *mockService) Login(context.Context, string, string) (*models.AdminUser, string, error) {
	return m.loginUser, m.loginToken, m.loginErr
}

func (m *mockService) VerifyToken(_ context.Context, token string) (*models.AdminUser, error) {
	m.verifiedWith = token
	return m.verifyUser, m.verifyErr
}

func (m *mockService) Register(context.Context, string, string, string) (*models.AdminUser, error) {
	return m.registerUser, m.registerErr
}

func (m *mockService) VerifyEmail(context.Context, string) (*models.AdminUser, error) {
	return m.verifyEmailUser, m.verifyEmailErr
}

func (m *mockService) ResendVerification(context.Context, string) error { return nil }

func (m *mockService) Setup(context.Context, string, string, string) (*models.AdminUser, string, error) {
	return nil, "", ErrSetupComplete
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

type envelope struct {
	Data    map[string]any `json:"data"`
	Message string         `json:"message"`
	Error   *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func doJSON(t *testing.T, fn http.HandlerFunc, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	fn(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not valid JSON: %v\n%s", err, rec.Body.String())
	}
	return rec, env
}

// ---------------------------------------------------------------------------
// Login
// ---------------------------------------------------------------------------

func TestLoginHandlerMissingFields(t *testing.T) {
	h := NewHandler(&mockService{}, nil)
	rec, env := doJSON(t, h.Login, http.MethodPost, "/admin-auth/login", `{"email":"alice@example.com"}`)
	if rec.Code != http.StatusBadRequest || env.Error == nil || env.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("got %d %+v, want 400 VALIDATION_ERROR", rec.Code, env.Error)
	}
}

func TestLoginHandlerUnverified(t *testing.T) {
	h := NewHandler(&mockService{loginErr: ErrEmailNotVerified}, nil)
	rec, env := doJSON(t, h.Login, http.MethodPost, "/admin-auth/login",
		`{"email":"alice@example.com","password":"Str0ng!Pass"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if env.Error == nil || env.Error.Code != "EMAIL_NOT_VERIFIED" {
		t.Fatalf("error = %+v, want EMAIL_NOT_VERIFIED", env.Error)
	}
	if env.Error.Details["verification_required"] != true {
		t.Errorf("details = %v, want verification_required=true", env.Error.Details)
	}
}

func TestLoginHandlerErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{ErrAccountNotFound, http.StatusNotFound, "ACCOUNT_NOT_FOUND"},
		{ErrAccountInactive, http.StatusForbidden, "ACCOUNT_INACTIVE"},
		{ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{ErrEmailFormat, http.StatusBadRequest, "INVALID_EMAIL_FORMAT"},
	}
	for _, c := range cases {
		h := NewHandler(&mockService{loginErr: c.err}, nil)
		rec, env := doJSON(t, h.Login, http.MethodPost, "/admin-auth/login",
			`{"email":"alice@example.com","password":"Str0ng!Pass"}`)
		if rec.Code != c.status || env.Error == nil || env.Error.Code != c.code {
			t.Errorf("login with %v: got %d %+v, want %d %s", c.err, rec.Code, env.Error, c.status, c.code)
		}
	}
}

func TestLoginHandlerSuccess(t *testing.T) {
	u := &models.AdminUser{ID: 1, Email: "alice@example.com", FullName: "Alice A",
		Role: models.RoleAdmin, IsActive: true, IsEmailVerified: true}
	h := NewHandler(&mockService{loginUser: u, loginToken: "signed-token"}, nil)

	rec, env := doJSON(t, h.Login, http.MethodPost, "/admin-auth/login",
		`{"email":"alice@example.com","password":"Str0ng!Pass"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if env.Data["token"] != "signed-token" {
		t.Errorf("token = %v, want signed-token", env.Data["token"])
	}
	user, _ := env.Data["user"].(map[string]any)
	if user["email"] != "alice@example.com" {
		t.Errorf("user = %v, want alice@example.com projection", user)
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Error("projection leaks password_hash")
	}
	if !strings.Contains(env.Message, "Welcome") {
		t.Errorf("message = %q, want welcome text", env.Message)
	}
}

// ---------------------------------------------------------------------------
// Token verify
// ---------------------------------------------------------------------------

func TestVerifyHandlerNoToken(t *testing.T) {
	h := NewHandler(&mockService{}, nil)
	rec, env := doJSON(t, h.Verify, http.MethodPost, "/admin-auth/verify", `{}`)
	if rec.Code != http.StatusBadRequest || env.Error == nil || env.Error.Code != "TOKEN_REQUIRED" {
		t.Errorf("got %d %+v, want 400 TOKEN_REQUIRED", rec.Code, env.Error)
	}
}

func TestVerifyHandlerBearerFallback(t *testing.T) {
	u := &models.AdminUser{ID: 2, Email: "alice@example.com", IsActive: true, IsEmailVerified: true}
	svc := &mockService{verifyUser: u}
	h := NewHandler(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/admin-auth/verify", strings.NewReader(`{}`))
	req.Header.Set("Authorization", "Bearer header-token")
	rec := httptest.NewRecorder()
	h.Verify(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if svc.verifiedWith != "header-token" {
		t.Errorf("verified token = %q, want header-token", svc.verifiedWith)
	}
	var env envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	if env.Data["valid"] != true {
		t.Errorf("data = %v, want valid=true", env.Data)
	}
}

// ---------------------------------------------------------------------------
// Register
// ---------------------------------------------------------------------------

func TestRegisterHandlerMissingFields(t *testing.T) {
	h := NewHandler(&mockService{}, nil)
	rec, env := doJSON(t, h.Register, http.MethodPost, "/admin-register/register",
		`{"email":"alice@example.com"}`)
	if rec.Code != http.StatusBadRequest || env.Error == nil || env.Error.Code != "VALIDATION_ERROR" {
		t.Fatalf("got %d %+v, want 400 VALIDATION_ERROR", rec.Code, env.Error)
	}
	if _, ok := env.Error.Details["password"]; !ok {
		t.Errorf("details = %v, want password flagged", env.Error.Details)
	}
	if _, ok := env.Error.Details["full_name"]; !ok {
		t.Errorf("details = %v, want full_name flagged", env.Error.Details)
	}
}

func TestRegisterHandlerWeakPassword(t *testing.T) {
	h := NewHandler(&mockService{registerErr: ErrWeakPassword}, nil)
	rec, env := doJSON(t, h.Register, http.MethodPost, "/admin-register/register",
		`{"email":"alice@example.com","password":"weakweak","full_name":"Alice A"}`)
	if rec.Code != http.StatusBadRequest || env.Error == nil || env.Error.Code != "WEAK_PASSWORD" {
		t.Fatalf("got %d %+v, want 400 WEAK_PASSWORD", rec.Code, env.Error)
	}
	if env.Error.Details["uppercase"] != false {
		t.Errorf("details = %v, want uppercase=false for %q", env.Error.Details, "weakweak")
	}
}

func TestRegisterHandlerConflicts(t *testing.T) {
	cases := []struct {
		err  error
		code string
	}{
		{ErrAdminLimit, "ADMIN_LIMIT_REACHED"},
		{ErrEmailExists, "EMAIL_ALREADY_EXISTS"},
	}
	for _, c := range cases {
		h := NewHandler(&mockService{registerErr: c.err}, nil)
		rec, env := doJSON(t, h.Register, http.MethodPost, "/admin-register/register",
			`{"email":"alice@example.com","password":"Str0ng!Pass","full_name":"Alice A"}`)
		if rec.Code != http.StatusConflict || env.Error == nil || env.Error.Code != c.code {
			t.Errorf("register with %v: got %d %+v, want 409 %s", c.err, rec.Code, env.Error, c.code)
		}
	}
}

func TestRegisterHandlerSuccess(t *testing.T) {
	u := &models.AdminUser{ID: 9, Email: "alice@example.com", FullName: "Alice A", Role: models.RoleAdmin}
	h := NewHandler(&mockService{registerUser: u}, nil)

	rec, env := doJSON(t, h.Register, http.MethodPost, "/admin-register/register",
		`{"email":"alice@example.com","password":"Str0ng!Pass","full_name":"Alice A"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if env.Data["user_id"] != float64(9) {
		t.Errorf("user_id = %v, want 9", env.Data["user_id"])
	}
	if env.Data["requires_verification"] != true {
		t.Errorf("requires_verification = %v, want true", env.Data["requires_verification"])
	}
}

// ---------------------------------------------------------------------------
// Email verification
// ---------------------------------------------------------------------------

func TestVerifyEmailHandlerQueryToken(t *testing.T) {
	u := &models.AdminUser{ID: 1, Email: "alice@example.com", IsActive: true, IsEmailVerified: true}
	h := NewHandler(&mockService{verifyEmailUser: u}, nil)

	rec, env := doJSON(t, h.VerifyEmail, http.MethodGet, "/admin-register/verify-email?token=abc", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	user, _ := env.Data["user"].(map[string]any)
	if user["is_email_verified"] != true {
		t.Errorf("user = %v, want verified projection", user)
	}
}

func TestVerifyEmailHandlerExpired(t *testing.T) {
	h := NewHandler(&mockService{verifyEmailErr: ErrVerifyTokenExpired}, nil)
	rec, env := doJSON(t, h.VerifyEmail, http.MethodPost, "/admin-register/verify-email",
		`{"token":"stale"}`)
	if rec.Code != http.StatusBadRequest || env.Error == nil || env.Error.Code != "TOKEN_EXPIRED" {
		t.Errorf("got %d %+v, want 400 TOKEN_EXPIRED", rec.Code, env.Error)
	}
}

// ---------------------------------------------------------------------------
// Setup
// ---------------------------------------------------------------------------

func TestSetupHandlerRefusedWhenComplete(t *testing.T) {
	h := NewHandler(&mockService{}, nil)
	rec, env := doJSON(t, h.Setup, http.MethodPost, "/admin-auth/setup",
		`{"email":"root@example.com","password":"Str0ng!Pass","full_name":"Root"}`)
	if rec.Code != http.StatusBadRequest || env.Error == nil || env.Error.Code != "SETUP_COMPLETE" {
		t.Errorf("got %d %+v, want 400 SETUP_COMPLETE", rec.Code, env.Error)
	}
}
