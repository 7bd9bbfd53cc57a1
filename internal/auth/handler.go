package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/drkleen/backend/internal/httpx"
	"github.com/drkleen/backend/internal/models"
)

// Request/response structs use snake_case JSON matching the admin frontend.

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenRequest struct {
	Token string `json:"token"`
}

type EmailRequest struct {
	Email string `json:"email"`
}

// UserView is the account projection returned by every auth endpoint. It
// never carries password or verification material.
type UserView struct {
	ID              int64      `json:"id"`
	Email           string     `json:"email"`
	FullName        string     `json:"full_name"`
	Role            string     `json:"role"`
	IsActive        bool       `json:"is_active"`
	IsEmailVerified bool       `json:"is_email_verified"`
	LastLogin       *time.Time `json:"last_login,omitempty"`
}

func viewOf(u *models.AdminUser) UserView {
	return UserView{
		ID:              u.ID,
		Email:           u.Email,
		FullName:        u.FullName,
		Role:            u.Role,
		IsActive:        u.IsActive,
		IsEmailVerified: u.IsEmailVerified,
		LastLogin:       u.LastLogin,
	}
}

type Handler struct {
	svc Service
	log *slog.Logger
}

func NewHandler(svc Service, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{svc: svc, log: log}
}

// Login handles POST /admin-auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeValidationError, "Invalid JSON body")
		return
	}
	if req.Email == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeValidationError, "Email and password are required")
		return
	}

	user, token, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailFormat):
			httpx.WriteError(w, http.StatusBadRequest, httpx.CodeInvalidEmailFormat, "Invalid email format")
		case errors.Is(err, ErrAccountNotFound):
			httpx.WriteError(w, http.StatusNotFound, httpx.CodeAccountNotFound, "No admin account found")
		case errors.Is(err, ErrEmailNotVerified):
			httpx.WriteErrorDetails(w, http.StatusForbidden, httpx.CodeEmailNotVerified,
				"Email not verified. Please check your email for the verification link.",
				map[string]any{
					"email":                 req.Email,
					"verification_required": true,
					"suggestion":            `Click "Resend Verification" if you need a new verification email.`,
				})
		case errors.Is(err, ErrAccountInactive):
			httpx.WriteError(w, http.StatusForbidden, httpx.CodeAccountInactive, "Account is inactive")
		case errors.Is(err, ErrInvalidCredentials):
			httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeInvalidCredentials, "Invalid email or password")
		default:
			h.log.Error("login failed", "error", err)
			httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeInternalError, "Login failed")
		}
		return
	}

	httpx.WriteDataMessage(w, http.StatusOK, map[string]any{
		"user":  viewOf(user),
		"token": token,
	}, "Login successful. Welcome to Dr. Kleen Admin Portal!")
}

// Verify handles POST /admin-auth/verify. It accepts the token in the JSON
// body or as a bearer header, re-reads the account, and returns the current
// projection.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	token := req.Token
	if token == "" {
		token = bearerToken(r)
	}
	if token == "" {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeTokenRequired, "Token is required")
		return
	}

	user, err := h.svc.VerifyToken(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidToken):
			httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeInvalidToken, "Invalid or expired token")
		case errors.Is(err, ErrUserInactive):
			httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeUserInactive, "User is inactive")
		default:
			h.log.Error("token verification failed", "error", err)
			httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeInternalError, "Token verification failed")
		}
		return
	}

	httpx.WriteData(w, http.StatusOK, map[string]any{
		"user":  viewOf(user),
		"valid": true,
	})
}

// Register handles POST /admin-register/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeValidationError, "Invalid JSON body")
		return
	}
	if req.Email == "" || req.Password == "" || req.FullName == "" {
		httpx.WriteErrorDetails(w, http.StatusBadRequest, httpx.CodeValidationError,
			"Email, password, and full name are required",
			missingFields(req))
		return
	}

	user, err := h.svc.Register(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailFormat):
			httpx.WriteError(w, http.StatusBadRequest, httpx.CodeInvalidEmailFormat,
				"Invalid email format. Please enter a valid email address.")
		case errors.Is(err, ErrWeakPassword):
			httpx.WriteErrorDetails(w, http.StatusBadRequest, httpx.CodeWeakPassword,
				"Password requirements not met. Must be at least 8 characters with uppercase, lowercase, numbers, and symbols.",
				passwordRequirements(req.Password))
		case errors.Is(err, ErrAdminLimit):
			httpx.WriteErrorDetails(w, http.StatusConflict, httpx.CodeAdminLimitReached,
				"Maximum admin limit reached (2/2). No new admin registrations allowed.",
				map[string]any{"max_allowed": models.MaxAdminUsers})
		case errors.Is(err, ErrEmailExists):
			httpx.WriteError(w, http.StatusConflict, httpx.CodeEmailExists,
				"Email already exists. An admin account with this email address is already registered.")
		default:
			h.log.Error("registration failed", "error", err)
			httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeDatabaseError,
				"Failed to create admin account. Please try again later.")
		}
		return
	}

	httpx.WriteData(w, http.StatusOK, map[string]any{
		"message":               "Admin registration successful! Please check your email to verify your account.",
		"user_id":               user.ID,
		"email":                 user.Email,
		"requires_verification": true,
	})
}

// VerifyEmail handles POST /admin-register/verify-email. The token may
// arrive in the body or as a query parameter.
func (h *Handler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	token := req.Token
	if token == "" {
		token = r.URL.Query().Get("token")
	}
	if token == "" {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeTokenRequired, "Verification token is required")
		return
	}

	user, err := h.svc.VerifyEmail(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, ErrVerifyTokenInvalid):
			httpx.WriteError(w, http.StatusBadRequest, httpx.CodeInvalidToken, "Invalid or expired verification token")
		case errors.Is(err, ErrVerifyTokenExpired):
			httpx.WriteError(w, http.StatusBadRequest, httpx.CodeTokenExpired,
				"Verification token has expired. Please request a new one.")
		default:
			h.log.Error("email verification failed", "error", err)
			httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeInternalError, "Email verification failed")
		}
		return
	}

	httpx.WriteData(w, http.StatusOK, map[string]any{
		"message": "Email verified successfully! Your admin account is now active.",
		"user":    viewOf(user),
	})
}

// ResendVerification handles POST /admin-register/resend-verification.
func (h *Handler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req EmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeValidationError, "Email is required")
		return
	}

	if err := h.svc.ResendVerification(r.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, ErrEmailFormat):
			httpx.WriteError(w, http.StatusBadRequest, httpx.CodeInvalidEmailFormat, "Invalid email format")
		case errors.Is(err, ErrAccountNotFound):
			httpx.WriteError(w, http.StatusNotFound, httpx.CodeAccountNotFound, "No admin account found")
		case errors.Is(err, ErrAlreadyVerified):
			httpx.WriteError(w, http.StatusBadRequest, httpx.CodeValidationError, "Email is already verified")
		default:
			h.log.Error("resend verification failed", "error", err)
			httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeInternalError, "Failed to resend verification email")
		}
		return
	}

	httpx.WriteData(w, http.StatusOK, map[string]any{
		"message": "Verification email sent. Please check your inbox.",
	})
}

// Setup handles POST /admin-auth/setup: first-admin bootstrap.
func (h *Handler) Setup(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeValidationError, "Invalid JSON body")
		return
	}
	if req.Email == "" || req.Password == "" || req.FullName == "" {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeValidationError,
			"Email, password, and full name are required")
		return
	}

	user, token, err := h.svc.Setup(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailFormat):
			httpx.WriteError(w, http.StatusBadRequest, httpx.CodeInvalidEmailFormat, "Invalid email format")
		case errors.Is(err, ErrWeakPassword):
			httpx.WriteErrorDetails(w, http.StatusBadRequest, httpx.CodeWeakPassword,
				"Password requirements not met.", passwordRequirements(req.Password))
		case errors.Is(err, ErrSetupComplete):
			httpx.WriteError(w, http.StatusBadRequest, httpx.CodeSetupComplete, "Admin users already exist")
		default:
			h.log.Error("setup failed", "error", err)
			httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeInternalError, "Setup failed")
		}
		return
	}

	httpx.WriteData(w, http.StatusCreated, map[string]any{
		"user":    viewOf(user),
		"token":   token,
		"message": "Admin user created successfully",
	})
}

func bearerToken(r *http.Request) string {
	const prefix = "Bearer "
	h := r.Header.Get("Authorization")
	if len(h) > len(prefix) && h[:len(prefix)] == prefix {
		return h[len(prefix):]
	}
	return ""
}

func missingFields(req RegisterRequest) map[string]any {
	d := map[string]any{}
	if req.Email == "" {
		d["email"] = "Email is required"
	}
	if req.Password == "" {
		d["password"] = "Password is required"
	}
	if req.FullName == "" {
		d["full_name"] = "Full name is required"
	}
	return d
}

func passwordRequirements(password string) map[string]any {
	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			symbol = true
		}
	}
	return map[string]any{
		"length":    len(password) >= 8,
		"lowercase": lower,
		"uppercase": upper,
		"number":    digit,
		"symbol":    symbol,
	}
}
