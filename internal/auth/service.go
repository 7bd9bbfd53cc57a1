package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/drkleen/backend/internal/models"
)

// Domain errors mapped to HTTP codes in the handler layer.
var (
	ErrEmailFormat        = errors.New("invalid email format")
	ErrWeakPassword       = errors.New("password requirements not met")
	ErrAccountNotFound    = errors.New("no admin account found")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrVerifyTokenInvalid = errors.New("invalid verification token")
	ErrVerifyTokenExpired = errors.New("verification token expired")
	ErrUserInactive       = errors.New("user is inactive")
	ErrAlreadyVerified    = errors.New("email already verified")
	ErrSetupComplete      = errors.New("admin users already exist")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Store is the account persistence contract the service needs.
type Store interface {
	FindByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	FindByID(ctx context.Context, id int64) (*models.AdminUser, error)
	FindByVerificationToken(ctx context.Context, token string) (*models.AdminUser, error)
	Create(ctx context.Context, u *models.AdminUser) error
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
	MarkVerified(ctx context.Context, id int64) (*models.AdminUser, error)
	ResetVerificationToken(ctx context.Context, id int64, token string, expiry time.Time) error
	Count(ctx context.Context) (int, error)
}

// Mailer stages outbound notifications. Dispatch failures never fail the
// triggering operation; the service logs and moves on.
type Mailer interface {
	SendVerification(ctx context.Context, email, fullName, token string) error
	SendWelcome(ctx context.Context, email, fullName string) error
}

// Service is the account-lifecycle API consumed by handlers and middleware.
type Service interface {
	Register(ctx context.Context, email, password, fullName string) (*models.AdminUser, error)
	Login(ctx context.Context, email, password string) (*models.AdminUser, string, error)
	VerifyToken(ctx context.Context, token string) (*models.AdminUser, error)
	VerifyEmail(ctx context.Context, token string) (*models.AdminUser, error)
	ResendVerification(ctx context.Context, email string) error
	Setup(ctx context.Context, email, password, fullName string) (*models.AdminUser, string, error)
}

type service struct {
	store  Store
	tokens *Tokens
	mail   Mailer
	log    *slog.Logger
}

func NewService(store Store, tokens *Tokens, mail Mailer, log *slog.Logger) Service {
	if log == nil {
		log = slog.Default()
	}
	return &service{store: store, tokens: tokens, mail: mail, log: log}
}

var _ Service = (*service)(nil)

// ValidateEmail checks the address shape.
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidatePassword requires at least 8 characters spanning lowercase,
// uppercase, digit, and symbol classes.
func ValidatePassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}
	return lower && upper && digit && symbol
}

// Register creates an unverified, inactive account and stages a verification
// email. The cap and email uniqueness are pre-checked for friendly errors but
// the store insert is the authoritative guard.
func (s *service) Register(ctx context.Context, email, password, fullName string) (*models.AdminUser, error) {
	if !ValidateEmail(email) {
		return nil, ErrEmailFormat
	}
	if !ValidatePassword(password) {
		return nil, ErrWeakPassword
	}

	count, err := s.store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count admins: %w", err)
	}
	if count >= models.MaxAdminUsers {
		return nil, ErrAdminLimit
	}
	existing, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	token := uuid.NewString()
	expiry := time.Now().Add(24 * time.Hour)
	u := &models.AdminUser{
		Email:              email,
		PasswordHash:       hash,
		FullName:           fullName,
		Role:               models.RoleAdmin,
		IsActive:           false,
		IsEmailVerified:    false,
		VerificationToken:  &token,
		VerificationExpiry: &expiry,
	}
	if err := s.store.Create(ctx, u); err != nil {
		return nil, err
	}

	if err := s.mail.SendVerification(ctx, u.Email, u.FullName, token); err != nil {
		s.log.Warn("verification email dispatch failed, registration completed", "email", u.Email, "error", err)
	}
	return u, nil
}

// Login checks verification state before the password on purpose: the
// unverified error carries a resend suggestion the client surfaces.
func (s *service) Login(ctx context.Context, email, password string) (*models.AdminUser, string, error) {
	if !ValidateEmail(email) {
		return nil, "", ErrEmailFormat
	}
	u, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("lookup account: %w", err)
	}
	if u == nil {
		return nil, "", ErrAccountNotFound
	}
	if !u.IsEmailVerified {
		return nil, "", ErrEmailNotVerified
	}
	if !u.IsActive {
		return nil, "", ErrAccountInactive
	}
	if !CheckPassword(password, u.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.store.UpdateLastLogin(ctx, u.ID, now); err != nil {
		s.log.Warn("failed to update last login", "user_id", u.ID, "error", err)
	}
	u.LastLogin = &now

	token, err := s.tokens.Issue(u)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return u, token, nil
}

// VerifyToken re-reads the account row rather than trusting the embedded
// claims, so a deactivation or deletion takes effect before the token's
// natural expiry.
func (s *service) VerifyToken(ctx context.Context, token string) (*models.AdminUser, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	u, err := s.store.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("lookup account: %w", err)
	}
	if u == nil || !u.IsActive {
		return nil, ErrUserInactive
	}
	return u, nil
}

func (s *service) VerifyEmail(ctx context.Context, token string) (*models.AdminUser, error) {
	u, err := s.store.FindByVerificationToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("lookup token: %w", err)
	}
	if u == nil {
		return nil, ErrVerifyTokenInvalid
	}
	if u.VerificationExpiry == nil || u.VerificationExpiry.Before(time.Now()) {
		return nil, ErrVerifyTokenExpired
	}

	updated, err := s.store.MarkVerified(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("mark verified: %w", err)
	}

	if err := s.mail.SendWelcome(ctx, updated.Email, updated.FullName); err != nil {
		s.log.Warn("welcome email dispatch failed, verification completed", "email", updated.Email, "error", err)
	}
	return updated, nil
}

// ResendVerification installs fresh verification material on an unverified
// account and re-stages the email.
func (s *service) ResendVerification(ctx context.Context, email string) error {
	if !ValidateEmail(email) {
		return ErrEmailFormat
	}
	u, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("lookup account: %w", err)
	}
	if u == nil {
		return ErrAccountNotFound
	}
	if u.IsEmailVerified {
		return ErrAlreadyVerified
	}

	token := uuid.NewString()
	expiry := time.Now().Add(24 * time.Hour)
	if err := s.store.ResetVerificationToken(ctx, u.ID, token, expiry); err != nil {
		return fmt.Errorf("reset verification token: %w", err)
	}
	if err := s.mail.SendVerification(ctx, u.Email, u.FullName, token); err != nil {
		s.log.Warn("verification email dispatch failed", "email", u.Email, "error", err)
	}
	return nil
}

// Setup bootstraps the first super_admin, already verified and active, and
// returns a session token. Refused once any account exists.
func (s *service) Setup(ctx context.Context, email, password, fullName string) (*models.AdminUser, string, error) {
	if !ValidateEmail(email) {
		return nil, "", ErrEmailFormat
	}
	if !ValidatePassword(password) {
		return nil, "", ErrWeakPassword
	}
	count, err := s.store.Count(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("count admins: %w", err)
	}
	if count > 0 {
		return nil, "", ErrSetupComplete
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, "", err
	}
	u := &models.AdminUser{
		Email:           email,
		PasswordHash:    hash,
		FullName:        fullName,
		Role:            models.RoleSuperAdmin,
		IsActive:        true,
		IsEmailVerified: true,
	}
	if err := s.store.Create(ctx, u); err != nil {
		return nil, "", err
	}
	token, err := s.tokens.Issue(u)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return u, token, nil
}
