package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/drkleen/backend/internal/models"
)

// ---------------------------------------------------------------------------
// Mock Store
// ---------------------------------------------------------------------------

type mockStore struct {
	users  []*models.AdminUser
	nextID int64

	createErr     error
	lastLoginIDs  []int64
	resetTokenIDs []int64
}

func newMockStore(users ...*models.AdminUser) *mockStore {
	s := &mockStore{nextID: 1}
	for _, u := range users {
		if u.ID == 0 {
			u.ID = s.nextID
		}
		if u.ID >= s.nextID {
			s.nextID = u.ID + 1
		}
		s.users = append(s.users, u)
	}
	return s
}

func (s *mockStore) FindByEmail(_ context.Context, email string) (*models.AdminUser, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (s *mockStore) FindByID(_ context.Context, id int64) (*models.AdminUser, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (s *mockStore) FindByVerificationToken(_ context.Context, token string) (*models.AdminUser, error) {
	for _, u := range s.users {
		if !u.IsEmailVerified && u.VerificationToken != nil && *u.VerificationToken == token {
			return u, nil
		}
	}
	return nil, nil
}

func (s *mockStore) Create(_ context.Context, u *models.AdminUser) error {
	if s.createErr != nil {
		return s.createErr
	}
	if len(s.users) >= models.MaxAdminUsers {
		return ErrAdminLimit
	}
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return ErrEmailExists
		}
	}
	u.ID = s.nextID
	s.nextID++
	u.CreatedAt = time.Now()
	s.users = append(s.users, u)
	return nil
}

func (s *mockStore) UpdateLastLogin(_ context.Context, id int64, _ time.Time) error {
	s.lastLoginIDs = append(s.lastLoginIDs, id)
	return nil
}

func (s *mockStore) MarkVerified(_ context.Context, id int64) (*models.AdminUser, error) {
	for _, u := range s.users {
		if u.ID == id {
			u.IsEmailVerified = true
			u.IsActive = true
			u.VerificationToken = nil
			u.VerificationExpiry = nil
			return u, nil
		}
	}
	return nil, errors.New("no such user")
}

func (s *mockStore) ResetVerificationToken(_ context.Context, id int64, token string, expiry time.Time) error {
	s.resetTokenIDs = append(s.resetTokenIDs, id)
	for _, u := range s.users {
		if u.ID == id {
			u.VerificationToken = &token
			u.VerificationExpiry = &expiry
			return nil
		}
	}
	return errors.New("no such user")
}

func (s *mockStore) Count(_ context.Context) (int, error) {
	return len(s.users), nil
}

// ---------------------------------------------------------------------------
// Mock Mailer
// ---------------------------------------------------------------------------

type sentMail struct {
	kind  string
	email string
	token string
}

type mockMailer struct {
	sent []sentMail
	err  error
}

func (m *mockMailer) SendVerification(_ context.Context, email, _, token string) error {
	m.sent = append(m.sent, sentMail{kind: "verification", email: email, token: token})
	return m.err
}

func (m *mockMailer) SendWelcome(_ context.Context, email, _ string) error {
	m.sent = append(m.sent, sentMail{kind: "welcome", email: email})
	return m.err
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

const testPassword = "Str0ng!Pass"

func testTokens() *Tokens {
	return NewTokens("unit-test-secret-key", 24*time.Hour)
}

func newTestService(store *mockStore, mail *mockMailer) Service {
	return NewService(store, testTokens(), mail, nil)
}

func verifiedUser(id int64, email string) *models.AdminUser {
	hash, _ := HashPassword(testPassword)
	return &models.AdminUser{
		ID:              id,
		Email:           email,
		PasswordHash:    hash,
		FullName:        "Test Admin",
		Role:            models.RoleAdmin,
		IsActive:        true,
		IsEmailVerified: true,
	}
}

func unverifiedUser(id int64, email, token string, expiry time.Time) *models.AdminUser {
	hash, _ := HashPassword(testPassword)
	return &models.AdminUser{
		ID:                 id,
		Email:              email,
		PasswordHash:       hash,
		FullName:           "Test Admin",
		Role:               models.RoleAdmin,
		VerificationToken:  &token,
		VerificationExpiry: &expiry,
	}
}

// ---------------------------------------------------------------------------
// Password and email validation
// ---------------------------------------------------------------------------

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		password string
		want     bool
	}{
		{"Str0ng!Pass", true},
		{"aB3$efgh", true},
		{"short1!", false},       // under 8 chars
		{"alllowercase1!", false}, // no uppercase
		{"ALLUPPERCASE1!", false}, // no lowercase
		{"NoDigits!!", false},
		{"NoSymbols123", false},
		{"", false},
	}
	for _, c := range cases {
		if got := ValidatePassword(c.password); got != c.want {
			t.Errorf("ValidatePassword(%q) = %v, want %v", c.password, got, c.want)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	valid := []string{"alice@example.com", "a.b+c@sub.domain.io"}
	invalid := []string{"", "no-at-sign", "two@@example.com", "spaces in@example.com", "trailing@nodot"}
	for _, e := range valid {
		if !ValidateEmail(e) {
			t.Errorf("ValidateEmail(%q) = false, want true", e)
		}
	}
	for _, e := range invalid {
		if ValidateEmail(e) {
			t.Errorf("ValidateEmail(%q) = true, want false", e)
		}
	}
}

// ---------------------------------------------------------------------------
// Session tokens
// ---------------------------------------------------------------------------

func TestTokenRoundTrip(t *testing.T) {
	tokens := testTokens()
	u := verifiedUser(42, "alice@example.com")

	signed, err := tokens.Issue(u)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	claims, err := tokens.Verify(signed)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != 42 || claims.Email != "alice@example.com" || claims.Role != models.RoleAdmin {
		t.Errorf("claims = %+v, want user 42 / alice@example.com / admin", claims)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	expired := NewTokens("unit-test-secret-key", -time.Hour)
	signed, err := expired.Issue(verifiedUser(1, "alice@example.com"))
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := testTokens().Verify(signed); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify(expired) = %v, want ErrInvalidToken", err)
	}
}

func TestForeignSignatureRejected(t *testing.T) {
	other := NewTokens("a-completely-different-secret", 24*time.Hour)
	signed, err := other.Issue(verifiedUser(1, "alice@example.com"))
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := testTokens().Verify(signed); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify(foreign signature) = %v, want ErrInvalidToken", err)
	}
	if _, err := testTokens().Verify("not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify(garbage) = %v, want ErrInvalidToken", err)
	}
}

// ---------------------------------------------------------------------------
// Login
// ---------------------------------------------------------------------------

func TestLoginUnknownAccount(t *testing.T) {
	svc := newTestService(newMockStore(), &mockMailer{})
	_, _, err := svc.Login(context.Background(), "nobody@example.com", testPassword)
	if !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("Login = %v, want ErrAccountNotFound", err)
	}
}

func TestLoginUnverifiedBeforePasswordCheck(t *testing.T) {
	u := unverifiedUser(1, "alice@example.com", "tok", time.Now().Add(time.Hour))
	svc := newTestService(newMockStore(u), &mockMailer{})

	// Even the correct password must not get past the verification gate,
	// and a wrong password must not leak a credentials error instead.
	for _, password := range []string{testPassword, "Wrong!Pass1"} {
		_, _, err := svc.Login(context.Background(), "alice@example.com", password)
		if !errors.Is(err, ErrEmailNotVerified) {
			t.Errorf("Login(password=%q) = %v, want ErrEmailNotVerified", password, err)
		}
	}
}

func TestLoginInactiveAccount(t *testing.T) {
	u := verifiedUser(1, "alice@example.com")
	u.IsActive = false
	svc := newTestService(newMockStore(u), &mockMailer{})

	_, _, err := svc.Login(context.Background(), "alice@example.com", testPassword)
	if !errors.Is(err, ErrAccountInactive) {
		t.Errorf("Login = %v, want ErrAccountInactive", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService(newMockStore(verifiedUser(1, "alice@example.com")), &mockMailer{})
	_, _, err := svc.Login(context.Background(), "alice@example.com", "Wrong!Pass1")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginSuccess(t *testing.T) {
	store := newMockStore(verifiedUser(7, "alice@example.com"))
	svc := newTestService(store, &mockMailer{})

	before := time.Now()
	u, token, err := svc.Login(context.Background(), "alice@example.com", testPassword)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if u.LastLogin == nil || u.LastLogin.Before(before) {
		t.Errorf("LastLogin = %v, want >= %v", u.LastLogin, before)
	}
	if len(store.lastLoginIDs) != 1 || store.lastLoginIDs[0] != 7 {
		t.Errorf("UpdateLastLogin calls = %v, want [7]", store.lastLoginIDs)
	}

	claims, err := testTokens().Verify(token)
	if err != nil {
		t.Fatalf("Verify issued token: %v", err)
	}
	if claims.Email != u.Email || claims.UserID != u.ID {
		t.Errorf("token claims %+v do not match account %d/%s", claims, u.ID, u.Email)
	}
}

// ---------------------------------------------------------------------------
// Registration
// ---------------------------------------------------------------------------

func TestRegisterWeakPassword(t *testing.T) {
	svc := newTestService(newMockStore(), &mockMailer{})
	_, err := svc.Register(context.Background(), "alice@example.com", "weak", "Alice A")
	if !errors.Is(err, ErrWeakPassword) {
		t.Errorf("Register = %v, want ErrWeakPassword", err)
	}
}

func TestRegisterSuccess(t *testing.T) {
	store := newMockStore()
	mail := &mockMailer{}
	svc := newTestService(store, mail)

	u, err := svc.Register(context.Background(), "alice@example.com", testPassword, "Alice A")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.IsActive || u.IsEmailVerified {
		t.Errorf("new account active=%v verified=%v, want both false", u.IsActive, u.IsEmailVerified)
	}
	if u.VerificationToken == nil || u.VerificationExpiry == nil {
		t.Fatal("new account is missing verification material")
	}
	if len(store.users) != 1 {
		t.Fatalf("store has %d rows, want 1", len(store.users))
	}
	if len(mail.sent) != 1 || mail.sent[0].kind != "verification" || mail.sent[0].token != *u.VerificationToken {
		t.Errorf("staged mail = %+v, want one verification carrying the account token", mail.sent)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := newMockStore(verifiedUser(1, "alice@example.com"))
	svc := newTestService(store, &mockMailer{})

	_, err := svc.Register(context.Background(), "alice@example.com", testPassword, "Alice Again")
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("Register = %v, want ErrEmailExists", err)
	}
	if len(store.users) != 1 {
		t.Errorf("store has %d rows, want 1 (no row created)", len(store.users))
	}
}

func TestRegisterAtCap(t *testing.T) {
	store := newMockStore(
		verifiedUser(1, "first@example.com"),
		verifiedUser(2, "second@example.com"),
	)
	mail := &mockMailer{}
	svc := newTestService(store, mail)

	_, err := svc.Register(context.Background(), "third@example.com", testPassword, "Third Admin")
	if !errors.Is(err, ErrAdminLimit) {
		t.Errorf("Register = %v, want ErrAdminLimit", err)
	}
	if len(store.users) != 2 {
		t.Errorf("store has %d rows, want 2 (no row created)", len(store.users))
	}
	if len(mail.sent) != 0 {
		t.Errorf("staged %d mails, want 0", len(mail.sent))
	}
}

func TestRegisterSurvivesMailFailure(t *testing.T) {
	store := newMockStore()
	mail := &mockMailer{err: errors.New("smtp is a lie")}
	svc := newTestService(store, mail)

	if _, err := svc.Register(context.Background(), "alice@example.com", testPassword, "Alice A"); err != nil {
		t.Fatalf("Register: %v (dispatch failure must not fail registration)", err)
	}
	if len(store.users) != 1 {
		t.Errorf("store has %d rows, want 1", len(store.users))
	}
}

// ---------------------------------------------------------------------------
// Email verification
// ---------------------------------------------------------------------------

func TestVerifyEmailUnknownToken(t *testing.T) {
	svc := newTestService(newMockStore(), &mockMailer{})
	_, err := svc.VerifyEmail(context.Background(), "no-such-token")
	if !errors.Is(err, ErrVerifyTokenInvalid) {
		t.Errorf("VerifyEmail = %v, want ErrVerifyTokenInvalid", err)
	}
}

func TestVerifyEmailExpiredToken(t *testing.T) {
	u := unverifiedUser(1, "alice@example.com", "stale", time.Now().Add(-time.Minute))
	svc := newTestService(newMockStore(u), &mockMailer{})

	_, err := svc.VerifyEmail(context.Background(), "stale")
	if !errors.Is(err, ErrVerifyTokenExpired) {
		t.Errorf("VerifyEmail = %v, want ErrVerifyTokenExpired", err)
	}
}

func TestVerifyEmailSuccess(t *testing.T) {
	u := unverifiedUser(1, "alice@example.com", "fresh", time.Now().Add(time.Hour))
	mail := &mockMailer{}
	svc := newTestService(newMockStore(u), mail)

	updated, err := svc.VerifyEmail(context.Background(), "fresh")
	if err != nil {
		t.Fatalf("VerifyEmail: %v", err)
	}
	if !updated.IsEmailVerified || !updated.IsActive {
		t.Errorf("verified=%v active=%v, want both true", updated.IsEmailVerified, updated.IsActive)
	}
	if updated.VerificationToken != nil {
		t.Error("verification token not cleared")
	}
	if len(mail.sent) != 1 || mail.sent[0].kind != "welcome" {
		t.Errorf("staged mail = %+v, want one welcome", mail.sent)
	}
}

// ---------------------------------------------------------------------------
// Token verification against the live account row
// ---------------------------------------------------------------------------

func TestVerifyTokenReflectsDeactivation(t *testing.T) {
	u := verifiedUser(3, "alice@example.com")
	store := newMockStore(u)
	svc := newTestService(store, &mockMailer{})

	signed, err := testTokens().Issue(u)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	got, err := svc.VerifyToken(context.Background(), signed)
	if err != nil || got.ID != 3 {
		t.Fatalf("VerifyToken = (%v, %v), want account 3", got, err)
	}

	// Same token, twice in a row, no mutation: same projection.
	again, err := svc.VerifyToken(context.Background(), signed)
	if err != nil || again.ID != got.ID || again.Email != got.Email {
		t.Errorf("second VerifyToken = (%v, %v), want same account", again, err)
	}

	// Deactivation beats the token's remaining lifetime.
	u.IsActive = false
	if _, err := svc.VerifyToken(context.Background(), signed); !errors.Is(err, ErrUserInactive) {
		t.Errorf("VerifyToken(deactivated) = %v, want ErrUserInactive", err)
	}
}

// ---------------------------------------------------------------------------
// Resend verification
// ---------------------------------------------------------------------------

func TestResendVerification(t *testing.T) {
	u := unverifiedUser(1, "alice@example.com", "old-token", time.Now().Add(-time.Minute))
	store := newMockStore(u)
	mail := &mockMailer{}
	svc := newTestService(store, mail)

	if err := svc.ResendVerification(context.Background(), "alice@example.com"); err != nil {
		t.Fatalf("ResendVerification: %v", err)
	}
	if len(store.resetTokenIDs) != 1 {
		t.Fatalf("ResetVerificationToken calls = %d, want 1", len(store.resetTokenIDs))
	}
	if *u.VerificationToken == "old-token" {
		t.Error("verification token not rotated")
	}
	if len(mail.sent) != 1 || mail.sent[0].token != *u.VerificationToken {
		t.Errorf("staged mail = %+v, want one verification with the rotated token", mail.sent)
	}
}

func TestResendVerificationAlreadyVerified(t *testing.T) {
	svc := newTestService(newMockStore(verifiedUser(1, "alice@example.com")), &mockMailer{})
	err := svc.ResendVerification(context.Background(), "alice@example.com")
	if !errors.Is(err, ErrAlreadyVerified) {
		t.Errorf("ResendVerification = %v, want ErrAlreadyVerified", err)
	}
}

// ---------------------------------------------------------------------------
// First-admin setup
// ---------------------------------------------------------------------------

func TestSetupBootstrapsSuperAdmin(t *testing.T) {
	store := newMockStore()
	svc := newTestService(store, &mockMailer{})

	u, token, err := svc.Setup(context.Background(), "root@example.com", testPassword, "Root Admin")
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if u.Role != models.RoleSuperAdmin || !u.IsActive || !u.IsEmailVerified {
		t.Errorf("bootstrap account = %+v, want active verified super_admin", u)
	}
	if _, err := testTokens().Verify(token); err != nil {
		t.Errorf("Setup token does not verify: %v", err)
	}
}

func TestSetupRefusedOnceAdminsExist(t *testing.T) {
	svc := newTestService(newMockStore(verifiedUser(1, "alice@example.com")), &mockMailer{})
	_, _, err := svc.Setup(context.Background(), "root@example.com", testPassword, "Root Admin")
	if !errors.Is(err, ErrSetupComplete) {
		t.Errorf("Setup = %v, want ErrSetupComplete", err)
	}
}
