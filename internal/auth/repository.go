package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/drkleen/backend/internal/models"
)

// Store failures surfaced to the service layer.
var (
	// ErrAdminLimit means the conditional insert found the cap already met.
	ErrAdminLimit = errors.New("admin account limit reached")
	// ErrEmailExists means the unique email index rejected the insert.
	ErrEmailExists = errors.New("email already registered")
)

const adminColumns = `id, email, password_hash, full_name, role, is_active, is_email_verified,
	verification_token, verification_token_expires_at, last_login, created_at, updated_at`

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanAdmin(row pgx.Row) (*models.AdminUser, error) {
	var u models.AdminUser
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Role, &u.IsActive,
		&u.IsEmailVerified, &u.VerificationToken, &u.VerificationExpiry, &u.LastLogin,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByEmail returns the account for an exact email match, or nil.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	u, err := scanAdmin(r.pool.QueryRow(ctx, `
		SELECT `+adminColumns+` FROM admin_users WHERE email = $1
	`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

// FindByID returns the account for the given id, or nil.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.AdminUser, error) {
	u, err := scanAdmin(r.pool.QueryRow(ctx, `
		SELECT `+adminColumns+` FROM admin_users WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

// FindByVerificationToken matches only accounts still awaiting verification.
func (r *Repository) FindByVerificationToken(ctx context.Context, token string) (*models.AdminUser, error) {
	u, err := scanAdmin(r.pool.QueryRow(ctx, `
		SELECT `+adminColumns+` FROM admin_users
		WHERE verification_token = $1 AND is_email_verified = FALSE
	`, token))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

// Create inserts a new account only while the total stays under the cap.
// The count check and the insert are a single statement, so concurrent
// registrations cannot overshoot the limit.
func (r *Repository) Create(ctx context.Context, u *models.AdminUser) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO admin_users (email, password_hash, full_name, role, is_active,
			is_email_verified, verification_token, verification_token_expires_at, verification_sent_at)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, now()
		WHERE (SELECT COUNT(*) FROM admin_users) < $9
		RETURNING id, created_at, updated_at
	`, u.Email, u.PasswordHash, u.FullName, u.Role, u.IsActive, u.IsEmailVerified,
		u.VerificationToken, u.VerificationExpiry, models.MaxAdminUsers,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrAdminLimit
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrEmailExists
		}
		return err
	}
	return nil
}

// UpdateLastLogin stamps a successful login.
func (r *Repository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE admin_users SET last_login = $2, updated_at = now() WHERE id = $1
	`, id, at)
	return err
}

// MarkVerified flips the account to verified and active and clears the
// verification material.
func (r *Repository) MarkVerified(ctx context.Context, id int64) (*models.AdminUser, error) {
	return scanAdmin(r.pool.QueryRow(ctx, `
		UPDATE admin_users SET is_email_verified = TRUE, is_active = TRUE,
			verification_token = NULL, verification_token_expires_at = NULL, updated_at = now()
		WHERE id = $1
		RETURNING `+adminColumns+`
	`, id))
}

// ResetVerificationToken installs fresh verification material on an
// unverified account.
func (r *Repository) ResetVerificationToken(ctx context.Context, id int64, token string, expiry time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE admin_users SET verification_token = $2, verification_token_expires_at = $3,
			verification_sent_at = now(), updated_at = now()
		WHERE id = $1 AND is_email_verified = FALSE
	`, id, token, expiry)
	return err
}

// Delete removes the account. No cascading cleanup of related data.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM admin_users WHERE id = $1", id)
	return err
}

// Count returns the number of admin accounts.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM admin_users").Scan(&n)
	return n, err
}

// List returns all accounts, newest first.
func (r *Repository) List(ctx context.Context) ([]*models.AdminUser, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+adminColumns+` FROM admin_users ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.AdminUser
	for rows.Next() {
		u, err := scanAdmin(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, u)
	}
	return list, rows.Err()
}
