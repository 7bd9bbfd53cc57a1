package mailer

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/drkleen/backend/internal/models"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Insert(ctx context.Context, e *models.PendingEmail) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO pending_emails (recipient_email, recipient_name, subject, html_content,
			email_type, verification_token, verification_url, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`, e.RecipientEmail, e.RecipientName, e.Subject, e.HTMLContent, e.EmailType,
		e.VerificationToken, e.VerificationURL, e.Status,
	).Scan(&e.ID, &e.CreatedAt)
}

// ListByRecipient returns staged emails for one address, newest first.
func (r *Repository) ListByRecipient(ctx context.Context, email string) ([]*models.PendingEmail, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, recipient_email, recipient_name, subject, html_content, email_type,
			verification_token, verification_url, status, created_at
		FROM pending_emails WHERE recipient_email = $1 ORDER BY created_at DESC
	`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.PendingEmail
	for rows.Next() {
		var e models.PendingEmail
		if err := rows.Scan(&e.ID, &e.RecipientEmail, &e.RecipientName, &e.Subject,
			&e.HTMLContent, &e.EmailType, &e.VerificationToken, &e.VerificationURL,
			&e.Status, &e.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// PurgeOlderThan deletes staged emails created before the cutoff and returns
// how many went away.
func (r *Repository) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, "DELETE FROM pending_emails WHERE created_at < $1", cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
