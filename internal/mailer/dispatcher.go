// Package mailer renders admin notifications and stages them as
// pending_emails rows. No real transport exists: rows stay in the
// ready_to_send state and a viewer endpoint reads them back by recipient.
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/drkleen/backend/internal/models"
)

// Store is the staging-table contract the dispatcher and purge worker need.
type Store interface {
	Insert(ctx context.Context, e *models.PendingEmail) error
	ListByRecipient(ctx context.Context, email string) ([]*models.PendingEmail, error)
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type Dispatcher struct {
	store       Store
	frontendURL string
	log         *slog.Logger
}

func NewDispatcher(store Store, frontendURL string, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{store: store, frontendURL: frontendURL, log: log}
}

// VerificationURL builds the link embedded in verification emails.
func (d *Dispatcher) VerificationURL(token string) string {
	return fmt.Sprintf("%s/admin/verify-email?token=%s", d.frontendURL, token)
}

// SendVerification renders and stages a verification email.
func (d *Dispatcher) SendVerification(ctx context.Context, email, fullName, token string) error {
	verificationURL := d.VerificationURL(token)

	var body bytes.Buffer
	err := verificationTmpl.Execute(&body, struct {
		FullName        string
		VerificationURL string
	}{fullName, verificationURL})
	if err != nil {
		return fmt.Errorf("render verification email: %w", err)
	}

	e := &models.PendingEmail{
		RecipientEmail:    email,
		RecipientName:     fullName,
		Subject:           subjectVerification,
		HTMLContent:       body.String(),
		EmailType:         models.EmailTypeVerification,
		VerificationToken: &token,
		VerificationURL:   &verificationURL,
		Status:            models.EmailStatusReady,
	}
	if err := d.store.Insert(ctx, e); err != nil {
		return fmt.Errorf("stage verification email: %w", err)
	}
	d.log.Info("verification email staged", "email_id", e.ID, "recipient", email)
	return nil
}

// SendWelcome renders and stages a welcome email.
func (d *Dispatcher) SendWelcome(ctx context.Context, email, fullName string) error {
	var body bytes.Buffer
	err := welcomeTmpl.Execute(&body, struct {
		FullName string
		LoginURL string
	}{fullName, d.frontendURL + "/admin/login"})
	if err != nil {
		return fmt.Errorf("render welcome email: %w", err)
	}

	e := &models.PendingEmail{
		RecipientEmail: email,
		RecipientName:  fullName,
		Subject:        subjectWelcome,
		HTMLContent:    body.String(),
		EmailType:      models.EmailTypeWelcome,
		Status:         models.EmailStatusReady,
	}
	if err := d.store.Insert(ctx, e); err != nil {
		return fmt.Errorf("stage welcome email: %w", err)
	}
	d.log.Info("welcome email staged", "email_id", e.ID, "recipient", email)
	return nil
}
