package models

import "time"

// Email kinds and the single staging status. Rows are never advanced past
// ready_to_send: no real transport exists, a viewer endpoint reads them back.
const (
	EmailTypeVerification = "verification"
	EmailTypeWelcome      = "welcome"

	EmailStatusReady = "ready_to_send"
)

// PendingEmail is a rendered notification staged for later viewing.
type PendingEmail struct {
	ID                int64     `json:"id"`
	RecipientEmail    string    `json:"recipient_email"`
	RecipientName     string    `json:"recipient_name"`
	Subject           string    `json:"subject"`
	HTMLContent       string    `json:"html_content"`
	EmailType         string    `json:"email_type"`
	VerificationToken *string   `json:"verification_token,omitempty"`
	VerificationURL   *string   `json:"verification_url,omitempty"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
}
