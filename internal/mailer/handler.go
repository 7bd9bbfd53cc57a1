package mailer

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/drkleen/backend/internal/auth"
	"github.com/drkleen/backend/internal/httpx"
	"github.com/drkleen/backend/internal/models"
)

// Handler serves the staged-email viewer at /email-display.
type Handler struct {
	store      Store
	dispatcher *Dispatcher
	log        *slog.Logger
}

func NewHandler(store Store, dispatcher *Dispatcher, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{store: store, dispatcher: dispatcher, log: log}
}

type displayResult struct {
	Emails  []*models.PendingEmail `json:"emails"`
	Count   int                    `json:"count"`
	Message string                 `json:"message"`
}

// Display looks up staged emails by recipient address. The address arrives
// as a query parameter on GET or a JSON body field on POST. A missing or
// malformed address yields an empty 200 result, not an error.
func (h *Handler) Display(w http.ResponseWriter, r *http.Request) {
	var email string
	switch r.Method {
	case http.MethodGet:
		email = r.URL.Query().Get("email")
	case http.MethodPost:
		var body struct {
			Email string `json:"email"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		email = body.Email
	}

	if email == "" {
		httpx.WriteData(w, http.StatusOK, displayResult{
			Emails: []*models.PendingEmail{}, Message: "Email parameter missing",
		})
		return
	}
	if !auth.ValidateEmail(email) {
		httpx.WriteData(w, http.StatusOK, displayResult{
			Emails: []*models.PendingEmail{}, Message: "Invalid email format",
		})
		return
	}

	emails, err := h.store.ListByRecipient(r.Context(), email)
	if err != nil {
		h.log.Error("email lookup failed", "recipient", email, "error", err)
		httpx.WriteData(w, http.StatusInternalServerError, displayResult{
			Emails: []*models.PendingEmail{}, Message: "Failed to retrieve emails",
		})
		return
	}
	if emails == nil {
		emails = []*models.PendingEmail{}
	}

	// Rebuild verification URLs in case the frontend base moved since the
	// row was staged.
	for _, e := range emails {
		if e.EmailType == models.EmailTypeVerification && e.VerificationToken != nil {
			u := h.dispatcher.VerificationURL(*e.VerificationToken)
			e.VerificationURL = &u
		}
	}

	msg := fmt.Sprintf("No emails found for %s", email)
	if len(emails) > 0 {
		msg = fmt.Sprintf("Found %d emails for %s", len(emails), email)
	}
	httpx.WriteData(w, http.StatusOK, displayResult{Emails: emails, Count: len(emails), Message: msg})
}
