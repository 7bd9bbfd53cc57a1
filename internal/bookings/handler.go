package bookings

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/drkleen/backend/internal/auth"
	"github.com/drkleen/backend/internal/httpx"
	"github.com/drkleen/backend/internal/models"
	"github.com/drkleen/backend/internal/repository"
)

// Handler serves /bookings-api: the public booking form submit plus the
// admin-facing list.
type Handler struct {
	bookings *repository.BookingRepo
	log      *slog.Logger
}

func NewHandler(bookings *repository.BookingRepo, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{bookings: bookings, log: log}
}

type createRequest struct {
	CustomerName string  `json:"customer_name"`
	Email        string  `json:"email"`
	Phone        *string `json:"phone"`
	ServiceType  string  `json:"service_type"`
	BookingDate  string  `json:"booking_date"`
}

// Create handles POST /bookings-api. An omitted booking_date defaults to
// today; new bookings start pending.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeValidationError, "Invalid JSON body")
		return
	}
	if req.CustomerName == "" || req.Email == "" || req.ServiceType == "" {
		httpx.WriteErrorDetails(w, http.StatusBadRequest, httpx.CodeValidationError,
			"Customer name, email and service type are required",
			map[string]any{"required": []string{"customer_name", "email", "service_type"}})
		return
	}
	if !auth.ValidateEmail(req.Email) {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeInvalidEmailFormat, "Invalid email format")
		return
	}

	b := &models.Booking{
		CustomerName: req.CustomerName,
		Email:        req.Email,
		Phone:        req.Phone,
		ServiceType:  req.ServiceType,
		BookingDate:  req.BookingDate,
	}
	if err := h.bookings.Create(r.Context(), b); err != nil {
		h.log.Error("create booking failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeDatabaseError, "Failed to create booking")
		return
	}
	h.log.Info("booking created", "id", b.ID, "service_type", b.ServiceType)
	httpx.WriteDataMessage(w, http.StatusCreated, b, "Booking received. We will confirm your appointment shortly.")
}

// List handles GET /bookings-api.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookings.List(r.Context())
	if err != nil {
		h.log.Error("list bookings failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeDatabaseError, "Failed to fetch bookings")
		return
	}
	if bookings == nil {
		bookings = []*models.Booking{}
	}
	httpx.WriteData(w, http.StatusOK, bookings)
}
