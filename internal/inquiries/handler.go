package inquiries

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/drkleen/backend/internal/auth"
	"github.com/drkleen/backend/internal/httpx"
	"github.com/drkleen/backend/internal/models"
	"github.com/drkleen/backend/internal/repository"
)

const defaultListLimit = 50

// Handler serves /admin-inquiries: the public contact-form submit and the
// admin-side listing, triage and stats.
type Handler struct {
	inquiries *repository.InquiryRepo
	log       *slog.Logger
}

func NewHandler(inquiries *repository.InquiryRepo, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{inquiries: inquiries, log: log}
}

type createRequest struct {
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Phone       *string `json:"phone"`
	Message     string  `json:"message"`
	InquiryType string  `json:"inquiry_type"`
}

// Create handles POST /admin-inquiries. Public, no auth: this is the
// contact form on the website.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeValidationError, "Invalid JSON body")
		return
	}
	if req.Name == "" || req.Email == "" || req.Message == "" {
		httpx.WriteErrorDetails(w, http.StatusBadRequest, httpx.CodeValidationError,
			"Name, email and message are required",
			map[string]any{"required": []string{"name", "email", "message"}})
		return
	}
	if !auth.ValidateEmail(req.Email) {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeInvalidEmailFormat, "Invalid email format")
		return
	}

	q := &models.ContactInquiry{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Message:     req.Message,
		InquiryType: req.InquiryType,
	}
	if err := h.inquiries.Create(r.Context(), q); err != nil {
		h.log.Error("create inquiry failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeDatabaseError, "Failed to submit inquiry")
		return
	}
	h.log.Info("inquiry created", "id", q.ID, "inquiry_type", q.InquiryType)
	httpx.WriteDataMessage(w, http.StatusCreated, q, "Thank you for contacting Dr. Kleen. We will get back to you soon.")
}

// List handles GET /admin-inquiries with optional status/priority filters
// and limit/offset paging.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := repository.InquiryFilter{
		Status:   q.Get("status"),
		Priority: q.Get("priority"),
		Limit:    defaultListLimit,
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			httpx.WriteError(w, http.StatusBadRequest, httpx.CodeValidationError, "limit must be a positive integer")
			return
		}
		f.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			httpx.WriteError(w, http.StatusBadRequest, httpx.CodeValidationError, "offset must not be negative")
			return
		}
		f.Offset = n
	}

	list, err := h.inquiries.List(r.Context(), f)
	if err != nil {
		h.log.Error("list inquiries failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeDatabaseError, "Failed to fetch inquiries")
		return
	}
	if list == nil {
		list = []*models.ContactInquiry{}
	}
	httpx.WriteData(w, http.StatusOK, list)
}

type updateRequest struct {
	Status   string `json:"status"`
	Priority string `json:"priority"`
}

var validStatuses = map[string]bool{
	models.InquiryStatusNew:        true,
	models.InquiryStatusInProgress: true,
	models.InquiryStatusResolved:   true,
}

var validPriorities = map[string]bool{
	models.InquiryPriorityLow:    true,
	models.InquiryPriorityMedium: true,
	models.InquiryPriorityHigh:   true,
}

// Update handles PUT /admin-inquiries/{id}. Empty fields keep their
// current value.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeValidationError, "Invalid inquiry id")
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeValidationError, "Invalid JSON body")
		return
	}
	if req.Status == "" && req.Priority == "" {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeValidationError, "Nothing to update")
		return
	}
	if req.Status != "" && !validStatuses[req.Status] {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeValidationError, "Invalid status value")
		return
	}
	if req.Priority != "" && !validPriorities[req.Priority] {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeValidationError, "Invalid priority value")
		return
	}

	inquiry, err := h.inquiries.UpdateStatus(r.Context(), id, req.Status, req.Priority)
	if errors.Is(err, pgx.ErrNoRows) {
		httpx.WriteError(w, http.StatusNotFound, httpx.CodeNotFound, "Inquiry not found")
		return
	}
	if err != nil {
		h.log.Error("update inquiry failed", "id", id, "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeDatabaseError, "Failed to update inquiry")
		return
	}
	httpx.WriteDataMessage(w, http.StatusOK, inquiry, "Inquiry updated")
}

// Stats handles GET /admin-inquiries/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.inquiries.Stats(r.Context())
	if err != nil {
		h.log.Error("inquiry stats failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeDatabaseError, "Failed to fetch inquiry stats")
		return
	}
	httpx.WriteData(w, http.StatusOK, stats)
}
