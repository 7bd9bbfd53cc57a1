package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/drkleen/backend/internal/httpx"
	"github.com/drkleen/backend/internal/repository"
)

const trendMonths = 6

// Handler serves the dashboard overview and the generic /admin-data entity
// CRUD. Runs behind middleware.AdminAuth.
type Handler struct {
	stats    *Repo
	entities *repository.EntityRepo
	log      *slog.Logger
}

func NewHandler(stats *Repo, entities *repository.EntityRepo, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{stats: stats, entities: entities, log: log}
}

type trendPoint struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// trendSeries turns per-month counts into a fixed window of labelled points,
// oldest first, zero-filling months with no rows.
func trendSeries(counts map[time.Time]int, months int, now time.Time) []trendPoint {
	out := make([]trendPoint, 0, months)
	for i := months - 1; i >= 0; i-- {
		month := time.Date(now.Year(), now.Month()-time.Month(i), 1, 0, 0, 0, 0, time.UTC)
		out = append(out, trendPoint{
			Month: month.Format("Jan 2006"),
			Count: counts[month],
		})
	}
	return out
}

// GetOverview handles GET /admin-data/dashboard-overview.
func (h *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	bookings, err := h.stats.BookingStats(ctx)
	if err != nil {
		h.overviewError(w, "booking stats", err)
		return
	}
	products, err := h.stats.ProductStats(ctx)
	if err != nil {
		h.overviewError(w, "product stats", err)
		return
	}
	inquiries, err := h.stats.InquiryStats(ctx)
	if err != nil {
		h.overviewError(w, "inquiry stats", err)
		return
	}
	requests, err := h.stats.ServiceRequestStats(ctx)
	if err != nil {
		h.overviewError(w, "service request stats", err)
		return
	}
	testimonials, err := h.stats.TestimonialStats(ctx)
	if err != nil {
		h.overviewError(w, "testimonial stats", err)
		return
	}
	serviceCount, err := h.stats.ServiceCount(ctx)
	if err != nil {
		h.overviewError(w, "service count", err)
		return
	}

	activity, err := h.recentActivity(ctx)
	if err != nil {
		h.overviewError(w, "recent activity", err)
		return
	}

	trends, err := h.monthlyTrends(ctx)
	if err != nil {
		h.overviewError(w, "monthly trends", err)
		return
	}

	httpx.WriteData(w, http.StatusOK, map[string]any{
		"stats": map[string]any{
			"totalBookings":     bookings.Total,
			"totalProducts":     products.Total,
			"totalTestimonials": testimonials.Total,
			"totalServices":     serviceCount,

			"pendingBookings":   bookings.Pending,
			"completedBookings": bookings.Completed,
			"recentBookings":    bookings.Recent,

			"lowStockProducts":   products.LowStock,
			"outOfStockProducts": products.OutOfStock,
			"totalProductValue":  products.InventoryValue,

			"totalInquiries":        inquiries.Total,
			"newInquiries":          inquiries.New,
			"resolvedInquiries":     inquiries.Resolved,
			"highPriorityInquiries": inquiries.HighPriority,
			"recentInquiries":       inquiries.Recent,

			"totalServiceRequests":     requests.Total,
			"pendingServiceRequests":   requests.Pending,
			"completedServiceRequests": requests.Completed,
			"recentServiceRequests":    requests.Recent,

			"averageRating":      testimonials.AverageRating,
			"recentTestimonials": testimonials.Recent,
		},
		"recentActivity": activity,
		"chartData": map[string]any{
			"bookingsByStatus": map[string]int{
				"pending":   bookings.Pending,
				"completed": bookings.Completed,
				"cancelled": bookings.Cancelled,
			},
			"inquiriesByPriority": map[string]int{
				"high":   inquiries.HighPriority,
				"medium": inquiries.Medium,
				"low":    inquiries.Low,
			},
			"monthlyTrends": trends,
		},
	})
}

// recentActivity merges the five newest bookings and inquiries by date and
// keeps the top ten.
func (h *Handler) recentActivity(ctx context.Context) ([]Activity, error) {
	bookings, err := h.stats.RecentBookingActivity(ctx, 5)
	if err != nil {
		return nil, err
	}
	inquiries, err := h.stats.RecentInquiryActivity(ctx, 5)
	if err != nil {
		return nil, err
	}

	merged := append(bookings, inquiries...)
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Date.After(merged[j].Date)
	})
	if len(merged) > 10 {
		merged = merged[:10]
	}
	if merged == nil {
		merged = []Activity{}
	}
	return merged, nil
}

func (h *Handler) monthlyTrends(ctx context.Context) (map[string][]trendPoint, error) {
	now := time.Now().UTC()
	out := make(map[string][]trendPoint, 3)
	for key, table := range map[string]string{
		"bookings":        "bookings",
		"inquiries":       "contact_inquiries",
		"serviceRequests": "service_requests",
	} {
		counts, err := h.stats.MonthlyCounts(ctx, table, trendMonths)
		if err != nil {
			return nil, err
		}
		out[key] = trendSeries(counts, trendMonths, now)
	}
	return out, nil
}

func (h *Handler) overviewError(w http.ResponseWriter, step string, err error) {
	h.log.Error("dashboard overview failed", "step", step, "error", err)
	httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeDatabaseError,
		"Failed to load dashboard data")
}

// ListEntities handles GET /admin-data/{entity}.
func (h *Handler) ListEntities(w http.ResponseWriter, r *http.Request) {
	entity := r.PathValue("entity")
	rows, err := h.entities.List(r.Context(), entity)
	if errors.Is(err, repository.ErrInvalidEntity) {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeValidationError, "Invalid entity type")
		return
	}
	if err != nil {
		h.log.Error("list entities failed", "entity", entity, "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeDatabaseError,
			fmt.Sprintf("Failed to fetch %s", entity))
		return
	}
	if rows == nil {
		rows = []map[string]any{}
	}
	httpx.WriteData(w, http.StatusOK, rows)
}

// UpdateEntity handles PUT /admin-data/{entity}/{id}.
func (h *Handler) UpdateEntity(w http.ResponseWriter, r *http.Request) {
	entity := r.PathValue("entity")
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeValidationError, "Invalid entity id")
		return
	}

	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeValidationError, "Invalid JSON body")
		return
	}

	row, err := h.entities.Update(r.Context(), entity, id, fields)
	switch {
	case errors.Is(err, repository.ErrInvalidEntity):
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeValidationError, "Invalid entity type")
		return
	case errors.Is(err, repository.ErrEntityNotFound):
		httpx.WriteError(w, http.StatusNotFound, httpx.CodeNotFound,
			fmt.Sprintf("No %s row with id %d", entity, id))
		return
	case err != nil:
		h.log.Error("update entity failed", "entity", entity, "id", id, "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeDatabaseError,
			fmt.Sprintf("Failed to update %s", entity))
		return
	}
	httpx.WriteData(w, http.StatusOK, row)
}

// DeleteEntity handles DELETE /admin-data/{entity}/{id}.
func (h *Handler) DeleteEntity(w http.ResponseWriter, r *http.Request) {
	entity := r.PathValue("entity")
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeValidationError, "Invalid entity id")
		return
	}

	err = h.entities.Delete(r.Context(), entity, id)
	switch {
	case errors.Is(err, repository.ErrInvalidEntity):
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeValidationError, "Invalid entity type")
		return
	case errors.Is(err, repository.ErrEntityNotFound):
		httpx.WriteError(w, http.StatusNotFound, httpx.CodeNotFound,
			fmt.Sprintf("No %s row with id %d", entity, id))
		return
	case err != nil:
		h.log.Error("delete entity failed", "entity", entity, "id", id, "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeDatabaseError,
			fmt.Sprintf("Failed to delete %s", entity))
		return
	}
	httpx.WriteDataMessage(w, http.StatusOK, map[string]any{"success": true},
		fmt.Sprintf("%s deleted successfully", entity))
}
