package admin

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/drkleen/backend/internal/auth"
	"github.com/drkleen/backend/internal/httpx"
	"github.com/drkleen/backend/internal/middleware"
	"github.com/drkleen/backend/internal/models"
	"github.com/drkleen/backend/internal/repository"
)

// Handler serves the admin back office: user management, website settings,
// and catalog writes. Every route behind it runs under middleware.AdminAuth,
// so the caller is always available from the request context.
type Handler struct {
	admins   *auth.Repository
	settings *repository.SettingRepo
	products *repository.ProductRepo
	services *repository.ServiceRepo
	log      *slog.Logger
}

func NewHandler(
	admins *auth.Repository,
	settings *repository.SettingRepo,
	products *repository.ProductRepo,
	services *repository.ServiceRepo,
	log *slog.Logger,
) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		admins:   admins,
		settings: settings,
		products: products,
		services: services,
		log:      log,
	}
}

type adminView struct {
	ID              int64      `json:"id"`
	Email           string     `json:"email"`
	FullName        string     `json:"full_name"`
	Role            string     `json:"role"`
	IsActive        bool       `json:"is_active"`
	IsEmailVerified bool       `json:"is_email_verified"`
	LastLogin       *time.Time `json:"last_login,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

func adminViewOf(u *models.AdminUser) adminView {
	return adminView{
		ID:              u.ID,
		Email:           u.Email,
		FullName:        u.FullName,
		Role:            u.Role,
		IsActive:        u.IsActive,
		IsEmailVerified: u.IsEmailVerified,
		LastLogin:       u.LastLogin,
		CreatedAt:       u.CreatedAt,
	}
}

// ListAdminUsers handles GET /admin-management/admin-users.
func (h *Handler) ListAdminUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.admins.List(r.Context())
	if err != nil {
		h.log.Error("list admin users failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeDatabaseError, "Failed to fetch admin users")
		return
	}

	views := make([]adminView, 0, len(users))
	active := 0
	for _, u := range users {
		if u.IsActive && u.IsEmailVerified {
			active++
		}
		views = append(views, adminViewOf(u))
	}

	httpx.WriteData(w, http.StatusOK, map[string]any{
		"users": views,
		"counts": map[string]int{
			"total":       len(users),
			"active":      active,
			"max_allowed": models.MaxAdminUsers,
		},
	})
}

// DeleteAdminUser handles DELETE /admin-management/admin-users/{id}.
func (h *Handler) DeleteAdminUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeValidationError, "Invalid user id")
		return
	}

	caller := middleware.AdminFromCtx(r.Context())
	if caller != nil && caller.ID == id {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeCannotDeleteSelf,
			"You cannot delete your own admin account")
		return
	}

	target, err := h.admins.FindByID(r.Context(), id)
	if err != nil {
		h.log.Error("lookup admin for delete failed", "id", id, "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeDatabaseError, "Failed to fetch admin user")
		return
	}
	if target == nil {
		httpx.WriteError(w, http.StatusNotFound, httpx.CodeUserNotFound, "Admin user not found")
		return
	}

	if err := h.admins.Delete(r.Context(), id); err != nil {
		h.log.Error("delete admin failed", "id", id, "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeDatabaseError, "Failed to delete admin user")
		return
	}
	h.log.Info("admin user deleted", "id", id, "email", target.Email)
	httpx.WriteDataMessage(w, http.StatusOK, map[string]any{"id": id},
		fmt.Sprintf("Admin user %s deleted", target.Email))
}

// AdminStats handles GET /admin-management/admin-stats.
func (h *Handler) AdminStats(w http.ResponseWriter, r *http.Request) {
	users, err := h.admins.List(r.Context())
	if err != nil {
		h.log.Error("admin stats failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeDatabaseError, "Failed to fetch admin stats")
		return
	}

	active, pending := 0, 0
	for _, u := range users {
		if u.IsActive && u.IsEmailVerified {
			active++
		}
		if !u.IsEmailVerified {
			pending++
		}
	}
	httpx.WriteData(w, http.StatusOK, map[string]int{
		"total":                len(users),
		"active":               active,
		"pending_verification": pending,
		"max_allowed":          models.MaxAdminUsers,
	})
}

// ListSettings handles GET /admin-management/settings.
func (h *Handler) ListSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.List(r.Context())
	if err != nil {
		h.log.Error("list settings failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeDatabaseError, "Failed to fetch settings")
		return
	}
	if settings == nil {
		settings = []*models.WebsiteSetting{}
	}
	httpx.WriteData(w, http.StatusOK, settings)
}

type settingRequest struct {
	Value       string `json:"setting_value"`
	Description string `json:"description"`
}

// UpdateSetting handles PUT /admin-management/settings/{key}.
func (h *Handler) UpdateSetting(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if key == "" {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeValidationError, "Setting key is required")
		return
	}

	var req settingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeValidationError, "Invalid JSON body")
		return
	}
	if req.Value == "" {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeValidationError, "setting_value is required")
		return
	}

	var updatedBy int64
	if caller := middleware.AdminFromCtx(r.Context()); caller != nil {
		updatedBy = caller.ID
	}

	setting, err := h.settings.Upsert(r.Context(), key, req.Value, req.Description, updatedBy)
	if err != nil {
		h.log.Error("upsert setting failed", "key", key, "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeDatabaseError, "Failed to save setting")
		return
	}
	httpx.WriteDataMessage(w, http.StatusOK, setting, "Setting saved")
}

type productRequest struct {
	Name          string   `json:"name"`
	Price         *float64 `json:"price"`
	Image         string   `json:"image"`
	Category      string   `json:"category"`
	Description   string   `json:"description"`
	IsNew         bool     `json:"is_new"`
	Discount      float64  `json:"discount"`
	OriginalPrice *float64 `json:"original_price"`
	Stock         int      `json:"stock"`
}

// CreateProduct handles POST /admin-management/products.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeValidationError, "Invalid JSON body")
		return
	}
	if req.Name == "" || req.Price == nil || req.Category == "" {
		httpx.WriteErrorDetails(w, http.StatusBadRequest, httpx.CodeValidationError,
			"Name, price and category are required",
			map[string]any{"required": []string{"name", "price", "category"}})
		return
	}
	if *req.Price < 0 {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeValidationError, "Price must not be negative")
		return
	}

	p := &models.Product{
		Name:          req.Name,
		Price:         *req.Price,
		Image:         req.Image,
		Category:      req.Category,
		Description:   req.Description,
		IsNew:         req.IsNew,
		Discount:      req.Discount,
		OriginalPrice: req.OriginalPrice,
		Stock:         req.Stock,
	}
	if err := h.products.Create(r.Context(), p); err != nil {
		h.log.Error("create product failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeDatabaseError, "Failed to create product")
		return
	}
	httpx.WriteDataMessage(w, http.StatusCreated, p, "Product created")
}

type serviceRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
	PriceRange  string `json:"price_range"`
}

// CreateService handles POST /admin-management/services.
func (h *Handler) CreateService(w http.ResponseWriter, r *http.Request) {
	var req serviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeValidationError, "Invalid JSON body")
		return
	}
	if req.Name == "" || req.Description == "" {
		httpx.WriteErrorDetails(w, http.StatusBadRequest, httpx.CodeValidationError,
			"Name and description are required",
			map[string]any{"required": []string{"name", "description"}})
		return
	}

	s := &models.Service{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		PriceRange:  req.PriceRange,
	}
	if err := h.services.Create(r.Context(), s); err != nil {
		h.log.Error("create service failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeDatabaseError, "Failed to create service")
		return
	}
	httpx.WriteDataMessage(w, http.StatusCreated, s, "Service created")
}
