package catalog

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/drkleen/backend/internal/httpx"
	"github.com/drkleen/backend/internal/models"
	"github.com/drkleen/backend/internal/repository"
)

// Number of testimonials shown on the public site.
const testimonialLimit = 10

// Handler serves the public, unauthenticated read APIs for the website:
// products, services, banners, testimonials.
type Handler struct {
	products     *repository.ProductRepo
	services     *repository.ServiceRepo
	banners      *repository.BannerRepo
	testimonials *repository.TestimonialRepo
	log          *slog.Logger
}

func NewHandler(
	products *repository.ProductRepo,
	services *repository.ServiceRepo,
	banners *repository.BannerRepo,
	testimonials *repository.TestimonialRepo,
	log *slog.Logger,
) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		products:     products,
		services:     services,
		banners:      banners,
		testimonials: testimonials,
		log:          log,
	}
}

// ListProducts handles GET /products-api. Filters come from query
// parameters; unknown sort columns fall back to the default order.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := repository.ProductFilter{
		Category:  q.Get("category"),
		Search:    q.Get("search"),
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
	}
	if v := q.Get("min_price"); v != "" {
		min, err := strconv.ParseFloat(v, 64)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, httpx.CodeValidationError, "min_price must be a number")
			return
		}
		f.MinPrice = &min
	}
	if v := q.Get("max_price"); v != "" {
		max, err := strconv.ParseFloat(v, 64)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, httpx.CodeValidationError, "max_price must be a number")
			return
		}
		f.MaxPrice = &max
	}

	products, err := h.products.List(r.Context(), f)
	if err != nil {
		h.log.Error("list products failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeDatabaseError, "Failed to fetch products")
		return
	}
	if products == nil {
		products = []*models.Product{}
	}
	httpx.WriteData(w, http.StatusOK, products)
}

// ListServices handles GET /services-api.
func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.services.List(r.Context())
	if err != nil {
		h.log.Error("list services failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeDatabaseError, "Failed to fetch services")
		return
	}
	if services == nil {
		services = []*models.Service{}
	}
	httpx.WriteData(w, http.StatusOK, services)
}

// ListBanners handles GET /banners-api.
func (h *Handler) ListBanners(w http.ResponseWriter, r *http.Request) {
	banners, err := h.banners.List(r.Context())
	if err != nil {
		h.log.Error("list banners failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeDatabaseError, "Failed to fetch banners")
		return
	}
	if banners == nil {
		banners = []*models.Banner{}
	}
	httpx.WriteData(w, http.StatusOK, banners)
}

// ListTestimonials handles GET /testimonials-api. Newest first, capped.
func (h *Handler) ListTestimonials(w http.ResponseWriter, r *http.Request) {
	testimonials, err := h.testimonials.List(r.Context(), testimonialLimit)
	if err != nil {
		h.log.Error("list testimonials failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeDatabaseError, "Failed to fetch testimonials")
		return
	}
	if testimonials == nil {
		testimonials = []*models.Testimonial{}
	}
	httpx.WriteData(w, http.StatusOK, testimonials)
}
