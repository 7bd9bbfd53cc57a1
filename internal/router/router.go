package router

import (
	"net/http"

	"github.com/drkleen/backend/internal/admin"
	"github.com/drkleen/backend/internal/auth"
	"github.com/drkleen/backend/internal/bookings"
	"github.com/drkleen/backend/internal/catalog"
	"github.com/drkleen/backend/internal/dashboard"
	"github.com/drkleen/backend/internal/inquiries"
	"github.com/drkleen/backend/internal/mailer"
)

// Handlers carries every HTTP handler the router mounts.
type Handlers struct {
	Auth      *auth.Handler
	Admin     *admin.Handler
	Dashboard *dashboard.Handler
	Catalog   *catalog.Handler
	Bookings  *bookings.Handler
	Inquiries *inquiries.Handler
	Emails    *mailer.Handler
}

// Middleware is a standard net/http middleware.
type Middleware func(http.Handler) http.Handler

// New mounts all routes. guard wraps admin-only routes with bearer-token
// authentication; authLimit rate-limits the credential endpoints.
func New(h Handlers, guard, authLimit Middleware) http.Handler {
	mux := http.NewServeMux()

	// Credential endpoints, rate limited per IP.
	mux.Handle("POST /admin-auth/login", authLimit(http.HandlerFunc(h.Auth.Login)))
	mux.Handle("POST /admin-auth/setup", authLimit(http.HandlerFunc(h.Auth.Setup)))
	mux.Handle("POST /admin-register/register", authLimit(http.HandlerFunc(h.Auth.Register)))
	mux.Handle("POST /admin-register/resend-verification", authLimit(http.HandlerFunc(h.Auth.ResendVerification)))

	mux.HandleFunc("POST /admin-auth/verify", h.Auth.Verify)
	mux.HandleFunc("POST /admin-register/verify-email", h.Auth.VerifyEmail)
	mux.HandleFunc("GET /admin-register/verify-email", h.Auth.VerifyEmail)

	// Public website reads and form submits.
	mux.HandleFunc("GET /products-api", h.Catalog.ListProducts)
	mux.HandleFunc("GET /services-api", h.Catalog.ListServices)
	mux.HandleFunc("GET /banners-api", h.Catalog.ListBanners)
	mux.HandleFunc("GET /testimonials-api", h.Catalog.ListTestimonials)
	mux.HandleFunc("POST /bookings-api", h.Bookings.Create)
	mux.HandleFunc("POST /admin-inquiries", h.Inquiries.Create)

	// Staged-email viewer (no transport; messages are read back on demand).
	mux.HandleFunc("GET /email-display", h.Emails.Display)
	mux.HandleFunc("POST /email-display", h.Emails.Display)

	// Admin back office, behind the bearer-token guard.
	protected := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, guard(fn))
	}
	protected("GET /bookings-api", h.Bookings.List)
	protected("GET /admin-inquiries", h.Inquiries.List)
	protected("GET /admin-inquiries/stats", h.Inquiries.Stats)
	protected("PUT /admin-inquiries/{id}", h.Inquiries.Update)

	protected("GET /admin-management/admin-users", h.Admin.ListAdminUsers)
	protected("DELETE /admin-management/admin-users/{id}", h.Admin.DeleteAdminUser)
	protected("GET /admin-management/admin-stats", h.Admin.AdminStats)
	protected("GET /admin-management/settings", h.Admin.ListSettings)
	protected("PUT /admin-management/settings/{key}", h.Admin.UpdateSetting)
	protected("POST /admin-management/products", h.Admin.CreateProduct)
	protected("POST /admin-management/services", h.Admin.CreateService)

	protected("GET /admin-data/dashboard-overview", h.Dashboard.GetOverview)
	protected("GET /admin-data/{entity}", h.Dashboard.ListEntities)
	protected("PUT /admin-data/{entity}/{id}", h.Dashboard.UpdateEntity)
	protected("DELETE /admin-data/{entity}/{id}", h.Dashboard.DeleteEntity)

	return mux
}
