package routes

import (
	"net/http"
	"slices"
	"time"

	"mindnest/handlers"
	"mindnest/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// corsConfig allows credentials only for an explicit origin list. Without
// one, any origin may read the API but cookies are not shared with it.
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

// RegisterAPIRoutes registers the JSON endpoints used by the site's scripts.
func RegisterAPIRoutes(r *gin.Engine, hb *handlers.HandlerBundle, origins []string) {
	api := r.Group("/api")
	api.Use(cors.New(corsConfig(origins)))
	{
		// Preflight requests only need to reach the CORS middleware.
		api.OPTIONS("/*path", func(c *gin.Context) { c.Status(http.StatusNoContent) })

		api.POST("/payments/order", hb.Payment.CreateOrderHandler)

		api.GET("/psychologists", hb.Directory.SearchHandler)
		api.GET("/psychologists/:id", hb.Directory.GetHandler)

		api.GET("/policies", hb.Admin.PoliciesHandler)
		api.GET("/policies/:id", hb.Admin.PolicyHandler)

		api.POST("/auth/register", hb.Auth.RegisterHandler)
		api.POST("/auth/login", hb.Auth.LoginHandler)
		api.POST("/auth/logout", hb.Auth.LogoutHandler)

		// Protected routes (Require Authentication)
		protected := api.Group("")
		protected.Use(middleware.RequireSession())
		protected.GET("/auth/me", hb.Auth.MeHandler)
		protected.POST("/bookings/confirm", hb.Booking.ConfirmHandler)
	}
}

// RegisterDashboardRoutes registers endpoints under /dashboard. Access is
// enforced by the access guard.
func RegisterDashboardRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	dashboard := r.Group("/dashboard")
	{
		dashboard.GET("", hb.Booking.DashboardHandler)
		dashboard.GET("/psychologist/bookings", hb.Booking.PsychologistBookingsHandler)
	}
}

// RegisterAdminRoutes registers endpoints under /admin.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	admin := r.Group("/admin")
	{
		admin.GET("/api/stats", hb.Admin.StatsHandler)
		admin.GET("/api/bookings", hb.Booking.ListHandler)
		admin.POST("/api/bookings/:id/recover", hb.Booking.RecoverHandler)

		admin.GET("/super/profiles", hb.Admin.ProfilesHandler)
	}
}

// RegisterPageRoutes registers the server-rendered pages.
func RegisterPageRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.SetHTMLTemplate(handlers.LoadTemplates())

	r.GET("/", hb.Pages.Home)
	r.GET("/about", hb.Pages.About)
	r.GET("/login", hb.Pages.Login)
	r.GET("/policies", hb.Pages.Policies)
	r.GET("/policies/:id", hb.Pages.Policy)
	r.GET("/payment/failed", hb.Pages.PaymentFailed)
	r.GET("/psychologists", hb.Pages.Psychologists)
	r.NoRoute(hb.Pages.NotFound)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.Health.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, origins []string) {
	RegisterAPIRoutes(r, hb, origins)
	RegisterDashboardRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterPageRoutes(r, hb)
	RegisterHealthRoute(r, hb)
}
