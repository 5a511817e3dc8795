package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	appauth "github.com/bryanwahyu/safe-space/internal/application/auth"
	appcommunity "github.com/bryanwahyu/safe-space/internal/application/community"
	appdashboard "github.com/bryanwahyu/safe-space/internal/application/dashboard"
	appresources "github.com/bryanwahyu/safe-space/internal/application/resources"
	appscans "github.com/bryanwahyu/safe-space/internal/application/scans"
	scandomain "github.com/bryanwahyu/safe-space/internal/domain/scans"
	"github.com/bryanwahyu/safe-space/internal/domain/users"
	"github.com/bryanwahyu/safe-space/internal/logging"
	"github.com/bryanwahyu/safe-space/internal/middleware"
)

// Limiters per route group. A nil limiter disables limiting for that group.
type Limiters struct {
	API  *middleware.RateLimiter
	Auth *middleware.RateLimiter
	Scan *middleware.RateLimiter
}

// Deps wires the router. Metrics and Health are optional.
type Deps struct {
	Auth      *appauth.Service
	Scans     *appscans.Service
	Community *appcommunity.Service
	Resources *appresources.Service
	Dashboard *appdashboard.Service

	Log         logging.Logger
	Metrics     *middleware.Metrics
	Limits      Limiters
	CORSOrigins []string
	Health      map[string]middleware.HealthChecker
	Started     time.Time
}

type Router struct {
	auth      *appauth.Service
	scans     *appscans.Service
	community *appcommunity.Service
	resources *appresources.Service
	dashboard *appdashboard.Service
	metrics   *middleware.Metrics
	log       logging.Logger
}

func NewRouter(d Deps) http.Handler {
	r := &Router{
		auth:      d.Auth,
		scans:     d.Scans,
		community: d.Community,
		resources: d.Resources,
		dashboard: d.Dashboard,
		metrics:   d.Metrics,
		log:       d.Log,
	}
	if r.log == nil {
		r.log = logging.Nop()
	}
	started := d.Started
	if started.IsZero() {
		started = time.Now()
	}

	mux := chi.NewRouter()
	mux.Use(chimw.RequestID, chimw.RealIP, chimw.Recoverer)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if d.Metrics != nil {
		mux.Use(d.Metrics.Middleware)
	}
	mux.Use(middleware.Logging(r.log))

	mux.Get("/health", middleware.HealthHandler(started, d.Health))
	mux.Get("/ready", middleware.ReadinessHandler(d.Health))
	mux.Get("/live", middleware.LivenessHandler)
	if d.Metrics != nil {
		mux.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}

	requireAuth := middleware.RequireAuth(d.Auth)
	optionalAuth := middleware.OptionalAuth(d.Auth)
	requireAdmin := middleware.RequireRole(users.RoleAdmin)

	mux.Route("/api/v1", func(api chi.Router) {
		api.Use(limit(d.Limits.API))

		api.Route("/auth", func(rt chi.Router) {
			rt.With(limit(d.Limits.Auth)).Post("/register", r.wrap(r.handleRegister))
			rt.With(limit(d.Limits.Auth)).Post("/login", r.wrap(r.handleLogin))
			rt.With(requireAuth).Get("/me", r.wrap(r.handleMe))
		})

		api.Group(func(rt chi.Router) {
			rt.Use(requireAuth)

			rt.Route("/urls", func(rt chi.Router) {
				rt.With(limit(d.Limits.Scan)).Post("/scan", r.wrap(r.handleScanURL))
				rt.Get("/history", r.wrap(r.handleHistory(scandomain.KindURL)))
				rt.Get("/{id}", r.wrap(r.handleGetScan))
				rt.Post("/{id}/explain", r.wrap(r.handleExplain))
			})
			rt.Route("/messages", func(rt chi.Router) {
				rt.With(limit(d.Limits.Scan)).Post("/scan", r.wrap(r.handleScanMessage))
				rt.Get("/history", r.wrap(r.handleHistory(scandomain.KindMessage)))
			})
			rt.Post("/scans/export", r.wrap(r.handleExport))
			rt.Get("/dashboard", r.wrap(r.handleDashboard))
		})

		api.Route("/community", func(rt chi.Router) {
			rt.With(optionalAuth).Get("/posts", r.wrap(r.handleListPosts))
			rt.With(optionalAuth).Get("/posts/user/{userId}", r.wrap(r.handleUserPosts))
			rt.With(optionalAuth).Get("/posts/{id}", r.wrap(r.handleGetPost))
			rt.Get("/categories", r.wrap(r.handleCategories))

			rt.Group(func(rt chi.Router) {
				rt.Use(requireAuth)
				rt.Post("/posts", r.wrap(r.handleCreatePost))
				rt.Put("/posts/{id}", r.wrap(r.handleUpdatePost))
				rt.Delete("/posts/{id}", r.wrap(r.handleDeletePost))
				rt.Post("/posts/{id}/like", r.wrap(r.handleLikePost))
			})
		})

		api.Route("/resources", func(rt chi.Router) {
			rt.Get("/", r.wrap(r.handleListResources))
			rt.Get("/{id}", r.wrap(r.handleGetResource))

			rt.Group(func(rt chi.Router) {
				rt.Use(requireAuth, requireAdmin)
				rt.Post("/", r.wrap(r.handleCreateResource))
				rt.Put("/{id}", r.wrap(r.handleUpdateResource))
				rt.Delete("/{id}", r.wrap(r.handleDeleteResource))
			})
		})
	})

	mux.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "route not found")
	})
	return mux
}

func limit(rl *middleware.RateLimiter) func(http.Handler) http.Handler {
	if rl == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return rl.Middleware
}
