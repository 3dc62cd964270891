package api

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/gatherhub/server/internal/api/handlers"
	"github.com/gatherhub/server/internal/api/middleware"
	"github.com/gatherhub/server/internal/auth"
	"github.com/gatherhub/server/internal/config"
	"github.com/gatherhub/server/internal/domain/categories"
	"github.com/gatherhub/server/internal/domain/compilations"
	"github.com/gatherhub/server/internal/domain/events"
	"github.com/gatherhub/server/internal/domain/requests"
	"github.com/gatherhub/server/internal/domain/users"
	"github.com/gatherhub/server/internal/metrics"
)

// Deps bundles the wired services the router exposes over HTTP.
type Deps struct {
	Events       *events.Service
	Requests     *requests.Service
	Categories   *categories.Service
	Users        *users.Service
	Compilations *compilations.Service
	AdminLogin   *auth.AdminLogin
	Tokens       *auth.JWTManager
	Pool         *pgxpool.Pool
	Version      string
}

// NewRouter assembles the HTTP surface: public catalogue, per-user event
// and request endpoints, and the JWT-protected admin API.
func NewRouter(cfg config.Config, deps Deps, logger zerolog.Logger) http.Handler {
	env := cfg.Environment

	eventsHandler := handlers.NewEventsHandler(deps.Events, env)
	ownerHandler := handlers.NewOwnerEventsHandler(deps.Events, deps.Requests, env)
	requestsHandler := handlers.NewRequestsHandler(deps.Requests, env)
	categoriesHandler := handlers.NewCategoriesHandler(deps.Categories, env)
	compilationsHandler := handlers.NewCompilationsHandler(deps.Compilations, env)
	adminEvents := handlers.NewAdminEventsHandler(deps.Events, env)
	adminCategories := handlers.NewAdminCategoriesHandler(deps.Categories, env)
	adminUsers := handlers.NewAdminUsersHandler(deps.Users, env)
	adminCompilations := handlers.NewAdminCompilationsHandler(deps.Compilations, env)
	adminAuth := handlers.NewAdminAuthHandler(deps.AdminLogin, env)
	health := handlers.NewHealthChecker(deps.Pool, deps.Version)

	adminOnly := middleware.AdminAuth(deps.Tokens, env)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", health.Health)
	mux.HandleFunc("GET /readyz", health.Ready)
	mux.Handle("GET /metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// Public catalogue.
	mux.HandleFunc("GET /events", eventsHandler.List)
	mux.HandleFunc("GET /events/{eventId}", eventsHandler.Get)
	mux.HandleFunc("GET /categories", categoriesHandler.List)
	mux.HandleFunc("GET /categories/{catId}", categoriesHandler.Get)
	mux.HandleFunc("GET /compilations", compilationsHandler.List)
	mux.HandleFunc("GET /compilations/{compId}", compilationsHandler.Get)

	// Per-user event management.
	mux.HandleFunc("POST /users/{userId}/events", ownerHandler.Create)
	mux.HandleFunc("GET /users/{userId}/events", ownerHandler.List)
	mux.HandleFunc("GET /users/{userId}/events/{eventId}", ownerHandler.Get)
	mux.HandleFunc("PATCH /users/{userId}/events/{eventId}", ownerHandler.Update)
	mux.HandleFunc("GET /users/{userId}/events/{eventId}/requests", ownerHandler.ListRequests)
	mux.HandleFunc("PATCH /users/{userId}/events/{eventId}/requests", ownerHandler.ModerateRequests)

	// Per-user participation requests.
	mux.HandleFunc("POST /users/{userId}/requests", requestsHandler.Create)
	mux.HandleFunc("GET /users/{userId}/requests", requestsHandler.List)
	mux.HandleFunc("PATCH /users/{userId}/requests/{requestId}/cancel", requestsHandler.Cancel)

	// Admin API.
	mux.HandleFunc("POST /admin/auth/login", adminAuth.Authenticate)
	mux.Handle("GET /admin/events", adminOnly(http.HandlerFunc(adminEvents.List)))
	mux.Handle("PATCH /admin/events/{eventId}", adminOnly(http.HandlerFunc(adminEvents.Update)))
	mux.Handle("POST /admin/categories", adminOnly(http.HandlerFunc(adminCategories.Create)))
	mux.Handle("PATCH /admin/categories/{catId}", adminOnly(http.HandlerFunc(adminCategories.Update)))
	mux.Handle("DELETE /admin/categories/{catId}", adminOnly(http.HandlerFunc(adminCategories.Delete)))
	mux.Handle("POST /admin/users", adminOnly(http.HandlerFunc(adminUsers.Create)))
	mux.Handle("GET /admin/users", adminOnly(http.HandlerFunc(adminUsers.List)))
	mux.Handle("DELETE /admin/users/{userId}", adminOnly(http.HandlerFunc(adminUsers.Delete)))
	mux.Handle("POST /admin/compilations", adminOnly(http.HandlerFunc(adminCompilations.Create)))
	mux.Handle("PATCH /admin/compilations/{compId}", adminOnly(http.HandlerFunc(adminCompilations.Update)))
	mux.Handle("DELETE /admin/compilations/{compId}", adminOnly(http.HandlerFunc(adminCompilations.Delete)))

	var handler http.Handler = mux
	handler = middleware.RateLimit(cfg.RateLimit, env)(handler)
	handler = middleware.RequestLogging(logger)(handler)
	handler = middleware.Tracing(handler)
	handler = middleware.CorrelationID(logger)(handler)
	return handler
}
