package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"go-checklist-api/internal/config"
	"go-checklist-api/internal/handler"
	"go-checklist-api/internal/middleware"
)

type Handlers struct {
	Auth          *handler.AuthHandler
	Checklist     *handler.ChecklistHandler
	ChecklistItem *handler.ChecklistItemHandler
	Docs          *handler.DocsHandler
	Events        *handler.EventsHandler
	Health        *handler.HealthHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.ClientIP(cfg.TrustedProxyPrefixes()))
	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.Prometheus)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders(cfg.SessionCookieSecure))
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", h.Health.Health)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/openapi.yaml", h.Docs.OpenAPI)
	r.Get("/swagger", h.Docs.SwaggerUI)

	admin := []func(http.Handler) http.Handler{authMiddleware.RequireAuth, authMiddleware.RequireAdmin}

	// Long-lived, so it stays outside the /api timeout.
	r.With(authMiddleware.RequireAuth).Get("/ws/events", h.Events.Stream)

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))
		api.Use(middleware.MaxBytes(cfg.MaxBodyBytes))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/register", h.Auth.Register)
			auth.Post("/login", h.Auth.Login)
			auth.Get("/user", h.Auth.User)
			auth.Post("/logout", h.Auth.Logout)
		})

		api.Route("/checklists", func(lists chi.Router) {
			lists.Get("/", h.Checklist.List)
			lists.Get("/{id}", h.Checklist.Get)
			lists.With(admin...).Post("/", h.Checklist.Create)
			lists.With(admin...).Delete("/{id}", h.Checklist.Delete)
		})

		api.Route("/checklist-items", func(items chi.Router) {
			items.Get("/", h.ChecklistItem.List)
			items.Get("/{id}", h.ChecklistItem.Get)
			items.With(admin...).Post("/", h.ChecklistItem.Create)
			items.With(admin...).Delete("/{id}", h.ChecklistItem.Delete)
			items.With(admin...).Put("/{id}/status", h.ChecklistItem.UpdateStatus)
			items.With(admin...).Put("/{id}/name", h.ChecklistItem.Rename)
		})
	})

	return r
}
