package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/ravitejamarri/zypool/internal/middleware"
)

// RouterConfig carries the cross-cutting settings NewRouter applies.
type RouterConfig struct {
	Logger       *slog.Logger
	CORSOrigins  []string
	MaxBodyBytes int64

	// Limiter throttles mutating endpoints per user. Nil disables it.
	Limiter *middleware.RateLimiter

	// Metrics is mounted at /metrics when non-nil.
	Metrics http.Handler
}

// NewRouter mounts every endpoint of s on a chi router.
//
// Middleware is applied in order: RequestID → RealIP → SlogLogger →
// Recoverer → CORS → MaxBodySize. Authenticated routes additionally run
// RequireSession, and mutating ones the rate limiter.
func NewRouter(s *Server, cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	if cfg.MaxBodyBytes > 0 {
		r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}
	r.Post("/sessions", s.CreateSession)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(s.sessions))

		r.Get("/session", s.GetSession)
		r.Put("/session/city", s.SelectCity)
		r.Delete("/session", s.DeleteSession)

		r.Get("/trips", s.ListTrips)
		r.Get("/trips/{tripId}", s.GetTrip)
		r.Get("/notifications", s.ListNotifications)
		r.Post("/notifications/{notificationId}/read", s.MarkNotificationRead)

		r.Group(func(r chi.Router) {
			if cfg.Limiter != nil {
				r.Use(cfg.Limiter.Middleware())
			}
			r.Post("/trips", s.CreateTrip)
			r.Post("/trips/{tripId}/join-requests", s.RequestToJoin)
			r.Post("/trips/{tripId}/ride-offers", s.OfferRide)
			r.Post("/notifications/{notificationId}/resolution", s.ResolveNotification)
		})
	})

	return r
}
