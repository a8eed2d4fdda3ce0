package server

import (
	"errors"
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/snipurl/snipurl/internal/handler"
	"github.com/snipurl/snipurl/internal/metrics"
	"github.com/snipurl/snipurl/internal/middleware"
	"github.com/snipurl/snipurl/internal/service"
)

// RouterConfig carries everything NewRouter wires together.
type RouterConfig struct {
	Logger    *slog.Logger
	Auth      *service.AuthService
	Shortener *service.ShortenerService

	// StoreName labels the store in /readyz output.
	StoreName string
	Store     handler.HealthChecker
	// Metrics is served on /metrics when set.
	Metrics metrics.Snapshotter

	FrontendOrigins    []string
	IsDevelopment      bool
	MaxRequestBodySize int64
}

// NewRouter configures the chi router with all routes and middleware.
func NewRouter(cfg RouterConfig) *chi.Mux {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	h := handler.New()
	healthHandler := handler.NewHealthHandler(cfg.StoreName, cfg.Store)
	authHandler := handler.NewAuthHandler(cfg.Auth, logger)
	shortenerHandler := handler.NewShortenerHandler(cfg.Shortener, logger)
	redirectHandler := handler.NewRedirectHandler(cfg.Shortener, logger)

	maxBody := cfg.MaxRequestBodySize
	if maxBody <= 0 {
		maxBody = middleware.DefaultSecurityConfig().MaxRequestBodySize
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(middleware.SecurityConfig{
		IsDevelopment:      cfg.IsDevelopment,
		MaxRequestBodySize: maxBody,
	}))
	r.Use(middleware.CORS(middleware.FrontendCORSConfig(cfg.FrontendOrigins)))
	r.Use(middleware.MaxBodySize(maxBody))

	// Health endpoints (no auth required)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)

	if cfg.Metrics != nil {
		r.Get("/metrics", handler.NewMetricsHandler(cfg.Metrics).Metrics)
	}

	authCfg := middleware.AuthConfig{
		Logger:   logger,
		Resolver: cfg.Auth,
		IsUnauthorized: func(err error) bool {
			return errors.Is(err, service.ErrUnauthorized)
		},
	}

	r.Route("/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
		})

		r.Route("/shortener", func(r chi.Router) {
			r.Use(middleware.Auth(authCfg))

			r.Post("/", shortenerHandler.Create)
			r.Get("/my-urls", shortenerHandler.List)
			r.Patch("/{secret_key}/active", shortenerHandler.SetActive)
		})
	})

	// Public redirect (no auth required)
	r.Get("/{key}", redirectHandler.Redirect)

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}
