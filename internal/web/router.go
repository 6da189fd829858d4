package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/jusunglee/fidelbot/internal/health"
	"github.com/jusunglee/fidelbot/internal/web/handlers"
	"github.com/jusunglee/fidelbot/internal/web/middleware"
)

const (
	rateLimitRequests = 30
	rateLimitWindow   = time.Minute
	maxBodyBytes      = 128 << 10
)

type Config struct {
	AllowedOrigins []string
}

type Router struct {
	service handlers.Service
	log     *slog.Logger
	config  Config
	limiter *middleware.IPRateLimiter
}

func NewRouter(service handlers.Service, log *slog.Logger, config Config) *Router {
	return &Router{
		service: service,
		log:     log,
		config:  config,
		limiter: middleware.NewRateLimiter(rateLimitRequests, rateLimitWindow),
	}
}

// Limiter is exposed so the caller can run its cleanup loop.
func (r *Router) Limiter() *middleware.IPRateLimiter {
	return r.limiter
}

func (r *Router) Handler() http.Handler {
	mux := http.NewServeMux()

	transliterationHandler := handlers.NewTransliterationHandler(r.service, r.log)

	mux.Handle("POST /api/v1/transliterations",
		middleware.Chain(
			http.HandlerFunc(transliterationHandler.Create),
			middleware.PrometheusMetrics(),
			middleware.RequestLogger(r.log),
			middleware.RateLimit(r.limiter),
			middleware.MaxBytes(maxBodyBytes),
		),
	)

	mux.Handle("GET /api/v1/transliterations/{id}",
		middleware.Chain(
			http.HandlerFunc(transliterationHandler.Get),
			middleware.PrometheusMetrics(),
			middleware.RequestLogger(r.log),
		),
	)

	mux.HandleFunc("GET /health", health.Handle)

	return middleware.CORS(r.config.AllowedOrigins)(mux)
}
