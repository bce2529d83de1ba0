package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/osanchezal/sgc-backend/internal/config"
	"github.com/osanchezal/sgc-backend/internal/transport/middleware"
)

// tokenValidator resolves bearer tokens for the auth middleware.
type tokenValidator interface {
	ValidateToken(ctx context.Context, token string) (uuid.UUID, string, error)
}

// NewRouter assembles the HTTP surface: health probes and login are open,
// the record API sits behind the auth middleware. The outer chain applies
// request IDs, logging, panic recovery, CORS, and rate limiting to
// everything.
func NewRouter(
	logger *slog.Logger,
	cfg config.Config,
	records *RecordsHandler,
	auth *AuthHandler,
	health *HealthHandler,
	validator tokenValidator,
	limiter *middleware.RateLimiter,
) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", health.Health)
	mux.HandleFunc("GET /live", health.Live)
	mux.HandleFunc("GET /ready", health.Ready)
	mux.HandleFunc("POST /api/auth/login", auth.Login)

	api := http.NewServeMux()
	api.HandleFunc("GET /api/entities", records.Entities)
	api.HandleFunc("GET /api/stats", records.Stats)
	api.HandleFunc("GET /api/{entity}", records.List)
	api.HandleFunc("POST /api/{entity}", records.Create)
	api.HandleFunc("GET /api/{entity}/{id}", records.Get)
	api.HandleFunc("PUT /api/{entity}/{id}", records.Update)
	api.HandleFunc("DELETE /api/{entity}/{id}", records.Delete)

	mux.Handle("/api/", middleware.Auth(validator, cfg.Auth.Required)(api))

	chain := middleware.Chain(
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORS),
		limiter.Limit(cfg.Server.RateLimitPerMin),
	)
	return chain(mux)
}
