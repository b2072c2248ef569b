package main

import (
	"context"
	"net/http"
	"time"

	"homeservices/internal/auth"
	"homeservices/internal/catalog"
	"homeservices/internal/config"
	"homeservices/internal/expert"
	"homeservices/internal/httpx"
	"homeservices/internal/ingest"
	"homeservices/internal/review"
	"homeservices/internal/session"
	"homeservices/internal/user"

	"go.uber.org/zap"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type handlers struct {
	catalog *catalog.HTTPHandler
	review  *review.HTTPHandler
	expert  *expert.HTTPHandler
	user    *user.HTTPHandler
	auth    *auth.HTTPHandler
	session *session.HTTPHandler
	ingest  *ingest.HTTPHandler
}

// newRouter registers every route and wraps the mux in the global middleware chain.
func newRouter(cfg config.Config, h handlers, blacklist httpx.BlacklistRepository, db pinger, rl *httpx.RateLimitMiddleware, logger *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	authed := httpx.AuthMiddleware(cfg.JWTSecret, blacklist)
	admin := func(fn http.HandlerFunc) http.Handler {
		return authed(httpx.RequireRole(httpx.RoleAdmin)(fn))
	}
	member := func(fn http.HandlerFunc) http.Handler {
		return authed(fn)
	}

	mux.HandleFunc("GET /v1/services", h.catalog.List)
	mux.HandleFunc("GET /v1/services/categories", h.catalog.Categories)
	mux.HandleFunc("GET /v1/services/{id}", h.catalog.GetByID)
	mux.Handle("POST /v1/services", admin(h.catalog.Create))
	mux.Handle("PUT /v1/services/{id}", admin(h.catalog.Update))
	mux.Handle("DELETE /v1/services/{id}", admin(h.catalog.Delete))

	mux.HandleFunc("GET /v1/reviews", h.review.List)
	mux.HandleFunc("GET /v1/reviews/summary", h.review.Summary)
	mux.Handle("POST /v1/reviews", member(h.review.Create))

	mux.HandleFunc("GET /v1/experts", h.expert.List)

	mux.HandleFunc("POST /v1/users/register", h.user.RegisterUser)
	mux.HandleFunc("POST /v1/users/login", h.auth.Login)
	mux.HandleFunc("POST /v1/auth/refresh", h.auth.RefreshToken)
	mux.Handle("POST /v1/auth/logout", member(h.auth.Logout))

	mux.Handle("GET /v1/me", member(h.user.GetCurrentUser))
	mux.Handle("GET /v1/me/sessions", member(h.session.ListSessions))
	mux.Handle("DELETE /v1/me/sessions/{id}", member(h.session.DeleteSession))

	mux.HandleFunc("POST /internal/jobs/sync", h.ingest.Sync)
	mux.HandleFunc("GET /internal/jobs/sync/latest", h.ingest.Latest)

	return httpx.Chain(mux,
		httpx.RecoveryMiddleware(logger),
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(logger),
		httpx.SecurityHeadersMiddleware(cfg.EnableHSTS),
		httpx.CORSMiddleware(cfg.CORSOrigins),
		httpx.RequestSizeLimitMiddleware(cfg.MaxBodyBytes),
		rl.Middleware,
	)
}
