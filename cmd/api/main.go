package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"homeservices/internal/auth"
	"homeservices/internal/catalog"
	"homeservices/internal/config"
	"homeservices/internal/expert"
	"homeservices/internal/httpx"
	"homeservices/internal/ingest"
	"homeservices/internal/platform/logger"
	"homeservices/internal/platform/upstream"
	"homeservices/internal/pricing"
	"homeservices/internal/review"
	"homeservices/internal/session"
	"homeservices/internal/user"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const sessionCleanupInterval = time.Hour

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := openDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer dbPool.Close()
	log.Info("database connection OK", zap.String("dsn", redactDSN(cfg.DatabaseDSN)))

	engine, err := pricing.NewEngine(cfg.Pricing)
	if err != nil {
		return err
	}

	catalogService := catalog.NewService(catalog.NewPostgresRepo(dbPool, cfg.DBTimeout), engine)
	userService := user.NewService(user.NewPostgresRepo(dbPool, cfg.DBTimeout))
	reviewService := review.NewService(review.NewPostgresRepo(dbPool, cfg.DBTimeout), userService)
	expertService := expert.NewService(expert.NewPostgresRepo(dbPool, cfg.DBTimeout))
	sessionService := session.NewService(
		session.NewPostgresRepo(dbPool, cfg.DBTimeout),
		session.NewBlacklistPostgresRepo(dbPool, cfg.DBTimeout),
	)
	authService := auth.NewService(cfg.JWTSecret, userService, sessionService)

	upstreamClient := upstream.NewClient(cfg.UpstreamBaseURL, cfg.UpstreamRPS, cfg.UpstreamRetries, cfg.UpstreamTimeout)
	ingestService := ingest.NewService(upstreamClient, catalogService,
		ingest.NewPostgresRepo(dbPool, cfg.DBTimeout), cfg.UpstreamBaseURL, log.Named("ingest"))

	rl := httpx.NewRateLimitMiddleware(cfg.RateLimitRPS, cfg.RateBurst)
	defer rl.Close()

	router := newRouter(cfg, handlers{
		catalog: catalog.NewHTTPHandler(catalogService),
		review:  review.NewHTTPHandler(reviewService),
		expert:  expert.NewHTTPHandler(expertService),
		user:    user.NewHTTPHandler(userService),
		auth:    auth.NewHTTPHandler(authService),
		session: session.NewHTTPHandler(sessionService),
		ingest:  ingest.NewHTTPHandler(ingestService, cfg.InternalSecret),
	}, sessionService, dbPool, rl, log.Named("http"))

	go cleanupSessions(ctx, sessionService, log.Named("session"))

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("addr", cfg.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}

func cleanupSessions(ctx context.Context, sessions *session.Service, log *zap.Logger) {
	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, tokens, err := sessions.Cleanup(ctx)
			if err != nil {
				log.Warn("cleanup expired sessions", zap.Error(err))
				continue
			}
			log.Debug("expired sessions removed", zap.Int64("sessions", n), zap.Int64("tokens", tokens))
		}
	}
}

func openDB(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot create db pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("cannot ping database (%s): %w", redactDSN(dsn), err)
	}
	return pool, nil
}

func redactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
