package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"ygodeck/internal/auth"
	"ygodeck/internal/card"
	"ygodeck/internal/config"
	"ygodeck/internal/deck"
	"ygodeck/internal/httpx"
	"ygodeck/internal/ingest"
	"ygodeck/internal/library"
	"ygodeck/internal/platform/logger"
	"ygodeck/internal/platform/postgres"
	"ygodeck/internal/platform/ygoprodeck"
	"ygodeck/internal/user"
)

const userAgent = "ygodeck/1.0 (+https://github.com/ygodeck)"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	config.LoadEnvFiles()
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.App.LogLevel, cfg.App.Env)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer dbPool.Close()
	log.Info("database connection OK", zap.String("dsn", postgres.RedactDSN(cfg.Database.DSN)))

	queryTimeout := cfg.QueryTimeout()

	cardRepo := card.NewPostgresRepo(dbPool, queryTimeout)
	cardCache := card.NewCache(cardRepo, cfg.CardCacheTTL(), log.Named("card_cache"))
	cardService := card.NewService(cardRepo, cardCache)

	userService := user.NewService(user.NewPostgresRepo(dbPool, queryTimeout), log.Named("user"))
	authService := auth.NewService(cfg.Auth.JWTSecret, cfg.TokenTTL(), userService)

	libraryService := library.NewService(library.NewPostgresRepo(dbPool, queryTimeout), cardCache, log.Named("library"))
	deckService := deck.NewService(deck.NewPostgresRepo(dbPool, queryTimeout), cardCache, libraryService, log.Named("deck"))

	source := ygoprodeck.NewClient(cfg.Catalog.SourceURL, userAgent, cfg.Catalog.SourceRPS, 3,
		ygoprodeck.WithHTTPClient(&http.Client{Timeout: cfg.FetchTimeout()}))
	ingestService := ingest.NewService(source, cardRepo, ingest.NewPostgresRepo(dbPool, queryTimeout), cardCache,
		ingest.Config{BatchSize: cfg.Catalog.BatchSize}, log.Named("ingest"))

	router := newRouter(handlers{
		cards:   card.NewHTTPHandler(cardService),
		decks:   deck.NewHTTPHandler(deckService),
		library: library.NewHTTPHandler(libraryService),
		users:   user.NewHTTPHandler(userService),
		auth:    auth.NewHTTPHandler(authService),
		ingest:  ingest.NewHTTPHandler(ingestService),
	}, routerConfig{
		jwtSecret:      cfg.Auth.JWTSecret,
		internalSecret: cfg.Auth.InternalSecret,
		ready:          dbPool.Ping,
	})

	rateLimiter := httpx.NewRateLimitMiddleware(ctx, cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst)
	handler := chain(router,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(log.Named("http")),
		httpx.RecoveryMiddleware(log),
		httpx.SecurityHeadersMiddleware(cfg.HTTP.EnableHSTS),
		httpx.CORSMiddleware(cfg.HTTP.AllowedOrigins),
		rateLimiter.Middleware,
		httpx.RequestSizeLimitMiddleware(cfg.HTTP.MaxBodyBytes),
	)

	httpServer := &http.Server{
		Addr:         cfg.App.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout(),
		WriteTimeout: cfg.WriteTimeout(),
		IdleTimeout:  60 * time.Second,
		ErrorLog:     zap.NewStdLog(log.Named("http_server")),
	}

	// Warm the catalog cache; a cold cache loads lazily on first use.
	if err := cardCache.Refresh(ctx); err != nil {
		log.Warn("card cache warmup failed", zap.Error(err))
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("addr", cfg.App.Addr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
