package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/pourrice/pourrice/internal/api"
	"github.com/pourrice/pourrice/internal/assistant"
	"github.com/pourrice/pourrice/internal/auth"
	"github.com/pourrice/pourrice/internal/config"
	"github.com/pourrice/pourrice/internal/feed"
	"github.com/pourrice/pourrice/internal/nearby"
	"github.com/pourrice/pourrice/internal/ratelimit"
	"github.com/pourrice/pourrice/internal/restaurant"
	"github.com/pourrice/pourrice/internal/storage"
	"github.com/pourrice/pourrice/pkg/logger"
	"github.com/pourrice/pourrice/pkg/validator"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.NewLogger(cfg.Server.Env, cfg.Monitoring.LogLevel)
	if zl, ok := appLogger.(*logger.ZapLogger); ok {
		defer zl.Sync()
	}
	appLogger.Info("Starting PourRice nearby server...")

	redisClient, err := storage.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis", "address", cfg.RedisAddr())

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Lookup analytics are optional
	var (
		recorder nearby.Recorder = nearby.NopRecorder()
		stats    api.StatsReader
	)
	if cfg.AnalyticsEnabled() {
		pg, err := storage.NewPostgresClient(ctx, cfg.Postgres.DSN)
		if err != nil {
			appLogger.Error("Analytics disabled, failed to connect to Postgres", "error", err)
		} else {
			defer pg.Close()
			recorder = pg
			stats = pg
			appLogger.Info("Connected to Postgres")
		}
	}

	// Restaurant catalog
	source := restaurant.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout, cfg.Upstream.MaxRetries)
	catalog := restaurant.NewCatalog(source, redisClient, cfg.Catalog.CacheTTL, appLogger)
	if err := catalog.Refresh(ctx); err != nil {
		if cfg.Catalog.RequireWarmStart {
			log.Fatalf("Failed to load restaurant catalog: %v", err)
		}
		appLogger.Warn("Starting with an empty catalog", "error", err)
	}
	appLogger.Info("Catalog loaded", "restaurants", catalog.Len())

	val := validator.NewValidator()

	nearbyService := nearby.NewService(catalog, val, recorder, appLogger, cfg.Nearby.DefaultLimit, cfg.Nearby.MaxLimit)

	// Feed hub gets every refreshed snapshot
	hub := feed.NewHub(nearbyService, catalog.Snapshot(), cfg.Nearby.FeedCellPrecision, appLogger)
	refresher := restaurant.NewRefresher(catalog, cfg.Catalog.RefreshInterval, appLogger)
	refresher.OnRefresh(hub.Refresh)

	go hub.Run(ctx)
	go refresher.Start(ctx)

	if cfg.Assistant.APIKey == "" {
		appLogger.Warn("GEMINI_API_KEY not set, assistant requests will fail")
	}
	gemini := assistant.NewGeminiClient(cfg.Assistant.APIKey, cfg.Assistant.Model, cfg.Assistant.BaseURL, cfg.Assistant.Timeout)
	guard := assistant.NewGuard(redisClient, cfg.Assistant.DuplicateWindow, cfg.Assistant.MaxURLs, appLogger)
	assistantService := assistant.NewService(gemini, nearbyService, val, guard, appLogger)

	// Without a secret every caller is anonymous
	var verifier *auth.Verifier
	if cfg.Auth.JWTSecret != "" {
		verifier, err = auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
		if err != nil {
			log.Fatalf("Failed to create token verifier: %v", err)
		}
	} else {
		appLogger.Warn("JWT_SECRET not set, all callers are anonymous")
	}

	rateLimiter := ratelimit.NewLimiter(redisClient, cfg.RateLimit)

	apiHandler := api.NewHandler(catalog, nearbyService, assistantService, stats, rateLimiter)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	api.SetupRoutes(router, api.RouterDeps{
		Handler:        apiHandler,
		Feed:           feed.NewHandler(hub, cfg.Server.AllowedOrigins),
		Auth:           auth.NewMiddleware(verifier),
		RateLimit:      ratelimit.NewMiddleware(rateLimiter),
		Logger:         appLogger,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 75 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		appLogger.Info("Server starting", "address", srv.Addr, "env", cfg.Server.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	// Stop the hub and refresher
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", "error", err)
	}

	appLogger.Info("Server stopped")
}
