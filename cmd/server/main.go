// Package main is the entry point for the davrcash API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"davrcash/internal/domain/auth"
	"davrcash/internal/domain/cashreport"
	"davrcash/internal/domain/catalogs/organization"
	"davrcash/internal/domain/catalogs/status"
	"davrcash/internal/domain/catalogs/terminal"
	"davrcash/internal/infrastructure/cache"
	v1 "davrcash/internal/infrastructure/http/v1"
	"davrcash/internal/infrastructure/http/v1/handlers"
	"davrcash/internal/infrastructure/lock"
	"davrcash/internal/infrastructure/providers/arryt"
	"davrcash/internal/infrastructure/providers/click"
	"davrcash/internal/infrastructure/providers/express"
	"davrcash/internal/infrastructure/providers/iiko"
	"davrcash/internal/infrastructure/providers/payme"
	"davrcash/internal/infrastructure/storage/postgres"
	"davrcash/internal/infrastructure/storage/postgres/auth_repo"
	"davrcash/internal/infrastructure/storage/postgres/catalog_repo"
	"davrcash/internal/infrastructure/storage/postgres/report_repo"
	"davrcash/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting davrcash server")

	// --- Business-day time zone ---
	loc, err := time.LoadLocation(getEnv("TIMEZONE", "Asia/Tashkent"))
	if err != nil {
		log.Fatalw("invalid timezone", "error", err)
	}

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(mustEnv("DATABASE_URL"))
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Redis ---
	rdb := redis.NewClient(&redis.Options{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	})
	defer func() { _ = rdb.Close() }()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalw("failed to ping redis", "error", err)
	}
	log.Info("redis connection established")

	// --- Repositories ---
	orgRepo := catalog_repo.NewOrganizationRepo(txManager)
	termRepo := catalog_repo.NewTerminalRepo(txManager)
	statusRepo := catalog_repo.NewStatusRepo(txManager)
	userRepo := auth_repo.NewUserRepo(txManager)
	reportRepo := report_repo.NewReportRepo(txManager)

	// --- Reference cache (read-through, invalidated by catalog services) ---
	refCache := cache.NewReferenceCache(rdb, termRepo, orgRepo, statusRepo)

	// --- Catalog services ---
	orgService := organization.NewService(orgRepo, refCache)
	termService := terminal.NewService(termRepo, refCache)
	statusService := status.NewService(statusRepo, refCache)

	// --- Auth ---
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(mustEnv("JWT_SECRET")))
	authService := auth.NewService(userRepo, jwtService)

	// --- Channel providers ---
	providerTimeout := getEnvDuration("PROVIDER_TIMEOUT", 30*time.Second)
	channelProviders := cashreport.Providers{
		Click: click.NewClient(click.Config{
			BaseURL:    getEnv("CLICK_API_URL", "https://api.click.uz"),
			AuthHeader: getEnv("CLICK_AUTH_HEADER", ""),
			Timeout:    providerTimeout,
		}),
		Payme: payme.NewClient(payme.Config{
			BaseURL: getEnv("PAYME_API_URL", "https://merchant.payme.uz"),
			Timeout: providerTimeout,
		}),
		Iiko: iiko.NewClient(iiko.Config{
			BaseURL: mustEnv("IIKO_API_URL"),
			APIKey:  mustEnv("IIKO_API_KEY"),
			Timeout: providerTimeout,
		}),
		Express: express.NewClient(express.Config{
			BaseURL: mustEnv("EXPRESS_API_URL"),
			Token:   getEnv("EXPRESS_API_TOKEN", ""),
			Timeout: providerTimeout,
		}),
		Arryt: arryt.NewClient(arryt.Config{
			BaseURL: mustEnv("ARRYT_API_URL"),
			Timeout: providerTimeout,
		}),
	}

	// --- Reconciliation engine ---
	reportService := cashreport.NewService(
		reportRepo,
		refCache,
		refCache,
		refCache,
		channelProviders,
		txManager,
		lock.NewRedisLocker(rdb),
		loc,
	)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Logger:       log,
		JWTValidator: jwtService,
		CORSOrigins:  splitEnvList("CORS_ORIGINS"),
		Auth:         handlers.NewAuthHandler(authService),
		Health:       handlers.NewHealthHandler(pool, refCache),
		Reports:      handlers.NewReportsHandler(reportService),
		Catalog:      handlers.NewCatalogHandler(orgService, termService, statusService),
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
