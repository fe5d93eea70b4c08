package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/cashforecast/internal/adapter/http"
	"github.com/iho/cashforecast/internal/adapter/http/handler"
	"github.com/iho/cashforecast/internal/adapter/pricefeed"
	postgresRepo "github.com/iho/cashforecast/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/cashforecast/internal/adapter/repository/redis"
	"github.com/iho/cashforecast/internal/infrastructure/config"
	"github.com/iho/cashforecast/internal/infrastructure/logger"
	"github.com/iho/cashforecast/internal/infrastructure/postgres"
	"github.com/iho/cashforecast/internal/infrastructure/redis"
	"github.com/iho/cashforecast/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	log.Logger = appLogger

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, "migrations"); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Initialize repositories and the price source
	sheetRepo := postgresRepo.NewSheetRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	priceCache := redisRepo.NewCache(redisClient)
	quoteClient := pricefeed.NewClient(cfg.QuoteBaseURL, cfg.QuoteTimeout, appLogger)
	priceSource := pricefeed.NewCachedSource(quoteClient, priceCache, cfg.PriceCacheTTL, appLogger)

	// Initialize use cases
	sheetUC := usecase.NewSheetUseCase(sheetRepo, idGen)
	forecastUC := usecase.NewForecastUseCase(priceSource, appLogger)

	// Initialize handlers
	sheetHandler := handler.NewSheetHandler(sheetUC)
	forecastHandler := handler.NewForecastHandler(forecastUC, sheetUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		SheetHandler:    sheetHandler,
		ForecastHandler: forecastHandler,
		HealthHandler:   healthHandler,
		Logger:          appLogger,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
