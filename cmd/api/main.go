package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/estatebook/estatebook/backend/internal/adapters/cache"
	"github.com/estatebook/estatebook/backend/internal/adapters/database"
	"github.com/estatebook/estatebook/backend/internal/api/handlers"
	"github.com/estatebook/estatebook/backend/internal/api/routes"
	"github.com/estatebook/estatebook/backend/internal/application/services"
	"github.com/estatebook/estatebook/backend/internal/domain/providers"
	"github.com/estatebook/estatebook/backend/internal/domain/repositories"
	"github.com/estatebook/estatebook/backend/internal/infrastructure/clients/postgres"
	"github.com/estatebook/estatebook/backend/internal/infrastructure/clients/redis"
	"github.com/estatebook/estatebook/backend/internal/infrastructure/observability"
	"github.com/estatebook/estatebook/backend/pkg/config"
)

func main() {
	// Load .env if present; real environments set variables directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()
	log.Info().Msg("PostgreSQL client initialized")

	// Initialize Redis client; the application works without caching
	var cacheProvider providers.CacheProvider
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize Redis client, running without cache")
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
		log.Info().Msg("Redis client initialized")
	}

	// Initialize adapters
	var propertyRepo repositories.PropertyRepository = database.NewPropertyAdapter(pgClient)
	if cacheProvider != nil {
		propertyRepo = database.NewCachedPropertyAdapter(propertyRepo, cacheProvider, metrics)
		log.Info().Msg("property adapter wrapped with caching layer")
	}

	neighbourhoodRepo := database.NewNeighbourhoodAdapter(pgClient)
	bookingRepo := database.NewBookingAdapter(pgClient)
	rewardsRepo := database.NewRewardsAdapter(pgClient)
	paymentRepo := database.NewPaymentAdapter(pgClient)
	userRepo := database.NewUserAdapter(pgClient)

	// Initialize services
	catalogService := services.NewCatalogService(
		pgClient,
		propertyRepo,
		neighbourhoodRepo,
		bookingRepo,
		userRepo,
		cfg.Booking,
	)
	bookingService := services.NewBookingService(
		pgClient,
		bookingRepo,
		propertyRepo,
		rewardsRepo,
		paymentRepo,
		userRepo,
		cfg.Booking,
		metrics,
	)
	accountService := services.NewAccountService(pgClient, userRepo)

	// Initialize handlers
	listingHandler := handlers.NewListingHandler(catalogService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	accountHandler := handlers.NewAccountHandler(accountService)

	router := routes.NewRouter(listingHandler, bookingHandler, accountHandler, metrics)
	handler := router.SetupRoutes()

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	log.Info().Msg("server stopped")
}
