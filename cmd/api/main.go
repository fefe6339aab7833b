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

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/zatekoja/goldenhour/internal/adapters/cache"
	"github.com/zatekoja/goldenhour/internal/adapters/database"
	"github.com/zatekoja/goldenhour/internal/adapters/events"
	"github.com/zatekoja/goldenhour/internal/adapters/providers/geolocation"
	"github.com/zatekoja/goldenhour/internal/adapters/providers/routing"
	"github.com/zatekoja/goldenhour/internal/api/handlers"
	"github.com/zatekoja/goldenhour/internal/api/routes"
	"github.com/zatekoja/goldenhour/internal/application/services"
	"github.com/zatekoja/goldenhour/internal/domain/providers"
	"github.com/zatekoja/goldenhour/internal/domain/repositories"
	"github.com/zatekoja/goldenhour/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/goldenhour/internal/infrastructure/clients/redis"
	"github.com/zatekoja/goldenhour/internal/infrastructure/notifications"
	"github.com/zatekoja/goldenhour/internal/infrastructure/observability"
	"github.com/zatekoja/goldenhour/pkg/config"
)

func main() {
	// A missing .env is fine; the environment may already be set
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.App.Environment)
	log.Info().
		Str("app", cfg.App.Name).
		Str("version", cfg.OTEL.ServiceVersion).
		Str("env", cfg.App.Environment).
		Msg("Starting dispatch API")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				if err := shutdown(shutdownCtx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized successfully")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	// Redis backs the geocode cache, the catalog cache and the dispatch event bus.
	// The API keeps working without it.
	var (
		cacheProvider providers.CacheProvider
		eventBus      providers.EventBus
	)
	redisClient, err := redis.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable; caching and dispatch events disabled")
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
		eventBus = events.NewRedisEventBus(redisClient)
		log.Info().Str("addr", cfg.Redis.RedisAddr()).Msg("Redis client initialized successfully")
	}

	catalog, closeCatalog := buildCatalog(ctx, cfg, cacheProvider, metrics)
	defer closeCatalog()

	routingProvider := buildRoutingProvider(cfg)
	geocoder := buildGeocoder(cfg, cacheProvider, metrics)
	notifier := buildNotifier(cfg)

	dispatchService := services.NewDispatchService(services.DispatchDeps{
		Triage:         services.NewTriageService(),
		Candidates:     services.NewCandidateService(routingProvider, cfg.Routing.LookupTimeout, metrics),
		Resolver:       services.NewRoutingService(routingProvider, cfg.Routing.LookupTimeout, metrics),
		Catalog:        catalog,
		Geocoder:       geocoder,
		Notifier:       notifier,
		Events:         eventBus,
		Metrics:        metrics,
		GeocodeTimeout: cfg.Geolocation.Timeout,
	})

	liveHandler := handlers.NewLiveHandler(dispatchService, cfg.Server.AllowedOrigins)
	router := routes.NewRouter(
		handlers.NewEmergencyHandler(dispatchService),
		handlers.NewHospitalHandler(dispatchService),
		liveHandler,
		handlers.NewFacilityHandler(catalog),
		handlers.NewGeolocationHandler(geocoder),
		cfg.Server.AllowedOrigins,
		metrics,
	)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	// Hijacked WebSocket sessions are not tracked by Shutdown; let their runs and alerts finish
	liveHandler.Wait()
	dispatchService.Wait()

	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing event bus")
		}
	}

	log.Info().Msg("Server stopped")
}

func buildCatalog(ctx context.Context, cfg *config.Config, cacheProvider providers.CacheProvider, metrics *observability.Metrics) (repositories.FacilityRepository, func()) {
	switch cfg.Catalog.Source {
	case "postgres":
		pgClient, err := postgres.NewClient(ctx, &cfg.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize PostgreSQL client")
		}
		closeFn := func() {
			if err := pgClient.Close(); err != nil {
				log.Error().Err(err).Msg("Error closing PostgreSQL client")
			}
		}

		var catalog repositories.FacilityRepository = database.NewFacilityAdapter(pgClient)
		if cacheProvider != nil && cfg.Catalog.CacheTTL > 0 {
			catalog = database.NewCachedFacilityAdapter(catalog, cacheProvider, cfg.Catalog.CacheTTL, metrics)
			log.Info().Dur("ttl", cfg.Catalog.CacheTTL).Msg("Facility catalog wrapped with caching layer")
		}
		log.Info().Msg("Facility catalog loaded from PostgreSQL")
		return catalog, closeFn
	case "memory", "":
		log.Info().Msg("Facility catalog served from memory")
		return database.NewMemoryFacilityAdapter(database.DefaultFacilities()), func() {}
	default:
		log.Fatal().Str("source", cfg.Catalog.Source).Msg("Unknown CATALOG_SOURCE")
		return nil, nil
	}
}

func buildRoutingProvider(cfg *config.Config) providers.RoutingProvider {
	switch cfg.Routing.Provider {
	case "haversine":
		log.Info().Float64("average_speed_kmh", cfg.Routing.AverageSpeedKmh).Msg("Using straight-line routing")
		return routing.NewHaversineRoutingProvider(cfg.Routing.AverageSpeedKmh)
	default:
		log.Info().Str("server", cfg.Routing.OSRMServer).Msg("Using OSRM routing")
		return routing.NewOSRMRoutingProvider(cfg.Routing.OSRMServer)
	}
}

func buildGeocoder(cfg *config.Config, cacheProvider providers.CacheProvider, metrics *observability.Metrics) providers.GeolocationProvider {
	if cfg.Geolocation.Provider == "google" {
		if cfg.Geolocation.APIKey != "" {
			return geolocation.NewGoogleGeolocationProvider(cfg.Geolocation.APIKey, cacheProvider, metrics)
		}
		log.Warn().Msg("GEOLOCATION_API_KEY is not set; using mock geolocation provider")
	}
	return geolocation.NewMockGeolocationProvider()
}

func buildNotifier(cfg *config.Config) providers.Notifier {
	email := notifications.NewSMTPSender(&cfg.SMTP)
	if cfg.SMTP.Host == "" {
		log.Warn().Msg("SMTP_SERVER is not set; alert emails will only be logged")
	}

	var whatsapp services.WhatsAppSender
	if cfg.WhatsApp.Enabled() {
		sender, err := notifications.NewWhatsAppCloudSender(&cfg.WhatsApp)
		if err != nil {
			log.Warn().Err(err).Msg("WhatsApp alerts disabled")
		} else {
			whatsapp = sender
		}
	}

	return services.NewNotificationService(email, whatsapp, cfg.SMTP.DispatchDesk)
}
