package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/zatekoja/goldenhour/internal/adapters/cache"
	"github.com/zatekoja/goldenhour/internal/adapters/database"
	"github.com/zatekoja/goldenhour/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/goldenhour/internal/infrastructure/clients/redis"
	"github.com/zatekoja/goldenhour/internal/infrastructure/observability"
	"github.com/zatekoja/goldenhour/pkg/config"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	observability.InitLogger(cfg.OTEL.ServiceName+"-seed", cfg.App.Environment)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pgClient, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to DB")
	}
	defer pgClient.Close()

	if _, err := pgClient.DB().ExecContext(ctx, database.FacilitiesSchema); err != nil {
		log.Fatal().Err(err).Msg("Failed to create facilities schema")
	}

	if os.Getenv("RESET_DB") == "true" {
		log.Info().Msg("RESET_DB=true detected, truncating facilities before seeding")
		if _, err := pgClient.DB().ExecContext(ctx, `TRUNCATE TABLE facilities`); err != nil {
			log.Fatal().Err(err).Msg("Failed to truncate facilities")
		}
	}

	facilityRepo := database.NewFacilityAdapter(pgClient)
	facilities := database.DefaultFacilities()
	ids := make([]string, 0, len(facilities))
	for i, facility := range facilities {
		if err := facilityRepo.Upsert(ctx, facility, i+1); err != nil {
			log.Fatal().Err(err).Str("facility_id", facility.ID).Msg("Failed to seed facility")
		}
		ids = append(ids, facility.ID)
		log.Info().Str("facility_id", facility.ID).Str("name", facility.Name).Msg("Seeded facility")
	}

	// Drop any cached catalog so the API picks up the new rows immediately
	redisClient, err := redis.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable; cached catalog expires on its own")
	} else {
		defer redisClient.Close()
		cached := database.NewCachedFacilityAdapter(facilityRepo, cache.NewRedisAdapter(redisClient), cfg.Catalog.CacheTTL, nil)
		if err := cached.Invalidate(ctx, ids...); err != nil {
			log.Warn().Err(err).Msg("Failed to invalidate cached catalog")
		}
	}

	log.Info().Int("count", len(facilities)).Msg("Seeding complete")
}
