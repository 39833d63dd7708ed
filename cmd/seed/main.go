package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/shipsphere/logistics-api/internal/core/service"
	"github.com/shipsphere/logistics-api/internal/infrastructure/config"
	"github.com/shipsphere/logistics-api/internal/infrastructure/db"
	"github.com/shipsphere/logistics-api/internal/infrastructure/security"
	"github.com/shipsphere/logistics-api/pkg/logger"
)

// Installs the bootstrap administrator and the sample cities. Safe to run
// repeatedly.
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.New(logger.Options{})
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "logistics-seed",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("seed failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	if cfg.StoreDriver == config.DriverMemory {
		log.Warn().Msg("seeding the in-memory store has no lasting effect")
	}

	store, err := db.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())

	hasher := security.NewBcryptHasher(cfg.Auth.BcryptCost)
	cities := service.NewCityService(store.Cities, log)
	seeder := service.NewSeeder(store.Users, cities, hasher, log)

	res, err := seeder.Seed(ctx, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword, service.SampleCities)
	if err != nil {
		return err
	}

	log.Info().
		Bool("admin_created", res.AdminCreated).
		Int("cities_created", res.CitiesCreated).
		Int("cities_skipped", res.CitiesSkipped).
		Str("admin_email", cfg.Seed.AdminEmail).
		Msg("seed completed")
	return nil
}
