package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/shipsphere/logistics-api/internal/api"
	"github.com/shipsphere/logistics-api/internal/api/middleware"
	"github.com/shipsphere/logistics-api/internal/core/service"
	"github.com/shipsphere/logistics-api/internal/infrastructure/config"
	"github.com/shipsphere/logistics-api/internal/infrastructure/db"
	redisdb "github.com/shipsphere/logistics-api/internal/infrastructure/db/redis"
	"github.com/shipsphere/logistics-api/internal/infrastructure/security"
	"github.com/shipsphere/logistics-api/pkg/logger"
)

// @title        Logistics API
// @version      1.0
// @description  Back-office API for service cities, user accounts and authentication.
// @host         localhost:5000
// @BasePath     /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.New(logger.Options{})
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "logistics-api",
	})

	if cfg.Auth.JWTSecret == security.FallbackSecret && cfg.IsProduction() {
		log.Warn().Msg("JWT_SECRET is not set; tokens are signed with the fallback secret")
	}

	store, err := db.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("failed to open store")
	}
	log.Info().Str("driver", store.Name).Msg("store ready")

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	var limiter middleware.Limiter
	if rdb != nil {
		limiter = redisdb.NewRateLimiter(rdb, cfg.Auth.RateLimit, cfg.Auth.RateLimitSpan)
		log.Info().Int("limit", cfg.Auth.RateLimit).Dur("window", cfg.Auth.RateLimitSpan).Msg("auth rate limiting enabled")
	}

	hasher := security.NewBcryptHasher(cfg.Auth.BcryptCost)
	tokens := security.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	e := api.NewRouter(api.Deps{
		Logger:      log,
		Production:  cfg.IsProduction(),
		FrontendURL: cfg.FrontendURL,
		BodyLimit:   cfg.BodyLimit,
		AuthService: service.NewAuthService(store.Users, store.Cities, hasher, tokens, log.With().Str("component", "auth").Logger()),
		CityService: service.NewCityService(store.Cities, log.With().Str("component", "cities").Logger()),
		UserService: service.NewUserService(store.Users, log.With().Str("component", "users").Logger()),
		Tokens:      tokens,
		StoreName:   store.Name,
		Store:       store,
		Redis:       rdb,
		Limiter:     limiter,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("shutting down")
	shutdown(srv, store, rdb, log)
	log.Info().Msg("server exited")
}

func shutdown(srv *http.Server, store *db.Backend, rdb *redis.Client, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	if err := store.Close(ctx); err != nil {
		log.Error().Err(err).Msg("closing store")
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("closing redis")
		}
	}
}
