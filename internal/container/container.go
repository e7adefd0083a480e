package container

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	database "github.com/FACorreiaa/go-itinerary-ai/app/db"
	"github.com/FACorreiaa/go-itinerary-ai/config"
	"github.com/FACorreiaa/go-itinerary-ai/internal/api/enrichment"
	generativeAI "github.com/FACorreiaa/go-itinerary-ai/internal/api/generative_ai"
	"github.com/FACorreiaa/go-itinerary-ai/internal/api/itinerary"
	"github.com/FACorreiaa/go-itinerary-ai/internal/api/trips"
	"github.com/FACorreiaa/go-itinerary-ai/internal/api/weather"
)

// Container holds all application dependencies
type Container struct {
	Config           *config.Config
	Logger           *slog.Logger
	Pool             *pgxpool.Pool
	Redis            *redis.Client
	DatabaseURL      string
	ItineraryHandler *itinerary.ItineraryHandler
	// TripsHandler is nil when no database is configured.
	TripsHandler *trips.HandlerImpl
}

// NewContainer wires the application. Postgres, Redis, the AI key and the weather key are all optional;
// whatever is missing is left out and the features depending on it degrade.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	if cfg.Repositories.Postgres.Host != "" {
		dbConfig, err := database.NewDatabaseConfig(cfg, logger)
		if err != nil {
			logger.Error("Failed to generate database config", slog.Any("error", err))
			return nil, err
		}
		pool, err := database.Init(ctx, dbConfig.ConnectionURL, logger)
		if err != nil {
			logger.Error("Failed to initialize database pool", slog.Any("error", err))
			return nil, err
		}
		c.Pool = pool
		c.DatabaseURL = dbConfig.ConnectionURL
	} else {
		logger.Warn("No database configured, trips are disabled")
	}

	if cfg.Repositories.Redis.URL != "" {
		rdb, err := weather.ConnectRedis(ctx, cfg.Repositories.Redis.URL)
		if err != nil {
			// cache only; fall back to the in-process one
			logger.Warn("Redis unavailable, using in-memory weather cache", slog.Any("error", err))
		} else {
			c.Redis = rdb
		}
	}

	// Untyped nil keeps the interface nil when the provider is not configured.
	var aiClient generativeAI.Client
	if cfg.AI.APIKey != "" {
		client, err := generativeAI.NewClient(ctx, cfg.AI, logger)
		if err != nil {
			logger.Error("Failed to initialize AI client", slog.Any("error", err))
			c.Close()
			return nil, err
		}
		aiClient = client
	} else {
		logger.Warn("AI API key not configured, generation requests will fail")
	}

	var weatherEnricher enrichment.Enricher[string, string]
	if cfg.Weather.APIKey != "" {
		var cache weather.Cache
		if c.Redis != nil {
			cache = weather.NewRedisCache(c.Redis, cfg.Weather.CacheTTL)
		} else {
			cache = weather.NewMemoryCache(cfg.Weather.CacheTTL)
		}
		fetcher := weather.NewClient(cfg.Weather.APIKey, cfg.Weather.BaseURL, cfg.Weather.Timeout)
		weatherEnricher = weather.NewEnricher(fetcher, cache, logger)
	} else {
		logger.Info("Weather API key not configured, itineraries will not include weather")
	}

	itineraryService := itinerary.NewItineraryService(aiClient, weatherEnricher, cfg.Images, logger)

	var tripSaver itinerary.TripSaver
	if c.Pool != nil {
		tripsRepo := trips.NewRepository(c.Pool, logger)
		tripsService := trips.NewServiceImpl(tripsRepo, cfg.Server.PublicURL, logger)
		c.TripsHandler = trips.NewHandler(tripsService, cfg.Server.MaxBodyBytes, logger)
		tripSaver = tripsService
	}

	c.ItineraryHandler = itinerary.NewItineraryHandler(itineraryService, tripSaver, cfg.Server.MaxBodyBytes, logger)
	return c, nil
}

// Close releases all resources held by the container
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.Warn("Failed to close redis client", slog.Any("error", err))
		}
	}
}

// WaitForDB waits for the database to be ready. Without a database there is nothing to wait for.
func (c *Container) WaitForDB(ctx context.Context) bool {
	if c.Pool == nil {
		return true
	}
	return database.WaitForDB(ctx, c.Pool, c.Logger)
}

// RunMigrations runs database migrations
func (c *Container) RunMigrations() error {
	if c.DatabaseURL == "" {
		return nil
	}
	return database.RunMigrations(c.DatabaseURL, c.Logger)
}
