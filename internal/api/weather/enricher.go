package weather

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/FACorreiaa/go-itinerary-ai/app/observability/metrics"
)

// Enricher resolves the weather string for a location, consulting the cache first.
// Every failure is logged and reported as ok=false.
type Enricher struct {
	fetcher Fetcher
	cache   Cache
	logger  *slog.Logger
}

// NewEnricher builds an Enricher. A nil cache disables caching.
func NewEnricher(fetcher Fetcher, cache Cache, logger *slog.Logger) *Enricher {
	return &Enricher{fetcher: fetcher, cache: cache, logger: logger}
}

func (e *Enricher) Attempt(ctx context.Context, location string) (string, bool) {
	l := e.logger.With(slog.String("method", "weather.Enricher.Attempt"), slog.String("location", location))

	if e.cache != nil {
		v, ok, err := e.cache.Get(ctx, location)
		switch {
		case err != nil:
			l.WarnContext(ctx, "Weather cache unavailable, bypassing", slog.Any("error", err))
		case ok:
			record(ctx, "cache", "hit")
			return v, true
		}
	}

	v, err := e.fetcher.Fetch(ctx, location)
	if err != nil {
		l.WarnContext(ctx, "Weather lookup failed", slog.Any("error", err))
		record(ctx, "upstream", "error")
		return "", false
	}
	record(ctx, "upstream", "ok")

	if e.cache != nil {
		if err := e.cache.Set(ctx, location, v); err != nil {
			l.WarnContext(ctx, "Failed to cache weather", slog.Any("error", err))
		}
	}
	return v, true
}

func record(ctx context.Context, source, outcome string) {
	metrics.Get().WeatherLookupsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("source", source),
		attribute.String("outcome", outcome),
	))
}
