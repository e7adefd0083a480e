package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	ItineraryRequestsTotal metric.Int64Counter
	AICallDurationSeconds  metric.Float64Histogram
	ItineraryFallbackTotal metric.Int64Counter
	WeatherLookupsTotal    metric.Int64Counter
	ImageGenerationsTotal  metric.Int64Counter
	DbQueryDurationSeconds metric.Float64Histogram
	DbQueryErrorsTotal     metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics creates the instruments from the global MeterProvider. Only the first call has an effect.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("go-itinerary-ai")
		m := &AppMetrics{}
		var err error

		m.ItineraryRequestsTotal, err = meter.Int64Counter(
			"itinerary_requests_total",
			metric.WithDescription("Itinerary generation requests by outcome"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create itinerary_requests_total: %v", err)
		}

		m.AICallDurationSeconds, err = meter.Float64Histogram(
			"ai_call_duration_seconds",
			metric.WithDescription("Duration of chat-completion and image calls in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create ai_call_duration_seconds: %v", err)
		}

		m.ItineraryFallbackTotal, err = meter.Int64Counter(
			"itinerary_fallback_total",
			metric.WithDescription("Model answers that could not be parsed and were replaced by the degraded itinerary"),
			metric.WithUnit("{itinerary}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create itinerary_fallback_total: %v", err)
		}

		m.WeatherLookupsTotal, err = meter.Int64Counter(
			"weather_lookups_total",
			metric.WithDescription("Weather lookups by source (cache, upstream) and outcome"),
			metric.WithUnit("{lookup}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create weather_lookups_total: %v", err)
		}

		m.ImageGenerationsTotal, err = meter.Int64Counter(
			"image_generations_total",
			metric.WithDescription("Per-item image generations by outcome"),
			metric.WithUnit("{image}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create image_generations_total: %v", err)
		}

		m.DbQueryDurationSeconds, err = meter.Float64Histogram(
			"db_query_duration_seconds",
			metric.WithDescription("Duration of database queries in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_duration_seconds: %v", err)
		}

		m.DbQueryErrorsTotal, err = meter.Int64Counter(
			"db_query_errors_total",
			metric.WithDescription("Total number of database query errors"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_errors_total: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the instruments, initialising them from the current MeterProvider on first use.
// Without a configured provider the global no-op meter is used.
func Get() *AppMetrics {
	InitAppMetrics()
	return appMetrics
}
