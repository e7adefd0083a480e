package itinerary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-itinerary-ai/app/observability/metrics"
	"github.com/FACorreiaa/go-itinerary-ai/config"
	"github.com/FACorreiaa/go-itinerary-ai/internal/api/enrichment"
	generativeAI "github.com/FACorreiaa/go-itinerary-ai/internal/api/generative_ai"
	"github.com/FACorreiaa/go-itinerary-ai/internal/types"
)

var errAINotConfigured = errors.New("ai provider credentials not configured")

var _ ItineraryService = (*ItineraryServiceImpl)(nil)

// ItineraryService turns a validated request into a day itinerary.
type ItineraryService interface {
	Generate(ctx context.Context, req types.ItineraryRequest) (*types.ItineraryData, error)
}

type ItineraryServiceImpl struct {
	ai      generativeAI.Client
	weather enrichment.Enricher[string, string]
	images  enrichment.Enricher[types.ItineraryItem, string]
	cfg     config.ImagesConfig
	logger  *slog.Logger
}

// NewItineraryService wires the pipeline. A nil ai client makes every call fail with a
// generic error; a nil weather enricher disables weather lookups.
func NewItineraryService(ai generativeAI.Client, weather enrichment.Enricher[string, string], cfg config.ImagesConfig, logger *slog.Logger) *ItineraryServiceImpl {
	s := &ItineraryServiceImpl{
		ai:      ai,
		weather: weather,
		cfg:     cfg,
		logger:  logger,
	}
	if ai != nil {
		s.images = &imageEnricher{ai: ai, logger: logger}
	}
	return s
}

func (s *ItineraryServiceImpl) Generate(ctx context.Context, req types.ItineraryRequest) (*types.ItineraryData, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "Generate", trace.WithAttributes(
		attribute.String("location", req.Location),
		attribute.String("start_date", req.StartDate),
		attribute.Int("interests.count", len(req.Interests)),
		attribute.Int("screenshots.count", len(req.Screenshots)),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Generate"), slog.String("location", req.Location))
	l.InfoContext(ctx, "Processing itinerary request",
		slog.String("start_date", req.StartDate),
		slog.String("end_date", req.EndDate),
		slog.Any("interests", req.Interests),
		slog.Int("screenshot_count", len(req.Screenshots)),
	)

	if s.ai == nil {
		span.RecordError(errAINotConfigured)
		span.SetStatus(codes.Error, "ai not configured")
		l.ErrorContext(ctx, "AI provider not configured")
		return nil, errAINotConfigured
	}

	content, err := s.ai.CompleteJSON(ctx, generativeAI.ChatRequest{
		System:      systemPrompt(req),
		Text:        userPrompt(req),
		Screenshots: req.Screenshots,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "chat completion failed")
		l.ErrorContext(ctx, "AI call failed", slog.Any("error", err))
		return nil, fmt.Errorf("generating itinerary: %w", err)
	}

	data, err := parseItinerary(content, req.StartDate)
	if err != nil {
		l.WarnContext(ctx, "Failed to parse AI response, using fallback itinerary", slog.Any("error", err))
		metrics.Get().ItineraryFallbackTotal.Add(ctx, 1)
		span.AddEvent("fallback_itinerary")
		data = fallbackItinerary(req.StartDate)
	}

	s.applyWeather(ctx, l, req.Location, &data)
	s.applyImages(ctx, l, &data)

	span.SetAttributes(attribute.Int("items.count", len(data.Items)))
	span.SetStatus(codes.Ok, "")
	l.InfoContext(ctx, "Itinerary generation complete", slog.Int("items", len(data.Items)))
	return &data, nil
}

// applyWeather sets the same weather string on every item, or leaves them all untouched.
func (s *ItineraryServiceImpl) applyWeather(ctx context.Context, l *slog.Logger, location string, data *types.ItineraryData) {
	if s.weather == nil || len(data.Items) == 0 {
		return
	}
	w, ok := s.weather.Attempt(ctx, location)
	if !ok {
		return
	}
	for i := range data.Items {
		data.Items[i].Weather = w
	}
	l.DebugContext(ctx, "Weather data added", slog.String("weather", w))
}

// applyImages fans out one image request per item; failures leave the item without imageUrl.
func (s *ItineraryServiceImpl) applyImages(ctx context.Context, l *slog.Logger, data *types.ItineraryData) {
	if !s.cfg.Enabled || s.images == nil || len(data.Items) == 0 {
		return
	}
	results := enrichment.Gather(ctx, l, s.images, data.Items, s.cfg.MaxConcurrency)
	for i, r := range results {
		if r.OK {
			data.Items[i].ImageURL = r.Value
		}
	}
}

// imageEnricher generates one illustrative image per item.
type imageEnricher struct {
	ai     generativeAI.Client
	logger *slog.Logger
}

func (e *imageEnricher) Attempt(ctx context.Context, item types.ItineraryItem) (string, bool) {
	url, err := e.ai.GenerateImage(ctx, imagePrompt(item))
	outcome := "ok"
	defer func() {
		metrics.Get().ImageGenerationsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	}()
	if err != nil {
		outcome = "error"
		if errors.Is(err, generativeAI.ErrNoImage) {
			outcome = "no_image"
		}
		e.logger.WarnContext(ctx, "Failed to generate image", slog.String("title", item.Title), slog.Any("error", err))
		return "", false
	}
	return url, true
}
