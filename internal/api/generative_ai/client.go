package generativeAI

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/FACorreiaa/go-itinerary-ai/app/observability/metrics"
	"github.com/FACorreiaa/go-itinerary-ai/config"
	"github.com/FACorreiaa/go-itinerary-ai/internal/types"
)

const (
	ProviderGateway = "gateway"
	ProviderGemini  = "gemini"
)

// ErrNoImage is returned when an image call succeeds but the answer carries no image.
var ErrNoImage = errors.New("model returned no image")

// Client is a multi-modal model provider.
type Client interface {
	// CompleteJSON sends one system turn and one user turn (text then screenshots in order)
	// and returns the raw content of the answer, requested as a JSON object.
	CompleteJSON(ctx context.Context, req ChatRequest) (string, error)
	// GenerateImage returns a URL (possibly a data URI) of an image generated from prompt.
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

type ChatRequest struct {
	System      string
	Text        string
	Screenshots []string
}

// UpstreamError is a failed provider call. StatusCode is 0 for transport failures.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: upstream status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() []error {
	return []error{types.ErrUpstream, e.Err}
}

// NewClient builds the provider selected by cfg.Provider.
func NewClient(ctx context.Context, cfg config.AIConfig, logger *slog.Logger) (Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", ProviderGateway:
		return NewGatewayClient(cfg, logger), nil
	case ProviderGemini:
		return NewGeminiClient(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}
}

func recordCall(ctx context.Context, provider, op string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.Get().AICallDurationSeconds.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("op", op),
		attribute.String("outcome", outcome),
	))
}
