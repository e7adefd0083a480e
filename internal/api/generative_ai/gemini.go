package generativeAI

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	"github.com/FACorreiaa/go-itinerary-ai/config"
)

// GeminiClient calls the Gemini API directly. Screenshots are sent as inline bytes and
// generated images come back as data URIs.
type GeminiClient struct {
	client     *genai.Client
	chatModel  string
	imageModel string
	maxDim     int
	logger     *slog.Logger
}

func NewGeminiClient(ctx context.Context, cfg config.AIConfig, logger *slog.Logger) (*GeminiClient, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  &http.Client{Timeout: timeout},
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiClient{
		client:     client,
		chatModel:  geminiModel(cfg.ChatModel),
		imageModel: geminiModel(cfg.ImageModel),
		maxDim:     cfg.MaxScreenshotDimension,
		logger:     logger,
	}, nil
}

// geminiModel drops the gateway vendor prefix, "google/gemini-2.5-flash" -> "gemini-2.5-flash".
func geminiModel(name string) string {
	return strings.TrimPrefix(name, "google/")
}

func (c *GeminiClient) CompleteJSON(ctx context.Context, req ChatRequest) (content string, err error) {
	ctx, span := otel.Tracer("GenerativeAI").Start(ctx, "GeminiClient.CompleteJSON", trace.WithAttributes(
		attribute.String("model", c.chatModel),
		attribute.Int("screenshots.count", len(req.Screenshots)),
	))
	defer span.End()
	start := time.Now()
	defer func() { recordCall(ctx, ProviderGemini, "chat", start, err) }()

	l := c.logger.With(slog.String("method", "GeminiClient.CompleteJSON"))

	screens := prepareScreenshots(req.Screenshots, c.maxDim, l)
	parts := make([]*genai.Part, 0, 1+len(screens))
	parts = append(parts, genai.NewPartFromText(req.Text))
	for i, s := range screens {
		mime, data, derr := decodeDataURI(s)
		if derr != nil {
			l.WarnContext(ctx, "Skipping screenshot that cannot be inlined", slog.Int("index", i), slog.Any("error", derr))
			continue
		}
		parts = append(parts, genai.NewPartFromBytes(data, mime))
	}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.System, genai.RoleUser),
		ResponseMIMEType:  "application/json",
	}
	resp, err := c.client.Models.GenerateContent(ctx, c.chatModel, []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}, cfg)
	if err != nil {
		err = c.upstreamError(ctx, l, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "generate content failed")
		return "", err
	}

	content = resp.Text()
	span.SetAttributes(attribute.Int("response.length", len(content)))
	span.SetStatus(codes.Ok, "")
	return content, nil
}

func (c *GeminiClient) GenerateImage(ctx context.Context, prompt string) (url string, err error) {
	ctx, span := otel.Tracer("GenerativeAI").Start(ctx, "GeminiClient.GenerateImage", trace.WithAttributes(
		attribute.String("model", c.imageModel),
	))
	defer span.End()
	start := time.Now()
	defer func() { recordCall(ctx, ProviderGemini, "image", start, err) }()

	l := c.logger.With(slog.String("method", "GeminiClient.GenerateImage"))

	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
	}
	resp, err := c.client.Models.GenerateContent(ctx, c.imageModel, genai.Text(prompt), cfg)
	if err != nil {
		err = c.upstreamError(ctx, l, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "image generation failed")
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrNoImage
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
			continue
		}
		span.SetStatus(codes.Ok, "")
		return encodeDataURI(part.InlineData.MIMEType, part.InlineData.Data), nil
	}
	return "", ErrNoImage
}

func (c *GeminiClient) upstreamError(ctx context.Context, l *slog.Logger, err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		l.ErrorContext(ctx, "Gemini returned non-success status",
			slog.Int("status", apiErr.Code),
			slog.String("body", apiErr.Message),
		)
		return &UpstreamError{Provider: ProviderGemini, StatusCode: apiErr.Code, Err: errors.New("non-success status")}
	}
	l.ErrorContext(ctx, "Gemini request failed", slog.Any("error", err))
	return &UpstreamError{Provider: ProviderGemini, Err: err}
}
