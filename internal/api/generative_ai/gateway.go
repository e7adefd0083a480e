package generativeAI

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-itinerary-ai/config"
)

const defaultGatewayBaseURL = "https://ai.gateway.lovable.dev/v1"

// GatewayClient talks to an OpenAI-compatible chat-completions gateway.
type GatewayClient struct {
	client     openai.Client
	chatModel  string
	imageModel string
	maxDim     int
	logger     *slog.Logger
}

func NewGatewayClient(cfg config.AIConfig, logger *slog.Logger) *GatewayClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultGatewayBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 90 * time.Second
	}

	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
		option.WithHTTPClient(&http.Client{Timeout: timeout}),
	)

	return &GatewayClient{
		client:     client,
		chatModel:  cfg.ChatModel,
		imageModel: cfg.ImageModel,
		maxDim:     cfg.MaxScreenshotDimension,
		logger:     logger,
	}
}

func (c *GatewayClient) CompleteJSON(ctx context.Context, req ChatRequest) (content string, err error) {
	ctx, span := otel.Tracer("GenerativeAI").Start(ctx, "GatewayClient.CompleteJSON", trace.WithAttributes(
		attribute.String("model", c.chatModel),
		attribute.Int("screenshots.count", len(req.Screenshots)),
	))
	defer span.End()
	start := time.Now()
	defer func() { recordCall(ctx, ProviderGateway, "chat", start, err) }()

	l := c.logger.With(slog.String("method", "GatewayClient.CompleteJSON"))

	screens := prepareScreenshots(req.Screenshots, c.maxDim, l)
	parts := make([]openai.ChatCompletionContentPartUnionParam, 0, 1+len(screens))
	parts = append(parts, openai.TextContentPart(req.Text))
	for _, s := range screens {
		parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: s}))
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.chatModel),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(parts),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		err = c.upstreamError(ctx, l, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "chat completion failed")
		return "", err
	}
	if len(resp.Choices) == 0 {
		err = &UpstreamError{Provider: ProviderGateway, Err: errors.New("answer has no choices")}
		span.RecordError(err)
		span.SetStatus(codes.Error, "empty answer")
		return "", err
	}

	content = resp.Choices[0].Message.Content
	span.SetAttributes(attribute.Int("response.length", len(content)))
	span.SetStatus(codes.Ok, "")
	return content, nil
}

func (c *GatewayClient) GenerateImage(ctx context.Context, prompt string) (url string, err error) {
	ctx, span := otel.Tracer("GenerativeAI").Start(ctx, "GatewayClient.GenerateImage", trace.WithAttributes(
		attribute.String("model", c.imageModel),
	))
	defer span.End()
	start := time.Now()
	defer func() { recordCall(ctx, ProviderGateway, "image", start, err) }()

	l := c.logger.With(slog.String("method", "GatewayClient.GenerateImage"))

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.imageModel),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	}
	resp, err := c.client.Chat.Completions.New(ctx, params, option.WithJSONSet("modalities", []string{"image", "text"}))
	if err != nil {
		err = c.upstreamError(ctx, l, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "image generation failed")
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoImage
	}

	url = gjson.Get(resp.Choices[0].Message.RawJSON(), "images.0.image_url.url").String()
	if url == "" {
		return "", ErrNoImage
	}
	span.SetStatus(codes.Ok, "")
	return url, nil
}

// upstreamError logs the provider status and body and returns an error safe to surface upward.
func (c *GatewayClient) upstreamError(ctx context.Context, l *slog.Logger, err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		l.ErrorContext(ctx, "Gateway returned non-success status",
			slog.Int("status", apiErr.StatusCode),
			slog.String("body", apiErr.RawJSON()),
		)
		return &UpstreamError{Provider: ProviderGateway, StatusCode: apiErr.StatusCode, Err: errors.New("non-success status")}
	}
	l.ErrorContext(ctx, "Gateway request failed", slog.Any("error", err))
	return &UpstreamError{Provider: ProviderGateway, Err: err}
}
