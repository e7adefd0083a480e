package generativeAI

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/FACorreiaa/go-itinerary-ai/config"
	"github.com/FACorreiaa/go-itinerary-ai/internal/types"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

const completionBody = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "google/gemini-2.5-flash",
  "choices": [{
    "index": 0,
    "finish_reason": "stop",
    "message": {"role": "assistant", "content": "{\"date\":\"2025-06-01\",\"summary\":\"s\",\"items\":[]}"}
  }]
}`

func newTestGateway(t *testing.T, handler http.HandlerFunc) *GatewayClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewGatewayClient(config.AIConfig{
		BaseURL:    srv.URL + "/v1",
		APIKey:     "test-key",
		ChatModel:  "google/gemini-2.5-flash",
		ImageModel: "google/gemini-2.5-flash-image-preview",
		Timeout:    5 * time.Second,
	}, discard)
}

func TestGatewayClient_CompleteJSON(t *testing.T) {
	var body []byte
	var authHeader, path string
	c := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		authHeader = r.Header.Get("Authorization")
		path = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody))
	})

	content, err := c.CompleteJSON(context.Background(), ChatRequest{
		System:      "system prompt",
		Text:        "extract the itinerary",
		Screenshots: []string{"data:image/png;base64,AAAA", "data:image/jpeg;base64,BBBB"},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2025-06-01","summary":"s","items":[]}`, content)

	assert.Equal(t, "/v1/chat/completions", path)
	assert.Equal(t, "Bearer test-key", authHeader)

	req := gjson.ParseBytes(body)
	assert.Equal(t, "google/gemini-2.5-flash", req.Get("model").String())
	assert.Equal(t, "json_object", req.Get("response_format.type").String())
	assert.Equal(t, "system", req.Get("messages.0.role").String())
	assert.Equal(t, "system prompt", req.Get("messages.0.content").String())
	assert.Equal(t, "user", req.Get("messages.1.role").String())

	parts := req.Get("messages.1.content").Array()
	require.Len(t, parts, 3)
	assert.Equal(t, "text", parts[0].Get("type").String())
	assert.Equal(t, "extract the itinerary", parts[0].Get("text").String())
	assert.Equal(t, "image_url", parts[1].Get("type").String())
	assert.Equal(t, "data:image/png;base64,AAAA", parts[1].Get("image_url.url").String())
	assert.Equal(t, "data:image/jpeg;base64,BBBB", parts[2].Get("image_url.url").String())
}

func TestGatewayClient_CompleteJSON_NonSuccessIsNotRetried(t *testing.T) {
	for _, status := range []int{http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			var hits atomic.Int32
			c := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
				hits.Add(1)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(status)
				_, _ = w.Write([]byte(`{"error":{"message":"secret upstream detail"}}`))
			})

			_, err := c.CompleteJSON(context.Background(), ChatRequest{System: "s", Text: "t"})
			require.Error(t, err)

			var upErr *UpstreamError
			require.True(t, errors.As(err, &upErr))
			assert.Equal(t, status, upErr.StatusCode)
			assert.True(t, errors.Is(err, types.ErrUpstream))
			assert.NotContains(t, err.Error(), "secret upstream detail")
			assert.Equal(t, int32(1), hits.Load())
		})
	}
}

func TestGatewayClient_CompleteJSON_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewGatewayClient(config.AIConfig{BaseURL: url, APIKey: "k", ChatModel: "m", Timeout: time.Second}, discard)
	_, err := c.CompleteJSON(context.Background(), ChatRequest{System: "s", Text: "t"})

	var upErr *UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Zero(t, upErr.StatusCode)
}

func TestGatewayClient_GenerateImage(t *testing.T) {
	t.Run("image present", func(t *testing.T) {
		var body []byte
		c := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
			body, _ = io.ReadAll(r.Body)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
			  "id": "img-1", "object": "chat.completion", "created": 1, "model": "m",
			  "choices": [{"index": 0, "finish_reason": "stop", "message": {
			    "role": "assistant", "content": "here you go",
			    "images": [{"type": "image_url", "image_url": {"url": "https://cdn.example/img.png"}}]
			  }}]
			}`))
		})

		url, err := c.GenerateImage(context.Background(), "A photo of Belém Tower")
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example/img.png", url)

		req := gjson.ParseBytes(body)
		assert.Equal(t, "google/gemini-2.5-flash-image-preview", req.Get("model").String())
		assert.Equal(t, `["image","text"]`, req.Get("modalities").Raw)
		assert.Equal(t, "user", req.Get("messages.0.role").String())
		assert.Equal(t, "A photo of Belém Tower", req.Get("messages.0.content").String())
	})

	t.Run("no image field", func(t *testing.T) {
		c := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(completionBody))
		})
		_, err := c.GenerateImage(context.Background(), "prompt")
		assert.ErrorIs(t, err, ErrNoImage)
	})

	t.Run("non-success", func(t *testing.T) {
		c := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
		_, err := c.GenerateImage(context.Background(), "prompt")
		var upErr *UpstreamError
		require.True(t, errors.As(err, &upErr))
		assert.Equal(t, http.StatusServiceUnavailable, upErr.StatusCode)
	})
}

func TestNewClient(t *testing.T) {
	c, err := NewClient(context.Background(), config.AIConfig{Provider: ""}, discard)
	require.NoError(t, err)
	assert.IsType(t, &GatewayClient{}, c)

	c, err = NewClient(context.Background(), config.AIConfig{Provider: "gemini", APIKey: "k"}, discard)
	require.NoError(t, err)
	assert.IsType(t, &GeminiClient{}, c)

	_, err = NewClient(context.Background(), config.AIConfig{Provider: "carrier-pigeon"}, discard)
	assert.Error(t, err)
}
