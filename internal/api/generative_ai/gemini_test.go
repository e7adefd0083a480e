package generativeAI

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/FACorreiaa/go-itinerary-ai/config"
)

func newTestGemini(t *testing.T, handler http.HandlerFunc) *GeminiClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewGeminiClient(context.Background(), config.AIConfig{
		BaseURL:    srv.URL + "/",
		APIKey:     "test-key",
		ChatModel:  "google/gemini-2.5-flash",
		ImageModel: "google/gemini-2.5-flash-image-preview",
		Timeout:    5 * time.Second,
	}, discard)
	require.NoError(t, err)
	return c
}

func TestGeminiModel(t *testing.T) {
	assert.Equal(t, "gemini-2.5-flash", geminiModel("google/gemini-2.5-flash"))
	assert.Equal(t, "gemini-2.5-flash", geminiModel("gemini-2.5-flash"))
}

func TestGeminiClient_CompleteJSON(t *testing.T) {
	var body []byte
	var path string
	c := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		path = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"date\":\"2025-06-01\",\"summary\":\"s\",\"items\":[]}"}]}}]}`))
	})

	content, err := c.CompleteJSON(context.Background(), ChatRequest{
		System:      "system prompt",
		Text:        "extract",
		Screenshots: []string{"data:image/png;base64,aGVsbG8=", "https://not-inlineable.example/x.png"},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2025-06-01","summary":"s","items":[]}`, content)

	assert.True(t, strings.HasSuffix(path, "models/gemini-2.5-flash:generateContent"), path)

	req := gjson.ParseBytes(body)
	assert.Equal(t, "system prompt", req.Get("systemInstruction.parts.0.text").String())
	assert.Equal(t, "application/json", req.Get("generationConfig.responseMimeType").String())
	parts := req.Get("contents.0.parts").Array()
	require.Len(t, parts, 2, "non data-URI screenshots are skipped")
	assert.Equal(t, "extract", parts[0].Get("text").String())
	assert.Equal(t, "image/png", parts[1].Get("inlineData.mimeType").String())
	assert.Equal(t, "aGVsbG8=", parts[1].Get("inlineData.data").String())
}

func TestGeminiClient_CompleteJSON_NonSuccess(t *testing.T) {
	c := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota","status":"RESOURCE_EXHAUSTED"}}`))
	})

	_, err := c.CompleteJSON(context.Background(), ChatRequest{System: "s", Text: "t"})
	var upErr *UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, http.StatusTooManyRequests, upErr.StatusCode)
}

func TestGeminiClient_GenerateImage(t *testing.T) {
	t.Run("inline image becomes data URI", func(t *testing.T) {
		var body []byte
		c := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
			body, _ = io.ReadAll(r.Body)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[
				{"text":"Here is your image"},
				{"inlineData":{"mimeType":"image/png","data":"aGVsbG8="}}
			]}}]}`))
		})

		url, err := c.GenerateImage(context.Background(), "prompt")
		require.NoError(t, err)
		assert.Equal(t, "data:image/png;base64,aGVsbG8=", url)
		assert.Equal(t, `["IMAGE","TEXT"]`, gjson.GetBytes(body, "generationConfig.responseModalities").Raw)
	})

	t.Run("text only", func(t *testing.T) {
		c := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"no image today"}]}}]}`))
		})
		_, err := c.GenerateImage(context.Background(), "prompt")
		assert.ErrorIs(t, err, ErrNoImage)
	})
}
