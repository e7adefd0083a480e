package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"
	defaultTimeout = 10 * time.Second
)

var errNoCondition = errors.New("weather response has no condition")

// Fetcher returns the formatted current weather for a location.
type Fetcher interface {
	Fetch(ctx context.Context, location string) (string, error)
}

// Client reads current conditions from OpenWeatherMap.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{apiKey: apiKey, baseURL: baseURL, client: &http.Client{Timeout: timeout}}
}

type owmResponse struct {
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		Main string `json:"main"`
	} `json:"weather"`
}

// Fetch returns "<Condition>, <temp>°C", e.g. "Clear, 22°C".
func (c *Client) Fetch(ctx context.Context, location string) (string, error) {
	ctx, span := otel.Tracer("WeatherClient").Start(ctx, "Fetch", trace.WithAttributes(
		attribute.String("location", location),
	))
	defer span.End()

	q := url.Values{}
	q.Set("q", location)
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("creating weather request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return "", fmt.Errorf("weather request for %s: %w", location, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err = fmt.Errorf("weather request for %s returned status %d", location, resp.StatusCode)
		span.SetStatus(codes.Error, "non-success status")
		return "", err
	}

	var raw owmResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("decoding weather response for %s: %w", location, err)
	}
	if len(raw.Weather) == 0 || raw.Weather[0].Main == "" {
		return "", errNoCondition
	}

	span.SetStatus(codes.Ok, "")
	return Format(raw.Weather[0].Main, raw.Main.Temp), nil
}

// Format renders a condition and temperature, rounding half up.
func Format(condition string, temp float64) string {
	return fmt.Sprintf("%s, %d°C", condition, int(math.Floor(temp+0.5)))
}
