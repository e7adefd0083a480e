package router

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"golang.org/x/sync/errgroup"

	appLogger "github.com/FACorreiaa/go-itinerary-ai/app/logger"
	appMiddleware "github.com/FACorreiaa/go-itinerary-ai/app/middleware"
	"github.com/FACorreiaa/go-itinerary-ai/internal/api"
	"github.com/FACorreiaa/go-itinerary-ai/internal/api/itinerary"
	"github.com/FACorreiaa/go-itinerary-ai/internal/api/trips"
	"github.com/FACorreiaa/go-itinerary-ai/internal/types"
)

const allowedHeaders = "authorization, x-client-info, apikey, content-type"

// HealthCheck pings one dependency.
type HealthCheck func(ctx context.Context) error

// Config contains dependencies needed for the router setup
type Config struct {
	ItineraryHandler *itinerary.ItineraryHandler
	// TripsHandler is optional; trip routes are not mounted without it.
	TripsHandler           *trips.HandlerImpl
	AuthenticateMiddleware func(http.Handler) http.Handler
	HealthChecks           map[string]HealthCheck
	// RateLimit is generate requests per minute per client IP; <= 0 disables limiting.
	RateLimit      int
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

// SetupRouter builds the full HTTP handler, server-wide middleware included.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appLogger.StructuredLogger(cfg.Logger))
	r.Use(appMiddleware.Recoverer(cfg.Logger))
	r.Use(middleware.StripSlashes)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:     []string{"*"},
		AllowedMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:     []string{"authorization", "x-client-info", "apikey", "content-type"},
		ExposedHeaders:     []string{"Content-Disposition"},
		MaxAge:             300,
		OptionsPassthrough: true,
	}))
	r.Use(permissiveCORS)
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	generate := http.HandlerFunc(cfg.ItineraryHandler.GenerateItinerary)
	limit := rateLimiter(cfg.RateLimit)

	// Path kept for clients built against the edge-function deployment.
	r.With(appMiddleware.RequireCredential, limit).Post("/functions/v1/generate-itinerary", generate)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler(cfg.HealthChecks))

		r.With(appMiddleware.RequireCredential, limit).Post("/itineraries/generate", generate)

		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)

			r.With(limit).Post("/itineraries", cfg.ItineraryHandler.GenerateAndSaveItinerary)

			if cfg.TripsHandler != nil {
				r.Route("/trips", func(r chi.Router) {
					r.Post("/", cfg.TripsHandler.CreateTrip)
					r.Get("/", cfg.TripsHandler.ListTrips)
					r.Get("/{tripID}", cfg.TripsHandler.GetTrip)
					r.Delete("/{tripID}", cfg.TripsHandler.DeleteTrip)
					r.Get("/{tripID}/pdf", cfg.TripsHandler.DownloadTripPDF)
				})
			}
		})
	})

	return r
}

// permissiveCORS sets the CORS headers on every response, including same-origin and
// non-browser calls, and answers any OPTIONS request with 200 "ok".
func permissiveCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)
		if r.Method == http.MethodOptions {
			w.Header().Set("Content-Type", "text/plain")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func rateLimiter(perMinute int) func(http.Handler) http.Handler {
	if perMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(perMinute, time.Minute,
		httprate.WithKeyByRealIP(),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			api.WriteJSONResponse(w, r, http.StatusTooManyRequests, types.GenerationErrorResponse{Error: "Too many requests"})
		}),
	)
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// healthHandler runs every check concurrently; any failure turns the response into a 503.
func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		resp := healthResponse{Status: "ok", Checks: make(map[string]string, len(checks))}
		var (
			mu sync.Mutex
			g  errgroup.Group
		)
		for name, check := range checks {
			g.Go(func() error {
				status := "ok"
				if err := check(ctx); err != nil {
					status = err.Error()
				}
				mu.Lock()
				defer mu.Unlock()
				resp.Checks[name] = status
				if status != "ok" {
					resp.Status = "degraded"
				}
				return nil
			})
		}
		_ = g.Wait()

		code := http.StatusOK
		if resp.Status != "ok" {
			code = http.StatusServiceUnavailable
		}
		api.WriteJSONResponse(w, r, code, resp)
	}
}
