package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/FACorreiaa/go-itinerary-ai/internal/api/itinerary"
	"github.com/FACorreiaa/go-itinerary-ai/internal/router"
	"github.com/FACorreiaa/go-itinerary-ai/internal/types"
)

type benchGenerator struct {
	data *types.ItineraryData
}

func (g benchGenerator) Generate(context.Context, types.ItineraryRequest) (*types.ItineraryData, error) {
	return g.data, nil
}

func benchItinerary(items int) *types.ItineraryData {
	data := &types.ItineraryData{Date: "2025-06-01", Summary: "A day out", Items: make([]types.ItineraryItem, 0, items)}
	for i := 0; i < items; i++ {
		data.Items = append(data.Items, types.ItineraryItem{
			ID:          uuid.NewString(),
			Time:        fmt.Sprintf("%02d:00 AM", 8+i%4),
			Title:       fmt.Sprintf("Stop %d", i),
			Location:    "Lisbon",
			Description: strings.Repeat("Something to see. ", 8),
			Category:    "Sightseeing",
			Duration:    "1 hour",
			Weather:     "Clear, 22°C",
			ImageURL:    "https://img.example/" + uuid.NewString() + ".png",
		})
	}
	return data
}

func benchRouter(b *testing.B) http.Handler {
	b.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return router.SetupRouter(&router.Config{
		ItineraryHandler:       itinerary.NewItineraryHandler(benchGenerator{data: benchItinerary(8)}, nil, 0, logger),
		AuthenticateMiddleware: func(next http.Handler) http.Handler { return next },
		Logger:                 logger,
	})
}

// BenchmarkGenerateRequest measures routing, decoding, validation and encoding around a stubbed generator.
func BenchmarkGenerateRequest(b *testing.B) {
	h := benchRouter(b)
	body := `{"location":"Lisbon","startDate":"2025-06-01","endDate":"2025-06-01","interests":["Food & Dining"],"screenshots":[]}`

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodPost, "/functions/v1/generate-itinerary", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer anon-key")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			b.Fatalf("unexpected status %d", rec.Code)
		}
	}
}

func BenchmarkGenerateRequestParallel(b *testing.B) {
	h := benchRouter(b)
	body := `{"location":"Lisbon","startDate":"2025-06-01","endDate":"2025-06-01","interests":[],"screenshots":[]}`

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/itineraries/generate", strings.NewReader(body))
			req.Header.Set("Authorization", "Bearer anon-key")
			h.ServeHTTP(httptest.NewRecorder(), req)
		}
	})
}

func BenchmarkItinerarySerialization(b *testing.B) {
	for _, n := range []int{4, 16, 64} {
		data := benchItinerary(n)
		b.Run(fmt.Sprintf("items=%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := json.Marshal(data); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
