package trips

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-itinerary-ai/internal/types"
)

func sampleTrip() *types.Trip {
	return &types.Trip{
		ID:          uuid.MustParse("6f1c2a7e-3b7d-4f7e-9a58-0f6f0e7d9b11"),
		UserID:      uuid.New(),
		Destination: "Lisboa, Portugal",
		StartDate:   "2025-06-01",
		EndDate:     "2025-06-02",
		Interests:   []string{"Food & Dining", "Art & Museums"},
		CreatedAt:   time.Date(2025, 5, 30, 9, 0, 0, 0, time.UTC),
		Itinerary: types.ItineraryData{
			Date:    "2025-06-01",
			Summary: "Pastéis, tiles and a sunset.",
			Items: []types.ItineraryItem{
				{ID: "1", Time: "09:00 AM", Title: "Pastéis de Belém", Location: "Belém", Category: "Food & Dining", Duration: "1 hour", Weather: "Clear, 22°C", TravelTime: "15 mins"},
				{ID: "2", Time: "11:00 AM", Title: "Museu Nacional do Azulejo", Description: "Tile museum.", Weather: "Clear, 22°C"},
			},
		},
	}
}

func TestTripURL(t *testing.T) {
	trip := sampleTrip()
	assert.Equal(t, "https://app.example.com/trips/"+trip.ID.String(), TripURL("https://app.example.com/", trip))
	assert.Equal(t, "https://app.example.com/trips/"+trip.ID.String(), TripURL("https://app.example.com", trip))
}

func TestRenderPDF(t *testing.T) {
	doc, err := RenderPDF(sampleTrip(), "https://app.example.com")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF-")))
	assert.True(t, bytes.Contains(doc, []byte("/trips/6f1c2a7e-3b7d-4f7e-9a58-0f6f0e7d9b11")), "QR link annotation present")
}

func TestRenderPDF_EmptyItinerary(t *testing.T) {
	trip := sampleTrip()
	trip.Itinerary.Items = []types.ItineraryItem{}
	trip.Interests = nil

	doc, err := RenderPDF(trip, "http://localhost:5173")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF-")))
}

func TestRenderPDF_ManyItemsSpansPages(t *testing.T) {
	trip := sampleTrip()
	items := make([]types.ItineraryItem, 0, 40)
	for i := 0; i < 40; i++ {
		items = append(items, types.ItineraryItem{ID: uuid.NewString(), Time: "10:00 AM", Title: "Stop", Description: "A long description of the stop."})
	}
	trip.Itinerary.Items = items

	doc, err := RenderPDF(trip, "http://localhost:5173")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, bytes.Count(doc, []byte("/Type /Page\n")), 2)
}
