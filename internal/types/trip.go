package types

import (
	"time"

	"github.com/google/uuid"
)

// Trip is a saved itinerary owned by a user.
type Trip struct {
	ID          uuid.UUID     `json:"id"`
	UserID      uuid.UUID     `json:"user_id"`
	Destination string        `json:"destination"`
	StartDate   string        `json:"start_date"`
	EndDate     string        `json:"end_date"`
	Interests   []string      `json:"interests"`
	Itinerary   ItineraryData `json:"itinerary"`
	CreatedAt   time.Time     `json:"created_at"`
}

// CreateTripParams is the body of POST /trips.
type CreateTripParams struct {
	Destination string        `json:"destination" validate:"required,max=200"`
	StartDate   string        `json:"start_date" validate:"ymd"`
	EndDate     string        `json:"end_date" validate:"ymd"`
	Interests   []string      `json:"interests" validate:"max=10"`
	Itinerary   ItineraryData `json:"itinerary"`
}
