package types

// Response is the error body written by api.ErrorResponse.
type Response struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	RequestID string `json:"request_id"`
}

// SavedItineraryResponse is returned when an itinerary is generated and stored in one call.
// Trip is omitted when generation succeeded but saving did not.
type SavedItineraryResponse struct {
	Itinerary ItineraryData `json:"itinerary"`
	Trip      *Trip         `json:"trip,omitempty"`
}
