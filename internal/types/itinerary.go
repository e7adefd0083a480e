package types

// ItineraryRequest is the body accepted by the itinerary generation endpoint.
type ItineraryRequest struct {
	Location           string   `json:"location" validate:"required,max=200" example:"Lisbon"`
	StartDate          string   `json:"startDate" validate:"ymd" example:"2025-06-01"`
	EndDate            string   `json:"endDate" validate:"ymd" example:"2025-06-03"`
	Interests          []string `json:"interests" validate:"required,max=10"`
	Screenshots        []string `json:"screenshots" validate:"required,max=10"` // data:image/...;base64,...
	AdditionalNotes    string   `json:"additionalNotes,omitempty" validate:"max=1000"`
	AllowAISuggestions bool     `json:"allowAISuggestions,omitempty"`
}

// ItineraryItem is one scheduled activity of the day.
type ItineraryItem struct {
	ID          string `json:"id"`
	Time        string `json:"time" example:"09:00 AM"`
	Title       string `json:"title"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Category    string `json:"category" example:"Food & Dining"`
	Duration    string `json:"duration" example:"2 hours"`
	Weather     string `json:"weather,omitempty" example:"Clear, 22°C"`
	TravelTime  string `json:"travelTime,omitempty" example:"15 mins"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// ItineraryData is the generated day plan. Items keep the order the model returned them in.
type ItineraryData struct {
	Date    string          `json:"date"`
	Summary string          `json:"summary"`
	Items   []ItineraryItem `json:"items"`
}

// ValidationErrorResponse is the 400 body of the generation endpoint.
type ValidationErrorResponse struct {
	Error   string `json:"error" example:"Invalid input"`
	Details string `json:"details" example:"location: Location is required"`
}

// GenerationErrorResponse is the 401/500 body of the generation endpoint.
type GenerationErrorResponse struct {
	Error string `json:"error" example:"Failed to process request"`
}
