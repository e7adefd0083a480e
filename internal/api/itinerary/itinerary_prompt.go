package itinerary

import (
	"fmt"
	"strings"

	"github.com/FACorreiaa/go-itinerary-ai/internal/types"
)

const systemPromptTemplate = `You are an expert travel planner. Analyze the provided screenshots and user preferences to create an optimized daily itinerary.

Consider:
- User's interests: %s
- Location: %s
- Date: %s
- Additional notes: %s
- AI suggestions allowed: %t

Extract event details, venue information, and timing from screenshots. Create a realistic schedule that:
1. Groups nearby activities
2. Accounts for typical travel time between locations
3. Balances activity types
4. Includes breaks and meal times
5. Respects typical venue hours

Return a JSON object with:
{
  "date": "YYYY-MM-DD",
  "summary": "Brief engaging summary of the day",
  "items": [
    {
      "id": "unique-id",
      "time": "HH:MM AM/PM",
      "title": "Activity name",
      "location": "Full address or location name",
      "description": "Detailed description",
      "category": "Art & Museums|Food & Dining|etc",
      "duration": "X hours|X mins",
      "travelTime": "X mins" (if not first item)
    }
  ]
}`

func systemPrompt(req types.ItineraryRequest) string {
	notes := req.AdditionalNotes
	if notes == "" {
		notes = "None"
	}
	return fmt.Sprintf(systemPromptTemplate,
		strings.Join(req.Interests, ", "),
		req.Location,
		req.StartDate,
		notes,
		req.AllowAISuggestions,
	)
}

func userPrompt(req types.ItineraryRequest) string {
	return fmt.Sprintf("Create an itinerary for %s on %s. Here are my screenshots of places/events I want to include:", req.Location, req.StartDate)
}

func imagePrompt(item types.ItineraryItem) string {
	return fmt.Sprintf("A high-quality, vibrant travel photograph representing: %s at %s. %s. Style: professional travel photography, colorful, engaging, 16:9 aspect ratio.",
		item.Title, item.Location, item.Description)
}
