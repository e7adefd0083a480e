package itinerary

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/FACorreiaa/go-itinerary-ai/internal/types"
)

const fallbackSummary = "Unable to fully process screenshots. Here's a basic itinerary based on your preferences."

// flexString accepts any JSON scalar. Models occasionally answer "duration": 2 instead of "2 hours".
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*f = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
	case bytes.Equal(b, []byte("true")), bytes.Equal(b, []byte("false")):
		*f = flexString(b)
	default:
		if _, err := strconv.ParseFloat(string(b), 64); err != nil {
			return fmt.Errorf("expected a string, got %s", b)
		}
		*f = flexString(b)
	}
	return nil
}

// rawItem is what the model is allowed to set. weather and imageUrl are filled by enrichment only.
type rawItem struct {
	ID          flexString `json:"id"`
	Time        flexString `json:"time"`
	Title       flexString `json:"title"`
	Location    flexString `json:"location"`
	Description flexString `json:"description"`
	Category    flexString `json:"category"`
	Duration    flexString `json:"duration"`
	TravelTime  flexString `json:"travelTime"`
}

type rawItinerary struct {
	Date    flexString `json:"date"`
	Summary flexString `json:"summary"`
	Items   []rawItem  `json:"items"`
}

var errNotAnObject = errors.New("model answer is not a JSON object")

// cleanJSONResponse strips markdown fences and any prose around the outermost JSON object.
func cleanJSONResponse(response string) string {
	response = strings.TrimSpace(response)

	if strings.HasPrefix(response, "```json") {
		response = strings.TrimPrefix(response, "```json")
	} else if strings.HasPrefix(response, "```") {
		response = strings.TrimPrefix(response, "```")
	}
	response = strings.TrimSuffix(response, "```")
	response = strings.TrimSpace(response)
	if strings.HasPrefix(response, "[") {
		return response
	}

	firstBrace := strings.Index(response, "{")
	if firstBrace == -1 {
		return response
	}
	lastBrace := strings.LastIndex(response, "}")
	if lastBrace <= firstBrace {
		return response
	}
	return strings.TrimSpace(response[firstBrace : lastBrace+1])
}

// parseItinerary decodes the model answer. Items keep the model's order and always get a
// unique id; a missing date falls back to startDate.
func parseItinerary(content, startDate string) (types.ItineraryData, error) {
	cleaned := cleanJSONResponse(content)
	if !strings.HasPrefix(cleaned, "{") {
		return types.ItineraryData{}, errNotAnObject
	}

	var raw rawItinerary
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return types.ItineraryData{}, fmt.Errorf("failed to parse itinerary JSON: %w", err)
	}

	data := types.ItineraryData{
		Date:    string(raw.Date),
		Summary: string(raw.Summary),
		Items:   make([]types.ItineraryItem, 0, len(raw.Items)),
	}
	if data.Date == "" {
		data.Date = startDate
	}

	seen := make(map[string]struct{}, len(raw.Items))
	for _, ri := range raw.Items {
		id := strings.TrimSpace(string(ri.ID))
		if _, dup := seen[id]; id == "" || dup {
			id = uuid.NewString()
		}
		seen[id] = struct{}{}

		data.Items = append(data.Items, types.ItineraryItem{
			ID:          id,
			Time:        string(ri.Time),
			Title:       string(ri.Title),
			Location:    string(ri.Location),
			Description: string(ri.Description),
			Category:    string(ri.Category),
			Duration:    string(ri.Duration),
			TravelTime:  string(ri.TravelTime),
		})
	}
	return data, nil
}

func fallbackItinerary(startDate string) types.ItineraryData {
	return types.ItineraryData{
		Date:    startDate,
		Summary: fallbackSummary,
		Items:   []types.ItineraryItem{},
	}
}
