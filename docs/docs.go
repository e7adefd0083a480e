// Package docs holds the Swagger document served at /swagger.
// Keep it in sync with the handler annotations (swag init -g main.go -o docs).
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/itineraries/generate": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Builds a one-day itinerary from screenshots and preferences, enriched with weather and images when available.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Itinerary"],
                "summary": "Generate itinerary",
                "parameters": [
                    {"description": "Itinerary request", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.ItineraryRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ItineraryData"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ValidationErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/types.GenerationErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/types.GenerationErrorResponse"}}
                }
            }
        },
        "/itineraries": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Generates an itinerary and stores it as a trip of the authenticated user. A failed save still returns the itinerary, without trip.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Itinerary"],
                "summary": "Generate and save itinerary",
                "parameters": [
                    {"description": "Itinerary request", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.ItineraryRequest"}}
                ],
                "responses": {
                    "200": {"description": "Generated but not saved", "schema": {"$ref": "#/definitions/types.SavedItineraryResponse"}},
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/types.SavedItineraryResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ValidationErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/types.GenerationErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/types.GenerationErrorResponse"}}
                }
            }
        },
        "/trips": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Returns the authenticated user's trips, newest first.",
                "produces": ["application/json"],
                "tags": ["Trips"],
                "summary": "List trips",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/types.Trip"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/types.Response"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/types.Response"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Stores an itinerary as a trip of the authenticated user.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Trips"],
                "summary": "Save trip",
                "parameters": [
                    {"description": "Trip", "name": "trip", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.CreateTripParams"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/types.Trip"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ValidationErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/types.Response"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/types.Response"}}
                }
            }
        },
        "/trips/{tripID}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Trips"],
                "summary": "Get trip",
                "parameters": [{"type": "string", "description": "Trip ID", "name": "tripID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.Trip"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/types.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.Response"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Trips"],
                "summary": "Delete trip",
                "parameters": [{"type": "string", "description": "Trip ID", "name": "tripID", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/types.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.Response"}}
                }
            }
        },
        "/trips/{tripID}/pdf": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Printable itinerary with a QR code linking back to the trip.",
                "produces": ["application/pdf"],
                "tags": ["Trips"],
                "summary": "Download trip as PDF",
                "parameters": [{"type": "string", "description": "Trip ID", "name": "tripID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/types.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.Response"}}
                }
            }
        }
    },
    "definitions": {
        "types.ItineraryRequest": {
            "type": "object",
            "required": ["location", "startDate", "endDate", "interests"],
            "properties": {
                "location": {"type": "string", "maxLength": 200, "example": "Lisbon"},
                "startDate": {"type": "string", "example": "2025-06-01"},
                "endDate": {"type": "string", "example": "2025-06-02"},
                "interests": {"type": "array", "maxItems": 10, "items": {"type": "string"}},
                "screenshots": {"type": "array", "maxItems": 10, "items": {"type": "string"}},
                "additionalNotes": {"type": "string", "maxLength": 1000},
                "allowAISuggestions": {"type": "boolean"}
            }
        },
        "types.ItineraryItem": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "time": {"type": "string", "example": "09:00 AM"},
                "title": {"type": "string"},
                "location": {"type": "string"},
                "description": {"type": "string"},
                "category": {"type": "string", "example": "Food & Dining"},
                "duration": {"type": "string", "example": "2 hours"},
                "weather": {"type": "string", "example": "Clear, 22°C"},
                "travelTime": {"type": "string", "example": "15 mins"},
                "imageUrl": {"type": "string"}
            }
        },
        "types.ItineraryData": {
            "type": "object",
            "properties": {
                "date": {"type": "string", "example": "2025-06-01"},
                "summary": {"type": "string"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/types.ItineraryItem"}}
            }
        },
        "types.SavedItineraryResponse": {
            "type": "object",
            "properties": {
                "itinerary": {"$ref": "#/definitions/types.ItineraryData"},
                "trip": {"$ref": "#/definitions/types.Trip"}
            }
        },
        "types.CreateTripParams": {
            "type": "object",
            "required": ["destination", "start_date", "end_date"],
            "properties": {
                "destination": {"type": "string", "maxLength": 200},
                "start_date": {"type": "string", "example": "2025-06-01"},
                "end_date": {"type": "string", "example": "2025-06-02"},
                "interests": {"type": "array", "maxItems": 10, "items": {"type": "string"}},
                "itinerary": {"$ref": "#/definitions/types.ItineraryData"}
            }
        },
        "types.Trip": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "user_id": {"type": "string", "format": "uuid"},
                "destination": {"type": "string"},
                "start_date": {"type": "string"},
                "end_date": {"type": "string"},
                "interests": {"type": "array", "items": {"type": "string"}},
                "itinerary": {"$ref": "#/definitions/types.ItineraryData"},
                "created_at": {"type": "string", "format": "date-time"}
            }
        },
        "types.ValidationErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "Invalid input"},
                "details": {"type": "string", "example": "location: Location is required"}
            }
        },
        "types.GenerationErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "Failed to process request"}
            }
        },
        "types.Response": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "error": {"type": "string"},
                "request_id": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Itinerary AI API",
	Description:      "Generates one-day travel itineraries from screenshots and preferences.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
