package itinerary

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	appMiddleware "github.com/FACorreiaa/go-itinerary-ai/app/middleware"
	"github.com/FACorreiaa/go-itinerary-ai/app/observability/metrics"
	"github.com/FACorreiaa/go-itinerary-ai/internal/api"
	"github.com/FACorreiaa/go-itinerary-ai/internal/types"
)

const (
	msgInvalidInput = "Invalid input"
	msgAuthRequired = "Authentication required"
	msgProcessing   = "Failed to process request"
)

// TripSaver persists a generated itinerary for a user.
type TripSaver interface {
	CreateTrip(ctx context.Context, userID uuid.UUID, params types.CreateTripParams) (*types.Trip, error)
}

type ItineraryHandler struct {
	service      ItineraryService
	trips        TripSaver
	validator    *api.Validator
	maxBodyBytes int64
	logger       *slog.Logger
}

func NewItineraryHandler(service ItineraryService, trips TripSaver, maxBodyBytes int64, logger *slog.Logger) *ItineraryHandler {
	return &ItineraryHandler{
		service:      service,
		trips:        trips,
		validator:    api.NewValidator(),
		maxBodyBytes: maxBodyBytes,
		logger:       logger,
	}
}

// GenerateItinerary godoc
// @Summary      Generate itinerary
// @Description  Builds a one-day itinerary from screenshots and preferences, enriched with weather and images when available.
// @Tags         Itinerary
// @Accept       json
// @Produce      json
// @Param        request body types.ItineraryRequest true "Itinerary request"
// @Success      200 {object} types.ItineraryData
// @Failure      400 {object} types.ValidationErrorResponse
// @Failure      401 {object} types.GenerationErrorResponse
// @Failure      500 {object} types.GenerationErrorResponse
// @Security     BearerAuth
// @Router       /itineraries/generate [post]
func (h *ItineraryHandler) GenerateItinerary(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "GenerateItinerary", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String(r.URL.Path),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GenerateItinerary"))

	req, ok := h.decodeAndValidate(ctx, l, w, r)
	if !ok {
		return
	}

	data, err := h.service.Generate(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		h.fail(ctx, w, r)
		return
	}

	countRequest(ctx, "ok")
	span.SetStatus(codes.Ok, "")
	api.WriteJSONResponse(w, r, http.StatusOK, data)
}

// GenerateAndSaveItinerary godoc
// @Summary      Generate and save itinerary
// @Description  Generates an itinerary and stores it as a trip of the authenticated user. A failed save still returns the itinerary, without trip.
// @Tags         Itinerary
// @Accept       json
// @Produce      json
// @Param        request body types.ItineraryRequest true "Itinerary request"
// @Success      201 {object} types.SavedItineraryResponse
// @Success      200 {object} types.SavedItineraryResponse "Generated but not saved"
// @Failure      400 {object} types.ValidationErrorResponse
// @Failure      401 {object} types.GenerationErrorResponse
// @Failure      500 {object} types.GenerationErrorResponse
// @Security     BearerAuth
// @Router       /itineraries [post]
func (h *ItineraryHandler) GenerateAndSaveItinerary(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "GenerateAndSaveItinerary", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String(r.URL.Path),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GenerateAndSaveItinerary"))

	userID, ok := appMiddleware.GetUserIDFromContext(ctx)
	if !ok {
		l.WarnContext(ctx, "User ID not found in context")
		countRequest(ctx, "unauthenticated")
		api.WriteJSONResponse(w, r, http.StatusUnauthorized, types.GenerationErrorResponse{Error: msgAuthRequired})
		return
	}
	span.SetAttributes(semconv.EnduserIDKey.String(userID.String()))
	l = l.With(slog.String("userID", userID.String()))

	req, ok := h.decodeAndValidate(ctx, l, w, r)
	if !ok {
		return
	}

	data, err := h.service.Generate(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		h.fail(ctx, w, r)
		return
	}
	countRequest(ctx, "ok")

	resp := types.SavedItineraryResponse{Itinerary: *data}
	if h.trips == nil {
		l.WarnContext(ctx, "Trip storage not configured, returning unsaved itinerary")
		api.WriteJSONResponse(w, r, http.StatusOK, resp)
		return
	}

	trip, err := h.trips.CreateTrip(ctx, userID, types.CreateTripParams{
		Destination: req.Location,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Interests:   req.Interests,
		Itinerary:   *data,
	})
	if err != nil {
		span.RecordError(err)
		l.ErrorContext(ctx, "Failed to save generated itinerary", slog.Any("error", err))
		api.WriteJSONResponse(w, r, http.StatusOK, resp)
		return
	}

	resp.Trip = trip
	span.SetStatus(codes.Ok, "")
	api.WriteJSONResponse(w, r, http.StatusCreated, resp)
}

// decodeAndValidate writes the 400 response itself when it returns false.
func (h *ItineraryHandler) decodeAndValidate(ctx context.Context, l *slog.Logger, w http.ResponseWriter, r *http.Request) (types.ItineraryRequest, bool) {
	var req types.ItineraryRequest
	err := api.DecodeJSONBody(w, r, &req, api.AllowUnknownFields(), api.RejectNulls(), api.WithMaxBytes(h.maxBodyBytes))
	err = h.validator.StructAfterDecode(req, err)
	if err == nil {
		return req, true
	}

	var verr *api.ValidationError
	details := err.Error()
	if errors.As(err, &verr) {
		details = verr.Details()
	}
	l.InfoContext(ctx, "Rejected itinerary request", slog.String("details", details))
	countRequest(ctx, "invalid")
	api.WriteJSONResponse(w, r, http.StatusBadRequest, types.ValidationErrorResponse{
		Error:   msgInvalidInput,
		Details: details,
	})
	return types.ItineraryRequest{}, false
}

func (h *ItineraryHandler) fail(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	countRequest(ctx, "error")
	api.WriteJSONResponse(w, r, http.StatusInternalServerError, types.GenerationErrorResponse{Error: msgProcessing})
}

func countRequest(ctx context.Context, outcome string) {
	metrics.Get().ItineraryRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
