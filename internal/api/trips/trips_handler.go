package trips

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	appMiddleware "github.com/FACorreiaa/go-itinerary-ai/app/middleware"
	"github.com/FACorreiaa/go-itinerary-ai/internal/api"
	"github.com/FACorreiaa/go-itinerary-ai/internal/types"
)

type HandlerImpl struct {
	service      Service
	maxBodyBytes int64
	logger       *slog.Logger
}

func NewHandler(service Service, maxBodyBytes int64, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		service:      service,
		maxBodyBytes: maxBodyBytes,
		logger:       logger,
	}
}

// CreateTrip godoc
// @Summary      Save trip
// @Description  Stores an itinerary as a trip of the authenticated user.
// @Tags         Trips
// @Accept       json
// @Produce      json
// @Param        trip body types.CreateTripParams true "Trip"
// @Success      201 {object} types.Trip
// @Failure      400 {object} types.ValidationErrorResponse
// @Failure      401 {object} types.Response
// @Failure      500 {object} types.Response
// @Security     BearerAuth
// @Router       /trips [post]
func (h *HandlerImpl) CreateTrip(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripsHandler").Start(r.Context(), "CreateTrip")
	defer span.End()
	l := h.requestLogger(ctx, "CreateTrip")

	userID, ok := appMiddleware.GetUserIDFromContext(ctx)
	if !ok {
		l.WarnContext(ctx, "User ID not found in context")
		span.SetStatus(codes.Error, "Unauthorized")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}
	span.SetAttributes(attribute.String("user.id", userID.String()))

	var params types.CreateTripParams
	if err := api.DecodeJSONBody(w, r, &params, api.WithMaxBytes(h.maxBodyBytes)); err != nil {
		l.InfoContext(ctx, "Failed to decode trip", slog.Any("error", err))
		span.SetStatus(codes.Error, "Bad request")
		writeInvalid(w, r, err)
		return
	}

	trip, err := h.service.CreateTrip(ctx, userID, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Create failed")
		h.writeError(w, r, l, err)
		return
	}

	span.SetStatus(codes.Ok, "Trip created")
	api.WriteJSONResponse(w, r, http.StatusCreated, trip)
}

// ListTrips godoc
// @Summary      List trips
// @Description  Returns the authenticated user's trips, newest first.
// @Tags         Trips
// @Produce      json
// @Success      200 {array} types.Trip
// @Failure      401 {object} types.Response
// @Failure      500 {object} types.Response
// @Security     BearerAuth
// @Router       /trips [get]
func (h *HandlerImpl) ListTrips(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripsHandler").Start(r.Context(), "ListTrips")
	defer span.End()
	l := h.requestLogger(ctx, "ListTrips")

	userID, ok := appMiddleware.GetUserIDFromContext(ctx)
	if !ok {
		l.WarnContext(ctx, "User ID not found in context")
		span.SetStatus(codes.Error, "Unauthorized")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	trips, err := h.service.ListTrips(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "List failed")
		h.writeError(w, r, l, err)
		return
	}

	span.SetAttributes(attribute.Int("trips.count", len(trips)))
	span.SetStatus(codes.Ok, "Trips listed")
	api.WriteJSONResponse(w, r, http.StatusOK, trips)
}

// GetTrip godoc
// @Summary      Get trip
// @Tags         Trips
// @Produce      json
// @Param        tripID path string true "Trip ID"
// @Success      200 {object} types.Trip
// @Failure      400 {object} types.Response
// @Failure      401 {object} types.Response
// @Failure      404 {object} types.Response
// @Security     BearerAuth
// @Router       /trips/{tripID} [get]
func (h *HandlerImpl) GetTrip(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripsHandler").Start(r.Context(), "GetTrip")
	defer span.End()
	l := h.requestLogger(ctx, "GetTrip")

	userID, tripID, ok := h.ids(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Bad request")
		return
	}
	span.SetAttributes(attribute.String("trip.id", tripID.String()))

	trip, err := h.service.GetTrip(ctx, userID, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Get failed")
		h.writeError(w, r, l, err)
		return
	}

	span.SetStatus(codes.Ok, "Trip fetched")
	api.WriteJSONResponse(w, r, http.StatusOK, trip)
}

// DeleteTrip godoc
// @Summary      Delete trip
// @Tags         Trips
// @Param        tripID path string true "Trip ID"
// @Success      204
// @Failure      400 {object} types.Response
// @Failure      401 {object} types.Response
// @Failure      404 {object} types.Response
// @Security     BearerAuth
// @Router       /trips/{tripID} [delete]
func (h *HandlerImpl) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripsHandler").Start(r.Context(), "DeleteTrip")
	defer span.End()
	l := h.requestLogger(ctx, "DeleteTrip")

	userID, tripID, ok := h.ids(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Bad request")
		return
	}
	span.SetAttributes(attribute.String("trip.id", tripID.String()))

	if err := h.service.DeleteTrip(ctx, userID, tripID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Delete failed")
		h.writeError(w, r, l, err)
		return
	}

	span.SetStatus(codes.Ok, "Trip deleted")
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

// DownloadTripPDF godoc
// @Summary      Download trip as PDF
// @Description  Printable itinerary with a QR code linking back to the trip.
// @Tags         Trips
// @Produce      application/pdf
// @Param        tripID path string true "Trip ID"
// @Success      200 {file} binary
// @Failure      400 {object} types.Response
// @Failure      401 {object} types.Response
// @Failure      404 {object} types.Response
// @Security     BearerAuth
// @Router       /trips/{tripID}/pdf [get]
func (h *HandlerImpl) DownloadTripPDF(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripsHandler").Start(r.Context(), "DownloadTripPDF")
	defer span.End()
	l := h.requestLogger(ctx, "DownloadTripPDF")

	userID, tripID, ok := h.ids(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Bad request")
		return
	}
	span.SetAttributes(attribute.String("trip.id", tripID.String()))

	doc, err := h.service.TripPDF(ctx, userID, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "PDF failed")
		h.writeError(w, r, l, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="trip-`+tripID.String()+`.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(doc)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc); err != nil {
		l.ErrorContext(ctx, "Failed to write PDF", slog.Any("error", err))
	}
	span.SetStatus(codes.Ok, "PDF sent")
}

// requestLogger tags the handler logger with the caller's token role, when there is one.
func (h *HandlerImpl) requestLogger(ctx context.Context, handler string) *slog.Logger {
	l := h.logger.With(slog.String("handler", handler))
	if role, ok := appMiddleware.GetUserRoleFromContext(ctx); ok && role != "" {
		l = l.With(slog.String("role", role))
	}
	return l
}

// ids reads the authenticated user and the {tripID} path parameter, writing the error response itself.
func (h *HandlerImpl) ids(w http.ResponseWriter, r *http.Request, l *slog.Logger) (uuid.UUID, uuid.UUID, bool) {
	ctx := r.Context()
	userID, ok := appMiddleware.GetUserIDFromContext(ctx)
	if !ok {
		l.WarnContext(ctx, "User ID not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, uuid.Nil, false
	}

	tripIDStr := chi.URLParam(r, "tripID")
	tripID, err := uuid.Parse(tripIDStr)
	if err != nil {
		l.InfoContext(ctx, "Invalid trip ID", slog.String("tripID", tripIDStr))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid trip ID format")
		return uuid.Nil, uuid.Nil, false
	}
	return userID, tripID, true
}

func (h *HandlerImpl) writeError(w http.ResponseWriter, r *http.Request, l *slog.Logger, err error) {
	switch {
	case errors.Is(err, types.ErrInvalidInput):
		writeInvalid(w, r, err)
	case errors.Is(err, types.ErrNotFound):
		api.ErrorResponse(w, r, http.StatusNotFound, "Trip not found")
	default:
		l.ErrorContext(r.Context(), "Trip request failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal server error")
	}
}

func writeInvalid(w http.ResponseWriter, r *http.Request, err error) {
	details := err.Error()
	var verr *api.ValidationError
	if errors.As(err, &verr) {
		details = verr.Details()
	}
	api.WriteJSONResponse(w, r, http.StatusBadRequest, types.ValidationErrorResponse{
		Error:   "Invalid input",
		Details: details,
	})
}
