package trips

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-itinerary-ai/internal/api"
	"github.com/FACorreiaa/go-itinerary-ai/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	CreateTrip(ctx context.Context, userID uuid.UUID, params types.CreateTripParams) (*types.Trip, error)
	ListTrips(ctx context.Context, userID uuid.UUID) ([]types.Trip, error)
	GetTrip(ctx context.Context, userID, tripID uuid.UUID) (*types.Trip, error)
	DeleteTrip(ctx context.Context, userID, tripID uuid.UUID) error
	TripPDF(ctx context.Context, userID, tripID uuid.UUID) ([]byte, error)
}

type ServiceImpl struct {
	repo      Repository
	validator *api.Validator
	publicURL string
	logger    *slog.Logger
}

func NewServiceImpl(repo Repository, publicURL string, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		repo:      repo,
		validator: api.NewValidator(),
		publicURL: publicURL,
		logger:    logger,
	}
}

// CreateTrip validates params and stores them. Validation failures wrap types.ErrInvalidInput.
func (s *ServiceImpl) CreateTrip(ctx context.Context, userID uuid.UUID, params types.CreateTripParams) (*types.Trip, error) {
	ctx, span := otel.Tracer("TripsService").Start(ctx, "CreateTrip", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("trip.destination", params.Destination),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "CreateTrip"), slog.String("userID", userID.String()))

	if err := s.validator.Struct(params); err != nil {
		l.InfoContext(ctx, "Rejected trip", slog.Any("error", err))
		span.SetStatus(codes.Error, "Invalid trip")
		return nil, err
	}

	trip, err := s.repo.CreateTrip(ctx, userID, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create trip")
		return nil, fmt.Errorf("failed to create trip: %w", err)
	}
	span.SetStatus(codes.Ok, "Trip created")
	return trip, nil
}

func (s *ServiceImpl) ListTrips(ctx context.Context, userID uuid.UUID) ([]types.Trip, error) {
	ctx, span := otel.Tracer("TripsService").Start(ctx, "ListTrips", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	trips, err := s.repo.ListTrips(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list trips")
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	span.SetStatus(codes.Ok, "Trips listed")
	return trips, nil
}

func (s *ServiceImpl) GetTrip(ctx context.Context, userID, tripID uuid.UUID) (*types.Trip, error) {
	ctx, span := otel.Tracer("TripsService").Start(ctx, "GetTrip", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	trip, err := s.repo.GetTrip(ctx, userID, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to get trip")
		return nil, err
	}
	span.SetStatus(codes.Ok, "Trip fetched")
	return trip, nil
}

func (s *ServiceImpl) DeleteTrip(ctx context.Context, userID, tripID uuid.UUID) error {
	ctx, span := otel.Tracer("TripsService").Start(ctx, "DeleteTrip", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	if err := s.repo.DeleteTrip(ctx, userID, tripID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to delete trip")
		return err
	}
	span.SetStatus(codes.Ok, "Trip deleted")
	return nil
}

// TripPDF renders an owned trip as a printable PDF.
func (s *ServiceImpl) TripPDF(ctx context.Context, userID, tripID uuid.UUID) ([]byte, error) {
	ctx, span := otel.Tracer("TripsService").Start(ctx, "TripPDF", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	trip, err := s.repo.GetTrip(ctx, userID, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to get trip")
		return nil, err
	}

	doc, err := RenderPDF(trip, s.publicURL)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to render trip PDF", slog.String("tripID", tripID.String()), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to render PDF")
		return nil, err
	}
	span.SetAttributes(attribute.Int("pdf.bytes", len(doc)))
	span.SetStatus(codes.Ok, "PDF rendered")
	return doc, nil
}
