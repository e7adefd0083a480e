package trips

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-itinerary-ai/app/observability/metrics"
	"github.com/FACorreiaa/go-itinerary-ai/internal/types"
)

const dateLayout = "2006-01-02"

// DB is the subset of *pgxpool.Pool the repository needs.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

var _ Repository = (*PostgresTripsRepo)(nil)

type Repository interface {
	CreateTrip(ctx context.Context, userID uuid.UUID, params types.CreateTripParams) (*types.Trip, error)
	ListTrips(ctx context.Context, userID uuid.UUID) ([]types.Trip, error)
	GetTrip(ctx context.Context, userID, tripID uuid.UUID) (*types.Trip, error)
	DeleteTrip(ctx context.Context, userID, tripID uuid.UUID) error
}

type PostgresTripsRepo struct {
	pgpool DB
	logger *slog.Logger
}

func NewRepository(pgpool DB, logger *slog.Logger) *PostgresTripsRepo {
	return &PostgresTripsRepo{
		pgpool: pgpool,
		logger: logger,
	}
}

const tripColumns = `id, user_id, destination, start_date, end_date, interests, itinerary, created_at`

func (r *PostgresTripsRepo) CreateTrip(ctx context.Context, userID uuid.UUID, params types.CreateTripParams) (trip *types.Trip, err error) {
	ctx, span := otel.Tracer("TripsRepository").Start(ctx, "CreateTrip", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "INSERT"),
		attribute.String("user.id", userID.String()),
	))
	defer span.End()
	defer observeQuery(ctx, "create_trip", time.Now(), &err)

	l := r.logger.With(slog.String("method", "CreateTrip"), slog.String("userID", userID.String()))

	startDate, err := time.Parse(dateLayout, params.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: start_date: %v", types.ErrInvalidInput, err)
	}
	endDate, err := time.Parse(dateLayout, params.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: end_date: %v", types.ErrInvalidInput, err)
	}

	interests := params.Interests
	if interests == nil {
		interests = []string{}
	}
	itinerary := params.Itinerary
	if itinerary.Items == nil {
		itinerary.Items = []types.ItineraryItem{}
	}
	itineraryJSON, err := json.Marshal(itinerary)
	if err != nil {
		return nil, fmt.Errorf("failed to encode itinerary: %w", err)
	}

	query := `
		INSERT INTO trips (user_id, destination, start_date, end_date, interests, itinerary)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	trip = &types.Trip{
		UserID:      userID,
		Destination: params.Destination,
		StartDate:   startDate.Format(dateLayout),
		EndDate:     endDate.Format(dateLayout),
		Interests:   interests,
		Itinerary:   itinerary,
	}
	err = r.pgpool.QueryRow(ctx, query,
		userID, params.Destination, startDate, endDate, interests, itineraryJSON,
	).Scan(&trip.ID, &trip.CreatedAt)
	if err != nil {
		l.ErrorContext(ctx, "Failed to insert trip", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB insert failed")
		return nil, fmt.Errorf("failed to insert trip: %w", err)
	}

	l.InfoContext(ctx, "Trip created", slog.String("tripID", trip.ID.String()))
	span.SetAttributes(attribute.String("trip.id", trip.ID.String()))
	span.SetStatus(codes.Ok, "Trip created")
	return trip, nil
}

// ListTrips returns the user's trips, newest first.
func (r *PostgresTripsRepo) ListTrips(ctx context.Context, userID uuid.UUID) (_ []types.Trip, err error) {
	ctx, span := otel.Tracer("TripsRepository").Start(ctx, "ListTrips", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("user.id", userID.String()),
	))
	defer span.End()
	defer observeQuery(ctx, "list_trips", time.Now(), &err)

	l := r.logger.With(slog.String("method", "ListTrips"), slog.String("userID", userID.String()))

	query := `SELECT ` + tripColumns + `
		FROM trips
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pgpool.Query(ctx, query, userID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to query trips", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database query failed")
		return nil, fmt.Errorf("failed to query trips: %w", err)
	}
	defer rows.Close()

	trips := make([]types.Trip, 0)
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			l.ErrorContext(ctx, "Failed to scan trip row", slog.Any("error", err))
			span.RecordError(err)
			span.SetStatus(codes.Error, "Scan failed")
			return nil, err
		}
		trips = append(trips, *trip)
	}
	if err = rows.Err(); err != nil {
		l.ErrorContext(ctx, "Error iterating trip rows", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Row iteration failed")
		return nil, fmt.Errorf("error iterating trip rows: %w", err)
	}

	l.DebugContext(ctx, "Trips fetched", slog.Int("count", len(trips)))
	span.SetAttributes(attribute.Int("trips.count", len(trips)))
	span.SetStatus(codes.Ok, "Trips fetched")
	return trips, nil
}

// GetTrip returns types.ErrNotFound when the trip does not exist or belongs to someone else.
func (r *PostgresTripsRepo) GetTrip(ctx context.Context, userID, tripID uuid.UUID) (_ *types.Trip, err error) {
	ctx, span := otel.Tracer("TripsRepository").Start(ctx, "GetTrip", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("user.id", userID.String()),
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()
	defer observeQuery(ctx, "get_trip", time.Now(), &err)

	l := r.logger.With(slog.String("method", "GetTrip"), slog.String("tripID", tripID.String()))

	query := `SELECT ` + tripColumns + `
		FROM trips
		WHERE id = $1 AND user_id = $2`

	trip, err := scanTrip(r.pgpool.QueryRow(ctx, query, tripID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			l.InfoContext(ctx, "Trip not found")
			span.SetStatus(codes.Error, "Trip not found")
			return nil, fmt.Errorf("trip %s: %w", tripID, types.ErrNotFound)
		}
		l.ErrorContext(ctx, "Failed to fetch trip", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, err
	}

	span.SetStatus(codes.Ok, "Trip fetched")
	return trip, nil
}

func (r *PostgresTripsRepo) DeleteTrip(ctx context.Context, userID, tripID uuid.UUID) (err error) {
	ctx, span := otel.Tracer("TripsRepository").Start(ctx, "DeleteTrip", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "DELETE"),
		attribute.String("user.id", userID.String()),
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()
	defer observeQuery(ctx, "delete_trip", time.Now(), &err)

	l := r.logger.With(slog.String("method", "DeleteTrip"), slog.String("tripID", tripID.String()))

	tag, err := r.pgpool.Exec(ctx, `DELETE FROM trips WHERE id = $1 AND user_id = $2`, tripID, userID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to delete trip", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB delete failed")
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		l.InfoContext(ctx, "No trip deleted")
		span.SetStatus(codes.Error, "Trip not found")
		return fmt.Errorf("trip %s: %w", tripID, types.ErrNotFound)
	}

	l.InfoContext(ctx, "Trip deleted")
	span.SetStatus(codes.Ok, "Trip deleted")
	return nil
}

func scanTrip(row pgx.Row) (*types.Trip, error) {
	var (
		trip          types.Trip
		startDate     time.Time
		endDate       time.Time
		itineraryJSON []byte
	)
	err := row.Scan(
		&trip.ID, &trip.UserID, &trip.Destination, &startDate, &endDate,
		&trip.Interests, &itineraryJSON, &trip.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan trip: %w", err)
	}
	if len(itineraryJSON) > 0 {
		if err := json.Unmarshal(itineraryJSON, &trip.Itinerary); err != nil {
			return nil, fmt.Errorf("failed to decode itinerary of trip %s: %w", trip.ID, err)
		}
	}
	if trip.Itinerary.Items == nil {
		trip.Itinerary.Items = []types.ItineraryItem{}
	}
	if trip.Interests == nil {
		trip.Interests = []string{}
	}
	trip.StartDate = startDate.Format(dateLayout)
	trip.EndDate = endDate.Format(dateLayout)
	return &trip, nil
}

// observeQuery records duration and, for failures other than not-found, an error count.
func observeQuery(ctx context.Context, op string, start time.Time, errp *error) {
	m := metrics.Get()
	attrs := metric.WithAttributes(attribute.String("op", op))
	m.DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	if err := *errp; err != nil && !errors.Is(err, types.ErrNotFound) && !errors.Is(err, types.ErrInvalidInput) {
		m.DbQueryErrorsTotal.Add(ctx, 1, attrs)
	}
}
