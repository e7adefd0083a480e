package trips

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appMiddleware "github.com/FACorreiaa/go-itinerary-ai/app/middleware"
	"github.com/FACorreiaa/go-itinerary-ai/internal/api"
	"github.com/FACorreiaa/go-itinerary-ai/internal/types"
)

// MockService is a mock implementation of Service
type MockService struct {
	mock.Mock
}

func (m *MockService) CreateTrip(ctx context.Context, userID uuid.UUID, params types.CreateTripParams) (*types.Trip, error) {
	args := m.Called(ctx, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Trip), args.Error(1)
}

func (m *MockService) ListTrips(ctx context.Context, userID uuid.UUID) ([]types.Trip, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Trip), args.Error(1)
}

func (m *MockService) GetTrip(ctx context.Context, userID, tripID uuid.UUID) (*types.Trip, error) {
	args := m.Called(ctx, userID, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Trip), args.Error(1)
}

func (m *MockService) DeleteTrip(ctx context.Context, userID, tripID uuid.UUID) error {
	return m.Called(ctx, userID, tripID).Error(0)
}

func (m *MockService) TripPDF(ctx context.Context, userID, tripID uuid.UUID) ([]byte, error) {
	args := m.Called(ctx, userID, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// tripsRouter mounts the handler the way the app router does, with userID injected in place of JWT auth.
func tripsRouter(h *HandlerImpl, userID uuid.UUID) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID != uuid.Nil {
				r = r.WithContext(appMiddleware.WithUserID(r.Context(), userID))
			}
			next.ServeHTTP(w, r)
		})
	})
	r.Post("/trips", h.CreateTrip)
	r.Get("/trips", h.ListTrips)
	r.Get("/trips/{tripID}", h.GetTrip)
	r.Delete("/trips/{tripID}", h.DeleteTrip)
	r.Get("/trips/{tripID}/pdf", h.DownloadTripPDF)
	return r
}

func serve(handler http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

const tripBody = `{"destination":"Lisbon","start_date":"2025-06-01","end_date":"2025-06-02","interests":["Art & Museums"],"itinerary":{"date":"2025-06-01","summary":"","items":[]}}`

func TestHandlerImpl_CreateTrip(t *testing.T) {
	userID := uuid.New()

	t.Run("created", func(t *testing.T) {
		svc := new(MockService)
		trip := &types.Trip{ID: uuid.New(), UserID: userID, Destination: "Lisbon", Interests: []string{}}
		svc.On("CreateTrip", mock.Anything, userID, mock.MatchedBy(func(p types.CreateTripParams) bool {
			return p.Destination == "Lisbon" && p.StartDate == "2025-06-01"
		})).Return(trip, nil).Once()

		rec := serve(tripsRouter(NewHandler(svc, 0, discard), userID), http.MethodPost, "/trips", tripBody)

		require.Equal(t, http.StatusCreated, rec.Code)
		var got types.Trip
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, trip.ID, got.ID)
		svc.AssertExpectations(t)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		svc := new(MockService)
		rec := serve(tripsRouter(NewHandler(svc, 0, discard), uuid.Nil), http.MethodPost, "/trips", tripBody)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		svc.AssertNotCalled(t, "CreateTrip", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("malformed body", func(t *testing.T) {
		svc := new(MockService)
		rec := serve(tripsRouter(NewHandler(svc, 0, discard), userID), http.MethodPost, "/trips", `{"destination":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid input")
	})

	t.Run("validation failure from service", func(t *testing.T) {
		svc := new(MockService)
		verr := &api.ValidationError{Violations: []api.FieldViolation{{Field: "destination", Message: "Destination is required"}}}
		svc.On("CreateTrip", mock.Anything, userID, mock.Anything).Return(nil, verr).Once()

		rec := serve(tripsRouter(NewHandler(svc, 0, discard), userID), http.MethodPost, "/trips", tripBody)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		var body types.ValidationErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "destination: Destination is required", body.Details)
	})
}

func TestHandlerImpl_ListTrips(t *testing.T) {
	userID := uuid.New()
	svc := new(MockService)
	svc.On("ListTrips", mock.Anything, userID).Return([]types.Trip{{ID: uuid.New()}, {ID: uuid.New()}}, nil).Once()

	rec := serve(tripsRouter(NewHandler(svc, 0, discard), userID), http.MethodGet, "/trips", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var got []types.Trip
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got, 2)
}

func TestHandlerImpl_GetTrip(t *testing.T) {
	userID, tripID := uuid.New(), uuid.New()

	tests := []struct {
		name   string
		target string
		setup  func(svc *MockService)
		status int
	}{
		{
			name:   "found",
			target: "/trips/" + tripID.String(),
			setup: func(svc *MockService) {
				svc.On("GetTrip", mock.Anything, userID, tripID).Return(&types.Trip{ID: tripID}, nil)
			},
			status: http.StatusOK,
		},
		{
			name:   "not found",
			target: "/trips/" + tripID.String(),
			setup: func(svc *MockService) {
				svc.On("GetTrip", mock.Anything, userID, tripID).Return(nil, types.ErrNotFound)
			},
			status: http.StatusNotFound,
		},
		{
			name:   "bad id",
			target: "/trips/not-a-uuid",
			setup:  func(*MockService) {},
			status: http.StatusBadRequest,
		},
		{
			name:   "storage failure",
			target: "/trips/" + tripID.String(),
			setup: func(svc *MockService) {
				svc.On("GetTrip", mock.Anything, userID, tripID).Return(nil, errors.New("db down"))
			},
			status: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setup(svc)
			rec := serve(tripsRouter(NewHandler(svc, 0, discard), userID), http.MethodGet, tt.target, "")
			assert.Equal(t, tt.status, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestHandlerImpl_DeleteTrip(t *testing.T) {
	userID, tripID := uuid.New(), uuid.New()

	t.Run("deleted", func(t *testing.T) {
		svc := new(MockService)
		svc.On("DeleteTrip", mock.Anything, userID, tripID).Return(nil).Once()
		rec := serve(tripsRouter(NewHandler(svc, 0, discard), userID), http.MethodDelete, "/trips/"+tripID.String(), "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("not owned", func(t *testing.T) {
		svc := new(MockService)
		svc.On("DeleteTrip", mock.Anything, userID, tripID).Return(types.ErrNotFound).Once()
		rec := serve(tripsRouter(NewHandler(svc, 0, discard), userID), http.MethodDelete, "/trips/"+tripID.String(), "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandlerImpl_DownloadTripPDF(t *testing.T) {
	userID, tripID := uuid.New(), uuid.New()
	svc := new(MockService)
	svc.On("TripPDF", mock.Anything, userID, tripID).Return([]byte("%PDF-1.3 fake"), nil).Once()

	rec := serve(tripsRouter(NewHandler(svc, 0, discard), userID), http.MethodGet, "/trips/"+tripID.String()+"/pdf", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "trip-"+tripID.String()+".pdf")
	assert.Equal(t, "%PDF-1.3 fake", rec.Body.String())
}

func TestHandlerImpl_LogsCallerRole(t *testing.T) {
	userID, tripID := uuid.New(), uuid.New()
	svc := new(MockService)
	svc.On("GetTrip", mock.Anything, userID, tripID).Return(nil, errors.New("connection reset")).Once()

	var buf bytes.Buffer
	h := NewHandler(svc, 0, slog.New(slog.NewTextHandler(&buf, nil)))
	withRole := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(appMiddleware.WithUserRole(r.Context(), "authenticated")))
		})
	}

	rec := serve(withRole(tripsRouter(h, userID)), http.MethodGet, "/trips/"+tripID.String(), "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, buf.String(), "Trip request failed")
	assert.Contains(t, buf.String(), "role=authenticated")
	assert.Contains(t, buf.String(), "handler=GetTrip")
}
