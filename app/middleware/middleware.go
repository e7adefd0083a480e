package appMiddleware

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/FACorreiaa/go-itinerary-ai/config"
	"github.com/FACorreiaa/go-itinerary-ai/internal/api"
	"github.com/FACorreiaa/go-itinerary-ai/internal/types"
)

const (
	authRequiredMessage = "Authentication required"
	processingMessage   = "Failed to process request"
)

func unauthorized(w http.ResponseWriter, r *http.Request) {
	api.WriteJSONResponse(w, r, http.StatusUnauthorized, types.GenerationErrorResponse{Error: authRequiredMessage})
}

// RequireCredential rejects requests without an Authorization header.
// It checks presence only; the token itself is not inspected.
func RequireCredential(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.TrimSpace(r.Header.Get("Authorization")) == "" {
			unauthorized(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Authenticate verifies an HS256 bearer token against the configured secret, issuer
// and audience, then stores the subject as user id in the request context.
func Authenticate(cfg config.JWTConfig, logger *slog.Logger) func(http.Handler) http.Handler {
	secret := []byte(cfg.SecretKey)
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	parser := jwt.NewParser(opts...)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			l := logger.With(slog.String("middleware", "Authenticate"))

			authHeader := r.Header.Get("Authorization")
			scheme, tokenString, found := strings.Cut(authHeader, " ")
			if !found || !strings.EqualFold(scheme, "bearer") || tokenString == "" {
				unauthorized(w, r)
				return
			}
			if len(secret) == 0 {
				l.ErrorContext(r.Context(), "JWT secret not configured")
				unauthorized(w, r)
				return
			}

			claims := &Claims{}
			token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				return secret, nil
			})
			if err != nil || !token.Valid {
				l.DebugContext(r.Context(), "Token rejected", slog.Any("error", err))
				unauthorized(w, r)
				return
			}
			if !api.VerifyAudience(claims.Audience, cfg.Audience) {
				l.DebugContext(r.Context(), "Token audience mismatch", slog.Any("aud", claims.Audience))
				unauthorized(w, r)
				return
			}

			userID, err := uuid.Parse(claims.Subject)
			if err != nil {
				l.DebugContext(r.Context(), "Token subject is not a user id", slog.String("sub", claims.Subject))
				unauthorized(w, r)
				return
			}

			ctx := WithUserID(r.Context(), userID)
			ctx = WithUserRole(ctx, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Recoverer turns a handler panic into the generic 500 body.
func Recoverer(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}
				logger.ErrorContext(r.Context(), "Recovered from panic",
					slog.Any("panic", rec),
					slog.String("path", r.URL.Path),
					slog.String("stack", string(debug.Stack())),
				)
				api.WriteJSONResponse(w, r, http.StatusInternalServerError, types.GenerationErrorResponse{Error: processingMessage})
			}()
			next.ServeHTTP(w, r)
		})
	}
}
