package stub

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/testplatform/probe/internal/platform/logger"
	"github.com/testplatform/probe/internal/redact"
)

type contextKey string

const (
	traceIDKey contextKey = "traceID"
	claimsKey  contextKey = "claims"

	// TraceIDHeader echoes the request's trace id back to the caller.
	TraceIDHeader = "X-Trace-ID"

	requestIDHeader = "X-Request-ID"
)

// TraceID returns the trace id assigned to the request, or "".
func TraceID(ctx context.Context) string {
	id, _ := ctx.Value(traceIDKey).(string)
	return id
}

// ClaimsFromContext returns the claims of an authenticated request.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*Claims)
	return c, ok
}

// traceMiddleware assigns every request a trace id, reusing a well-formed
// X-Request-ID sent by the caller, and puts a trace-scoped logger in the
// request context.
func traceMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := r.Header.Get(requestIDHeader)
			if _, err := uuid.Parse(traceID); err != nil {
				traceID = uuid.NewString()
			}

			log := base.With(slog.String("trace_id", traceID))
			ctx := context.WithValue(r.Context(), traceIDKey, traceID)
			ctx = logger.WithLogger(ctx, log)

			w.Header().Set(TraceIDHeader, traceID)
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r.WithContext(ctx))

			log.Debug("request completed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status_code", ww.Status()),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("duration", time.Since(start)))
		})
	}
}

// authenticate rejects requests without a valid bearer access token and
// stores the token's claims in the request context.
func authenticate(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				respondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
				return
			}

			parts := strings.Split(header, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				respondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
				return
			}

			claims, err := tokens.Validate(r.Context(), parts[1])
			if err != nil {
				switch {
				case errors.Is(err, ErrExpiredToken):
					respondWithError(w, r, http.StatusUnauthorized, "Token expired")
				case errors.Is(err, ErrInvalidToken), errors.Is(err, ErrWrongTokenType):
					respondWithError(w, r, http.StatusUnauthorized, "Invalid token")
				default:
					logger.FromContext(r.Context()).Error("failed to validate token", "error", redact.Error(err))
					respondWithError(w, r, http.StatusInternalServerError, "Authentication error")
				}
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
