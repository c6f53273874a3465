package http

import (
	"net/http"
	"time"

	"github.com/tair/catalog-service/pkg/logger"
)

const actorHeader = "X-Actor-ID"

// actorFromRequest extracts the acting user for audit stamping. The identity
// is established upstream (gateway or reverse proxy); an absent header falls
// back to "anonymous".
func actorFromRequest(r *http.Request) string {
	if actor := r.Header.Get(actorHeader); actor != "" {
		return actor
	}
	return "anonymous"
}

// LoggingMiddleware logs every request with method, path, status and latency
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		logger.Logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rw.statusCode).
			Dur("duration", time.Since(start)).
			Str("actor", actorFromRequest(r)).
			Msg("HTTP request")
	})
}
