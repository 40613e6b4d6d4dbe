package middleware

import (
	"bufio"
	"context"
	"net"
	"net/http"
	"time"

	"pocketnotes/internal/logging"
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := rw.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, http.ErrNotSupported
}

const requestUserKey contextKey = "requestUser"

// recordUser lets handlers further down the chain report the authenticated
// user back to LoggerMiddleware.
func recordUser(ctx context.Context, userID string) {
	if slot, ok := ctx.Value(requestUserKey).(*string); ok {
		*slot = userID
	}
}

func LoggerMiddleware(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			userID := new(string)
			ctx := context.WithValue(r.Context(), requestUserKey, userID)

			next.ServeHTTP(rw, r.WithContext(ctx))

			user := *userID
			if user == "" {
				user = "anonymous"
			}

			logger.Info(ctx, "request handled",
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
				"status", rw.statusCode,
				"duration", time.Since(start),
				"user", user,
			)
		})
	}
}
