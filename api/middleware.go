package api

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"mailvault/errors"
	"mailvault/services"
)

type contextKey string

const userContextKey contextKey = "authenticated-user"

// userFrom extracts the identity the auth middleware stored on the
// request context.
func userFrom(ctx context.Context) (services.AuthenticatedUser, bool) {
	user, ok := ctx.Value(userContextKey).(services.AuthenticatedUser)
	return user, ok
}

// statusRecorder captures the status code a handler wrote so the
// logging middleware can report it.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		s.monitor.IncrRequestsServed()
		s.log.Info("request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status", recorder.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// maintenanceMiddleware rejects every request except the health probe
// while the maintenance flag is on.
func (s *Server) maintenanceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.maintenanceMode && r.URL.Path != "/health" {
			w.Header().Set("Retry-After", "300")
			writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "server is under maintenance"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// rateLimitMiddleware enforces a per-client fixed window keyed on the
// remote address. The identifier falls back to the raw RemoteAddr when
// it does not parse as host:port.
func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		decision := s.limiter.Check(clientIdentifier(r), s.rateLimitMax, s.rateLimitWindow)
		if !decision.Allowed {
			s.monitor.IncrRequestsDenied()
			w.Header().Set("Retry-After", decision.ResetAt.UTC().Format(http.TimeFormat))
			writeError(w, errors.ErrRateLimited)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := s.auth.UserFromToken(r.Header.Get("Authorization"))
		if err != nil {
			s.monitor.IncrAuthFailures()
			writeError(w, err)
			return
		}
		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func clientIdentifier(r *http.Request) string {
	// A trusted reverse proxy sets the originating client address.
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
