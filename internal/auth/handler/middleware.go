package handler

import (
	"context"
	"net/http"
	"strings"

	"session-auth-service/internal/auth/domain"
)

type contextKey string

// sessionContextKey holds the authorized session on the request context.
const sessionContextKey contextKey = "auth.session"

// RequireAuth guards a route with a bearer access token. The token must decode,
// carry a session id and expiry, be unexpired, and point at a validated open
// session. On success the session is stored on the request context.
func (s *Server) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "missing bearer token"})
			return
		}
		session, err := s.svc.Authorize(r.Context(), raw)
		if err != nil {
			writeError(w, err)
			return
		}
		ctx := context.WithValue(r.Context(), sessionContextKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionFromContext returns the session stored by RequireAuth, if any.
func SessionFromContext(ctx context.Context) (*domain.Session, bool) {
	session, ok := ctx.Value(sessionContextKey).(*domain.Session)
	return session, ok
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
