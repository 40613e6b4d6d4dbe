package middleware

import (
	"context"
	"net/http"
	"strings"

	"pocketnotes/internal/domain"
	"pocketnotes/internal/service"
	"pocketnotes/pkg/jwt"
	"pocketnotes/pkg/response"
)

type contextKey string

const UserIDKey contextKey = "userID"

// Session exposes the signed-in user the access token must belong to.
type Session interface {
	State() service.SessionState
	CurrentUser() *domain.User
}

// AuthMiddleware admits requests carrying a valid bearer token issued to the
// user currently signed in. Tokens of a user who has since logged out are
// rejected.
func AuthMiddleware(jwtSecret string, session Session) func(http.Handler) http.Handler {
	return bearerAuth(jwtSecret, session, false)
}

// LogoutMiddleware is AuthMiddleware that also admits a valid token once
// nobody is signed in, so logging out twice still succeeds. A token of
// another user is rejected while someone is signed in.
func LogoutMiddleware(jwtSecret string, session Session) func(http.Handler) http.Handler {
	return bearerAuth(jwtSecret, session, true)
}

func bearerAuth(jwtSecret string, session Session, allowSignedOut bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if state := session.State(); state != service.StateReady {
				response.SessionLoading(w, string(state))
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.Unauthorized(w, "Missing authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				response.Unauthorized(w, "Invalid authorization header format")
				return
			}

			claims, err := jwt.ValidateToken(parts[1], jwtSecret)
			if err != nil {
				response.Unauthorized(w, "Invalid or expired token")
				return
			}

			current := session.CurrentUser()
			switch {
			case current == nil && allowSignedOut:
			case current == nil || current.ID != claims.UserID:
				response.SessionEnded(w)
				return
			}

			recordUser(r.Context(), claims.UserID)

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetUserID(r *http.Request) string {
	userID, ok := r.Context().Value(UserIDKey).(string)
	if !ok {
		return ""
	}
	return userID
}
