// Package middleware provides HTTP middleware for browser sessions.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// SessionCookie is the name of the cookie holding the session id.
const SessionCookie = "tracker_session"

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

// sessionIDKey is the context key for storing the session ID.
const sessionIDKey ContextKey = "sessionID"

// SessionOptions configures the session cookie.
type SessionOptions struct {
	// MaxAge is the cookie lifetime; zero makes it a browser-session cookie.
	MaxAge time.Duration
	// Secure marks the cookie HTTPS-only.
	Secure bool
}

// SessionMiddleware makes sure every request carries a session id. A missing or
// malformed cookie is replaced by a fresh id; the id is stored in the request context.
func SessionMiddleware(opts SessionOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := sessionFromCookie(r)
			if !ok {
				id = uuid.New()
				cookie := &http.Cookie{
					Name:     SessionCookie,
					Value:    id.String(),
					Path:     "/",
					HttpOnly: true,
					Secure:   opts.Secure,
					SameSite: http.SameSiteLaxMode,
				}
				if opts.MaxAge > 0 {
					cookie.MaxAge = int(opts.MaxAge.Seconds())
				}
				http.SetCookie(w, cookie)
			}

			ctx := WithSessionID(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionFromCookie(r *http.Request) (uuid.UUID, bool) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(cookie.Value)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// WithSessionID returns a context carrying the session id.
func WithSessionID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, sessionIDKey, id)
}

// GetSessionID extracts the session ID from the request context.
func GetSessionID(r *http.Request) (uuid.UUID, error) {
	id, ok := r.Context().Value(sessionIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, fmt.Errorf("session ID not found in request context")
	}
	return id, nil
}
