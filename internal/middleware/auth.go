package middleware

import (
	"context"
	"log"
	"net/http"

	"tour-booking-platform/internal/auth"
)

type contextKey string

const (
	AuthContextKey contextKey = "auth"
)

// AuthMiddleware loads the authentication context from the session
// and makes it available to downstream handlers.
type AuthMiddleware struct {
	sessions *auth.SessionStore
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(sessions *auth.SessionStore) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions}
}

// LoadAuth middleware loads the session tokens and adds them to the request context.
// Requests with no session or an unreadable one continue unauthenticated.
func (m *AuthMiddleware) LoadAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ac := m.sessions.Load(r)
		if !ac.Authenticated() {
			// A browser returning after its session cookie expired may
			// still carry the token cookies. Seed the session from
			// them; Initialize is a no-op on already-seeded sessions,
			// so a newer pair stored by login cannot be clobbered.
			if ac = tokensFromCookies(r); ac.Authenticated() {
				if err := m.sessions.Initialize(r, w, ac); err != nil {
					log.Printf("auth: seed session from cookies: %v", err)
				}
			}
		}
		if !ac.Authenticated() {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), AuthContextKey, ac)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// tokensFromCookies reads the token mirror cookies written at login.
func tokensFromCookies(r *http.Request) *auth.Context {
	ac := &auth.Context{}
	if c, err := r.Cookie(auth.AuthCookieName); err == nil {
		ac.SessionToken = c.Value
	}
	if c, err := r.Cookie(auth.RefreshCookieName); err == nil {
		ac.RefreshToken = c.Value
	}
	return ac
}

// RequireAuth middleware ensures the request carries a session token
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ac := GetAuthFromContext(r.Context())
		if ac == nil {
			// Redirect to login page
			if IsHTMXRequest(r) {
				// For HTMX requests, return a redirect header
				w.Header().Set("HX-Redirect", "/auth/login")
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			http.Redirect(w, r, "/auth/login?redirect="+r.URL.Path, http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GetAuthFromContext retrieves the authentication context from the request context
func GetAuthFromContext(ctx context.Context) *auth.Context {
	ac, ok := ctx.Value(AuthContextKey).(*auth.Context)
	if !ok {
		return nil
	}
	return ac
}

// SetAuthContext sets the authentication context (for testing)
func SetAuthContext(ctx context.Context, ac *auth.Context) context.Context {
	return context.WithValue(ctx, AuthContextKey, ac)
}

// IsHTMXRequest checks if the request is from HTMX
func IsHTMXRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
