package auth

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Cookie names for the server-readable token mirrors. The backend
// issues JWTs; these cookies let same-origin endpoints check auth
// without a session lookup.
const (
	AuthCookieName    = "_auth"
	RefreshCookieName = "cont_auth"
)

// defaultCookieMaxAge is used when a token carries no readable expiry.
const defaultCookieMaxAge = 7 * 24 * time.Hour

// WriteAuthCookies sets the `_auth` and `cont_auth` cookies from a
// token pair. Expiry is derived from each token's `exp` claim; the
// signature is deliberately not verified here, the backend remains the
// authority and these cookies are only transport.
func WriteAuthCookies(w http.ResponseWriter, ctx *Context, secure bool) {
	writeTokenCookie(w, AuthCookieName, ctx.SessionToken, secure)
	writeTokenCookie(w, RefreshCookieName, ctx.RefreshToken, secure)
}

func writeTokenCookie(w http.ResponseWriter, name, token string, secure bool) {
	if token == "" {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(TokenTTL(token, time.Now()).Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearAuthCookies expires both token cookies on logout.
func ClearAuthCookies(w http.ResponseWriter, secure bool) {
	for _, name := range []string{AuthCookieName, RefreshCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// TokenTTL returns how long the token is still valid, read from its
// `exp` claim without verifying the signature. Tokens without a
// readable expiry get a fixed default so the cookie still ages out.
func TokenTTL(token string, now time.Time) time.Duration {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return defaultCookieMaxAge
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return defaultCookieMaxAge
	}
	ttl := exp.Sub(now)
	if ttl <= 0 {
		return 0
	}
	return ttl
}
