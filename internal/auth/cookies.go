package auth

import (
	"net/http"
	"time"
)

// SessionCookieName is the HTTP-only cookie carrying the session token for
// browser clients. API clients send the token as a Bearer header instead.
const SessionCookieName = "session_token"

// ShouldUseCookies decides whether a request comes from a browser that should
// receive cookie-based auth instead of tokens in the response body.
func ShouldUseCookies(r *http.Request) bool {
	// Browsers send Sec-Fetch-Site on cross-origin fetches and Origin on
	// CORS requests; an existing session cookie also marks a browser client.
	if r.Header.Get("Sec-Fetch-Site") != "" || r.Header.Get("Origin") != "" {
		return true
	}
	if _, err := r.Cookie(SessionCookieName); err == nil {
		return true
	}
	return false
}

// SetSessionCookie attaches the session token as an HTTP-only cookie
func SetSessionCookie(w http.ResponseWriter, token string, isProduction bool, duration time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(duration.Seconds()),
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// GetSessionTokenFromCookie reads the session token from the request cookie
func GetSessionTokenFromCookie(r *http.Request) (string, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}
