package pkg

import (
	"net/http"
	"time"
)

const (
	SessionCookieName = "user_session"
	SessionMaxAge     = 24 * time.Hour
)

// NewSessionCookie - builds the cookie that binds a browser to its session.
func NewSessionCookie(sessionID string) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    sessionID,
		Path:     "/",
		Expires:  time.Now().Add(SessionMaxAge),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// ExpiredSessionCookie - tells the browser to drop its session cookie.
func ExpiredSessionCookie() *http.Cookie {
	cookie := NewSessionCookie("")
	cookie.Expires = time.Time{}
	cookie.MaxAge = -1

	return cookie
}

// SessionFromRequest returns the session id carried by req, or "" when there is none.
func SessionFromRequest(req *http.Request) string {
	cookie, err := req.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}

	return cookie.Value
}
