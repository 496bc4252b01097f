package session

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

const CookieName = "X-Page-Session"

// IdleTimeout is how long an untouched page session keeps its view state.
const IdleTimeout = 2 * time.Hour

func SessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   false,
	}
}

func NewID() string {
	return uuid.NewString()
}

// FromRequest returns the page session id carried by r, if it is a valid uuid.
func FromRequest(r *http.Request) (string, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return "", false
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return "", false
	}
	return c.Value, true
}
