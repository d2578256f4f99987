package auth

import (
	"net/http"
	"strings"
	"time"
)

const DefaultCookieName = "jwt"

// CookieTransport carries the session token in an HttpOnly cookie. Inbound
// requests may also present it as a bearer token.
type CookieTransport struct {
	Name     string
	Secure   bool
	SameSite http.SameSite
	MaxAge   time.Duration
}

func NewCookieTransport(name string, secure bool, sameSite http.SameSite, maxAge time.Duration) *CookieTransport {
	if strings.TrimSpace(name) == "" {
		name = DefaultCookieName
	}
	if sameSite == 0 {
		sameSite = http.SameSiteLaxMode
	}
	return &CookieTransport{Name: name, Secure: secure, SameSite: sameSite, MaxAge: maxAge}
}

func (t *CookieTransport) Attach(w http.ResponseWriter, token string) {
	cookie := &http.Cookie{
		Name:     t.Name,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   t.Secure,
		SameSite: t.SameSite,
	}
	if t.MaxAge > 0 {
		cookie.MaxAge = int(t.MaxAge.Seconds())
		cookie.Expires = time.Now().Add(t.MaxAge).UTC()
	}
	http.SetCookie(w, cookie)
}

// Extract returns the token from the cookie, falling back to the
// Authorization header. A missing token is reported with ok=false.
func (t *CookieTransport) Extract(r *http.Request) (string, bool) {
	if cookie, err := r.Cookie(t.Name); err == nil {
		if value := strings.TrimSpace(cookie.Value); value != "" {
			return value, true
		}
	}

	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		if token := strings.TrimSpace(header[7:]); token != "" {
			return token, true
		}
	}

	return "", false
}

func (t *CookieTransport) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     t.Name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   t.Secure,
		SameSite: t.SameSite,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
	})
}

// ParseSameSite maps a config value to an http.SameSite mode.
func ParseSameSite(raw string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
