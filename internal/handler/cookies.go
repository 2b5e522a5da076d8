package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/forgo/quill/api/internal/middleware"
	"github.com/forgo/quill/api/internal/service"
)

// RefreshTokenCookie is the cookie carrying the refresh token
const RefreshTokenCookie = "refreshToken"

// CookieConfig controls how session cookies are written
type CookieConfig struct {
	MaxAge   time.Duration // Default: 24h, independent of token lifetimes
	Secure   bool
	SameSite string // lax, strict or none
	Domain   string
}

// Cookies writes and clears the session cookie pair
type Cookies struct {
	maxAge   int
	secure   bool
	sameSite http.SameSite
	domain   string
}

// NewCookies creates a cookie writer
func NewCookies(cfg CookieConfig) *Cookies {
	if cfg.MaxAge == 0 {
		cfg.MaxAge = 24 * time.Hour
	}
	return &Cookies{
		maxAge:   int(cfg.MaxAge.Seconds()),
		secure:   cfg.Secure,
		sameSite: parseSameSite(cfg.SameSite),
		domain:   cfg.Domain,
	}
}

// SetSession writes both tokens as HttpOnly cookies
func (c *Cookies) SetSession(w http.ResponseWriter, pair *service.TokenPair) {
	c.set(w, middleware.AccessTokenCookie, pair.AccessToken, c.maxAge)
	c.set(w, RefreshTokenCookie, pair.RefreshToken, c.maxAge)
}

// Clear expires both session cookies
func (c *Cookies) Clear(w http.ResponseWriter) {
	c.set(w, middleware.AccessTokenCookie, "", -1)
	c.set(w, RefreshTokenCookie, "", -1)
}

// RefreshToken returns the refresh token cookie value, or ""
func (c *Cookies) RefreshToken(r *http.Request) string {
	cookie, err := r.Cookie(RefreshTokenCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (c *Cookies) set(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   c.domain,
		MaxAge:   maxAge,
		Secure:   c.secure,
		HttpOnly: true,
		SameSite: c.sameSite,
	})
}

func parseSameSite(mode string) http.SameSite {
	switch strings.ToLower(mode) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
