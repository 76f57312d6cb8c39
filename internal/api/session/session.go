// Package session owns the gateway's cookie contract and carries the
// per-request domain.Session through the Echo context.
package session

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nebsit/hr-gateway/internal/core/domain"
	"github.com/nebsit/hr-gateway/internal/core/ports"
)

const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
	RoleCookie         = "user_role"

	contextKey = "session"
)

type CookieConfig struct {
	TTL    time.Duration
	Secure bool
	Domain string
}

// Cookies writes and clears the session cookies.
type Cookies struct {
	ttl    time.Duration
	secure bool
	domain string
}

func NewCookies(cfg CookieConfig) *Cookies {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &Cookies{ttl: ttl, secure: cfg.Secure, domain: cfg.Domain}
}

// SetTokens stores both tokens HTTP-only and the role where page scripts can
// read it. An empty refresh token leaves the existing cookie untouched.
func (k *Cookies) SetTokens(c echo.Context, t ports.AuthTokens) {
	c.SetCookie(k.cookie(AccessTokenCookie, t.AccessToken, true))
	if t.RefreshToken != "" {
		c.SetCookie(k.cookie(RefreshTokenCookie, t.RefreshToken, true))
	}
	if t.Role != "" {
		c.SetCookie(k.cookie(RoleCookie, domain.NormalizeRole(t.Role), false))
	}
}

// ClearAccess removes only the access token; the gate does this for stale
// tokens.
func (k *Cookies) ClearAccess(c echo.Context) {
	c.SetCookie(k.expired(AccessTokenCookie, true))
}

// ClearAll removes every session cookie.
func (k *Cookies) ClearAll(c echo.Context) {
	c.SetCookie(k.expired(AccessTokenCookie, true))
	c.SetCookie(k.expired(RefreshTokenCookie, true))
	c.SetCookie(k.expired(RoleCookie, false))
}

func (k *Cookies) cookie(name, value string, httpOnly bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   k.domain,
		MaxAge:   int(k.ttl / time.Second),
		Expires:  time.Now().Add(k.ttl),
		HttpOnly: httpOnly,
		Secure:   k.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (k *Cookies) expired(name string, httpOnly bool) *http.Cookie {
	ck := k.cookie(name, "", httpOnly)
	ck.MaxAge = -1
	ck.Expires = time.Unix(0, 0)
	return ck
}

// AccessToken returns the access token cookie value, or "".
func AccessToken(c echo.Context) string {
	return cookieValue(c, AccessTokenCookie)
}

// RefreshToken returns the refresh token cookie value, or "".
func RefreshToken(c echo.Context) string {
	return cookieValue(c, RefreshTokenCookie)
}

func cookieValue(c echo.Context, name string) string {
	ck, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return ck.Value
}

// Set stores the session admitted by the gate.
func Set(c echo.Context, s domain.Session) {
	c.Set(contextKey, s)
}

// From returns the session stored by Set.
func From(c echo.Context) (domain.Session, bool) {
	s, ok := c.Get(contextKey).(domain.Session)
	return s, ok
}

// FromCookie builds a session from the raw cookie for routes outside the
// protected prefix. Only the token is known; no claims are decoded.
func FromCookie(c echo.Context) domain.Session {
	if s, ok := From(c); ok {
		return s
	}
	return domain.Session{AccessToken: AccessToken(c)}
}
