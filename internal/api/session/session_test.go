package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nebsit/hr-gateway/internal/core/domain"
	"github.com/nebsit/hr-gateway/internal/core/ports"
)

func responseCookies(rec *httptest.ResponseRecorder) map[string]*http.Cookie {
	out := map[string]*http.Cookie{}
	for _, ck := range rec.Result().Cookies() {
		out[ck.Name] = ck
	}
	return out
}

func TestCookies_SetTokens(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/auth/login", nil), rec)

	NewCookies(CookieConfig{TTL: 30 * 24 * time.Hour, Secure: true}).SetTokens(c, ports.AuthTokens{
		AccessToken: "acc", RefreshToken: "ref", Role: "ADMIN",
	})

	got := responseCookies(rec)
	access := got[AccessTokenCookie]
	if access == nil || access.Value != "acc" || !access.HttpOnly || !access.Secure {
		t.Fatalf("unexpected access cookie %+v", access)
	}
	if access.Path != "/" || access.SameSite != http.SameSiteLaxMode || access.MaxAge != 30*24*3600 {
		t.Fatalf("unexpected access cookie attributes %+v", access)
	}
	if got[RefreshTokenCookie] == nil || got[RefreshTokenCookie].Value != "ref" || !got[RefreshTokenCookie].HttpOnly {
		t.Fatalf("unexpected refresh cookie %+v", got[RefreshTokenCookie])
	}
	role := got[RoleCookie]
	if role == nil || role.Value != "admin" || role.HttpOnly {
		t.Fatalf("role cookie must be readable and lowercase, got %+v", role)
	}
}

func TestCookies_SetTokens_KeepsRefreshWhenAbsent(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/auth/refresh-token", nil), rec)

	NewCookies(CookieConfig{}).SetTokens(c, ports.AuthTokens{AccessToken: "acc"})

	got := responseCookies(rec)
	if _, ok := got[RefreshTokenCookie]; ok {
		t.Fatal("refresh cookie must not be overwritten with an empty value")
	}
	if got[AccessTokenCookie].MaxAge != 30*24*3600 {
		t.Fatalf("expected 30 day default, got %d", got[AccessTokenCookie].MaxAge)
	}
}

func TestCookies_ClearAll(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/auth/logout", nil), rec)

	NewCookies(CookieConfig{}).ClearAll(c)

	got := responseCookies(rec)
	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie, RoleCookie} {
		ck := got[name]
		if ck == nil || ck.Value != "" || ck.MaxAge >= 0 {
			t.Errorf("%s: expected an expired cookie, got %+v", name, ck)
		}
	}
}

func TestFromCookie(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "tok"})
	c := e.NewContext(req, httptest.NewRecorder())

	if s := FromCookie(c); s.AccessToken != "tok" || s.Role != "" {
		t.Fatalf("unexpected session %+v", s)
	}

	Set(c, domain.Session{AccessToken: "tok", Role: "hr"})
	if s := FromCookie(c); s.Role != "hr" {
		t.Fatalf("stored session must win, got %+v", s)
	}
}
