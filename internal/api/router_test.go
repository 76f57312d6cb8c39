package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/nebsit/hr-gateway/internal/api/session"
	"github.com/nebsit/hr-gateway/internal/core/ports"
	"github.com/nebsit/hr-gateway/internal/core/service"
	"github.com/nebsit/hr-gateway/internal/infrastructure/http/handlers"
	"github.com/nebsit/hr-gateway/internal/pkg/config"
)

// Services are never reached in these tests; embedding the interfaces
// satisfies them without stubbing every method.
type unusedAuth struct{ ports.AuthService }
type unusedNotices struct{ ports.NoticeService }

func TestRouter(t *testing.T) {
	cfg := &config.Config{AuthRPS: 5}
	cfg.Session.ProtectedPrefix = "/dashboard"
	cfg.Session.LoginPath = "/login"
	cfg.Notice.MaxUploadBytes = 10 << 20
	cfg.Notice.EditorRoles = []string{"admin", "hr"}

	e := NewRouter(Deps{
		Config: cfg,
		Log:    zerolog.Nop(),
		Gate: service.NewSessionGate(service.SessionGateConfig{
			ProtectedPrefix: "/dashboard",
			LoginPath:       "/login",
			AllowedRoles:    []string{"admin", "hr"},
		}),
		Cookies: session.NewCookies(session.CookieConfig{}),
		Auth:    unusedAuth{},
		Notices: unusedNotices{},
		Probes:  map[string]handlers.Probe{},
	})

	cases := []struct {
		name     string
		method   string
		path     string
		code     int
		location string
	}{
		{"liveness", http.MethodGet, "/health", http.StatusOK, ""},
		{"readiness", http.MethodGet, "/health/ready", http.StatusOK, ""},
		{"metrics", http.MethodGet, "/metrics", http.StatusOK, ""},
		{"notices gated", http.MethodGet, "/dashboard/notices", http.StatusFound, "/login?from=%2Fdashboard%2Fnotices"},
		{"pages gated", http.MethodGet, "/dashboard/admin/user-management", http.StatusFound, "/login?from=%2Fdashboard%2Fadmin%2Fuser-management"},
		{"files disabled", http.MethodGet, "/files/abc", http.StatusNotFound, ""},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		if rec.Code != tc.code {
			t.Errorf("%s: expected %d, got %d (%s)", tc.name, tc.code, rec.Code, strings.TrimSpace(rec.Body.String()))
			continue
		}
		if tc.location != "" && rec.Header().Get("Location") != tc.location {
			t.Errorf("%s: unexpected redirect %q", tc.name, rec.Header().Get("Location"))
		}
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	if rec.Code != http.StatusFound {
		t.Fatalf("prefix root must be gated, got %d", rec.Code)
	}
}
