package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/nebsit/hr-gateway/internal/api/metrics"
	"github.com/nebsit/hr-gateway/internal/api/session"
	"github.com/nebsit/hr-gateway/internal/core/service"
)

// SessionGate checks the access token cookie of every request under the
// protected prefix. Rejected navigations are redirected to the login page;
// admitted ones carry the decoded session in the context.
func SessionGate(gate *service.SessionGate, cookies *session.Cookies, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			if !gate.Protects(path) {
				return next(c)
			}

			d := gate.Decide(path, session.AccessToken(c))
			metrics.GateDecisionsTotal.WithLabelValues(string(d.Outcome)).Inc()

			if !d.Allowed() {
				if d.ClearCookie {
					cookies.ClearAccess(c)
				}
				log.Debug().Ctx(c.Request().Context()).
					Str("path", path).
					Str("outcome", string(d.Outcome)).
					Msg("session gate redirect")
				return c.Redirect(http.StatusFound, d.Redirect)
			}

			session.Set(c, d.Session)
			return next(c)
		}
	}
}
