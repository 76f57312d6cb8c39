package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/nebsit/hr-gateway/internal/api/session"
	"github.com/nebsit/hr-gateway/internal/core/domain"
)

// ctxSession returns the session injected by the SessionGate middleware.
// Routes mounted outside the gate get domain.ErrUnauthenticated, which the
// error handler renders as 401.
func ctxSession(c echo.Context) (domain.Session, error) {
	s, ok := session.From(c)
	if !ok || !s.Authenticated() {
		return domain.Session{}, domain.ErrUnauthenticated
	}
	return s, nil
}
