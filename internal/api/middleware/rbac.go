package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nebsit/hr-gateway/internal/api/session"
	"github.com/nebsit/hr-gateway/internal/core/domain"
)

// RBAC enforces role-based access control on the session admitted by the
// gate. Roles compare case-insensitively.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[domain.NormalizeRole(r)] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s, ok := session.From(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
			}
			if _, ok := allowed[domain.NormalizeRole(s.Role)]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
