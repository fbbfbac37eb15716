package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/titanicdata/passenger-api/internal/api/metrics"
	"github.com/titanicdata/passenger-api/internal/core/domain"
)

// RequireActive rejects requests whose resolved user has been deactivated.
// Resolve already enforces this; the gate exists so route chains can state
// the requirement explicitly and stay correct if resolution ever changes.
func RequireActive() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				metrics.AuthDeniedTotal.WithLabelValues("missing_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
			}
			if !user.IsActive {
				metrics.AuthDeniedTotal.WithLabelValues("disabled").Inc()
				return echo.NewHTTPError(http.StatusBadRequest, domain.ErrAccountDisabled.Error())
			}
			return next(c)
		}
	}
}

// RequireRole enforces a role predicate over the resolved user. Runs after
// Authenticate; a missing user means the chain was assembled wrong and is
// treated as unauthenticated, not as a server fault.
func RequireRole(allowed domain.RolePredicate) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				metrics.AuthDeniedTotal.WithLabelValues("missing_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
			}
			if !allowed(user.Role) {
				metrics.AuthDeniedTotal.WithLabelValues("forbidden").Inc()
				return echo.NewHTTPError(http.StatusForbidden, "access forbidden")
			}
			return next(c)
		}
	}
}
