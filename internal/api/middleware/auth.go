package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/titanicdata/passenger-api/internal/api/metrics"
	"github.com/titanicdata/passenger-api/internal/core/domain"
	"github.com/titanicdata/passenger-api/internal/core/ports"
)

// userContextKey is where the resolved user is stored on the echo context.
const userContextKey = "current_user"

// CurrentUser returns the user attached by Authenticate, or nil when the
// request never passed the gate.
func CurrentUser(c echo.Context) *domain.User {
	user, _ := c.Get(userContextKey).(*domain.User)
	return user
}

// Authenticate extracts the bearer token, resolves it to a live user record
// and attaches that record to the context. A missing header, a malformed
// scheme and an invalid token are rejected alike with 401; a resolvable but
// deactivated account with 400. Authorization happens in later gates.
func Authenticate(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get("Authorization"))
			if !ok {
				metrics.AuthDeniedTotal.WithLabelValues("missing_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrInvalidToken.Error())
			}

			user, err := auth.Resolve(c.Request().Context(), token)
			if err != nil {
				switch {
				case errors.Is(err, domain.ErrAccountDisabled):
					metrics.AuthDeniedTotal.WithLabelValues("disabled").Inc()
					return echo.NewHTTPError(http.StatusBadRequest, domain.ErrAccountDisabled.Error())
				case errors.Is(err, domain.ErrInvalidToken), errors.Is(err, domain.ErrUserNotFound):
					metrics.AuthDeniedTotal.WithLabelValues("invalid_token").Inc()
					return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrInvalidToken.Error())
				}
				return err
			}

			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// bearerToken parses an "Authorization: Bearer <token>" header value.
func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
