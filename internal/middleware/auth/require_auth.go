package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hjarnor/hjarnor/internal/tokens"
)

const claimsContextKey = "brain_claims"

// RequireAuth rejects requests without a valid bearer token before any
// handler logic runs. Verified claims are stored on the context for
// ClaimsFrom.
func RequireAuth(ts *tokens.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			const prefix = "Bearer "
			if !strings.HasPrefix(header, prefix) {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			claims, ok := ts.Verify(strings.TrimPrefix(header, prefix))
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			c.Set(claimsContextKey, claims)
			return next(c)
		}
	}
}

func ClaimsFrom(c echo.Context) (*tokens.BrainClaims, bool) {
	claims, ok := c.Get(claimsContextKey).(*tokens.BrainClaims)
	return claims, ok
}
