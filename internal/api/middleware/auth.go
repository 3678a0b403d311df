package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tastybite/food-ordering/internal/core/domain"
	"github.com/tastybite/food-ordering/internal/core/ports"
)

// Context keys set by Auth.
const (
	ContextKeyClaim = "claims"
	ContextKeyEmail = "email"
	ContextKeyKind  = "kind"
)

// HeaderRefreshedToken carries a renewed token when sliding expiry is enabled.
const HeaderRefreshedToken = "X-Refreshed-Token"

// Auth validates the bearer token and injects the claim into the context.
// A missing or malformed header is a 401, a token that fails verification a 403.
func Auth(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header").
					SetInternal(domain.ErrUnauthenticated)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header").
					SetInternal(domain.ErrUnauthenticated)
			}

			claim, err := verifier.Verify(strings.TrimSpace(parts[1]))
			if err != nil {
				return echo.NewHTTPError(http.StatusForbidden, "invalid token").SetInternal(err)
			}

			c.Set(ContextKeyClaim, *claim)
			c.Set(ContextKeyEmail, claim.Email)
			c.Set(ContextKeyKind, claim.Kind)

			if renewed, ok, err := verifier.Renew(*claim); err == nil && ok {
				c.Response().Header().Set(HeaderRefreshedToken, renewed)
			}

			return next(c)
		}
	}
}
