package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tastybite/food-ordering/internal/core/domain"
)

// RequireKind lets a request through only when the token belongs to one of the
// given credential pools. It must run after Auth.
func RequireKind(kinds ...domain.IdentityKind) echo.MiddlewareFunc {
	allowed := make(map[domain.IdentityKind]struct{}, len(kinds))
	for _, k := range kinds {
		allowed[k] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			kind, _ := c.Get(ContextKeyKind).(domain.IdentityKind)
			if _, ok := allowed[kind]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden").SetInternal(domain.ErrForbidden)
			}
			return next(c)
		}
	}
}
