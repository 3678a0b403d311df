package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/tastybite/food-ordering/internal/api/middleware"
	"github.com/tastybite/food-ordering/internal/core/domain"
)

// ctxClaim returns the claim injected by the access guard. Handlers behind the
// guard always have one; its absence means the route was wired without it.
func ctxClaim(c echo.Context) (domain.Claim, error) {
	claim, ok := c.Get(middleware.ContextKeyClaim).(domain.Claim)
	if !ok || (claim.Email == "" && claim.Subject == "") {
		return domain.Claim{}, domain.ErrUnauthenticated
	}
	return claim, nil
}
