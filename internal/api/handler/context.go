package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/viptransport/booking-api/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Auth middleware. Its
// absence means the route was wired without the middleware — fail closed.
func ctxIdentity(c echo.Context) (*domain.Identity, error) {
	ident, _ := c.Get("identity").(*domain.Identity)
	if ident == nil || ident.UserID == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return ident, nil
}
