package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/addisbites/ordering-system/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Session middleware.
// Its absence means the middleware did not run; fail before any service call.
func ctxIdentity(c echo.Context) (*domain.Identity, error) {
	identity, ok := c.Get("identity").(*domain.Identity)
	if !ok || identity == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return identity, nil
}

// ctxCourierID extracts the courier id injected by the CourierOnly middleware.
func ctxCourierID(c echo.Context) (int64, error) {
	courierID, _ := c.Get("courier_id").(int64)
	if courierID == 0 {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "missing courier identity")
	}
	return courierID, nil
}
