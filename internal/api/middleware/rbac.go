package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/addisbites/ordering-system/internal/core/domain"
	"github.com/addisbites/ordering-system/internal/core/ports"
)

// RBAC enforces role-based access control for staff JWT routes.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if _, ok := allowed[role]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}

// CourierOnly restricts a Telegram-session route to users registered as
// delivery staff. Must run after Session; it resolves the telegram id to a
// staff record and requires the delivery role.
func CourierOnly(staff ports.StaffRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			telegramID, _ := c.Get("telegram_id").(int64)
			if telegramID == 0 {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}

			record, err := staff.FindByTelegramID(c.Request().Context(), telegramID)
			if err != nil || record.Role != domain.RoleDelivery {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}

			c.Set("courier_id", telegramID)
			return next(c)
		}
	}
}
