package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/addisbites/ordering-system/internal/core/domain"
	"github.com/addisbites/ordering-system/internal/core/ports"
)

// AuthHandler handles the Telegram mini-app handshake and session routes.
type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type telegramAuthRequest struct {
	InitData string `json:"init_data"`
}

type telegramAuthResponse struct {
	Token string           `json:"token"`
	User  *domain.Identity `json:"user"`
}

// Telegram handles POST /v1/auth/telegram — exchanges a signed initData
// payload for a session token. The payload comes from the JSON body or,
// for clients that prefer it, the X-Telegram-Init-Data header.
//
// @Summary      Authenticate a Telegram mini-app user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      telegramAuthRequest  true  "Raw initData payload"
// @Success      200   {object}  telegramAuthResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/auth/telegram [post]
func (h *AuthHandler) Telegram(c echo.Context) error {
	raw := c.Request().Header.Get("X-Telegram-Init-Data")
	if raw == "" {
		var req telegramAuthRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
		}
		raw = req.InitData
	}
	if raw == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing init data")
	}

	token, identity, err := h.authService.Handshake(c.Request().Context(), raw)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, telegramAuthResponse{Token: token, User: identity})
}

// Logout handles POST /v1/auth/logout — revokes the current session.
//
// @Summary      Revoke the current session
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      204  "session revoked"
// @Failure      401  {object}  errorResponse
// @Router       /v1/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	token, _ := c.Get("session_token").(string)
	if token == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	if err := h.authService.Logout(c.Request().Context(), token); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Me handles GET /v1/me — returns the identity behind the bearer token.
//
// @Summary      Get the authenticated user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Identity
// @Failure      401  {object}  errorResponse
// @Router       /v1/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, identity)
}
