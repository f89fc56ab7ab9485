package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/addisbites/ordering-system/internal/core/domain"
	"github.com/addisbites/ordering-system/internal/core/ports"
)

// AdminHandler handles the admin-panel staff routes. These use classic
// username/password credentials with a JWT, separate from the Telegram
// session flow.
type AdminHandler struct {
	staffService ports.StaffService
}

func NewAdminHandler(staffService ports.StaffService) *AdminHandler {
	return &AdminHandler{staffService: staffService}
}

type staffLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type createStaffRequest struct {
	Username   string `json:"username"    validate:"required"`
	Password   string `json:"password"    validate:"required,min=8"`
	Role       string `json:"role"        validate:"required,oneof=admin kitchen delivery"`
	TelegramID int64  `json:"telegram_id"`
}

type staffResponse struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Role       string `json:"role"`
	TelegramID int64  `json:"telegram_id,omitempty"`
}

type staffLoginResponse struct {
	Token string        `json:"token"`
	Staff staffResponse `json:"staff"`
}

// Login handles POST /v1/admin/login.
//
// @Summary      Staff login
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      staffLoginRequest  true  "Login credentials"
// @Success      200   {object}  staffLoginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/admin/login [post]
func (h *AdminHandler) Login(c echo.Context) error {
	var req staffLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, staff, err := h.staffService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, staffLoginResponse{
		Token: token,
		Staff: toStaffResponse(staff),
	})
}

// CreateStaff handles POST /v1/admin/staff — admin only.
//
// @Summary      Register a staff member
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createStaffRequest  true  "Staff details"
// @Success      201   {object}  staffResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/admin/staff [post]
func (h *AdminHandler) CreateStaff(c echo.Context) error {
	var req createStaffRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	staff, err := h.staffService.Register(c.Request().Context(), req.Username, req.Password, req.Role, req.TelegramID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toStaffResponse(staff))
}

func toStaffResponse(s *domain.Staff) staffResponse {
	return staffResponse{
		ID:         s.ID,
		Username:   s.Username,
		Role:       s.Role,
		TelegramID: s.TelegramID,
	}
}
