package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/viptransport/booking-api/internal/core/ports"
)

type AdminHandler struct {
	adminService ports.AdminService
}

func NewAdminHandler(adminService ports.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

type updateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

// ListUsers returns all accounts.
//
// @Summary      List all users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200   {array}   domain.User
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.adminService.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// UpdateRole changes the role of the given user.
//
// @Summary      Update a user's role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User id"
// @Param        body  body      updateRoleRequest  true  "New role"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /admin/users/{id}/role [put]
func (h *AdminHandler) UpdateRole(c echo.Context) error {
	ident, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.adminService.UpdateRole(c.Request().Context(), ident.UserID, c.Param("id"), req.Role); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "role updated"})
}
