package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"godownhub/internal/common"
	"godownhub/internal/models"
	"godownhub/internal/services"
)

// UserHandlers handles employee accounts of the caller's company
type UserHandlers struct {
	userService services.UserService
}

// NewUserHandlers creates a new user handlers instance
func NewUserHandlers(userService services.UserService) *UserHandlers {
	return &UserHandlers{userService: userService}
}

// ListUsers godoc
//
//	@Summary	List employees
//	@Tags		users
//	@Produce	json
//	@Param		status	query		string	false	"active or disabled"
//	@Param		role_id	query		string	false	"Role ID"
//	@Param		search	query		string	false	"Search name or email"
//	@Success	200		{object}	common.Envelope
//	@Router		/users [get]
func (h *UserHandlers) ListUsers(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	p, err := listParams(c)
	if err != nil {
		return err
	}
	f := models.UserFilter{Status: c.QueryParam("status")}
	if f.RoleID, err = optionalID(c, "role_id"); err != nil {
		return err
	}
	page, err := h.userService.List(c.Request().Context(), id.CompanyID, f, p)
	if err != nil {
		return err
	}
	return common.SendSuccess(c, http.StatusOK, page)
}

func (h *UserHandlers) GetUser(c echo.Context) error {
	id, target, err := scoped(c, "id")
	if err != nil {
		return err
	}
	user, err := h.userService.GetByID(c.Request().Context(), id.CompanyID, target)
	if err != nil {
		return err
	}
	return common.SendSuccess(c, http.StatusOK, user)
}

// CreateUser handles creating a new employee
func (h *UserHandlers) CreateUser(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	var req services.CreateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.userService.Create(c.Request().Context(), id, &req)
	if err != nil {
		return err
	}
	return common.SendSuccess(c, http.StatusCreated, user)
}

func (h *UserHandlers) UpdateUser(c echo.Context) error {
	id, target, err := scoped(c, "id")
	if err != nil {
		return err
	}
	var req services.UpdateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.userService.Update(c.Request().Context(), id, target, &req)
	if err != nil {
		return err
	}
	return common.SendSuccess(c, http.StatusOK, user)
}

func (h *UserHandlers) DisableUser(c echo.Context) error {
	return h.setEnabled(c, false)
}

func (h *UserHandlers) EnableUser(c echo.Context) error {
	return h.setEnabled(c, true)
}

func (h *UserHandlers) setEnabled(c echo.Context, enabled bool) error {
	id, target, err := scoped(c, "id")
	if err != nil {
		return err
	}
	user, err := h.userService.SetEnabled(c.Request().Context(), id, target, enabled)
	if err != nil {
		return err
	}
	return common.SendSuccess(c, http.StatusOK, user)
}
