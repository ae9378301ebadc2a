package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"godownhub/internal/common"
	"godownhub/internal/services"
)

// RoleHandlers handles roles and their module permissions
type RoleHandlers struct {
	roleService services.RoleService
	rbacService services.RBACService
}

func NewRoleHandlers(roleService services.RoleService, rbacService services.RBACService) *RoleHandlers {
	return &RoleHandlers{roleService: roleService, rbacService: rbacService}
}

type SetPermissionsRequest struct {
	ModuleIDs []uuid.UUID `json:"module_ids"`
}

func (h *RoleHandlers) ListRoles(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	p, err := listParams(c)
	if err != nil {
		return err
	}
	page, err := h.roleService.List(c.Request().Context(), id.CompanyID, p)
	if err != nil {
		return err
	}
	return common.SendSuccess(c, http.StatusOK, page)
}

func (h *RoleHandlers) GetRole(c echo.Context) error {
	id, target, err := scoped(c, "id")
	if err != nil {
		return err
	}
	role, err := h.roleService.GetByID(c.Request().Context(), id.CompanyID, target)
	if err != nil {
		return err
	}
	return common.SendSuccess(c, http.StatusOK, role)
}

func (h *RoleHandlers) CreateRole(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	var req services.RoleRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	role, err := h.roleService.Create(c.Request().Context(), id, &req)
	if err != nil {
		return err
	}
	return common.SendSuccess(c, http.StatusCreated, role)
}

func (h *RoleHandlers) UpdateRole(c echo.Context) error {
	id, target, err := scoped(c, "id")
	if err != nil {
		return err
	}
	var req services.RoleRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	role, err := h.roleService.Update(c.Request().Context(), id, target, &req)
	if err != nil {
		return err
	}
	return common.SendSuccess(c, http.StatusOK, role)
}

func (h *RoleHandlers) DeleteRole(c echo.Context) error {
	id, target, err := scoped(c, "id")
	if err != nil {
		return err
	}
	if err := h.roleService.Delete(c.Request().Context(), id.CompanyID, target); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// GetPermissions godoc
//
//	@Summary	Module tree with the modules granted to the role checked
//	@Tags		roles
//	@Produce	json
//	@Param		id	path		string	true	"Role ID"
//	@Success	200	{object}	common.Envelope
//	@Router		/roles/{id}/permissions [get]
func (h *RoleHandlers) GetPermissions(c echo.Context) error {
	id, target, err := scoped(c, "id")
	if err != nil {
		return err
	}
	nodes, err := h.rbacService.PermissionTree(c.Request().Context(), id.CompanyID, target)
	if err != nil {
		return err
	}
	return common.SendSuccess(c, http.StatusOK, nodes)
}

// SetPermissions godoc
//
//	@Summary	Replace the modules granted to the role
//	@Tags		roles
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string					true	"Role ID"
//	@Param		request	body		SetPermissionsRequest	true	"Granted module IDs"
//	@Success	200		{object}	common.Envelope
//	@Router		/roles/{id}/permissions [put]
func (h *RoleHandlers) SetPermissions(c echo.Context) error {
	id, target, err := scoped(c, "id")
	if err != nil {
		return err
	}
	var req SetPermissionsRequest
	if err := c.Bind(&req); err != nil {
		return common.NewValidationError("Invalid request format")
	}
	role, err := h.rbacService.SetPermissions(c.Request().Context(), id.CompanyID, target, req.ModuleIDs)
	if err != nil {
		return err
	}
	return common.SendSuccess(c, http.StatusOK, role)
}
