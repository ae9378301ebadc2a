package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"godownhub/internal/common"
	"godownhub/internal/services"
)

// OrganizationHandlers handles tenant organization requests
type OrganizationHandlers struct {
	organizationService services.OrganizationService
}

func NewOrganizationHandlers(organizationService services.OrganizationService) *OrganizationHandlers {
	return &OrganizationHandlers{organizationService: organizationService}
}

// ListOrganizations godoc
//
//	@Summary	List organizations renting space
//	@Tags		organizations
//	@Produce	json
//	@Param		status		query		string	false	"active or inactive"
//	@Param		search		query		string	false	"Search name, contact, email or GSTIN"
//	@Param		sort		query		string	false	"name, created_at or status"
//	@Param		page		query		int		false	"Page number"
//	@Param		page_size	query		int		false	"Page size"
//	@Success	200			{object}	common.Envelope
//	@Router		/organizations [get]
func (h *OrganizationHandlers) ListOrganizations(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	p, err := listParams(c)
	if err != nil {
		return err
	}
	page, err := h.organizationService.List(c.Request().Context(), id.CompanyID, c.QueryParam("status"), p)
	if err != nil {
		return err
	}
	return common.SendSuccess(c, http.StatusOK, page)
}

func (h *OrganizationHandlers) GetOrganization(c echo.Context) error {
	id, target, err := scoped(c, "id")
	if err != nil {
		return err
	}
	org, err := h.organizationService.GetByID(c.Request().Context(), id.CompanyID, target)
	if err != nil {
		return err
	}
	return common.SendSuccess(c, http.StatusOK, org)
}

func (h *OrganizationHandlers) CreateOrganization(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	var req services.OrganizationRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	org, err := h.organizationService.Create(c.Request().Context(), id.CompanyID, &req)
	if err != nil {
		return err
	}
	return common.SendSuccess(c, http.StatusCreated, org)
}

func (h *OrganizationHandlers) UpdateOrganization(c echo.Context) error {
	id, target, err := scoped(c, "id")
	if err != nil {
		return err
	}
	var req services.OrganizationRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	org, err := h.organizationService.Update(c.Request().Context(), id.CompanyID, target, &req)
	if err != nil {
		return err
	}
	return common.SendSuccess(c, http.StatusOK, org)
}

func (h *OrganizationHandlers) DeleteOrganization(c echo.Context) error {
	id, target, err := scoped(c, "id")
	if err != nil {
		return err
	}
	if err := h.organizationService.Delete(c.Request().Context(), id.CompanyID, target); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
