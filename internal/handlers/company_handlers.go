package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"godownhub/internal/common"
	"godownhub/internal/services"
)

// CompanyHandlers handles company HTTP requests
type CompanyHandlers struct {
	companyService services.CompanyService
}

func NewCompanyHandlers(companyService services.CompanyService) *CompanyHandlers {
	return &CompanyHandlers{companyService: companyService}
}

// ListCompanies godoc
//
//	@Summary	List companies visible to the caller
//	@Tags		companies
//	@Produce	json
//	@Param		page		query		int		false	"Page number"
//	@Param		page_size	query		int		false	"Page size"
//	@Param		search		query		string	false	"Search name, code or GSTIN"
//	@Success	200			{object}	common.Envelope
//	@Router		/companies [get]
func (h *CompanyHandlers) ListCompanies(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	p, err := listParams(c)
	if err != nil {
		return err
	}
	page, err := h.companyService.List(c.Request().Context(), id, p)
	if err != nil {
		return err
	}
	return common.SendSuccess(c, http.StatusOK, page)
}

func (h *CompanyHandlers) GetCompany(c echo.Context) error {
	id, target, err := scoped(c, "id")
	if err != nil {
		return err
	}
	company, err := h.companyService.GetByID(c.Request().Context(), id, target)
	if err != nil {
		return err
	}
	return common.SendSuccess(c, http.StatusOK, company)
}

func (h *CompanyHandlers) CreateCompany(c echo.Context) error {
	var req services.CompanyRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	company, err := h.companyService.Create(c.Request().Context(), &req)
	if err != nil {
		return err
	}
	return common.SendSuccess(c, http.StatusCreated, company)
}

func (h *CompanyHandlers) UpdateCompany(c echo.Context) error {
	id, target, err := scoped(c, "id")
	if err != nil {
		return err
	}
	var req services.CompanyRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	company, err := h.companyService.Update(c.Request().Context(), id, target, &req)
	if err != nil {
		return err
	}
	return common.SendSuccess(c, http.StatusOK, company)
}

func (h *CompanyHandlers) DeleteCompany(c echo.Context) error {
	id, target, err := scoped(c, "id")
	if err != nil {
		return err
	}
	if err := h.companyService.Delete(c.Request().Context(), id, target); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
