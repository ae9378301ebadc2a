package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"godownhub/internal/common"
	"godownhub/internal/models"
	"godownhub/internal/services"
)

// AgreementHandlers handles rent agreements and trade licenses
type AgreementHandlers struct {
	agreementService services.AgreementService
}

func NewAgreementHandlers(agreementService services.AgreementService) *AgreementHandlers {
	return &AgreementHandlers{agreementService: agreementService}
}

// validityFilter reads status and expiring_within from the query and the
// organization from either the path (/organizations/:id/...) or the query.
func validityFilter(c echo.Context) (models.ValidityFilter, error) {
	var f models.ValidityFilter
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &f); err != nil {
		return f, common.NewFieldError("expiring_within", "expiring_within must be a number of days")
	}
	if c.Param("id") != "" {
		orgID, err := pathID(c, "id")
		if err != nil {
			return f, err
		}
		f.OrganizationID = &orgID
		return f, nil
	}
	orgID, err := optionalID(c, "organization_id")
	f.OrganizationID = orgID
	return f, err
}

// ListAgreements godoc
//
//	@Summary	List agreements company wide or for one organization
//	@Tags		agreements
//	@Produce	json
//	@Param		organization_id	query		string	false	"Organization ID"
//	@Param		status			query		string	false	"active, expired or terminated"
//	@Param		expiring_within	query		int		false	"Only active agreements ending within N days"
//	@Success	200				{object}	common.Envelope
//	@Router		/agreements [get]
func (h *AgreementHandlers) ListAgreements(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	f, err := validityFilter(c)
	if err != nil {
		return err
	}
	p, err := listParams(c)
	if err != nil {
		return err
	}
	page, err := h.agreementService.ListAgreements(c.Request().Context(), id.CompanyID, f, p)
	if err != nil {
		return err
	}
	return common.SendSuccess(c, http.StatusOK, page)
}

func (h *AgreementHandlers) GetAgreement(c echo.Context) error {
	id, target, err := scoped(c, "id")
	if err != nil {
		return err
	}
	agreement, err := h.agreementService.GetAgreement(c.Request().Context(), id.CompanyID, target)
	if err != nil {
		return err
	}
	return common.SendSuccess(c, http.StatusOK, agreement)
}

func (h *AgreementHandlers) CreateAgreement(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	var req services.AgreementRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	agreement, err := h.agreementService.CreateAgreement(c.Request().Context(), id.CompanyID, &req)
	if err != nil {
		return err
	}
	return common.SendSuccess(c, http.StatusCreated, agreement)
}

func (h *AgreementHandlers) UpdateAgreement(c echo.Context) error {
	id, target, err := scoped(c, "id")
	if err != nil {
		return err
	}
	var req services.AgreementRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	agreement, err := h.agreementService.UpdateAgreement(c.Request().Context(), id.CompanyID, target, &req)
	if err != nil {
		return err
	}
	return common.SendSuccess(c, http.StatusOK, agreement)
}

func (h *AgreementHandlers) TerminateAgreement(c echo.Context) error {
	id, target, err := scoped(c, "id")
	if err != nil {
		return err
	}
	if err := h.agreementService.TerminateAgreement(c.Request().Context(), id.CompanyID, target); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AgreementHandlers) ListLicenses(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	f, err := validityFilter(c)
	if err != nil {
		return err
	}
	p, err := listParams(c)
	if err != nil {
		return err
	}
	page, err := h.agreementService.ListLicenses(c.Request().Context(), id.CompanyID, f, p)
	if err != nil {
		return err
	}
	return common.SendSuccess(c, http.StatusOK, page)
}

func (h *AgreementHandlers) GetLicense(c echo.Context) error {
	id, target, err := scoped(c, "id")
	if err != nil {
		return err
	}
	license, err := h.agreementService.GetLicense(c.Request().Context(), id.CompanyID, target)
	if err != nil {
		return err
	}
	return common.SendSuccess(c, http.StatusOK, license)
}

func (h *AgreementHandlers) CreateLicense(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	var req services.LicenseRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	license, err := h.agreementService.CreateLicense(c.Request().Context(), id.CompanyID, &req)
	if err != nil {
		return err
	}
	return common.SendSuccess(c, http.StatusCreated, license)
}

func (h *AgreementHandlers) UpdateLicense(c echo.Context) error {
	id, target, err := scoped(c, "id")
	if err != nil {
		return err
	}
	var req services.LicenseRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	license, err := h.agreementService.UpdateLicense(c.Request().Context(), id.CompanyID, target, &req)
	if err != nil {
		return err
	}
	return common.SendSuccess(c, http.StatusOK, license)
}

func (h *AgreementHandlers) RevokeLicense(c echo.Context) error {
	id, target, err := scoped(c, "id")
	if err != nil {
		return err
	}
	if err := h.agreementService.RevokeLicense(c.Request().Context(), id.CompanyID, target); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
