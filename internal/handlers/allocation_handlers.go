package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"godownhub/internal/common"
	"godownhub/internal/models"
	"godownhub/internal/services"
)

// AllocationHandlers handles space allocation requests
type AllocationHandlers struct {
	allocationService services.AllocationService
}

func NewAllocationHandlers(allocationService services.AllocationService) *AllocationHandlers {
	return &AllocationHandlers{allocationService: allocationService}
}

// ListAllocations godoc
//
//	@Summary	List space allocations
//	@Tags		allocations
//	@Produce	json
//	@Param		godown_id		query		string	false	"Godown ID"
//	@Param		organization_id	query		string	false	"Organization ID"
//	@Param		status			query		string	false	"active or released"
//	@Success	200				{object}	common.Envelope
//	@Router		/allocations [get]
func (h *AllocationHandlers) ListAllocations(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	p, err := listParams(c)
	if err != nil {
		return err
	}
	f := models.AllocationFilter{Status: c.QueryParam("status")}
	if f.GodownID, err = optionalID(c, "godown_id"); err != nil {
		return err
	}
	if f.OrganizationID, err = optionalID(c, "organization_id"); err != nil {
		return err
	}
	page, err := h.allocationService.List(c.Request().Context(), id.CompanyID, f, p)
	if err != nil {
		return err
	}
	return common.SendSuccess(c, http.StatusOK, page)
}

func (h *AllocationHandlers) GetAllocation(c echo.Context) error {
	id, target, err := scoped(c, "id")
	if err != nil {
		return err
	}
	allocation, err := h.allocationService.GetByID(c.Request().Context(), id.CompanyID, target)
	if err != nil {
		return err
	}
	return common.SendSuccess(c, http.StatusOK, allocation)
}

// CreateAllocation godoc
//
//	@Summary	Allocate godown space to an organization
//	@Tags		allocations
//	@Accept		json
//	@Produce	json
//	@Param		request	body		services.AllocationRequest	true	"Allocation"
//	@Success	201		{object}	common.Envelope
//	@Failure	400		{object}	common.Envelope
//	@Failure	409		{object}	common.Envelope	"Not enough free capacity"
//	@Router		/allocations [post]
func (h *AllocationHandlers) CreateAllocation(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	var req services.AllocationRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	allocation, err := h.allocationService.Create(c.Request().Context(), id.CompanyID, &req)
	if err != nil {
		return err
	}
	return common.SendSuccess(c, http.StatusCreated, allocation)
}

func (h *AllocationHandlers) UpdateAllocation(c echo.Context) error {
	id, target, err := scoped(c, "id")
	if err != nil {
		return err
	}
	var req services.AllocationRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	allocation, err := h.allocationService.Update(c.Request().Context(), id.CompanyID, target, &req)
	if err != nil {
		return err
	}
	return common.SendSuccess(c, http.StatusOK, allocation)
}

func (h *AllocationHandlers) ReleaseAllocation(c echo.Context) error {
	id, target, err := scoped(c, "id")
	if err != nil {
		return err
	}
	allocation, err := h.allocationService.Release(c.Request().Context(), id.CompanyID, target)
	if err != nil {
		return err
	}
	return common.SendSuccess(c, http.StatusOK, allocation)
}
