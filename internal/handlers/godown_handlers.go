package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"godownhub/internal/common"
	"godownhub/internal/services"
)

// GodownHandlers handles warehouse and occupancy requests
type GodownHandlers struct {
	godownService services.GodownService
}

func NewGodownHandlers(godownService services.GodownService) *GodownHandlers {
	return &GodownHandlers{godownService: godownService}
}

func (h *GodownHandlers) ListGodowns(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	p, err := listParams(c)
	if err != nil {
		return err
	}
	page, err := h.godownService.List(c.Request().Context(), id.CompanyID, c.QueryParam("status"), p)
	if err != nil {
		return err
	}
	return common.SendSuccess(c, http.StatusOK, page)
}

func (h *GodownHandlers) GetGodown(c echo.Context) error {
	id, target, err := scoped(c, "id")
	if err != nil {
		return err
	}
	godown, err := h.godownService.GetByID(c.Request().Context(), id.CompanyID, target)
	if err != nil {
		return err
	}
	return common.SendSuccess(c, http.StatusOK, godown)
}

func (h *GodownHandlers) CreateGodown(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	var req services.GodownRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	godown, err := h.godownService.Create(c.Request().Context(), id.CompanyID, &req)
	if err != nil {
		return err
	}
	return common.SendSuccess(c, http.StatusCreated, godown)
}

// UpdateGodown refuses to shrink capacity below the space already allocated.
func (h *GodownHandlers) UpdateGodown(c echo.Context) error {
	id, target, err := scoped(c, "id")
	if err != nil {
		return err
	}
	var req services.GodownRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	godown, err := h.godownService.Update(c.Request().Context(), id.CompanyID, target, &req)
	if err != nil {
		return err
	}
	return common.SendSuccess(c, http.StatusOK, godown)
}

func (h *GodownHandlers) DeleteGodown(c echo.Context) error {
	id, target, err := scoped(c, "id")
	if err != nil {
		return err
	}
	if err := h.godownService.Delete(c.Request().Context(), id.CompanyID, target); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// GetOccupancy godoc
//
//	@Summary	Capacity, allocated and free space of a godown
//	@Tags		godowns
//	@Produce	json
//	@Param		id	path		string	true	"Godown ID"
//	@Success	200	{object}	common.Envelope
//	@Failure	404	{object}	common.Envelope
//	@Router		/godowns/{id}/occupancy [get]
func (h *GodownHandlers) GetOccupancy(c echo.Context) error {
	id, target, err := scoped(c, "id")
	if err != nil {
		return err
	}
	occupancy, err := h.godownService.Occupancy(c.Request().Context(), id.CompanyID, target)
	if err != nil {
		return err
	}
	return common.SendSuccess(c, http.StatusOK, occupancy)
}
