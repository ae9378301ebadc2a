package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"godownhub/internal/common"
	"godownhub/internal/services"
)

type DashboardHandlers struct {
	dashboardService services.DashboardService
}

func NewDashboardHandlers(dashboardService services.DashboardService) *DashboardHandlers {
	return &DashboardHandlers{dashboardService: dashboardService}
}

// Summary godoc
//
//	@Summary	Financial, occupancy and expiry summary of the company
//	@Tags		dashboard
//	@Produce	json
//	@Param		expiring_within	query		int	false	"Expiry window in days (default 30)"
//	@Success	200				{object}	common.Envelope
//	@Router		/dashboard [get]
func (h *DashboardHandlers) Summary(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	days := 0
	if raw := c.QueryParam("expiring_within"); raw != "" {
		if days, err = strconv.Atoi(raw); err != nil {
			return common.NewFieldError("expiring_within", "expiring_within must be a number of days")
		}
	}
	summary, err := h.dashboardService.Summary(c.Request().Context(), id.CompanyID, days)
	if err != nil {
		return err
	}
	return common.SendSuccess(c, http.StatusOK, summary)
}
