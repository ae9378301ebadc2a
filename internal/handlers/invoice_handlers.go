package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"godownhub/internal/common"
	"godownhub/internal/models"
	"godownhub/internal/services"
)

// InvoiceHandlers handles HTTP requests for rent invoices
type InvoiceHandlers struct {
	invoiceService services.InvoiceService
}

// NewInvoiceHandlers creates a new invoice handlers instance
func NewInvoiceHandlers(invoiceService services.InvoiceService) *InvoiceHandlers {
	return &InvoiceHandlers{invoiceService: invoiceService}
}

// GenerateInvoice godoc
//
//	@Summary		Generate the rent invoice of an allocation for a month
//	@Description	One invoice per allocation and billing period. Tax is split evenly into CGST and SGST.
//	@Tags			invoices
//	@Accept			json
//	@Produce		json
//	@Param			request	body		services.GenerateInvoiceRequest	true	"Allocation and billing period (YYYY-MM)"
//	@Success		201		{object}	common.Envelope
//	@Failure		409		{object}	common.Envelope	"Already invoiced for the period"
//	@Router			/invoices/generate [post]
func (h *InvoiceHandlers) GenerateInvoice(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	var req services.GenerateInvoiceRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	invoice, err := h.invoiceService.Generate(c.Request().Context(), id.CompanyID, &req)
	if err != nil {
		return err
	}
	return common.SendSuccess(c, http.StatusCreated, invoice)
}

// ListInvoices handles GET /invoices
func (h *InvoiceHandlers) ListInvoices(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	p, err := listParams(c)
	if err != nil {
		return err
	}
	f := models.InvoiceFilter{
		Status:        c.QueryParam("status"),
		BillingPeriod: c.QueryParam("billing_period"),
	}
	if f.OrganizationID, err = optionalID(c, "organization_id"); err != nil {
		return err
	}
	page, err := h.invoiceService.List(c.Request().Context(), id.CompanyID, f, p)
	if err != nil {
		return err
	}
	return common.SendSuccess(c, http.StatusOK, page)
}

func (h *InvoiceHandlers) GetInvoice(c echo.Context) error {
	id, target, err := scoped(c, "id")
	if err != nil {
		return err
	}
	invoice, err := h.invoiceService.GetByID(c.Request().Context(), id.CompanyID, target)
	if err != nil {
		return err
	}
	return common.SendSuccess(c, http.StatusOK, invoice)
}

// UpdateInvoiceStatus handles PATCH /invoices/:id/status
func (h *InvoiceHandlers) UpdateInvoiceStatus(c echo.Context) error {
	id, target, err := scoped(c, "id")
	if err != nil {
		return err
	}
	var req services.UpdateInvoiceStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	invoice, err := h.invoiceService.UpdateStatus(c.Request().Context(), id.CompanyID, target, req.Status)
	if err != nil {
		return err
	}
	return common.SendSuccess(c, http.StatusOK, invoice)
}

// DownloadInvoicePDF handles GET /invoices/:id/pdf
func (h *InvoiceHandlers) DownloadInvoicePDF(c echo.Context) error {
	id, target, err := scoped(c, "id")
	if err != nil {
		return err
	}
	pdf, name, err := h.invoiceService.PDF(c.Request().Context(), id.CompanyID, target)
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}
