package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"godownhub/internal/caching"
	"godownhub/internal/common"
	"godownhub/internal/models"
	"godownhub/internal/repositories"
	"godownhub/pkg/database"
)

const billingPeriodLayout = "2006-01"

var invoiceSortColumns = []string{"invoice_number", "billing_period", "issued_date", "due_date", "total_amount", "status", "created_at"}

// validTransitions lists the statuses an invoice may move to from each status.
// Paid and cancelled invoices are final.
var validTransitions = map[string][]string{
	models.InvoiceUnpaid:  {models.InvoicePaid, models.InvoiceOverdue, models.InvoiceCancelled},
	models.InvoiceOverdue: {models.InvoicePaid, models.InvoiceCancelled},
}

type InvoiceService interface {
	// Generate bills one allocation for one month. A second invoice for the
	// same allocation and month is refused.
	Generate(ctx context.Context, companyID uuid.UUID, req *GenerateInvoiceRequest) (*models.Invoice, error)
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Invoice, error)
	List(ctx context.Context, companyID uuid.UUID, f models.InvoiceFilter, p database.ListParams) (*database.Page[models.Invoice], error)
	UpdateStatus(ctx context.Context, companyID, id uuid.UUID, status string) (*models.Invoice, error)
	// PDF renders the invoice and returns the document with a file name.
	PDF(ctx context.Context, companyID, id uuid.UUID) ([]byte, string, error)
	// MarkOverdue flips unpaid invoices past their due date, for every company.
	MarkOverdue(ctx context.Context, today time.Time) (int, error)
}

type GenerateInvoiceRequest struct {
	AllocationID  uuid.UUID `json:"allocation_id" validate:"required"`
	BillingPeriod string    `json:"billing_period" validate:"required"`
}

type UpdateInvoiceStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=unpaid paid overdue cancelled"`
}

// InvoiceSettings are the billing defaults applied to generated invoices.
type InvoiceSettings struct {
	TaxRate decimal.Decimal
	DueDays int
}

type invoiceService struct {
	tx          database.Transactor
	invoices    repositories.InvoiceRepository
	allocations repositories.AllocationRepository
	companies   repositories.CompanyRepository
	orgs        repositories.OrganizationRepository
	godowns     repositories.GodownRepository
	cache       caching.CacheService
	settings    InvoiceSettings
	logger      *zap.Logger
	today       func() time.Time
}

func NewInvoiceService(
	tx database.Transactor,
	invoices repositories.InvoiceRepository,
	allocations repositories.AllocationRepository,
	companies repositories.CompanyRepository,
	orgs repositories.OrganizationRepository,
	godowns repositories.GodownRepository,
	cache caching.CacheService,
	settings InvoiceSettings,
	logger *zap.Logger,
) InvoiceService {
	return &invoiceService{
		tx:          tx,
		invoices:    invoices,
		allocations: allocations,
		companies:   companies,
		orgs:        orgs,
		godowns:     godowns,
		cache:       cache,
		settings:    settings,
		logger:      logger,
		today:       common.Today,
	}
}

// TaxBreakdown splits GST on amount at rate percent into CGST and SGST halves.
// SGST takes the rounding remainder so the halves always add up to the tax.
func TaxBreakdown(amount, rate decimal.Decimal) (cgst, sgst, tax decimal.Decimal) {
	tax = amount.Mul(rate).Div(decimal.NewFromInt(100)).Round(2)
	cgst = tax.Div(decimal.NewFromInt(2)).Round(2)
	sgst = tax.Sub(cgst)
	return cgst, sgst, tax
}

func (s *invoiceService) Generate(ctx context.Context, companyID uuid.UUID, req *GenerateInvoiceRequest) (*models.Invoice, error) {
	period, err := time.Parse(billingPeriodLayout, strings.TrimSpace(req.BillingPeriod))
	if err != nil {
		return nil, common.NewFieldError("billing_period", "billing_period must be in YYYY-MM format")
	}
	billingPeriod := period.Format(billingPeriodLayout)

	company, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, notFound(err, "company")
	}

	var invoice *models.Invoice
	err = s.tx.InTx(ctx, func(tx database.DBTX) error {
		allocation, err := s.allocations.WithTx(tx).GetByID(ctx, companyID, req.AllocationID)
		if err != nil {
			return notFound(err, "allocation")
		}
		if allocation.Status != models.AllocationActive {
			return common.Conflict("allocation has been released")
		}

		invoices := s.invoices.WithTx(tx)
		exists, err := invoices.ExistsForPeriod(ctx, allocation.ID, billingPeriod)
		if err != nil {
			return err
		}
		if exists {
			return common.Conflict("an invoice for this allocation and billing period already exists")
		}

		seq, err := invoices.NextNumber(ctx, companyID, billingPeriod)
		if err != nil {
			return err
		}

		issued := s.today()
		cgst, sgst, tax := TaxBreakdown(allocation.MonthlyRent, s.settings.TaxRate)
		invoice = &models.Invoice{
			CompanyID:      companyID,
			OrganizationID: allocation.OrganizationID,
			AllocationID:   allocation.ID,
			InvoiceNumber:  repositories.FormatInvoiceNumber(company.Code, billingPeriod, seq),
			BillingPeriod:  billingPeriod,
			Amount:         allocation.MonthlyRent,
			TaxRate:        s.settings.TaxRate,
			CGST:           cgst,
			SGST:           sgst,
			TaxAmount:      tax,
			TotalAmount:    allocation.MonthlyRent.Add(tax),
			Status:         models.InvoiceUnpaid,
			IssuedDate:     issued,
			DueDate:        issued.AddDate(0, 0, s.settings.DueDays),
		}
		return invoices.Create(ctx, invoice)
	})
	if err != nil {
		return nil, conflictOn(err, "an invoice for this allocation and billing period already exists")
	}

	s.logger.Info("invoice generated",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("total_amount", invoice.TotalAmount.String()),
	)
	invalidateDashboard(ctx, s.cache, s.logger, companyID)
	return invoice, nil
}

func (s *invoiceService) GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Invoice, error) {
	invoice, err := s.invoices.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, notFound(err, "invoice")
	}
	return invoice, nil
}

func (s *invoiceService) List(ctx context.Context, companyID uuid.UUID, f models.InvoiceFilter, p database.ListParams) (*database.Page[models.Invoice], error) {
	if f.BillingPeriod != "" {
		if _, err := time.Parse(billingPeriodLayout, f.BillingPeriod); err != nil {
			return nil, common.NewFieldError("billing_period", "billing_period must be in YYYY-MM format")
		}
	}
	p = p.Normalize(invoiceSortColumns, "issued_date")
	items, total, err := s.invoices.List(ctx, companyID, f, p)
	if err != nil {
		return nil, err
	}
	return database.NewPage(items, total, p), nil
}

func canTransition(from, to string) bool {
	for _, status := range validTransitions[from] {
		if status == to {
			return true
		}
	}
	return false
}

func (s *invoiceService) UpdateStatus(ctx context.Context, companyID, id uuid.UUID, status string) (*models.Invoice, error) {
	invoice, err := s.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if !canTransition(invoice.Status, status) {
		return nil, common.Conflict("invalid status transition from %s to %s", invoice.Status, status)
	}

	var paidDate *time.Time
	if status == models.InvoicePaid {
		today := s.today()
		paidDate = &today
	}
	n, err := s.invoices.SetStatus(ctx, companyID, id, invoice.Status, status, paidDate)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, common.Conflict("invoice status changed concurrently, reload and retry")
	}

	invoice.Status = status
	invoice.PaidDate = paidDate
	invalidateDashboard(ctx, s.cache, s.logger, companyID)
	return invoice, nil
}

func (s *invoiceService) PDF(ctx context.Context, companyID, id uuid.UUID) ([]byte, string, error) {
	invoice, err := s.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, "", err
	}
	company, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, "", notFound(err, "company")
	}
	org, err := s.orgs.GetByID(ctx, companyID, invoice.OrganizationID)
	if err != nil {
		return nil, "", notFound(err, "organization")
	}
	doc := &InvoiceDocument{Invoice: invoice, Company: company, Organization: org}
	if allocation, err := s.allocations.GetByID(ctx, companyID, invoice.AllocationID); err == nil {
		doc.Allocation = allocation
		if godown, err := s.godowns.GetByID(ctx, companyID, allocation.GodownID); err == nil {
			doc.Godown = godown
		}
	}

	body, err := RenderInvoicePDF(doc)
	if err != nil {
		return nil, "", err
	}
	return body, invoice.InvoiceNumber + ".pdf", nil
}

func (s *invoiceService) MarkOverdue(ctx context.Context, today time.Time) (int, error) {
	companies, err := s.invoices.MarkOverdue(ctx, today)
	if err != nil {
		return 0, err
	}
	for _, companyID := range companies {
		invalidateDashboard(ctx, s.cache, s.logger, companyID)
	}
	if len(companies) > 0 {
		s.logger.Info("marked overdue invoices", zap.Int("companies", len(companies)))
	}
	return len(companies), nil
}
