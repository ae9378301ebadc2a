package services

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"godownhub/internal/common"
	"godownhub/internal/models"
)

type InvoiceServiceTestSuite struct {
	suite.Suite
	tx          *fakeTransactor
	invoices    *MockInvoiceRepository
	allocations *MockAllocationRepository
	companies   *MockCompanyRepository
	orgs        *MockOrganizationRepository
	godowns     *MockGodownRepository
	cache       *MockCacheService
	service     *invoiceService
	ctx         context.Context

	company    *models.Company
	allocation *models.SpaceAllocation
	today      time.Time
}

func (s *InvoiceServiceTestSuite) SetupTest() {
	s.tx = &fakeTransactor{}
	s.invoices = &MockInvoiceRepository{}
	s.allocations = &MockAllocationRepository{}
	s.companies = &MockCompanyRepository{}
	s.orgs = &MockOrganizationRepository{}
	s.godowns = &MockGodownRepository{}
	s.cache = &MockCacheService{}
	settings := InvoiceSettings{TaxRate: decimal.NewFromInt(18), DueDays: 15}
	s.service = NewInvoiceService(s.tx, s.invoices, s.allocations, s.companies, s.orgs, s.godowns, s.cache, settings, zap.NewNop()).(*invoiceService)
	s.today = time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	s.service.today = func() time.Time { return s.today }
	s.ctx = context.Background()

	s.company = &models.Company{ID: uuid.New(), Name: "Acme Warehousing", Code: "ACME", Status: models.StatusActive}
	s.allocation = &models.SpaceAllocation{
		ID:             uuid.New(),
		CompanyID:      s.company.ID,
		GodownID:       uuid.New(),
		OrganizationID: uuid.New(),
		AllocatedSpace: decimal.NewFromInt(500),
		MonthlyRent:    decimal.NewFromInt(25000),
		Status:         models.AllocationActive,
	}
}

func (s *InvoiceServiceTestSuite) TearDownTest() {
	s.invoices.AssertExpectations(s.T())
	s.allocations.AssertExpectations(s.T())
	s.companies.AssertExpectations(s.T())
	s.cache.AssertExpectations(s.T())
}

func TestInvoiceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceServiceTestSuite))
}

func (s *InvoiceServiceTestSuite) TestGenerate_ComputesTaxAndNumber() {
	s.companies.On("GetByID", s.ctx, s.company.ID).Return(s.company, nil)
	s.allocations.On("GetByID", s.ctx, s.company.ID, s.allocation.ID).Return(s.allocation, nil)
	s.invoices.On("ExistsForPeriod", s.ctx, s.allocation.ID, "2025-03").Return(false, nil)
	s.invoices.On("NextNumber", s.ctx, s.company.ID, "2025-03").Return(7, nil)
	s.invoices.On("Create", s.ctx, mock.AnythingOfType("*models.Invoice")).Return(nil)
	s.cache.On("InvalidateCompanyDashboard", s.ctx, s.company.ID).Return(nil)

	invoice, err := s.service.Generate(s.ctx, s.company.ID, &GenerateInvoiceRequest{AllocationID: s.allocation.ID, BillingPeriod: "2025-03"})
	s.Require().NoError(err)
	s.Equal("INV-ACME-2025-03-000007", invoice.InvoiceNumber)
	s.Equal("25000", invoice.Amount.String())
	s.Equal("4500", invoice.TaxAmount.String())
	s.Equal("2250", invoice.CGST.String())
	s.Equal("2250", invoice.SGST.String())
	s.Equal("29500", invoice.TotalAmount.String())
	s.Equal(models.InvoiceUnpaid, invoice.Status)
	s.Equal(s.allocation.OrganizationID, invoice.OrganizationID)
	s.Equal(s.today.AddDate(0, 0, 15), invoice.DueDate)
}

func (s *InvoiceServiceTestSuite) TestGenerate_DuplicatePeriod() {
	s.companies.On("GetByID", s.ctx, s.company.ID).Return(s.company, nil)
	s.allocations.On("GetByID", s.ctx, s.company.ID, s.allocation.ID).Return(s.allocation, nil)
	s.invoices.On("ExistsForPeriod", s.ctx, s.allocation.ID, "2025-03").Return(true, nil)

	_, err := s.service.Generate(s.ctx, s.company.ID, &GenerateInvoiceRequest{AllocationID: s.allocation.ID, BillingPeriod: "2025-03"})
	s.ErrorIs(err, common.ErrConflict)
	s.invoices.AssertNotCalled(s.T(), "NextNumber", mock.Anything, mock.Anything, mock.Anything)
}

func (s *InvoiceServiceTestSuite) TestGenerate_UniqueIndexRace() {
	s.companies.On("GetByID", s.ctx, s.company.ID).Return(s.company, nil)
	s.allocations.On("GetByID", s.ctx, s.company.ID, s.allocation.ID).Return(s.allocation, nil)
	s.invoices.On("ExistsForPeriod", s.ctx, s.allocation.ID, "2025-03").Return(false, nil)
	s.invoices.On("NextNumber", s.ctx, s.company.ID, "2025-03").Return(8, nil)
	s.invoices.On("Create", s.ctx, mock.AnythingOfType("*models.Invoice")).Return(errUnique)

	_, err := s.service.Generate(s.ctx, s.company.ID, &GenerateInvoiceRequest{AllocationID: s.allocation.ID, BillingPeriod: "2025-03"})
	s.ErrorIs(err, common.ErrConflict)
}

func (s *InvoiceServiceTestSuite) TestGenerate_ReleasedAllocation() {
	s.allocation.Status = models.AllocationReleased
	s.companies.On("GetByID", s.ctx, s.company.ID).Return(s.company, nil)
	s.allocations.On("GetByID", s.ctx, s.company.ID, s.allocation.ID).Return(s.allocation, nil)

	_, err := s.service.Generate(s.ctx, s.company.ID, &GenerateInvoiceRequest{AllocationID: s.allocation.ID, BillingPeriod: "2025-03"})
	s.ErrorIs(err, common.ErrConflict)
}

func (s *InvoiceServiceTestSuite) TestGenerate_BadPeriod() {
	_, err := s.service.Generate(s.ctx, s.company.ID, &GenerateInvoiceRequest{AllocationID: s.allocation.ID, BillingPeriod: "03-2025"})
	s.True(common.IsValidation(err))
	s.Equal(0, s.tx.calls)
}

func (s *InvoiceServiceTestSuite) TestUpdateStatus_PaidSetsPaidDate() {
	id := uuid.New()
	s.invoices.On("GetByID", s.ctx, s.company.ID, id).Return(&models.Invoice{ID: id, Status: models.InvoiceOverdue}, nil)
	s.invoices.On("SetStatus", s.ctx, s.company.ID, id, models.InvoiceOverdue, models.InvoicePaid, &s.today).Return(int64(1), nil)
	s.cache.On("InvalidateCompanyDashboard", s.ctx, s.company.ID).Return(nil)

	invoice, err := s.service.UpdateStatus(s.ctx, s.company.ID, id, models.InvoicePaid)
	s.Require().NoError(err)
	s.Equal(models.InvoicePaid, invoice.Status)
	s.Require().NotNil(invoice.PaidDate)
	s.Equal(s.today, *invoice.PaidDate)
}

func (s *InvoiceServiceTestSuite) TestUpdateStatus_ChangedSinceRead() {
	id := uuid.New()
	s.invoices.On("GetByID", s.ctx, s.company.ID, id).Return(&models.Invoice{ID: id, Status: models.InvoiceUnpaid}, nil)
	s.invoices.On("SetStatus", s.ctx, s.company.ID, id, models.InvoiceUnpaid, models.InvoiceCancelled, (*time.Time)(nil)).Return(int64(0), nil)

	_, err := s.service.UpdateStatus(s.ctx, s.company.ID, id, models.InvoiceCancelled)
	s.ErrorIs(err, common.ErrConflict)
	s.cache.AssertNotCalled(s.T(), "InvalidateCompanyDashboard", mock.Anything, mock.Anything)
}

func (s *InvoiceServiceTestSuite) TestUpdateStatus_FinalStatesAreFinal() {
	for _, from := range []string{models.InvoicePaid, models.InvoiceCancelled} {
		id := uuid.New()
		s.invoices.On("GetByID", s.ctx, s.company.ID, id).Return(&models.Invoice{ID: id, Status: from}, nil)

		_, err := s.service.UpdateStatus(s.ctx, s.company.ID, id, models.InvoiceUnpaid)
		s.ErrorIs(err, common.ErrConflict, from)
	}
}

func (s *InvoiceServiceTestSuite) TestUpdateStatus_OverdueCannotGoBackToUnpaid() {
	id := uuid.New()
	s.invoices.On("GetByID", s.ctx, s.company.ID, id).Return(&models.Invoice{ID: id, Status: models.InvoiceOverdue}, nil)

	_, err := s.service.UpdateStatus(s.ctx, s.company.ID, id, models.InvoiceUnpaid)
	s.ErrorIs(err, common.ErrConflict)
}

func (s *InvoiceServiceTestSuite) TestMarkOverdue_InvalidatesTouchedCompanies() {
	other := uuid.New()
	s.invoices.On("MarkOverdue", s.ctx, s.today).Return([]uuid.UUID{s.company.ID, other}, nil)
	s.cache.On("InvalidateCompanyDashboard", s.ctx, s.company.ID).Return(nil)
	s.cache.On("InvalidateCompanyDashboard", s.ctx, other).Return(nil)

	n, err := s.service.MarkOverdue(s.ctx, s.today)
	s.NoError(err)
	s.Equal(2, n)
}

func (s *InvoiceServiceTestSuite) TestPDF() {
	id := uuid.New()
	org := &models.Organization{ID: s.allocation.OrganizationID, Name: "Ravi Traders"}
	invoice := &models.Invoice{
		ID:             id,
		CompanyID:      s.company.ID,
		OrganizationID: org.ID,
		AllocationID:   s.allocation.ID,
		InvoiceNumber:  "INV-ACME-2025-03-000001",
		BillingPeriod:  "2025-03",
		Amount:         decimal.NewFromInt(25000),
		TaxRate:        decimal.NewFromInt(18),
		CGST:           decimal.NewFromInt(2250),
		SGST:           decimal.NewFromInt(2250),
		TaxAmount:      decimal.NewFromInt(4500),
		TotalAmount:    decimal.NewFromInt(29500),
		Status:         models.InvoiceUnpaid,
		IssuedDate:     s.today,
		DueDate:        s.today.AddDate(0, 0, 15),
	}
	s.invoices.On("GetByID", s.ctx, s.company.ID, id).Return(invoice, nil)
	s.companies.On("GetByID", s.ctx, s.company.ID).Return(s.company, nil)
	s.orgs.On("GetByID", s.ctx, s.company.ID, org.ID).Return(org, nil)
	s.allocations.On("GetByID", s.ctx, s.company.ID, s.allocation.ID).Return(s.allocation, nil)
	s.godowns.On("GetByID", s.ctx, s.company.ID, s.allocation.GodownID).Return(&models.Godown{Name: "North", Code: "GD-N", CapacityUnit: "sqft"}, nil)

	body, name, err := s.service.PDF(s.ctx, s.company.ID, id)
	s.Require().NoError(err)
	s.Equal("INV-ACME-2025-03-000001.pdf", name)
	s.True(bytes.HasPrefix(body, []byte("%PDF")))
}

func TestTaxBreakdown(t *testing.T) {
	cases := []struct {
		amount, rate    string
		cgst, sgst, tax string
	}{
		{"25000", "18", "2250", "2250", "4500"},
		{"1000.55", "18", "90.05", "90.05", "180.1"},
		{"0.05", "18", "0.01", "0", "0.01"},
		{"1000", "0", "0", "0", "0"},
	}
	for _, tc := range cases {
		cgst, sgst, tax := TaxBreakdown(decimal.RequireFromString(tc.amount), decimal.RequireFromString(tc.rate))
		assert.Equal(t, tc.tax, tax.String(), tc.amount)
		assert.Equal(t, tc.cgst, cgst.String(), tc.amount)
		assert.Equal(t, tc.sgst, sgst.String(), tc.amount)
		assert.True(t, cgst.Add(sgst).Equal(tax), tc.amount)
	}
}

func TestFormatINR(t *testing.T) {
	got := FormatINR(decimal.RequireFromString("1234567.5"))
	require.True(t, strings.HasPrefix(got, "Rs. "), got)
	assert.True(t, strings.HasSuffix(got, ".50"), got)
	assert.Contains(t, got, ",")
}
