package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"godownhub/internal/models"
)

type AgreementRepoTestSuite struct {
	suite.Suite
	mock      pgxmock.PgxPoolIface
	repo      AgreementRepository
	licenses  LicenseRepository
	companyID uuid.UUID
	ctx       context.Context
}

func (suite *AgreementRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	require.NoError(suite.T(), err)
	suite.mock = mock
	suite.repo = NewAgreementRepository(mock)
	suite.licenses = NewLicenseRepository(mock)
	suite.companyID = uuid.New()
	suite.ctx = context.Background()
}

func (suite *AgreementRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestAgreementRepoTestSuite(t *testing.T) {
	suite.Run(t, new(AgreementRepoTestSuite))
}

func (suite *AgreementRepoTestSuite) TestUpdate_WritesOrganization() {
	a := &models.Agreement{
		ID:              uuid.New(),
		CompanyID:       suite.companyID,
		OrganizationID:  uuid.New(),
		AgreementNumber: "AGR-2024-001",
		StartDate:       fixedTime,
		EndDate:         fixedTime.AddDate(1, 0, 0),
		MonthlyRent:     decimal.NewFromInt(25000),
		SecurityDeposit: decimal.NewFromInt(75000),
		Notes:           stringPtr("renewed"),
		Status:          models.AgreementActive,
	}
	suite.mock.ExpectExec(`UPDATE organization_agreements SET agreement_number = \$1, end_date = \$2, monthly_rent = \$3, notes = \$4, organization_id = \$5, security_deposit = \$6, start_date = \$7, status = \$8, updated_at = NOW\(\) WHERE company_id = \$9 AND id = \$10`).
		WithArgs(a.AgreementNumber, a.EndDate, a.MonthlyRent, a.Notes, a.OrganizationID,
			a.SecurityDeposit, a.StartDate, a.Status, suite.companyID, a.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(suite.T(), suite.repo.Update(suite.ctx, a))
}

func (suite *AgreementRepoTestSuite) TestLicenseUpdate_WritesOrganization() {
	l := &models.License{
		ID:             uuid.New(),
		CompanyID:      suite.companyID,
		OrganizationID: uuid.New(),
		LicenseType:    "fssai",
		LicenseNumber:  "10020042000123",
		IssuedBy:       stringPtr("FSSAI Mumbai"),
		ValidFrom:      fixedTime,
		ValidTo:        fixedTime.AddDate(5, 0, 0),
		Status:         models.LicenseActive,
	}
	suite.mock.ExpectExec(`UPDATE organization_licenses SET issued_by = \$1, license_number = \$2, license_type = \$3, organization_id = \$4, status = \$5, updated_at = NOW\(\), valid_from = \$6, valid_to = \$7 WHERE company_id = \$8 AND id = \$9`).
		WithArgs(l.IssuedBy, l.LicenseNumber, l.LicenseType, l.OrganizationID,
			l.Status, l.ValidFrom, l.ValidTo, suite.companyID, l.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(suite.T(), suite.licenses.Update(suite.ctx, l))
}
