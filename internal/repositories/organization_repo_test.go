package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"godownhub/internal/models"
	"godownhub/pkg/database"
)

type OrganizationRepoTestSuite struct {
	suite.Suite
	mock      pgxmock.PgxPoolIface
	repo      OrganizationRepository
	companyID uuid.UUID
	orgID     uuid.UUID
	ctx       context.Context
}

func (suite *OrganizationRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	require.NoError(suite.T(), err)
	suite.mock = mock
	suite.repo = NewOrganizationRepository(mock)
	suite.companyID = uuid.New()
	suite.orgID = uuid.New()
	suite.ctx = context.Background()
}

func (suite *OrganizationRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestOrganizationRepoTestSuite(t *testing.T) {
	suite.Run(t, new(OrganizationRepoTestSuite))
}

func (suite *OrganizationRepoTestSuite) row(status string) *pgxmock.Rows {
	return pgxmock.NewRows(organizationColumns).AddRow(
		suite.orgID, suite.companyID, "Acme Traders", stringPtr("Ravi"), stringPtr("ravi@acme.in"),
		stringPtr("9876543210"), stringPtr("27AAPFU0939F1ZV"), (*string)(nil), status, fixedTime, fixedTime,
	)
}

func (suite *OrganizationRepoTestSuite) TestCreate_ThenGet() {
	org := &models.Organization{
		CompanyID:     suite.companyID,
		Name:          "Acme Traders",
		ContactPerson: stringPtr("Ravi"),
		Email:         stringPtr("ravi@acme.in"),
		Phone:         stringPtr("9876543210"),
		GSTIN:         stringPtr("27AAPFU0939F1ZV"),
		Status:        models.StatusActive,
	}

	suite.mock.ExpectQuery(`INSERT INTO organizations \(address,company_id,contact_person,email,gstin,name,phone,status\) VALUES \(\$1,\$2,\$3,\$4,\$5,\$6,\$7,\$8\) RETURNING id`).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(suite.orgID))
	suite.mock.ExpectQuery(`SELECT id, company_id, name, .* FROM organizations WHERE company_id = \$1 AND id = \$2 LIMIT 1`).
		WithArgs(suite.companyID, suite.orgID).
		WillReturnRows(suite.row(models.StatusActive))

	require.NoError(suite.T(), suite.repo.Create(suite.ctx, org))
	assert.Equal(suite.T(), suite.orgID, org.ID)

	got, err := suite.repo.GetByID(suite.ctx, suite.companyID, org.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Acme Traders", got.Name)
	assert.Equal(suite.T(), "27AAPFU0939F1ZV", *got.GSTIN)
	assert.Nil(suite.T(), got.Address)
}

func (suite *OrganizationRepoTestSuite) TestList_SearchStatusAndSort() {
	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM organizations WHERE company_id = \$1 AND \(name ILIKE \$2 OR contact_person ILIKE \$3 OR email ILIKE \$4 OR gstin ILIKE \$5\) AND status = \$6`).
		WithArgs(suite.companyID, "%acme%", "%acme%", "%acme%", "%acme%", models.StatusInactive).
		WillReturnRows(countRows(11))
	suite.mock.ExpectQuery(`FROM organizations WHERE .* ORDER BY created_at DESC LIMIT 10 OFFSET 10`).
		WillReturnRows(suite.row(models.StatusInactive))

	p := database.ListParams{Page: 2, Sort: "created_at", Order: "desc", Search: "acme"}.
		Normalize([]string{"name", "created_at", "status"}, "name")
	items, total, err := suite.repo.List(suite.ctx, suite.companyID, models.StatusInactive, p)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(11), total)
	require.Len(suite.T(), items, 1)
	assert.Equal(suite.T(), models.StatusInactive, items[0].Status)
}

func (suite *OrganizationRepoTestSuite) TestSetStatus_NoMatch() {
	suite.mock.ExpectExec(`UPDATE organizations SET status = \$1, updated_at = NOW\(\) WHERE company_id = \$2 AND id = \$3`).
		WithArgs(models.StatusInactive, suite.companyID, suite.orgID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	n, err := suite.repo.SetStatus(suite.ctx, suite.companyID, suite.orgID, models.StatusInactive)
	require.NoError(suite.T(), err)
	assert.Zero(suite.T(), n)
}
