package database

import (
	"context"
	"errors"
	"regexp"
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type sampleRow struct {
	ID     uuid.UUID `db:"id"`
	Name   string    `db:"name"`
	Status string    `db:"status"`
}

type QueryBuilderTestSuite struct {
	suite.Suite
	mock      pgxmock.PgxPoolIface
	ctx       context.Context
	companyID uuid.UUID
}

func (suite *QueryBuilderTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	require.NoError(suite.T(), err)
	suite.mock = mock
	suite.ctx = context.Background()
	suite.companyID = uuid.New()
}

func (suite *QueryBuilderTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestQueryBuilderTestSuite(t *testing.T) {
	suite.Run(t, new(QueryBuilderTestSuite))
}

func (suite *QueryBuilderTestSuite) TestToSQL_FullChain() {
	query, args, err := Table(suite.mock, "organizations").
		Columns("id", "name").
		Where("company_id = ?", suite.companyID).
		Where("status = ?", "active").
		Search("acme", "name", "email").
		OrderBy("name", "desc").
		Limit(10).
		Offset(20).
		ToSQL()

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(),
		"SELECT id, name FROM organizations WHERE company_id = $1 AND status = $2 AND (name ILIKE $3 OR email ILIKE $4) ORDER BY name DESC LIMIT 10 OFFSET 20",
		query)
	assert.Equal(suite.T(), []any{suite.companyID, "active", "%acme%", "%acme%"}, args)
}

func (suite *QueryBuilderTestSuite) TestToSQL_DefaultsToStar() {
	query, args, err := Table(suite.mock, "godowns").ToSQL()
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "SELECT * FROM godowns", query)
	assert.Empty(suite.T(), args)
}

func (suite *QueryBuilderTestSuite) TestToSQL_OrWhere() {
	query, args, err := Table(suite.mock, "users").
		Columns("id").
		Where("status = ?", "active").
		OrWhere("status = ?", "invited").
		ToSQL()

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "SELECT id FROM users WHERE (status = $1 OR status = $2)", query)
	assert.Equal(suite.T(), []any{"active", "invited"}, args)
}

func (suite *QueryBuilderTestSuite) TestToSQL_OrWhereGroupsPrecedingPredicates() {
	query, args, err := Table(suite.mock, "users").
		Columns("id").
		Where("status = ?", "active").
		OrWhere("status = ?", "invited").
		Where("company_id = ?", suite.companyID).
		ToSQL()

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "SELECT id FROM users WHERE (status = $1 OR status = $2) AND company_id = $3", query)
	assert.Equal(suite.T(), []any{"active", "invited", suite.companyID}, args)
}

func (suite *QueryBuilderTestSuite) TestToSQL_SqlizerPredicate() {
	query, args, err := Table(suite.mock, "invoices").
		Columns("id").
		Where(sq.Eq{"status": []string{"unpaid", "overdue"}}).
		ToSQL()

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "SELECT id FROM invoices WHERE status IN ($1,$2)", query)
	assert.Equal(suite.T(), []any{"unpaid", "overdue"}, args)
}

func (suite *QueryBuilderTestSuite) TestToSQL_DirectionNormalized() {
	query, _, err := Table(suite.mock, "godowns").Columns("id").OrderBy("name", "sideways").ToSQL()
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "SELECT id FROM godowns ORDER BY name ASC", query)
}

func (suite *QueryBuilderTestSuite) TestToSQL_SearchEscapesWildcards() {
	_, args, err := Table(suite.mock, "organizations").Search("50%_off", "name").ToSQL()
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), []any{`%50\%\_off%`}, args)
}

func (suite *QueryBuilderTestSuite) TestToSQL_EmptySearchIgnored() {
	query, _, err := Table(suite.mock, "organizations").Search("   ", "name").ToSQL()
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "SELECT * FROM organizations", query)
}

func (suite *QueryBuilderTestSuite) TestToSQL_RejectsUnsafeIdentifiers() {
	_, _, err := Table(suite.mock, "organizations").OrderBy("name; DROP TABLE users", "asc").ToSQL()
	assert.Error(suite.T(), err)

	_, _, err = Table(suite.mock, "organizations o").ToSQL()
	assert.Error(suite.T(), err)
}

func (suite *QueryBuilderTestSuite) TestSelect_Success() {
	id := uuid.New()
	suite.mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, status FROM organizations WHERE company_id = $1")).
		WithArgs(suite.companyID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "status"}).AddRow(id, "Acme", "active"))

	items, err := All[sampleRow](suite.ctx, Table(suite.mock, "organizations").
		Columns("id", "name", "status").
		Where("company_id = ?", suite.companyID))

	require.NoError(suite.T(), err)
	require.Len(suite.T(), items, 1)
	assert.Equal(suite.T(), id, items[0].ID)
	assert.Equal(suite.T(), "Acme", items[0].Name)
}

func (suite *QueryBuilderTestSuite) TestSelect_DatabaseError() {
	suite.mock.ExpectQuery("SELECT").WillReturnError(errors.New("connection reset"))

	_, err := All[sampleRow](suite.ctx, Table(suite.mock, "organizations").Columns("id"))

	var dbErr *DatabaseError
	require.True(suite.T(), errors.As(err, &dbErr))
	assert.Equal(suite.T(), "select organizations", dbErr.Op)
	assert.Contains(suite.T(), err.Error(), "connection reset")
}

func (suite *QueryBuilderTestSuite) TestOne_NotFound() {
	suite.mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, status FROM organizations WHERE id = $1 LIMIT 1")).
		WithArgs(suite.companyID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "status"}))

	item, err := One[sampleRow](suite.ctx, Table(suite.mock, "organizations").
		Columns("id", "name", "status").
		Where("id = ?", suite.companyID))

	assert.Nil(suite.T(), item)
	assert.True(suite.T(), IsNotFound(err))
}

func (suite *QueryBuilderTestSuite) TestSelectOne_ScanWrapsError() {
	suite.mock.ExpectQuery(regexp.QuoteMeta("SELECT name FROM companies WHERE id = $1 LIMIT 1")).
		WithArgs(suite.companyID).
		WillReturnRows(pgxmock.NewRows([]string{"name"}))

	var name string
	err := Table(suite.mock, "companies").Columns("name").Where("id = ?", suite.companyID).SelectOne(suite.ctx).Scan(&name)

	var dbErr *DatabaseError
	assert.True(suite.T(), errors.As(err, &dbErr))
	assert.True(suite.T(), IsNotFound(err))
}

func (suite *QueryBuilderTestSuite) TestInsert_ReturnsID() {
	id := uuid.New()
	suite.mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO organizations (company_id,name) VALUES ($1,$2) RETURNING id")).
		WithArgs(suite.companyID, "Acme").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(id))

	got, err := Table(suite.mock, "organizations").Insert(suite.ctx, map[string]any{
		"name":       "Acme",
		"company_id": suite.companyID,
	})

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), id, got)
}

func (suite *QueryBuilderTestSuite) TestInsert_EmptyValues() {
	_, err := Table(suite.mock, "organizations").Insert(suite.ctx, nil)
	assert.ErrorIs(suite.T(), err, ErrEmptyValues)
}

func (suite *QueryBuilderTestSuite) TestUpdate_ReturnsAffectedRows() {
	roleID := uuid.New()
	suite.mock.ExpectExec(regexp.QuoteMeta("UPDATE roles SET name = $1, updated_at = NOW() WHERE id = $2")).
		WithArgs("Ops", roleID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	n, err := Table(suite.mock, "roles").Where("id = ?", roleID).Update(suite.ctx, map[string]any{
		"name":       "Ops",
		"updated_at": sq.Expr("NOW()"),
	})

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), n)
}

func (suite *QueryBuilderTestSuite) TestUpdate_RefusesWithoutWhere() {
	_, err := Table(suite.mock, "roles").Update(suite.ctx, map[string]any{"name": "Ops"})

	assert.ErrorIs(suite.T(), err, ErrUnsafeMutation)
	var dbErr *DatabaseError
	assert.True(suite.T(), errors.As(err, &dbErr))
}

func (suite *QueryBuilderTestSuite) TestDelete_ReturnsAffectedRows() {
	id := uuid.New()
	suite.mock.ExpectExec(regexp.QuoteMeta("DELETE FROM folder_permissions WHERE id = $1")).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	n, err := Table(suite.mock, "folder_permissions").Where("id = ?", id).Delete(suite.ctx)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), n)
}

func (suite *QueryBuilderTestSuite) TestDelete_RefusesWithoutWhere() {
	_, err := Table(suite.mock, "folder_permissions").Delete(suite.ctx)
	assert.ErrorIs(suite.T(), err, ErrUnsafeMutation)
}

func (suite *QueryBuilderTestSuite) TestCount() {
	suite.mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM organizations WHERE company_id = $1")).
		WithArgs(suite.companyID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(42)))

	n, err := Table(suite.mock, "organizations").
		Where("company_id = ?", suite.companyID).
		OrderBy("name", "asc").
		Limit(10).
		Count(suite.ctx)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(42), n)
}
