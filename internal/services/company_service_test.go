package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"godownhub/internal/common"
	"godownhub/internal/models"
	"godownhub/pkg/database"
)

func TestCompanyService_CreateUppercasesCodeAndGSTIN(t *testing.T) {
	repo := &MockCompanyRepository{}
	repo.On("Create", mock.Anything, mock.AnythingOfType("*models.Company")).Return(nil)
	svc := NewCompanyService(repo)

	gstin := "27aapfu0939f1zv"
	c, err := svc.Create(context.Background(), &CompanyRequest{Name: "Acme Storage", Code: " acme ", GSTIN: &gstin})
	require.NoError(t, err)
	assert.Equal(t, "ACME", c.Code)
	assert.Equal(t, "27AAPFU0939F1ZV", *c.GSTIN)
	assert.Equal(t, models.StatusActive, c.Status)
	repo.AssertExpectations(t)
}

func TestCompanyService_CreateRejectsBadGSTIN(t *testing.T) {
	svc := NewCompanyService(&MockCompanyRepository{})

	gstin := "27AAPFU0939F1Z"
	_, err := svc.Create(context.Background(), &CompanyRequest{Name: "Acme", Code: "ACME", GSTIN: &gstin})
	assert.EqualError(t, err, "gstin must be exactly 15 characters")
}

func TestCompanyService_CreateDuplicateCode(t *testing.T) {
	repo := &MockCompanyRepository{}
	repo.On("Create", mock.Anything, mock.Anything).Return(errUnique)
	svc := NewCompanyService(repo)

	_, err := svc.Create(context.Background(), &CompanyRequest{Name: "Acme", Code: "ACME"})
	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestCompanyService_UpdateRenamesCode(t *testing.T) {
	repo := &MockCompanyRepository{}
	svc := NewCompanyService(repo)
	caller := common.Identity{UserID: uuid.New(), CompanyID: uuid.New()}
	repo.On("GetByID", mock.Anything, caller.CompanyID).
		Return(&models.Company{ID: caller.CompanyID, Name: "Acme", Code: "ACME", Status: models.StatusActive}, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(c *models.Company) bool { return c.Code == "ACME2" })).Return(nil)

	c, err := svc.Update(context.Background(), caller, caller.CompanyID, &CompanyRequest{Name: "Acme", Code: "acme2"})
	require.NoError(t, err)
	assert.Equal(t, "ACME2", c.Code)
	repo.AssertExpectations(t)
}

func TestCompanyService_UpdateDuplicateCode(t *testing.T) {
	repo := &MockCompanyRepository{}
	svc := NewCompanyService(repo)
	caller := common.Identity{UserID: uuid.New(), CompanyID: uuid.New()}
	repo.On("GetByID", mock.Anything, caller.CompanyID).
		Return(&models.Company{ID: caller.CompanyID, Name: "Acme", Code: "ACME", Status: models.StatusActive}, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(errUnique)

	_, err := svc.Update(context.Background(), caller, caller.CompanyID, &CompanyRequest{Name: "Acme", Code: "TAKEN"})
	assert.EqualError(t, err, "a company with this code already exists")
	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestCompanyService_NonAdminSeesOnlyOwnCompany(t *testing.T) {
	repo := &MockCompanyRepository{}
	svc := NewCompanyService(repo)
	caller := common.Identity{UserID: uuid.New(), CompanyID: uuid.New()}

	repo.On("List", mock.Anything, &caller.CompanyID, mock.AnythingOfType("database.ListParams")).
		Return([]*models.Company{{ID: caller.CompanyID}}, int64(1), nil)
	page, err := svc.List(context.Background(), caller, database.ListParams{})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)

	_, err = svc.GetByID(context.Background(), caller, uuid.New())
	assert.ErrorIs(t, err, common.ErrNotFound)
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestCompanyService_Delete(t *testing.T) {
	admin := common.Identity{UserID: uuid.New(), CompanyID: uuid.New(), IsAdmin: true}
	other := uuid.New()

	t.Run("admin only", func(t *testing.T) {
		svc := NewCompanyService(&MockCompanyRepository{})
		err := svc.Delete(context.Background(), common.Identity{CompanyID: admin.CompanyID}, other)
		assert.ErrorIs(t, err, common.ErrForbidden)
	})

	t.Run("not own company", func(t *testing.T) {
		svc := NewCompanyService(&MockCompanyRepository{})
		err := svc.Delete(context.Background(), admin, admin.CompanyID)
		assert.ErrorIs(t, err, common.ErrConflict)
	})

	t.Run("soft deletes", func(t *testing.T) {
		repo := &MockCompanyRepository{}
		repo.On("SetStatus", mock.Anything, other, models.StatusDeleted).Return(int64(1), nil)
		svc := NewCompanyService(repo)
		require.NoError(t, svc.Delete(context.Background(), admin, other))
		repo.AssertExpectations(t)
	})

	t.Run("missing", func(t *testing.T) {
		repo := &MockCompanyRepository{}
		repo.On("SetStatus", mock.Anything, other, models.StatusDeleted).Return(int64(0), nil)
		svc := NewCompanyService(repo)
		assert.ErrorIs(t, svc.Delete(context.Background(), admin, other), common.ErrNotFound)
	})
}
