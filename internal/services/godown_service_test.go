package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"godownhub/internal/common"
	"godownhub/internal/models"
)

func TestGodownService_CreateDefaults(t *testing.T) {
	godowns := &MockGodownRepository{}
	godowns.On("Create", mock.Anything, mock.AnythingOfType("*models.Godown")).Return(nil)
	svc := NewGodownService(&fakeTransactor{}, godowns, &MockAllocationRepository{})

	location := "  "
	g, err := svc.Create(context.Background(), uuid.New(), &GodownRequest{
		Name:          " Bhiwandi North ",
		Code:          "bw-1",
		Location:      &location,
		TotalCapacity: decimal.NewFromInt(12000),
	})
	require.NoError(t, err)
	assert.Equal(t, "Bhiwandi North", g.Name)
	assert.Equal(t, "BW-1", g.Code)
	assert.Nil(t, g.Location)
	assert.Equal(t, "sqft", g.CapacityUnit)
	assert.Equal(t, models.StatusActive, g.Status)
}

func TestGodownService_CreateDuplicateCode(t *testing.T) {
	godowns := &MockGodownRepository{}
	godowns.On("Create", mock.Anything, mock.Anything).Return(errUnique)
	svc := NewGodownService(&fakeTransactor{}, godowns, &MockAllocationRepository{})

	_, err := svc.Create(context.Background(), uuid.New(), &GodownRequest{Name: "A", Code: "A", TotalCapacity: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, common.ErrConflict)
	assert.EqualError(t, err, "a godown with this code already exists")
}

func TestGodownService_UpdateCapacity(t *testing.T) {
	companyID, id := uuid.New(), uuid.New()
	current := func() *models.Godown {
		return &models.Godown{ID: id, CompanyID: companyID, Name: "North", Code: "N", TotalCapacity: decimal.NewFromInt(1000), CapacityUnit: "sqft", Status: models.StatusActive}
	}

	t.Run("shrinking below allocated space is refused", func(t *testing.T) {
		godowns := &MockGodownRepository{}
		allocations := &MockAllocationRepository{}
		godowns.On("GetForUpdate", mock.Anything, companyID, id).Return(current(), nil)
		allocations.On("ActiveSpace", mock.Anything, id, (*uuid.UUID)(nil)).Return(decimal.NewFromInt(800), nil)
		svc := NewGodownService(&fakeTransactor{}, godowns, allocations)

		_, err := svc.Update(context.Background(), companyID, id, &GodownRequest{Name: "North", Code: "N", TotalCapacity: decimal.NewFromInt(500)})
		assert.ErrorIs(t, err, common.ErrConflict)
		assert.EqualError(t, err, "total capacity 500 is below the 800 already allocated")
		godowns.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("shrinking above allocated space is accepted", func(t *testing.T) {
		godowns := &MockGodownRepository{}
		allocations := &MockAllocationRepository{}
		godowns.On("GetForUpdate", mock.Anything, companyID, id).Return(current(), nil)
		godowns.On("Update", mock.Anything, mock.AnythingOfType("*models.Godown")).Return(nil)
		allocations.On("ActiveSpace", mock.Anything, id, (*uuid.UUID)(nil)).Return(decimal.NewFromInt(800), nil)
		svc := NewGodownService(&fakeTransactor{}, godowns, allocations)

		g, err := svc.Update(context.Background(), companyID, id, &GodownRequest{Name: "North", Code: "n", TotalCapacity: decimal.NewFromInt(900)})
		require.NoError(t, err)
		assert.True(t, g.TotalCapacity.Equal(decimal.NewFromInt(900)))
		assert.Equal(t, "N", g.Code)
		assert.Equal(t, "sqft", g.CapacityUnit)
	})

	t.Run("growing skips the allocation check", func(t *testing.T) {
		godowns := &MockGodownRepository{}
		allocations := &MockAllocationRepository{}
		godowns.On("GetForUpdate", mock.Anything, companyID, id).Return(current(), nil)
		godowns.On("Update", mock.Anything, mock.Anything).Return(nil)
		svc := NewGodownService(&fakeTransactor{}, godowns, allocations)

		_, err := svc.Update(context.Background(), companyID, id, &GodownRequest{Name: "North", Code: "N", TotalCapacity: decimal.NewFromInt(2000), Status: models.StatusInactive})
		require.NoError(t, err)
		allocations.AssertNotCalled(t, "ActiveSpace", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing godown", func(t *testing.T) {
		godowns := &MockGodownRepository{}
		godowns.On("GetForUpdate", mock.Anything, companyID, id).Return(nil, errNoRows)
		svc := NewGodownService(&fakeTransactor{}, godowns, &MockAllocationRepository{})

		_, err := svc.Update(context.Background(), companyID, id, &GodownRequest{Name: "North", Code: "N", TotalCapacity: decimal.NewFromInt(1)})
		assert.EqualError(t, err, "godown not found")
	})
}

func TestGodownService_DeleteAndOccupancy(t *testing.T) {
	companyID, id := uuid.New(), uuid.New()
	godowns := &MockGodownRepository{}
	godowns.On("SetStatus", mock.Anything, companyID, id, models.StatusInactive).Return(int64(1), nil).Once()
	godowns.On("SetStatus", mock.Anything, companyID, id, models.StatusInactive).Return(int64(0), nil).Once()
	godowns.On("Occupancy", mock.Anything, companyID, id).Return(nil, errNoRows)
	svc := NewGodownService(&fakeTransactor{}, godowns, &MockAllocationRepository{})

	require.NoError(t, svc.Delete(context.Background(), companyID, id))
	assert.ErrorIs(t, svc.Delete(context.Background(), companyID, id), common.ErrNotFound)

	_, err := svc.Occupancy(context.Background(), companyID, id)
	assert.ErrorIs(t, err, common.ErrNotFound)
}
