package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"godownhub/internal/common"
	"godownhub/internal/models"
	"godownhub/internal/repositories"
	"godownhub/pkg/database"
)

var godownSortColumns = []string{"name", "code", "total_capacity", "created_at", "status"}

type GodownService interface {
	Create(ctx context.Context, companyID uuid.UUID, req *GodownRequest) (*models.Godown, error)
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Godown, error)
	List(ctx context.Context, companyID uuid.UUID, status string, p database.ListParams) (*database.Page[models.Godown], error)
	Update(ctx context.Context, companyID, id uuid.UUID, req *GodownRequest) (*models.Godown, error)
	Delete(ctx context.Context, companyID, id uuid.UUID) error
	Occupancy(ctx context.Context, companyID, id uuid.UUID) (*models.GodownOccupancy, error)
}

type GodownRequest struct {
	Name          string          `json:"name" validate:"required,max=200"`
	Code          string          `json:"code" validate:"required,max=50"`
	Location      *string         `json:"location"`
	TotalCapacity decimal.Decimal `json:"total_capacity" validate:"dgt=0"`
	CapacityUnit  string          `json:"capacity_unit" validate:"omitempty,max=20"`
	Status        string          `json:"status" validate:"omitempty,oneof=active inactive"`
}

const defaultCapacityUnit = "sqft"

type godownService struct {
	tx          database.Transactor
	godowns     repositories.GodownRepository
	allocations repositories.AllocationRepository
}

func NewGodownService(tx database.Transactor, godowns repositories.GodownRepository, allocations repositories.AllocationRepository) GodownService {
	return &godownService{tx: tx, godowns: godowns, allocations: allocations}
}

func (s *godownService) Create(ctx context.Context, companyID uuid.UUID, req *GodownRequest) (*models.Godown, error) {
	godown := &models.Godown{
		CompanyID:     companyID,
		Name:          strings.TrimSpace(req.Name),
		Code:          strings.ToUpper(strings.TrimSpace(req.Code)),
		Location:      common.TrimPtr(req.Location),
		TotalCapacity: req.TotalCapacity,
		CapacityUnit:  statusOr(req.CapacityUnit, defaultCapacityUnit),
		Status:        statusOr(req.Status, models.StatusActive),
	}
	if err := s.godowns.Create(ctx, godown); err != nil {
		return nil, conflictOn(err, "a godown with this code already exists")
	}
	return godown, nil
}

func (s *godownService) GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Godown, error) {
	godown, err := s.godowns.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, notFound(err, "godown")
	}
	return godown, nil
}

func (s *godownService) List(ctx context.Context, companyID uuid.UUID, status string, p database.ListParams) (*database.Page[models.Godown], error) {
	p = p.Normalize(godownSortColumns, "name")
	items, total, err := s.godowns.List(ctx, companyID, strings.TrimSpace(status), p)
	if err != nil {
		return nil, err
	}
	return database.NewPage(items, total, p), nil
}

// Update rewrites the godown. Shrinking capacity below the space already
// allocated is refused; the godown row stays locked while that is checked.
func (s *godownService) Update(ctx context.Context, companyID, id uuid.UUID, req *GodownRequest) (*models.Godown, error) {
	var godown *models.Godown
	err := s.tx.InTx(ctx, func(tx database.DBTX) error {
		godowns := s.godowns.WithTx(tx)
		current, err := godowns.GetForUpdate(ctx, companyID, id)
		if err != nil {
			return notFound(err, "godown")
		}
		if req.TotalCapacity.LessThan(current.TotalCapacity) {
			allocated, err := s.allocations.WithTx(tx).ActiveSpace(ctx, id, nil)
			if err != nil {
				return err
			}
			if req.TotalCapacity.LessThan(allocated) {
				return common.Conflict("total capacity %s is below the %s already allocated", req.TotalCapacity.String(), allocated.String())
			}
		}

		current.Name = strings.TrimSpace(req.Name)
		current.Code = strings.ToUpper(strings.TrimSpace(req.Code))
		current.Location = common.TrimPtr(req.Location)
		current.TotalCapacity = req.TotalCapacity
		current.CapacityUnit = statusOr(req.CapacityUnit, current.CapacityUnit)
		current.Status = statusOr(req.Status, current.Status)
		if err := godowns.Update(ctx, current); err != nil {
			return conflictOn(err, "a godown with this code already exists")
		}
		godown = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return godown, nil
}

func (s *godownService) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	n, err := s.godowns.SetStatus(ctx, companyID, id, models.StatusInactive)
	if err != nil {
		return err
	}
	if n == 0 {
		return common.NotFound("godown")
	}
	return nil
}

func (s *godownService) Occupancy(ctx context.Context, companyID, id uuid.UUID) (*models.GodownOccupancy, error) {
	occupancy, err := s.godowns.Occupancy(ctx, companyID, id)
	if err != nil {
		return nil, notFound(err, "godown")
	}
	return occupancy, nil
}
