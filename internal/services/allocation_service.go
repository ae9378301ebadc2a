package services

import (
	"context"
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

var allocationSortColumns = []string{"valid_from", "valid_to", "allocated_space", "monthly_rent", "created_at", "status"}

type AllocationService interface {
	Create(ctx context.Context, companyID uuid.UUID, req *AllocationRequest) (*models.SpaceAllocation, error)
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.SpaceAllocation, error)
	List(ctx context.Context, companyID uuid.UUID, f models.AllocationFilter, p database.ListParams) (*database.Page[models.SpaceAllocation], error)
	Update(ctx context.Context, companyID, id uuid.UUID, req *AllocationRequest) (*models.SpaceAllocation, error)
	Release(ctx context.Context, companyID, id uuid.UUID) (*models.SpaceAllocation, error)
	// ReleaseLapsed releases allocations whose validity ended before today,
	// for every company.
	ReleaseLapsed(ctx context.Context, today time.Time) (int64, error)
}

type AllocationRequest struct {
	GodownID       uuid.UUID       `json:"godown_id" validate:"required"`
	OrganizationID uuid.UUID       `json:"organization_id" validate:"required"`
	AgreementID    *uuid.UUID      `json:"agreement_id"`
	AllocatedSpace decimal.Decimal `json:"allocated_space" validate:"dgt=0"`
	UtilizedSpace  decimal.Decimal `json:"utilized_space" validate:"dgte=0"`
	MonthlyRent    decimal.Decimal `json:"monthly_rent" validate:"dgte=0"`
	ValidFrom      string          `json:"valid_from" validate:"required"`
	ValidTo        *string         `json:"valid_to"`
}

type allocationService struct {
	tx          database.Transactor
	allocations repositories.AllocationRepository
	godowns     repositories.GodownRepository
	agreements  repositories.AgreementRepository
	orgs        repositories.OrganizationRepository
	cache       caching.CacheService
	logger      *zap.Logger
	today       func() time.Time
}

func NewAllocationService(
	tx database.Transactor,
	allocations repositories.AllocationRepository,
	godowns repositories.GodownRepository,
	agreements repositories.AgreementRepository,
	orgs repositories.OrganizationRepository,
	cache caching.CacheService,
	logger *zap.Logger,
) AllocationService {
	return &allocationService{
		tx:          tx,
		allocations: allocations,
		godowns:     godowns,
		agreements:  agreements,
		orgs:        orgs,
		cache:       cache,
		logger:      logger,
		today:       common.Today,
	}
}

type allocationWindow struct {
	from time.Time
	to   *time.Time
}

func parseAllocationWindow(req *AllocationRequest) (allocationWindow, error) {
	from, err := common.ParseDate(req.ValidFrom, "valid_from")
	if err != nil {
		return allocationWindow{}, err
	}
	w := allocationWindow{from: from}
	if v := common.TrimPtr(req.ValidTo); v != nil {
		to, err := common.ParseDate(*v, "valid_to")
		if err != nil {
			return allocationWindow{}, err
		}
		if err := common.ValidateDateRange(from, to, "valid_to"); err != nil {
			return allocationWindow{}, err
		}
		w.to = &to
	}
	return w, nil
}

// check enforces the allocation invariants inside tx. The godown row is
// locked so concurrent allocations on it are serialized. exclude leaves the
// allocation being updated out of the capacity sum.
func (s *allocationService) check(ctx context.Context, tx database.DBTX, companyID uuid.UUID, req *AllocationRequest, exclude *uuid.UUID) error {
	if req.UtilizedSpace.GreaterThan(req.AllocatedSpace) {
		return common.NewFieldError("utilized_space", "utilized_space cannot exceed allocated_space")
	}

	godown, err := s.godowns.WithTx(tx).GetForUpdate(ctx, companyID, req.GodownID)
	if err != nil {
		if database.IsNotFound(err) {
			return common.NewFieldError("godown_id", "godown_id does not belong to this company")
		}
		return err
	}
	if godown.Status != models.StatusActive {
		return common.Conflict("godown %s is not active", godown.Code)
	}

	if _, err := s.orgs.WithTx(tx).GetByID(ctx, companyID, req.OrganizationID); err != nil {
		if database.IsNotFound(err) {
			return common.NewFieldError("organization_id", "organization_id does not belong to this company")
		}
		return err
	}

	if req.AgreementID != nil {
		agreement, err := s.agreements.WithTx(tx).GetByID(ctx, companyID, *req.AgreementID)
		if err != nil {
			if database.IsNotFound(err) {
				return common.NewFieldError("agreement_id", "agreement_id does not belong to this company")
			}
			return err
		}
		if agreement.OrganizationID != req.OrganizationID {
			return common.NewFieldError("agreement_id", "agreement belongs to a different organization")
		}
	}

	used, err := s.allocations.WithTx(tx).ActiveSpace(ctx, req.GodownID, exclude)
	if err != nil {
		return err
	}
	if used.Add(req.AllocatedSpace).GreaterThan(godown.TotalCapacity) {
		free := godown.TotalCapacity.Sub(used)
		if free.IsNegative() {
			free = decimal.Zero
		}
		return common.Conflict("insufficient capacity in godown %s: %s %s available", godown.Code, free.String(), godown.CapacityUnit)
	}
	return nil
}

func (s *allocationService) Create(ctx context.Context, companyID uuid.UUID, req *AllocationRequest) (*models.SpaceAllocation, error) {
	w, err := parseAllocationWindow(req)
	if err != nil {
		return nil, err
	}

	allocation := &models.SpaceAllocation{
		CompanyID:      companyID,
		GodownID:       req.GodownID,
		OrganizationID: req.OrganizationID,
		AgreementID:    req.AgreementID,
		AllocatedSpace: req.AllocatedSpace,
		UtilizedSpace:  req.UtilizedSpace,
		MonthlyRent:    req.MonthlyRent,
		ValidFrom:      w.from,
		ValidTo:        w.to,
		Status:         models.AllocationActive,
	}
	err = s.tx.InTx(ctx, func(tx database.DBTX) error {
		if err := s.check(ctx, tx, companyID, req, nil); err != nil {
			return err
		}
		return s.allocations.WithTx(tx).Create(ctx, allocation)
	})
	if err != nil {
		return nil, err
	}
	allocation.UtilizationPercentage = allocation.Utilization()

	s.logger.Info("space allocated",
		zap.String("allocation_id", allocation.ID.String()),
		zap.String("godown_id", allocation.GodownID.String()),
		zap.String("allocated_space", allocation.AllocatedSpace.String()),
	)
	invalidateDashboard(ctx, s.cache, s.logger, companyID)
	return allocation, nil
}

func (s *allocationService) GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.SpaceAllocation, error) {
	allocation, err := s.allocations.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, notFound(err, "allocation")
	}
	return allocation, nil
}

func (s *allocationService) List(ctx context.Context, companyID uuid.UUID, f models.AllocationFilter, p database.ListParams) (*database.Page[models.SpaceAllocation], error) {
	p = p.Normalize(allocationSortColumns, "valid_from")
	items, total, err := s.allocations.List(ctx, companyID, f, p)
	if err != nil {
		return nil, err
	}
	return database.NewPage(items, total, p), nil
}

func (s *allocationService) Update(ctx context.Context, companyID, id uuid.UUID, req *AllocationRequest) (*models.SpaceAllocation, error) {
	w, err := parseAllocationWindow(req)
	if err != nil {
		return nil, err
	}

	var allocation *models.SpaceAllocation
	err = s.tx.InTx(ctx, func(tx database.DBTX) error {
		allocations := s.allocations.WithTx(tx)
		current, err := allocations.GetByID(ctx, companyID, id)
		if err != nil {
			return notFound(err, "allocation")
		}
		if current.Status != models.AllocationActive {
			return common.Conflict("allocation has been released")
		}
		if err := s.check(ctx, tx, companyID, req, &id); err != nil {
			return err
		}

		current.GodownID = req.GodownID
		current.OrganizationID = req.OrganizationID
		current.AgreementID = req.AgreementID
		current.AllocatedSpace = req.AllocatedSpace
		current.UtilizedSpace = req.UtilizedSpace
		current.MonthlyRent = req.MonthlyRent
		current.ValidFrom = w.from
		current.ValidTo = w.to
		if err := allocations.Update(ctx, current); err != nil {
			return err
		}
		allocation = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	allocation.UtilizationPercentage = allocation.Utilization()
	invalidateDashboard(ctx, s.cache, s.logger, companyID)
	return allocation, nil
}

func (s *allocationService) Release(ctx context.Context, companyID, id uuid.UUID) (*models.SpaceAllocation, error) {
	n, err := s.allocations.Release(ctx, companyID, id, s.today())
	if err != nil {
		return nil, err
	}
	allocation, err := s.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, common.Conflict("allocation has already been released")
	}
	invalidateDashboard(ctx, s.cache, s.logger, companyID)
	return allocation, nil
}

func (s *allocationService) ReleaseLapsed(ctx context.Context, today time.Time) (int64, error) {
	n, err := s.allocations.ReleaseLapsed(ctx, today)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("released lapsed allocations", zap.Int64("count", n))
		if err := s.cache.InvalidateAllDashboards(ctx); err != nil {
			s.logger.Warn("failed to invalidate dashboards", zap.Error(err))
		}
	}
	return n, nil
}

// invalidateDashboard drops the cached dashboard of a company. Cache failures
// are logged and never fail the request.
func invalidateDashboard(ctx context.Context, cache caching.CacheService, logger *zap.Logger, companyID uuid.UUID) {
	if err := cache.InvalidateCompanyDashboard(ctx, companyID); err != nil {
		logger.Warn("failed to invalidate dashboard",
			zap.String("company_id", companyID.String()),
			zap.Error(err),
		)
	}
}
