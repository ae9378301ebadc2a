package repositories

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"godownhub/internal/models"
	"godownhub/pkg/database"
)

var allocationColumns = []string{"id", "company_id", "godown_id", "organization_id", "agreement_id", "allocated_space", "utilized_space", "monthly_rent", "valid_from", "valid_to", "status", "created_at", "updated_at"}

type AllocationRepository interface {
	Create(ctx context.Context, allocation *models.SpaceAllocation) error
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.SpaceAllocation, error)
	List(ctx context.Context, companyID uuid.UUID, f models.AllocationFilter, p database.ListParams) ([]*models.SpaceAllocation, int64, error)
	Update(ctx context.Context, allocation *models.SpaceAllocation) error
	Release(ctx context.Context, companyID, id uuid.UUID, on time.Time) (int64, error)
	// ActiveSpace sums allocated space of active allocations on a godown,
	// leaving out exclude when it is set.
	ActiveSpace(ctx context.Context, godownID uuid.UUID, exclude *uuid.UUID) (decimal.Decimal, error)
	// ReleaseLapsed releases active allocations whose validity ended before today.
	ReleaseLapsed(ctx context.Context, today time.Time) (int64, error)
	WithTx(tx database.DBTX) AllocationRepository
}

type allocationRepo struct {
	db database.DBTX
}

func NewAllocationRepository(db database.DBTX) AllocationRepository {
	return &allocationRepo{db: db}
}

func (r *allocationRepo) WithTx(tx database.DBTX) AllocationRepository {
	return &allocationRepo{db: tx}
}

func (r *allocationRepo) Create(ctx context.Context, a *models.SpaceAllocation) error {
	id, err := database.Table(r.db, "godown_space_allocations").Insert(ctx, map[string]any{
		"company_id":      a.CompanyID,
		"godown_id":       a.GodownID,
		"organization_id": a.OrganizationID,
		"agreement_id":    a.AgreementID,
		"allocated_space": a.AllocatedSpace,
		"utilized_space":  a.UtilizedSpace,
		"monthly_rent":    a.MonthlyRent,
		"valid_from":      a.ValidFrom,
		"valid_to":        a.ValidTo,
		"status":          a.Status,
	})
	if err != nil {
		return err
	}
	a.ID = id
	return nil
}

func (r *allocationRepo) GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.SpaceAllocation, error) {
	a, err := database.One[models.SpaceAllocation](ctx, database.Table(r.db, "godown_space_allocations").
		Columns(allocationColumns...).
		Where("company_id = ?", companyID).
		Where("id = ?", id))
	if err != nil {
		return nil, err
	}
	a.UtilizationPercentage = a.Utilization()
	return a, nil
}

func (r *allocationRepo) List(ctx context.Context, companyID uuid.UUID, f models.AllocationFilter, p database.ListParams) ([]*models.SpaceAllocation, int64, error) {
	q := database.Table(r.db, "godown_space_allocations").Where("company_id = ?", companyID)
	if f.GodownID != nil {
		q.Where("godown_id = ?", *f.GodownID)
	}
	if f.OrganizationID != nil {
		q.Where("organization_id = ?", *f.OrganizationID)
	}
	if f.Status != "" {
		q.Where("status = ?", f.Status)
	}

	total, err := q.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	items, err := database.All[models.SpaceAllocation](ctx, q.Columns(allocationColumns...).Paginate(p))
	if err != nil {
		return nil, 0, err
	}
	for _, a := range items {
		a.UtilizationPercentage = a.Utilization()
	}
	return items, total, nil
}

func (r *allocationRepo) Update(ctx context.Context, a *models.SpaceAllocation) error {
	_, err := database.Table(r.db, "godown_space_allocations").
		Where("company_id = ?", a.CompanyID).
		Where("id = ?", a.ID).
		Update(ctx, map[string]any{
			"godown_id":       a.GodownID,
			"organization_id": a.OrganizationID,
			"agreement_id":    a.AgreementID,
			"allocated_space": a.AllocatedSpace,
			"utilized_space":  a.UtilizedSpace,
			"monthly_rent":    a.MonthlyRent,
			"valid_from":      a.ValidFrom,
			"valid_to":        a.ValidTo,
			"updated_at":      sq.Expr("NOW()"),
		})
	return err
}

func (r *allocationRepo) Release(ctx context.Context, companyID, id uuid.UUID, on time.Time) (int64, error) {
	return database.Table(r.db, "godown_space_allocations").
		Where("company_id = ?", companyID).
		Where("id = ?", id).
		Where("status = ?", models.AllocationActive).
		Update(ctx, map[string]any{
			"status":     models.AllocationReleased,
			"valid_to":   on,
			"updated_at": sq.Expr("NOW()"),
		})
}

func (r *allocationRepo) ActiveSpace(ctx context.Context, godownID uuid.UUID, exclude *uuid.UUID) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(allocated_space), 0) FROM godown_space_allocations WHERE godown_id = $1 AND status = 'active'`
	args := []any{godownID}
	if exclude != nil {
		query += ` AND id <> $2`
		args = append(args, *exclude)
	}

	var total decimal.Decimal
	if err := database.Scan(ctx, r.db, "sum active space", query, args, &total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (r *allocationRepo) ReleaseLapsed(ctx context.Context, today time.Time) (int64, error) {
	return database.Table(r.db, "godown_space_allocations").
		Where("status = ?", models.AllocationActive).
		Where("valid_to IS NOT NULL").
		Where("valid_to < ?", today).
		Update(ctx, map[string]any{"status": models.AllocationReleased, "updated_at": sq.Expr("NOW()")})
}
