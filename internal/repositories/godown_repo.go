package repositories

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"godownhub/internal/models"
	"godownhub/pkg/database"
)

var godownColumns = []string{"id", "company_id", "name", "code", "location", "total_capacity", "capacity_unit", "status", "created_at", "updated_at"}

type GodownRepository interface {
	Create(ctx context.Context, godown *models.Godown) error
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Godown, error)
	// GetForUpdate reads the godown and locks its row until the surrounding
	// transaction ends, serializing capacity checks.
	GetForUpdate(ctx context.Context, companyID, id uuid.UUID) (*models.Godown, error)
	List(ctx context.Context, companyID uuid.UUID, status string, p database.ListParams) ([]*models.Godown, int64, error)
	Update(ctx context.Context, godown *models.Godown) error
	SetStatus(ctx context.Context, companyID, id uuid.UUID, status string) (int64, error)
	Occupancy(ctx context.Context, companyID, id uuid.UUID) (*models.GodownOccupancy, error)
	OccupancyAll(ctx context.Context, companyID uuid.UUID) ([]*models.GodownOccupancy, error)
	WithTx(tx database.DBTX) GodownRepository
}

type godownRepo struct {
	db database.DBTX
}

func NewGodownRepository(db database.DBTX) GodownRepository {
	return &godownRepo{db: db}
}

func (r *godownRepo) WithTx(tx database.DBTX) GodownRepository {
	return &godownRepo{db: tx}
}

func (r *godownRepo) Create(ctx context.Context, g *models.Godown) error {
	id, err := database.Table(r.db, "godowns").Insert(ctx, map[string]any{
		"company_id":     g.CompanyID,
		"name":           g.Name,
		"code":           g.Code,
		"location":       g.Location,
		"total_capacity": g.TotalCapacity,
		"capacity_unit":  g.CapacityUnit,
		"status":         g.Status,
	})
	if err != nil {
		return err
	}
	g.ID = id
	return nil
}

func (r *godownRepo) GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Godown, error) {
	return database.One[models.Godown](ctx, database.Table(r.db, "godowns").
		Columns(godownColumns...).
		Where("company_id = ?", companyID).
		Where("id = ?", id))
}

const godownForUpdateQuery = `
	SELECT id, company_id, name, code, location, total_capacity, capacity_unit, status, created_at, updated_at
	FROM godowns
	WHERE company_id = $1 AND id = $2
	FOR UPDATE
`

func (r *godownRepo) GetForUpdate(ctx context.Context, companyID, id uuid.UUID) (*models.Godown, error) {
	items, err := database.Query[models.Godown](ctx, r.db, "lock godown", godownForUpdateQuery, companyID, id)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, &database.DatabaseError{Op: "lock godown", Err: errNoRows}
	}
	return items[0], nil
}

func (r *godownRepo) List(ctx context.Context, companyID uuid.UUID, status string, p database.ListParams) ([]*models.Godown, int64, error) {
	q := database.Table(r.db, "godowns").
		Where("company_id = ?", companyID).
		Where("status <> ?", models.StatusDeleted).
		Search(p.Search, "name", "code", "location")
	if status != "" {
		q.Where("status = ?", status)
	}

	total, err := q.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	items, err := database.All[models.Godown](ctx, q.Columns(godownColumns...).Paginate(p))
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *godownRepo) Update(ctx context.Context, g *models.Godown) error {
	_, err := database.Table(r.db, "godowns").
		Where("company_id = ?", g.CompanyID).
		Where("id = ?", g.ID).
		Update(ctx, map[string]any{
			"name":           g.Name,
			"code":           g.Code,
			"location":       g.Location,
			"total_capacity": g.TotalCapacity,
			"capacity_unit":  g.CapacityUnit,
			"status":         g.Status,
			"updated_at":     sq.Expr("NOW()"),
		})
	return err
}

func (r *godownRepo) SetStatus(ctx context.Context, companyID, id uuid.UUID, status string) (int64, error) {
	return database.Table(r.db, "godowns").
		Where("company_id = ?", companyID).
		Where("id = ?", id).
		Update(ctx, map[string]any{"status": status, "updated_at": sq.Expr("NOW()")})
}

const occupancyQuery = `
	SELECT g.id AS godown_id, g.name, g.total_capacity,
	       COALESCE(SUM(a.allocated_space), 0) AS allocated_space,
	       COALESCE(SUM(a.utilized_space), 0) AS utilized_space,
	       COUNT(a.id) AS active_allocations
	FROM godowns g
	LEFT JOIN godown_space_allocations a ON a.godown_id = g.id AND a.status = 'active'
	WHERE g.company_id = $1 AND g.status <> 'deleted'
`

func (r *godownRepo) Occupancy(ctx context.Context, companyID, id uuid.UUID) (*models.GodownOccupancy, error) {
	items, err := database.Query[models.GodownOccupancy](ctx, r.db, "godown occupancy",
		occupancyQuery+" AND g.id = $2 GROUP BY g.id, g.name, g.total_capacity", companyID, id)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, &database.DatabaseError{Op: "godown occupancy", Err: errNoRows}
	}
	items[0].Fill()
	return items[0], nil
}

func (r *godownRepo) OccupancyAll(ctx context.Context, companyID uuid.UUID) ([]*models.GodownOccupancy, error) {
	items, err := database.Query[models.GodownOccupancy](ctx, r.db, "godown occupancy",
		occupancyQuery+" GROUP BY g.id, g.name, g.total_capacity ORDER BY g.name ASC", companyID)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		item.Fill()
	}
	return items, nil
}
