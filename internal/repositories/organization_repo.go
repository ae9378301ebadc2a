package repositories

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"godownhub/internal/models"
	"godownhub/pkg/database"
)

var organizationColumns = []string{"id", "company_id", "name", "contact_person", "email", "phone", "gstin", "address", "status", "created_at", "updated_at"}

type OrganizationRepository interface {
	Create(ctx context.Context, org *models.Organization) error
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Organization, error)
	List(ctx context.Context, companyID uuid.UUID, status string, p database.ListParams) ([]*models.Organization, int64, error)
	Update(ctx context.Context, org *models.Organization) error
	SetStatus(ctx context.Context, companyID, id uuid.UUID, status string) (int64, error)
	WithTx(tx database.DBTX) OrganizationRepository
}

type organizationRepo struct {
	db database.DBTX
}

func NewOrganizationRepository(db database.DBTX) OrganizationRepository {
	return &organizationRepo{db: db}
}

func (r *organizationRepo) WithTx(tx database.DBTX) OrganizationRepository {
	return &organizationRepo{db: tx}
}

func (r *organizationRepo) Create(ctx context.Context, org *models.Organization) error {
	id, err := database.Table(r.db, "organizations").Insert(ctx, map[string]any{
		"company_id":     org.CompanyID,
		"name":           org.Name,
		"contact_person": org.ContactPerson,
		"email":          org.Email,
		"phone":          org.Phone,
		"gstin":          org.GSTIN,
		"address":        org.Address,
		"status":         org.Status,
	})
	if err != nil {
		return err
	}
	org.ID = id
	return nil
}

func (r *organizationRepo) GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Organization, error) {
	return database.One[models.Organization](ctx, database.Table(r.db, "organizations").
		Columns(organizationColumns...).
		Where("company_id = ?", companyID).
		Where("id = ?", id))
}

func (r *organizationRepo) List(ctx context.Context, companyID uuid.UUID, status string, p database.ListParams) ([]*models.Organization, int64, error) {
	q := database.Table(r.db, "organizations").
		Where("company_id = ?", companyID).
		Search(p.Search, "name", "contact_person", "email", "gstin")
	if status != "" {
		q.Where("status = ?", status)
	}

	total, err := q.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	items, err := database.All[models.Organization](ctx, q.Columns(organizationColumns...).Paginate(p))
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *organizationRepo) Update(ctx context.Context, org *models.Organization) error {
	_, err := database.Table(r.db, "organizations").
		Where("company_id = ?", org.CompanyID).
		Where("id = ?", org.ID).
		Update(ctx, map[string]any{
			"name":           org.Name,
			"contact_person": org.ContactPerson,
			"email":          org.Email,
			"phone":          org.Phone,
			"gstin":          org.GSTIN,
			"address":        org.Address,
			"status":         org.Status,
			"updated_at":     sq.Expr("NOW()"),
		})
	return err
}

func (r *organizationRepo) SetStatus(ctx context.Context, companyID, id uuid.UUID, status string) (int64, error) {
	return database.Table(r.db, "organizations").
		Where("company_id = ?", companyID).
		Where("id = ?", id).
		Update(ctx, map[string]any{"status": status, "updated_at": sq.Expr("NOW()")})
}
