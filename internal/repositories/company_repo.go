package repositories

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"godownhub/internal/models"
	"godownhub/pkg/database"
)

var companyColumns = []string{"id", "name", "code", "gstin", "email", "phone", "address", "status", "created_at", "updated_at"}

type CompanyRepository interface {
	Create(ctx context.Context, company *models.Company) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
	GetByCode(ctx context.Context, code string) (*models.Company, error)
	// List returns a page of companies. A non-nil only narrows the list to one company.
	List(ctx context.Context, only *uuid.UUID, p database.ListParams) ([]*models.Company, int64, error)
	ListActive(ctx context.Context) ([]*models.Company, error)
	Update(ctx context.Context, company *models.Company) error
	SetStatus(ctx context.Context, id uuid.UUID, status string) (int64, error)
}

type companyRepo struct {
	db database.DBTX
}

func NewCompanyRepository(db database.DBTX) CompanyRepository {
	return &companyRepo{db: db}
}

func (r *companyRepo) Create(ctx context.Context, company *models.Company) error {
	id, err := database.Table(r.db, "companies").Insert(ctx, map[string]any{
		"name":    company.Name,
		"code":    company.Code,
		"gstin":   company.GSTIN,
		"email":   company.Email,
		"phone":   company.Phone,
		"address": company.Address,
		"status":  company.Status,
	})
	if err != nil {
		return err
	}
	company.ID = id
	return nil
}

func (r *companyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	return database.One[models.Company](ctx, database.Table(r.db, "companies").
		Columns(companyColumns...).
		Where("id = ?", id).
		Where("status <> ?", models.StatusDeleted))
}

func (r *companyRepo) GetByCode(ctx context.Context, code string) (*models.Company, error) {
	return database.One[models.Company](ctx, database.Table(r.db, "companies").
		Columns(companyColumns...).
		Where("code = ?", code))
}

func (r *companyRepo) List(ctx context.Context, only *uuid.UUID, p database.ListParams) ([]*models.Company, int64, error) {
	q := database.Table(r.db, "companies").
		Where("status <> ?", models.StatusDeleted).
		Search(p.Search, "name", "code", "email", "gstin")
	if only != nil {
		q.Where("id = ?", *only)
	}

	total, err := q.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	items, err := database.All[models.Company](ctx, q.Columns(companyColumns...).Paginate(p))
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *companyRepo) ListActive(ctx context.Context) ([]*models.Company, error) {
	return database.All[models.Company](ctx, database.Table(r.db, "companies").
		Columns(companyColumns...).
		Where("status = ?", models.StatusActive).
		OrderBy("name", "asc"))
}

func (r *companyRepo) Update(ctx context.Context, company *models.Company) error {
	_, err := database.Table(r.db, "companies").
		Where("id = ?", company.ID).
		Update(ctx, map[string]any{
			"name":       company.Name,
			"code":       company.Code,
			"gstin":      company.GSTIN,
			"email":      company.Email,
			"phone":      company.Phone,
			"address":    company.Address,
			"status":     company.Status,
			"updated_at": sq.Expr("NOW()"),
		})
	return err
}

func (r *companyRepo) SetStatus(ctx context.Context, id uuid.UUID, status string) (int64, error) {
	return database.Table(r.db, "companies").
		Where("id = ?", id).
		Update(ctx, map[string]any{"status": status, "updated_at": sq.Expr("NOW()")})
}
