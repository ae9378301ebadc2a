package repositories

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"godownhub/internal/models"
	"godownhub/pkg/database"
)

var licenseColumns = []string{"id", "company_id", "organization_id", "license_type", "license_number", "issued_by", "valid_from", "valid_to", "status", "created_at", "updated_at"}

type LicenseRepository interface {
	Create(ctx context.Context, license *models.License) error
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.License, error)
	List(ctx context.Context, companyID uuid.UUID, f models.ValidityFilter, today time.Time, p database.ListParams) ([]*models.License, int64, error)
	Update(ctx context.Context, license *models.License) error
	SetStatus(ctx context.Context, companyID, id uuid.UUID, status string) (int64, error)
	ExpireLapsed(ctx context.Context, today time.Time) (int64, error)
}

type licenseRepo struct {
	db database.DBTX
}

func NewLicenseRepository(db database.DBTX) LicenseRepository {
	return &licenseRepo{db: db}
}

func (r *licenseRepo) Create(ctx context.Context, l *models.License) error {
	id, err := database.Table(r.db, "organization_licenses").Insert(ctx, map[string]any{
		"company_id":      l.CompanyID,
		"organization_id": l.OrganizationID,
		"license_type":    l.LicenseType,
		"license_number":  l.LicenseNumber,
		"issued_by":       l.IssuedBy,
		"valid_from":      l.ValidFrom,
		"valid_to":        l.ValidTo,
		"status":          l.Status,
	})
	if err != nil {
		return err
	}
	l.ID = id
	return nil
}

func (r *licenseRepo) GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.License, error) {
	return database.One[models.License](ctx, database.Table(r.db, "organization_licenses").
		Columns(licenseColumns...).
		Where("company_id = ?", companyID).
		Where("id = ?", id))
}

func (r *licenseRepo) List(ctx context.Context, companyID uuid.UUID, f models.ValidityFilter, today time.Time, p database.ListParams) ([]*models.License, int64, error) {
	q := database.Table(r.db, "organization_licenses").
		Where("company_id = ?", companyID).
		Search(p.Search, "license_type", "license_number", "issued_by")
	applyValidityFilter(q, f, "valid_to", today)

	total, err := q.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	items, err := database.All[models.License](ctx, q.Columns(licenseColumns...).Paginate(p))
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *licenseRepo) Update(ctx context.Context, l *models.License) error {
	_, err := database.Table(r.db, "organization_licenses").
		Where("company_id = ?", l.CompanyID).
		Where("id = ?", l.ID).
		Update(ctx, map[string]any{
			"organization_id": l.OrganizationID,
			"license_type":    l.LicenseType,
			"license_number":  l.LicenseNumber,
			"issued_by":       l.IssuedBy,
			"valid_from":      l.ValidFrom,
			"valid_to":        l.ValidTo,
			"status":          l.Status,
			"updated_at":      sq.Expr("NOW()"),
		})
	return err
}

func (r *licenseRepo) SetStatus(ctx context.Context, companyID, id uuid.UUID, status string) (int64, error) {
	return database.Table(r.db, "organization_licenses").
		Where("company_id = ?", companyID).
		Where("id = ?", id).
		Update(ctx, map[string]any{"status": status, "updated_at": sq.Expr("NOW()")})
}

func (r *licenseRepo) ExpireLapsed(ctx context.Context, today time.Time) (int64, error) {
	return database.Table(r.db, "organization_licenses").
		Where("status = ?", models.LicenseActive).
		Where("valid_to < ?", today).
		Update(ctx, map[string]any{"status": models.LicenseExpired, "updated_at": sq.Expr("NOW()")})
}
