package repositories

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"godownhub/internal/models"
	"godownhub/pkg/database"
)

var agreementColumns = []string{"id", "company_id", "organization_id", "agreement_number", "start_date", "end_date", "monthly_rent", "security_deposit", "notes", "status", "created_at", "updated_at"}

type AgreementRepository interface {
	Create(ctx context.Context, agreement *models.Agreement) error
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Agreement, error)
	List(ctx context.Context, companyID uuid.UUID, f models.ValidityFilter, today time.Time, p database.ListParams) ([]*models.Agreement, int64, error)
	Update(ctx context.Context, agreement *models.Agreement) error
	SetStatus(ctx context.Context, companyID, id uuid.UUID, status string) (int64, error)
	// ExpireLapsed marks active agreements that ended before today as expired
	// across every company.
	ExpireLapsed(ctx context.Context, today time.Time) (int64, error)
	// Expiring lists active agreements and licenses of a company whose window
	// ends between today and until, soonest first.
	Expiring(ctx context.Context, companyID uuid.UUID, today, until time.Time) ([]*models.ExpiringItem, error)
	WithTx(tx database.DBTX) AgreementRepository
}

type agreementRepo struct {
	db database.DBTX
}

func NewAgreementRepository(db database.DBTX) AgreementRepository {
	return &agreementRepo{db: db}
}

func (r *agreementRepo) WithTx(tx database.DBTX) AgreementRepository {
	return &agreementRepo{db: tx}
}

func (r *agreementRepo) Create(ctx context.Context, a *models.Agreement) error {
	id, err := database.Table(r.db, "organization_agreements").Insert(ctx, map[string]any{
		"company_id":       a.CompanyID,
		"organization_id":  a.OrganizationID,
		"agreement_number": a.AgreementNumber,
		"start_date":       a.StartDate,
		"end_date":         a.EndDate,
		"monthly_rent":     a.MonthlyRent,
		"security_deposit": a.SecurityDeposit,
		"notes":            a.Notes,
		"status":           a.Status,
	})
	if err != nil {
		return err
	}
	a.ID = id
	return nil
}

func (r *agreementRepo) GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Agreement, error) {
	return database.One[models.Agreement](ctx, database.Table(r.db, "organization_agreements").
		Columns(agreementColumns...).
		Where("company_id = ?", companyID).
		Where("id = ?", id))
}

func (r *agreementRepo) List(ctx context.Context, companyID uuid.UUID, f models.ValidityFilter, today time.Time, p database.ListParams) ([]*models.Agreement, int64, error) {
	q := database.Table(r.db, "organization_agreements").
		Where("company_id = ?", companyID).
		Search(p.Search, "agreement_number", "notes")
	applyValidityFilter(q, f, "end_date", today)

	total, err := q.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	items, err := database.All[models.Agreement](ctx, q.Columns(agreementColumns...).Paginate(p))
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *agreementRepo) Update(ctx context.Context, a *models.Agreement) error {
	_, err := database.Table(r.db, "organization_agreements").
		Where("company_id = ?", a.CompanyID).
		Where("id = ?", a.ID).
		Update(ctx, map[string]any{
			"organization_id":  a.OrganizationID,
			"agreement_number": a.AgreementNumber,
			"start_date":       a.StartDate,
			"end_date":         a.EndDate,
			"monthly_rent":     a.MonthlyRent,
			"security_deposit": a.SecurityDeposit,
			"notes":            a.Notes,
			"status":           a.Status,
			"updated_at":       sq.Expr("NOW()"),
		})
	return err
}

func (r *agreementRepo) SetStatus(ctx context.Context, companyID, id uuid.UUID, status string) (int64, error) {
	return database.Table(r.db, "organization_agreements").
		Where("company_id = ?", companyID).
		Where("id = ?", id).
		Update(ctx, map[string]any{"status": status, "updated_at": sq.Expr("NOW()")})
}

func (r *agreementRepo) ExpireLapsed(ctx context.Context, today time.Time) (int64, error) {
	return database.Table(r.db, "organization_agreements").
		Where("status = ?", models.AgreementActive).
		Where("end_date < ?", today).
		Update(ctx, map[string]any{"status": models.AgreementExpired, "updated_at": sq.Expr("NOW()")})
}

const expiringQuery = `
	SELECT 'agreement' AS kind, a.id, a.organization_id, o.name AS organization_name,
	       a.agreement_number AS reference, a.end_date AS ends_on
	FROM organization_agreements a
	JOIN organizations o ON o.id = a.organization_id
	WHERE a.company_id = $1 AND a.status = 'active' AND a.end_date BETWEEN $2 AND $3
	UNION ALL
	SELECT 'license' AS kind, l.id, l.organization_id, o.name AS organization_name,
	       l.license_type || ' ' || l.license_number AS reference, l.valid_to AS ends_on
	FROM organization_licenses l
	JOIN organizations o ON o.id = l.organization_id
	WHERE l.company_id = $1 AND l.status = 'active' AND l.valid_to BETWEEN $2 AND $3
	ORDER BY ends_on ASC, reference ASC
`

func (r *agreementRepo) Expiring(ctx context.Context, companyID uuid.UUID, today, until time.Time) ([]*models.ExpiringItem, error) {
	items, err := database.Query[models.ExpiringItem](ctx, r.db, "expiring items", expiringQuery, companyID, today, until)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		item.DaysLeft = int(item.EndsOn.Sub(today).Hours() / 24)
	}
	return items, nil
}

// applyValidityFilter narrows q by organization, status and an expiring window
// ending on endColumn.
func applyValidityFilter(q *database.QueryBuilder, f models.ValidityFilter, endColumn string, today time.Time) {
	if f.OrganizationID != nil {
		q.Where("organization_id = ?", *f.OrganizationID)
	}
	if f.Status != "" {
		q.Where("status = ?", f.Status)
	}
	if f.ExpiringWithin > 0 {
		q.Where("status = ?", models.AgreementActive).
			Where(endColumn+" BETWEEN ? AND ?", today, today.AddDate(0, 0, f.ExpiringWithin))
	}
}
