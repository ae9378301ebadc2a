package repositories

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"godownhub/internal/models"
	"godownhub/pkg/database"
)

var invoiceColumns = []string{"id", "company_id", "organization_id", "allocation_id", "invoice_number", "billing_period", "amount", "tax_rate", "cgst", "sgst", "tax_amount", "total_amount", "status", "issued_date", "due_date", "paid_date", "created_at", "updated_at"}

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *models.Invoice) error
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Invoice, error)
	List(ctx context.Context, companyID uuid.UUID, f models.InvoiceFilter, p database.ListParams) ([]*models.Invoice, int64, error)
	// ExistsForPeriod reports whether a non-cancelled invoice already bills the
	// allocation for the period.
	ExistsForPeriod(ctx context.Context, allocationID uuid.UUID, period string) (bool, error)
	// SetStatus moves the invoice from status from to status to. It affects
	// no rows when the invoice is no longer in from.
	SetStatus(ctx context.Context, companyID, id uuid.UUID, from, to string, paidDate *time.Time) (int64, error)
	// NextNumber bumps the company's sequence for yearMonth and returns the new value.
	NextNumber(ctx context.Context, companyID uuid.UUID, yearMonth string) (int, error)
	// MarkOverdue flips unpaid invoices due before today to overdue and
	// returns the companies that had invoices changed.
	MarkOverdue(ctx context.Context, today time.Time) ([]uuid.UUID, error)
	Totals(ctx context.Context, companyID uuid.UUID) (*models.FinancialTotals, error)
	MonthlyRevenue(ctx context.Context, companyID uuid.UUID, fromPeriod string) ([]models.MonthlyRevenue, error)
	WithTx(tx database.DBTX) InvoiceRepository
}

type invoiceRepo struct {
	db database.DBTX
}

func NewInvoiceRepository(db database.DBTX) InvoiceRepository {
	return &invoiceRepo{db: db}
}

func (r *invoiceRepo) WithTx(tx database.DBTX) InvoiceRepository {
	return &invoiceRepo{db: tx}
}

func (r *invoiceRepo) Create(ctx context.Context, inv *models.Invoice) error {
	id, err := database.Table(r.db, "invoices").Insert(ctx, map[string]any{
		"company_id":      inv.CompanyID,
		"organization_id": inv.OrganizationID,
		"allocation_id":   inv.AllocationID,
		"invoice_number":  inv.InvoiceNumber,
		"billing_period":  inv.BillingPeriod,
		"amount":          inv.Amount,
		"tax_rate":        inv.TaxRate,
		"cgst":            inv.CGST,
		"sgst":            inv.SGST,
		"tax_amount":      inv.TaxAmount,
		"total_amount":    inv.TotalAmount,
		"status":          inv.Status,
		"issued_date":     inv.IssuedDate,
		"due_date":        inv.DueDate,
	})
	if err != nil {
		return err
	}
	inv.ID = id
	return nil
}

func (r *invoiceRepo) GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Invoice, error) {
	return database.One[models.Invoice](ctx, database.Table(r.db, "invoices").
		Columns(invoiceColumns...).
		Where("company_id = ?", companyID).
		Where("id = ?", id))
}

func (r *invoiceRepo) List(ctx context.Context, companyID uuid.UUID, f models.InvoiceFilter, p database.ListParams) ([]*models.Invoice, int64, error) {
	q := database.Table(r.db, "invoices").
		Where("company_id = ?", companyID).
		Search(p.Search, "invoice_number", "billing_period")
	if f.Status != "" {
		q.Where("status = ?", f.Status)
	}
	if f.OrganizationID != nil {
		q.Where("organization_id = ?", *f.OrganizationID)
	}
	if f.BillingPeriod != "" {
		q.Where("billing_period = ?", f.BillingPeriod)
	}

	total, err := q.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	items, err := database.All[models.Invoice](ctx, q.Columns(invoiceColumns...).Paginate(p))
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *invoiceRepo) ExistsForPeriod(ctx context.Context, allocationID uuid.UUID, period string) (bool, error) {
	n, err := database.Table(r.db, "invoices").
		Where("allocation_id = ?", allocationID).
		Where("billing_period = ?", period).
		Where("status <> ?", models.InvoiceCancelled).
		Count(ctx)
	return n > 0, err
}

func (r *invoiceRepo) SetStatus(ctx context.Context, companyID, id uuid.UUID, from, to string, paidDate *time.Time) (int64, error) {
	return database.Table(r.db, "invoices").
		Where("company_id = ?", companyID).
		Where("id = ?", id).
		Where("status = ?", from).
		Update(ctx, map[string]any{
			"status":     to,
			"paid_date":  paidDate,
			"updated_at": sq.Expr("NOW()"),
		})
}

const nextInvoiceNumberQuery = `
	INSERT INTO invoice_sequences (company_id, year_month, last_number)
	VALUES ($1, $2, 1)
	ON CONFLICT (company_id, year_month)
	DO UPDATE SET
		last_number = invoice_sequences.last_number + 1,
		updated_at = NOW()
	RETURNING last_number
`

func (r *invoiceRepo) NextNumber(ctx context.Context, companyID uuid.UUID, yearMonth string) (int, error) {
	var n int
	if err := database.Scan(ctx, r.db, "next invoice number", nextInvoiceNumberQuery, []any{companyID, yearMonth}, &n); err != nil {
		return 0, err
	}
	return n, nil
}

type companyRow struct {
	CompanyID uuid.UUID `db:"company_id"`
}

const markOverdueQuery = `
	UPDATE invoices SET status = 'overdue', updated_at = NOW()
	WHERE status = 'unpaid' AND due_date < $1
	RETURNING company_id
`

func (r *invoiceRepo) MarkOverdue(ctx context.Context, today time.Time) ([]uuid.UUID, error) {
	rows, err := database.Query[companyRow](ctx, r.db, "mark overdue invoices", markOverdueQuery, today)
	if err != nil {
		return nil, err
	}
	seen := make(map[uuid.UUID]bool, len(rows))
	var companies []uuid.UUID
	for _, row := range rows {
		if !seen[row.CompanyID] {
			seen[row.CompanyID] = true
			companies = append(companies, row.CompanyID)
		}
	}
	return companies, nil
}

const totalsQuery = `
	SELECT
		COALESCE(SUM(total_amount), 0) AS total_invoiced,
		COALESCE(SUM(total_amount) FILTER (WHERE status = 'paid'), 0) AS collected,
		COALESCE(SUM(total_amount) FILTER (WHERE status IN ('unpaid', 'overdue')), 0) AS outstanding,
		COALESCE(SUM(total_amount) FILTER (WHERE status = 'overdue'), 0) AS overdue,
		COUNT(*) AS invoice_count,
		COUNT(*) FILTER (WHERE status = 'paid') AS paid_count,
		COUNT(*) FILTER (WHERE status = 'unpaid') AS unpaid_count,
		COUNT(*) FILTER (WHERE status = 'overdue') AS overdue_count
	FROM invoices
	WHERE company_id = $1 AND status <> 'cancelled'
`

func (r *invoiceRepo) Totals(ctx context.Context, companyID uuid.UUID) (*models.FinancialTotals, error) {
	items, err := database.Query[models.FinancialTotals](ctx, r.db, "invoice totals", totalsQuery, companyID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return &models.FinancialTotals{}, nil
	}
	return items[0], nil
}

const monthlyRevenueQuery = `
	SELECT billing_period AS month,
		COALESCE(SUM(total_amount), 0) AS invoiced,
		COALESCE(SUM(total_amount) FILTER (WHERE status = 'paid'), 0) AS collected
	FROM invoices
	WHERE company_id = $1 AND status <> 'cancelled' AND billing_period >= $2
	GROUP BY billing_period
	ORDER BY billing_period ASC
`

func (r *invoiceRepo) MonthlyRevenue(ctx context.Context, companyID uuid.UUID, fromPeriod string) ([]models.MonthlyRevenue, error) {
	items, err := database.Query[models.MonthlyRevenue](ctx, r.db, "monthly revenue", monthlyRevenueQuery, companyID, fromPeriod)
	if err != nil {
		return nil, err
	}
	out := make([]models.MonthlyRevenue, 0, len(items))
	for _, item := range items {
		out = append(out, *item)
	}
	return out, nil
}

// FormatInvoiceNumber renders INV-<company code>-YYYY-MM-NNNNNN.
func FormatInvoiceNumber(companyCode, yearMonth string, seq int) string {
	return fmt.Sprintf("INV-%s-%s-%06d", companyCode, yearMonth, seq)
}
