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
)

const (
	dashboardTTL  = 5 * time.Minute
	revenueMonths = 12
)

type DashboardService interface {
	// Summary returns the company dashboard. Only the default expiry window
	// is cached; other windows are computed on every call.
	Summary(ctx context.Context, companyID uuid.UUID, expiringWithin int) (*models.DashboardSummary, error)
	// Warmup recomputes and caches the dashboard of every active company.
	Warmup(ctx context.Context) (int, error)
}

type dashboardService struct {
	invoices   repositories.InvoiceRepository
	godowns    repositories.GodownRepository
	agreements repositories.AgreementRepository
	companies  repositories.CompanyRepository
	cache      caching.CacheService
	windowDays int
	logger     *zap.Logger
	now        func() time.Time
}

func NewDashboardService(
	invoices repositories.InvoiceRepository,
	godowns repositories.GodownRepository,
	agreements repositories.AgreementRepository,
	companies repositories.CompanyRepository,
	cache caching.CacheService,
	windowDays int,
	logger *zap.Logger,
) DashboardService {
	if windowDays <= 0 {
		windowDays = defaultExpiringDays
	}
	return &dashboardService{
		invoices:   invoices,
		godowns:    godowns,
		agreements: agreements,
		companies:  companies,
		cache:      cache,
		windowDays: windowDays,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *dashboardService) Summary(ctx context.Context, companyID uuid.UUID, expiringWithin int) (*models.DashboardSummary, error) {
	if expiringWithin < 0 {
		return nil, common.NewFieldError("expiring_within", "expiring_within cannot be negative")
	}
	if expiringWithin == 0 || expiringWithin == s.windowDays {
		cached, err := s.cache.GetDashboard(ctx, companyID)
		if err != nil {
			s.logger.Warn("dashboard cache read failed", zap.String("company_id", companyID.String()), zap.Error(err))
		}
		if cached != nil {
			return cached, nil
		}
		return s.refresh(ctx, companyID)
	}
	return s.build(ctx, companyID, expiringWithin)
}

func (s *dashboardService) refresh(ctx context.Context, companyID uuid.UUID) (*models.DashboardSummary, error) {
	summary, err := s.build(ctx, companyID, s.windowDays)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetDashboard(ctx, companyID, summary, dashboardTTL); err != nil {
		s.logger.Warn("dashboard cache write failed", zap.String("company_id", companyID.String()), zap.Error(err))
	}
	return summary, nil
}

func (s *dashboardService) build(ctx context.Context, companyID uuid.UUID, days int) (*models.DashboardSummary, error) {
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	totals, err := s.invoices.Totals(ctx, companyID)
	if err != nil {
		return nil, err
	}
	months := RevenueMonths(today, revenueMonths)
	revenue, err := s.invoices.MonthlyRevenue(ctx, companyID, months[0])
	if err != nil {
		return nil, err
	}
	occupancy, err := s.godowns.OccupancyAll(ctx, companyID)
	if err != nil {
		return nil, err
	}
	expiring, err := s.agreements.Expiring(ctx, companyID, today, today.AddDate(0, 0, days))
	if err != nil {
		return nil, err
	}
	if occupancy == nil {
		occupancy = []*models.GodownOccupancy{}
	}
	if expiring == nil {
		expiring = []*models.ExpiringItem{}
	}

	return &models.DashboardSummary{
		Financial:   *totals,
		Revenue:     fillRevenue(months, revenue),
		Occupancy:   occupancy,
		Expiring:    expiring,
		GeneratedAt: now,
	}, nil
}

// RevenueMonths returns the n billing periods ending with the month of today,
// oldest first.
func RevenueMonths(today time.Time, n int) []string {
	first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = first.AddDate(0, i-(n-1), 0).Format(billingPeriodLayout)
	}
	return out
}

// fillRevenue lays rows onto months, using zeros for months without invoices.
func fillRevenue(months []string, rows []models.MonthlyRevenue) []models.MonthlyRevenue {
	byMonth := make(map[string]models.MonthlyRevenue, len(rows))
	for _, r := range rows {
		byMonth[r.Month] = r
	}
	out := make([]models.MonthlyRevenue, 0, len(months))
	for _, m := range months {
		r, ok := byMonth[m]
		if !ok {
			r = models.MonthlyRevenue{Month: m, Invoiced: decimal.Zero, Collected: decimal.Zero}
		}
		out = append(out, r)
	}
	return out
}

func (s *dashboardService) Warmup(ctx context.Context) (int, error) {
	companies, err := s.companies.ListActive(ctx)
	if err != nil {
		return 0, err
	}
	warmed := 0
	for _, c := range companies {
		if ctx.Err() != nil {
			return warmed, ctx.Err()
		}
		if _, err := s.refresh(ctx, c.ID); err != nil {
			s.logger.Warn("dashboard warmup failed", zap.String("company_id", c.ID.String()), zap.Error(err))
			continue
		}
		warmed++
	}
	return warmed, nil
}
