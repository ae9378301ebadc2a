package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"godownhub/internal/common"
	"godownhub/internal/models"
	"godownhub/internal/repositories"
	"godownhub/pkg/database"
)

var (
	agreementSortColumns = []string{"agreement_number", "start_date", "end_date", "monthly_rent", "created_at", "status"}
	licenseSortColumns   = []string{"license_number", "license_type", "valid_from", "valid_to", "created_at", "status"}
)

// AgreementService manages rent agreements and the licenses organizations
// hold. Both carry a validity window that the expiry sweep closes.
type AgreementService interface {
	CreateAgreement(ctx context.Context, companyID uuid.UUID, req *AgreementRequest) (*models.Agreement, error)
	GetAgreement(ctx context.Context, companyID, id uuid.UUID) (*models.Agreement, error)
	ListAgreements(ctx context.Context, companyID uuid.UUID, f models.ValidityFilter, p database.ListParams) (*database.Page[models.Agreement], error)
	UpdateAgreement(ctx context.Context, companyID, id uuid.UUID, req *AgreementRequest) (*models.Agreement, error)
	// TerminateAgreement ends an agreement before its end date.
	TerminateAgreement(ctx context.Context, companyID, id uuid.UUID) error

	CreateLicense(ctx context.Context, companyID uuid.UUID, req *LicenseRequest) (*models.License, error)
	GetLicense(ctx context.Context, companyID, id uuid.UUID) (*models.License, error)
	ListLicenses(ctx context.Context, companyID uuid.UUID, f models.ValidityFilter, p database.ListParams) (*database.Page[models.License], error)
	UpdateLicense(ctx context.Context, companyID, id uuid.UUID, req *LicenseRequest) (*models.License, error)
	RevokeLicense(ctx context.Context, companyID, id uuid.UUID) error

	// ExpireLapsed marks agreements and licenses whose window ended before
	// today as expired, for every company.
	ExpireLapsed(ctx context.Context, today time.Time) (agreements, licenses int64, err error)
	// Expiring lists the company's agreements and licenses ending within days.
	Expiring(ctx context.Context, companyID uuid.UUID, today time.Time, days int) ([]*models.ExpiringItem, error)
}

type AgreementRequest struct {
	OrganizationID  uuid.UUID       `json:"organization_id" validate:"required"`
	AgreementNumber string          `json:"agreement_number" validate:"required,max=50"`
	StartDate       string          `json:"start_date" validate:"required"`
	EndDate         string          `json:"end_date" validate:"required"`
	MonthlyRent     decimal.Decimal `json:"monthly_rent" validate:"dgte=0"`
	SecurityDeposit decimal.Decimal `json:"security_deposit" validate:"dgte=0"`
	Notes           *string         `json:"notes"`
	Status          string          `json:"status" validate:"omitempty,oneof=active expired terminated"`
}

type LicenseRequest struct {
	OrganizationID uuid.UUID `json:"organization_id" validate:"required"`
	LicenseType    string    `json:"license_type" validate:"required,max=100"`
	LicenseNumber  string    `json:"license_number" validate:"required,max=100"`
	IssuedBy       *string   `json:"issued_by" validate:"omitempty,max=200"`
	ValidFrom      string    `json:"valid_from" validate:"required"`
	ValidTo        string    `json:"valid_to" validate:"required"`
	Status         string    `json:"status" validate:"omitempty,oneof=active expired revoked"`
}

type agreementService struct {
	agreements repositories.AgreementRepository
	licenses   repositories.LicenseRepository
	orgs       repositories.OrganizationRepository
	logger     *zap.Logger
	today      func() time.Time
}

func NewAgreementService(
	agreements repositories.AgreementRepository,
	licenses repositories.LicenseRepository,
	orgs repositories.OrganizationRepository,
	logger *zap.Logger,
) AgreementService {
	return &agreementService{
		agreements: agreements,
		licenses:   licenses,
		orgs:       orgs,
		logger:     logger,
		today:      common.Today,
	}
}

// window parses and checks a validity window.
func window(start, end, startField, endField string) (time.Time, time.Time, error) {
	from, err := common.ParseDate(start, startField)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := common.ParseDate(end, endField)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if err := common.ValidateDateRange(from, to, endField); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}

func (s *agreementService) organization(ctx context.Context, companyID, orgID uuid.UUID) error {
	if _, err := s.orgs.GetByID(ctx, companyID, orgID); err != nil {
		if database.IsNotFound(err) {
			return common.NewFieldError("organization_id", "organization_id does not belong to this company")
		}
		return err
	}
	return nil
}

func (s *agreementService) CreateAgreement(ctx context.Context, companyID uuid.UUID, req *AgreementRequest) (*models.Agreement, error) {
	start, end, err := window(req.StartDate, req.EndDate, "start_date", "end_date")
	if err != nil {
		return nil, err
	}
	if err := s.organization(ctx, companyID, req.OrganizationID); err != nil {
		return nil, err
	}

	agreement := &models.Agreement{
		CompanyID:       companyID,
		OrganizationID:  req.OrganizationID,
		AgreementNumber: strings.TrimSpace(req.AgreementNumber),
		StartDate:       start,
		EndDate:         end,
		MonthlyRent:     req.MonthlyRent,
		SecurityDeposit: req.SecurityDeposit,
		Notes:           common.TrimPtr(req.Notes),
		Status:          statusOr(req.Status, models.AgreementActive),
	}
	if err := s.agreements.Create(ctx, agreement); err != nil {
		return nil, conflictOn(err, "an agreement with this number already exists")
	}
	s.logger.Info("agreement created",
		zap.String("agreement_id", agreement.ID.String()),
		zap.String("organization_id", agreement.OrganizationID.String()),
	)
	return agreement, nil
}

func (s *agreementService) GetAgreement(ctx context.Context, companyID, id uuid.UUID) (*models.Agreement, error) {
	agreement, err := s.agreements.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, notFound(err, "agreement")
	}
	return agreement, nil
}

func (s *agreementService) ListAgreements(ctx context.Context, companyID uuid.UUID, f models.ValidityFilter, p database.ListParams) (*database.Page[models.Agreement], error) {
	if f.ExpiringWithin < 0 {
		return nil, common.NewFieldError("expiring_within", "expiring_within cannot be negative")
	}
	p = p.Normalize(agreementSortColumns, "end_date")
	items, total, err := s.agreements.List(ctx, companyID, f, s.today(), p)
	if err != nil {
		return nil, err
	}
	return database.NewPage(items, total, p), nil
}

func (s *agreementService) UpdateAgreement(ctx context.Context, companyID, id uuid.UUID, req *AgreementRequest) (*models.Agreement, error) {
	start, end, err := window(req.StartDate, req.EndDate, "start_date", "end_date")
	if err != nil {
		return nil, err
	}
	agreement, err := s.GetAgreement(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if req.OrganizationID != agreement.OrganizationID {
		if err := s.organization(ctx, companyID, req.OrganizationID); err != nil {
			return nil, err
		}
	}

	agreement.OrganizationID = req.OrganizationID
	agreement.AgreementNumber = strings.TrimSpace(req.AgreementNumber)
	agreement.StartDate = start
	agreement.EndDate = end
	agreement.MonthlyRent = req.MonthlyRent
	agreement.SecurityDeposit = req.SecurityDeposit
	agreement.Notes = common.TrimPtr(req.Notes)
	agreement.Status = statusOr(req.Status, agreement.Status)
	if err := s.agreements.Update(ctx, agreement); err != nil {
		return nil, conflictOn(err, "an agreement with this number already exists")
	}
	return agreement, nil
}

func (s *agreementService) TerminateAgreement(ctx context.Context, companyID, id uuid.UUID) error {
	n, err := s.agreements.SetStatus(ctx, companyID, id, models.AgreementTerminated)
	if err != nil {
		return err
	}
	if n == 0 {
		return common.NotFound("agreement")
	}
	return nil
}

func (s *agreementService) CreateLicense(ctx context.Context, companyID uuid.UUID, req *LicenseRequest) (*models.License, error) {
	from, to, err := window(req.ValidFrom, req.ValidTo, "valid_from", "valid_to")
	if err != nil {
		return nil, err
	}
	if err := s.organization(ctx, companyID, req.OrganizationID); err != nil {
		return nil, err
	}

	license := &models.License{
		CompanyID:      companyID,
		OrganizationID: req.OrganizationID,
		LicenseType:    strings.TrimSpace(req.LicenseType),
		LicenseNumber:  strings.TrimSpace(req.LicenseNumber),
		IssuedBy:       common.TrimPtr(req.IssuedBy),
		ValidFrom:      from,
		ValidTo:        to,
		Status:         statusOr(req.Status, models.LicenseActive),
	}
	if err := s.licenses.Create(ctx, license); err != nil {
		return nil, conflictOn(err, "a license with this number already exists")
	}
	return license, nil
}

func (s *agreementService) GetLicense(ctx context.Context, companyID, id uuid.UUID) (*models.License, error) {
	license, err := s.licenses.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, notFound(err, "license")
	}
	return license, nil
}

func (s *agreementService) ListLicenses(ctx context.Context, companyID uuid.UUID, f models.ValidityFilter, p database.ListParams) (*database.Page[models.License], error) {
	if f.ExpiringWithin < 0 {
		return nil, common.NewFieldError("expiring_within", "expiring_within cannot be negative")
	}
	p = p.Normalize(licenseSortColumns, "valid_to")
	items, total, err := s.licenses.List(ctx, companyID, f, s.today(), p)
	if err != nil {
		return nil, err
	}
	return database.NewPage(items, total, p), nil
}

func (s *agreementService) UpdateLicense(ctx context.Context, companyID, id uuid.UUID, req *LicenseRequest) (*models.License, error) {
	from, to, err := window(req.ValidFrom, req.ValidTo, "valid_from", "valid_to")
	if err != nil {
		return nil, err
	}
	license, err := s.GetLicense(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if req.OrganizationID != license.OrganizationID {
		if err := s.organization(ctx, companyID, req.OrganizationID); err != nil {
			return nil, err
		}
	}

	license.OrganizationID = req.OrganizationID
	license.LicenseType = strings.TrimSpace(req.LicenseType)
	license.LicenseNumber = strings.TrimSpace(req.LicenseNumber)
	license.IssuedBy = common.TrimPtr(req.IssuedBy)
	license.ValidFrom = from
	license.ValidTo = to
	license.Status = statusOr(req.Status, license.Status)
	if err := s.licenses.Update(ctx, license); err != nil {
		return nil, conflictOn(err, "a license with this number already exists")
	}
	return license, nil
}

func (s *agreementService) RevokeLicense(ctx context.Context, companyID, id uuid.UUID) error {
	n, err := s.licenses.SetStatus(ctx, companyID, id, models.LicenseRevoked)
	if err != nil {
		return err
	}
	if n == 0 {
		return common.NotFound("license")
	}
	return nil
}

func (s *agreementService) ExpireLapsed(ctx context.Context, today time.Time) (int64, int64, error) {
	agreements, err := s.agreements.ExpireLapsed(ctx, today)
	if err != nil {
		return 0, 0, err
	}
	licenses, err := s.licenses.ExpireLapsed(ctx, today)
	if err != nil {
		return agreements, 0, err
	}
	if agreements > 0 || licenses > 0 {
		s.logger.Info("expired lapsed validity windows",
			zap.Int64("agreements", agreements),
			zap.Int64("licenses", licenses),
		)
	}
	return agreements, licenses, nil
}

func (s *agreementService) Expiring(ctx context.Context, companyID uuid.UUID, today time.Time, days int) ([]*models.ExpiringItem, error) {
	if days <= 0 {
		days = defaultExpiringDays
	}
	return s.agreements.Expiring(ctx, companyID, today, today.AddDate(0, 0, days))
}

const defaultExpiringDays = 30
