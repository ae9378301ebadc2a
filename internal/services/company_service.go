package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"godownhub/internal/common"
	"godownhub/internal/models"
	"godownhub/internal/repositories"
	"godownhub/pkg/database"
)

var companySortColumns = []string{"name", "code", "created_at", "status"}

type CompanyService interface {
	Create(ctx context.Context, req *CompanyRequest) (*models.Company, error)
	GetByID(ctx context.Context, caller common.Identity, id uuid.UUID) (*models.Company, error)
	List(ctx context.Context, caller common.Identity, p database.ListParams) (*database.Page[models.Company], error)
	Update(ctx context.Context, caller common.Identity, id uuid.UUID, req *CompanyRequest) (*models.Company, error)
	Delete(ctx context.Context, caller common.Identity, id uuid.UUID) error
}

type CompanyRequest struct {
	Name    string  `json:"name" validate:"required,max=200"`
	Code    string  `json:"code" validate:"required,max=20,alphanum"`
	GSTIN   *string `json:"gstin"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"phone" validate:"omitempty,max=20"`
	Address *string `json:"address"`
	Status  string  `json:"status" validate:"omitempty,oneof=active inactive"`
}

type companyService struct {
	companies repositories.CompanyRepository
}

func NewCompanyService(companies repositories.CompanyRepository) CompanyService {
	return &companyService{companies: companies}
}

func (s *companyService) Create(ctx context.Context, req *CompanyRequest) (*models.Company, error) {
	if err := common.ValidateGSTIN(common.SafeString(req.GSTIN), "gstin"); err != nil {
		return nil, err
	}
	company := &models.Company{
		Name:    strings.TrimSpace(req.Name),
		Code:    strings.ToUpper(strings.TrimSpace(req.Code)),
		GSTIN:   upperPtr(req.GSTIN),
		Email:   common.TrimPtr(req.Email),
		Phone:   common.TrimPtr(req.Phone),
		Address: common.TrimPtr(req.Address),
		Status:  statusOr(req.Status, models.StatusActive),
	}
	if err := s.companies.Create(ctx, company); err != nil {
		return nil, conflictOn(err, "a company with this code already exists")
	}
	return company, nil
}

// canSee reports whether the caller may read or change the company. Admin
// roles see every company.
func canSee(caller common.Identity, companyID uuid.UUID) bool {
	return caller.IsAdmin || caller.CompanyID == companyID
}

func (s *companyService) GetByID(ctx context.Context, caller common.Identity, id uuid.UUID) (*models.Company, error) {
	if !canSee(caller, id) {
		return nil, common.NotFound("company")
	}
	company, err := s.companies.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "company")
	}
	return company, nil
}

func (s *companyService) List(ctx context.Context, caller common.Identity, p database.ListParams) (*database.Page[models.Company], error) {
	p = p.Normalize(companySortColumns, "name")
	var only *uuid.UUID
	if !caller.IsAdmin {
		only = &caller.CompanyID
	}
	items, total, err := s.companies.List(ctx, only, p)
	if err != nil {
		return nil, err
	}
	return database.NewPage(items, total, p), nil
}

func (s *companyService) Update(ctx context.Context, caller common.Identity, id uuid.UUID, req *CompanyRequest) (*models.Company, error) {
	if err := common.ValidateGSTIN(common.SafeString(req.GSTIN), "gstin"); err != nil {
		return nil, err
	}
	company, err := s.GetByID(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	company.Name = strings.TrimSpace(req.Name)
	company.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	company.GSTIN = upperPtr(req.GSTIN)
	company.Email = common.TrimPtr(req.Email)
	company.Phone = common.TrimPtr(req.Phone)
	company.Address = common.TrimPtr(req.Address)
	company.Status = statusOr(req.Status, company.Status)
	if err := s.companies.Update(ctx, company); err != nil {
		return nil, conflictOn(err, "a company with this code already exists")
	}
	return company, nil
}

func (s *companyService) Delete(ctx context.Context, caller common.Identity, id uuid.UUID) error {
	if !caller.IsAdmin {
		return common.Forbidden("only administrators can delete companies")
	}
	if id == caller.CompanyID {
		return common.Conflict("cannot delete the company you are signed in to")
	}
	n, err := s.companies.SetStatus(ctx, id, models.StatusDeleted)
	if err != nil {
		return err
	}
	if n == 0 {
		return common.NotFound("company")
	}
	return nil
}

func statusOr(status, fallback string) string {
	if s := strings.TrimSpace(status); s != "" {
		return s
	}
	return fallback
}

func upperPtr(s *string) *string {
	v := common.TrimPtr(s)
	if v == nil {
		return nil
	}
	u := strings.ToUpper(*v)
	return &u
}
