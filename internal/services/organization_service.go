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

var organizationSortColumns = []string{"name", "created_at", "status"}

type OrganizationService interface {
	Create(ctx context.Context, companyID uuid.UUID, req *OrganizationRequest) (*models.Organization, error)
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Organization, error)
	List(ctx context.Context, companyID uuid.UUID, status string, p database.ListParams) (*database.Page[models.Organization], error)
	Update(ctx context.Context, companyID, id uuid.UUID, req *OrganizationRequest) (*models.Organization, error)
	// Delete marks the organization inactive.
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}

type OrganizationRequest struct {
	Name          string  `json:"name" validate:"required,max=200"`
	ContactPerson *string `json:"contact_person" validate:"omitempty,max=200"`
	Email         *string `json:"email" validate:"omitempty,email"`
	Phone         *string `json:"phone" validate:"omitempty,max=20"`
	GSTIN         *string `json:"gstin"`
	Address       *string `json:"address"`
	Status        string  `json:"status" validate:"omitempty,oneof=active inactive"`
}

type organizationService struct {
	orgs repositories.OrganizationRepository
}

func NewOrganizationService(orgs repositories.OrganizationRepository) OrganizationService {
	return &organizationService{orgs: orgs}
}

func (s *organizationService) Create(ctx context.Context, companyID uuid.UUID, req *OrganizationRequest) (*models.Organization, error) {
	if err := common.ValidateGSTIN(common.SafeString(req.GSTIN), "gstin"); err != nil {
		return nil, err
	}
	org := &models.Organization{
		CompanyID:     companyID,
		Name:          strings.TrimSpace(req.Name),
		ContactPerson: common.TrimPtr(req.ContactPerson),
		Email:         common.TrimPtr(req.Email),
		Phone:         common.TrimPtr(req.Phone),
		GSTIN:         upperPtr(req.GSTIN),
		Address:       common.TrimPtr(req.Address),
		Status:        statusOr(req.Status, models.StatusActive),
	}
	if err := s.orgs.Create(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

func (s *organizationService) GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Organization, error) {
	org, err := s.orgs.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, notFound(err, "organization")
	}
	return org, nil
}

func (s *organizationService) List(ctx context.Context, companyID uuid.UUID, status string, p database.ListParams) (*database.Page[models.Organization], error) {
	p = p.Normalize(organizationSortColumns, "name")
	items, total, err := s.orgs.List(ctx, companyID, strings.TrimSpace(status), p)
	if err != nil {
		return nil, err
	}
	return database.NewPage(items, total, p), nil
}

func (s *organizationService) Update(ctx context.Context, companyID, id uuid.UUID, req *OrganizationRequest) (*models.Organization, error) {
	if err := common.ValidateGSTIN(common.SafeString(req.GSTIN), "gstin"); err != nil {
		return nil, err
	}
	org, err := s.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	org.Name = strings.TrimSpace(req.Name)
	org.ContactPerson = common.TrimPtr(req.ContactPerson)
	org.Email = common.TrimPtr(req.Email)
	org.Phone = common.TrimPtr(req.Phone)
	org.GSTIN = upperPtr(req.GSTIN)
	org.Address = common.TrimPtr(req.Address)
	org.Status = statusOr(req.Status, org.Status)
	if err := s.orgs.Update(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

func (s *organizationService) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	n, err := s.orgs.SetStatus(ctx, companyID, id, models.StatusInactive)
	if err != nil {
		return err
	}
	if n == 0 {
		return common.NotFound("organization")
	}
	return nil
}
