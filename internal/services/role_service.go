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

var roleSortColumns = []string{"name", "created_at"}

type RoleService interface {
	// Create and Update refuse to touch an admin role unless the caller
	// holds one.
	Create(ctx context.Context, caller common.Identity, req *RoleRequest) (*models.Role, error)
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Role, error)
	List(ctx context.Context, companyID uuid.UUID, p database.ListParams) (*database.Page[models.Role], error)
	Update(ctx context.Context, caller common.Identity, id uuid.UUID, req *RoleRequest) (*models.Role, error)
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}

type RoleRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description"`
	IsAdmin     bool    `json:"is_admin"`
}

type roleService struct {
	roles repositories.RoleRepository
}

func NewRoleService(roles repositories.RoleRepository) RoleService {
	return &roleService{roles: roles}
}

var errAdminRole = common.Forbidden("only administrators can manage admin roles")

func (s *roleService) Create(ctx context.Context, caller common.Identity, req *RoleRequest) (*models.Role, error) {
	if req.IsAdmin && !caller.IsAdmin {
		return nil, errAdminRole
	}
	role := &models.Role{
		CompanyID:   caller.CompanyID,
		Name:        strings.TrimSpace(req.Name),
		Description: common.TrimPtr(req.Description),
		IsAdmin:     req.IsAdmin,
		Status:      models.StatusActive,
	}
	if err := s.roles.Create(ctx, role); err != nil {
		return nil, conflictOn(err, "a role with this name already exists")
	}
	return role, nil
}

func (s *roleService) GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Role, error) {
	role, err := s.roles.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, notFound(err, "role")
	}
	return role, nil
}

func (s *roleService) List(ctx context.Context, companyID uuid.UUID, p database.ListParams) (*database.Page[models.Role], error) {
	p = p.Normalize(roleSortColumns, "name")
	items, total, err := s.roles.List(ctx, companyID, p)
	if err != nil {
		return nil, err
	}
	return database.NewPage(items, total, p), nil
}

func (s *roleService) Update(ctx context.Context, caller common.Identity, id uuid.UUID, req *RoleRequest) (*models.Role, error) {
	role, err := s.GetByID(ctx, caller.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if (role.IsAdmin || req.IsAdmin) && !caller.IsAdmin {
		return nil, errAdminRole
	}
	role.Name = strings.TrimSpace(req.Name)
	role.Description = common.TrimPtr(req.Description)
	role.IsAdmin = req.IsAdmin
	if err := s.roles.Update(ctx, role); err != nil {
		return nil, conflictOn(err, "a role with this name already exists")
	}
	return role, nil
}

func (s *roleService) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	n, err := s.roles.SetStatus(ctx, companyID, id, models.StatusDeleted)
	if err != nil {
		return err
	}
	if n == 0 {
		return common.NotFound("role")
	}
	return nil
}
