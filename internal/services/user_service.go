package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"godownhub/internal/common"
	"godownhub/internal/models"
	"godownhub/internal/repositories"
	"godownhub/pkg/database"
)

var userSortColumns = []string{"name", "email", "created_at", "status", "last_login_at"}

// UserService manages the employees of a company.
type UserService interface {
	// Create and Update only let administrators grant an admin role or edit
	// a user who holds one.
	Create(ctx context.Context, caller common.Identity, req *CreateUserRequest) (*models.User, error)
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.User, error)
	List(ctx context.Context, companyID uuid.UUID, f models.UserFilter, p database.ListParams) (*database.Page[models.User], error)
	Update(ctx context.Context, caller common.Identity, id uuid.UUID, req *UpdateUserRequest) (*models.User, error)
	// SetEnabled toggles the user between active and disabled. Disabled
	// users cannot sign in.
	SetEnabled(ctx context.Context, caller common.Identity, id uuid.UUID, enabled bool) (*models.User, error)
}

type CreateUserRequest struct {
	Name        string    `json:"name" validate:"required,max=200"`
	Email       string    `json:"email" validate:"required,email"`
	Password    string    `json:"password" validate:"required,min=8,max=72"`
	Phone       *string   `json:"phone" validate:"omitempty,max=20"`
	Designation *string   `json:"designation" validate:"omitempty,max=100"`
	RoleID      uuid.UUID `json:"role_id" validate:"required"`
}

type UpdateUserRequest struct {
	Name        string    `json:"name" validate:"required,max=200"`
	Email       string    `json:"email" validate:"required,email"`
	Phone       *string   `json:"phone" validate:"omitempty,max=20"`
	Designation *string   `json:"designation" validate:"omitempty,max=100"`
	RoleID      uuid.UUID `json:"role_id" validate:"required"`
}

type userService struct {
	users  repositories.UserRepository
	roles  repositories.RoleRepository
	logger *zap.Logger
}

func NewUserService(users repositories.UserRepository, roles repositories.RoleRepository, logger *zap.Logger) UserService {
	return &userService{users: users, roles: roles, logger: logger}
}

const duplicateEmail = "a user with this email already exists"

var errAdminGrant = common.Forbidden("only administrators can grant or edit admin access")

// assignable checks that roleID is an active role of the caller's company
// the caller is allowed to hand out.
func (s *userService) assignable(ctx context.Context, caller common.Identity, roleID uuid.UUID) error {
	role, err := s.roles.GetByID(ctx, caller.CompanyID, roleID)
	if err != nil {
		if database.IsNotFound(err) {
			return common.NewFieldError("role_id", "role_id does not belong to this company")
		}
		return err
	}
	if role.Status != models.StatusActive {
		return common.NewFieldError("role_id", "role is not active")
	}
	if role.IsAdmin && !caller.IsAdmin {
		return errAdminGrant
	}
	return nil
}

// emailTaken reports whether another user already holds email.
func (s *userService) emailTaken(ctx context.Context, email string, self uuid.UUID) (bool, error) {
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if database.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return existing.ID != self, nil
}

func (s *userService) Create(ctx context.Context, caller common.Identity, req *CreateUserRequest) (*models.User, error) {
	companyID := caller.CompanyID
	if err := s.assignable(ctx, caller, req.RoleID); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	taken, err := s.emailTaken(ctx, email, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, common.Conflict(duplicateEmail)
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		CompanyID:    companyID,
		RoleID:       req.RoleID,
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
		Phone:        common.TrimPtr(req.Phone),
		Designation:  common.TrimPtr(req.Designation),
		Status:       models.UserActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, conflictOn(err, duplicateEmail)
	}
	s.logger.Info("user created", zap.String("user_id", user.ID.String()), zap.String("company_id", companyID.String()))
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, companyID uuid.UUID, f models.UserFilter, p database.ListParams) (*database.Page[models.User], error) {
	if f.Status != "" && f.Status != models.UserActive && f.Status != models.UserDisabled {
		return nil, common.NewFieldError("status", "status must be one of: active disabled")
	}
	p = p.Normalize(userSortColumns, "name")
	items, total, err := s.users.List(ctx, companyID, f, p)
	if err != nil {
		return nil, err
	}
	return database.NewPage(items, total, p), nil
}

func (s *userService) Update(ctx context.Context, caller common.Identity, id uuid.UUID, req *UpdateUserRequest) (*models.User, error) {
	user, err := s.GetByID(ctx, caller.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin {
		current, err := s.roles.GetByID(ctx, caller.CompanyID, user.RoleID)
		if err != nil && !database.IsNotFound(err) {
			return nil, err
		}
		if current != nil && current.IsAdmin {
			return nil, errAdminGrant
		}
	}
	if req.RoleID != user.RoleID {
		if err := s.assignable(ctx, caller, req.RoleID); err != nil {
			return nil, err
		}
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email != user.Email {
		taken, err := s.emailTaken(ctx, email, user.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, common.Conflict(duplicateEmail)
		}
	}

	user.Name = strings.TrimSpace(req.Name)
	user.Email = email
	user.Phone = common.TrimPtr(req.Phone)
	user.Designation = common.TrimPtr(req.Designation)
	user.RoleID = req.RoleID
	if err := s.users.Update(ctx, user); err != nil {
		return nil, conflictOn(err, duplicateEmail)
	}
	return user, nil
}

func (s *userService) SetEnabled(ctx context.Context, caller common.Identity, id uuid.UUID, enabled bool) (*models.User, error) {
	if !enabled && caller.UserID == id {
		return nil, common.Conflict("you cannot disable your own account")
	}
	status := models.UserDisabled
	if enabled {
		status = models.UserActive
	}
	n, err := s.users.SetStatus(ctx, caller.CompanyID, id, status)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, common.NotFound("user")
	}
	s.logger.Info("user status changed", zap.String("user_id", id.String()), zap.String("status", status))
	return s.GetByID(ctx, caller.CompanyID, id)
}
