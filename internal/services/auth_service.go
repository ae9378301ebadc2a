package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"godownhub/internal/common"
	"godownhub/internal/models"
	"godownhub/internal/repositories"
	"godownhub/pkg/database"
)

var errBadCredentials = common.Unauthorized("invalid email or password")

// AuthService handles login, session resolution and password changes
type AuthService interface {
	Login(ctx context.Context, req *LoginRequest) (*LoginResult, error)
	// Authenticate resolves a session into the caller identity. The user,
	// company and role must still be active.
	Authenticate(ctx context.Context, claims *SessionClaims) (common.Identity, error)
	// AuthenticateEmail resolves an external identity by email.
	AuthenticateEmail(ctx context.Context, email string) (common.Identity, error)
	Me(ctx context.Context, id common.Identity) (*MeResponse, error)
	ChangePassword(ctx context.Context, id common.Identity, req *ChangePasswordRequest) error
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResult struct {
	User      *models.User `json:"user"`
	Token     string       `json:"-"`
	ExpiresAt time.Time    `json:"expires_at"`
}

type MeResponse struct {
	User        *models.User `json:"user"`
	Role        *models.Role `json:"role"`
	Permissions []string     `json:"permissions"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

type authService struct {
	users     repositories.UserRepository
	companies repositories.CompanyRepository
	roles     repositories.RoleRepository
	rbac      RBACService
	sessions  *SessionManager
	logger    *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	users repositories.UserRepository,
	companies repositories.CompanyRepository,
	roles repositories.RoleRepository,
	rbac RBACService,
	sessions *SessionManager,
	logger *zap.Logger,
) AuthService {
	return &authService{
		users:     users,
		companies: companies,
		roles:     roles,
		rbac:      rbac,
		sessions:  sessions,
		logger:    logger,
	}
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if database.IsNotFound(err) {
			return nil, errBadCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errBadCredentials
	}

	id, err := s.identityFor(ctx, user)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.sessions.Issue(user.ID, user.CompanyID, id.RoleID)
	if err != nil {
		return nil, err
	}
	if err := s.users.TouchLogin(ctx, user.ID); err != nil {
		s.logger.Warn("failed to record last login", zap.String("user_id", user.ID.String()), zap.Error(err))
	}

	s.logger.Info("user logged in", zap.String("user_id", user.ID.String()), zap.String("company_id", user.CompanyID.String()))
	return &LoginResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

func (s *authService) Authenticate(ctx context.Context, claims *SessionClaims) (common.Identity, error) {
	user, err := s.users.GetByID(ctx, claims.CompanyID, claims.UserID)
	if err != nil {
		if database.IsNotFound(err) {
			return common.Identity{}, common.Unauthorized("session is no longer valid")
		}
		return common.Identity{}, err
	}
	return s.identityFor(ctx, user)
}

func (s *authService) AuthenticateEmail(ctx context.Context, email string) (common.Identity, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if database.IsNotFound(err) {
			return common.Identity{}, common.Unauthorized("unknown user")
		}
		return common.Identity{}, err
	}
	return s.identityFor(ctx, user)
}

// identityFor checks that the user, its company and role are usable and
// builds the request identity.
func (s *authService) identityFor(ctx context.Context, user *models.User) (common.Identity, error) {
	if user.Status != models.UserActive {
		return common.Identity{}, common.Unauthorized("account is disabled")
	}

	company, err := s.companies.GetByID(ctx, user.CompanyID)
	if err != nil {
		if database.IsNotFound(err) {
			return common.Identity{}, common.Unauthorized("company is not available")
		}
		return common.Identity{}, err
	}
	if company.Status != models.StatusActive {
		return common.Identity{}, common.Unauthorized("company is not active")
	}

	role, err := s.roles.GetByID(ctx, user.CompanyID, user.RoleID)
	if err != nil {
		if database.IsNotFound(err) {
			return common.Identity{}, common.Unauthorized("role is not available")
		}
		return common.Identity{}, err
	}
	if role.Status != models.StatusActive {
		return common.Identity{}, common.Unauthorized("role is not active")
	}

	return common.Identity{
		UserID:             user.ID,
		CompanyID:          user.CompanyID,
		RoleID:             role.ID,
		IsAdmin:            role.IsAdmin,
		PermissionsVersion: role.PermissionsVersion,
	}, nil
}

func (s *authService) Me(ctx context.Context, id common.Identity) (*MeResponse, error) {
	user, err := s.users.GetByID(ctx, id.CompanyID, id.UserID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	role, err := s.roles.GetByID(ctx, id.CompanyID, id.RoleID)
	if err != nil {
		return nil, notFound(err, "role")
	}
	codes, err := s.rbac.Codes(ctx, role)
	if err != nil {
		return nil, err
	}
	return &MeResponse{User: user, Role: role, Permissions: codes}, nil
}

func (s *authService) ChangePassword(ctx context.Context, id common.Identity, req *ChangePasswordRequest) error {
	user, err := s.users.GetByID(ctx, id.CompanyID, id.UserID)
	if err != nil {
		return notFound(err, "user")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return common.NewFieldError("old_password", "old password is incorrect")
		}
		return err
	}
	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return s.users.SetPassword(ctx, user.ID, hash)
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
