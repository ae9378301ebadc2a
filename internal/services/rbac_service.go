package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"godownhub/internal/caching"
	"godownhub/internal/common"
	"godownhub/internal/models"
	"godownhub/internal/repositories"
	"godownhub/internal/tree"
	"godownhub/pkg/database"
)

const rolePermissionsTTL = time.Hour

type RBACService interface {
	// PermissionTree returns every module as a tree, checked where the role holds it.
	PermissionTree(ctx context.Context, companyID, roleID uuid.UUID) ([]*models.PermissionNode, error)
	// SetPermissions replaces the role's grants. Granting a module also grants
	// its ancestors.
	SetPermissions(ctx context.Context, companyID, roleID uuid.UUID, moduleIDs []uuid.UUID) (*models.Role, error)
	// Codes returns the module codes granted to the role.
	Codes(ctx context.Context, role *models.Role) ([]string, error)
	HasPermission(ctx context.Context, id common.Identity, code string) (bool, error)
}

type rbacService struct {
	tx              database.Transactor
	roles           repositories.RoleRepository
	modules         repositories.ModuleRepository
	rolePermissions repositories.RolePermissionRepository
	cache           caching.CacheService
	logger          *zap.Logger
}

func NewRBACService(
	tx database.Transactor,
	roles repositories.RoleRepository,
	modules repositories.ModuleRepository,
	rolePermissions repositories.RolePermissionRepository,
	cache caching.CacheService,
	logger *zap.Logger,
) RBACService {
	return &rbacService{
		tx:              tx,
		roles:           roles,
		modules:         modules,
		rolePermissions: rolePermissions,
		cache:           cache,
		logger:          logger,
	}
}

var moduleTreeOptions = tree.Options[*models.Module]{
	ID:     func(m *models.Module) uuid.UUID { return m.ID },
	Parent: func(m *models.Module) *uuid.UUID { return m.ParentID },
	Less: func(a, b *models.Module) bool {
		if a.SortOrder != b.SortOrder {
			return a.SortOrder < b.SortOrder
		}
		return a.Name < b.Name
	},
}

func (s *rbacService) PermissionTree(ctx context.Context, companyID, roleID uuid.UUID) ([]*models.PermissionNode, error) {
	if _, err := s.roles.GetByID(ctx, companyID, roleID); err != nil {
		return nil, notFound(err, "role")
	}

	modules, err := s.modules.List(ctx)
	if err != nil {
		return nil, err
	}
	granted, err := s.rolePermissions.ModuleIDs(ctx, roleID)
	if err != nil {
		return nil, err
	}
	checked := make(map[uuid.UUID]bool, len(granted))
	for _, id := range granted {
		checked[id] = true
	}

	return toPermissionNodes(tree.Build(modules, moduleTreeOptions), checked), nil
}

func toPermissionNodes(forest []*tree.Node[*models.Module], checked map[uuid.UUID]bool) []*models.PermissionNode {
	out := make([]*models.PermissionNode, 0, len(forest))
	for _, n := range forest {
		m := n.Item
		out = append(out, &models.PermissionNode{
			ID:        m.ID,
			ParentID:  m.ParentID,
			Code:      m.Code,
			Name:      m.Name,
			Route:     m.Route,
			SortOrder: m.SortOrder,
			Checked:   checked[m.ID],
			Children:  toPermissionNodes(n.Children, checked),
		})
	}
	return out
}

func (s *rbacService) SetPermissions(ctx context.Context, companyID, roleID uuid.UUID, moduleIDs []uuid.UUID) (*models.Role, error) {
	role, err := s.roles.GetByID(ctx, companyID, roleID)
	if err != nil {
		return nil, notFound(err, "role")
	}

	modules, err := s.modules.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*models.Module, len(modules))
	for _, m := range modules {
		byID[m.ID] = m
	}

	grant := make(map[uuid.UUID]bool, len(moduleIDs))
	var ordered []uuid.UUID
	add := func(id uuid.UUID) {
		if !grant[id] {
			grant[id] = true
			ordered = append(ordered, id)
		}
	}
	for _, id := range moduleIDs {
		if _, ok := byID[id]; !ok {
			return nil, common.NewFieldError("module_ids", "unknown module "+id.String())
		}
		add(id)
		for _, ancestor := range tree.Ancestors(byID, id, moduleTreeOptions.Parent) {
			add(ancestor)
		}
	}

	err = s.tx.InTx(ctx, func(tx database.DBTX) error {
		if err := s.rolePermissions.WithTx(tx).Replace(ctx, roleID, ordered); err != nil {
			return err
		}
		version, err := s.roles.WithTx(tx).BumpPermissionsVersion(ctx, roleID)
		if err != nil {
			return err
		}
		role.PermissionsVersion = version
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("role permissions replaced",
		zap.String("role_id", roleID.String()),
		zap.Int("modules", len(ordered)),
		zap.Int("permissions_version", role.PermissionsVersion),
	)
	return role, nil
}

func (s *rbacService) Codes(ctx context.Context, role *models.Role) ([]string, error) {
	return s.codes(ctx, role.ID, role.PermissionsVersion)
}

func (s *rbacService) codes(ctx context.Context, roleID uuid.UUID, version int) ([]string, error) {
	codes, hit, err := s.cache.GetRolePermissions(ctx, roleID, version)
	if err != nil {
		s.logger.Warn("role permission cache read failed", zap.String("role_id", roleID.String()), zap.Error(err))
	}
	if hit {
		return codes, nil
	}

	codes, err = s.rolePermissions.Codes(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetRolePermissions(ctx, roleID, version, codes, rolePermissionsTTL); err != nil {
		s.logger.Warn("role permission cache write failed", zap.String("role_id", roleID.String()), zap.Error(err))
	}
	return codes, nil
}

func (s *rbacService) HasPermission(ctx context.Context, id common.Identity, code string) (bool, error) {
	if id.IsAdmin {
		return true, nil
	}
	codes, err := s.codes(ctx, id.RoleID, id.PermissionsVersion)
	if err != nil {
		return false, err
	}
	for _, c := range codes {
		if c == code {
			return true, nil
		}
	}
	return false, nil
}
