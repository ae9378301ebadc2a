package repositories

import (
	"context"

	"github.com/google/uuid"

	"godownhub/internal/models"
	"godownhub/pkg/database"
)

var moduleColumns = []string{"id", "parent_id", "code", "name", "route", "sort_order", "created_at"}

type ModuleRepository interface {
	List(ctx context.Context) ([]*models.Module, error)
}

type moduleRepo struct {
	db database.DBTX
}

func NewModuleRepository(db database.DBTX) ModuleRepository {
	return &moduleRepo{db: db}
}

func (r *moduleRepo) List(ctx context.Context) ([]*models.Module, error) {
	return database.All[models.Module](ctx, database.Table(r.db, "modules").
		Columns(moduleColumns...).
		OrderBy("sort_order", "asc").
		OrderBy("name", "asc"))
}

type RolePermissionRepository interface {
	ModuleIDs(ctx context.Context, roleID uuid.UUID) ([]uuid.UUID, error)
	Codes(ctx context.Context, roleID uuid.UUID) ([]string, error)
	// Replace removes every grant of the role and inserts moduleIDs. Run it
	// inside a transaction.
	Replace(ctx context.Context, roleID uuid.UUID, moduleIDs []uuid.UUID) error
	WithTx(tx database.DBTX) RolePermissionRepository
}

type rolePermissionRepo struct {
	db database.DBTX
}

func NewRolePermissionRepository(db database.DBTX) RolePermissionRepository {
	return &rolePermissionRepo{db: db}
}

func (r *rolePermissionRepo) WithTx(tx database.DBTX) RolePermissionRepository {
	return &rolePermissionRepo{db: tx}
}

func (r *rolePermissionRepo) ModuleIDs(ctx context.Context, roleID uuid.UUID) ([]uuid.UUID, error) {
	items, err := database.All[models.RolePermission](ctx, database.Table(r.db, "role_permissions").
		Columns("role_id", "module_id", "created_at").
		Where("role_id = ?", roleID))
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ModuleID)
	}
	return ids, nil
}

type codeRow struct {
	Code string `db:"code"`
}

const roleCodesQuery = `
	SELECT m.code
	FROM role_permissions rp
	JOIN modules m ON m.id = rp.module_id
	WHERE rp.role_id = $1
	ORDER BY m.code
`

func (r *rolePermissionRepo) Codes(ctx context.Context, roleID uuid.UUID) ([]string, error) {
	rows, err := database.Query[codeRow](ctx, r.db, "role permission codes", roleCodesQuery, roleID)
	if err != nil {
		return nil, err
	}
	codes := make([]string, 0, len(rows))
	for _, row := range rows {
		codes = append(codes, row.Code)
	}
	return codes, nil
}

func (r *rolePermissionRepo) Replace(ctx context.Context, roleID uuid.UUID, moduleIDs []uuid.UUID) error {
	if _, err := database.Table(r.db, "role_permissions").Where("role_id = ?", roleID).Delete(ctx); err != nil {
		return err
	}
	if len(moduleIDs) == 0 {
		return nil
	}
	_, err := database.Exec(ctx, r.db, "insert role permissions",
		`INSERT INTO role_permissions (role_id, module_id) SELECT $1, unnest($2::uuid[])`,
		roleID, moduleIDs)
	return err
}
