package repositories

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"godownhub/internal/models"
	"godownhub/pkg/database"
)

var roleColumns = []string{"id", "company_id", "name", "description", "is_admin", "permissions_version", "status", "created_at", "updated_at"}

type RoleRepository interface {
	Create(ctx context.Context, role *models.Role) error
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Role, error)
	List(ctx context.Context, companyID uuid.UUID, p database.ListParams) ([]*models.Role, int64, error)
	Update(ctx context.Context, role *models.Role) error
	SetStatus(ctx context.Context, companyID, id uuid.UUID, status string) (int64, error)
	// BumpPermissionsVersion increments the counter and returns the new value.
	BumpPermissionsVersion(ctx context.Context, id uuid.UUID) (int, error)
	WithTx(tx database.DBTX) RoleRepository
}

type roleRepo struct {
	db database.DBTX
}

func NewRoleRepository(db database.DBTX) RoleRepository {
	return &roleRepo{db: db}
}

func (r *roleRepo) WithTx(tx database.DBTX) RoleRepository {
	return &roleRepo{db: tx}
}

func (r *roleRepo) Create(ctx context.Context, role *models.Role) error {
	id, err := database.Table(r.db, "roles").Insert(ctx, map[string]any{
		"company_id":  role.CompanyID,
		"name":        role.Name,
		"description": role.Description,
		"is_admin":    role.IsAdmin,
		"status":      role.Status,
	})
	if err != nil {
		return err
	}
	role.ID = id
	role.PermissionsVersion = 1
	return nil
}

func (r *roleRepo) GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Role, error) {
	return database.One[models.Role](ctx, database.Table(r.db, "roles").
		Columns(roleColumns...).
		Where("company_id = ?", companyID).
		Where("id = ?", id))
}

func (r *roleRepo) List(ctx context.Context, companyID uuid.UUID, p database.ListParams) ([]*models.Role, int64, error) {
	q := database.Table(r.db, "roles").
		Where("company_id = ?", companyID).
		Where("status <> ?", models.StatusDeleted).
		Search(p.Search, "name", "description")

	total, err := q.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	items, err := database.All[models.Role](ctx, q.Columns(roleColumns...).Paginate(p))
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *roleRepo) Update(ctx context.Context, role *models.Role) error {
	_, err := database.Table(r.db, "roles").
		Where("company_id = ?", role.CompanyID).
		Where("id = ?", role.ID).
		Update(ctx, map[string]any{
			"name":        role.Name,
			"description": role.Description,
			"is_admin":    role.IsAdmin,
			"updated_at":  sq.Expr("NOW()"),
		})
	return err
}

func (r *roleRepo) SetStatus(ctx context.Context, companyID, id uuid.UUID, status string) (int64, error) {
	return database.Table(r.db, "roles").
		Where("company_id = ?", companyID).
		Where("id = ?", id).
		Update(ctx, map[string]any{"status": status, "updated_at": sq.Expr("NOW()")})
}

const bumpPermissionsVersionQuery = `
	UPDATE roles SET permissions_version = permissions_version + 1, updated_at = NOW()
	WHERE id = $1
	RETURNING permissions_version
`

func (r *roleRepo) BumpPermissionsVersion(ctx context.Context, id uuid.UUID) (int, error) {
	var version int
	if err := database.Scan(ctx, r.db, "bump permissions version", bumpPermissionsVersionQuery, []any{id}, &version); err != nil {
		return 0, err
	}
	return version, nil
}
