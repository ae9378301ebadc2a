package repositories

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"godownhub/internal/models"
	"godownhub/pkg/database"
)

var userColumns = []string{"id", "company_id", "role_id", "name", "email", "password_hash", "phone", "designation", "status", "last_login_at", "created_at", "updated_at"}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.User, error)
	// GetByEmail looks a user up across companies; emails are globally unique.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, companyID uuid.UUID, f models.UserFilter, p database.ListParams) ([]*models.User, int64, error)
	Update(ctx context.Context, user *models.User) error
	SetStatus(ctx context.Context, companyID, id uuid.UUID, status string) (int64, error)
	SetPassword(ctx context.Context, id uuid.UUID, hash string) error
	TouchLogin(ctx context.Context, id uuid.UUID) error
}

type userRepo struct {
	db database.DBTX
}

func NewUserRepository(db database.DBTX) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, u *models.User) error {
	id, err := database.Table(r.db, "users").Insert(ctx, map[string]any{
		"company_id":    u.CompanyID,
		"role_id":       u.RoleID,
		"name":          u.Name,
		"email":         strings.ToLower(u.Email),
		"password_hash": u.PasswordHash,
		"phone":         u.Phone,
		"designation":   u.Designation,
		"status":        u.Status,
	})
	if err != nil {
		return err
	}
	u.ID = id
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.User, error) {
	return database.One[models.User](ctx, database.Table(r.db, "users").
		Columns(userColumns...).
		Where("company_id = ?", companyID).
		Where("id = ?", id))
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return database.One[models.User](ctx, database.Table(r.db, "users").
		Columns(userColumns...).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))))
}

func (r *userRepo) List(ctx context.Context, companyID uuid.UUID, f models.UserFilter, p database.ListParams) ([]*models.User, int64, error) {
	q := database.Table(r.db, "users").
		Where("company_id = ?", companyID).
		Search(p.Search, "name", "email", "phone", "designation")
	if f.Status != "" {
		q.Where("status = ?", f.Status)
	}
	if f.RoleID != nil {
		q.Where("role_id = ?", *f.RoleID)
	}

	total, err := q.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	items, err := database.All[models.User](ctx, q.Columns(userColumns...).Paginate(p))
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *userRepo) Update(ctx context.Context, u *models.User) error {
	_, err := database.Table(r.db, "users").
		Where("company_id = ?", u.CompanyID).
		Where("id = ?", u.ID).
		Update(ctx, map[string]any{
			"role_id":     u.RoleID,
			"name":        u.Name,
			"email":       strings.ToLower(u.Email),
			"phone":       u.Phone,
			"designation": u.Designation,
			"updated_at":  sq.Expr("NOW()"),
		})
	return err
}

func (r *userRepo) SetStatus(ctx context.Context, companyID, id uuid.UUID, status string) (int64, error) {
	return database.Table(r.db, "users").
		Where("company_id = ?", companyID).
		Where("id = ?", id).
		Update(ctx, map[string]any{"status": status, "updated_at": sq.Expr("NOW()")})
}

func (r *userRepo) SetPassword(ctx context.Context, id uuid.UUID, hash string) error {
	_, err := database.Table(r.db, "users").
		Where("id = ?", id).
		Update(ctx, map[string]any{"password_hash": hash, "updated_at": sq.Expr("NOW()")})
	return err
}

func (r *userRepo) TouchLogin(ctx context.Context, id uuid.UUID) error {
	_, err := database.Table(r.db, "users").
		Where("id = ?", id).
		Update(ctx, map[string]any{"last_login_at": sq.Expr("NOW()")})
	return err
}
