package repositories

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"godownhub/internal/models"
	"godownhub/pkg/database"
)

var (
	folderColumns           = []string{"id", "company_id", "parent_id", "name", "status", "created_by", "created_at", "updated_at"}
	folderPermissionColumns = []string{"id", "folder_id", "user_id", "can_view", "can_upload", "can_delete", "created_at", "updated_at"}
	fileLogColumns          = []string{"id", "company_id", "folder_id", "identifier", "file_name", "content_type", "size_bytes", "version", "object_key", "uploaded_by", "status", "created_at"}
)

type FolderRepository interface {
	Create(ctx context.Context, folder *models.DataFolder) error
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.DataFolder, error)
	// ListActive returns every active folder of the company.
	ListActive(ctx context.Context, companyID uuid.UUID) ([]*models.DataFolder, error)
	Rename(ctx context.Context, companyID, id uuid.UUID, name string) (int64, error)
	Move(ctx context.Context, companyID, id uuid.UUID, parentID *uuid.UUID) (int64, error)
	SoftDelete(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) (int64, error)
	WithTx(tx database.DBTX) FolderRepository
}

type folderRepo struct {
	db database.DBTX
}

func NewFolderRepository(db database.DBTX) FolderRepository {
	return &folderRepo{db: db}
}

func (r *folderRepo) WithTx(tx database.DBTX) FolderRepository {
	return &folderRepo{db: tx}
}

func (r *folderRepo) Create(ctx context.Context, f *models.DataFolder) error {
	id, err := database.Table(r.db, "data_folders").Insert(ctx, map[string]any{
		"company_id": f.CompanyID,
		"parent_id":  f.ParentID,
		"name":       f.Name,
		"status":     f.Status,
		"created_by": f.CreatedBy,
	})
	if err != nil {
		return err
	}
	f.ID = id
	return nil
}

func (r *folderRepo) GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.DataFolder, error) {
	return database.One[models.DataFolder](ctx, database.Table(r.db, "data_folders").
		Columns(folderColumns...).
		Where("company_id = ?", companyID).
		Where("id = ?", id).
		Where("status = ?", models.StatusActive))
}

func (r *folderRepo) ListActive(ctx context.Context, companyID uuid.UUID) ([]*models.DataFolder, error) {
	return database.All[models.DataFolder](ctx, database.Table(r.db, "data_folders").
		Columns(folderColumns...).
		Where("company_id = ?", companyID).
		Where("status = ?", models.StatusActive).
		OrderBy("name", "asc"))
}

func (r *folderRepo) Rename(ctx context.Context, companyID, id uuid.UUID, name string) (int64, error) {
	return database.Table(r.db, "data_folders").
		Where("company_id = ?", companyID).
		Where("id = ?", id).
		Where("status = ?", models.StatusActive).
		Update(ctx, map[string]any{"name": name, "updated_at": sq.Expr("NOW()")})
}

func (r *folderRepo) Move(ctx context.Context, companyID, id uuid.UUID, parentID *uuid.UUID) (int64, error) {
	return database.Table(r.db, "data_folders").
		Where("company_id = ?", companyID).
		Where("id = ?", id).
		Where("status = ?", models.StatusActive).
		Update(ctx, map[string]any{"parent_id": parentID, "updated_at": sq.Expr("NOW()")})
}

func (r *folderRepo) SoftDelete(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) (int64, error) {
	return database.Table(r.db, "data_folders").
		Where("company_id = ?", companyID).
		Where("id = ANY(?)", ids).
		Update(ctx, map[string]any{"status": models.StatusDeleted, "updated_at": sq.Expr("NOW()")})
}

type FolderPermissionRepository interface {
	// Upsert creates or replaces the grant of one user on one folder.
	Upsert(ctx context.Context, perm *models.FolderPermission) error
	ListByFolder(ctx context.Context, folderID uuid.UUID) ([]*models.FolderPermission, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.FolderPermission, error)
	Delete(ctx context.Context, folderID, userID uuid.UUID) (int64, error)
}

type folderPermissionRepo struct {
	db database.DBTX
}

func NewFolderPermissionRepository(db database.DBTX) FolderPermissionRepository {
	return &folderPermissionRepo{db: db}
}

const upsertFolderPermissionQuery = `
	INSERT INTO folder_permissions (folder_id, user_id, can_view, can_upload, can_delete)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (folder_id, user_id)
	DO UPDATE SET
		can_view = EXCLUDED.can_view,
		can_upload = EXCLUDED.can_upload,
		can_delete = EXCLUDED.can_delete,
		updated_at = NOW()
	RETURNING id
`

func (r *folderPermissionRepo) Upsert(ctx context.Context, p *models.FolderPermission) error {
	return database.Scan(ctx, r.db, "upsert folder permission", upsertFolderPermissionQuery,
		[]any{p.FolderID, p.UserID, p.CanView, p.CanUpload, p.CanDelete}, &p.ID)
}

func (r *folderPermissionRepo) ListByFolder(ctx context.Context, folderID uuid.UUID) ([]*models.FolderPermission, error) {
	return database.All[models.FolderPermission](ctx, database.Table(r.db, "folder_permissions").
		Columns(folderPermissionColumns...).
		Where("folder_id = ?", folderID).
		OrderBy("created_at", "asc"))
}

func (r *folderPermissionRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.FolderPermission, error) {
	return database.All[models.FolderPermission](ctx, database.Table(r.db, "folder_permissions").
		Columns(folderPermissionColumns...).
		Where("user_id = ?", userID))
}

func (r *folderPermissionRepo) Delete(ctx context.Context, folderID, userID uuid.UUID) (int64, error) {
	return database.Table(r.db, "folder_permissions").
		Where("folder_id = ?", folderID).
		Where("user_id = ?", userID).
		Delete(ctx)
}

type FileLogRepository interface {
	Create(ctx context.Context, file *models.FileLog) error
	GetByIdentifier(ctx context.Context, companyID uuid.UUID, identifier string) (*models.FileLog, error)
	// ListCurrent returns the newest active version of every file in the folder.
	ListCurrent(ctx context.Context, folderID uuid.UUID) ([]*models.FileLog, error)
	ListVersions(ctx context.Context, folderID uuid.UUID, fileName string) ([]*models.FileLog, error)
	// LatestVersion returns the highest version ever stored for the name, or 0.
	LatestVersion(ctx context.Context, folderID uuid.UUID, fileName string) (int, error)
	SoftDelete(ctx context.Context, companyID, id uuid.UUID) (int64, error)
	SoftDeleteInFolders(ctx context.Context, companyID uuid.UUID, folderIDs []uuid.UUID) (int64, error)
	WithTx(tx database.DBTX) FileLogRepository
}

type fileLogRepo struct {
	db database.DBTX
}

func NewFileLogRepository(db database.DBTX) FileLogRepository {
	return &fileLogRepo{db: db}
}

func (r *fileLogRepo) WithTx(tx database.DBTX) FileLogRepository {
	return &fileLogRepo{db: tx}
}

func (r *fileLogRepo) Create(ctx context.Context, f *models.FileLog) error {
	id, err := database.Table(r.db, "file_log").Insert(ctx, map[string]any{
		"company_id":   f.CompanyID,
		"folder_id":    f.FolderID,
		"identifier":   f.Identifier,
		"file_name":    f.FileName,
		"content_type": f.ContentType,
		"size_bytes":   f.SizeBytes,
		"version":      f.Version,
		"object_key":   f.ObjectKey,
		"uploaded_by":  f.UploadedBy,
		"status":       f.Status,
	})
	if err != nil {
		return err
	}
	f.ID = id
	return nil
}

func (r *fileLogRepo) GetByIdentifier(ctx context.Context, companyID uuid.UUID, identifier string) (*models.FileLog, error) {
	return database.One[models.FileLog](ctx, database.Table(r.db, "file_log").
		Columns(fileLogColumns...).
		Where("company_id = ?", companyID).
		Where("identifier = ?", identifier).
		Where("status = ?", models.StatusActive))
}

func (r *fileLogRepo) ListCurrent(ctx context.Context, folderID uuid.UUID) ([]*models.FileLog, error) {
	items, err := database.All[models.FileLog](ctx, database.Table(r.db, "file_log").
		Columns(fileLogColumns...).
		Where("folder_id = ?", folderID).
		Where("status = ?", models.StatusActive).
		OrderBy("file_name", "asc").
		OrderBy("version", "desc"))
	if err != nil {
		return nil, err
	}
	current := make([]*models.FileLog, 0, len(items))
	for _, item := range items {
		if n := len(current); n > 0 && current[n-1].FileName == item.FileName {
			continue
		}
		current = append(current, item)
	}
	return current, nil
}

func (r *fileLogRepo) ListVersions(ctx context.Context, folderID uuid.UUID, fileName string) ([]*models.FileLog, error) {
	return database.All[models.FileLog](ctx, database.Table(r.db, "file_log").
		Columns(fileLogColumns...).
		Where("folder_id = ?", folderID).
		Where("file_name = ?", fileName).
		Where("status = ?", models.StatusActive).
		OrderBy("version", "desc"))
}

func (r *fileLogRepo) LatestVersion(ctx context.Context, folderID uuid.UUID, fileName string) (int, error) {
	var version int
	err := database.Scan(ctx, r.db, "latest file version",
		`SELECT COALESCE(MAX(version), 0) FROM file_log WHERE folder_id = $1 AND file_name = $2`,
		[]any{folderID, fileName}, &version)
	return version, err
}

func (r *fileLogRepo) SoftDelete(ctx context.Context, companyID, id uuid.UUID) (int64, error) {
	return database.Table(r.db, "file_log").
		Where("company_id = ?", companyID).
		Where("id = ?", id).
		Where("status = ?", models.StatusActive).
		Update(ctx, map[string]any{"status": models.StatusDeleted})
}

func (r *fileLogRepo) SoftDeleteInFolders(ctx context.Context, companyID uuid.UUID, folderIDs []uuid.UUID) (int64, error) {
	return database.Table(r.db, "file_log").
		Where("company_id = ?", companyID).
		Where("folder_id = ANY(?)", folderIDs).
		Where("status = ?", models.StatusActive).
		Update(ctx, map[string]any{"status": models.StatusDeleted})
}
