package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"godownhub/internal/common"
	"godownhub/internal/models"
	"godownhub/internal/repositories"
	"godownhub/internal/tree"
	"godownhub/pkg/database"
)

// DataBankService is the company document store: a folder tree, versioned
// files kept in object storage and per-user folder grants.
type DataBankService interface {
	CreateFolder(ctx context.Context, caller common.Identity, req *FolderRequest) (*models.DataFolder, error)
	RenameFolder(ctx context.Context, caller common.Identity, id uuid.UUID, name string) (*models.DataFolder, error)
	MoveFolder(ctx context.Context, caller common.Identity, id uuid.UUID, parentID *uuid.UUID) (*models.DataFolder, error)
	// DeleteFolder soft deletes the folder, its descendants and their files.
	DeleteFolder(ctx context.Context, caller common.Identity, id uuid.UUID) error
	// Tree returns the folders the caller may view, plus the ancestors needed
	// to reach them marked as not accessible.
	Tree(ctx context.Context, caller common.Identity) ([]*models.FolderNode, error)
	Access(ctx context.Context, caller common.Identity, folderID uuid.UUID) (models.FolderAccess, error)

	SetPermission(ctx context.Context, caller common.Identity, folderID uuid.UUID, req *FolderPermissionRequest) (*models.FolderPermission, error)
	ListPermissions(ctx context.Context, caller common.Identity, folderID uuid.UUID) ([]*models.FolderPermission, error)
	RemovePermission(ctx context.Context, caller common.Identity, folderID, userID uuid.UUID) error

	// Upload stores a file in the folder. Uploading an existing name adds a
	// new version.
	Upload(ctx context.Context, caller common.Identity, folderID uuid.UUID, in *UploadInput) (*models.FileLog, error)
	ListFiles(ctx context.Context, caller common.Identity, folderID uuid.UUID) ([]*models.FileLog, error)
	ListVersions(ctx context.Context, caller common.Identity, folderID uuid.UUID, fileName string) ([]*models.FileLog, error)
	DeleteFile(ctx context.Context, caller common.Identity, identifier string) error
	// Download opens a stored file for streaming. The caller closes the reader.
	Download(ctx context.Context, caller common.Identity, identifier string) (*models.FileLog, io.ReadCloser, error)
}

type FolderRequest struct {
	Name     string     `json:"name" validate:"required,max=200"`
	ParentID *uuid.UUID `json:"parent_id"`
}

type FolderPermissionRequest struct {
	UserID    uuid.UUID `json:"user_id" validate:"required"`
	CanView   bool      `json:"can_view"`
	CanUpload bool      `json:"can_upload"`
	CanDelete bool      `json:"can_delete"`
}

type UploadInput struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type dataBankService struct {
	tx      database.Transactor
	folders repositories.FolderRepository
	grants  repositories.FolderPermissionRepository
	files   repositories.FileLogRepository
	users   repositories.UserRepository
	storage FileStorage
	logger  *zap.Logger
}

func NewDataBankService(
	tx database.Transactor,
	folders repositories.FolderRepository,
	grants repositories.FolderPermissionRepository,
	files repositories.FileLogRepository,
	users repositories.UserRepository,
	storage FileStorage,
	logger *zap.Logger,
) DataBankService {
	return &dataBankService{
		tx:      tx,
		folders: folders,
		grants:  grants,
		files:   files,
		users:   users,
		storage: storage,
		logger:  logger,
	}
}

var folderTreeOptions = tree.Options[*models.DataFolder]{
	ID:     func(f *models.DataFolder) uuid.UUID { return f.ID },
	Parent: func(f *models.DataFolder) *uuid.UUID { return f.ParentID },
	Less: func(a, b *models.DataFolder) bool {
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	},
}

// accessMap computes the caller's effective access on every folder. The
// nearest explicit grant on the folder or an ancestor wins.
func (s *dataBankService) accessMap(ctx context.Context, caller common.Identity, folders []*models.DataFolder) (map[uuid.UUID]models.FolderAccess, error) {
	out := make(map[uuid.UUID]models.FolderAccess, len(folders))
	if caller.IsAdmin {
		for _, f := range folders {
			out[f.ID] = models.FullAccess
		}
		return out, nil
	}

	perms, err := s.grants.ListByUser(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	explicit := make(map[uuid.UUID]models.FolderAccess, len(perms))
	for _, p := range perms {
		explicit[p.FolderID] = models.FolderAccess{CanView: p.CanView, CanUpload: p.CanUpload, CanDelete: p.CanDelete}
	}

	byID := make(map[uuid.UUID]*models.DataFolder, len(folders))
	for _, f := range folders {
		byID[f.ID] = f
	}
	for _, f := range folders {
		if a, ok := explicit[f.ID]; ok {
			out[f.ID] = a
			continue
		}
		for _, ancestor := range tree.Ancestors(byID, f.ID, folderTreeOptions.Parent) {
			if a, ok := explicit[ancestor]; ok {
				out[f.ID] = a
				break
			}
		}
	}
	return out, nil
}

// folderAccess loads the company's folders and returns the target folder,
// the full folder list and the caller's access on the target.
func (s *dataBankService) folderAccess(ctx context.Context, caller common.Identity, folderID uuid.UUID) (*models.DataFolder, []*models.DataFolder, models.FolderAccess, error) {
	folders, err := s.folders.ListActive(ctx, caller.CompanyID)
	if err != nil {
		return nil, nil, models.FolderAccess{}, err
	}
	var target *models.DataFolder
	for _, f := range folders {
		if f.ID == folderID {
			target = f
			break
		}
	}
	if target == nil {
		return nil, nil, models.FolderAccess{}, common.NotFound("folder")
	}
	access, err := s.accessMap(ctx, caller, folders)
	if err != nil {
		return nil, nil, models.FolderAccess{}, err
	}
	a := access[folderID]
	if !a.CanView && !a.CanUpload && !a.CanDelete {
		// Folders the caller cannot see at all are reported as missing.
		return nil, nil, models.FolderAccess{}, common.NotFound("folder")
	}
	return target, folders, a, nil
}

func (s *dataBankService) Access(ctx context.Context, caller common.Identity, folderID uuid.UUID) (models.FolderAccess, error) {
	_, _, a, err := s.folderAccess(ctx, caller, folderID)
	return a, err
}

func (s *dataBankService) CreateFolder(ctx context.Context, caller common.Identity, req *FolderRequest) (*models.DataFolder, error) {
	if req.ParentID == nil {
		if !caller.IsAdmin {
			return nil, common.Forbidden("only administrators can create top level folders")
		}
	} else {
		_, _, a, err := s.folderAccess(ctx, caller, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if !a.CanUpload {
			return nil, common.Forbidden("you cannot create folders here")
		}
	}

	creator := caller.UserID
	folder := &models.DataFolder{
		CompanyID: caller.CompanyID,
		ParentID:  req.ParentID,
		Name:      strings.TrimSpace(req.Name),
		Status:    models.StatusActive,
		CreatedBy: &creator,
	}
	if err := s.folders.Create(ctx, folder); err != nil {
		return nil, err
	}
	return folder, nil
}

func (s *dataBankService) RenameFolder(ctx context.Context, caller common.Identity, id uuid.UUID, name string) (*models.DataFolder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, common.NewFieldError("name", "name is required")
	}
	folder, _, a, err := s.folderAccess(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if !a.CanUpload {
		return nil, common.Forbidden("you cannot rename this folder")
	}
	if _, err := s.folders.Rename(ctx, caller.CompanyID, id, name); err != nil {
		return nil, err
	}
	folder.Name = name
	return folder, nil
}

func (s *dataBankService) MoveFolder(ctx context.Context, caller common.Identity, id uuid.UUID, parentID *uuid.UUID) (*models.DataFolder, error) {
	if !caller.IsAdmin {
		return nil, common.Forbidden("only administrators can move folders")
	}
	folder, folders, _, err := s.folderAccess(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if parentID != nil {
		if *parentID == id {
			return nil, common.NewFieldError("parent_id", "a folder cannot be its own parent")
		}
		for _, d := range tree.Descendants(folders, id, folderTreeOptions.ID, folderTreeOptions.Parent) {
			if d == *parentID {
				return nil, common.NewFieldError("parent_id", "a folder cannot move below its own descendant")
			}
		}
		found := false
		for _, f := range folders {
			if f.ID == *parentID {
				found = true
				break
			}
		}
		if !found {
			return nil, common.NewFieldError("parent_id", "parent folder not found")
		}
	}
	if _, err := s.folders.Move(ctx, caller.CompanyID, id, parentID); err != nil {
		return nil, err
	}
	folder.ParentID = parentID
	return folder, nil
}

func (s *dataBankService) DeleteFolder(ctx context.Context, caller common.Identity, id uuid.UUID) error {
	_, folders, a, err := s.folderAccess(ctx, caller, id)
	if err != nil {
		return err
	}
	if !a.CanDelete {
		return common.Forbidden("you cannot delete this folder")
	}

	ids := append([]uuid.UUID{id}, tree.Descendants(folders, id, folderTreeOptions.ID, folderTreeOptions.Parent)...)
	err = s.tx.InTx(ctx, func(tx database.DBTX) error {
		if _, err := s.folders.WithTx(tx).SoftDelete(ctx, caller.CompanyID, ids); err != nil {
			return err
		}
		_, err := s.files.WithTx(tx).SoftDeleteInFolders(ctx, caller.CompanyID, ids)
		return err
	})
	if err != nil {
		return err
	}
	s.logger.Info("folder deleted", zap.String("folder_id", id.String()), zap.Int("folders", len(ids)))
	return nil
}

func (s *dataBankService) Tree(ctx context.Context, caller common.Identity) ([]*models.FolderNode, error) {
	folders, err := s.folders.ListActive(ctx, caller.CompanyID)
	if err != nil {
		return nil, err
	}
	access, err := s.accessMap(ctx, caller, folders)
	if err != nil {
		return nil, err
	}
	return visibleNodes(tree.Build(folders, folderTreeOptions), access), nil
}

// visibleNodes keeps viewable folders and the ancestors leading to them.
func visibleNodes(nodes []*tree.Node[*models.DataFolder], access map[uuid.UUID]models.FolderAccess) []*models.FolderNode {
	out := make([]*models.FolderNode, 0, len(nodes))
	for _, n := range nodes {
		children := visibleNodes(n.Children, access)
		a := access[n.Item.ID]
		if !a.CanView && len(children) == 0 {
			continue
		}
		node := &models.FolderNode{
			ID:         n.Item.ID,
			ParentID:   n.Item.ParentID,
			Name:       n.Item.Name,
			Accessible: a.CanView,
			Children:   children,
		}
		if a.CanView {
			node.Access = a
		}
		out = append(out, node)
	}
	return out
}

func (s *dataBankService) SetPermission(ctx context.Context, caller common.Identity, folderID uuid.UUID, req *FolderPermissionRequest) (*models.FolderPermission, error) {
	if !caller.IsAdmin {
		return nil, common.Forbidden("only administrators can manage folder permissions")
	}
	if _, _, _, err := s.folderAccess(ctx, caller, folderID); err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, caller.CompanyID, req.UserID); err != nil {
		if database.IsNotFound(err) {
			return nil, common.NewFieldError("user_id", "user_id does not belong to this company")
		}
		return nil, err
	}

	perm := &models.FolderPermission{
		FolderID:  folderID,
		UserID:    req.UserID,
		CanView:   req.CanView || req.CanUpload || req.CanDelete,
		CanUpload: req.CanUpload,
		CanDelete: req.CanDelete,
	}
	if err := s.grants.Upsert(ctx, perm); err != nil {
		return nil, err
	}
	return perm, nil
}

func (s *dataBankService) ListPermissions(ctx context.Context, caller common.Identity, folderID uuid.UUID) ([]*models.FolderPermission, error) {
	if !caller.IsAdmin {
		return nil, common.Forbidden("only administrators can manage folder permissions")
	}
	if _, _, _, err := s.folderAccess(ctx, caller, folderID); err != nil {
		return nil, err
	}
	return s.grants.ListByFolder(ctx, folderID)
}

func (s *dataBankService) RemovePermission(ctx context.Context, caller common.Identity, folderID, userID uuid.UUID) error {
	if !caller.IsAdmin {
		return common.Forbidden("only administrators can manage folder permissions")
	}
	if _, _, _, err := s.folderAccess(ctx, caller, folderID); err != nil {
		return err
	}
	n, err := s.grants.Delete(ctx, folderID, userID)
	if err != nil {
		return err
	}
	if n == 0 {
		return common.NotFound("folder permission")
	}
	return nil
}

// cleanFileName strips any directory part a client sent with the name.
func cleanFileName(name string) string {
	name = strings.ReplaceAll(strings.TrimSpace(name), "\\", "/")
	name = path.Base(name)
	if name == "." || name == "/" {
		return ""
	}
	return name
}

func (s *dataBankService) Upload(ctx context.Context, caller common.Identity, folderID uuid.UUID, in *UploadInput) (*models.FileLog, error) {
	name := cleanFileName(in.FileName)
	if name == "" {
		return nil, common.NewFieldError("file", "file name is required")
	}
	_, _, a, err := s.folderAccess(ctx, caller, folderID)
	if err != nil {
		return nil, err
	}
	if !a.CanUpload {
		return nil, common.Forbidden("you cannot upload to this folder")
	}

	latest, err := s.files.LatestVersion(ctx, folderID, name)
	if err != nil {
		return nil, err
	}
	identifier := uuid.NewString()
	key := fmt.Sprintf("%s/%s/%s", caller.CompanyID, folderID, identifier)
	if err := s.storage.Put(ctx, key, in.Body, in.Size, in.ContentType); err != nil {
		return nil, fmt.Errorf("store file: %w", err)
	}

	uploader := caller.UserID
	file := &models.FileLog{
		CompanyID:   caller.CompanyID,
		FolderID:    folderID,
		Identifier:  identifier,
		FileName:    name,
		ContentType: in.ContentType,
		SizeBytes:   in.Size,
		Version:     latest + 1,
		ObjectKey:   key,
		UploadedBy:  &uploader,
		Status:      models.StatusActive,
	}
	if file.ContentType == "" {
		file.ContentType = "application/octet-stream"
	}
	if err := s.files.Create(ctx, file); err != nil {
		if rmErr := s.storage.Remove(ctx, key); rmErr != nil {
			s.logger.Warn("failed to remove orphaned object", zap.String("key", key), zap.Error(rmErr))
		}
		return nil, conflictOn(err, "another version of this file was uploaded at the same time, please retry")
	}

	s.logger.Info("file uploaded",
		zap.String("identifier", identifier),
		zap.String("file_name", name),
		zap.Int("version", file.Version),
	)
	return file, nil
}

func (s *dataBankService) ListFiles(ctx context.Context, caller common.Identity, folderID uuid.UUID) ([]*models.FileLog, error) {
	_, _, a, err := s.folderAccess(ctx, caller, folderID)
	if err != nil {
		return nil, err
	}
	if !a.CanView {
		return nil, common.Forbidden("you cannot view this folder")
	}
	return s.files.ListCurrent(ctx, folderID)
}

func (s *dataBankService) ListVersions(ctx context.Context, caller common.Identity, folderID uuid.UUID, fileName string) ([]*models.FileLog, error) {
	_, _, a, err := s.folderAccess(ctx, caller, folderID)
	if err != nil {
		return nil, err
	}
	if !a.CanView {
		return nil, common.Forbidden("you cannot view this folder")
	}
	return s.files.ListVersions(ctx, folderID, cleanFileName(fileName))
}

func (s *dataBankService) file(ctx context.Context, caller common.Identity, identifier string) (*models.FileLog, models.FolderAccess, error) {
	file, err := s.files.GetByIdentifier(ctx, caller.CompanyID, strings.TrimSpace(identifier))
	if err != nil {
		return nil, models.FolderAccess{}, notFound(err, "file")
	}
	_, _, a, err := s.folderAccess(ctx, caller, file.FolderID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, models.FolderAccess{}, common.NotFound("file")
		}
		return nil, models.FolderAccess{}, err
	}
	return file, a, nil
}

func (s *dataBankService) DeleteFile(ctx context.Context, caller common.Identity, identifier string) error {
	file, a, err := s.file(ctx, caller, identifier)
	if err != nil {
		return err
	}
	if !a.CanDelete {
		return common.Forbidden("you cannot delete files in this folder")
	}
	n, err := s.files.SoftDelete(ctx, caller.CompanyID, file.ID)
	if err != nil {
		return err
	}
	if n == 0 {
		return common.NotFound("file")
	}
	return nil
}

func (s *dataBankService) Download(ctx context.Context, caller common.Identity, identifier string) (*models.FileLog, io.ReadCloser, error) {
	file, a, err := s.file(ctx, caller, identifier)
	if err != nil {
		return nil, nil, err
	}
	if !a.CanView {
		return nil, nil, common.Forbidden("you cannot view this file")
	}
	body, info, err := s.storage.Get(ctx, file.ObjectKey)
	if err != nil {
		return nil, nil, fmt.Errorf("open stored file: %w", err)
	}
	if info.ContentType != "" && file.ContentType == "" {
		file.ContentType = info.ContentType
	}
	return file, body, nil
}
