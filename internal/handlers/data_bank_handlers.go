package handlers

import (
	"mime"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"godownhub/internal/common"
	"godownhub/internal/services"
)

const maxUploadBytes = 50 << 20

// DataBankHandlers handles the folder tree, files and folder grants
type DataBankHandlers struct {
	dataBankService services.DataBankService
}

func NewDataBankHandlers(dataBankService services.DataBankService) *DataBankHandlers {
	return &DataBankHandlers{dataBankService: dataBankService}
}

type RenameFolderRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

type MoveFolderRequest struct {
	ParentID *uuid.UUID `json:"parent_id"`
}

// FolderTree godoc
//
//	@Summary		Folders visible to the caller
//	@Description	Ancestors of visible folders are included with accessible=false so the tree stays connected.
//	@Tags			data-bank
//	@Produce		json
//	@Success		200	{object}	common.Envelope
//	@Router			/folders/tree [get]
func (h *DataBankHandlers) FolderTree(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	nodes, err := h.dataBankService.Tree(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return common.SendSuccess(c, http.StatusOK, nodes)
}

func (h *DataBankHandlers) CreateFolder(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	var req services.FolderRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	folder, err := h.dataBankService.CreateFolder(c.Request().Context(), id, &req)
	if err != nil {
		return err
	}
	return common.SendSuccess(c, http.StatusCreated, folder)
}

func (h *DataBankHandlers) RenameFolder(c echo.Context) error {
	id, target, err := scoped(c, "id")
	if err != nil {
		return err
	}
	var req RenameFolderRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	folder, err := h.dataBankService.RenameFolder(c.Request().Context(), id, target, req.Name)
	if err != nil {
		return err
	}
	return common.SendSuccess(c, http.StatusOK, folder)
}

func (h *DataBankHandlers) MoveFolder(c echo.Context) error {
	id, target, err := scoped(c, "id")
	if err != nil {
		return err
	}
	var req MoveFolderRequest
	if err := c.Bind(&req); err != nil {
		return common.NewValidationError("Invalid request format")
	}
	folder, err := h.dataBankService.MoveFolder(c.Request().Context(), id, target, req.ParentID)
	if err != nil {
		return err
	}
	return common.SendSuccess(c, http.StatusOK, folder)
}

func (h *DataBankHandlers) DeleteFolder(c echo.Context) error {
	id, target, err := scoped(c, "id")
	if err != nil {
		return err
	}
	if err := h.dataBankService.DeleteFolder(c.Request().Context(), id, target); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *DataBankHandlers) FolderAccess(c echo.Context) error {
	id, target, err := scoped(c, "id")
	if err != nil {
		return err
	}
	access, err := h.dataBankService.Access(c.Request().Context(), id, target)
	if err != nil {
		return err
	}
	return common.SendSuccess(c, http.StatusOK, access)
}

func (h *DataBankHandlers) ListPermissions(c echo.Context) error {
	id, target, err := scoped(c, "id")
	if err != nil {
		return err
	}
	perms, err := h.dataBankService.ListPermissions(c.Request().Context(), id, target)
	if err != nil {
		return err
	}
	return common.SendSuccess(c, http.StatusOK, perms)
}

func (h *DataBankHandlers) SetPermission(c echo.Context) error {
	id, target, err := scoped(c, "id")
	if err != nil {
		return err
	}
	var req services.FolderPermissionRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	perm, err := h.dataBankService.SetPermission(c.Request().Context(), id, target, &req)
	if err != nil {
		return err
	}
	return common.SendSuccess(c, http.StatusOK, perm)
}

func (h *DataBankHandlers) RemovePermission(c echo.Context) error {
	id, target, err := scoped(c, "id")
	if err != nil {
		return err
	}
	userID, err := pathID(c, "userId")
	if err != nil {
		return err
	}
	if err := h.dataBankService.RemovePermission(c.Request().Context(), id, target, userID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *DataBankHandlers) ListFiles(c echo.Context) error {
	id, target, err := scoped(c, "id")
	if err != nil {
		return err
	}
	files, err := h.dataBankService.ListFiles(c.Request().Context(), id, target)
	if err != nil {
		return err
	}
	return common.SendSuccess(c, http.StatusOK, files)
}

func (h *DataBankHandlers) ListVersions(c echo.Context) error {
	id, target, err := scoped(c, "id")
	if err != nil {
		return err
	}
	name := c.QueryParam("name")
	if name == "" {
		return common.NewFieldError("name", "name is required")
	}
	files, err := h.dataBankService.ListVersions(c.Request().Context(), id, target, name)
	if err != nil {
		return err
	}
	return common.SendSuccess(c, http.StatusOK, files)
}

// UploadFile godoc
//
//	@Summary	Upload a file into a folder
//	@Tags		data-bank
//	@Accept		multipart/form-data
//	@Produce	json
//	@Param		id		path		string	true	"Folder ID"
//	@Param		file	formData	file	true	"File"
//	@Success	201		{object}	common.Envelope
//	@Failure	403		{object}	common.Envelope
//	@Router		/folders/{id}/files [post]
func (h *DataBankHandlers) UploadFile(c echo.Context) error {
	id, target, err := scoped(c, "id")
	if err != nil {
		return err
	}
	c.Request().Body = http.MaxBytesReader(c.Response(), c.Request().Body, maxUploadBytes)
	header, err := c.FormFile("file")
	if err != nil {
		return common.NewFieldError("file", "file is required and must be at most 50 MB")
	}
	src, err := header.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	file, err := h.dataBankService.Upload(c.Request().Context(), id, target, &services.UploadInput{
		FileName:    header.Filename,
		ContentType: header.Header.Get(echo.HeaderContentType),
		Size:        header.Size,
		Body:        src,
	})
	if err != nil {
		return err
	}
	return common.SendSuccess(c, http.StatusCreated, file)
}

func (h *DataBankHandlers) DeleteFile(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.dataBankService.DeleteFile(c.Request().Context(), id, c.Param("identifier")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DownloadFile streams a stored file with its original name.
func (h *DataBankHandlers) DownloadFile(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	file, body, err := h.dataBankService.Download(c.Request().Context(), id, c.Param("identifier"))
	if err != nil {
		return err
	}
	defer body.Close()

	header := c.Response().Header()
	header.Set(echo.HeaderContentDisposition, mime.FormatMediaType("attachment", map[string]string{"filename": file.FileName}))
	if file.SizeBytes > 0 {
		header.Set(echo.HeaderContentLength, strconv.FormatInt(file.SizeBytes, 10))
	}
	return c.Stream(http.StatusOK, file.ContentType, body)
}
