package models

import (
	"time"

	"github.com/google/uuid"
)

type DataFolder struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	CompanyID uuid.UUID  `json:"company_id" db:"company_id"`
	ParentID  *uuid.UUID `json:"parent_id" db:"parent_id"`
	Name      string     `json:"name" db:"name"`
	Status    string     `json:"status" db:"status"`
	CreatedBy *uuid.UUID `json:"created_by" db:"created_by"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

type FolderPermission struct {
	ID        uuid.UUID `json:"id" db:"id"`
	FolderID  uuid.UUID `json:"folder_id" db:"folder_id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	CanView   bool      `json:"can_view" db:"can_view"`
	CanUpload bool      `json:"can_upload" db:"can_upload"`
	CanDelete bool      `json:"can_delete" db:"can_delete"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// FolderAccess is the effective permission a user holds on a folder.
type FolderAccess struct {
	CanView   bool `json:"can_view"`
	CanUpload bool `json:"can_upload"`
	CanDelete bool `json:"can_delete"`
}

// FullAccess is what admins hold on every folder.
var FullAccess = FolderAccess{CanView: true, CanUpload: true, CanDelete: true}

// FileLog is one stored version of a data-bank file.
type FileLog struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	CompanyID   uuid.UUID  `json:"company_id" db:"company_id"`
	FolderID    uuid.UUID  `json:"folder_id" db:"folder_id"`
	Identifier  string     `json:"identifier" db:"identifier"`
	FileName    string     `json:"file_name" db:"file_name"`
	ContentType string     `json:"content_type" db:"content_type"`
	SizeBytes   int64      `json:"size_bytes" db:"size_bytes"`
	Version     int        `json:"version" db:"version"`
	ObjectKey   string     `json:"-" db:"object_key"`
	UploadedBy  *uuid.UUID `json:"uploaded_by" db:"uploaded_by"`
	Status      string     `json:"status" db:"status"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// FolderNode is one folder in the data-bank tree. Accessible is false for
// ancestors kept only so a visible descendant stays reachable.
type FolderNode struct {
	ID         uuid.UUID     `json:"id"`
	ParentID   *uuid.UUID    `json:"parent_id,omitempty"`
	Name       string        `json:"name"`
	Accessible bool          `json:"accessible"`
	Access     FolderAccess  `json:"access"`
	Children   []*FolderNode `json:"children"`
}
