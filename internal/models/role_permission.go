package models

import (
	"time"

	"github.com/google/uuid"
)

type Role struct {
	ID                 uuid.UUID `json:"id" db:"id"`
	CompanyID          uuid.UUID `json:"company_id" db:"company_id"`
	Name               string    `json:"name" db:"name"`
	Description        *string   `json:"description" db:"description"`
	IsAdmin            bool      `json:"is_admin" db:"is_admin"`
	PermissionsVersion int       `json:"permissions_version" db:"permissions_version"`
	Status             string    `json:"status" db:"status"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

// Module is a menu entry of the back office. Permissions are granted per module.
type Module struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	ParentID  *uuid.UUID `json:"parent_id" db:"parent_id"`
	Code      string     `json:"code" db:"code"`
	Name      string     `json:"name" db:"name"`
	Route     *string    `json:"route" db:"route"`
	SortOrder int        `json:"sort_order" db:"sort_order"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

type RolePermission struct {
	RoleID    uuid.UUID `json:"role_id" db:"role_id"`
	ModuleID  uuid.UUID `json:"module_id" db:"module_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// PermissionNode is one module in a role's permission tree.
type PermissionNode struct {
	ID        uuid.UUID         `json:"id"`
	ParentID  *uuid.UUID        `json:"parent_id,omitempty"`
	Code      string            `json:"code"`
	Name      string            `json:"name"`
	Route     *string           `json:"route,omitempty"`
	SortOrder int               `json:"sort_order"`
	Checked   bool              `json:"checked"`
	Children  []*PermissionNode `json:"children"`
}
