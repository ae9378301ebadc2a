package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	UserActive   = "active"
	UserDisabled = "disabled"
)

type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	CompanyID    uuid.UUID  `json:"company_id" db:"company_id"`
	RoleID       uuid.UUID  `json:"role_id" db:"role_id"`
	Name         string     `json:"name" db:"name"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"` // Never serialize in JSON
	Phone        *string    `json:"phone" db:"phone"`
	Designation  *string    `json:"designation" db:"designation"`
	Status       string     `json:"status" db:"status"`
	LastLoginAt  *time.Time `json:"last_login_at" db:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// UserFilter narrows user list queries.
type UserFilter struct {
	Status string     `query:"status"`
	RoleID *uuid.UUID `query:"-"`
}
