package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	AgreementActive     = "active"
	AgreementExpired    = "expired"
	AgreementTerminated = "terminated"

	LicenseActive  = "active"
	LicenseExpired = "expired"
	LicenseRevoked = "revoked"
)

type Agreement struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	CompanyID       uuid.UUID       `json:"company_id" db:"company_id"`
	OrganizationID  uuid.UUID       `json:"organization_id" db:"organization_id"`
	AgreementNumber string          `json:"agreement_number" db:"agreement_number"`
	StartDate       time.Time       `json:"start_date" db:"start_date"`
	EndDate         time.Time       `json:"end_date" db:"end_date"`
	MonthlyRent     decimal.Decimal `json:"monthly_rent" db:"monthly_rent"`
	SecurityDeposit decimal.Decimal `json:"security_deposit" db:"security_deposit"`
	Notes           *string         `json:"notes" db:"notes"`
	Status          string          `json:"status" db:"status"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

type License struct {
	ID             uuid.UUID `json:"id" db:"id"`
	CompanyID      uuid.UUID `json:"company_id" db:"company_id"`
	OrganizationID uuid.UUID `json:"organization_id" db:"organization_id"`
	LicenseType    string    `json:"license_type" db:"license_type"`
	LicenseNumber  string    `json:"license_number" db:"license_number"`
	IssuedBy       *string   `json:"issued_by" db:"issued_by"`
	ValidFrom      time.Time `json:"valid_from" db:"valid_from"`
	ValidTo        time.Time `json:"valid_to" db:"valid_to"`
	Status         string    `json:"status" db:"status"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// ExpiringItem is one agreement or license whose validity window ends soon.
type ExpiringItem struct {
	Kind             string    `json:"kind" db:"kind"`
	ID               uuid.UUID `json:"id" db:"id"`
	OrganizationID   uuid.UUID `json:"organization_id" db:"organization_id"`
	OrganizationName string    `json:"organization_name" db:"organization_name"`
	Reference        string    `json:"reference" db:"reference"`
	EndsOn           time.Time `json:"ends_on" db:"ends_on"`
	DaysLeft         int       `json:"days_left" db:"-"`
}

// ValidityFilter narrows agreement and license list queries.
type ValidityFilter struct {
	OrganizationID *uuid.UUID `query:"-"`
	Status         string     `query:"status"`
	ExpiringWithin int        `query:"expiring_within"`
}
