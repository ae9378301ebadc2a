package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	AllocationActive   = "active"
	AllocationReleased = "released"
)

type Godown struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	CompanyID     uuid.UUID       `json:"company_id" db:"company_id"`
	Name          string          `json:"name" db:"name"`
	Code          string          `json:"code" db:"code"`
	Location      *string         `json:"location" db:"location"`
	TotalCapacity decimal.Decimal `json:"total_capacity" db:"total_capacity"`
	CapacityUnit  string          `json:"capacity_unit" db:"capacity_unit"`
	Status        string          `json:"status" db:"status"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

// GodownOccupancy is the capacity picture of one godown.
type GodownOccupancy struct {
	GodownID         uuid.UUID       `json:"godown_id" db:"godown_id"`
	Name             string          `json:"name" db:"name"`
	TotalCapacity    decimal.Decimal `json:"total_capacity" db:"total_capacity"`
	AllocatedSpace   decimal.Decimal `json:"allocated_space" db:"allocated_space"`
	UtilizedSpace    decimal.Decimal `json:"utilized_space" db:"utilized_space"`
	FreeSpace        decimal.Decimal `json:"free_space" db:"-"`
	OccupancyPercent decimal.Decimal `json:"occupancy_percentage" db:"-"`
	ActiveAllocation int64           `json:"active_allocations" db:"active_allocations"`
}

// Fill derives the free space and occupancy percentage from the raw sums.
func (o *GodownOccupancy) Fill() {
	o.FreeSpace = o.TotalCapacity.Sub(o.AllocatedSpace)
	if o.FreeSpace.IsNegative() {
		o.FreeSpace = decimal.Zero
	}
	o.OccupancyPercent = Percentage(o.AllocatedSpace, o.TotalCapacity)
}

type SpaceAllocation struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	CompanyID      uuid.UUID       `json:"company_id" db:"company_id"`
	GodownID       uuid.UUID       `json:"godown_id" db:"godown_id"`
	OrganizationID uuid.UUID       `json:"organization_id" db:"organization_id"`
	AgreementID    *uuid.UUID      `json:"agreement_id" db:"agreement_id"`
	AllocatedSpace decimal.Decimal `json:"allocated_space" db:"allocated_space"`
	UtilizedSpace  decimal.Decimal `json:"utilized_space" db:"utilized_space"`
	MonthlyRent    decimal.Decimal `json:"monthly_rent" db:"monthly_rent"`
	ValidFrom      time.Time       `json:"valid_from" db:"valid_from"`
	ValidTo        *time.Time      `json:"valid_to" db:"valid_to"`
	Status         string          `json:"status" db:"status"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`

	UtilizationPercentage decimal.Decimal `json:"utilization_percentage" db:"-"`
}

// Utilization returns utilized / allocated x 100 rounded to two decimals, or
// zero when nothing is allocated.
func (a *SpaceAllocation) Utilization() decimal.Decimal {
	return Percentage(a.UtilizedSpace, a.AllocatedSpace)
}

// Percentage returns part / whole x 100 rounded half-up to two decimals.
func Percentage(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(decimal.NewFromInt(100)).Round(2)
}
