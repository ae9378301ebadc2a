package models

import "github.com/google/uuid"

// AllocationFilter narrows allocation list queries.
type AllocationFilter struct {
	GodownID       *uuid.UUID `query:"-"`
	OrganizationID *uuid.UUID `query:"-"`
	Status         string     `query:"status"`
}
