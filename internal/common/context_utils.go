package common

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	CompanyIDKey contextKey = "company_id"
	RoleIDKey    contextKey = "role_id"
)

var gstinPattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)

// Identity is the authenticated caller attached to each request.
type Identity struct {
	UserID    uuid.UUID
	CompanyID uuid.UUID
	RoleID    uuid.UUID
	IsAdmin   bool

	// PermissionsVersion of the role when the request was authenticated.
	PermissionsVersion int
}

// WithIdentity stores the caller in ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, id.UserID)
	ctx = context.WithValue(ctx, CompanyIDKey, id.CompanyID)
	ctx = context.WithValue(ctx, RoleIDKey, id.RoleID)
	return context.WithValue(ctx, identityKey{}, id)
}

type identityKey struct{}

// IdentityFromContext returns the caller stored by WithIdentity.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// GetUserIDFromContext extracts the user ID from the request context
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// GetCompanyIDFromContext extracts the company ID from the request context
func GetCompanyIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	companyID, ok := ctx.Value(CompanyIDKey).(uuid.UUID)
	return companyID, ok
}

// ValidateUUID parses an id path or query parameter.
func ValidateUUID(idStr string, fieldName string) (uuid.UUID, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return uuid.Nil, NewValidationError(fmt.Sprintf("%s is required", fieldName))
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, NewValidationError(fmt.Sprintf("%s must be a valid UUID", fieldName))
	}
	return id, nil
}

// ValidateGSTIN validates GSTIN format. Empty is allowed.
func ValidateGSTIN(gstin, fieldName string) error {
	gstin = strings.TrimSpace(gstin)
	if gstin == "" {
		return nil
	}
	if len(gstin) != 15 {
		return NewFieldError(fieldName, fmt.Sprintf("%s must be exactly 15 characters", fieldName))
	}
	if !gstinPattern.MatchString(strings.ToUpper(gstin)) {
		return NewFieldError(fieldName, fmt.Sprintf("%s has invalid GSTIN format", fieldName))
	}
	return nil
}

// ParseDate parses a YYYY-MM-DD value.
func ParseDate(value, fieldName string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, NewFieldError(fieldName, fmt.Sprintf("%s must be in YYYY-MM-DD format", fieldName))
	}
	return t, nil
}

// ValidateDateRange checks that end does not precede start.
func ValidateDateRange(start, end time.Time, endField string) error {
	if end.Before(start) {
		return NewFieldError(endField, fmt.Sprintf("%s cannot be before the start date", endField))
	}
	return nil
}

// Today returns the current date at midnight UTC.
func Today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// TrimPtr trims a string pointer and returns nil for blank values.
func TrimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// SafeString safely handles string pointer operations
func SafeString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
