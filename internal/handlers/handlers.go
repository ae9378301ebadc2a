package handlers

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"godownhub/internal/common"
	"godownhub/internal/middleware"
	"godownhub/pkg/database"
)

// bind decodes the request into req and runs the validator on it.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return common.NewValidationError("Invalid request format")
	}
	return c.Validate(req)
}

func caller(c echo.Context) (common.Identity, error) {
	id, ok := middleware.Identity(c)
	if !ok {
		return common.Identity{}, common.Unauthorized("authentication required")
	}
	return id, nil
}

func pathID(c echo.Context, name string) (uuid.UUID, error) {
	return common.ValidateUUID(c.Param(name), name)
}

// optionalID parses an optional uuid query parameter.
func optionalID(c echo.Context, name string) (*uuid.UUID, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	id, err := common.ValidateUUID(raw, name)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func listParams(c echo.Context) (database.ListParams, error) {
	var p database.ListParams
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &p); err != nil {
		return p, common.NewValidationError("Invalid query parameters")
	}
	return p, nil
}

// scoped returns the caller and a path id in one step.
func scoped(c echo.Context, name string) (common.Identity, uuid.UUID, error) {
	id, err := caller(c)
	if err != nil {
		return id, uuid.Nil, err
	}
	target, err := pathID(c, name)
	return id, target, err
}
