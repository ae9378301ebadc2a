package middleware

import (
	"github.com/labstack/echo/v4"

	"godownhub/internal/common"
	"godownhub/internal/services"
)

type RBACMiddleware struct {
	rbacService services.RBACService
}

func NewRBACMiddleware(rbacService services.RBACService) *RBACMiddleware {
	return &RBACMiddleware{
		rbacService: rbacService,
	}
}

// RequirePermission lets the request through when the caller's role holds
// the module code. Administrators hold every code.
func (m *RBACMiddleware) RequirePermission(code string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := Identity(c)
			if !ok {
				return common.Unauthorized("authentication required")
			}

			hasPermission, err := m.rbacService.HasPermission(c.Request().Context(), id, code)
			if err != nil {
				return err
			}
			if !hasPermission {
				return common.Forbidden("you do not have access to %s", code)
			}

			return next(c)
		}
	}
}

// RequireAdmin lets only administrators through.
func (m *RBACMiddleware) RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := Identity(c)
			if !ok {
				return common.Unauthorized("authentication required")
			}
			if !id.IsAdmin {
				return common.Forbidden("administrator access required")
			}
			return next(c)
		}
	}
}
