package common

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success bool              `json:"success"`
	Error   string            `json:"error,omitempty"`
	Details map[string]string `json:"details,omitempty"`
	Result  any               `json:"result,omitempty"`
}

// SendSuccess writes a successful envelope.
func SendSuccess(c echo.Context, status int, result any) error {
	return c.JSON(status, Envelope{Success: true, Result: result})
}

// SendError writes a failed envelope.
func SendError(c echo.Context, status int, message string) error {
	return c.JSON(status, Envelope{Success: false, Error: message})
}

// SendValidationError writes a failed envelope with per-field details.
func SendValidationError(c echo.Context, status int, err *ValidationError) error {
	return c.JSON(status, Envelope{Success: false, Error: err.Error(), Details: err.Fields})
}

// HTTPErrorHandler maps errors returned by handlers to envelopes. Anything
// that is not a known application error is logged and reported as a generic
// internal error.
func HTTPErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, message := http.StatusInternalServerError, "Internal Server Error"
		var (
			validationErr *ValidationError
			httpErr       *echo.HTTPError
		)
		switch {
		case errors.As(err, &validationErr):
			if sendErr := SendValidationError(c, http.StatusBadRequest, validationErr); sendErr != nil {
				logger.Error("failed to write error response", zap.Error(sendErr))
			}
			return
		case errors.Is(err, ErrNotFound):
			status, message = http.StatusNotFound, err.Error()
		case errors.Is(err, ErrForbidden):
			status, message = http.StatusForbidden, err.Error()
		case errors.Is(err, ErrConflict):
			status, message = http.StatusConflict, err.Error()
		case errors.Is(err, ErrUnauthorized):
			status, message = http.StatusUnauthorized, err.Error()
		case errors.As(err, &httpErr):
			status = httpErr.Code
			if status >= http.StatusInternalServerError {
				logger.Error("request failed", zap.Error(err), zap.String("path", c.Path()))
				break
			}
			message = fmt.Sprint(httpErr.Message)
		default:
			logger.Error("request failed",
				zap.Error(err),
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = SendError(c, status, message)
		}
		if err != nil {
			logger.Error("failed to write error response", zap.Error(err))
		}
	}
}
