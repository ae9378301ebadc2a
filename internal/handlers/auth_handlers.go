package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"godownhub/internal/common"
	"godownhub/internal/config"
	"godownhub/internal/services"
)

// AuthHandlers handles login, logout and the caller's own account
type AuthHandlers struct {
	authService services.AuthService
	session     config.SessionConfig
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(authService services.AuthService, session config.SessionConfig) *AuthHandlers {
	return &AuthHandlers{authService: authService, session: session}
}

func (h *AuthHandlers) cookie(value string, expires time.Time) *http.Cookie {
	cookie := &http.Cookie{
		Name:     h.session.CookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.session.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if value == "" {
		cookie.MaxAge = -1
	}
	return cookie
}

// Login godoc
//
//	@Summary	Sign in with email and password
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		services.LoginRequest	true	"Credentials"
//	@Success	200		{object}	common.Envelope
//	@Failure	401		{object}	common.Envelope
//	@Router		/auth/login [post]
func (h *AuthHandlers) Login(c echo.Context) error {
	var req services.LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	result, err := h.authService.Login(c.Request().Context(), &req)
	if err != nil {
		return err
	}

	c.SetCookie(h.cookie(result.Token, result.ExpiresAt))
	return common.SendSuccess(c, http.StatusOK, result)
}

// Logout clears the session cookie. It succeeds without a session too.
func (h *AuthHandlers) Logout(c echo.Context) error {
	c.SetCookie(h.cookie("", time.Unix(0, 0)))
	return common.SendSuccess(c, http.StatusOK, map[string]string{"message": "Logged out"})
}

// Me godoc
//
//	@Summary	Current user with role and permission codes
//	@Tags		auth
//	@Produce	json
//	@Success	200	{object}	common.Envelope
//	@Router		/auth/me [get]
func (h *AuthHandlers) Me(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	me, err := h.authService.Me(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return common.SendSuccess(c, http.StatusOK, me)
}

func (h *AuthHandlers) ChangePassword(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	var req services.ChangePasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.authService.ChangePassword(c.Request().Context(), id, &req); err != nil {
		return err
	}
	return common.SendSuccess(c, http.StatusOK, map[string]string{"message": "Password changed"})
}
