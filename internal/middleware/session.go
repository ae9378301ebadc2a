package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"godownhub/internal/common"
	"godownhub/internal/services"
)

const identityContextKey = "identity"

var errIdentityLookup = errors.New("identity lookup failed")

// externalClaims are the claims read from bearer tokens of the external
// identity provider. Only the email is used to find the user.
type externalClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Authenticator resolves the caller from the session cookie or, when a JWKS
// is configured, from a bearer token issued by the identity provider.
type Authenticator struct {
	sessions   *services.SessionManager
	auth       services.AuthService
	jwks       *keyfunc.JWKS
	cookieName string
	logger     *zap.Logger
}

func NewAuthenticator(sessions *services.SessionManager, auth services.AuthService, jwks *keyfunc.JWKS, cookieName string, logger *zap.Logger) *Authenticator {
	return &Authenticator{
		sessions:   sessions,
		auth:       auth,
		jwks:       jwks,
		cookieName: cookieName,
		logger:     logger,
	}
}

// Middleware rejects requests without a valid identity and stores the
// identity in the request context.
func (a *Authenticator) Middleware() echo.MiddlewareFunc {
	lookup := "cookie:" + a.cookieName
	if a.jwks != nil {
		lookup += ",header:" + echo.HeaderAuthorization + ":Bearer "
	}
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup:    lookup,
		ContextKey:     identityContextKey,
		ParseTokenFunc: a.parse,
		SuccessHandler: func(c echo.Context) {
			id := c.Get(identityContextKey).(common.Identity)
			c.SetRequest(c.Request().WithContext(common.WithIdentity(c.Request().Context(), id)))
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if errors.Is(err, common.ErrUnauthorized) {
				return err
			}
			if errors.Is(err, errIdentityLookup) {
				return echo.NewHTTPError(http.StatusInternalServerError).SetInternal(err)
			}
			return common.Unauthorized("authentication required")
		},
	})
}

func (a *Authenticator) parse(c echo.Context, raw string) (any, error) {
	ctx := c.Request().Context()

	claims, sessionErr := a.sessions.Open(raw)
	if sessionErr == nil {
		return a.resolve(a.auth.Authenticate(ctx, claims))
	}
	if a.jwks == nil || strings.Count(raw, ".") != 2 {
		return nil, sessionErr
	}

	ext := &externalClaims{}
	if _, err := jwt.ParseWithClaims(raw, ext, a.jwks.Keyfunc); err != nil {
		return nil, err
	}
	if ext.Email == "" {
		return nil, common.Unauthorized("token carries no email")
	}
	return a.resolve(a.auth.AuthenticateEmail(ctx, strings.ToLower(ext.Email)))
}

func (a *Authenticator) resolve(id common.Identity, err error) (any, error) {
	if err == nil {
		return id, nil
	}
	if errors.Is(err, common.ErrUnauthorized) {
		return nil, err
	}
	a.logger.Error("failed to resolve identity", zap.Error(err))
	return nil, fmt.Errorf("%w: %w", errIdentityLookup, err)
}

// Identity returns the caller stored by the authenticator.
func Identity(c echo.Context) (common.Identity, bool) {
	return common.IdentityFromContext(c.Request().Context())
}
