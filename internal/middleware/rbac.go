package middleware

import (
	"net/http"

	"taskboard/internal/common"
	"taskboard/internal/logging"
	"taskboard/internal/services"

	"github.com/labstack/echo/v4"
)

type AccessMiddleware struct {
	access services.AccessService
}

func NewAccessMiddleware(access services.AccessService) *AccessMiddleware {
	return &AccessMiddleware{
		access: access,
	}
}

// RequireAdmin admits super_admin and admin principals.
func (m *AccessMiddleware) RequireAdmin() echo.MiddlewareFunc {
	return m.require(func(p *common.Principal) bool { return p.IsAdmin() })
}

func (m *AccessMiddleware) RequireSuperAdmin() echo.MiddlewareFunc {
	return m.require(func(p *common.Principal) bool { return p.IsSuperAdmin() })
}

func (m *AccessMiddleware) require(allowed func(*common.Principal) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := common.PrincipalFromContext(c.Request().Context())
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
			}
			if !allowed(principal) {
				return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
			}
			return next(c)
		}
	}
}

// RequireCred admits principals granted code through a profile at any of their
// locations. Admins always pass.
func (m *AccessMiddleware) RequireCred(code string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			principal, ok := common.PrincipalFromContext(ctx)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
			}

			hasCred, err := m.access.HasCred(ctx, principal, code, nil)
			if err != nil {
				logging.FromContext(ctx).Error().Err(err).Str("cred", code).Msg("cred check failed")
				return echo.NewHTTPError(http.StatusInternalServerError, "Error checking permission")
			}
			if !hasCred {
				return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
			}

			return next(c)
		}
	}
}
