package middleware

import (
	"fmt"

	"taskboard/internal/apperrors"
	"taskboard/internal/common"
	"taskboard/internal/logging"
	"taskboard/internal/services"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

// ClaimsKey is the echo context key holding the validated *services.TokenClaims.
const ClaimsKey = "claims"

var errMissingToken = fmt.Errorf("missing or invalid access token: %w", apperrors.ErrUnauthorized)

// JWTConfig validates bearer access tokens with the auth service so that signing
// key, algorithm and issuer checks live in one place.
func JWTConfig(auth services.AuthService) echojwt.Config {
	return echojwt.Config{
		ContextKey: ClaimsKey,
		ParseTokenFunc: func(c echo.Context, raw string) (interface{}, error) {
			return auth.ValidateToken(c.Request().Context(), raw)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			logging.FromContext(c.Request().Context()).Debug().Err(err).Msg("access token rejected")
			return errMissingToken
		},
	}
}

// Authenticate turns validated claims into a principal on the request context.
// It must run after the echo-jwt middleware built from JWTConfig.
func Authenticate(auth services.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := ClaimsFromContext(c)
			if !ok {
				return errMissingToken
			}

			ctx := c.Request().Context()
			principal, err := auth.PrincipalFromClaims(ctx, claims)
			if err != nil {
				return err
			}

			ctx = common.WithPrincipal(ctx, principal)
			logger := logging.FromContext(ctx).With().
				Str("user_id", principal.UserID.String()).
				Str("customer_id", principal.CustomerID.String()).
				Logger()
			ctx = logging.WithContext(ctx, logger)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

func ClaimsFromContext(c echo.Context) (*services.TokenClaims, bool) {
	claims, ok := c.Get(ClaimsKey).(*services.TokenClaims)
	return claims, ok && claims != nil
}

// PrincipalFrom returns the authenticated principal or an unauthorized error.
func PrincipalFrom(c echo.Context) (*common.Principal, error) {
	principal, ok := common.PrincipalFromContext(c.Request().Context())
	if !ok {
		return nil, errMissingToken
	}
	return principal, nil
}
