package handlers

import (
	"net/http"
	"time"

	"taskboard/internal/middleware"
	"taskboard/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandlers handles login, token refresh, logout, SSO and the current user.
type AuthHandlers struct {
	authService services.AuthService
	ssoService  services.SSOService
	userService services.UserService
}

func NewAuthHandlers(authService services.AuthService, ssoService services.SSOService, userService services.UserService) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
		ssoService:  ssoService,
		userService: userService,
	}
}

// Login handles POST /auth/login. The tenant comes from ResolveTenant.
func (h *AuthHandlers) Login(c echo.Context) error {
	customer, err := middleware.CustomerFrom(c)
	if err != nil {
		return err
	}

	var req services.LoginRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	tokens, err := h.authService.Login(c.Request().Context(), customer, &req)
	if err != nil {
		return err
	}
	return ok(c, tokens)
}

// Refresh handles POST /auth/refresh
func (h *AuthHandlers) Refresh(c echo.Context) error {
	var req services.RefreshRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	tokens, err := h.authService.Refresh(c.Request().Context(), &req)
	if err != nil {
		return err
	}
	return ok(c, tokens)
}

type logoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Logout revokes the presented access token and, when given, a refresh token.
func (h *AuthHandlers) Logout(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}

	var req logoutRequest
	if c.Request().ContentLength != 0 {
		if err := bindJSON(c, &req); err != nil {
			return err
		}
	}

	var expiresAt time.Time
	if claims, ok := middleware.ClaimsFromContext(c); ok && claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	if err := h.authService.Logout(c.Request().Context(), principal, expiresAt, req.RefreshToken); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// SSORedirect sends the browser to the identity provider of the resolved tenant.
func (h *AuthHandlers) SSORedirect(c echo.Context) error {
	customer, err := middleware.CustomerFrom(c)
	if err != nil {
		return err
	}

	url, err := h.ssoService.RedirectURL(c.Request().Context(), customer, c.Param("provider"))
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, url)
}

// SSOCallback completes the authorization code flow and returns tokens.
func (h *AuthHandlers) SSOCallback(c echo.Context) error {
	tokens, err := h.ssoService.Callback(
		c.Request().Context(),
		c.Param("provider"),
		c.QueryParam("code"),
		c.QueryParam("state"),
	)
	if err != nil {
		return err
	}
	return ok(c, tokens)
}

// Me returns the current user with the ids of the locations they can see.
func (h *AuthHandlers) Me(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}

	me, err := h.userService.Me(c.Request().Context(), principal)
	if err != nil {
		return err
	}
	return ok(c, me)
}
