package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"taskboard/internal/apperrors"
	"taskboard/internal/caching"
	"taskboard/internal/common"
	"taskboard/internal/logging"
	"taskboard/internal/models"
	"taskboard/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthService handles password login and the access/refresh token lifecycle.
type AuthService interface {
	Login(ctx context.Context, customer *models.Customer, req *LoginRequest) (*models.TokenResponse, error)
	IssueTokens(ctx context.Context, user *models.User) (*models.TokenResponse, error)
	Refresh(ctx context.Context, req *RefreshRequest) (*models.TokenResponse, error)
	Logout(ctx context.Context, principal *common.Principal, expiresAt time.Time, refreshToken string) error
	ValidateToken(ctx context.Context, token string) (*TokenClaims, error)
	PrincipalFromClaims(ctx context.Context, claims *TokenClaims) (*common.Principal, error)
}

type LoginRequest struct {
	LoginName string `json:"loginName"`
	Password  string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
	GrantType    string `json:"grantType"`
}

// TokenClaims are the claims of an access token. Subject is the user id, ID the token id.
type TokenClaims struct {
	CustomerID string `json:"customerID"`
	UserType   string `json:"userType"`
	jwt.RegisteredClaims
}

type AuthConfig struct {
	JWTSecret  string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type authService struct {
	users    repositories.UserRepository
	cacheSvc caching.CacheService
	cfg      AuthConfig
	now      func() time.Time
}

func NewAuthService(users repositories.UserRepository, cacheSvc caching.CacheService, cfg AuthConfig) AuthService {
	return &authService{users: users, cacheSvc: cacheSvc, cfg: cfg, now: time.Now}
}

var errInvalidCredentials = fmt.Errorf("invalid login name or password: %w", apperrors.ErrUnauthorized)

func (s *authService) Login(ctx context.Context, customer *models.Customer, req *LoginRequest) (*models.TokenResponse, error) {
	log := logging.FromContext(ctx)

	if strings.TrimSpace(req.LoginName) == "" || req.Password == "" {
		v := &apperrors.ValidationError{}
		if strings.TrimSpace(req.LoginName) == "" {
			v.Add("loginName", "loginName is required")
		}
		if req.Password == "" {
			v.Add("password", "password is required")
		}
		return nil, v
	}

	user, err := s.users.GetByLoginName(ctx, customer.ID, strings.TrimSpace(req.LoginName))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			log.Info().Str("customer_id", customer.ID.String()).Msg("login failed: unknown login name")
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if !checkPassword(user.PasswordHash, user.Salt, req.Password) {
		log.Info().Str("user_id", user.ID.String()).Msg("login failed: bad password")
		return nil, errInvalidCredentials
	}
	if !user.CanLogin() {
		log.Info().Str("user_id", user.ID.String()).Msg("login failed: account inactive or not approved")
		return nil, errInvalidCredentials
	}

	return s.IssueTokens(ctx, user)
}

// IssueTokens signs a new access token and stores a new refresh token for user.
func (s *authService) IssueTokens(ctx context.Context, user *models.User) (*models.TokenResponse, error) {
	now := s.now()
	tokenID := uuid.NewString()

	claims := TokenClaims{
		CustomerID: user.CustomerID.String(),
		UserType:   user.UserType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        tokenID,
		},
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign JWT: %w", err)
	}

	refreshToken, err := generateSecureToken()
	if err != nil {
		return nil, err
	}
	record := models.RefreshRecord{
		UserID:     user.ID.String(),
		CustomerID: user.CustomerID.String(),
		ExpiresAt:  now.Add(s.cfg.RefreshTTL),
	}
	if err := s.cacheSvc.SetJSON(ctx, caching.RefreshTokenKey(hashToken(refreshToken)), record, s.cfg.RefreshTTL); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &models.TokenResponse{
		AccessToken:  accessToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.cfg.AccessTTL.Seconds()),
		RefreshToken: refreshToken,
		TokenID:      tokenID,
		IssuedAt:     now,
		User:         user,
	}, nil
}

// Refresh rotates a refresh token: the presented token is consumed and a new pair is issued.
func (s *authService) Refresh(ctx context.Context, req *RefreshRequest) (*models.TokenResponse, error) {
	if req.GrantType != "" && req.GrantType != "refresh_token" {
		return nil, apperrors.Invalid("grantType", "grantType must be refresh_token")
	}
	if req.RefreshToken == "" {
		return nil, apperrors.Invalid("refreshToken", "refreshToken is required")
	}

	key := caching.RefreshTokenKey(hashToken(req.RefreshToken))
	var record models.RefreshRecord
	if err := s.cacheSvc.TakeJSON(ctx, key, &record); err != nil {
		if errors.Is(err, caching.ErrMiss) {
			return nil, fmt.Errorf("invalid refresh token: %w", apperrors.ErrUnauthorized)
		}
		return nil, err
	}
	if s.now().After(record.ExpiresAt) {
		return nil, fmt.Errorf("refresh token expired: %w", apperrors.ErrUnauthorized)
	}

	userID, err := uuid.Parse(record.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", apperrors.ErrUnauthorized)
	}
	customerID, err := uuid.Parse(record.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", apperrors.ErrUnauthorized)
	}

	user, err := s.users.GetByID(ctx, customerID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("user no longer exists: %w", apperrors.ErrUnauthorized)
		}
		return nil, err
	}
	if !user.CanLogin() {
		return nil, fmt.Errorf("account disabled: %w", apperrors.ErrUnauthorized)
	}
	return s.IssueTokens(ctx, user)
}

// Logout revokes the current access token until it expires, and the refresh token when given.
func (s *authService) Logout(ctx context.Context, principal *common.Principal, expiresAt time.Time, refreshToken string) error {
	if ttl := expiresAt.Sub(s.now()); ttl > 0 && principal.TokenID != "" {
		if err := s.cacheSvc.SetString(ctx, caching.RevokedTokenKey(principal.TokenID), "revoked", ttl); err != nil {
			return fmt.Errorf("revoke access token: %w", err)
		}
	}
	if refreshToken != "" {
		if err := s.cacheSvc.Delete(ctx, caching.RefreshTokenKey(hashToken(refreshToken))); err != nil {
			return fmt.Errorf("revoke refresh token: %w", err)
		}
	}
	return nil
}

// ValidateToken parses and verifies an HS256 access token.
func (s *authService) ValidateToken(ctx context.Context, token string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(s.cfg.Issuer))
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %v: %w", err, apperrors.ErrUnauthorized)
	}
	return claims, nil
}

// PrincipalFromClaims rejects revoked tokens and decodes the caller identity.
func (s *authService) PrincipalFromClaims(ctx context.Context, claims *TokenClaims) (*common.Principal, error) {
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("invalid subject: %w", apperrors.ErrUnauthorized)
	}
	customerID, err := uuid.Parse(claims.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("invalid customer: %w", apperrors.ErrUnauthorized)
	}

	revoked, err := s.cacheSvc.Exists(ctx, caching.RevokedTokenKey(claims.ID))
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, fmt.Errorf("token revoked: %w", apperrors.ErrUnauthorized)
	}

	return &common.Principal{
		UserID:     userID,
		CustomerID: customerID,
		UserType:   claims.UserType,
		TokenID:    claims.ID,
	}, nil
}

// generateSecureToken generates a cryptographically secure random token
func generateSecureToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// hashToken creates a SHA-256 hash of the token for storage
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
