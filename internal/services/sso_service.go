package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"taskboard/internal/apperrors"
	"taskboard/internal/caching"
	"taskboard/internal/logging"
	"taskboard/internal/models"
	"taskboard/internal/repositories"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"
)

const ssoStateTTL = 5 * time.Minute

// IdentityProvider is one configured external login (Azure AD or Okta) of a customer.
type IdentityProvider interface {
	AuthCodeURL(state, nonce string) string
	// Exchange trades an authorization code for the verified email of the signed-in account.
	Exchange(ctx context.Context, code, nonce string) (string, error)
}

// ProviderFactory builds the IdentityProvider for a stored SocialiteClient.
type ProviderFactory func(client *models.SocialiteClient, redirectURL string) (IdentityProvider, error)

type SSOService interface {
	RedirectURL(ctx context.Context, customer *models.Customer, provider string) (string, error)
	Callback(ctx context.Context, provider, code, state string) (*models.TokenResponse, error)
	Close()
}

type SSOConfig struct {
	// CallbackBase is the public base URL the provider redirects back to, e.g. https://api.example.com.
	CallbackBase string
}

type ssoService struct {
	clients   repositories.SocialiteClientRepository
	users     repositories.UserRepository
	auth      AuthService
	cacheSvc  caching.CacheService
	cfg       SSOConfig
	providers ProviderFactory
	jwks      *jwksRegistry
}

func NewSSOService(clients repositories.SocialiteClientRepository, users repositories.UserRepository, auth AuthService, cacheSvc caching.CacheService, cfg SSOConfig) SSOService {
	registry := &jwksRegistry{sets: make(map[string]*keyfunc.JWKS)}
	return &ssoService{
		clients:  clients,
		users:    users,
		auth:     auth,
		cacheSvc: cacheSvc,
		cfg:      cfg,
		jwks:     registry,
		providers: func(client *models.SocialiteClient, redirectURL string) (IdentityProvider, error) {
			return newOIDCProvider(client, redirectURL, registry)
		},
	}
}

func (s *ssoService) callbackURL(client *models.SocialiteClient) string {
	if client.RedirectURL != "" {
		return client.RedirectURL
	}
	return strings.TrimRight(s.cfg.CallbackBase, "/") + "/v1/auth/sso/" + client.Provider + "/callback"
}

func (s *ssoService) provider(ctx context.Context, customerID uuid.UUID, name string) (IdentityProvider, error) {
	if name != models.ProviderAzure && name != models.ProviderOkta {
		return nil, apperrors.NotFound("sso provider")
	}
	client, err := s.clients.GetActiveByProvider(ctx, customerID, name)
	if err != nil {
		return nil, err
	}
	return s.providers(client, s.callbackURL(client))
}

// RedirectURL stores a one-time state bound to the customer and returns the provider authorize URL.
func (s *ssoService) RedirectURL(ctx context.Context, customer *models.Customer, provider string) (string, error) {
	idp, err := s.provider(ctx, customer.ID, provider)
	if err != nil {
		return "", err
	}
	state, err := generateSecureToken()
	if err != nil {
		return "", err
	}
	nonce, err := generateSecureToken()
	if err != nil {
		return "", err
	}
	record := models.SSOState{CustomerID: customer.ID.String(), Provider: provider, Nonce: nonce}
	if err := s.cacheSvc.SetJSON(ctx, caching.SSOStateKey(state), record, ssoStateTTL); err != nil {
		return "", fmt.Errorf("store sso state: %w", err)
	}
	return idp.AuthCodeURL(state, nonce), nil
}

func (s *ssoService) Callback(ctx context.Context, provider, code, state string) (*models.TokenResponse, error) {
	log := logging.FromContext(ctx)
	if code == "" || state == "" {
		return nil, fmt.Errorf("code and state are required: %w", apperrors.ErrBadRequest)
	}

	var record models.SSOState
	key := caching.SSOStateKey(state)
	if err := s.cacheSvc.TakeJSON(ctx, key, &record); err != nil {
		if errors.Is(err, caching.ErrMiss) {
			return nil, fmt.Errorf("unknown or expired sso state: %w", apperrors.ErrBadRequest)
		}
		return nil, err
	}
	if record.Provider != provider {
		return nil, fmt.Errorf("sso state was issued for another provider: %w", apperrors.ErrBadRequest)
	}
	customerID, err := uuid.Parse(record.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("corrupt sso state: %w", apperrors.ErrBadRequest)
	}

	idp, err := s.provider(ctx, customerID, provider)
	if err != nil {
		return nil, err
	}
	email, err := idp.Exchange(ctx, code, record.Nonce)
	if err != nil {
		log.Warn().Err(err).Str("provider", provider).Str("customer_id", customerID.String()).Msg("sso exchange failed")
		return nil, fmt.Errorf("sso login failed: %w", apperrors.ErrUnauthorized)
	}

	user, err := s.users.GetByEmail(ctx, customerID, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			log.Info().Str("provider", provider).Msg("sso login for unknown user")
			return nil, apperrors.Forbidden("no active account matches the identity provider login")
		}
		if errors.Is(err, apperrors.ErrConflict) {
			log.Warn().Str("provider", provider).Str("customer_id", customerID.String()).Msg("sso email shared by several accounts")
			return nil, apperrors.Forbidden("the identity provider login matches more than one account")
		}
		return nil, err
	}
	if !user.CanLogin() {
		log.Info().Str("user_id", user.ID.String()).Msg("sso login for inactive user")
		return nil, apperrors.Forbidden("no active account matches the identity provider login")
	}
	return s.auth.IssueTokens(ctx, user)
}

func (s *ssoService) Close() {
	s.jwks.close()
}

// jwksRegistry shares one refreshing key set per JWKS URL.
type jwksRegistry struct {
	mu   sync.Mutex
	sets map[string]*keyfunc.JWKS
}

func (r *jwksRegistry) get(url string) (*keyfunc.JWKS, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if set, ok := r.sets[url]; ok {
		return set, nil
	}
	set, err := keyfunc.Get(url, keyfunc.Options{
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			logging.FromContext(context.Background()).Warn().Err(err).Str("jwks_url", url).Msg("jwks refresh failed")
		},
	})
	if err != nil {
		return nil, fmt.Errorf("load jwks %s: %w", url, err)
	}
	r.sets[url] = set
	return set, nil
}

func (r *jwksRegistry) close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for url, set := range r.sets {
		set.EndBackground()
		delete(r.sets, url)
	}
}

type oidcProvider struct {
	oauth    *oauth2.Config
	issuer   string
	jwksURL  string
	registry *jwksRegistry
	keyfunc  jwt.Keyfunc
}

func newOIDCProvider(client *models.SocialiteClient, redirectURL string, registry *jwksRegistry) (*oidcProvider, error) {
	p := &oidcProvider{
		oauth: &oauth2.Config{
			ClientID:     client.ClientID,
			ClientSecret: client.ClientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
		},
		registry: registry,
	}
	switch client.Provider {
	case models.ProviderAzure:
		tenant := client.TenantRef
		p.oauth.Endpoint = microsoft.AzureADEndpoint(tenant)
		p.issuer = "https://login.microsoftonline.com/" + tenant + "/v2.0"
		p.jwksURL = "https://login.microsoftonline.com/" + tenant + "/discovery/v2.0/keys"
	case models.ProviderOkta:
		base := strings.TrimRight(client.TenantRef, "/") + "/oauth2/default"
		p.oauth.Endpoint = oauth2.Endpoint{
			AuthURL:  base + "/v1/authorize",
			TokenURL: base + "/v1/token",
		}
		p.issuer = base
		p.jwksURL = base + "/v1/keys"
	default:
		return nil, apperrors.NotFound("sso provider")
	}
	return p, nil
}

func (p *oidcProvider) AuthCodeURL(state, nonce string) string {
	return p.oauth.AuthCodeURL(state, oauth2.SetAuthURLParam("nonce", nonce))
}

func (p *oidcProvider) Exchange(ctx context.Context, code, nonce string) (string, error) {
	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("exchange code: %w", err)
	}
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return "", errors.New("token response has no id_token")
	}
	if p.keyfunc == nil {
		set, err := p.registry.get(p.jwksURL)
		if err != nil {
			return "", err
		}
		p.keyfunc = set.Keyfunc
	}
	return verifyIDToken(rawIDToken, p.keyfunc, p.issuer, p.oauth.ClientID, nonce)
}

type idTokenClaims struct {
	Email             string `json:"email"`
	PreferredUsername string `json:"preferred_username"`
	UPN               string `json:"upn"`
	Nonce             string `json:"nonce"`
	jwt.RegisteredClaims
}

// verifyIDToken checks signature, issuer, audience and nonce and returns the first email-like claim.
func verifyIDToken(raw string, keys jwt.Keyfunc, issuer, audience, nonce string) (string, error) {
	claims := &idTokenClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, keys,
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("verify id_token: %w", err)
	}
	if nonce != "" && claims.Nonce != nonce {
		return "", errors.New("id_token nonce mismatch")
	}
	for _, candidate := range []string{claims.Email, claims.PreferredUsername, claims.UPN} {
		if strings.Contains(candidate, "@") {
			return strings.ToLower(strings.TrimSpace(candidate)), nil
		}
	}
	return "", errors.New("id_token carries no email claim")
}
