package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"taskboard/internal/apperrors"
	"taskboard/internal/caching"
	"taskboard/internal/common"
	"taskboard/internal/logging"
	"taskboard/internal/models"
	"taskboard/internal/repositories"

	"github.com/google/uuid"
)

const customerCacheTTL = 10 * time.Minute

// TenantService resolves customers from request hosts and manages customer-level settings.
type TenantService interface {
	ResolveByHost(ctx context.Context, origin, referer string) (*models.Customer, error)
	Get(ctx context.Context, principal *common.Principal) (*models.Customer, error)
	Update(ctx context.Context, principal *common.Principal, req *UpdateCustomerRequest) (*models.Customer, error)

	CreateSocialiteClient(ctx context.Context, principal *common.Principal, req *SocialiteClientRequest) (*models.SocialiteClient, error)
	GetSocialiteClient(ctx context.Context, principal *common.Principal, id uuid.UUID) (*models.SocialiteClient, error)
	UpdateSocialiteClient(ctx context.Context, principal *common.Principal, id uuid.UUID, req *SocialiteClientRequest) (*models.SocialiteClient, error)
	DeleteSocialiteClient(ctx context.Context, principal *common.Principal, id uuid.UUID) error
	ListSocialiteClients(ctx context.Context, principal *common.Principal, filters models.SocialiteClientFilters, params common.ListParams) (common.Page[*models.SocialiteClient], error)
}

type UpdateCustomerRequest struct {
	Name   string `json:"name"`
	Domain string `json:"domain"`
}

type SocialiteClientRequest struct {
	Provider     string `json:"provider"`
	ClientID     string `json:"clientID"`
	ClientSecret string `json:"clientSecret"`
	TenantRef    string `json:"tenantRef"`
	RedirectURL  string `json:"redirectURL"`
	Active       *bool  `json:"active"`
}

type tenantService struct {
	customers repositories.CustomerRepository
	clients   repositories.SocialiteClientRepository
	cacheSvc  caching.CacheService
}

func NewTenantService(customers repositories.CustomerRepository, clients repositories.SocialiteClientRepository, cacheSvc caching.CacheService) TenantService {
	return &tenantService{customers: customers, clients: clients, cacheSvc: cacheSvc}
}

// NormalizeHost reduces an Origin or Referer header value to a bare lower-case host:
// scheme, port, path and a leading "www." are removed. The opaque origin "null"
// sent by sandboxed pages counts as absent.
func NormalizeHost(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "null") {
		return ""
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(host, "www.")
}

// ResolveByHost tries Origin first, then Referer.
func (s *tenantService) ResolveByHost(ctx context.Context, origin, referer string) (*models.Customer, error) {
	host := NormalizeHost(origin)
	if host == "" {
		host = NormalizeHost(referer)
	}
	if host == "" {
		return nil, fmt.Errorf("origin or referer header is required: %w", apperrors.ErrBadRequest)
	}

	log := logging.FromContext(ctx)
	customer, err := s.cacheSvc.GetCustomerByDomain(ctx, host)
	if err == nil {
		return customer, nil
	}
	if !errors.Is(err, caching.ErrMiss) {
		log.Warn().Err(err).Str("host", host).Msg("customer cache lookup failed")
	}

	customer, err = s.customers.GetByDomain(ctx, host)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("no customer is registered for %s: %w", host, apperrors.ErrBadRequest)
		}
		return nil, err
	}
	if err := s.cacheSvc.SetCustomerByDomain(ctx, host, customer, customerCacheTTL); err != nil {
		log.Warn().Err(err).Str("host", host).Msg("customer cache write failed")
	}
	return customer, nil
}

func (s *tenantService) Get(ctx context.Context, principal *common.Principal) (*models.Customer, error) {
	return s.customers.GetByID(ctx, principal.CustomerID)
}

func (s *tenantService) Update(ctx context.Context, principal *common.Principal, req *UpdateCustomerRequest) (*models.Customer, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	v := &apperrors.ValidationError{}
	name := strings.TrimSpace(req.Name)
	domain := NormalizeHost(req.Domain)
	if name == "" {
		v.Add("name", "name is required")
	}
	if domain == "" {
		v.Add("domain", "domain is required")
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	customer, err := s.customers.GetByID(ctx, principal.CustomerID)
	if err != nil {
		return nil, err
	}
	oldDomain := customer.Domain
	customer.Name = name
	customer.Domain = domain
	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, err
	}

	for _, d := range []string{oldDomain, domain} {
		if err := s.cacheSvc.DeleteCustomerByDomain(ctx, d); err != nil {
			logging.FromContext(ctx).Warn().Err(err).Str("domain", d).Msg("customer cache invalidation failed")
		}
	}
	return customer, nil
}

func validateSocialiteClient(req *SocialiteClientRequest, creating bool) error {
	v := &apperrors.ValidationError{}
	if creating && req.Provider != models.ProviderAzure && req.Provider != models.ProviderOkta {
		v.Add("provider", "provider must be one of: azure, okta")
	}
	if strings.TrimSpace(req.ClientID) == "" {
		v.Add("clientID", "clientID is required")
	}
	if creating && req.ClientSecret == "" {
		v.Add("clientSecret", "clientSecret is required")
	}
	if strings.TrimSpace(req.TenantRef) == "" {
		v.Add("tenantRef", "tenantRef is required")
	}
	if req.RedirectURL != "" {
		if u, err := url.Parse(req.RedirectURL); err != nil || u.Scheme == "" || u.Host == "" {
			v.Add("redirectURL", "redirectURL must be an absolute URL")
		}
	}
	return v.OrNil()
}

func (s *tenantService) CreateSocialiteClient(ctx context.Context, principal *common.Principal, req *SocialiteClientRequest) (*models.SocialiteClient, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if err := validateSocialiteClient(req, true); err != nil {
		return nil, err
	}
	client := &models.SocialiteClient{
		ID:           uuid.New(),
		CustomerID:   principal.CustomerID,
		Provider:     req.Provider,
		ClientID:     strings.TrimSpace(req.ClientID),
		ClientSecret: req.ClientSecret,
		TenantRef:    strings.TrimSpace(req.TenantRef),
		RedirectURL:  req.RedirectURL,
		Active:       req.Active == nil || *req.Active,
	}
	if err := s.clients.Create(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *tenantService) GetSocialiteClient(ctx context.Context, principal *common.Principal, id uuid.UUID) (*models.SocialiteClient, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	return s.clients.GetByID(ctx, principal.CustomerID, id)
}

// UpdateSocialiteClient keeps the stored secret when the request leaves it empty.
func (s *tenantService) UpdateSocialiteClient(ctx context.Context, principal *common.Principal, id uuid.UUID, req *SocialiteClientRequest) (*models.SocialiteClient, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if err := validateSocialiteClient(req, false); err != nil {
		return nil, err
	}
	client, err := s.clients.GetByID(ctx, principal.CustomerID, id)
	if err != nil {
		return nil, err
	}
	client.ClientID = strings.TrimSpace(req.ClientID)
	client.TenantRef = strings.TrimSpace(req.TenantRef)
	client.RedirectURL = req.RedirectURL
	if req.ClientSecret != "" {
		client.ClientSecret = req.ClientSecret
	}
	if req.Active != nil {
		client.Active = *req.Active
	}
	if err := s.clients.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *tenantService) DeleteSocialiteClient(ctx context.Context, principal *common.Principal, id uuid.UUID) error {
	if err := requireAdmin(principal); err != nil {
		return err
	}
	return s.clients.Delete(ctx, principal.CustomerID, id)
}

func (s *tenantService) ListSocialiteClients(ctx context.Context, principal *common.Principal, filters models.SocialiteClientFilters, params common.ListParams) (common.Page[*models.SocialiteClient], error) {
	if err := requireAdmin(principal); err != nil {
		return common.Page[*models.SocialiteClient]{}, err
	}
	items, total, err := s.clients.List(ctx, principal.CustomerID, filters, params)
	if err != nil {
		return common.Page[*models.SocialiteClient]{}, err
	}
	return common.NewPage(items, total, params), nil
}
