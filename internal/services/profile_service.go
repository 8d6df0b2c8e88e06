package services

import (
	"context"
	"strings"

	"taskboard/internal/apperrors"
	"taskboard/internal/common"
	"taskboard/internal/models"
	"taskboard/internal/repositories"

	"github.com/google/uuid"
)

// ProfileService manages profiles, their cred grants and the Security rows that bind them to users.
type ProfileService interface {
	ListCreds(ctx context.Context) ([]*models.Cred, error)

	Create(ctx context.Context, principal *common.Principal, req *ProfileRequest) (*models.Profile, error)
	Get(ctx context.Context, principal *common.Principal, id uuid.UUID) (*models.Profile, error)
	Update(ctx context.Context, principal *common.Principal, id uuid.UUID, req *ProfileRequest) (*models.Profile, error)
	Delete(ctx context.Context, principal *common.Principal, id uuid.UUID) error
	List(ctx context.Context, principal *common.Principal, filters models.ProfileFilters, params common.ListParams) (common.Page[*models.Profile], error)
	ProfileCreds(ctx context.Context, principal *common.Principal, id uuid.UUID) ([]*models.Cred, error)
	ReplaceProfileCreds(ctx context.Context, principal *common.Principal, id uuid.UUID, credIDs []uuid.UUID) ([]*models.Cred, error)

	CreateSecurity(ctx context.Context, principal *common.Principal, req *SecurityRequest) (*models.Security, error)
	GetSecurity(ctx context.Context, principal *common.Principal, id uuid.UUID) (*models.Security, error)
	UpdateSecurity(ctx context.Context, principal *common.Principal, id uuid.UUID, req *SecurityRequest) (*models.Security, error)
	DeleteSecurity(ctx context.Context, principal *common.Principal, id uuid.UUID) error
	ListSecurities(ctx context.Context, principal *common.Principal, filters models.SecurityFilters, params common.ListParams) (common.Page[*models.Security], error)
}

type ProfileRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	LocationID  *uuid.UUID `json:"locationID"`
}

type SecurityRequest struct {
	UserID     uuid.UUID `json:"userID"`
	LocationID uuid.UUID `json:"locationID"`
	ProfileID  uuid.UUID `json:"profileID"`
}

type profileService struct {
	profiles   repositories.ProfileRepository
	creds      repositories.CredRepository
	securities repositories.SecurityRepository
	users      repositories.UserRepository
	locations  repositories.LocationRepository
}

func NewProfileService(
	profiles repositories.ProfileRepository,
	creds repositories.CredRepository,
	securities repositories.SecurityRepository,
	users repositories.UserRepository,
	locations repositories.LocationRepository,
) ProfileService {
	return &profileService{
		profiles:   profiles,
		creds:      creds,
		securities: securities,
		users:      users,
		locations:  locations,
	}
}

func (s *profileService) ListCreds(ctx context.Context) ([]*models.Cred, error) {
	return s.creds.List(ctx)
}

func (s *profileService) Create(ctx context.Context, principal *common.Principal, req *ProfileRequest) (*models.Profile, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.Invalid("name", "name is required")
	}
	if req.LocationID != nil {
		if _, err := s.locations.GetByID(ctx, principal.CustomerID, *req.LocationID); err != nil {
			return nil, err
		}
	}
	profile := &models.Profile{
		ID:          uuid.New(),
		CustomerID:  principal.CustomerID,
		LocationID:  req.LocationID,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *profileService) Get(ctx context.Context, principal *common.Principal, id uuid.UUID) (*models.Profile, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	return s.profiles.GetByID(ctx, principal.CustomerID, id)
}

func (s *profileService) Update(ctx context.Context, principal *common.Principal, id uuid.UUID, req *ProfileRequest) (*models.Profile, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.Invalid("name", "name is required")
	}
	profile, err := s.profiles.GetByID(ctx, principal.CustomerID, id)
	if err != nil {
		return nil, err
	}
	if req.LocationID != nil {
		if _, err := s.locations.GetByID(ctx, principal.CustomerID, *req.LocationID); err != nil {
			return nil, err
		}
	}
	profile.Name = strings.TrimSpace(req.Name)
	profile.Description = strings.TrimSpace(req.Description)
	profile.LocationID = req.LocationID
	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// Delete refuses profiles still bound to users through Security rows.
func (s *profileService) Delete(ctx context.Context, principal *common.Principal, id uuid.UUID) error {
	if err := requireAdmin(principal); err != nil {
		return err
	}
	count, err := s.profiles.CountSecurities(ctx, principal.CustomerID, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperrors.Conflict("profile is still assigned to users")
	}
	return s.profiles.Delete(ctx, principal.CustomerID, id)
}

func (s *profileService) List(ctx context.Context, principal *common.Principal, filters models.ProfileFilters, params common.ListParams) (common.Page[*models.Profile], error) {
	if err := requireAdmin(principal); err != nil {
		return common.Page[*models.Profile]{}, err
	}
	items, total, err := s.profiles.List(ctx, principal.CustomerID, filters, params)
	if err != nil {
		return common.Page[*models.Profile]{}, err
	}
	return common.NewPage(items, total, params), nil
}

func (s *profileService) ProfileCreds(ctx context.Context, principal *common.Principal, id uuid.UUID) ([]*models.Cred, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if _, err := s.profiles.GetByID(ctx, principal.CustomerID, id); err != nil {
		return nil, err
	}
	return s.profiles.ListCreds(ctx, id)
}

func (s *profileService) ReplaceProfileCreds(ctx context.Context, principal *common.Principal, id uuid.UUID, credIDs []uuid.UUID) ([]*models.Cred, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if _, err := s.profiles.GetByID(ctx, principal.CustomerID, id); err != nil {
		return nil, err
	}

	unique := make([]uuid.UUID, 0, len(credIDs))
	seen := make(map[uuid.UUID]bool, len(credIDs))
	for _, c := range credIDs {
		if !seen[c] {
			seen[c] = true
			unique = append(unique, c)
		}
	}
	if len(unique) > 0 {
		found, err := s.creds.CountByIDs(ctx, unique)
		if err != nil {
			return nil, err
		}
		if found != len(unique) {
			return nil, apperrors.Invalid("credIDs", "credIDs contains unknown creds")
		}
	}

	if err := s.profiles.ReplaceCreds(ctx, id, unique); err != nil {
		return nil, err
	}
	return s.profiles.ListCreds(ctx, id)
}

// checkSecurity resolves the three references inside the tenant. A profile bound to a
// location may only be granted at that location.
func (s *profileService) checkSecurity(ctx context.Context, customerID uuid.UUID, req *SecurityRequest) error {
	if _, err := s.users.GetByID(ctx, customerID, req.UserID); err != nil {
		return err
	}
	if _, err := s.locations.GetByID(ctx, customerID, req.LocationID); err != nil {
		return err
	}
	profile, err := s.profiles.GetByID(ctx, customerID, req.ProfileID)
	if err != nil {
		return err
	}
	if profile.LocationID != nil && *profile.LocationID != req.LocationID {
		return apperrors.Invalid("profileID", "profile is restricted to another location")
	}
	return nil
}

func (s *profileService) CreateSecurity(ctx context.Context, principal *common.Principal, req *SecurityRequest) (*models.Security, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if err := s.checkSecurity(ctx, principal.CustomerID, req); err != nil {
		return nil, err
	}
	security := &models.Security{
		ID:         uuid.New(),
		CustomerID: principal.CustomerID,
		UserID:     req.UserID,
		LocationID: req.LocationID,
		ProfileID:  req.ProfileID,
	}
	if err := s.securities.Create(ctx, security); err != nil {
		return nil, err
	}
	return s.securities.GetByID(ctx, principal.CustomerID, security.ID)
}

func (s *profileService) GetSecurity(ctx context.Context, principal *common.Principal, id uuid.UUID) (*models.Security, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	return s.securities.GetByID(ctx, principal.CustomerID, id)
}

func (s *profileService) UpdateSecurity(ctx context.Context, principal *common.Principal, id uuid.UUID, req *SecurityRequest) (*models.Security, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	security, err := s.securities.GetByID(ctx, principal.CustomerID, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkSecurity(ctx, principal.CustomerID, req); err != nil {
		return nil, err
	}
	security.UserID = req.UserID
	security.LocationID = req.LocationID
	security.ProfileID = req.ProfileID
	if err := s.securities.Update(ctx, security); err != nil {
		return nil, err
	}
	return s.securities.GetByID(ctx, principal.CustomerID, id)
}

func (s *profileService) DeleteSecurity(ctx context.Context, principal *common.Principal, id uuid.UUID) error {
	if err := requireAdmin(principal); err != nil {
		return err
	}
	return s.securities.Delete(ctx, principal.CustomerID, id)
}

func (s *profileService) ListSecurities(ctx context.Context, principal *common.Principal, filters models.SecurityFilters, params common.ListParams) (common.Page[*models.Security], error) {
	if err := requireAdmin(principal); err != nil {
		return common.Page[*models.Security]{}, err
	}
	items, total, err := s.securities.List(ctx, principal.CustomerID, filters, params)
	if err != nil {
		return common.Page[*models.Security]{}, err
	}
	return common.NewPage(items, total, params), nil
}
