package services

import (
	"context"
	"errors"
	"strings"

	"taskboard/internal/apperrors"
	"taskboard/internal/common"
	"taskboard/internal/models"
	"taskboard/internal/repositories"

	"github.com/google/uuid"
)

type LocationService interface {
	Create(ctx context.Context, principal *common.Principal, req *LocationRequest) (*models.Location, error)
	Get(ctx context.Context, principal *common.Principal, id uuid.UUID) (*models.Location, error)
	Update(ctx context.Context, principal *common.Principal, id uuid.UUID, req *LocationRequest) (*models.Location, error)
	Delete(ctx context.Context, principal *common.Principal, id uuid.UUID) error
	List(ctx context.Context, principal *common.Principal, filters models.LocationFilters, params common.ListParams) (common.Page[*models.Location], error)
}

type LocationRequest struct {
	Name            string     `json:"name"`
	Address         string     `json:"address"`
	SchedulerActive *bool      `json:"schedulerActive"`
	DefaultUserID   *uuid.UUID `json:"defaultUserID"`
}

type locationService struct {
	locations repositories.LocationRepository
	users     repositories.UserRepository
	access    AccessService
}

func NewLocationService(locations repositories.LocationRepository, users repositories.UserRepository, access AccessService) LocationService {
	return &locationService{locations: locations, users: users, access: access}
}

func (s *locationService) validate(ctx context.Context, customerID uuid.UUID, req *LocationRequest) error {
	v := &apperrors.ValidationError{}
	if strings.TrimSpace(req.Name) == "" {
		v.Add("name", "name is required")
	}
	if req.DefaultUserID != nil {
		if _, err := s.users.GetByID(ctx, customerID, *req.DefaultUserID); err != nil {
			if !errors.Is(err, apperrors.ErrNotFound) {
				return err
			}
			v.Add("defaultUserID", "defaultUserID must reference a user of this customer")
		}
	}
	return v.OrNil()
}

func (s *locationService) Create(ctx context.Context, principal *common.Principal, req *LocationRequest) (*models.Location, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if err := s.validate(ctx, principal.CustomerID, req); err != nil {
		return nil, err
	}
	location := &models.Location{
		ID:              uuid.New(),
		CustomerID:      principal.CustomerID,
		Name:            strings.TrimSpace(req.Name),
		Address:         strings.TrimSpace(req.Address),
		SchedulerActive: req.SchedulerActive != nil && *req.SchedulerActive,
		DefaultUserID:   req.DefaultUserID,
	}
	if err := s.locations.Create(ctx, location); err != nil {
		return nil, err
	}
	return location, nil
}

// Get returns 404 for ids of other customers and 403 for own locations outside the caller's scope.
func (s *locationService) Get(ctx context.Context, principal *common.Principal, id uuid.UUID) (*models.Location, error) {
	location, err := s.locations.GetByID(ctx, principal.CustomerID, id)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireLocation(ctx, principal, id); err != nil {
		return nil, err
	}
	return location, nil
}

func (s *locationService) Update(ctx context.Context, principal *common.Principal, id uuid.UUID, req *LocationRequest) (*models.Location, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	location, err := s.locations.GetByID(ctx, principal.CustomerID, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, principal.CustomerID, req); err != nil {
		return nil, err
	}
	location.Name = strings.TrimSpace(req.Name)
	location.Address = strings.TrimSpace(req.Address)
	location.DefaultUserID = req.DefaultUserID
	if req.SchedulerActive != nil {
		location.SchedulerActive = *req.SchedulerActive
	}
	if err := s.locations.Update(ctx, location); err != nil {
		return nil, err
	}
	return location, nil
}

func (s *locationService) Delete(ctx context.Context, principal *common.Principal, id uuid.UUID) error {
	if err := requireAdmin(principal); err != nil {
		return err
	}
	return s.locations.Delete(ctx, principal.CustomerID, id)
}

func (s *locationService) List(ctx context.Context, principal *common.Principal, filters models.LocationFilters, params common.ListParams) (common.Page[*models.Location], error) {
	scope, err := s.access.Scope(ctx, principal)
	if err != nil {
		return common.Page[*models.Location]{}, err
	}
	items, total, err := s.locations.List(ctx, principal.CustomerID, scope, filters, params)
	if err != nil {
		return common.Page[*models.Location]{}, err
	}
	return common.NewPage(items, total, params), nil
}
