package services

import (
	"context"
	"fmt"

	"taskboard/internal/apperrors"
	"taskboard/internal/common"
	"taskboard/internal/models"
	"taskboard/internal/repositories"

	"github.com/google/uuid"
)

// AccessService answers location visibility and cred questions from Security rows.
type AccessService interface {
	// VisibleLocationIDs returns nil for admin principals.
	VisibleLocationIDs(ctx context.Context, principal *common.Principal) ([]uuid.UUID, error)
	Scope(ctx context.Context, principal *common.Principal) (models.LocationScope, error)
	CanSeeLocation(ctx context.Context, principal *common.Principal, locationID uuid.UUID) (bool, error)
	RequireLocation(ctx context.Context, principal *common.Principal, locationID uuid.UUID) error
	HasCred(ctx context.Context, principal *common.Principal, code string, locationID *uuid.UUID) (bool, error)
	// SharesLocation reports whether userID holds a Security row at a location visible to principal.
	SharesLocation(ctx context.Context, principal *common.Principal, userID uuid.UUID) (bool, error)
}

type accessService struct {
	securities repositories.SecurityRepository
}

func NewAccessService(securities repositories.SecurityRepository) AccessService {
	return &accessService{securities: securities}
}

func (s *accessService) VisibleLocationIDs(ctx context.Context, principal *common.Principal) ([]uuid.UUID, error) {
	if principal.IsAdmin() {
		return nil, nil
	}
	return s.securities.LocationIDsForUser(ctx, principal.CustomerID, principal.UserID)
}

func (s *accessService) Scope(ctx context.Context, principal *common.Principal) (models.LocationScope, error) {
	if principal.IsAdmin() {
		return models.Unrestricted(), nil
	}
	ids, err := s.securities.LocationIDsForUser(ctx, principal.CustomerID, principal.UserID)
	if err != nil {
		return models.LocationScope{}, err
	}
	return models.RestrictedTo(ids), nil
}

func (s *accessService) CanSeeLocation(ctx context.Context, principal *common.Principal, locationID uuid.UUID) (bool, error) {
	scope, err := s.Scope(ctx, principal)
	if err != nil {
		return false, err
	}
	return scope.Allows(locationID), nil
}

// RequireLocation returns ErrForbidden when the location is outside the principal's scope.
func (s *accessService) RequireLocation(ctx context.Context, principal *common.Principal, locationID uuid.UUID) error {
	ok, err := s.CanSeeLocation(ctx, principal, locationID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.Forbidden("location is not visible to the current user")
	}
	return nil
}

func (s *accessService) HasCred(ctx context.Context, principal *common.Principal, code string, locationID *uuid.UUID) (bool, error) {
	if principal.IsAdmin() {
		return true, nil
	}
	ok, err := s.securities.UserHasCred(ctx, principal.CustomerID, principal.UserID, code, locationID)
	if err != nil {
		return false, fmt.Errorf("check cred %s: %w", code, err)
	}
	return ok, nil
}

// requireCredAt returns ErrForbidden unless principal holds code at locationID.
func requireCredAt(ctx context.Context, access AccessService, principal *common.Principal, code string, locationID uuid.UUID) error {
	ok, err := access.HasCred(ctx, principal, code, &locationID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.Forbidden(code + " is not granted at this location")
	}
	return nil
}

func (s *accessService) SharesLocation(ctx context.Context, principal *common.Principal, userID uuid.UUID) (bool, error) {
	scope, err := s.Scope(ctx, principal)
	if err != nil {
		return false, err
	}
	theirs, err := s.securities.LocationIDsForUser(ctx, principal.CustomerID, userID)
	if err != nil {
		return false, err
	}
	for _, id := range theirs {
		if scope.Allows(id) {
			return true, nil
		}
	}
	return false, nil
}

func requireAdmin(principal *common.Principal) error {
	if !principal.IsAdmin() {
		return apperrors.Forbidden("administrator role required")
	}
	return nil
}

func requireSuperAdmin(principal *common.Principal) error {
	if !principal.IsSuperAdmin() {
		return apperrors.Forbidden("super administrator role required")
	}
	return nil
}
