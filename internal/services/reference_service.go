package services

import (
	"context"
	"net/url"
	"strings"
	"time"

	"taskboard/internal/apperrors"
	"taskboard/internal/common"
	"taskboard/internal/models"
	"taskboard/internal/repositories"

	"github.com/google/uuid"
)

// ReferenceService manages the customer's reference data: legal references and licences.
type ReferenceService interface {
	CreateLegalRef(ctx context.Context, principal *common.Principal, req *LegalRefRequest) (*models.LegalRef, error)
	GetLegalRef(ctx context.Context, principal *common.Principal, id uuid.UUID) (*models.LegalRef, error)
	UpdateLegalRef(ctx context.Context, principal *common.Principal, id uuid.UUID, req *LegalRefRequest) (*models.LegalRef, error)
	DeleteLegalRef(ctx context.Context, principal *common.Principal, id uuid.UUID) error
	ListLegalRefs(ctx context.Context, principal *common.Principal, filters models.LegalRefFilters, params common.ListParams) (common.Page[*models.LegalRef], error)

	CreateIndustry(ctx context.Context, principal *common.Principal, req *LicenseIndustryRequest) (*models.LicenseIndustry, error)
	GetIndustry(ctx context.Context, principal *common.Principal, id uuid.UUID) (*models.LicenseIndustry, error)
	UpdateIndustry(ctx context.Context, principal *common.Principal, id uuid.UUID, req *LicenseIndustryRequest) (*models.LicenseIndustry, error)
	DeleteIndustry(ctx context.Context, principal *common.Principal, id uuid.UUID) error
	ListIndustries(ctx context.Context, principal *common.Principal, params common.ListParams) (common.Page[*models.LicenseIndustry], error)

	CreateLicenseUser(ctx context.Context, principal *common.Principal, req *LicenseUserRequest) (*models.LicenseUser, error)
	GetLicenseUser(ctx context.Context, principal *common.Principal, id uuid.UUID) (*models.LicenseUser, error)
	UpdateLicenseUser(ctx context.Context, principal *common.Principal, id uuid.UUID, req *LicenseUserRequest) (*models.LicenseUser, error)
	DeleteLicenseUser(ctx context.Context, principal *common.Principal, id uuid.UUID) error
	ListLicenseUsers(ctx context.Context, principal *common.Principal, filters models.LicenseUserFilters, params common.ListParams) (common.Page[*models.LicenseUser], error)
}

type LegalRefRequest struct {
	Code         string `json:"code"`
	Title        string `json:"title"`
	URL          string `json:"url"`
	Jurisdiction string `json:"jurisdiction"`
}

type LicenseIndustryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type LicenseUserRequest struct {
	LicenseIndustryID uuid.UUID  `json:"licenseIndustryID"`
	UserID            uuid.UUID  `json:"userID"`
	LicenseNumber     string     `json:"licenseNumber"`
	ExpiresAt         *time.Time `json:"expiresAt"`
}

type referenceService struct {
	legalRefs repositories.LegalRefRepository
	licenses  repositories.LicenseRepository
	users     repositories.UserRepository
}

func NewReferenceService(legalRefs repositories.LegalRefRepository, licenses repositories.LicenseRepository, users repositories.UserRepository) ReferenceService {
	return &referenceService{legalRefs: legalRefs, licenses: licenses, users: users}
}

func validateLegalRef(req *LegalRefRequest) error {
	v := &apperrors.ValidationError{}
	if strings.TrimSpace(req.Code) == "" {
		v.Add("code", "code is required")
	}
	if strings.TrimSpace(req.Title) == "" {
		v.Add("title", "title is required")
	}
	if req.URL != "" {
		if u, err := url.Parse(req.URL); err != nil || u.Scheme == "" || u.Host == "" {
			v.Add("url", "url must be an absolute URL")
		}
	}
	return v.OrNil()
}

func (s *referenceService) CreateLegalRef(ctx context.Context, principal *common.Principal, req *LegalRefRequest) (*models.LegalRef, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if err := validateLegalRef(req); err != nil {
		return nil, err
	}
	ref := &models.LegalRef{
		ID:           uuid.New(),
		CustomerID:   principal.CustomerID,
		Code:         strings.TrimSpace(req.Code),
		Title:        strings.TrimSpace(req.Title),
		URL:          req.URL,
		Jurisdiction: strings.TrimSpace(req.Jurisdiction),
	}
	if err := s.legalRefs.Create(ctx, ref); err != nil {
		return nil, err
	}
	return ref, nil
}

func (s *referenceService) GetLegalRef(ctx context.Context, principal *common.Principal, id uuid.UUID) (*models.LegalRef, error) {
	return s.legalRefs.GetByID(ctx, principal.CustomerID, id)
}

func (s *referenceService) UpdateLegalRef(ctx context.Context, principal *common.Principal, id uuid.UUID, req *LegalRefRequest) (*models.LegalRef, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if err := validateLegalRef(req); err != nil {
		return nil, err
	}
	ref, err := s.legalRefs.GetByID(ctx, principal.CustomerID, id)
	if err != nil {
		return nil, err
	}
	ref.Code = strings.TrimSpace(req.Code)
	ref.Title = strings.TrimSpace(req.Title)
	ref.URL = req.URL
	ref.Jurisdiction = strings.TrimSpace(req.Jurisdiction)
	if err := s.legalRefs.Update(ctx, ref); err != nil {
		return nil, err
	}
	return ref, nil
}

func (s *referenceService) DeleteLegalRef(ctx context.Context, principal *common.Principal, id uuid.UUID) error {
	if err := requireAdmin(principal); err != nil {
		return err
	}
	return s.legalRefs.Delete(ctx, principal.CustomerID, id)
}

func (s *referenceService) ListLegalRefs(ctx context.Context, principal *common.Principal, filters models.LegalRefFilters, params common.ListParams) (common.Page[*models.LegalRef], error) {
	items, total, err := s.legalRefs.List(ctx, principal.CustomerID, filters, params)
	if err != nil {
		return common.Page[*models.LegalRef]{}, err
	}
	return common.NewPage(items, total, params), nil
}

func (s *referenceService) CreateIndustry(ctx context.Context, principal *common.Principal, req *LicenseIndustryRequest) (*models.LicenseIndustry, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.Invalid("name", "name is required")
	}
	industry := &models.LicenseIndustry{
		ID:          uuid.New(),
		CustomerID:  principal.CustomerID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	}
	if err := s.licenses.CreateIndustry(ctx, industry); err != nil {
		return nil, err
	}
	return industry, nil
}

func (s *referenceService) GetIndustry(ctx context.Context, principal *common.Principal, id uuid.UUID) (*models.LicenseIndustry, error) {
	return s.licenses.GetIndustry(ctx, principal.CustomerID, id)
}

func (s *referenceService) UpdateIndustry(ctx context.Context, principal *common.Principal, id uuid.UUID, req *LicenseIndustryRequest) (*models.LicenseIndustry, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.Invalid("name", "name is required")
	}
	industry, err := s.licenses.GetIndustry(ctx, principal.CustomerID, id)
	if err != nil {
		return nil, err
	}
	industry.Name = strings.TrimSpace(req.Name)
	industry.Description = req.Description
	if err := s.licenses.UpdateIndustry(ctx, industry); err != nil {
		return nil, err
	}
	return industry, nil
}

func (s *referenceService) DeleteIndustry(ctx context.Context, principal *common.Principal, id uuid.UUID) error {
	if err := requireAdmin(principal); err != nil {
		return err
	}
	n, err := s.licenses.CountIndustryUsers(ctx, principal.CustomerID, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return apperrors.Conflict("license industry still has licensed users")
	}
	return s.licenses.DeleteIndustry(ctx, principal.CustomerID, id)
}

func (s *referenceService) ListIndustries(ctx context.Context, principal *common.Principal, params common.ListParams) (common.Page[*models.LicenseIndustry], error) {
	items, total, err := s.licenses.ListIndustries(ctx, principal.CustomerID, params)
	if err != nil {
		return common.Page[*models.LicenseIndustry]{}, err
	}
	return common.NewPage(items, total, params), nil
}

func (s *referenceService) checkLicenseUser(ctx context.Context, customerID uuid.UUID, req *LicenseUserRequest) error {
	if strings.TrimSpace(req.LicenseNumber) == "" {
		return apperrors.Invalid("licenseNumber", "licenseNumber is required")
	}
	if _, err := s.licenses.GetIndustry(ctx, customerID, req.LicenseIndustryID); err != nil {
		return err
	}
	_, err := s.users.GetByID(ctx, customerID, req.UserID)
	return err
}

func (s *referenceService) CreateLicenseUser(ctx context.Context, principal *common.Principal, req *LicenseUserRequest) (*models.LicenseUser, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if err := s.checkLicenseUser(ctx, principal.CustomerID, req); err != nil {
		return nil, err
	}
	lu := &models.LicenseUser{
		ID:                uuid.New(),
		CustomerID:        principal.CustomerID,
		LicenseIndustryID: req.LicenseIndustryID,
		UserID:            req.UserID,
		LicenseNumber:     strings.TrimSpace(req.LicenseNumber),
		ExpiresAt:         req.ExpiresAt,
	}
	if err := s.licenses.CreateUser(ctx, lu); err != nil {
		return nil, err
	}
	return lu, nil
}

func (s *referenceService) GetLicenseUser(ctx context.Context, principal *common.Principal, id uuid.UUID) (*models.LicenseUser, error) {
	return s.licenses.GetUser(ctx, principal.CustomerID, id)
}

func (s *referenceService) UpdateLicenseUser(ctx context.Context, principal *common.Principal, id uuid.UUID, req *LicenseUserRequest) (*models.LicenseUser, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	lu, err := s.licenses.GetUser(ctx, principal.CustomerID, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkLicenseUser(ctx, principal.CustomerID, req); err != nil {
		return nil, err
	}
	lu.LicenseIndustryID = req.LicenseIndustryID
	lu.UserID = req.UserID
	lu.LicenseNumber = strings.TrimSpace(req.LicenseNumber)
	lu.ExpiresAt = req.ExpiresAt
	if err := s.licenses.UpdateUser(ctx, lu); err != nil {
		return nil, err
	}
	return lu, nil
}

func (s *referenceService) DeleteLicenseUser(ctx context.Context, principal *common.Principal, id uuid.UUID) error {
	if err := requireAdmin(principal); err != nil {
		return err
	}
	return s.licenses.DeleteUser(ctx, principal.CustomerID, id)
}

func (s *referenceService) ListLicenseUsers(ctx context.Context, principal *common.Principal, filters models.LicenseUserFilters, params common.ListParams) (common.Page[*models.LicenseUser], error) {
	if err := checkRange("expiresFrom", "expiresTo", filters.ExpiresFrom, filters.ExpiresTo); err != nil {
		return common.Page[*models.LicenseUser]{}, err
	}
	items, total, err := s.licenses.ListUsers(ctx, principal.CustomerID, filters, params)
	if err != nil {
		return common.Page[*models.LicenseUser]{}, err
	}
	return common.NewPage(items, total, params), nil
}
