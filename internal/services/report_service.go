package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
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

const reportCacheTTL = 5 * time.Minute

type ReportService interface {
	ListCatalogs(ctx context.Context, params common.ListParams) (common.Page[*models.ReportCatalog], error)
	GetCatalog(ctx context.Context, id uuid.UUID) (*models.ReportCatalog, error)
	CreateCatalog(ctx context.Context, principal *common.Principal, req *models.ReportCatalog) (*models.ReportCatalog, error)
	UpdateCatalog(ctx context.Context, principal *common.Principal, id uuid.UUID, req *models.ReportCatalog) (*models.ReportCatalog, error)
	DeleteCatalog(ctx context.Context, principal *common.Principal, id uuid.UUID) error

	ListSections(ctx context.Context, catalogID *uuid.UUID, params common.ListParams) (common.Page[*models.ReportSection], error)
	GetSection(ctx context.Context, id uuid.UUID) (*models.ReportSection, error)
	CreateSection(ctx context.Context, principal *common.Principal, req *models.ReportSection) (*models.ReportSection, error)
	UpdateSection(ctx context.Context, principal *common.Principal, id uuid.UUID, req *models.ReportSection) (*models.ReportSection, error)
	DeleteSection(ctx context.Context, principal *common.Principal, id uuid.UUID) error

	ListFilters(ctx context.Context, sectionID *uuid.UUID, params common.ListParams) (common.Page[*models.ReportFilter], error)
	GetFilter(ctx context.Context, id uuid.UUID) (*models.ReportFilter, error)
	CreateFilter(ctx context.Context, principal *common.Principal, req *models.ReportFilter) (*models.ReportFilter, error)
	UpdateFilter(ctx context.Context, principal *common.Principal, id uuid.UUID, req *models.ReportFilter) (*models.ReportFilter, error)
	DeleteFilter(ctx context.Context, principal *common.Principal, id uuid.UUID) error

	Create(ctx context.Context, principal *common.Principal, req *ReportRequest) (*models.Report, error)
	Get(ctx context.Context, principal *common.Principal, id uuid.UUID) (*models.Report, error)
	Update(ctx context.Context, principal *common.Principal, id uuid.UUID, req *ReportRequest) (*models.Report, error)
	Delete(ctx context.Context, principal *common.Principal, id uuid.UUID) error
	List(ctx context.Context, principal *common.Principal, filters models.ReportFilters, params common.ListParams) (common.Page[*models.Report], error)

	TaskStatus(ctx context.Context, principal *common.Principal, query models.TaskStatusQuery) ([]models.TaskStatusGroup, error)
}

type ReportRequest struct {
	Name       string         `json:"name"`
	CatalogID  uuid.UUID      `json:"catalogID"`
	LocationID *uuid.UUID     `json:"locationID"`
	Params     map[string]any `json:"params"`
}

type reportService struct {
	catalogs  repositories.ReportCatalogRepository
	reports   repositories.ReportRepository
	locations repositories.LocationRepository
	access    AccessService
	cacheSvc  caching.CacheService
}

func NewReportService(
	catalogs repositories.ReportCatalogRepository,
	reports repositories.ReportRepository,
	locations repositories.LocationRepository,
	access AccessService,
	cacheSvc caching.CacheService,
) ReportService {
	return &reportService{
		catalogs:  catalogs,
		reports:   reports,
		locations: locations,
		access:    access,
		cacheSvc:  cacheSvc,
	}
}

// Catalog configuration is global and only super admins may change it.

func (s *reportService) ListCatalogs(ctx context.Context, params common.ListParams) (common.Page[*models.ReportCatalog], error) {
	items, total, err := s.catalogs.ListCatalogs(ctx, params)
	if err != nil {
		return common.Page[*models.ReportCatalog]{}, err
	}
	return common.NewPage(items, total, params), nil
}

func (s *reportService) GetCatalog(ctx context.Context, id uuid.UUID) (*models.ReportCatalog, error) {
	return s.catalogs.GetCatalog(ctx, id)
}

func validateCatalog(c *models.ReportCatalog) error {
	v := &apperrors.ValidationError{}
	if strings.TrimSpace(c.Key) == "" {
		v.Add("key", "key is required")
	}
	if strings.TrimSpace(c.Name) == "" {
		v.Add("name", "name is required")
	}
	return v.OrNil()
}

func (s *reportService) CreateCatalog(ctx context.Context, principal *common.Principal, req *models.ReportCatalog) (*models.ReportCatalog, error) {
	if err := requireSuperAdmin(principal); err != nil {
		return nil, err
	}
	if err := validateCatalog(req); err != nil {
		return nil, err
	}
	catalog := &models.ReportCatalog{
		ID:          uuid.New(),
		Key:         strings.TrimSpace(req.Key),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	}
	if err := s.catalogs.UpsertCatalog(ctx, catalog); err != nil {
		return nil, err
	}
	return catalog, nil
}

func (s *reportService) UpdateCatalog(ctx context.Context, principal *common.Principal, id uuid.UUID, req *models.ReportCatalog) (*models.ReportCatalog, error) {
	if err := requireSuperAdmin(principal); err != nil {
		return nil, err
	}
	if err := validateCatalog(req); err != nil {
		return nil, err
	}
	catalog, err := s.catalogs.GetCatalog(ctx, id)
	if err != nil {
		return nil, err
	}
	catalog.Key = strings.TrimSpace(req.Key)
	catalog.Name = strings.TrimSpace(req.Name)
	catalog.Description = req.Description
	if err := s.catalogs.UpdateCatalog(ctx, catalog); err != nil {
		return nil, err
	}
	return catalog, nil
}

func (s *reportService) DeleteCatalog(ctx context.Context, principal *common.Principal, id uuid.UUID) error {
	if err := requireSuperAdmin(principal); err != nil {
		return err
	}
	return s.catalogs.DeleteCatalog(ctx, id)
}

func (s *reportService) ListSections(ctx context.Context, catalogID *uuid.UUID, params common.ListParams) (common.Page[*models.ReportSection], error) {
	items, total, err := s.catalogs.ListSections(ctx, catalogID, params)
	if err != nil {
		return common.Page[*models.ReportSection]{}, err
	}
	return common.NewPage(items, total, params), nil
}

func (s *reportService) GetSection(ctx context.Context, id uuid.UUID) (*models.ReportSection, error) {
	return s.catalogs.GetSection(ctx, id)
}

func (s *reportService) checkSection(ctx context.Context, req *models.ReportSection) error {
	if strings.TrimSpace(req.Name) == "" {
		return apperrors.Invalid("name", "name is required")
	}
	_, err := s.catalogs.GetCatalog(ctx, req.CatalogID)
	return err
}

func (s *reportService) CreateSection(ctx context.Context, principal *common.Principal, req *models.ReportSection) (*models.ReportSection, error) {
	if err := requireSuperAdmin(principal); err != nil {
		return nil, err
	}
	if err := s.checkSection(ctx, req); err != nil {
		return nil, err
	}
	section := &models.ReportSection{
		ID:        uuid.New(),
		CatalogID: req.CatalogID,
		Name:      strings.TrimSpace(req.Name),
		Position:  req.Position,
	}
	if err := s.catalogs.CreateSection(ctx, section); err != nil {
		return nil, err
	}
	return section, nil
}

func (s *reportService) UpdateSection(ctx context.Context, principal *common.Principal, id uuid.UUID, req *models.ReportSection) (*models.ReportSection, error) {
	if err := requireSuperAdmin(principal); err != nil {
		return nil, err
	}
	section, err := s.catalogs.GetSection(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkSection(ctx, req); err != nil {
		return nil, err
	}
	section.CatalogID = req.CatalogID
	section.Name = strings.TrimSpace(req.Name)
	section.Position = req.Position
	if err := s.catalogs.UpdateSection(ctx, section); err != nil {
		return nil, err
	}
	return section, nil
}

func (s *reportService) DeleteSection(ctx context.Context, principal *common.Principal, id uuid.UUID) error {
	if err := requireSuperAdmin(principal); err != nil {
		return err
	}
	return s.catalogs.DeleteSection(ctx, id)
}

func (s *reportService) ListFilters(ctx context.Context, sectionID *uuid.UUID, params common.ListParams) (common.Page[*models.ReportFilter], error) {
	items, total, err := s.catalogs.ListFilters(ctx, sectionID, params)
	if err != nil {
		return common.Page[*models.ReportFilter]{}, err
	}
	return common.NewPage(items, total, params), nil
}

func (s *reportService) GetFilter(ctx context.Context, id uuid.UUID) (*models.ReportFilter, error) {
	return s.catalogs.GetFilter(ctx, id)
}

func (s *reportService) checkFilter(ctx context.Context, req *models.ReportFilter) error {
	v := &apperrors.ValidationError{}
	if strings.TrimSpace(req.Field) == "" {
		v.Add("field", "field is required")
	}
	if strings.TrimSpace(req.Operator) == "" {
		v.Add("operator", "operator is required")
	}
	if err := v.OrNil(); err != nil {
		return err
	}
	_, err := s.catalogs.GetSection(ctx, req.SectionID)
	return err
}

func (s *reportService) CreateFilter(ctx context.Context, principal *common.Principal, req *models.ReportFilter) (*models.ReportFilter, error) {
	if err := requireSuperAdmin(principal); err != nil {
		return nil, err
	}
	if err := s.checkFilter(ctx, req); err != nil {
		return nil, err
	}
	filter := &models.ReportFilter{
		ID:        uuid.New(),
		SectionID: req.SectionID,
		Field:     strings.TrimSpace(req.Field),
		Operator:  strings.TrimSpace(req.Operator),
		Label:     req.Label,
	}
	if err := s.catalogs.CreateFilter(ctx, filter); err != nil {
		return nil, err
	}
	return filter, nil
}

func (s *reportService) UpdateFilter(ctx context.Context, principal *common.Principal, id uuid.UUID, req *models.ReportFilter) (*models.ReportFilter, error) {
	if err := requireSuperAdmin(principal); err != nil {
		return nil, err
	}
	filter, err := s.catalogs.GetFilter(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkFilter(ctx, req); err != nil {
		return nil, err
	}
	filter.SectionID = req.SectionID
	filter.Field = strings.TrimSpace(req.Field)
	filter.Operator = strings.TrimSpace(req.Operator)
	filter.Label = req.Label
	if err := s.catalogs.UpdateFilter(ctx, filter); err != nil {
		return nil, err
	}
	return filter, nil
}

func (s *reportService) DeleteFilter(ctx context.Context, principal *common.Principal, id uuid.UUID) error {
	if err := requireSuperAdmin(principal); err != nil {
		return err
	}
	return s.catalogs.DeleteFilter(ctx, id)
}

func (s *reportService) checkReport(ctx context.Context, principal *common.Principal, req *ReportRequest) error {
	v := &apperrors.ValidationError{}
	if strings.TrimSpace(req.Name) == "" {
		v.Add("name", "name is required")
	}
	if _, err := s.catalogs.GetCatalog(ctx, req.CatalogID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		v.Add("catalogID", "catalogID must reference a report catalog")
	}
	if err := v.OrNil(); err != nil {
		return err
	}
	if req.LocationID != nil {
		if _, err := s.locations.GetByID(ctx, principal.CustomerID, *req.LocationID); err != nil {
			return err
		}
		return s.access.RequireLocation(ctx, principal, *req.LocationID)
	}
	return nil
}

func (s *reportService) Create(ctx context.Context, principal *common.Principal, req *ReportRequest) (*models.Report, error) {
	if err := s.checkReport(ctx, principal, req); err != nil {
		return nil, err
	}
	params := req.Params
	if params == nil {
		params = map[string]any{}
	}
	report := &models.Report{
		ID:         uuid.New(),
		CustomerID: principal.CustomerID,
		CatalogID:  req.CatalogID,
		LocationID: req.LocationID,
		Name:       strings.TrimSpace(req.Name),
		Params:     params,
		CreatedBy:  principal.UserID,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *reportService) Get(ctx context.Context, principal *common.Principal, id uuid.UUID) (*models.Report, error) {
	report, err := s.reports.GetByID(ctx, principal.CustomerID, id)
	if err != nil {
		return nil, err
	}
	if report.LocationID != nil {
		if err := s.access.RequireLocation(ctx, principal, *report.LocationID); err != nil {
			return nil, err
		}
	}
	return report, nil
}

// owned loads a report the principal may change: its own, or any report for admins.
func (s *reportService) owned(ctx context.Context, principal *common.Principal, id uuid.UUID) (*models.Report, error) {
	report, err := s.Get(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if report.CreatedBy != principal.UserID && !principal.IsAdmin() {
		return nil, apperrors.Forbidden("only the author or an administrator may change this report")
	}
	return report, nil
}

func (s *reportService) Update(ctx context.Context, principal *common.Principal, id uuid.UUID, req *ReportRequest) (*models.Report, error) {
	report, err := s.owned(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkReport(ctx, principal, req); err != nil {
		return nil, err
	}
	report.Name = strings.TrimSpace(req.Name)
	report.CatalogID = req.CatalogID
	report.LocationID = req.LocationID
	if req.Params != nil {
		report.Params = req.Params
	}
	if err := s.reports.Update(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *reportService) Delete(ctx context.Context, principal *common.Principal, id uuid.UUID) error {
	if _, err := s.owned(ctx, principal, id); err != nil {
		return err
	}
	return s.reports.Delete(ctx, principal.CustomerID, id)
}

func (s *reportService) List(ctx context.Context, principal *common.Principal, filters models.ReportFilters, params common.ListParams) (common.Page[*models.Report], error) {
	scope, err := s.access.Scope(ctx, principal)
	if err != nil {
		return common.Page[*models.Report]{}, err
	}
	items, total, err := s.reports.List(ctx, principal.CustomerID, scope, filters, params)
	if err != nil {
		return common.Page[*models.Report]{}, err
	}
	return common.NewPage(items, total, params), nil
}

// TaskStatus returns the colour breakdown per group. Results are cached per customer,
// caller scope and query.
func (s *reportService) TaskStatus(ctx context.Context, principal *common.Principal, query models.TaskStatusQuery) ([]models.TaskStatusGroup, error) {
	if query.GroupBy != models.GroupByTopic && query.GroupBy != models.GroupByLocation {
		return nil, apperrors.Invalid("groupBy", "groupBy must be one of: topic, location")
	}
	if err := checkRange("dueFrom", "dueTo", query.DueFrom, query.DueTo); err != nil {
		return nil, err
	}
	scope, err := s.access.Scope(ctx, principal)
	if err != nil {
		return nil, err
	}

	log := logging.FromContext(ctx)
	key := taskStatusCacheKey(principal.CustomerID, scope, query)
	var cached []models.TaskStatusGroup
	if err := s.cacheSvc.GetJSON(ctx, key, &cached); err == nil {
		return cached, nil
	} else if !errors.Is(err, caching.ErrMiss) {
		log.Warn().Err(err).Msg("report cache read failed")
	}

	counts, err := s.reports.TaskStatusCounts(ctx, principal.CustomerID, scope, query)
	if err != nil {
		return nil, err
	}
	groups := BuildTaskStatusGroups(counts)
	if err := s.cacheSvc.SetJSON(ctx, key, groups, reportCacheTTL); err != nil {
		log.Warn().Err(err).Msg("report cache write failed")
	}
	return groups, nil
}

func taskStatusCacheKey(customerID uuid.UUID, scope models.LocationScope, query models.TaskStatusQuery) string {
	raw, _ := json.Marshal(struct {
		Scope models.LocationScope
		Query models.TaskStatusQuery
	}{scope, query})
	sum := sha256.Sum256(raw)
	return caching.ReportPrefix(customerID) + ":task_status:" + hex.EncodeToString(sum[:16])
}

// BuildTaskStatusGroups folds (group, colour) counts into one entry per group, in input order.
// Every colour is present in counts and percentages.
func BuildTaskStatusGroups(counts []models.TaskStatusCount) []models.TaskStatusGroup {
	groups := make([]models.TaskStatusGroup, 0)
	index := make(map[uuid.UUID]int)
	nilGroup := -1

	for _, c := range counts {
		var pos int
		var ok bool
		if c.GroupID == nil {
			pos, ok = nilGroup, nilGroup >= 0
		} else {
			pos, ok = index[*c.GroupID]
		}
		if !ok {
			g := models.TaskStatusGroup{
				GroupID:     c.GroupID,
				GroupName:   c.GroupName,
				Counts:      make(map[string]int, len(models.AllColors)),
				Percentages: make(map[string]float64, len(models.AllColors)),
			}
			for _, color := range models.AllColors {
				g.Counts[color] = 0
				g.Percentages[color] = 0
			}
			groups = append(groups, g)
			pos = len(groups) - 1
			if c.GroupID == nil {
				nilGroup = pos
			} else {
				index[*c.GroupID] = pos
			}
		}
		groups[pos].Counts[c.Color] += c.Count
		groups[pos].Total += c.Count
	}

	for i := range groups {
		g := &groups[i]
		if g.Total == 0 {
			continue
		}
		for color, n := range g.Counts {
			g.Percentages[color] = round2(float64(n) * 100 / float64(g.Total))
		}
	}
	return groups
}

// InvalidateReports drops every cached report of a customer.
func InvalidateReports(ctx context.Context, cacheSvc caching.CacheService, customerID uuid.UUID) {
	if cacheSvc == nil {
		return
	}
	if err := cacheSvc.InvalidatePrefix(ctx, caching.ReportPrefix(customerID)); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("report cache invalidation failed")
	}
}
