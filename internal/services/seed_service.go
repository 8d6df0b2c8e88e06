package services

import (
	"context"
	"fmt"

	"taskboard/internal/config"
	"taskboard/internal/logging"
	"taskboard/internal/models"
	"taskboard/internal/repositories"

	"github.com/google/uuid"
)

// SeedService applies the global reference data of a seed file. Applying the same file twice
// leaves the database unchanged.
type SeedService interface {
	Apply(ctx context.Context, seed *config.Seed) (*SeedResult, error)
}

type SeedResult struct {
	Creds    int
	Catalogs int
	Sections int
	Filters  int
}

type seedService struct {
	creds    repositories.CredRepository
	catalogs repositories.ReportCatalogRepository
}

func NewSeedService(creds repositories.CredRepository, catalogs repositories.ReportCatalogRepository) SeedService {
	return &seedService{creds: creds, catalogs: catalogs}
}

func (s *seedService) Apply(ctx context.Context, seed *config.Seed) (*SeedResult, error) {
	log := logging.FromContext(ctx)
	result := &SeedResult{}

	for _, c := range seed.Creds {
		cred := &models.Cred{ID: uuid.New(), Code: c.Code, Description: c.Description}
		if err := s.creds.Upsert(ctx, cred); err != nil {
			return result, fmt.Errorf("seed cred %s: %w", c.Code, err)
		}
		result.Creds++
	}

	for _, rc := range seed.ReportCatalogs {
		catalog := &models.ReportCatalog{ID: uuid.New(), Key: rc.Key, Name: rc.Name, Description: rc.Description}
		if err := s.catalogs.UpsertCatalog(ctx, catalog); err != nil {
			return result, fmt.Errorf("seed report catalog %s: %w", rc.Key, err)
		}

		sections := make([]*models.ReportSection, 0, len(rc.Sections))
		filters := make(map[uuid.UUID][]*models.ReportFilter)
		for _, sec := range rc.Sections {
			section := &models.ReportSection{ID: uuid.New(), CatalogID: catalog.ID, Name: sec.Name, Position: sec.Position}
			sections = append(sections, section)
			for _, f := range sec.Filters {
				filters[section.ID] = append(filters[section.ID], &models.ReportFilter{
					ID:        uuid.New(),
					SectionID: section.ID,
					Field:     f.Field,
					Operator:  f.Operator,
					Label:     f.Label,
				})
				result.Filters++
			}
		}
		if err := s.catalogs.ReplaceSections(ctx, catalog.ID, sections, filters); err != nil {
			return result, fmt.Errorf("seed sections of %s: %w", rc.Key, err)
		}
		result.Catalogs++
		result.Sections += len(sections)
	}

	log.Info().
		Int("creds", result.Creds).
		Int("catalogs", result.Catalogs).
		Int("sections", result.Sections).
		Int("filters", result.Filters).
		Msg("seed applied")
	return result, nil
}
