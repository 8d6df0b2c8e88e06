package services

import (
	"context"
	"errors"
	"testing"

	"taskboard/internal/config"
	"taskboard/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testSeed() *config.Seed {
	return &config.Seed{
		Creds: []config.SeedCred{
			{Code: models.CredTasksView, Description: "View tasks"},
			{Code: models.CredTasksManage, Description: "Manage tasks"},
		},
		ReportCatalogs: []config.SeedReportCatalog{{
			Key:  "task_status",
			Name: "Task status",
			Sections: []config.SeedReportSection{
				{Name: "Filters", Position: 1, Filters: []config.SeedReportFilter{
					{Field: "topic", Operator: "eq", Label: "Topic"},
					{Field: "location", Operator: "eq", Label: "Location"},
				}},
				{Name: "Dates", Position: 2},
			},
		}},
	}
}

func TestSeedApply(t *testing.T) {
	ctx := context.Background()
	creds := new(MockCredRepository)
	catalogs := new(MockReportCatalogRepository)
	stored := uuid.New()

	creds.On("Upsert", ctx, mock.AnythingOfType("*models.Cred")).Return(nil).Twice()
	catalogs.On("UpsertCatalog", ctx, mock.AnythingOfType("*models.ReportCatalog")).
		Run(func(args mock.Arguments) { args.Get(1).(*models.ReportCatalog).ID = stored }).
		Return(nil)
	catalogs.On("ReplaceSections", ctx, stored, mock.MatchedBy(func(s []*models.ReportSection) bool {
		return len(s) == 2 && s[0].CatalogID == stored && s[1].Position == 2
	}), mock.MatchedBy(func(f map[uuid.UUID][]*models.ReportFilter) bool {
		return len(f) == 1
	})).Return(nil)

	result, err := NewSeedService(creds, catalogs).Apply(ctx, testSeed())

	require.NoError(t, err)
	assert.Equal(t, &SeedResult{Creds: 2, Catalogs: 1, Sections: 2, Filters: 2}, result)
	creds.AssertExpectations(t)
	catalogs.AssertExpectations(t)
}

func TestSeedApplyStopsOnError(t *testing.T) {
	ctx := context.Background()
	creds := new(MockCredRepository)
	catalogs := new(MockReportCatalogRepository)
	creds.On("Upsert", ctx, mock.Anything).Return(errors.New("db down")).Once()

	result, err := NewSeedService(creds, catalogs).Apply(ctx, testSeed())

	assert.Error(t, err)
	assert.Equal(t, 0, result.Creds)
	catalogs.AssertNotCalled(t, "UpsertCatalog", mock.Anything, mock.Anything)
}
