package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"taskboard/internal/apperrors"
	"taskboard/internal/caching"
	"taskboard/internal/common"
	"taskboard/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ReportServiceTestSuite struct {
	suite.Suite
	catalogs   *MockReportCatalogRepository
	reports    *MockReportRepository
	locations  *MockLocationRepository
	securities *MockSecurityRepository
	cache      *MockCacheService
	service    ReportService
	ctx        context.Context
	customerID uuid.UUID
	locationID uuid.UUID
	principal  *common.Principal
}

func (suite *ReportServiceTestSuite) SetupTest() {
	suite.catalogs = new(MockReportCatalogRepository)
	suite.reports = new(MockReportRepository)
	suite.locations = new(MockLocationRepository)
	suite.securities = new(MockSecurityRepository)
	suite.cache = new(MockCacheService)
	suite.service = NewReportService(suite.catalogs, suite.reports, suite.locations, NewAccessService(suite.securities), suite.cache)
	suite.ctx = context.Background()
	suite.customerID = uuid.New()
	suite.locationID = uuid.New()
	suite.principal = userPrincipal(suite.customerID)
	suite.securities.On("LocationIDsForUser", suite.ctx, suite.customerID, suite.principal.UserID).Return([]uuid.UUID{suite.locationID}, nil).Maybe()
}

func (suite *ReportServiceTestSuite) TearDownTest() {
	suite.catalogs.AssertExpectations(suite.T())
	suite.reports.AssertExpectations(suite.T())
	suite.cache.AssertExpectations(suite.T())
}

func (suite *ReportServiceTestSuite) TestTaskStatus_InvalidGroupBy() {
	_, err := suite.service.TaskStatus(suite.ctx, suite.principal, models.TaskStatusQuery{GroupBy: "user"})

	var v *apperrors.ValidationError
	require.True(suite.T(), errors.As(err, &v))
	assert.Contains(suite.T(), v.Fields, "groupBy")
}

func (suite *ReportServiceTestSuite) TestTaskStatus_HalfRange() {
	to := time.Now()
	_, err := suite.service.TaskStatus(suite.ctx, suite.principal, models.TaskStatusQuery{GroupBy: models.GroupByTopic, DueTo: &to})

	assert.True(suite.T(), errors.Is(err, apperrors.ErrValidation))
}

func (suite *ReportServiceTestSuite) TestTaskStatus_CacheMissComputesAndStores() {
	query := models.TaskStatusQuery{GroupBy: models.GroupByLocation}
	scope := models.RestrictedTo([]uuid.UUID{suite.locationID})
	counts := []models.TaskStatusCount{
		{GroupID: &suite.locationID, GroupName: "HQ", Color: models.ColorGreen, Count: 1},
		{GroupID: &suite.locationID, GroupName: "HQ", Color: models.ColorRed, Count: 1},
	}
	suite.cache.On("GetJSON", suite.ctx, mock.MatchedBy(func(key string) bool {
		return len(key) > len(caching.ReportPrefix(suite.customerID))
	}), mock.Anything).Return(caching.ErrMiss)
	suite.reports.On("TaskStatusCounts", suite.ctx, suite.customerID, scope, query).Return(counts, nil)
	suite.cache.On("SetJSON", suite.ctx, mock.AnythingOfType("string"), mock.AnythingOfType("[]models.TaskStatusGroup"), reportCacheTTL).Return(nil)

	groups, err := suite.service.TaskStatus(suite.ctx, suite.principal, query)

	require.NoError(suite.T(), err)
	require.Len(suite.T(), groups, 1)
	assert.Equal(suite.T(), 2, groups[0].Total)
	assert.Equal(suite.T(), 50.0, groups[0].Percentages[models.ColorGreen])
}

func (suite *ReportServiceTestSuite) TestTaskStatus_CacheHit() {
	cached := []models.TaskStatusGroup{{GroupName: "HQ", Total: 9}}
	suite.cache.On("GetJSON", suite.ctx, mock.AnythingOfType("string"), mock.AnythingOfType("*[]models.TaskStatusGroup")).
		Run(func(args mock.Arguments) {
			*args.Get(2).(*[]models.TaskStatusGroup) = cached
		}).Return(nil)

	groups, err := suite.service.TaskStatus(suite.ctx, suite.principal, models.TaskStatusQuery{GroupBy: models.GroupByTopic})

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), cached, groups)
	suite.reports.AssertNotCalled(suite.T(), "TaskStatusCounts", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReportServiceTestSuite) TestTaskStatusCacheKey_DependsOnScope() {
	query := models.TaskStatusQuery{GroupBy: models.GroupByTopic}
	a := taskStatusCacheKey(suite.customerID, models.Unrestricted(), query)
	b := taskStatusCacheKey(suite.customerID, models.RestrictedTo([]uuid.UUID{suite.locationID}), query)

	assert.NotEqual(suite.T(), a, b)
	assert.Equal(suite.T(), a, taskStatusCacheKey(suite.customerID, models.Unrestricted(), query))
}

func (suite *ReportServiceTestSuite) TestCreate_UnknownCatalog() {
	catalogID := uuid.New()
	suite.catalogs.On("GetCatalog", suite.ctx, catalogID).Return(nil, apperrors.NotFound("report catalog"))

	_, err := suite.service.Create(suite.ctx, suite.principal, &ReportRequest{Name: "Weekly", CatalogID: catalogID})

	var v *apperrors.ValidationError
	require.True(suite.T(), errors.As(err, &v))
	assert.Contains(suite.T(), v.Fields, "catalogID")
}

func (suite *ReportServiceTestSuite) TestCreate() {
	catalogID := uuid.New()
	suite.catalogs.On("GetCatalog", suite.ctx, catalogID).Return(&models.ReportCatalog{ID: catalogID}, nil)
	suite.locations.On("GetByID", suite.ctx, suite.customerID, suite.locationID).Return(&models.Location{ID: suite.locationID}, nil)
	suite.reports.On("Create", suite.ctx, mock.AnythingOfType("*models.Report")).Return(nil)

	report, err := suite.service.Create(suite.ctx, suite.principal, &ReportRequest{Name: " Weekly ", CatalogID: catalogID, LocationID: &suite.locationID})

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Weekly", report.Name)
	assert.Equal(suite.T(), suite.principal.UserID, report.CreatedBy)
	assert.NotNil(suite.T(), report.Params)
}

func (suite *ReportServiceTestSuite) TestDelete_NotAuthor() {
	report := &models.Report{ID: uuid.New(), CustomerID: suite.customerID, CreatedBy: uuid.New()}
	suite.reports.On("GetByID", suite.ctx, suite.customerID, report.ID).Return(report, nil)

	err := suite.service.Delete(suite.ctx, suite.principal, report.ID)

	assert.True(suite.T(), errors.Is(err, apperrors.ErrForbidden))
}

func (suite *ReportServiceTestSuite) TestDelete_AdminMayDeleteAnyReport() {
	admin := adminPrincipal(suite.customerID)
	report := &models.Report{ID: uuid.New(), CustomerID: suite.customerID, CreatedBy: uuid.New()}
	suite.reports.On("GetByID", suite.ctx, suite.customerID, report.ID).Return(report, nil)
	suite.reports.On("Delete", suite.ctx, suite.customerID, report.ID).Return(nil)

	err := suite.service.Delete(suite.ctx, admin, report.ID)

	assert.NoError(suite.T(), err)
}

func (suite *ReportServiceTestSuite) TestCreateCatalog_RequiresSuperAdmin() {
	_, err := suite.service.CreateCatalog(suite.ctx, adminPrincipal(suite.customerID), &models.ReportCatalog{Key: "k", Name: "n"})

	assert.True(suite.T(), errors.Is(err, apperrors.ErrForbidden))
}

func (suite *ReportServiceTestSuite) TestCreateCatalog() {
	super := &common.Principal{UserID: uuid.New(), CustomerID: suite.customerID, UserType: common.UserTypeSuperAdmin}
	suite.catalogs.On("UpsertCatalog", suite.ctx, mock.AnythingOfType("*models.ReportCatalog")).Return(nil)

	catalog, err := suite.service.CreateCatalog(suite.ctx, super, &models.ReportCatalog{Key: " task_status ", Name: "Task status"})

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "task_status", catalog.Key)
}

func TestReportServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportServiceTestSuite))
}

func TestInvalidateReportsNilCache(t *testing.T) {
	assert.NotPanics(t, func() { InvalidateReports(context.Background(), nil, uuid.New()) })
}
