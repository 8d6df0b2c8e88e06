package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"taskboard/internal/apperrors"
	"taskboard/internal/caching"
	"taskboard/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type MaintenanceServiceTestSuite struct {
	suite.Suite
	customers *MockCustomerRepository
	tasks     *MockTaskRepository
	notifier  *MockTaskNotifier
	cache     *MockCacheService
	service   *maintenanceService
	ctx       context.Context
	now       time.Time
	customer  *models.Customer
}

func (suite *MaintenanceServiceTestSuite) SetupTest() {
	suite.customers = new(MockCustomerRepository)
	suite.tasks = new(MockTaskRepository)
	suite.notifier = new(MockTaskNotifier)
	suite.cache = new(MockCacheService)
	suite.service = NewMaintenanceService(suite.customers, suite.tasks, suite.notifier, suite.cache, TaskConfig{DueSoonWindow: 48 * time.Hour}).(*maintenanceService)
	suite.now = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	suite.service.now = func() time.Time { return suite.now }
	suite.ctx = context.Background()
	suite.customer = &models.Customer{ID: uuid.New(), Active: true}
	suite.customers.On("ListActive", suite.ctx).Return([]*models.Customer{suite.customer}, nil)
	suite.cache.On("InvalidatePrefix", suite.ctx, caching.ReportPrefix(suite.customer.ID)).Return(nil).Maybe()
}

func (suite *MaintenanceServiceTestSuite) TearDownTest() {
	suite.customers.AssertExpectations(suite.T())
	suite.tasks.AssertExpectations(suite.T())
	suite.notifier.AssertExpectations(suite.T())
}

func (suite *MaintenanceServiceTestSuite) template(recurrence string, mut func(*models.Task)) *models.Task {
	t := &models.Task{
		ID:         uuid.New(),
		CustomerID: suite.customer.ID,
		LocationID: uuid.New(),
		Title:      "Weekly walkthrough",
		Type:       models.TaskTypeRecurring,
		IsTemplate: true,
		Recurrence: &recurrence,
		CreatedAt:  suite.now.Add(-30 * 24 * time.Hour),
	}
	if mut != nil {
		mut(t)
	}
	return t
}

func (suite *MaintenanceServiceTestSuite) TestRefreshColors_SkipsFailingCustomer() {
	other := &models.Customer{ID: uuid.New(), Active: true}
	suite.customers.ExpectedCalls = nil
	suite.customers.On("ListActive", suite.ctx).Return([]*models.Customer{suite.customer, other}, nil)
	soon := suite.now.Add(48 * time.Hour)
	suite.tasks.On("RefreshColors", suite.ctx, suite.customer.ID, suite.now, soon).Return(int64(0), errors.New("boom"))
	suite.tasks.On("RefreshColors", suite.ctx, other.ID, suite.now, soon).Return(int64(7), nil)
	suite.cache.On("InvalidatePrefix", suite.ctx, caching.ReportPrefix(other.ID)).Return(nil).Once()

	n, err := suite.service.RefreshColors(suite.ctx)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(7), n)
	suite.cache.AssertNotCalled(suite.T(), "InvalidatePrefix", suite.ctx, caching.ReportPrefix(suite.customer.ID))
	suite.cache.AssertExpectations(suite.T())
}

func (suite *MaintenanceServiceTestSuite) TestRefreshColors_UnchangedKeepsCache() {
	suite.tasks.On("RefreshColors", suite.ctx, suite.customer.ID, suite.now, suite.now.Add(48*time.Hour)).Return(int64(0), nil)

	_, err := suite.service.RefreshColors(suite.ctx)

	require.NoError(suite.T(), err)
	suite.cache.AssertNotCalled(suite.T(), "InvalidatePrefix", mock.Anything, mock.Anything)
}

func (suite *MaintenanceServiceTestSuite) TestInstantiate_NoInstanceYet() {
	due := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	userID := uuid.New()
	tmpl := suite.template(models.RecurrenceWeekly, func(t *models.Task) { t.DueAt = &due; t.AssignedUserID = &userID })
	suite.tasks.On("ListRecurringTemplates", suite.ctx, suite.customer.ID).Return([]*models.Task{tmpl}, nil)
	suite.tasks.On("LatestInstanceDue", suite.ctx, suite.customer.ID, tmpl.ID).Return(nil, false, nil)

	var instance *models.Task
	suite.tasks.On("Instantiate", suite.ctx, mock.AnythingOfType("*models.Task"), mock.Anything).
		Run(func(args mock.Arguments) { instance = args.Get(1).(*models.Task) }).Return(nil)
	suite.notifier.On("TaskAssigned", suite.ctx, mock.AnythingOfType("*models.Task")).Return(nil)

	n, err := suite.service.InstantiateRecurring(suite.ctx)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, n)
	suite.cache.AssertCalled(suite.T(), "InvalidatePrefix", suite.ctx, caching.ReportPrefix(suite.customer.ID))
	require.NotNil(suite.T(), instance)
	assert.Equal(suite.T(), time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC), *instance.DueAt)
	assert.Equal(suite.T(), tmpl.ID, *instance.TemplateID)
	assert.False(suite.T(), instance.IsTemplate)
	assert.Nil(suite.T(), instance.Recurrence)
	assert.NotEqual(suite.T(), tmpl.ID, instance.ID)
}

func (suite *MaintenanceServiceTestSuite) TestInstantiate_LatestStillInFuture() {
	tmpl := suite.template(models.RecurrenceDaily, nil)
	future := suite.now.Add(6 * time.Hour)
	suite.tasks.On("ListRecurringTemplates", suite.ctx, suite.customer.ID).Return([]*models.Task{tmpl}, nil)
	suite.tasks.On("LatestInstanceDue", suite.ctx, suite.customer.ID, tmpl.ID).Return(&future, true, nil)

	n, err := suite.service.InstantiateRecurring(suite.ctx)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, n)
	suite.tasks.AssertNotCalled(suite.T(), "Instantiate", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *MaintenanceServiceTestSuite) TestInstantiate_SetClonesChildren() {
	tmpl := suite.template(models.RecurrenceMonthly, func(t *models.Task) { t.IsTaskSet = true })
	latest := time.Date(2024, 2, 20, 9, 0, 0, 0, time.UTC)
	kids := []*models.Task{
		{ID: uuid.New(), CustomerID: suite.customer.ID, LocationID: tmpl.LocationID, Title: "Step 1", Type: models.TaskTypeEvent, TaskSetTemplateID: &tmpl.ID},
		{ID: uuid.New(), CustomerID: suite.customer.ID, LocationID: tmpl.LocationID, Title: "Step 2", Type: models.TaskTypeEvent, TaskSetTemplateID: &tmpl.ID},
	}
	suite.tasks.On("ListRecurringTemplates", suite.ctx, suite.customer.ID).Return([]*models.Task{tmpl}, nil)
	suite.tasks.On("LatestInstanceDue", suite.ctx, suite.customer.ID, tmpl.ID).Return(&latest, true, nil)
	suite.tasks.On("ListChildren", suite.ctx, suite.customer.ID, tmpl.ID).Return(kids, nil)

	var instance *models.Task
	var children []*models.Task
	suite.tasks.On("Instantiate", suite.ctx, mock.AnythingOfType("*models.Task"), mock.AnythingOfType("[]*models.Task")).
		Run(func(args mock.Arguments) {
			instance = args.Get(1).(*models.Task)
			children = args.Get(2).([]*models.Task)
		}).Return(nil)

	n, err := suite.service.InstantiateRecurring(suite.ctx)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, n)
	assert.Equal(suite.T(), time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC), *instance.DueAt)
	require.Len(suite.T(), children, 2)
	for _, c := range children {
		assert.Equal(suite.T(), instance.ID, *c.TaskSetTemplateID)
		assert.Equal(suite.T(), *instance.DueAt, *c.DueAt)
		assert.Equal(suite.T(), models.ColorWhite, c.Color)
	}
}

func (suite *MaintenanceServiceTestSuite) TestInstantiate_FailingTemplateSkipped() {
	bad := suite.template(models.RecurrenceDaily, nil)
	good := suite.template(models.RecurrenceDaily, nil)
	suite.tasks.On("ListRecurringTemplates", suite.ctx, suite.customer.ID).Return([]*models.Task{bad, good}, nil)
	suite.tasks.On("LatestInstanceDue", suite.ctx, suite.customer.ID, bad.ID).Return(nil, false, errors.New("boom"))
	suite.tasks.On("LatestInstanceDue", suite.ctx, suite.customer.ID, good.ID).Return(nil, true, nil)
	suite.tasks.On("Instantiate", suite.ctx, mock.AnythingOfType("*models.Task"), mock.Anything).Return(nil)

	n, err := suite.service.InstantiateRecurring(suite.ctx)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, n)
}

func (suite *MaintenanceServiceTestSuite) TestInstantiate_InstanceCreatedElsewhereSkipped() {
	tmpl := suite.template(models.RecurrenceDaily, nil)
	suite.tasks.On("ListRecurringTemplates", suite.ctx, suite.customer.ID).Return([]*models.Task{tmpl}, nil)
	suite.tasks.On("LatestInstanceDue", suite.ctx, suite.customer.ID, tmpl.ID).Return(nil, false, nil)
	suite.tasks.On("Instantiate", suite.ctx, mock.AnythingOfType("*models.Task"), mock.Anything).
		Return(apperrors.Conflict("template already has an instance due then"))

	n, err := suite.service.InstantiateRecurring(suite.ctx)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, n)
	suite.cache.AssertNotCalled(suite.T(), "InvalidatePrefix", mock.Anything, mock.Anything)
}

func TestMaintenanceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MaintenanceServiceTestSuite))
}
