package services

import (
	"context"
	"testing"

	"taskboard/internal/apperrors"
	"taskboard/internal/common"
	"taskboard/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockAssessmentRepository struct{ mock.Mock }

func (m *MockAssessmentRepository) Create(ctx context.Context, info *models.TasksAssessmentInfo) error {
	return m.Called(ctx, info).Error(0)
}

func (m *MockAssessmentRepository) GetByID(ctx context.Context, customerID, id uuid.UUID) (*models.TasksAssessmentInfo, error) {
	args := m.Called(ctx, customerID, id)
	return got[*models.TasksAssessmentInfo](args, 0), args.Error(1)
}

func (m *MockAssessmentRepository) Update(ctx context.Context, info *models.TasksAssessmentInfo) error {
	return m.Called(ctx, info).Error(0)
}

func (m *MockAssessmentRepository) Delete(ctx context.Context, customerID, id uuid.UUID) error {
	return m.Called(ctx, customerID, id).Error(0)
}

func (m *MockAssessmentRepository) List(ctx context.Context, customerID uuid.UUID, scope models.LocationScope, filters models.AssessmentFilters, params common.ListParams) ([]*models.TasksAssessmentInfo, int, error) {
	args := m.Called(ctx, customerID, scope, filters, params)
	return got[[]*models.TasksAssessmentInfo](args, 0), args.Int(1), args.Error(2)
}

type AssessmentServiceTestSuite struct {
	suite.Suite
	assessments *MockAssessmentRepository
	tasks       *MockTaskRepository
	securities  *MockSecurityRepository
	service     AssessmentService
	ctx         context.Context
	customerID  uuid.UUID
	admin       *common.Principal
	task        *models.Task
}

func (suite *AssessmentServiceTestSuite) SetupTest() {
	suite.assessments = new(MockAssessmentRepository)
	suite.tasks = new(MockTaskRepository)
	suite.securities = new(MockSecurityRepository)
	suite.service = NewAssessmentService(suite.assessments, suite.tasks, NewAccessService(suite.securities))
	suite.ctx = context.Background()
	suite.customerID = uuid.New()
	suite.admin = adminPrincipal(suite.customerID)
	suite.task = &models.Task{
		ID:         uuid.New(),
		CustomerID: suite.customerID,
		LocationID: uuid.New(),
		Title:      "Quarterly fire drill",
		Type:       models.TaskTypeAssessment,
	}
}

func (suite *AssessmentServiceTestSuite) TearDownTest() {
	suite.assessments.AssertExpectations(suite.T())
	suite.tasks.AssertExpectations(suite.T())
	suite.securities.AssertExpectations(suite.T())
}

func (suite *AssessmentServiceTestSuite) TestCreate() {
	suite.tasks.On("GetByID", suite.ctx, suite.customerID, suite.task.ID).Return(suite.task, nil)
	suite.assessments.On("Create", suite.ctx, mock.AnythingOfType("*models.TasksAssessmentInfo")).Return(nil)

	info, err := suite.service.Create(suite.ctx, suite.admin, &AssessmentRequest{TaskID: suite.task.ID, Score: 8, MaxScore: 10, Notes: "two exits blocked"})

	suite.Require().NoError(err)
	suite.Equal(suite.customerID, info.CustomerID)
	suite.Equal(8.0, info.Score)
	suite.Require().NotNil(info.AssessedBy)
	suite.Equal(suite.admin.UserID, *info.AssessedBy)
}

func (suite *AssessmentServiceTestSuite) TestCreate_RejectsNonAssessmentTask() {
	suite.task.Type = models.TaskTypeEvent
	suite.tasks.On("GetByID", suite.ctx, suite.customerID, suite.task.ID).Return(suite.task, nil)

	_, err := suite.service.Create(suite.ctx, suite.admin, &AssessmentRequest{TaskID: suite.task.ID, Score: 1, MaxScore: 10})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.assessments.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
}

func (suite *AssessmentServiceTestSuite) TestCreate_ValidatesScores() {
	_, err := suite.service.Create(suite.ctx, suite.admin, &AssessmentRequest{TaskID: suite.task.ID, Score: 12, MaxScore: 10})

	var verr *apperrors.ValidationError
	suite.Require().ErrorAs(err, &verr)
	suite.Contains(verr.Fields, "score")
	suite.tasks.AssertNotCalled(suite.T(), "GetByID", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AssessmentServiceTestSuite) TestCreate_HiddenLocationForbidden() {
	user := userPrincipal(suite.customerID)
	suite.tasks.On("GetByID", suite.ctx, suite.customerID, suite.task.ID).Return(suite.task, nil)
	suite.securities.On("LocationIDsForUser", suite.ctx, suite.customerID, user.UserID).Return([]uuid.UUID{uuid.New()}, nil)

	_, err := suite.service.Create(suite.ctx, user, &AssessmentRequest{TaskID: suite.task.ID, Score: 5, MaxScore: 10})

	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *AssessmentServiceTestSuite) TestDelete() {
	id := uuid.New()
	suite.assessments.On("GetByID", suite.ctx, suite.customerID, id).
		Return(&models.TasksAssessmentInfo{ID: id, CustomerID: suite.customerID, TaskID: suite.task.ID}, nil)
	suite.tasks.On("GetByID", suite.ctx, suite.customerID, suite.task.ID).Return(suite.task, nil)
	suite.assessments.On("Delete", suite.ctx, suite.customerID, id).Return(nil)

	suite.NoError(suite.service.Delete(suite.ctx, suite.admin, id))
}

func TestAssessmentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AssessmentServiceTestSuite))
}
