package services

import (
	"context"
	"errors"
	"testing"

	"taskboard/internal/apperrors"
	"taskboard/internal/common"
	"taskboard/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type TopicServiceTestSuite struct {
	suite.Suite
	topics     *MockTopicRepository
	service    TopicService
	ctx        context.Context
	customerID uuid.UUID
	admin      *common.Principal
}

func (suite *TopicServiceTestSuite) SetupTest() {
	suite.topics = new(MockTopicRepository)
	suite.service = NewTopicService(suite.topics)
	suite.ctx = context.Background()
	suite.customerID = uuid.New()
	suite.admin = adminPrincipal(suite.customerID)
}

func (suite *TopicServiceTestSuite) TearDownTest() {
	suite.topics.AssertExpectations(suite.T())
}

func (suite *TopicServiceTestSuite) TestCreate_WithParent() {
	parent := &models.Topic{ID: uuid.New(), CustomerID: suite.customerID}
	suite.topics.On("GetByID", suite.ctx, suite.customerID, parent.ID).Return(parent, nil)
	suite.topics.On("AncestorIDs", suite.ctx, suite.customerID, parent.ID).Return([]uuid.UUID{}, nil)
	suite.topics.On("Create", suite.ctx, mock.AnythingOfType("*models.Topic")).Return(nil)

	topic, err := suite.service.Create(suite.ctx, suite.admin, &TopicRequest{Name: " Safety ", TopicParentID: &parent.ID})

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Safety", topic.Name)
	assert.Equal(suite.T(), parent.ID, *topic.TopicParentID)
}

func (suite *TopicServiceTestSuite) TestCreate_RequiresAdmin() {
	_, err := suite.service.Create(suite.ctx, userPrincipal(suite.customerID), &TopicRequest{Name: "Safety"})

	assert.True(suite.T(), errors.Is(err, apperrors.ErrForbidden))
}

func (suite *TopicServiceTestSuite) TestUpdate_OwnParent() {
	topic := &models.Topic{ID: uuid.New(), CustomerID: suite.customerID}
	suite.topics.On("GetByID", suite.ctx, suite.customerID, topic.ID).Return(topic, nil)

	_, err := suite.service.Update(suite.ctx, suite.admin, topic.ID, &TopicRequest{Name: "x", TopicParentID: &topic.ID})

	assert.True(suite.T(), errors.Is(err, apperrors.ErrValidation))
}

func (suite *TopicServiceTestSuite) TestUpdate_Cycle() {
	topic := &models.Topic{ID: uuid.New(), CustomerID: suite.customerID}
	grandchild := &models.Topic{ID: uuid.New(), CustomerID: suite.customerID}
	suite.topics.On("GetByID", suite.ctx, suite.customerID, topic.ID).Return(topic, nil)
	suite.topics.On("GetByID", suite.ctx, suite.customerID, grandchild.ID).Return(grandchild, nil)
	suite.topics.On("AncestorIDs", suite.ctx, suite.customerID, grandchild.ID).Return([]uuid.UUID{uuid.New(), topic.ID}, nil)

	_, err := suite.service.Update(suite.ctx, suite.admin, topic.ID, &TopicRequest{Name: "x", TopicParentID: &grandchild.ID})

	var v *apperrors.ValidationError
	require.True(suite.T(), errors.As(err, &v))
	assert.Contains(suite.T(), v.Fields, "topicParentID")
}

func (suite *TopicServiceTestSuite) TestDelete_WithChildren() {
	id := uuid.New()
	suite.topics.On("GetByID", suite.ctx, suite.customerID, id).Return(&models.Topic{ID: id}, nil)
	suite.topics.On("CountChildren", suite.ctx, suite.customerID, id).Return(2, nil)

	err := suite.service.Delete(suite.ctx, suite.admin, id)

	assert.True(suite.T(), errors.Is(err, apperrors.ErrConflict))
}

func (suite *TopicServiceTestSuite) TestDelete_ReferencedByTasks() {
	id := uuid.New()
	suite.topics.On("GetByID", suite.ctx, suite.customerID, id).Return(&models.Topic{ID: id}, nil)
	suite.topics.On("CountChildren", suite.ctx, suite.customerID, id).Return(0, nil)
	suite.topics.On("CountTasks", suite.ctx, suite.customerID, id).Return(1, nil)

	err := suite.service.Delete(suite.ctx, suite.admin, id)

	assert.True(suite.T(), errors.Is(err, apperrors.ErrConflict))
}

func (suite *TopicServiceTestSuite) TestDelete() {
	id := uuid.New()
	suite.topics.On("GetByID", suite.ctx, suite.customerID, id).Return(&models.Topic{ID: id}, nil)
	suite.topics.On("CountChildren", suite.ctx, suite.customerID, id).Return(0, nil)
	suite.topics.On("CountTasks", suite.ctx, suite.customerID, id).Return(0, nil)
	suite.topics.On("Delete", suite.ctx, suite.customerID, id).Return(nil)

	assert.NoError(suite.T(), suite.service.Delete(suite.ctx, suite.admin, id))
}

func TestTopicServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TopicServiceTestSuite))
}
