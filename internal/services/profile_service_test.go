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

type ProfileServiceTestSuite struct {
	suite.Suite
	profiles   *MockProfileRepository
	creds      *MockCredRepository
	securities *MockSecurityRepository
	users      *MockUserRepository
	locations  *MockLocationRepository
	service    ProfileService
	ctx        context.Context
	customerID uuid.UUID
	admin      *common.Principal
}

func (suite *ProfileServiceTestSuite) SetupTest() {
	suite.profiles = new(MockProfileRepository)
	suite.creds = new(MockCredRepository)
	suite.securities = new(MockSecurityRepository)
	suite.users = new(MockUserRepository)
	suite.locations = new(MockLocationRepository)
	suite.service = NewProfileService(suite.profiles, suite.creds, suite.securities, suite.users, suite.locations)
	suite.ctx = context.Background()
	suite.customerID = uuid.New()
	suite.admin = adminPrincipal(suite.customerID)
}

func (suite *ProfileServiceTestSuite) TearDownTest() {
	suite.profiles.AssertExpectations(suite.T())
	suite.creds.AssertExpectations(suite.T())
	suite.securities.AssertExpectations(suite.T())
	suite.users.AssertExpectations(suite.T())
	suite.locations.AssertExpectations(suite.T())
}

func (suite *ProfileServiceTestSuite) TestReplaceProfileCreds_Dedupes() {
	profileID := uuid.New()
	a, b := uuid.New(), uuid.New()
	creds := []*models.Cred{{ID: a, Code: models.CredTasksView}, {ID: b, Code: models.CredTasksManage}}
	suite.profiles.On("GetByID", suite.ctx, suite.customerID, profileID).Return(&models.Profile{ID: profileID}, nil)
	suite.creds.On("CountByIDs", suite.ctx, []uuid.UUID{a, b}).Return(2, nil)
	suite.profiles.On("ReplaceCreds", suite.ctx, profileID, []uuid.UUID{a, b}).Return(nil)
	suite.profiles.On("ListCreds", suite.ctx, profileID).Return(creds, nil)

	result, err := suite.service.ReplaceProfileCreds(suite.ctx, suite.admin, profileID, []uuid.UUID{a, b, a})

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), creds, result)
}

func (suite *ProfileServiceTestSuite) TestReplaceProfileCreds_UnknownCred() {
	profileID := uuid.New()
	a := uuid.New()
	suite.profiles.On("GetByID", suite.ctx, suite.customerID, profileID).Return(&models.Profile{ID: profileID}, nil)
	suite.creds.On("CountByIDs", suite.ctx, []uuid.UUID{a}).Return(0, nil)

	_, err := suite.service.ReplaceProfileCreds(suite.ctx, suite.admin, profileID, []uuid.UUID{a})

	assert.True(suite.T(), errors.Is(err, apperrors.ErrValidation))
}

func (suite *ProfileServiceTestSuite) TestReplaceProfileCreds_EmptyClears() {
	profileID := uuid.New()
	suite.profiles.On("GetByID", suite.ctx, suite.customerID, profileID).Return(&models.Profile{ID: profileID}, nil)
	suite.profiles.On("ReplaceCreds", suite.ctx, profileID, []uuid.UUID{}).Return(nil)
	suite.profiles.On("ListCreds", suite.ctx, profileID).Return([]*models.Cred{}, nil)

	result, err := suite.service.ReplaceProfileCreds(suite.ctx, suite.admin, profileID, nil)

	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), result)
}

func (suite *ProfileServiceTestSuite) TestDelete_InUse() {
	id := uuid.New()
	suite.profiles.On("CountSecurities", suite.ctx, suite.customerID, id).Return(3, nil)

	err := suite.service.Delete(suite.ctx, suite.admin, id)

	assert.True(suite.T(), errors.Is(err, apperrors.ErrConflict))
}

func (suite *ProfileServiceTestSuite) TestCreateSecurity_ProfileBoundElsewhere() {
	req := &SecurityRequest{UserID: uuid.New(), LocationID: uuid.New(), ProfileID: uuid.New()}
	elsewhere := uuid.New()
	suite.users.On("GetByID", suite.ctx, suite.customerID, req.UserID).Return(&models.User{ID: req.UserID}, nil)
	suite.locations.On("GetByID", suite.ctx, suite.customerID, req.LocationID).Return(&models.Location{ID: req.LocationID}, nil)
	suite.profiles.On("GetByID", suite.ctx, suite.customerID, req.ProfileID).Return(&models.Profile{ID: req.ProfileID, LocationID: &elsewhere}, nil)

	_, err := suite.service.CreateSecurity(suite.ctx, suite.admin, req)

	var v *apperrors.ValidationError
	require.True(suite.T(), errors.As(err, &v))
	assert.Contains(suite.T(), v.Fields, "profileID")
}

func (suite *ProfileServiceTestSuite) TestCreateSecurity_UnknownUser() {
	req := &SecurityRequest{UserID: uuid.New(), LocationID: uuid.New(), ProfileID: uuid.New()}
	suite.users.On("GetByID", suite.ctx, suite.customerID, req.UserID).Return(nil, apperrors.NotFound("user"))

	_, err := suite.service.CreateSecurity(suite.ctx, suite.admin, req)

	assert.True(suite.T(), errors.Is(err, apperrors.ErrNotFound))
}

func (suite *ProfileServiceTestSuite) TestCreateSecurity() {
	req := &SecurityRequest{UserID: uuid.New(), LocationID: uuid.New(), ProfileID: uuid.New()}
	suite.users.On("GetByID", suite.ctx, suite.customerID, req.UserID).Return(&models.User{ID: req.UserID}, nil)
	suite.locations.On("GetByID", suite.ctx, suite.customerID, req.LocationID).Return(&models.Location{ID: req.LocationID}, nil)
	suite.profiles.On("GetByID", suite.ctx, suite.customerID, req.ProfileID).Return(&models.Profile{ID: req.ProfileID, LocationID: &req.LocationID}, nil)

	var created *models.Security
	stored := &models.Security{ID: uuid.New(), CustomerID: suite.customerID, UserID: req.UserID}
	suite.securities.On("Create", suite.ctx, mock.AnythingOfType("*models.Security")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*models.Security) }).Return(nil)
	suite.securities.On("GetByID", suite.ctx, suite.customerID, mock.AnythingOfType("uuid.UUID")).Return(stored, nil)

	security, err := suite.service.CreateSecurity(suite.ctx, suite.admin, req)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), stored, security)
	require.NotNil(suite.T(), created)
	assert.Equal(suite.T(), suite.customerID, created.CustomerID)
	assert.Equal(suite.T(), req.LocationID, created.LocationID)
	assert.Equal(suite.T(), req.ProfileID, created.ProfileID)
}

func (suite *ProfileServiceTestSuite) TestList_RequiresAdmin() {
	_, err := suite.service.List(suite.ctx, userPrincipal(suite.customerID), models.ProfileFilters{}, common.ListParams{})

	assert.True(suite.T(), errors.Is(err, apperrors.ErrForbidden))
}

func TestProfileServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProfileServiceTestSuite))
}
