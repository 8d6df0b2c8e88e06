package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"taskboard/internal/apperrors"
	"taskboard/internal/common"
	"taskboard/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestDocumentObjectKey(t *testing.T) {
	cid, did := uuid.New(), uuid.New()
	prefix := "customers/" + cid.String() + "/documents/" + did.String() + "/"

	assert.Equal(t, prefix+"report.pdf", DocumentObjectKey(cid, did, "report.pdf"))
	assert.Equal(t, prefix+"passwd", DocumentObjectKey(cid, did, "../../etc/passwd"))
	assert.Equal(t, prefix+"scan.png", DocumentObjectKey(cid, did, `C:\Users\me\scan.png`))
	assert.Equal(t, prefix+"file", DocumentObjectKey(cid, did, ""))
}

type DocumentServiceTestSuite struct {
	suite.Suite
	documents  *MockDocumentRepository
	locations  *MockLocationRepository
	tasks      *MockTaskRepository
	securities *MockSecurityRepository
	storage    *MockObjectStorage
	service    DocumentService
	ctx        context.Context
	customerID uuid.UUID
	locationID uuid.UUID
	principal  *common.Principal
}

func (suite *DocumentServiceTestSuite) SetupTest() {
	suite.documents = new(MockDocumentRepository)
	suite.locations = new(MockLocationRepository)
	suite.tasks = new(MockTaskRepository)
	suite.securities = new(MockSecurityRepository)
	suite.storage = new(MockObjectStorage)
	suite.service = NewDocumentService(suite.documents, suite.locations, suite.tasks, NewAccessService(suite.securities), suite.storage, 15*time.Minute)
	suite.ctx = context.Background()
	suite.customerID = uuid.New()
	suite.locationID = uuid.New()
	suite.principal = userPrincipal(suite.customerID)
	suite.securities.On("LocationIDsForUser", suite.ctx, suite.customerID, suite.principal.UserID).Return([]uuid.UUID{suite.locationID}, nil).Maybe()
	suite.locations.On("GetByID", suite.ctx, suite.customerID, suite.locationID).Return(&models.Location{ID: suite.locationID}, nil).Maybe()
	suite.securities.On("UserHasCred", suite.ctx, suite.customerID, suite.principal.UserID, models.CredDocumentsManage, &suite.locationID).Return(true, nil).Maybe()
}

func (suite *DocumentServiceTestSuite) TearDownTest() {
	suite.documents.AssertExpectations(suite.T())
	suite.tasks.AssertExpectations(suite.T())
	suite.storage.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) upload(body string) *DocumentUpload {
	return &DocumentUpload{
		FileName:    "inspection.pdf",
		ContentType: "application/pdf",
		Size:        int64(len(body)),
		Body:        strings.NewReader(body),
	}
}

func (suite *DocumentServiceTestSuite) TestUpload_TaskLendsLocation() {
	task := &models.Task{ID: uuid.New(), CustomerID: suite.customerID, LocationID: suite.locationID}
	suite.tasks.On("GetByID", suite.ctx, suite.customerID, task.ID).Return(task, nil)
	suite.storage.On("Put", suite.ctx, mock.AnythingOfType("string"), mock.Anything, int64(5), "application/pdf").Return(nil)
	suite.documents.On("Create", suite.ctx, mock.AnythingOfType("*models.Document")).Return(nil)
	req := suite.upload("%PDF-")
	req.TaskID = &task.ID

	doc, err := suite.service.Upload(suite.ctx, suite.principal, req)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.locationID, *doc.LocationID)
	assert.Equal(suite.T(), "inspection.pdf", doc.Title)
	assert.Equal(suite.T(), DocumentObjectKey(suite.customerID, doc.ID, "inspection.pdf"), doc.ObjectKey)
	assert.Equal(suite.T(), suite.principal.UserID, doc.UploadedBy)
}

func (suite *DocumentServiceTestSuite) TestUpload_TaskLocationMismatch() {
	task := &models.Task{ID: uuid.New(), CustomerID: suite.customerID, LocationID: uuid.New()}
	suite.tasks.On("GetByID", suite.ctx, suite.customerID, task.ID).Return(task, nil)
	req := suite.upload("data")
	req.TaskID = &task.ID
	req.LocationID = &suite.locationID

	_, err := suite.service.Upload(suite.ctx, suite.principal, req)

	assert.True(suite.T(), errors.Is(err, apperrors.ErrValidation))
}

func (suite *DocumentServiceTestSuite) TestUpload_CredMissingAtLocation() {
	other := uuid.New()
	suite.securities.ExpectedCalls = nil
	suite.securities.On("LocationIDsForUser", suite.ctx, suite.customerID, suite.principal.UserID).Return([]uuid.UUID{suite.locationID, other}, nil)
	suite.securities.On("UserHasCred", suite.ctx, suite.customerID, suite.principal.UserID, models.CredDocumentsManage, &other).Return(false, nil)
	suite.locations.On("GetByID", suite.ctx, suite.customerID, other).Return(&models.Location{ID: other}, nil)
	req := suite.upload("data")
	req.LocationID = &other

	_, err := suite.service.Upload(suite.ctx, suite.principal, req)

	assert.True(suite.T(), errors.Is(err, apperrors.ErrForbidden))
	suite.storage.AssertNotCalled(suite.T(), "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DocumentServiceTestSuite) TestUpload_RemovesObjectWhenInsertFails() {
	suite.storage.On("Put", suite.ctx, mock.AnythingOfType("string"), mock.Anything, int64(4), "application/pdf").Return(nil)
	suite.documents.On("Create", suite.ctx, mock.AnythingOfType("*models.Document")).Return(errors.New("insert failed"))
	suite.storage.On("Remove", suite.ctx, mock.AnythingOfType("string")).Return(nil)

	_, err := suite.service.Upload(suite.ctx, suite.principal, suite.upload("data"))

	assert.EqualError(suite.T(), err, "insert failed")
}

func (suite *DocumentServiceTestSuite) TestUpload_Validation() {
	req := suite.upload("")
	req.Size = MaxDocumentSize + 1

	_, err := suite.service.Upload(suite.ctx, suite.principal, req)
	assert.True(suite.T(), errors.Is(err, apperrors.ErrValidation))

	_, err = suite.service.Upload(suite.ctx, suite.principal, &DocumentUpload{})
	assert.True(suite.T(), errors.Is(err, apperrors.ErrValidation))
}

func (suite *DocumentServiceTestSuite) TestGet_InvisibleLocation() {
	other := uuid.New()
	doc := &models.Document{ID: uuid.New(), CustomerID: suite.customerID, LocationID: &other}
	suite.documents.On("GetByID", suite.ctx, suite.customerID, doc.ID).Return(doc, nil)

	_, err := suite.service.Get(suite.ctx, suite.principal, doc.ID)

	assert.True(suite.T(), errors.Is(err, apperrors.ErrForbidden))
}

func (suite *DocumentServiceTestSuite) TestDelete_StorageFailureIgnored() {
	doc := &models.Document{ID: uuid.New(), CustomerID: suite.customerID, ObjectKey: "customers/x/documents/y/a.pdf"}
	suite.documents.On("GetByID", suite.ctx, suite.customerID, doc.ID).Return(doc, nil)
	suite.documents.On("Delete", suite.ctx, suite.customerID, doc.ID).Return(nil)
	suite.storage.On("Remove", suite.ctx, doc.ObjectKey).Return(errors.New("minio down"))

	err := suite.service.Delete(suite.ctx, suite.principal, doc.ID)

	assert.NoError(suite.T(), err)
}

func (suite *DocumentServiceTestSuite) TestDownloadURL() {
	doc := &models.Document{ID: uuid.New(), CustomerID: suite.customerID, ObjectKey: "k", FileName: "a.pdf"}
	suite.documents.On("GetByID", suite.ctx, suite.customerID, doc.ID).Return(doc, nil)
	suite.storage.On("PresignedGet", suite.ctx, "k", "a.pdf", 15*time.Minute).Return("https://minio/signed", nil)

	link, err := suite.service.DownloadURL(suite.ctx, suite.principal, doc.ID)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "https://minio/signed", link.URL)
	assert.True(suite.T(), link.ExpiresAt.After(time.Now()))
}

func TestDocumentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DocumentServiceTestSuite))
}
