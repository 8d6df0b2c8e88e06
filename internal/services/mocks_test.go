package services

import (
	"context"
	"io"
	"time"

	"taskboard/internal/common"
	"taskboard/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// got returns argument i as T, or the zero value when the expectation returned nil.
func got[T any](args mock.Arguments, i int) T {
	var zero T
	if args.Get(i) == nil {
		return zero
	}
	return args.Get(i).(T)
}

type MockCustomerRepository struct{ mock.Mock }

func (m *MockCustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	return m.Called(ctx, customer).Error(0)
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	args := m.Called(ctx, id)
	return got[*models.Customer](args, 0), args.Error(1)
}

func (m *MockCustomerRepository) GetByDomain(ctx context.Context, domain string) (*models.Customer, error) {
	args := m.Called(ctx, domain)
	return got[*models.Customer](args, 0), args.Error(1)
}

func (m *MockCustomerRepository) Update(ctx context.Context, customer *models.Customer) error {
	return m.Called(ctx, customer).Error(0)
}

func (m *MockCustomerRepository) ListActive(ctx context.Context) ([]*models.Customer, error) {
	args := m.Called(ctx)
	return got[[]*models.Customer](args, 0), args.Error(1)
}

type MockSocialiteClientRepository struct{ mock.Mock }

func (m *MockSocialiteClientRepository) Create(ctx context.Context, client *models.SocialiteClient) error {
	return m.Called(ctx, client).Error(0)
}

func (m *MockSocialiteClientRepository) GetByID(ctx context.Context, customerID, id uuid.UUID) (*models.SocialiteClient, error) {
	args := m.Called(ctx, customerID, id)
	return got[*models.SocialiteClient](args, 0), args.Error(1)
}

func (m *MockSocialiteClientRepository) GetActiveByProvider(ctx context.Context, customerID uuid.UUID, provider string) (*models.SocialiteClient, error) {
	args := m.Called(ctx, customerID, provider)
	return got[*models.SocialiteClient](args, 0), args.Error(1)
}

func (m *MockSocialiteClientRepository) Update(ctx context.Context, client *models.SocialiteClient) error {
	return m.Called(ctx, client).Error(0)
}

func (m *MockSocialiteClientRepository) Delete(ctx context.Context, customerID, id uuid.UUID) error {
	return m.Called(ctx, customerID, id).Error(0)
}

func (m *MockSocialiteClientRepository) List(ctx context.Context, customerID uuid.UUID, filters models.SocialiteClientFilters, params common.ListParams) ([]*models.SocialiteClient, int, error) {
	args := m.Called(ctx, customerID, filters, params)
	return got[[]*models.SocialiteClient](args, 0), args.Int(1), args.Error(2)
}

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, customerID, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, customerID, id)
	return got[*models.User](args, 0), args.Error(1)
}

func (m *MockUserRepository) GetByLoginName(ctx context.Context, customerID uuid.UUID, loginName string) (*models.User, error) {
	args := m.Called(ctx, customerID, loginName)
	return got[*models.User](args, 0), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, customerID uuid.UUID, email string) (*models.User, error) {
	args := m.Called(ctx, customerID, email)
	return got[*models.User](args, 0), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, customerID, id uuid.UUID, hash, salt string) error {
	return m.Called(ctx, customerID, id, hash, salt).Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, customerID, id uuid.UUID) error {
	return m.Called(ctx, customerID, id).Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, customerID uuid.UUID, scope models.LocationScope, filters models.UserFilters, params common.ListParams) ([]*models.User, int, error) {
	args := m.Called(ctx, customerID, scope, filters, params)
	return got[[]*models.User](args, 0), args.Int(1), args.Error(2)
}

type MockLocationRepository struct{ mock.Mock }

func (m *MockLocationRepository) Create(ctx context.Context, location *models.Location) error {
	return m.Called(ctx, location).Error(0)
}

func (m *MockLocationRepository) GetByID(ctx context.Context, customerID, id uuid.UUID) (*models.Location, error) {
	args := m.Called(ctx, customerID, id)
	return got[*models.Location](args, 0), args.Error(1)
}

func (m *MockLocationRepository) Update(ctx context.Context, location *models.Location) error {
	return m.Called(ctx, location).Error(0)
}

func (m *MockLocationRepository) Delete(ctx context.Context, customerID, id uuid.UUID) error {
	return m.Called(ctx, customerID, id).Error(0)
}

func (m *MockLocationRepository) List(ctx context.Context, customerID uuid.UUID, scope models.LocationScope, filters models.LocationFilters, params common.ListParams) ([]*models.Location, int, error) {
	args := m.Called(ctx, customerID, scope, filters, params)
	return got[[]*models.Location](args, 0), args.Int(1), args.Error(2)
}

func (m *MockLocationRepository) ListSchedulerActive(ctx context.Context, customerID uuid.UUID) ([]*models.Location, error) {
	args := m.Called(ctx, customerID)
	return got[[]*models.Location](args, 0), args.Error(1)
}

type MockTopicRepository struct{ mock.Mock }

func (m *MockTopicRepository) Create(ctx context.Context, topic *models.Topic) error {
	return m.Called(ctx, topic).Error(0)
}

func (m *MockTopicRepository) GetByID(ctx context.Context, customerID, id uuid.UUID) (*models.Topic, error) {
	args := m.Called(ctx, customerID, id)
	return got[*models.Topic](args, 0), args.Error(1)
}

func (m *MockTopicRepository) Update(ctx context.Context, topic *models.Topic) error {
	return m.Called(ctx, topic).Error(0)
}

func (m *MockTopicRepository) Delete(ctx context.Context, customerID, id uuid.UUID) error {
	return m.Called(ctx, customerID, id).Error(0)
}

func (m *MockTopicRepository) List(ctx context.Context, customerID uuid.UUID, filters models.TopicFilters, params common.ListParams) ([]*models.Topic, int, error) {
	args := m.Called(ctx, customerID, filters, params)
	return got[[]*models.Topic](args, 0), args.Int(1), args.Error(2)
}

func (m *MockTopicRepository) AncestorIDs(ctx context.Context, customerID, id uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, customerID, id)
	return got[[]uuid.UUID](args, 0), args.Error(1)
}

func (m *MockTopicRepository) CountChildren(ctx context.Context, customerID, id uuid.UUID) (int, error) {
	args := m.Called(ctx, customerID, id)
	return args.Int(0), args.Error(1)
}

func (m *MockTopicRepository) CountTasks(ctx context.Context, customerID, id uuid.UUID) (int, error) {
	args := m.Called(ctx, customerID, id)
	return args.Int(0), args.Error(1)
}

type MockProfileRepository struct{ mock.Mock }

func (m *MockProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	return m.Called(ctx, profile).Error(0)
}

func (m *MockProfileRepository) GetByID(ctx context.Context, customerID, id uuid.UUID) (*models.Profile, error) {
	args := m.Called(ctx, customerID, id)
	return got[*models.Profile](args, 0), args.Error(1)
}

func (m *MockProfileRepository) Update(ctx context.Context, profile *models.Profile) error {
	return m.Called(ctx, profile).Error(0)
}

func (m *MockProfileRepository) Delete(ctx context.Context, customerID, id uuid.UUID) error {
	return m.Called(ctx, customerID, id).Error(0)
}

func (m *MockProfileRepository) List(ctx context.Context, customerID uuid.UUID, filters models.ProfileFilters, params common.ListParams) ([]*models.Profile, int, error) {
	args := m.Called(ctx, customerID, filters, params)
	return got[[]*models.Profile](args, 0), args.Int(1), args.Error(2)
}

func (m *MockProfileRepository) ListCreds(ctx context.Context, profileID uuid.UUID) ([]*models.Cred, error) {
	args := m.Called(ctx, profileID)
	return got[[]*models.Cred](args, 0), args.Error(1)
}

func (m *MockProfileRepository) ReplaceCreds(ctx context.Context, profileID uuid.UUID, credIDs []uuid.UUID) error {
	return m.Called(ctx, profileID, credIDs).Error(0)
}

func (m *MockProfileRepository) CountSecurities(ctx context.Context, customerID, id uuid.UUID) (int, error) {
	args := m.Called(ctx, customerID, id)
	return args.Int(0), args.Error(1)
}

type MockCredRepository struct{ mock.Mock }

func (m *MockCredRepository) Upsert(ctx context.Context, cred *models.Cred) error {
	return m.Called(ctx, cred).Error(0)
}

func (m *MockCredRepository) List(ctx context.Context) ([]*models.Cred, error) {
	args := m.Called(ctx)
	return got[[]*models.Cred](args, 0), args.Error(1)
}

func (m *MockCredRepository) CountByIDs(ctx context.Context, ids []uuid.UUID) (int, error) {
	args := m.Called(ctx, ids)
	return args.Int(0), args.Error(1)
}

type MockSecurityRepository struct{ mock.Mock }

func (m *MockSecurityRepository) Create(ctx context.Context, security *models.Security) error {
	return m.Called(ctx, security).Error(0)
}

func (m *MockSecurityRepository) GetByID(ctx context.Context, customerID, id uuid.UUID) (*models.Security, error) {
	args := m.Called(ctx, customerID, id)
	return got[*models.Security](args, 0), args.Error(1)
}

func (m *MockSecurityRepository) Update(ctx context.Context, security *models.Security) error {
	return m.Called(ctx, security).Error(0)
}

func (m *MockSecurityRepository) Delete(ctx context.Context, customerID, id uuid.UUID) error {
	return m.Called(ctx, customerID, id).Error(0)
}

func (m *MockSecurityRepository) List(ctx context.Context, customerID uuid.UUID, filters models.SecurityFilters, params common.ListParams) ([]*models.Security, int, error) {
	args := m.Called(ctx, customerID, filters, params)
	return got[[]*models.Security](args, 0), args.Int(1), args.Error(2)
}

func (m *MockSecurityRepository) LocationIDsForUser(ctx context.Context, customerID, userID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, customerID, userID)
	return got[[]uuid.UUID](args, 0), args.Error(1)
}

func (m *MockSecurityRepository) UserHasCred(ctx context.Context, customerID, userID uuid.UUID, code string, locationID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, customerID, userID, code, locationID)
	return args.Bool(0), args.Error(1)
}

type MockTaskRepository struct{ mock.Mock }

func (m *MockTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return m.Called(ctx, task).Error(0)
}

func (m *MockTaskRepository) GetByID(ctx context.Context, customerID, id uuid.UUID) (*models.Task, error) {
	args := m.Called(ctx, customerID, id)
	return got[*models.Task](args, 0), args.Error(1)
}

func (m *MockTaskRepository) Update(ctx context.Context, task *models.Task) error {
	return m.Called(ctx, task).Error(0)
}

func (m *MockTaskRepository) Delete(ctx context.Context, customerID, id uuid.UUID) error {
	return m.Called(ctx, customerID, id).Error(0)
}

func (m *MockTaskRepository) List(ctx context.Context, customerID uuid.UUID, scope models.LocationScope, filters models.TaskFilters, params common.ListParams) ([]*models.Task, int, error) {
	args := m.Called(ctx, customerID, scope, filters, params)
	return got[[]*models.Task](args, 0), args.Int(1), args.Error(2)
}

func (m *MockTaskRepository) Complete(ctx context.Context, task *models.Task) error {
	return m.Called(ctx, task).Error(0)
}

func (m *MockTaskRepository) Reopen(ctx context.Context, task *models.Task) error {
	return m.Called(ctx, task).Error(0)
}

func (m *MockTaskRepository) CompleteSet(ctx context.Context, set *models.Task) (int, int, error) {
	args := m.Called(ctx, set)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *MockTaskRepository) ChildProgress(ctx context.Context, customerID, setID uuid.UUID) (int, int, error) {
	args := m.Called(ctx, customerID, setID)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *MockTaskRepository) ListChildren(ctx context.Context, customerID, setID uuid.UUID) ([]*models.Task, error) {
	args := m.Called(ctx, customerID, setID)
	return got[[]*models.Task](args, 0), args.Error(1)
}

func (m *MockTaskRepository) RefreshColors(ctx context.Context, customerID uuid.UUID, now, dueSoon time.Time) (int64, error) {
	args := m.Called(ctx, customerID, now, dueSoon)
	return got[int64](args, 0), args.Error(1)
}

func (m *MockTaskRepository) ListRecurringTemplates(ctx context.Context, customerID uuid.UUID) ([]*models.Task, error) {
	args := m.Called(ctx, customerID)
	return got[[]*models.Task](args, 0), args.Error(1)
}

func (m *MockTaskRepository) LatestInstanceDue(ctx context.Context, customerID, templateID uuid.UUID) (*time.Time, bool, error) {
	args := m.Called(ctx, customerID, templateID)
	return got[*time.Time](args, 0), args.Bool(1), args.Error(2)
}

func (m *MockTaskRepository) Instantiate(ctx context.Context, instance *models.Task, children []*models.Task) error {
	return m.Called(ctx, instance, children).Error(0)
}

type MockNotificationRepository struct{ mock.Mock }

func (m *MockNotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, customerID, userID, id uuid.UUID) (*models.Notification, error) {
	args := m.Called(ctx, customerID, userID, id)
	return got[*models.Notification](args, 0), args.Error(1)
}

func (m *MockNotificationRepository) List(ctx context.Context, customerID, userID uuid.UUID, filters models.NotificationFilters, params common.ListParams) ([]*models.Notification, int, error) {
	args := m.Called(ctx, customerID, userID, filters, params)
	return got[[]*models.Notification](args, 0), args.Int(1), args.Error(2)
}

type MockDocumentRepository struct{ mock.Mock }

func (m *MockDocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	return m.Called(ctx, doc).Error(0)
}

func (m *MockDocumentRepository) GetByID(ctx context.Context, customerID, id uuid.UUID) (*models.Document, error) {
	args := m.Called(ctx, customerID, id)
	return got[*models.Document](args, 0), args.Error(1)
}

func (m *MockDocumentRepository) Update(ctx context.Context, doc *models.Document) error {
	return m.Called(ctx, doc).Error(0)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, customerID, id uuid.UUID) error {
	return m.Called(ctx, customerID, id).Error(0)
}

func (m *MockDocumentRepository) List(ctx context.Context, customerID uuid.UUID, scope models.LocationScope, filters models.DocumentFilters, params common.ListParams) ([]*models.Document, int, error) {
	args := m.Called(ctx, customerID, scope, filters, params)
	return got[[]*models.Document](args, 0), args.Int(1), args.Error(2)
}

type MockReportRepository struct{ mock.Mock }

func (m *MockReportRepository) Create(ctx context.Context, report *models.Report) error {
	return m.Called(ctx, report).Error(0)
}

func (m *MockReportRepository) GetByID(ctx context.Context, customerID, id uuid.UUID) (*models.Report, error) {
	args := m.Called(ctx, customerID, id)
	return got[*models.Report](args, 0), args.Error(1)
}

func (m *MockReportRepository) Update(ctx context.Context, report *models.Report) error {
	return m.Called(ctx, report).Error(0)
}

func (m *MockReportRepository) Delete(ctx context.Context, customerID, id uuid.UUID) error {
	return m.Called(ctx, customerID, id).Error(0)
}

func (m *MockReportRepository) List(ctx context.Context, customerID uuid.UUID, scope models.LocationScope, filters models.ReportFilters, params common.ListParams) ([]*models.Report, int, error) {
	args := m.Called(ctx, customerID, scope, filters, params)
	return got[[]*models.Report](args, 0), args.Int(1), args.Error(2)
}

func (m *MockReportRepository) TaskStatusCounts(ctx context.Context, customerID uuid.UUID, scope models.LocationScope, query models.TaskStatusQuery) ([]models.TaskStatusCount, error) {
	args := m.Called(ctx, customerID, scope, query)
	return got[[]models.TaskStatusCount](args, 0), args.Error(1)
}

type MockCacheService struct{ mock.Mock }

func (m *MockCacheService) GetCustomerByDomain(ctx context.Context, domain string) (*models.Customer, error) {
	args := m.Called(ctx, domain)
	return got[*models.Customer](args, 0), args.Error(1)
}

func (m *MockCacheService) SetCustomerByDomain(ctx context.Context, domain string, customer *models.Customer, ttl time.Duration) error {
	return m.Called(ctx, domain, customer, ttl).Error(0)
}

func (m *MockCacheService) DeleteCustomerByDomain(ctx context.Context, domain string) error {
	return m.Called(ctx, domain).Error(0)
}

func (m *MockCacheService) GetJSON(ctx context.Context, key string, dest any) error {
	return m.Called(ctx, key, dest).Error(0)
}

func (m *MockCacheService) TakeJSON(ctx context.Context, key string, dest any) error {
	return m.Called(ctx, key, dest).Error(0)
}

func (m *MockCacheService) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *MockCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *MockCacheService) GetString(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheService) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheService) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockCacheService) InvalidatePrefix(ctx context.Context, prefix string) error {
	return m.Called(ctx, prefix).Error(0)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockObjectStorage struct{ mock.Mock }

func (m *MockObjectStorage) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	return m.Called(ctx, key, reader, size, contentType).Error(0)
}

func (m *MockObjectStorage) PresignedGet(ctx context.Context, key, fileName string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, key, fileName, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStorage) Remove(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockObjectStorage) EnsureBucket(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockTaskNotifier struct{ mock.Mock }

func (m *MockTaskNotifier) TaskAssigned(ctx context.Context, task *models.Task) error {
	return m.Called(ctx, task).Error(0)
}

func adminPrincipal(customerID uuid.UUID) *common.Principal {
	return &common.Principal{UserID: uuid.New(), CustomerID: customerID, UserType: common.UserTypeAdmin}
}

func userPrincipal(customerID uuid.UUID) *common.Principal {
	return &common.Principal{UserID: uuid.New(), CustomerID: customerID, UserType: common.UserTypeUser}
}

type MockReportCatalogRepository struct{ mock.Mock }

func (m *MockReportCatalogRepository) UpsertCatalog(ctx context.Context, catalog *models.ReportCatalog) error {
	return m.Called(ctx, catalog).Error(0)
}

func (m *MockReportCatalogRepository) GetCatalog(ctx context.Context, id uuid.UUID) (*models.ReportCatalog, error) {
	args := m.Called(ctx, id)
	return got[*models.ReportCatalog](args, 0), args.Error(1)
}

func (m *MockReportCatalogRepository) UpdateCatalog(ctx context.Context, catalog *models.ReportCatalog) error {
	return m.Called(ctx, catalog).Error(0)
}

func (m *MockReportCatalogRepository) DeleteCatalog(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockReportCatalogRepository) ListCatalogs(ctx context.Context, params common.ListParams) ([]*models.ReportCatalog, int, error) {
	args := m.Called(ctx, params)
	return got[[]*models.ReportCatalog](args, 0), args.Int(1), args.Error(2)
}

func (m *MockReportCatalogRepository) CreateSection(ctx context.Context, section *models.ReportSection) error {
	return m.Called(ctx, section).Error(0)
}

func (m *MockReportCatalogRepository) GetSection(ctx context.Context, id uuid.UUID) (*models.ReportSection, error) {
	args := m.Called(ctx, id)
	return got[*models.ReportSection](args, 0), args.Error(1)
}

func (m *MockReportCatalogRepository) UpdateSection(ctx context.Context, section *models.ReportSection) error {
	return m.Called(ctx, section).Error(0)
}

func (m *MockReportCatalogRepository) DeleteSection(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockReportCatalogRepository) ListSections(ctx context.Context, catalogID *uuid.UUID, params common.ListParams) ([]*models.ReportSection, int, error) {
	args := m.Called(ctx, catalogID, params)
	return got[[]*models.ReportSection](args, 0), args.Int(1), args.Error(2)
}

func (m *MockReportCatalogRepository) ReplaceSections(ctx context.Context, catalogID uuid.UUID, sections []*models.ReportSection, filters map[uuid.UUID][]*models.ReportFilter) error {
	return m.Called(ctx, catalogID, sections, filters).Error(0)
}

func (m *MockReportCatalogRepository) CreateFilter(ctx context.Context, filter *models.ReportFilter) error {
	return m.Called(ctx, filter).Error(0)
}

func (m *MockReportCatalogRepository) GetFilter(ctx context.Context, id uuid.UUID) (*models.ReportFilter, error) {
	args := m.Called(ctx, id)
	return got[*models.ReportFilter](args, 0), args.Error(1)
}

func (m *MockReportCatalogRepository) UpdateFilter(ctx context.Context, filter *models.ReportFilter) error {
	return m.Called(ctx, filter).Error(0)
}

func (m *MockReportCatalogRepository) DeleteFilter(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockReportCatalogRepository) ListFilters(ctx context.Context, sectionID *uuid.UUID, params common.ListParams) ([]*models.ReportFilter, int, error) {
	args := m.Called(ctx, sectionID, params)
	return got[[]*models.ReportFilter](args, 0), args.Int(1), args.Error(2)
}
