package testhelpers

import (
	"context"
	"time"

	"taskboard/internal/common"
	"taskboard/internal/models"
	"taskboard/internal/services"

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

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) Login(ctx context.Context, customer *models.Customer, req *services.LoginRequest) (*models.TokenResponse, error) {
	args := m.Called(ctx, customer, req)
	return got[*models.TokenResponse](args, 0), args.Error(1)
}

func (m *MockAuthService) IssueTokens(ctx context.Context, user *models.User) (*models.TokenResponse, error) {
	args := m.Called(ctx, user)
	return got[*models.TokenResponse](args, 0), args.Error(1)
}

func (m *MockAuthService) Refresh(ctx context.Context, req *services.RefreshRequest) (*models.TokenResponse, error) {
	args := m.Called(ctx, req)
	return got[*models.TokenResponse](args, 0), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, principal *common.Principal, expiresAt time.Time, refreshToken string) error {
	return m.Called(ctx, principal, expiresAt, refreshToken).Error(0)
}

func (m *MockAuthService) ValidateToken(ctx context.Context, token string) (*services.TokenClaims, error) {
	args := m.Called(ctx, token)
	return got[*services.TokenClaims](args, 0), args.Error(1)
}

func (m *MockAuthService) PrincipalFromClaims(ctx context.Context, claims *services.TokenClaims) (*common.Principal, error) {
	args := m.Called(ctx, claims)
	return got[*common.Principal](args, 0), args.Error(1)
}

type MockTenantService struct{ mock.Mock }

func (m *MockTenantService) ResolveByHost(ctx context.Context, origin, referer string) (*models.Customer, error) {
	args := m.Called(ctx, origin, referer)
	return got[*models.Customer](args, 0), args.Error(1)
}

func (m *MockTenantService) Get(ctx context.Context, principal *common.Principal) (*models.Customer, error) {
	args := m.Called(ctx, principal)
	return got[*models.Customer](args, 0), args.Error(1)
}

func (m *MockTenantService) Update(ctx context.Context, principal *common.Principal, req *services.UpdateCustomerRequest) (*models.Customer, error) {
	args := m.Called(ctx, principal, req)
	return got[*models.Customer](args, 0), args.Error(1)
}

func (m *MockTenantService) CreateSocialiteClient(ctx context.Context, principal *common.Principal, req *services.SocialiteClientRequest) (*models.SocialiteClient, error) {
	args := m.Called(ctx, principal, req)
	return got[*models.SocialiteClient](args, 0), args.Error(1)
}

func (m *MockTenantService) GetSocialiteClient(ctx context.Context, principal *common.Principal, id uuid.UUID) (*models.SocialiteClient, error) {
	args := m.Called(ctx, principal, id)
	return got[*models.SocialiteClient](args, 0), args.Error(1)
}

func (m *MockTenantService) UpdateSocialiteClient(ctx context.Context, principal *common.Principal, id uuid.UUID, req *services.SocialiteClientRequest) (*models.SocialiteClient, error) {
	args := m.Called(ctx, principal, id, req)
	return got[*models.SocialiteClient](args, 0), args.Error(1)
}

func (m *MockTenantService) DeleteSocialiteClient(ctx context.Context, principal *common.Principal, id uuid.UUID) error {
	return m.Called(ctx, principal, id).Error(0)
}

func (m *MockTenantService) ListSocialiteClients(ctx context.Context, principal *common.Principal, filters models.SocialiteClientFilters, params common.ListParams) (common.Page[*models.SocialiteClient], error) {
	args := m.Called(ctx, principal, filters, params)
	return got[common.Page[*models.SocialiteClient]](args, 0), args.Error(1)
}

type MockSSOService struct{ mock.Mock }

func (m *MockSSOService) RedirectURL(ctx context.Context, customer *models.Customer, provider string) (string, error) {
	args := m.Called(ctx, customer, provider)
	return args.String(0), args.Error(1)
}

func (m *MockSSOService) Callback(ctx context.Context, provider, code, state string) (*models.TokenResponse, error) {
	args := m.Called(ctx, provider, code, state)
	return got[*models.TokenResponse](args, 0), args.Error(1)
}

func (m *MockSSOService) Close() {
	m.Called()
}

type MockAccessService struct{ mock.Mock }

func (m *MockAccessService) VisibleLocationIDs(ctx context.Context, principal *common.Principal) ([]uuid.UUID, error) {
	args := m.Called(ctx, principal)
	return got[[]uuid.UUID](args, 0), args.Error(1)
}

func (m *MockAccessService) Scope(ctx context.Context, principal *common.Principal) (models.LocationScope, error) {
	args := m.Called(ctx, principal)
	return got[models.LocationScope](args, 0), args.Error(1)
}

func (m *MockAccessService) CanSeeLocation(ctx context.Context, principal *common.Principal, locationID uuid.UUID) (bool, error) {
	args := m.Called(ctx, principal, locationID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccessService) RequireLocation(ctx context.Context, principal *common.Principal, locationID uuid.UUID) error {
	return m.Called(ctx, principal, locationID).Error(0)
}

func (m *MockAccessService) HasCred(ctx context.Context, principal *common.Principal, code string, locationID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, principal, code, locationID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccessService) SharesLocation(ctx context.Context, principal *common.Principal, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, principal, userID)
	return args.Bool(0), args.Error(1)
}

type MockTaskService struct{ mock.Mock }

func (m *MockTaskService) Create(ctx context.Context, principal *common.Principal, req *services.TaskRequest) (*models.Task, error) {
	args := m.Called(ctx, principal, req)
	return got[*models.Task](args, 0), args.Error(1)
}

func (m *MockTaskService) Get(ctx context.Context, principal *common.Principal, id uuid.UUID) (*models.Task, error) {
	args := m.Called(ctx, principal, id)
	return got[*models.Task](args, 0), args.Error(1)
}

func (m *MockTaskService) Update(ctx context.Context, principal *common.Principal, id uuid.UUID, req *services.TaskRequest) (*models.Task, error) {
	args := m.Called(ctx, principal, id, req)
	return got[*models.Task](args, 0), args.Error(1)
}

func (m *MockTaskService) Delete(ctx context.Context, principal *common.Principal, id uuid.UUID) error {
	return m.Called(ctx, principal, id).Error(0)
}

func (m *MockTaskService) List(ctx context.Context, principal *common.Principal, filters models.TaskFilters, params common.ListParams) (common.Page[*models.Task], error) {
	args := m.Called(ctx, principal, filters, params)
	return got[common.Page[*models.Task]](args, 0), args.Error(1)
}

type MockCompletionService struct{ mock.Mock }

func (m *MockCompletionService) CompleteTask(ctx context.Context, principal *common.Principal, id uuid.UUID) (*models.Task, error) {
	args := m.Called(ctx, principal, id)
	return got[*models.Task](args, 0), args.Error(1)
}

func (m *MockCompletionService) ReopenTask(ctx context.Context, principal *common.Principal, id uuid.UUID) (*models.Task, error) {
	args := m.Called(ctx, principal, id)
	return got[*models.Task](args, 0), args.Error(1)
}

func (m *MockCompletionService) ListCompletedTasks(ctx context.Context, principal *common.Principal, filters models.TaskFilters, params common.ListParams) (common.Page[*models.Task], error) {
	args := m.Called(ctx, principal, filters, params)
	return got[common.Page[*models.Task]](args, 0), args.Error(1)
}

func (m *MockCompletionService) Progress(ctx context.Context, principal *common.Principal, setID uuid.UUID) (*models.TaskProgress, error) {
	args := m.Called(ctx, principal, setID)
	return got[*models.TaskProgress](args, 0), args.Error(1)
}

func (m *MockCompletionService) CompleteTaskSet(ctx context.Context, principal *common.Principal, setID uuid.UUID) (*models.Task, error) {
	args := m.Called(ctx, principal, setID)
	return got[*models.Task](args, 0), args.Error(1)
}

func (m *MockCompletionService) ReopenTaskSet(ctx context.Context, principal *common.Principal, setID uuid.UUID) (*models.Task, error) {
	args := m.Called(ctx, principal, setID)
	return got[*models.Task](args, 0), args.Error(1)
}

func (m *MockCompletionService) ListCompletedTaskSets(ctx context.Context, principal *common.Principal, filters models.TaskFilters, params common.ListParams) (common.Page[*models.Task], error) {
	args := m.Called(ctx, principal, filters, params)
	return got[common.Page[*models.Task]](args, 0), args.Error(1)
}

type MockDocumentService struct{ mock.Mock }

func (m *MockDocumentService) Upload(ctx context.Context, principal *common.Principal, req *services.DocumentUpload) (*models.Document, error) {
	args := m.Called(ctx, principal, req)
	return got[*models.Document](args, 0), args.Error(1)
}

func (m *MockDocumentService) Get(ctx context.Context, principal *common.Principal, id uuid.UUID) (*models.Document, error) {
	args := m.Called(ctx, principal, id)
	return got[*models.Document](args, 0), args.Error(1)
}

func (m *MockDocumentService) Update(ctx context.Context, principal *common.Principal, id uuid.UUID, req *services.DocumentRequest) (*models.Document, error) {
	args := m.Called(ctx, principal, id, req)
	return got[*models.Document](args, 0), args.Error(1)
}

func (m *MockDocumentService) Delete(ctx context.Context, principal *common.Principal, id uuid.UUID) error {
	return m.Called(ctx, principal, id).Error(0)
}

func (m *MockDocumentService) List(ctx context.Context, principal *common.Principal, filters models.DocumentFilters, params common.ListParams) (common.Page[*models.Document], error) {
	args := m.Called(ctx, principal, filters, params)
	return got[common.Page[*models.Document]](args, 0), args.Error(1)
}

func (m *MockDocumentService) DownloadURL(ctx context.Context, principal *common.Principal, id uuid.UUID) (*services.DownloadLink, error) {
	args := m.Called(ctx, principal, id)
	return got[*services.DownloadLink](args, 0), args.Error(1)
}

type MockReportService struct{ mock.Mock }

func (m *MockReportService) ListCatalogs(ctx context.Context, params common.ListParams) (common.Page[*models.ReportCatalog], error) {
	args := m.Called(ctx, params)
	return got[common.Page[*models.ReportCatalog]](args, 0), args.Error(1)
}

func (m *MockReportService) GetCatalog(ctx context.Context, id uuid.UUID) (*models.ReportCatalog, error) {
	args := m.Called(ctx, id)
	return got[*models.ReportCatalog](args, 0), args.Error(1)
}

func (m *MockReportService) CreateCatalog(ctx context.Context, principal *common.Principal, req *models.ReportCatalog) (*models.ReportCatalog, error) {
	args := m.Called(ctx, principal, req)
	return got[*models.ReportCatalog](args, 0), args.Error(1)
}

func (m *MockReportService) UpdateCatalog(ctx context.Context, principal *common.Principal, id uuid.UUID, req *models.ReportCatalog) (*models.ReportCatalog, error) {
	args := m.Called(ctx, principal, id, req)
	return got[*models.ReportCatalog](args, 0), args.Error(1)
}

func (m *MockReportService) DeleteCatalog(ctx context.Context, principal *common.Principal, id uuid.UUID) error {
	return m.Called(ctx, principal, id).Error(0)
}

func (m *MockReportService) ListSections(ctx context.Context, catalogID *uuid.UUID, params common.ListParams) (common.Page[*models.ReportSection], error) {
	args := m.Called(ctx, catalogID, params)
	return got[common.Page[*models.ReportSection]](args, 0), args.Error(1)
}

func (m *MockReportService) GetSection(ctx context.Context, id uuid.UUID) (*models.ReportSection, error) {
	args := m.Called(ctx, id)
	return got[*models.ReportSection](args, 0), args.Error(1)
}

func (m *MockReportService) CreateSection(ctx context.Context, principal *common.Principal, req *models.ReportSection) (*models.ReportSection, error) {
	args := m.Called(ctx, principal, req)
	return got[*models.ReportSection](args, 0), args.Error(1)
}

func (m *MockReportService) UpdateSection(ctx context.Context, principal *common.Principal, id uuid.UUID, req *models.ReportSection) (*models.ReportSection, error) {
	args := m.Called(ctx, principal, id, req)
	return got[*models.ReportSection](args, 0), args.Error(1)
}

func (m *MockReportService) DeleteSection(ctx context.Context, principal *common.Principal, id uuid.UUID) error {
	return m.Called(ctx, principal, id).Error(0)
}

func (m *MockReportService) ListFilters(ctx context.Context, sectionID *uuid.UUID, params common.ListParams) (common.Page[*models.ReportFilter], error) {
	args := m.Called(ctx, sectionID, params)
	return got[common.Page[*models.ReportFilter]](args, 0), args.Error(1)
}

func (m *MockReportService) GetFilter(ctx context.Context, id uuid.UUID) (*models.ReportFilter, error) {
	args := m.Called(ctx, id)
	return got[*models.ReportFilter](args, 0), args.Error(1)
}

func (m *MockReportService) CreateFilter(ctx context.Context, principal *common.Principal, req *models.ReportFilter) (*models.ReportFilter, error) {
	args := m.Called(ctx, principal, req)
	return got[*models.ReportFilter](args, 0), args.Error(1)
}

func (m *MockReportService) UpdateFilter(ctx context.Context, principal *common.Principal, id uuid.UUID, req *models.ReportFilter) (*models.ReportFilter, error) {
	args := m.Called(ctx, principal, id, req)
	return got[*models.ReportFilter](args, 0), args.Error(1)
}

func (m *MockReportService) DeleteFilter(ctx context.Context, principal *common.Principal, id uuid.UUID) error {
	return m.Called(ctx, principal, id).Error(0)
}

func (m *MockReportService) Create(ctx context.Context, principal *common.Principal, req *services.ReportRequest) (*models.Report, error) {
	args := m.Called(ctx, principal, req)
	return got[*models.Report](args, 0), args.Error(1)
}

func (m *MockReportService) Get(ctx context.Context, principal *common.Principal, id uuid.UUID) (*models.Report, error) {
	args := m.Called(ctx, principal, id)
	return got[*models.Report](args, 0), args.Error(1)
}

func (m *MockReportService) Update(ctx context.Context, principal *common.Principal, id uuid.UUID, req *services.ReportRequest) (*models.Report, error) {
	args := m.Called(ctx, principal, id, req)
	return got[*models.Report](args, 0), args.Error(1)
}

func (m *MockReportService) Delete(ctx context.Context, principal *common.Principal, id uuid.UUID) error {
	return m.Called(ctx, principal, id).Error(0)
}

func (m *MockReportService) List(ctx context.Context, principal *common.Principal, filters models.ReportFilters, params common.ListParams) (common.Page[*models.Report], error) {
	args := m.Called(ctx, principal, filters, params)
	return got[common.Page[*models.Report]](args, 0), args.Error(1)
}

func (m *MockReportService) TaskStatus(ctx context.Context, principal *common.Principal, query models.TaskStatusQuery) ([]models.TaskStatusGroup, error) {
	args := m.Called(ctx, principal, query)
	return got[[]models.TaskStatusGroup](args, 0), args.Error(1)
}

type MockUserService struct{ mock.Mock }

func (m *MockUserService) Create(ctx context.Context, principal *common.Principal, req *services.UserRequest) (*models.User, error) {
	args := m.Called(ctx, principal, req)
	return got[*models.User](args, 0), args.Error(1)
}

func (m *MockUserService) Get(ctx context.Context, principal *common.Principal, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, principal, id)
	return got[*models.User](args, 0), args.Error(1)
}

func (m *MockUserService) Update(ctx context.Context, principal *common.Principal, id uuid.UUID, req *services.UserRequest) (*models.User, error) {
	args := m.Called(ctx, principal, id, req)
	return got[*models.User](args, 0), args.Error(1)
}

func (m *MockUserService) UpdatePassword(ctx context.Context, principal *common.Principal, id uuid.UUID, req *services.PasswordRequest) error {
	return m.Called(ctx, principal, id, req).Error(0)
}

func (m *MockUserService) Delete(ctx context.Context, principal *common.Principal, id uuid.UUID) error {
	return m.Called(ctx, principal, id).Error(0)
}

func (m *MockUserService) List(ctx context.Context, principal *common.Principal, filters models.UserFilters, params common.ListParams) (common.Page[*models.User], error) {
	args := m.Called(ctx, principal, filters, params)
	return got[common.Page[*models.User]](args, 0), args.Error(1)
}

func (m *MockUserService) Me(ctx context.Context, principal *common.Principal) (*services.CurrentUser, error) {
	args := m.Called(ctx, principal)
	return got[*services.CurrentUser](args, 0), args.Error(1)
}

type MockNotificationService struct{ mock.Mock }

func (m *MockNotificationService) List(ctx context.Context, principal *common.Principal, filters models.NotificationFilters, params common.ListParams) (common.Page[*models.Notification], error) {
	args := m.Called(ctx, principal, filters, params)
	return got[common.Page[*models.Notification]](args, 0), args.Error(1)
}

func (m *MockNotificationService) MarkRead(ctx context.Context, principal *common.Principal, id uuid.UUID) (*models.Notification, error) {
	args := m.Called(ctx, principal, id)
	return got[*models.Notification](args, 0), args.Error(1)
}

func (m *MockNotificationService) HandleTaskAssigned(ctx context.Context, payload *models.TaskAssignedPayload) error {
	return m.Called(ctx, payload).Error(0)
}

type MockMaintenanceService struct{ mock.Mock }

func (m *MockMaintenanceService) RefreshColors(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return got[int64](args, 0), args.Error(1)
}

func (m *MockMaintenanceService) InstantiateRecurring(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// Compile-time checks that the mocks stay in step with the service interfaces.
var (
	_ services.AuthService         = (*MockAuthService)(nil)
	_ services.TenantService       = (*MockTenantService)(nil)
	_ services.SSOService          = (*MockSSOService)(nil)
	_ services.AccessService       = (*MockAccessService)(nil)
	_ services.TaskService         = (*MockTaskService)(nil)
	_ services.CompletionService   = (*MockCompletionService)(nil)
	_ services.DocumentService     = (*MockDocumentService)(nil)
	_ services.ReportService       = (*MockReportService)(nil)
	_ services.UserService         = (*MockUserService)(nil)
	_ services.NotificationService = (*MockNotificationService)(nil)
	_ services.MaintenanceService  = (*MockMaintenanceService)(nil)
)
