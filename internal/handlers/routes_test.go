package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"taskboard/internal/apperrors"
	"taskboard/internal/common"
	"taskboard/internal/middleware"
	"taskboard/internal/models"
	"taskboard/internal/services"
	"taskboard/testhelpers"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type routerMocks struct {
	auth    *testhelpers.MockAuthService
	tenants *testhelpers.MockTenantService
	access  *testhelpers.MockAccessService
	tasks   *testhelpers.MockTaskService
	jobs    *testhelpers.MockMaintenanceService
}

func newTestRouter(t *testing.T) (*echo.Echo, *routerMocks) {
	t.Helper()
	m := &routerMocks{
		auth:    &testhelpers.MockAuthService{},
		tenants: &testhelpers.MockTenantService{},
		access:  &testhelpers.MockAccessService{},
		tasks:   &testhelpers.MockTaskService{},
		jobs:    &testhelpers.MockMaintenanceService{},
	}
	completion := &testhelpers.MockCompletionService{}
	users := &testhelpers.MockUserService{}

	r := &Router{
		Auth:         NewAuthHandlers(m.auth, &testhelpers.MockSSOService{}, users),
		Tenant:       NewTenantHandlers(m.tenants),
		Users:        NewUserHandlers(users),
		Locations:    NewLocationHandlers(nil),
		Topics:       NewTopicHandlers(nil),
		Access:       NewAccessHandlers(nil),
		Tasks:        NewTaskHandlers(m.tasks, completion),
		Notification: NewNotificationHandlers(&testhelpers.MockNotificationService{}),
		Documents:    NewDocumentHandlers(&testhelpers.MockDocumentService{}),
		Reports:      NewReportHandlers(&testhelpers.MockReportService{}),
		References:   NewReferenceHandlers(nil),
		Assessments:  NewAssessmentHandlers(nil, nil),
		Jobs:         NewJobHandlers(m.jobs),
		Health: NewHealthHandlers("test", map[string]Pinger{
			"database": PingFunc(func(context.Context) error { return nil }),
		}),
		AuthService:   m.auth,
		TenantService: m.tenants,
		Guard:         middleware.NewAccessMiddleware(m.access),
		Version:       middleware.NewVersionMiddleware(),
	}

	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler
	r.Register(e)
	return e, m
}

func (m *routerMocks) authenticate(token string, p *common.Principal) {
	claims := &services.TokenClaims{CustomerID: p.CustomerID.String(), UserType: p.UserType}
	m.auth.On("ValidateToken", mock.Anything, token).Return(claims, nil)
	m.auth.On("PrincipalFromClaims", mock.Anything, claims).Return(p, nil)
}

func doRequest(e *echo.Echo, method, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRoutesRequireToken(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := doRequest(e, http.MethodGet, "/v1/tasks", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "v1", rec.Header().Get("X-API-Version"))
}

func TestRoutesHealthIsPublic(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := doRequest(e, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRoutesLoginResolvesTenant(t *testing.T) {
	e, m := newTestRouter(t)
	m.tenants.On("ResolveByHost", mock.Anything, "", "").Return(nil, fmt.Errorf("no customer for host: %w", apperrors.ErrBadRequest))

	rec := doRequest(e, http.MethodPost, "/v1/auth/login", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	m.tenants.AssertExpectations(t)
}

func TestRoutesEnforceCreds(t *testing.T) {
	e, m := newTestRouter(t)
	user := &common.Principal{UserID: uuid.New(), CustomerID: uuid.New(), UserType: common.UserTypeUser, TokenID: "jti"}
	m.authenticate("user-token", user)
	m.access.On("HasCred", mock.Anything, user, "tasks.view", (*uuid.UUID)(nil)).Return(false, nil)

	rec := doRequest(e, http.MethodGet, "/v1/tasks", "user-token")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	m.tasks.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRoutesGrantCreds(t *testing.T) {
	e, m := newTestRouter(t)
	user := &common.Principal{UserID: uuid.New(), CustomerID: uuid.New(), UserType: common.UserTypeUser, TokenID: "jti"}
	m.authenticate("user-token", user)
	m.access.On("HasCred", mock.Anything, user, "tasks.view", (*uuid.UUID)(nil)).Return(true, nil)
	m.tasks.On("List", mock.Anything, user, mock.Anything, mock.Anything).
		Return(common.Page[*models.Task]{Data: []*models.Task{}}, nil)

	rec := doRequest(e, http.MethodGet, "/v1/tasks", "user-token")

	assert.Equal(t, http.StatusOK, rec.Code)
	m.tasks.AssertExpectations(t)
}

func TestRoutesJobsNeedSuperAdmin(t *testing.T) {
	e, m := newTestRouter(t)
	admin := &common.Principal{UserID: uuid.New(), CustomerID: uuid.New(), UserType: common.UserTypeAdmin, TokenID: "a"}
	root := &common.Principal{UserID: uuid.New(), CustomerID: uuid.New(), UserType: common.UserTypeSuperAdmin, TokenID: "r"}
	m.authenticate("admin-token", admin)
	m.authenticate("root-token", root)
	m.jobs.On("InstantiateRecurring", mock.Anything).Return(2, nil)

	rec := doRequest(e, http.MethodPost, "/v1/jobs/instantiate-recurring", "admin-token")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(e, http.MethodPost, "/v1/jobs/instantiate-recurring", "root-token")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"created":2`)
}
