package services

import (
	"context"
	"errors"
	"testing"

	"taskboard/internal/apperrors"
	"taskboard/internal/common"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessService_AdminSeesEverything(t *testing.T) {
	securities := new(MockSecurityRepository)
	access := NewAccessService(securities)
	admin := adminPrincipal(uuid.New())

	ids, err := access.VisibleLocationIDs(context.Background(), admin)
	require.NoError(t, err)
	assert.Nil(t, ids)

	scope, err := access.Scope(context.Background(), admin)
	require.NoError(t, err)
	assert.False(t, scope.Restricted)

	ok, err := access.HasCred(context.Background(), admin, "tasks.manage", nil)
	require.NoError(t, err)
	assert.True(t, ok)

	securities.AssertNotCalled(t, "LocationIDsForUser")
	securities.AssertNotCalled(t, "UserHasCred")
}

func TestAccessService_UserScopedBySecurityRows(t *testing.T) {
	ctx := context.Background()
	securities := new(MockSecurityRepository)
	access := NewAccessService(securities)
	user := userPrincipal(uuid.New())
	visible, hidden := uuid.New(), uuid.New()

	securities.On("LocationIDsForUser", ctx, user.CustomerID, user.UserID).Return([]uuid.UUID{visible}, nil)

	ok, err := access.CanSeeLocation(ctx, user, visible)
	require.NoError(t, err)
	assert.True(t, ok)

	err = access.RequireLocation(ctx, user, hidden)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestAccessService_UserWithoutSecuritySeesNothing(t *testing.T) {
	ctx := context.Background()
	securities := new(MockSecurityRepository)
	access := NewAccessService(securities)
	user := userPrincipal(uuid.New())

	securities.On("LocationIDsForUser", ctx, user.CustomerID, user.UserID).Return([]uuid.UUID{}, nil)

	scope, err := access.Scope(ctx, user)
	require.NoError(t, err)
	assert.True(t, scope.Restricted)
	assert.False(t, scope.Allows(uuid.New()))
}

func TestAccessService_SharesLocation(t *testing.T) {
	ctx := context.Background()
	securities := new(MockSecurityRepository)
	access := NewAccessService(securities)
	user := userPrincipal(uuid.New())
	colleague, stranger := uuid.New(), uuid.New()
	shared, other := uuid.New(), uuid.New()

	securities.On("LocationIDsForUser", ctx, user.CustomerID, user.UserID).Return([]uuid.UUID{shared}, nil)
	securities.On("LocationIDsForUser", ctx, user.CustomerID, colleague).Return([]uuid.UUID{other, shared}, nil)
	securities.On("LocationIDsForUser", ctx, user.CustomerID, stranger).Return([]uuid.UUID{other}, nil)

	ok, err := access.SharesLocation(ctx, user, colleague)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = access.SharesLocation(ctx, user, stranger)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAccessService_HasCredWrapsRepositoryError(t *testing.T) {
	ctx := context.Background()
	securities := new(MockSecurityRepository)
	access := NewAccessService(securities)
	user := userPrincipal(uuid.New())
	locationID := uuid.New()
	boom := errors.New("connection reset")

	securities.On("UserHasCred", ctx, user.CustomerID, user.UserID, "reports.view", &locationID).Return(false, boom)

	ok, err := access.HasCred(ctx, user, "reports.view", &locationID)
	assert.False(t, ok)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "reports.view")
}

func TestRequireAdminRoles(t *testing.T) {
	customerID := uuid.New()
	superAdmin := &common.Principal{UserID: uuid.New(), CustomerID: customerID, UserType: common.UserTypeSuperAdmin}

	assert.NoError(t, requireAdmin(adminPrincipal(customerID)))
	assert.NoError(t, requireAdmin(superAdmin))
	assert.ErrorIs(t, requireAdmin(userPrincipal(customerID)), apperrors.ErrForbidden)

	assert.NoError(t, requireSuperAdmin(superAdmin))
	assert.ErrorIs(t, requireSuperAdmin(adminPrincipal(customerID)), apperrors.ErrForbidden)
}
