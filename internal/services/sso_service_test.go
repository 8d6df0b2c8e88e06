package services

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"testing"
	"time"

	"taskboard/internal/apperrors"
	"taskboard/internal/caching"
	"taskboard/internal/common"
	"taskboard/internal/models"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) Login(ctx context.Context, customer *models.Customer, req *LoginRequest) (*models.TokenResponse, error) {
	args := m.Called(ctx, customer, req)
	return got[*models.TokenResponse](args, 0), args.Error(1)
}

func (m *MockAuthService) IssueTokens(ctx context.Context, user *models.User) (*models.TokenResponse, error) {
	args := m.Called(ctx, user)
	return got[*models.TokenResponse](args, 0), args.Error(1)
}

func (m *MockAuthService) Refresh(ctx context.Context, req *RefreshRequest) (*models.TokenResponse, error) {
	args := m.Called(ctx, req)
	return got[*models.TokenResponse](args, 0), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, principal *common.Principal, expiresAt time.Time, refreshToken string) error {
	return m.Called(ctx, principal, expiresAt, refreshToken).Error(0)
}

func (m *MockAuthService) ValidateToken(ctx context.Context, token string) (*TokenClaims, error) {
	args := m.Called(ctx, token)
	return got[*TokenClaims](args, 0), args.Error(1)
}

func (m *MockAuthService) PrincipalFromClaims(ctx context.Context, claims *TokenClaims) (*common.Principal, error) {
	args := m.Called(ctx, claims)
	return got[*common.Principal](args, 0), args.Error(1)
}

type fakeIdentityProvider struct {
	email string
	err   error
	nonce string
}

func (f *fakeIdentityProvider) AuthCodeURL(state, nonce string) string {
	return "https://idp.example.com/authorize?state=" + state + "&nonce=" + nonce
}

func (f *fakeIdentityProvider) Exchange(ctx context.Context, code, nonce string) (string, error) {
	f.nonce = nonce
	return f.email, f.err
}

type SSOServiceTestSuite struct {
	suite.Suite
	clients  *MockSocialiteClientRepository
	users    *MockUserRepository
	auth     *MockAuthService
	cache    *MockCacheService
	idp      *fakeIdentityProvider
	service  *ssoService
	ctx      context.Context
	customer *models.Customer
	client   *models.SocialiteClient
}

func (suite *SSOServiceTestSuite) SetupTest() {
	suite.clients = new(MockSocialiteClientRepository)
	suite.users = new(MockUserRepository)
	suite.auth = new(MockAuthService)
	suite.cache = new(MockCacheService)
	suite.idp = &fakeIdentityProvider{email: "jdoe@acme.example.com"}
	suite.service = NewSSOService(suite.clients, suite.users, suite.auth, suite.cache, SSOConfig{CallbackBase: "https://api.example.com/"}).(*ssoService)
	suite.service.providers = func(client *models.SocialiteClient, redirectURL string) (IdentityProvider, error) {
		return suite.idp, nil
	}
	suite.ctx = context.Background()
	suite.customer = &models.Customer{ID: uuid.New(), Domain: "acme.example.com", Active: true}
	suite.client = &models.SocialiteClient{ID: uuid.New(), CustomerID: suite.customer.ID, Provider: models.ProviderAzure, Active: true}
}

func (suite *SSOServiceTestSuite) TearDownTest() {
	suite.clients.AssertExpectations(suite.T())
	suite.users.AssertExpectations(suite.T())
	suite.auth.AssertExpectations(suite.T())
	suite.cache.AssertExpectations(suite.T())
}

func (suite *SSOServiceTestSuite) expectState(state string, record models.SSOState) {
	key := caching.SSOStateKey(state)
	suite.cache.On("TakeJSON", suite.ctx, key, mock.AnythingOfType("*models.SSOState")).
		Run(func(args mock.Arguments) {
			*args.Get(2).(*models.SSOState) = record
		}).Return(nil)
}

func (suite *SSOServiceTestSuite) TestRedirectURL_StoresState() {
	suite.clients.On("GetActiveByProvider", suite.ctx, suite.customer.ID, models.ProviderAzure).Return(suite.client, nil)
	suite.cache.On("SetJSON", suite.ctx, mock.AnythingOfType("string"), mock.MatchedBy(func(s models.SSOState) bool {
		return s.CustomerID == suite.customer.ID.String() && s.Provider == models.ProviderAzure && s.Nonce != ""
	}), ssoStateTTL).Return(nil)

	url, err := suite.service.RedirectURL(suite.ctx, suite.customer, models.ProviderAzure)

	require.NoError(suite.T(), err)
	assert.Contains(suite.T(), url, "https://idp.example.com/authorize?state=")
}

func (suite *SSOServiceTestSuite) TestRedirectURL_UnknownProvider() {
	_, err := suite.service.RedirectURL(suite.ctx, suite.customer, "github")

	assert.True(suite.T(), errors.Is(err, apperrors.ErrNotFound))
}

func (suite *SSOServiceTestSuite) TestCallback_Success() {
	user := &models.User{ID: uuid.New(), CustomerID: suite.customer.ID, Active: true, Approved: true}
	tokens := &models.TokenResponse{AccessToken: "at"}
	suite.expectState("st", models.SSOState{CustomerID: suite.customer.ID.String(), Provider: models.ProviderAzure, Nonce: "n1"})
	suite.clients.On("GetActiveByProvider", suite.ctx, suite.customer.ID, models.ProviderAzure).Return(suite.client, nil)
	suite.users.On("GetByEmail", suite.ctx, suite.customer.ID, "jdoe@acme.example.com").Return(user, nil)
	suite.auth.On("IssueTokens", suite.ctx, user).Return(tokens, nil)

	resp, err := suite.service.Callback(suite.ctx, models.ProviderAzure, "code", "st")

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), tokens, resp)
	assert.Equal(suite.T(), "n1", suite.idp.nonce)
}

func (suite *SSOServiceTestSuite) TestCallback_AmbiguousEmailRejected() {
	suite.expectState("st", models.SSOState{CustomerID: suite.customer.ID.String(), Provider: models.ProviderAzure, Nonce: "n1"})
	suite.clients.On("GetActiveByProvider", suite.ctx, suite.customer.ID, models.ProviderAzure).Return(suite.client, nil)
	suite.users.On("GetByEmail", suite.ctx, suite.customer.ID, "jdoe@acme.example.com").
		Return(nil, apperrors.Conflict("email matches more than one user"))

	_, err := suite.service.Callback(suite.ctx, models.ProviderAzure, "code", "st")

	assert.True(suite.T(), errors.Is(err, apperrors.ErrForbidden))
	suite.auth.AssertNotCalled(suite.T(), "IssueTokens", mock.Anything, mock.Anything)
}

func (suite *SSOServiceTestSuite) TestCallback_UnknownState() {
	suite.cache.On("TakeJSON", suite.ctx, caching.SSOStateKey("gone"), mock.Anything).Return(caching.ErrMiss)

	_, err := suite.service.Callback(suite.ctx, models.ProviderAzure, "code", "gone")

	assert.True(suite.T(), errors.Is(err, apperrors.ErrBadRequest))
}

func (suite *SSOServiceTestSuite) TestCallback_ProviderMismatch() {
	suite.expectState("st", models.SSOState{CustomerID: suite.customer.ID.String(), Provider: models.ProviderOkta})

	_, err := suite.service.Callback(suite.ctx, models.ProviderAzure, "code", "st")

	assert.True(suite.T(), errors.Is(err, apperrors.ErrBadRequest))
}

func (suite *SSOServiceTestSuite) TestCallback_UnknownUser() {
	suite.expectState("st", models.SSOState{CustomerID: suite.customer.ID.String(), Provider: models.ProviderAzure})
	suite.clients.On("GetActiveByProvider", suite.ctx, suite.customer.ID, models.ProviderAzure).Return(suite.client, nil)
	suite.users.On("GetByEmail", suite.ctx, suite.customer.ID, "jdoe@acme.example.com").Return(nil, apperrors.NotFound("user"))

	_, err := suite.service.Callback(suite.ctx, models.ProviderAzure, "code", "st")

	assert.True(suite.T(), errors.Is(err, apperrors.ErrForbidden))
}

func (suite *SSOServiceTestSuite) TestCallback_ExchangeFails() {
	suite.idp.err = errors.New("invalid_grant")
	suite.expectState("st", models.SSOState{CustomerID: suite.customer.ID.String(), Provider: models.ProviderAzure})
	suite.clients.On("GetActiveByProvider", suite.ctx, suite.customer.ID, models.ProviderAzure).Return(suite.client, nil)

	_, err := suite.service.Callback(suite.ctx, models.ProviderAzure, "code", "st")

	assert.True(suite.T(), errors.Is(err, apperrors.ErrUnauthorized))
}

func (suite *SSOServiceTestSuite) TestCallbackURL() {
	assert.Equal(suite.T(), "https://api.example.com/v1/auth/sso/azure/callback", suite.service.callbackURL(suite.client))

	custom := &models.SocialiteClient{Provider: models.ProviderOkta, RedirectURL: "https://app.example.com/sso"}
	assert.Equal(suite.T(), "https://app.example.com/sso", suite.service.callbackURL(custom))
}

func TestSSOServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SSOServiceTestSuite))
}

func signIDToken(t *testing.T, key *rsa.PrivateKey, claims idTokenClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = "test-key"
	raw, err := token.SignedString(key)
	require.NoError(t, err)
	return raw
}

func TestVerifyIDToken(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	jwks := keyfunc.NewGiven(map[string]keyfunc.GivenKey{
		"test-key": keyfunc.NewGivenRSA(&key.PublicKey, keyfunc.GivenKeyOptions{Algorithm: "RS256"}),
	})

	issuer := "https://login.microsoftonline.com/contoso/v2.0"
	valid := func() idTokenClaims {
		return idTokenClaims{
			PreferredUsername: "JDoe@Contoso.com",
			Nonce:             "n1",
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    issuer,
				Audience:  jwt.ClaimStrings{"client-id"},
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
	}

	t.Run("valid token", func(t *testing.T) {
		email, err := verifyIDToken(signIDToken(t, key, valid()), jwks.Keyfunc, issuer, "client-id", "n1")
		require.NoError(t, err)
		assert.Equal(t, "jdoe@contoso.com", email)
	})

	t.Run("nonce mismatch", func(t *testing.T) {
		_, err := verifyIDToken(signIDToken(t, key, valid()), jwks.Keyfunc, issuer, "client-id", "other")
		assert.Error(t, err)
	})

	t.Run("wrong audience", func(t *testing.T) {
		_, err := verifyIDToken(signIDToken(t, key, valid()), jwks.Keyfunc, issuer, "someone-else", "n1")
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		c := valid()
		c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
		_, err := verifyIDToken(signIDToken(t, key, c), jwks.Keyfunc, issuer, "client-id", "n1")
		assert.Error(t, err)
	})

	t.Run("no email claim", func(t *testing.T) {
		c := valid()
		c.PreferredUsername = "jdoe"
		_, err := verifyIDToken(signIDToken(t, key, c), jwks.Keyfunc, issuer, "client-id", "n1")
		assert.Error(t, err)
	})

	t.Run("email claim preferred", func(t *testing.T) {
		c := valid()
		c.Email = "john.doe@contoso.com"
		email, err := verifyIDToken(signIDToken(t, key, c), jwks.Keyfunc, issuer, "client-id", "n1")
		require.NoError(t, err)
		assert.Equal(t, "john.doe@contoso.com", email)
	})
}
