package auth_test

import (
	"context"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SitNav/Market-1.0-sub000/internal/apperr"
	"github.com/SitNav/Market-1.0-sub000/internal/models"
	"github.com/SitNav/Market-1.0-sub000/internal/services/auth"
	"github.com/SitNav/Market-1.0-sub000/internal/testutil"
)

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Verify(ctx context.Context, credential string) (*auth.Identity, error) {
	args := m.Called(ctx, credential)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Identity), args.Error(1)
}

type MockUsers struct {
	mock.Mock
}

func (m *MockUsers) Get(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUsers) Upsert(ctx context.Context, u *models.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUsers) UpdateProfile(ctx context.Context, u *models.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUsers) Rating(ctx context.Context, sellerID string) (models.Rating, error) {
	args := m.Called(ctx, sellerID)
	return args.Get(0).(models.Rating), args.Error(1)
}

func setup(t *testing.T, admins ...string) (*fiber.App, *MockProvider, *MockUsers) {
	t.Helper()
	provider := new(MockProvider)
	users := new(MockUsers)
	isAdmin := func(id string) bool {
		for _, a := range admins {
			if a == id {
				return true
			}
		}
		return false
	}

	app := testutil.NewApp()
	auth.NewAuthService(provider, users, testutil.JWT(), isAdmin, testutil.Log(), testutil.Timeout).
		SetupRoutes(app.Group("/api"))
	t.Cleanup(func() {
		provider.AssertExpectations(t)
		users.AssertExpectations(t)
	})
	return app, provider, users
}

func TestTelegramAuth_UpsertsAndIssuesToken(t *testing.T) {
	app, provider, users := setup(t)
	provider.On("Verify", mock.Anything, "signed").Return(&auth.Identity{
		ID: "tg_1", FirstName: "Ana", PhotoURL: "https://t.me/a.jpg",
	}, nil).Once()
	users.On("Upsert", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.ID == "tg_1" && u.FirstName == "Ana" && u.IsVerified && !u.IsAdmin &&
			u.ProfileImageURL != nil && *u.ProfileImageURL == "https://t.me/a.jpg"
	})).Return(nil).Once()

	resp := testutil.Do(t, app, "POST", "/api/auth/telegram", map[string]any{"initData": "signed"}, "")
	require.Equal(t, 200, resp.Code, string(resp.Body))

	body := resp.JSON(t)
	claims, err := testutil.JWT().ValidateToken(body["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, "tg_1", claims.UserID)
	assert.False(t, claims.IsAdmin)
	assert.Equal(t, "tg_1", body["user"].(map[string]any)["id"])
}

func TestTelegramAuth_PromotesConfiguredAdmins(t *testing.T) {
	app, provider, users := setup(t, "tg_9")
	provider.On("Verify", mock.Anything, "signed").Return(&auth.Identity{ID: "tg_9"}, nil).Once()
	users.On("Upsert", mock.Anything, mock.MatchedBy(func(u *models.User) bool { return u.IsAdmin })).Return(nil).Once()

	resp := testutil.Do(t, app, "POST", "/api/auth/telegram", map[string]any{"initData": "signed"}, "")
	require.Equal(t, 200, resp.Code)

	claims, err := testutil.JWT().ValidateToken(resp.JSON(t)["token"].(string))
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin)
}

func TestTelegramAuth_KeepsStoredAdminFlag(t *testing.T) {
	app, provider, users := setup(t)
	provider.On("Verify", mock.Anything, "signed").Return(&auth.Identity{ID: "tg_5"}, nil).Once()
	users.On("Upsert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*models.User).IsAdmin = true
	}).Return(nil).Once()

	resp := testutil.Do(t, app, "POST", "/api/auth/telegram", map[string]any{"initData": "signed"}, "")
	require.Equal(t, 200, resp.Code)

	claims, err := testutil.JWT().ValidateToken(resp.JSON(t)["token"].(string))
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin)
}

func TestTelegramAuth_Rejected(t *testing.T) {
	app, provider, _ := setup(t)
	provider.On("Verify", mock.Anything, "forged").Return(nil, apperr.ErrUnauthorized).Once()

	resp := testutil.Do(t, app, "POST", "/api/auth/telegram", map[string]any{"initData": "forged"}, "")
	assert.Equal(t, 401, resp.Code)
}

func TestTelegramAuth_MissingInitData(t *testing.T) {
	app, _, _ := setup(t)

	resp := testutil.Do(t, app, "POST", "/api/auth/telegram", map[string]any{}, "")
	require.Equal(t, 400, resp.Code)
	assert.Contains(t, resp.JSON(t)["fields"], "initData")
}

func TestMe(t *testing.T) {
	app, _, users := setup(t)
	users.On("Get", mock.Anything, "tg_1").Return(&models.User{ID: "tg_1", Email: "a@b.c"}, nil).Once()

	resp := testutil.Do(t, app, "GET", "/api/auth/me", nil, testutil.Token(t, "tg_1", false))
	require.Equal(t, 200, resp.Code)
	assert.Equal(t, "a@b.c", resp.JSON(t)["email"])

	resp = testutil.Do(t, app, "GET", "/api/auth/me", nil, "")
	assert.Equal(t, 401, resp.Code)
}
