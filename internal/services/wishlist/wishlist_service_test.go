package wishlist_test

import (
	"context"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SitNav/Market-1.0-sub000/internal/apperr"
	"github.com/SitNav/Market-1.0-sub000/internal/models"
	"github.com/SitNav/Market-1.0-sub000/internal/services/wishlist"
	"github.com/SitNav/Market-1.0-sub000/internal/testutil"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) List(ctx context.Context, userID string) ([]models.WishlistItem, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.WishlistItem), args.Error(1)
}

func (m *MockRepository) Add(ctx context.Context, item *models.WishlistItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockRepository) Remove(ctx context.Context, userID string, listingID uuid.UUID) error {
	return m.Called(ctx, userID, listingID).Error(0)
}

func setup(t *testing.T) (*fiber.App, *MockRepository) {
	t.Helper()
	repo := new(MockRepository)
	app := testutil.NewApp()
	wishlist.NewWishlistService(repo, testutil.JWT(), testutil.Log(), testutil.Timeout).SetupRoutes(app.Group("/api"))
	t.Cleanup(func() { repo.AssertExpectations(t) })
	return app, repo
}

func TestGetWishlist(t *testing.T) {
	app, repo := setup(t)
	repo.On("List", mock.Anything, "u1").Return([]models.WishlistItem{{UserID: "u1"}}, nil).Once()

	resp := testutil.Do(t, app, "GET", "/api/wishlist", nil, testutil.Token(t, "u1", false))
	require.Equal(t, 200, resp.Code)
	assert.Equal(t, float64(1), resp.JSON(t)["count"])

	assert.Equal(t, 401, testutil.Do(t, app, "GET", "/api/wishlist", nil, "").Code)
}

func TestAddToWishlist(t *testing.T) {
	app, repo := setup(t)
	listingID := uuid.New()
	repo.On("Add", mock.Anything, mock.MatchedBy(func(i *models.WishlistItem) bool {
		return i.UserID == "u1" && i.ListingID == listingID
	})).Return(nil).Once()
	repo.On("Add", mock.Anything, mock.Anything).Return(apperr.Conflict("wishlist item already exists")).Once()

	body := map[string]any{"listingId": listingID.String()}
	assert.Equal(t, 201, testutil.Do(t, app, "POST", "/api/wishlist", body, testutil.Token(t, "u1", false)).Code)
	assert.Equal(t, 409, testutil.Do(t, app, "POST", "/api/wishlist", body, testutil.Token(t, "u1", false)).Code)
}

func TestAddToWishlist_BadID(t *testing.T) {
	app, _ := setup(t)

	resp := testutil.Do(t, app, "POST", "/api/wishlist", map[string]any{"listingId": "x"}, testutil.Token(t, "u1", false))
	assert.Equal(t, 400, resp.Code)
}

func TestRemoveFromWishlist(t *testing.T) {
	app, repo := setup(t)
	listingID := uuid.New()
	repo.On("Remove", mock.Anything, "u1", listingID).Return(nil).Once()

	resp := testutil.Do(t, app, "DELETE", "/api/wishlist/"+listingID.String(), nil, testutil.Token(t, "u1", false))
	assert.Equal(t, 200, resp.Code)
}
