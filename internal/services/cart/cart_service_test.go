package cart_test

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
	"github.com/SitNav/Market-1.0-sub000/internal/services/cart"
	"github.com/SitNav/Market-1.0-sub000/internal/testutil"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) List(ctx context.Context, userID string) ([]models.CartItem, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.CartItem), args.Error(1)
}

func (m *MockRepository) Add(ctx context.Context, item *models.CartItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockRepository) SetQuantity(ctx context.Context, userID string, listingID uuid.UUID, quantity int) (*models.CartItem, error) {
	args := m.Called(ctx, userID, listingID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CartItem), args.Error(1)
}

func (m *MockRepository) Remove(ctx context.Context, userID string, listingID uuid.UUID) error {
	return m.Called(ctx, userID, listingID).Error(0)
}

func setup(t *testing.T) (*fiber.App, *MockRepository) {
	t.Helper()
	repo := new(MockRepository)
	app := testutil.NewApp()
	cart.NewCartService(repo, testutil.JWT(), testutil.Log(), testutil.Timeout).SetupRoutes(app.Group("/api"))
	t.Cleanup(func() { repo.AssertExpectations(t) })
	return app, repo
}

func TestAddToCart_DefaultsToOne(t *testing.T) {
	app, repo := setup(t)
	listingID := uuid.New()
	repo.On("Add", mock.Anything, mock.MatchedBy(func(i *models.CartItem) bool {
		return i.UserID == "u1" && i.ListingID == listingID && i.Quantity == 1
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.CartItem).Quantity = 3
	}).Return(nil).Once()

	resp := testutil.Do(t, app, "POST", "/api/cart", map[string]any{"listingId": listingID.String()}, testutil.Token(t, "u1", false))
	require.Equal(t, 201, resp.Code, string(resp.Body))
	assert.Equal(t, float64(3), resp.JSON(t)["quantity"])
}

func TestAddToCart_Validation(t *testing.T) {
	app, _ := setup(t)

	resp := testutil.Do(t, app, "POST", "/api/cart", map[string]any{"listingId": "x", "quantity": 0}, testutil.Token(t, "u1", false))
	require.Equal(t, 400, resp.Code)
	fields := resp.JSON(t)["fields"].(map[string]any)
	assert.Contains(t, fields, "listingId")
	assert.Contains(t, fields, "quantity")
}

func TestUpdateCartItem(t *testing.T) {
	app, repo := setup(t)
	listingID := uuid.New()
	repo.On("SetQuantity", mock.Anything, "u1", listingID, 4).Return(&models.CartItem{ListingID: listingID, Quantity: 4}, nil).Once()
	repo.On("SetQuantity", mock.Anything, "u2", listingID, 2).Return(nil, apperr.NotFound("cart item")).Once()

	path := "/api/cart/" + listingID.String()
	assert.Equal(t, 200, testutil.Do(t, app, "PUT", path, map[string]any{"quantity": 4}, testutil.Token(t, "u1", false)).Code)
	assert.Equal(t, 404, testutil.Do(t, app, "PUT", path, map[string]any{"quantity": 2}, testutil.Token(t, "u2", false)).Code)
	assert.Equal(t, 400, testutil.Do(t, app, "PUT", path, map[string]any{"quantity": 0}, testutil.Token(t, "u1", false)).Code)
}

func TestGetAndRemoveCart(t *testing.T) {
	app, repo := setup(t)
	listingID := uuid.New()
	repo.On("List", mock.Anything, "u1").Return([]models.CartItem{}, nil).Once()
	repo.On("Remove", mock.Anything, "u1", listingID).Return(nil).Once()

	assert.Equal(t, 200, testutil.Do(t, app, "GET", "/api/cart", nil, testutil.Token(t, "u1", false)).Code)
	assert.Equal(t, 200, testutil.Do(t, app, "DELETE", "/api/cart/"+listingID.String(), nil, testutil.Token(t, "u1", false)).Code)
	assert.Equal(t, 401, testutil.Do(t, app, "GET", "/api/cart", nil, "").Code)
}
