package listing_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/SitNav/Market-1.0-sub000/internal/models"
	"github.com/SitNav/Market-1.0-sub000/internal/services/listing"
	"github.com/SitNav/Market-1.0-sub000/internal/storage"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) List(ctx context.Context, f listing.Filter) ([]models.Listing, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Listing), args.Error(1)
}

func (m *MockRepository) Get(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *MockRepository) GetAndCountView(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, l *models.Listing) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockRepository) Update(ctx context.Context, l *models.Listing) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Save(ctx context.Context, img storage.Image) (string, error) {
	args := m.Called(ctx, img)
	return args.String(0), args.Error(1)
}
