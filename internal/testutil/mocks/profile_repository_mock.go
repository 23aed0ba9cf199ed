package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/profilehub/internal/models"
)

// MockProfileRepository is a mock implementation of repository.ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) Get(ctx context.Context) (*models.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileRepository) Upsert(ctx context.Context, p models.Profile) (models.UpsertResult, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(models.UpsertResult), args.Error(1)
}

func (m *MockProfileRepository) ListSummaries(ctx context.Context) ([]models.ProfileSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ProfileSummary), args.Error(1)
}

func (m *MockProfileRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
