package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/profilehub/internal/models"
)

// MockProfileService is a mock implementation of services.ProfileService
type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) FetchProfile(ctx context.Context) (*models.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileService) UpsertProfile(ctx context.Context, in models.ProfileInput) (models.UpsertResult, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(models.UpsertResult), args.Error(1)
}

func (m *MockProfileService) ListSummaries(ctx context.Context) ([]models.ProfileSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ProfileSummary), args.Error(1)
}

func (m *MockProfileService) Ready(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
