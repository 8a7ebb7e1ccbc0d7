package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/yamiko-app/yamiko/internal/domain"
)

// MockProgressionService mocks progression.Service
type MockProgressionService struct {
	mock.Mock
}

func (m *MockProgressionService) AddExp(ctx context.Context, userID string, amount int64) (*domain.ProgressionResult, error) {
	args := m.Called(ctx, userID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProgressionResult), args.Error(1)
}

func (m *MockProgressionService) GrantExp(ctx context.Context, userID string, amount int64, reason string) (*domain.ProgressionResult, error) {
	args := m.Called(ctx, userID, amount, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProgressionResult), args.Error(1)
}

func (m *MockProgressionService) GrantRubies(ctx context.Context, userID string, amount int64, reason string) (*domain.RubyGrantResult, error) {
	args := m.Called(ctx, userID, amount, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RubyGrantResult), args.Error(1)
}

func (m *MockProgressionService) GetProgression(ctx context.Context, userID string) (*domain.ProgressionView, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProgressionView), args.Error(1)
}

func (m *MockProgressionService) ComputeExpThreshold(level int) int64 {
	args := m.Called(level)
	return args.Get(0).(int64)
}

func (m *MockProgressionService) Shutdown(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// MockDropRateService mocks droprate.Service
type MockDropRateService struct {
	mock.Mock
}

func (m *MockDropRateService) GetDropRates(ctx context.Context, packType string) domain.RateMap {
	args := m.Called(ctx, packType)
	return args.Get(0).(domain.RateMap)
}

func (m *MockDropRateService) ResolveDropRates(ctx context.Context, packType string) domain.ResolvedRates {
	args := m.Called(ctx, packType)
	return args.Get(0).(domain.ResolvedRates)
}

func (m *MockDropRateService) UpdateDropRates(ctx context.Context, packType string, rates domain.RateMap) (*domain.DropRateUpdateResult, error) {
	args := m.Called(ctx, packType, rates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DropRateUpdateResult), args.Error(1)
}

func (m *MockDropRateService) ListPacks(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockDropRateService) Roll(ctx context.Context, packType string) domain.Tier {
	args := m.Called(ctx, packType)
	return args.Get(0).(domain.Tier)
}

func (m *MockDropRateService) Shutdown(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
