package progression

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/yamiko-app/yamiko/internal/domain"
	"github.com/yamiko-app/yamiko/internal/event"
	"github.com/yamiko-app/yamiko/internal/repository"
)

// MockRepository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetProgression(ctx context.Context, userID string) (*domain.UserProgression, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProgression), args.Error(1)
}

func (m *MockRepository) BeginTx(ctx context.Context) (repository.ProgressionTx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.ProgressionTx), args.Error(1)
}

// MockTx
type MockTx struct {
	mock.Mock
}

func (m *MockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTx) GetProgressionForUpdate(ctx context.Context, userID string) (*domain.UserProgression, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProgression), args.Error(1)
}

func (m *MockTx) UpdateLevelAndExp(ctx context.Context, userID string, level int, exp int64) error {
	args := m.Called(ctx, userID, level, exp)
	return args.Error(0)
}

func (m *MockTx) UpdateEnergy(ctx context.Context, userID string, energy int) error {
	args := m.Called(ctx, userID, energy)
	return args.Error(0)
}

func (m *MockTx) UpdateRubies(ctx context.Context, userID string, rubies int64) error {
	args := m.Called(ctx, userID, rubies)
	return args.Error(0)
}

func (m *MockTx) InsertNotification(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockTx) InsertTransaction(ctx context.Context, t *domain.CurrencyTransaction) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

// recordingBus captures every published event
type recordingBus struct {
	*event.MemoryBus
	events []event.Event
}

func newRecordingBus() *recordingBus {
	b := &recordingBus{MemoryBus: event.NewMemoryBus()}
	return b
}

func (b *recordingBus) Publish(ctx context.Context, evt event.Event) error {
	b.events = append(b.events, evt)
	return b.MemoryBus.Publish(ctx, evt)
}

func (b *recordingBus) types() []event.Type {
	out := make([]event.Type, 0, len(b.events))
	for _, e := range b.events {
		out = append(out, e.Type)
	}
	return out
}
