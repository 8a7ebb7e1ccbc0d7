package droprate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yamiko-app/yamiko/internal/domain"
	"github.com/yamiko-app/yamiko/internal/event"
)

// MockRepository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetRates(ctx context.Context, packType string) (*domain.DropRateTable, error) {
	args := m.Called(ctx, packType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DropRateTable), args.Error(1)
}

func (m *MockRepository) SaveRates(ctx context.Context, table domain.DropRateTable) error {
	args := m.Called(ctx, table)
	return args.Error(0)
}

func (m *MockRepository) ListPackTypes(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestService(repo *MemoryRepository, bus event.Bus, opts ...Option) Service {
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewService(repo, bus, opts...)
}

func TestUpdateThenGetReturnsExactMap(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(NewMemoryRepository(), nil)

	rates := domain.RateMap{"COMMON": 60, "RARE": 25, "SR": 10, "SSR": 4, "UR": 1}
	result, err := svc.UpdateDropRates(ctx, "STANDARD", rates)
	require.NoError(t, err)
	assert.Equal(t, "STANDARD", result.PackType)
	assert.Equal(t, rates, result.Rates)
	assert.Equal(t, fixedNow, result.UpdatedAt)

	assert.Equal(t, rates, svc.GetDropRates(ctx, "STANDARD"))
}

func TestUpdateDropRates_FailureLeavesTableUntouched(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(NewMemoryRepository(), nil)

	original := domain.RateMap{"COMMON": 50, "RARE": 30, "SR": 12, "SSR": 6, "UR": 2}
	_, err := svc.UpdateDropRates(ctx, "PREMIUM", original)
	require.NoError(t, err)

	bad := []domain.RateMap{
		{"COMMON": 150, "RARE": 25, "SR": 10, "SSR": 4, "UR": 1},
		{"COMMON": 60, "RARE": 25, "SR": 10, "SSR": 4},
		{"COMMON": 60, "RARE": 25, "SR": 10, "SSR": 4, "UR": 5},
		{"COMMON": 60, "RARE": 25, "SR": 10, "SSR": 4, "UR": 1, "MYTHIC": 0},
	}
	for _, rates := range bad {
		_, err := svc.UpdateDropRates(ctx, "PREMIUM", rates)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Equal(t, original, svc.GetDropRates(ctx, "PREMIUM"))
	}
}

func TestUpdateDropRates_NormalizesPackType(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(NewMemoryRepository(), nil)

	rates := domain.RateMap{"COMMON": 40, "RARE": 30, "SR": 20, "SSR": 8, "UR": 2}
	result, err := svc.UpdateDropRates(ctx, " summer ", rates)
	require.NoError(t, err)
	assert.Equal(t, "SUMMER", result.PackType)
	assert.Equal(t, rates, svc.GetDropRates(ctx, "Summer"))

	_, err = svc.UpdateDropRates(ctx, "  ", rates)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateDropRates_ResultIsACopy(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(NewMemoryRepository(), nil)

	rates := domain.DefaultRates()
	result, err := svc.UpdateDropRates(ctx, "STANDARD", rates)
	require.NoError(t, err)

	rates[domain.TierCommon] = 0
	result.Rates[domain.TierRare] = 0
	assert.Equal(t, domain.DefaultRates(), svc.GetDropRates(ctx, "STANDARD"))
}

func TestUpdateDropRates_StoreFailure(t *testing.T) {
	repo := new(MockRepository)
	repo.On("SaveRates", mock.Anything, mock.Anything).Return(domain.ErrDatabaseError)

	svc := NewService(repo, nil)

	_, err := svc.UpdateDropRates(context.Background(), "STANDARD", domain.DefaultRates())
	assert.ErrorIs(t, err, domain.ErrDatabaseError)
}

func TestUpdateDropRates_PublishesEvent(t *testing.T) {
	ctx := context.Background()
	bus := event.NewMemoryBus()

	var got event.RatesUpdatedPayloadV1
	bus.Subscribe(event.GachaRatesUpdated, func(_ context.Context, evt event.Event) error {
		got = evt.Payload.(event.RatesUpdatedPayloadV1)
		return nil
	})

	svc := newTestService(NewMemoryRepository(), bus)
	_, err := svc.UpdateDropRates(ctx, "STANDARD", domain.DefaultRates())
	require.NoError(t, err)

	assert.Equal(t, "STANDARD", got.PackType)
	assert.Equal(t, float64(60), got.Rates["COMMON"])
}

func TestGetDropRates_Fallbacks(t *testing.T) {
	ctx := context.Background()

	t.Run("unconfigured store returns built-in defaults", func(t *testing.T) {
		svc := newTestService(NewMemoryRepository(), nil)
		assert.Equal(t, domain.DefaultRates(), svc.GetDropRates(ctx, "STANDARD"))
		assert.Equal(t, domain.DefaultRates(), svc.GetDropRates(ctx, ""))
	})

	t.Run("unknown pack falls back to the default pack", func(t *testing.T) {
		svc := newTestService(NewMemoryRepository(), nil)
		standard := domain.RateMap{"COMMON": 70, "RARE": 20, "SR": 6, "SSR": 3, "UR": 1}
		_, err := svc.UpdateDropRates(ctx, domain.DefaultPackType, standard)
		require.NoError(t, err)

		assert.Equal(t, standard, svc.GetDropRates(ctx, "DOES_NOT_EXIST"))
	})

	t.Run("store error returns built-in defaults", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetRates", mock.Anything, "PREMIUM").Return(nil, errors.New("connection refused"))

		svc := NewService(repo, nil)
		assert.Equal(t, domain.DefaultRates(), svc.GetDropRates(ctx, "premium"))
		repo.AssertNotCalled(t, "GetRates", mock.Anything, domain.DefaultPackType)
	})
}

func TestResolveDropRates_ReportsSource(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(NewMemoryRepository(), nil)

	got := svc.ResolveDropRates(ctx, "premium")
	assert.Equal(t, "PREMIUM", got.PackType)
	assert.Equal(t, domain.BuiltinRatesSource, got.Source)
	assert.True(t, got.Fallback())

	_, err := svc.UpdateDropRates(ctx, domain.DefaultPackType, domain.DefaultRates())
	require.NoError(t, err)
	got = svc.ResolveDropRates(ctx, "premium")
	assert.Equal(t, domain.DefaultPackType, got.Source)
	assert.True(t, got.Fallback())

	premium := domain.RateMap{"COMMON": 50, "RARE": 30, "SR": 10, "SSR": 5, "UR": 5}
	_, err = svc.UpdateDropRates(ctx, "PREMIUM", premium)
	require.NoError(t, err)
	got = svc.ResolveDropRates(ctx, "premium")
	assert.Equal(t, "PREMIUM", got.Source)
	assert.False(t, got.Fallback())
	assert.Equal(t, premium, got.Rates)
}

func TestGetDropRates_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(NewMemoryRepository(), nil)
	_, err := svc.UpdateDropRates(ctx, "STANDARD", domain.DefaultRates())
	require.NoError(t, err)

	got := svc.GetDropRates(ctx, "STANDARD")
	got[domain.TierUR] = 50

	assert.Equal(t, float64(1), svc.GetDropRates(ctx, "STANDARD")[domain.TierUR])
}

func TestListPacks(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(NewMemoryRepository(), nil)

	for _, pack := range []string{"standard", "event", "premium"} {
		_, err := svc.UpdateDropRates(ctx, pack, domain.DefaultRates())
		require.NoError(t, err)
	}

	packs, err := svc.ListPacks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"EVENT", "PREMIUM", "STANDARD"}, packs)

	repo := new(MockRepository)
	repo.On("ListPackTypes", mock.Anything).Return(nil, domain.ErrDatabaseError)
	_, err = NewService(repo, nil).ListPacks(ctx)
	assert.ErrorIs(t, err, domain.ErrDatabaseError)
}

func TestPickTier(t *testing.T) {
	rates := domain.DefaultRates()
	tests := []struct {
		u    float64
		want domain.Tier
	}{
		{0, domain.TierCommon},
		{0.5999, domain.TierCommon},
		{0.60, domain.TierRare},
		{0.8499, domain.TierRare},
		{0.85, domain.TierSR},
		{0.95, domain.TierSSR},
		{0.99, domain.TierUR},
		{0.999999, domain.TierUR},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, pickTier(rates, tt.u), "u=%v", tt.u)
	}
}

func TestPickTier_SkipsZeroRateTiers(t *testing.T) {
	rates := domain.RateMap{"COMMON": 0, "RARE": 100, "SR": 0, "SSR": 0, "UR": 0}
	for _, u := range []float64{0, 0.3, 0.999999} {
		assert.Equal(t, domain.TierRare, pickTier(rates, u))
	}
}

func TestRoll(t *testing.T) {
	ctx := context.Background()
	bus := event.NewMemoryBus()

	var rolled []string
	bus.Subscribe(event.GachaRolled, func(_ context.Context, evt event.Event) error {
		rolled = append(rolled, evt.Payload.(event.RolledPayloadV1).Tier)
		return nil
	})

	svc := newTestService(NewMemoryRepository(), bus, WithRandom(func() float64 { return 0.995 }))
	assert.Equal(t, domain.TierUR, svc.Roll(ctx, "standard"))
	assert.Equal(t, []string{"UR"}, rolled)
}

func TestRoll_DistributionFollowsRates(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(NewMemoryRepository(), nil)

	const draws = 20000
	counts := make(map[domain.Tier]int)
	for i := 0; i < draws; i++ {
		counts[svc.Roll(ctx, "STANDARD")]++
	}

	for tier, rate := range domain.DefaultRates() {
		observed := float64(counts[tier]) / draws * 100
		assert.InDelta(t, rate, observed, 1.5, "tier %s", tier)
	}
}

func TestShutdown(t *testing.T) {
	svc := newTestService(NewMemoryRepository(), nil)
	assert.NoError(t, svc.Shutdown(context.Background()))
}
