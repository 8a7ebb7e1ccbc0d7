package droprate

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/yamiko-app/yamiko/internal/domain"
	"github.com/yamiko-app/yamiko/internal/event"
	"github.com/yamiko-app/yamiko/internal/logger"
	"github.com/yamiko-app/yamiko/internal/repository"
)

// Service defines the drop-rate table operations
type Service interface {
	// GetDropRates never fails: unconfigured packs resolve to the default
	// pack, and then to the built-in table
	GetDropRates(ctx context.Context, packType string) domain.RateMap
	// ResolveDropRates is GetDropRates plus the pack that actually served the rates
	ResolveDropRates(ctx context.Context, packType string) domain.ResolvedRates
	UpdateDropRates(ctx context.Context, packType string, rates domain.RateMap) (*domain.DropRateUpdateResult, error)
	ListPacks(ctx context.Context) ([]string, error)
	// Roll draws one tier using the pack's current rates
	Roll(ctx context.Context, packType string) domain.Tier
	Shutdown(ctx context.Context) error
}

// Option configures the service
type Option func(*service)

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

// WithRandom overrides the source of uniform values in [0,1) used by Roll
func WithRandom(float func() float64) Option {
	return func(s *service) {
		s.float = float
	}
}

type service struct {
	repo  repository.DropRate
	bus   event.Bus
	now   func() time.Time
	float func() float64
}

// NewService creates a new drop-rate service
func NewService(repo repository.DropRate, bus event.Bus, opts ...Option) Service {
	s := &service{
		repo:  repo,
		bus:   bus,
		now:   time.Now,
		float: rand.Float64,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) GetDropRates(ctx context.Context, packType string) domain.RateMap {
	return s.ResolveDropRates(ctx, packType).Rates
}

func (s *service) ResolveDropRates(ctx context.Context, packType string) domain.ResolvedRates {
	log := logger.FromContext(ctx)
	pack := NormalizePackType(packType)
	if pack == "" {
		pack = domain.DefaultPackType
	}
	builtin := domain.ResolvedRates{PackType: pack, Source: domain.BuiltinRatesSource, Rates: domain.DefaultRates()}

	candidates := []string{pack}
	if pack != domain.DefaultPackType {
		candidates = append(candidates, domain.DefaultPackType)
	}

	for _, candidate := range candidates {
		table, err := s.repo.GetRates(ctx, candidate)
		if err != nil {
			log.Error(LogMsgStoreReadFailed, "pack_type", candidate, "error", err)
			return builtin
		}
		if table != nil {
			if candidate != pack {
				log.Debug(LogMsgRatesFallback, "pack_type", pack, "fallback", candidate)
			}
			return domain.ResolvedRates{PackType: pack, Source: candidate, Rates: table.Rates.Clone()}
		}
	}

	log.Debug(LogMsgRatesFallback, "pack_type", pack, "fallback", domain.BuiltinRatesSource)
	return builtin
}

func (s *service) UpdateDropRates(ctx context.Context, packType string, rates domain.RateMap) (*domain.DropRateUpdateResult, error) {
	pack := NormalizePackType(packType)
	if pack == "" {
		return nil, domain.NewValidationError("pack_type", ErrMsgPackTypeEmpty)
	}
	if err := ValidateRates(rates); err != nil {
		return nil, err
	}

	table := domain.DropRateTable{
		PackType:  pack,
		Rates:     rates.Clone(),
		UpdatedAt: s.now(),
	}
	if err := s.repo.SaveRates(ctx, table); err != nil {
		return nil, fmt.Errorf("failed to save drop rates for %s: %w", pack, err)
	}

	logger.FromContext(ctx).Info(LogMsgRatesUpdated, "pack_type", pack, "rates", table.Rates)
	s.publish(ctx, event.NewRatesUpdatedEvent(pack, toPayload(table.Rates)))

	return &domain.DropRateUpdateResult{
		PackType:  pack,
		Rates:     table.Rates.Clone(),
		UpdatedAt: table.UpdatedAt,
	}, nil
}

func (s *service) ListPacks(ctx context.Context) ([]string, error) {
	packs, err := s.repo.ListPackTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list packs: %w", err)
	}
	return packs, nil
}

func (s *service) Roll(ctx context.Context, packType string) domain.Tier {
	pack := NormalizePackType(packType)
	if pack == "" {
		pack = domain.DefaultPackType
	}

	tier := pickTier(s.GetDropRates(ctx, pack), s.float())
	s.publish(ctx, event.NewRolledEvent(pack, string(tier)))
	return tier
}

// Shutdown gracefully shuts down the drop-rate service
func (s *service) Shutdown(ctx context.Context) error {
	logger.FromContext(ctx).Info(LogMsgServiceShutdown)
	return nil
}

// pickTier maps u in [0,1) onto the cumulative rate distribution, walking
// tiers from most to least common. Zero-rate tiers are never chosen.
func pickTier(rates domain.RateMap, u float64) domain.Tier {
	target := u * rates.Sum()
	var cumulative float64
	last := domain.TierCommon
	for _, tier := range domain.AllTiers {
		rate := rates[tier]
		if rate <= 0 {
			continue
		}
		last = tier
		cumulative += rate
		if target < cumulative {
			return tier
		}
	}
	return last
}

func toPayload(rates domain.RateMap) map[string]float64 {
	out := make(map[string]float64, len(rates))
	for tier, rate := range rates {
		out[string(tier)] = rate
	}
	return out
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "event_type", evt.Type, "error", err)
	}
}
