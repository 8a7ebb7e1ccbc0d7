package progression

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/yamiko-app/yamiko/internal/concurrency"
	"github.com/yamiko-app/yamiko/internal/domain"
	"github.com/yamiko-app/yamiko/internal/event"
	"github.com/yamiko-app/yamiko/internal/logger"
	"github.com/yamiko-app/yamiko/internal/repository"
)

// Service defines the progression engine business logic
type Service interface {
	// AddExp applies organic gameplay EXP (e.g. chapter completion)
	AddExp(ctx context.Context, userID string, amount int64) (*domain.ProgressionResult, error)
	// GrantExp applies administrative EXP and notifies the user with the reason
	GrantExp(ctx context.Context, userID string, amount int64, reason string) (*domain.ProgressionResult, error)
	// GrantRubies credits premium currency with a mandatory audit reason
	GrantRubies(ctx context.Context, userID string, amount int64, reason string) (*domain.RubyGrantResult, error)

	GetProgression(ctx context.Context, userID string) (*domain.ProgressionView, error)
	ComputeExpThreshold(level int) int64
	Shutdown(ctx context.Context) error
}

// Option configures the service
type Option func(*service)

// WithMaxEnergy overrides the energy cap
func WithMaxEnergy(maxEnergy int) Option {
	return func(s *service) {
		if maxEnergy > 0 {
			s.maxEnergy = maxEnergy
		}
	}
}

// WithLockManager shares a lock manager with other components
func WithLockManager(lm *concurrency.LockManager) Option {
	return func(s *service) {
		if lm != nil {
			s.locks = lm
		}
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

type service struct {
	repo      repository.Progression
	bus       event.Bus
	locks     *concurrency.LockManager
	maxEnergy int
	now       func() time.Time
	newID     func() string
}

// NewService creates a new progression service
func NewService(repo repository.Progression, bus event.Bus, opts ...Option) Service {
	s := &service{
		repo:      repo,
		bus:       bus,
		locks:     concurrency.NewLockManager(),
		maxEnergy: DefaultMaxEnergy,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) ComputeExpThreshold(level int) int64 {
	return ComputeExpThreshold(level)
}

// GetProgression returns the user's current state plus the EXP still needed
func (s *service) GetProgression(ctx context.Context, userID string) (*domain.ProgressionView, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.NewValidationError("user_id", domain.ErrMsgUserIDRequired)
	}

	p, err := s.repo.GetProgression(ctx, userID)
	if err != nil {
		return nil, err
	}

	threshold := ComputeExpThreshold(p.Level)
	return &domain.ProgressionView{
		UserProgression: *p,
		ExpThreshold:    threshold,
		ExpToNext:       ExpToNext(p.Level, p.Exp),
	}, nil
}

// Shutdown gracefully shuts down the progression service
func (s *service) Shutdown(ctx context.Context) error {
	logger.FromContext(ctx).Info(LogMsgServiceShutdown)
	return nil
}

// validateGrant records problems with the fields shared by every grant operation
func validateGrant(verr *domain.ValidationError, userID string, amount int64) {
	if strings.TrimSpace(userID) == "" {
		verr.Add("user_id", domain.ErrMsgUserIDRequired)
	}
	switch {
	case amount <= 0:
		verr.Add("amount", domain.ErrMsgAmountNotPositive)
	case amount > MaxGrantAmount:
		verr.Add("amount", fmt.Sprintf("%s (%d)", domain.ErrMsgAmountTooLarge, int64(MaxGrantAmount)))
	}
}

// checkHeadroom rejects an award that would overflow the stored balance
func checkHeadroom(balance, amount int64) error {
	if balance > math.MaxInt64-amount {
		return domain.NewValidationError("amount", domain.ErrMsgBalanceOverflow)
	}
	return nil
}

// validateReason enforces the 1..MaxReasonLength character bound
func validateReason(verr *domain.ValidationError, reason string) {
	if reason == "" {
		verr.Add("reason", domain.ErrMsgReasonRequired)
		return
	}
	if utf8.RuneCountInString(reason) > MaxReasonLength {
		verr.Add("reason", fmt.Sprintf("%s (%d)", domain.ErrMsgReasonTooLong, MaxReasonLength))
	}
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "event_type", evt.Type, "error", err)
	}
}
