package progression

import (
	"context"
	"fmt"
	"strings"

	"github.com/yamiko-app/yamiko/internal/domain"
	"github.com/yamiko-app/yamiko/internal/event"
	"github.com/yamiko-app/yamiko/internal/logger"
	"github.com/yamiko-app/yamiko/internal/repository"
)

// AddExp awards gameplay EXP to a user
func (s *service) AddExp(ctx context.Context, userID string, amount int64) (*domain.ProgressionResult, error) {
	verr := &domain.ValidationError{}
	validateGrant(verr, userID, amount)
	if verr.HasErrors() {
		return nil, verr
	}
	return s.awardExp(ctx, userID, amount, "")
}

// GrantExp awards EXP from an administrative or support flow. The grant reason
// defaults to DefaultExpGrantReason and is delivered to the user as a notification.
func (s *service) GrantExp(ctx context.Context, userID string, amount int64, reason string) (*domain.ProgressionResult, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = DefaultExpGrantReason
	}

	verr := &domain.ValidationError{}
	validateGrant(verr, userID, amount)
	validateReason(verr, reason)
	if verr.HasErrors() {
		return nil, verr
	}
	return s.awardExp(ctx, userID, amount, reason)
}

// awardExp runs the read, cascade and write for one user as a single transaction.
// grantReason is empty for gameplay EXP. Inputs are already validated.
func (s *service) awardExp(ctx context.Context, userID string, amount int64, grantReason string) (*domain.ProgressionResult, error) {
	log := logger.FromContext(ctx)

	release := s.locks.Lock(userID)
	defer release()

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	current, err := tx.GetProgressionForUpdate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := checkHeadroom(current.Exp, amount); err != nil {
		return nil, err
	}

	newLevel, newExp, levelsGained := applyExp(current.Level, current.Exp, amount)
	if err := tx.UpdateLevelAndExp(ctx, userID, newLevel, newExp); err != nil {
		return nil, fmt.Errorf("failed to update progression: %w", err)
	}

	result := &domain.ProgressionResult{
		Level:        newLevel,
		Exp:          newExp,
		LeveledUp:    levelsGained > 0,
		LevelsGained: levelsGained,
		Energy:       current.Energy,
	}

	if levelsGained > 0 {
		energy := s.rewardEnergy(ctx, userID, current.Energy)
		if energy != current.Energy {
			if err := tx.UpdateEnergy(ctx, userID, energy); err != nil {
				return nil, fmt.Errorf("failed to update energy: %w", err)
			}
		}
		result.EnergyReward = LevelUpEnergyReward
		result.Energy = energy

		if err := tx.InsertNotification(ctx, s.levelUpNotification(userID, newLevel)); err != nil {
			return nil, fmt.Errorf("failed to record level up notification: %w", err)
		}
	}

	if grantReason != "" {
		if err := tx.InsertNotification(ctx, s.expGrantedNotification(userID, amount, grantReason)); err != nil {
			return nil, fmt.Errorf("failed to record exp notification: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Info(LogMsgExpAwarded,
		"user_id", userID,
		"amount", amount,
		"level", newLevel,
		"exp", newExp,
		"levels_gained", levelsGained,
		"granted", grantReason != "")

	s.publish(ctx, event.NewExpAwardedEvent(userID, amount, newLevel, levelsGained))
	if levelsGained > 0 {
		log.Info(LogMsgLevelUp, "user_id", userID, "old_level", current.Level, "new_level", newLevel)
		s.publish(ctx, event.NewLevelUpEvent(userID, current.Level, newLevel, LevelUpEnergyReward))
	}
	if grantReason != "" {
		s.publish(ctx, event.NewExpGrantedEvent(userID, amount, grantReason))
	}

	return result, nil
}

// rewardEnergy returns the energy balance after the flat level-up reward,
// clamped at the configured maximum. A balance already above the cap is kept.
func (s *service) rewardEnergy(ctx context.Context, userID string, current int) int {
	if current >= s.maxEnergy {
		logger.FromContext(ctx).Debug(LogMsgEnergyClamped, "user_id", userID, "energy", current, "max_energy", s.maxEnergy)
		return current
	}

	energy := current + LevelUpEnergyReward
	if energy > s.maxEnergy {
		logger.FromContext(ctx).Debug(LogMsgEnergyClamped, "user_id", userID, "energy", current, "max_energy", s.maxEnergy)
		energy = s.maxEnergy
	}
	return energy
}
