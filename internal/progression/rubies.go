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

// GrantRubies credits premium currency. Every grant is audited, so unlike the
// EXP path the reason is mandatory.
func (s *service) GrantRubies(ctx context.Context, userID string, amount int64, reason string) (*domain.RubyGrantResult, error) {
	reason = strings.TrimSpace(reason)

	verr := &domain.ValidationError{}
	validateGrant(verr, userID, amount)
	validateReason(verr, reason)
	if verr.HasErrors() {
		return nil, verr
	}

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
	if err := checkHeadroom(current.Rubies, amount); err != nil {
		return nil, err
	}

	balance := current.Rubies + amount
	if err := tx.UpdateRubies(ctx, userID, balance); err != nil {
		return nil, fmt.Errorf("failed to update rubies: %w", err)
	}

	txn := &domain.CurrencyTransaction{
		ID:        s.newID(),
		UserID:    userID,
		Currency:  domain.CurrencyRubies,
		Amount:    amount,
		Reason:    reason,
		CreatedAt: s.now(),
	}
	if err := tx.InsertTransaction(ctx, txn); err != nil {
		return nil, fmt.Errorf("failed to record ruby transaction: %w", err)
	}

	if err := tx.InsertNotification(ctx, s.rubiesGrantedNotification(userID, amount, reason)); err != nil {
		return nil, fmt.Errorf("failed to record ruby notification: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.FromContext(ctx).Info(LogMsgRubiesGranted,
		"user_id", userID,
		"amount", amount,
		"reason", reason,
		"balance", balance,
		"transaction_id", txn.ID)

	s.publish(ctx, event.NewRubiesGrantedEvent(userID, amount, reason, balance))

	return &domain.RubyGrantResult{
		Granted: amount,
		Reason:  reason,
		Balance: balance,
	}, nil
}
