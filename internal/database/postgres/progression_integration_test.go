package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/yamiko-app/yamiko/internal/domain"
	"github.com/yamiko-app/yamiko/internal/progression"
	"github.com/yamiko-app/yamiko/internal/repository"
)

func newUserID(t *testing.T) string {
	return fmt.Sprintf("%s-%s", t.Name(), uuid.NewString()[:8])
}

func TestProgressionRepository_CreateAndGet(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewProgressionRepository(testPool)
	userID := newUserID(t)

	_, err := repo.GetProgression(ctx, userID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	created, err := repo.CreateProgression(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, created.Level)
	assert.Equal(t, int64(0), created.Exp)

	again, err := repo.CreateProgression(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, created.UserID, again.UserID)
}

func TestProgressionRepository_TxCommitAndRollback(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewProgressionRepository(testPool)
	userID := newUserID(t)
	_, err := repo.CreateProgression(ctx, userID)
	require.NoError(t, err)

	// Rolled back writes are invisible
	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	_, err = tx.GetProgressionForUpdate(ctx, userID)
	require.NoError(t, err)
	require.NoError(t, tx.UpdateLevelAndExp(ctx, userID, 9, 99))
	require.NoError(t, tx.Rollback(ctx))

	p, err := repo.GetProgression(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Level)

	// Committed writes are visible, including the audit rows
	tx, err = repo.BeginTx(ctx)
	require.NoError(t, err)
	defer repository.SafeRollback(ctx, tx)

	_, err = tx.GetProgressionForUpdate(ctx, userID)
	require.NoError(t, err)
	require.NoError(t, tx.UpdateLevelAndExp(ctx, userID, 2, 10))
	require.NoError(t, tx.UpdateEnergy(ctx, userID, 50))
	require.NoError(t, tx.UpdateRubies(ctx, userID, 300))
	require.NoError(t, tx.InsertNotification(ctx, &domain.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      domain.NotificationLevelUp,
		Title:     "Level up!",
		Message:   "You reached level 2",
		Data:      map[string]interface{}{"level": 2},
		CreatedAt: time.Now(),
	}))
	require.NoError(t, tx.InsertTransaction(ctx, &domain.CurrencyTransaction{
		ID:        uuid.NewString(),
		UserID:    userID,
		Currency:  domain.CurrencyRubies,
		Amount:    300,
		Reason:    "integration test",
		CreatedAt: time.Now(),
	}))
	require.NoError(t, tx.Commit(ctx))

	p, err = repo.GetProgression(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Level)
	assert.Equal(t, int64(10), p.Exp)
	assert.Equal(t, 50, p.Energy)
	assert.Equal(t, int64(300), p.Rubies)

	var notifications, transactions int
	require.NoError(t, testPool.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE user_id = $1`, userID).Scan(&notifications))
	require.NoError(t, testPool.QueryRow(ctx, `SELECT COUNT(*) FROM currency_transactions WHERE user_id = $1`, userID).Scan(&transactions))
	assert.Equal(t, 1, notifications)
	assert.Equal(t, 1, transactions)
}

func TestProgressionRepository_UpdateMissingUser(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewProgressionRepository(testPool)

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	defer repository.SafeRollback(ctx, tx)

	_, err = tx.GetProgressionForUpdate(ctx, "ghost-"+uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.ErrorIs(t, tx.UpdateEnergy(ctx, "ghost-"+uuid.NewString(), 1), domain.ErrUserNotFound)
}

func TestProgressionRepository_ConstraintViolationIsDatabaseError(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewProgressionRepository(testPool)
	userID := newUserID(t)
	_, err := repo.CreateProgression(ctx, userID)
	require.NoError(t, err)

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	defer repository.SafeRollback(ctx, tx)

	err = tx.UpdateRubies(ctx, userID, -1)
	assert.ErrorIs(t, err, domain.ErrDatabaseError)
}

// TestProgressionService_ConcurrentAcrossInstances runs two service instances
// (separate in-process lock managers) against one database, so only the row
// lock keeps the awards from losing updates.
func TestProgressionService_ConcurrentAcrossInstances(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewProgressionRepository(testPool)
	userID := newUserID(t)
	_, err := repo.CreateProgression(ctx, userID)
	require.NoError(t, err)

	instances := []progression.Service{
		progression.NewService(repo, nil),
		progression.NewService(repo, nil),
	}

	const awards = 40
	const amount = int64(25)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < awards; i++ {
		svc := instances[i%len(instances)]
		g.Go(func() error {
			_, err := svc.AddExp(gctx, userID, amount)
			return err
		})
	}
	require.NoError(t, g.Wait())

	p, err := repo.GetProgression(ctx, userID)
	require.NoError(t, err)

	var spent int64
	for l := 1; l < p.Level; l++ {
		spent += progression.ComputeExpThreshold(l)
	}
	assert.Equal(t, awards*amount, spent+p.Exp, "no EXP may be lost")
	assert.Less(t, p.Exp, progression.ComputeExpThreshold(p.Level))
}
