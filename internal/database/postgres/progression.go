package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yamiko-app/yamiko/internal/domain"
	"github.com/yamiko-app/yamiko/internal/repository"
)

// ProgressionRepository implements repository.Progression for PostgreSQL
type ProgressionRepository struct {
	db *pgxpool.Pool
}

// NewProgressionRepository creates a new ProgressionRepository
func NewProgressionRepository(db *pgxpool.Pool) *ProgressionRepository {
	return &ProgressionRepository{db: db}
}

const selectProgression = `
	SELECT user_id, level, exp, rubies, energy, updated_at
	FROM user_progression
	WHERE user_id = $1
`

// GetProgression reads the committed row without locking it
func (r *ProgressionRepository) GetProgression(ctx context.Context, userID string) (*domain.UserProgression, error) {
	return scanProgression(r.db.QueryRow(ctx, selectProgression, userID))
}

// CreateProgression inserts a fresh level-1 row if the user has none and
// returns the stored row either way
func (r *ProgressionRepository) CreateProgression(ctx context.Context, userID string) (*domain.UserProgression, error) {
	query := `
		INSERT INTO user_progression (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING
	`
	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		return nil, dbError(errMsgUpdateProgression, err)
	}
	return r.GetProgression(ctx, userID)
}

// BeginTx starts a read-committed transaction; row locks come from
// GetProgressionForUpdate
func (r *ProgressionRepository) BeginTx(ctx context.Context) (repository.ProgressionTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, dbError(errMsgBeginTx, err)
	}
	return &progressionTx{tx: tx}, nil
}

type progressionTx struct {
	tx pgx.Tx
}

func (t *progressionTx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		if errors.Is(err, pgx.ErrTxClosed) {
			return err
		}
		return dbError(errMsgCommitTx, err)
	}
	return nil
}

// Rollback passes pgx.ErrTxClosed through untouched so deferred rollbacks
// after a successful commit stay quiet
func (t *progressionTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

func (t *progressionTx) GetProgressionForUpdate(ctx context.Context, userID string) (*domain.UserProgression, error) {
	return scanProgression(t.tx.QueryRow(ctx, selectProgression+" FOR UPDATE", userID))
}

func (t *progressionTx) UpdateLevelAndExp(ctx context.Context, userID string, level int, exp int64) error {
	query := `
		UPDATE user_progression
		SET level = $2, exp = $3, updated_at = NOW()
		WHERE user_id = $1
	`
	tag, err := t.tx.Exec(ctx, query, userID, level, exp)
	if err != nil {
		return dbError(errMsgUpdateProgression, err)
	}
	return requireOneRow(tag)
}

func (t *progressionTx) UpdateEnergy(ctx context.Context, userID string, energy int) error {
	query := `
		UPDATE user_progression
		SET energy = $2, updated_at = NOW()
		WHERE user_id = $1
	`
	tag, err := t.tx.Exec(ctx, query, userID, energy)
	if err != nil {
		return dbError(errMsgUpdateEnergy, err)
	}
	return requireOneRow(tag)
}

func (t *progressionTx) UpdateRubies(ctx context.Context, userID string, rubies int64) error {
	query := `
		UPDATE user_progression
		SET rubies = $2, updated_at = NOW()
		WHERE user_id = $1
	`
	tag, err := t.tx.Exec(ctx, query, userID, rubies)
	if err != nil {
		return dbError(errMsgUpdateRubies, err)
	}
	return requireOneRow(tag)
}

func (t *progressionTx) InsertNotification(ctx context.Context, n *domain.Notification) error {
	id, err := uuid.Parse(n.ID)
	if err != nil {
		id = uuid.New()
	}

	var data []byte
	if len(n.Data) > 0 {
		data, err = json.Marshal(n.Data)
		if err != nil {
			return dbError(errMsgEncodeNotification, err)
		}
	}

	query := `
		INSERT INTO notifications (notification_id, user_id, type, title, message, data, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = t.tx.Exec(ctx, query, id, n.UserID, string(n.Type), n.Title, n.Message, data, n.IsRead, n.CreatedAt)
	if err != nil {
		return dbError(errMsgInsertNotification, err)
	}
	return nil
}

func (t *progressionTx) InsertTransaction(ctx context.Context, txn *domain.CurrencyTransaction) error {
	id, err := uuid.Parse(txn.ID)
	if err != nil {
		id = uuid.New()
	}

	query := `
		INSERT INTO currency_transactions (transaction_id, user_id, currency, amount, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = t.tx.Exec(ctx, query, id, txn.UserID, txn.Currency, txn.Amount, txn.Reason, txn.CreatedAt)
	if err != nil {
		return dbError(errMsgInsertTransaction, err)
	}
	return nil
}

func scanProgression(row pgx.Row) (*domain.UserProgression, error) {
	var p domain.UserProgression
	err := row.Scan(&p.UserID, &p.Level, &p.Exp, &p.Rubies, &p.Energy, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, dbError(errMsgQueryProgression, err)
	}
	return &p, nil
}
