// Package memory provides an in-process implementation of the progression
// repository. Writes made inside a transaction are staged and only become
// visible on Commit.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/yamiko-app/yamiko/internal/concurrency"
	"github.com/yamiko-app/yamiko/internal/domain"
	"github.com/yamiko-app/yamiko/internal/repository"
)

var errTxClosed = errors.New(domain.ErrMsgTxClosed)

// Store holds user progression, notifications and currency transactions in memory
type Store struct {
	mu            sync.RWMutex
	users         map[string]domain.UserProgression
	notifications []domain.Notification
	transactions  []domain.CurrencyTransaction

	// rowLocks mirrors SELECT ... FOR UPDATE: held from the locking read until the tx ends
	rowLocks *concurrency.LockManager
	now      func() time.Time
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		users:    make(map[string]domain.UserProgression),
		rowLocks: concurrency.NewLockManager(),
		now:      time.Now,
	}
}

// Seed inserts or replaces a user's progression row
func (s *Store) Seed(p domain.UserProgression) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.Level < 1 {
		p.Level = 1
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = s.now()
	}
	s.users[p.UserID] = p
}

// CreateProgression inserts a fresh level-1 row unless one exists and returns the stored row
func (s *Store) CreateProgression(_ context.Context, userID string) (*domain.UserProgression, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.users[userID]
	if !ok {
		p = domain.UserProgression{UserID: userID, Level: 1, UpdatedAt: s.now()}
		s.users[userID] = p
	}
	return &p, nil
}

// GetProgression returns a copy of the committed row
func (s *Store) GetProgression(_ context.Context, userID string) (*domain.UserProgression, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &p, nil
}

// Notifications returns every committed notification for userID, oldest first
func (s *Store) Notifications(userID string) []domain.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Notification
	for _, n := range s.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

// Transactions returns every committed currency transaction for userID, oldest first
func (s *Store) Transactions(userID string) []domain.CurrencyTransaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.CurrencyTransaction
	for _, t := range s.transactions {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out
}

// BeginTx starts a transaction with staged writes
func (s *Store) BeginTx(_ context.Context) (repository.ProgressionTx, error) {
	return &storeTx{
		store:  s,
		staged: make(map[string]*domain.UserProgression),
	}, nil
}

type storeTx struct {
	store         *Store
	staged        map[string]*domain.UserProgression
	notifications []domain.Notification
	transactions  []domain.CurrencyTransaction
	releases      []func()
	closed        bool
}

func (t *storeTx) row(userID string) (*domain.UserProgression, error) {
	if t.closed {
		return nil, errTxClosed
	}
	if p, ok := t.staged[userID]; ok {
		return p, nil
	}
	return nil, domain.ErrUserNotFound
}

func (t *storeTx) GetProgressionForUpdate(ctx context.Context, userID string) (*domain.UserProgression, error) {
	if t.closed {
		return nil, errTxClosed
	}
	if p, ok := t.staged[userID]; ok {
		cp := *p
		return &cp, nil
	}

	release := t.store.rowLocks.Lock(userID)
	p, err := t.store.GetProgression(ctx, userID)
	if err != nil {
		release()
		return nil, err
	}
	t.releases = append(t.releases, release)
	t.staged[userID] = p

	cp := *p
	return &cp, nil
}

func (t *storeTx) UpdateLevelAndExp(_ context.Context, userID string, level int, exp int64) error {
	p, err := t.row(userID)
	if err != nil {
		return err
	}
	p.Level = level
	p.Exp = exp
	return nil
}

func (t *storeTx) UpdateEnergy(_ context.Context, userID string, energy int) error {
	p, err := t.row(userID)
	if err != nil {
		return err
	}
	p.Energy = energy
	return nil
}

func (t *storeTx) UpdateRubies(_ context.Context, userID string, rubies int64) error {
	p, err := t.row(userID)
	if err != nil {
		return err
	}
	p.Rubies = rubies
	return nil
}

func (t *storeTx) InsertNotification(_ context.Context, n *domain.Notification) error {
	if t.closed {
		return errTxClosed
	}
	t.notifications = append(t.notifications, *n)
	return nil
}

func (t *storeTx) InsertTransaction(_ context.Context, txn *domain.CurrencyTransaction) error {
	if t.closed {
		return errTxClosed
	}
	t.transactions = append(t.transactions, *txn)
	return nil
}

func (t *storeTx) Commit(_ context.Context) error {
	if t.closed {
		return errTxClosed
	}

	s := t.store
	s.mu.Lock()
	now := s.now()
	for id, p := range t.staged {
		p.UpdatedAt = now
		s.users[id] = *p
	}
	s.notifications = append(s.notifications, t.notifications...)
	s.transactions = append(s.transactions, t.transactions...)
	s.mu.Unlock()

	t.finish()
	return nil
}

func (t *storeTx) Rollback(_ context.Context) error {
	if t.closed {
		return errTxClosed
	}
	t.finish()
	return nil
}

func (t *storeTx) finish() {
	t.closed = true
	for _, release := range t.releases {
		release()
	}
	t.releases = nil
	t.staged = nil
	t.notifications = nil
	t.transactions = nil
}
