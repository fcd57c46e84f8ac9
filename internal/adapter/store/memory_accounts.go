package store

import (
	"card-assist/internal/domain/entity"
	"context"
	"sync"
)

type accountSlot struct {
	mu      sync.Mutex
	account *entity.Account
}

// MemoryAccountStore keeps accounts for the process lifetime. The map lock
// only guards membership; each account has its own lock so updates to
// different users never wait on each other.
type MemoryAccountStore struct {
	mu    sync.RWMutex
	slots map[string]*accountSlot
}

func NewMemoryAccountStore() *MemoryAccountStore {
	return &MemoryAccountStore{slots: make(map[string]*accountSlot)}
}

func (s *MemoryAccountStore) slot(userID string) (*accountSlot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sl, ok := s.slots[userID]
	return sl, ok
}

func (s *MemoryAccountStore) Get(_ context.Context, userID string) (*entity.Account, error) {
	sl, ok := s.slot(userID)
	if !ok {
		return nil, entity.ErrAccountNotFound
	}
	sl.mu.Lock()
	defer sl.mu.Unlock()
	return sl.account.Clone(), nil
}

// Update runs fn on a working copy under the account lock and commits it only
// when fn succeeds.
func (s *MemoryAccountStore) Update(_ context.Context, userID string, fn func(*entity.Account) error) (*entity.Account, error) {
	sl, ok := s.slot(userID)
	if !ok {
		return nil, entity.ErrAccountNotFound
	}
	sl.mu.Lock()
	defer sl.mu.Unlock()

	working := sl.account.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	sl.account = working
	return working.Clone(), nil
}

// Seed inserts accounts whose user id is not yet present.
func (s *MemoryAccountStore) Seed(_ context.Context, accounts ...*entity.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range accounts {
		if _, exists := s.slots[a.UserID]; exists {
			continue
		}
		s.slots[a.UserID] = &accountSlot{account: a.Clone()}
	}
	return nil
}
