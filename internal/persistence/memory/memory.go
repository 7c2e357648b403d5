// Package memory holds ledger state in process memory only. Used for
// tests and ephemeral runs; nothing survives a restart.
package memory

import (
	"context"
	"sync"

	"ledger/internal/ledger"
)

type Store struct {
	mu       sync.Mutex
	state    ledger.State
	hasState bool
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{}
}

// NewWithState creates a store pre-seeded with the given state, as if
// it had been persisted by an earlier session.
func NewWithState(state ledger.State) *Store {
	return &Store{state: state, hasState: true}
}

func (s *Store) LoadState(_ context.Context) (ledger.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasState {
		return ledger.State{}, ledger.ErrNotFound
	}
	state := s.state
	state.Transactions = append([]ledger.Record(nil), s.state.Transactions...)
	return state, nil
}

func (s *Store) SaveState(_ context.Context, state ledger.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	state.Transactions = append([]ledger.Record(nil), state.Transactions...)
	s.state = state
	s.hasState = true
	return nil
}
