package ledger

import (
	"context"
	"errors"
)

// ErrNotFound is returned by a Store when no state has been persisted
// yet. The ledger treats it as a fresh start, not a failure.
var ErrNotFound = errors.New("ledger state not found")

// Store is the persistence collaborator. Implementations live outside
// the core: JSON file, SQLite, in-memory.
type Store interface {
	// LoadState returns the last persisted state, or ErrNotFound.
	LoadState(ctx context.Context) (State, error)

	// SaveState persists the given state. The ledger treats failures
	// as warnings; in-memory state stays authoritative.
	SaveState(ctx context.Context, state State) error
}

// State is the wire shape of a persisted ledger. Amounts and the
// starting balance travel as decimal strings.
type State struct {
	StartingBalance string   `json:"startingBalance"`
	Transactions    []Record `json:"transactions"`
}

// Record is the wire shape of one persisted transaction.
type Record struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	Date        string `json:"date"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Category    string `json:"category"`
}
