package amqp

import (
	"encoding/json"
	"time"
)

// Event types published after ledger mutations.
const (
	EventTransactionAdded   = "transaction.added"
	EventTransactionDeleted = "transaction.deleted"
	EventStartingBalanceSet = "starting_balance.set"
)

// LedgerEvent is a lightweight notification about a ledger mutation.
// Consumers that need the full transaction fetch it from the ledger's
// own API; the event carries identity, not state.
type LedgerEvent struct {
	Type          string    `json:"type"`
	TransactionID string    `json:"transactionId,omitempty"`
	Balance       string    `json:"balance,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewTransactionAddedEvent builds the event for a newly added transaction.
func NewTransactionAddedEvent(id string) *LedgerEvent {
	return &LedgerEvent{
		Type:          EventTransactionAdded,
		TransactionID: id,
		Timestamp:     time.Now(),
	}
}

// NewTransactionDeletedEvent builds the event for a deleted transaction.
func NewTransactionDeletedEvent(id string) *LedgerEvent {
	return &LedgerEvent{
		Type:          EventTransactionDeleted,
		TransactionID: id,
		Timestamp:     time.Now(),
	}
}

// NewStartingBalanceSetEvent builds the event for a starting balance change.
func NewStartingBalanceSetEvent(balance string) *LedgerEvent {
	return &LedgerEvent{
		Type:      EventStartingBalanceSet,
		Balance:   balance,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes.
func (e *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// LedgerEventFromJSON parses an event from JSON bytes.
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var e LedgerEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
