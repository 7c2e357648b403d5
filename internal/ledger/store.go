// Package ledger owns the authoritative in-memory ledger state: the
// ordered transaction set plus the starting balance. Mutations persist
// through an abstract Store; persistence failures never fail a
// mutation, they only produce warnings.
package ledger

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"ledger/internal/core"
)

// Ledger holds the session state. Mutations are serialized by a mutex
// since they read-modify-write shared state under net/http handlers.
type Ledger struct {
	mu              sync.Mutex
	store           Store
	startingBalance decimal.Decimal
	transactions    []core.Transaction // newest-added-first
}

// AddInput carries the raw caller-supplied fields for a new
// transaction. Date and Amount are validated strings; Description and
// Category may be blank and then default.
type AddInput struct {
	Kind        core.Kind
	Date        string
	Amount      string
	Description string
	Category    string
}

// Snapshot is an immutable read view of the ledger at a point in time.
// Callers must not mutate the transaction slice.
type Snapshot struct {
	StartingBalance decimal.Decimal
	Transactions    []core.Transaction
}

// New creates a Ledger backed by the given store.
func New(store Store) *Ledger {
	return &Ledger{
		store:           store,
		startingBalance: decimal.Zero,
	}
}

// Load replaces in-memory state with whatever the store holds. A
// missing store state means a fresh ledger. Malformed fields fall back
// to their defaults (empty set, zero balance) instead of failing the
// whole load.
func (l *Ledger) Load(ctx context.Context) {
	state, err := l.store.LoadState(ctx)
	if errors.Is(err, ErrNotFound) {
		slog.InfoContext(ctx, "No persisted ledger state, starting empty")
		return
	}
	if err != nil {
		slog.WarnContext(ctx, "Failed to load ledger state, starting empty",
			"error", err)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	balance, ok := core.ParseBalance(state.StartingBalance)
	if !ok && strings.TrimSpace(state.StartingBalance) != "" {
		slog.WarnContext(ctx, "Malformed persisted starting balance, using 0",
			"value", state.StartingBalance)
	}
	l.startingBalance = balance

	l.transactions = l.transactions[:0]
	seen := make(map[string]struct{}, len(state.Transactions))
	for _, rec := range state.Transactions {
		tx, err := transactionFromRecord(rec)
		if err != nil {
			slog.WarnContext(ctx, "Skipping malformed persisted transaction",
				"id", rec.ID, "error", err)
			continue
		}
		if _, dup := seen[tx.ID]; dup {
			slog.WarnContext(ctx, "Skipping duplicate persisted transaction", "id", tx.ID)
			continue
		}
		seen[tx.ID] = struct{}{}
		l.transactions = append(l.transactions, tx)
	}

	slog.InfoContext(ctx, "Ledger state loaded",
		"transactions", len(l.transactions),
		"starting_balance", l.startingBalance.String())
}

// AddTransaction validates the input, inserts the new transaction at
// the head of the ledger (newest-added-first) and persists. On
// validation failure the ledger is unchanged and a
// *core.ValidationError is returned.
func (l *Ledger) AddTransaction(ctx context.Context, in AddInput) (core.Transaction, error) {
	if !in.Kind.IsValid() {
		return core.Transaction{}, core.NewValidationError("kind", "must be income or expense")
	}
	date, err := core.ParseDate(in.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	amount, err := core.ParseAmount(in.Amount)
	if err != nil {
		return core.Transaction{}, err
	}

	tx := core.Transaction{
		ID:          uuid.NewString(),
		Kind:        in.Kind,
		Date:        date,
		Amount:      amount,
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
	}
	if tx.Description == "" {
		tx.Description = in.Kind.DefaultDescription()
	}
	if tx.Category == "" {
		tx.Category = core.DefaultCategory
	}

	l.mu.Lock()
	l.transactions = append([]core.Transaction{tx}, l.transactions...)
	l.persistLocked(ctx)
	l.mu.Unlock()

	slog.InfoContext(ctx, "Transaction added",
		"id", tx.ID,
		"kind", string(tx.Kind),
		"date", tx.Date.String(),
		"amount", tx.Amount.String())
	return tx, nil
}

// DeleteTransaction removes the transaction with the given id if
// present and reports whether it did. Deleting an unknown id is a
// no-op, never an error.
func (l *Ledger) DeleteTransaction(ctx context.Context, id string) bool {
	l.mu.Lock()
	removed := false
	for i, tx := range l.transactions {
		if tx.ID == id {
			l.transactions = append(l.transactions[:i], l.transactions[i+1:]...)
			removed = true
			break
		}
	}
	if removed {
		l.persistLocked(ctx)
	}
	l.mu.Unlock()

	if removed {
		slog.InfoContext(ctx, "Transaction deleted", "id", id)
	} else {
		slog.DebugContext(ctx, "Delete of unknown transaction ignored", "id", id)
	}
	return removed
}

// SetStartingBalance parses and stores the starting balance. An
// unparseable value stores 0 rather than failing; the original
// behavior is a defensive default, not an error path.
func (l *Ledger) SetStartingBalance(ctx context.Context, value string) decimal.Decimal {
	balance, ok := core.ParseBalance(value)
	if !ok {
		slog.WarnContext(ctx, "Unparseable starting balance, storing 0", "value", value)
	}

	l.mu.Lock()
	l.startingBalance = balance
	l.persistLocked(ctx)
	l.mu.Unlock()

	slog.InfoContext(ctx, "Starting balance set", "balance", balance.String())
	return balance
}

// Snapshot returns a read view of the current state. The transaction
// slice is a fresh copy so aggregation never observes a concurrent
// mutation.
func (l *Ledger) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	txs := make([]core.Transaction, len(l.transactions))
	copy(txs, l.transactions)
	return Snapshot{
		StartingBalance: l.startingBalance,
		Transactions:    txs,
	}
}

// Size returns the number of transactions in the ledger.
func (l *Ledger) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.transactions)
}

// persistLocked saves current state through the store. Callers must
// hold l.mu. Save failures are absorbed here: the in-memory state
// remains authoritative for the session.
func (l *Ledger) persistLocked(ctx context.Context) {
	state := State{
		StartingBalance: l.startingBalance.String(),
		Transactions:    make([]Record, len(l.transactions)),
	}
	for i, tx := range l.transactions {
		state.Transactions[i] = recordFromTransaction(tx)
	}
	if err := l.store.SaveState(ctx, state); err != nil {
		slog.WarnContext(ctx, "Failed to persist ledger state, keeping in-memory state",
			"error", err,
			"transactions", len(state.Transactions))
	}
}

func recordFromTransaction(tx core.Transaction) Record {
	return Record{
		ID:          tx.ID,
		Kind:        string(tx.Kind),
		Date:        tx.Date.String(),
		Amount:      tx.Amount.String(),
		Description: tx.Description,
		Category:    tx.Category,
	}
}

func transactionFromRecord(rec Record) (core.Transaction, error) {
	kind := core.Kind(strings.ToLower(strings.TrimSpace(rec.Kind)))
	if !kind.IsValid() {
		return core.Transaction{}, core.NewValidationError("kind", "must be income or expense")
	}
	date, err := core.ParseDate(rec.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	amount, err := core.ParseAmount(rec.Amount)
	if err != nil {
		return core.Transaction{}, err
	}
	tx := core.Transaction{
		ID:          rec.ID,
		Kind:        kind,
		Date:        date,
		Amount:      amount,
		Description: rec.Description,
		Category:    rec.Category,
	}
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if strings.TrimSpace(tx.Description) == "" {
		tx.Description = kind.DefaultDescription()
	}
	if strings.TrimSpace(tx.Category) == "" {
		tx.Category = core.DefaultCategory
	}
	return tx, nil
}
