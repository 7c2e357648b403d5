// Package services orchestrates the ledger store with the optional
// AMQP event feed. Mutations go to the store first; event publishing
// is best-effort and never fails the operation.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"ledger/internal/amqp"
	"ledger/internal/core"
	"ledger/internal/ledger"
)

// EventPublisher is the outbound notification port. *amqp.Client
// satisfies it; a nil publisher disables the feed.
type EventPublisher interface {
	PublishEvent(ctx context.Context, event *amqp.LedgerEvent) error
	Close() error
}

// LedgerService wraps the ledger with event publishing and resource
// lifecycle.
type LedgerService struct {
	ledger  *ledger.Ledger
	events  EventPublisher
	cleanup func() error
}

func NewLedgerService(l *ledger.Ledger, events EventPublisher, cleanup func() error) *LedgerService {
	return &LedgerService{
		ledger:  l,
		events:  events,
		cleanup: cleanup,
	}
}

// AddTransaction records a transaction and publishes an added event.
func (s *LedgerService) AddTransaction(ctx context.Context, in ledger.AddInput) (core.Transaction, error) {
	tx, err := s.ledger.AddTransaction(ctx, in)
	if err != nil {
		return core.Transaction{}, err
	}
	s.publish(ctx, amqp.NewTransactionAddedEvent(tx.ID))
	return tx, nil
}

// DeleteTransaction removes a transaction if present. The deleted
// event is only published when something was actually removed.
func (s *LedgerService) DeleteTransaction(ctx context.Context, id string) bool {
	removed := s.ledger.DeleteTransaction(ctx, id)
	if removed {
		s.publish(ctx, amqp.NewTransactionDeletedEvent(id))
	}
	return removed
}

// SetStartingBalance stores the starting balance (0 on parse failure).
func (s *LedgerService) SetStartingBalance(ctx context.Context, value string) decimal.Decimal {
	balance := s.ledger.SetStartingBalance(ctx, value)
	s.publish(ctx, amqp.NewStartingBalanceSetEvent(balance.String()))
	return balance
}

// Snapshot returns the current read view for aggregation.
func (s *LedgerService) Snapshot() ledger.Snapshot {
	return s.ledger.Snapshot()
}

func (s *LedgerService) publish(ctx context.Context, event *amqp.LedgerEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishEvent(ctx, event); err != nil {
		// The mutation already happened; the feed is best-effort.
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"type", event.Type,
			"transaction_id", event.TransactionID,
			"error", err)
	}
}

// Close releases the event feed and backend resources.
func (s *LedgerService) Close() error {
	var errs []error

	if s.events != nil {
		if err := s.events.Close(); err != nil {
			errs = append(errs, fmt.Errorf("events: %w", err))
		}
	}
	if s.cleanup != nil {
		if err := s.cleanup(); err != nil {
			errs = append(errs, fmt.Errorf("backend: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %v", errs)
	}
	return nil
}
