package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"ledger/internal/ledger"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestLoadStateFreshDatabase(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.LoadState(context.Background())
	if !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on fresh database, got %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	state := ledger.State{
		StartingBalance: "1000",
		Transactions: []ledger.Record{
			{ID: "b", Kind: "expense", Date: "2024-01-15", Amount: "200", Description: "Rent", Category: "Housing"},
			{ID: "a", Kind: "income", Date: "2024-01-10", Amount: "500", Description: "Salary", Category: "Work"},
		},
	}
	if err := repo.SaveState(ctx, state); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.LoadState(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.StartingBalance != "1000" {
		t.Fatalf("balance = %q", got.StartingBalance)
	}
	if len(got.Transactions) != 2 {
		t.Fatalf("transactions = %d", len(got.Transactions))
	}
	if got.Transactions[0].ID != "b" || got.Transactions[1].ID != "a" {
		t.Fatal("position must preserve ordering")
	}
	if got.Transactions[1].Description != "Salary" || got.Transactions[1].Category != "Work" {
		t.Fatalf("record fields lost: %+v", got.Transactions[1])
	}
}

func TestSaveReplacesState(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	first := ledger.State{
		StartingBalance: "10",
		Transactions: []ledger.Record{
			{ID: "a", Kind: "income", Date: "2024-01-10", Amount: "5"},
			{ID: "b", Kind: "income", Date: "2024-01-11", Amount: "6"},
		},
	}
	if err := repo.SaveState(ctx, first); err != nil {
		t.Fatalf("save: %v", err)
	}

	second := ledger.State{
		StartingBalance: "-20",
		Transactions: []ledger.Record{
			{ID: "c", Kind: "expense", Date: "2024-02-01", Amount: "1"},
		},
	}
	if err := repo.SaveState(ctx, second); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.LoadState(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.StartingBalance != "-20" {
		t.Fatalf("balance = %q", got.StartingBalance)
	}
	if len(got.Transactions) != 1 || got.Transactions[0].ID != "c" {
		t.Fatalf("got %+v, want only the replaced state", got.Transactions)
	}
}

func TestSaveEmptyStateStillFound(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	// A ledger with no transactions but a stored balance is real state,
	// not a fresh database.
	if err := repo.SaveState(ctx, ledger.State{StartingBalance: "0"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := repo.LoadState(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.StartingBalance != "0" {
		t.Fatalf("balance = %q", got.StartingBalance)
	}
}
