// Package storage persists the ledger in SQLite. The schema is owned
// by embedded migrations; saving replaces the persisted state with the
// given snapshot in a single database transaction.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"ledger/internal/ledger"
)

const startingBalanceKey = "starting_balance"

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadState implements ledger.Store. A database with neither a stored
// starting balance nor any transactions reports ErrNotFound so the
// ledger starts fresh.
func (r *SQLiteRepository) LoadState(ctx context.Context) (ledger.State, error) {
	state := ledger.State{}

	var balance string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM ledger_settings WHERE key = ?`, startingBalanceKey,
	).Scan(&balance)
	hasBalance := err == nil
	if err != nil && err != sql.ErrNoRows {
		return ledger.State{}, fmt.Errorf("read starting balance: %w", err)
	}
	state.StartingBalance = balance

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, kind, date, amount, description, category
		 FROM transactions ORDER BY position`)
	if err != nil {
		return ledger.State{}, fmt.Errorf("read transactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec ledger.Record
		if err := rows.Scan(&rec.ID, &rec.Kind, &rec.Date, &rec.Amount,
			&rec.Description, &rec.Category); err != nil {
			return ledger.State{}, fmt.Errorf("scan transaction: %w", err)
		}
		state.Transactions = append(state.Transactions, rec)
	}
	if err := rows.Err(); err != nil {
		return ledger.State{}, fmt.Errorf("iterate transactions: %w", err)
	}

	if !hasBalance && len(state.Transactions) == 0 {
		return ledger.State{}, ledger.ErrNotFound
	}

	slog.InfoContext(ctx, "Ledger state loaded from SQLite",
		"transactions", len(state.Transactions))
	return state, nil
}

// SaveState implements ledger.Store. The stored state is replaced
// wholesale; position preserves the ledger's newest-first ordering.
func (r *SQLiteRepository) SaveState(ctx context.Context, state ledger.State) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO transactions (id, kind, date, amount, description, category, position)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range state.Transactions {
		if _, err := stmt.ExecContext(ctx, rec.ID, rec.Kind, rec.Date,
			rec.Amount, rec.Description, rec.Category, i); err != nil {
			return fmt.Errorf("insert transaction %s: %w", rec.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO ledger_settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		startingBalanceKey, state.StartingBalance); err != nil {
		return fmt.Errorf("store starting balance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save transaction: %w", err)
	}
	return nil
}
