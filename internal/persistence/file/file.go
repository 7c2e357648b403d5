// Package file persists the ledger as a single JSON document on disk.
// It is the default backend: no external services, survives restarts,
// and degrades field by field when the document is damaged.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"ledger/internal/ledger"
)

// Store reads and writes the ledger document at a fixed path.
type Store struct {
	path string
}

// New creates a file store. The parent directory is created on the
// first save, not here, so a read-only probe never touches disk.
func New(path string) *Store {
	return &Store{path: path}
}

// document mirrors ledger.State but keeps both fields raw so one
// malformed field cannot poison the other.
type document struct {
	StartingBalance json.RawMessage `json:"startingBalance"`
	Transactions    json.RawMessage `json:"transactions"`
}

// record accepts the persisted transaction shape with a tolerant
// amount field: decimal string or bare JSON number.
type record struct {
	ID          string      `json:"id"`
	Kind        string      `json:"kind"`
	Date        string      `json:"date"`
	Amount      json.Number `json:"amount"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
}

// LoadState reads the document. A missing file is ErrNotFound; a file
// that does not parse at all, or a field that does not parse, falls
// back to that field's default with a warning.
func (s *Store) LoadState(ctx context.Context) (ledger.State, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return ledger.State{}, ledger.ErrNotFound
	}
	if err != nil {
		return ledger.State{}, fmt.Errorf("read ledger file: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		slog.WarnContext(ctx, "Ledger file is not valid JSON, starting empty",
			"path", s.path, "error", err)
		return ledger.State{}, nil
	}

	state := ledger.State{}
	state.StartingBalance = decodeBalance(ctx, doc.StartingBalance)
	state.Transactions = decodeTransactions(ctx, doc.Transactions)
	return state, nil
}

// SaveState writes the document atomically: temp file in the same
// directory, then rename over the target.
func (s *Store) SaveState(_ context.Context, state ledger.State) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create ledger directory: %w", err)
	}

	records := make([]record, len(state.Transactions))
	for i, tx := range state.Transactions {
		records[i] = record{
			ID:          tx.ID,
			Kind:        tx.Kind,
			Date:        tx.Date,
			Amount:      json.Number(tx.Amount),
			Description: tx.Description,
			Category:    tx.Category,
		}
	}
	doc := struct {
		StartingBalance string   `json:"startingBalance"`
		Transactions    []record `json:"transactions"`
	}{
		StartingBalance: state.StartingBalance,
		Transactions:    records,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal ledger state: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".ledger-*.json")
	if err != nil {
		return fmt.Errorf("create temp ledger file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write ledger file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close ledger file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace ledger file: %w", err)
	}
	return nil
}

// decodeBalance accepts a JSON string or number. Anything else is a
// malformed field and resets to the default.
func decodeBalance(ctx context.Context, raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString
	}
	var asNumber json.Number
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return asNumber.String()
	}
	slog.WarnContext(ctx, "Malformed startingBalance field, using default",
		"value", string(raw))
	return ""
}

func decodeTransactions(ctx context.Context, raw json.RawMessage) []ledger.Record {
	if len(raw) == 0 {
		return nil
	}
	var records []record
	if err := json.Unmarshal(raw, &records); err != nil {
		slog.WarnContext(ctx, "Malformed transactions field, using empty set",
			"error", err)
		return nil
	}
	out := make([]ledger.Record, len(records))
	for i, r := range records {
		out[i] = ledger.Record{
			ID:          r.ID,
			Kind:        r.Kind,
			Date:        r.Date,
			Amount:      r.Amount.String(),
			Description: r.Description,
			Category:    r.Category,
		}
	}
	return out
}
