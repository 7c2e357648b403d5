package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"ledger/internal/aggregate"
	"ledger/internal/core"
	"ledger/internal/ledger"
)

type addTransactionRequest struct {
	Kind        string `json:"kind"`
	Date        string `json:"date"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	var req addTransactionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	tx, err := s.svc.AddTransaction(ctx, ledger.AddInput{
		Kind:        core.Kind(strings.ToLower(strings.TrimSpace(req.Kind))),
		Date:        req.Date,
		Amount:      req.Amount,
		Description: sanitizeInput(req.Description),
		Category:    sanitizeInput(req.Category),
	})
	if err != nil {
		var verr *core.ValidationError
		if errors.As(err, &verr) {
			writeValidationError(w, verr)
			return
		}
		slog.ErrorContext(ctx, "Add transaction failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.invalidateMonthViews()
	writeJSON(w, http.StatusCreated, toTransactionJSON(tx))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	// Unknown ids are a no-op; deletion is idempotent either way.
	removed := s.svc.DeleteTransaction(ctx, id)
	if removed {
		s.invalidateMonthViews()
	}
	w.WriteHeader(http.StatusNoContent)
}

type deleteTransactionRequest struct {
	ID string `json:"id"`
}

// handleDeleteTransactionBody is the body-based alias for clients that
// cannot issue DELETE requests.
func (s *Server) handleDeleteTransactionBody(w http.ResponseWriter, r *http.Request) {
	var req deleteTransactionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "missing transaction id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if s.svc.DeleteTransaction(ctx, req.ID) {
		s.invalidateMonthViews()
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	snap := s.svc.Snapshot()
	writeJSON(w, http.StatusOK, struct {
		Transactions []transactionJSON `json:"transactions"`
		Count        int               `json:"count"`
	}{
		Transactions: toTransactionListJSON(snap.Transactions),
		Count:        len(snap.Transactions),
	})
}

type setStartingBalanceRequest struct {
	Value string `json:"value"`
}

func (s *Server) handleSetStartingBalance(w http.ResponseWriter, r *http.Request) {
	var req setStartingBalanceRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	balance := s.svc.SetStartingBalance(ctx, req.Value)

	s.invalidateMonthViews()
	writeJSON(w, http.StatusOK, struct {
		StartingBalance string `json:"startingBalance"`
	}{StartingBalance: balance.String()})
}

func (s *Server) handleGetBalance(w http.ResponseWriter, r *http.Request) {
	snap := s.svc.Snapshot()
	balance := aggregate.ComputeBalance(snap)

	writeJSON(w, http.StatusOK, struct {
		StartingBalance string `json:"startingBalance"`
		TotalIncome     string `json:"totalIncome"`
		TotalExpense    string `json:"totalExpense"`
		CurrentBalance  string `json:"currentBalance"`
	}{
		StartingBalance: snap.StartingBalance.String(),
		TotalIncome:     balance.TotalIncome.String(),
		TotalExpense:    balance.TotalExpense.String(),
		CurrentBalance:  balance.CurrentBalance.String(),
	})
}

type monthlyViewResponse struct {
	Month        string            `json:"month"`
	Added        string            `json:"added"`
	Spent        string            `json:"spent"`
	Transactions []transactionJSON `json:"transactions"`
}

func (s *Server) handleMonthlyView(w http.ResponseWriter, r *http.Request) {
	month := parseYearMonth(r).Add(parseOffset(r))
	if !month.IsValid() {
		writeError(w, http.StatusBadRequest, "month out of range")
		return
	}

	view := s.getMonthlyView(r.Context(), month)
	writeJSON(w, http.StatusOK, monthlyViewResponse{
		Month:        view.Month.String(),
		Added:        view.Added.String(),
		Spent:        view.Spent.String(),
		Transactions: toTransactionListJSON(view.Transactions),
	})
}

func (s *Server) getMonthlyView(ctx context.Context, month core.YearMonth) aggregate.MonthlyView {
	key := month.String()

	if view, found := s.monthCache.Get(key); found {
		slog.DebugContext(ctx, "Month view cache hit", "month", key)
		return view
	}

	view := aggregate.ComputeMonthlyView(s.svc.Snapshot(), month)
	s.monthCache.Set(key, view)
	slog.DebugContext(ctx, "Month view cached", "month", key, "count", len(view.Transactions))
	return view
}
