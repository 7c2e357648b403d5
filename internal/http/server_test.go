package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"ledger/internal/ledger"
	"ledger/internal/persistence/memory"
	"ledger/internal/services"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	l := ledger.New(memory.New())
	l.Load(context.Background())

	svc := services.NewLedgerService(l, nil, nil)
	s := NewServer(":0", svc)
	t.Cleanup(func() {
		_ = s.Shutdown(context.Background())
	})
	return s
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeInto(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestHandleAddTransaction(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/transactions", addTransactionRequest{
		Kind:   "income",
		Date:   "2025-01-10",
		Amount: "500",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var tx transactionJSON
	decodeInto(t, rec, &tx)
	if tx.ID == "" {
		t.Fatal("expected generated id")
	}
	if tx.Kind != "income" || tx.Date != "2025-01-10" || tx.Amount != "500" {
		t.Fatalf("unexpected transaction: %+v", tx)
	}
	if tx.Description != "Income" {
		t.Fatalf("description = %q, want default", tx.Description)
	}
	if tx.Category != "Uncategorized" {
		t.Fatalf("category = %q, want default", tx.Category)
	}
}

func TestHandleAddTransactionValidation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name  string
		req   addTransactionRequest
		field string
	}{
		{
			name:  "unknown kind",
			req:   addTransactionRequest{Kind: "transfer", Date: "2025-01-10", Amount: "10"},
			field: "kind",
		},
		{
			name:  "bad date",
			req:   addTransactionRequest{Kind: "expense", Date: "10/01/2025", Amount: "10"},
			field: "date",
		},
		{
			name:  "negative amount",
			req:   addTransactionRequest{Kind: "expense", Date: "2025-01-10", Amount: "-5"},
			field: "amount",
		},
		{
			name:  "non-numeric amount",
			req:   addTransactionRequest{Kind: "expense", Date: "2025-01-10", Amount: "lots"},
			field: "amount",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, s, http.MethodPost, "/transactions", tt.req)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status = %d, want 422", rec.Code)
			}
			var body errorResponse
			decodeInto(t, rec, &body)
			if body.Field != tt.field {
				t.Fatalf("field = %q, want %q", body.Field, tt.field)
			}
		})
	}

	rec := doJSON(t, s, http.MethodGet, "/transactions", nil)
	var list struct {
		Count int `json:"count"`
	}
	decodeInto(t, rec, &list)
	if list.Count != 0 {
		t.Fatalf("rejected transactions must not be stored, count = %d", list.Count)
	}
}

func TestHandleAddTransactionBadBody(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandleDeleteTransaction(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/transactions", addTransactionRequest{
		Kind: "expense", Date: "2025-01-10", Amount: "25",
	})
	var tx transactionJSON
	decodeInto(t, rec, &tx)

	rec = doJSON(t, s, http.MethodDelete, "/transactions/"+tx.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}

	// Unknown ids are still a success.
	rec = doJSON(t, s, http.MethodDelete, "/transactions/does-not-exist", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("idempotent delete status = %d", rec.Code)
	}

	rec = doJSON(t, s, http.MethodGet, "/transactions", nil)
	var list struct {
		Count int `json:"count"`
	}
	decodeInto(t, rec, &list)
	if list.Count != 0 {
		t.Fatalf("count = %d after delete", list.Count)
	}
}

func TestHandleDeleteTransactionBodyAlias(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/transactions", addTransactionRequest{
		Kind: "expense", Date: "2025-01-10", Amount: "25",
	})
	var tx transactionJSON
	decodeInto(t, rec, &tx)

	rec = doJSON(t, s, http.MethodPost, "/transactions/delete", deleteTransactionRequest{ID: tx.ID})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}

	rec = doJSON(t, s, http.MethodPost, "/transactions/delete", deleteTransactionRequest{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing id status = %d", rec.Code)
	}

	rec = doJSON(t, s, http.MethodGet, "/transactions", nil)
	var list struct {
		Count int `json:"count"`
	}
	decodeInto(t, rec, &list)
	if list.Count != 0 {
		t.Fatalf("count = %d after alias delete", list.Count)
	}
}

func TestHandleBalance(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPut, "/balance/starting", setStartingBalanceRequest{Value: "1000"})
	if rec.Code != http.StatusOK {
		t.Fatalf("set balance status = %d", rec.Code)
	}
	var set struct {
		StartingBalance string `json:"startingBalance"`
	}
	decodeInto(t, rec, &set)
	if set.StartingBalance != "1000" {
		t.Fatalf("startingBalance = %q", set.StartingBalance)
	}

	doJSON(t, s, http.MethodPost, "/transactions", addTransactionRequest{
		Kind: "income", Date: "2025-01-10", Amount: "500",
	})
	doJSON(t, s, http.MethodPost, "/transactions", addTransactionRequest{
		Kind: "expense", Date: "2025-01-15", Amount: "200",
	})

	rec = doJSON(t, s, http.MethodGet, "/balance", nil)
	var balance struct {
		StartingBalance string `json:"startingBalance"`
		TotalIncome     string `json:"totalIncome"`
		TotalExpense    string `json:"totalExpense"`
		CurrentBalance  string `json:"currentBalance"`
	}
	decodeInto(t, rec, &balance)

	if balance.CurrentBalance != "1300" {
		t.Fatalf("currentBalance = %q, want 1300", balance.CurrentBalance)
	}
	if balance.TotalIncome != "500" || balance.TotalExpense != "200" {
		t.Fatalf("totals = %q / %q", balance.TotalIncome, balance.TotalExpense)
	}
}

func TestHandleSetStartingBalanceUnparseable(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPut, "/balance/starting", setStartingBalanceRequest{Value: "abc"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var set struct {
		StartingBalance string `json:"startingBalance"`
	}
	decodeInto(t, rec, &set)
	if set.StartingBalance != "0" {
		t.Fatalf("startingBalance = %q, want 0 fallback", set.StartingBalance)
	}
}

func TestHandleMonthlyView(t *testing.T) {
	s := newTestServer(t)

	for _, tx := range []addTransactionRequest{
		{Kind: "income", Date: "2025-01-10", Amount: "500", Description: "salary"},
		{Kind: "expense", Date: "2025-01-15", Amount: "200", Description: "rent"},
		{Kind: "expense", Date: "2025-02-01", Amount: "50", Description: "other month"},
	} {
		rec := doJSON(t, s, http.MethodPost, "/transactions", tx)
		if rec.Code != http.StatusCreated {
			t.Fatalf("seed failed: %d", rec.Code)
		}
	}

	rec := doJSON(t, s, http.MethodGet, "/months?year=2025&month=1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var view monthlyViewResponse
	decodeInto(t, rec, &view)
	if view.Month != "2025-01" {
		t.Fatalf("month = %q", view.Month)
	}
	if view.Added != "500" || view.Spent != "200" {
		t.Fatalf("added/spent = %q / %q", view.Added, view.Spent)
	}
	if len(view.Transactions) != 2 {
		t.Fatalf("transactions = %d, want 2", len(view.Transactions))
	}
	// Descending by date.
	if view.Transactions[0].Description != "rent" || view.Transactions[1].Description != "salary" {
		t.Fatalf("unexpected order: %+v", view.Transactions)
	}
}

func TestHandleMonthlyViewOffset(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		query string
		month string
	}{
		{"/months?year=2025&month=1&offset=1", "2025-02"},
		{"/months?year=2025&month=1&offset=-1", "2024-12"},
		{"/months?year=2024&month=12&offset=13", "2026-01"},
	}

	for _, tt := range tests {
		rec := doJSON(t, s, http.MethodGet, tt.query, nil)
		var view monthlyViewResponse
		decodeInto(t, rec, &view)
		if view.Month != tt.month {
			t.Fatalf("%s: month = %q, want %q", tt.query, view.Month, tt.month)
		}
	}
}

func TestMonthlyViewCacheInvalidation(t *testing.T) {
	s := newTestServer(t)

	doJSON(t, s, http.MethodPost, "/transactions", addTransactionRequest{
		Kind: "expense", Date: "2025-03-05", Amount: "10",
	})

	rec := doJSON(t, s, http.MethodGet, "/months?year=2025&month=3", nil)
	var view monthlyViewResponse
	decodeInto(t, rec, &view)
	if len(view.Transactions) != 1 {
		t.Fatalf("transactions = %d", len(view.Transactions))
	}

	// A later mutation must not serve the stale cached view.
	doJSON(t, s, http.MethodPost, "/transactions", addTransactionRequest{
		Kind: "expense", Date: "2025-03-06", Amount: "20",
	})

	rec = doJSON(t, s, http.MethodGet, "/months?year=2025&month=3", nil)
	decodeInto(t, rec, &view)
	if len(view.Transactions) != 2 {
		t.Fatalf("transactions = %d after mutation, want 2", len(view.Transactions))
	}
	if view.Spent != "30" {
		t.Fatalf("spent = %q, want 30", view.Spent)
	}
}

func TestListTransactionsNewestFirst(t *testing.T) {
	s := newTestServer(t)

	for i := 0; i < 3; i++ {
		doJSON(t, s, http.MethodPost, "/transactions", addTransactionRequest{
			Kind:        "expense",
			Date:        "2025-01-10",
			Amount:      "1",
			Description: fmt.Sprintf("tx-%d", i),
		})
	}

	rec := doJSON(t, s, http.MethodGet, "/transactions", nil)
	var list struct {
		Transactions []transactionJSON `json:"transactions"`
		Count        int               `json:"count"`
	}
	decodeInto(t, rec, &list)

	if list.Count != 3 {
		t.Fatalf("count = %d", list.Count)
	}
	for i, want := range []string{"tx-2", "tx-1", "tx-0"} {
		if list.Transactions[i].Description != want {
			t.Fatalf("position %d = %q, want %q", i, list.Transactions[i].Description, want)
		}
	}
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := doJSON(t, s, http.MethodGet, path, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s status = %d", path, rec.Code)
		}
	}
}

func TestSecurityHeadersApplied(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/balance", nil)
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("X-Content-Type-Options = %q", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Fatalf("X-Frame-Options = %q", got)
	}
}
