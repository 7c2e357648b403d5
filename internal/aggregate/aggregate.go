// Package aggregate derives read-only views from a ledger snapshot:
// the running balance and the month-scoped transaction view. All
// functions are pure; callers decide caching policy.
package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"

	"ledger/internal/core"
	"ledger/internal/ledger"
)

// Balance is the global running balance derived from a snapshot.
type Balance struct {
	TotalIncome    decimal.Decimal
	TotalExpense   decimal.Decimal
	CurrentBalance decimal.Decimal
}

// MonthlyView holds the transactions of one calendar month, sorted
// newest-first, plus the month's income and expense totals.
type MonthlyView struct {
	Month        core.YearMonth
	Transactions []core.Transaction
	Added        decimal.Decimal
	Spent        decimal.Decimal
}

// ComputeBalance sums income and expense amounts over the whole
// snapshot. An empty ledger yields the starting balance unchanged.
func ComputeBalance(snap ledger.Snapshot) Balance {
	income := decimal.Zero
	expense := decimal.Zero
	for _, tx := range snap.Transactions {
		switch tx.Kind {
		case core.Income:
			income = income.Add(tx.Amount)
		case core.Expense:
			expense = expense.Add(tx.Amount)
		}
	}
	return Balance{
		TotalIncome:    income,
		TotalExpense:   expense,
		CurrentBalance: snap.StartingBalance.Add(income).Sub(expense),
	}
}

// ComputeMonthlyView filters the snapshot down to the given calendar
// month (first and last day inclusive) and sorts descending by date.
// Transactions sharing a date keep their ledger order, which is
// newest-added-first. The returned slice is fresh on every call.
func ComputeMonthlyView(snap ledger.Snapshot, month core.YearMonth) MonthlyView {
	view := MonthlyView{
		Month: month,
		Added: decimal.Zero,
		Spent: decimal.Zero,
	}
	for _, tx := range snap.Transactions {
		if !month.Contains(tx.Date) {
			continue
		}
		view.Transactions = append(view.Transactions, tx)
		switch tx.Kind {
		case core.Income:
			view.Added = view.Added.Add(tx.Amount)
		case core.Expense:
			view.Spent = view.Spent.Add(tx.Amount)
		}
	}
	sort.SliceStable(view.Transactions, func(i, j int) bool {
		return view.Transactions[j].Date.Before(view.Transactions[i].Date)
	})
	return view
}
