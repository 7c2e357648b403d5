package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2025-01-01", true},
		{"2024-02-29", true}, // leap day
		{"2025-12-31", true},
		{"  2025-06-15  ", true},
		{"", false},
		{"2025-13-01", false},
		{"2025-02-30", false},
		{"01/02/2025", false},
		{"not a date", false},
	}
	for i, tc := range cases {
		d, err := ParseDate(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("case %d: expected ok, got %v", i, err)
		}
		if !tc.ok {
			if err == nil {
				t.Fatalf("case %d: expected error", i)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("case %d: expected ValidationError, got %T", i, err)
			}
			continue
		}
		if got := d.String(); got != "2025-01-01" && i == 0 {
			t.Fatalf("case %d: round trip produced %q", i, got)
		}
	}
}

func TestDateStringOrdering(t *testing.T) {
	earlier := NewDate(2024, 1, 10)
	later := NewDate(2024, 1, 15)
	if !earlier.Before(later) {
		t.Fatal("expected 2024-01-10 before 2024-01-15")
	}
	if !(earlier.String() < later.String()) {
		t.Fatal("lexicographic order should match chronological order")
	}
}

func TestKindDefaults(t *testing.T) {
	if got := Income.DefaultDescription(); got != "Income" {
		t.Fatalf("income default = %q", got)
	}
	if got := Expense.DefaultDescription(); got != "Expense" {
		t.Fatalf("expense default = %q", got)
	}
	if !Income.IsValid() || !Expense.IsValid() {
		t.Fatal("known kinds should be valid")
	}
	if Kind("transfer").IsValid() {
		t.Fatal("unknown kind should be invalid")
	}
}

func TestTransactionSigned(t *testing.T) {
	amount := decimal.RequireFromString("12.50")
	in := Transaction{Kind: Income, Amount: amount}
	out := Transaction{Kind: Expense, Amount: amount}

	if !in.Signed().Equal(amount) {
		t.Fatalf("income signed = %s", in.Signed())
	}
	if !out.Signed().Equal(amount.Neg()) {
		t.Fatalf("expense signed = %s", out.Signed())
	}
}

func TestDisplayDescription(t *testing.T) {
	tr := Transaction{Kind: Expense, Description: "  "}
	if got := tr.DisplayDescription(); got != "Expense" {
		t.Fatalf("blank description should fall back to kind default, got %q", got)
	}
	tr.Description = "Groceries"
	if got := tr.DisplayDescription(); got != "Groceries" {
		t.Fatalf("got %q", got)
	}
}
