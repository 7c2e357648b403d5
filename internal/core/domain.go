package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

const (
	// DefaultCategory is applied when a transaction is created without one.
	DefaultCategory = "Uncategorized"

	dateLayout = "2006-01-02"
)

type (
	// Kind marks a transaction as money coming in or going out.
	// The amount itself is always a non-negative magnitude.
	Kind string

	// Date is a pure calendar date (YYYY-MM-DD), no time component and
	// no timezone shifting.
	Date struct {
		time.Time
	}

	// Transaction is one recorded income or expense event. It is
	// immutable once created; the only mutation path is deletion.
	Transaction struct {
		ID          string
		Kind        Kind
		Date        Date
		Amount      decimal.Decimal
		Description string
		Category    string
	}
)

// ValidationError reports a rejected mutation input. It is the only
// caller-visible failure class in the core; everything else degrades to
// a default instead of failing.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValid reports whether the kind is one of the two known values.
func (k Kind) IsValid() bool {
	return k == Income || k == Expense
}

// DefaultDescription returns the description applied when a transaction
// of this kind is created without one.
func (k Kind) DefaultDescription() string {
	if k == Income {
		return "Income"
	}
	return "Expense"
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, NewValidationError("date", "missing")
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, NewValidationError("date", "must be YYYY-MM-DD")
	}
	return Date{Time: t}, nil
}

// String renders the date back to ISO YYYY-MM-DD form. Lexicographic
// comparison of the result matches chronological order.
func (d Date) String() string {
	return d.Format(dateLayout)
}

// Before reports whether d falls on an earlier calendar day than other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// DisplayDescription returns the stored description, or the kind
// default when blank.
func (t Transaction) DisplayDescription() string {
	if strings.TrimSpace(t.Description) == "" {
		return t.Kind.DefaultDescription()
	}
	return t.Description
}

// Signed returns the amount with the sign implied by the kind: positive
// for income, negative for expense.
func (t Transaction) Signed() decimal.Decimal {
	if t.Kind == Expense {
		return t.Amount.Neg()
	}
	return t.Amount
}
