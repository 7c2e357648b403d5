// Package core provides the ledger domain types and parsing utilities.
//
// This file contains functions for parsing monetary amounts from user
// input. Amounts are decimal values, never binary floats, so sums do not
// accumulate rounding drift.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a decimal string into an exact decimal amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators.
// The result must be non-negative; the direction of a transaction is
// carried by its Kind, never by a sign on the amount.
//
// Examples:
//
//	ParseAmount("12.34") -> 12.34, nil
//	ParseAmount("12,34") -> 12.34, nil
//	ParseAmount("0")     -> 0, nil
//	ParseAmount("-5")    -> error
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, NewValidationError("amount", "missing")
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, NewValidationError("amount", "must be a number")
	}
	if d.IsNegative() {
		return decimal.Zero, NewValidationError("amount", "must not be negative")
	}
	return d, nil
}

// ParseBalance parses a starting balance value. Unlike transaction
// amounts a balance may be negative (representing debt). A value that
// does not parse degrades to zero rather than failing; the caller only
// learns about the fallback through the second return value.
func ParseBalance(s string) (decimal.Decimal, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
