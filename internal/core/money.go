// Package core holds the transaction model, its error taxonomy and the
// summary aggregation rule.
//
// This file contains helpers for reading and rendering amounts.
package core

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("invalid amount")

// ParseAmount converts user input to a decimal amount.
//
// Both dot (12.34) and comma (12,34) decimal separators are accepted.
// An empty string yields zero so that callers can apply the presence rule
// themselves.
//
// Examples:
//
//	ParseAmount("12.34") -> 12.34, nil
//	ParseAmount("12,34") -> 12.34, nil
//	ParseAmount("")      -> 0, nil
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// AmountNumber renders an amount as a JSON number without losing precision.
func AmountNumber(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}
