package core

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// Names of the required fields.
const (
	FieldType     = "type"
	FieldCategory = "category"
	FieldAmount   = "amount"
	FieldDate     = "date"
)

type (
	TransactionType string

	// Fields holds the mutable part of a transaction. Create and Update
	// both take the full shape; partial updates are not supported.
	Fields struct {
		Type        TransactionType
		Category    string
		Amount      decimal.Decimal
		Date        string // opaque, stored as given
		Description *string
		// Absent names required fields the caller did not send at all.
		// Stores write them as NULL so the schema rejects the record.
		Absent []string
	}

	Transaction struct {
		ID int64
		Fields
	}
)

// IsValid reports whether t is one of the two accepted types.
func (t TransactionType) IsValid() bool {
	switch t {
	case Income, Expense:
		return true
	default:
		return false
	}
}

func (t TransactionType) String() string {
	return string(t)
}

// ValidateForCreate checks that every mandatory field is present.
//
// Presence follows the historical truthiness rule: empty strings and a zero
// amount count as missing. A zero-value entry is therefore rejected even
// though it is a plausible record. The type value itself is not checked
// here; the storage layer owns that constraint.
func (f Fields) ValidateForCreate() error {
	var missing []string
	if strings.TrimSpace(string(f.Type)) == "" || f.IsAbsent(FieldType) {
		missing = append(missing, FieldType)
	}
	if strings.TrimSpace(f.Category) == "" || f.IsAbsent(FieldCategory) {
		missing = append(missing, FieldCategory)
	}
	if f.Amount.IsZero() || f.IsAbsent(FieldAmount) {
		missing = append(missing, FieldAmount)
	}
	if strings.TrimSpace(f.Date) == "" || f.IsAbsent(FieldDate) {
		missing = append(missing, FieldDate)
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

// IsAbsent reports whether the named required field was left out.
func (f Fields) IsAbsent(name string) bool {
	return slices.Contains(f.Absent, name)
}

// DescriptionOrEmpty returns the description text, or "" when absent.
func (f Fields) DescriptionOrEmpty() string {
	if f.Description == nil {
		return ""
	}
	return *f.Description
}

// StringPtr is a small helper for optional text fields.
func StringPtr(s string) *string {
	return &s
}
