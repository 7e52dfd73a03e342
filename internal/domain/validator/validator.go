// Package validator holds the client-side field checks run before a payment
// is submitted.
package validator

import (
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	FieldRecipientEmail = "recipientEmail"
	FieldAmount         = "amount"
	FieldCurrency       = "currency"
)

var emailRegex = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// IsValidEmail reports whether s has a local part, '@', a domain and a
// suffix of at least two letters. Surrounding whitespace is ignored.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && emailRegex.MatchString(s)
}

// IsPositiveAmount reports whether s is a decimal strictly above zero that
// survives the conversion to the float64 sent on the wire.
func IsPositiveAmount(s string) bool {
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsPositive() {
		return false
	}
	f := d.InexactFloat64()
	return f > 0 && !math.IsInf(f, 0)
}

func IsNonEmptyCurrency(s string) bool {
	return s != ""
}

// Validate checks email, amount and currency in that order and returns the
// first failure.
func Validate(email, amount, currency string) error {
	if !IsValidEmail(email) {
		return &ValidationError{Field: FieldRecipientEmail, Message: "Provide a valid email address"}
	}
	if !IsPositiveAmount(amount) {
		return &ValidationError{Field: FieldAmount, Message: "Provide a valid amount"}
	}
	if !IsNonEmptyCurrency(currency) {
		return &ValidationError{Field: FieldCurrency, Message: "Select a currency"}
	}
	return nil
}
