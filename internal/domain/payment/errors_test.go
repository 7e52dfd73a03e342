package payment_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Xausdorf/cashi/internal/domain/payment"
)

func TestKindForCode(t *testing.T) {
	tests := map[string]payment.ErrorKind{
		"INSUFFICIENT_FUNDS":      payment.KindInsufficientFunds,
		"INVALID_EMAIL":           payment.KindRecipientNotFound,
		"INVALID_AMOUNT":          payment.KindInvalidAmount,
		"INVALID_CURRENCY":        payment.KindUnsupportedCurrency,
		"MISSING_REQUIRED_FIELDS": payment.KindUnknown,
		"insufficient_funds":      payment.KindUnknown,
		"":                        payment.KindUnknown,
	}

	for code, want := range tests {
		assert.Equal(t, want, payment.KindForCode(code), code)
	}
}

func TestError_IsMatchesKind(t *testing.T) {
	err := fmt.Errorf("submit: %w", payment.NewError(payment.KindInsufficientFunds, "Insufficient funds"))

	assert.ErrorIs(t, err, payment.ErrInsufficientFunds)
	assert.NotErrorIs(t, err, payment.ErrInvalidAmount)
}

func TestNewError_DefaultMessage(t *testing.T) {
	err := payment.NewError(payment.KindUnknown, "")
	assert.Equal(t, payment.DefaultErrorMessage, err.Message)
}

func TestNetworkError_KeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := payment.NewNetworkError(cause)

	assert.Equal(t, payment.NetworkErrorMessage, err.Message)
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, payment.ErrNetwork)
}
